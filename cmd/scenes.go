package cmd

import (
	"bytes"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes lists the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description", "Primitives", "Lights", "Size"})
	for _, info := range scene.List() {
		sc, err := scene.Load(info.Name)
		if err != nil {
			logger.Error(err)
			return err
		}
		table.Append([]string{
			info.Name,
			info.Description,
			fmt.Sprintf("%d", len(sc.Primitives)),
			fmt.Sprintf("%d", len(sc.Lights)),
			fmt.Sprintf("%dx%d", sc.Width, sc.Height),
		})
	}
	table.Render()
	logger.Noticef("built-in scenes\n%s", buf.String())
	return nil
}
