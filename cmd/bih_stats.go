package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// BIHStats builds the BIH of a scene and reports the shape of the tree.
func BIHStats(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}

	opts := accel.Options{MaxDepth: ctx.Int("bih-depth"), LeafSize: ctx.Int("bih-leaf")}
	start := time.Now()
	tree := accel.Build(sc.Arena(), opts)
	elapsed := time.Since(start)
	stats := tree.Stats()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Primitives", fmt.Sprintf("%d", len(sc.Primitives))},
		{"Nodes", fmt.Sprintf("%d", stats.Nodes)},
		{"Leaves", fmt.Sprintf("%d", stats.Leaves)},
		{"Empty leaves", fmt.Sprintf("%d", stats.EmptyLeaves)},
		{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)},
		{"Max leaf size", fmt.Sprintf("%d", stats.MaxLeafSize)},
		{"Avg leaf size", fmt.Sprintf("%.2f", stats.AvgLeafSize)},
		{"Avg leaf depth", fmt.Sprintf("%.2f", stats.AvgLeafDepth)},
	})
	table.SetFooter([]string{"Build time", fmt.Sprintf("%s", elapsed)})
	table.Render()
	logger.Noticef(`BIH statistics for scene "%s"\n%s`, sc.Name, buf.String())
	return nil
}
