package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ErrFramesDiffer is returned by the diff command when --strict is set and
// some pixel differs by more than the tolerance
var ErrFramesDiffer = errors.New("frames differ")

// DiffFrames compares two saved frames.
func DiffFrames(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 2 {
		return errors.New("expected two frame files")
	}

	a, err := imageio.Load(ctx.Args().Get(0))
	if err != nil {
		logger.Error(err)
		return err
	}
	b, err := imageio.Load(ctx.Args().Get(1))
	if err != nil {
		logger.Error(err)
		return err
	}

	result, err := imageio.Diff(a, b, ctx.Float64("tolerance"))
	if err != nil {
		logger.Error(err)
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Size", "Max error", "Mean error", "PSNR", "Differing pixels"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", a.Width, a.Height),
		fmt.Sprintf("%g", result.MaxError),
		fmt.Sprintf("%g", result.MeanError),
		fmt.Sprintf("%.2f dB", result.PSNR),
		fmt.Sprintf("%d", result.DiffPixels),
	})
	table.Render()
	logger.Noticef("frame difference\n%s", buf.String())

	if ctx.Bool("strict") && result.DiffPixels > 0 {
		return fmt.Errorf("%d pixels: %w", result.DiffPixels, ErrFramesDiffer)
	}
	return nil
}
