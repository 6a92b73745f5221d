package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/imageio"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// RenderFlags are the flags accepted by the render command
var RenderFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Usage: "frame width (default: scene width)",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height (default: scene height)",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "output file; the extension picks png, bmp, tiff or rawz (default: output/<scene>/render_<timestamp>.png)",
	},
	cli.StringFlag{
		Name:  "raw",
		Usage: "also dump the unclamped frame to this .rawz file",
	},
	cli.IntFlag{
		Name:  "samples, s",
		Value: 1,
		Usage: "supersampling width: s*s rays per pixel",
	},
	cli.IntFlag{
		Name:  "depth",
		Value: 5,
		Usage: "maximum reflection/refraction depth",
	},
	cli.Float64Flag{
		Name:  "attenuation",
		Value: 0.5,
		Usage: "scale applied to mirror reflections",
	},
	cli.Float64Flag{
		Name:  "epsilon",
		Value: core.DefaultEpsilon,
		Usage: "self-intersection distance for spawned rays",
	},
	cli.IntFlag{
		Name:  "workers, w",
		Value: 0,
		Usage: "render workers (0 = one per logical CPU)",
	},
	cli.IntFlag{
		Name:  "tile",
		Value: 16,
		Usage: "sample rays per packet side",
	},
	cli.BoolFlag{
		Name:  "no-bih",
		Usage: "test every primitive instead of using the BIH",
	},
	cli.BoolFlag{
		Name:  "no-packets",
		Usage: "trace rays one at a time instead of in packets",
	},
	cli.BoolFlag{
		Name:  "nearest",
		Usage: "nearest texel lookups instead of bilinear interpolation",
	},
	cli.BoolFlag{
		Name:  "black",
		Usage: "black background instead of the screen gradient",
	},
	cli.IntFlag{
		Name:  "bih-depth",
		Value: accel.DefaultMaxDepth,
		Usage: "maximum BIH depth",
	},
	cli.IntFlag{
		Name:  "bih-leaf",
		Value: accel.DefaultLeafSize,
		Usage: "primitives per BIH leaf before splitting stops",
	},
	cli.StringFlag{
		Name:  "ply",
		Usage: "add the mesh from this PLY file to the scene",
	},
	cli.StringFlag{
		Name:  "ply-at",
		Value: "0,0,0",
		Usage: "position of the PLY mesh as x,y,z",
	},
	cli.Float64Flag{
		Name:  "ply-scale",
		Value: 1,
		Usage: "uniform scale of the PLY mesh",
	},
}

// renderConfig maps command flags onto a render configuration
func renderConfig(ctx *cli.Context) (tracer.RenderConfig, error) {
	config := tracer.DefaultRenderConfig()
	config.UseBIH = !ctx.Bool("no-bih")
	config.UsePackets = !ctx.Bool("no-packets")
	config.Interpolate = !ctx.Bool("nearest")
	config.BlackBackground = ctx.Bool("black")
	config.MaxDepth = ctx.Int("depth")
	config.ReflectionAttenuation = ctx.Float64("attenuation")
	config.Epsilon = ctx.Float64("epsilon")
	config.Workers = ctx.Int("workers")
	config.TileSize = ctx.Int("tile")
	config.SampleWidth = ctx.Int("samples")
	config.BIHMaxDepth = ctx.Int("bih-depth")
	config.BIHLeafSize = ctx.Int("bih-leaf")

	if config.Workers == 0 {
		config.Workers = logicalCPUs()
	}
	// Round the tile up to a whole number of pixels
	if config.SampleWidth > 0 && config.TileSize%config.SampleWidth != 0 {
		config.TileSize += config.SampleWidth - config.TileSize%config.SampleWidth
		logger.Noticef("rounding tile size up to %d sample rays", config.TileSize)
	}

	return config, config.Validate()
}

// parseVec3 parses "x,y,z"
func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}

	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid component %q in %q", p, s)
		}
		v[i] = f
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

// loadScene builds the scene named by the first argument and adds the PLY mesh if requested
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	name := ctx.Args().First()
	if name == "" {
		name = "default"
	}
	sc, err := scene.Load(name)
	if err != nil {
		return nil, err
	}

	plyFile := ctx.String("ply")
	if plyFile == "" {
		return sc, nil
	}

	at, err := parseVec3(ctx.String("ply-at"))
	if err != nil {
		return nil, err
	}
	scale := ctx.Float64("ply-scale")
	mesh, err := scene.NewBuilder("ply").
		Translate(at).
		Scale(core.NewVec3(scale, scale, scale)).
		Material(material.NewPhong(core.NewVec3(0.7, 0.7, 0.7), core.NewVec3(0.3, 0.3, 0.3), 20)).
		MeshFile(plyFile).
		Build()
	if err != nil {
		return nil, err
	}
	sc.Primitives = append(sc.Primitives, mesh.Primitives...)
	return sc, nil
}

// outputPath returns out, or a timestamped PNG under output/<scene> when out
// is empty. The directory of the returned path exists.
func outputPath(out, sceneName string, now time.Time) (string, error) {
	if out == "" {
		out = filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return out, nil
}

// RenderFrame renders a single frame of a built-in scene.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)
	logHostInfo()

	config, err := renderConfig(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}

	sc, err := loadScene(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}
	logger.Noticef(`rendering scene "%s": %d primitives, %d lights`, sc.Name, len(sc.Primitives), len(sc.Lights))

	r, err := sc.NewRenderer(config, ctx.Int("width"), ctx.Int("height"))
	if err != nil {
		logger.Error(err)
		return err
	}

	frame, stats, err := r.Render()
	if err != nil {
		logger.Error(err)
		return err
	}

	out, err := outputPath(ctx.String("out"), sc.Name, time.Now())
	if err != nil {
		logger.Error(err)
		return err
	}
	outputs := []string{out}
	if raw := ctx.String("raw"); raw != "" {
		if !strings.HasSuffix(raw, ".rawz") {
			return errors.New("raw dump file must end in .rawz")
		}
		outputs = append(outputs, raw)
	}
	for _, path := range outputs {
		if err := imageio.Save(path, frame); err != nil {
			logger.Error(err)
			return err
		}
		logger.Noticef("saved %s", path)
	}

	displayFrameStats(stats)
	return nil
}

func displayFrameStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Tiles", "% of frame"})
	for id, tiles := range stats.WorkerTiles {
		percent := 0.0
		if stats.Tiles > 0 {
			percent = 100 * float64(tiles) / float64(stats.Tiles)
		}
		table.Append([]string{
			fmt.Sprintf("%d", id),
			fmt.Sprintf("%d", tiles),
			fmt.Sprintf("%02.1f %%", percent),
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", stats.Tiles), fmt.Sprintf("%s", stats.Elapsed)})
	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())

	buf.Reset()
	rays := tablewriter.NewWriter(&buf)
	rays.SetAutoFormatHeaders(false)
	rays.SetHeader([]string{"Primary", "Shadow", "Reflection", "Refraction", "Max depth", "Rays/s"})
	rays.Append([]string{
		fmt.Sprintf("%d", stats.Rays.Primary),
		fmt.Sprintf("%d", stats.Rays.Shadow),
		fmt.Sprintf("%d", stats.Rays.Reflection),
		fmt.Sprintf("%d", stats.Rays.Refraction),
		fmt.Sprintf("%d", stats.Rays.MaxDepth),
		fmt.Sprintf("%.0f", stats.RaysPerSecond()),
	})
	rays.Render()
	logger.Noticef("ray statistics (%dx%d, %d samples)\n%s", stats.Width, stats.Height, stats.TotalSamples, buf.String())
}
