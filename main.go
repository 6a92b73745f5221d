package main

import (
	"os"

	"github.com/df07/go-whitted-raytracer/cmd"
	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	bihFlags := []cli.Flag{
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

	app := cli.NewApp()
	app.Name = "whitted"
	app.Usage = "render scenes with a packet-traced Whitted raytracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame of a built-in scene",
			Description: `
Trace a frame of the named scene (default: "default") with Phong shading,
shadows, mirror reflection and refraction. Screen tiles are traced as ray
packets through a bounding interval hierarchy unless disabled.

The output format is picked from the file extension. A .rawz dump keeps the
unclamped colours and can be compared with the diff command.`,
			ArgsUsage: "[scene]",
			Flags:     cmd.RenderFlags,
			Action:    cmd.RenderFrame,
		},
		{
			Name:        "diff",
			Usage:       "compare two rendered frames",
			Description: `Report the per-channel difference between two frames saved by render.`,
			ArgsUsage:   "frame_a frame_b",
			Flags: []cli.Flag{
				cli.Float64Flag{
					Name:  "tolerance, t",
					Value: 1e-9,
					Usage: "largest channel difference treated as equal",
				},
				cli.BoolFlag{
					Name:  "strict",
					Usage: "fail when any pixel differs",
				},
			},
			Action: cmd.DiffFrames,
		},
		{
			Name:      "bih-stats",
			Usage:     "build the BIH of a scene and print its statistics",
			ArgsUsage: "[scene]",
			Flags:     bihFlags,
			Action:    cmd.BIHStats,
		},
		{
			Name:   "list-scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(1)
	}
}
