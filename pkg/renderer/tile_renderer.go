package renderer

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/tracer"
)

// TileRenderer traces the pixels of single tiles into a frame
type TileRenderer struct {
	tracer *tracer.Tracer
	camera *Camera
	config tracer.RenderConfig
}

// NewTileRenderer creates a tile renderer for the given tracer and camera
func NewTileRenderer(t *tracer.Tracer, camera *Camera) *TileRenderer {
	return &TileRenderer{
		tracer: t,
		camera: camera,
		config: t.Config(),
	}
}

// TileRays returns the sample rays of a tile in row-major sample order. Each
// pixel gets SampleWidth² rays on a regular grid centred on the pixel.
func (tr *TileRenderer) TileRays(tile *Tile) []core.Ray {
	s := tr.config.SampleWidth
	b := tile.Bounds
	cols := b.Dx() * s
	rows := b.Dy() * s

	rays := make([]core.Ray, 0, cols*rows)
	for row := 0; row < rows; row++ {
		y := float64(b.Min.Y) + (float64(row)+0.5)/float64(s) - 0.5
		for col := 0; col < cols; col++ {
			x := float64(b.Min.X) + (float64(col)+0.5)/float64(s) - 0.5
			rays = append(rays, tr.camera.GetRay(x, y).WithEpsilon(tr.config.Epsilon))
		}
	}
	return rays
}

// RenderTile traces every pixel of the tile and writes the averaged samples
// to the frame. It returns the number of sample rays traced.
func (tr *TileRenderer) RenderTile(tile *Tile, frame *Frame) int {
	rays := tr.TileRays(tile)
	colours := make([]core.Vec3, len(rays))
	hits := make([]bool, len(rays))

	if tr.config.UsePackets {
		ptrs := make([]*core.Ray, len(rays))
		for i := range rays {
			ptrs[i] = &rays[i]
		}
		tr.tracer.TracePacket(core.NewPacket(ptrs), colours, hits)
	} else {
		for i, ray := range rays {
			colours[i], hits[i] = tr.tracer.TraceRay(ray)
		}
	}

	tr.resolve(tile, colours, hits, frame)
	return len(rays)
}

// resolve averages the samples of each pixel, misses taking the pixel's background
func (tr *TileRenderer) resolve(tile *Tile, colours []core.Vec3, hits []bool, frame *Frame) {
	s := tr.config.SampleWidth
	b := tile.Bounds
	cols := b.Dx() * s
	weight := 1.0 / float64(s*s)

	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			background := tr.background(px, py)
			var sum core.Vec3
			for sy := 0; sy < s; sy++ {
				row := (py-b.Min.Y)*s + sy
				for sx := 0; sx < s; sx++ {
					i := row*cols + (px-b.Min.X)*s + sx
					if hits[i] {
						sum = sum.Add(colours[i])
					} else {
						sum = sum.Add(background)
					}
				}
			}
			frame.Set(px, py, sum.Multiply(weight))
		}
	}
}

func (tr *TileRenderer) background(x, y int) core.Vec3 {
	if tr.config.BlackBackground {
		return core.Vec3{}
	}
	return tr.camera.Background(x, y)
}
