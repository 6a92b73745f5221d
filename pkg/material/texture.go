package material

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// texels is an image converted to linear [0,1] RGB, row-major
type texels struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Pixels[y*Width + x]
}

func newTexels(img image.Image) texels {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return texels{Width: width, Height: height, Pixels: pixels}
}

// at returns the texel at (x, y), clamping to the image edges
func (t texels) at(x, y int) core.Vec3 {
	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))
	return t.Pixels[y*t.Width+x]
}

// locate maps uv in [0,1]² to the top-left texel of the 2x2 lookup
// neighbourhood and the fractional offsets within it
func (t texels) locate(uv core.Vec2) (i, j int, fu, fv float64) {
	dx := float64(max(t.Width-2, 0)) * clamp(uv.X, 0, 1)
	dy := float64(max(t.Height-2, 0)) * clamp(uv.Y, 0, 1)

	i, j = int(dx), int(dy)
	return i, j, dx - float64(i), dy - float64(j)
}

// Texture supplies the diffuse colour of a surface from an image
type Texture struct {
	texels
}

// NewTexture creates a texture from a decoded image
func NewTexture(img image.Image) *Texture {
	return &Texture{texels: newTexels(img)}
}

// Colour samples the texture at uv. With interpolate set the four neighbouring
// texels are blended bilinearly, otherwise the nearest one is returned.
func (t *Texture) Colour(uv core.Vec2, interpolate bool) core.Vec3 {
	if len(t.Pixels) == 0 {
		return core.Vec3{}
	}

	i, j, fu, fv := t.locate(uv)
	if !interpolate {
		if fu >= 0.5 {
			i++
		}
		if fv >= 0.5 {
			j++
		}
		return t.at(i, j)
	}

	c00 := t.at(i, j)
	c01 := t.at(i, j+1)
	c10 := t.at(i+1, j)
	c11 := t.at(i+1, j+1)

	return c00.Multiply((1 - fu) * (1 - fv)).
		Add(c01.Multiply((1 - fu) * fv)).
		Add(c10.Multiply(fu * (1 - fv))).
		Add(c11.Multiply(fu * fv))
}

// Bump perturbs shading normals using the blue channel of an image as a height field
type Bump struct {
	texels
}

// NewBump creates a bump map from a decoded image
func NewBump(img image.Image) *Bump {
	return &Bump{texels: newTexels(img)}
}

// Offset returns the height gradient at uv as finite differences over the
// 2x2 neighbourhood, in units of the [0,1] height range
func (b *Bump) Offset(uv core.Vec2) core.Vec2 {
	if len(b.Pixels) == 0 {
		return core.Vec2{}
	}

	i, j, _, _ := b.locate(uv)
	h00 := b.at(i, j).Z
	h01 := b.at(i, j+1).Z
	h10 := b.at(i+1, j).Z
	h11 := b.at(i+1, j+1).Z

	du := ((h00 - h10) + (h01 - h11)) / 4.0
	dv := ((h01 - h00) + (h11 - h10)) / 4.0
	return core.NewVec2(du, dv)
}
