package material

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// toColor converts a [0,1] colour to an 8-bit RGBA pixel
func toColor(c core.Vec3) color.RGBA {
	c = c.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}

// NewCheckerboardImage creates a procedural checkerboard pattern image
func NewCheckerboardImage(width, height, checkSize int, color1, color2 core.Vec3) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c1, c2 := toColor(color1), toColor(color2)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Alternate colors based on check position
			if (x/checkSize+y/checkSize)%2 == 0 {
				img.SetRGBA(x, y, c1)
			} else {
				img.SetRGBA(x, y, c2)
			}
		}
	}

	return img
}

// NewGradientImage creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientImage(width, height int, color1, color2 core.Vec3) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		c := toColor(color1.Multiply(1.0 - t).Add(color2.Multiply(t)))
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	return img
}

// NewRippleImage creates a height field of concentric sine ripples in the blue
// channel, for use as a bump map
func NewRippleImage(width, height int, waves float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cx, cy := float64(width)/2, float64(height)/2
	scale := 2 * math.Pi * waves / math.Max(cx, cy)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := math.Hypot(float64(x)-cx, float64(y)-cy)
			h := 0.5 + 0.5*math.Sin(r*scale)
			img.SetRGBA(x, y, toColor(core.NewVec3(0, 0, h)))
		}
	}

	return img
}
