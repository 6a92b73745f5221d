package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Frame is the pixel sink of a render. It keeps the unclamped colour of
// every pixel; workers write disjoint tiles so no locking is needed.
type Frame struct {
	Width, Height int
	pixels        []core.Vec3
}

// NewFrame creates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// NewFrameFromPixels wraps row-major pixels as a frame
func NewFrameFromPixels(width, height int, pixels []core.Vec3) *Frame {
	return &Frame{Width: width, Height: height, pixels: pixels}
}

// Set stores the colour of pixel (x, y)
func (f *Frame) Set(x, y int, colour core.Vec3) {
	f.pixels[y*f.Width+x] = colour
}

// At returns the colour of pixel (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.pixels[y*f.Width+x]
}

// Pixels returns the row-major pixel colours
func (f *Frame) Pixels() []core.Vec3 {
	return f.pixels
}

// ToRGBA converts the frame to an 8-bit image, clamping every channel to [0,1]
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, toRGBA(f.At(x, y)))
		}
	}
	return img
}

// toRGBA packs a colour into 8-bit channels
func toRGBA(colour core.Vec3) color.RGBA {
	c := colour.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}

// AverageLuminance returns the mean perceptual luminance of the clamped pixels
func (f *Frame) AverageLuminance() float64 {
	if len(f.pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range f.pixels {
		total += c.Clamp(0.0, 1.0).Luminance()
	}
	return total / float64(len(f.pixels))
}
