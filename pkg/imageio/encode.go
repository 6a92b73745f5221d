package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var logger = log.New("imageio")

// ErrUnsupportedFormat is returned for file extensions with no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format identifies an output encoding
type Format string

// Supported formats
const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	Raw  Format = "rawz" // zstd-compressed float frame
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".rawz":
		return Raw, nil
	}
	return "", fmt.Errorf("%q: %w", filepath.Ext(path), ErrUnsupportedFormat)
}

// Encode writes the frame in the given format. Image formats clamp colours to
// 8 bits per channel; Raw keeps the unclamped values.
func Encode(w io.Writer, format Format, frame *renderer.Frame) error {
	switch format {
	case PNG:
		return png.Encode(w, frame.ToRGBA())
	case BMP:
		return bmp.Encode(w, frame.ToRGBA())
	case TIFF:
		return tiff.Encode(w, frame.ToRGBA(), &tiff.Options{Compression: tiff.Deflate})
	case Raw:
		return WriteRaw(w, frame)
	}
	return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

// Save writes the frame to path, choosing the format from its extension
func Save(path string, frame *renderer.Frame) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := Encode(file, format, frame); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Infof("wrote %dx%d %s frame to %s", frame.Width, frame.Height, format, path)
	return nil
}

// Load reads a frame written by Save. Image formats come back as [0,1] colours.
func Load(path string) (*renderer.Frame, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var img image.Image
	switch format {
	case Raw:
		return ReadRaw(file)
	case PNG:
		img, err = png.Decode(file)
	case BMP:
		img, err = bmp.Decode(file)
	case TIFF:
		img, err = tiff.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts an image to a frame of [0,1] colours
func FromImage(img image.Image) *renderer.Frame {
	bounds := img.Bounds()
	frame := renderer.NewFrame(bounds.Dx(), bounds.Dy())
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			frame.Set(x, y, core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0))
		}
	}
	return frame
}
