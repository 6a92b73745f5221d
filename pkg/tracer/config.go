package tracer

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidConfig is wrapped by every RenderConfig validation error
var ErrInvalidConfig = errors.New("invalid render config")

// RenderConfig contains rendering configuration shared by the tracer and the renderer
type RenderConfig struct {
	UseBIH          bool // Accelerate queries with a BIH instead of scanning every primitive
	UsePackets      bool // Trace screen tiles as ray packets
	Interpolate     bool // Bilinear texture lookups instead of nearest texel
	BlackBackground bool // Primary misses are black instead of the screen gradient

	MaxDepth              int     // Deepest reflection/refraction level traced
	ReflectionAttenuation float64 // Scale applied to mirror reflections
	Epsilon               float64 // Self-intersection distance for spawned rays

	Workers     int // Parallel workers (0 = logical CPU count)
	TileSize    int // Sample rays per packet side
	SampleWidth int // Supersampling: SampleWidth² rays per pixel

	BIHMaxDepth int
	BIHLeafSize int
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		UseBIH:                true,
		UsePackets:            true,
		Interpolate:           true,
		MaxDepth:              5,
		ReflectionAttenuation: 0.5,
		Epsilon:               core.DefaultEpsilon,
		Workers:               8,
		TileSize:              16,
		SampleWidth:           1,
		BIHMaxDepth:           accel.DefaultMaxDepth,
		BIHLeafSize:           accel.DefaultLeafSize,
	}
}

// Validate checks that every size and limit is usable
func (c RenderConfig) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return fmt.Errorf("max depth %d is negative: %w", c.MaxDepth, ErrInvalidConfig)
	case !(c.Epsilon > 0):
		return fmt.Errorf("epsilon %g must be positive: %w", c.Epsilon, ErrInvalidConfig)
	case c.ReflectionAttenuation < 0:
		return fmt.Errorf("reflection attenuation %g is negative: %w", c.ReflectionAttenuation, ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("worker count %d is negative: %w", c.Workers, ErrInvalidConfig)
	case c.SampleWidth <= 0:
		return fmt.Errorf("sample width %d must be positive: %w", c.SampleWidth, ErrInvalidConfig)
	case c.TileSize < c.SampleWidth:
		return fmt.Errorf("tile size %d must hold at least one pixel of %d samples: %w", c.TileSize, c.SampleWidth, ErrInvalidConfig)
	case c.BIHMaxDepth <= 0:
		return fmt.Errorf("BIH max depth %d must be positive: %w", c.BIHMaxDepth, ErrInvalidConfig)
	case c.BIHLeafSize <= 0:
		return fmt.Errorf("BIH leaf size %d must be positive: %w", c.BIHLeafSize, ErrInvalidConfig)
	}
	return nil
}

// TilePixels returns the side of a screen tile in pixels
func (c RenderConfig) TilePixels() int {
	return c.TileSize / c.SampleWidth
}

// BIHOptions returns the acceleration structure build limits
func (c RenderConfig) BIHOptions() accel.Options {
	return accel.Options{MaxDepth: c.BIHMaxDepth, LeafSize: c.BIHLeafSize}
}
