package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/tracer"
)

// Scene is the flattened snapshot of one frame: world-space primitives bound
// to their materials, the lights, and the camera it is viewed from
type Scene struct {
	Name       string
	Camera     renderer.CameraConfig
	Width      int // Default image width
	Height     int // Default image height
	Primitives []geometry.Primitive
	Lights     []*material.Light
	Ambient    core.Vec3
}

// Arena returns a new arena holding the scene's primitives
func (s *Scene) Arena() *geometry.Arena {
	return geometry.NewArena(s.Primitives...)
}

// NewTracer builds a tracer over the scene
func (s *Scene) NewTracer(config tracer.RenderConfig) (*tracer.Tracer, error) {
	return tracer.New(s.Arena(), s.Lights, s.Ambient, config)
}

// NewRenderer builds a tracer and a renderer viewing the scene at width x height.
// Non-positive sizes fall back to the scene's defaults.
func (s *Scene) NewRenderer(config tracer.RenderConfig, width, height int) (*renderer.Renderer, error) {
	if width <= 0 {
		width = s.Width
	}
	if height <= 0 {
		height = s.Height
	}

	t, err := s.NewTracer(config)
	if err != nil {
		return nil, err
	}
	return renderer.NewRenderer(t, renderer.NewCamera(s.Camera, width, height)), nil
}

// Bounds returns the box enclosing every primitive
func (s *Scene) Bounds() core.AABB {
	return s.Arena().Bounds()
}
