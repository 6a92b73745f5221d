package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewGlassScene creates a refractive sphere and a glass slab over a checker
// floor, in front of a gradient backdrop that shows the distortion
func NewGlassScene() (*Scene, error) {
	b := NewBuilder("glass").
		Size(320, 240).
		Camera(renderer.CameraConfig{
			Eye:  core.NewVec3(0, 1.5, 6),
			View: core.NewVec3(0, -0.3, -1),
			Up:   core.NewVec3(0, 1, 0),
			FOV:  45,
		}).
		Ambient(core.NewVec3(0.25, 0.25, 0.25)).
		Light(core.NewVec3(3, 6, 4), core.NewVec3(0.8, 0.8, 0.8), [3]float64{1, 0, 0})

	floor(b, -1, 6)

	backdrop := material.NewGradientImage(64, 64, core.NewVec3(0.9, 0.6, 0.2), core.NewVec3(0.1, 0.3, 0.8))
	b.Material(material.NewPhong(core.NewVec3(1, 1, 1), core.Vec3{}, 1)).
		Texture(backdrop).
		Quad(
			core.NewVec3(-6, 5, -4),
			core.NewVec3(-6, -1, -4),
			core.NewVec3(6, -1, -4),
			core.NewVec3(6, 5, -4),
		).
		Texture(nil)

	glass := material.NewTransmissive(core.Vec3{}, core.NewVec3(0.3, 0.3, 0.3), 80, 0.9, 1.5)
	water := material.NewTransmissive(core.NewVec3(0.05, 0.1, 0.15), core.NewVec3(0.2, 0.2, 0.2), 60, 0.7, 1.33)

	b.Material(glass).NonhierSphere(core.NewVec3(-0.9, 0.1, 0), 1.1)
	b.Push().
		Translate(core.NewVec3(1.8, -1, -0.5)).
		Rotate('y', -25).
		Material(water).
		NonhierBox(core.NewVec3(-0.5, 0, -0.5), core.NewVec3(1, 1.8, 1)).
		Pop()

	return b.Build()
}
