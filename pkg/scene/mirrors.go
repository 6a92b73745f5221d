package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewMirrorsScene creates two facing mirror planes with coloured spheres
// between them, seen from slightly off axis so the reflections recede
func NewMirrorsScene() (*Scene, error) {
	b := NewBuilder("mirrors").
		Size(320, 240).
		Camera(renderer.CameraConfig{
			Eye:  core.NewVec3(0, 1, 3.5),
			View: core.NewVec3(-0.35, -0.1, -1),
			Up:   core.NewVec3(0, 1, 0),
			FOV:  60,
		}).
		Ambient(core.NewVec3(0.15, 0.15, 0.15)).
		Light(core.NewVec3(0, 4, 0), core.NewVec3(0.9, 0.9, 0.9), [3]float64{1, 0, 0.01})

	floor(b, -1, 4)

	mirror := material.NewPhong(core.NewVec3(0.02, 0.02, 0.02), core.NewVec3(0.9, 0.9, 0.9), 100)
	b.Material(mirror).
		Quad( // facing +z
			core.NewVec3(-3, -1, -3),
			core.NewVec3(3, -1, -3),
			core.NewVec3(3, 3, -3),
			core.NewVec3(-3, 3, -3),
		).
		Quad( // facing -z
			core.NewVec3(-3, -1, 3),
			core.NewVec3(-3, 3, 3),
			core.NewVec3(3, 3, 3),
			core.NewVec3(3, -1, 3),
		)

	colours := []core.Vec3{
		core.NewVec3(0.8, 0.1, 0.1),
		core.NewVec3(0.1, 0.7, 0.2),
		core.NewVec3(0.2, 0.3, 0.9),
	}
	for i, c := range colours {
		b.Material(material.NewPhong(c, core.NewVec3(0.4, 0.4, 0.4), 30)).
			NonhierSphere(core.NewVec3(float64(i-1)*1.4, -0.5, float64(i-1)*0.8), 0.5)
	}

	return b.Build()
}
