package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// floor adds a checkered square quad of the given half-size at height y, facing up
func floor(b *Builder, y, halfSize float64) *Builder {
	checker := material.NewCheckerboardImage(256, 256, 32,
		core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.15, 0.15, 0.2))

	return b.Material(material.NewPhong(core.NewVec3(0.8, 0.8, 0.8), core.NewVec3(0.1, 0.1, 0.1), 10)).
		Texture(checker).
		Quad(
			core.NewVec3(-halfSize, y, halfSize),
			core.NewVec3(halfSize, y, halfSize),
			core.NewVec3(halfSize, y, -halfSize),
			core.NewVec3(-halfSize, y, -halfSize),
		).
		Texture(nil)
}

// pyramid returns a square-based pyramid of unit height standing on the origin
func pyramid() ([]core.Vec3, [][]int) {
	vertices := []core.Vec3{
		core.NewVec3(-0.5, 0, 0.5),
		core.NewVec3(0.5, 0, 0.5),
		core.NewVec3(0.5, 0, -0.5),
		core.NewVec3(-0.5, 0, -0.5),
		core.NewVec3(0, 1, 0),
	}
	faces := [][]int{
		{3, 2, 1, 0}, // base, facing down
		{0, 1, 4},
		{1, 2, 4},
		{2, 3, 4},
		{3, 0, 4},
	}
	return vertices, faces
}

// NewDefaultScene creates the default scene: a glossy sphere, a bumped sphere,
// a rotated cube and a mesh pyramid over a textured floor, lit by two lights
func NewDefaultScene() (*Scene, error) {
	b := NewBuilder("default").
		Size(400, 300).
		Camera(renderer.CameraConfig{
			Eye:  core.NewVec3(0, 2, 9),
			View: core.NewVec3(0, -0.25, -1),
			Up:   core.NewVec3(0, 1, 0),
			FOV:  45,
		}).
		Ambient(core.NewVec3(0.2, 0.2, 0.2)).
		Light(core.NewVec3(-6, 8, 6), core.NewVec3(0.8, 0.8, 0.8), [3]float64{1, 0, 0}).
		Light(core.NewVec3(5, 6, 2), core.NewVec3(0.5, 0.45, 0.4), [3]float64{1, 0, 0.005})

	floor(b, -1, 8)

	red := material.NewPhong(core.NewVec3(0.7, 0.15, 0.1), core.NewVec3(0.5, 0.5, 0.5), 25)
	blue := material.NewPhong(core.NewVec3(0.1, 0.2, 0.6), core.NewVec3(0.3, 0.3, 0.3), 15)
	gold := material.NewPhong(core.NewVec3(0.6, 0.45, 0.1), core.NewVec3(0.4, 0.35, 0.2), 40)

	b.Material(red).NonhierSphere(core.NewVec3(-1.8, 0, 0), 1)

	b.Push().
		Translate(core.NewVec3(1.6, 0, 0.5)).
		Scale(core.NewVec3(0.8, 0.8, 0.8)).
		Material(blue).
		Bump(material.NewRippleImage(128, 128, 6)).
		Sphere().
		Bump(nil).
		Pop()

	b.Push().
		Translate(core.NewVec3(0.2, -1, -2.5)).
		Rotate('y', 30).
		Scale(core.NewVec3(1.2, 1.2, 1.2)).
		Translate(core.NewVec3(-0.5, 0, -0.5)).
		Material(gold).
		Cube().
		Pop()

	vertices, faces := pyramid()
	b.Push().
		Translate(core.NewVec3(3.2, -1, -1.5)).
		Rotate('y', 15).
		Scale(core.NewVec3(1.4, 2, 1.4)).
		Material(red).
		Mesh(vertices, faces).
		Pop()

	return b.Build()
}
