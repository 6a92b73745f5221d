package scene

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

var logger = log.New("scene")

// ErrStackUnderflow is reported by Build after a Pop with nothing pushed
var ErrStackUnderflow = errors.New("transform stack underflow")

// ErrNoMaterial is reported by Build when geometry is bound to a nil material
var ErrNoMaterial = errors.New("primitive has no material")

// DefaultMaterial is bound to geometry added before any call to Material
var DefaultMaterial = material.NewPhong(core.NewVec3(0.7, 0.7, 0.7), core.Vec3{}, 1)

// Builder assembles a scene hierarchically. Transforms apply in model space,
// so an operation issued later acts on the geometry before the earlier ones,
// and every primitive added is flattened to world space immediately.
//
// The first error is kept and reported by Build; calls after it are ignored.
type Builder struct {
	scene   *Scene
	current core.Transform
	stack   []core.Transform
	binding geometry.Binding
	err     error
}

// NewBuilder starts an empty scene with an identity transform
func NewBuilder(name string) *Builder {
	return &Builder{
		scene: &Scene{
			Name:   name,
			Width:  256,
			Height: 256,
			Camera: renderer.CameraConfig{
				Eye:  core.NewVec3(0, 0, 10),
				View: core.NewVec3(0, 0, -1),
				Up:   core.NewVec3(0, 1, 0),
				FOV:  50,
			},
		},
		current: core.Identity(),
		binding: geometry.Binding{Material: DefaultMaterial},
	}
}

// Push saves the current transform
func (b *Builder) Push() *Builder {
	b.stack = append(b.stack, b.current)
	return b
}

// Pop restores the most recently pushed transform
func (b *Builder) Pop() *Builder {
	if len(b.stack) == 0 {
		b.fail(ErrStackUnderflow)
		return b
	}
	b.current = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first error met while building
func (b *Builder) Err() error {
	return b.err
}

// Translate moves subsequent geometry by offset
func (b *Builder) Translate(offset core.Vec3) *Builder {
	b.current = b.current.Compose(core.Translation(offset))
	return b
}

// Scale scales subsequent geometry component-wise
func (b *Builder) Scale(factors core.Vec3) *Builder {
	b.current = b.current.Compose(core.Scaling(factors))
	return b
}

// Rotate rotates subsequent geometry around axis ('x', 'y' or 'z') by degrees
func (b *Builder) Rotate(axis byte, degrees float64) *Builder {
	var index int
	switch axis {
	case 'x', 'X':
		index = 0
	case 'y', 'Y':
		index = 1
	default:
		index = 2
	}
	b.current = b.current.Compose(core.Rotation(index, degrees*math.Pi/180.0))
	return b
}

// Transform returns the current model-to-world transform
func (b *Builder) Transform() core.Transform {
	return b.current
}

// Material sets the material of subsequent geometry
func (b *Builder) Material(m *material.Phong) *Builder {
	b.binding.Material = m
	return b
}

// Texture sets the diffuse texture of subsequent geometry; nil clears it
func (b *Builder) Texture(img image.Image) *Builder {
	b.binding.Texture = nil
	if img != nil {
		b.binding.Texture = material.NewTexture(img)
	}
	return b
}

// Bump sets the bump map of subsequent geometry; nil clears it
func (b *Builder) Bump(img image.Image) *Builder {
	b.binding.Bump = nil
	if img != nil {
		b.binding.Bump = material.NewBump(img)
	}
	return b
}

func (b *Builder) add(p geometry.Primitive) *Builder {
	if b.err != nil {
		return b
	}
	if b.binding.Material == nil {
		b.fail(ErrNoMaterial)
		return b
	}
	b.scene.Primitives = append(b.scene.Primitives, p.Transformed(b.current))
	return b
}

// Sphere adds a unit sphere at the model origin
func (b *Builder) Sphere() *Builder {
	return b.add(geometry.NewSphere(b.binding))
}

// Cube adds the unit cube [0,1]³
func (b *Builder) Cube() *Builder {
	return b.add(geometry.NewCube(b.binding))
}

// NonhierSphere adds a sphere given by centre and radius
func (b *Builder) NonhierSphere(center core.Vec3, radius float64) *Builder {
	return b.add(geometry.NewNonhierSphere(center, radius, b.binding))
}

// NonhierBox adds an axis-aligned box spanning [pos, pos+size]
func (b *Builder) NonhierBox(pos, size core.Vec3) *Builder {
	return b.add(geometry.NewNonhierBox(pos, size, b.binding))
}

// Polygon adds a planar convex polygon
func (b *Builder) Polygon(vertices ...core.Vec3) *Builder {
	return b.add(geometry.NewPolygon(vertices, b.binding))
}

// Triangle adds a triangle
func (b *Builder) Triangle(p0, p1, p2 core.Vec3) *Builder {
	return b.add(geometry.NewTriangle(p0, p1, p2, b.binding))
}

// Quad adds a textured four-sided polygon
func (b *Builder) Quad(p0, p1, p2, p3 core.Vec3) *Builder {
	return b.add(geometry.NewQuad(p0, p1, p2, p3, b.binding))
}

// Mesh adds every face of a polygon mesh as an independent polygon
func (b *Builder) Mesh(vertices []core.Vec3, faces [][]int) *Builder {
	if b.err != nil {
		return b
	}
	if b.binding.Material == nil {
		b.fail(ErrNoMaterial)
		return b
	}
	mesh, err := geometry.NewMesh(vertices, faces, b.binding)
	if err != nil {
		b.fail(fmt.Errorf("invalid mesh: %w", err))
		return b
	}

	placed := mesh.Transformed(b.current).(*geometry.Mesh)
	b.scene.Primitives = append(b.scene.Primitives, placed.Tessellate()...)
	logger.Debugf("scene %s: tessellated mesh into %d polygons", b.scene.Name, placed.NumFaces())
	return b
}

// MeshFile adds the polygon mesh read from a PLY file
func (b *Builder) MeshFile(filename string) *Builder {
	if b.err != nil {
		return b
	}
	data, err := loaders.LoadPLY(filename)
	if err != nil {
		b.fail(err)
		return b
	}
	return b.Mesh(data.Vertices, data.Faces)
}

// Light adds a point light, placing its position with the current transform
func (b *Builder) Light(position, colour core.Vec3, falloff [3]float64) *Builder {
	b.scene.Lights = append(b.scene.Lights, material.NewLight(b.current.Point(position), colour, falloff))
	return b
}

// Ambient sets the ambient light colour
func (b *Builder) Ambient(colour core.Vec3) *Builder {
	b.scene.Ambient = colour
	return b
}

// Camera sets the camera the scene is viewed from
func (b *Builder) Camera(config renderer.CameraConfig) *Builder {
	b.scene.Camera = config
	return b
}

// Size sets the default image size
func (b *Builder) Size(width, height int) *Builder {
	b.scene.Width, b.scene.Height = width, height
	return b
}

// Build returns the flattened scene, or the first error met while building
func (b *Builder) Build() (*Scene, error) {
	if b.err != nil {
		return nil, fmt.Errorf("scene %s: %w", b.scene.Name, b.err)
	}
	logger.Debugf("scene %s: %d primitives, %d lights", b.scene.Name, len(b.scene.Primitives), len(b.scene.Lights))
	return b.scene, nil
}
