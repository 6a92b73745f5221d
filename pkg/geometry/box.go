package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cube is the unit cube [0,1]³, placed in the world by its transform
type Cube struct {
	shape
}

// NewCube creates a unit cube with an identity transform
func NewCube(binding Binding) *Cube {
	return &Cube{
		shape: newShape(core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)), binding),
	}
}

// Intersect runs the slab test against the unit cube in model space
func (c *Cube) Intersect(ray core.Ray) (Intersection, bool) {
	if !c.worldBox.Accepts(ray) {
		return Intersection{}, false
	}

	model := ray.ToModel(c.transform)
	hits, ok := slabHit(model.Origin, model.Direction, core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
	if !ok {
		return Intersection{}, false
	}

	// The entry face is behind a ray starting inside, leaving the exit face
	for _, h := range hits {
		if isect, ok := c.toWorld(ray, model.At(h.t), h.normal, c); ok {
			return isect, true
		}
	}
	return Intersection{}, false
}

// Colour projects the hit onto the nearest face and samples the texture, or returns Kd
func (c *Cube) Colour(point core.Vec3, interpolate bool) core.Vec3 {
	if c.binding.Texture == nil {
		return c.diffuse()
	}
	m := c.transform.InversePoint(point)
	return c.binding.Texture.Colour(dropAxis(m, cubeFace(m)), interpolate)
}

// NormalOffset returns the bump perturbation in world space
func (c *Cube) NormalOffset(point core.Vec3) core.Vec3 {
	if c.binding.Bump == nil {
		return core.Vec3{}
	}
	return c.transform.Normal(cubeOffset(c.binding.Bump, c.transform.InversePoint(point)))
}

// Transformed returns a copy with t applied after the current transform
func (c *Cube) Transformed(t core.Transform) Primitive {
	n := *c
	n.setTransform(c.transform.Then(t))
	return &n
}

// Clone returns a copy sharing the binding
func (c *Cube) Clone() Primitive {
	n := *c
	return &n
}

// NonhierBox is an axis-aligned box given directly by its world corner and size
type NonhierBox struct {
	shape
	Pos  core.Vec3
	Size core.Vec3
}

// NewNonhierBox creates a world-space box spanning [pos, pos+size]
func NewNonhierBox(pos, size core.Vec3, binding Binding) *NonhierBox {
	return &NonhierBox{
		shape: newShape(core.NewAABB(pos, pos.Add(size)), binding),
		Pos:   pos,
		Size:  size,
	}
}

// Intersect runs the slab test directly in world space
func (b *NonhierBox) Intersect(ray core.Ray) (Intersection, bool) {
	if !b.worldBox.Accepts(ray) {
		return Intersection{}, false
	}

	hits, ok := slabHit(ray.Origin, ray.Direction, b.Pos, b.Pos.Add(b.Size))
	if !ok {
		return Intersection{}, false
	}

	for _, h := range hits {
		if !ray.CheckParam(h.t) {
			continue
		}
		return Intersection{
			Point:     ray.At(h.t),
			T:         h.t,
			Primitive: b,
			normal:    h.normal,
		}, true
	}
	return Intersection{}, false
}

// local maps a world point into the unit cube spanned by the box
func (b *NonhierBox) local(point core.Vec3) core.Vec3 {
	d := point.Subtract(b.Pos)
	return core.NewVec3(d.X/b.Size.X, d.Y/b.Size.Y, d.Z/b.Size.Z)
}

// Colour projects the hit onto the nearest face and samples the texture, or returns Kd
func (b *NonhierBox) Colour(point core.Vec3, interpolate bool) core.Vec3 {
	if b.binding.Texture == nil {
		return b.diffuse()
	}
	m := b.local(point)
	return b.binding.Texture.Colour(dropAxis(m, cubeFace(m)), interpolate)
}

// NormalOffset returns the bump perturbation in world space
func (b *NonhierBox) NormalOffset(point core.Vec3) core.Vec3 {
	if b.binding.Bump == nil {
		return core.Vec3{}
	}
	offset := cubeOffset(b.binding.Bump, b.local(point))
	return core.NewVec3(offset.X/b.Size.X, offset.Y/b.Size.Y, offset.Z/b.Size.Z)
}

// Transformed returns the box placed by t. Any transform other than the
// identity produces an equivalent hierarchical Cube.
func (b *NonhierBox) Transformed(t core.Transform) Primitive {
	if t.IsIdentity() {
		return b.Clone()
	}
	cube := NewCube(b.binding)
	cube.setTransform(core.Scaling(b.Size).Then(core.Translation(b.Pos)).Then(t))
	return cube
}

// Clone returns a copy sharing the binding
func (b *NonhierBox) Clone() Primitive {
	n := *b
	return &n
}

// slabCandidate is a ray parameter where the ray crosses a box face, with
// that face's outward normal
type slabCandidate struct {
	t      float64
	normal core.Vec3
}

// slabHit intersects the line o + t·d with the box [lo, hi]. It returns the
// entry and exit candidates in that order, or false when the line misses.
func slabHit(o, d, lo, hi core.Vec3) ([2]slabCandidate, bool) {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)
	nearAxis, farAxis := -1, -1

	for axis := 0; axis < 3; axis++ {
		dir := d.Axis(axis)
		origin := o.Axis(axis)

		if math.Abs(dir) < 1e-15 {
			if origin < lo.Axis(axis) || origin > hi.Axis(axis) {
				return [2]slabCandidate{}, false
			}
			continue
		}

		t1 := (lo.Axis(axis) - origin) / dir
		t2 := (hi.Axis(axis) - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tNear {
			tNear, nearAxis = t1, axis
		}
		if t2 < tFar {
			tFar, farAxis = t2, axis
		}
		if tNear > tFar {
			return [2]slabCandidate{}, false
		}
	}

	if nearAxis < 0 || farAxis < 0 {
		return [2]slabCandidate{}, false
	}

	// Entering faces oppose the direction, exiting faces follow it
	near := core.Vec3{}.WithAxis(nearAxis, -math.Copysign(1, d.Axis(nearAxis)))
	far := core.Vec3{}.WithAxis(farAxis, math.Copysign(1, d.Axis(farAxis)))
	return [2]slabCandidate{{tNear, near}, {tFar, far}}, true
}
