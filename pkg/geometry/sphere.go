package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere is the unit sphere at the origin, placed in the world by its transform
type Sphere struct {
	shape
}

// NewSphere creates a unit sphere with an identity transform
func NewSphere(binding Binding) *Sphere {
	return &Sphere{
		shape: newShape(core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)), binding),
	}
}

// NewSphereAt creates a sphere with the given world centre and radius
func NewSphereAt(center core.Vec3, radius float64, binding Binding) *Sphere {
	s := NewSphere(binding)
	s.setTransform(core.Scaling(core.NewVec3(radius, radius, radius)).Then(core.Translation(center)))
	return s
}

// Intersect tests the ray against the sphere in model space
func (s *Sphere) Intersect(ray core.Ray) (Intersection, bool) {
	if !s.worldBox.Accepts(ray) {
		return Intersection{}, false
	}

	model := ray.ToModel(s.transform)
	roots, n := sphereRoots(model.Origin, model.Direction, core.Vec3{}, 1)

	// Model and world parameters are ordered the same way, so the first
	// root accepted by the world ray is the nearest
	for _, t := range roots[:n] {
		p := model.At(t)
		if isect, ok := s.toWorld(ray, p, p, s); ok {
			return isect, true
		}
	}
	return Intersection{}, false
}

// Colour returns the texture colour by longitude and latitude, or Kd
func (s *Sphere) Colour(point core.Vec3, interpolate bool) core.Vec3 {
	if s.binding.Texture == nil {
		return s.diffuse()
	}
	return s.binding.Texture.Colour(sphereUV(s.transform.InversePoint(point)), interpolate)
}

// NormalOffset returns the bump perturbation in world space
func (s *Sphere) NormalOffset(point core.Vec3) core.Vec3 {
	if s.binding.Bump == nil {
		return core.Vec3{}
	}
	offset := sphereOffset(s.binding.Bump, s.transform.InversePoint(point))
	return s.transform.Normal(offset)
}

// Transformed returns a copy with t applied after the current transform
func (s *Sphere) Transformed(t core.Transform) Primitive {
	c := *s
	c.setTransform(s.transform.Then(t))
	return &c
}

// Clone returns a copy sharing the binding
func (s *Sphere) Clone() Primitive {
	c := *s
	return &c
}

// NonhierSphere is a sphere given directly by its world centre and radius
type NonhierSphere struct {
	shape
	Center core.Vec3
	Radius float64
}

// NewNonhierSphere creates a world-space sphere
func NewNonhierSphere(center core.Vec3, radius float64, binding Binding) *NonhierSphere {
	r := core.NewVec3(radius, radius, radius)
	return &NonhierSphere{
		shape:  newShape(core.NewAABB(center.Subtract(r), center.Add(r)), binding),
		Center: center,
		Radius: radius,
	}
}

// Intersect solves the sphere quadratic directly in world space
func (s *NonhierSphere) Intersect(ray core.Ray) (Intersection, bool) {
	if !s.worldBox.Accepts(ray) {
		return Intersection{}, false
	}

	roots, n := sphereRoots(ray.Origin, ray.Direction, s.Center, s.Radius)
	for _, t := range roots[:n] {
		if !ray.CheckParam(t) {
			continue
		}
		point := ray.At(t)
		return Intersection{
			Point:     point,
			T:         t,
			Primitive: s,
			normal:    point.Subtract(s.Center).Normalize(),
		}, true
	}
	return Intersection{}, false
}

// Colour returns the texture colour by longitude and latitude, or Kd
func (s *NonhierSphere) Colour(point core.Vec3, interpolate bool) core.Vec3 {
	if s.binding.Texture == nil {
		return s.diffuse()
	}
	return s.binding.Texture.Colour(sphereUV(point.Subtract(s.Center)), interpolate)
}

// NormalOffset returns the bump perturbation in world space
func (s *NonhierSphere) NormalOffset(point core.Vec3) core.Vec3 {
	if s.binding.Bump == nil {
		return core.Vec3{}
	}
	return sphereOffset(s.binding.Bump, point.Subtract(s.Center))
}

// Transformed returns the sphere placed by t. Any transform other than the
// identity produces an equivalent hierarchical Sphere.
func (s *NonhierSphere) Transformed(t core.Transform) Primitive {
	if t.IsIdentity() {
		return s.Clone()
	}
	sphere := NewSphere(s.binding)
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	sphere.setTransform(core.Scaling(r).Then(core.Translation(s.Center)).Then(t))
	return sphere
}

// Clone returns a copy sharing the binding
func (s *NonhierSphere) Clone() Primitive {
	c := *s
	return &c
}

// sphereRoots returns the real roots of |o + t·d - c|² = r², ascending
func sphereRoots(o, d, c core.Vec3, r float64) ([2]float64, int) {
	oc := o.Subtract(c)
	a := d.Dot(d)
	b := 2 * d.Dot(oc)
	cc := oc.Dot(oc) - r*r

	if a == 0 {
		return [2]float64{}, 0
	}

	disc := b*b - 4*a*cc
	switch {
	case disc < 0:
		return [2]float64{}, 0
	case disc == 0:
		return [2]float64{-b / (2 * a)}, 1
	}

	// Numerically stable form avoiding cancellation between b and the root
	q := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	t0, t1 := q/a, cc/q
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return [2]float64{t0, t1}, 2
}
