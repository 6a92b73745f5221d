package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Primitive is a renderable shape bound to its surface description. The set of
// implementations is closed: Sphere, Cube, NonhierSphere, NonhierBox, Polygon,
// Quad and Mesh.
type Primitive interface {
	// Intersect returns the nearest hit accepted by ray.CheckParam
	Intersect(ray core.Ray) (Intersection, bool)
	// BoundingBox returns the world-space bounds
	BoundingBox() core.AABB
	// Binding returns the material, texture and bump map of the surface
	Binding() Binding
	// Colour returns the diffuse colour at a world-space point on the surface
	Colour(point core.Vec3, interpolate bool) core.Vec3
	// NormalOffset returns the bump perturbation of the normal at a world-space point
	NormalOffset(point core.Vec3) core.Vec3
	// Transformed returns a copy placed in the world by t
	Transformed(t core.Transform) Primitive
	// Clone returns an independent copy sharing the binding
	Clone() Primitive

	sealed()
}

// Binding holds the surface description shared between primitives. The
// pointers are not owned; many primitives may reference one material.
type Binding struct {
	Material *material.Phong
	Texture  *material.Texture
	Bump     *material.Bump
}

// shape holds the state common to every primitive: the model-to-world
// transform, the model-space bounds and their cached world-space transform
type shape struct {
	transform core.Transform
	modelBox  core.AABB
	worldBox  core.AABB
	binding   Binding
}

func newShape(modelBox core.AABB, binding Binding) shape {
	s := shape{modelBox: modelBox, binding: binding}
	s.setTransform(core.Identity())
	return s
}

// setTransform replaces the model-to-world transform and refreshes the world bounds
func (s *shape) setTransform(t core.Transform) {
	s.transform = t
	s.worldBox = s.modelBox.Transform(t.Forward)
}

// BoundingBox returns the world-space bounds
func (s *shape) BoundingBox() core.AABB {
	return s.worldBox
}

// Binding returns the surface description
func (s *shape) Binding() Binding {
	return s.binding
}

// Transform returns the model-to-world transform
func (s *shape) Transform() core.Transform {
	return s.transform
}

func (s *shape) diffuse() core.Vec3 {
	if s.binding.Material == nil {
		return core.Vec3{}
	}
	return s.binding.Material.Kd
}

// toWorld converts a model-space hit into a world-space intersection on ray.
// The parameter is recomputed along the world ray so it is comparable between
// primitives regardless of their transforms.
func (s *shape) toWorld(ray core.Ray, modelPoint, modelNormal core.Vec3, p Primitive) (Intersection, bool) {
	point := s.transform.Point(modelPoint)
	t := point.Subtract(ray.Origin).Dot(ray.Direction)
	if !ray.CheckParam(t) {
		return Intersection{}, false
	}

	return Intersection{
		Point:     point,
		T:         t,
		Primitive: p,
		normal:    s.transform.Normal(modelNormal).Normalize(),
	}, true
}

func (s *shape) sealed() {}

// Intersection describes a ray hit in world space
type Intersection struct {
	Point     core.Vec3
	T         float64
	Primitive Primitive

	normal core.Vec3
}

// Normal returns the unit shading normal, perturbed by the primitive's bump map
func (i Intersection) Normal() core.Vec3 {
	if i.Primitive == nil || i.Primitive.Binding().Bump == nil {
		return i.normal
	}
	return i.normal.Add(i.Primitive.NormalOffset(i.Point)).Normalize()
}

// GeometricNormal returns the unperturbed unit surface normal
func (i Intersection) GeometricNormal() core.Vec3 {
	return i.normal
}

// Diffuse returns the surface colour at the hit point
func (i Intersection) Diffuse(interpolate bool) core.Vec3 {
	return i.Primitive.Colour(i.Point, interpolate)
}

// Material returns the Phong material of the hit primitive
func (i Intersection) Material() *material.Phong {
	return i.Primitive.Binding().Material
}
