package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// flatPadding thickens the bounds of planar primitives so axis-aligned
// polygons never get a zero-width box
const flatPadding = 1e-9

// Polygon is a planar convex polygon with world-space vertices
type Polygon struct {
	shape
	Vertices []core.Vec3

	normal      core.Vec3
	offset      float64     // plane: normal·x = offset
	edgeNormals []core.Vec3 // in-plane, pointing into the polygon
}

// NewPolygon creates a polygon from at least three coplanar world-space vertices.
// The winding of the first three vertices determines the normal.
func NewPolygon(vertices []core.Vec3, binding Binding) *Polygon {
	box := core.NewAABBFromPoints(vertices...)
	pad := core.NewVec3(flatPadding, flatPadding, flatPadding)
	p := &Polygon{
		shape:    newShape(core.NewAABB(box.Min.Subtract(pad), box.Max.Add(pad)), binding),
		Vertices: vertices,
	}
	p.computePlane()
	return p
}

func (p *Polygon) computePlane() {
	if len(p.Vertices) < 3 {
		return
	}

	v0, v1, v2 := p.Vertices[0], p.Vertices[1], p.Vertices[2]
	p.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	p.offset = p.normal.Dot(v0)

	// Orient every edge normal towards a point known to be inside
	interior := v0.Add(v1).Add(v2).Multiply(1.0 / 3.0)
	p.edgeNormals = make([]core.Vec3, len(p.Vertices))
	for i, a := range p.Vertices {
		b := p.Vertices[(i+1)%len(p.Vertices)]
		en := b.Subtract(a).Cross(p.normal)
		if en.Dot(interior.Subtract(a)) < 0 {
			en = en.Negate()
		}
		p.edgeNormals[i] = en
	}
}

// Normal returns the unit plane normal
func (p *Polygon) Normal() core.Vec3 {
	return p.normal
}

// Intersect tests the ray against the polygon's plane and edges
func (p *Polygon) Intersect(ray core.Ray) (Intersection, bool) {
	return p.intersect(ray, p)
}

// intersect reports hits attributed to owner, which is the polygon itself or
// the primitive it belongs to
func (p *Polygon) intersect(ray core.Ray, owner Primitive) (Intersection, bool) {
	if p.edgeNormals == nil || !p.worldBox.Accepts(ray) {
		return Intersection{}, false
	}

	denom := p.normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-12 {
		return Intersection{}, false
	}

	t := (p.offset - p.normal.Dot(ray.Origin)) / denom
	if !ray.CheckParam(t) {
		return Intersection{}, false
	}

	point := ray.At(t)
	for i, a := range p.Vertices {
		if point.Subtract(a).Dot(p.edgeNormals[i]) < 0 {
			return Intersection{}, false
		}
	}

	return Intersection{
		Point:     point,
		T:         t,
		Primitive: owner,
		normal:    p.normal,
	}, true
}

// Colour returns Kd; polygons carry no texture mapping
func (p *Polygon) Colour(point core.Vec3, interpolate bool) core.Vec3 {
	return p.diffuse()
}

// NormalOffset returns no perturbation
func (p *Polygon) NormalOffset(point core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// Transformed returns a polygon with every vertex mapped by t
func (p *Polygon) Transformed(t core.Transform) Primitive {
	return NewPolygon(transformPoints(p.Vertices, t), p.binding)
}

// Clone returns a copy sharing the binding
func (p *Polygon) Clone() Primitive {
	return NewPolygon(append([]core.Vec3(nil), p.Vertices...), p.binding)
}

// NewTriangle creates a triangle
func NewTriangle(a, b, c core.Vec3, binding Binding) *Polygon {
	return NewPolygon([]core.Vec3{a, b, c}, binding)
}

// Quad is a parallelogram-like four-sided polygon whose texture is mapped along
// the edges leaving its first vertex
type Quad struct {
	Polygon
}

// NewQuad creates a quad from four coplanar vertices in winding order
func NewQuad(a, b, c, d core.Vec3, binding Binding) *Quad {
	return &Quad{Polygon: *NewPolygon([]core.Vec3{a, b, c, d}, binding)}
}

// Intersect tests the ray against the quad
func (q *Quad) Intersect(ray core.Ray) (Intersection, bool) {
	return q.intersect(ray, q)
}

// uv returns the coordinates of point along the edges v0→v1 and v0→v3
func (q *Quad) uv(point core.Vec3) (core.Vec2, core.Vec3, core.Vec3) {
	v0 := q.Vertices[0]
	e1 := q.Vertices[1].Subtract(v0)
	e2 := q.Vertices[3].Subtract(v0)
	d := point.Subtract(v0)
	return core.NewVec2(d.Dot(e1)/e1.LengthSquared(), d.Dot(e2)/e2.LengthSquared()), e1, e2
}

// Colour samples the texture across the quad, or returns Kd
func (q *Quad) Colour(point core.Vec3, interpolate bool) core.Vec3 {
	if q.binding.Texture == nil {
		return q.diffuse()
	}
	uv, _, _ := q.uv(point)
	return q.binding.Texture.Colour(uv, interpolate)
}

// NormalOffset tilts the normal along the quad's edge directions
func (q *Quad) NormalOffset(point core.Vec3) core.Vec3 {
	if q.binding.Bump == nil {
		return core.Vec3{}
	}
	uv, e1, e2 := q.uv(point)
	offset := q.binding.Bump.Offset(uv)
	return e1.Normalize().Multiply(offset.X).Add(e2.Normalize().Multiply(offset.Y))
}

// Transformed returns a quad with every vertex mapped by t
func (q *Quad) Transformed(t core.Transform) Primitive {
	v := transformPoints(q.Vertices, t)
	return NewQuad(v[0], v[1], v[2], v[3], q.binding)
}

// Clone returns a copy sharing the binding
func (q *Quad) Clone() Primitive {
	v := q.Vertices
	return NewQuad(v[0], v[1], v[2], v[3], q.binding)
}

func transformPoints(points []core.Vec3, t core.Transform) []core.Vec3 {
	out := make([]core.Vec3, len(points))
	for i, p := range points {
		out[i] = t.Point(p)
	}
	return out
}
