package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Mesh is a polygon soup sharing one binding. It can be intersected as a
// single primitive or tessellated into independent polygons.
type Mesh struct {
	shape
	Vertices []core.Vec3 // world space
	Faces    [][]int     // vertex indices per face

	faces []*Polygon
}

// NewMesh creates a mesh from world-space vertices and faces of at least three indices
func NewMesh(vertices []core.Vec3, faces [][]int, binding Binding) (*Mesh, error) {
	polygons := make([]*Polygon, 0, len(faces))
	for f, face := range faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("face %d has %d vertices, need at least 3", f, len(face))
		}

		points := make([]core.Vec3, len(face))
		for i, index := range face {
			if index < 0 || index >= len(vertices) {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d", f, index, len(vertices))
			}
			points[i] = vertices[index]
		}
		polygons = append(polygons, NewPolygon(points, binding))
	}

	box := core.NewAABBFromPoints(vertices...)
	pad := core.NewVec3(flatPadding, flatPadding, flatPadding)
	return &Mesh{
		shape:    newShape(core.NewAABB(box.Min.Subtract(pad), box.Max.Add(pad)), binding),
		Vertices: vertices,
		Faces:    faces,
		faces:    polygons,
	}, nil
}

// Intersect tests every face, keeping the nearest hit
func (m *Mesh) Intersect(ray core.Ray) (Intersection, bool) {
	if !m.worldBox.Accepts(ray) {
		return Intersection{}, false
	}

	var best Intersection
	found := false
	for _, face := range m.faces {
		if isect, ok := face.intersect(ray, m); ok {
			best, found = isect, true
			ray = ray.Clip(isect.T)
		}
	}
	return best, found
}

// Tessellate returns each face as an independent polygon sharing the mesh binding
func (m *Mesh) Tessellate() []Primitive {
	out := make([]Primitive, len(m.faces))
	for i, face := range m.faces {
		out[i] = face.Clone()
	}
	return out
}

// NumFaces returns the number of faces
func (m *Mesh) NumFaces() int {
	return len(m.faces)
}

// Colour returns Kd; meshes carry no texture mapping
func (m *Mesh) Colour(point core.Vec3, interpolate bool) core.Vec3 {
	return m.diffuse()
}

// NormalOffset returns no perturbation
func (m *Mesh) NormalOffset(point core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// Transformed returns a mesh with every vertex mapped by t
func (m *Mesh) Transformed(t core.Transform) Primitive {
	// The faces were validated when m was built
	mesh, _ := NewMesh(transformPoints(m.Vertices, t), m.Faces, m.binding)
	return mesh
}

// Clone returns a copy sharing the binding
func (m *Mesh) Clone() Primitive {
	return m.Transformed(core.Identity())
}
