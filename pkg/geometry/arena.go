package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Handle identifies a primitive within an Arena
type Handle int32

// Arena owns the flattened primitives of one frame. Acceleration structures
// and intersections refer to primitives through it by Handle.
type Arena struct {
	primitives []Primitive
}

// NewArena creates an arena holding the given primitives
func NewArena(primitives ...Primitive) *Arena {
	a := &Arena{}
	for _, p := range primitives {
		a.Add(p)
	}
	return a
}

// Add stores a primitive and returns its handle
func (a *Arena) Add(p Primitive) Handle {
	a.primitives = append(a.primitives, p)
	return Handle(len(a.primitives) - 1)
}

// Get returns the primitive for h
func (a *Arena) Get(h Handle) Primitive {
	return a.primitives[h]
}

// Len returns the number of primitives
func (a *Arena) Len() int {
	return len(a.primitives)
}

// Handles returns a fresh slice of every handle in insertion order
func (a *Arena) Handles() []Handle {
	handles := make([]Handle, len(a.primitives))
	for i := range handles {
		handles[i] = Handle(i)
	}
	return handles
}

// Bounds returns the box enclosing every primitive
func (a *Arena) Bounds() core.AABB {
	if len(a.primitives) == 0 {
		return core.NewAABB(core.Vec3{}, core.Vec3{})
	}
	box := a.primitives[0].BoundingBox()
	for _, p := range a.primitives[1:] {
		box = box.Union(p.BoundingBox())
	}
	return box
}

// Intersect scans every primitive for the nearest hit
func (a *Arena) Intersect(ray core.Ray) (Intersection, bool) {
	var best Intersection
	found := false
	for _, p := range a.primitives {
		if isect, ok := p.Intersect(ray); ok {
			best, found = isect, true
			ray = ray.Clip(isect.T)
		}
	}
	return best, found
}

// Occluded reports whether any primitive blocks the ray
func (a *Arena) Occluded(ray core.Ray) bool {
	for _, p := range a.primitives {
		if _, ok := p.Intersect(ray); ok {
			return true
		}
	}
	return false
}
