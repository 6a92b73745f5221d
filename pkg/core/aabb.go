package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// containsTolerance widens the box for origin-inside tests so rays leaving a
// surface that lies exactly on the boundary are still accepted
const containsTolerance = 1e-10

// parallelEpsilon is the direction component below which a ray is treated as
// parallel to a slab
const parallelEpsilon = 1e-15

// AABB represents an axis-aligned bounding box. The interval form of the box
// is kept alongside the corners for packet tests.
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner

	ibox IVec3
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{
		Min:  min,
		Max:  max,
		ibox: IVec3{NewInterval(min.X, max.X), NewInterval(min.Y, max.Y), NewInterval(min.Z, max.Z)},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return NewAABB(Vec3{}, Vec3{})
	}

	min := points[0]
	max := points[0]
	for _, point := range points[1:] {
		min = MinVec3(min, point)
		max = MaxVec3(max, point)
	}

	return NewAABB(min, max)
}

// Hit tests if a ray intersects this AABB using the slab method. Parallel
// components are handled with an inside/outside test instead of a division.
func (aabb AABB) Hit(ray Ray) bool {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		d := ray.Direction.Axis(axis)
		pMin := aabb.Min.Axis(axis) - ray.Origin.Axis(axis)
		pMax := aabb.Max.Axis(axis) - ray.Origin.Axis(axis)

		if math.Abs(d) > parallelEpsilon {
			t1 := pMin / d
			t2 := pMax / d
			if t1 > t2 {
				t1, t2 = t2, t1
			}

			tMin = max(tMin, t1)
			tMax = min(tMax, t2)

			if tMin > tMax || tMax < ray.Epsilon {
				return false
			}
		} else if pMax < 0 || pMin > 0 {
			// Parallel and outside the slab
			return false
		}

		if ray.HasEndpoint && tMin > ray.Length {
			return false
		}
	}

	return true
}

// Contains reports whether the ray origin lies inside the box, with a small tolerance
func (aabb AABB) Contains(ray Ray) bool {
	return aabb.ContainsPoint(ray.Origin)
}

// ContainsPoint reports whether p lies inside the box, with a small tolerance
func (aabb AABB) ContainsPoint(p Vec3) bool {
	return p.X <= aabb.Max.X+containsTolerance &&
		p.Y <= aabb.Max.Y+containsTolerance &&
		p.Z <= aabb.Max.Z+containsTolerance &&
		p.X >= aabb.Min.X-containsTolerance &&
		p.Y >= aabb.Min.Y-containsTolerance &&
		p.Z >= aabb.Min.Z-containsTolerance
}

// Accepts reports whether a ray must visit the box: it either hits it or starts inside it
func (aabb AABB) Accepts(ray Ray) bool {
	return aabb.Hit(ray) || aabb.Contains(ray)
}

// AllMiss proves with interval arithmetic that no active ray of the packet
// can touch the box. It may answer false for packets that do all miss, but
// never answers true when any ray touches the box.
func (aabb AABB) AllMiss(packet *Packet) bool {
	if packet.Active() == 0 {
		return true
	}

	box := aabb.ibox
	box.X = Interval{box.X.Lo - containsTolerance, box.X.Hi + containsTolerance}
	box.Y = Interval{box.Y.Lo - containsTolerance, box.Y.Hi + containsTolerance}
	box.Z = Interval{box.Z.Lo - containsTolerance, box.Z.Hi + containsTolerance}

	offset := box.Subtract(packet.Origin())
	dir := packet.Direction()
	recip := packet.Reciprocal()

	span := Interval{Lo: 0, Hi: packet.Length()}
	span = span.Intersect(slabSpan(offset.X, dir.X, recip.X))
	span = span.Intersect(slabSpan(offset.Y, dir.Y, recip.Y))
	span = span.Intersect(slabSpan(offset.Z, dir.Z, recip.Z))
	return span.IsEmpty()
}

// slabSpan bounds the ray parameters at which any ray of the packet is inside
// one slab. When the direction interval touches zero the reciprocal is
// unbounded, but the slab can still be ruled out if every ray moves away from it.
func slabSpan(offset, dir, recip Interval) Interval {
	if !recip.isUnbounded() {
		return offset.Multiply(recip)
	}
	if (offset.Hi < 0 && dir.Lo >= 0) || (offset.Lo > 0 && dir.Hi <= 0) {
		return EmptyInterval()
	}
	return EntireInterval()
}

// PacketTest returns the index of the first active ray at or after firstActive
// that must visit the box, or len(packet.Rays) when none does. The whole-packet
// interval test runs first so individual rays are only examined when it cannot
// reject the packet.
func (aabb AABB) PacketTest(packet *Packet, firstActive int) int {
	n := packet.Len()
	if aabb.AllMiss(packet) {
		return n
	}

	for i := firstActive; i < n; i++ {
		ray := packet.Rays[i]
		if ray != nil && aabb.Accepts(*ray) {
			return i
		}
	}
	return n
}

// Transform returns the tight box around this box mapped by m
func (aabb AABB) Transform(m mgl64.Mat4) AABB {
	min := Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
	max := min

	for row := 0; row < 3; row++ {
		lo, hi := min.Axis(row), max.Axis(row)
		for col := 0; col < 3; col++ {
			a := m.At(row, col) * aabb.Min.Axis(col)
			b := m.At(row, col) * aabb.Max.Axis(col)
			lo += math.Min(a, b)
			hi += math.Max(a, b)
		}
		min = min.WithAxis(row, lo)
		max = max.WithAxis(row, hi)
	}

	return NewAABB(min, max)
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return NewAABB(MinVec3(aabb.Min, other.Min), MaxVec3(aabb.Max, other.Max))
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Median returns the midpoint of the box along axis
func (aabb AABB) Median(axis int) float64 {
	return (aabb.Min.Axis(axis) + aabb.Max.Axis(axis)) / 2.0
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// Ties resolve to the lower axis.
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	axis := 0
	longest := size.X
	if size.Y > longest {
		axis, longest = 1, size.Y
	}
	if size.Z > longest {
		axis = 2
	}
	return axis
}

// WithMax returns a copy whose max corner along axis is replaced by plane
func (aabb AABB) WithMax(axis int, plane float64) AABB {
	return NewAABB(aabb.Min, aabb.Max.WithAxis(axis, plane))
}

// WithMin returns a copy whose min corner along axis is replaced by plane
func (aabb AABB) WithMin(axis int, plane float64) AABB {
	return NewAABB(aabb.Min.WithAxis(axis, plane), aabb.Max)
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// ContainsBox reports whether other lies entirely within this box
func (aabb AABB) ContainsBox(other AABB) bool {
	return aabb.ContainsPoint(other.Min) && aabb.ContainsPoint(other.Max)
}
