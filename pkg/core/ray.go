package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultEpsilon is the minimum distance from the origin at which a ray accepts a hit
const DefaultEpsilon = 1e-7

// Ray represents a ray with an origin and a normalized direction. A ray built
// from two points is a finite segment and only accepts hits before its endpoint.
type Ray struct {
	Origin      Vec3
	Direction   Vec3
	Endpoint    Vec3
	HasEndpoint bool
	Length      float64 // +Inf for unbounded rays
	Epsilon     float64
}

// NewRay creates an unbounded ray; the direction is normalized
func NewRay(origin, direction Vec3) Ray {
	dir := direction.Normalize()
	return Ray{
		Origin:    origin,
		Direction: dir,
		Endpoint:  origin.Add(dir),
		Length:    math.Inf(1),
		Epsilon:   DefaultEpsilon,
	}
}

// NewSegment creates a finite ray from origin towards endpoint
func NewSegment(origin, endpoint Vec3) Ray {
	d := endpoint.Subtract(origin)
	return Ray{
		Origin:      origin,
		Direction:   d.Normalize(),
		Endpoint:    endpoint,
		HasEndpoint: true,
		Length:      d.Length(),
		Epsilon:     DefaultEpsilon,
	}
}

// WithEpsilon returns a copy of the ray using the given self-intersection epsilon
func (r Ray) WithEpsilon(epsilon float64) Ray {
	r.Epsilon = epsilon
	return r
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// CheckParam reports whether t is a valid hit parameter: further than epsilon
// from the origin and, for finite rays, strictly before the endpoint.
func (r Ray) CheckParam(t float64) bool {
	if !(t > 0) || r.At(t).Subtract(r.Origin).Length() < r.Epsilon {
		return false
	}
	if r.HasEndpoint {
		return t < r.Length
	}
	return true
}

// Clip returns a finite copy of the ray ending at parameter t, keeping the
// current direction exactly. Hits at or beyond t are rejected by the copy.
func (r Ray) Clip(t float64) Ray {
	r.HasEndpoint = true
	r.Length = t
	r.Endpoint = r.At(t)
	return r
}

// Transform returns the ray mapped by m. The direction is mapped on its own and
// re-normalized so the result does not depend on where the ray was clipped;
// finite rays get their length from the transformed endpoint.
func (r Ray) Transform(m mgl64.Mat4) Ray {
	out := Ray{
		Origin:      MulPoint(m, r.Origin),
		Direction:   MulVector(m, r.Direction).Normalize(),
		Endpoint:    MulPoint(m, r.Endpoint),
		HasEndpoint: r.HasEndpoint,
		Length:      r.Length,
		Epsilon:     r.Epsilon,
	}
	if r.HasEndpoint {
		out.Length = out.Endpoint.Subtract(out.Origin).Length()
	}
	return out
}

// ToModel maps a world-space ray into the model space of t
func (r Ray) ToModel(t Transform) Ray {
	return r.Transform(t.Inverse)
}
