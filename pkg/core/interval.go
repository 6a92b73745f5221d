package core

import (
	"math"
)

// reciprocalEpsilon bounds how close to zero an interval may get before its
// reciprocal is treated as unbounded
const reciprocalEpsilon = 1e-10

// Interval is a closed range [Lo, Hi]. Lo > Hi denotes the empty interval.
type Interval struct {
	Lo, Hi float64
}

// EmptyInterval returns an interval containing no values
func EmptyInterval() Interval {
	return Interval{Lo: math.Inf(1), Hi: math.Inf(-1)}
}

// EntireInterval returns (-Inf, +Inf)
func EntireInterval() Interval {
	return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// NewInterval creates an interval, ordering the bounds
func NewInterval(a, b float64) Interval {
	if a > b {
		a, b = b, a
	}
	return Interval{Lo: a, Hi: b}
}

// PointInterval returns the degenerate interval [v, v]
func PointInterval(v float64) Interval {
	return Interval{Lo: v, Hi: v}
}

// IsEmpty reports whether the interval contains no values
func (i Interval) IsEmpty() bool {
	return !(i.Lo <= i.Hi)
}

// Extend grows the interval to include v
func (i Interval) Extend(v float64) Interval {
	if i.IsEmpty() {
		return Interval{Lo: v, Hi: v}
	}
	return Interval{Lo: min(i.Lo, v), Hi: max(i.Hi, v)}
}

// Contains reports whether v lies within the interval
func (i Interval) Contains(v float64) bool {
	return v >= i.Lo && v <= i.Hi
}

// Add returns the interval sum
func (i Interval) Add(o Interval) Interval {
	return Interval{Lo: i.Lo + o.Lo, Hi: i.Hi + o.Hi}
}

// Subtract returns every a-b for a in i and b in o
func (i Interval) Subtract(o Interval) Interval {
	return Interval{Lo: i.Lo - o.Hi, Hi: i.Hi - o.Lo}
}

// Multiply returns the interval product. An unbounded operand makes the
// result unbounded rather than producing NaN from 0*Inf.
func (i Interval) Multiply(o Interval) Interval {
	if i.IsEmpty() || o.IsEmpty() {
		return EmptyInterval()
	}
	if i.isUnbounded() || o.isUnbounded() {
		return EntireInterval()
	}

	a, b := i.Lo*o.Lo, i.Lo*o.Hi
	c, d := i.Hi*o.Lo, i.Hi*o.Hi
	return Interval{Lo: min(a, b, c, d), Hi: max(a, b, c, d)}
}

// Reciprocal returns {1/v : v in i}. Intervals that contain or touch zero have
// an unbounded reciprocal.
func (i Interval) Reciprocal() Interval {
	if i.IsEmpty() {
		return EmptyInterval()
	}
	if i.Lo > reciprocalEpsilon || i.Hi < -reciprocalEpsilon {
		return Interval{Lo: 1 / i.Hi, Hi: 1 / i.Lo}
	}
	return EntireInterval()
}

// Intersect returns the values common to both intervals
func (i Interval) Intersect(o Interval) Interval {
	return Interval{Lo: max(i.Lo, o.Lo), Hi: min(i.Hi, o.Hi)}
}

// Union returns the smallest interval containing both
func (i Interval) Union(o Interval) Interval {
	if i.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return i
	}
	return Interval{Lo: min(i.Lo, o.Lo), Hi: max(i.Hi, o.Hi)}
}

func (i Interval) isUnbounded() bool {
	return math.IsInf(i.Lo, 0) || math.IsInf(i.Hi, 0)
}

// IVec3 holds one interval per axis
type IVec3 struct {
	X, Y, Z Interval
}

// EmptyIVec3 returns an interval vector with every axis empty
func EmptyIVec3() IVec3 {
	return IVec3{EmptyInterval(), EmptyInterval(), EmptyInterval()}
}

// PointIVec3 returns the degenerate interval vector around v
func PointIVec3(v Vec3) IVec3 {
	return IVec3{PointInterval(v.X), PointInterval(v.Y), PointInterval(v.Z)}
}

// Extend grows every axis to include v
func (iv IVec3) Extend(v Vec3) IVec3 {
	return IVec3{iv.X.Extend(v.X), iv.Y.Extend(v.Y), iv.Z.Extend(v.Z)}
}

// IsEmpty reports whether no vector has been added
func (iv IVec3) IsEmpty() bool {
	return iv.X.IsEmpty() || iv.Y.IsEmpty() || iv.Z.IsEmpty()
}

// Subtract returns the per-axis interval difference
func (iv IVec3) Subtract(o IVec3) IVec3 {
	return IVec3{iv.X.Subtract(o.X), iv.Y.Subtract(o.Y), iv.Z.Subtract(o.Z)}
}

// Multiply returns the per-axis interval product
func (iv IVec3) Multiply(o IVec3) IVec3 {
	return IVec3{iv.X.Multiply(o.X), iv.Y.Multiply(o.Y), iv.Z.Multiply(o.Z)}
}

// Reciprocal returns the per-axis interval reciprocal
func (iv IVec3) Reciprocal() IVec3 {
	return IVec3{iv.X.Reciprocal(), iv.Y.Reciprocal(), iv.Z.Reciprocal()}
}

// IntersectMembers intersects the three axis intervals
func (iv IVec3) IntersectMembers() Interval {
	return iv.X.Intersect(iv.Y).Intersect(iv.Z)
}
