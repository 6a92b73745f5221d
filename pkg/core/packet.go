package core

import (
	"math"
)

// Packet is a batch of rays traced together. Nil slots are inactive rays whose
// result is already known. The aggregated intervals bound every active ray and
// let a whole packet be rejected against a box in one test.
type Packet struct {
	Rays []*Ray

	origin     IVec3
	direction  IVec3
	reciprocal IVec3

	finite bool
	length float64
	active int
}

// NewPacket creates a packet over rays and computes its bounding intervals
func NewPacket(rays []*Ray) *Packet {
	p := &Packet{Rays: rays}
	p.UpdateIntervals()
	return p
}

// UpdateIntervals recomputes the aggregated intervals from the active rays.
// Shortening rays in place keeps the old intervals conservative, so callers
// only need this after adding rays or changing origins or directions.
func (p *Packet) UpdateIntervals() {
	p.origin = EmptyIVec3()
	p.direction = EmptyIVec3()
	p.finite = true
	p.length = 0
	p.active = 0

	for _, ray := range p.Rays {
		if ray == nil {
			continue
		}
		p.active++
		p.origin = p.origin.Extend(ray.Origin)
		p.direction = p.direction.Extend(ray.Direction)

		if ray.HasEndpoint && p.finite {
			p.length = max(p.length, ray.Length)
		} else {
			p.finite = false
			p.length = math.Inf(1)
		}
	}

	if p.active == 0 {
		p.finite = false
		p.length = math.Inf(1)
	}
	p.reciprocal = p.direction.Reciprocal()
}

// Len returns the number of slots, active or not
func (p *Packet) Len() int {
	return len(p.Rays)
}

// Active returns the number of non-nil rays
func (p *Packet) Active() int {
	return p.active
}

// Origin returns the interval hull of the active rays' origins
func (p *Packet) Origin() IVec3 {
	return p.origin
}

// Direction returns the interval hull of the active rays' directions
func (p *Packet) Direction() IVec3 {
	return p.direction
}

// Reciprocal returns the interval hull of the active rays' inverse directions
func (p *Packet) Reciprocal() IVec3 {
	return p.reciprocal
}

// IsFinite reports whether every active ray is a finite segment
func (p *Packet) IsFinite() bool {
	return p.finite
}

// Length returns the longest active segment, or +Inf if any ray is unbounded
func (p *Packet) Length() float64 {
	return p.length
}

// FirstActive returns the index of the first non-nil ray at or after start
func (p *Packet) FirstActive(start int) int {
	for i := start; i < len(p.Rays); i++ {
		if p.Rays[i] != nil {
			return i
		}
	}
	return len(p.Rays)
}
