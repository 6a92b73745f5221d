package core

import (
	"math"
	"testing"
)

func TestPacket_UpdateIntervals(t *testing.T) {
	a := NewSegment(NewVec3(0, 0, 0), NewVec3(0, 0, 2))
	b := NewSegment(NewVec3(1, -1, 0), NewVec3(1, -1, 5))
	packet := NewPacket([]*Ray{&a, nil, &b})

	if packet.Active() != 2 {
		t.Errorf("Expected 2 active rays, got %d", packet.Active())
	}
	if !packet.IsFinite() {
		t.Error("Expected packet of segments to be finite")
	}
	if packet.Length() != 5 {
		t.Errorf("Expected packet length 5, got %f", packet.Length())
	}

	origin := packet.Origin()
	if origin.X != (Interval{0, 1}) || origin.Y != (Interval{-1, 0}) {
		t.Errorf("Expected origin hull x=[0,1] y=[-1,0], got %v", origin)
	}

	recip := packet.Reciprocal()
	if recip.Z != (Interval{1, 1}) {
		t.Errorf("Expected z reciprocal [1,1], got %v", recip.Z)
	}
	if !recip.X.isUnbounded() {
		t.Errorf("Expected x reciprocal to be unbounded, got %v", recip.X)
	}
}

func TestPacket_MixedLengths(t *testing.T) {
	a := NewSegment(NewVec3(0, 0, 0), NewVec3(0, 0, 2))
	b := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1))
	packet := NewPacket([]*Ray{&a, &b})

	if packet.IsFinite() {
		t.Error("Expected packet with an unbounded ray to be infinite")
	}
	if !math.IsInf(packet.Length(), 1) {
		t.Errorf("Expected infinite length, got %f", packet.Length())
	}
}

func TestPacket_FirstActive(t *testing.T) {
	r := NewRay(Vec3{}, NewVec3(1, 0, 0))
	packet := NewPacket([]*Ray{nil, nil, &r, nil})

	tests := []struct {
		start    int
		expected int
	}{
		{0, 2},
		{2, 2},
		{3, 4},
	}

	for _, tt := range tests {
		if got := packet.FirstActive(tt.start); got != tt.expected {
			t.Errorf("FirstActive(%d): expected %d, got %d", tt.start, tt.expected, got)
		}
	}
}
