package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"Straight through", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"Pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
		{"Parallel outside slab", NewRay(NewVec3(2, 0, -5), NewVec3(0, 0, 1)), false},
		{"Parallel inside slab", NewRay(NewVec3(0.5, 0.5, -5), NewVec3(0, 0, 1)), true},
		{"Diagonal", NewRay(NewVec3(-3, -3, -3), NewVec3(1, 1, 1)), true},
		{"Diagonal miss", NewRay(NewVec3(-3, 3, -3), NewVec3(1, 1, 1)), false},
		{"Segment stops short", NewSegment(NewVec3(0, 0, -5), NewVec3(0, 0, -2)), false},
		{"Segment reaches box", NewSegment(NewVec3(0, 0, -5), NewVec3(0, 0, 0)), true},
		{"Segment entirely inside", NewSegment(NewVec3(0, 0, -0.5), NewVec3(0, 0, 0.5)), true},
		{"Unbounded ray from inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray); got != tt.expected {
				t.Errorf("Expected Hit=%t, got %t", tt.expected, got)
			}
		})
	}
}

func TestAABB_Contains(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	onBoundary := NewRay(NewVec3(1, 0.5, 0.5), NewVec3(1, 0, 0))
	if !box.Contains(onBoundary) {
		t.Error("Expected ray starting on the boundary to be contained")
	}
	if !box.Accepts(NewSegment(NewVec3(0.2, 0.2, 0.2), NewVec3(0.4, 0.4, 0.4))) {
		t.Error("Expected segment inside the box to be accepted")
	}
	if box.Contains(NewRay(NewVec3(1.1, 0.5, 0.5), NewVec3(1, 0, 0))) {
		t.Error("Expected ray starting outside the box not to be contained")
	}
}

func TestAABB_Transform(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	moved := box.Transform(Translation(NewVec3(1, 2, 3)).Forward)
	if moved.Min != NewVec3(1, 2, 3) || moved.Max != NewVec3(2, 3, 4) {
		t.Errorf("Expected [(1,2,3),(2,3,4)], got [%v,%v]", moved.Min, moved.Max)
	}

	rotated := box.Transform(Rotation(2, math.Pi/4).Forward)
	half := math.Sqrt2 / 2
	const tolerance = 1e-9
	if math.Abs(rotated.Min.X+half) > tolerance || math.Abs(rotated.Max.X-half) > tolerance {
		t.Errorf("Expected x extent [-%f, %f], got [%f, %f]", half, half, rotated.Min.X, rotated.Max.X)
	}
	if math.Abs(rotated.Max.Y-math.Sqrt2) > tolerance {
		t.Errorf("Expected max y %f, got %f", math.Sqrt2, rotated.Max.Y)
	}
}

func TestAABB_LongestAxis(t *testing.T) {
	tests := []struct {
		name     string
		max      Vec3
		expected int
	}{
		{"X longest", NewVec3(3, 1, 1), 0},
		{"Y longest", NewVec3(1, 3, 1), 1},
		{"Z longest", NewVec3(1, 1, 3), 2},
		{"Tie", NewVec3(2, 2, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewAABB(Vec3{}, tt.max)
			if got := box.LongestAxis(); got != tt.expected {
				t.Errorf("Expected axis %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestAABB_AllMissNeverRejectsAHit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randomVec := func(scale float64) Vec3 {
		return NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Multiply(scale)
	}

	for trial := 0; trial < 500; trial++ {
		lo := randomVec(3)
		box := NewAABB(lo, lo.Add(NewVec3(rng.Float64()+0.1, rng.Float64()+0.1, rng.Float64()+0.1)))

		// A loosely coherent bundle of rays
		base := randomVec(5)
		dir := randomVec(1)
		rays := make([]*Ray, 8)
		for i := range rays {
			var r Ray
			if trial%2 == 0 {
				r = NewRay(base.Add(randomVec(0.5)), dir.Add(randomVec(0.3)))
			} else {
				r = NewSegment(base.Add(randomVec(0.5)), base.Add(dir.Multiply(8)).Add(randomVec(1)))
			}
			rays[i] = &r
		}
		packet := NewPacket(rays)

		anyHit := false
		for _, r := range rays {
			if box.Hit(*r) {
				anyHit = true
			}
		}

		if anyHit && box.AllMiss(packet) {
			t.Fatalf("Trial %d: packet rejected although a ray hits the box", trial)
		}
		if anyHit && box.PacketTest(packet, 0) == packet.Len() {
			t.Fatalf("Trial %d: packet test found no ray although one hits the box", trial)
		}
	}
}

func TestAABB_PacketTest(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	miss := NewRay(NewVec3(5, 5, -5), NewVec3(0, 0, 1))
	hit := NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1))

	packet := NewPacket([]*Ray{&miss, nil, &hit})
	if got := box.PacketTest(packet, 0); got != 2 {
		t.Errorf("Expected first accepting ray at index 2, got %d", got)
	}

	away := NewPacket([]*Ray{&miss})
	if !box.AllMiss(away) {
		t.Error("Expected packet parallel to and outside the box to be rejected")
	}

	empty := NewPacket([]*Ray{nil, nil})
	if got := box.PacketTest(empty, 0); got != 2 {
		t.Errorf("Expected empty packet to report no ray, got %d", got)
	}
}
