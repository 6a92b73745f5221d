package core

import (
	"math"
	"testing"
)

func TestInterval_Extend(t *testing.T) {
	i := EmptyInterval()
	if !i.IsEmpty() {
		t.Fatal("Expected empty interval")
	}

	i = i.Extend(3).Extend(-1).Extend(2)
	if i.Lo != -1 || i.Hi != 3 {
		t.Errorf("Expected [-1, 3], got [%f, %f]", i.Lo, i.Hi)
	}
}

func TestInterval_IntersectUnion(t *testing.T) {
	a := NewInterval(0, 2)
	b := NewInterval(1, 4)
	c := NewInterval(5, 6)

	if got := a.Intersect(b); got != (Interval{1, 2}) {
		t.Errorf("Expected [1, 2], got %v", got)
	}
	if got := a.Union(b); got != (Interval{0, 4}) {
		t.Errorf("Expected [0, 4], got %v", got)
	}
	if !a.Intersect(c).IsEmpty() {
		t.Errorf("Expected disjoint intervals to intersect to empty, got %v", a.Intersect(c))
	}
	if got := EmptyInterval().Union(c); got != c {
		t.Errorf("Expected union with empty to be %v, got %v", c, got)
	}
}

func TestInterval_Multiply(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Interval
		expected Interval
	}{
		{"Positive", NewInterval(1, 2), NewInterval(3, 4), Interval{3, 8}},
		{"Mixed signs", NewInterval(-1, 2), NewInterval(3, 4), Interval{-4, 8}},
		{"Both negative", NewInterval(-2, -1), NewInterval(-4, -3), Interval{3, 8}},
		{"Straddling", NewInterval(-1, 2), NewInterval(-3, 1), Interval{-6, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Multiply(tt.b); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	unbounded := NewInterval(0, 1).Multiply(EntireInterval())
	if !math.IsInf(unbounded.Lo, -1) || !math.IsInf(unbounded.Hi, 1) {
		t.Errorf("Expected entire line, got %v", unbounded)
	}
}

func TestInterval_Reciprocal(t *testing.T) {
	tests := []struct {
		name      string
		interval  Interval
		expected  Interval
		unbounded bool
	}{
		{name: "Positive", interval: NewInterval(2, 4), expected: Interval{0.25, 0.5}},
		{name: "Negative", interval: NewInterval(-4, -2), expected: Interval{-0.5, -0.25}},
		{name: "Contains zero", interval: NewInterval(-1, 1), unbounded: true},
		{name: "Touches zero", interval: NewInterval(0, 1), unbounded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.interval.Reciprocal()
			if tt.unbounded {
				if !got.isUnbounded() {
					t.Errorf("Expected unbounded reciprocal, got %v", got)
				}
				return
			}
			if math.Abs(got.Lo-tt.expected.Lo) > 1e-12 || math.Abs(got.Hi-tt.expected.Hi) > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIVec3_IntersectMembers(t *testing.T) {
	iv := IVec3{NewInterval(0, 5), NewInterval(1, 3), NewInterval(2, 6)}
	if got := iv.IntersectMembers(); got != (Interval{2, 3}) {
		t.Errorf("Expected [2, 3], got %v", got)
	}

	iv.Z = NewInterval(4, 6)
	if !iv.IntersectMembers().IsEmpty() {
		t.Errorf("Expected empty intersection, got %v", iv.IntersectMembers())
	}
}
