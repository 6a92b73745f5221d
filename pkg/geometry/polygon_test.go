package geometry

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func TestTriangle_Intersect(t *testing.T) {
	tri := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testBinding())

	tests := []struct {
		name      string
		ray       core.Ray
		hit       bool
		expectedT float64
	}{
		{"Centre", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)), true, 1},
		{"From below", core.NewRay(core.NewVec3(0.25, 0.25, -2), core.NewVec3(0, 0, 1)), true, 2},
		{"Outside hypotenuse", core.NewRay(core.NewVec3(0.75, 0.75, 1), core.NewVec3(0, 0, -1)), false, 0},
		{"Outside left edge", core.NewRay(core.NewVec3(-0.1, 0.5, 1), core.NewVec3(0, 0, -1)), false, 0},
		{"Parallel to plane", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(1, 0, 0)), false, 0},
		{"Segment ends above", core.NewSegment(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0.25, 0.25, 0.5)), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isect, ok := tri.Intersect(tt.ray)
			if ok != tt.hit {
				t.Fatalf("Expected hit=%t, got %t", tt.hit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(isect.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%g, got %g", tt.expectedT, isect.T)
			}
			if math.Abs(math.Abs(isect.Normal().Z)-1) > 1e-9 {
				t.Errorf("Expected normal along z, got %v", isect.Normal())
			}
		})
	}
}

func TestPolygon_WindingIndependent(t *testing.T) {
	ccw := NewPolygon([]core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 2, Y: 2, Z: 0}, {X: 0, Y: 2, Z: 0}}, testBinding())
	cw := NewPolygon([]core.Vec3{{X: 0, Y: 2, Z: 0}, {X: 2, Y: 2, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}}, testBinding())

	inside := core.NewRay(core.NewVec3(1.5, 0.5, 3), core.NewVec3(0, 0, -1))
	outside := core.NewRay(core.NewVec3(2.5, 0.5, 3), core.NewVec3(0, 0, -1))

	for name, p := range map[string]*Polygon{"ccw": ccw, "cw": cw} {
		if _, ok := p.Intersect(inside); !ok {
			t.Errorf("%s: expected hit inside the square", name)
		}
		if _, ok := p.Intersect(outside); ok {
			t.Errorf("%s: expected miss outside the square", name)
		}
	}
}

func TestQuad_TextureMapping(t *testing.T) {
	// Left column red, right column blue
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}

	binding := testBinding()
	binding.Texture = material.NewTexture(img)
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(4, 0, 0), core.NewVec3(4, 4, 0), core.NewVec3(0, 4, 0), binding)

	tests := []struct {
		name     string
		x        float64
		expected core.Vec3
	}{
		{"Left edge", 0.1, core.NewVec3(1, 0, 0)},
		{"Right edge", 3.9, core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isect, ok := quad.Intersect(core.NewRay(core.NewVec3(tt.x, 2, 1), core.NewVec3(0, 0, -1)))
			if !ok {
				t.Fatal("Expected hit, got miss")
			}
			if isect.Primitive != Primitive(quad) {
				t.Fatalf("Expected hit attributed to the quad, got %T", isect.Primitive)
			}
			if c := isect.Diffuse(false); !vecClose(c, tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, c)
			}
		})
	}

	plain := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0), core.NewVec3(0, 1, 0), testBinding())
	if c := plain.Colour(core.NewVec3(0.5, 0.5, 0), true); c != testBinding().Material.Kd {
		t.Errorf("Expected Kd without a texture, got %v", c)
	}
}

func TestQuad_BumpPerturbsNormal(t *testing.T) {
	// Height rises along x
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{0, 0, uint8(x * 80), 255})
		}
	}

	binding := testBinding()
	binding.Bump = material.NewBump(img)
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0), core.NewVec3(0, 1, 0), binding)

	isect, ok := quad.Intersect(core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit, got miss")
	}

	n := isect.Normal()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", n.Length())
	}
	if n.X >= 0 {
		t.Errorf("Expected normal tilted away from rising height, got %v", n)
	}
	if isect.GeometricNormal() != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected geometric normal (0,0,1), got %v", isect.GeometricNormal())
	}
}
