package tracer

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func matte(kd, ks float64) geometry.Binding {
	return geometry.Binding{Material: material.NewPhong(core.NewVec3(kd, kd, kd), core.NewVec3(ks, ks, ks), 10)}
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance && math.Abs(a.Z-b.Z) <= tolerance
}

func newTestTracer(t *testing.T, arena *geometry.Arena, lights []*material.Light, config RenderConfig) *Tracer {
	t.Helper()
	tr, err := New(arena, lights, core.NewVec3(0.1, 0.1, 0.1), config)
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	return tr
}

func TestRenderConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RenderConfig)
		valid  bool
	}{
		{"Defaults", func(c *RenderConfig) {}, true},
		{"Auto workers", func(c *RenderConfig) { c.Workers = 0 }, true},
		{"No recursion", func(c *RenderConfig) { c.MaxDepth = 0 }, true},
		{"Negative depth", func(c *RenderConfig) { c.MaxDepth = -1 }, false},
		{"Zero epsilon", func(c *RenderConfig) { c.Epsilon = 0 }, false},
		{"Negative workers", func(c *RenderConfig) { c.Workers = -2 }, false},
		{"Zero sample width", func(c *RenderConfig) { c.SampleWidth = 0 }, false},
		{"Tile smaller than a pixel", func(c *RenderConfig) { c.TileSize = 2; c.SampleWidth = 4 }, false},
		{"Zero leaf size", func(c *RenderConfig) { c.BIHLeafSize = 0 }, false},
		{"Zero BIH depth", func(c *RenderConfig) { c.BIHMaxDepth = 0 }, false},
		{"Negative attenuation", func(c *RenderConfig) { c.ReflectionAttenuation = -0.5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultRenderConfig()
			tt.modify(&config)

			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	config := DefaultRenderConfig()
	config.SampleWidth = 0
	if _, err := New(geometry.NewArena(), nil, core.Vec3{}, config); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if _, err := New(nil, nil, core.Vec3{}, DefaultRenderConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for missing arena, got %v", err)
	}
}

func TestTracer_DirectLighting(t *testing.T) {
	// Head-on view of a unit sphere lit from behind the eye:
	// ambient 0.5·0.1 + lambert 0.5·1 + highlight 0.2·1
	arena := geometry.NewArena(geometry.NewNonhierSphere(core.Vec3{}, 1, matte(0.5, 0.2)))
	light := material.NewPointLight(core.NewVec3(0, 0, -10), core.NewVec3(1, 1, 1))

	for _, useBIH := range []bool{true, false} {
		config := DefaultRenderConfig()
		config.UseBIH = useBIH
		tr := newTestTracer(t, arena, []*material.Light{light}, config)

		colour, hit := tr.TraceRay(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)))
		if !hit {
			t.Fatalf("BIH=%t: expected hit, got miss", useBIH)
		}
		expected := core.NewVec3(0.75, 0.75, 0.75)
		if !vecClose(colour, expected, 1e-9) {
			t.Errorf("BIH=%t: expected %v, got %v", useBIH, expected, colour)
		}

		if _, hit := tr.TraceRay(core.NewRay(core.NewVec3(0, 5, -5), core.NewVec3(0, 0, 1))); hit {
			t.Errorf("BIH=%t: expected miss above the sphere", useBIH)
		}
	}
}

func TestTracer_OccludedLight(t *testing.T) {
	target := geometry.NewNonhierSphere(core.Vec3{}, 1, matte(0.5, 0))
	blocker := geometry.NewNonhierSphere(core.NewVec3(-2.5, 1.5, 0), 0.5, matte(0.5, 0))
	light := material.NewPointLight(core.NewVec3(-4, 3, 0), core.NewVec3(1, 1, 1))
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	tests := []struct {
		name     string
		arena    *geometry.Arena
		ambiOnly bool
	}{
		{"Blocked", geometry.NewArena(target, blocker), true},
		{"Unblocked", geometry.NewArena(target), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracer(t, tt.arena, []*material.Light{light}, DefaultRenderConfig())
			colour, hit := tr.TraceRay(ray)
			if !hit {
				t.Fatal("Expected hit, got miss")
			}

			ambient := core.NewVec3(0.05, 0.05, 0.05)
			if tt.ambiOnly && !vecClose(colour, ambient, 1e-12) {
				t.Errorf("Expected ambient-only %v, got %v", ambient, colour)
			}
			if !tt.ambiOnly && colour.X <= ambient.X+1e-6 {
				t.Errorf("Expected direct light above ambient, got %v", colour)
			}
		})
	}
}

func TestTracer_LightFalloff(t *testing.T) {
	arena := geometry.NewArena(geometry.NewNonhierSphere(core.Vec3{}, 1, matte(0.5, 0)))
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	tests := []struct {
		name     string
		falloff  [3]float64
		expected float64
	}{
		// Light 3 units from the hit point
		{"Constant", [3]float64{2, 0, 0}, 0.05 + 0.5/2},
		{"Linear", [3]float64{0, 1, 0}, 0.05 + 0.5/3},
		{"Quadratic", [3]float64{1, 0, 1}, 0.05 + 0.5/10},
		{"Zero denominator", [3]float64{0, 0, 0}, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			light := material.NewLight(core.NewVec3(0, 0, -4), core.NewVec3(1, 1, 1), tt.falloff)
			tr := newTestTracer(t, arena, []*material.Light{light}, DefaultRenderConfig())

			colour, _ := tr.TraceRay(ray)
			if math.Abs(colour.X-tt.expected) > 1e-9 {
				t.Errorf("Expected %g, got %g", tt.expected, colour.X)
			}
		})
	}
}

func hallOfMirrors() (*geometry.Arena, []*material.Light) {
	mirror := geometry.Binding{Material: material.NewPhong(core.Vec3{}, core.NewVec3(1, 1, 1), 20)}
	near := geometry.NewQuad(
		core.NewVec3(-5, -5, 0), core.NewVec3(5, -5, 0), core.NewVec3(5, 5, 0), core.NewVec3(-5, 5, 0), mirror)
	far := geometry.NewQuad(
		core.NewVec3(-5, -5, 2), core.NewVec3(5, -5, 2), core.NewVec3(5, 5, 2), core.NewVec3(-5, 5, 2), mirror)
	light := material.NewPointLight(core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1))
	return geometry.NewArena(near, far), []*material.Light{light}
}

func TestTracer_HallOfMirrors(t *testing.T) {
	arena, lights := hallOfMirrors()

	for _, maxDepth := range []int{0, 1, 5, 12} {
		config := DefaultRenderConfig()
		config.MaxDepth = maxDepth
		tr := newTestTracer(t, arena, lights, config)

		colour, hit := tr.TraceRay(core.NewRay(core.NewVec3(0.1, 0.2, 1), core.NewVec3(0, 0, 1)))
		if !hit {
			t.Fatalf("MaxDepth=%d: expected hit, got miss", maxDepth)
		}
		if !colour.IsFinite() {
			t.Errorf("MaxDepth=%d: expected finite colour, got %v", maxDepth, colour)
		}

		stats := tr.Stats()
		if stats.MaxDepth != maxDepth {
			t.Errorf("MaxDepth=%d: expected deepest level %d, got %d", maxDepth, maxDepth, stats.MaxDepth)
		}
		if stats.Reflection != int64(maxDepth) {
			t.Errorf("MaxDepth=%d: expected %d reflection rays, got %d", maxDepth, maxDepth, stats.Reflection)
		}
		if stats.Shadow != int64(maxDepth+1) {
			t.Errorf("MaxDepth=%d: expected %d shadow rays, got %d", maxDepth, maxDepth+1, stats.Shadow)
		}

		// The packet path stops at the same level
		tr.ResetStats()
		ray := core.NewRay(core.NewVec3(0.1, 0.2, 1), core.NewVec3(0, 0, 1))
		colours := make([]core.Vec3, 1)
		hits := make([]bool, 1)
		tr.TracePacket(core.NewPacket([]*core.Ray{&ray}), colours, hits)
		if !hits[0] || !vecClose(colours[0], colour, 1e-9) {
			t.Errorf("MaxDepth=%d: expected packet colour %v, got %v", maxDepth, colour, colours[0])
		}
		if tr.Stats().MaxDepth != maxDepth {
			t.Errorf("MaxDepth=%d: expected packet deepest level %d, got %d", maxDepth, maxDepth, tr.Stats().MaxDepth)
		}
	}
}

func TestTracer_Refraction(t *testing.T) {
	tr := newTestTracer(t, geometry.NewArena(), nil, DefaultRenderConfig())
	up := core.NewVec3(0, 0, 1)
	s45 := math.Sqrt(0.5)

	tests := []struct {
		name      string
		direction core.Vec3
		medium    float64
		expected  core.Vec3
	}{
		{"Normal incidence passes straight", core.NewVec3(0, 0, -1), 1.5, core.NewVec3(0, 0, -1)},
		{"Matched medium passes straight", core.NewVec3(s45, 0, -s45), 1.0, core.NewVec3(s45, 0, -s45)},
		{
			"Entering bends towards the normal",
			core.NewVec3(s45, 0, -s45), 1.5,
			core.NewVec3(s45/1.5, 0, -math.Sqrt(1-0.5/2.25)),
		},
		{
			"Total internal reflection mirrors",
			core.NewVec3(math.Sqrt(3)/2, 0, 0.5), 1.5,
			core.NewVec3(math.Sqrt(3)/2, 0, -0.5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, 1), tt.direction)
			out := tr.refracted(ray, core.Vec3{}, up, tt.medium)
			if !vecClose(out.Direction, tt.expected, 1e-9) {
				t.Errorf("Expected direction %v, got %v", tt.expected, out.Direction)
			}
			if out.Epsilon != tr.Config().Epsilon {
				t.Errorf("Expected epsilon %g, got %g", tr.Config().Epsilon, out.Epsilon)
			}
		})
	}
}

// randomMaterialScene mixes matte, mirrored and glass primitives
func randomMaterialScene(rng *rand.Rand, n int) *geometry.Arena {
	bindings := []geometry.Binding{
		matte(0.7, 0),
		matte(0.4, 0.5),
		{Material: material.NewPhong(core.NewVec3(0.1, 0.2, 0.3), core.NewVec3(0.9, 0.8, 0.7), 40)},
		{Material: material.NewTransmissive(core.NewVec3(0.2, 0.2, 0.2), core.NewVec3(0.5, 0.5, 0.5), 30, 0.7, 1.5)},
		{Material: material.NewTransmissive(core.Vec3{}, core.Vec3{}, 1, 1, 1.33)},
	}

	arena := geometry.NewArena()
	for i := 0; i < n; i++ {
		pos := core.NewVec3(rng.Float64()*16-8, rng.Float64()*16-8, rng.Float64()*16-8)
		b := bindings[rng.Intn(len(bindings))]
		if i%3 == 0 {
			size := core.NewVec3(0.5+rng.Float64(), 0.5+rng.Float64(), 0.5+rng.Float64())
			arena.Add(geometry.NewNonhierBox(pos, size, b))
		} else {
			arena.Add(geometry.NewSphereAt(pos, 0.3+rng.Float64(), b))
		}
	}
	return arena
}

func TestTracer_PacketMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	arena := randomMaterialScene(rng, 60)
	lights := []*material.Light{
		material.NewPointLight(core.NewVec3(0, 20, -20), core.NewVec3(0.8, 0.8, 0.8)),
		material.NewLight(core.NewVec3(-15, 5, 0), core.NewVec3(0.5, 0.4, 0.3), [3]float64{1, 0.01, 0.001}),
	}

	for _, useBIH := range []bool{true, false} {
		config := DefaultRenderConfig()
		config.UseBIH = useBIH
		scalar := newTestTracer(t, arena, lights, config)
		packet := newTestTracer(t, arena, lights, config)

		const size = 64
		for trial := 0; trial < 20; trial++ {
			eye := core.NewVec3(rng.Float64()*4-2, rng.Float64()*4-2, -25)
			rays := make([]*core.Ray, size)
			for i := range rays {
				if i%7 == 3 {
					continue
				}
				target := core.NewVec3(rng.Float64()*16-8, rng.Float64()*16-8, rng.Float64()*8-4)
				r := core.NewRay(eye, target.Subtract(eye))
				rays[i] = &r
			}

			colours := make([]core.Vec3, size)
			hits := make([]bool, size)
			packet.TracePacket(core.NewPacket(rays), colours, hits)

			for i, r := range rays {
				if r == nil {
					if hits[i] || colours[i] != (core.Vec3{}) {
						t.Errorf("BIH=%t trial %d: inactive slot %d produced output", useBIH, trial, i)
					}
					continue
				}
				expected, hit := scalar.TraceRay(*r)
				if hit != hits[i] {
					t.Fatalf("BIH=%t trial %d ray %d: expected hit=%t, got %t", useBIH, trial, i, hit, hits[i])
				}
				if !vecClose(colours[i], expected, 1e-9) {
					t.Errorf("BIH=%t trial %d ray %d: expected %v, got %v", useBIH, trial, i, expected, colours[i])
				}
			}
		}

		if scalar.Stats() != packet.Stats() {
			t.Errorf("BIH=%t: expected matching ray counts, scalar %+v packet %+v", useBIH, scalar.Stats(), packet.Stats())
		}
		if packet.Stats().MaxDepth > config.MaxDepth {
			t.Errorf("BIH=%t: depth %d exceeds limit %d", useBIH, packet.Stats().MaxDepth, config.MaxDepth)
		}
	}
}

func TestRayCounts_Total(t *testing.T) {
	c := RayCounts{Primary: 1, Shadow: 2, Reflection: 3, Refraction: 4}
	if c.Total() != 10 {
		t.Errorf("Expected 10 rays, got %d", c.Total())
	}
}
