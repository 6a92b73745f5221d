package accel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func testBinding() geometry.Binding {
	return geometry.Binding{Material: material.NewPhong(core.NewVec3(0.5, 0.5, 0.5), core.Vec3{}, 10)}
}

func randomVec(rng *rand.Rand, lo, hi float64) core.Vec3 {
	return core.NewVec3(
		lo+rng.Float64()*(hi-lo),
		lo+rng.Float64()*(hi-lo),
		lo+rng.Float64()*(hi-lo),
	)
}

// randomScene scatters n mixed primitives through [-10,10]³
func randomScene(rng *rand.Rand, n int) *geometry.Arena {
	arena := geometry.NewArena()
	for i := 0; i < n; i++ {
		pos := randomVec(rng, -10, 10)
		switch i % 5 {
		case 0:
			arena.Add(geometry.NewNonhierSphere(pos, 0.2+rng.Float64(), testBinding()))
		case 1:
			arena.Add(geometry.NewNonhierBox(pos, randomVec(rng, 0.2, 1.5), testBinding()))
		case 2:
			tr := core.Scaling(randomVec(rng, 0.3, 1.5)).
				Then(core.Rotation(rng.Intn(3), rng.Float64()*math.Pi)).
				Then(core.Translation(pos))
			arena.Add(geometry.NewCube(testBinding()).Transformed(tr))
		case 3:
			arena.Add(geometry.NewSphereAt(pos, 0.2+rng.Float64(), testBinding()))
		default:
			arena.Add(geometry.NewTriangle(pos, pos.Add(randomVec(rng, -2, 2)), pos.Add(randomVec(rng, -2, 2)), testBinding()))
		}
	}
	return arena
}

// randomRay returns an unbounded ray or a segment, often starting or ending inside the scene
func randomRay(rng *rand.Rand) core.Ray {
	origin := randomVec(rng, -15, 15)
	switch rng.Intn(3) {
	case 0:
		return core.NewRay(origin, randomVec(rng, -1, 1))
	case 1:
		return core.NewSegment(origin, randomVec(rng, -10, 10))
	default:
		return core.NewRay(origin, randomVec(rng, -10, 10).Subtract(origin))
	}
}

func TestBIH_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	arena := randomScene(rng, 300)
	tree := Build(arena, DefaultOptions())

	for i := 0; i < 5000; i++ {
		ray := randomRay(rng)

		expected, expectedHit := arena.Intersect(ray)
		got, hit := tree.Intersect(ray)
		if hit != expectedHit {
			t.Fatalf("Ray %d: expected hit=%t, got %t", i, expectedHit, hit)
		}
		if hit && got.T != expected.T {
			t.Errorf("Ray %d: expected t=%g, got %g", i, expected.T, got.T)
		}
		if hit && got.Primitive != expected.Primitive {
			t.Errorf("Ray %d: expected primitive %p, got %p", i, expected.Primitive, got.Primitive)
		}

		if occluded := tree.Occluded(ray); occluded != expectedHit {
			t.Errorf("Ray %d: expected occluded=%t, got %t", i, expectedHit, occluded)
		}
	}
}

func TestBIH_PacketMatchesSingleRays(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	arena := randomScene(rng, 200)
	tree := Build(arena, DefaultOptions())

	const packetSize = 16
	for trial := 0; trial < 300; trial++ {
		// A coherent bundle from a shared neighbourhood with some inactive slots
		base := randomVec(rng, -15, 15)
		target := randomVec(rng, -8, 8)
		rays := make([]*core.Ray, packetSize)
		for i := range rays {
			if rng.Intn(5) == 0 {
				continue
			}
			origin := base.Add(randomVec(rng, -0.5, 0.5))
			end := target.Add(randomVec(rng, -3, 3))
			var r core.Ray
			if trial%2 == 0 {
				r = core.NewSegment(origin, end)
			} else {
				r = core.NewRay(origin, end.Subtract(origin))
			}
			rays[i] = &r
		}
		packet := core.NewPacket(rays)

		hits := make([]geometry.Intersection, packetSize)
		found := make([]bool, packetSize)
		occluded := make([]bool, packetSize)
		tree.IntersectPacket(packet, hits, found)
		tree.OccludedPacket(packet, occluded)

		for i, r := range rays {
			if r == nil {
				if found[i] || occluded[i] {
					t.Errorf("Trial %d ray %d: inactive slot reported a hit", trial, i)
				}
				continue
			}

			expected, expectedHit := tree.Intersect(*r)
			if found[i] != expectedHit {
				t.Fatalf("Trial %d ray %d: expected hit=%t, got %t", trial, i, expectedHit, found[i])
			}
			if expectedHit && hits[i].T != expected.T {
				t.Errorf("Trial %d ray %d: expected t=%g, got %g", trial, i, expected.T, hits[i].T)
			}
			if expectedHit && hits[i].Primitive != expected.Primitive {
				t.Errorf("Trial %d ray %d: expected primitive %p, got %p", trial, i, expected.Primitive, hits[i].Primitive)
			}
			if occluded[i] != expectedHit {
				t.Errorf("Trial %d ray %d: expected occluded=%t, got %t", trial, i, expectedHit, occluded[i])
			}
		}

		// The caller's rays are left untouched
		for i, r := range rays {
			if r != nil && packet.Rays[i] != r {
				t.Fatalf("Trial %d: packet slot %d was replaced", trial, i)
			}
		}
	}
}

func TestBIH_Structure(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	arena := randomScene(rng, 150)
	tree := Build(arena, DefaultOptions())

	seen := make(map[geometry.Handle]int)
	var walk func(n node, box core.AABB, depth int)
	walk = func(n node, box core.AABB, depth int) {
		switch nd := n.(type) {
		case *leafNode:
			for _, h := range nd.handles {
				seen[h]++
				if !box.ContainsBox(arena.Get(h).BoundingBox()) {
					t.Errorf("Primitive %d escapes its leaf bounds at depth %d", h, depth)
				}
			}
		case *innerNode:
			if nd.children[0] == nil || nd.children[1] == nil {
				t.Fatalf("Inner node at depth %d is missing a child", depth)
			}
			walk(nd.children[0], nd.childBox(box, 0), depth+1)
			walk(nd.children[1], nd.childBox(box, 1), depth+1)
		}
	}
	walk(tree.root, tree.Bounds(), 0)

	if len(seen) != arena.Len() {
		t.Errorf("Expected %d primitives in leaves, got %d", arena.Len(), len(seen))
	}
	for h, count := range seen {
		if count != 1 {
			t.Errorf("Primitive %d appears in %d leaves", h, count)
		}
	}

	stats := tree.Stats()
	if stats.Primitives != arena.Len() {
		t.Errorf("Expected %d primitive references, got %d", arena.Len(), stats.Primitives)
	}
	if stats.Nodes != 2*stats.Leaves-1 {
		t.Errorf("Expected a full binary tree, got %d nodes for %d leaves", stats.Nodes, stats.Leaves)
	}
	if stats.MaxDepth > DefaultMaxDepth {
		t.Errorf("Expected depth at most %d, got %d", DefaultMaxDepth, stats.MaxDepth)
	}
}

func TestBIH_DegenerateInput(t *testing.T) {
	// Identical primitives can never be separated
	arena := geometry.NewArena()
	for i := 0; i < 50; i++ {
		arena.Add(geometry.NewNonhierSphere(core.NewVec3(1, 2, 3), 1, testBinding()))
	}

	tests := []struct {
		name     string
		opts     Options
		maxDepth int
	}{
		{"Default limits", DefaultOptions(), DefaultMaxDepth},
		{"Shallow", Options{MaxDepth: 3, LeafSize: 1}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Build(arena, tt.opts)
			stats := tree.Stats()

			if stats.MaxDepth > tt.maxDepth {
				t.Errorf("Expected depth at most %d, got %d", tt.maxDepth, stats.MaxDepth)
			}
			if stats.Primitives != 50 {
				t.Errorf("Expected 50 primitive references, got %d", stats.Primitives)
			}

			isect, ok := tree.Intersect(core.NewRay(core.NewVec3(1, 2, -10), core.NewVec3(0, 0, 1)))
			if !ok || math.Abs(isect.T-12) > 1e-9 {
				t.Errorf("Expected hit at t=12, got hit=%t t=%g", ok, isect.T)
			}
		})
	}
}

func TestBIH_Empty(t *testing.T) {
	tree := Build(geometry.NewArena(), DefaultOptions())
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))

	if _, ok := tree.Intersect(ray); ok {
		t.Error("Expected no hit in an empty tree")
	}
	if tree.Occluded(ray) {
		t.Error("Expected nothing to occlude in an empty tree")
	}

	found := []bool{true}
	tree.IntersectPacket(core.NewPacket([]*core.Ray{&ray}), make([]geometry.Intersection, 1), found)
	if found[0] {
		t.Error("Expected packet to find no hit in an empty tree")
	}
	if tree.Stats().Nodes != 0 {
		t.Errorf("Expected no nodes, got %d", tree.Stats().Nodes)
	}
}

func TestBIH_LeafSize(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	arena := randomScene(rng, 100)
	tree := Build(arena, Options{MaxDepth: DefaultMaxDepth, LeafSize: 8})

	stats := tree.Stats()
	if stats.MaxLeafSize > 8 {
		t.Errorf("Expected leaves of at most 8 primitives, got %d", stats.MaxLeafSize)
	}
	if stats.Leaves >= 100 {
		t.Errorf("Expected fewer leaves than primitives, got %d", stats.Leaves)
	}
}
