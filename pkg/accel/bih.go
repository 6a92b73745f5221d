package accel

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Default build limits
const (
	DefaultMaxDepth = 40
	DefaultLeafSize = 1
)

// Options control BIH construction
type Options struct {
	MaxDepth int // Deepest level a node may be created at
	LeafSize int // Subranges of this many primitives or fewer become leaves
}

// DefaultOptions returns the standard build limits
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, LeafSize: DefaultLeafSize}
}

// node is either an *innerNode or a *leafNode
type node interface {
	isNode()
}

// innerNode splits its primitives along one axis. planes[0] is the highest
// extent of the left child's primitives and planes[1] the lowest extent of the
// right child's; the two may overlap.
type innerNode struct {
	axis     int
	planes   [2]float64
	children [2]node
}

// leafNode holds a contiguous range of the tree's handle array
type leafNode struct {
	handles []geometry.Handle
}

func (*innerNode) isNode() {}
func (*leafNode) isNode()  {}

// childBox returns the bounds of child i of n given the bounds of n
func (n *innerNode) childBox(box core.AABB, i int) core.AABB {
	if i == 0 {
		return box.WithMax(n.axis, n.planes[0])
	}
	return box.WithMin(n.axis, n.planes[1])
}

// BIH is a bounding interval hierarchy over the primitives of an arena. It is
// read-only once built and safe for concurrent queries.
type BIH struct {
	arena   *geometry.Arena
	handles []geometry.Handle
	root    node
	bounds  core.AABB
	stats   Stats
}

// buildJob is a pending subrange of the handle array. box is the volume whose
// longest axis and median drive the next split; slot receives the built node.
type buildJob struct {
	lo, hi int
	box    core.AABB
	depth  int
	slot   *node
}

// Build constructs a BIH over every primitive in the arena. Construction uses
// an explicit stack so adversarial inputs cannot exhaust the call stack.
func Build(arena *geometry.Arena, opts Options) *BIH {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.LeafSize <= 0 {
		opts.LeafSize = DefaultLeafSize
	}

	t := &BIH{
		arena:   arena,
		handles: arena.Handles(),
		bounds:  arena.Bounds(),
	}
	if len(t.handles) == 0 {
		return t
	}

	boxes := make([]core.AABB, arena.Len())
	for i := range boxes {
		boxes[i] = arena.Get(geometry.Handle(i)).BoundingBox()
	}

	stack := []buildJob{{lo: 0, hi: len(t.handles), box: t.bounds, depth: 0, slot: &t.root}}
	for len(stack) > 0 {
		job := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if job.hi-job.lo <= opts.LeafSize || job.depth >= opts.MaxDepth {
			*job.slot = &leafNode{handles: t.handles[job.lo:job.hi:job.hi]}
			continue
		}

		axis := job.box.LongestAxis()
		split := job.box.Median(axis)
		mid, leftMax, rightMin := partition(t.handles[job.lo:job.hi], boxes, axis, split)
		mid += job.lo

		// Everything fell on one side: shrink the split volume and retry
		if mid == job.lo || mid == job.hi {
			if mid == job.hi {
				job.box = job.box.WithMax(axis, split)
			} else {
				job.box = job.box.WithMin(axis, split)
			}
			job.depth++
			stack = append(stack, job)
			continue
		}

		inner := &innerNode{axis: axis, planes: [2]float64{leftMax, rightMin}}
		*job.slot = inner
		stack = append(stack,
			buildJob{lo: mid, hi: job.hi, box: job.box.WithMin(axis, split), depth: job.depth + 1, slot: &inner.children[1]},
			buildJob{lo: job.lo, hi: mid, box: job.box.WithMax(axis, split), depth: job.depth + 1, slot: &inner.children[0]},
		)
	}

	t.stats = t.collectStats()
	return t
}

// partition reorders handles so primitives whose bounds are centred at or
// below split come first. It returns the number of those and the extents the
// two sides actually occupy along axis.
func partition(handles []geometry.Handle, boxes []core.AABB, axis int, split float64) (int, float64, float64) {
	leftMax := math.Inf(-1)
	rightMin := math.Inf(1)

	i, j := 0, len(handles)-1
	for i <= j {
		box := boxes[handles[i]]
		if box.Median(axis) <= split {
			leftMax = max(leftMax, box.Max.Axis(axis))
			i++
		} else {
			rightMin = min(rightMin, box.Min.Axis(axis))
			handles[i], handles[j] = handles[j], handles[i]
			j--
		}
	}
	return i, leftMax, rightMin
}

// Bounds returns the box enclosing every primitive in the tree
func (t *BIH) Bounds() core.AABB {
	return t.bounds
}

// Arena returns the primitives the tree indexes
func (t *BIH) Arena() *geometry.Arena {
	return t.arena
}

// traversal is a node waiting to be visited together with its bounds
type traversal struct {
	node node
	box  core.AABB
}

// Intersect returns the nearest primitive hit along the ray
func (t *BIH) Intersect(ray core.Ray) (geometry.Intersection, bool) {
	return t.traverse(ray, false)
}

// Occluded reports whether any primitive blocks the ray. It stops at the first
// hit found, which need not be the nearest.
func (t *BIH) Occluded(ray core.Ray) bool {
	_, hit := t.traverse(ray, true)
	return hit
}

func (t *BIH) traverse(ray core.Ray, anyHit bool) (geometry.Intersection, bool) {
	var best geometry.Intersection
	found := false
	if t.root == nil {
		return best, false
	}

	stack := make([]traversal, 1, 64)
	stack[0] = traversal{node: t.root, box: t.bounds}

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !entry.box.Accepts(ray) {
			continue
		}

		switch n := entry.node.(type) {
		case *leafNode:
			for _, h := range n.handles {
				isect, ok := t.arena.Get(h).Intersect(ray)
				if !ok {
					continue
				}
				if anyHit {
					return isect, true
				}
				best, found = isect, true
				ray = ray.Clip(isect.T)
			}

		case *innerNode:
			near, far := 0, 1
			if ray.Direction.Axis(n.axis) < 0 {
				near, far = 1, 0
			}
			// Push far first so the near child is visited first
			stack = append(stack,
				traversal{node: n.children[far], box: n.childBox(entry.box, far)},
				traversal{node: n.children[near], box: n.childBox(entry.box, near)},
			)
		}
	}

	return best, found
}
