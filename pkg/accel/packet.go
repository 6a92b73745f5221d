package accel

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// packetTraversal is a node waiting to be visited by a packet. first is the
// lowest ray index that may still touch the node; rays before it were
// rejected by an ancestor.
type packetTraversal struct {
	node  node
	box   core.AABB
	first int
}

// IntersectPacket finds the nearest hit for every active ray of the packet.
// hits and found must have one slot per packet ray; inactive slots report
// no hit. The packet's rays are not modified.
func (t *BIH) IntersectPacket(packet *core.Packet, hits []geometry.Intersection, found []bool) {
	for i := range found {
		found[i] = false
	}
	t.traversePacket(packet, func(i int, isect geometry.Intersection) bool {
		hits[i] = isect
		found[i] = true
		return false
	})
}

// OccludedPacket reports, per ray, whether any primitive blocks it. Traversal
// stops as soon as every active ray is known to be blocked.
func (t *BIH) OccludedPacket(packet *core.Packet, occluded []bool) {
	for i := range occluded {
		occluded[i] = false
	}
	t.traversePacket(packet, func(i int, _ geometry.Intersection) bool {
		occluded[i] = true
		return true
	})
}

// traversePacket walks the tree with a whole packet. report is called for
// every accepted hit; returning true retires the ray from the traversal.
// Otherwise the ray is clipped to the hit so later nodes only report nearer hits.
func (t *BIH) traversePacket(packet *core.Packet, report func(i int, isect geometry.Intersection) bool) {
	if t.root == nil || packet.Active() == 0 {
		return
	}

	// Work on copies so clipping and retiring rays leaves the caller's packet intact
	n := packet.Len()
	rays := make([]core.Ray, n)
	ptrs := make([]*core.Ray, n)
	for i, r := range packet.Rays {
		if r != nil {
			rays[i] = *r
			ptrs[i] = &rays[i]
		}
	}
	local := core.NewPacket(ptrs)
	remaining := local.Active()

	stack := make([]packetTraversal, 1, 64)
	stack[0] = packetTraversal{node: t.root, box: t.bounds, first: local.FirstActive(0)}

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		first := entry.box.PacketTest(local, entry.first)
		if first == n {
			continue
		}

		switch nd := entry.node.(type) {
		case *leafNode:
			for i := first; i < n; i++ {
				if ptrs[i] == nil {
					continue
				}
				for _, h := range nd.handles {
					isect, ok := t.arena.Get(h).Intersect(*ptrs[i])
					if !ok {
						continue
					}
					if report(i, isect) {
						ptrs[i] = nil
						remaining--
						break
					}
					*ptrs[i] = ptrs[i].Clip(isect.T)
				}
			}
			if remaining == 0 {
				return
			}

		case *innerNode:
			// The first accepting ray picks the visiting order for the packet
			near, far := 0, 1
			if ptrs[first].Direction.Axis(nd.axis) < 0 {
				near, far = 1, 0
			}
			stack = append(stack,
				packetTraversal{node: nd.children[far], box: nd.childBox(entry.box, far), first: first},
				packetTraversal{node: nd.children[near], box: nd.childBox(entry.box, near), first: first},
			)
		}
	}
}
