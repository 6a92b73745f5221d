package accel

// Stats describes the shape of a built tree
type Stats struct {
	Nodes        int     // Inner nodes plus leaves
	Leaves       int     // Leaf nodes
	EmptyLeaves  int     // Leaves without primitives
	MaxDepth     int     // Depth of the deepest node, root at 0
	Primitives   int     // Primitive references held by leaves
	MaxLeafSize  int     // Largest leaf
	AvgLeafSize  float64 // Primitive references per leaf
	AvgLeafDepth float64 // Mean depth of the leaves
}

// Stats returns statistics gathered when the tree was built
func (t *BIH) Stats() Stats {
	return t.stats
}

func (t *BIH) collectStats() Stats {
	var stats Stats
	if t.root == nil {
		return stats
	}

	type entry struct {
		node  node
		depth int
	}
	depthSum := 0
	stack := []entry{{t.root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		stats.Nodes++
		stats.MaxDepth = max(stats.MaxDepth, e.depth)

		switch n := e.node.(type) {
		case *leafNode:
			stats.Leaves++
			stats.Primitives += len(n.handles)
			stats.MaxLeafSize = max(stats.MaxLeafSize, len(n.handles))
			depthSum += e.depth
			if len(n.handles) == 0 {
				stats.EmptyLeaves++
			}
		case *innerNode:
			stack = append(stack, entry{n.children[0], e.depth + 1}, entry{n.children[1], e.depth + 1})
		}
	}

	if stats.Leaves > 0 {
		stats.AvgLeafSize = float64(stats.Primitives) / float64(stats.Leaves)
		stats.AvgLeafDepth = float64(depthSum) / float64(stats.Leaves)
	}
	return stats
}
