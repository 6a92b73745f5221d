package tracer

import "sync/atomic"

// RayCounts is a snapshot of the rays traced so far
type RayCounts struct {
	Primary    int64
	Shadow     int64
	Reflection int64
	Refraction int64
	MaxDepth   int // Deepest recursion level reached
}

// Total returns the number of rays of every kind
func (c RayCounts) Total() int64 {
	return c.Primary + c.Shadow + c.Reflection + c.Refraction
}

// rayStats counts rays across concurrent workers
type rayStats struct {
	primary    atomic.Int64
	shadow     atomic.Int64
	reflection atomic.Int64
	refraction atomic.Int64
	maxDepth   atomic.Int64
}

func (s *rayStats) observeDepth(depth int) {
	d := int64(depth)
	for {
		cur := s.maxDepth.Load()
		if d <= cur || s.maxDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

func (s *rayStats) snapshot() RayCounts {
	return RayCounts{
		Primary:    s.primary.Load(),
		Shadow:     s.shadow.Load(),
		Reflection: s.reflection.Load(),
		Refraction: s.refraction.Load(),
		MaxDepth:   int(s.maxDepth.Load()),
	}
}

func (s *rayStats) reset() {
	s.primary.Store(0)
	s.shadow.Store(0)
	s.reflection.Store(0)
	s.refraction.Store(0)
	s.maxDepth.Store(0)
}
