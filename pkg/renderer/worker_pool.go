package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrWorkerFailed is returned when a worker panics while tracing a tile
var ErrWorkerFailed = errors.New("render worker failed")

// TileFunc renders one tile on behalf of a worker
type TileFunc func(workerID int, tile *Tile) error

// WorkerPool runs a fixed number of workers over a shared list of tiles.
// Workers claim the next tile from a mutex-guarded index until the list is
// exhausted; there is no other coordination between them.
type WorkerPool struct {
	numWorkers int

	mu      sync.Mutex
	next    int
	tiles   []*Tile
	failure error
}

// NewWorkerPool creates a pool of numWorkers workers (0 = one per CPU)
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run renders every tile and waits for all workers to finish. It returns the
// number of tiles each worker completed. The first failure stops workers from
// claiming further tiles and is returned once every worker has exited.
func (wp *WorkerPool) Run(tiles []*Tile, render TileFunc) ([]int, error) {
	wp.mu.Lock()
	wp.tiles = tiles
	wp.next = 0
	wp.failure = nil
	wp.mu.Unlock()

	counts := make([]int, wp.numWorkers)
	var wg sync.WaitGroup
	for id := 0; id < wp.numWorkers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			counts[id] = wp.work(id, render)
		}(id)
	}
	wg.Wait()

	return counts, wp.failure
}

// claim returns the next unrendered tile, or nil when there is none left
func (wp *WorkerPool) claim() *Tile {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.failure != nil || wp.next >= len(wp.tiles) {
		return nil
	}
	tile := wp.tiles[wp.next]
	wp.next++
	return tile
}

func (wp *WorkerPool) fail(err error) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.failure == nil {
		wp.failure = err
	}
}

// work is the main worker loop
func (wp *WorkerPool) work(id int, render TileFunc) (done int) {
	var current *Tile
	defer func() {
		if r := recover(); r != nil {
			wp.fail(fmt.Errorf("%w: worker %d panicked on tile %d: %v", ErrWorkerFailed, id, current.ID, r))
		}
	}()

	for current = wp.claim(); current != nil; current = wp.claim() {
		if err := render(id, current); err != nil {
			wp.fail(fmt.Errorf("%w: worker %d on tile %d: %w", ErrWorkerFailed, id, current.ID, err))
			return done
		}
		done++
	}
	return done
}
