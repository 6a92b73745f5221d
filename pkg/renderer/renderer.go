package renderer

import (
	"sync/atomic"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/tracer"
)

var logger = log.New("renderer")

// Renderer traces whole frames in parallel. Each frame runs to completion;
// Render returns only after every worker has finished writing its tiles.
type Renderer struct {
	tracer *tracer.Tracer
	camera *Camera
	config tracer.RenderConfig
	pool   *WorkerPool
	tiles  *TileRenderer
}

// NewRenderer creates a renderer for the tracer's primitives seen through camera
func NewRenderer(t *tracer.Tracer, camera *Camera) *Renderer {
	config := t.Config()
	return &Renderer{
		tracer: t,
		camera: camera,
		config: config,
		pool:   NewWorkerPool(config.Workers),
		tiles:  NewTileRenderer(t, camera),
	}
}

// Camera returns the camera the renderer traces through
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// Render traces one frame. A worker failure aborts the frame with an error
// wrapping ErrWorkerFailed; the partially written frame is not returned.
func (r *Renderer) Render() (*Frame, RenderStats, error) {
	width, height := r.camera.Width(), r.camera.Height()
	frame := NewFrame(width, height)
	tiles := NewTileGrid(width, height, r.config.TilePixels())

	logger.Infof("rendering %dx%d frame: %d tiles, %d workers, packets=%t, BIH=%t",
		width, height, len(tiles), r.pool.NumWorkers(), r.config.UsePackets, r.config.UseBIH)

	r.tracer.ResetStats()
	var samples atomic.Int64
	start := time.Now()

	counts, err := r.pool.Run(tiles, func(workerID int, tile *Tile) error {
		n := r.tiles.RenderTile(tile, frame)
		samples.Add(int64(n))
		logger.Debugf("worker %d finished tile %d %v", workerID, tile.ID, tile.Bounds)
		return nil
	})
	if err != nil {
		logger.Errorf("frame aborted: %v", err)
		return nil, RenderStats{}, err
	}

	stats := RenderStats{
		Width:        width,
		Height:       height,
		TotalPixels:  width * height,
		TotalSamples: int(samples.Load()),
		Tiles:        len(tiles),
		Workers:      r.pool.NumWorkers(),
		WorkerTiles:  counts,
		Elapsed:      time.Since(start),
		Rays:         r.tracer.Stats(),
	}
	logger.Infof("frame finished in %v (%d rays)", stats.Elapsed, stats.Rays.Total())

	return frame, stats, nil
}
