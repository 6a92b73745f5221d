package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/tracer"
)

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	Width, Height int
	TotalPixels   int              // Pixels written
	TotalSamples  int              // Primary sample rays traced
	Tiles         int              // Tiles (packets) rendered
	Workers       int              // Workers in the pool
	WorkerTiles   []int            // Tiles completed by each worker
	Elapsed       time.Duration    // Wall time of the trace
	Rays          tracer.RayCounts // Rays of every kind traced for the frame
}

// PixelsPerSecond returns the frame's throughput
func (s RenderStats) PixelsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalPixels) / s.Elapsed.Seconds()
}

// RaysPerSecond returns the number of rays of every kind traced per second
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Rays.Total()) / s.Elapsed.Seconds()
}
