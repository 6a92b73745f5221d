package imageio

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ErrSizeMismatch is returned when comparing frames of different sizes
var ErrSizeMismatch = errors.New("frame sizes differ")

// DiffResult summarises the difference between two frames
type DiffResult struct {
	MaxError   float64 // Largest absolute channel difference
	MeanError  float64 // Mean absolute channel difference
	PSNR       float64 // Peak signal-to-noise ratio in dB over clamped colours, +Inf when identical
	DiffPixels int     // Pixels differing by more than the tolerance in any channel
}

// Diff compares two frames channel by channel. Pixels whose channels all
// agree within tolerance are not counted in DiffPixels.
func Diff(a, b *renderer.Frame, tolerance float64) (DiffResult, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return DiffResult{}, fmt.Errorf("%dx%d vs %dx%d: %w", a.Width, a.Height, b.Width, b.Height, ErrSizeMismatch)
	}

	var result DiffResult
	var sumAbs, sumSq float64
	pa, pb := a.Pixels(), b.Pixels()
	for i := range pa {
		d := pa[i].Subtract(pb[i])
		worst := math.Max(math.Abs(d.X), math.Max(math.Abs(d.Y), math.Abs(d.Z)))
		result.MaxError = math.Max(result.MaxError, worst)
		if worst > tolerance {
			result.DiffPixels++
		}
		sumAbs += math.Abs(d.X) + math.Abs(d.Y) + math.Abs(d.Z)

		dc := pa[i].Clamp(0, 1).Subtract(pb[i].Clamp(0, 1))
		sumSq += dc.Dot(dc)
	}

	channels := float64(3 * len(pa))
	if channels == 0 {
		result.PSNR = math.Inf(1)
		return result, nil
	}
	result.MeanError = sumAbs / channels
	mse := sumSq / channels
	if mse == 0 {
		result.PSNR = math.Inf(1)
	} else {
		result.PSNR = 10 * math.Log10(1/mse)
	}
	return result, nil
}
