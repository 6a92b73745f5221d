package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Light is a point light with quadratic distance falloff
type Light struct {
	Position core.Vec3
	Colour   core.Vec3
	Falloff  [3]float64 // constant, linear, quadratic
}

// NewLight creates a point light
func NewLight(position, colour core.Vec3, falloff [3]float64) *Light {
	return &Light{
		Position: position,
		Colour:   colour,
		Falloff:  falloff,
	}
}

// NewPointLight creates a point light without distance falloff
func NewPointLight(position, colour core.Vec3) *Light {
	return NewLight(position, colour, [3]float64{1, 0, 0})
}

// Intensity returns the light's colour arriving at point, colour/(c0 + c1·r + c2·r²).
// It reports false when the falloff denominator is not positive.
func (l *Light) Intensity(point core.Vec3) (core.Vec3, bool) {
	r := point.Subtract(l.Position).Length()
	denom := l.Falloff[0] + l.Falloff[1]*r + l.Falloff[2]*r*r
	if !(denom > 0) {
		return core.Vec3{}, false
	}
	return l.Colour.Multiply(1.0 / denom), true
}
