package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewBoxesScene creates a gridSize x gridSize grid alternating spheres and
// boxes, coloured by hue along X and chroma along Z. It carries many
// primitives for exercising the acceleration structure.
func NewBoxesScene(gridSize int) (*Scene, error) {
	b := NewBuilder("boxes").
		Size(400, 300).
		Camera(renderer.CameraConfig{
			Eye:  core.NewVec3(0, 7, 12),
			View: core.NewVec3(0, -0.55, -1),
			Up:   core.NewVec3(0, 1, 0),
			FOV:  45,
		}).
		Ambient(core.NewVec3(0.15, 0.15, 0.15)).
		Light(core.NewVec3(8, 12, 10), core.NewVec3(0.8, 0.78, 0.75), [3]float64{1, 0, 0}).
		Light(core.NewVec3(-10, 6, 2), core.NewVec3(0.3, 0.3, 0.35), [3]float64{1, 0, 0})

	b.Material(material.NewPhong(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(0.05, 0.05, 0.05), 5)).
		NonhierBox(core.NewVec3(-6, -0.2, -6), core.NewVec3(12, 0.2, 12))

	if gridSize < 1 {
		return b.Build()
	}

	// Fit the grid into a 9x9 area whatever its size
	const area = 9.0
	spacing := area
	if gridSize > 1 {
		spacing = area / float64(gridSize-1)
	}
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	// OKLCH parameters for color variation
	const (
		baseLightness = 0.65
		minChroma     = 0.05
		maxChroma     = 0.25
	)

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - area/2.0
			z := float64(j)*spacing - area/2.0

			fi := 0.0
			fj := 0.0
			if gridSize > 1 {
				fi = float64(i) / float64(gridSize-1)
				fj = float64(j) / float64(gridSize-1)
			}
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			colour := oklchToRGB(lightness, minChroma+fj*(maxChroma-minChroma), fi*360.0)

			// Every third primitive is a mirror-like surface
			ks := core.NewVec3(0.1, 0.1, 0.1)
			if (i+j)%3 == 0 {
				ks = core.NewVec3(0.5, 0.5, 0.5)
			}
			b.Material(material.NewPhong(colour, ks, 20))

			if (i+j)%2 == 0 {
				b.NonhierSphere(core.NewVec3(x, radius, z), radius)
			} else {
				b.NonhierBox(core.NewVec3(x-radius, 0, z-radius), core.NewVec3(2*radius, 2*radius, 2*radius))
			}
		}
	}

	return b.Build()
}
