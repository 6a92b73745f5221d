package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// channelEpsilon is the smallest channel sum or ratio treated as non-zero
const channelEpsilon = 1e-10

// Phong is a Phong-lit surface that may also reflect and transmit light.
// TransmitRatio splits the incoming light: 0 is fully opaque, 1 fully
// transmissive. Medium is the refractive index ratio used when transmitting.
type Phong struct {
	Kd            core.Vec3 // Diffuse colour
	Ks            core.Vec3 // Specular colour, also the mirror reflection tint
	Shininess     float64
	TransmitRatio float64
	Medium        float64
}

// NewPhong creates an opaque Phong material
func NewPhong(kd, ks core.Vec3, shininess float64) *Phong {
	return &Phong{
		Kd:        kd,
		Ks:        ks,
		Shininess: shininess,
		Medium:    1.0,
	}
}

// NewTransmissive creates a Phong material that transmits part of the incoming light
func NewTransmissive(kd, ks core.Vec3, shininess, transmitRatio, medium float64) *Phong {
	return &Phong{
		Kd:            kd,
		Ks:            ks,
		Shininess:     shininess,
		TransmitRatio: transmitRatio,
		Medium:        medium,
	}
}

// IsDiffuse reports whether the diffuse colour has any energy
func (m *Phong) IsDiffuse() bool {
	return m.Kd.X+m.Kd.Y+m.Kd.Z > channelEpsilon
}

// IsSpecular reports whether the specular colour has any energy
func (m *Phong) IsSpecular() bool {
	return m.Ks.X+m.Ks.Y+m.Ks.Z > channelEpsilon
}

// ReflectRatio is the share of light not transmitted
func (m *Phong) ReflectRatio() float64 {
	return 1.0 - m.TransmitRatio
}

// Reflects reports whether the opaque part of the material contributes
func (m *Phong) Reflects() bool {
	return m.ReflectRatio() > channelEpsilon
}

// Transmits reports whether the material lets any light through
func (m *Phong) Transmits() bool {
	return m.TransmitRatio > channelEpsilon
}

// Shade evaluates the Phong lobe for one light. toLight and toEye point away
// from the surface; diffuse is the surface colour at the shaded point (texture
// or Kd) and intensity the light's attenuated colour there.
func (m *Phong) Shade(toLight, toEye, normal, diffuse, intensity core.Vec3) core.Vec3 {
	l := toLight.Normalize()
	v := toEye.Normalize()
	n := normal.Normalize()

	lambert := clamp(l.Dot(n), 0, 1)
	colour := diffuse.MultiplyVec(intensity).Multiply(lambert)

	// Mirror of l about n
	r := l.Negate().Reflect(n)
	highlight := math.Pow(clamp(r.Dot(v), 0, 1), m.Shininess)
	return colour.Add(m.Ks.MultiplyVec(intensity).Multiply(highlight))
}

func clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
