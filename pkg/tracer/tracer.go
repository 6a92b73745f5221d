package tracer

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ratioEpsilon is the smallest reflect or transmit share that is traced
const ratioEpsilon = 1e-10

var logger = log.New("tracer")

// Tracer shades rays against one frame's primitives. It is read-only after
// construction and safe for concurrent use.
type Tracer struct {
	arena   *geometry.Arena
	bih     *accel.BIH
	lights  []*material.Light
	ambient core.Vec3
	config  RenderConfig
	stats   rayStats
}

// New creates a tracer over the primitives of arena, building a BIH when the
// config asks for one
func New(arena *geometry.Arena, lights []*material.Light, ambient core.Vec3, config RenderConfig) (*Tracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if arena == nil {
		return nil, fmt.Errorf("tracer needs a primitive arena: %w", ErrInvalidConfig)
	}

	t := &Tracer{
		arena:   arena,
		lights:  lights,
		ambient: ambient,
		config:  config,
	}
	if config.UseBIH {
		t.bih = accel.Build(arena, config.BIHOptions())
		s := t.bih.Stats()
		logger.Debugf("built BIH over %d primitives: %d nodes, %d leaves, depth %d",
			arena.Len(), s.Nodes, s.Leaves, s.MaxDepth)
	}
	return t, nil
}

// Config returns the configuration the tracer was built with
func (t *Tracer) Config() RenderConfig {
	return t.config
}

// BIH returns the acceleration structure, or nil when primitives are scanned
func (t *Tracer) BIH() *accel.BIH {
	return t.bih
}

// Stats returns the rays traced since construction or the last ResetStats
func (t *Tracer) Stats() RayCounts {
	return t.stats.snapshot()
}

// ResetStats clears the ray counters
func (t *Tracer) ResetStats() {
	t.stats.reset()
}

// Intersect returns the nearest primitive hit along the ray
func (t *Tracer) Intersect(ray core.Ray) (geometry.Intersection, bool) {
	if t.bih != nil {
		return t.bih.Intersect(ray)
	}
	return t.arena.Intersect(ray)
}

// Occluded reports whether any primitive blocks the ray
func (t *Tracer) Occluded(ray core.Ray) bool {
	if t.bih != nil {
		return t.bih.Occluded(ray)
	}
	return t.arena.Occluded(ray)
}

// TraceRay returns the colour seen along a primary ray. It reports false when
// the ray hits nothing; the caller supplies the background.
func (t *Tracer) TraceRay(ray core.Ray) (core.Vec3, bool) {
	t.stats.primary.Add(1)

	isect, ok := t.Intersect(ray)
	if !ok {
		return core.Vec3{}, false
	}
	return t.shade(ray, isect, 0), true
}

// trace returns the colour along a secondary ray; misses are black
func (t *Tracer) trace(ray core.Ray, depth int) core.Vec3 {
	isect, ok := t.Intersect(ray)
	if !ok {
		return core.Vec3{}
	}
	return t.shade(ray, isect, depth)
}

func (t *Tracer) shade(ray core.Ray, isect geometry.Intersection, depth int) core.Vec3 {
	t.stats.observeDepth(depth)

	m := isect.Material()
	transmit := m.TransmitRatio
	reflect := 1.0 - transmit
	normal := isect.Normal()
	var colour core.Vec3

	if reflect > ratioEpsilon {
		diffuse := isect.Diffuse(t.config.Interpolate)
		if m.IsDiffuse() {
			colour = diffuse.MultiplyVec(t.ambient).Multiply(reflect)
		}

		colour = colour.Add(t.direct(ray, isect, normal, diffuse).Multiply(reflect))

		if m.IsSpecular() && depth < t.config.MaxDepth {
			t.stats.reflection.Add(1)
			mirrored := t.trace(t.reflected(ray, isect.Point, normal), depth+1)
			colour = colour.Add(mirrored.MultiplyVec(m.Ks).Multiply(reflect * t.config.ReflectionAttenuation))
		}
	}

	if transmit > ratioEpsilon && depth < t.config.MaxDepth {
		t.stats.refraction.Add(1)
		refracted := t.trace(t.refracted(ray, isect.Point, normal, m.Medium), depth+1)
		colour = colour.Add(refracted.Multiply(transmit))
	}

	return colour
}

// direct sums the Phong contribution of every light visible from the hit point
func (t *Tracer) direct(ray core.Ray, isect geometry.Intersection, normal, diffuse core.Vec3) core.Vec3 {
	var colour core.Vec3
	for _, light := range t.lights {
		t.stats.shadow.Add(1)
		if t.Occluded(t.shadowRay(isect.Point, light)) {
			continue
		}
		colour = colour.Add(t.lightContribution(ray, isect, normal, diffuse, light))
	}
	return colour
}

func (t *Tracer) shadowRay(point core.Vec3, light *material.Light) core.Ray {
	return core.NewSegment(point, light.Position).WithEpsilon(t.config.Epsilon)
}

func (t *Tracer) lightContribution(ray core.Ray, isect geometry.Intersection, normal, diffuse core.Vec3, light *material.Light) core.Vec3 {
	intensity, ok := light.Intensity(isect.Point)
	if !ok {
		return core.Vec3{}
	}
	toLight := light.Position.Subtract(isect.Point)
	return isect.Material().Shade(toLight, ray.Direction.Negate(), normal, diffuse, intensity)
}

// reflected mirrors the incoming ray about the normal
func (t *Tracer) reflected(ray core.Ray, point, normal core.Vec3) core.Ray {
	return core.NewRay(point, ray.Direction.Reflect(normal)).WithEpsilon(t.config.Epsilon)
}

// refracted bends the ray through the surface by Snell's law. medium is the
// index ratio of the material; it is inverted when the ray leaves the surface.
// Under total internal reflection the ray is mirrored instead.
func (t *Tracer) refracted(ray core.Ray, point, normal core.Vec3, medium float64) core.Ray {
	in := ray.Direction
	cos1 := -in.Dot(normal)

	ratio := medium
	if cos1 >= 0 {
		ratio = 1.0 / medium
	} else {
		normal = normal.Negate()
		cos1 = -cos1
	}

	k := 1 - ratio*ratio*(1-cos1*cos1)
	if k < 0 || math.IsNaN(k) {
		return t.reflected(ray, point, normal)
	}

	dir := in.Multiply(ratio).Add(normal.Multiply(ratio*cos1 - math.Sqrt(k)))
	return core.NewRay(point, dir).WithEpsilon(t.config.Epsilon)
}
