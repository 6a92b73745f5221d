package tracer

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// job is one ray of a breadth-first level. slot is the packet ray whose
// colour it feeds and weight the product of every ratio on the way there.
type job struct {
	ray    core.Ray
	slot   int
	weight core.Vec3
	isect  geometry.Intersection
}

// TracePacket traces every active ray of a primary packet. colours and hits
// need one slot per packet ray; a slot whose ray misses or is inactive gets a
// black colour and false. Reflection and refraction are traced level by level
// as packets of their own, so the work stays on the calling goroutine.
func (t *Tracer) TracePacket(packet *core.Packet, colours []core.Vec3, hits []bool) {
	n := packet.Len()
	for i := 0; i < n; i++ {
		colours[i] = core.Vec3{}
	}
	t.stats.primary.Add(int64(packet.Active()))

	isects := make([]geometry.Intersection, n)
	t.intersectPacket(packet, isects, hits)

	jobs := make([]job, 0, n)
	for i, r := range packet.Rays {
		if r != nil && hits[i] {
			jobs = append(jobs, job{ray: *r, slot: i, weight: core.NewVec3(1, 1, 1), isect: isects[i]})
		}
	}

	for depth := 0; len(jobs) > 0; depth++ {
		t.stats.observeDepth(depth)
		t.shadeLevel(jobs, colours)
		if depth >= t.config.MaxDepth {
			break
		}
		jobs = t.nextLevel(jobs)
	}
}

// intersectPacket finds the nearest hit of every active packet ray
func (t *Tracer) intersectPacket(packet *core.Packet, isects []geometry.Intersection, found []bool) {
	if t.bih != nil {
		t.bih.IntersectPacket(packet, isects, found)
		return
	}
	for i, r := range packet.Rays {
		found[i] = false
		if r != nil {
			isects[i], found[i] = t.arena.Intersect(*r)
		}
	}
}

// occludedPacket reports which packet rays are blocked
func (t *Tracer) occludedPacket(packet *core.Packet, occluded []bool) {
	if t.bih != nil {
		t.bih.OccludedPacket(packet, occluded)
		return
	}
	for i, r := range packet.Rays {
		occluded[i] = r != nil && t.arena.Occluded(*r)
	}
}

// shadeLevel adds the ambient and direct light of every job's hit to its slot
func (t *Tracer) shadeLevel(jobs []job, colours []core.Vec3) {
	normals := make([]core.Vec3, len(jobs))
	diffuse := make([]core.Vec3, len(jobs))
	lit := make([]bool, len(jobs))

	for i := range jobs {
		j := &jobs[i]
		m := j.isect.Material()
		reflect := 1.0 - m.TransmitRatio
		if !(reflect > ratioEpsilon) {
			continue
		}

		lit[i] = true
		normals[i] = j.isect.Normal()
		diffuse[i] = j.isect.Diffuse(t.config.Interpolate)
		if m.IsDiffuse() {
			ambient := diffuse[i].MultiplyVec(t.ambient).Multiply(reflect)
			colours[j.slot] = colours[j.slot].Add(ambient.MultiplyVec(j.weight))
		}
	}

	// One shadow packet per light over every lit job
	rays := make([]core.Ray, len(jobs))
	ptrs := make([]*core.Ray, len(jobs))
	occluded := make([]bool, len(jobs))
	for _, light := range t.lights {
		for i := range jobs {
			ptrs[i] = nil
			if lit[i] {
				rays[i] = t.shadowRay(jobs[i].isect.Point, light)
				ptrs[i] = &rays[i]
			}
		}
		shadows := core.NewPacket(ptrs)
		if shadows.Active() == 0 {
			return
		}
		t.stats.shadow.Add(int64(shadows.Active()))
		t.occludedPacket(shadows, occluded)

		for i := range jobs {
			if !lit[i] || occluded[i] {
				continue
			}
			j := &jobs[i]
			reflect := 1.0 - j.isect.Material().TransmitRatio
			c := t.lightContribution(j.ray, j.isect, normals[i], diffuse[i], light).Multiply(reflect)
			colours[j.slot] = colours[j.slot].Add(c.MultiplyVec(j.weight))
		}
	}
}

// nextLevel spawns the reflection and refraction rays of a level, traces them
// as one packet and returns the jobs that hit something
func (t *Tracer) nextLevel(jobs []job) []job {
	next := make([]job, 0, len(jobs))
	for i := range jobs {
		j := &jobs[i]
		m := j.isect.Material()
		transmit := m.TransmitRatio
		reflect := 1.0 - transmit
		normal := j.isect.Normal()

		if reflect > ratioEpsilon && m.IsSpecular() {
			t.stats.reflection.Add(1)
			next = append(next, job{
				ray:    t.reflected(j.ray, j.isect.Point, normal),
				slot:   j.slot,
				weight: j.weight.MultiplyVec(m.Ks).Multiply(reflect * t.config.ReflectionAttenuation),
			})
		}
		if transmit > ratioEpsilon {
			t.stats.refraction.Add(1)
			next = append(next, job{
				ray:    t.refracted(j.ray, j.isect.Point, normal, m.Medium),
				slot:   j.slot,
				weight: j.weight.Multiply(transmit),
			})
		}
	}
	if len(next) == 0 {
		return nil
	}

	ptrs := make([]*core.Ray, len(next))
	for i := range next {
		ptrs[i] = &next[i].ray
	}
	isects := make([]geometry.Intersection, len(next))
	found := make([]bool, len(next))
	t.intersectPacket(core.NewPacket(ptrs), isects, found)

	hitJobs := next[:0]
	for i := range next {
		if found[i] {
			next[i].isect = isects[i]
			hitJobs = append(hitJobs, next[i])
		}
	}
	return hitJobs
}
