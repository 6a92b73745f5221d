package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// cubeFace returns the axis of the unit-cube face nearest to p
func cubeFace(p core.Vec3) int {
	index := 0
	nearest := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		v := p.Axis(axis)
		if v < nearest {
			index, nearest = axis, v
		}
		if 1.0-v < nearest {
			index, nearest = axis, 1.0-v
		}
	}
	return index
}

// dropAxis projects p onto the plane perpendicular to axis
func dropAxis(p core.Vec3, axis int) core.Vec2 {
	switch axis {
	case 0:
		return core.NewVec2(p.Y, p.Z)
	case 1:
		return core.NewVec2(p.X, p.Z)
	default:
		return core.NewVec2(p.X, p.Y)
	}
}

// liftOffset places a 2D offset back into the two axes dropAxis kept
func liftOffset(offset core.Vec2, axis int) core.Vec3 {
	switch axis {
	case 0:
		return core.NewVec3(0, offset.X, offset.Y)
	case 1:
		return core.NewVec3(offset.X, 0, offset.Y)
	default:
		return core.NewVec3(offset.X, offset.Y, 0)
	}
}

// cubeOffset maps a bump offset on the unit cube face nearest to p into model space
func cubeOffset(bump *material.Bump, p core.Vec3) core.Vec3 {
	axis := cubeFace(p)
	offset := liftOffset(bump.Offset(dropAxis(p, axis)), axis)
	if p.Axis(axis) > 0.5 {
		offset = offset.Negate()
	}
	return offset
}

// sphereUV maps a point on the unit sphere to longitude/latitude in [0,1]²
func sphereUV(p core.Vec3) core.Vec2 {
	p = p.Normalize()
	u := 0.5 + math.Atan2(p.Z, p.X)/(2*math.Pi)
	v := 0.5 - math.Asin(max(-1, min(1, p.Y)))/math.Pi
	return core.NewVec2(u, v)
}

// sphereOffset maps a bump offset at p on the unit sphere onto its tangent plane
func sphereOffset(bump *material.Bump, p core.Vec3) core.Vec3 {
	n := p.Normalize()
	tu := core.NewVec3(0, 1, 0).Cross(n)
	if tu.LengthSquared() < 1e-12 {
		// At the poles
		tu = core.NewVec3(1, 0, 0)
	}
	tu = tu.Normalize()
	tv := n.Cross(tu)

	offset := bump.Offset(sphereUV(n))
	return tu.Multiply(offset.X).Add(tv.Multiply(offset.Y))
}
