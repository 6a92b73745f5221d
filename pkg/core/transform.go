package core

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform pairs a model-to-world matrix with its inverse
type Transform struct {
	Forward mgl64.Mat4
	Inverse mgl64.Mat4
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{Forward: mgl64.Ident4(), Inverse: mgl64.Ident4()}
}

// NewTransform builds a transform from a forward matrix, inverting it
func NewTransform(forward mgl64.Mat4) Transform {
	return Transform{Forward: forward, Inverse: forward.Inv()}
}

// Translation returns a transform that moves points by offset
func Translation(offset Vec3) Transform {
	return Transform{
		Forward: mgl64.Translate3D(offset.X, offset.Y, offset.Z),
		Inverse: mgl64.Translate3D(-offset.X, -offset.Y, -offset.Z),
	}
}

// Scaling returns a transform that scales points component-wise
func Scaling(scale Vec3) Transform {
	return Transform{
		Forward: mgl64.Scale3D(scale.X, scale.Y, scale.Z),
		Inverse: mgl64.Scale3D(1/scale.X, 1/scale.Y, 1/scale.Z),
	}
}

// Rotation returns a rotation of angle radians around axis (0=X, 1=Y, 2=Z)
func Rotation(axis int, angle float64) Transform {
	var rot mgl64.Mat4
	switch axis {
	case 0:
		rot = mgl64.HomogRotate3DX(angle)
	case 1:
		rot = mgl64.HomogRotate3DY(angle)
	default:
		rot = mgl64.HomogRotate3DZ(angle)
	}
	return Transform{Forward: rot, Inverse: rot.Transpose()}
}

// Then returns the transform that applies t first and then next
func (t Transform) Then(next Transform) Transform {
	return Transform{
		Forward: next.Forward.Mul4(t.Forward),
		Inverse: t.Inverse.Mul4(next.Inverse),
	}
}

// Compose returns t applied after inner (t · inner)
func (t Transform) Compose(inner Transform) Transform {
	return inner.Then(t)
}

// IsIdentity reports whether t leaves every point where it is
func (t Transform) IsIdentity() bool {
	return t.Forward.ApproxEqual(mgl64.Ident4())
}

// Point maps a model-space point to world space
func (t Transform) Point(p Vec3) Vec3 {
	return MulPoint(t.Forward, p)
}

// InversePoint maps a world-space point to model space
func (t Transform) InversePoint(p Vec3) Vec3 {
	return MulPoint(t.Inverse, p)
}

// Vector maps a model-space direction to world space
func (t Transform) Vector(v Vec3) Vec3 {
	return MulVector(t.Forward, v)
}

// Normal maps a model-space normal to world space using the inverse transpose.
// The result is not normalized.
func (t Transform) Normal(n Vec3) Vec3 {
	return MulVector(t.Inverse.Transpose(), n)
}

// MulPoint multiplies a point (w=1) by m
func MulPoint(m mgl64.Mat4, p Vec3) Vec3 {
	r := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return Vec3{r[0], r[1], r[2]}
}

// MulVector multiplies a direction (w=0) by m
func MulVector(m mgl64.Mat4, v Vec3) Vec3 {
	r := m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 0})
	return Vec3{r[0], r[1], r[2]}
}
