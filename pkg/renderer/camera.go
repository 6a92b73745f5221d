package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// CameraConfig places a pinhole camera in the world
type CameraConfig struct {
	Eye  core.Vec3 // Position of the eye
	View core.Vec3 // Viewing direction
	Up   core.Vec3 // Up direction, need not be orthogonal to View
	FOV  float64   // Vertical field of view in degrees
}

// Camera generates primary rays through the pixels of a width×height screen
type Camera struct {
	config        CameraConfig
	width, height int
	toWorld       mgl64.Mat4 // Screen coordinates to world points one unit in front of the eye
}

// NewCamera creates a camera for a screen of the given size
func NewCamera(config CameraConfig, width, height int) *Camera {
	c := &Camera{config: config}
	c.Resize(width, height)
	return c
}

// Resize recomputes the screen-to-world transform for a new screen size
func (c *Camera) Resize(width, height int) {
	c.width, c.height = width, height

	w := c.config.View.Normalize()
	u := c.config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Screen height one unit from the eye
	h := 2 * math.Tan(c.config.FOV*math.Pi/360)
	fw, fh := float64(width), float64(height)

	basis := mgl64.Mat4FromCols(
		mgl64.Vec4{u.X, u.Y, u.Z, 0},
		mgl64.Vec4{v.X, v.Y, v.Z, 0},
		mgl64.Vec4{w.X, w.Y, w.Z, 0},
		mgl64.Vec4{0, 0, 0, 1},
	)
	eye := c.config.Eye

	c.toWorld = mgl64.Translate3D(eye.X, eye.Y, eye.Z).
		Mul4(basis).
		Mul4(mgl64.Scale3D(-h/fh, -h/fh, 1)).
		Mul4(mgl64.Translate3D(-fw/2, -fh/2, 1))
}

// GetRay returns the unbounded ray from the eye through screen point (x, y).
// Pixel centres are at integer coordinates.
func (c *Camera) GetRay(x, y float64) core.Ray {
	target := core.MulPoint(c.toWorld, core.NewVec3(x, y, 0))
	return core.NewRay(c.config.Eye, target.Subtract(c.config.Eye))
}

// Width returns the screen width in pixels
func (c *Camera) Width() int {
	return c.width
}

// Height returns the screen height in pixels
func (c *Camera) Height() int {
	return c.height
}

// Config returns the camera placement
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Background returns the colour of pixel (x, y) when its rays miss everything
func (c *Camera) Background(x, y int) core.Vec3 {
	fx := float64(x) / float64(c.width)
	fy := float64(y) / float64(c.height)
	return core.NewVec3(fx, fy, 1-fx)
}
