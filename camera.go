package furnish

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line in world space.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// IntersectPlaneY returns the point where r crosses the horizontal plane at
// height y. Rays parallel to the plane or pointing away from it report
// ErrNoIntersection.
func (r Ray) IntersectPlaneY(y float64) (mgl64.Vec3, error) {
	dy := r.Direction.Y()
	if math.Abs(dy) < 1e-12 {
		return mgl64.Vec3{}, ErrNoIntersection
	}
	t := (y - r.Origin.Y()) / dy
	if t < 0 {
		return mgl64.Vec3{}, ErrNoIntersection
	}
	p := r.Origin.Add(r.Direction.Mul(t))
	p[1] = y
	return p, nil
}

// Camera converts between screen pixels and world space.
type Camera interface {
	// ScreenRay returns the world ray under screen pixel (sx, sy).
	ScreenRay(sx, sy float64) Ray
	// Project returns the screen position of a world point. ok is false
	// when the point is behind the camera.
	Project(p mgl64.Vec3) (sx, sy float64, ok bool)
}

// Polar angle limits of the orbit, measured from straight up.
const (
	orbitMinPolar = math.Pi / 4
	orbitMaxPolar = math.Pi * (0.5 - 1.0/20)
)

// PerspectiveCamera orbits a target point. Screen coordinates have their
// origin at the top-left of the viewport, y increasing downward.
type PerspectiveCamera struct {
	Target mgl64.Vec3
	// Distance from the target.
	Distance float64
	// Azimuth is the angle around the vertical axis in radians.
	Azimuth float64
	// Polar is the angle from the vertical axis in radians.
	Polar float64
	// FovY is the vertical field of view in radians.
	FovY      float64
	Near, Far float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	view, proj mgl64.Mat4
	dirty      bool
}

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// NewPerspectiveCamera creates a camera looking at the room center from
// the front-right, similar to the default planner view.
func NewPerspectiveCamera(viewport Rect) *PerspectiveCamera {
	return &PerspectiveCamera{
		Distance: 18,
		Azimuth:  math.Pi / 6,
		Polar:    math.Pi / 3,
		FovY:     mgl64.DegToRad(45),
		Near:     0.1,
		Far:      200,
		Viewport: viewport,
		dirty:    true,
	}
}

// Orbit rotates the camera around its target. The polar angle is clamped so
// the camera never dips below the floor or looks straight down.
func (c *PerspectiveCamera) Orbit(dAzimuth, dPolar float64) {
	c.Azimuth = wrapAngle(c.Azimuth + dAzimuth)
	c.Polar = math.Max(orbitMinPolar, math.Min(orbitMaxPolar, c.Polar+dPolar))
	c.dirty = true
}

// SetViewport changes the screen rectangle, e.g. after a window resize.
func (c *PerspectiveCamera) SetViewport(vp Rect) {
	if vp != c.Viewport {
		c.Viewport = vp
		c.dirty = true
	}
}

// Eye returns the world position of the camera.
func (c *PerspectiveCamera) Eye() mgl64.Vec3 {
	sp, cp := math.Sincos(c.Polar)
	sa, ca := math.Sincos(c.Azimuth)
	return c.Target.Add(mgl64.Vec3{sp * sa, cp, sp * ca}.Mul(c.Distance))
}

func (c *PerspectiveCamera) matrices() (mgl64.Mat4, mgl64.Mat4) {
	if c.dirty {
		aspect := 1.0
		if c.Viewport.Height > 0 {
			aspect = c.Viewport.Width / c.Viewport.Height
		}
		c.proj = mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
		c.view = mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
		c.dirty = false
	}
	return c.view, c.proj
}

// ScreenRay implements Camera.
func (c *PerspectiveCamera) ScreenRay(sx, sy float64) Ray {
	view, proj := c.matrices()
	w, h := int(c.Viewport.Width), int(c.Viewport.Height)
	// Window coordinates have y growing upward.
	wx := sx - c.Viewport.X
	wy := c.Viewport.Height - (sy - c.Viewport.Y)
	near, err1 := mgl64.UnProject(mgl64.Vec3{wx, wy, 0}, view, proj, 0, 0, w, h)
	far, err2 := mgl64.UnProject(mgl64.Vec3{wx, wy, 1}, view, proj, 0, 0, w, h)
	if err1 != nil || err2 != nil {
		return Ray{Origin: c.Eye(), Direction: c.Target.Sub(c.Eye()).Normalize()}
	}
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// Project implements Camera.
func (c *PerspectiveCamera) Project(p mgl64.Vec3) (float64, float64, bool) {
	view, proj := c.matrices()
	clip := proj.Mul4(view).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	win := mgl64.Project(p, view, proj, 0, 0, int(c.Viewport.Width), int(c.Viewport.Height))
	return c.Viewport.X + win.X(), c.Viewport.Y + c.Viewport.Height - win.Y(), true
}

// TopDownCamera is an orthographic plan view looking straight down. World x
// maps to screen x and world z to screen y.
type TopDownCamera struct {
	// CenterX and CenterZ are the world point shown at the viewport center.
	CenterX, CenterZ float64
	// PixelsPerUnit is the zoom.
	PixelsPerUnit float64
	Viewport      Rect
	// Height is the y of ray origins.
	Height float64
}

// NewTopDownCamera returns a plan camera centered on the origin.
func NewTopDownCamera(viewport Rect, pixelsPerUnit float64) *TopDownCamera {
	return &TopDownCamera{PixelsPerUnit: pixelsPerUnit, Viewport: viewport, Height: 100}
}

// ScreenRay implements Camera.
func (c *TopDownCamera) ScreenRay(sx, sy float64) Ray {
	x := c.CenterX + (sx-c.Viewport.X-c.Viewport.Width/2)/c.PixelsPerUnit
	z := c.CenterZ + (sy-c.Viewport.Y-c.Viewport.Height/2)/c.PixelsPerUnit
	return Ray{Origin: mgl64.Vec3{x, c.Height, z}, Direction: mgl64.Vec3{0, -1, 0}}
}

// Project implements Camera.
func (c *TopDownCamera) Project(p mgl64.Vec3) (float64, float64, bool) {
	sx := c.Viewport.X + c.Viewport.Width/2 + (p.X()-c.CenterX)*c.PixelsPerUnit
	sy := c.Viewport.Y + c.Viewport.Height/2 + (p.Z()-c.CenterZ)*c.PixelsPerUnit
	return sx, sy, true
}
