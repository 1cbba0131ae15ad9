package furnish

import "math"

// rotationSettle is the angular distance below which the animator snaps.
const rotationSettle = 1e-4

// RotationAnimator eases a visual rotation toward the logical rotation once
// per frame. It only holds presentation state and can be reset from the
// logical value at any time.
type RotationAnimator struct {
	visual  float64
	damping float64
}

// NewRotationAnimator returns an animator resting at rotation.
func NewRotationAnimator(rotation, damping float64) RotationAnimator {
	return RotationAnimator{visual: wrapAngle(rotation), damping: damping}
}

// Visual returns the current presentation rotation in [0, 2π).
func (a *RotationAnimator) Visual() float64 {
	return a.visual
}

// Step moves the visual rotation a fixed fraction of the way to target
// along the shorter arc, so a turn from 270° to 0° goes forward by 90°.
func (a *RotationAnimator) Step(target float64) float64 {
	d := shortestAngle(a.visual, target)
	if math.Abs(d) < rotationSettle {
		a.visual = wrapAngle(target)
		return a.visual
	}
	a.visual = wrapAngle(a.visual + d*a.damping)
	return a.visual
}

// Settled reports whether the visual rotation has reached target.
func (a *RotationAnimator) Settled(target float64) bool {
	return math.Abs(shortestAngle(a.visual, target)) < rotationSettle
}

// Snap jumps straight to target.
func (a *RotationAnimator) Snap(target float64) {
	a.visual = wrapAngle(target)
}
