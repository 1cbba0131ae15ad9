package furnish

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Badge is the presentation state of an item's edit badge.
type Badge struct {
	Scale   float64
	Opacity float64
	// Visible is the logical target; Scale and Opacity trail it.
	Visible bool
}

// Hidden badge presentation values.
const (
	badgeHiddenScale   = 0.5
	badgeHiddenOpacity = 0.0
)

// BadgeTween animates a Badge's scale and opacity between the hidden and
// shown values. Call Update(dt) each frame.
//
// There is no global animation manager; the Engine steps one tween per item.
type BadgeTween struct {
	tweens   [2]*gween.Tween
	fields   [2]*float64
	target   *Badge
	duration float32
	Done     bool
}

// NewBadgeTween returns a finished tween holding a hidden badge.
func NewBadgeTween(badge *Badge, duration float32) *BadgeTween {
	badge.Scale = badgeHiddenScale
	badge.Opacity = badgeHiddenOpacity
	return &BadgeTween{
		target:   badge,
		duration: duration,
		fields:   [2]*float64{&badge.Scale, &badge.Opacity},
		Done:     true,
	}
}

// Show starts animating toward the visible badge. It is a no-op when the
// badge is already visible.
func (t *BadgeTween) Show() {
	t.retarget(true, 1, 1, ease.OutQuad)
}

// Hide starts animating toward the hidden badge.
func (t *BadgeTween) Hide() {
	t.retarget(false, badgeHiddenScale, badgeHiddenOpacity, ease.InQuad)
}

func (t *BadgeTween) retarget(visible bool, scale, opacity float64, fn ease.TweenFunc) {
	if t.target.Visible == visible {
		return
	}
	t.target.Visible = visible
	t.tweens[0] = gween.New(float32(t.target.Scale), float32(scale), t.duration, fn)
	t.tweens[1] = gween.New(float32(t.target.Opacity), float32(opacity), t.duration, fn)
	t.Done = false
}

// Update advances both tweens by dt seconds and writes the values to the
// badge.
func (t *BadgeTween) Update(dt float32) {
	if t.Done {
		return
	}
	allDone := true
	for i := range t.tweens {
		val, finished := t.tweens[i].Update(dt)
		*t.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	t.Done = allDone
}
