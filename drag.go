package furnish

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// DragState is the state of a DragController.
type DragState uint8

const (
	DragIdle     DragState = iota // no pointer held on the item
	DragDragging                  // pointer pressed on the item
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// DragRelease describes how a press ended.
type DragRelease struct {
	// Click is true when the press was short and the pointer stayed inside
	// the dead zone.
	Click bool
	// Position is the last clamped position.
	Position mgl64.Vec3
	// Moved is true when at least one move produced a new position.
	Moved bool
	// Held is how long the pointer was down.
	Held time.Duration
}

// DragController converts pointer movement on the ground plane into
// clamped item positions. One controller exists per item.
type DragController struct {
	state DragState

	offset   mgl64.Vec3
	start    time.Time
	startX   float64
	startY   float64
	maxDist  float64
	position mgl64.Vec3
	moved    bool

	// Store commit throttling.
	pending    bool
	lastCommit time.Time
}

// State returns the current state.
func (d *DragController) State() DragState {
	return d.state
}

// Dragging reports whether the pointer is held on the item.
func (d *DragController) Dragging() bool {
	return d.state == DragDragging
}

// Position returns the immediate visual position while dragging.
func (d *DragController) Position() mgl64.Vec3 {
	return d.position
}

// Begin moves Idle to Dragging. ground is where the pointer ray meets the
// floor, itemPos the item's current position, (sx, sy) the screen position.
func (d *DragController) Begin(ground, itemPos mgl64.Vec3, sx, sy float64, now time.Time) {
	d.state = DragDragging
	d.offset = itemPos.Sub(ground)
	d.offset[1] = 0
	d.start = now
	d.startX, d.startY = sx, sy
	d.maxDist = 0
	d.position = itemPos
	d.moved = false
	d.pending = false
	d.lastCommit = now
}

// Move computes the new clamped position for a pointer at ground. It is a
// no-op while idle. The y component is pinned to floorY.
func (d *DragController) Move(ground mgl64.Vec3, sx, sy float64, bounds Bounds, floorY float64) (mgl64.Vec3, bool) {
	if d.state != DragDragging {
		return mgl64.Vec3{}, false
	}
	if dist := math.Hypot(sx-d.startX, sy-d.startY); dist > d.maxDist {
		d.maxDist = dist
	}
	cand := ground.Add(d.offset)
	x, z := bounds.Clamp(cand.X(), cand.Z())
	d.position = mgl64.Vec3{x, floorY, z}
	d.moved = true
	d.pending = true
	return d.position, true
}

// shouldCommit reports whether a throttled Store write is due.
func (d *DragController) shouldCommit(now time.Time, interval time.Duration) bool {
	if !d.pending {
		return false
	}
	return interval <= 0 || now.Sub(d.lastCommit) >= interval
}

func (d *DragController) committed(now time.Time) {
	d.pending = false
	d.lastCommit = now
}

// End moves Dragging to Idle and classifies the press. A press shorter
// than clickThreshold whose pointer never left the dead zone is a click.
func (d *DragController) End(sx, sy float64, now time.Time, clickThreshold time.Duration, deadZone float64) DragRelease {
	if d.state != DragDragging {
		return DragRelease{}
	}
	if dist := math.Hypot(sx-d.startX, sy-d.startY); dist > d.maxDist {
		d.maxDist = dist
	}
	held := now.Sub(d.start)
	r := DragRelease{
		Click:    held < clickThreshold && d.maxDist <= deadZone,
		Position: d.position,
		Moved:    d.moved,
		Held:     held,
	}
	d.state = DragIdle
	d.offset = mgl64.Vec3{}
	return r
}

// Cancel drops the drag without classifying it.
func (d *DragController) Cancel() {
	d.state = DragIdle
	d.pending = false
	d.moved = false
}
