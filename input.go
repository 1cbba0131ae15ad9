package furnish

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HitPolygon is a convex polygon hit area on the floor, with points given
// as (x, z) pairs.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []mgl64.Vec2
}

// Contains reports whether (x, z) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, z float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1, z1 := p.Points[i].X(), p.Points[i].Y()
		j := (i + 1) % n
		x2, z2 := p.Points[j].X(), p.Points[j].Y()

		cross := (x2-x1)*(z-z1) - (z2-z1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// rotateXZ turns the local offset (x, z) by theta about the vertical axis.
// Positive theta turns +x toward -z, matching a right-handed y-up frame.
func rotateXZ(x, z, theta float64) (float64, float64) {
	s, c := math.Sincos(theta)
	return x*c + z*s, -x*s + z*c
}

// FootprintPolygon returns the four floor corners of a width×depth
// rectangle centered on center and turned by theta.
func FootprintPolygon(center mgl64.Vec3, width, depth, theta float64) HitPolygon {
	hw, hd := width/2, depth/2
	local := [4][2]float64{{-hw, -hd}, {hw, -hd}, {hw, hd}, {-hw, hd}}
	pts := make([]mgl64.Vec2, 4)
	for i, c := range local {
		x, z := rotateXZ(c[0], c[1], theta)
		pts[i] = mgl64.Vec2{center.X() + x, center.Z() + z}
	}
	return HitPolygon{Points: pts}
}

// --- Pointer state ---

type pointerState struct {
	down    bool
	startX  float64
	startY  float64
	lastX   float64
	lastY   float64
	maxDist float64
	hitID   string // item captured at press time
}

// --- Hit testing ---

// groundAt casts the camera ray under (sx, sy) onto the floor plane.
func (e *Engine) groundAt(sx, sy float64) (mgl64.Vec3, error) {
	return e.camera.ScreenRay(sx, sy).IntersectPlaneY(e.cfg.FloorY)
}

// hitTest finds the topmost item whose rotated footprint contains the
// ground point. Later items are drawn above earlier ones.
func (e *Engine) hitTest(ground mgl64.Vec3) string {
	items := e.store.Items()
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		w, d := e.cfg.footprint(it)
		if FootprintPolygon(e.visualPosition(it), w, d, it.Rotation).Contains(ground.X(), ground.Z()) {
			return it.ID
		}
	}
	return ""
}

// HitTest returns the id of the item under screen point (sx, sy), or "".
func (e *Engine) HitTest(sx, sy float64) string {
	ground, err := e.groundAt(sx, sy)
	if err != nil {
		return ""
	}
	return e.hitTest(ground)
}

// --- Pointer processing ---

// PointerDown handles a press at screen point (sx, sy). A press on an item
// starts dragging it; a press elsewhere is remembered so a later release
// can dismiss the editor. Scene presses are ignored while a dialog is open.
func (e *Engine) PointerDown(sx, sy float64) {
	ps := &e.pointer
	if ps.down {
		return
	}
	*ps = pointerState{down: true, startX: sx, startY: sy, lastX: sx, lastY: sy}
	if e.sel.State().Dialog != DialogNone {
		return
	}
	ground, err := e.groundAt(sx, sy)
	if err != nil {
		return
	}
	id := e.hitTest(ground)
	if id == "" {
		return
	}
	item, _ := e.store.Get(id)
	p := e.placement(id)
	before := e.sel.State()
	p.drag.Begin(ground, item.Position, sx, sy, e.now)
	ps.hitID = id
	e.sel.BeginDrag(id)
	e.tracef("drag start %s at (%.3f, %.3f)", id, ground.X(), ground.Z())
	e.emit(SceneEvent{Type: EventDragStart, ItemID: id, Item: item, Position: ground})
	e.syncSelection(before)
}

// PointerMove handles pointer motion. While an item is held it follows the
// pointer, clamped to its bounds; otherwise the hovered item is updated.
func (e *Engine) PointerMove(sx, sy float64) {
	ps := &e.pointer
	if ps.down {
		if d := math.Hypot(sx-ps.startX, sy-ps.startY); d > ps.maxDist {
			ps.maxDist = d
		}
	}
	ps.lastX, ps.lastY = sx, sy
	if e.sel.State().Dialog != DialogNone {
		return
	}
	ground, err := e.groundAt(sx, sy)
	if err != nil {
		return
	}

	if !ps.down {
		before := e.sel.State()
		e.sel.SetHovered(e.hitTest(ground))
		e.syncSelection(before)
		return
	}
	if ps.hitID == "" {
		return
	}
	item, ok := e.store.Get(ps.hitID)
	if !ok {
		return
	}
	p := e.placement(ps.hitID)
	if _, moved := p.drag.Move(ground, sx, sy, e.boundsFor(item), e.cfg.FloorY); !moved {
		return
	}
	if p.drag.shouldCommit(e.now, e.cfg.StoreCommitInterval) {
		e.commitDrag(ps.hitID, p)
	}
}

// PointerUp handles a release. A short press on an item that stayed inside
// the dead zone is a click: it toggles the item's badge and opens the editor
// on it. Otherwise the held item's final position is committed. A click on
// empty floor dismisses the editor unless an item is being dragged.
func (e *Engine) PointerUp(sx, sy float64) {
	ps := &e.pointer
	if !ps.down {
		return
	}
	if d := math.Hypot(sx-ps.startX, sy-ps.startY); d > ps.maxDist {
		ps.maxDist = d
	}
	hitID, maxDist := ps.hitID, ps.maxDist
	*ps = pointerState{lastX: sx, lastY: sy}

	before := e.sel.State()
	if before.Dialog != DialogNone {
		return
	}

	if hitID == "" {
		if before.Dragging == "" && maxDist <= e.cfg.DragDeadZone {
			e.tracef("pointer missed, dismissing")
			e.sel.Dismiss()
		}
		e.syncSelection(before)
		return
	}

	p, ok := e.placements[hitID]
	if !ok {
		e.sel.EndDrag()
		e.syncSelection(before)
		return
	}
	rel := p.drag.End(sx, sy, e.now, e.cfg.ClickThreshold, e.cfg.DragDeadZone)
	e.sel.EndDrag()
	if rel.Moved {
		e.commitDrag(hitID, p)
	}
	item, _ := e.store.Get(hitID)
	e.tracef("release %s held=%v click=%v", hitID, rel.Held, rel.Click)

	if rel.Click {
		// Both calls only fail with a dialog open, which was ruled out above.
		_, _ = e.sel.ToggleEditVisible(hitID)
		_ = e.sel.OpenEditor(hitID)
		e.emit(SceneEvent{Type: EventClick, ItemID: hitID, Item: item, Position: item.Position})
	} else {
		e.emit(SceneEvent{Type: EventDragEnd, ItemID: hitID, Item: item, Position: item.Position})
	}
	e.syncSelection(before)
}

// PointerCancel abandons the current press, committing any drag progress.
func (e *Engine) PointerCancel() {
	if !e.pointer.down {
		return
	}
	before := e.sel.State()
	e.cancelDrags()
	e.pointer = pointerState{lastX: e.pointer.lastX, lastY: e.pointer.lastY}
	e.syncSelection(before)
}

// cancelDrags commits and drops every active drag.
func (e *Engine) cancelDrags() {
	for id, p := range e.placements {
		if !p.drag.Dragging() {
			continue
		}
		if p.drag.moved {
			e.commitDrag(id, p)
		}
		p.drag.Cancel()
	}
	e.pointer.hitID = ""
	e.sel.EndDrag()
}

// OrbitEnabled reports whether camera orbit controls should respond. They
// are locked while an item is dragged so the camera does not fight the
// drag.
func (e *Engine) OrbitEnabled() bool {
	return e.sel.State().Dragging == ""
}

// PointerPressed reports whether the pointer is currently pressed.
func (e *Engine) PointerPressed() bool {
	return e.pointer.down
}
