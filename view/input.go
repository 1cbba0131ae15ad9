package view

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/furnish"
)

// pointerTarget receives edge-detected pointer events. *furnish.Engine
// implements it.
type pointerTarget interface {
	PointerDown(sx, sy float64)
	PointerMove(sx, sy float64)
	PointerUp(sx, sy float64)
}

// pointerAdapter turns polled cursor state into down/move/up events.
type pointerAdapter struct {
	down         bool
	lastX, lastY float64
	seen         bool
}

func (p *pointerAdapter) feed(t pointerTarget, x, y float64, pressed bool) {
	switch {
	case pressed && !p.down:
		if !p.seen || x != p.lastX || y != p.lastY {
			t.PointerMove(x, y)
		}
		t.PointerDown(x, y)
	case !pressed && p.down:
		if x != p.lastX || y != p.lastY {
			t.PointerMove(x, y)
		}
		t.PointerUp(x, y)
	case !p.seen || x != p.lastX || y != p.lastY:
		t.PointerMove(x, y)
	}
	p.down = pressed
	p.lastX, p.lastY = x, y
	p.seen = true
}

// orbiter is a camera that can orbit its target.
type orbiter interface {
	Orbit(dAzimuth, dPolar float64)
}

// orbitSpeed is radians of orbit per pixel of pointer travel.
const orbitSpeed = 0.008

// orbitDrag converts a held pointer into camera orbit deltas.
type orbitDrag struct {
	active       bool
	lastX, lastY float64
}

func (o *orbitDrag) feed(cam orbiter, x, y float64, held bool) {
	if !held {
		o.active = false
		return
	}
	if !o.active {
		o.active = true
		o.lastX, o.lastY = x, y
		return
	}
	dx, dy := x-o.lastX, y-o.lastY
	o.lastX, o.lastY = x, y
	if dx != 0 || dy != 0 {
		cam.Orbit(-dx*orbitSpeed, -dy*orbitSpeed)
	}
}

// cursor returns the primary pointer: the first touch, or the mouse. A
// touch that just ended is released where it was last seen.
func (g *Game) cursor() (x, y float64, pressed, orbit bool) {
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		tx, ty := ebiten.TouchPosition(ids[0])
		g.touching = true
		return float64(tx), float64(ty), true, false
	}
	if g.touching {
		g.touching = false
		return g.pointer.lastX, g.pointer.lastY, false, false
	}
	mx, my := ebiten.CursorPosition()
	return float64(mx), float64(my),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
}

// keyBinding maps a key to a command.
type keyBinding struct {
	key  ebiten.Key
	help string
	run  func(g *Game) error
}

// Proposals offered by the inspiration dialog.
var inspirationProposals = []string{"Cozy Couch", "Modern Loveseat"}

// roomStep is the room settings increment in meters.
const roomStep = 0.5

var errNoTarget = errors.New("no item selected")

// target is the item keyboard commands act on.
func (g *Game) target() (string, error) {
	sel := g.eng.Selection()
	for _, id := range []string{sel.ActiveAccordion, sel.EditVisible, sel.Selected, sel.Hovered} {
		if id != "" {
			return id, nil
		}
	}
	return "", errNoTarget
}

func itemCommand(fn func(e *furnish.Engine, id string) error) func(g *Game) error {
	return func(g *Game) error {
		id, err := g.target()
		if err != nil {
			return err
		}
		return fn(g.eng, id)
	}
}

func setSize(s furnish.Size) func(g *Game) error {
	return itemCommand(func(e *furnish.Engine, id string) error {
		_, err := e.SetSize(id, s)
		return err
	})
}

func openDialog(d furnish.Dialog) func(g *Game) error {
	return func(g *Game) error { return g.eng.OpenDialog(d) }
}

func resizeRoom(dw, dl float64) func(g *Game) error {
	return func(g *Game) error {
		if g.eng.Selection().Dialog != furnish.DialogRoomSettings {
			return nil
		}
		r := g.eng.Room()
		r.Width += dw
		r.Length += dl
		return g.eng.SetRoomDimensions(r)
	}
}

// sceneBindings are active while no dialog is open.
var sceneBindings = []keyBinding{
	{ebiten.KeyR, "R rotate", itemCommand(func(e *furnish.Engine, id string) error {
		_, err := e.Rotate(id)
		return err
	})},
	{ebiten.KeyD, "D duplicate", itemCommand(func(e *furnish.Engine, id string) error {
		_, err := e.Duplicate(id)
		return err
	})},
	{ebiten.KeyDelete, "Del remove", itemCommand((*furnish.Engine).Remove)},
	{ebiten.KeyBackspace, "", itemCommand((*furnish.Engine).Remove)},
	{ebiten.KeyE, "E badge", itemCommand((*furnish.Engine).PressEditBadge)},
	{ebiten.KeyC, "C color", itemCommand(func(e *furnish.Engine, id string) error {
		it, _ := e.Item(id)
		next := furnish.ColorOptions[0].Value
		for i, o := range furnish.ColorOptions {
			if o.Value == it.Color {
				next = furnish.ColorOptions[(i+1)%len(furnish.ColorOptions)].Value
			}
		}
		_, err := e.SetColor(id, next)
		return err
	})},
	{ebiten.KeyTab, "Tab menu", func(g *Game) error { return g.eng.ToggleMenu() }},
	{ebiten.KeyEscape, "Esc dismiss", func(g *Game) error {
		g.eng.Dismiss()
		return nil
	}},
	{ebiten.Key1, "1-4 size", setSize(furnish.SizeSmall)},
	{ebiten.Key2, "", setSize(furnish.SizeMedium)},
	{ebiten.Key3, "", setSize(furnish.SizeLarge)},
	{ebiten.Key4, "", setSize(furnish.SizeXL)},
	{ebiten.KeyB, "B browse", openDialog(furnish.DialogFurnitureBrowser)},
	{ebiten.KeyI, "I inspire", openDialog(furnish.DialogInspiration)},
	{ebiten.KeyS, "S room", openDialog(furnish.DialogRoomSettings)},
	{ebiten.KeyM, "M measure", func(g *Game) error {
		g.eng.SetShowMeasurements(!g.eng.Preferences().ShowMeasurements)
		return nil
	}},
	{ebiten.KeyP, "P plan", func(g *Game) error {
		g.togglePlan()
		return nil
	}},
	{ebiten.KeyF12, "F12 shot", func(g *Game) error {
		label := ""
		if id, err := g.target(); err == nil {
			label = g.eng.Label(id)
		}
		g.Screenshot(label)
		return nil
	}},
}

// dialogBindings are active while a dialog is open.
var dialogBindings = []keyBinding{
	{ebiten.KeyEscape, "Esc close", func(g *Game) error {
		g.eng.CloseDialog()
		return nil
	}},
	{ebiten.KeyEnter, "Enter accept", func(g *Game) error {
		switch g.eng.Selection().Dialog {
		case furnish.DialogInspiration:
			_, err := g.eng.AddProposed(inspirationProposals)
			return err
		default:
			g.eng.CloseDialog()
		}
		return nil
	}},
	{ebiten.KeyLeft, "", resizeRoom(-roomStep, 0)},
	{ebiten.KeyRight, "", resizeRoom(roomStep, 0)},
	{ebiten.KeyUp, "", resizeRoom(0, roomStep)},
	{ebiten.KeyDown, "", resizeRoom(0, -roomStep)},
}

// browseKeys add the n-th entry of the selected category.
var browseKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// handleKey runs the command bound to k in the current mode.
func (g *Game) handleKey(k ebiten.Key) error {
	sel := g.eng.Selection()
	if sel.Dialog == furnish.DialogFurnitureBrowser {
		for i, bk := range browseKeys {
			if bk != k {
				continue
			}
			entries := g.eng.Catalog().Entries
			if i >= len(entries) {
				return nil
			}
			if _, err := g.eng.AddFromCatalog(entries[i].ID, ""); err != nil {
				return err
			}
			g.eng.CloseDialog()
			return nil
		}
	}
	bindings := sceneBindings
	if sel.Dialog != furnish.DialogNone {
		bindings = dialogBindings
	}
	for _, b := range bindings {
		if b.key == k {
			if err := b.run(g); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			return nil
		}
	}
	return nil
}

// pollKeys dispatches keys pressed this tick.
func (g *Game) pollKeys() {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if err := g.handleKey(k); err != nil {
			g.setStatus(err.Error())
		}
	}
}
