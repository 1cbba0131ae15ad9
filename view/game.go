// Package view runs a furnish.Engine in an Ebitengine window.
//
// The window shows the room floor, a footprint and wireframe per item, the
// edit badge and a text panel. Mouse and touch input go straight to the
// engine's pointer methods; keyboard shortcuts call its commands.
package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/colornames"

	"github.com/phanxgames/furnish"
)

// Options configure the window.
type Options struct {
	Width, Height int
	Title         string
	// PlanView starts in the top-down camera instead of the orbit camera.
	PlanView bool
	// ShowFPS draws the FPS/TPS overlay.
	ShowFPS bool
	// ScreenshotDir receives F12 captures. Defaults to "screenshots".
	ScreenshotDir string
}

func (o *Options) defaults() {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 720
	}
	if o.Title == "" {
		o.Title = "furnish"
	}
	if o.ScreenshotDir == "" {
		o.ScreenshotDir = "screenshots"
	}
}

// planPixelsPerUnit is the zoom of the plan view.
const planPixelsPerUnit = 50

// statusSeconds is how long a status line stays up.
const statusSeconds = 3.0

// Game implements ebiten.Game around an engine.
type Game struct {
	eng *furnish.Engine

	persp   *furnish.PerspectiveCamera
	plan    *furnish.TopDownCamera
	usePlan bool

	width, height int

	pointer  pointerAdapter
	touching bool
	orbit    orbitDrag
	canvas   canvas
	fps      *fpsOverlay
	labels   *ttfFont
	dialog   *ttfFont

	status    string
	statusTTL float64

	shots   []string
	shotDir string
}

// NewGame wires eng to a pair of cameras sized for opts.
func NewGame(eng *furnish.Engine, opts Options) *Game {
	opts.defaults()
	vp := furnish.Rect{Width: float64(opts.Width), Height: float64(opts.Height)}
	g := &Game{
		eng:     eng,
		persp:   furnish.NewPerspectiveCamera(vp),
		plan:    furnish.NewTopDownCamera(vp, planPixelsPerUnit),
		width:   opts.Width,
		height:  opts.Height,
		shotDir: opts.ScreenshotDir,
		labels:  mustLoadFont(13),
		dialog:  mustLoadFont(16),
	}
	if opts.ShowFPS {
		g.fps = newFPSOverlay()
	}
	g.usePlan = !opts.PlanView
	g.togglePlan()
	return g
}

func (g *Game) camera() furnish.Camera {
	if g.usePlan {
		return g.plan
	}
	return g.persp
}

func (g *Game) togglePlan() {
	g.usePlan = !g.usePlan
	g.eng.PointerCancel()
	g.eng.SetCamera(g.camera())
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTTL = statusSeconds
}

// Update advances input and the engine by one tick.
func (g *Game) Update() error {
	dt := 1.0 / 60
	if tps := ebiten.TPS(); tps > 0 {
		dt = 1 / float64(tps)
	}
	g.pollKeys()

	// The engine ignores scene input while a dialog is open.
	x, y, pressed, orbitHeld := g.cursor()
	g.pointer.feed(g.eng, x, y, pressed)
	if !g.usePlan {
		// A left press on empty floor orbits too; one on an item drags it.
		held := (orbitHeld || pressed) && g.eng.OrbitEnabled() &&
			g.eng.Selection().Dialog == furnish.DialogNone
		g.orbit.feed(g.persp, x, y, held)
	}

	g.eng.Update(dt)
	if g.fps != nil {
		g.fps.update(dt)
	}
	if g.statusTTL > 0 {
		g.statusTTL -= dt
		if g.statusTTL <= 0 {
			g.status = ""
		}
	}
	return nil
}

// Draw renders the room, the items and the text overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background())
	p := projector{cam: g.camera()}
	p.drawRoom(&g.canvas, g.eng.Room())
	items := g.eng.RenderItems()
	for _, it := range items {
		p.drawItem(&g.canvas, it)
	}
	g.canvas.flush(screen)
	for _, it := range items {
		if at, ok := p.project(it.Position); ok {
			g.labels.drawCentered(screen, it.Label, at.X, at.Y, colornames.Black)
		}
	}

	ebitenutil.DebugPrintAt(screen, panelText(g.eng), 8, 8)
	if d := dialogText(g.eng); d != "" {
		g.drawDialog(screen, d)
	} else {
		ebitenutil.DebugPrintAt(screen, helpText(sceneBindings), 8, g.height-20)
	}
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 8, g.height-36)
	}
	if g.fps != nil {
		g.fps.draw(screen, g.width-g.fps.img.Bounds().Dx()-8, 8)
	}
	g.flushScreenshots(screen)
}

// dialogPadding is the margin between a dialog's text and its backdrop.
const dialogPadding = 16

func (g *Game) drawDialog(screen *ebiten.Image, body string) {
	w, h := g.dialog.measure(body)
	x := (float64(g.width) - w) / 2
	y := (float64(g.height) - h) / 2
	box := []point{
		{x - dialogPadding, y - dialogPadding}, {x + w + dialogPadding, y - dialogPadding},
		{x + w + dialogPadding, y + h + dialogPadding}, {x - dialogPadding, y + h + dialogPadding},
	}
	g.canvas.fill([]point{{0, 0}, {float64(g.width), 0}, {float64(g.width), float64(g.height)}, {0, float64(g.height)}},
		colornames.Black, 0.35)
	g.canvas.fill(box, colornames.White, 0.95)
	g.canvas.flush(screen)
	g.dialog.draw(screen, body, x, y, colornames.Black)
}

func (g *Game) background() color.Color {
	if c, err := furnish.ParseColor(g.eng.Preferences().Background); err == nil {
		return c
	}
	return colornames.Whitesmoke
}

// Layout tracks the window size and keeps both cameras' viewports in step.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		vp := furnish.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
		g.persp.SetViewport(vp)
		g.plan.Viewport = vp
	}
	return g.width, g.height
}

// Run opens the window and blocks until it closes.
func Run(eng *furnish.Engine, opts Options) error {
	opts.defaults()
	g := NewGame(eng, opts)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("view: %w", err)
	}
	return nil
}
