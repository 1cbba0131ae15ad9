package view

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"

	"github.com/phanxgames/furnish"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	n := 0
	cfg := furnish.DefaultConfig()
	cfg.Seed = []furnish.FurnitureItem{
		{Name: "bubbly", Type: "sofa", Color: furnish.DefaultColor, Size: furnish.SizeMedium,
			OriginalSize: 1.4, Position: mgl64.Vec3{-2, 0, 2}},
		{Name: "modern", Type: "sofa", Color: furnish.DefaultColor, Size: furnish.SizeMedium,
			OriginalSize: 1.4, Position: mgl64.Vec3{0, 0, -3}},
	}
	cfg.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	cfg.Rand = rand.New(rand.NewSource(1))
	cfg.LogOutput = io.Discard
	eng, err := furnish.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return NewGame(eng, Options{Width: 800, Height: 600, PlanView: true})
}

// --- Pointer adapter ---

type recorder struct {
	calls []string
}

func (r *recorder) PointerDown(x, y float64) { r.calls = append(r.calls, fmt.Sprintf("down %v,%v", x, y)) }
func (r *recorder) PointerMove(x, y float64) { r.calls = append(r.calls, fmt.Sprintf("move %v,%v", x, y)) }
func (r *recorder) PointerUp(x, y float64)   { r.calls = append(r.calls, fmt.Sprintf("up %v,%v", x, y)) }

func TestPointerAdapterEdges(t *testing.T) {
	type sample struct {
		x, y    float64
		pressed bool
	}
	tests := []struct {
		name    string
		samples []sample
		want    []string
	}{
		{
			name:    "first sample moves",
			samples: []sample{{10, 10, false}},
			want:    []string{"move 10,10"},
		},
		{
			name:    "still pointer is quiet",
			samples: []sample{{10, 10, false}, {10, 10, false}},
			want:    []string{"move 10,10"},
		},
		{
			name:    "press in place",
			samples: []sample{{10, 10, false}, {10, 10, true}, {10, 10, false}},
			want:    []string{"move 10,10", "down 10,10", "up 10,10"},
		},
		{
			name:    "press after jump moves first",
			samples: []sample{{10, 10, false}, {50, 60, true}},
			want:    []string{"move 10,10", "move 50,60", "down 50,60"},
		},
		{
			name:    "drag",
			samples: []sample{{0, 0, true}, {5, 0, true}, {9, 0, false}},
			want:    []string{"move 0,0", "down 0,0", "move 5,0", "move 9,0", "up 9,0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p pointerAdapter
			r := &recorder{}
			for _, s := range tt.samples {
				p.feed(r, s.x, s.y, s.pressed)
			}
			if strings.Join(r.calls, "|") != strings.Join(tt.want, "|") {
				t.Errorf("calls = %v, want %v", r.calls, tt.want)
			}
		})
	}
}

func TestPointerAdapterDrivesEngine(t *testing.T) {
	g := newTestGame(t)
	// id-1 sits at world (-2, 2), screen (300, 400).
	g.pointer.feed(g.eng, 300, 400, false)
	g.eng.Update(1.0 / 60)
	if got := g.eng.Selection().Hovered; got != "id-1" {
		t.Fatalf("Hovered = %q, want id-1", got)
	}
	g.pointer.feed(g.eng, 300, 400, true)
	g.eng.Update(1.0 / 60)
	g.pointer.feed(g.eng, 300, 400, false)
	g.eng.Update(1.0 / 60)
	sel := g.eng.Selection()
	if sel.EditVisible != "id-1" || sel.ActiveAccordion != "id-1" {
		t.Errorf("after click selection = %+v", sel)
	}
}

// --- Orbit ---

type orbitRecorder struct{ az, polar float64 }

func (o *orbitRecorder) Orbit(da, dp float64) {
	o.az += da
	o.polar += dp
}

func TestOrbitDrag(t *testing.T) {
	var o orbitDrag
	cam := &orbitRecorder{}
	o.feed(cam, 100, 100, true)
	if cam.az != 0 || cam.polar != 0 {
		t.Fatal("first held sample must only anchor")
	}
	o.feed(cam, 110, 95, true)
	if math.Abs(cam.az+10*orbitSpeed) > 1e-12 || math.Abs(cam.polar-5*orbitSpeed) > 1e-12 {
		t.Errorf("orbit = (%v, %v)", cam.az, cam.polar)
	}
	o.feed(cam, 200, 200, false)
	o.feed(cam, 300, 300, true)
	if math.Abs(cam.az+10*orbitSpeed) > 1e-12 {
		t.Error("release must re-anchor the next drag")
	}
}

// --- Keys ---

func TestHandleKeyNeedsTarget(t *testing.T) {
	g := newTestGame(t)
	if err := g.handleKey(ebiten.KeyR); !errors.Is(err, errNoTarget) {
		t.Errorf("err = %v, want errNoTarget", err)
	}
}

func TestHandleKeyItemCommands(t *testing.T) {
	g := newTestGame(t)
	if err := g.eng.OpenEditor("id-1"); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		key   ebiten.Key
		check func(t *testing.T)
	}{
		{ebiten.KeyR, func(t *testing.T) {
			it, _ := g.eng.Item("id-1")
			if math.Abs(it.Rotation-math.Pi/2) > 1e-9 {
				t.Errorf("Rotation = %v", it.Rotation)
			}
		}},
		{ebiten.Key4, func(t *testing.T) {
			it, _ := g.eng.Item("id-1")
			if it.Size != furnish.SizeXL {
				t.Errorf("Size = %v", it.Size)
			}
		}},
		{ebiten.KeyC, func(t *testing.T) {
			it, _ := g.eng.Item("id-1")
			if it.Color != furnish.ColorOptions[1].Value {
				t.Errorf("Color = %v", it.Color)
			}
		}},
		{ebiten.KeyD, func(t *testing.T) {
			if n := len(g.eng.Furniture()); n != 3 {
				t.Errorf("items = %d, want 3", n)
			}
		}},
		{ebiten.KeyM, func(t *testing.T) {
			if !g.eng.Preferences().ShowMeasurements {
				t.Error("measurements not shown")
			}
		}},
		{ebiten.KeyDelete, func(t *testing.T) {
			if _, ok := g.eng.Item("id-1"); ok {
				t.Error("id-1 not removed")
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			if err := g.handleKey(tt.key); err != nil {
				t.Fatalf("handleKey: %v", err)
			}
			tt.check(t)
		})
	}
}

func TestHandleKeyDialogs(t *testing.T) {
	t.Run("browser adds entry", func(t *testing.T) {
		g := newTestGame(t)
		_ = g.handleKey(ebiten.KeyB)
		if g.eng.Selection().Dialog != furnish.DialogFurnitureBrowser {
			t.Fatal("browser not open")
		}
		if err := g.handleKey(ebiten.Key1); err != nil {
			t.Fatal(err)
		}
		items := g.eng.Furniture()
		if len(items) != 3 || items[2].Name != "Comfy Couch" {
			t.Errorf("items = %+v", items)
		}
		if g.eng.Selection().Dialog != furnish.DialogNone {
			t.Error("browser still open")
		}
	})
	t.Run("inspiration adds proposals", func(t *testing.T) {
		g := newTestGame(t)
		_ = g.handleKey(ebiten.KeyI)
		if err := g.handleKey(ebiten.KeyEnter); err != nil {
			t.Fatal(err)
		}
		if n := len(g.eng.Furniture()); n != 2+len(inspirationProposals) {
			t.Errorf("items = %d", n)
		}
		if g.eng.Selection().Dialog != furnish.DialogNone {
			t.Error("inspiration still open")
		}
	})
	t.Run("room settings resize", func(t *testing.T) {
		g := newTestGame(t)
		_ = g.handleKey(ebiten.KeyS)
		_ = g.handleKey(ebiten.KeyRight)
		_ = g.handleKey(ebiten.KeyDown)
		r := g.eng.Room()
		if r.Width != 10.5 || r.Length != 9.5 {
			t.Errorf("room = %+v", r)
		}
		_ = g.handleKey(ebiten.KeyEscape)
		if g.eng.Selection().Dialog != furnish.DialogNone {
			t.Error("Esc did not close the dialog")
		}
	})
	t.Run("scene keys ignored in dialog", func(t *testing.T) {
		g := newTestGame(t)
		_ = g.eng.OpenEditor("id-1")
		_ = g.handleKey(ebiten.KeyB)
		if err := g.handleKey(ebiten.KeyR); err != nil {
			t.Fatal(err)
		}
		it, _ := g.eng.Item("id-1")
		if it.Rotation != 0 {
			t.Errorf("Rotation = %v, want 0", it.Rotation)
		}
	})
}

func TestEscapeDismissesEditor(t *testing.T) {
	g := newTestGame(t)
	_ = g.eng.OpenEditor("id-2")
	_ = g.handleKey(ebiten.KeyEscape)
	if g.eng.Selection().ActiveAccordion != "" {
		t.Error("editor still open")
	}
}

func TestTogglePlan(t *testing.T) {
	g := newTestGame(t)
	if _, ok := g.eng.Camera().(*furnish.TopDownCamera); !ok {
		t.Fatalf("camera = %T, want plan", g.eng.Camera())
	}
	_ = g.handleKey(ebiten.KeyP)
	if _, ok := g.eng.Camera().(*furnish.PerspectiveCamera); !ok {
		t.Errorf("camera = %T, want perspective", g.eng.Camera())
	}
}

func TestLayoutResizesCameras(t *testing.T) {
	g := newTestGame(t)
	w, h := g.Layout(1024, 768)
	if w != 1024 || h != 768 {
		t.Fatalf("Layout = %d, %d", w, h)
	}
	want := furnish.Rect{Width: 1024, Height: 768}
	if g.persp.Viewport != want || g.plan.Viewport != want {
		t.Errorf("viewports = %+v, %+v", g.persp.Viewport, g.plan.Viewport)
	}
}

// --- Text ---

func TestPanelText(t *testing.T) {
	g := newTestGame(t)
	if got := panelText(g.eng); !strings.Contains(got, "[Tab]") {
		t.Errorf("closed panel = %q", got)
	}
	_ = g.eng.OpenEditor("id-1")
	g.eng.SetShowMeasurements(true)
	got := panelText(g.eng)
	for _, want := range []string{"Room 10.0 x 10.0 x 3.0 m", "> ", "color Sage", "size medium", "at (-2.00, 2.00)"} {
		if !strings.Contains(got, want) {
			t.Errorf("panel missing %q:\n%s", want, got)
		}
	}
}

func TestDialogText(t *testing.T) {
	g := newTestGame(t)
	if got := dialogText(g.eng); got != "" {
		t.Errorf("no dialog = %q", got)
	}
	_ = g.eng.OpenDialog(furnish.DialogFurnitureBrowser)
	if got := dialogText(g.eng); !strings.Contains(got, " 1  Comfy Couch") {
		t.Errorf("browser = %q", got)
	}
}

func TestHelpTextSkipsUnlabelled(t *testing.T) {
	got := helpText(sceneBindings)
	if strings.Contains(got, "    ") || !strings.HasPrefix(got, "R rotate") {
		t.Errorf("help = %q", got)
	}
}

// --- Geometry helpers ---

func TestPolygonFan(t *testing.T) {
	tests := []struct {
		n        int
		wantInds int
	}{
		{2, 0}, {3, 3}, {4, 6}, {8, 18},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			pts := circlePoints(point{}, 1, tt.n)
			v, idx := polygonFan(pts, colornames.Red, 0.5)
			if len(idx) != tt.wantInds {
				t.Fatalf("indices = %d, want %d", len(idx), tt.wantInds)
			}
			if tt.wantInds > 0 && (v[0].ColorR != 1 || v[0].ColorA != 0.5) {
				t.Errorf("vertex color = %v, %v", v[0].ColorR, v[0].ColorA)
			}
		})
	}
}

func TestLineQuad(t *testing.T) {
	q := lineQuad(point{0, 0}, point{10, 0}, 2)
	want := []point{{0, 1}, {10, 1}, {10, -1}, {0, -1}}
	for i := range want {
		if math.Abs(q[i].X-want[i].X) > 1e-9 || math.Abs(q[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("corner %d = %+v, want %+v", i, q[i], want[i])
		}
	}
	if lineQuad(point{1, 1}, point{1, 1}, 2) != nil {
		t.Error("zero-length line must be skipped")
	}
}

func TestLocalMatchesFootprint(t *testing.T) {
	it := furnish.RenderItem{Position: mgl64.Vec3{1, 0, 2}, Rotation: math.Pi / 2, Width: 2, Depth: 1}
	fp := furnish.FootprintPolygon(it.Position, it.Width, it.Depth, it.Rotation)
	got := local(it, mgl64.Vec3{-1, 0, -0.5})
	if math.Abs(got.X()-fp.Points[0].X()) > 1e-9 || math.Abs(got.Z()-fp.Points[0].Y()) > 1e-9 {
		t.Errorf("local = %v, footprint corner = %v", got, fp.Points[0])
	}
}

func TestCanvasBatches(t *testing.T) {
	var c canvas
	c.fill(circlePoints(point{}, 1, 4), colornames.Red, 1)
	c.line(point{0, 0}, point{1, 0}, 1, colornames.Blue, 1)
	if len(c.verts) != 8 || len(c.inds) != 12 {
		t.Fatalf("verts=%d inds=%d", len(c.verts), len(c.inds))
	}
	if c.inds[6] != 4 {
		t.Errorf("second polygon not rebased: %v", c.inds[6:])
	}
}

func TestFontMeasure(t *testing.T) {
	f := mustLoadFont(16)
	w1, h := f.measure("Room")
	w2, _ := f.measure("Room settings")
	if w1 <= 0 || h <= 0 || w2 <= w1 {
		t.Errorf("measure = %v, %v, %v", w1, h, w2)
	}
	_, h2 := f.measure("a\nb")
	if h2 <= h {
		t.Errorf("two lines = %v, one line = %v", h2, h)
	}
}
