package view

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ttfFont wraps a text/v2 face with its cached line height.
type ttfFont struct {
	face *text.GoTextFace
	lh   float64
}

// loadFont parses TrueType data at the given size.
func loadFont(ttf []byte, size float64) (*ttfFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("view: parse font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &ttfFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// mustLoadFont loads the embedded Go Regular face.
func mustLoadFont(size float64) *ttfFont {
	f, err := loadFont(goregular.TTF, size)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *ttfFont) measure(s string) (w, h float64) {
	return text.Measure(s, f.face, f.lh)
}

// draw renders s with its top-left corner at (x, y).
func (f *ttfFont) draw(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = f.lh
	text.Draw(dst, s, f.face, op)
}

// drawCentered renders s centered on (cx, cy).
func (f *ttfFont) drawCentered(dst *ebiten.Image, s string, cx, cy float64, clr color.Color) {
	w, h := f.measure(s)
	f.draw(dst, s, cx-w/2, cy-h/2, clr)
}
