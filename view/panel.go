package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/furnish"
)

// panelText renders the side panel: the furniture list with the expanded
// accordion entry showing its details.
func panelText(eng *furnish.Engine) string {
	sel := eng.Selection()
	var b strings.Builder
	if sel.Menu != furnish.MenuOpen {
		b.WriteString("[Tab] furniture\n")
		return b.String()
	}
	room := eng.Room()
	fmt.Fprintf(&b, "Room %.1f x %.1f x %.1f m\n", room.Width, room.Length, room.Height)
	items := eng.Furniture()
	if len(items) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, it := range items {
		mark := " "
		if it.ID == sel.ActiveAccordion {
			mark = ">"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, eng.Label(it.ID))
		if it.ID != sel.ActiveAccordion {
			continue
		}
		fmt.Fprintf(&b, "    color %s  size %s\n", colorName(it.Color), it.Size)
		fmt.Fprintf(&b, "    at (%.2f, %.2f)  %.0f deg\n", it.Position.X(), it.Position.Z(),
			math.Mod(mgl64.RadToDeg(it.Rotation), 360))
		if eng.Preferences().ShowMeasurements {
			if bd, err := eng.Bounds(it.ID); err == nil {
				fmt.Fprintf(&b, "    x %.2f..%.2f  z %.2f..%.2f\n", bd.MinX, bd.MaxX, bd.MinZ, bd.MaxZ)
			}
		}
	}
	return b.String()
}

func colorName(value string) string {
	for _, o := range furnish.ColorOptions {
		if strings.EqualFold(o.Value, value) {
			return o.Label
		}
	}
	return value
}

// dialogText renders the open dialog, or "" when none is open.
func dialogText(eng *furnish.Engine) string {
	var b strings.Builder
	switch eng.Selection().Dialog {
	case furnish.DialogFurnitureBrowser:
		b.WriteString("Furniture browser\n")
		for i, e := range eng.Catalog().Entries {
			if i >= len(browseKeys) {
				break
			}
			fmt.Fprintf(&b, " %d  %-16s %s\n", i+1, e.Name, e.Measurements)
		}
		b.WriteString("Esc close")
	case furnish.DialogInspiration:
		b.WriteString("Inspiration\n")
		for _, n := range inspirationProposals {
			fmt.Fprintf(&b, " + %s\n", n)
		}
		b.WriteString("Enter add  Esc close")
	case furnish.DialogRoomSettings:
		r := eng.Room()
		fmt.Fprintf(&b, "Room settings\n width  %.1f m\n length %.1f m\n", r.Width, r.Length)
		b.WriteString("Arrows resize  Esc close")
	default:
		return ""
	}
	return b.String()
}

// helpText lists the labelled bindings.
func helpText(bindings []keyBinding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		if kb.help != "" {
			parts = append(parts, kb.help)
		}
	}
	return strings.Join(parts, "  ")
}
