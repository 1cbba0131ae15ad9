package furnish

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"
)

// Sentinel errors returned by engine and store commands. A command that
// fails leaves all state untouched.
var (
	ErrUnknownItem        = errors.New("furnish: unknown item")
	ErrDuplicateID        = errors.New("furnish: duplicate item id")
	ErrInvalidSize        = errors.New("furnish: invalid size")
	ErrInvalidColor       = errors.New("furnish: invalid color")
	ErrInvalidRoom        = errors.New("furnish: invalid room dimensions")
	ErrDialogOpen         = errors.New("furnish: a dialog is open")
	ErrAssetPending       = errors.New("furnish: asset not loaded yet")
	ErrDegenerateGeometry = errors.New("furnish: degenerate geometry")
	ErrNoIntersection     = errors.New("furnish: ray does not hit the ground plane")
	ErrUnknownCatalog     = errors.New("furnish: unknown catalog entry")
	ErrUnknownDialog      = errors.New("furnish: unknown dialog")
)

// Size is the categorical size tag of a furniture item.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeXL     Size = "xl"
)

// Sizes lists every valid size in ascending order.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge, SizeXL}

// Valid reports whether s is one of the fixed size tags.
func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeXL:
		return true
	}
	return false
}

// ParseSize converts a user-supplied string into a Size.
func ParseSize(v string) (Size, error) {
	s := Size(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSize, v)
	}
	return s, nil
}

// DefaultSizeFactors maps each size to its linear scale factor.
var DefaultSizeFactors = map[Size]float64{
	SizeSmall:  0.8,
	SizeMedium: 1.0,
	SizeLarge:  1.2,
	SizeXL:     1.4,
}

// SizeOption is a size entry as presented in the side panel.
type SizeOption struct {
	Label       string `json:"label"`
	Measurement string `json:"measurement"`
	Value       Size   `json:"value"`
}

// SizeOptions are the size choices offered for every item.
var SizeOptions = []SizeOption{
	{Label: "Small", Measurement: "160 cm", Value: SizeSmall},
	{Label: "Medium", Measurement: "200 cm", Value: SizeMedium},
	{Label: "Large", Measurement: "240 cm", Value: SizeLarge},
	{Label: "XL", Measurement: "280 cm", Value: SizeXL},
}

// ColorOption is a color swatch as presented in the side panel.
type ColorOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Name  string `json:"name"`
}

// ColorOptions are the swatches offered for every item.
var ColorOptions = []ColorOption{
	{Label: "Sage", Value: "#8A9A5B", Name: "Herbal Sage"},
	{Label: "Taupe", Value: "#8B7E66", Name: "Earthy Taupe"},
	{Label: "Slate", Value: "#708090", Name: "Stormy Slate"},
}

// DefaultColor is the color given to items created without one.
const DefaultColor = "#8A9A5B"

// ParseColor resolves a hex ("#rgb", "#rrggbb") or CSS named color.
func ParseColor(v string) (color.RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return color.RGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, v)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

// FurnitureItem is one placed piece of furniture. Values are immutable once
// handed out by the Store: every mutation produces a new copy.
type FurnitureItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Nickname     string     `json:"nickname,omitempty"`
	Type         string     `json:"type"`
	Color        string     `json:"color"`
	Size         Size       `json:"size"`
	OriginalSize float64    `json:"originalSize"`
	Position     mgl64.Vec3 `json:"position"`
	// Rotation is radians about the vertical axis, wrapped into [0, 2π).
	Rotation float64 `json:"rotation"`
	// IsEditVisible is derived from the selection state when a snapshot is
	// taken; the Store never stores it.
	IsEditVisible bool   `json:"isEditVisible"`
	FileName      string `json:"fileName,omitempty"`
}

// RoomDimensions are the interior extents of the room in world units.
// The room is centered on the origin; the floor lies in the x/z plane.
type RoomDimensions struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Height float64 `json:"height"`
}

// Validate reports ErrInvalidRoom for non-positive or non-finite extents.
func (r RoomDimensions) Validate() error {
	for _, v := range [3]float64{r.Width, r.Length, r.Height} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidRoom, r)
		}
	}
	return nil
}

// Footprint is the horizontal extent of a furniture type. Width runs along
// local x, Depth along local z. Scaled dimensions are multiplied by the
// item's size factor.
type Footprint struct {
	Width      float64 `json:"width" mapstructure:"width"`
	Depth      float64 `json:"depth" mapstructure:"depth"`
	ScaleWidth bool    `json:"scaleWidth" mapstructure:"scale_width"`
	ScaleDepth bool    `json:"scaleDepth" mapstructure:"scale_depth"`
}

// Resolve returns the concrete width and depth for a size factor.
func (f Footprint) Resolve(factor float64) (w, d float64) {
	w, d = f.Width, f.Depth
	if f.ScaleWidth {
		w *= factor
	}
	if f.ScaleDepth {
		d *= factor
	}
	return w, d
}

// DefaultFootprintType is the archetype used for unknown types.
const DefaultFootprintType = "sofa"

// DefaultFootprints holds the per-type footprints. Sofas grow along their
// length with size (2.4 m small .. 4.2 m xl); tables keep a fixed top.
var DefaultFootprints = map[string]Footprint{
	"sofa":  {Width: 3.0, Depth: 1.5, ScaleWidth: true},
	"couch": {Width: 3.0, Depth: 1.5, ScaleWidth: true},
	"chair": {Width: 0.6, Depth: 0.6},
	"table": {Width: 1.2, Depth: 0.8},
	"lamp":  {Width: 0.6, Depth: 0.6},
	"bed":   {Width: 1.6, Depth: 2.0, ScaleWidth: true, ScaleDepth: true},
}

// MenuState is the side panel visibility.
type MenuState uint8

const (
	MenuClosed MenuState = iota // panel slid out of view
	MenuOpen                    // panel visible
)

func (m MenuState) String() string {
	if m == MenuOpen {
		return "open"
	}
	return "closed"
}

// MarshalText implements encoding.TextMarshaler.
func (m MenuState) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MenuState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "open":
		*m = MenuOpen
	case "closed":
		*m = MenuClosed
	default:
		return fmt.Errorf("furnish: unknown menu state %q", text)
	}
	return nil
}

// Dialog identifies a modal dialog that excludes the placement editor.
type Dialog uint8

const (
	DialogNone             Dialog = iota // no dialog open
	DialogFurnitureBrowser               // catalog browser
	DialogInspiration                    // style inspiration wizard
	DialogRoomSettings                   // room dimensions form
)

var dialogNames = [...]string{"", "furniture-browser", "inspiration", "room-settings"}

func (d Dialog) String() string {
	if int(d) < len(dialogNames) {
		return dialogNames[d]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (d Dialog) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The empty string is
// DialogNone.
func (d *Dialog) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = DialogNone
		return nil
	}
	v, ok := ParseDialog(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDialog, text)
	}
	*d = v
	return nil
}

// ParseDialog converts a dialog name into a Dialog.
func ParseDialog(name string) (Dialog, bool) {
	for i, n := range dialogNames {
		if i > 0 && n == name {
			return Dialog(i), true
		}
	}
	return DialogNone, false
}

// wrapAngle maps a to [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// shortestAngle returns the signed angle in (-π, π] that turns from onto to.
func shortestAngle(from, to float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
