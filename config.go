package furnish

import (
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Config holds the tunables of an Engine. Start from DefaultConfig and
// override individual fields.
type Config struct {
	// Room is the initial room.
	Room RoomDimensions

	// SizeFactors maps each size tag to its linear scale factor.
	SizeFactors map[Size]float64
	// Footprints maps a furniture type to its horizontal extent. Types not
	// listed use the DefaultFootprintType entry.
	Footprints map[string]Footprint

	// RotationDamping is the per-tick interpolation factor of the visual
	// rotation toward the logical rotation.
	RotationDamping float64
	// ClickThreshold is the longest press that still counts as a click.
	ClickThreshold time.Duration
	// DragDeadZone is the screen-space movement in pixels a press may make
	// and still count as a click.
	DragDeadZone float64
	// StoreCommitInterval throttles Store writes while dragging. Zero
	// commits on every move. The final position is always committed on
	// release.
	StoreCommitInterval time.Duration

	// DuplicateOffset is added to the position of a duplicated item.
	DuplicateOffset mgl64.Vec3
	// SpawnExtent is the side of the square, centered on the origin, in
	// which newly added items are randomly placed.
	SpawnExtent float64
	// FloorY is the height of the ground plane items rest on.
	FloorY float64
	// KeepInBounds reclamps items whenever the room, their size, or their
	// rotation changes. When false, items may sit outside the walls until
	// they are next dragged.
	KeepInBounds bool

	// BadgeTweenDuration is the show/hide animation time of the edit badge
	// in seconds.
	BadgeTweenDuration float32

	// Seed is the initial furniture. Items without an ID get a fresh one.
	Seed []FurnitureItem

	// NewID generates item identifiers.
	NewID func() string
	// Rand places new items. A time-seeded source is used when nil.
	Rand *rand.Rand

	// LogOutput receives diagnostics. Defaults to os.Stderr.
	LogOutput io.Writer
	// Debug enables verbose per-command tracing.
	Debug bool
}

// DefaultSeed returns the two sofas a fresh room starts with.
func DefaultSeed() []FurnitureItem {
	return []FurnitureItem{
		{
			Name:         "Bubbly Couch",
			Nickname:     "bubbly",
			Type:         "sofa",
			Color:        DefaultColor,
			Size:         SizeMedium,
			OriginalSize: 1.4,
			Position:     mgl64.Vec3{-2, 0, 2},
			FileName:     "./bubblyRot2.glb",
		},
		{
			Name:         "Modern Sofa",
			Nickname:     "modSofa",
			Type:         "sofa",
			Color:        DefaultColor,
			Size:         SizeMedium,
			OriginalSize: 2.5,
			Position:     mgl64.Vec3{0, 0, -3},
			FileName:     "./modernSofa2.glb",
		},
	}
}

// DefaultConfig returns the stock configuration: a 10×10×3 room, 200 ms
// click threshold, 0.1 rotation damping and the default sofas.
func DefaultConfig() Config {
	factors := make(map[Size]float64, len(DefaultSizeFactors))
	for k, v := range DefaultSizeFactors {
		factors[k] = v
	}
	footprints := make(map[string]Footprint, len(DefaultFootprints))
	for k, v := range DefaultFootprints {
		footprints[k] = v
	}
	return Config{
		Room:               RoomDimensions{Width: 10, Length: 10, Height: 3},
		SizeFactors:        factors,
		Footprints:         footprints,
		RotationDamping:    0.1,
		ClickThreshold:     200 * time.Millisecond,
		DragDeadZone:       4,
		DuplicateOffset:    mgl64.Vec3{1, 0, 1},
		SpawnExtent:        5,
		KeepInBounds:       true,
		BadgeTweenDuration: 0.2,
		Seed:               DefaultSeed(),
		NewID:              uuid.NewString,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Room == (RoomDimensions{}) {
		c.Room = def.Room
	}
	if len(c.SizeFactors) == 0 {
		c.SizeFactors = def.SizeFactors
	}
	if len(c.Footprints) == 0 {
		c.Footprints = def.Footprints
	}
	if _, ok := c.Footprints[DefaultFootprintType]; !ok {
		fps := make(map[string]Footprint, len(c.Footprints)+1)
		for k, v := range c.Footprints {
			fps[k] = v
		}
		fps[DefaultFootprintType] = DefaultFootprints[DefaultFootprintType]
		c.Footprints = fps
	}
	if c.RotationDamping <= 0 || c.RotationDamping > 1 {
		c.RotationDamping = def.RotationDamping
	}
	if c.ClickThreshold <= 0 {
		c.ClickThreshold = def.ClickThreshold
	}
	if c.DragDeadZone < 0 {
		c.DragDeadZone = def.DragDeadZone
	}
	if c.DuplicateOffset == (mgl64.Vec3{}) {
		c.DuplicateOffset = def.DuplicateOffset
	}
	if c.SpawnExtent <= 0 {
		c.SpawnExtent = def.SpawnExtent
	}
	if c.BadgeTweenDuration <= 0 {
		c.BadgeTweenDuration = def.BadgeTweenDuration
	}
	if c.NewID == nil {
		c.NewID = def.NewID
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.LogOutput == nil {
		c.LogOutput = os.Stderr
	}
	return c
}

// sizeFactor returns the linear factor for s, or 1 for unknown sizes.
func (c *Config) sizeFactor(s Size) float64 {
	if f, ok := c.SizeFactors[s]; ok {
		return f
	}
	return 1
}

// footprint returns the resolved width and depth of an item.
func (c *Config) footprint(item FurnitureItem) (w, d float64) {
	fp, ok := c.Footprints[item.Type]
	if !ok {
		fp = c.Footprints[DefaultFootprintType]
	}
	return fp.Resolve(c.sizeFactor(item.Size))
}
