package furnish

import "math"

// Bounds is the axis-aligned range an item's center may occupy on the floor.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// RotatedFootprint returns the axis-aligned extent of a width×depth
// rectangle turned by theta radians about the vertical axis.
func RotatedFootprint(width, depth, theta float64) (w, d float64) {
	c := math.Abs(math.Cos(theta))
	s := math.Abs(math.Sin(theta))
	return width*c + depth*s, width*s + depth*c
}

// ComputeBounds returns the traversal limits for an item of the given
// footprint and rotation inside room. The rotated footprint never crosses
// a wall while the center stays within the result. When the footprint is
// wider than the room on an axis, Min > Max on that axis.
func ComputeBounds(room RoomDimensions, width, depth, theta float64) Bounds {
	w, d := RotatedFootprint(width, depth, theta)
	hx := room.Width/2 - w/2
	hz := room.Length/2 - d/2
	return Bounds{MinX: -hx, MaxX: hx, MinZ: -hz, MaxZ: hz}
}

// Fits reports whether the footprint fits the room on both axes.
func (b Bounds) Fits() bool {
	return b.MinX <= b.MaxX && b.MinZ <= b.MaxZ
}

// Clamp clamps x and z independently. An axis that does not fit collapses
// onto the room's center line.
func (b Bounds) Clamp(x, z float64) (float64, float64) {
	return clampAxis(x, b.MinX, b.MaxX), clampAxis(z, b.MinZ, b.MaxZ)
}

// Contains reports whether (x, z) lies inside the bounds, edges included.
func (b Bounds) Contains(x, z float64) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

func clampAxis(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
