package furnish

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geometry is raw mesh geometry: a vertex position list with optional
// triangle indices. A Geometry obtained from an AssetProvider may be shared
// by every item that uses the same asset and must never be modified.
type Geometry struct {
	Positions []mgl64.Vec3
	Indices   []uint32
}

// Clone returns a deep copy of g.
func (g *Geometry) Clone() *Geometry {
	c := &Geometry{
		Positions: make([]mgl64.Vec3, len(g.Positions)),
	}
	copy(c.Positions, g.Positions)
	if g.Indices != nil {
		c.Indices = make([]uint32, len(g.Indices))
		copy(c.Indices, g.Indices)
	}
	return c
}

// BoundingSphere returns a sphere enclosing every vertex. The center is the
// center of the axis-aligned bounding box and the radius the largest
// distance from it.
func (g *Geometry) BoundingSphere() (center mgl64.Vec3, radius float64) {
	if len(g.Positions) == 0 {
		return mgl64.Vec3{}, 0
	}
	lo, hi := g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	center = lo.Add(hi).Mul(0.5)
	var r2 float64
	for _, p := range g.Positions {
		d := p.Sub(center)
		if l := d.Dot(d); l > r2 {
			r2 = l
		}
	}
	return center, math.Sqrt(r2)
}

// NormalizedGeometry is a scaled private copy of an asset's geometry.
type NormalizedGeometry struct {
	*Geometry
	// Scale is the uniform factor applied to the source positions.
	Scale float64
	// Radius is the bounding radius of the source geometry.
	Radius float64
}

// NormalizeScale computes originalSize * factor / radius. It reports
// ErrDegenerateGeometry when radius is zero, negative, or not finite.
func NormalizeScale(radius, originalSize, factor float64) (float64, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return 0, fmt.Errorf("%w: bounding radius %v", ErrDegenerateGeometry, radius)
	}
	return originalSize * factor / radius, nil
}

// Normalize scales a clone of src so that its bounding sphere maps onto
// originalSize * factor. src is left untouched.
func Normalize(src *Geometry, originalSize, factor float64) (*NormalizedGeometry, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil geometry", ErrDegenerateGeometry)
	}
	_, r := src.BoundingSphere()
	scale, err := NormalizeScale(r, originalSize, factor)
	if err != nil {
		return nil, err
	}
	g := src.Clone()
	for i := range g.Positions {
		g.Positions[i] = g.Positions[i].Mul(scale)
	}
	return &NormalizedGeometry{Geometry: g, Scale: scale, Radius: r}, nil
}

// Placeholder dimensions of the wireframe box shown until an asset is ready.
const (
	PlaceholderWidth  = 1.5
	PlaceholderHeight = 2.5
	PlaceholderDepth  = 2.5
)

// placeholderEdges lists the 12 edges of the unit box as corner index pairs.
var placeholderEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// PlaceholderBox returns the 8 corners of the placeholder box resting on the
// floor at the local origin, and its edge list.
func PlaceholderBox() ([8]mgl64.Vec3, [12][2]int) {
	hw, hd := PlaceholderWidth/2, PlaceholderDepth/2
	h := PlaceholderHeight
	return [8]mgl64.Vec3{
		{-hw, 0, -hd}, {hw, 0, -hd}, {hw, 0, hd}, {-hw, 0, hd},
		{-hw, h, -hd}, {hw, h, -hd}, {hw, h, hd}, {-hw, h, hd},
	}, placeholderEdges
}
