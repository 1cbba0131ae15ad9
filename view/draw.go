package view

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"

	"github.com/phanxgames/furnish"
)

// whitePixelImage is a 1x1 white image used as the source for solid-color
// DrawTriangles calls.
var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// point is a screen position.
type point struct{ X, Y float64 }

// polygonFan triangulates a convex polygon as a fan from its first point.
// Vertex colors carry c scaled by alpha.
func polygonFan(points []point, c color.RGBA, alpha float64) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	if n < 3 {
		return nil, nil
	}
	r, g, b, a := colorScale(c, alpha)
	verts := make([]ebiten.Vertex, n)
	for i, p := range points {
		verts[i] = ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	inds := make([]uint16, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		inds = append(inds, 0, uint16(i), uint16(i+1))
	}
	return verts, inds
}

func colorScale(c color.RGBA, alpha float64) (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255,
		float32(c.A) / 255 * float32(alpha)
}

// lineQuad returns the four corners of a line segment of the given width.
func lineQuad(a, b point, width float64) []point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	return []point{
		{a.X + nx, a.Y + ny}, {b.X + nx, b.Y + ny},
		{b.X - nx, b.Y - ny}, {a.X - nx, a.Y - ny},
	}
}

// circlePoints approximates a circle with segs points.
func circlePoints(center point, radius float64, segs int) []point {
	pts := make([]point, segs)
	for i := range pts {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(segs))
		pts[i] = point{center.X + c*radius, center.Y + s*radius}
	}
	return pts
}

// canvas batches solid triangles and flushes them in one DrawTriangles call.
type canvas struct {
	verts []ebiten.Vertex
	inds  []uint16
}

func (c *canvas) fill(points []point, clr color.RGBA, alpha float64) {
	v, idx := polygonFan(points, clr, alpha)
	if len(v) == 0 {
		return
	}
	if len(c.verts)+len(v) > math.MaxUint16 {
		return
	}
	base := uint16(len(c.verts))
	c.verts = append(c.verts, v...)
	for _, i := range idx {
		c.inds = append(c.inds, base+i)
	}
}

func (c *canvas) line(a, b point, width float64, clr color.RGBA, alpha float64) {
	c.fill(lineQuad(a, b, width), clr, alpha)
}

func (c *canvas) flush(dst *ebiten.Image) {
	if len(c.inds) > 0 {
		dst.DrawTriangles(c.verts, c.inds, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
	}
	c.verts = c.verts[:0]
	c.inds = c.inds[:0]
}

// projector maps world points to screen points.
type projector struct {
	cam furnish.Camera
}

func (p projector) project(v mgl64.Vec3) (point, bool) {
	x, y, ok := p.cam.Project(v)
	return point{x, y}, ok
}

// polygon projects floor points and reports false when any is behind the
// camera.
func (p projector) polygon(world []mgl64.Vec3) ([]point, bool) {
	out := make([]point, len(world))
	for i, w := range world {
		s, ok := p.project(w)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func (p projector) segment(c *canvas, a, b mgl64.Vec3, width float64, clr color.RGBA, alpha float64) {
	sa, ok1 := p.project(a)
	sb, ok2 := p.project(b)
	if ok1 && ok2 {
		c.line(sa, sb, width, clr, alpha)
	}
}

var (
	floorColor     = colornames.Wheat
	gridColor      = colornames.Tan
	wallColor      = colornames.Sienna
	highlightColor = colornames.Dodgerblue
	hoverColor     = colornames.Lightskyblue
	wireColor      = colornames.Dimgray
	badgeColor     = colornames.Orange
)

// floorCorners returns the room floor corners.
func floorCorners(room furnish.RoomDimensions) []mgl64.Vec3 {
	hw, hl := room.Width/2, room.Length/2
	return []mgl64.Vec3{{-hw, 0, -hl}, {hw, 0, -hl}, {hw, 0, hl}, {-hw, 0, hl}}
}

func (p projector) drawRoom(c *canvas, room furnish.RoomDimensions) {
	corners := floorCorners(room)
	if pts, ok := p.polygon(corners); ok {
		c.fill(pts, floorColor, 1)
	}
	hw, hl := room.Width/2, room.Length/2
	for x := math.Ceil(-hw); x <= hw; x++ {
		p.segment(c, mgl64.Vec3{x, 0, -hl}, mgl64.Vec3{x, 0, hl}, 1, gridColor, 0.6)
	}
	for z := math.Ceil(-hl); z <= hl; z++ {
		p.segment(c, mgl64.Vec3{-hw, 0, z}, mgl64.Vec3{hw, 0, z}, 1, gridColor, 0.6)
	}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		p.segment(c, a, b, 3, wallColor, 1)
		up := mgl64.Vec3{0, room.Height, 0}
		p.segment(c, a, a.Add(up), 1, wallColor, 0.5)
		p.segment(c, a.Add(up), b.Add(up), 1, wallColor, 0.5)
	}
}

// maxWireTriangles caps the triangles outlined per mesh.
const maxWireTriangles = 1500

// local turns a model-space point into world space for the item.
func local(it furnish.RenderItem, v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Rotate3DY(it.Rotation).Mul3x1(v).Add(it.Position)
}

func (p projector) drawItem(c *canvas, it furnish.RenderItem) {
	fp := furnish.FootprintPolygon(it.Position, it.Width, it.Depth, it.Rotation)
	world := make([]mgl64.Vec3, len(fp.Points))
	for i, v := range fp.Points {
		world[i] = mgl64.Vec3{v.X(), 0, v.Y()}
	}
	alpha := 0.45
	if it.Dragging {
		alpha = 0.7
	}
	if pts, ok := p.polygon(world); ok {
		c.fill(pts, it.Color, alpha)
	}
	outline, width := wireColor, 1.0
	switch {
	case it.Selected || it.Dragging:
		outline, width = highlightColor, 3
	case it.Hovered:
		outline, width = hoverColor, 2
	}
	for i := range world {
		p.segment(c, world[i], world[(i+1)%len(world)], width, outline, 1)
	}

	if it.Placeholder() {
		corners, edges := furnish.PlaceholderBox()
		for _, e := range edges {
			p.segment(c, local(it, corners[e[0]]), local(it, corners[e[1]]), 1, wireColor, 0.8)
		}
	} else {
		p.drawMesh(c, it)
	}
	p.drawBadge(c, it)
}

func (p projector) drawMesh(c *canvas, it furnish.RenderItem) {
	g := it.Geometry
	pos := func(i uint32) mgl64.Vec3 {
		return local(it, g.Positions[i].Mul(g.Scale))
	}
	tris := len(g.Indices) / 3
	if tris > maxWireTriangles {
		tris = maxWireTriangles
	}
	for t := 0; t < tris; t++ {
		a, b, d := g.Indices[3*t], g.Indices[3*t+1], g.Indices[3*t+2]
		if int(max(a, b, d)) >= len(g.Positions) {
			continue
		}
		p.segment(c, pos(a), pos(b), 1, it.Color, 0.9)
		p.segment(c, pos(b), pos(d), 1, it.Color, 0.9)
	}
}

// badgeHeight is the height above the floor the edit badge floats at.
const badgeHeight = 1.2

func (p projector) drawBadge(c *canvas, it furnish.RenderItem) {
	if it.Badge.Opacity <= 0 {
		return
	}
	center, ok := p.project(it.Position.Add(mgl64.Vec3{0, badgeHeight, 0}))
	if !ok {
		return
	}
	c.fill(circlePoints(center, 12*it.Badge.Scale, 20), badgeColor, it.Badge.Opacity)
	c.fill(circlePoints(center, 5*it.Badge.Scale, 12), colornames.White, it.Badge.Opacity)
}
