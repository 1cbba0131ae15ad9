package furnish

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// AssetProvider resolves an asset reference to raw geometry. Geometry must
// not block: while an asset is still loading it returns ErrAssetPending and
// the engine keeps showing the placeholder. Returned geometry is shared and
// is never modified by the engine.
type AssetProvider interface {
	Geometry(ref string) (*Geometry, error)
}

// StaticAssets is an in-memory AssetProvider. References that are not in
// the map are reported as pending.
type StaticAssets map[string]*Geometry

// Geometry implements AssetProvider.
func (s StaticAssets) Geometry(ref string) (*Geometry, error) {
	g, ok := s[ref]
	if !ok {
		return nil, ErrAssetPending
	}
	return g, nil
}

// GLTFAssets loads .gltf and .glb files from a directory in the background.
// The first request for a reference starts a load and reports
// ErrAssetPending; later requests return the cached result.
type GLTFAssets struct {
	dir string

	mu      sync.Mutex
	entries map[string]*assetEntry
}

type assetEntry struct {
	done chan struct{}
	geom *Geometry
	err  error
}

// NewGLTFAssets returns a provider resolving relative references against dir.
func NewGLTFAssets(dir string) *GLTFAssets {
	return &GLTFAssets{dir: dir, entries: make(map[string]*assetEntry)}
}

// Geometry implements AssetProvider.
func (a *GLTFAssets) Geometry(ref string) (*Geometry, error) {
	e := a.start(ref)
	select {
	case <-e.done:
		return e.geom, e.err
	default:
		return nil, ErrAssetPending
	}
}

// Wait blocks until ref has loaded or ctx is done.
func (a *GLTFAssets) Wait(ctx context.Context, ref string) (*Geometry, error) {
	e := a.start(ref)
	select {
	case <-e.done:
		return e.geom, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Preload starts loading every reference without waiting.
func (a *GLTFAssets) Preload(refs ...string) {
	for _, ref := range refs {
		a.start(ref)
	}
}

func (a *GLTFAssets) start(ref string) *assetEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.entries[ref]; ok {
		return e
	}
	e := &assetEntry{done: make(chan struct{})}
	a.entries[ref] = e
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.dir, path)
	}
	go func() {
		e.geom, e.err = LoadGLTF(path)
		close(e.done)
	}()
	return e
}

// LoadGLTF reads every mesh primitive of a glTF file into one Geometry.
// Non-indexed primitives get sequential indices. Node transforms are not
// applied.
func LoadGLTF(path string) (*Geometry, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load asset %s: %w", path, err)
	}
	g, err := geometryFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load asset %s: %w", path, err)
	}
	return g, nil
}

func geometryFromDocument(doc *gltf.Document) (*Geometry, error) {
	g := &Geometry{}
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			idx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[idx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q positions: %w", mesh.Name, err)
			}
			base := uint32(len(g.Positions))
			for _, p := range positions {
				g.Positions = append(g.Positions, mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
			}
			if prim.Indices == nil {
				for i := range positions {
					g.Indices = append(g.Indices, base+uint32(i))
				}
				continue
			}
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q indices: %w", mesh.Name, err)
			}
			for _, i := range indices {
				g.Indices = append(g.Indices, base+i)
			}
		}
	}
	if len(g.Positions) == 0 {
		return nil, fmt.Errorf("%w: no vertex positions", ErrDegenerateGeometry)
	}
	return g, nil
}
