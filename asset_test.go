package furnish

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// triangleGLTF is a single indexed triangle (-1,0,0) (1,0,0) (0,2,0) with an
// embedded buffer.
const triangleGLTF = `{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": 44, "uri": "data:application/octet-stream;base64,AACAvwAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAAEAAAAAAAAABAAIAAAA="}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [-1, 0, 0], "max": [1, 2, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "nodes": [{"mesh": 0}],
  "scenes": [{"nodes": [0]}],
  "scene": 0
}`

func writeTriangle(t *testing.T) (dir, name string) {
	t.Helper()
	dir = t.TempDir()
	name = "tri.gltf"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(triangleGLTF), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, name
}

func TestLoadGLTF(t *testing.T) {
	dir, name := writeTriangle(t)
	g, err := LoadGLTF(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if len(g.Positions) != 3 {
		t.Fatalf("positions = %d, want 3", len(g.Positions))
	}
	if len(g.Indices) != 3 || g.Indices[2] != 2 {
		t.Errorf("indices = %v, want [0 1 2]", g.Indices)
	}
	if g.Positions[2].Y() != 2 {
		t.Errorf("third vertex = %v, want y=2", g.Positions[2])
	}
	if _, r := g.BoundingSphere(); !approxEqual(r, math.Sqrt2, 1e-6) {
		t.Errorf("radius = %v, want √2", r)
	}
}

func TestLoadGLTFMissingFile(t *testing.T) {
	if _, err := LoadGLTF(filepath.Join(t.TempDir(), "nope.glb")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGLTFAssetsPendingThenReady(t *testing.T) {
	dir, name := writeTriangle(t)
	assets := NewGLTFAssets(dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	g, err := assets.Wait(ctx, name)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}

	again, err := assets.Geometry(name)
	if err != nil {
		t.Fatalf("Geometry after load: %v", err)
	}
	if again != g {
		t.Error("cached geometry should be the same instance")
	}
}

func TestGLTFAssetsFirstRequestIsPending(t *testing.T) {
	dir, name := writeTriangle(t)
	assets := NewGLTFAssets(dir)
	// The load runs on its own goroutine, so the very first call can only
	// report pending or the finished result.
	_, err := assets.Geometry(name)
	if err != nil && !errors.Is(err, ErrAssetPending) {
		t.Fatalf("first Geometry: %v", err)
	}
}

func TestStaticAssets(t *testing.T) {
	g := sphereish(1)
	assets := StaticAssets{"a.glb": g}
	if got, err := assets.Geometry("a.glb"); err != nil || got != g {
		t.Errorf("Geometry(a.glb) = %v, %v", got, err)
	}
	if _, err := assets.Geometry("b.glb"); !errors.Is(err, ErrAssetPending) {
		t.Errorf("missing asset err = %v, want ErrAssetPending", err)
	}
}
