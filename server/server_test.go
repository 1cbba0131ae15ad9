package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/furnish"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := furnish.DefaultConfig()
	n := 0
	cfg.NewID = func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	cfg.Seed = []furnish.FurnitureItem{{
		Name: "Sofa", Type: "sofa", Size: furnish.SizeMedium,
		OriginalSize: 2, Position: mgl64.Vec3{-2, 0, 2},
	}}
	cfg.Rand = rand.New(rand.NewSource(1))
	cfg.LogOutput = io.Discard
	eng, err := furnish.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return New(eng, Options{})
}

func call(t *testing.T, s *Server, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func decodeAs[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, body := call(t, s, http.MethodGet, "/health", "")
	if code != http.StatusOK || !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("GET /health = %d %s", code, body)
	}
}

func TestFurnitureCommands(t *testing.T) {
	s := newTestServer(t)

	code, body := call(t, s, http.MethodGet, "/api/v1/furniture/item-1", "")
	if code != http.StatusOK {
		t.Fatalf("get = %d %s", code, body)
	}

	code, body = call(t, s, http.MethodPut, "/api/v1/furniture/item-1/color", `{"color":"#708090"}`)
	if it := decodeAs[furnish.FurnitureItem](t, body); code != http.StatusOK || it.Color != "#708090" {
		t.Errorf("color = %d %s", code, body)
	}

	code, body = call(t, s, http.MethodPut, "/api/v1/furniture/item-1/size", `{"size":"xl"}`)
	if it := decodeAs[furnish.FurnitureItem](t, body); code != http.StatusOK || it.Size != furnish.SizeXL {
		t.Errorf("size = %d %s", code, body)
	}

	code, body = call(t, s, http.MethodPut, "/api/v1/furniture/item-1/position", `{"x":50,"z":0}`)
	it := decodeAs[furnish.FurnitureItem](t, body)
	// An XL sofa is 4.2 wide: x clamps to 5 - 2.1.
	if code != http.StatusOK || it.Position.X() < 2.89 || it.Position.X() > 2.91 {
		t.Errorf("position = %d %s", code, body)
	}

	code, body = call(t, s, http.MethodPost, "/api/v1/furniture/item-1/rotate", "")
	if it := decodeAs[furnish.FurnitureItem](t, body); code != http.StatusOK || it.Rotation == 0 {
		t.Errorf("rotate = %d %s", code, body)
	}

	code, body = call(t, s, http.MethodPost, "/api/v1/furniture/item-1/duplicate", "")
	if it := decodeAs[furnish.FurnitureItem](t, body); code != http.StatusCreated || it.ID != "item-2" {
		t.Errorf("duplicate = %d %s", code, body)
	}

	code, body = call(t, s, http.MethodPost, "/api/v1/furniture", `{"catalogId":"lamp2"}`)
	if it := decodeAs[furnish.FurnitureItem](t, body); code != http.StatusCreated || it.Type != "lamp" {
		t.Errorf("add = %d %s", code, body)
	}

	code, body = call(t, s, http.MethodPost, "/api/v1/furniture/proposed", `{"names":["Cozy Couch"]}`)
	if items := decodeAs[[]furnish.FurnitureItem](t, body); code != http.StatusCreated || len(items) != 1 {
		t.Errorf("proposed = %d %s", code, body)
	}

	code, _ = call(t, s, http.MethodDelete, "/api/v1/furniture/item-2", "")
	if code != http.StatusNoContent {
		t.Errorf("delete = %d", code)
	}

	code, body = call(t, s, http.MethodGet, "/api/v1/furniture", "")
	if items := decodeAs[[]furnish.FurnitureItem](t, body); code != http.StatusOK || len(items) != 3 {
		t.Errorf("list = %d %s", code, body)
	}
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name         string
		method, path string
		body         string
		want         int
	}{
		{"unknown item", http.MethodGet, "/api/v1/furniture/nope", "", http.StatusNotFound},
		{"unknown rotate", http.MethodPost, "/api/v1/furniture/nope/rotate", "", http.StatusNotFound},
		{"unknown delete", http.MethodDelete, "/api/v1/furniture/nope", "", http.StatusNotFound},
		{"unknown catalog", http.MethodPost, "/api/v1/furniture", `{"catalogId":"nope"}`, http.StatusNotFound},
		{"bad color", http.MethodPut, "/api/v1/furniture/item-1/color", `{"color":"plaid"}`, http.StatusBadRequest},
		{"bad size", http.MethodPut, "/api/v1/furniture/item-1/size", `{"size":"huge"}`, http.StatusBadRequest},
		{"bad room", http.MethodPut, "/api/v1/room", `{"width":-1,"length":4,"height":3}`, http.StatusBadRequest},
		{"bad json", http.MethodPut, "/api/v1/room", `{`, http.StatusBadRequest},
		{"unknown dialog", http.MethodPost, "/api/v1/dialogs/garage/open", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := call(t, s, tt.method, tt.path, tt.body)
			if code != tt.want {
				t.Errorf("%s %s = %d %s, want %d", tt.method, tt.path, code, body, tt.want)
			}
			if !strings.Contains(string(body), `"error"`) {
				t.Errorf("body %s has no error field", body)
			}
		})
	}
}

func TestDialogConflict(t *testing.T) {
	s := newTestServer(t)
	code, body := call(t, s, http.MethodPost, "/api/v1/furniture/item-1/edit", "")
	if sel := decodeAs[furnish.SelectionState](t, body); code != http.StatusOK || sel.ActiveAccordion != "item-1" {
		t.Fatalf("edit = %d %s", code, body)
	}

	code, body = call(t, s, http.MethodPost, "/api/v1/dialogs/room-settings/open", "")
	if sel := decodeAs[map[string]any](t, body); code != http.StatusOK || sel["activeAccordion"] != "" || sel["dialog"] != "room-settings" {
		t.Fatalf("open dialog = %d %s", code, body)
	}

	code, _ = call(t, s, http.MethodPost, "/api/v1/selection/menu/toggle", "")
	if code != http.StatusConflict {
		t.Errorf("toggle under dialog = %d, want 409", code)
	}
	code, _ = call(t, s, http.MethodPut, "/api/v1/furniture/item-1/edit-visible", `{"visible":true}`)
	if code != http.StatusConflict {
		t.Errorf("badge under dialog = %d, want 409", code)
	}

	code, body = call(t, s, http.MethodPut, "/api/v1/room", `{"width":6,"length":6,"height":3}`)
	if room := decodeAs[furnish.RoomDimensions](t, body); code != http.StatusOK || room.Width != 6 {
		t.Errorf("room = %d %s", code, body)
	}

	code, _ = call(t, s, http.MethodPost, "/api/v1/dialogs/close", "")
	if code != http.StatusOK {
		t.Errorf("close = %d", code)
	}
	code, body = call(t, s, http.MethodPost, "/api/v1/selection/menu/toggle", "")
	if sel := decodeAs[map[string]any](t, body); code != http.StatusOK || sel["menuState"] != "open" {
		t.Errorf("toggle = %d %s", code, body)
	}
}

func TestSceneAndCatalog(t *testing.T) {
	s := newTestServer(t)
	code, body := call(t, s, http.MethodGet, "/api/v1/scene", "")
	if code != http.StatusOK {
		t.Fatalf("scene = %d", code)
	}
	scene := decodeAs[map[string]any](t, body)
	for _, key := range []string{"furniture", "room", "selection", "preferences", "version"} {
		if _, ok := scene[key]; !ok {
			t.Errorf("scene missing %q: %s", key, body)
		}
	}

	code, body = call(t, s, http.MethodGet, "/api/v1/catalog", "")
	if code != http.StatusOK || !strings.Contains(string(body), "Comfy Couch") || !strings.Contains(string(body), "Herbal Sage") {
		t.Errorf("catalog = %d %s", code, body)
	}
}

func TestPreferences(t *testing.T) {
	s := newTestServer(t)
	code, body := call(t, s, http.MethodPut, "/api/v1/preferences", `{"showMeasurements":true,"background":"#ffffff"}`)
	if p := decodeAs[furnish.Preferences](t, body); code != http.StatusOK || !p.ShowMeasurements || p.Background != "#ffffff" {
		t.Errorf("preferences = %d %s", code, body)
	}
	code, _ = call(t, s, http.MethodPut, "/api/v1/preferences", `{"background":"nope"}`)
	if code != http.StatusBadRequest {
		t.Errorf("bad background = %d", code)
	}
}

func TestRunAdvancesClock(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 200)
		close(done)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for {
		var frame uint64
		s.Do(func(e *furnish.Engine) { frame = e.Frame() })
		if frame > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("engine clock never advanced")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
}
