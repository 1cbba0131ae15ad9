package furnish

import (
	"errors"
	"testing"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "size", "index": 1, "value": "xl"},
			{"action": "room", "room": {"width": 8, "length": 6, "height": 3}}
		]
	}`)

	runner, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if st := runner.steps[0]; st.Action != "click" || st.X != 100 || st.Y != 200 {
		t.Errorf("step 0 = %+v", st)
	}
	if st := runner.steps[1]; st.Action != "wait" || st.Frames != 3 {
		t.Errorf("step 1 = %+v", st)
	}
	if st := runner.steps[2]; st.Index != 1 || st.Value != "xl" {
		t.Errorf("step 2 = %+v", st)
	}
	if st := runner.steps[3]; st.Room == nil || st.Room.Length != 6 {
		t.Errorf("step 3 = %+v", st)
	}
}

func TestLoadScriptRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `not json`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRunnerWaitsForInjectQueue(t *testing.T) {
	eng, _ := twoSofas(t)
	runner, err := LoadScript([]byte(`{"steps": [{"action": "click", "x": 300, "y": 400}]}`))
	if err != nil {
		t.Fatal(err)
	}
	eng.SetScriptRunner(runner)

	// Frame 1 queues press and release and replays the press.
	stepFrames(eng, 1)
	if runner.Done() {
		t.Error("runner should not be done while inject queue has events")
	}
	stepFrames(eng, 2)
	if !runner.Done() {
		t.Error("runner should be done after all steps executed and queue drained")
	}
	if got := eng.Selection().ActiveAccordion; got != "id-1" {
		t.Errorf("ActiveAccordion = %q, want id-1", got)
	}
}

func TestRunnerWait(t *testing.T) {
	eng, _ := twoSofas(t)
	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "rotate", "item": "id-1"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	eng.SetScriptRunner(runner)

	stepFrames(eng, 3)
	if mustItem(t, eng, "id-1").Rotation != 0 {
		t.Fatal("rotate ran before the wait elapsed")
	}
	stepFrames(eng, 1)
	if mustItem(t, eng, "id-1").Rotation == 0 {
		t.Error("rotate did not run after the wait")
	}
}

func TestRunnerInteractionScript(t *testing.T) {
	eng, _ := twoSofas(t)
	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "size", "index": 0, "value": "large"},
		{"action": "color", "item": "id-2", "value": "#708090"},
		{"action": "duplicate", "item": "id-2"},
		{"action": "position", "item": "id-3", "x": 3, "z": 0},
		{"action": "edit-visible", "item": "id-3", "visible": true},
		{"action": "open-dialog", "value": "room-settings"},
		{"action": "room", "room": {"width": 6, "length": 6, "height": 3}},
		{"action": "close-dialog"},
		{"action": "add-catalog", "value": "lamp1"},
		{"action": "remove", "item": "id-1"},
		{"action": "edit-badge", "item": "id-1"},
		{"action": "open-dialog", "value": "garage"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	eng.SetScriptRunner(runner)
	for i := 0; i < 50 && !runner.Done(); i++ {
		stepFrames(eng, 1)
	}
	if !runner.Done() {
		t.Fatal("script did not finish")
	}

	errs := runner.Errors()
	if len(errs) != 2 {
		t.Fatalf("errors = %v, want 2", errs)
	}
	if !errors.Is(errs[0], ErrUnknownItem) || !errors.Is(errs[1], ErrUnknownDialog) {
		t.Errorf("errors = %v", errs)
	}

	items := eng.Furniture()
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	dup := mustItem(t, eng, "id-3")
	if dup.Color != "#708090" {
		t.Errorf("duplicate color = %q", dup.Color)
	}
	// The 6 m room pulls the 3 m sofa back to x=1.5.
	if !approxEqual(dup.Position.X(), 1.5, 1e-9) {
		t.Errorf("duplicate x = %v, want 1.5", dup.Position.X())
	}
	if dup.IsEditVisible {
		t.Error("dialog should have hidden the badge")
	}
	if items[2].Type != "lamp" {
		t.Errorf("last item = %+v, want a lamp", items[2])
	}
	if eng.Room().Width != 6 || eng.Selection().Dialog != DialogNone {
		t.Errorf("room=%+v dialog=%v", eng.Room(), eng.Selection().Dialog)
	}
}
