package furnish

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// scriptStep represents a single action in an interaction script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	// Item targets a command by id. Index targets it by store position
	// when Item is empty.
	Item  string `json:"item,omitempty"`
	Index int    `json:"index,omitempty"`

	Value   string          `json:"value,omitempty"`
	Visible bool            `json:"visible,omitempty"`
	Room    *RoomDimensions `json:"room,omitempty"`
	Names   []string        `json:"names,omitempty"`
	Z       float64         `json:"z,omitempty"`
}

// script is the top-level JSON structure for an interaction script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences injected pointer events and commands across
// frames. Attach it to an Engine with SetScriptRunner; it advances once per
// Update.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadScript parses a JSON interaction script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

var scriptActions = map[string]bool{
	"press": true, "move": true, "release": true, "click": true, "drag": true, "wait": true,
	"rotate": true, "duplicate": true, "remove": true, "color": true, "size": true,
	"position": true, "toggle-menu": true, "accordion": true, "collapse": true, "edit-visible": true,
	"edit-badge": true, "dismiss": true, "open-dialog": true, "close-dialog": true,
	"room": true, "add-catalog": true, "add-proposed": true,
}

func knownAction(a string) bool { return scriptActions[a] }

// SetScriptRunner attaches a runner. nil detaches the current one.
func (e *Engine) SetScriptRunner(r *ScriptRunner) {
	e.runner = r
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Errors returns the errors of failed command steps, in order.
func (r *ScriptRunner) Errors() []error {
	return r.errs
}

// step advances the runner by one frame. Called from Engine.Update.
func (r *ScriptRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	if err := r.run(e, st); err != nil {
		r.errs = append(r.errs, fmt.Errorf("step %d (%s): %w", r.cursor-1, st.Action, err))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) target(e *Engine, st scriptStep) (string, error) {
	if st.Item != "" {
		return st.Item, nil
	}
	items := e.store.Items()
	if st.Index < 0 || st.Index >= len(items) {
		return "", fmt.Errorf("%w: index %d", ErrUnknownItem, st.Index)
	}
	return items[st.Index].ID, nil
}

func (r *ScriptRunner) run(e *Engine, st scriptStep) error {
	switch st.Action {
	case "press":
		e.InjectPress(st.X, st.Y)
	case "move":
		e.InjectMove(st.X, st.Y)
	case "release":
		e.InjectRelease(st.X, st.Y)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "toggle-menu":
		return e.ToggleMenu()
	case "dismiss":
		e.Dismiss()
	case "open-dialog":
		d, ok := ParseDialog(st.Value)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDialog, st.Value)
		}
		return e.OpenDialog(d)
	case "close-dialog":
		e.CloseDialog()
	case "room":
		if st.Room == nil {
			return fmt.Errorf("%w: missing room", ErrInvalidRoom)
		}
		return e.SetRoomDimensions(*st.Room)
	case "add-catalog":
		_, err := e.AddFromCatalog(st.Value, "")
		return err
	case "add-proposed":
		_, err := e.AddProposed(st.Names)
		return err
	case "collapse":
		return e.SetActiveAccordion("")
	default:
		id, err := r.target(e, st)
		if err != nil {
			return err
		}
		return r.runItem(e, st, id)
	}
	return nil
}

func (r *ScriptRunner) runItem(e *Engine, st scriptStep, id string) error {
	var err error
	switch st.Action {
	case "rotate":
		_, err = e.Rotate(id)
	case "duplicate":
		_, err = e.Duplicate(id)
	case "remove":
		err = e.Remove(id)
	case "color":
		_, err = e.SetColor(id, st.Value)
	case "size":
		var s Size
		if s, err = ParseSize(st.Value); err == nil {
			_, err = e.SetSize(id, s)
		}
	case "position":
		_, err = e.SetPosition(id, mgl64.Vec3{st.X, 0, st.Z})
	case "accordion":
		err = e.SetActiveAccordion(id)
	case "edit-visible":
		err = e.SetEditVisible(id, st.Visible)
	case "edit-badge":
		err = e.PressEditBadge(id)
	}
	return err
}
