package furnish

type pointerPhase uint8

const (
	phaseDown pointerPhase = iota
	phaseMove
	phaseUp
)

// syntheticPointerEvent represents a single injected pointer event in
// screen coordinates. It goes through the camera exactly like real input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	phase            pointerPhase
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next Update.
func (e *Engine) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, phase: phaseDown})
}

// InjectMove queues a pointer move. Between InjectPress and InjectRelease
// it drags the pressed item.
func (e *Engine) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, phase: phaseMove})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (e *Engine) InjectRelease(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, phase: phaseUp})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (e *Engine) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (e *Engine) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		e.InjectMove(x, y)
	}
	e.InjectRelease(toX, toY)
}

// PendingInput returns the number of queued synthetic events.
func (e *Engine) PendingInput() int {
	return len(e.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the pointer state machine. Returns true if an event was consumed.
func (e *Engine) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	switch evt.phase {
	case phaseDown:
		e.PointerDown(evt.screenX, evt.screenY)
	case phaseMove:
		e.PointerMove(evt.screenX, evt.screenY)
	case phaseUp:
		e.PointerUp(evt.screenX, evt.screenY)
	}
	return true
}
