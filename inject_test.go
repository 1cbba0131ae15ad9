package furnish

import "testing"

func TestInjectClickSpansTwoFrames(t *testing.T) {
	eng, log := twoSofas(t)
	eng.InjectClick(screenOf(-2, 2))
	if eng.PendingInput() != 2 {
		t.Fatalf("expected 2 queued events, got %d", eng.PendingInput())
	}

	// Frame 1: press.
	stepFrames(eng, 1)
	if eng.PendingInput() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", eng.PendingInput())
	}
	if !eng.PointerPressed() || log.count(EventClick) != 0 {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release, click fires.
	stepFrames(eng, 1)
	if eng.PendingInput() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", eng.PendingInput())
	}
	if log.count(EventClick) != 1 {
		t.Error("click should fire on release frame")
	}
}

func TestInjectDragQueuesFrames(t *testing.T) {
	eng, log := twoSofas(t)
	eng.InjectDrag(300, 400, 400, 400, 5)
	if eng.PendingInput() != 5 {
		t.Fatalf("expected 5 queued events, got %d", eng.PendingInput())
	}
	stepFrames(eng, 5)

	var kinds []EventType
	for _, e := range log.events {
		if e.Type == EventDragStart || e.Type == EventDragEnd {
			kinds = append(kinds, e.Type)
		}
	}
	if len(kinds) != 2 || kinds[0] != EventDragStart || kinds[1] != EventDragEnd {
		t.Errorf("drag events = %v", kinds)
	}
}

func TestInjectDragMinFrames(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.InjectDrag(0, 0, 100, 100, 1)
	if eng.PendingInput() != 2 {
		t.Fatalf("expected 2 queued events (clamped), got %d", eng.PendingInput())
	}
}

func TestInjectQueueOrder(t *testing.T) {
	eng, _ := newTestEngine(t)
	eng.InjectPress(10, 20)
	eng.InjectMove(30, 40)
	eng.InjectRelease(50, 60)

	want := []syntheticPointerEvent{
		{screenX: 10, screenY: 20, phase: phaseDown},
		{screenX: 30, screenY: 40, phase: phaseMove},
		{screenX: 50, screenY: 60, phase: phaseUp},
	}
	if len(eng.injectQueue) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(eng.injectQueue))
	}
	for i, w := range want {
		if eng.injectQueue[i] != w {
			t.Errorf("event %d = %+v, want %+v", i, eng.injectQueue[i], w)
		}
	}
}

func TestProcessInjectedInputEmptyQueue(t *testing.T) {
	eng, _ := newTestEngine(t)
	if eng.processInjectedInput() {
		t.Error("should not consume when queue is empty")
	}
}
