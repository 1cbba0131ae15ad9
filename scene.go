package furnish

import "github.com/go-gl/mathgl/mgl64"

// EventType identifies a kind of scene change.
type EventType uint8

const (
	EventItemAdded        EventType = iota // item appended to the store
	EventItemRemoved                       // item removed from the store
	EventItemUpdated                       // color, size, position or rotation changed
	EventSelectionChanged                  // menu, accordion, badge, hover or dialog changed
	EventRoomChanged                       // room dimensions replaced
	EventDragStart                         // pointer pressed on an item
	EventDragEnd                           // pointer released after holding an item
	EventClick                             // short press on an item
	EventGeometryReady                     // normalized geometry swapped in for the placeholder
)

var eventTypeNames = [...]string{
	"item-added", "item-removed", "item-updated", "selection-changed",
	"room-changed", "drag-start", "drag-end", "click", "geometry-ready",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// EventSink receives scene changes. Set one with Engine.SetEventSink.
// EmitEvent is called synchronously from the goroutine driving the engine.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// SceneEvent describes one change.
type SceneEvent struct {
	Type EventType `json:"type"`
	// ItemID is the affected item; empty for room and selection events.
	ItemID string `json:"itemId,omitempty"`
	// Item is the item after the change. Zero for EventItemRemoved.
	Item FurnitureItem `json:"item"`
	// Position is the pointer's ground point for drag and click events.
	Position mgl64.Vec3 `json:"position"`
	// Selection is the state after the change.
	Selection SelectionState `json:"selection"`
	Room      RoomDimensions `json:"room"`
	// Version is the store version after the change.
	Version uint64 `json:"version"`
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(SceneEvent)

// EmitEvent implements EventSink.
func (f EventSinkFunc) EmitEvent(e SceneEvent) { f(e) }

// emit fills the common fields and forwards e to the sink, if any.
func (e *Engine) emit(ev SceneEvent) {
	if e.sink == nil {
		return
	}
	ev.Selection = e.Selection()
	ev.Room = e.room
	ev.Version = e.store.Version()
	e.sink.EmitEvent(ev)
}

// emitItem sends an item event carrying the current item value.
func (e *Engine) emitItem(t EventType, id string) {
	if e.sink == nil {
		return
	}
	item, _ := e.Item(id)
	e.emit(SceneEvent{Type: t, ItemID: id, Item: item})
}

// syncSelection retargets the badge tweens and emits
// EventSelectionChanged when the state differs from before.
func (e *Engine) syncSelection(before SelectionState) {
	e.syncBadges()
	if e.sel.State() != before {
		e.tracef("selection %+v", e.sel.State())
		e.emit(SceneEvent{Type: EventSelectionChanged})
	}
}
