package ecs

import (
	"github.com/phanxgames/furnish"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// SceneEventType is the Donburi event type for furnish scene events.
// Events are queued by the sink and delivered on ProcessEvents.
var SceneEventType = events.NewEventType[furnish.SceneEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Scene
// events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) furnish.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event furnish.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}

// ItemComponent holds the latest value of a furniture item.
var ItemComponent = donburi.NewComponentType[furnish.FurnitureItem]()

// Mirror keeps one entity per furniture item, driven by SceneEventType.
type Mirror struct {
	world    donburi.World
	entities map[string]donburi.Entity
	query    *donburi.Query
}

// NewMirror subscribes a Mirror to SceneEventType on world. Existing items
// are not copied; add them with Sync.
func NewMirror(world donburi.World) *Mirror {
	m := &Mirror{
		world:    world,
		entities: make(map[string]donburi.Entity),
		query:    donburi.NewQuery(filter.Contains(ItemComponent)),
	}
	SceneEventType.Subscribe(world, m.onEvent)
	return m
}

// Sync replaces the mirrored items with items.
func (m *Mirror) Sync(items []furnish.FurnitureItem) {
	for id, ent := range m.entities {
		if m.world.Valid(ent) {
			m.world.Remove(ent)
		}
		delete(m.entities, id)
	}
	for _, it := range items {
		m.put(it)
	}
}

// Entity returns the entity mirroring an item.
func (m *Mirror) Entity(id string) (donburi.Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// Item returns the mirrored value of an item.
func (m *Mirror) Item(id string) (furnish.FurnitureItem, bool) {
	e, ok := m.entities[id]
	if !ok || !m.world.Valid(e) {
		return furnish.FurnitureItem{}, false
	}
	return *ItemComponent.Get(m.world.Entry(e)), true
}

// Len returns the number of entities carrying an ItemComponent.
func (m *Mirror) Len() int {
	return m.query.Count(m.world)
}

func (m *Mirror) put(it furnish.FurnitureItem) {
	ent, ok := m.entities[it.ID]
	if !ok || !m.world.Valid(ent) {
		ent = m.world.Create(ItemComponent)
		m.entities[it.ID] = ent
	}
	ItemComponent.SetValue(m.world.Entry(ent), it)
}

func (m *Mirror) onEvent(w donburi.World, ev furnish.SceneEvent) {
	switch ev.Type {
	case furnish.EventItemAdded, furnish.EventItemUpdated, furnish.EventGeometryReady,
		furnish.EventDragEnd, furnish.EventClick:
		if ev.ItemID != "" && ev.Item.ID == ev.ItemID {
			m.put(ev.Item)
		}
	case furnish.EventItemRemoved:
		if ent, ok := m.entities[ev.ItemID]; ok {
			if w.Valid(ent) {
				w.Remove(ent)
			}
			delete(m.entities, ev.ItemID)
		}
	}
}
