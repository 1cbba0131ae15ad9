// Package ecs provides ECS adapters for furnish's change events.
//
// [NewDonburiSink] bridges engine events (items added, removed and updated,
// selection, room, drag and click) into a [Donburi] world as typed events.
// Subscribe to [SceneEventType] in your ECS systems to receive them, or
// attach a [Mirror] to keep one entity per furniture item.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	eng.SetEventSink(sink)
//	mirror := ecs.NewMirror(world)
//
//	// each tick
//	ecs.SceneEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
