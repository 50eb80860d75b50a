// Package ecs provides ECS adapters for thicket's visibility events.
//
// The primary adapter is [NewDonburiStore], which bridges per-camera
// enter-view and leave-view events into a [Donburi] world as typed events.
// Subscribe to [VisibilityEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
