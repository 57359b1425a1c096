// Package ecs provides ECS adapters for panoroom's hotspot events.
//
// The primary adapter is [NewDonburiStore], which bridges hover and camera
// events (hover enter/leave, focus start/finish, restore start/finish) into a
// [Donburi] world as typed events. Subscribe to [HotspotEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
