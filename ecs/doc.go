// Package ecs provides ECS adapters for showroom's interaction dispatcher.
//
// The primary adapter is [NewDonburiStore], which bridges dispatched
// interaction events (click, press, hover) into a [Donburi] world as typed
// events. Only nodes with a non-zero EntityID are forwarded. Subscribe to
// [InteractionEventType] in your ECS systems to receive them, or use
// [SubscribeKind] to receive a single kind.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
