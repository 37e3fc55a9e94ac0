package ecs

import (
	"github.com/phanxgames/showroom"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for showroom interaction
// events. Subscribe to it in your ECS systems to receive clicks, presses and
// hover changes on nodes that carry an EntityID.
var InteractionEventType = events.NewEventType[showroom.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) showroom.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event showroom.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// SubscribeKind subscribes fn to interaction events of a single kind.
func SubscribeKind(world donburi.World, kind showroom.EventKind, fn func(donburi.World, showroom.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e showroom.InteractionEvent) {
		if e.Type == kind {
			fn(w, e)
		}
	})
}
