package ecs

import (
	"github.com/phanxgames/panoroom"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// HotspotEventType is the Donburi event type for panoroom hotspot events.
var HotspotEventType = events.NewEventType[panoroom.HotspotEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Hotspot events are published to HotspotEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) panoroom.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event panoroom.HotspotEvent) {
	HotspotEventType.Publish(s.world, event)
}
