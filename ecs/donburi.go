// Package ecs provides ECS adapters for thicket.
package ecs

import (
	"github.com/phanxgames/thicket"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// VisibilityEventType carries thicket.VisibilityEvent values. Every
// successful Scene.Cull, including the ones Scene.Draw runs per camera,
// publishes the frame's enter_view events in discovery order followed by its
// leave_view events. A frame aborted with a detached camera publishes none.
var VisibilityEventType = events.NewEventType[thicket.VisibilityEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore returns an EntityStore that queues visibility events on
// world. They are delivered to subscribers on the next
// VisibilityEventType.ProcessEvents(world).
func NewDonburiStore(world donburi.World) thicket.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event thicket.VisibilityEvent) {
	VisibilityEventType.Publish(s.world, event)
}
