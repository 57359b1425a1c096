package panoroom

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, hotspot events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event HotspotEvent)
}

// HotspotEvent carries a hover or camera event for the ECS bridge.
type HotspotEvent struct {
	Type      EventType
	HotspotID string
	Wall      Wall
}

func (t EventType) String() string {
	switch t {
	case EventHoverEnter:
		return "hover-enter"
	case EventHoverLeave:
		return "hover-leave"
	case EventFocusStart:
		return "focus-start"
	case EventFocused:
		return "focused"
	case EventRestoreStart:
		return "restore-start"
	case EventRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// emit forwards an event to the entity store, if any.
func (s *Scene) emit(t EventType, h *Hotspot) {
	if s.store == nil {
		return
	}
	ev := HotspotEvent{Type: t}
	if h != nil {
		ev.HotspotID = h.ID
		ev.Wall = h.Wall
	}
	s.store.EmitEvent(ev)
}
