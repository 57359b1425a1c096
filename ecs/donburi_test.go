package ecs

import (
	"testing"

	"github.com/phanxgames/panoroom"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []panoroom.HotspotEvent
	HotspotEventType.Subscribe(world, func(w donburi.World, e panoroom.HotspotEvent) {
		received = append(received, e)
	})

	store.EmitEvent(panoroom.HotspotEvent{
		Type:      panoroom.EventHoverEnter,
		HotspotID: "btn_p_go",
		Wall:      panoroom.WallFront,
	})
	store.EmitEvent(panoroom.HotspotEvent{
		Type:      panoroom.EventFocusStart,
		HotspotID: "btn_w_sun",
		Wall:      panoroom.WallBack,
	})

	// Events are queued; process them.
	HotspotEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != panoroom.EventHoverEnter || e.HotspotID != "btn_p_go" || e.Wall != panoroom.WallFront {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != panoroom.EventFocusStart || e.Wall != panoroom.WallBack {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	world := donburi.NewWorld()
	var store panoroom.EntityStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	HotspotEventType.Subscribe(world, func(w donburi.World, e panoroom.HotspotEvent) {
		count1++
	})
	HotspotEventType.Subscribe(world, func(w donburi.World, e panoroom.HotspotEvent) {
		count2++
	})

	store.EmitEvent(panoroom.HotspotEvent{Type: panoroom.EventRestored})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestDonburiStore_SceneFocusEvents(t *testing.T) {
	scene, err := panoroom.NewScene(panoroom.DefaultConfig(), panoroom.DefaultHotspotTable())
	if err != nil {
		t.Fatal(err)
	}
	world := donburi.NewWorld()
	scene.SetEntityStore(NewDonburiStore(world))

	var types []panoroom.EventType
	HotspotEventType.Subscribe(world, func(w donburi.World, e panoroom.HotspotEvent) {
		types = append(types, e.Type)
	})

	done, ok := scene.Focus("btn_c_lamp")
	if !ok {
		t.Fatal("Focus rejected while idle")
	}
	for i := 0; i < 200 && !done.Completed(); i++ {
		scene.Controller().Update(1.0 / 60)
	}
	if !done.Completed() {
		t.Fatal("focus did not complete")
	}
	HotspotEventType.ProcessEvents(world)

	want := []panoroom.EventType{panoroom.EventFocusStart, panoroom.EventFocused}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}
