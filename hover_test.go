package panoroom

import "testing"

// hoverRig builds two overlapping full-wall hotspots on the front wall, both
// with opaque alpha unless overridden.
func hoverRig(t *testing.T) (*HoverCoordinator, *Hotspot, *Hotspot) {
	t.Helper()
	reg, err := NewRegistry(exhibitionMapper(), HotspotTable{
		WallFront: {{ID: "back"}, {ID: "front"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := reg.Hotspot("back")
	b, _ := reg.Hotspot("front")
	a.SetAlpha(NewAlphaBuffer(solidAlpha(4, 4, 255)), nil)
	b.SetAlpha(NewAlphaBuffer(solidAlpha(4, 4, 255)), nil)
	return NewHoverCoordinator(&Selection{}), a, b
}

func over() *PointerEvent {
	return &PointerEvent{UV: Vec2{X: 0.5, Y: 0.5}, HasUV: true}
}

func TestHoverHitSetsAndConsumes(t *testing.T) {
	hc, a, _ := hoverRig(t)
	ev := over()
	if !hc.PointerMove(a, ev) {
		t.Fatal("opaque hotspot not hit")
	}
	if !ev.Consumed() {
		t.Error("hit should consume the event")
	}
	if hc.Selection().Hovered() != a {
		t.Errorf("hovered = %q, want %q", hc.Selection().HoveredID(), a.ID)
	}
}

func TestHoverConsumedEventIgnored(t *testing.T) {
	hc, a, b := hoverRig(t)
	ev := over()
	hc.PointerMove(b, ev)
	if hc.PointerMove(a, ev) {
		t.Error("consumed event reached a plane further back")
	}
	if hc.Selection().Hovered() != b {
		t.Errorf("hovered = %q, want %q", hc.Selection().HoveredID(), b.ID)
	}
}

func TestHoverExclusive(t *testing.T) {
	hc, a, b := hoverRig(t)
	var changes [][2]string
	hc.OnChange = func(prev, next *Hotspot) {
		id := func(h *Hotspot) string {
			if h == nil {
				return ""
			}
			return h.ID
		}
		changes = append(changes, [2]string{id(prev), id(next)})
	}

	hc.PointerMove(a, over())
	hc.PointerMove(b, over())

	if hc.Selection().Hovered() != b {
		t.Errorf("hovered = %q, want %q", hc.Selection().HoveredID(), b.ID)
	}
	want := [][2]string{{"", "back"}, {"back", "front"}}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d = %v, want %v", i, changes[i], want[i])
		}
	}
}

func TestHoverRepeatHitNoChange(t *testing.T) {
	hc, a, _ := hoverRig(t)
	calls := 0
	hc.OnChange = func(prev, next *Hotspot) { calls++ }
	hc.PointerMove(a, over())
	hc.PointerMove(a, over())
	if calls != 1 {
		t.Errorf("OnChange called %d times, want 1", calls)
	}
}

func TestHoverMissClearsOnlyOwner(t *testing.T) {
	hc, a, b := hoverRig(t)
	hc.PointerMove(a, over())

	// b misses: a keeps hover.
	hc.PointerMove(b, &PointerEvent{})
	if hc.Selection().Hovered() != a {
		t.Fatalf("miss on another plane cleared hover")
	}

	// a misses: hover cleared.
	hc.PointerMove(a, &PointerEvent{})
	if hc.Selection().Hovered() != nil {
		t.Errorf("hovered = %q, want none", hc.Selection().HoveredID())
	}
}

func TestHoverTransparentPixelMisses(t *testing.T) {
	hc, a, _ := hoverRig(t)
	a.SetAlpha(NewAlphaBuffer(solidAlpha(4, 4, 12)), nil)
	ev := over()
	if hc.PointerMove(a, ev) {
		t.Error("near-transparent pixel reported a hit")
	}
	if ev.Consumed() {
		t.Error("miss should not consume the event")
	}
}

func TestHoverPointerOut(t *testing.T) {
	hc, a, b := hoverRig(t)
	hc.PointerMove(a, over())

	hc.PointerOut(b)
	if hc.Selection().Hovered() != a {
		t.Fatal("PointerOut on a non-owner cleared hover")
	}
	hc.PointerOut(a)
	if hc.Selection().Hovered() != nil {
		t.Error("PointerOut on the owner should clear hover")
	}
	// idempotent
	hc.PointerOut(a)
	hc.Clear()
}

func TestHoverNotReadyNeverHits(t *testing.T) {
	reg, err := NewRegistry(exhibitionMapper(), HotspotTable{WallFront: {{ID: "x"}}})
	if err != nil {
		t.Fatal(err)
	}
	h, _ := reg.Hotspot("x")
	hc := NewHoverCoordinator(nil)
	if hc.PointerMove(h, over()) {
		t.Error("hotspot without alpha data reported a hit")
	}
}

func TestSelectionClearSelected(t *testing.T) {
	sel := &Selection{}
	if sel.SelectedID() != "" || sel.HoveredID() != "" {
		t.Fatal("zero Selection should be empty")
	}
	sel.selected = &Hotspot{ID: "x"}
	sel.ClearSelected()
	sel.ClearSelected()
	if sel.Selected() != nil {
		t.Error("ClearSelected left a selection")
	}
}
