package panoroom

// Selection is the hover and selection state shared by the hover coordinator,
// the transition controller and the scene. It has a single owner (the Scene)
// and is passed by reference; there is no package-level instance.
type Selection struct {
	hovered  *Hotspot
	selected *Hotspot
}

// Hovered returns the hovered hotspot, or nil.
func (s *Selection) Hovered() *Hotspot {
	return s.hovered
}

// HoveredID returns the hovered hotspot's id, or "".
func (s *Selection) HoveredID() string {
	if s.hovered == nil {
		return ""
	}
	return s.hovered.ID
}

// Selected returns the focused hotspot, or nil.
func (s *Selection) Selected() *Hotspot {
	return s.selected
}

// SelectedID returns the focused hotspot's id, or "".
func (s *Selection) SelectedID() string {
	if s.selected == nil {
		return ""
	}
	return s.selected.ID
}

// ClearSelected drops the selection. Idempotent.
func (s *Selection) ClearSelected() {
	s.selected = nil
}

// PointerEvent is one pointer sample against one hotspot plane. UV is the
// plane's surface coordinate under the pointer, valid when HasUV is set.
type PointerEvent struct {
	X, Y     float64
	UV       Vec2
	HasUV    bool
	consumed bool
}

// Consume marks the event handled so planes further back ignore it.
func (e *PointerEvent) Consume() {
	e.consumed = true
}

// Consumed reports whether a nearer plane already handled the event.
func (e *PointerEvent) Consumed() bool {
	return e.consumed
}

// HoverCoordinator keeps at most one hotspot hovered.
type HoverCoordinator struct {
	sel *Selection

	// OnChange, if set, is called with the previous and new hovered
	// hotspot whenever hover changes. Either may be nil.
	OnChange func(prev, next *Hotspot)
}

// NewHoverCoordinator creates a coordinator over sel.
func NewHoverCoordinator(sel *Selection) *HoverCoordinator {
	if sel == nil {
		sel = &Selection{}
	}
	return &HoverCoordinator{sel: sel}
}

// Selection returns the state the coordinator writes.
func (c *HoverCoordinator) Selection() *Selection {
	return c.sel
}

// PointerMove handles a pointer sample over h. A hit makes h the hovered
// hotspot and consumes ev; a miss clears hover only if h held it.
// Consumed events are ignored. It reports whether h was hit.
func (c *HoverCoordinator) PointerMove(h *Hotspot, ev *PointerEvent) bool {
	if h == nil || ev == nil || ev.Consumed() {
		return false
	}
	hit := ev.HasUV && h.HitTest(ev.UV, c.sel.hovered == h)
	if hit {
		ev.Consume()
		if c.sel.hovered != h {
			c.set(h)
		}
		return true
	}
	if c.sel.hovered == h {
		c.set(nil)
	}
	return false
}

// PointerOut handles the pointer leaving h's plane entirely.
func (c *HoverCoordinator) PointerOut(h *Hotspot) {
	if h != nil && c.sel.hovered == h {
		c.set(nil)
	}
}

// Clear drops any hover. Idempotent.
func (c *HoverCoordinator) Clear() {
	if c.sel.hovered != nil {
		c.set(nil)
	}
}

func (c *HoverCoordinator) set(h *Hotspot) {
	prev := c.sel.hovered
	c.sel.hovered = h
	if c.OnChange != nil {
		c.OnChange(prev, h)
	}
}
