package panoroom

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const defaultDragDeadZone = 4.0 // pixels

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	pressHit *Hotspot   // hotspot under the pointer at press time
	dragging bool
	button   MouseButton // button captured at press time
}

// reset forgets any press in progress. The next release is ignored.
func (ps *pointerState) reset() {
	ps.down = false
	ps.pressHit = nil
	ps.dragging = false
}

// processInput handles one frame of keyboard and pointer input. Injected
// pointer events take the place of the mouse for the frame they are consumed.
// Devices are polled only when the scene runs inside the game loop.
func (s *Scene) processInput() {
	s.processKeys()
	if s.processInjectedInput() {
		return
	}
	if !s.realInput {
		return
	}
	s.processMousePointer()
	if _, wy := ebiten.Wheel(); wy != 0 {
		s.zoom(wy)
	}
}

// processKeys maps Escape to Dismiss.
func (s *Scene) processKeys() {
	escape := false
	for _, k := range s.keyQueue {
		if k == ebiten.KeyEscape {
			escape = true
		}
	}
	s.keyQueue = s.keyQueue[:0]
	if s.realInput && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		escape = true
	}
	if escape {
		s.Dismiss()
	}
}

// processMousePointer reads the mouse and feeds it through processPointer.
func (s *Scene) processMousePointer() {
	mx, my := ebiten.CursorPosition()

	// If the pointer is already down, keep the stored button.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}

	s.processPointer(float64(mx), float64(my), pressed, button)
}

// zoom applies wheel steps to the orbit while it is enabled.
func (s *Scene) zoom(steps float64) {
	if s.controller.OrbitEnabled() {
		s.orbit.Zoom(steps)
	}
}

// processPointer runs the pointer state machine. While the camera is not
// idle the room ignores the pointer entirely.
func (s *Scene) processPointer(sx, sy float64, pressed bool, button MouseButton) {
	ps := &s.pointer

	if !s.controller.OrbitEnabled() {
		ps.reset()
		ps.lastX, ps.lastY = sx, sy
		return
	}

	switch {
	case pressed && !ps.down:
		target := s.dispatchHover(sx, sy)
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = sx, sy
		ps.lastX, ps.lastY = sx, sy
		ps.pressHit = target
		ps.dragging = false

	case !pressed && ps.down:
		target := s.dispatchHover(sx, sy)
		click := !ps.dragging && ps.button == MouseButtonLeft &&
			ps.pressHit != nil && ps.pressHit == target
		ps.reset()
		ps.lastX, ps.lastY = sx, sy
		if click {
			s.focus(target)
		}

	case pressed && ps.down:
		if sx == ps.lastX && sy == ps.lastY {
			return
		}
		if !ps.dragging {
			dx, dy := sx-ps.startX, sy-ps.startY
			if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
				ps.dragging = true
				s.hover.Clear()
			}
		}
		if ps.dragging {
			dx, dy := sx-ps.lastX, sy-ps.lastY
			if ps.button == MouseButtonLeft {
				s.orbit.Rotate(dx, dy)
			} else {
				s.orbit.Pan(dx, dy)
			}
		}
		ps.lastX, ps.lastY = sx, sy

	default:
		// Hover move.
		if sx != ps.lastX || sy != ps.lastY || s.sel.Hovered() == nil {
			s.dispatchHover(sx, sy)
			ps.lastX, ps.lastY = sx, sy
		}
	}
}

// dispatchHover runs the hover coordinator over every hotspot plane under
// (sx, sy), nearest first, and returns the hotspot that took the event.
// A hovered hotspot no longer under the pointer loses hover.
func (s *Scene) dispatchHover(sx, sy float64) *Hotspot {
	s.hitBuf = Pick(s.camera, s.registry.All(), sx, sy, s.hitBuf)

	ev := PointerEvent{X: sx, Y: sy}
	var taken *Hotspot
	under := false
	hovered := s.sel.Hovered()
	for _, hit := range s.hitBuf {
		if hit.Hotspot == hovered {
			under = true
		}
		ev.UV, ev.HasUV = hit.UV, true
		if s.hover.PointerMove(hit.Hotspot, &ev) && taken == nil {
			taken = hit.Hotspot
		}
	}
	if hovered != nil && !under {
		s.hover.PointerOut(hovered)
	}
	return taken
}
