package panoroom

import "github.com/hajimehoshi/ebiten/v2"

// syntheticPointerEvent is one queued pointer sample in screen coordinates.
// A nonzero wheel makes it a scroll at that position instead.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
	wheel            float64
}

func (s *Scene) queuePointer(x, y float64, pressed bool) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x,
		screenY: y,
		pressed: pressed,
		button:  MouseButtonLeft,
	})
}

// InjectHover queues a pointer move with no button held.
func (s *Scene) InjectHover(x, y float64) { s.queuePointer(x, y, false) }

// InjectPress queues a left-button press. Each queued event takes one frame.
func (s *Scene) InjectPress(x, y float64) { s.queuePointer(x, y, true) }

// InjectMove queues a move with the left button held.
func (s *Scene) InjectMove(x, y float64) { s.queuePointer(x, y, true) }

// InjectRelease queues a left-button release.
func (s *Scene) InjectRelease(x, y float64) { s.queuePointer(x, y, false) }

// InjectClick queues a press and a release at the same point.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at the start, evenly spaced held moves, and a
// release at the end, frames events in total (at least 2).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	s.InjectPress(fromX, fromY)
	for i := 1; i < frames-1; i++ {
		t := float64(i) / float64(frames-1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectWheel queues a scroll of dy wheel steps at the pointer's last
// position. Positive steps zoom in.
func (s *Scene) InjectWheel(dy float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: s.pointer.lastX,
		screenY: s.pointer.lastY,
		wheel:   dy,
	})
}

// InjectKey queues a key press handled on the next frame.
func (s *Scene) InjectKey(key ebiten.Key) {
	s.keyQueue = append(s.keyQueue, key)
}

// processInjectedInput handles the oldest queued pointer event and reports
// whether there was one. Real devices are skipped on frames that return true.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	s.injectQueue = append(s.injectQueue[:0], s.injectQueue[1:]...)

	if evt.wheel != 0 {
		s.zoom(evt.wheel)
	} else {
		s.processPointer(evt.screenX, evt.screenY, evt.pressed, evt.button)
	}
	return true
}
