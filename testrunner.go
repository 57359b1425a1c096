package panoroom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// scriptStep is one entry of a test script. Which fields matter depends on
// Action.
type scriptStep struct {
	Action string `json:"action"`
	// Hotspot names the target of focus, and of move or click in place of
	// X and Y (its projected center).
	Hotspot string  `json:"hotspot,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	FromX   float64 `json:"fromX,omitempty"`
	FromY   float64 `json:"fromY,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	Frames  int     `json:"frames,omitempty"`
	Delta   float64 `json:"delta,omitempty"`
	Key     string  `json:"key,omitempty"`
	Label   string  `json:"label,omitempty"`
}

var scriptActions = map[string]bool{
	"screenshot": true, "move": true, "click": true, "drag": true,
	"wheel": true, "key": true, "dismiss": true, "focus": true,
	"wait": true, "wait_idle": true,
}

var scriptKeys = map[string]ebiten.Key{
	"escape": ebiten.KeyEscape,
	"esc":    ebiten.KeyEscape,
	"enter":  ebiten.KeyEnter,
	"space":  ebiten.KeySpace,
}

func parseKey(name string) (ebiten.Key, bool) {
	k, ok := scriptKeys[strings.ToLower(name)]
	return k, ok
}

// TestRunner plays a scripted visit one frame at a time: injected pointer
// and key input, focus and dismiss calls, waits and screenshots.
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	waitIdle  bool
	done      bool
}

// LoadTestScript parses {"steps": [...]} and checks every action and key
// name up front.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if _, ok := parseKey(st.Key); st.Action == "key" && !ok {
			return nil, fmt.Errorf("parse test script: step %d: unknown key %q", i, st.Key)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches runner; Update steps it after the camera and
// before input.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether the script has finished.
func (r *TestRunner) Done() bool {
	return r.done
}

// aim returns the screen point a step targets.
func (r *TestRunner) aim(s *Scene, st scriptStep) (float64, float64) {
	if st.Hotspot == "" {
		return st.X, st.Y
	}
	h, ok := s.registry.Hotspot(st.Hotspot)
	if !ok {
		warnf("test script: unknown hotspot %q", st.Hotspot)
		return st.X, st.Y
	}
	x, y, visible := s.camera.WorldToScreen(h.WorldPosition())
	if !visible {
		warnf("test script: hotspot %q is behind the camera", st.Hotspot)
	}
	return x, y
}

// busy reports whether the previous step is still in progress: queued input
// not yet consumed, a frame wait, or a running transition.
func (r *TestRunner) busy(s *Scene) bool {
	if len(s.injectQueue) > 0 || len(s.keyQueue) > 0 {
		return true
	}
	if r.waitCount > 0 {
		r.waitCount--
		return true
	}
	if r.waitIdle && s.controller.State() == StateAnimating {
		return true
	}
	r.waitIdle = false
	return false
}

func (r *TestRunner) step(s *Scene) {
	if r.done || r.busy(s) {
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}
	st := r.steps[r.cursor]
	r.cursor++
	r.run(s, st)

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.waitIdle &&
		len(s.injectQueue) == 0 && len(s.keyQueue) == 0 {
		r.done = true
	}
}

func (r *TestRunner) run(s *Scene, st scriptStep) {
	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "move":
		s.InjectHover(r.aim(s, st))
	case "click":
		s.InjectClick(r.aim(s, st))
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		s.InjectWheel(st.Delta)
	case "key":
		if k, ok := parseKey(st.Key); ok {
			s.InjectKey(k)
		}
	case "dismiss":
		s.Dismiss()
	case "focus":
		s.Focus(st.Hotspot)
	case "wait":
		// The current frame is the first waited one.
		r.waitCount = max(st.Frames-1, 0)
	case "wait_idle":
		r.waitIdle = true
	}
}
