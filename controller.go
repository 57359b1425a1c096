package panoroom

import (
	"github.com/golang/geo/r3"
	"github.com/tanema/gween/ease"
)

// ViewStack holds at most one saved camera pose: the view to return to after
// a focus. It is non-empty only while a hotspot is focused.
type ViewStack struct {
	saved CameraPose
	full  bool
}

// Push saves p, replacing any pose already held.
func (s *ViewStack) Push(p CameraPose) {
	s.saved = p
	s.full = true
}

// Peek returns the saved pose without removing it.
func (s *ViewStack) Peek() (CameraPose, bool) {
	return s.saved, s.full
}

// Clear empties the stack. Clearing an empty stack is a no-op.
func (s *ViewStack) Clear() {
	s.saved = CameraPose{}
	s.full = false
}

// Len returns 0 or 1.
func (s *ViewStack) Len() int {
	if s.full {
		return 1
	}
	return 0
}

// Completion is closed once a focus or restore transition has finished and
// its callback has run. It is delivered on the tick after the controller
// reaches its terminal state.
type Completion struct {
	ch chan struct{}
}

func newCompletion() *Completion {
	return &Completion{ch: make(chan struct{})}
}

// Done returns a channel that is closed when the transition completes.
func (c *Completion) Done() <-chan struct{} {
	return c.ch
}

// Completed reports whether the transition has completed, without blocking.
func (c *Completion) Completed() bool {
	select {
	case <-c.ch:
		return true
	default:
		return false
	}
}

// TransitionConfig tunes the camera transitions.
type TransitionConfig struct {
	// MinDistance is how far in front of a hotspot the focused camera sits.
	MinDistance float64
	// RestoreDistance is how far from the saved target the restored camera
	// sits along the saved view direction.
	RestoreDistance float64
	// FocusedFOV is the vertical field of view while focused, in degrees.
	FocusedFOV float64
	// Duration is the tween length in seconds.
	Duration float32
	// Ease is the tween curve. Nil means ease.InOutCubic.
	Ease ease.TweenFunc
}

// Controller is the camera transition state machine. Focus is accepted only
// from Idle and Restore only from Focused; anything else is silently ignored.
// Exactly one transition runs at a time and it always runs to completion.
type Controller struct {
	cfg    TransitionConfig
	camera *Camera
	sel    *Selection
	state  State
	stack  ViewStack

	tween  *Transition
	finish func()

	// pending holds completions that fire at the start of the next Update.
	pending []func()

	// OnStateChange, if set, is called on every state change.
	OnStateChange func(from, to State)
}

// NewController creates an Idle controller driving camera. sel is the shared
// hover/selection state; the controller clears its selection on restore.
func NewController(cfg TransitionConfig, camera *Camera, sel *Selection) *Controller {
	if cfg.Ease == nil {
		cfg.Ease = ease.InOutCubic
	}
	if sel == nil {
		sel = &Selection{}
	}
	return &Controller{cfg: cfg, camera: camera, sel: sel}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// OrbitEnabled reports whether user orbit controls may move the camera.
func (c *Controller) OrbitEnabled() bool {
	return c.state == StateIdle
}

// Stack returns the view stack. Callers must not mutate it.
func (c *Controller) Stack() *ViewStack {
	return &c.stack
}

// Selection returns the shared selection state.
func (c *Controller) Selection() *Selection {
	return c.sel
}

// FocusPose returns the close-up pose for h: looking at the hotspot center
// from MinDistance along its wall's inward normal.
func (c *Controller) FocusPose(h *Hotspot) CameraPose {
	target := h.WorldPosition()
	return CameraPose{
		Position: target.Add(h.Frame().Normal.Mul(c.cfg.MinDistance)),
		Target:   target,
		FOV:      c.cfg.FocusedFOV,
	}
}

// RestorePose returns the zoomed-out pose for saved: same target and FOV,
// with the camera pushed back to RestoreDistance along the saved view
// direction.
func (c *Controller) RestorePose(saved CameraPose) CameraPose {
	dir := saved.Position.Sub(saved.Target)
	if dir.Norm2() == 0 {
		dir = r3.Vector{X: 0, Y: 0, Z: 1}
	}
	return CameraPose{
		Position: saved.Target.Add(dir.Normalize().Mul(c.cfg.RestoreDistance)),
		Target:   saved.Target,
		FOV:      saved.FOV,
	}
}

// Focus saves the current pose and starts the transition to h. onComplete,
// if non-nil, receives h's id once the camera has arrived. ok is false and
// nothing happens unless the controller is Idle.
func (c *Controller) Focus(h *Hotspot, onComplete func(id string)) (done *Completion, ok bool) {
	if h == nil || c.state != StateIdle {
		if globalDebug {
			logf("focus %v ignored in state %s", hotspotID(h), c.state)
		}
		return nil, false
	}
	c.stack.Push(c.camera.Pose)
	done = newCompletion()
	c.start(c.FocusPose(h), func() {
		c.sel.selected = h
		c.setState(StateFocused)
		c.deliver(done, func() {
			if onComplete != nil {
				onComplete(h.ID)
			}
		})
	})
	return done, true
}

// Restore starts the transition back to the saved view. onComplete, if
// non-nil, runs once the camera is back and the controller is Idle. ok is
// false and nothing happens unless the controller is Focused. A focus
// completion still waiting for the next tick is delivered first.
func (c *Controller) Restore(onComplete func()) (done *Completion, ok bool) {
	if c.state != StateFocused {
		if globalDebug {
			logf("restore ignored in state %s", c.state)
		}
		return nil, false
	}
	c.flushPending()
	dest := c.camera.Pose
	if saved, full := c.stack.Peek(); full {
		dest = c.RestorePose(saved)
	} else {
		warnf("restore with empty view stack, holding current pose")
	}
	done = newCompletion()
	c.start(dest, func() {
		c.stack.Clear()
		c.sel.ClearSelected()
		c.setState(StateIdle)
		c.deliver(done, onComplete)
	})
	return done, true
}

func (c *Controller) start(dest CameraPose, finish func()) {
	c.tween = TweenPose(&c.camera.Pose, dest, c.cfg.Duration, c.cfg.Ease)
	c.finish = finish
	c.setState(StateAnimating)
}

func (c *Controller) deliver(done *Completion, fn func()) {
	c.pending = append(c.pending, func() {
		if fn != nil {
			fn()
		}
		close(done.ch)
	})
}

// Update delivers completions queued on the previous tick, then advances the
// running transition by dt seconds.
func (c *Controller) Update(dt float32) {
	c.flushPending()
	if c.tween == nil {
		return
	}
	c.tween.Update(dt)
	if !c.tween.Done {
		return
	}
	finish := c.finish
	c.tween, c.finish = nil, nil
	finish()
}

func (c *Controller) flushPending() {
	pending := c.pending
	c.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func (c *Controller) setState(s State) {
	if s == c.state {
		return
	}
	from := c.state
	c.state = s
	if globalDebug {
		logf("camera %s -> %s", from, s)
	}
	if c.OnStateChange != nil {
		c.OnStateChange(from, s)
	}
}

func hotspotID(h *Hotspot) string {
	if h == nil {
		return "<nil>"
	}
	return h.ID
}
