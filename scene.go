package panoroom

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Default viewport until the window reports its size.
const (
	defaultViewportW = 1280
	defaultViewportH = 720
)

// Scene is the top-level object that owns the room, its hotspots, the camera
// and every piece of interaction state. All mutation happens on the game
// thread inside Update; asset goroutines only hand results over.
type Scene struct {
	cfg      Config
	room     Room
	registry *Registry
	camera   *Camera
	orbit    *Orbit

	sel        *Selection
	hover      *HoverCoordinator
	controller *Controller
	loader     *Loader

	store EntityStore
	debug bool

	// ClearColor fills the screen before the room is drawn.
	ClearColor Color
	// ShowHUD prints camera state and hover info in the top-left corner.
	ShowHUD bool

	wallTextures [len(Walls)]*ebiten.Image

	// Input state
	pointer      pointerState
	hitBuf       []Hit
	dragDeadZone float64
	realInput    bool
	injectQueue  []syntheticPointerEvent
	keyQueue     []ebiten.Key
	testRunner   *TestRunner

	// Screenshots
	screenshotQueue []string
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string
	// ScreenshotFormat is "png" (default) or "webp".
	ScreenshotFormat string

	// Render buffers
	verts   []ebiten.Vertex
	indices []uint32

	updateFunc    func() error
	onSelect      func(id string)
	onRestore     func()
	onHoverChange func(prev, next string)
}

// NewScene builds the room, hotspot registry and camera described by cfg and
// table. Assets are not loaded until LoadAssets is called.
func NewScene(cfg Config, table HotspotTable) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}
	registry, err := NewRegistry(cfg.Mapper(), table)
	if err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}

	cam := newCamera(cfg.InitialPose(), Rect{Width: defaultViewportW, Height: defaultViewportH})
	sel := &Selection{}
	s := &Scene{
		cfg:              cfg,
		room:             cfg.Room(),
		registry:         registry,
		camera:           cam,
		orbit:            NewOrbit(cfg.orbitConfig(), cam),
		sel:              sel,
		hover:            NewHoverCoordinator(sel),
		controller:       NewController(cfg.transitionConfig(), cam, sel),
		loader:           NewLoader(cfg.Assets, nil),
		ClearColor:       Color{A: 1},
		dragDeadZone:     cfg.DragDeadZone,
		ScreenshotDir:    "screenshots",
		ScreenshotFormat: "png",
	}
	s.hover.OnChange = s.hoverChanged
	return s, nil
}

// Config returns the scene's configuration.
func (s *Scene) Config() Config {
	return s.cfg
}

// Room returns the room box.
func (s *Scene) Room() Room {
	return s.room
}

// Registry returns the hotspot registry.
func (s *Scene) Registry() *Registry {
	return s.registry
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Orbit returns the orbit controls.
func (s *Scene) Orbit() *Orbit {
	return s.orbit
}

// Controller returns the camera transition controller.
func (s *Scene) Controller() *Controller {
	return s.controller
}

// Selection returns the hover and selection state.
func (s *Scene) Selection() *Selection {
	return s.sel
}

// Loader returns the asset loader.
func (s *Scene) Loader() *Loader {
	return s.loader
}

// SetLoader replaces the asset loader, e.g. with one using a custom Fetcher.
func (s *Scene) SetLoader(l *Loader) {
	s.loader = l
}

// SetViewport resizes the camera viewport.
func (s *Scene) SetViewport(width, height int) {
	s.camera.Viewport = Rect{Width: float64(width), Height: float64(height)}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetUpdateFunc sets a callback run at the end of every Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetDebugMode enables or disables debug mode. When enabled, state changes,
// ignored requests, fetch retries and per-frame draw stats are logged to
// stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// OnSelect registers the callback that reveals content once the camera has
// arrived at a hotspot.
func (s *Scene) OnSelect(fn func(id string)) {
	s.onSelect = fn
}

// OnRestore registers a callback run once the camera is back in the overview.
func (s *Scene) OnRestore(fn func()) {
	s.onRestore = fn
}

// OnHoverChange registers a callback run when the hovered hotspot changes.
// Ids are "" for none.
func (s *Scene) OnHoverChange(fn func(prev, next string)) {
	s.onHoverChange = fn
}

func (s *Scene) hoverChanged(prev, next *Hotspot) {
	if prev != nil {
		s.emit(EventHoverLeave, prev)
	}
	if next != nil {
		s.emit(EventHoverEnter, next)
	}
	if s.onHoverChange != nil {
		s.onHoverChange(hotspotName(prev), hotspotName(next))
	}
}

func hotspotName(h *Hotspot) string {
	if h == nil {
		return ""
	}
	return h.ID
}

// LoadAssets starts loading every wall texture and hotspot overlay in the
// background. Results are applied by Update as they arrive.
func (s *Scene) LoadAssets(ctx context.Context) {
	for _, w := range Walls {
		if name := s.cfg.Assets.WallTextures[w]; name != "" {
			s.loader.Start(ctx, AssetRequest{Kind: AssetWall, Wall: w, Name: name})
		}
	}
	for _, h := range s.registry.All() {
		if h.Image != "" {
			s.loader.Start(ctx, AssetRequest{Kind: AssetHotspot, HotspotID: h.ID, Wall: h.Wall, Name: h.Image})
		}
		if h.HoverImage != "" {
			s.loader.Start(ctx, AssetRequest{Kind: AssetHotspotHover, HotspotID: h.ID, Wall: h.Wall, Name: h.HoverImage})
		}
	}
}

// applyAsset installs a finished load. Failed loads leave the hotspot or
// wall as it was.
func (s *Scene) applyAsset(res AssetResult) {
	if res.Err != nil {
		warnf("load %s %s: %v", res.Kind, res.Name, res.Err)
		return
	}
	var tex *ebiten.Image
	if res.Image != nil {
		tex = ebiten.NewImageFromImage(res.Image)
	}
	if res.Kind == AssetWall {
		if res.Wall.Valid() && tex != nil {
			s.wallTextures[res.Wall] = tex
		}
		return
	}
	h, ok := s.registry.Hotspot(res.HotspotID)
	if !ok {
		return
	}
	switch res.Kind {
	case AssetHotspot:
		h.SetAlpha(res.Alpha, nil)
		if tex != nil {
			h.texture = tex
		}
	case AssetHotspotHover:
		h.SetAlpha(nil, res.Alpha)
		if tex != nil {
			h.hoverTexture = tex
		}
	}
	if s.debug {
		logf("loaded %s %s", res.Kind, res.Name)
	}
}

// Focus starts the close-up transition to the hotspot with the given id. It
// reports false when the id is unknown or the camera is not idle.
func (s *Scene) Focus(id string) (*Completion, bool) {
	h, ok := s.registry.Hotspot(id)
	if !ok {
		return nil, false
	}
	return s.focus(h)
}

func (s *Scene) focus(h *Hotspot) (*Completion, bool) {
	done, ok := s.controller.Focus(h, func(id string) {
		s.emit(EventFocused, h)
		if s.onSelect != nil {
			s.onSelect(id)
		}
	})
	if !ok {
		return nil, false
	}
	s.hover.Clear()
	s.pointer.reset()
	s.emit(EventFocusStart, h)
	return done, true
}

// Dismiss closes the focused view and restores the overview camera. It is a
// no-op unless a hotspot is focused.
func (s *Scene) Dismiss() (*Completion, bool) {
	selected := s.sel.Selected()
	done, ok := s.controller.Restore(func() {
		s.emit(EventRestored, selected)
		if s.onRestore != nil {
			s.onRestore()
		}
	})
	if ok {
		s.emit(EventRestoreStart, selected)
	}
	return done, ok
}

// Update advances the scene by one tick at the current TPS.
func (s *Scene) Update() error {
	return s.update(float32(1.0 / float64(ebiten.TPS())))
}

// update drains finished asset loads, delivers completions and advances the
// camera transition, then processes input.
func (s *Scene) update(dt float32) error {
	for _, res := range s.loader.Poll() {
		s.applyAsset(res)
	}
	s.controller.Update(dt)
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}
