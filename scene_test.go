package panoroom

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// mockStore records every event the scene emits.
type mockStore struct {
	events []HotspotEvent
}

func (m *mockStore) EmitEvent(e HotspotEvent) {
	m.events = append(m.events, e)
}

func (m *mockStore) types() []EventType {
	out := make([]EventType, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

// testTable puts two small opaque hotspots on the front wall under a
// transparent full-wall plane stacked above both.
func testTable() HotspotTable {
	return HotspotTable{
		WallFront: {
			{ID: "left", Image: "left.png", Box: &BBox{MinX: 200, MinY: 700, Width: 400, Height: 400}},
			{ID: "right", Image: "right.png", Box: &BBox{MinX: 1400, MinY: 700, Width: 400, Height: 400}},
			{ID: "glass", Image: "glass.png"},
		},
	}
}

// newTestScene builds a scene over testTable with alpha data installed, as
// if every asset had loaded.
func newTestScene(t *testing.T) (*Scene, *mockStore) {
	t.Helper()
	s, err := NewScene(DefaultConfig(), testTable())
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	for _, id := range []string{"left", "right"} {
		h, _ := s.Registry().Hotspot(id)
		h.SetAlpha(NewAlphaBuffer(solidAlpha(4, 4, 255)), nil)
	}
	glass, _ := s.Registry().Hotspot("glass")
	glass.SetAlpha(NewAlphaBuffer(solidAlpha(4, 4, 0)), nil)

	store := &mockStore{}
	s.SetEntityStore(store)
	return s, store
}

// screenPos returns the projected center of hotspot id.
func screenPos(t *testing.T, s *Scene, id string) (float64, float64) {
	t.Helper()
	h, ok := s.Registry().Hotspot(id)
	if !ok {
		t.Fatalf("unknown hotspot %q", id)
	}
	x, y, visible := s.Camera().WorldToScreen(h.WorldPosition())
	if !visible {
		t.Fatalf("hotspot %q not visible", id)
	}
	return x, y
}

// runFrames advances the scene n ticks.
func runFrames(t *testing.T, s *Scene, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.update(tick); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
}

// runUntilSettled ticks until the controller settles in a non-animating state
// and its completion has been delivered.
func runUntilSettled(t *testing.T, s *Scene) {
	t.Helper()
	for i := 0; s.Controller().State() == StateAnimating; i++ {
		if i > 1000 {
			t.Fatal("transition never finished")
		}
		runFrames(t, s, 1)
	}
	runFrames(t, s, 1)
}

func TestNewScene(t *testing.T) {
	s, err := NewScene(DefaultConfig(), DefaultHotspotTable())
	if err != nil {
		t.Fatal(err)
	}
	if s.Registry().Len() != 19 {
		t.Errorf("hotspots = %d, want 19", s.Registry().Len())
	}
	if s.Controller().State() != StateIdle {
		t.Errorf("state = %s, want idle", s.Controller().State())
	}
	if s.ScreenshotDir != "screenshots" || s.ScreenshotFormat != "png" {
		t.Errorf("screenshot defaults = %q, %q", s.ScreenshotDir, s.ScreenshotFormat)
	}
	// The overview pose starts clamped inside the orbit range.
	if d := s.Camera().Pose.Distance(); d > s.Config().MaxDistance+1e-9 {
		t.Errorf("camera distance %f beyond max %f", d, s.Config().MaxDistance)
	}
	if s.Room() != s.Config().Room() {
		t.Error("Room does not match the config")
	}
}

func TestNewSceneErrors(t *testing.T) {
	bad := DefaultConfig()
	bad.FOV = 0
	if _, err := NewScene(bad, DefaultHotspotTable()); err == nil {
		t.Error("invalid config accepted")
	}
	dup := HotspotTable{WallFront: {{ID: "a"}, {ID: "a"}}}
	if _, err := NewScene(DefaultConfig(), dup); !errors.Is(err, ErrDuplicateHotspot) {
		t.Errorf("err = %v, want ErrDuplicateHotspot", err)
	}
}

func TestSceneSetEntityStore(t *testing.T) {
	s, _ := newTestScene(t)
	s.SetEntityStore(nil) // should not panic
	if s.store != nil {
		t.Error("store should be nil")
	}
	s.emit(EventHoverEnter, nil)
}

func TestSceneSetDebugMode(t *testing.T) {
	s, _ := newTestScene(t)
	s.SetDebugMode(true)
	if !s.debug || !globalDebug {
		t.Error("debug should be true")
	}
	s.SetDebugMode(false)
	if s.debug || globalDebug {
		t.Error("debug should be false")
	}
}

func TestSceneSetViewport(t *testing.T) {
	s, _ := newTestScene(t)
	s.SetViewport(640, 480)
	if v := s.Camera().Viewport; v.Width != 640 || v.Height != 480 {
		t.Errorf("viewport = %v", v)
	}
}

func TestSceneFocusUnknownID(t *testing.T) {
	s, store := newTestScene(t)
	if done, ok := s.Focus("nope"); ok || done != nil {
		t.Error("Focus accepted an unknown id")
	}
	if len(store.events) != 0 {
		t.Errorf("events = %v, want none", store.types())
	}
}

func TestSceneFocusAndDismiss(t *testing.T) {
	s, store := newTestScene(t)
	var selected []string
	restored := 0
	s.OnSelect(func(id string) { selected = append(selected, id) })
	s.OnRestore(func() { restored++ })

	if _, ok := s.Focus("right"); !ok {
		t.Fatal("Focus rejected")
	}
	runUntilSettled(t, s)
	if len(selected) != 1 || selected[0] != "right" {
		t.Errorf("selected = %v, want [right]", selected)
	}
	if s.Selection().SelectedID() != "right" {
		t.Errorf("SelectedID = %q", s.Selection().SelectedID())
	}

	if _, ok := s.Dismiss(); !ok {
		t.Fatal("Dismiss rejected while focused")
	}
	runUntilSettled(t, s)
	if restored != 1 {
		t.Errorf("restore callbacks = %d, want 1", restored)
	}
	if s.Selection().Selected() != nil {
		t.Error("selection survived the restore")
	}

	want := []EventType{EventFocusStart, EventFocused, EventRestoreStart, EventRestored}
	got := store.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
		if store.events[i].HotspotID != "right" || store.events[i].Wall != WallFront {
			t.Errorf("event %d = %+v", i, store.events[i])
		}
	}
}

// Escape on the frame the camera lands delivers the focus before the
// restore starts.
func TestSceneDismissOnLandingFrame(t *testing.T) {
	s, store := newTestScene(t)
	var calls []string
	s.OnSelect(func(id string) { calls = append(calls, "select "+id) })
	s.OnRestore(func() { calls = append(calls, "restore") })
	s.Controller().OnStateChange = func(from, to State) {
		if to == StateFocused {
			s.InjectKey(ebiten.KeyEscape)
		}
	}

	if _, ok := s.Focus("right"); !ok {
		t.Fatal("Focus rejected")
	}
	runUntilSettled(t, s)

	if s.Controller().State() != StateIdle {
		t.Fatalf("state = %s, want idle", s.Controller().State())
	}
	want := []EventType{EventFocusStart, EventFocused, EventRestoreStart, EventRestored}
	got := store.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
	if len(calls) != 2 || calls[0] != "select right" || calls[1] != "restore" {
		t.Errorf("callbacks = %v, want [select right restore]", calls)
	}
	if s.Selection().Selected() != nil {
		t.Error("selection survived the restore")
	}
}

func TestSceneDismissWhileIdle(t *testing.T) {
	s, store := newTestScene(t)
	if _, ok := s.Dismiss(); ok {
		t.Error("Dismiss accepted while idle")
	}
	if len(store.events) != 0 {
		t.Errorf("events = %v, want none", store.types())
	}
}

func TestSceneApplyAsset(t *testing.T) {
	s, _ := newTestScene(t)
	h, _ := s.Registry().Hotspot("left")
	alpha := NewAlphaBuffer(solidAlpha(2, 2, 0))

	s.applyAsset(AssetResult{
		AssetRequest: AssetRequest{Kind: AssetHotspotHover, HotspotID: "left"},
		Alpha:        alpha,
		Image:        image.NewNRGBA(image.Rect(0, 0, 2, 2)),
	})
	if h.hoverAlpha != alpha || h.hoverTexture == nil {
		t.Error("hover asset not installed")
	}

	// Failures and unknown ids leave the scene alone.
	s.applyAsset(AssetResult{AssetRequest: AssetRequest{HotspotID: "left"}, Err: errors.New("boom")})
	s.applyAsset(AssetResult{AssetRequest: AssetRequest{HotspotID: "ghost"}, Alpha: alpha})
	if h.alpha == alpha {
		t.Error("failed load replaced the base alpha")
	}

	s.applyAsset(AssetResult{
		AssetRequest: AssetRequest{Kind: AssetWall, Wall: WallCeiling},
		Image:        image.NewNRGBA(image.Rect(0, 0, 2, 2)),
	})
	if s.wallTextures[WallCeiling] == nil {
		t.Error("wall texture not installed")
	}
}

func TestSceneLoadAssets(t *testing.T) {
	data := encodePNG(t, solidAlpha(2, 2, 255))
	f := &fakeFetcher{data: map[string][]byte{}}
	for _, name := range []string{"left.png", "left_hover.png", "right.png", "right_hover.png", "glass.png", "glass_hover.png"} {
		f.data[name] = data
	}

	s, err := NewScene(DefaultConfig(), testTable())
	if err != nil {
		t.Fatal(err)
	}
	cfg := s.Config().Assets
	cfg.BaseURL = ""
	s.SetLoader(NewLoader(cfg, f))
	// Wall textures are missing from the fake and fail without blocking.
	s.Loader().sleep = func(context.Context, time.Duration) error { return nil }

	s.LoadAssets(context.Background())
	s.Loader().Wait()
	runFrames(t, s, 1)

	for _, h := range s.Registry().All() {
		if !h.Ready() || h.hoverAlpha == nil {
			t.Errorf("%s not loaded", h.ID)
		}
	}
	if s.Loader().Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Loader().Pending())
	}
}

func TestSceneUpdateFunc(t *testing.T) {
	s, _ := newTestScene(t)
	calls := 0
	s.SetUpdateFunc(func() error { calls++; return nil })
	runFrames(t, s, 3)
	if calls != 3 {
		t.Errorf("update func called %d times, want 3", calls)
	}

	boom := errors.New("boom")
	s.SetUpdateFunc(func() error { return boom })
	if err := s.update(tick); !errors.Is(err, boom) {
		t.Errorf("update err = %v, want boom", err)
	}
}
