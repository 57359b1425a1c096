package panoroom

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultWindowTitle = "panoroom"
	defaultWindowW     = 1280
	defaultWindowH     = 720
)

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	if err := g.scene.Update(); err != nil {
		return err
	}
	// Let the last step's screenshot flush in one more Draw before exiting.
	if r := g.cfg.Script; r != nil && r.Done() && len(g.scene.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := outsideWidth, outsideHeight
	if w <= 0 || h <= 0 {
		w, h = g.cfg.Width, g.cfg.Height
	}
	g.scene.SetViewport(w, h)
	return w, h
}

// Run opens a window and runs scene until the window closes or the attached
// script finishes.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = defaultWindowTitle
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = defaultWindowW, defaultWindowH
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	scene.realInput = true
	scene.ShowHUD = scene.ShowHUD || cfg.ShowFPS
	scene.SetViewport(cfg.Width, cfg.Height)
	if cfg.Debug {
		scene.SetDebugMode(true)
	}
	if cfg.Script != nil {
		scene.SetTestRunner(cfg.Script)
	}

	err := ebiten.RunGame(&game{scene: scene, cfg: cfg})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
