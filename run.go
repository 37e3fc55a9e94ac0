package showroom

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window and input for Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	// Background fills the screen before the scene is drawn. The zero value
	// leaves the screen black.
	Background Color

	DoubleClickInterval time.Duration
	DoubleClickDistance float64

	// ExitWhenScriptDone ends Run once an attached TestRunner has finished and
	// its screenshots are written.
	ExitWhenScriptDone bool
}

// RunConfigFrom derives a RunConfig from a showroom Config.
func RunConfigFrom(cfg Config) RunConfig {
	bg := cfg.Window.Background
	return RunConfig{
		Title:               cfg.Window.Title,
		Width:               cfg.Window.Width,
		Height:              cfg.Window.Height,
		ShowFPS:             cfg.Window.ShowFPS,
		Background:          Color{bg[0], bg[1], bg[2], 1},
		DoubleClickInterval: time.Duration(cfg.Input.DoubleClickMillis) * time.Millisecond,
		DoubleClickDistance: cfg.Input.DoubleClickDistance,
	}
}

type game struct {
	scene *Scene
	cfg   RunConfig
	bg    color.RGBA
	hud   *hud
}

func (g *game) Update() error {
	dt := float32(1) / float32(ebiten.TPS())
	g.scene.Update(dt)
	if g.hud != nil {
		g.hud.update(dt)
	}
	if g.cfg.ExitWhenScriptDone && g.scene.testRunner != nil &&
		g.scene.testRunner.Done() && len(g.scene.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.bg.A > 0 {
		screen.Fill(g.bg)
	}
	g.scene.Draw(screen)
	if g.hud != nil {
		g.hud.draw(screen, g.scene)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.SetViewport(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Run opens a window and runs scene until the window is closed. Real mouse
// and keyboard input is polled each tick unless injected input is queued.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = int(defaultViewportW), int(defaultViewportH)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	scene.SetViewport(float64(cfg.Width), float64(cfg.Height))
	scene.input = newEbitenInput(cfg.DoubleClickInterval, cfg.DoubleClickDistance)

	g := &game{scene: scene, cfg: cfg, bg: cfg.Background.RGBA()}
	if cfg.ShowFPS {
		g.hud = &hud{}
	}
	return ebiten.RunGame(g)
}
