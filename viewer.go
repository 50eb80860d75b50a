package thicket

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	// ShowLabels prints node paths next to their wireframes.
	ShowLabels bool
	ClearColor Color
	// ScreenshotDir is where Viewer.Screenshot writes PNG files.
	ScreenshotDir string
	// Tour, if set, drives the cameras and screenshots frame by frame.
	Tour *Tour
}

// Viewer is an ebiten.Game that updates a Scene and draws every camera with
// a DebugRenderer.
type Viewer struct {
	scene    *Scene
	config   RunConfig
	renderer *DebugRenderer
	overlay  *fpsOverlay
	updateFn func() error

	screenshotQueue []string
}

// NewViewer creates a Viewer for scene. Cameras with an empty viewport are
// resized to the window.
func NewViewer(scene *Scene, cfg RunConfig) *Viewer {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 540
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	v := &Viewer{
		scene:    scene,
		config:   cfg,
		renderer: NewDebugRenderer(nil),
	}
	v.renderer.Labels = cfg.ShowLabels
	if cfg.ShowFPS {
		v.overlay = newFPSOverlay()
	}
	for _, cam := range scene.Cameras() {
		if cam.Viewport.Empty() {
			cam.Viewport = Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}
		}
	}
	return v
}

// Renderer returns the viewer's debug renderer.
func (v *Viewer) Renderer() *DebugRenderer {
	return v.renderer
}

// SetUpdateFunc sets a callback run at the start of every Update, before
// tweens and transforms are advanced.
func (v *Viewer) SetUpdateFunc(fn func() error) {
	v.updateFn = fn
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if v.updateFn != nil {
		if err := v.updateFn(); err != nil {
			return err
		}
	}
	if t := v.config.Tour; t != nil {
		t.step(v)
	}
	v.scene.Update(dt)
	if v.overlay != nil {
		v.overlay.update(float64(dt))
	}
	return nil
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.config.ClearColor.rgba())
	v.renderer.Target = screen
	if err := v.scene.Draw(v.renderer); err != nil {
		logs.Warn(errors.New("drawing scene failed").Wrap(err))
	}
	v.flushScreenshots(screen)
	if v.overlay != nil {
		v.overlay.draw(screen, v.scene)
	}
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.config.Width, v.config.Height
}

// Run opens a window and runs scene until the window is closed or the
// update callback returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	v := NewViewer(scene, cfg)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(v.config.Width, v.config.Height)
	return ebiten.RunGame(v)
}
