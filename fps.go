package thicket

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows frame rate and per-camera cull stats in the top-left
// corner. The text is refreshed every ~0.5 seconds.
type fpsOverlay struct {
	img        *ebiten.Image
	text       string
	lastUpdate float64
	dirty      bool
}

func newFPSOverlay() *fpsOverlay {
	return &fpsOverlay{
		img:   ebiten.NewImage(260, 96),
		dirty: true,
	}
}

func (o *fpsOverlay) update(dt float64) {
	o.lastUpdate += dt
	if o.lastUpdate < 0.5 {
		return
	}
	o.lastUpdate = 0
	o.dirty = true
}

func (o *fpsOverlay) draw(screen *ebiten.Image, s *Scene) {
	if o.dirty {
		o.dirty = false
		o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		for _, cam := range s.Cameras() {
			if cam.query == nil {
				continue
			}
			st := cam.query.Stats()
			o.text += fmt.Sprintf("\n%s: %d visible, %d portals, %d pruned",
				cam.Name, st.Visible, st.Portals, st.Pruned)
		}
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, o.text)
	}
	screen.DrawImage(o.img, nil)
}
