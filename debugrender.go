package thicket

import (
	"image"
	"image/color"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// boxEdges indexes AABB.Corners pairwise.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DebugRenderer draws visibility trees as wireframes onto an ebiten image:
// projected bounding boxes of visible leaves back to front, and the clip
// rectangle of every portal crossed. Each leaf is clipped to the projection
// rectangle of its container.
type DebugRenderer struct {
	Target *ebiten.Image

	GeometryColor Color
	PortalColor   Color
	StrokeWidth   float32
	// Labels prints the scene path of each visible leaf next to its box.
	Labels bool

	items []DrawItem
	// LastDrawn is the number of leaves drawn by the most recent Draw.
	LastDrawn int
}

// NewDebugRenderer creates a DebugRenderer drawing onto target.
func NewDebugRenderer(target *ebiten.Image) *DebugRenderer {
	return &DebugRenderer{
		Target:        target,
		GeometryColor: ColorWhite,
		PortalColor:   Color{R: 1, G: 0.8, B: 0.2, A: 1},
		StrokeWidth:   1,
	}
}

// Draw implements Renderer.
func (r *DebugRenderer) Draw(root *VisContainer) error {
	if r.Target == nil {
		return errors.New("debug renderer has no target image")
	}
	vp := root.Projection().Rect
	geom := r.GeometryColor.rgba()

	r.items = DrawList(root, r.items, false)
	r.LastDrawn = 0
	for _, it := range r.items {
		n := it.Node.SceneNode()
		if n == nil {
			continue
		}
		b, ok := n.Bounds()
		if !ok {
			b = AABB{}
		}
		dst := r.clip(it.Container.Projection().Rect)
		if dst == nil {
			continue
		}
		r.drawBox(dst, it.Node.WorldViewProjection, b, vp, geom)
		if r.Labels {
			if x, y, ok := projectToViewport(it.Node.WorldViewProjection, b.Center(), vp); ok {
				ebitenutil.DebugPrintAt(dst, n.Path(), int(x), int(y))
			}
		}
		r.LastDrawn++
	}

	portal := r.PortalColor.rgba()
	r.drawPortals(root, portal)
	root.Walk(func(v *VisNode) bool {
		if c := v.Container(); c != nil {
			r.drawPortals(c, portal)
		}
		return true
	})
	return nil
}

func (r *DebugRenderer) drawPortals(c *VisContainer, clr color.RGBA) {
	for _, p := range c.Portals() {
		rect := p.Rect
		vector.StrokeRect(r.Target,
			float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height),
			r.StrokeWidth, clr, false)
	}
}

// clip returns the part of the target inside rect, nil if empty.
func (r *DebugRenderer) clip(rect Rect) *ebiten.Image {
	bounds := image.Rect(int(rect.X), int(rect.Y), int(rect.X+rect.Width+0.5), int(rect.Y+rect.Height+0.5))
	bounds = bounds.Intersect(r.Target.Bounds())
	if bounds.Empty() {
		return nil
	}
	return r.Target.SubImage(bounds).(*ebiten.Image)
}

// drawBox strokes the edges of the local box b projected through wvp. Edges
// with an endpoint behind the camera are skipped.
func (r *DebugRenderer) drawBox(dst *ebiten.Image, wvp mgl64.Mat4, b AABB, vp Rect, clr color.RGBA) {
	var (
		xs, ys [8]float32
		ok     [8]bool
	)
	for i, c := range b.Corners() {
		x, y, in := projectToViewport(wvp, c, vp)
		xs[i], ys[i], ok[i] = float32(x), float32(y), in
	}
	for _, e := range boxEdges {
		a, z := e[0], e[1]
		if !ok[a] || !ok[z] {
			continue
		}
		vector.StrokeLine(dst, xs[a], ys[a], xs[z], ys[z], r.StrokeWidth, clr, false)
	}
}

// rgba converts to an 8-bit alpha-premultiplied color.
func (c Color) rgba() color.RGBA {
	to8 := func(v float64) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	a := min(max(c.A, 0), 1)
	return color.RGBA{R: to8(c.R * a), G: to8(c.G * a), B: to8(c.B * a), A: to8(a)}
}
