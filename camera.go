package thicket

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/tanema/gween/ease"
)

const (
	defaultFovY           = 60 * math.Pi / 180
	defaultNear           = 0.1
	defaultFar            = 1000
	defaultMaxPortalDepth = 16
	defaultPoolLimit      = 1 << 16
)

// Camera looks down the -Z axis of the node it is mounted on. The node's
// world transform places the camera; its nearest container or cell ancestor
// is where culling starts.
type Camera struct {
	// ID identifies the camera in logs, metrics and visibility events.
	ID   string
	Name string
	// Node is the scene node the camera is mounted on.
	Node *Node

	// FovY is the vertical field of view in radians.
	FovY float64
	// Near and Far are the clip plane distances.
	Near, Far float64
	// Viewport is the screen-space rectangle this camera renders into. Its
	// aspect ratio drives the projection.
	Viewport Rect

	// CullEnabled tests nodes against the frustum. When false every node is
	// assumed visible and the produced containers report no cull query.
	CullEnabled bool
	// MaxPortalDepth bounds how many portals a single traversal path may
	// cross.
	MaxPortalDepth int
	// PoolLimit caps the number of visibility nodes per container.
	PoolLimit int

	flight *TweenGroup
	query  *CullQuery
}

// newCamera creates a Camera with default values and the given viewport.
func newCamera(name string, node *Node, viewport Rect) *Camera {
	return &Camera{
		ID:             uuid.NewString(),
		Name:           name,
		Node:           node,
		FovY:           defaultFovY,
		Near:           defaultNear,
		Far:            defaultFar,
		Viewport:       viewport,
		CullEnabled:    true,
		MaxPortalDepth: defaultMaxPortalDepth,
		PoolLimit:      defaultPoolLimit,
	}
}

// Aspect returns the viewport aspect ratio, 1 for an empty viewport.
func (c *Camera) Aspect() float64 {
	if c.Viewport.Height <= 0 || c.Viewport.Width <= 0 {
		return 1
	}
	return c.Viewport.Width / c.Viewport.Height
}

// ProjectionMatrix returns the camera's perspective projection.
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(c.FovY, c.Aspect(), c.Near, c.Far)
}

// ViewMatrix returns the inverse of the camera node's world transform.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	m, _ := worldTransformOf(c.Node, nil)
	return m.Inv()
}

// Position returns the camera's world-space position.
func (c *Camera) Position() mgl64.Vec3 {
	return c.Node.WorldPosition()
}

// WorldToScreen projects a world-space point into viewport pixels. ok is
// false for points behind the camera.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (x, y float64, ok bool) {
	vp := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	return projectToViewport(vp, p, c.Viewport)
}

// LookAt rotates the camera node so it faces target with +Y up.
func (c *Camera) LookAt(target mgl64.Vec3) {
	eye := c.Node.WorldPosition()
	// LookAtV builds a view matrix; the node needs its inverse rotation,
	// expressed relative to the parent.
	view := mgl64.LookAtV(eye, target, mgl64.Vec3{0, 1, 0})
	world := mgl64.Mat4ToQuat(view.Inv())
	if p := c.Node.Parent; p != nil {
		pw, _ := worldTransformOf(p, nil)
		parentRot := mgl64.Mat4ToQuat(pw)
		world = parentRot.Inverse().Mul(world)
	}
	c.Node.SetRotation(world.Normalize())
}

// FlyTo animates the camera node to the local position to over duration
// seconds. The flight is advanced by Scene.Update; a new FlyTo replaces any
// flight in progress.
func (c *Camera) FlyTo(s *Scene, to mgl64.Vec3, duration float32, easeFn ease.TweenFunc) {
	if c.flight != nil {
		c.flight.Done = true
	}
	c.flight = TweenPosition(c.Node, to, duration, easeFn)
	s.AddTween(c.flight)
}

// Flying reports whether a FlyTo animation is in progress.
func (c *Camera) Flying() bool {
	return c.flight != nil && !c.flight.Done
}

// cullQuery returns the camera's cull query, creating it on first use.
func (c *Camera) cullQuery(s *Scene) *CullQuery {
	if c.query == nil || c.query.scene != s {
		c.query = NewCullQuery(s, c)
	}
	return c.query
}

// projectToViewport maps p through the view-projection matrix m onto
// viewport pixels (Y down).
func projectToViewport(m mgl64.Mat4, p mgl64.Vec3, vp Rect) (x, y float64, ok bool) {
	clip := m.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	nx, ny := clip[0]/clip[3], clip[1]/clip[3]
	x = vp.X + (nx+1)/2*vp.Width
	y = vp.Y + (1-ny)/2*vp.Height
	return x, y, true
}
