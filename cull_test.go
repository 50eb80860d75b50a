package thicket

import (
	"math"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

// newCullScene returns a scene with a camera at the origin looking down -Z.
func newCullScene(t *testing.T) (*Scene, *Camera) {
	t.Helper()
	s := NewScene()
	eye := mustAdd(t, s, s.Root(), "eye", NewAnchor())
	return s, s.NewCamera("test", eye, Rect{Width: 800, Height: 600})
}

func mountCamera(t *testing.T, s *Scene, parent *Node) *Camera {
	t.Helper()
	eye := mustAdd(t, s, parent, "eye", NewAnchor())
	return s.NewCamera("test", eye, Rect{Width: 800, Height: 600})
}

func cube(pos mgl64.Vec3) *Node {
	g := NewGeometry(Box(mgl64.Vec3{}, mgl64.Vec3{0.5, 0.5, 0.5}))
	g.SetPosition(pos)
	return g
}

// doorway returns a 2x2 portal at pos whose front side faces +Z.
func doorway(target string, pos mgl64.Vec3) *Node {
	p := NewPortal(target,
		mgl64.Vec3{-1, -1, 0},
		mgl64.Vec3{1, -1, 0},
		mgl64.Vec3{1, 1, 0},
		mgl64.Vec3{-1, 1, 0},
	)
	p.SetPosition(pos)
	return p
}

// leafPaths lists the scene paths of every leaf in discovery order.
func leafPaths(root *VisContainer) []string {
	var paths []string
	root.Walk(func(v *VisNode) bool {
		if v.Kind() == VisKindLeaf {
			paths = append(paths, v.SceneNode().Path())
		}
		return true
	})
	return paths
}

func cull(t *testing.T, s *Scene, cam *Camera) *VisContainer {
	t.Helper()
	root, err := s.Cull(cam)
	require.NoError(t, err)
	return root
}

func TestCullInsideAndOutside(t *testing.T) {
	s, cam := newCullScene(t)
	mustAdd(t, s, s.Root(), "front", cube(mgl64.Vec3{0, 0, -10}))
	mustAdd(t, s, s.Root(), "behind", cube(mgl64.Vec3{0, 0, 10}))
	mustAdd(t, s, s.Root(), "left", cube(mgl64.Vec3{-100, 0, -10}))
	mustAdd(t, s, s.Root(), "far", cube(mgl64.Vec3{0, 0, -5000}))
	mustAdd(t, s, s.Root(), "near-edge", cube(mgl64.Vec3{0, 0, 0.3}))

	root := cull(t, s, cam)
	// near-edge straddles the camera and intersects the near plane.
	require.Equal(t, []string{"front", "near-edge"}, leafPaths(root))
	require.Equal(t, CullFinalized, cam.query.State())
	require.Equal(t, 2, cam.query.Stats().Visible)
	require.Equal(t, 3, cam.query.Stats().Pruned)
}

func TestCullPortalFacingAway(t *testing.T) {
	s, cam := newCullScene(t)
	a := mustAdd(t, s, s.Root(), "containerA", NewContainer())
	mustAdd(t, s, a, "nodeX", cube(mgl64.Vec3{0, 0, -10}))
	mustAdd(t, s, a, "nodeY", cube(mgl64.Vec3{0, 0, 10}))

	// Wound clockwise when seen from the camera: the front faces -Z.
	portal := NewPortal("cellB",
		mgl64.Vec3{-1, -1, 0},
		mgl64.Vec3{-1, 1, 0},
		mgl64.Vec3{1, 1, 0},
		mgl64.Vec3{1, -1, 0},
	)
	portal.SetPosition(mgl64.Vec3{0, 0, -5})
	mustAdd(t, s, a, "toB", portal)

	b := mustAdd(t, s, s.Root(), "cellB", NewCell())
	mustAdd(t, s, b, "inB", cube(mgl64.Vec3{0, 0, -20}))

	root := cull(t, s, cam)
	require.Equal(t, []string{"containerA/nodeX"}, leafPaths(root))

	sub := root.Container("containerA")
	require.NotNil(t, sub)
	require.Equal(t, 1, sub.Len())
	require.Nil(t, sub.Container("cellB"))
	require.Nil(t, root.Container("cellB"))
	require.Empty(t, sub.Portals())
}

func TestCullPortalFacingCamera(t *testing.T) {
	s, cam := newCullScene(t)
	mustAdd(t, s, s.Root(), "door", doorway("room", mgl64.Vec3{0, 0, -5}))
	room := mustAdd(t, s, s.Root(), "room", NewCell())
	mustAdd(t, s, room, "inside", cube(mgl64.Vec3{0, 0, -15}))
	// Outside the portal opening though inside the camera frustum.
	mustAdd(t, s, room, "aside", cube(mgl64.Vec3{6, 0, -15}))

	root := cull(t, s, cam)
	sub := root.Container("room")
	require.NotNil(t, sub)
	require.True(t, sub.IsCell())
	require.Equal(t, []string{"room/inside"}, leafPaths(root))

	p := root.Portal("door")
	require.NotNil(t, p)
	require.Same(t, sub, p.Target)
	require.Equal(t, "door", p.SceneNode().Path())
}

func TestCullPortalNarrowsProjection(t *testing.T) {
	s, cam := newCullScene(t)
	mustAdd(t, s, s.Root(), "door", doorway("room", mgl64.Vec3{0, 0, -5}))
	mustAdd(t, s, s.Root(), "room", NewCell())

	root := cull(t, s, cam)
	full := root.Projection()
	require.Equal(t, cam.Viewport, full.Rect)
	require.Equal(t, 0.0, full.ZNear)
	require.Equal(t, 1.0, full.ZFar)

	sub := root.Container("room")
	require.NotNil(t, sub)
	pr := sub.Projection().Rect

	// 2x2 opening 5 units away, 60 degree vertical fov, 4:3 viewport.
	want := 2 / (2 * 5 * math.Tan(math.Pi/6)) * 600
	require.InDelta(t, want, pr.Width, 1e-6)
	require.InDelta(t, want, pr.Height, 1e-6)
	require.InDelta(t, 400, pr.X+pr.Width/2, 1e-6)
	require.InDelta(t, 300, pr.Y+pr.Height/2, 1e-6)
	require.Greater(t, sub.Projection().ZNear, 0.0)
	require.Equal(t, pr, root.Portal("door").Rect)
}

func TestCullPortalBehindEyeKeepsRect(t *testing.T) {
	s, cam := newCullScene(t)
	// The opening surrounds the camera: some vertices are behind the eye.
	p := NewPortal("room",
		mgl64.Vec3{-1, -1, 1},
		mgl64.Vec3{1, -1, 1},
		mgl64.Vec3{1, 1, -2},
		mgl64.Vec3{-1, 1, -2},
	)
	mustAdd(t, s, s.Root(), "door", p)
	room := mustAdd(t, s, s.Root(), "room", NewCell())
	mustAdd(t, s, room, "far-left", cube(mgl64.Vec3{-8, 0, -15}))

	root := cull(t, s, cam)
	sub := root.Container("room")
	require.NotNil(t, sub)
	require.Equal(t, cam.Viewport, sub.Projection().Rect)
	require.Equal(t, []string{"room/far-left"}, leafPaths(root))
}

func TestCullBidirectionalPortalsTerminate(t *testing.T) {
	for _, culling := range []bool{true, false} {
		s := NewScene()
		a := mustAdd(t, s, s.Root(), "a", NewCell())
		b := mustAdd(t, s, s.Root(), "b", NewCell())
		mustAdd(t, s, a, "toB", doorway("b", mgl64.Vec3{0, 0, -5}))
		mustAdd(t, s, b, "toA", doorway("a", mgl64.Vec3{0, 0, -8}))
		mustAdd(t, s, b, "thing", cube(mgl64.Vec3{0, 0, -12}))
		cam := mountCamera(t, s, a)
		cam.CullEnabled = culling

		root := cull(t, s, cam)
		require.Equal(t, "a", root.Key())
		sub := root.Container("b")
		require.NotNil(t, sub, "culling=%v", culling)
		require.Nil(t, sub.Container("a"))
		require.Empty(t, sub.Portals())
		require.Equal(t, 1, cam.query.Stats().Portals)
		require.Equal(t, []string{"b/thing"}, leafPaths(root))
	}
}

func TestCullMaxPortalDepth(t *testing.T) {
	s := NewScene()
	cells := make([]*Node, 6)
	for i := range cells {
		cells[i] = mustAdd(t, s, s.Root(), "c"+string(rune('0'+i)), NewCell())
	}
	for i := 0; i < len(cells)-1; i++ {
		next := "c" + string(rune('0'+i+1))
		mustAdd(t, s, cells[i], "door", doorway(next, mgl64.Vec3{0, 0, -5 - 5*float64(i)}))
	}
	cam := mountCamera(t, s, cells[0])
	cam.MaxPortalDepth = 2

	root := cull(t, s, cam)
	c1 := root.Container("c1")
	require.NotNil(t, c1)
	c2 := c1.Container("c2")
	require.NotNil(t, c2)
	require.Nil(t, c2.Container("c3"))
	require.Equal(t, 2, cam.query.Stats().Portals)

	cam.MaxPortalDepth = 16
	cull(t, s, cam)
	require.Equal(t, 5, cam.query.Stats().Portals)
}

func TestCullTwoPortalsIntoOneCell(t *testing.T) {
	s, cam := newCullScene(t)
	left := doorway("room", mgl64.Vec3{-3, 0, -10})
	right := doorway("room", mgl64.Vec3{3, 0, -10})
	mustAdd(t, s, s.Root(), "left", left)
	mustAdd(t, s, s.Root(), "right", right)
	room := mustAdd(t, s, s.Root(), "room", NewCell())
	mustAdd(t, s, room, "wide", NewGeometry(Box(mgl64.Vec3{0, 0, -20}, mgl64.Vec3{10, 1, 1})))

	root := cull(t, s, cam)
	require.Len(t, root.Portals(), 2)
	sub := root.Container("room")
	require.NotNil(t, sub)
	// Seen through both openings, listed once.
	require.Equal(t, []string{"room/wide"}, leafPaths(root))

	l, r := root.Portal("left").Rect, root.Portal("right").Rect
	require.Equal(t, l.Union(r), sub.Projection().Rect)
	require.Same(t, sub, root.Portal("right").Target)
}

func TestCullMalformedPortals(t *testing.T) {
	s, cam := newCullScene(t)
	mustAdd(t, s, s.Root(), "lost", doorway("nowhere", mgl64.Vec3{0, 0, -5}))
	mustAdd(t, s, s.Root(), "empty", doorway("", mgl64.Vec3{0, 0, -5}))
	mustAdd(t, s, s.Root(), "geom", doorway("crate", mgl64.Vec3{0, 0, -5}))
	mustAdd(t, s, s.Root(), "flat", NewPortal("room", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}))
	mustAdd(t, s, s.Root(), "crate", cube(mgl64.Vec3{0, 0, -10}))
	mustAdd(t, s, s.Root(), "room", NewCell())

	root := cull(t, s, cam)
	require.Equal(t, []string{"crate"}, leafPaths(root))
	require.Equal(t, 4, cam.query.Stats().MalformedPortals)
	require.Empty(t, root.Portals())
}

func TestCullHiddenAndAnchors(t *testing.T) {
	s, cam := newCullScene(t)
	hidden := mustAdd(t, s, s.Root(), "hidden", NewContainer())
	hidden.Visible = false
	mustAdd(t, s, hidden, "x", cube(mgl64.Vec3{0, 0, -10}))

	anchor := mustAdd(t, s, s.Root(), "mount", NewAnchor())
	anchor.SetPosition(mgl64.Vec3{0, 0, -10})
	mustAdd(t, s, anchor, "y", cube(mgl64.Vec3{}))

	parent := mustAdd(t, s, s.Root(), "parent", cube(mgl64.Vec3{0, 0, -10}))
	mustAdd(t, s, parent, "child", cube(mgl64.Vec3{1, 0, 0}))

	root := cull(t, s, cam)
	// Anchors are transparent; geometry children land in the same container.
	require.Equal(t, []string{"mount/y", "parent", "parent/child"}, leafPaths(root))
	require.Equal(t, 3, root.Len())
}

func TestCullGetCullQuery(t *testing.T) {
	s, cam := newCullScene(t)
	a := mustAdd(t, s, s.Root(), "a", NewContainer())
	mustAdd(t, s, a, "x", cube(mgl64.Vec3{0, 0, -10}))
	mustAdd(t, s, s.Root(), "door", doorway("room", mgl64.Vec3{0, 0, -5}))
	mustAdd(t, s, s.Root(), "room", NewCell())

	root := cull(t, s, cam)
	q := cam.query
	require.Same(t, q, root.GetCullQuery())
	require.Same(t, q, root.Container("a").GetCullQuery())
	require.Same(t, q, root.Container("room").GetCullQuery())
	require.Same(t, cam, q.Camera())
	require.Same(t, root, q.Root())

	sub := root.Container("a")
	root.FreeNodes()
	require.Nil(t, root.GetCullQuery())
	require.Nil(t, sub.GetCullQuery())

	cam.CullEnabled = false
	root = cull(t, s, cam)
	require.Nil(t, root.GetCullQuery())
	require.Nil(t, root.Container("a").GetCullQuery())
	require.Equal(t, []string{"a/x"}, leafPaths(root))

	require.Nil(t, NewVisContainer(0).GetCullQuery())
}

func TestCullDisabledKeepsEverything(t *testing.T) {
	s, cam := newCullScene(t)
	cam.CullEnabled = false
	mustAdd(t, s, s.Root(), "front", cube(mgl64.Vec3{0, 0, -10}))
	mustAdd(t, s, s.Root(), "behind", cube(mgl64.Vec3{0, 0, 10}))

	root := cull(t, s, cam)
	require.Equal(t, []string{"front", "behind"}, leafPaths(root))
}

func TestCullDeterministic(t *testing.T) {
	s, cam := newCullScene(t)
	cam.Node.SetPosition(mgl64.Vec3{1, 2, 3})
	cam.LookAt(mgl64.Vec3{0, 0, -20})
	for i := 0; i < 10; i++ {
		g := cube(mgl64.Vec3{float64(i - 5), float64(i % 3), -10 - float64(i)})
		g.SetRotation(mgl64.QuatRotate(float64(i)*0.3, mgl64.Vec3{0, 1, 0}))
		mustAdd(t, s, s.Root(), "g"+string(rune('a'+i)), g)
	}

	type snapshot struct {
		id       uint32
		world    mgl64.Mat4
		wvp      mgl64.Mat4
		distance float64
	}
	take := func() []snapshot {
		var out []snapshot
		cull(t, s, cam).Walk(func(v *VisNode) bool {
			out = append(out, snapshot{v.NodeID(), v.World, v.WorldViewProjection, v.SquaredDistance})
			return true
		})
		return out
	}
	first := take()
	require.NotEmpty(t, first)
	require.Equal(t, first, take())
}

func TestCullMatricesAndDistance(t *testing.T) {
	s, cam := newCullScene(t)
	mustAdd(t, s, s.Root(), "g", cube(mgl64.Vec3{3, 0, -4}))

	root := cull(t, s, cam)
	require.Equal(t, 1, root.Len())
	v := root.Nodes()[0]
	require.InDelta(t, 25, v.SquaredDistance, 1e-9)
	assertMatrix(t, "world", v.World, mgl64.Translate3D(3, 0, -4))
	assertMatrix(t, "world view", v.WorldView, cam.ViewMatrix().Mul4(v.World))
	assertMatrix(t, "wvp", v.WorldViewProjection, cam.ProjectionMatrix().Mul4(v.WorldView))
	require.Same(t, root, v.Parent())
	require.False(t, v.IsContainer())
	require.Nil(t, v.Container())
}

func TestCullPoolReuse(t *testing.T) {
	s, cam := newCullScene(t)
	for i := 0; i < 5; i++ {
		mustAdd(t, s, s.Root(), "g"+string(rune('a'+i)), cube(mgl64.Vec3{float64(i), 0, -10}))
	}

	root := cull(t, s, cam)
	require.Equal(t, 5, root.Len())
	first := map[*VisNode]bool{}
	for _, v := range root.Nodes() {
		first[v] = true
	}

	root = cull(t, s, cam)
	require.Equal(t, 5, root.Len())
	for _, v := range root.Nodes() {
		require.True(t, first[v], "node storage was not reused")
	}
}

func TestFreeNodesIdempotent(t *testing.T) {
	s, cam := newCullScene(t)
	a := mustAdd(t, s, s.Root(), "a", NewContainer())
	mustAdd(t, s, a, "x", cube(mgl64.Vec3{0, 0, -10}))
	root := cull(t, s, cam)
	sub := root.Container("a")

	root.FreeNodes()
	require.Equal(t, 0, root.Len())
	require.Nil(t, root.Container("a"))
	require.Equal(t, 0, sub.Len())
	spare := len(root.spare)

	root.FreeNodes()
	require.Equal(t, 0, root.Len())
	require.Equal(t, spare, len(root.spare))
}

func TestCullPoolExhausted(t *testing.T) {
	s, cam := newCullScene(t)
	cam.PoolLimit = 2
	for i := 0; i < 5; i++ {
		mustAdd(t, s, s.Root(), "g"+string(rune('a'+i)), cube(mgl64.Vec3{float64(i), 0, -10}))
	}

	root := cull(t, s, cam)
	require.Equal(t, 2, root.Len())
	require.Equal(t, 3, cam.query.Stats().PoolExhausted)
	require.Equal(t, []string{"ga", "gb"}, leafPaths(root))

	c := NewVisContainer(1)
	require.NotNil(t, c.AddSceneNode(s.Find("gc"), 1))
	require.Nil(t, c.AddSceneNode(s.Find("gd"), 1))
	require.Nil(t, c.AddSceneNode(nil, 1))
}

func TestVisNodeAfterDestroy(t *testing.T) {
	s, cam := newCullScene(t)
	x := mustAdd(t, s, s.Root(), "x", cube(mgl64.Vec3{0, 0, -10}))
	id := x.ID

	root := cull(t, s, cam)
	v := root.Nodes()[0]
	require.Same(t, x, v.SceneNode())

	require.NoError(t, s.RemoveNode(x))
	require.Nil(t, v.SceneNode())
	require.Equal(t, id, v.NodeID())
	// The tree itself is untouched until the next cull.
	require.Equal(t, 1, root.Len())
}

func TestVisContainerDestroyedSource(t *testing.T) {
	s, cam := newCullScene(t)
	a := mustAdd(t, s, s.Root(), "a", NewContainer())
	mustAdd(t, s, a, "x", cube(mgl64.Vec3{0, 0, -10}))
	door := mustAdd(t, s, s.Root(), "door", doorway("room", mgl64.Vec3{0, 0, -5}))
	mustAdd(t, s, s.Root(), "room", NewCell())

	root := cull(t, s, cam)
	sub := root.Container("a")
	require.NotNil(t, sub)
	require.NotNil(t, root.Portal("door"))

	require.NoError(t, s.RemoveNode(a))
	require.Nil(t, root.Container("a"))
	require.Equal(t, 0, sub.Len())
	require.Nil(t, sub.SceneNode())
	require.Nil(t, sub.GetCullQuery())

	require.NoError(t, s.RemoveNode(door))
	require.Nil(t, root.Portal("door"))
	require.Nil(t, root.Portals()[0].SceneNode())

	// Next frame is clean.
	root = cull(t, s, cam)
	require.Nil(t, root.Container("a"))
	require.Empty(t, root.Portals())
}

func TestCullDetachedCamera(t *testing.T) {
	s, cam := newCullScene(t)
	require.NoError(t, s.RemoveNode(cam.Node))

	_, err := s.Cull(cam)
	require.Equal(t, ErrTypeDetachedCamera, errors.Type(err))
	require.Equal(t, CullIdle, cam.query.State())

	loose := s.NewCamera("loose", NewAnchor(), Rect{Width: 10, Height: 10})
	_, err = s.Cull(loose)
	require.Equal(t, ErrTypeDetachedCamera, errors.Type(err))
}

type recordingRenderer struct {
	roots []*VisContainer
}

func (r *recordingRenderer) Draw(root *VisContainer) error {
	r.roots = append(r.roots, root)
	return nil
}

func TestSceneDrawSkipsAbortedCameras(t *testing.T) {
	s, cam := newCullScene(t)
	mustAdd(t, s, s.Root(), "x", cube(mgl64.Vec3{0, 0, -10}))
	s.NewCamera("loose", NewAnchor(), Rect{Width: 10, Height: 10})

	r := &recordingRenderer{}
	require.NoError(t, s.Draw(r))
	require.Len(t, r.roots, 1)
	require.Same(t, cam.query.Root(), r.roots[0])
}

type recordingStore struct {
	events []VisibilityEvent
}

func (r *recordingStore) EmitEvent(e VisibilityEvent) {
	r.events = append(r.events, e)
}

func TestCullVisibilityEvents(t *testing.T) {
	s, cam := newCullScene(t)
	store := &recordingStore{}
	s.SetEntityStore(store)

	x := mustAdd(t, s, s.Root(), "x", cube(mgl64.Vec3{0, 0, -10}))
	x.EntityID = 10
	y := mustAdd(t, s, s.Root(), "y", cube(mgl64.Vec3{0, 0, 10}))
	y.EntityID = 20

	cull(t, s, cam)
	require.Len(t, store.events, 1)
	require.Equal(t, VisibilityEvent{
		Type:            EventEnterView,
		CameraID:        cam.ID,
		NodeID:          x.ID,
		EntityID:        10,
		SquaredDistance: 100,
	}, store.events[0])

	// Unchanged frame: no events.
	store.events = nil
	cull(t, s, cam)
	require.Empty(t, store.events)

	// Swap them.
	store.events = nil
	x.SetPosition(mgl64.Vec3{0, 0, 10})
	y.SetPosition(mgl64.Vec3{0, 0, -10})
	cull(t, s, cam)
	require.Len(t, store.events, 2)
	require.Equal(t, EventEnterView, store.events[0].Type)
	require.Equal(t, uint32(20), store.events[0].EntityID)
	require.Equal(t, EventLeaveView, store.events[1].Type)
	require.Equal(t, uint32(10), store.events[1].EntityID)
	require.Equal(t, "leave_view", store.events[1].Type.String())
}

func TestCullVisibilityEventsSurviveAbortedFrame(t *testing.T) {
	s, cam := newCullScene(t)
	store := &recordingStore{}
	s.SetEntityStore(store)
	x := mustAdd(t, s, s.Root(), "x", cube(mgl64.Vec3{0, 0, -10}))

	cull(t, s, cam)
	require.Len(t, store.events, 1)
	require.Equal(t, EventEnterView, store.events[0].Type)

	eye := cam.Node
	cam.Node = NewAnchor()
	_, err := s.Cull(cam)
	require.Equal(t, ErrTypeDetachedCamera, errors.Type(err))
	cam.Node = eye

	// Still visible: no second enter.
	store.events = nil
	cull(t, s, cam)
	require.Empty(t, store.events)

	x.SetPosition(mgl64.Vec3{0, 0, 10})
	cull(t, s, cam)
	require.Len(t, store.events, 1)
	require.Equal(t, EventLeaveView, store.events[0].Type)
	require.Equal(t, x.ID, store.events[0].NodeID)
}

func TestCullDebugMode(t *testing.T) {
	s, cam := newCullScene(t)
	s.SetDebugMode(true)
	mustAdd(t, s, s.Root(), "x", cube(mgl64.Vec3{0, 0, -10}))
	root := cull(t, s, cam)
	require.Equal(t, 1, root.Len())
}

func TestDrawListOrder(t *testing.T) {
	s, cam := newCullScene(t)
	a := mustAdd(t, s, s.Root(), "a", NewContainer())
	mustAdd(t, s, a, "mid", cube(mgl64.Vec3{0, 0, -20}))
	mustAdd(t, s, s.Root(), "near", cube(mgl64.Vec3{0, 0, -10}))
	mustAdd(t, s, s.Root(), "far", cube(mgl64.Vec3{0, 0, -30}))

	root := cull(t, s, cam)
	paths := func(items []DrawItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Node.SceneNode().Path())
		}
		return out
	}

	items := DrawList(root, nil, true)
	require.Equal(t, []string{"near", "a/mid", "far"}, paths(items))
	require.Same(t, root.Container("a"), items[1].Container)

	items = DrawList(root, items, false)
	require.Equal(t, []string{"far", "a/mid", "near"}, paths(items))

	// Trees themselves stay in discovery order.
	require.Equal(t, []string{"a/mid", "near", "far"}, leafPaths(root))

	var nodes []*VisNode
	for _, v := range root.Nodes() {
		if v.Kind() == VisKindLeaf {
			nodes = append(nodes, v)
		}
	}
	SortByDistance(nodes, true)
	require.Equal(t, "near", nodes[0].SceneNode().Path())
	require.Equal(t, "far", nodes[1].SceneNode().Path())
}
