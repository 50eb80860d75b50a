package thicket

import (
	"math"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// CullState is the phase a CullQuery is in.
type CullState uint8

const (
	CullIdle      CullState = iota // never run, or aborted
	CullInit                       // binding camera and frustum
	CullTraverse                   // walking the scene graph
	CullFinalized                  // tree complete and frozen until the next Execute
)

// CullStats summarizes one traversal.
type CullStats struct {
	Visible          int // leaves added
	Containers       int // containers and cells added, root excluded
	Pruned           int // nodes rejected by a frustum test (subtrees not counted)
	Portals          int // portals crossed
	MalformedPortals int
	PoolExhausted    int
	Duration         time.Duration
}

// cullRegion is the part of the view volume a traversal step can see.
type cullRegion struct {
	frustum Frustum
	rect    ndcRect
}

type visEntry struct {
	entityID        uint32
	squaredDistance float64
}

// CullQuery builds, per frame, the visibility tree of one camera. It owns the
// tree's root container; everything in the tree is pooled and reused by the
// next Execute.
type CullQuery struct {
	scene  *Scene
	camera *Camera
	root   *VisContainer
	state  CullState
	stats  CullStats

	camPos   mgl64.Vec3
	viewProj mgl64.Mat4
	viewport Rect
	cull     bool
	maxDepth int

	inserted    map[uint32]struct{}
	containerOf map[uint32]*VisContainer
	active      []*Node
	vertBuf     []mgl64.Vec3

	cur, prev           map[uint32]visEntry
	curOrder, prevOrder []uint32
}

// NewCullQuery creates a query for cam over scene. Scene.Cull creates and
// caches one per camera; direct use is for tools that manage their own
// queries.
func NewCullQuery(scene *Scene, cam *Camera) *CullQuery {
	return &CullQuery{
		scene:       scene,
		camera:      cam,
		root:        newVisContainer("", cam.PoolLimit),
		inserted:    make(map[uint32]struct{}),
		containerOf: make(map[uint32]*VisContainer),
		cur:         make(map[uint32]visEntry),
		prev:        make(map[uint32]visEntry),
	}
}

// Camera returns the camera the query culls for.
func (q *CullQuery) Camera() *Camera {
	return q.camera
}

// Root returns the root of the most recent visibility tree.
func (q *CullQuery) Root() *VisContainer {
	return q.root
}

// State returns the query's current phase.
func (q *CullQuery) State() CullState {
	return q.state
}

// Stats returns the statistics of the most recent traversal.
func (q *CullQuery) Stats() CullStats {
	return q.stats
}

// Release frees the visibility tree and drops the query's bookkeeping.
func (q *CullQuery) Release() {
	q.root.FreeNodes()
	q.resetFrame()
	clear(q.cur)
	q.curOrder = q.curOrder[:0]
	clear(q.prev)
	q.prevOrder = q.prevOrder[:0]
	q.state = CullIdle
}

// Execute frees the previous frame's tree and culls the scene from the
// camera's current placement. The returned tree stays valid, and unmodified,
// until the next Execute or Release.
func (q *CullQuery) Execute() (*VisContainer, error) {
	start := time.Now()
	q.state = CullInit
	q.root.FreeNodes()
	q.resetFrame()

	cam := q.camera
	node := cam.Node
	if node == nil || node.disposed || node.scene != q.scene {
		q.state = CullIdle
		return nil, errDetachedCamera(cam)
	}
	origin := node.container()
	if origin == nil {
		q.state = CullIdle
		return nil, errDetachedCamera(cam)
	}
	q.rotateVisible()

	camWorld := q.scene.GetWorldTransform(node)
	view := camWorld.Inv()
	proj := cam.ProjectionMatrix()
	q.camPos = camWorld.Col(3).Vec3()
	q.viewProj = proj.Mul4(view)
	q.viewport = cam.Viewport
	q.cull = cam.CullEnabled
	q.maxDepth = cam.MaxPortalDepth

	var bound *CullQuery
	if q.cull {
		bound = q
	}
	q.root.limit = cam.PoolLimit
	q.root.SetCamera(view, proj, q.camPos)
	q.root.bindRoot(origin, bound, Projection{Rect: cam.Viewport, ZNear: 0, ZFar: 1})
	q.inserted[origin.ID] = struct{}{}
	q.containerOf[origin.ID] = q.root
	q.active = append(q.active, origin)

	q.state = CullTraverse
	region := q.region(fullNDC)
	q.traverse(q.root, origin, &region, 0)
	q.finalize(time.Since(start))
	return q.root, nil
}

func (q *CullQuery) resetFrame() {
	clear(q.inserted)
	clear(q.containerOf)
	for i := range q.active {
		q.active[i] = nil
	}
	q.active = q.active[:0]
	q.stats = CullStats{}
}

// rotateVisible makes the last completed frame's visible set the previous
// one. Aborted frames leave both sets alone.
func (q *CullQuery) rotateVisible() {
	q.cur, q.prev = q.prev, q.cur
	q.curOrder, q.prevOrder = q.prevOrder, q.curOrder
	clear(q.cur)
	q.curOrder = q.curOrder[:0]
}

// region returns the frustum of the NDC rectangle r.
func (q *CullQuery) region(r ndcRect) cullRegion {
	if !q.cull {
		return cullRegion{frustum: Frustum{all: true}, rect: r}
	}
	return cullRegion{frustum: extractFrustumRect(q.viewProj, r), rect: r}
}

// traverse walks parent's children depth-first, emitting into vc.
func (q *CullQuery) traverse(vc *VisContainer, parent *Node, region *cullRegion, depth int) {
	for _, child := range parent.children {
		if !child.Visible || child.disposed {
			continue
		}
		switch child.Type {
		case NodeTypeCell:
			// Cells are only entered through portals.
			continue
		case NodeTypePortal:
			refreshWorld(child)
			q.enterPortal(vc, child, region, depth)
			continue
		}

		refreshWorld(child)
		if !q.inView(child, &region.frustum) {
			q.stats.Pruned++
			continue
		}

		switch child.Type {
		case NodeTypeContainer:
			sub := q.containerOf[child.ID]
			if sub == nil {
				sub = vc.addContainer(child, q.squaredDistance(child))
				if sub == nil {
					q.stats.PoolExhausted++
					continue
				}
				q.containerOf[child.ID] = sub
				q.inserted[child.ID] = struct{}{}
				q.stats.Containers++
			}
			q.traverse(sub, child, region, depth)
		case NodeTypeAnchor:
			q.traverse(vc, child, region, depth)
		default:
			if _, dup := q.inserted[child.ID]; !dup {
				d := q.squaredDistance(child)
				if vc.AddSceneNode(child, d) == nil {
					q.stats.PoolExhausted++
				} else {
					q.inserted[child.ID] = struct{}{}
					q.cur[child.ID] = visEntry{entityID: child.EntityID, squaredDistance: d}
					q.curOrder = append(q.curOrder, child.ID)
					q.stats.Visible++
				}
			}
			q.traverse(vc, child, region, depth)
		}
	}
}

// inView tests n's world bounds against the frustum. Unbounded containers
// and anchors always pass.
func (q *CullQuery) inView(n *Node, f *Frustum) bool {
	if !q.cull {
		return true
	}
	if !n.hasBounds && (n.Type == NodeTypeContainer || n.Type == NodeTypeAnchor) {
		return true
	}
	return f.IntersectsAABB(n.worldBounds())
}

func (q *CullQuery) squaredDistance(n *Node) float64 {
	return n.worldTransform.Col(3).Vec3().Sub(q.camPos).LenSqr()
}

// enterPortal narrows the view to the portal opening and traverses its
// target cell.
func (q *CullQuery) enterPortal(vc *VisContainer, portal *Node, region *cullRegion, depth int) {
	if len(portal.Vertices) < 3 {
		q.malformedPortal(portal, "fewer than three vertices")
		return
	}
	target := q.scene.Find(portal.Target)
	switch {
	case portal.Target == "" || target == nil:
		q.malformedPortal(portal, "target cell not found")
		return
	case !target.Type.isContainerType():
		q.malformedPortal(portal, "target is a "+target.Type.String())
		return
	}
	if !target.Visible || depth >= q.maxDepth || slices.Contains(q.active, target) {
		return
	}

	verts := q.vertBuf[:0]
	for _, v := range portal.Vertices {
		verts = append(verts, portal.worldTransform.Mul4x1(v.Vec4(1)).Vec3())
	}
	q.vertBuf = verts

	rect, zNear := region.rect, 0.0
	if q.cull {
		normal := verts[1].Sub(verts[0]).Cross(verts[2].Sub(verts[0]))
		if normal.Dot(q.camPos.Sub(verts[0])) < 0 {
			// Facing away from the camera.
			return
		}
		if !region.frustum.IntersectsAABB(boundsOfPoints(verts)) {
			q.stats.Pruned++
			return
		}
		var ok bool
		rect, zNear, ok = q.portalRect(verts, region.rect)
		if !ok {
			q.stats.Pruned++
			return
		}
	}

	q.scene.GetWorldTransform(target)
	screen := rect.toViewport(q.viewport)
	tc := q.containerOf[target.ID]
	if tc == nil {
		tc = vc.addContainer(target, q.squaredDistance(target))
		if tc == nil {
			q.stats.PoolExhausted++
			return
		}
		q.containerOf[target.ID] = tc
		q.inserted[target.ID] = struct{}{}
		q.stats.Containers++
		tc.ndc = rect
		tc.proj = Projection{Rect: screen, ZNear: zNear, ZFar: 1}
	} else {
		tc.ndc = ndcRect{
			x0: math.Min(tc.ndc.x0, rect.x0),
			y0: math.Min(tc.ndc.y0, rect.y0),
			x1: math.Max(tc.ndc.x1, rect.x1),
			y1: math.Max(tc.ndc.y1, rect.y1),
		}
		tc.proj.Rect = tc.proj.Rect.Union(screen)
		tc.proj.ZNear = math.Min(tc.proj.ZNear, zNear)
	}
	vc.addPortal(portal, tc, screen)
	q.stats.Portals++

	narrowed := q.region(rect)
	q.active = append(q.active, target)
	q.traverse(tc, target, &narrowed, depth+1)
	q.active[len(q.active)-1] = nil
	q.active = q.active[:len(q.active)-1]
}

// portalRect projects the portal polygon and intersects its NDC bounding
// rectangle with current. A vertex at or behind the eye plane makes the
// projection unbounded, so current is kept as is.
func (q *CullQuery) portalRect(verts []mgl64.Vec3, current ndcRect) (ndcRect, float64, bool) {
	inf := math.Inf(1)
	r := ndcRect{inf, inf, -inf, -inf}
	zNear := 1.0
	for _, v := range verts {
		clip := q.viewProj.Mul4x1(v.Vec4(1))
		if clip[3] <= 1e-9 {
			return current, 0, true
		}
		x, y, z := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
		r.x0 = math.Min(r.x0, x)
		r.y0 = math.Min(r.y0, y)
		r.x1 = math.Max(r.x1, x)
		r.y1 = math.Max(r.y1, y)
		zNear = math.Min(zNear, z*0.5+0.5)
	}
	out, ok := current.intersect(r)
	return out, math.Max(zNear, 0), ok
}

func (q *CullQuery) malformedPortal(portal *Node, reason string) {
	q.stats.MalformedPortals++
	logMalformedPortal(q.camera, errMalformedPortal(portal, reason))
}

// finalize freezes the tree and publishes the frame's stats and events.
func (q *CullQuery) finalize(d time.Duration) {
	q.state = CullFinalized
	q.stats.Duration = d
	instrumentCull(q.camera.Name, q.stats)
	if q.scene.debug {
		debugLogCull(q)
	}
	if q.scene.store != nil {
		q.emitEvents(q.scene.store)
	}
}

// emitEvents reports nodes that entered or left the view since the previous
// frame, entered first, each group in discovery order.
func (q *CullQuery) emitEvents(store EntityStore) {
	for _, id := range q.curOrder {
		if _, seen := q.prev[id]; seen {
			continue
		}
		e := q.cur[id]
		store.EmitEvent(VisibilityEvent{
			Type:            EventEnterView,
			CameraID:        q.camera.ID,
			NodeID:          id,
			EntityID:        e.entityID,
			SquaredDistance: e.squaredDistance,
		})
	}
	for _, id := range q.prevOrder {
		if _, still := q.cur[id]; still {
			continue
		}
		e := q.prev[id]
		store.EmitEvent(VisibilityEvent{
			Type:            EventLeaveView,
			CameraID:        q.camera.ID,
			NodeID:          id,
			EntityID:        e.entityID,
			SquaredDistance: e.squaredDistance,
		})
	}
}
