package thicket

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
)

// visSlabSize is how many VisNodes a container allocates at once when its
// spare list runs dry.
const visSlabSize = 64

// Projection describes the screen region a container was seen through.
type Projection struct {
	// Rect is the clip rectangle in viewport pixels.
	Rect Rect
	// ZNear and ZFar bound the container's window depth range in [0, 1].
	ZNear, ZFar float64
}

// VisPortal records a portal crossed during traversal.
type VisPortal struct {
	ref NodeRef
	// Target is the container of the cell seen through the portal.
	Target *VisContainer
	// Rect is the clip rectangle, in viewport pixels, the cell was seen through.
	Rect Rect
}

// SceneNode returns the portal's scene node, or nil if it was destroyed.
func (p *VisPortal) SceneNode() *Node {
	return p.ref.Get()
}

// VisContainer is a VisNode with children: the visible part of one scene
// container or cell, as seen from one camera in one frame.
//
// Children are pooled. FreeNodes returns them to the pool without freeing
// their storage, so steady-state traversals do not allocate.
type VisContainer struct {
	VisNode

	key   string
	query *CullQuery
	cell  bool

	nodes      []*VisNode
	containers map[string]*VisContainer
	portals    map[string]*VisPortal
	portalList []*VisPortal

	spare        []*VisNode
	sparePortals []*VisPortal
	retired      map[string]*VisContainer

	viewMat mgl64.Mat4
	projMat mgl64.Mat4
	camPos  mgl64.Vec3
	proj    Projection
	ndc     ndcRect

	limit     int
	exhausted bool
	watched   []*Node
}

// NewVisContainer creates an unbound container whose pool holds at most limit
// nodes (0 means unlimited). Cull queries create their own; this is for
// renderers and tools that assemble trees by hand.
func NewVisContainer(limit int) *VisContainer {
	return newVisContainer("", limit)
}

func newVisContainer(key string, limit int) *VisContainer {
	c := &VisContainer{
		key:        key,
		containers: make(map[string]*VisContainer),
		portals:    make(map[string]*VisPortal),
		retired:    make(map[string]*VisContainer),
		viewMat:    mgl64.Ident4(),
		projMat:    mgl64.Ident4(),
		limit:      limit,
		ndc:        fullNDC,
		proj:       Projection{ZNear: 0, ZFar: 1},
	}
	c.kind = VisKindContainer
	c.container = c
	c.World = mgl64.Ident4()
	c.WorldView = mgl64.Ident4()
	c.WorldViewProjection = mgl64.Ident4()
	return c
}

// SetCamera sets the matrices used to fill nodes added to this container.
func (c *VisContainer) SetCamera(view, projection mgl64.Mat4, position mgl64.Vec3) {
	c.viewMat = view
	c.projMat = projection
	c.camPos = position
}

// bindRoot makes c the root of a traversal starting at source.
func (c *VisContainer) bindRoot(source *Node, q *CullQuery, proj Projection) {
	c.ref = RefOf(source)
	c.key = source.Path()
	c.parent = nil
	c.query = q
	c.proj = proj
	c.ndc = fullNDC
	c.cell = source.Type == NodeTypeCell
	c.fill(source, c, source.worldTransform.Col(3).Vec3().Sub(c.camPos).LenSqr())
	c.parent = nil
	c.watch(source)
}

// --- Pool ---

// AddSceneNode adds node as a leaf, filled from the node's current world
// transform and this container's camera matrices. Returns nil when the pool
// is exhausted: the node simply has no visual representation this frame.
func (c *VisContainer) AddSceneNode(node *Node, squaredDistance float64) *VisNode {
	if node == nil || node.disposed {
		return nil
	}
	if !c.reserve(node) {
		return nil
	}
	v := c.take()
	v.kind = VisKindLeaf
	v.container = nil
	v.fill(node, c, squaredDistance)
	c.nodes = append(c.nodes, v)
	c.watch(node)
	return v
}

// addContainer returns the child container for node, creating or reusing one
// from the previous frame. Returns nil when the pool is exhausted.
func (c *VisContainer) addContainer(node *Node, squaredDistance float64) *VisContainer {
	key := node.Path()
	if sub := c.containers[key]; sub != nil {
		return sub
	}
	if !c.reserve(node) {
		return nil
	}
	sub := c.retired[key]
	if sub != nil {
		delete(c.retired, key)
	} else {
		sub = newVisContainer(key, c.limit)
	}
	sub.viewMat, sub.projMat, sub.camPos = c.viewMat, c.projMat, c.camPos
	sub.limit = c.limit
	sub.query = c.query
	sub.proj = c.proj
	sub.ndc = c.ndc
	sub.cell = node.Type == NodeTypeCell
	sub.fill(node, c, squaredDistance)
	sub.watch(node)

	c.nodes = append(c.nodes, &sub.VisNode)
	c.containers[key] = sub
	return sub
}

// addPortal records a crossed portal leading to target.
func (c *VisContainer) addPortal(portal *Node, target *VisContainer, rect Rect) *VisPortal {
	key := portal.Path()
	if p := c.portals[key]; p != nil {
		p.Rect = p.Rect.Union(rect)
		return p
	}
	var p *VisPortal
	if n := len(c.sparePortals); n > 0 {
		p = c.sparePortals[n-1]
		c.sparePortals[n-1] = nil
		c.sparePortals = c.sparePortals[:n-1]
	} else {
		p = &VisPortal{}
	}
	p.ref = RefOf(portal)
	p.Target = target
	p.Rect = rect
	c.portals[key] = p
	c.portalList = append(c.portalList, p)
	c.watch(portal)
	return p
}

// reserve reports whether the pool has room for one more entry, logging the
// first refusal per frame.
func (c *VisContainer) reserve(node *Node) bool {
	if c.limit <= 0 || len(c.nodes) < c.limit {
		return true
	}
	if !c.exhausted {
		c.exhausted = true
		logs.Warn(errPoolExhausted(c, node))
	}
	return false
}

// take pops a spare node, growing the backing storage by one slab if needed.
func (c *VisContainer) take() *VisNode {
	if len(c.spare) == 0 {
		slab := make([]VisNode, visSlabSize)
		for i := range slab {
			c.spare = append(c.spare, &slab[i])
		}
	}
	n := len(c.spare)
	v := c.spare[n-1]
	c.spare[n-1] = nil
	c.spare = c.spare[:n-1]
	return v
}

// FreeNodes releases every child back to the pool, recursively for nested
// containers, and clears the name maps. Backing storage is kept for the next
// traversal. A second call in a row does nothing.
func (c *VisContainer) FreeNodes() {
	if len(c.nodes) == 0 && len(c.portalList) == 0 && len(c.watched) == 0 && c.query == nil {
		return
	}
	// Containers retired a frame ago and not reused since are dropped.
	clear(c.retired)
	for i, v := range c.nodes {
		if sub := v.container; sub != nil {
			sub.FreeNodes()
			sub.reset()
			if sub.key != "" {
				c.retired[sub.key] = sub
			}
		} else {
			v.reset()
			c.spare = append(c.spare, v)
		}
		c.nodes[i] = nil
	}
	c.nodes = c.nodes[:0]
	clear(c.containers)

	for i, p := range c.portalList {
		p.ref = NodeRef{}
		p.Target = nil
		p.Rect = Rect{}
		c.sparePortals = append(c.sparePortals, p)
		c.portalList[i] = nil
	}
	c.portalList = c.portalList[:0]
	clear(c.portals)

	for i, n := range c.watched {
		n.unwatch(c)
		c.watched[i] = nil
	}
	c.watched = c.watched[:0]
	c.query = nil
	c.exhausted = false
}

func (c *VisContainer) watch(n *Node) {
	n.watch(c)
	c.watched = append(c.watched, n)
}

// NotifyDestroy clears every back-reference this container holds to n. When
// n is the container's own scene node, the container empties itself and
// leaves its parent's name map.
func (c *VisContainer) NotifyDestroy(n *Node) {
	for i, w := range c.watched {
		if w == n {
			copy(c.watched[i:], c.watched[i+1:])
			c.watched[len(c.watched)-1] = nil
			c.watched = c.watched[:len(c.watched)-1]
			break
		}
	}
	if c.ref.refers(n) {
		c.FreeNodes()
		c.ref = NodeRef{}
		if c.parent != nil && c.parent.containers[c.key] == c {
			delete(c.parent.containers, c.key)
		}
		return
	}
	for _, v := range c.nodes {
		if v.kind == VisKindLeaf && v.ref.refers(n) {
			// Keep the ID so reads are reported as stale.
			v.ref.node = nil
		}
	}
	for key, p := range c.portals {
		if p.ref.refers(n) {
			p.ref = NodeRef{}
			delete(c.portals, key)
		}
	}
}

// --- Accessors ---

// GetCullQuery returns the query that frustum-tested this container in the
// current frame, or nil when the container is unbound, freed, or was built
// with culling disabled.
func (c *VisContainer) GetCullQuery() *CullQuery {
	return c.query
}

// Nodes returns the pooled children in discovery order. The returned slice
// MUST NOT be mutated by the caller.
func (c *VisContainer) Nodes() []*VisNode {
	return c.nodes
}

// Len returns the number of pooled children.
func (c *VisContainer) Len() int {
	return len(c.nodes)
}

// Key returns the scene path this container was built for.
func (c *VisContainer) Key() string {
	return c.key
}

// Container returns the child container built for the scene node at path.
func (c *VisContainer) Container(path string) *VisContainer {
	return c.containers[path]
}

// Containers returns the child containers in discovery order.
func (c *VisContainer) Containers() []*VisContainer {
	var out []*VisContainer
	for _, v := range c.nodes {
		if v.container != nil {
			out = append(out, v.container)
		}
	}
	return out
}

// Portal returns the record of the portal at path, if it was crossed.
func (c *VisContainer) Portal(path string) *VisPortal {
	return c.portals[path]
}

// Portals returns the crossed portals in discovery order, including ones
// whose scene node has since been destroyed. The returned slice MUST NOT be
// mutated by the caller.
func (c *VisContainer) Portals() []*VisPortal {
	return c.portalList
}

// Projection returns the clip rectangle and depth range of this container.
func (c *VisContainer) Projection() Projection {
	return c.proj
}

// IsCell reports whether the container was built for a cell.
func (c *VisContainer) IsCell() bool {
	return c.cell
}

// Walk calls fn for every pooled entry depth-first in discovery order,
// descending into nested containers. Returning false from fn skips the
// entry's children.
func (c *VisContainer) Walk(fn func(v *VisNode) bool) {
	for _, v := range c.nodes {
		if !fn(v) {
			continue
		}
		if sub := v.container; sub != nil {
			sub.Walk(fn)
		}
	}
}

// CountLeaves returns the number of leaves in the whole tree under c.
func (c *VisContainer) CountLeaves() int {
	count := 0
	c.Walk(func(v *VisNode) bool {
		if v.kind == VisKindLeaf {
			count++
		}
		return true
	})
	return count
}
