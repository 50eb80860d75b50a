package thicket

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, visibility events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event VisibilityEvent)
}

// Scene owns the node tree and cameras. It is an explicit context object:
// node IDs, debug mode and the entity store live here rather than in
// package-level state.
type Scene struct {
	root  *Node
	store EntityStore
	debug bool

	nextID  uint32
	cameras []*Camera
	tweens  []*TweenGroup

	pathBuf []*Node
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	s := &Scene{}
	root := NewContainer()
	root.Name = "root"
	s.adopt(root)
	s.root = root
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// --- Graph mutation ---

// AddChild attaches node under parent with the given name. The node and any
// children it already has join the scene. The node is marked dirty.
func (s *Scene) AddChild(parent *Node, name string, node *Node) error {
	if err := s.checkParent(parent); err != nil {
		return err
	}
	switch {
	case node == nil:
		return errInvalidNode("nil node")
	case node.disposed:
		return errInvalidNode("node was removed from a scene")
	case node.Parent != nil || node.scene != nil:
		return errInvalidNode("node is already attached; use Reparent")
	case node == parent:
		return errInvalidNode("node cannot be its own parent")
	}
	if name == "" || strings.Contains(name, "/") {
		return errInvalidName(name)
	}
	if parent.byName[name] != nil {
		return errDuplicateName(parent, name)
	}

	node.Name = name
	s.adopt(node)
	parent.attach(node)
	if s.debug {
		debugCheckTreeDepth(node)
		debugCheckChildCount(parent)
	}
	return nil
}

// RemoveNode detaches node from its parent and destroys it together with its
// descendants. Every destroy listener of every destroyed node is notified.
func (s *Scene) RemoveNode(node *Node) error {
	switch {
	case node == nil:
		return errInvalidNode("nil node")
	case node.scene != s || node.disposed:
		return errInvalidNode("node does not belong to this scene")
	case node == s.root:
		return errInvalidNode("the root cannot be removed")
	}
	parent := node.Parent
	node.dispose()
	parent.detach(node)
	return nil
}

// Reparent moves node under newParent, keeping its name and subtree. Fails
// with CycleDetected, leaving the graph untouched, if newParent is node or one
// of its descendants.
func (s *Scene) Reparent(node, newParent *Node) error {
	switch {
	case node == nil:
		return errInvalidNode("nil node")
	case node.scene != s || node.disposed:
		return errInvalidNode("node does not belong to this scene")
	case node == s.root:
		return errInvalidNode("the root cannot be reparented")
	}
	if err := s.checkParent(newParent); err != nil {
		return err
	}
	if isAncestor(node, newParent) {
		return errCycleDetected(node, newParent)
	}
	if node.Parent == newParent {
		return nil
	}
	if newParent.byName[node.Name] != nil {
		return errDuplicateName(newParent, node.Name)
	}
	node.Parent.detach(node)
	newParent.attach(node)
	if s.debug {
		debugCheckTreeDepth(node)
		debugCheckChildCount(newParent)
	}
	return nil
}

// GetWorldTransform returns node's world matrix. A clean cache is returned as
// is; otherwise the path from the topmost dirty ancestor down to node is
// recomputed and cached.
func (s *Scene) GetWorldTransform(node *Node) mgl64.Mat4 {
	var m mgl64.Mat4
	m, s.pathBuf = worldTransformOf(node, s.pathBuf)
	return m
}

// UpdateTransforms refreshes every dirty world transform in the scene.
func (s *Scene) UpdateTransforms() {
	updateWorldTransform(s.root)
}

// Find returns the node at the slash-separated path relative to the root, or
// nil. The empty path is the root itself.
func (s *Scene) Find(path string) *Node {
	n := s.root
	if path == "" {
		return n
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		n = n.byName[part]
		if n == nil {
			return nil
		}
	}
	return n
}

// Walk calls fn for every node depth-first, parents before children. Returning
// false from fn skips that node's subtree.
func (s *Scene) Walk(fn func(n *Node) bool) {
	walk(s.root, fn)
}

func walk(n *Node, fn func(n *Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		walk(child, fn)
	}
}

func (s *Scene) checkParent(parent *Node) error {
	switch {
	case parent == nil:
		return errInvalidParent("nil parent")
	case parent.disposed:
		return errInvalidParent("parent was removed from the scene")
	case parent.scene != s:
		return errInvalidParent("parent does not belong to this scene")
	}
	return nil
}

// adopt assigns IDs to n's subtree and binds it to the scene.
func (s *Scene) adopt(n *Node) {
	s.nextID++
	n.ID = s.nextID
	n.scene = s
	n.transformDirty = true
	for _, child := range n.children {
		s.adopt(child)
	}
}

// --- Frame ---

// Update advances tweens (including camera fly-tos) by dt seconds, then
// refreshes world transforms. Call once per frame after game logic mutated
// the graph and before culling.
func (s *Scene) Update(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live
	s.UpdateTransforms()
}

// AddTween registers g to be advanced by Update until it is done.
func (s *Scene) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// Cull runs the camera's cull query and returns the finalized visibility tree.
func (s *Scene) Cull(cam *Camera) (*VisContainer, error) {
	return cam.cullQuery(s).Execute()
}

// Draw culls every camera and hands each finalized tree to r. A camera whose
// frame aborts is logged and skipped; the first renderer error stops the pass.
func (s *Scene) Draw(r Renderer) error {
	for _, cam := range s.cameras {
		root, err := s.Cull(cam)
		if err != nil {
			logCullAbort(cam, err)
			continue
		}
		if err := r.Draw(root); err != nil {
			return err
		}
	}
	return nil
}

// NewCamera creates a camera mounted on node and adds it to the scene.
func (s *Scene) NewCamera(name string, node *Node, viewport Rect) *Camera {
	cam := newCamera(name, node, viewport)
	s.cameras = append(s.cameras, cam)
	return cam
}

// RemoveCamera removes a camera from the scene.
func (s *Scene) RemoveCamera(cam *Camera) {
	for i, c := range s.cameras {
		if c == cam {
			copy(s.cameras[i:], s.cameras[i+1:])
			s.cameras[len(s.cameras)-1] = nil
			s.cameras = s.cameras[:len(s.cameras)-1]
			if cam.query != nil {
				cam.query.Release()
			}
			return
		}
	}
}

// Camera returns the first camera with the given name, or nil.
func (s *Scene) Camera(name string) *Camera {
	for _, c := range s.cameras {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings and per-frame cull stats are logged.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}
