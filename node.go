package thicket

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Node is the fundamental scene graph element. A single flat struct is used
// for all node types to avoid interface dispatch on the traversal hot path.
type Node struct {
	// Identity. ID is assigned by the owning Scene and zeroed on destruction.
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node
	byName   map[string]*Node
	scene    *Scene

	// Transform (local)
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3

	// Computed
	worldTransform mgl64.Mat4
	transformDirty bool

	// Bounds (local space)
	bounds    AABB
	hasBounds bool

	// Visible false prunes the node and its subtree from every traversal.
	Visible bool

	// Portal fields (NodeTypePortal)
	Target   string       // slash-separated path of the target cell
	Vertices []mgl64.Vec3 // local-space convex polygon

	// Metadata
	UserData any
	EntityID uint32

	listeners []DestroyListener
	disposed  bool
}

func nodeDefaults(n *Node) {
	n.Rotation = mgl64.QuatIdent()
	n.Scale = mgl64.Vec3{1, 1, 1}
	n.worldTransform = mgl64.Ident4()
	n.Visible = true
	n.transformDirty = true
}

// NewContainer creates a group node. Each visible container gets its own
// nested VisContainer during culling.
func NewContainer() *Node {
	n := &Node{Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewCell creates a container that traversal only enters through a portal.
func NewCell() *Node {
	n := &Node{Type: NodeTypeCell}
	nodeDefaults(n)
	return n
}

// NewGeometry creates a drawable leaf with the given local-space bounds.
func NewGeometry(bounds AABB) *Node {
	n := &Node{Type: NodeTypeGeometry}
	nodeDefaults(n)
	n.SetBounds(bounds)
	return n
}

// NewAnchor creates a pure transform node. Anchors never show up in a
// visibility tree; their children are traversed as if they were siblings.
// Cameras are usually mounted on anchors.
func NewAnchor() *Node {
	n := &Node{Type: NodeTypeAnchor}
	nodeDefaults(n)
	return n
}

// NewPortal creates a portal into the cell at target (a slash-separated path
// from the scene root). vertices is a convex polygon in the portal's local
// space, wound counter-clockwise when seen from the side the portal faces.
func NewPortal(target string, vertices ...mgl64.Vec3) *Node {
	n := &Node{Type: NodeTypePortal, Target: target}
	nodeDefaults(n)
	n.Vertices = append([]mgl64.Vec3(nil), vertices...)
	if len(vertices) > 0 {
		n.bounds = boundsOfPoints(vertices)
		n.hasBounds = true
	}
	return n
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// ChildByName returns the direct child with the given name, or nil.
func (n *Node) ChildByName(name string) *Node {
	return n.byName[name]
}

// Scene returns the scene the node is attached to, or nil.
func (n *Node) Scene() *Scene {
	return n.scene
}

// IsDisposed returns true if this node has been removed from its scene.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// Path returns the slash-separated names from the scene root (exclusive) down
// to this node. The root's path is the empty string.
func (n *Node) Path() string {
	if n == nil {
		return ""
	}
	depth := 0
	for p := n; p.Parent != nil; p = p.Parent {
		depth++
	}
	if depth == 0 {
		return ""
	}
	parts := make([]string, depth)
	for p := n; p.Parent != nil; p = p.Parent {
		depth--
		parts[depth] = p.Name
	}
	return strings.Join(parts, "/")
}

// container returns the nearest ancestor-or-self that owns a VisContainer.
func (n *Node) container() *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type.isContainerType() {
			return p
		}
	}
	return nil
}

// --- Destroy listeners ---

// DestroyListener is notified when a node it watches is removed from its scene.
type DestroyListener interface {
	NotifyDestroy(n *Node)
}

// watch registers l to be notified when n is destroyed. Registering the same
// listener twice is a no-op.
func (n *Node) watch(l DestroyListener) {
	for _, existing := range n.listeners {
		if existing == l {
			return
		}
	}
	n.listeners = append(n.listeners, l)
}

// unwatch removes l from n's listeners.
func (n *Node) unwatch(l DestroyListener) {
	for i, existing := range n.listeners {
		if existing == l {
			copy(n.listeners[i:], n.listeners[i+1:])
			n.listeners[len(n.listeners)-1] = nil
			n.listeners = n.listeners[:len(n.listeners)-1]
			return
		}
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// attach links child under n. Callers have validated the operation.
func (n *Node) attach(child *Node) {
	child.Parent = n
	n.children = append(n.children, child)
	if n.byName == nil {
		n.byName = make(map[string]*Node)
	}
	n.byName[child.Name] = child
	child.transformDirty = true
}

// detach removes child from n.children without touching child's subtree.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) detach(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			break
		}
	}
	delete(n.byName, child.Name)
	child.Parent = nil
}

// dispose destroys n and its subtree depth-first, children before parents,
// notifying listeners of every destroyed node.
func (n *Node) dispose() {
	for _, child := range n.children {
		child.dispose()
	}
	listeners := n.listeners
	n.listeners = nil
	for _, l := range listeners {
		l.NotifyDestroy(n)
	}
	n.disposed = true
	n.ID = 0
	n.children = nil
	n.byName = nil
	n.Parent = nil
	n.scene = nil
	n.UserData = nil
}
