package thicket

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// VisNode is one scene node as seen from one camera in one frame. All
// matrices are copies frozen at traversal time.
type VisNode struct {
	kind VisKind
	ref  NodeRef

	// SquaredDistance is the squared distance from the node's world position
	// to the camera. Never negative.
	SquaredDistance float64

	World               mgl64.Mat4
	WorldView           mgl64.Mat4
	WorldViewProjection mgl64.Mat4

	parent    *VisContainer
	container *VisContainer // set when kind == VisKindContainer
}

// Kind returns the variant of this visibility entity.
func (v *VisNode) Kind() VisKind {
	return v.kind
}

// IsContainer reports whether this entity is a VisContainer.
func (v *VisNode) IsContainer() bool {
	return v.kind == VisKindContainer
}

// Container returns the VisContainer behind this entity, or nil for leaves.
func (v *VisNode) Container() *VisContainer {
	return v.container
}

// Parent returns the container this entity was discovered in, nil for a root.
func (v *VisNode) Parent() *VisContainer {
	return v.parent
}

// SceneNode returns the scene node this entity represents, or nil if that
// node has been destroyed since the traversal.
func (v *VisNode) SceneNode() *Node {
	n := v.ref.Get()
	if n == nil && v.ref.id != 0 {
		logStaleReference(v.ref.id)
	}
	return n
}

// NodeID returns the ID the scene node had at traversal time.
func (v *VisNode) NodeID() uint32 {
	return v.ref.id
}

// fill populates v from n's current world transform and the container's
// camera matrices.
func (v *VisNode) fill(n *Node, c *VisContainer, squaredDistance float64) {
	v.ref = RefOf(n)
	if squaredDistance < 0 {
		squaredDistance = 0
	}
	v.SquaredDistance = squaredDistance
	v.World = n.worldTransform
	v.WorldView = c.viewMat.Mul4(v.World)
	v.WorldViewProjection = c.projMat.Mul4(v.WorldView)
	v.parent = c
}

func (v *VisNode) reset() {
	v.ref = NodeRef{}
	v.SquaredDistance = 0
	v.parent = nil
}

// SortByDistance sorts nodes by squared camera distance, nearest first when
// frontToBack is true. The sort is stable so equal distances keep discovery
// order. Visibility trees are never pre-sorted; renderers call this on their
// own copy when draw order matters.
func SortByDistance(nodes []*VisNode, frontToBack bool) {
	slices.SortStableFunc(nodes, func(a, b *VisNode) int {
		return compareDistance(a.SquaredDistance, b.SquaredDistance, frontToBack)
	})
}

func sortDrawItems(items []DrawItem, frontToBack bool) {
	slices.SortStableFunc(items, func(a, b DrawItem) int {
		return compareDistance(a.Node.SquaredDistance, b.Node.SquaredDistance, frontToBack)
	})
}

func compareDistance(a, b float64, frontToBack bool) int {
	c := cmp.Compare(a, b)
	if !frontToBack {
		c = -c
	}
	return c
}
