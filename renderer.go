package thicket

// Renderer consumes a finalized visibility tree. The tree is not mutated for
// the duration of the call.
type Renderer interface {
	Draw(root *VisContainer) error
}

// DrawItem is one leaf of a visibility tree together with the container
// it was discovered in.
type DrawItem struct {
	Node      *VisNode
	Container *VisContainer
}

// DrawList collects the leaves of a visibility tree into buf, reusing its
// storage, and orders them by camera distance. Back-to-front suits
// translucent geometry and painter's algorithms; front-to-back suits
// depth-tested opaque geometry.
func DrawList(root *VisContainer, buf []DrawItem, frontToBack bool) []DrawItem {
	buf = buf[:0]
	if root == nil {
		return buf
	}
	root.Walk(func(v *VisNode) bool {
		if v.kind == VisKindLeaf {
			buf = append(buf, DrawItem{Node: v, Container: v.parent})
		}
		return true
	})
	sortDrawItems(buf, frontToBack)
	return buf
}
