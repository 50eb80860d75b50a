package thicket

// NodeRef is a non-owning handle to a Node. It stops resolving as soon as the
// node is removed from its scene, so holders never observe a destroyed node.
type NodeRef struct {
	node *Node
	id   uint32
}

// RefOf returns a handle to n. Handles to detached nodes never resolve.
func RefOf(n *Node) NodeRef {
	if n == nil {
		return NodeRef{}
	}
	return NodeRef{node: n, id: n.ID}
}

// Get returns the referenced node, or nil if it was destroyed.
func (r NodeRef) Get() *Node {
	if r.node == nil || r.id == 0 || r.node.disposed || r.node.ID != r.id {
		return nil
	}
	return r.node
}

// ID returns the node ID captured when the handle was made.
func (r NodeRef) ID() uint32 {
	return r.id
}

// refers reports whether the handle was made for n, even if n has since been
// destroyed.
func (r NodeRef) refers(n *Node) bool {
	return r.node == n
}
