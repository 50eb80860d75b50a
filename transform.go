package thicket

import "github.com/go-gl/mathgl/mgl64"

// computeLocalTransform computes the local matrix from the node's transform
// properties.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(Position)
func computeLocalTransform(n *Node) mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	r := n.Rotation.Normalize().Mat4()
	s := mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// refreshWorld recomputes n's world transform if it is flagged dirty. The
// parent's world transform must already be current. Clearing the flag pushes
// it down to the direct children so their caches are revalidated lazily.
func refreshWorld(n *Node) {
	if !n.transformDirty {
		return
	}
	local := computeLocalTransform(n)
	if n.Parent != nil {
		n.worldTransform = n.Parent.worldTransform.Mul4(local)
	} else {
		n.worldTransform = local
	}
	n.transformDirty = false
	for _, child := range n.children {
		child.transformDirty = true
	}
}

// worldTransformOf makes n's world transform current and returns it. buf is
// scratch space for the ancestor path and is returned for reuse.
//
// Only the path from the topmost dirty ancestor down to n is recomputed; a
// clean chain costs one walk to the root.
func worldTransformOf(n *Node, buf []*Node) (mgl64.Mat4, []*Node) {
	path := buf[:0]
	top := -1
	for p := n; p != nil; p = p.Parent {
		path = append(path, p)
		if p.transformDirty {
			top = len(path) - 1
		}
	}
	for i := top; i >= 0; i-- {
		refreshWorld(path[i])
	}
	for i := range path {
		path[i] = nil
	}
	return n.worldTransform, path[:0]
}

// updateWorldTransform refreshes the whole subtree under n top-down. n's
// parent must be current.
func updateWorldTransform(n *Node) {
	refreshWorld(n)
	for _, child := range n.children {
		updateWorldTransform(child)
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(p mgl64.Vec3) {
	n.Position = p
	n.transformDirty = true
}

// SetRotation sets the node's local rotation and marks it dirty.
func (n *Node) SetRotation(q mgl64.Quat) {
	n.Rotation = q
	n.transformDirty = true
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(s mgl64.Vec3) {
	n.Scale = s
	n.transformDirty = true
}

// Translate moves the node by d in its parent's space and marks it dirty.
func (n *Node) Translate(d mgl64.Vec3) {
	n.Position = n.Position.Add(d)
	n.transformDirty = true
}

// Rotate applies q after the node's current rotation and marks it dirty.
func (n *Node) Rotate(q mgl64.Quat) {
	n.Rotation = q.Mul(n.Rotation).Normalize()
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation on
// next access. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// LocalTransform returns the node's local matrix.
func (n *Node) LocalTransform() mgl64.Mat4 {
	return computeLocalTransform(n)
}

// WorldPosition returns the node's world-space origin, refreshing the cached
// world transform if needed.
func (n *Node) WorldPosition() mgl64.Vec3 {
	m, _ := worldTransformOf(n, nil)
	return m.Col(3).Vec3()
}
