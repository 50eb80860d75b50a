package thicket

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl64.Vec3
}

// Box returns an AABB centered on center with the given half extents.
func Box(center, halfExtents mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the half size of the box along each axis.
func (b AABB) Extents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Radius returns the radius of the sphere enclosing the box.
func (b AABB) Radius() float64 {
	return b.Extents().Len()
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
	}
}

// Transform returns the world-space AABB enclosing b after applying m.
// Uses Arvo's method: zero allocations, no corner enumeration.
func (b AABB) Transform(m mgl64.Mat4) AABB {
	var out AABB
	for i := 0; i < 3; i++ {
		t := m.At(i, 3)
		out.Min[i], out.Max[i] = t, t
		for j := 0; j < 3; j++ {
			e := m.At(i, j)
			lo, hi := e*b.Min[j], e*b.Max[j]
			if lo > hi {
				lo, hi = hi, lo
			}
			out.Min[i] += lo
			out.Max[i] += hi
		}
	}
	return out
}

// boundsOfPoints returns the smallest AABB containing every point.
func boundsOfPoints(points []mgl64.Vec3) AABB {
	inf := math.Inf(1)
	b := AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			b.Min[i] = math.Min(b.Min[i], p[i])
			b.Max[i] = math.Max(b.Max[i], p[i])
		}
	}
	return b
}

// SetBounds sets the node's local-space bounding box.
func (n *Node) SetBounds(b AABB) {
	n.bounds = b
	n.hasBounds = true
}

// ClearBounds removes the node's bounding box. Unbounded containers and
// anchors are never culled; unbounded leaves are tested as a point.
func (n *Node) ClearBounds() {
	n.bounds = AABB{}
	n.hasBounds = false
}

// Bounds returns the local-space bounding box and whether one is set.
func (n *Node) Bounds() (AABB, bool) {
	return n.bounds, n.hasBounds
}

// worldBounds returns the node's world-space AABB. The world transform must
// be current. Unbounded nodes yield a degenerate box at their world origin.
func (n *Node) worldBounds() AABB {
	if !n.hasBounds {
		p := n.worldTransform.Col(3).Vec3()
		return AABB{Min: p, Max: p}
	}
	return n.bounds.Transform(n.worldTransform)
}
