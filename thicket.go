package thicket

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Only the debug renderer and viewer consume colors; the visibility core is
// color-agnostic.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default wireframe color.
var ColorWhite = Color{1, 1, 1, 1}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.X+r.Width, other.X+other.Width)
	y1 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// NodeType distinguishes traversal behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node, becomes a nested VisContainer
	NodeTypeCell                      // container entered only through portals
	NodeTypePortal                    // opening into a target cell
	NodeTypeGeometry                  // drawable leaf
	NodeTypeAnchor                    // pure transform, children traversed in place
)

// String returns the lower-case name of the node type.
func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeCell:
		return "cell"
	case NodeTypePortal:
		return "portal"
	case NodeTypeGeometry:
		return "geometry"
	case NodeTypeAnchor:
		return "anchor"
	default:
		return "unknown"
	}
}

// isContainerType reports whether nodes of type t own a VisContainer.
func (t NodeType) isContainerType() bool {
	return t == NodeTypeContainer || t == NodeTypeCell
}

// VisKind discriminates the two visibility entity variants.
type VisKind uint8

const (
	VisKindLeaf      VisKind = iota // a single visible scene node
	VisKindContainer                // a container with children of its own
)

// EventType identifies a kind of visibility event.
type EventType uint8

const (
	EventEnterView EventType = iota // node became visible to a camera this frame
	EventLeaveView                  // node was visible last frame and is not anymore
)
