package thicket

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// planeEpsilon widens every plane test slightly so geometry lying exactly on
// a boundary (or a rounding error away from it) counts as visible.
const planeEpsilon = 1e-9

// Plane is a plane in 3D space: Normal·p + D = 0. Points with a positive
// signed distance are on the inner side.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(v mgl64.Vec3) float64 {
	return p.Normal.Dot(v) + p.D
}

func planeFromVec4(v mgl64.Vec4) Plane {
	p := Plane{Normal: v.Vec3(), D: v[3]}
	l := p.Normal.Len()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / l), D: p.D / l}
}

// ndcRect is a rectangle in normalized device coordinates (Y up).
type ndcRect struct {
	x0, y0, x1, y1 float64
}

var fullNDC = ndcRect{-1, -1, 1, 1}

func (r ndcRect) intersect(o ndcRect) (ndcRect, bool) {
	out := ndcRect{
		x0: math.Max(r.x0, o.x0),
		y0: math.Max(r.y0, o.y0),
		x1: math.Min(r.x1, o.x1),
		y1: math.Min(r.y1, o.y1),
	}
	return out, out.x0 <= out.x1 && out.y0 <= out.y1
}

// toViewport maps the NDC rectangle onto viewport pixels (Y down).
func (r ndcRect) toViewport(vp Rect) Rect {
	x0 := vp.X + (r.x0+1)/2*vp.Width
	x1 := vp.X + (r.x1+1)/2*vp.Width
	y0 := vp.Y + (1-r.y1)/2*vp.Height
	y1 := vp.Y + (1-r.y0)/2*vp.Height
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Frustum is a convex volume bounded by six world-space planes, ordered
// left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
	// all disables every test; used when a camera has culling turned off.
	all bool
}

// ExtractFrustum extracts the frustum planes of a view-projection matrix
// (Gribb/Hartmann).
func ExtractFrustum(viewProj mgl64.Mat4) Frustum {
	return extractFrustumRect(viewProj, fullNDC)
}

// extractFrustumRect builds the frustum of the part of the view volume that
// projects into the NDC rectangle r. With the full rectangle this is the
// classic Gribb/Hartmann extraction; smaller rectangles give the narrowed
// frustum seen through a portal.
func extractFrustumRect(vp mgl64.Mat4, r ndcRect) Frustum {
	r1, r2, r3, r4 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)
	var f Frustum
	f.Planes[0] = planeFromVec4(r1.Sub(r4.Mul(r.x0))) // x/w >= x0
	f.Planes[1] = planeFromVec4(r4.Mul(r.x1).Sub(r1)) // x/w <= x1
	f.Planes[2] = planeFromVec4(r2.Sub(r4.Mul(r.y0))) // y/w >= y0
	f.Planes[3] = planeFromVec4(r4.Mul(r.y1).Sub(r2)) // y/w <= y1
	f.Planes[4] = planeFromVec4(r4.Add(r3))           // z/w >= -1
	f.Planes[5] = planeFromVec4(r4.Sub(r3))           // z/w <= 1
	return f
}

// ContainsPoint reports whether p is inside or on the frustum.
func (f *Frustum) ContainsPoint(p mgl64.Vec3) bool {
	if f.all {
		return true
	}
	for i := range f.Planes {
		if f.Planes[i].Distance(p) < -planeEpsilon {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether the sphere is inside or intersects the frustum.
func (f *Frustum) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	if f.all {
		return true
	}
	for i := range f.Planes {
		if f.Planes[i].Distance(center) < -radius-planeEpsilon {
			return false
		}
	}
	return true
}

// IntersectsAABB reports whether the box is inside or intersects the
// frustum. A box is rejected only when it lies fully behind one plane, so a
// few boxes near frustum corners are accepted although outside; the renderer
// clips those.
func (f *Frustum) IntersectsAABB(b AABB) bool {
	if f.all {
		return true
	}
	if !f.IntersectsSphere(b.Center(), b.Radius()) {
		return false
	}
	for i := range f.Planes {
		pl := &f.Planes[i]
		// Positive vertex: the corner furthest along the plane normal.
		var pv mgl64.Vec3
		for k := 0; k < 3; k++ {
			if pl.Normal[k] >= 0 {
				pv[k] = b.Max[k]
			} else {
				pv[k] = b.Min[k]
			}
		}
		if pl.Distance(pv) < -planeEpsilon {
			return false
		}
	}
	return true
}
