package thicket

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 fields of a Node simultaneously, or
// slerps its rotation. Create one via TweenPosition, TweenScale or
// TweenRotation and either call Update(dt) each frame or hand it to
// Scene.AddTween. The group writes values and marks the node dirty. If the
// target node is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float64

	// rotation tweens drive a 0..1 slerp factor in tweens[0].
	rotFrom, rotTo mgl64.Quat
	rotation       bool

	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node dirty. If the target node has been disposed, Done is set
// to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		if g.rotation {
			t := float64(val)
			if finished {
				t = 1
			}
			g.target.Rotation = mgl64.QuatSlerp(g.rotFrom, g.rotTo, t)
		} else {
			*g.fields[i] = float64(val)
		}
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// TweenPosition creates a TweenGroup that animates node.Position to the given
// local position over the specified duration using the easing function.
func TweenPosition(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Position, to, duration, fn)
}

// TweenScale creates a TweenGroup that animates node.Scale to the given values
// over the specified duration using the easing function.
func TweenScale(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Scale, to, duration, fn)
}

func tweenVec3(node *Node, v *mgl64.Vec3, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(v[i]), float32(to[i]), duration, fn)
		g.fields[i] = &v[i]
	}
	return g
}

// TweenRotation creates a TweenGroup that slerps node.Rotation to the target
// orientation over the specified duration using the easing function.
func TweenRotation(node *Node, to mgl64.Quat, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{
		count:    1,
		target:   node,
		rotation: true,
		rotFrom:  node.Rotation.Normalize(),
		rotTo:    to.Normalize(),
	}
	g.tweens[0] = gween.New(0, 1, duration, fn)
	return g
}
