// Package thicket is the scene-visibility core of a real-time 3D engine.
//
// Thicket owns the scene graph and transform hierarchy, and turns it, once per
// frame and per camera, into a pruned tree of what that camera can see:
// frustum culling for open space, portal culling for indoor cells. Drawing is
// left to a [Renderer]; thicket ships a wireframe [DebugRenderer] built on
// [Ebitengine].
//
// # Quick start
//
//	scene := thicket.NewScene()
//	room := thicket.NewCell()
//	scene.AddChild(scene.Root(), "room", room)
//
//	crate := thicket.NewGeometry(thicket.Box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))
//	crate.SetPosition(mgl64.Vec3{0, 0, -5})
//	scene.AddChild(room, "crate", crate)
//
//	eye := thicket.NewAnchor()
//	scene.AddChild(room, "eye", eye)
//	cam := scene.NewCamera("main", eye, thicket.Rect{Width: 960, Height: 540})
//
//	scene.Update(dt)
//	tree, err := scene.Cull(cam)
//
// [Run] wraps the same loop in a window.
//
// # Scene graph
//
// Every element is a [Node] with a [NodeType]: containers group nodes and
// become nested visibility containers; cells are containers that traversal
// only enters through portals; portals are convex openings into a target
// cell; geometry nodes are drawable leaves; anchors are pure transforms.
//
// Node IDs are assigned by the owning [Scene]. World transforms are cached
// and recomputed lazily along the dirty path on access.
//
// # Visibility trees
//
// [Scene.Cull] runs the camera's [CullQuery] and returns a [VisContainer].
// Nodes in it are pooled: the tree stays valid until the next cull of the
// same camera. Entries hold weak references, so a scene node removed after
// the traversal reads back as nil. Trees are in discovery order; renderers
// sort with [SortByDistance] or [DrawList].
//
// # Events
//
// With an [EntityStore] set, each cull reports nodes entering and leaving the
// camera's view. The thicket/ecs module publishes them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package thicket
