package thicket

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// debugLogCull logs the stats of a finished traversal. Only called when the
// scene is in debug mode.
func debugLogCull(q *CullQuery) {
	st := q.stats
	logs.WithTag("camera", q.camera.Name).
		WithTag("camera_id", q.camera.ID).
		WithTag("visible", st.Visible).
		WithTag("containers", st.Containers).
		WithTag("pruned", st.Pruned).
		WithTag("portals", st.Portals).
		WithTag("malformed_portals", st.MalformedPortals).
		WithTag("pool_exhausted", st.PoolExhausted).
		WithTag("duration", st.Duration.String()).
		Debug("cull finished")
}

// logCullAbort reports a camera whose frame produced no visibility tree.
func logCullAbort(cam *Camera, err error) {
	instrumentCullAbort(cam.Name)
	logs.WithTag("camera", cam.Name).
		WithTag("camera_id", cam.ID).
		Warn(err)
}

// logMalformedPortal reports a portal skipped during traversal.
func logMalformedPortal(cam *Camera, err error) {
	logs.WithTag("camera", cam.Name).Warn(err)
}

// logStaleReference is hit when a consumer reads a visibility node whose
// scene node was destroyed after the traversal.
func logStaleReference(id uint32) {
	logs.WithTag("node_id", id).Debug(errStaleReference(id))
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logs.WithTag("node", n.Path()).
			WithTag("depth", depth).
			WithTag("threshold", debugMaxTreeDepth).
			Warn("tree depth exceeds threshold")
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logs.WithTag("node", n.Path()).
			WithTag("children", len(n.children)).
			WithTag("threshold", debugMaxChildCount).
			Warn("child count exceeds threshold")
	}
}
