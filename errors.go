package thicket

import "github.com/aukilabs/go-tooling/pkg/errors"

// Error types attached to errors returned or logged by thicket. Check them
// with errors.Type from github.com/aukilabs/go-tooling/pkg/errors.
const (
	ErrTypeDuplicateName   = "thicket_duplicate_name"
	ErrTypeInvalidParent   = "thicket_invalid_parent"
	ErrTypeInvalidNode     = "thicket_invalid_node"
	ErrTypeInvalidName     = "thicket_invalid_name"
	ErrTypeCycleDetected   = "thicket_cycle_detected"
	ErrTypePoolExhausted   = "thicket_pool_exhausted"
	ErrTypeMalformedPortal = "thicket_malformed_portal"
	ErrTypeStaleReference  = "thicket_stale_reference"
	ErrTypeDetachedCamera  = "thicket_detached_camera"
)

func errDuplicateName(parent *Node, name string) error {
	return errors.New("a sibling already uses this name").
		WithType(ErrTypeDuplicateName).
		WithTag("parent", parent.Path()).
		WithTag("name", name)
}

func errInvalidParent(reason string) error {
	return errors.New("invalid parent: " + reason).
		WithType(ErrTypeInvalidParent)
}

func errInvalidNode(reason string) error {
	return errors.New("invalid node: " + reason).
		WithType(ErrTypeInvalidNode)
}

func errInvalidName(name string) error {
	return errors.New("node names must be non-empty and must not contain '/'").
		WithType(ErrTypeInvalidName).
		WithTag("name", name)
}

func errCycleDetected(node, newParent *Node) error {
	return errors.New("new parent is the node itself or one of its descendants").
		WithType(ErrTypeCycleDetected).
		WithTag("node", node.Path()).
		WithTag("new_parent", newParent.Path())
}

func errPoolExhausted(c *VisContainer, node *Node) error {
	return errors.New("visibility pool exhausted").
		WithType(ErrTypePoolExhausted).
		WithTag("container", c.key).
		WithTag("limit", c.limit).
		WithTag("node", node.Path())
}

func errMalformedPortal(portal *Node, reason string) error {
	return errors.New("malformed portal: " + reason).
		WithType(ErrTypeMalformedPortal).
		WithTag("portal", portal.Path()).
		WithTag("target", portal.Target)
}

func errStaleReference(id uint32) error {
	return errors.New("visibility node references a destroyed scene node").
		WithType(ErrTypeStaleReference).
		WithTag("node_id", id)
}

func errDetachedCamera(cam *Camera) error {
	return errors.New("camera node is not attached to the scene").
		WithType(ErrTypeDetachedCamera).
		WithTag("camera", cam.Name)
}
