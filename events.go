package thicket

// VisibilityEvent reports a node entering or leaving a camera's view. Events
// are computed by diffing the visible leaves of consecutive frames and are
// delivered to the scene's EntityStore after each traversal.
type VisibilityEvent struct {
	Type     EventType
	CameraID string
	NodeID   uint32
	// EntityID is the ECS entity the node is bound to, 0 if none.
	EntityID uint32
	// SquaredDistance is the distance to the camera in the frame the node was
	// last seen.
	SquaredDistance float64
}

// String returns the lower-case name of the event type.
func (t EventType) String() string {
	switch t {
	case EventEnterView:
		return "enter_view"
	case EventLeaveView:
		return "leave_view"
	default:
		return "unknown"
	}
}
