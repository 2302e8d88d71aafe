package model

import "time"

// Event types appended by the lifecycle. The event log is append-only and is
// the sole source of history truth for a work order.
const (
	EventWorkOrderCreated    = "work_order_created"
	EventWorkOrderUpdated    = "work_order_updated"
	EventStatusChanged       = "status_changed"
	EventHoldChanged         = "hold_changed"
	EventAssignmentCreated   = "assignment_created"
	EventAssignmentRemoved   = "assignment_removed"
	EventPartCreated         = "part_created"
	EventPartUpdated         = "part_updated"
	EventCommentAdded        = "comment_added"
	EventCompletionSubmitted = "completion_submitted"
	EventCompletionReviewed  = "completion_reviewed"
	EventWorkOrderClosed     = "work_order_closed"
)

// Event is an immutable audit record for a single lifecycle transition.
type Event struct {
	EventID     string                 `json:"event_id"`
	WorkOrderID string                 `json:"work_order_id"`
	ActorID     string                 `json:"actor_user_id"`
	Type        string                 `json:"type"`
	Message     string                 `json:"message"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
}
