package model

import "time"

// Assignment records contractor responsibility for a work order. At most one
// assignment per work order has a null UnassignedAt at any time; creating a
// new active assignment closes out the prior one in the same transaction.
type Assignment struct {
	AssignmentID  string     `json:"assignment_id"`
	WorkOrderID   string     `json:"work_order_id"`
	AssignedTo    string     `json:"assigned_to_user_id"`
	AssignedBy    string     `json:"assigned_by_user_id"`
	AssignedAt    time.Time  `json:"assigned_at"`
	UnassignedAt  *time.Time `json:"unassigned_at,omitempty"`
	ForceAssigned bool       `json:"force_assigned"`
}

func (a *Assignment) Active() bool {
	return a.UnassignedAt == nil
}
