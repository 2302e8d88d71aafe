/*
Copyright 2025 Sitefix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import "time"

// Work order statuses.
const (
	StatusOpen        = "open"
	StatusInProgress  = "in_progress"
	StatusOnHold      = "on_hold"
	StatusNeedsReview = "needs_review"
	StatusClosed      = "closed"
)

// Work order priorities.
const (
	PriorityEmergency = "emergency"
	PriorityHigh      = "high"
	PriorityNormal    = "normal"
	PriorityLow       = "low"
)

// Hold reasons. Hold fields are meaningful only while a work order is
// on_hold, but they are never auto-cleared; they persist until a caller
// overwrites them.
const (
	HoldAwaitingParts    = "awaiting_parts"
	HoldAwaitingApproval = "awaiting_approval"
	HoldAwaitingAccess   = "awaiting_access"
	HoldAwaitingVendor   = "awaiting_vendor"
	HoldOther            = "other"
)

// WorkOrder is a maintenance job raised by a GM against a site, worked by a
// contractor, and closed by a GM after review.
type WorkOrder struct {
	WorkOrderID    string     `json:"work_order_id"`
	OrganizationID string     `json:"organization_id"`
	SiteID         string     `json:"site_id"`
	LocationID     string     `json:"location_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	OnHoldReason   string     `json:"on_hold_reason,omitempty"`
	OnHoldNotes    string     `json:"on_hold_notes,omitempty"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	ClosedBy       string     `json:"closed_by,omitempty"`
}

func (w *WorkOrder) IsClosed() bool {
	return w.Status == StatusClosed
}

// WorkOrderPatch carries the optional fields of an update call. A nil field
// means "not provided"; provided fields overwrite the stored value.
type WorkOrderPatch struct {
	Priority     *string
	Status       *string
	OnHoldReason *string
	OnHoldNotes  *string
	DueAt        *time.Time
}

func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusOnHold, StatusNeedsReview, StatusClosed:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityEmergency, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

func ValidHoldReason(r string) bool {
	switch r {
	case HoldAwaitingParts, HoldAwaitingApproval, HoldAwaitingAccess, HoldAwaitingVendor, HoldOther:
		return true
	}
	return false
}
