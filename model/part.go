package model

import "time"

// Part approval statuses.
const (
	ApprovalNotRequested    = "not_requested"
	ApprovalPendingApproval = "pending_approval"
	ApprovalApproved        = "approved"
	ApprovalRejected        = "rejected"
)

// Part procurement statuses.
const (
	ProcurementNotStarted  = "not_started"
	ProcurementQuoted      = "quoted"
	ProcurementOrdered     = "ordered"
	ProcurementArrived     = "arrived"
	ProcurementBackordered = "backordered"
	ProcurementCancelled   = "cancelled"
)

// Part is a purchasable item a work order needs. Required parts gate
// assignment until they are approved and arrived.
type Part struct {
	PartID               string     `json:"part_id"`
	WorkOrderID          string     `json:"work_order_id"`
	Name                 string     `json:"name"`
	Quantity             int        `json:"quantity"`
	IsRequired           bool       `json:"is_required"`
	ApprovalStatus       string     `json:"approval_status"`
	ProcurementStatus    string     `json:"procurement_status"`
	QuotedTotalCostCents *int64     `json:"quoted_total_cost_cents,omitempty"`
	ActualTotalCostCents *int64     `json:"actual_total_cost_cents,omitempty"`
	QuotedAt             *time.Time `json:"quoted_at,omitempty"`
	OrderedAt            *time.Time `json:"ordered_at,omitempty"`
	ArrivedAt            *time.Time `json:"arrived_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Ready reports whether the part has cleared procurement: approved for
// purchase and physically arrived.
func (p *Part) Ready() bool {
	return p.ApprovalStatus == ApprovalApproved && p.ProcurementStatus == ProcurementArrived
}

// PartPatch carries the optional fields of a part update call.
type PartPatch struct {
	ApprovalStatus       *string
	ProcurementStatus    *string
	QuotedTotalCostCents *int64
	ActualTotalCostCents *int64
}

func ValidApprovalStatus(s string) bool {
	switch s {
	case ApprovalNotRequested, ApprovalPendingApproval, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

func ValidProcurementStatus(s string) bool {
	switch s {
	case ProcurementNotStarted, ProcurementQuoted, ProcurementOrdered, ProcurementArrived, ProcurementBackordered, ProcurementCancelled:
		return true
	}
	return false
}
