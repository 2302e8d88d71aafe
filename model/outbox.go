package model

import "time"

// Outbox entry statuses.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// Notification templates rendered by the worker.
const (
	TemplateAssigned            = "assigned"
	TemplateCompletionSubmitted = "completion_submitted"
	TemplateCompletionRejected  = "completion_rejected"
	TemplateClosed              = "closed"
)

// OutboxEntry is a durably queued notification. Entries are inserted in the
// same transaction as the lifecycle mutation that caused them and consumed by
// the notification worker; a failed delivery is recorded and not retried.
type OutboxEntry struct {
	OutboxID          string                 `json:"outbox_id"`
	OrganizationID    string                 `json:"organization_id"`
	WorkOrderID       string                 `json:"work_order_id,omitempty"`
	Destination       string                 `json:"destination"`
	Template          string                 `json:"template"`
	Payload           map[string]interface{} `json:"payload"`
	SendAt            time.Time              `json:"send_at"`
	SentAt            *time.Time             `json:"sent_at,omitempty"`
	Status            string                 `json:"status"`
	ProviderMessageID string                 `json:"provider_message_id,omitempty"`
	LastError         string                 `json:"last_error,omitempty"`
}
