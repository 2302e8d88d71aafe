package model

import "time"

// Completion review statuses.
const (
	ReviewSubmitted = "submitted"
	ReviewApproved  = "approved"
	ReviewRejected  = "rejected"
)

// Review decisions.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Completion is a contractor's field-completion submission for a work order.
// A work order can accumulate several completions across rejection cycles.
type Completion struct {
	CompletionID    string     `json:"completion_id"`
	WorkOrderID     string     `json:"work_order_id"`
	SubmittedBy     string     `json:"submitted_by_user_id"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	MinutesWorked   int        `json:"minutes_worked"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	ReviewStatus    string     `json:"review_status"`
	ReviewedBy      string     `json:"reviewed_by_user_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes     string     `json:"review_notes,omitempty"`
}

// Attachment types.
const (
	AttachmentIssuePhoto      = "issue_photo"
	AttachmentCompletionPhoto = "completion_photo"
	AttachmentOther           = "other"
)

// Attachment is a stored file reference. The service persists references
// returned by the external photo store, never file bytes.
type Attachment struct {
	AttachmentID string    `json:"attachment_id"`
	WorkOrderID  string    `json:"work_order_id"`
	CompletionID string    `json:"completion_id,omitempty"`
	UploadedBy   string    `json:"uploaded_by_user_id"`
	Type         string    `json:"type"`
	FileURL      string    `json:"file_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Comment is a free-text note on a work order's thread.
type Comment struct {
	CommentID   string    `json:"comment_id"`
	WorkOrderID string    `json:"work_order_id"`
	UserID      string    `json:"user_id"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
