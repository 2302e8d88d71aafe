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

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/sitefixhq/sitefix/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
// Write methods that participate in a lifecycle operation take the operation's
// transaction; reads run against the pooled connection.
type IDataSource interface {
	workOrder  // Interface for work-order-related operations
	part       // Interface for part-related operations
	assignment // Interface for assignment-related operations
	completion // Interface for completion-related operations
	comment    // Interface for comment-related operations
	event      // Interface for event-log operations
	outbox     // Interface for notification-outbox operations
	user       // Interface for user-directory lookups

	// WithTransaction runs fn inside one database transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

// workOrder defines methods for handling work orders.
type workOrder interface {
	CreateWorkOrder(ctx context.Context, tx *sql.Tx, wo *model.WorkOrder) error                                              // Inserts a new work order
	GetWorkOrder(ctx context.Context, id string) (*model.WorkOrder, error)                                                   // Retrieves a work order by ID
	GetWorkOrderForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.WorkOrder, error)                              // Retrieves and row-locks a work order
	UpdateWorkOrderFields(ctx context.Context, tx *sql.Tx, wo *model.WorkOrder) error                                        // Writes priority/status/hold/due fields
	SetWorkOrderStatus(ctx context.Context, tx *sql.Tx, id, status string) error                                             // Forces a status value
	CloseWorkOrder(ctx context.Context, tx *sql.Tx, id, closedBy string, closedAt time.Time) error                           // Marks a work order closed
	ListWorkOrders(ctx context.Context, organizationID, status string) ([]model.WorkOrder, error)                            // Lists work orders for an organization
	ListAssignedWorkOrders(ctx context.Context, organizationID, assigneeID, status string) ([]model.WorkOrder, error)        // Lists work orders actively assigned to a contractor
}

// part defines methods for handling work-order parts.
type part interface {
	CreatePart(ctx context.Context, tx *sql.Tx, p *model.Part) error  // Inserts a new part
	GetPart(ctx context.Context, workOrderID, partID string) (*model.Part, error)
	UpdatePart(ctx context.Context, tx *sql.Tx, p *model.Part) error  // Writes part statuses, costs and procurement stamps
	ListParts(ctx context.Context, workOrderID string) ([]model.Part, error)
}

// assignment defines methods for handling assignments.
type assignment interface {
	GetActiveAssignment(ctx context.Context, workOrderID string) (*model.Assignment, error)          // Returns the active assignment, or nil when unassigned
	CloseActiveAssignment(ctx context.Context, tx *sql.Tx, workOrderID string, at time.Time) error   // Stamps unassigned_at on the active assignment, if any
	CreateAssignment(ctx context.Context, tx *sql.Tx, a *model.Assignment) error                     // Inserts a new active assignment
}

// completion defines methods for handling completion submissions.
type completion interface {
	CreateCompletion(ctx context.Context, tx *sql.Tx, c *model.Completion) error
	GetCompletion(ctx context.Context, workOrderID, completionID string) (*model.Completion, error)
	ReviewCompletion(ctx context.Context, tx *sql.Tx, c *model.Completion) error // Writes review status/notes/reviewer/timestamp
	ListCompletions(ctx context.Context, workOrderID string) ([]model.Completion, error)
	CreateAttachment(ctx context.Context, tx *sql.Tx, a *model.Attachment) error
	ListAttachments(ctx context.Context, workOrderID string) ([]model.Attachment, error)
}

// comment defines methods for handling work-order comments.
type comment interface {
	CreateComment(ctx context.Context, tx *sql.Tx, c *model.Comment) error
	ListComments(ctx context.Context, workOrderID string) ([]model.Comment, error)
}

// event defines methods for the append-only audit log.
type event interface {
	CreateEvent(ctx context.Context, tx *sql.Tx, e *model.Event) error
	ListEvents(ctx context.Context, workOrderID string) ([]model.Event, error)
}

// outbox defines methods for the transactional notification outbox.
type outbox interface {
	EnqueueNotification(ctx context.Context, tx *sql.Tx, entry *model.OutboxEntry) error            // Inserts a pending entry in the caller's transaction
	ClaimDueNotifications(ctx context.Context, limit int, now time.Time) ([]model.OutboxEntry, error) // Returns due pending entries, oldest first
	MarkNotificationSent(ctx context.Context, id, providerMessageID string, sentAt time.Time) error   // Idempotent pending -> sent
	MarkNotificationFailed(ctx context.Context, id string, sendErr error) error                       // Idempotent pending -> failed
}

// user defines read-side user-directory lookups. Account management is an
// external collaborator; the core only resolves users.
type user interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsersByRole(ctx context.Context, organizationID, role string) ([]model.User, error)
}
