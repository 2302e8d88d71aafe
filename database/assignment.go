package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

// GetActiveAssignment returns the assignment with a null unassigned_at, or
// nil when the work order is currently unassigned. Absence is a normal state
// here, not an error.
func (d Datasource) GetActiveAssignment(ctx context.Context, workOrderID string) (*model.Assignment, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT assignment_id, work_order_id, assigned_to_user_id, assigned_by_user_id, assigned_at, unassigned_at, force_assigned
		FROM work_order_assignments
		WHERE work_order_id = $1 AND unassigned_at IS NULL
	`, workOrderID)

	a := model.Assignment{}
	var unassignedAt sql.NullTime
	err := row.Scan(&a.AssignmentID, &a.WorkOrderID, &a.AssignedTo, &a.AssignedBy, &a.AssignedAt, &unassignedAt, &a.ForceAssigned)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve active assignment", err)
	}

	a.UnassignedAt = timePtr(unassignedAt)
	return &a, nil
}

func (d Datasource) CloseActiveAssignment(ctx context.Context, tx *sql.Tx, workOrderID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE work_order_assignments
		SET unassigned_at = $2
		WHERE work_order_id = $1 AND unassigned_at IS NULL
	`, workOrderID, at)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to close active assignment", err)
	}
	return nil
}

func (d Datasource) CreateAssignment(ctx context.Context, tx *sql.Tx, a *model.Assignment) error {
	a.AssignmentID = model.GenerateUUIDWithSuffix("asg")
	a.AssignedAt = time.Now()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO work_order_assignments (assignment_id, work_order_id, assigned_to_user_id, assigned_by_user_id, assigned_at, force_assigned)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.AssignmentID, a.WorkOrderID, a.AssignedTo, a.AssignedBy, a.AssignedAt, a.ForceAssigned)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "unique_violation" {
			// The partial unique index on (work_order_id) WHERE unassigned_at
			// IS NULL caught a concurrent assignment.
			return apierror.NewAPIError(apierror.ErrConflict, "Work order already has an active assignment", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create assignment", err)
	}

	return nil
}
