package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

const workOrderColumns = `work_order_id, organization_id, site_id, location_id, title, description, priority, status, on_hold_reason, on_hold_notes, due_at, created_by_user_id, created_at, updated_at, closed_at, closed_by_user_id`

func (d Datasource) CreateWorkOrder(ctx context.Context, tx *sql.Tx, wo *model.WorkOrder) error {
	wo.WorkOrderID = model.GenerateUUIDWithSuffix("wo")
	wo.CreatedAt = time.Now()
	wo.UpdatedAt = wo.CreatedAt

	_, err := tx.ExecContext(ctx, `
		INSERT INTO work_orders (work_order_id, organization_id, site_id, location_id, title, description, priority, status, due_at, created_by_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, wo.WorkOrderID, wo.OrganizationID, wo.SiteID, nullString(wo.LocationID), wo.Title, nullString(wo.Description), wo.Priority, wo.Status, nullTime(wo.DueAt), wo.CreatedBy, wo.CreatedAt, wo.UpdatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return apierror.NewAPIError(apierror.ErrNotFound, "Referenced site or user does not exist", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create work order", err)
	}

	return nil
}

func (d Datasource) GetWorkOrder(ctx context.Context, id string) (*model.WorkOrder, error) {
	row := d.Conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM work_orders
		WHERE work_order_id = $1
	`, workOrderColumns), id)

	return scanWorkOrder(row, id)
}

// GetWorkOrderForUpdate locks the work order row for the duration of the
// caller's transaction so concurrent lifecycle calls against the same work
// order serialize.
func (d Datasource) GetWorkOrderForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.WorkOrder, error) {
	row := tx.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM work_orders
		WHERE work_order_id = $1
		FOR UPDATE
	`, workOrderColumns), id)

	return scanWorkOrder(row, id)
}

func (d Datasource) UpdateWorkOrderFields(ctx context.Context, tx *sql.Tx, wo *model.WorkOrder) error {
	wo.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, `
		UPDATE work_orders
		SET priority = $2, status = $3, on_hold_reason = $4, on_hold_notes = $5, due_at = $6, updated_at = $7
		WHERE work_order_id = $1
	`, wo.WorkOrderID, wo.Priority, wo.Status, nullString(wo.OnHoldReason), nullString(wo.OnHoldNotes), nullTime(wo.DueAt), wo.UpdatedAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update work order", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Work order with ID '%s' not found", wo.WorkOrderID), nil)
	}

	return nil
}

func (d Datasource) SetWorkOrderStatus(ctx context.Context, tx *sql.Tx, id, status string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE work_orders
		SET status = $2, updated_at = NOW()
		WHERE work_order_id = $1
	`, id, status)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to set work order status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Work order with ID '%s' not found", id), nil)
	}

	return nil
}

func (d Datasource) CloseWorkOrder(ctx context.Context, tx *sql.Tx, id, closedBy string, closedAt time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE work_orders
		SET status = 'closed', closed_at = $2, closed_by_user_id = $3, updated_at = $2
		WHERE work_order_id = $1
	`, id, closedAt, closedBy)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to close work order", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Work order with ID '%s' not found", id), nil)
	}

	return nil
}

func (d Datasource) ListWorkOrders(ctx context.Context, organizationID, status string) ([]model.WorkOrder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM work_orders
		WHERE organization_id = $1
	`, workOrderColumns)
	args := []interface{}{organizationID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve work orders", err)
	}
	defer rows.Close()

	return collectWorkOrders(rows)
}

func (d Datasource) ListAssignedWorkOrders(ctx context.Context, organizationID, assigneeID, status string) ([]model.WorkOrder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM work_orders wo
		JOIN work_order_assignments a ON a.work_order_id = wo.work_order_id AND a.unassigned_at IS NULL
		WHERE wo.organization_id = $1 AND a.assigned_to_user_id = $2
	`, prefixColumns("wo", workOrderColumns))
	args := []interface{}{organizationID, assigneeID}
	if status != "" {
		query += ` AND wo.status = $3`
		args = append(args, status)
	}
	query += ` ORDER BY wo.updated_at DESC`

	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve assigned work orders", err)
	}
	defer rows.Close()

	return collectWorkOrders(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkOrder(row rowScanner, id string) (*model.WorkOrder, error) {
	wo := model.WorkOrder{}
	var locationID, description, onHoldReason, onHoldNotes, closedBy sql.NullString
	var dueAt, closedAt sql.NullTime

	err := row.Scan(&wo.WorkOrderID, &wo.OrganizationID, &wo.SiteID, &locationID, &wo.Title, &description, &wo.Priority, &wo.Status, &onHoldReason, &onHoldNotes, &dueAt, &wo.CreatedBy, &wo.CreatedAt, &wo.UpdatedAt, &closedAt, &closedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Work order with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve work order", err)
	}

	wo.LocationID = locationID.String
	wo.Description = description.String
	wo.OnHoldReason = onHoldReason.String
	wo.OnHoldNotes = onHoldNotes.String
	wo.ClosedBy = closedBy.String
	wo.DueAt = timePtr(dueAt)
	wo.ClosedAt = timePtr(closedAt)
	return &wo, nil
}

func collectWorkOrders(rows *sql.Rows) ([]model.WorkOrder, error) {
	workOrders := []model.WorkOrder{}
	for rows.Next() {
		wo, err := scanWorkOrder(rows, "")
		if err != nil {
			return nil, err
		}
		workOrders = append(workOrders, *wo)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over work orders", err)
	}
	return workOrders, nil
}

func prefixColumns(prefix, columns string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = prefix + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
