package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

const partColumns = `part_id, work_order_id, name, quantity, is_required, approval_status, procurement_status, quoted_total_cost_cents, actual_total_cost_cents, quoted_at, ordered_at, arrived_at, created_at, updated_at`

func (d Datasource) CreatePart(ctx context.Context, tx *sql.Tx, p *model.Part) error {
	p.PartID = model.GenerateUUIDWithSuffix("prt")
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := tx.ExecContext(ctx, `
		INSERT INTO work_order_parts (part_id, work_order_id, name, quantity, is_required, approval_status, procurement_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.PartID, p.WorkOrderID, p.Name, p.Quantity, p.IsRequired, p.ApprovalStatus, p.ProcurementStatus, p.CreatedAt, p.UpdatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code.Name() == "foreign_key_violation" {
			return apierror.NewAPIError(apierror.ErrNotFound, "Referenced work order does not exist", err)
		}
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create part", err)
	}

	return nil
}

func (d Datasource) GetPart(ctx context.Context, workOrderID, partID string) (*model.Part, error) {
	row := d.Conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM work_order_parts
		WHERE work_order_id = $1 AND part_id = $2
	`, partColumns), workOrderID, partID)

	return scanPart(row, partID)
}

func (d Datasource) UpdatePart(ctx context.Context, tx *sql.Tx, p *model.Part) error {
	p.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, `
		UPDATE work_order_parts
		SET approval_status = $2, procurement_status = $3, quoted_total_cost_cents = $4, actual_total_cost_cents = $5, quoted_at = $6, ordered_at = $7, arrived_at = $8, updated_at = $9
		WHERE part_id = $1
	`, p.PartID, p.ApprovalStatus, p.ProcurementStatus, nullInt64(p.QuotedTotalCostCents), nullInt64(p.ActualTotalCostCents), nullTime(p.QuotedAt), nullTime(p.OrderedAt), nullTime(p.ArrivedAt), p.UpdatedAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update part", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Part with ID '%s' not found", p.PartID), nil)
	}

	return nil
}

func (d Datasource) ListParts(ctx context.Context, workOrderID string) ([]model.Part, error) {
	rows, err := d.Conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM work_order_parts
		WHERE work_order_id = $1
		ORDER BY created_at DESC
	`, partColumns), workOrderID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve parts", err)
	}
	defer rows.Close()

	parts := []model.Part{}
	for rows.Next() {
		p, err := scanPart(rows, "")
		if err != nil {
			return nil, err
		}
		parts = append(parts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over parts", err)
	}
	return parts, nil
}

func scanPart(row rowScanner, id string) (*model.Part, error) {
	p := model.Part{}
	var quotedCost, actualCost sql.NullInt64
	var quotedAt, orderedAt, arrivedAt sql.NullTime

	err := row.Scan(&p.PartID, &p.WorkOrderID, &p.Name, &p.Quantity, &p.IsRequired, &p.ApprovalStatus, &p.ProcurementStatus, &quotedCost, &actualCost, &quotedAt, &orderedAt, &arrivedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Part with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve part", err)
	}

	p.QuotedTotalCostCents = int64Ptr(quotedCost)
	p.ActualTotalCostCents = int64Ptr(actualCost)
	p.QuotedAt = timePtr(quotedAt)
	p.OrderedAt = timePtr(orderedAt)
	p.ArrivedAt = timePtr(arrivedAt)
	return &p, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
