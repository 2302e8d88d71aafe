package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

const completionColumns = `completion_id, work_order_id, submitted_by_user_id, submitted_at, minutes_worked, completion_notes, review_status, reviewed_by_user_id, reviewed_at, review_notes`

func (d Datasource) CreateCompletion(ctx context.Context, tx *sql.Tx, c *model.Completion) error {
	c.CompletionID = model.GenerateUUIDWithSuffix("cmp")
	c.SubmittedAt = time.Now()
	c.ReviewStatus = model.ReviewSubmitted

	_, err := tx.ExecContext(ctx, `
		INSERT INTO work_order_completions (completion_id, work_order_id, submitted_by_user_id, submitted_at, minutes_worked, completion_notes, review_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.CompletionID, c.WorkOrderID, c.SubmittedBy, c.SubmittedAt, c.MinutesWorked, nullString(c.CompletionNotes), c.ReviewStatus)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create completion", err)
	}

	return nil
}

func (d Datasource) GetCompletion(ctx context.Context, workOrderID, completionID string) (*model.Completion, error) {
	row := d.Conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM work_order_completions
		WHERE work_order_id = $1 AND completion_id = $2
	`, completionColumns), workOrderID, completionID)

	return scanCompletion(row, completionID)
}

func (d Datasource) ReviewCompletion(ctx context.Context, tx *sql.Tx, c *model.Completion) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE work_order_completions
		SET review_status = $2, reviewed_by_user_id = $3, reviewed_at = $4, review_notes = $5
		WHERE completion_id = $1
	`, c.CompletionID, c.ReviewStatus, c.ReviewedBy, nullTime(c.ReviewedAt), nullString(c.ReviewNotes))
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to review completion", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Completion with ID '%s' not found", c.CompletionID), nil)
	}

	return nil
}

func (d Datasource) ListCompletions(ctx context.Context, workOrderID string) ([]model.Completion, error) {
	rows, err := d.Conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM work_order_completions
		WHERE work_order_id = $1
		ORDER BY submitted_at DESC
	`, completionColumns), workOrderID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve completions", err)
	}
	defer rows.Close()

	completions := []model.Completion{}
	for rows.Next() {
		c, err := scanCompletion(rows, "")
		if err != nil {
			return nil, err
		}
		completions = append(completions, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over completions", err)
	}
	return completions, nil
}

func (d Datasource) CreateAttachment(ctx context.Context, tx *sql.Tx, a *model.Attachment) error {
	a.AttachmentID = model.GenerateUUIDWithSuffix("att")
	a.CreatedAt = time.Now()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO attachments (attachment_id, work_order_id, completion_id, uploaded_by_user_id, type, file_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.AttachmentID, a.WorkOrderID, nullString(a.CompletionID), a.UploadedBy, a.Type, a.FileURL, a.CreatedAt)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create attachment", err)
	}

	return nil
}

func (d Datasource) ListAttachments(ctx context.Context, workOrderID string) ([]model.Attachment, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT attachment_id, work_order_id, completion_id, uploaded_by_user_id, type, file_url, created_at
		FROM attachments
		WHERE work_order_id = $1
		ORDER BY created_at DESC
	`, workOrderID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve attachments", err)
	}
	defer rows.Close()

	attachments := []model.Attachment{}
	for rows.Next() {
		a := model.Attachment{}
		var completionID sql.NullString
		err = rows.Scan(&a.AttachmentID, &a.WorkOrderID, &completionID, &a.UploadedBy, &a.Type, &a.FileURL, &a.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan attachment data", err)
		}
		a.CompletionID = completionID.String
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over attachments", err)
	}
	return attachments, nil
}

func scanCompletion(row rowScanner, id string) (*model.Completion, error) {
	c := model.Completion{}
	var notes, reviewedBy, reviewNotes sql.NullString
	var reviewedAt sql.NullTime

	err := row.Scan(&c.CompletionID, &c.WorkOrderID, &c.SubmittedBy, &c.SubmittedAt, &c.MinutesWorked, &notes, &c.ReviewStatus, &reviewedBy, &reviewedAt, &reviewNotes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Completion with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve completion", err)
	}

	c.CompletionNotes = notes.String
	c.ReviewedBy = reviewedBy.String
	c.ReviewNotes = reviewNotes.String
	c.ReviewedAt = timePtr(reviewedAt)
	return &c, nil
}
