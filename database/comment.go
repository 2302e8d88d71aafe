package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

func (d Datasource) CreateComment(ctx context.Context, tx *sql.Tx, c *model.Comment) error {
	c.CommentID = model.GenerateUUIDWithSuffix("cmt")
	c.CreatedAt = time.Now()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO comments (comment_id, work_order_id, user_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.CommentID, c.WorkOrderID, c.UserID, c.Message, c.CreatedAt)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create comment", err)
	}

	return nil
}

func (d Datasource) ListComments(ctx context.Context, workOrderID string) ([]model.Comment, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT comment_id, work_order_id, user_id, message, created_at
		FROM comments
		WHERE work_order_id = $1
		ORDER BY created_at ASC
	`, workOrderID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve comments", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c := model.Comment{}
		err = rows.Scan(&c.CommentID, &c.WorkOrderID, &c.UserID, &c.Message, &c.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan comment data", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over comments", err)
	}
	return comments, nil
}
