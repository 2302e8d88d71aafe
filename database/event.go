package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

func (d Datasource) CreateEvent(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	e.EventID = model.GenerateUUIDWithSuffix("evt")
	e.CreatedAt = time.Now()

	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal event metadata", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO work_order_events (event_id, work_order_id, actor_user_id, type, message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.EventID, e.WorkOrderID, e.ActorID, e.Type, e.Message, metadata, e.CreatedAt)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create event", err)
	}

	return nil
}

func (d Datasource) ListEvents(ctx context.Context, workOrderID string) ([]model.Event, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT event_id, work_order_id, actor_user_id, type, message, metadata, created_at
		FROM work_order_events
		WHERE work_order_id = $1
		ORDER BY created_at ASC, id ASC
	`, workOrderID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve events", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e := model.Event{}
		var metadata []byte
		err = rows.Scan(&e.EventID, &e.WorkOrderID, &e.ActorID, &e.Type, &e.Message, &metadata, &e.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan event data", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal event metadata", err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over events", err)
	}
	return events, nil
}
