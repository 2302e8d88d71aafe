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
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sitefixhq/sitefix/internal/apierror"
	"github.com/sitefixhq/sitefix/model"
)

// EnqueueNotification inserts an outbox entry inside the caller's transaction,
// so the entry commits or aborts together with the state change that produced it.
func (d Datasource) EnqueueNotification(ctx context.Context, tx *sql.Tx, entry *model.OutboxEntry) error {
	entry.OutboxID = model.GenerateUUIDWithSuffix("obx")
	if entry.SendAt.IsZero() {
		entry.SendAt = time.Now()
	}
	entry.Status = model.OutboxPending

	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal notification payload", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notification_outbox (outbox_id, organization_id, work_order_id, destination, template, payload, send_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.OutboxID, entry.OrganizationID, nullString(entry.WorkOrderID), entry.Destination, entry.Template, payload, entry.SendAt, entry.Status)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to enqueue notification", err)
	}

	return nil
}

// ClaimDueNotifications returns pending entries whose send_at has passed,
// oldest first with outbox_id as a deterministic tiebreak.
func (d Datasource) ClaimDueNotifications(ctx context.Context, limit int, now time.Time) ([]model.OutboxEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT outbox_id, organization_id, work_order_id, destination, template, payload, send_at, sent_at, status, provider_message_id, last_error
		FROM notification_outbox
		WHERE status = 'pending' AND send_at <= $1
		ORDER BY send_at ASC, outbox_id ASC
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to claim due notifications", err)
	}
	defer rows.Close()

	entries := []model.OutboxEntry{}
	for rows.Next() {
		entry := model.OutboxEntry{}
		var workOrderID, providerMessageID, lastError sql.NullString
		var sentAt sql.NullTime
		var payload []byte
		err = rows.Scan(&entry.OutboxID, &entry.OrganizationID, &workOrderID, &entry.Destination, &entry.Template, &payload, &entry.SendAt, &sentAt, &entry.Status, &providerMessageID, &lastError)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan notification data", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &entry.Payload); err != nil {
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal notification payload", err)
			}
		}
		entry.WorkOrderID = workOrderID.String
		entry.ProviderMessageID = providerMessageID.String
		entry.LastError = lastError.String
		entry.SentAt = timePtr(sentAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over notifications", err)
	}
	return entries, nil
}

// MarkNotificationSent transitions a pending entry to sent. The status guard
// makes the call a no-op when the entry was already resolved by another worker.
func (d Datasource) MarkNotificationSent(ctx context.Context, outboxID, providerMessageID string, sentAt time.Time) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status = 'sent', provider_message_id = $2, sent_at = $3
		WHERE outbox_id = $1 AND status = 'pending'
	`, outboxID, nullString(providerMessageID), sentAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to mark notification as sent", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		logrus.Infof("notification %s already resolved, skipping sent update", outboxID)
	}

	return nil
}

// MarkNotificationFailed transitions a pending entry to failed. Failed entries
// are terminal; nothing picks them up again.
func (d Datasource) MarkNotificationFailed(ctx context.Context, outboxID string, sendErr error) error {
	lastError := ""
	if sendErr != nil {
		lastError = sendErr.Error()
	}

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status = 'failed', last_error = $2
		WHERE outbox_id = $1 AND status = 'pending'
	`, outboxID, nullString(lastError))
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to mark notification as failed", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		logrus.Infof("notification %s already resolved, skipping failed update", outboxID)
	}

	return nil
}
