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

package sitefix

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sitefixhq/sitefix/internal/lock"
	"github.com/sitefixhq/sitefix/model"
)

// Sender is the delivery channel the worker pushes rendered notifications
// through. Implementations return the provider's message id when available.
type Sender interface {
	Send(ctx context.Context, destination, text string) (string, error)
}

// outboxStore is the slice of the datasource the worker needs.
type outboxStore interface {
	ClaimDueNotifications(ctx context.Context, limit int, now time.Time) ([]model.OutboxEntry, error)
	MarkNotificationSent(ctx context.Context, id, providerMessageID string, sentAt time.Time) error
	MarkNotificationFailed(ctx context.Context, id string, sendErr error) error
}

// NotificationWorker polls the outbox and delivers due entries. Each entry
// gets one delivery attempt; a failed send is recorded and never retried.
type NotificationWorker struct {
	store     outboxStore
	sender    Sender
	interval  time.Duration
	batchSize int
	tickLock  *lock.TickLock
}

// NewNotificationWorker builds a worker polling every interval for up to
// batchSize entries per tick. tickLock is optional; pass nil to run with
// single-instance semantics.
func NewNotificationWorker(store outboxStore, sender Sender, interval time.Duration, batchSize int, tickLock *lock.TickLock) *NotificationWorker {
	return &NotificationWorker{
		store:     store,
		sender:    sender,
		interval:  interval,
		batchSize: batchSize,
		tickLock:  tickLock,
	}
}

// Start runs the polling loop until ctx is cancelled. Per-entry failures are
// downgraded to failed outbox rows and logged; the loop itself only stops on
// cancellation.
func (w *NotificationWorker) Start(ctx context.Context) {
	logrus.WithFields(logrus.Fields{
		"interval":   w.interval,
		"batch_size": w.batchSize,
	}).Info("notification worker started")

	// Drain whatever is already due before settling into the interval, so a
	// restart does not leave pending entries waiting out a full poll period.
	if err := w.Tick(ctx); err != nil {
		logrus.WithError(err).Error("notification tick failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("notification worker stopped")
			return
		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				logrus.WithError(err).Error("notification tick failed")
			}
		}
	}
}

// Tick claims due entries and attempts delivery once per entry.
func (w *NotificationWorker) Tick(ctx context.Context) error {
	if w.tickLock != nil {
		held, err := w.tickLock.TryAcquire(ctx, 2*w.interval)
		if err != nil {
			return err
		}
		if !held {
			return nil
		}
		defer func() {
			if err := w.tickLock.Release(ctx); err != nil {
				logrus.WithError(err).Warn("failed to release tick lock")
			}
		}()
	}

	entries, err := w.store.ClaimDueNotifications(ctx, w.batchSize, time.Now())
	if err != nil {
		return err
	}

	for _, entry := range entries {
		w.deliver(ctx, entry)
	}
	return nil
}

func (w *NotificationWorker) deliver(ctx context.Context, entry model.OutboxEntry) {
	text := RenderTemplate(entry.Template, entry.Payload)

	providerMessageID, err := w.sender.Send(ctx, entry.Destination, text)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"outbox_id": entry.OutboxID,
			"template":  entry.Template,
		}).WithError(err).Warn("notification delivery failed")
		if markErr := w.store.MarkNotificationFailed(ctx, entry.OutboxID, err); markErr != nil {
			logrus.WithError(markErr).WithField("outbox_id", entry.OutboxID).Error("failed to mark notification as failed")
		}
		return
	}

	if err := w.store.MarkNotificationSent(ctx, entry.OutboxID, providerMessageID, time.Now()); err != nil {
		logrus.WithError(err).WithField("outbox_id", entry.OutboxID).Error("failed to mark notification as sent")
	}
}
