package sitefix

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sitefixhq/sitefix/model"
)

type fakeOutboxStore struct {
	mu      sync.Mutex
	due     []model.OutboxEntry
	sent    map[string]string
	failed  map[string]string
	claimed int
}

func newFakeOutboxStore(due ...model.OutboxEntry) *fakeOutboxStore {
	return &fakeOutboxStore{due: due, sent: map[string]string{}, failed: map[string]string{}}
}

func (f *fakeOutboxStore) ClaimDueNotifications(ctx context.Context, limit int, now time.Time) ([]model.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimed++
	if len(f.due) > limit {
		return f.due[:limit], nil
	}
	entries := f.due
	f.due = nil
	return entries, nil
}

func (f *fakeOutboxStore) MarkNotificationSent(ctx context.Context, id, providerMessageID string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[id] = providerMessageID
	return nil
}

func (f *fakeOutboxStore) MarkNotificationFailed(ctx context.Context, id string, sendErr error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[id] = sendErr.Error()
	return nil
}

type fakeSender struct {
	mu    sync.Mutex
	texts map[string]string // destination -> text
	fail  map[string]error  // destination -> forced failure
}

func newFakeSender() *fakeSender {
	return &fakeSender{texts: map[string]string{}, fail: map[string]error{}}
}

func (f *fakeSender) Send(ctx context.Context, destination, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[destination]; ok {
		return "", err
	}
	f.texts[destination] = text
	return "SM_" + destination, nil
}

func TestWorkerTickDeliversDueEntries(t *testing.T) {
	store := newFakeOutboxStore(
		model.OutboxEntry{OutboxID: "obx_1", Destination: "+15550001111", Template: model.TemplateAssigned, Payload: map[string]interface{}{"title": "Fix the fryer"}},
		model.OutboxEntry{OutboxID: "obx_2", Destination: "+15550002222", Template: model.TemplateClosed, Payload: map[string]interface{}{"title": "Replace filter"}},
	)
	sender := newFakeSender()
	worker := NewNotificationWorker(store, sender, time.Second, 25, nil)

	err := worker.Tick(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "SM_+15550001111", store.sent["obx_1"])
	assert.Equal(t, "SM_+15550002222", store.sent["obx_2"])
	assert.Equal(t, "New task assigned: Fix the fryer", sender.texts["+15550001111"])
	assert.Equal(t, "Work order closed: Replace filter", sender.texts["+15550002222"])
	assert.Empty(t, store.failed)
}

func TestWorkerTickMarksFailedOnce(t *testing.T) {
	store := newFakeOutboxStore(
		model.OutboxEntry{OutboxID: "obx_1", Destination: "+15550001111", Template: model.TemplateAssigned, Payload: map[string]interface{}{"title": "Fix the fryer"}},
	)
	sender := newFakeSender()
	sender.fail["+15550001111"] = errors.New("twilio: 401 unauthorized")
	worker := NewNotificationWorker(store, sender, time.Second, 25, nil)

	err := worker.Tick(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, store.sent)
	assert.Equal(t, "twilio: 401 unauthorized", store.failed["obx_1"])

	// A failed entry is not offered again; the next tick claims nothing.
	err = worker.Tick(context.Background())
	assert.NoError(t, err)
	assert.Len(t, store.failed, 1)
}

func TestWorkerTickFailureDoesNotStopBatch(t *testing.T) {
	store := newFakeOutboxStore(
		model.OutboxEntry{OutboxID: "obx_1", Destination: "+15550001111", Template: model.TemplateAssigned, Payload: map[string]interface{}{"title": "Fix the fryer"}},
		model.OutboxEntry{OutboxID: "obx_2", Destination: "+15550002222", Template: model.TemplateAssigned, Payload: map[string]interface{}{"title": "Replace filter"}},
	)
	sender := newFakeSender()
	sender.fail["+15550001111"] = errors.New("unreachable")
	worker := NewNotificationWorker(store, sender, time.Second, 25, nil)

	err := worker.Tick(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "unreachable", store.failed["obx_1"])
	assert.Equal(t, "SM_+15550002222", store.sent["obx_2"])
}

func TestWorkerStartDeliversBeforeFirstInterval(t *testing.T) {
	store := newFakeOutboxStore(
		model.OutboxEntry{OutboxID: "obx_1", Destination: "+15550001111", Template: model.TemplateAssigned, Payload: map[string]interface{}{"title": "Fix the fryer"}},
	)
	sender := newFakeSender()
	// An interval long enough that delivery can only come from the initial
	// drain, not from a ticker fire.
	worker := NewNotificationWorker(store, sender, time.Hour, 25, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for {
		store.mu.Lock()
		delivered := store.sent["obx_1"] != ""
		store.mu.Unlock()
		if delivered {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatal("entry was not delivered before the first interval elapsed")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	assert.Equal(t, "SM_+15550001111", store.sent["obx_1"])
}

func TestWorkerStartStopsOnCancel(t *testing.T) {
	store := newFakeOutboxStore()
	worker := NewNotificationWorker(store, newFakeSender(), 10*time.Millisecond, 25, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.GreaterOrEqual(t, store.claimed, 1)
}
