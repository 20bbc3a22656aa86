package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"greep/internal/amqp"
	"greep/internal/storage"
)

type recordingAppender struct {
	entries []storage.AuditEntry
	fail    bool
}

func (a *recordingAppender) AppendAudit(_ context.Context, e storage.AuditEntry) error {
	if a.fail {
		return errors.New("append failed")
	}
	a.entries = append(a.entries, e)
	return nil
}

func TestHandleChange(t *testing.T) {
	store := &recordingAppender{}
	w := NewAuditWorker(store, nil)

	stamp := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	msg := &amqp.ChangeMessage{
		Entity:    "driver_payment",
		ID:        "p1",
		Op:        "create",
		Actor:     "op-1",
		Timestamp: stamp,
	}

	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(store.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(store.entries))
	}
	got := store.entries[0]
	if got.Entity != "driver_payment" || got.EntityID != "p1" || got.Op != "create" || got.Actor != "op-1" {
		t.Errorf("entry = %+v", got)
	}
	if !got.OccurredAt.Equal(stamp) {
		t.Errorf("occurred at = %v, want %v", got.OccurredAt, stamp)
	}
}

func TestHandleChange_Incomplete(t *testing.T) {
	w := NewAuditWorker(&recordingAppender{}, nil)

	cases := []struct {
		name string
		msg  amqp.ChangeMessage
	}{
		{"missing entity", amqp.ChangeMessage{ID: "p1", Op: "create"}},
		{"missing id", amqp.ChangeMessage{Entity: "expense", Op: "create"}},
		{"missing op", amqp.ChangeMessage{Entity: "expense", ID: "e1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := w.HandleChange(context.Background(), &tc.msg); err == nil {
				t.Error("incomplete message should fail")
			}
		})
	}
}

func TestHandleChange_AppendError(t *testing.T) {
	w := NewAuditWorker(&recordingAppender{fail: true}, nil)

	msg := amqp.NewChangeMessage("user", "u1", "delete", "op-1")
	if err := w.HandleChange(context.Background(), msg); err == nil {
		t.Error("append failure should propagate so the message is requeued")
	}
}

func TestHandleChange_WritesRow(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	w := NewAuditWorker(repo, nil)
	msg := amqp.NewChangeMessage("investor_payout", "po1", "update", "op-2")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	entries, err := repo.ListAudit(context.Background(), 10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].EntityID != "po1" || entries[0].Op != "update" || entries[0].Actor != "op-2" {
		t.Errorf("entry = %+v", entries[0])
	}
}
