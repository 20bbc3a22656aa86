// Package worker consumes change messages and persists them as audit rows.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"greep/internal/amqp"
	"greep/internal/storage"
)

// AuditAppender is the storage slice the worker needs. Implemented by
// storage.SQLiteRepository.
type AuditAppender interface {
	AppendAudit(ctx context.Context, e storage.AuditEntry) error
}

// Consumer delivers change messages until the context ends. Implemented by
// amqp.Client.
type Consumer interface {
	ConsumeChanges(ctx context.Context, handler func(*amqp.ChangeMessage) error) error
}

// AuditWorker turns published change messages into audit log rows. The
// message carries the full audit payload, so the worker never reads the
// entity tables.
type AuditWorker struct {
	store  AuditAppender
	broker Consumer
}

func NewAuditWorker(store AuditAppender, broker Consumer) *AuditWorker {
	return &AuditWorker{
		store:  store,
		broker: broker,
	}
}

// Run consumes until ctx is cancelled. Failed messages are returned to the
// queue by the broker client.
func (w *AuditWorker) Run(ctx context.Context) error {
	return w.broker.ConsumeChanges(ctx, func(msg *amqp.ChangeMessage) error {
		return w.HandleChange(ctx, msg)
	})
}

// HandleChange records one change message as an audit entry.
func (w *AuditWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Entity == "" || msg.ID == "" || msg.Op == "" {
		return fmt.Errorf("incomplete change message: entity=%q id=%q op=%q", msg.Entity, msg.ID, msg.Op)
	}

	entry := storage.AuditEntry{
		Entity:     msg.Entity,
		EntityID:   msg.ID,
		Op:         msg.Op,
		Actor:      msg.Actor,
		OccurredAt: msg.Timestamp,
	}
	if err := w.store.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	slog.InfoContext(ctx, "Recorded change",
		"entity", msg.Entity,
		"id", msg.ID,
		"op", msg.Op,
		"actor", msg.Actor)
	return nil
}
