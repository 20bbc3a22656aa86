package storage

import (
	"context"
	"fmt"
	"time"
)

// AuditEntry is one row of the change history written by the worker.
type AuditEntry struct {
	ID         int64
	Entity     string
	EntityID   string
	Op         string
	Actor      string
	OccurredAt time.Time
}

func (r *SQLiteRepository) AppendAudit(ctx context.Context, e AuditEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (entity, entity_id, op, actor, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.Entity, e.EntityID, e.Op, e.Actor, formatTime(e.OccurredAt))
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity, entity_id, op, actor, occurred_at
		FROM audit_log ORDER BY id DESC LIMIT ?`, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var occurredAt string
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Op, &e.Actor, &occurredAt); err != nil {
			return nil, fmt.Errorf("list audit entries: %w", err)
		}
		e.OccurredAt = parseTime(occurredAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
