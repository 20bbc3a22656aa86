package services

import (
	"context"
	"fmt"
	"log/slog"

	"greep/internal/export"
)

// ImportBackup restores records from a parsed import upload, writing each row
// through storage. Rows that fail validation are counted and skipped; a
// storage failure aborts the import. Imported amounts are kept verbatim, so
// historical carryovers and payout totals survive a restore unchanged.
func (s *TrackerService) ImportBackup(ctx context.Context, set export.ImportSet, actor string) (export.ImportSummary, error) {
	var summary export.ImportSummary

	for _, u := range set.Users {
		if u.ID == "" {
			u.ID = s.newID()
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = s.now()
		}
		if err := u.Validate(); err != nil {
			summary.Skipped++
			slog.WarnContext(ctx, "Skipping invalid imported user", "id", u.ID, "error", err)
			continue
		}
		if err := s.store.CreateUser(ctx, u); err != nil {
			s.users.Invalidate()
			return summary, fmt.Errorf("import user %s: %w", u.ID, err)
		}
		summary.Users++
		s.publishChange(ctx, "user", u.ID, "import", actor)
	}

	for _, p := range set.Payments {
		if p.ID == "" {
			p.ID = s.newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.now()
		}
		if p.CreatedBy == "" {
			p.CreatedBy = actor
		}
		if err := p.Validate(); err != nil {
			summary.Skipped++
			slog.WarnContext(ctx, "Skipping invalid imported payment", "id", p.ID, "error", err)
			continue
		}
		if err := s.store.CreatePayment(ctx, p); err != nil {
			s.payments.Invalidate()
			return summary, fmt.Errorf("import payment %s: %w", p.ID, err)
		}
		summary.Payments++
		s.publishChange(ctx, "driver_payment", p.ID, "import", actor)
	}

	for _, e := range set.Expenses {
		if e.ID == "" {
			e.ID = s.newID()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now()
		}
		if e.CreatedBy == "" {
			e.CreatedBy = actor
		}
		if err := e.Validate(); err != nil {
			summary.Skipped++
			slog.WarnContext(ctx, "Skipping invalid imported expense", "id", e.ID, "error", err)
			continue
		}
		if err := s.store.CreateExpense(ctx, e); err != nil {
			s.expenses.Invalidate()
			return summary, fmt.Errorf("import expense %s: %w", e.ID, err)
		}
		summary.Expenses++
		s.publishChange(ctx, "expense", e.ID, "import", actor)
	}

	for _, p := range set.Payouts {
		if p.ID == "" {
			p.ID = s.newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.now()
		}
		if p.CreatedBy == "" {
			p.CreatedBy = actor
		}
		if err := p.Validate(); err != nil {
			summary.Skipped++
			slog.WarnContext(ctx, "Skipping invalid imported payout", "id", p.ID, "error", err)
			continue
		}
		if err := s.store.CreatePayout(ctx, p); err != nil {
			s.payouts.Invalidate()
			return summary, fmt.Errorf("import payout %s: %w", p.ID, err)
		}
		summary.Payouts++
		s.publishChange(ctx, "investor_payout", p.ID, "import", actor)
	}

	s.invalidateImported(set)
	slog.InfoContext(ctx, "Import complete",
		"users", summary.Users,
		"payments", summary.Payments,
		"expenses", summary.Expenses,
		"payouts", summary.Payouts,
		"skipped", summary.Skipped)
	return summary, nil
}

// invalidateImported drops the snapshots touched by a bulk write; the next
// read reloads from storage instead of reconciling row by row.
func (s *TrackerService) invalidateImported(set export.ImportSet) {
	if len(set.Users) > 0 {
		s.users.Invalidate()
	}
	if len(set.Payments) > 0 {
		s.payments.Invalidate()
	}
	if len(set.Expenses) > 0 {
		s.expenses.Invalidate()
	}
	if len(set.Payouts) > 0 {
		s.payouts.Invalidate()
	}
}
