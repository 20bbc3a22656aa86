package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"greep/internal/core"
)

func (r *SQLiteRepository) CreatePayout(ctx context.Context, p core.InvestorPayout) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investor_payouts
			(id, investor_id, month, gross_amount_cents, total_expenses_cents, net_amount_cents, status, notes, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InvestorID, string(p.Month), p.GrossAmount.Cents,
		p.TotalExpenses.Cents, p.NetAmount.Cents, string(p.Status),
		p.Notes, formatTime(p.CreatedAt), p.CreatedBy)
	if err != nil {
		return fmt.Errorf("create payout: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdatePayout(ctx context.Context, p core.InvestorPayout) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE investor_payouts
		SET investor_id = ?, month = ?, gross_amount_cents = ?, total_expenses_cents = ?, net_amount_cents = ?, status = ?, notes = ?
		WHERE id = ?`,
		p.InvestorID, string(p.Month), p.GrossAmount.Cents,
		p.TotalExpenses.Cents, p.NetAmount.Cents, string(p.Status), p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update payout: %w", err)
	}
	return requireRowAffected(res, "payout")
}

func (r *SQLiteRepository) DeletePayout(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investor_payouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payout: %w", err)
	}
	return requireRowAffected(res, "payout")
}

func (r *SQLiteRepository) GetPayout(ctx context.Context, id string) (core.InvestorPayout, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, investor_id, month, gross_amount_cents, total_expenses_cents, net_amount_cents, status, notes, created_at, created_by
		FROM investor_payouts WHERE id = ?`, id)
	p, err := scanPayout(row)
	if err != nil {
		return core.InvestorPayout{}, fmt.Errorf("get payout: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPayouts(ctx context.Context) ([]core.InvestorPayout, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, investor_id, month, gross_amount_cents, total_expenses_cents, net_amount_cents, status, notes, created_at, created_by
		FROM investor_payouts ORDER BY month DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []core.InvestorPayout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("list payouts: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func scanPayout(row rowScanner) (core.InvestorPayout, error) {
	var p core.InvestorPayout
	var month, status, createdAt string
	var gross, expenses, net int64
	err := row.Scan(&p.ID, &p.InvestorID, &month, &gross, &expenses, &net, &status, &p.Notes, &createdAt, &p.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return core.InvestorPayout{}, ErrNotFound
	}
	if err != nil {
		return core.InvestorPayout{}, err
	}
	p.Month = core.Month(month)
	p.GrossAmount = core.Money{Cents: gross}
	p.TotalExpenses = core.Money{Cents: expenses}
	p.NetAmount = core.Money{Cents: net}
	p.Status = core.PayoutStatus(status)
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}
