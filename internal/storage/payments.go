package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"greep/internal/core"
)

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.DriverPayment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO driver_payments
			(id, driver_id, week_start_date, amount_paid_cents, balance_carryover_cents, notes, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.DriverID, p.WeekStartDate.ISO(), p.AmountPaid.Cents,
		p.BalanceCarryover.Cents, p.Notes, formatTime(p.CreatedAt), p.CreatedBy)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdatePayment(ctx context.Context, p core.DriverPayment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE driver_payments
		SET driver_id = ?, week_start_date = ?, amount_paid_cents = ?, balance_carryover_cents = ?, notes = ?
		WHERE id = ?`,
		p.DriverID, p.WeekStartDate.ISO(), p.AmountPaid.Cents,
		p.BalanceCarryover.Cents, p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return requireRowAffected(res, "payment")
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM driver_payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return requireRowAffected(res, "payment")
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, id string) (core.DriverPayment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, driver_id, week_start_date, amount_paid_cents, balance_carryover_cents, notes, created_at, created_by
		FROM driver_payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if err != nil {
		return core.DriverPayment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPayments(ctx context.Context) ([]core.DriverPayment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, driver_id, week_start_date, amount_paid_cents, balance_carryover_cents, notes, created_at, created_by
		FROM driver_payments ORDER BY week_start_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.DriverPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(row rowScanner) (core.DriverPayment, error) {
	var p core.DriverPayment
	var week, createdAt string
	var paid, carryover int64
	err := row.Scan(&p.ID, &p.DriverID, &week, &paid, &carryover, &p.Notes, &createdAt, &p.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DriverPayment{}, ErrNotFound
	}
	if err != nil {
		return core.DriverPayment{}, err
	}
	date, err := core.ParseDate(week)
	if err != nil {
		return core.DriverPayment{}, err
	}
	p.WeekStartDate = date
	p.AmountPaid = core.Money{Cents: paid}
	p.BalanceCarryover = core.Money{Cents: carryover}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}
