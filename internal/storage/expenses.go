package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"greep/internal/core"
)

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses
			(id, type, amount_cents, date, description, paid_by, user_id, notes, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Type), e.Amount.Cents, e.Date.ISO(), e.Description,
		e.PaidBy, e.UserID, e.Notes, formatTime(e.CreatedAt), e.CreatedBy)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET type = ?, amount_cents = ?, date = ?, description = ?, paid_by = ?, user_id = ?, notes = ?
		WHERE id = ?`,
		string(e.Type), e.Amount.Cents, e.Date.ISO(), e.Description,
		e.PaidBy, e.UserID, e.Notes, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRowAffected(res, "expense")
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRowAffected(res, "expense")
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, amount_cents, date, description, paid_by, user_id, notes, created_at, created_by
		FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, date, description, paid_by, user_id, notes, created_at, created_by
		FROM expenses ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	var typ, date, createdAt string
	var amount int64
	err := row.Scan(&e.ID, &typ, &amount, &date, &e.Description, &e.PaidBy, &e.UserID, &e.Notes, &createdAt, &e.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, err
	}
	e.Type = core.ExpenseType(typ)
	e.Amount = core.Money{Cents: amount}
	e.Date = d
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}
