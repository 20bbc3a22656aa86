package services

import (
	"context"
	"fmt"

	"greep/internal/core"
)

// Expenses returns the full expense collection, cache-first.
func (s *TrackerService) Expenses(ctx context.Context) ([]core.Expense, error) {
	if expenses, ok := s.expenses.All(); ok {
		return expenses, nil
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	s.expenses.Replace(expenses)
	return expenses, nil
}

func (s *TrackerService) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	if e, ok := s.expenses.Get(id); ok {
		return e, nil
	}
	return s.store.GetExpense(ctx, id)
}

func (s *TrackerService) CreateExpense(ctx context.Context, e core.Expense, actor string) (core.Expense, error) {
	if e.ID == "" {
		e.ID = s.newID()
	}
	e.CreatedAt = s.now()
	e.CreatedBy = actor
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		s.expenses.Invalidate()
		return core.Expense{}, err
	}
	s.expenses.Put(e)
	s.publishChange(ctx, "expense", e.ID, "create", actor)
	return e, nil
}

func (s *TrackerService) UpdateExpense(ctx context.Context, e core.Expense, actor string) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	current, err := s.GetExpense(ctx, e.ID)
	if err != nil {
		return core.Expense{}, err
	}
	e.CreatedAt = current.CreatedAt
	e.CreatedBy = current.CreatedBy

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		s.expenses.Invalidate()
		return core.Expense{}, err
	}
	s.expenses.Put(e)
	s.publishChange(ctx, "expense", e.ID, "update", actor)
	return e, nil
}

func (s *TrackerService) DeleteExpense(ctx context.Context, id, actor string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		s.expenses.Invalidate()
		return err
	}
	s.expenses.Delete(id)
	s.publishChange(ctx, "expense", id, "delete", actor)
	return nil
}
