package services

import (
	"context"
	"fmt"

	"greep/internal/core"
)

// DashboardStats summarizes all four collections for the dashboard.
func (s *TrackerService) DashboardStats(ctx context.Context) (core.DashboardStats, error) {
	users, payments, expenses, payouts, err := s.collections(ctx)
	if err != nil {
		return core.DashboardStats{}, err
	}
	return core.ComputeDashboardStats(s.now(), users, payments, expenses, payouts), nil
}

// MonthlyReport builds the month view used by the reports page and exports.
func (s *TrackerService) MonthlyReport(ctx context.Context, month core.Month) (core.MonthlyReport, error) {
	if err := month.Validate(); err != nil {
		return core.MonthlyReport{}, err
	}
	users, payments, expenses, payouts, err := s.collections(ctx)
	if err != nil {
		return core.MonthlyReport{}, err
	}
	return core.BuildMonthlyReport(month, users, payments, expenses, payouts), nil
}

// Backup flattens every record for a full data export.
func (s *TrackerService) Backup(ctx context.Context) (core.Backup, error) {
	users, payments, expenses, payouts, err := s.collections(ctx)
	if err != nil {
		return core.Backup{}, err
	}
	return core.BuildBackup(users, payments, expenses, payouts), nil
}

func (s *TrackerService) collections(ctx context.Context) ([]core.User, []core.DriverPayment, []core.Expense, []core.InvestorPayout, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load users: %w", err)
	}
	payments, err := s.Payments(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load payments: %w", err)
	}
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load expenses: %w", err)
	}
	payouts, err := s.Payouts(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load payouts: %w", err)
	}
	return users, payments, expenses, payouts, nil
}
