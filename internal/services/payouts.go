package services

import (
	"context"
	"fmt"

	"greep/internal/core"
)

// Payouts returns the full payout collection, cache-first.
func (s *TrackerService) Payouts(ctx context.Context) ([]core.InvestorPayout, error) {
	if payouts, ok := s.payouts.All(); ok {
		return payouts, nil
	}
	payouts, err := s.store.ListPayouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	s.payouts.Replace(payouts)
	return payouts, nil
}

func (s *TrackerService) GetPayout(ctx context.Context, id string) (core.InvestorPayout, error) {
	if p, ok := s.payouts.Get(id); ok {
		return p, nil
	}
	return s.store.GetPayout(ctx, id)
}

// CreatePayout stores a monthly payout. The expense total and net amount are
// always derived here from the investor's attributed expenses; client-sent
// values for them are ignored.
func (s *TrackerService) CreatePayout(ctx context.Context, p core.InvestorPayout, actor string) (core.InvestorPayout, error) {
	if p.ID == "" {
		p.ID = s.newID()
	}
	if p.Status == "" {
		p.Status = core.PayoutPending
	}
	p.CreatedAt = s.now()
	p.CreatedBy = actor
	if err := p.Validate(); err != nil {
		return core.InvestorPayout{}, err
	}
	if err := s.fillBreakdown(ctx, &p); err != nil {
		return core.InvestorPayout{}, err
	}

	if err := s.store.CreatePayout(ctx, p); err != nil {
		s.payouts.Invalidate()
		return core.InvestorPayout{}, err
	}
	s.payouts.Put(p)
	s.publishChange(ctx, "payout", p.ID, "create", actor)
	return p, nil
}

// UpdatePayout rewrites a payout, re-deriving its deduction breakdown.
func (s *TrackerService) UpdatePayout(ctx context.Context, p core.InvestorPayout, actor string) (core.InvestorPayout, error) {
	if err := p.Validate(); err != nil {
		return core.InvestorPayout{}, err
	}
	current, err := s.GetPayout(ctx, p.ID)
	if err != nil {
		return core.InvestorPayout{}, err
	}
	p.CreatedAt = current.CreatedAt
	p.CreatedBy = current.CreatedBy
	if err := s.fillBreakdown(ctx, &p); err != nil {
		return core.InvestorPayout{}, err
	}

	if err := s.store.UpdatePayout(ctx, p); err != nil {
		s.payouts.Invalidate()
		return core.InvestorPayout{}, err
	}
	s.payouts.Put(p)
	s.publishChange(ctx, "payout", p.ID, "update", actor)
	return p, nil
}

func (s *TrackerService) DeletePayout(ctx context.Context, id, actor string) error {
	if err := s.store.DeletePayout(ctx, id); err != nil {
		s.payouts.Invalidate()
		return err
	}
	s.payouts.Delete(id)
	s.publishChange(ctx, "payout", id, "delete", actor)
	return nil
}

// TogglePayoutStatus flips a payout between pending and paid.
func (s *TrackerService) TogglePayoutStatus(ctx context.Context, id, actor string) (core.InvestorPayout, error) {
	p, err := s.GetPayout(ctx, id)
	if err != nil {
		return core.InvestorPayout{}, err
	}
	p.Status = p.Status.Toggle()

	if err := s.store.UpdatePayout(ctx, p); err != nil {
		s.payouts.Invalidate()
		return core.InvestorPayout{}, err
	}
	s.payouts.Put(p)
	s.publishChange(ctx, "payout", id, "update", actor)
	return p, nil
}

// PreviewPayout computes the deduction breakdown for a prospective payout
// without persisting anything.
func (s *TrackerService) PreviewPayout(ctx context.Context, investorID string, month core.Month, gross core.Money) (core.PayoutBreakdown, error) {
	if err := month.Validate(); err != nil {
		return core.PayoutBreakdown{}, err
	}
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return core.PayoutBreakdown{}, fmt.Errorf("load expenses: %w", err)
	}
	return core.ComputePayout(expenses, investorID, month, gross), nil
}

func (s *TrackerService) fillBreakdown(ctx context.Context, p *core.InvestorPayout) error {
	expenses, err := s.Expenses(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	breakdown := core.ComputePayout(expenses, p.InvestorID, p.Month, p.GrossAmount)
	p.TotalExpenses = breakdown.TotalExpenses
	p.NetAmount = breakdown.NetAmount
	return nil
}
