package services

import (
	"context"
	"fmt"

	"greep/internal/core"
)

// Payments returns the full payment collection, cache-first.
func (s *TrackerService) Payments(ctx context.Context) ([]core.DriverPayment, error) {
	if payments, ok := s.payments.All(); ok {
		return payments, nil
	}
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	s.payments.Replace(payments)
	return payments, nil
}

func (s *TrackerService) GetPayment(ctx context.Context, id string) (core.DriverPayment, error) {
	if p, ok := s.payments.Get(id); ok {
		return p, nil
	}
	return s.store.GetPayment(ctx, id)
}

// RecordPayment stores a weekly driver payment. The balance carryover is
// derived here from the driver's tier and persisted with the record.
func (s *TrackerService) RecordPayment(ctx context.Context, p core.DriverPayment, actor string) (core.DriverPayment, error) {
	if p.ID == "" {
		p.ID = s.newID()
	}
	p.CreatedAt = s.now()
	p.CreatedBy = actor
	if err := p.Validate(); err != nil {
		return core.DriverPayment{}, err
	}
	p.BalanceCarryover = s.policy.Carryover(s.driverTier(ctx, p.DriverID), p.AmountPaid)

	if err := s.store.CreatePayment(ctx, p); err != nil {
		s.payments.Invalidate()
		return core.DriverPayment{}, err
	}
	s.payments.Put(p)
	s.publishChange(ctx, "payment", p.ID, "create", actor)
	return p, nil
}

// UpdatePayment rewrites a payment and re-derives its carryover from the
// driver's current tier.
func (s *TrackerService) UpdatePayment(ctx context.Context, p core.DriverPayment, actor string) (core.DriverPayment, error) {
	if err := p.Validate(); err != nil {
		return core.DriverPayment{}, err
	}
	current, err := s.GetPayment(ctx, p.ID)
	if err != nil {
		return core.DriverPayment{}, err
	}
	p.CreatedAt = current.CreatedAt
	p.CreatedBy = current.CreatedBy
	p.BalanceCarryover = s.policy.Carryover(s.driverTier(ctx, p.DriverID), p.AmountPaid)

	if err := s.store.UpdatePayment(ctx, p); err != nil {
		s.payments.Invalidate()
		return core.DriverPayment{}, err
	}
	s.payments.Put(p)
	s.publishChange(ctx, "payment", p.ID, "update", actor)
	return p, nil
}

func (s *TrackerService) DeletePayment(ctx context.Context, id, actor string) error {
	if err := s.store.DeletePayment(ctx, id); err != nil {
		s.payments.Invalidate()
		return err
	}
	s.payments.Delete(id)
	s.publishChange(ctx, "payment", id, "delete", actor)
	return nil
}

// driverTier resolves a driver's tier for carryover. A dangling reference
// falls back to the placeholder tier, whose expected amount is zero.
func (s *TrackerService) driverTier(ctx context.Context, driverID string) core.Tier {
	u, err := s.GetUser(ctx, driverID)
	if err != nil {
		return core.TierNone
	}
	return u.Tier
}
