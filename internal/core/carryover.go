package core

// TierPolicy maps driver tiers to their expected weekly payment. The
// amounts are business policy and come from configuration, not constants
// baked into call sites.
type TierPolicy struct {
	ExpectedA Money
	ExpectedB Money
}

// DefaultTierPolicy returns the current policy: ₺760 for tier A, ₺800 for
// tier B.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{
		ExpectedA: Money{Cents: 76000},
		ExpectedB: Money{Cents: 80000},
	}
}

// Expected returns the expected weekly amount for a tier. Tiers without a
// driver policy expect zero.
func (p TierPolicy) Expected(t Tier) Money {
	switch t {
	case TierA:
		return p.ExpectedA
	case TierB:
		return p.ExpectedB
	}
	return Money{}
}

// Carryover derives the signed balance carryover for a payment: the tier's
// expected amount minus what was actually paid. Overpayment yields a
// negative carryover.
func (p TierPolicy) Carryover(t Tier, paid Money) Money {
	return p.Expected(t).Sub(paid)
}
