package core

import (
	"errors"
	"testing"
	"time"
)

func TestTierValidFor(t *testing.T) {
	cases := []struct {
		tier Tier
		role Role
		ok   bool
	}{
		{TierA, RoleDriver, true},
		{TierB, RoleDriver, true},
		{TierX, RoleDriver, false},
		{TierX, RoleInvestor, true},
		{TierY, RoleInvestor, true},
		{TierA, RoleInvestor, false},
		{TierNone, RoleAdmin, true},
		{TierA, RoleAdmin, true},
		{TierA, Role("ghost"), false},
	}
	for _, tc := range cases {
		if got := tc.tier.ValidFor(tc.role); got != tc.ok {
			t.Errorf("Tier(%q).ValidFor(%q) = %v, want %v", tc.tier, tc.role, got, tc.ok)
		}
	}
}

func TestUserValidate(t *testing.T) {
	valid := User{ID: "u1", Name: "Emre", Role: RoleDriver, Tier: TierA}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	noName := valid
	noName.Name = "  "
	if err := noName.Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name: got %v, want ErrEmptyName", err)
	}

	badTier := valid
	badTier.Tier = TierX
	if err := badTier.Validate(); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("driver with investor tier: got %v, want ErrInvalidTier", err)
	}
}

func TestDriverPaymentValidate(t *testing.T) {
	valid := DriverPayment{DriverID: "d1", WeekStartDate: NewDate(2024, 3, 4), AmountPaid: Money{Cents: 76000}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid payment rejected: %v", err)
	}

	zeroPaid := valid
	zeroPaid.AmountPaid = Money{}
	if err := zeroPaid.Validate(); err != nil {
		t.Errorf("zero payment is valid, got %v", err)
	}

	negative := valid
	negative.AmountPaid = Money{Cents: -1}
	if err := negative.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative payment: got %v, want ErrInvalidAmount", err)
	}

	noDriver := valid
	noDriver.DriverID = ""
	if err := noDriver.Validate(); !errors.Is(err, ErrMissingDriver) {
		t.Errorf("missing driver: got %v, want ErrMissingDriver", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	valid := Expense{Type: ExpenseAdmin, Amount: Money{Cents: 100}, Date: NewDate(2024, 3, 1), Description: "fuel"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	attributed := valid
	attributed.Type = ExpenseInvestor
	if err := attributed.Validate(); !errors.Is(err, ErrMissingUserRef) {
		t.Errorf("investor expense without user_id: got %v, want ErrMissingUserRef", err)
	}
	attributed.UserID = "i1"
	if err := attributed.Validate(); err != nil {
		t.Errorf("attributed expense rejected: %v", err)
	}

	zero := valid
	zero.Amount = Money{}
	if err := zero.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero expense: got %v, want ErrInvalidAmount", err)
	}
}

func TestInvestorPayoutValidate(t *testing.T) {
	valid := InvestorPayout{InvestorID: "i1", Month: "2024-03", GrossAmount: Money{Cents: 100}, Status: PayoutPending}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid payout rejected: %v", err)
	}

	badMonth := valid
	badMonth.Month = "March 2024"
	if err := badMonth.Validate(); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("bad month: got %v, want ErrInvalidMonth", err)
	}

	badStatus := valid
	badStatus.Status = "maybe"
	if err := badStatus.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: got %v, want ErrInvalidStatus", err)
	}
}

func TestPayoutStatusToggle(t *testing.T) {
	if PayoutPending.Toggle() != PayoutPaid {
		t.Error("pending should toggle to paid")
	}
	if PayoutPaid.Toggle() != PayoutPending {
		t.Error("paid should toggle to pending")
	}
}

func TestDateInMonth(t *testing.T) {
	d := NewDate(2024, 3, 4)
	if !d.InMonth("2024-03") {
		t.Error("2024-03-04 should be in 2024-03")
	}
	if d.InMonth("2024-02") || d.InMonth("2024-04") {
		t.Error("2024-03-04 should not match adjacent months")
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-03-04")
	if err != nil {
		t.Fatal(err)
	}
	if d.ISO() != "2024-03-04" {
		t.Fatalf("round trip gave %q", d.ISO())
	}
	if _, err := ParseDate("04/03/2024"); err == nil {
		t.Fatal("non-ISO date should be rejected")
	}
}

func TestMonthOf(t *testing.T) {
	if m := MonthOf(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)); m != "2024-12" {
		t.Fatalf("MonthOf = %q, want 2024-12", m)
	}
}
