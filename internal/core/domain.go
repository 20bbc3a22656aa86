package core

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin    Role = "admin"
	RoleDriver   Role = "driver"
	RoleInvestor Role = "investor"
)

const (
	// Driver tiers
	TierA Tier = "A"
	TierB Tier = "B"
	// Investor tiers
	TierX Tier = "X"
	TierY Tier = "Y"
	// Admins carry no meaningful tier
	TierNone Tier = ""
)

const (
	ExpenseAdmin    ExpenseType = "admin"
	ExpenseDriver   ExpenseType = "driver"
	ExpenseInvestor ExpenseType = "investor"
)

const (
	PayoutPending PayoutStatus = "pending"
	PayoutPaid    PayoutStatus = "paid"
)

type (
	Role         string
	Tier         string
	ExpenseType  string
	PayoutStatus string

	// User is an operator, driver or investor. Only active drivers and
	// investors participate in aggregation eligibility lists.
	User struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Role      Role      `json:"role"`
		Tier      Tier      `json:"tier"`
		Active    bool      `json:"active"`
		CanLogin  bool      `json:"can_login"`
		CreatedAt time.Time `json:"created_at"`
	}

	// DriverPayment records one weekly payment by a driver. BalanceCarryover
	// is derived once at record time (tier expected amount minus AmountPaid)
	// and persisted verbatim, never recomputed.
	DriverPayment struct {
		ID               string    `json:"id"`
		DriverID         string    `json:"driver_id"`
		WeekStartDate    Date      `json:"week_start_date"`
		AmountPaid       Money     `json:"amount_paid"`
		BalanceCarryover Money     `json:"balance_carryover"`
		Notes            string    `json:"notes,omitempty"`
		CreatedAt        time.Time `json:"created_at"`
		CreatedBy        string    `json:"created_by"`
	}

	// Expense is a business expense, optionally attributed to a driver or
	// investor via UserID.
	Expense struct {
		ID          string      `json:"id"`
		Type        ExpenseType `json:"type"`
		Amount      Money       `json:"amount"`
		Date        Date        `json:"date"`
		Description string      `json:"description"`
		PaidBy      string      `json:"paid_by"`
		UserID      string      `json:"user_id,omitempty"`
		Notes       string      `json:"notes,omitempty"`
		CreatedAt   time.Time   `json:"created_at"`
		CreatedBy   string      `json:"created_by"`
	}

	// InvestorPayout is a monthly payout to an investor. TotalExpenses is the
	// sum of investor-type expenses attributed to the investor within the
	// payout month, NetAmount = GrossAmount - TotalExpenses (may be negative).
	InvestorPayout struct {
		ID            string       `json:"id"`
		InvestorID    string       `json:"investor_id"`
		Month         Month        `json:"month"`
		GrossAmount   Money        `json:"gross_amount"`
		TotalExpenses Money        `json:"total_expenses"`
		NetAmount     Money        `json:"net_amount"`
		Status        PayoutStatus `json:"status"`
		Notes         string       `json:"notes,omitempty"`
		CreatedAt     time.Time    `json:"created_at"`
		CreatedBy     string       `json:"created_by"`
	}
)

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidTier        = errors.New("tier not valid for role")
	ErrInvalidExpenseType = errors.New("invalid expense type")
	ErrInvalidStatus      = errors.New("invalid payout status")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyDescription   = errors.New("empty description")
	ErrMissingDriver      = errors.New("driver reference required")
	ErrMissingInvestor    = errors.New("investor reference required")
	ErrMissingUserRef     = errors.New("user reference required for attributed expense")
)

// ValidFor reports whether the tier is meaningful for the given role.
// Drivers use A/B, investors use X/Y, admins carry a placeholder tier.
func (t Tier) ValidFor(r Role) bool {
	switch r {
	case RoleDriver:
		return t == TierA || t == TierB
	case RoleInvestor:
		return t == TierX || t == TierY
	case RoleAdmin:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDriver, RoleInvestor:
		return true
	}
	return false
}

func (t ExpenseType) Valid() bool {
	switch t {
	case ExpenseAdmin, ExpenseDriver, ExpenseInvestor:
		return true
	}
	return false
}

func (s PayoutStatus) Valid() bool {
	return s == PayoutPending || s == PayoutPaid
}

// Toggle flips pending to paid and back.
func (s PayoutStatus) Toggle() PayoutStatus {
	if s == PayoutPending {
		return PayoutPaid
	}
	return PayoutPending
}

func (u User) Validate() error {
	if len(strings.TrimSpace(u.Name)) == 0 {
		return ErrEmptyName
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if !u.Tier.ValidFor(u.Role) {
		return ErrInvalidTier
	}
	return nil
}

func (p DriverPayment) Validate() error {
	if p.DriverID == "" {
		return ErrMissingDriver
	}
	if err := p.WeekStartDate.Validate(); err != nil {
		return err
	}
	if p.AmountPaid.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if !e.Type.Valid() {
		return ErrInvalidExpenseType
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	// Attribution is mandatory for driver/investor expenses
	if (e.Type == ExpenseDriver || e.Type == ExpenseInvestor) && e.UserID == "" {
		return ErrMissingUserRef
	}
	return nil
}

func (p InvestorPayout) Validate() error {
	if p.InvestorID == "" {
		return ErrMissingInvestor
	}
	if err := p.Month.Validate(); err != nil {
		return err
	}
	if p.GrossAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
