package core

// unknownLabel substitutes for display values whose user reference does not
// resolve. A deleted or dangling reference must never be an error.
const unknownLabel = "Unknown"

// PaymentRow is the export projection of one driver payment, joined with its
// driver for display.
type PaymentRow struct {
	DriverName string `json:"driver_name"`
	DriverTier string `json:"driver_tier"`
	WeekStart  string `json:"week_start"`
	Amount     Money  `json:"amount"`
	Notes      string `json:"notes"`
}

// ExpenseRow is the export projection of one expense.
type ExpenseRow struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      Money  `json:"amount"`
	Notes       string `json:"notes"`
}

// PayoutRow is the export projection of one investor payout, joined with its
// investor for display.
type PayoutRow struct {
	InvestorName  string `json:"investor_name"`
	InvestorTier  string `json:"investor_tier"`
	Month         string `json:"month"`
	GrossAmount   Money  `json:"gross_amount"`
	TotalExpenses Money  `json:"total_expenses"`
	NetAmount     Money  `json:"net_amount"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

// SummaryRow is one line of the monthly summary section.
type SummaryRow struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// DriverPerformance aggregates one active driver's payments within the
// report month.
type DriverPerformance struct {
	DriverID     string `json:"driver_id"`
	DriverName   string `json:"driver_name"`
	DriverTier   string `json:"driver_tier"`
	TotalEarned  Money  `json:"total_earned"`
	PaymentCount int    `json:"payment_count"`
}

// ExpenseTypeBreakdown aggregates the month's expenses of one type.
type ExpenseTypeBreakdown struct {
	Type  ExpenseType `json:"type"`
	Total Money       `json:"total"`
	Count int         `json:"count"`
}

// MonthlyReport is the full month view: filtered aggregates plus flattened
// export-ready row projections.
type MonthlyReport struct {
	Month        Month `json:"month"`
	Revenue      Money `json:"revenue"`
	ExpenseTotal Money `json:"expense_total"`
	PayoutTotal  Money `json:"payout_total"`
	Profit       Money `json:"profit"`

	Payments []PaymentRow `json:"payments"`
	Expenses []ExpenseRow `json:"expenses"`
	Payouts  []PayoutRow  `json:"payouts"`
	Summary  []SummaryRow `json:"summary"`

	DriverPerformance []DriverPerformance    `json:"driver_performance"`
	ExpenseBreakdown  []ExpenseTypeBreakdown `json:"expense_breakdown"`
}

// BuildMonthlyReport filters each collection to the target month and computes
// the per-category totals, the profit figure and the export projections.
// Payments and expenses match by "YYYY-MM" prefix of their date; payouts
// match their month exactly.
func BuildMonthlyReport(month Month, users []User, payments []DriverPayment, expenses []Expense, payouts []InvestorPayout) MonthlyReport {
	byID := usersByID(users)
	report := MonthlyReport{Month: month}

	var monthlyPayments []DriverPayment
	for _, p := range payments {
		if p.WeekStartDate.InMonth(month) {
			monthlyPayments = append(monthlyPayments, p)
			report.Revenue = report.Revenue.Add(p.AmountPaid)
		}
	}
	var monthlyExpenses []Expense
	for _, e := range expenses {
		if e.Date.InMonth(month) {
			monthlyExpenses = append(monthlyExpenses, e)
			report.ExpenseTotal = report.ExpenseTotal.Add(e.Amount)
		}
	}
	var monthlyPayouts []InvestorPayout
	for _, p := range payouts {
		if p.Month == month {
			monthlyPayouts = append(monthlyPayouts, p)
			report.PayoutTotal = report.PayoutTotal.Add(p.NetAmount)
		}
	}
	report.Profit = report.Revenue.Sub(report.ExpenseTotal).Sub(report.PayoutTotal)

	for _, p := range monthlyPayments {
		name, tier := resolveUser(byID, p.DriverID)
		report.Payments = append(report.Payments, PaymentRow{
			DriverName: name,
			DriverTier: tier,
			WeekStart:  p.WeekStartDate.ISO(),
			Amount:     p.AmountPaid,
			Notes:      p.Notes,
		})
	}
	for _, e := range monthlyExpenses {
		report.Expenses = append(report.Expenses, ExpenseRow{
			Date:        e.Date.ISO(),
			Type:        string(e.Type),
			Description: e.Description,
			Amount:      e.Amount,
			Notes:       e.Notes,
		})
	}
	for _, p := range monthlyPayouts {
		name, tier := resolveUser(byID, p.InvestorID)
		report.Payouts = append(report.Payouts, PayoutRow{
			InvestorName:  name,
			InvestorTier:  tier,
			Month:         string(p.Month),
			GrossAmount:   p.GrossAmount,
			TotalExpenses: p.TotalExpenses,
			NetAmount:     p.NetAmount,
			Status:        string(p.Status),
			Notes:         p.Notes,
		})
	}

	report.Summary = []SummaryRow{
		{Category: "Revenue", Amount: report.Revenue},
		{Category: "Expenses", Amount: report.ExpenseTotal},
		{Category: "Payouts", Amount: report.PayoutTotal},
		{Category: "Profit", Amount: report.Profit},
	}

	for _, u := range users {
		if u.Role != RoleDriver || !u.Active {
			continue
		}
		perf := DriverPerformance{DriverID: u.ID, DriverName: u.Name, DriverTier: string(u.Tier)}
		for _, p := range monthlyPayments {
			if p.DriverID == u.ID {
				perf.TotalEarned = perf.TotalEarned.Add(p.AmountPaid)
				perf.PaymentCount++
			}
		}
		report.DriverPerformance = append(report.DriverPerformance, perf)
	}

	for _, t := range []ExpenseType{ExpenseAdmin, ExpenseDriver, ExpenseInvestor} {
		breakdown := ExpenseTypeBreakdown{Type: t}
		for _, e := range monthlyExpenses {
			if e.Type == t {
				breakdown.Total = breakdown.Total.Add(e.Amount)
				breakdown.Count++
			}
		}
		report.ExpenseBreakdown = append(report.ExpenseBreakdown, breakdown)
	}

	return report
}

// BackupUserRow is the full-collection export projection of a user. Login
// capability is deliberately omitted.
type BackupUserRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Tier      string `json:"tier"`
	Active    string `json:"active"`
	CreatedAt string `json:"created_at"`
}

// Backup is the export projection of all four collections, unfiltered.
type Backup struct {
	Users    []BackupUserRow `json:"users"`
	Payments []PaymentRow    `json:"payments"`
	Expenses []ExpenseRow    `json:"expenses"`
	Payouts  []PayoutRow     `json:"payouts"`
}

// BuildBackup flattens every record for a full data export, resolving user
// references with the same Unknown fallback as the monthly report.
func BuildBackup(users []User, payments []DriverPayment, expenses []Expense, payouts []InvestorPayout) Backup {
	byID := usersByID(users)
	var b Backup

	for _, u := range users {
		active := "No"
		if u.Active {
			active = "Yes"
		}
		b.Users = append(b.Users, BackupUserRow{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      string(u.Role),
			Tier:      string(u.Tier),
			Active:    active,
			CreatedAt: u.CreatedAt.Format("2006-01-02"),
		})
	}
	for _, p := range payments {
		name, tier := resolveUser(byID, p.DriverID)
		b.Payments = append(b.Payments, PaymentRow{
			DriverName: name,
			DriverTier: tier,
			WeekStart:  p.WeekStartDate.ISO(),
			Amount:     p.AmountPaid,
			Notes:      p.Notes,
		})
	}
	for _, e := range expenses {
		b.Expenses = append(b.Expenses, ExpenseRow{
			Date:        e.Date.ISO(),
			Type:        string(e.Type),
			Description: e.Description,
			Amount:      e.Amount,
			Notes:       e.Notes,
		})
	}
	for _, p := range payouts {
		name, tier := resolveUser(byID, p.InvestorID)
		b.Payouts = append(b.Payouts, PayoutRow{
			InvestorName:  name,
			InvestorTier:  tier,
			Month:         string(p.Month),
			GrossAmount:   p.GrossAmount,
			TotalExpenses: p.TotalExpenses,
			NetAmount:     p.NetAmount,
			Status:        string(p.Status),
			Notes:         p.Notes,
		})
	}

	return b
}

func usersByID(users []User) map[string]User {
	m := make(map[string]User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}

func resolveUser(byID map[string]User, id string) (name, tier string) {
	if u, ok := byID[id]; ok {
		return u.Name, string(u.Tier)
	}
	return unknownLabel, unknownLabel
}
