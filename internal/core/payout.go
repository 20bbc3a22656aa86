package core

// PayoutBreakdown is the derived payout amount for an investor and month,
// previewed live while the operator edits the form and computed again
// authoritatively at submit time.
type PayoutBreakdown struct {
	InvestorID    string `json:"investor_id"`
	Month         Month  `json:"month"`
	GrossAmount   Money  `json:"gross_amount"`
	TotalExpenses Money  `json:"total_expenses"`
	NetAmount     Money  `json:"net_amount"`
}

// InvestorExpenseTotal sums investor-type expenses attributed to the given
// investor whose date falls within the month's inclusive first/last-day
// range. Note this is a parsed date-range comparison, not the string-prefix
// filter monthly reports use.
func InvestorExpenseTotal(expenses []Expense, investorID string, month Month) Money {
	var total Money
	for _, e := range expenses {
		if e.Type != ExpenseInvestor || e.UserID != investorID {
			continue
		}
		if month.Contains(e.Date) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// ComputePayout derives the payout breakdown for the chosen gross amount.
// The net amount is gross minus attributable expenses, unclamped: expenses
// exceeding gross yield a negative net.
func ComputePayout(expenses []Expense, investorID string, month Month, gross Money) PayoutBreakdown {
	total := InvestorExpenseTotal(expenses, investorID, month)
	return PayoutBreakdown{
		InvestorID:    investorID,
		Month:         month,
		GrossAmount:   gross,
		TotalExpenses: total,
		NetAmount:     gross.Sub(total),
	}
}
