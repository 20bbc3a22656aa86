package core

import "time"

// DashboardStats is the all-time snapshot summary shown on the dashboard.
type DashboardStats struct {
	TotalRevenue        Money `json:"total_revenue"`
	TotalExpenses       Money `json:"total_expenses"`
	TotalPayouts        Money `json:"total_payouts"`
	NetProfit           Money `json:"net_profit"`
	ActiveDrivers       int   `json:"active_drivers"`
	ActiveInvestors     int   `json:"active_investors"`
	PendingPayouts      int   `json:"pending_payouts"`
	CurrentMonthRevenue Money `json:"current_month_revenue"`
}

// ComputeDashboardStats summarizes the four collections. It is a pure
// function of its inputs plus the supplied wall-clock time, which only
// determines the current calendar month for CurrentMonthRevenue. Empty
// collections yield all-zero stats.
func ComputeDashboardStats(now time.Time, users []User, payments []DriverPayment, expenses []Expense, payouts []InvestorPayout) DashboardStats {
	var stats DashboardStats

	for _, p := range payments {
		stats.TotalRevenue = stats.TotalRevenue.Add(p.AmountPaid)
	}
	for _, e := range expenses {
		stats.TotalExpenses = stats.TotalExpenses.Add(e.Amount)
	}
	for _, p := range payouts {
		stats.TotalPayouts = stats.TotalPayouts.Add(p.NetAmount)
		if p.Status == PayoutPending {
			stats.PendingPayouts++
		}
	}
	stats.NetProfit = stats.TotalRevenue.Sub(stats.TotalExpenses).Sub(stats.TotalPayouts)

	for _, u := range users {
		if !u.Active {
			continue
		}
		switch u.Role {
		case RoleDriver:
			stats.ActiveDrivers++
		case RoleInvestor:
			stats.ActiveInvestors++
		}
	}

	currentMonth := MonthOf(now)
	for _, p := range payments {
		if p.WeekStartDate.InMonth(currentMonth) {
			stats.CurrentMonthRevenue = stats.CurrentMonthRevenue.Add(p.AmountPaid)
		}
	}

	return stats
}
