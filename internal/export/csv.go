// Package export renders monthly reports and full backups as CSV and XLSX
// downloads. Amounts are written as plain decimals ("760.00"); spreadsheet
// cells use numeric values.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"greep/internal/core"
)

// Sections of the monthly report CSV export.
const (
	SectionPayments = "payments"
	SectionExpenses = "expenses"
	SectionPayouts  = "payouts"
	SectionSummary  = "summary"
)

// WriteMonthlyCSV writes one section of the monthly report as CSV. An empty
// section defaults to the summary.
func WriteMonthlyCSV(w io.Writer, report core.MonthlyReport, section string) error {
	cw := csv.NewWriter(w)

	switch section {
	case SectionPayments:
		writePaymentRows(cw, report.Payments)
	case SectionExpenses:
		writeExpenseRows(cw, report.Expenses)
	case SectionPayouts:
		writePayoutRows(cw, report.Payouts)
	case SectionSummary, "":
		writeSummaryRows(cw, report.Summary)
	default:
		return fmt.Errorf("unknown export section %q", section)
	}

	cw.Flush()
	return cw.Error()
}

// WriteBackupCSV writes the full backup as one CSV stream, one titled block
// per collection.
func WriteBackupCSV(w io.Writer, b core.Backup) error {
	cw := csv.NewWriter(w)

	cw.Write([]string{"Users"})
	cw.Write([]string{"ID", "Name", "Email", "Role", "Tier", "Active", "Created"})
	for _, u := range b.Users {
		cw.Write([]string{u.ID, u.Name, u.Email, u.Role, u.Tier, u.Active, u.CreatedAt})
	}

	cw.Write(nil)
	cw.Write([]string{"Driver Payments"})
	writePaymentRows(cw, b.Payments)

	cw.Write(nil)
	cw.Write([]string{"Expenses"})
	writeExpenseRows(cw, b.Expenses)

	cw.Write(nil)
	cw.Write([]string{"Investor Payouts"})
	writePayoutRows(cw, b.Payouts)

	cw.Flush()
	return cw.Error()
}

func writePaymentRows(cw *csv.Writer, rows []core.PaymentRow) {
	cw.Write([]string{"Driver", "Tier", "Week Start", "Amount", "Notes"})
	for _, r := range rows {
		cw.Write([]string{r.DriverName, r.DriverTier, r.WeekStart, r.Amount.String(), r.Notes})
	}
}

func writeExpenseRows(cw *csv.Writer, rows []core.ExpenseRow) {
	cw.Write([]string{"Date", "Type", "Description", "Amount", "Notes"})
	for _, r := range rows {
		cw.Write([]string{r.Date, r.Type, r.Description, r.Amount.String(), r.Notes})
	}
}

func writePayoutRows(cw *csv.Writer, rows []core.PayoutRow) {
	cw.Write([]string{"Investor", "Tier", "Month", "Gross", "Expenses", "Net", "Status", "Notes"})
	for _, r := range rows {
		cw.Write([]string{
			r.InvestorName, r.InvestorTier, r.Month,
			r.GrossAmount.String(), r.TotalExpenses.String(), r.NetAmount.String(),
			r.Status, r.Notes,
		})
	}
}

func writeSummaryRows(cw *csv.Writer, rows []core.SummaryRow) {
	cw.Write([]string{"Category", "Amount"})
	for _, r := range rows {
		cw.Write([]string{r.Category, r.Amount.String()})
	}
}
