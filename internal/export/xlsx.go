package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"greep/internal/core"
)

// BuildMonthlyWorkbook renders the monthly report as an XLSX workbook with
// one sheet per section. The caller owns the file and must Close it.
func BuildMonthlyWorkbook(report core.MonthlyReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := addSheet(f, "Payments", paymentSheet(report.Payments)); err != nil {
		return nil, err
	}
	if err := addSheet(f, "Expenses", expenseSheet(report.Expenses)); err != nil {
		return nil, err
	}
	if err := addSheet(f, "Payouts", payoutSheet(report.Payouts)); err != nil {
		return nil, err
	}
	if err := addSheet(f, "Summary", summarySheet(report.Summary)); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex("Summary")
	if err != nil {
		return nil, fmt.Errorf("locate summary sheet: %w", err)
	}
	f.SetActiveSheet(index)

	return f, nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", name, cell, err)
			}
		}
	}
	return nil
}

func paymentSheet(rows []core.PaymentRow) [][]any {
	out := [][]any{{"Driver", "Tier", "Week Start", "Amount", "Notes"}}
	for _, r := range rows {
		out = append(out, []any{r.DriverName, r.DriverTier, r.WeekStart, r.Amount.Lira(), r.Notes})
	}
	return out
}

func expenseSheet(rows []core.ExpenseRow) [][]any {
	out := [][]any{{"Date", "Type", "Description", "Amount", "Notes"}}
	for _, r := range rows {
		out = append(out, []any{r.Date, r.Type, r.Description, r.Amount.Lira(), r.Notes})
	}
	return out
}

func payoutSheet(rows []core.PayoutRow) [][]any {
	out := [][]any{{"Investor", "Tier", "Month", "Gross", "Expenses", "Net", "Status", "Notes"}}
	for _, r := range rows {
		out = append(out, []any{
			r.InvestorName, r.InvestorTier, r.Month,
			r.GrossAmount.Lira(), r.TotalExpenses.Lira(), r.NetAmount.Lira(),
			r.Status, r.Notes,
		})
	}
	return out
}

func summarySheet(rows []core.SummaryRow) [][]any {
	out := [][]any{{"Category", "Amount"}}
	for _, r := range rows {
		out = append(out, []any{r.Category, r.Amount.Lira()})
	}
	return out
}
