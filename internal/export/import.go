package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"greep/internal/core"
)

// Import kinds, matched from CSV headers.
const (
	KindUsers    = "users"
	KindPayments = "payments"
	KindExpenses = "expenses"
	KindPayouts  = "payouts"
)

// ImportSet is the parsed content of one import upload. CSV uploads carry a
// single collection (Kind names it); JSON uploads may carry several.
type ImportSet struct {
	Kind     string
	Users    []core.User
	Payments []core.DriverPayment
	Expenses []core.Expense
	Payouts  []core.InvestorPayout
}

// ImportSummary counts what an import wrote and what it skipped.
type ImportSummary struct {
	Users    int `json:"users"`
	Payments int `json:"payments"`
	Expenses int `json:"expenses"`
	Payouts  int `json:"payouts"`
	Skipped  int `json:"skipped"`
}

// ParseImportJSON reads a full backup document: any subset of the keys
// "users", "payments", "expenses", "payouts", each an array in the entity
// wire format (cents amounts, ISO dates).
func ParseImportJSON(r io.Reader) (ImportSet, error) {
	var set ImportSet
	dec := json.NewDecoder(r)
	if err := dec.Decode(&struct {
		Users    *[]core.User           `json:"users"`
		Payments *[]core.DriverPayment  `json:"payments"`
		Expenses *[]core.Expense        `json:"expenses"`
		Payouts  *[]core.InvestorPayout `json:"payouts"`
	}{&set.Users, &set.Payments, &set.Expenses, &set.Payouts}); err != nil {
		return ImportSet{}, fmt.Errorf("parse import JSON: %w", err)
	}
	return set, nil
}

// ParseImportCSV reads one collection from a headered CSV document. The
// collection is recognized from its header row; rows missing their required
// fields are dropped rather than failing the upload.
func ParseImportCSV(r io.Reader) (ImportSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return ImportSet{}, fmt.Errorf("parse import CSV: %w", err)
	}
	if len(records) < 1 {
		return ImportSet{}, fmt.Errorf("parse import CSV: no header row")
	}

	header := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	rows := records[1:]

	set := ImportSet{Kind: detectCSVKind(header)}
	switch set.Kind {
	case KindUsers:
		set.Users = parseUserRows(header, rows)
	case KindPayments:
		set.Payments = parsePaymentRows(header, rows)
	case KindExpenses:
		set.Expenses = parseExpenseRows(header, rows)
	case KindPayouts:
		set.Payouts = parsePayoutRows(header, rows)
	default:
		return ImportSet{}, fmt.Errorf("unrecognized import headers: %v", records[0])
	}
	return set, nil
}

func detectCSVKind(header map[string]int) string {
	has := func(keys ...string) bool {
		for _, k := range keys {
			if _, ok := header[k]; !ok {
				return false
			}
		}
		return true
	}
	switch {
	case has("role", "tier", "name"):
		return KindUsers
	case has("driver_id", "week_start_date", "amount_paid"):
		return KindPayments
	case has("date", "description", "amount", "type"):
		return KindExpenses
	case has("investor_id", "month", "gross_amount"):
		return KindPayouts
	}
	return ""
}

func parseUserRows(header map[string]int, rows [][]string) []core.User {
	var users []core.User
	for _, row := range rows {
		field := fieldGetter(header, row)
		name := field("name")
		if strings.TrimSpace(name) == "" {
			continue
		}
		users = append(users, core.User{
			ID:       field("id"),
			Name:     name,
			Email:    field("email"),
			Role:     core.Role(orDefault(field("role"), string(core.RoleDriver))),
			Tier:     core.Tier(orDefault(field("tier"), string(core.TierA))),
			Active:   parseBool(field("active"), true),
			CanLogin: parseBool(field("can_login"), false),
		})
	}
	return users
}

func parsePaymentRows(header map[string]int, rows [][]string) []core.DriverPayment {
	var payments []core.DriverPayment
	for _, row := range rows {
		field := fieldGetter(header, row)
		date, err := core.ParseDate(field("week_start_date"))
		if field("driver_id") == "" || err != nil {
			continue
		}
		payments = append(payments, core.DriverPayment{
			ID:               field("id"),
			DriverID:         field("driver_id"),
			WeekStartDate:    date,
			AmountPaid:       parseAmount(field("amount_paid")),
			BalanceCarryover: parseAmount(field("balance_carryover")),
			Notes:            field("notes"),
		})
	}
	return payments
}

func parseExpenseRows(header map[string]int, rows [][]string) []core.Expense {
	var expenses []core.Expense
	for _, row := range rows {
		field := fieldGetter(header, row)
		date, err := core.ParseDate(field("date"))
		if field("description") == "" || err != nil {
			continue
		}
		expenses = append(expenses, core.Expense{
			ID:          field("id"),
			Type:        core.ExpenseType(orDefault(field("type"), string(core.ExpenseAdmin))),
			Amount:      parseAmount(field("amount")),
			Date:        date,
			Description: field("description"),
			PaidBy:      orDefault(field("paid_by"), "company"),
			UserID:      field("user_id"),
			Notes:       field("notes"),
		})
	}
	return expenses
}

func parsePayoutRows(header map[string]int, rows [][]string) []core.InvestorPayout {
	var payouts []core.InvestorPayout
	for _, row := range rows {
		field := fieldGetter(header, row)
		month, err := core.ParseMonth(field("month"))
		if field("investor_id") == "" || err != nil {
			continue
		}
		// Legacy exports used "deductions" for the expense total
		total := field("total_expenses")
		if total == "" {
			total = field("deductions")
		}
		payouts = append(payouts, core.InvestorPayout{
			ID:            field("id"),
			InvestorID:    field("investor_id"),
			Month:         month,
			GrossAmount:   parseAmount(field("gross_amount")),
			TotalExpenses: parseAmount(total),
			NetAmount:     parseAmount(field("net_amount")),
			Status:        core.PayoutStatus(orDefault(field("status"), string(core.PayoutPending))),
			Notes:         field("notes"),
		})
	}
	return payouts
}

func fieldGetter(header map[string]int, row []string) func(string) string {
	return func(name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	}
	return fallback
}

// parseAmount reads a decimal currency string, tolerating blanks and garbage
// as zero the way the legacy importer did.
func parseAmount(value string) core.Money {
	cents, err := core.ParseDecimalToCents(value)
	if err != nil {
		return core.Money{}
	}
	return core.Money{Cents: cents}
}
