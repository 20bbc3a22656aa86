package export

import (
	"strings"
	"testing"

	"greep/internal/core"
)

func TestParseImportCSV_Users(t *testing.T) {
	csvData := strings.Join([]string{
		"id,name,email,role,tier,active,can_login",
		"u1,Mehmet,mehmet@greep.test,driver,A,true,false",
		"u2,Ayse,,investor,X,yes,true",
		",  ,,driver,A,true,false",
		"u3,Filiz,,,,,",
	}, "\n")

	set, err := ParseImportCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Kind != KindUsers {
		t.Fatalf("kind = %q, want users", set.Kind)
	}
	if len(set.Users) != 3 {
		t.Fatalf("users = %d, want 3 (nameless row dropped)", len(set.Users))
	}

	if set.Users[0].Email != "mehmet@greep.test" || set.Users[0].Role != core.RoleDriver {
		t.Errorf("first user = %+v", set.Users[0])
	}
	if !set.Users[1].Active || !set.Users[1].CanLogin {
		t.Errorf("yes/true flags not parsed: %+v", set.Users[1])
	}
	// Blank role and tier fall back to driver/A
	if set.Users[2].Role != core.RoleDriver || set.Users[2].Tier != core.TierA || !set.Users[2].Active {
		t.Errorf("defaults not applied: %+v", set.Users[2])
	}
}

func TestParseImportCSV_Payments(t *testing.T) {
	csvData := strings.Join([]string{
		"driver_id,week_start_date,amount_paid,balance_carryover,notes",
		"d1,2024-03-04,760.00,0.00,on time",
		"d1,not-a-date,100.00,0.00,",
		",2024-03-11,100.00,0.00,",
		"d2,2024-03-11,garbage,,",
	}, "\n")

	set, err := ParseImportCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Kind != KindPayments {
		t.Fatalf("kind = %q, want payments", set.Kind)
	}
	if len(set.Payments) != 2 {
		t.Fatalf("payments = %d, want 2 (bad date and missing driver dropped)", len(set.Payments))
	}
	if set.Payments[0].AmountPaid.Cents != 76000 {
		t.Errorf("amount = %d, want 76000", set.Payments[0].AmountPaid.Cents)
	}
	// Unparseable amounts read as zero, the row itself survives
	if set.Payments[1].AmountPaid.Cents != 0 {
		t.Errorf("garbage amount = %d, want 0", set.Payments[1].AmountPaid.Cents)
	}
}

func TestParseImportCSV_PayoutsDeductionsAlias(t *testing.T) {
	csvData := strings.Join([]string{
		"investor_id,month,gross_amount,deductions,net_amount,status",
		"i1,2024-03,15000.00,2000.00,13000.00,",
	}, "\n")

	set, err := ParseImportCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Kind != KindPayouts {
		t.Fatalf("kind = %q, want payouts", set.Kind)
	}
	if len(set.Payouts) != 1 {
		t.Fatalf("payouts = %d, want 1", len(set.Payouts))
	}
	p := set.Payouts[0]
	if p.TotalExpenses.Cents != 200000 {
		t.Errorf("deductions column should fill total expenses, got %d", p.TotalExpenses.Cents)
	}
	if p.Status != core.PayoutPending {
		t.Errorf("blank status should default to pending, got %q", p.Status)
	}
}

func TestParseImportCSV_Expenses(t *testing.T) {
	csvData := strings.Join([]string{
		"date,type,description,amount,paid_by,user_id",
		"2024-03-10,investor,fuel subsidy,123.45,,i1",
		"2024-03-11,,office rent,500.00,,",
	}, "\n")

	set, err := ParseImportCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Kind != KindExpenses {
		t.Fatalf("kind = %q, want expenses", set.Kind)
	}
	if len(set.Expenses) != 2 {
		t.Fatalf("expenses = %d, want 2", len(set.Expenses))
	}
	if set.Expenses[1].Type != core.ExpenseAdmin || set.Expenses[1].PaidBy != "company" {
		t.Errorf("defaults not applied: %+v", set.Expenses[1])
	}
}

func TestParseImportCSV_UnknownHeaders(t *testing.T) {
	if _, err := ParseImportCSV(strings.NewReader("foo,bar\n1,2\n")); err == nil {
		t.Fatal("unknown headers should fail")
	}
	if _, err := ParseImportCSV(strings.NewReader("")); err == nil {
		t.Fatal("empty document should fail")
	}
}

func TestParseImportJSON(t *testing.T) {
	doc := `{
		"users": [{"id": "u1", "name": "Mehmet", "role": "driver", "tier": "A", "active": true}],
		"payments": [{"driver_id": "u1", "week_start_date": "2024-03-04", "amount_paid": 76000}]
	}`

	set, err := ParseImportJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(set.Users) != 1 || len(set.Payments) != 1 {
		t.Fatalf("set = %+v", set)
	}
	if set.Payments[0].AmountPaid.Cents != 76000 {
		t.Errorf("amount = %d, want 76000", set.Payments[0].AmountPaid.Cents)
	}
	if set.Users[0].Name != "Mehmet" {
		t.Errorf("user = %+v", set.Users[0])
	}

	if _, err := ParseImportJSON(strings.NewReader(`{"users": 42}`)); err == nil {
		t.Fatal("malformed document should fail")
	}
}
