package services

import (
	"context"
	"testing"

	"greep/internal/core"
	"greep/internal/export"
)

func TestImportBackup(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	set := export.ImportSet{
		Users: []core.User{
			{Name: "Mehmet", Role: core.RoleDriver, Tier: core.TierA, Active: true},
			{Name: "", Role: core.RoleDriver, Tier: core.TierA}, // invalid, skipped
		},
		Payments: []core.DriverPayment{
			{
				DriverID:         "d-legacy",
				WeekStartDate:    core.NewDate(2024, 3, 4),
				AmountPaid:       core.Money{Cents: 50000},
				BalanceCarryover: core.Money{Cents: 31000},
			},
		},
		Payouts: []core.InvestorPayout{
			{
				InvestorID:    "i-legacy",
				Month:         "2024-03",
				GrossAmount:   core.Money{Cents: 1500000},
				TotalExpenses: core.Money{Cents: 1600000},
				NetAmount:     core.Money{Cents: -100000},
				Status:        core.PayoutPaid,
			},
		},
	}

	summary, err := svc.ImportBackup(ctx, set, "admin")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Users != 1 || summary.Payments != 1 || summary.Payouts != 1 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	// Imported amounts survive verbatim, carryover is not rederived
	payments, err := svc.Payments(ctx)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 || payments[0].BalanceCarryover.Cents != 31000 {
		t.Fatalf("payments = %+v", payments)
	}

	payouts, err := svc.Payouts(ctx)
	if err != nil {
		t.Fatalf("list payouts: %v", err)
	}
	if len(payouts) != 1 || payouts[0].NetAmount.Cents != -100000 || payouts[0].Status != core.PayoutPaid {
		t.Fatalf("payouts = %+v", payouts)
	}

	users, err := svc.Users(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].ID == "" {
		t.Fatalf("imported user should get a generated id, got %+v", users)
	}

	// One change event per imported record
	if len(pub.msgs) != 3 {
		t.Fatalf("published = %d, want 3", len(pub.msgs))
	}
	for _, msg := range pub.msgs {
		if msg.Op != "import" {
			t.Errorf("op = %q, want import", msg.Op)
		}
	}
}

func TestImportBackupKeepsExistingIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	set := export.ImportSet{
		Users: []core.User{
			{ID: "u-restored", Name: "Ayse", Role: core.RoleInvestor, Tier: core.TierX, Active: true},
		},
	}
	if _, err := svc.ImportBackup(ctx, set, "admin"); err != nil {
		t.Fatalf("import: %v", err)
	}

	u, err := svc.GetUser(ctx, "u-restored")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Name != "Ayse" {
		t.Fatalf("user = %+v", u)
	}

	// Importing the same id again collides instead of silently overwriting
	if _, err := svc.ImportBackup(ctx, set, "admin"); err == nil {
		t.Fatal("duplicate id should fail the import")
	}
}
