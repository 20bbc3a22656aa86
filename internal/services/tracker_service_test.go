package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"greep/internal/amqp"
	"greep/internal/auth"
	"greep/internal/core"
	"greep/internal/storage"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*amqp.ChangeMessage
	fail bool
}

func (p *recordingPublisher) PublishChange(_ context.Context, msg *amqp.ChangeMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) published() []*amqp.ChangeMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*amqp.ChangeMessage(nil), p.msgs...)
}

func newTestService(t *testing.T) (*TrackerService, *storage.SQLiteRepository, *recordingPublisher) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	pub := &recordingPublisher{}
	svc := NewTrackerService(repo, pub, core.DefaultTierPolicy(), time.Minute)
	return svc, repo, pub
}

func createDriver(t *testing.T, svc *TrackerService, id string, tier core.Tier) core.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), core.User{
		ID:     id,
		Name:   "Driver " + id,
		Role:   core.RoleDriver,
		Tier:   tier,
		Active: true,
	}, "admin")
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	return u
}

func createInvestor(t *testing.T, svc *TrackerService, id string) core.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), core.User{
		ID:     id,
		Name:   "Investor " + id,
		Role:   core.RoleInvestor,
		Tier:   core.TierX,
		Active: true,
	}, "admin")
	if err != nil {
		t.Fatalf("create investor: %v", err)
	}
	return u
}

func TestRecordPaymentDerivesCarryover(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	createDriver(t, svc, "d1", core.TierA)

	p, err := svc.RecordPayment(ctx, core.DriverPayment{
		DriverID:      "d1",
		WeekStartDate: core.NewDate(2024, 3, 4),
		AmountPaid:    core.Money{Cents: 50000},
	}, "admin")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	// tier A expects 760.00, paid 500.00 => 260.00 carried over
	if p.BalanceCarryover.Cents != 26000 {
		t.Fatalf("carryover = %d, want 26000", p.BalanceCarryover.Cents)
	}
	if p.ID == "" || p.CreatedBy != "admin" {
		t.Fatalf("metadata not stamped: %+v", p)
	}

	msgs := pub.published()
	if len(msgs) != 2 { // user create + payment create
		t.Fatalf("published %d messages, want 2", len(msgs))
	}
	last := msgs[len(msgs)-1]
	if last.Entity != "payment" || last.Op != "create" || last.Actor != "admin" {
		t.Fatalf("unexpected change message: %+v", last)
	}
}

func TestRecordPaymentDanglingDriver(t *testing.T) {
	svc, _, _ := newTestService(t)

	// No such driver: expected amount is zero, overpayment carries negative
	p, err := svc.RecordPayment(context.Background(), core.DriverPayment{
		DriverID:      "ghost",
		WeekStartDate: core.NewDate(2024, 3, 4),
		AmountPaid:    core.Money{Cents: 5000},
	}, "admin")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if p.BalanceCarryover.Cents != -5000 {
		t.Fatalf("carryover = %d, want -5000", p.BalanceCarryover.Cents)
	}
}

func TestUpdatePaymentRecomputesCarryover(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	createDriver(t, svc, "d1", core.TierB)

	p, err := svc.RecordPayment(ctx, core.DriverPayment{
		DriverID:      "d1",
		WeekStartDate: core.NewDate(2024, 3, 4),
		AmountPaid:    core.Money{Cents: 80000},
	}, "admin")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if p.BalanceCarryover.Cents != 0 {
		t.Fatalf("carryover = %d, want 0", p.BalanceCarryover.Cents)
	}

	p.AmountPaid = core.Money{Cents: 90000}
	updated, err := svc.UpdatePayment(ctx, p, "admin")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BalanceCarryover.Cents != -10000 {
		t.Fatalf("carryover after update = %d, want -10000", updated.BalanceCarryover.Cents)
	}
}

func TestCreatePayoutDerivesBreakdown(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	createInvestor(t, svc, "i1")

	_, err := svc.CreateExpense(ctx, core.Expense{
		Type:        core.ExpenseInvestor,
		Amount:      core.Money{Cents: 200000},
		Date:        core.NewDate(2024, 3, 10),
		Description: "vehicle repair",
		UserID:      "i1",
	}, "admin")
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	// Client-sent totals are ignored and re-derived
	p, err := svc.CreatePayout(ctx, core.InvestorPayout{
		InvestorID:    "i1",
		Month:         "2024-03",
		GrossAmount:   core.Money{Cents: 1500000},
		TotalExpenses: core.Money{Cents: 1},
		NetAmount:     core.Money{Cents: 2},
	}, "admin")
	if err != nil {
		t.Fatalf("create payout: %v", err)
	}
	if p.TotalExpenses.Cents != 200000 {
		t.Fatalf("total expenses = %d, want 200000", p.TotalExpenses.Cents)
	}
	if p.NetAmount.Cents != 1300000 {
		t.Fatalf("net = %d, want 1300000", p.NetAmount.Cents)
	}
	if p.Status != core.PayoutPending {
		t.Fatalf("status = %q, want pending", p.Status)
	}
}

func TestTogglePayoutStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	createInvestor(t, svc, "i1")

	p, err := svc.CreatePayout(ctx, core.InvestorPayout{
		InvestorID:  "i1",
		Month:       "2024-03",
		GrossAmount: core.Money{Cents: 100000},
	}, "admin")
	if err != nil {
		t.Fatalf("create payout: %v", err)
	}

	toggled, err := svc.TogglePayoutStatus(ctx, p.ID, "admin")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Status != core.PayoutPaid {
		t.Fatalf("status = %q, want paid", toggled.Status)
	}

	back, err := svc.TogglePayoutStatus(ctx, p.ID, "admin")
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if back.Status != core.PayoutPending {
		t.Fatalf("status = %q, want pending", back.Status)
	}
}

func TestPreviewPayout(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	createInvestor(t, svc, "i1")

	_, err := svc.CreateExpense(ctx, core.Expense{
		Type:        core.ExpenseInvestor,
		Amount:      core.Money{Cents: 1600000},
		Date:        core.NewDate(2024, 3, 20),
		Description: "major overhaul",
		UserID:      "i1",
	}, "admin")
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	preview, err := svc.PreviewPayout(ctx, "i1", "2024-03", core.Money{Cents: 1500000})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.NetAmount.Cents != -100000 {
		t.Fatalf("net = %d, want -100000", preview.NetAmount.Cents)
	}

	if _, err := svc.PreviewPayout(ctx, "i1", "March", core.Money{}); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("bad month: got %v, want ErrInvalidMonth", err)
	}
}

func TestDashboardStatsThroughService(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	createDriver(t, svc, "d1", core.TierA)
	createInvestor(t, svc, "i1")

	if _, err := svc.RecordPayment(ctx, core.DriverPayment{
		DriverID:      "d1",
		WeekStartDate: core.NewDate(2024, 3, 4),
		AmountPaid:    core.Money{Cents: 100000},
	}, "admin"); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, core.DriverPayment{
		DriverID:      "d1",
		WeekStartDate: core.NewDate(2024, 2, 5),
		AmountPaid:    core.Money{Cents: 40000},
	}, "admin"); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	stats, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalRevenue.Cents != 140000 {
		t.Fatalf("total revenue = %d, want 140000", stats.TotalRevenue.Cents)
	}
	if stats.CurrentMonthRevenue.Cents != 100000 {
		t.Fatalf("current month revenue = %d, want 100000", stats.CurrentMonthRevenue.Cents)
	}
	if stats.ActiveDrivers != 1 || stats.ActiveInvestors != 1 {
		t.Fatalf("active counts: %+v", stats)
	}
}

func TestWriteReconcilesCacheWithoutRefetch(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	u := createDriver(t, svc, "d1", core.TierA)

	// Warm the snapshot
	if _, err := svc.Users(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	// Bypass the service; the snapshot must still serve the cached entry
	if err := repo.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("direct delete: %v", err)
	}
	users, err := svc.Users(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("snapshot should still hold the user, got %d", len(users))
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.fail = true

	u, err := svc.CreateUser(context.Background(), core.User{
		Name: "Driver", Role: core.RoleDriver, Tier: core.TierA, Active: true,
	}, "admin")
	if err != nil {
		t.Fatalf("create should succeed despite broker failure: %v", err)
	}
	if u.ID == "" {
		t.Fatal("id not assigned")
	}
}

func TestEnsureAdminAndAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "supersecret"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	// Second run is a no-op
	if err := svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "supersecret"); err != nil {
		t.Fatalf("ensure admin twice: %v", err)
	}

	u, err := svc.Authenticate(ctx, "admin@example.com", "supersecret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Role != core.RoleAdmin {
		t.Fatalf("role = %q, want admin", u.Role)
	}

	if _, err := svc.Authenticate(ctx, "admin@example.com", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateRejectsNonAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	driver, err := svc.CreateUser(ctx, core.User{
		ID:     "d1",
		Name:   "Driver d1",
		Email:  "driver@example.com",
		Role:   core.RoleDriver,
		Tier:   core.TierA,
		Active: true,
	}, "admin")
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	if err := svc.SetUserPassword(ctx, driver.ID, "supersecret"); err != nil {
		t.Fatalf("set password: %v", err)
	}

	// A correct password must not buy a driver a session
	if _, err := svc.Authenticate(ctx, "driver@example.com", "supersecret"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("driver login: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateRejectsInactiveAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "supersecret"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	admin, err := svc.Authenticate(ctx, "admin@example.com", "supersecret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if _, err := svc.ToggleUserActive(ctx, admin.ID, "admin"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "admin@example.com", "supersecret"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("inactive admin login: got %v, want ErrInvalidCredentials", err)
	}
}

func TestEnsureAdminSkippedWithoutConfig(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.EnsureAdmin(context.Background(), "Admin", "", ""); err != nil {
		t.Fatalf("ensure admin without config: %v", err)
	}
	users, err := svc.Users(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("no users expected, got %d", len(users))
	}
}
