// Package services orchestrates tracker operations across SQLite, the
// collection caches and AMQP. Every write goes to storage first, then
// reconciles the cache and publishes a change event; a broker failure never
// fails the request.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"greep/internal/amqp"
	"greep/internal/cache"
	"greep/internal/core"
	"greep/internal/storage"
)

// Storage is the persistence surface the service needs. Implemented by
// storage.SQLiteRepository.
type Storage interface {
	CreateUser(ctx context.Context, u core.User) error
	UpdateUser(ctx context.Context, u core.User) error
	DeleteUser(ctx context.Context, id string) error
	GetUser(ctx context.Context, id string) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (storage.Credentials, error)
	SetUserPassword(ctx context.Context, id, passwordHash string) error

	CreatePayment(ctx context.Context, p core.DriverPayment) error
	UpdatePayment(ctx context.Context, p core.DriverPayment) error
	DeletePayment(ctx context.Context, id string) error
	GetPayment(ctx context.Context, id string) (core.DriverPayment, error)
	ListPayments(ctx context.Context) ([]core.DriverPayment, error)

	CreateExpense(ctx context.Context, e core.Expense) error
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)

	CreatePayout(ctx context.Context, p core.InvestorPayout) error
	UpdatePayout(ctx context.Context, p core.InvestorPayout) error
	DeletePayout(ctx context.Context, id string) error
	GetPayout(ctx context.Context, id string) (core.InvestorPayout, error)
	ListPayouts(ctx context.Context) ([]core.InvestorPayout, error)
}

// Publisher emits entity change events. Implemented by amqp.Client.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// TrackerService is the application core wired between HTTP and storage.
type TrackerService struct {
	store  Storage
	events Publisher
	policy core.TierPolicy

	users    *cache.Store[core.User]
	payments *cache.Store[core.DriverPayment]
	expenses *cache.Store[core.Expense]
	payouts  *cache.Store[core.InvestorPayout]

	newID func() string
	now   func() time.Time
}

// NewTrackerService wires the service. events may be nil, which disables
// change publishing.
func NewTrackerService(store Storage, events Publisher, policy core.TierPolicy, cacheTTL time.Duration) *TrackerService {
	return &TrackerService{
		store:    store,
		events:   events,
		policy:   policy,
		users:    cache.NewStore(cacheTTL, func(u core.User) string { return u.ID }),
		payments: cache.NewStore(cacheTTL, func(p core.DriverPayment) string { return p.ID }),
		expenses: cache.NewStore(cacheTTL, func(e core.Expense) string { return e.ID }),
		payouts:  cache.NewStore(cacheTTL, func(p core.InvestorPayout) string { return p.ID }),
		newID:    newID,
		now:      time.Now,
	}
}

// RegisterCaches attaches the collection snapshots to a cleanup manager.
func (s *TrackerService) RegisterCaches(m *cache.Manager) {
	m.Register(s.users)
	m.Register(s.payments)
	m.Register(s.expenses)
	m.Register(s.payouts)
}

func (s *TrackerService) publishChange(ctx context.Context, entity, id, op, actor string) {
	if s.events == nil {
		return
	}
	msg := amqp.NewChangeMessage(entity, id, op, actor)
	if err := s.events.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change event",
			"entity", entity, "id", id, "op", op, "error", err)
		// The write already succeeded; the event is best effort
	}
}

// Close releases storage and broker connections.
func (s *TrackerService) Close() error {
	var errs []error

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if closer, ok := s.events.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close tracker service: %v", errs)
	}
	return nil
}
