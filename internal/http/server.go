// Package http exposes the tracker as a JSON API. Routing is chi, auth is a
// bearer JWT, and every collection endpoint is wired through the Tracker
// interface so handlers can be tested against a stub.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"greep/internal/auth"
	"greep/internal/core"
	"greep/internal/export"
)

// Tracker is the application surface the handlers call. Implemented by
// services.TrackerService.
type Tracker interface {
	Authenticate(ctx context.Context, email, password string) (core.User, error)

	Users(ctx context.Context) ([]core.User, error)
	GetUser(ctx context.Context, id string) (core.User, error)
	CreateUser(ctx context.Context, u core.User, actor string) (core.User, error)
	UpdateUser(ctx context.Context, u core.User, actor string) (core.User, error)
	DeleteUser(ctx context.Context, id, actor string) error
	ToggleUserActive(ctx context.Context, id, actor string) (core.User, error)
	SetUserPassword(ctx context.Context, id, password string) error

	Payments(ctx context.Context) ([]core.DriverPayment, error)
	GetPayment(ctx context.Context, id string) (core.DriverPayment, error)
	RecordPayment(ctx context.Context, p core.DriverPayment, actor string) (core.DriverPayment, error)
	UpdatePayment(ctx context.Context, p core.DriverPayment, actor string) (core.DriverPayment, error)
	DeletePayment(ctx context.Context, id, actor string) error

	Expenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense, actor string) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense, actor string) (core.Expense, error)
	DeleteExpense(ctx context.Context, id, actor string) error

	Payouts(ctx context.Context) ([]core.InvestorPayout, error)
	GetPayout(ctx context.Context, id string) (core.InvestorPayout, error)
	CreatePayout(ctx context.Context, p core.InvestorPayout, actor string) (core.InvestorPayout, error)
	UpdatePayout(ctx context.Context, p core.InvestorPayout, actor string) (core.InvestorPayout, error)
	DeletePayout(ctx context.Context, id, actor string) error
	TogglePayoutStatus(ctx context.Context, id, actor string) (core.InvestorPayout, error)
	PreviewPayout(ctx context.Context, investorID string, month core.Month, gross core.Money) (core.PayoutBreakdown, error)

	DashboardStats(ctx context.Context) (core.DashboardStats, error)
	MonthlyReport(ctx context.Context, month core.Month) (core.MonthlyReport, error)
	Backup(ctx context.Context) (core.Backup, error)
	ImportBackup(ctx context.Context, set export.ImportSet, actor string) (export.ImportSummary, error)
}

type Server struct {
	http.Server
	tracker Tracker
	jwt     *auth.JWTManager
}

func NewServer(addr string, tracker Tracker, jwt *auth.JWTManager) *Server {
	s := &Server{
		tracker: tracker,
		jwt:     jwt,
	}

	s.Server = http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Post("/api/login", s.handleLogin)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Get("/{id}", s.handleGetUser)
			r.Put("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
			r.Post("/{id}/toggle", s.handleToggleUser)
			r.Put("/{id}/password", s.handleSetUserPassword)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", s.handleListPayments)
			r.Post("/", s.handleCreatePayment)
			r.Get("/{id}", s.handleGetPayment)
			r.Put("/{id}", s.handleUpdatePayment)
			r.Delete("/{id}", s.handleDeletePayment)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
			r.Get("/{id}", s.handleGetExpense)
			r.Put("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})

		r.Route("/payouts", func(r chi.Router) {
			r.Get("/", s.handleListPayouts)
			r.Post("/", s.handleCreatePayout)
			r.Get("/preview", s.handlePreviewPayout)
			r.Get("/{id}", s.handleGetPayout)
			r.Put("/{id}", s.handleUpdatePayout)
			r.Delete("/{id}", s.handleDeletePayout)
			r.Post("/{id}/status", s.handleTogglePayoutStatus)
		})

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/reports/{month}", s.handleMonthlyReport)
		r.Get("/reports/{month}/export", s.handleExportReport)
		r.Get("/backup/export", s.handleExportBackup)
		r.Post("/backup/import", s.handleImportBackup)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Readiness means storage answers; the cheapest probe is a user list
	if _, err := s.tracker.Users(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
