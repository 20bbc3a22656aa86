package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"greep/internal/core"
)

func (s *Server) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	payouts, err := s.tracker.Payouts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payouts == nil {
		payouts = []core.InvestorPayout{}
	}
	writeJSON(w, http.StatusOK, payouts)
}

func (s *Server) handleGetPayout(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.GetPayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePayout(w http.ResponseWriter, r *http.Request) {
	var p core.InvestorPayout
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.tracker.CreatePayout(r.Context(), p, OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePayout(w http.ResponseWriter, r *http.Request) {
	var p core.InvestorPayout
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	p.ID = chi.URLParam(r, "id")

	updated, err := s.tracker.UpdatePayout(r.Context(), p, OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePayout(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeletePayout(r.Context(), chi.URLParam(r, "id"), OperatorID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTogglePayoutStatus(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.TogglePayoutStatus(r.Context(), chi.URLParam(r, "id"), OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handlePreviewPayout computes a deduction breakdown without persisting.
// Query: investor_id, month (YYYY-MM), gross_amount (cents).
func (s *Server) handlePreviewPayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	investorID := q.Get("investor_id")
	if investorID == "" {
		writeError(w, r, fmt.Errorf("%w: investor_id is required", errBadRequest))
		return
	}
	month, err := core.ParseMonth(q.Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	grossCents, err := strconv.ParseInt(q.Get("gross_amount"), 10, 64)
	if err != nil || grossCents < 0 {
		writeError(w, r, fmt.Errorf("%w: gross_amount must be a non-negative cent amount", errBadRequest))
		return
	}

	preview, err := s.tracker.PreviewPayout(r.Context(), investorID, month, core.Money{Cents: grossCents})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}
