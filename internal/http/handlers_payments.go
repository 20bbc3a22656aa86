package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"greep/internal/core"
)

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.tracker.Payments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payments == nil {
		payments = []core.DriverPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var p core.DriverPayment
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.tracker.RecordPayment(r.Context(), p, OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	var p core.DriverPayment
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	p.ID = chi.URLParam(r, "id")

	updated, err := s.tracker.UpdatePayment(r.Context(), p, OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeletePayment(r.Context(), chi.URLParam(r, "id"), OperatorID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
