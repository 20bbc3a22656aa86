package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"greep/internal/core"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.tracker.Users(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []core.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.tracker.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.tracker.CreateUser(r.Context(), u, OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, r, err)
		return
	}
	u.ID = chi.URLParam(r, "id")

	updated, err := s.tracker.UpdateUser(r.Context(), u, OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteUser(r.Context(), chi.URLParam(r, "id"), OperatorID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.tracker.ToggleUserActive(r.Context(), chi.URLParam(r, "id"), OperatorID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleSetUserPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.tracker.SetUserPassword(r.Context(), chi.URLParam(r, "id"), req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
