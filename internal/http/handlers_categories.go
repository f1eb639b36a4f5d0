package http

import (
	"errors"
	"log/slog"
	"net/http"

	"myfinance/internal/core"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListCategories(w, r)
	case http.MethodPost:
		s.handleAddCategory(w, r)
	case http.MethodDelete:
		s.handleRemoveCategories(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	income, expense, err := s.categories.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list categories")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{
		"income":  income,
		"expense": expense,
	})
}

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.categories.Add(r.Context(), sanitizeInput(req.Name), core.TransactionType(sanitizeInput(req.Type)))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyCategory), errors.Is(err, core.ErrInvalidType):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Category add failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not add category")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type removeCategoriesRequest struct {
	Names []string `json:"names"`
	Type  string   `json:"type"`
}

func (s *Server) handleRemoveCategories(w http.ResponseWriter, r *http.Request) {
	var req removeCategoriesRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.categories.Remove(r.Context(), req.Names, core.TransactionType(sanitizeInput(req.Type)))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidType):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Category remove failed", "error", err)
			writeError(w, http.StatusInternalServerError, "could not remove categories")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
