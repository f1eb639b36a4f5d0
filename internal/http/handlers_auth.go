package http

import (
	"errors"
	"log/slog"
	"net/http"

	"myfinance/internal/services"
	"myfinance/internal/storage"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req registerRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusUnprocessableEntity, "passwords do not match")
		return
	}

	id, err := s.auth.Register(r.Context(), sanitizeInput(req.Username), sanitizeInput(req.Email), req.Password)
	if err != nil {
		var dup *storage.DuplicateIdentityError
		switch {
		case errors.As(err, &dup):
			writeError(w, http.StatusConflict, dup.Field+" already in use")
		case errors.Is(err, services.ErrMissingFields), errors.Is(err, services.ErrWeakPassword):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity, ok, err := s.auth.Authenticate(r.Context(), sanitizeInput(req.Identifier), req.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Authentication failed", "error", err)
		writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}
	if !ok {
		// Same response whether the user is unknown or the password is wrong.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expires, err := s.auth.StartSession(r.Context(), identity.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Session start failed", "error", err, "user_id", identity.ID)
		writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	setSessionCookie(w, token, expires)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       identity.ID,
		"username": identity.Username,
		"email":    identity.Email,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := s.auth.EndSession(r.Context(), cookie.Value); err != nil {
			slog.ErrorContext(r.Context(), "Session end failed", "error", err)
		}
	}

	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity := identityFrom(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       identity.ID,
		"username": identity.Username,
		"email":    identity.Email,
	})
}
