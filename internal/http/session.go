package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"myfinance/internal/core"
	"myfinance/internal/storage"
)

const sessionCookieName = "myfinance_session"

// withSession resolves the session cookie to a user identity and rejects
// unauthenticated requests. Handlers read the identity from the context.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		identity, err := s.auth.ResolveSession(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.ErrorContext(r.Context(), "Session resolution failed", "error", err)
			}
			clearSessionCookie(w)
			writeError(w, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// identityFrom returns the authenticated user set by withSession.
func identityFrom(r *http.Request) *core.Identity {
	identity, _ := r.Context().Value(identityKey).(*core.Identity)
	return identity
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
