// Package services orchestrates the stores, the credential logic and the
// export queue behind the HTTP handlers.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"myfinance/internal/auth"
	"myfinance/internal/core"
	"myfinance/internal/storage"
)

const MinPasswordLength = 6

var (
	ErrMissingFields = errors.New("username, email and password are required")
	ErrWeakPassword  = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// AuthService implements registration, authentication and server-side
// sessions on top of the credential store.
type AuthService struct {
	store      *storage.Repository
	sessionTTL time.Duration
}

func NewAuthService(store *storage.Repository, sessionTTL time.Duration) *AuthService {
	return &AuthService{store: store, sessionTTL: sessionTTL}
}

// Register creates a new user and returns its id. Identity collisions
// surface as storage.DuplicateIdentityError naming the clashing field.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return 0, ErrMissingFields
	}
	if len(password) < MinPasswordLength {
		return 0, ErrWeakPassword
	}

	salt, err := auth.NewSalt()
	if err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}
	hash := auth.HashPassword(password, salt)

	id, err := s.store.CreateUser(ctx, username, email, hash, salt)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Authenticate verifies credentials against an active user matched by
// username or email. A missing user and a wrong password are the same
// negative, non-error result so callers cannot probe which identities exist.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*core.Identity, bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, false, nil
	}

	u, err := s.store.GetUserByIdentifier(ctx, identifier)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("authenticate: %w", err)
	}

	if !auth.VerifyPassword(password, u.PasswordHash, u.Salt) {
		return nil, false, nil
	}

	slog.InfoContext(ctx, "User authenticated", "user_id", u.ID, "username", u.Username)
	return &core.Identity{ID: u.ID, Username: u.Username, Email: u.Email, Active: u.Active}, true, nil
}

// LookupByID returns the public record of an active user.
func (s *AuthService) LookupByID(ctx context.Context, id int64) (*core.Identity, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &core.Identity{ID: u.ID, Username: u.Username, Email: u.Email, Active: u.Active}, nil
}

// StartSession issues an opaque server-side session token for the user.
func (s *AuthService) StartSession(ctx context.Context, userID int64) (string, time.Time, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("start session: %w", err)
	}
	expires := time.Now().Add(s.sessionTTL)
	if err := s.store.CreateSession(ctx, token, userID, expires); err != nil {
		return "", time.Time{}, fmt.Errorf("start session: %w", err)
	}
	return token, expires, nil
}

// ResolveSession maps a session token back to an active user identity.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*core.Identity, error) {
	userID, err := s.store.GetSessionUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.LookupByID(ctx, userID)
}

// EndSession discards a session token. Unknown tokens are a no-op.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// SweepExpiredSessions removes stale session rows; called periodically
// from the server binary.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Session sweep failed", "error", err)
		return
	}
	if n > 0 {
		slog.DebugContext(ctx, "Expired sessions removed", "count", n)
	}
}
