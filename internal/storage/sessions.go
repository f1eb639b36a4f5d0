package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CreateSession stores an opaque session token with its expiry.
func (r *Repository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO sessoes (token, usuario_id, expira_em) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a session token to its user id. Expired tokens
// are deleted on sight and reported as ErrNotFound.
func (r *Repository) GetSessionUser(ctx context.Context, token string) (int64, error) {
	var (
		userID    int64
		expiresAt time.Time
	)
	// expira_em is declared TIMESTAMP; the driver hands it back as a
	// time.Time rather than the stored string.
	err := r.db.QueryRowContext(ctx,
		`SELECT usuario_id, expira_em FROM sessoes WHERE token = ?`,
		token,
	).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query session: %w", err)
	}

	if time.Now().After(expiresAt) {
		if err := r.DeleteSession(ctx, token); err != nil {
			slog.WarnContext(ctx, "Failed to delete expired session", "error", err)
		}
		return 0, ErrNotFound
	}
	return userID, nil
}

// DeleteSession removes a session token; deleting an unknown token is a no-op.
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessoes WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions sweeps expired rows and reports how many were removed.
func (r *Repository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessoes WHERE expira_em < ?`,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted sessions: %w", err)
	}
	return n, nil
}
