// Package storage persists users, transactions, categories and sessions
// in SQLite. All queries go through a single Repository backed by
// database/sql; schema lifecycle is handled by embedded migrations.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdentity is returned when a registration collides with an
// existing username or email. DuplicateIdentityError wraps it and names
// the colliding field.
var ErrDuplicateIdentity = errors.New("username or email already registered")

// DuplicateIdentityError reports which identity field collided.
type DuplicateIdentityError struct {
	Field string // "username" or "email"
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("%s already registered", e.Field)
}

func (e *DuplicateIdentityError) Unwrap() error { return ErrDuplicateIdentity }

// UserRecord is the stored user row. Hash and salt stay inside the
// storage and auth layers.
type UserRecord struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Salt         string
	CreatedAt    time.Time
	Active       bool
}

type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dbPath and runs
// pending migrations.
func Open(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new user row and returns its id. The combined
// username/email lookup rejects either collision; the returned error
// names the field that clashed.
func (r *Repository) CreateUser(ctx context.Context, username, email, passwordHash, salt string) (int64, error) {
	var existingUsername, existingEmail string
	err := r.db.QueryRowContext(ctx,
		`SELECT username, email FROM usuarios WHERE username = ? OR email = ? LIMIT 1`,
		username, email,
	).Scan(&existingUsername, &existingEmail)
	switch {
	case err == nil:
		field := "email"
		if existingUsername == username {
			field = "username"
		}
		return 0, &DuplicateIdentityError{Field: field}
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("check existing identity: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO usuarios (username, email, password_hash, salt) VALUES (?, ?, ?, ?)`,
		username, email, passwordHash, salt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "username", username)
	return id, nil
}

// GetUserByIdentifier fetches an active user whose username or email
// equals identifier. Returns ErrNotFound when no row matches; callers
// must not distinguish that from a bad password in anything user-facing.
func (r *Repository) GetUserByIdentifier(ctx context.Context, identifier string) (*UserRecord, error) {
	var u UserRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, salt, data_criacao, ativo
		 FROM usuarios
		 WHERE (username = ? OR email = ?) AND ativo = 1`,
		identifier, identifier,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.CreatedAt, &u.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by identifier: %w", err)
	}
	return &u, nil
}

// GetUserByID fetches an active user's public record by id.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*UserRecord, error) {
	var u UserRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, data_criacao, ativo
		 FROM usuarios
		 WHERE id = ? AND ativo = 1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return &u, nil
}

// DeactivateUser soft-deactivates a user. Not reachable from the HTTP
// surface; kept for operational use.
func (r *Repository) DeactivateUser(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE usuarios SET ativo = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}
