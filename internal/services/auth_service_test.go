package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"myfinance/internal/storage"
)

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newTestRepo(t), time.Hour)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"missing username", "", "a@b.com", "segredo1", ErrMissingFields},
		{"missing email", "uesley", "", "segredo1", ErrMissingFields},
		{"missing password", "uesley", "a@b.com", "", ErrMissingFields},
		{"short password", "uesley", "a@b.com", "12345", ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.username, tc.email, tc.password); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	id, err := svc.Register(ctx, "uesley", "a@b.com", "segredo1")
	if err != nil || id == 0 {
		t.Fatalf("valid register: got (%d, %v)", id, err)
	}
}

func TestRegisterDuplicateReportsField(t *testing.T) {
	svc := NewAuthService(newTestRepo(t), time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "uesley", "a@b.com", "segredo1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "uesley", "other@b.com", "segredo1")
	if !errors.Is(err, storage.ErrDuplicateIdentity) {
		t.Fatalf("got %v, want duplicate identity", err)
	}
	var dup *storage.DuplicateIdentityError
	if !errors.As(err, &dup) || dup.Field != "username" {
		t.Fatalf("got %v, want username collision", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewAuthService(repo, time.Hour)
	ctx := context.Background()

	id, err := svc.Register(ctx, "uesley", "a@b.com", "segredo1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// By username and by email.
	for _, ident := range []string{"uesley", "a@b.com"} {
		who, ok, err := svc.Authenticate(ctx, ident, "segredo1")
		if err != nil || !ok {
			t.Fatalf("authenticate %q: (%v, %v)", ident, ok, err)
		}
		if who.ID != id || who.Username != "uesley" {
			t.Fatalf("authenticate %q: got %+v", ident, who)
		}
	}

	// Wrong password and unknown identifier are the same negative result.
	if _, ok, err := svc.Authenticate(ctx, "uesley", "errado99"); ok || err != nil {
		t.Fatalf("wrong password: (%v, %v)", ok, err)
	}
	if _, ok, err := svc.Authenticate(ctx, "ninguem", "segredo1"); ok || err != nil {
		t.Fatalf("unknown user: (%v, %v)", ok, err)
	}
}

func TestAuthenticateDeactivatedUser(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewAuthService(repo, time.Hour)
	ctx := context.Background()

	id, err := svc.Register(ctx, "uesley", "a@b.com", "segredo1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := repo.DeactivateUser(ctx, id); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// Correct credentials still fail once the user is deactivated.
	if _, ok, err := svc.Authenticate(ctx, "uesley", "segredo1"); ok || err != nil {
		t.Fatalf("deactivated user authenticated: (%v, %v)", ok, err)
	}
	if _, err := svc.LookupByID(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("lookup deactivated: %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	svc := NewAuthService(newTestRepo(t), time.Hour)
	ctx := context.Background()

	id, err := svc.Register(ctx, "uesley", "a@b.com", "segredo1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, expires, err := svc.StartSession(ctx, id)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if !expires.After(time.Now()) {
		t.Fatalf("session already expired at %v", expires)
	}

	who, err := svc.ResolveSession(ctx, token)
	if err != nil || who.ID != id {
		t.Fatalf("resolve session: (%+v, %v)", who, err)
	}

	if err := svc.EndSession(ctx, token); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, token); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("resolved ended session: %v", err)
	}
}
