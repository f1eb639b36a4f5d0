package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"myfinance/internal/core"
)

type recordingPublisher struct {
	published []int64
	fail      bool
}

func (p *recordingPublisher) PublishTransactionSync(ctx context.Context, id, version int64) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, id)
	return nil
}

func registerOwner(t *testing.T, svc *AuthService) int64 {
	t.Helper()
	id, err := svc.Register(context.Background(), "uesley", "a@b.com", "segredo1")
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	return id
}

func TestCreateTransaction(t *testing.T) {
	repo := newTestRepo(t)
	owner := registerOwner(t, NewAuthService(repo, time.Hour))
	pub := &recordingPublisher{}
	svc := NewTransactionService(repo, pub)
	ctx := context.Background()

	id, err := svc.Create(ctx, core.Transaction{
		Type:        core.Income,
		Description: "Salário de janeiro",
		Amount:      core.Money{Cents: 350000},
		Date:        core.NewDate(2024, 1, 5),
		Category:    "Salário",
		Settled:     true,
		OwnerID:     owner,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != id {
		t.Fatalf("publisher saw %v, want [%d]", pub.published, id)
	}

	income, expense, err := svc.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(income) != 1 || len(expense) != 0 {
		t.Fatalf("got %d income / %d expense", len(income), len(expense))
	}
	if income[0].Description != "Salário de janeiro" || !income[0].Settled {
		t.Fatalf("round trip mismatch: %+v", income[0])
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	repo := newTestRepo(t)
	owner := registerOwner(t, NewAuthService(repo, time.Hour))
	svc := NewTransactionService(repo, nil)
	ctx := context.Background()

	good := core.Transaction{
		Type:     core.Expense,
		Amount:   core.Money{Cents: 4000},
		Date:     core.NewDate(2024, 1, 2),
		Category: "Aluguel",
		OwnerID:  owner,
	}

	cases := []struct {
		name string
		mut  func(*core.Transaction)
		want error
	}{
		{"missing owner", func(tx *core.Transaction) { tx.OwnerID = 0 }, core.ErrMissingOwner},
		{"zero amount", func(tx *core.Transaction) { tx.Amount.Cents = 0 }, core.ErrInvalidAmount},
		{"bad type", func(tx *core.Transaction) { tx.Type = "outro" }, core.ErrInvalidType},
		{"no category", func(tx *core.Transaction) { tx.Category = "" }, core.ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			if _, err := svc.Create(ctx, tx); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	repo := newTestRepo(t)
	owner := registerOwner(t, NewAuthService(repo, time.Hour))
	svc := NewTransactionService(repo, &recordingPublisher{fail: true})
	ctx := context.Background()

	id, err := svc.Create(ctx, core.Transaction{
		Type:     core.Expense,
		Amount:   core.Money{Cents: 999},
		Date:     core.NewDate(2024, 2, 2),
		Category: "Lazer",
		OwnerID:  owner,
	})
	if err != nil {
		t.Fatalf("create with failing publisher: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected saved transaction id")
	}
}

func TestCategoryServiceValidation(t *testing.T) {
	svc := NewCategoryService(newTestRepo(t))
	ctx := context.Background()

	if err := svc.Add(ctx, "  ", core.Income); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("blank name: %v", err)
	}
	if err := svc.Add(ctx, "Freelance", "outro"); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("bad type: %v", err)
	}
	if err := svc.Add(ctx, " Freelance ", core.Income); err != nil {
		t.Fatalf("add: %v", err)
	}

	income, _, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, c := range income {
		if c == "Freelance" {
			found = true
		}
	}
	if !found {
		t.Fatalf("trimmed name not registered: %v", income)
	}
}
