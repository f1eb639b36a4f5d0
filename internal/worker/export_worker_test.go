package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"myfinance/internal/amqp"
	"myfinance/internal/core"
	"myfinance/internal/sheets/memory"
	"myfinance/internal/storage"
)

type failingWriter struct{}

func (failingWriter) Append(context.Context, core.Transaction) (string, error) {
	return "", errors.New("sheets unavailable")
}

func setupRepo(t *testing.T) (*storage.Repository, int64) {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	ownerID, err := repo.CreateUser(context.Background(), "uesley", "u@example.com", "hash", "salt")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return repo, ownerID
}

func insertTx(t *testing.T, repo *storage.Repository, ownerID int64, desc string) int64 {
	t.Helper()
	id, err := repo.InsertTransaction(context.Background(), core.Transaction{
		Type:        core.Expense,
		Description: desc,
		Amount:      core.Money{Cents: 4200},
		Date:        core.NewDate(2024, 6, 1),
		Category:    "Lazer",
		OwnerID:     ownerID,
	})
	if err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	return id
}

func TestHandleSyncMessage(t *testing.T) {
	repo, ownerID := setupRepo(t)
	store := memory.New()
	w := NewExportWorker(repo, store, 10)
	ctx := context.Background()

	id := insertTx(t, repo, ownerID, "Cinema")

	msg := amqp.NewTransactionSyncMessage(id, 1)
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("handle sync message: %v", err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].Description != "Cinema" {
		t.Fatalf("exported items = %+v", items)
	}

	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending after export, got %d", len(pending))
	}
}

func TestHandleSyncMessageMissingTransaction(t *testing.T) {
	repo, _ := setupRepo(t)
	w := NewExportWorker(repo, memory.New(), 10)

	msg := amqp.NewTransactionSyncMessage(9999, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for unknown transaction")
	}
}

func TestExportFailureKeepsTransactionPending(t *testing.T) {
	repo, ownerID := setupRepo(t)
	w := NewExportWorker(repo, failingWriter{}, 10)
	ctx := context.Background()

	id := insertTx(t, repo, ownerID, "Jantar")

	msg := amqp.NewTransactionSyncMessage(id, 1)
	if err := w.HandleSyncMessage(ctx, msg); err == nil {
		t.Fatal("expected export failure")
	}

	// Errored rows stay eligible for retry.
	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("pending = %+v, want transaction %d", pending, id)
	}
}

func TestStartupSyncCheck(t *testing.T) {
	repo, ownerID := setupRepo(t)
	store := memory.New()
	w := NewExportWorker(repo, store, 2)
	ctx := context.Background()

	for _, desc := range []string{"Mercado", "Farmácia", "Padaria"} {
		insertTx(t, repo, ownerID, desc)
	}

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("startup sync check: %v", err)
	}

	if got := len(store.Items()); got != 3 {
		t.Fatalf("exported %d items, want 3", got)
	}

	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty backlog, got %d", len(pending))
	}
}

func TestProcessPendingTransactionsRespectsBatchSize(t *testing.T) {
	repo, ownerID := setupRepo(t)
	store := memory.New()
	w := NewExportWorker(repo, store, 2)
	ctx := context.Background()

	for _, desc := range []string{"Conta de luz", "Conta de água", "Internet"} {
		insertTx(t, repo, ownerID, desc)
	}

	if err := w.ProcessPendingTransactions(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if got := len(store.Items()); got != 2 {
		t.Fatalf("first batch exported %d, want 2", got)
	}

	if err := w.ProcessPendingTransactions(ctx); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if got := len(store.Items()); got != 3 {
		t.Fatalf("after second batch exported %d, want 3", got)
	}
}
