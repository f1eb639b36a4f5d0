package services

import (
	"context"
	"fmt"
	"log/slog"

	"myfinance/internal/core"
	"myfinance/internal/storage"
)

// SyncPublisher publishes lightweight export notifications for newly
// saved transactions. Implemented by the AMQP client; nil disables
// publishing entirely.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
}

// TransactionService validates and persists transactions, then notifies
// the export queue. The local save is authoritative; a failed publish is
// logged and recovered later by the worker's pending scan.
type TransactionService struct {
	store     *storage.Repository
	publisher SyncPublisher
}

func NewTransactionService(store *storage.Repository, publisher SyncPublisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

// Create validates and appends a transaction, returning its id.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.InsertTransaction(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, id, 1); err != nil {
			// Not fatal: the transaction is saved, the worker's periodic
			// scan picks it up.
			slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
		}
	}

	return id, nil
}

// ListByOwner returns the user's transactions partitioned into income
// and expense. An unauthenticated (zero) owner yields two empty slices.
func (s *TransactionService) ListByOwner(ctx context.Context, ownerID int64) (income, expense []core.Transaction, err error) {
	return s.store.ListTransactionsByOwner(ctx, ownerID)
}
