package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"myfinance/internal/amqp"
	"myfinance/internal/sheets"
	"myfinance/internal/storage"
)

// ExportWorker pushes saved transactions from SQLite to Google Sheets.
type ExportWorker struct {
	storage   *storage.Repository
	sheets    sheets.TransactionWriter
	batchSize int
}

func NewExportWorker(storage *storage.Repository, sheets sheets.TransactionWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	if err := w.exportTransaction(ctx, msg.ID); err != nil {
		return fmt.Errorf("export transaction %d: %w", msg.ID, err)
	}

	return nil
}

// ProcessPendingTransactions exports transactions that have not been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck exports any backlog at worker startup. Useful to recover
// from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

// RunPeriodic processes pending transactions on a fixed interval until ctx
// is cancelled.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPendingTransactions(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id int64) error {
	tx, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.sheets.Append(ctx, *tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// Don't fail here - the export actually worked
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", id,
		"sheets_ref", ref,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents)

	return nil
}
