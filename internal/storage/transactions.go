package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"myfinance/internal/core"
)

// InsertTransaction appends a transaction row. Ownership is the only
// constraint the store enforces; anything else is caller policy.
func (r *Repository) InsertTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if tx.OwnerID == 0 {
		return 0, core.ErrMissingOwner
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transacoes (tipo, descricao, valor_cents, data, categoria, efetuado, fixo, usuario_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(tx.Type), tx.Description, tx.Amount.Cents, tx.Date.Normalize().String(),
		tx.Category, boolToInt(tx.Settled), boolToInt(tx.Recurring), tx.OwnerID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", string(tx.Type),
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category,
		"user_id", tx.OwnerID)

	return id, nil
}

// ListTransactionsByOwner returns the user's transactions partitioned by
// type. A zero ownerID yields two empty slices rather than global data.
// Retrieval order is unspecified; consumers needing chronology sort.
func (r *Repository) ListTransactionsByOwner(ctx context.Context, ownerID int64) (income, expense []core.Transaction, err error) {
	if ownerID == 0 {
		return []core.Transaction{}, []core.Transaction{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tipo, descricao, valor_cents, data, categoria, efetuado, fixo, usuario_id
		 FROM transacoes
		 WHERE usuario_id = ?`,
		ownerID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	income = []core.Transaction{}
	expense = []core.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, err
		}
		switch tx.Type {
		case core.Income:
			income = append(income, tx)
		case core.Expense:
			expense = append(expense, tx)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return income, expense, nil
}

// GetTransaction fetches a single transaction by id, for the export worker.
func (r *Repository) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, tipo, descricao, valor_cents, data, categoria, efetuado, fixo, usuario_id
		 FROM transacoes WHERE id = ?`,
		id,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx          core.Transaction
		typ         string
		description sql.NullString
		date        time.Time
		settled     int
		recurring   int
	)
	// The data column is declared DATE, so the driver hands it back as a
	// time.Time rather than the stored string.
	err := row.Scan(&tx.ID, &typ, &description, &tx.Amount.Cents, &date, &tx.Category, &settled, &recurring, &tx.OwnerID)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TransactionType(typ)
	tx.Description = description.String
	tx.Settled = settled != 0
	tx.Recurring = recurring != 0
	tx.Date = core.Date{Time: date}.Normalize()
	return tx, nil
}

// PendingSyncTransaction is the minimal row the export worker needs to
// queue a retry.
type PendingSyncTransaction struct {
	ID int64
}

// GetPendingSyncTransactions returns ids of transactions not yet exported,
// oldest first. Backup path for lost queue messages.
func (r *Repository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM transacoes WHERE sync_status != 'synced' ORDER BY id LIMIT ?`,
		int64(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query pending sync transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID); err != nil {
			return nil, fmt.Errorf("scan pending sync transaction: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced records a successful export.
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transacoes SET sync_status = 'synced', synced_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed export so the periodic scan retries it.
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transacoes SET sync_status = 'error' WHERE id = ?`,
		id,
	); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
