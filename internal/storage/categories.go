package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"myfinance/internal/core"
)

// ListCategories returns all category names partitioned by type.
// Categories are global, never scoped to a user.
func (r *Repository) ListCategories(ctx context.Context) (income, expense []string, err error) {
	rows, err := r.db.QueryContext(ctx, `SELECT nome, tipo FROM categorias ORDER BY nome`)
	if err != nil {
		return nil, nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	income = []string{}
	expense = []string{}
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, nil, fmt.Errorf("scan category: %w", err)
		}
		switch core.TransactionType(typ) {
		case core.Income:
			income = append(income, name)
		case core.Expense:
			expense = append(expense, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate categories: %w", err)
	}
	return income, expense, nil
}

// AddCategory inserts a category. Inserting a name that already exists
// for that type is a silent no-op, never an error.
func (r *Repository) AddCategory(ctx context.Context, name string, typ core.TransactionType) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO categorias (nome, tipo) VALUES (?, ?)`,
		name, string(typ),
	); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// RemoveCategories deletes every category matching one of the given
// names and the given type. Missing names are silent no-ops. Transactions
// already tagged with a removed category keep the stale string: history
// is immutable.
func (r *Repository) RemoveCategories(ctx context.Context, names []string, typ core.TransactionType) error {
	if len(names) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(names))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(names)+1)
	for _, n := range names {
		args = append(args, n)
	}
	args = append(args, string(typ))

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categorias WHERE nome IN (`+placeholders+`) AND tipo = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		slog.InfoContext(ctx, "Categories removed", "requested", len(names), "deleted", n, "type", string(typ))
	}
	return nil
}
