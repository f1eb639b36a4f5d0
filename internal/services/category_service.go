package services

import (
	"context"
	"strings"

	"myfinance/internal/core"
	"myfinance/internal/storage"
)

// CategoryService exposes the global category registry. Categories are
// shared across every user; concurrent edits are last-write-wins, which
// is accepted for a personal-use tool.
type CategoryService struct {
	store *storage.Repository
}

func NewCategoryService(store *storage.Repository) *CategoryService {
	return &CategoryService{store: store}
}

// List returns all category names partitioned by type.
func (s *CategoryService) List(ctx context.Context) (income, expense []string, err error) {
	return s.store.ListCategories(ctx)
}

// Add registers a category name for a type. Duplicates are silent no-ops.
func (s *CategoryService) Add(ctx context.Context, name string, typ core.TransactionType) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	if !typ.Valid() {
		return core.ErrInvalidType
	}
	return s.store.AddCategory(ctx, name, typ)
}

// Remove deletes every listed name for the given type. Missing names
// are silent no-ops and existing transactions are never touched.
func (s *CategoryService) Remove(ctx context.Context, names []string, typ core.TransactionType) error {
	if !typ.Valid() {
		return core.ErrInvalidType
	}
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			trimmed = append(trimmed, n)
		}
	}
	return s.store.RemoveCategories(ctx, trimmed, typ)
}
