// Package storage persists the expense list.
package storage

import (
	"context"
	"errors"

	"spendtrack/internal/core"
)

var (
	ErrNotFound    = errors.New("expense not found")
	ErrDuplicateID = errors.New("expense id already exists")
)

// Repository is the mutable expense store. Amounts are not re-validated
// here; validation happens at the entry points that construct records.
type Repository interface {
	// CreateExpense inserts a new record. categorizationPending marks
	// records whose automatic categorization failed and should be retried
	// by the background worker.
	CreateExpense(ctx context.Context, e core.Expense, categorizationPending bool) error

	GetExpense(ctx context.Context, id string) (core.Expense, error)

	// UpdateExpense replaces the record with the same ID in full. A manual
	// edit settles the category, so any pending-categorization mark is
	// cleared.
	UpdateExpense(ctx context.Context, e core.Expense) error

	DeleteExpense(ctx context.Context, id string) error

	// ListExpenses returns records matching the filter, newest date first.
	ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error)

	// ExistingIDs returns the set of all stored expense IDs, used to skip
	// duplicates when merging CSV imports.
	ExistingIDs(ctx context.Context) (map[string]bool, error)

	// ListPendingCategorization returns up to limit records awaiting a
	// categorization retry.
	ListPendingCategorization(ctx context.Context, limit int) ([]core.Expense, error)

	// SetCategory updates only the category of a record and its pending
	// mark.
	SetCategory(ctx context.Context, id string, category core.Category, pending bool) error

	Close() error
}
