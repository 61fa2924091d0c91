// Package services orchestrates expense operations across storage,
// categorization, rates and the retry queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spendtrack/internal/categorize"
	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

// RetryPublisher publishes categorization retry requests. It is satisfied by
// *amqp.Client; deployments without a broker run with a nil publisher.
type RetryPublisher interface {
	PublishCategorizeRetry(ctx context.Context, id string) error
}

// ExpenseService handles the expense lifecycle: creation with automatic
// categorization, full-replacement edits, and deletion.
type ExpenseService struct {
	repo        storage.Repository
	categorizer categorize.Categorizer
	publisher   RetryPublisher
}

// CreateInput carries the user-submitted fields of a new expense. The
// category is always assigned by the service.
type CreateInput struct {
	Description string
	Amount      core.Money
	Currency    string
	Date        string // optional, defaults to today
}

func NewExpenseService(repo storage.Repository, categorizer categorize.Categorizer, publisher RetryPublisher) *ExpenseService {
	return &ExpenseService{
		repo:        repo,
		categorizer: categorizer,
		publisher:   publisher,
	}
}

// Create validates the input, assigns a category via the categorization
// service and stores the record. Categorization failure never fails the
// operation: the expense is stored under the default category, marked for a
// background retry, and a retry message is published when a broker is
// configured.
func (s *ExpenseService) Create(ctx context.Context, in CreateInput) (core.Expense, error) {
	date := in.Date
	if date == "" {
		date = time.Now().Format(core.DateLayout)
	}

	category, pending := s.categorize(ctx, in.Description)

	expense := core.Expense{
		ID:          uuid.NewString(),
		Description: in.Description,
		Amount:      in.Amount,
		Category:    category,
		Date:        date,
		Currency:    in.Currency,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.repo.CreateExpense(ctx, expense, pending); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if pending {
		s.publishRetry(ctx, expense.ID)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", expense.ID,
		"description", expense.Description,
		"amount_cents", expense.Amount.Cents,
		"category", expense.Category,
		"currency", expense.Currency,
		"categorization_pending", pending)

	return expense, nil
}

// Update replaces the stored record in full after validation.
func (s *ExpenseService) Update(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	return s.repo.ListExpenses(ctx, f)
}

// categorize returns the category for a description and whether a retry is
// still pending. A missing categorizer means categorization is disabled, not
// failed.
func (s *ExpenseService) categorize(ctx context.Context, description string) (core.Category, bool) {
	if s.categorizer == nil {
		return core.CategoryOther, false
	}

	category, err := s.categorizer.Categorize(ctx, description)
	if err != nil {
		slog.WarnContext(ctx, "Categorization failed, defaulting to Other",
			"description", description,
			"error", err)
		return core.CategoryOther, true
	}
	return category, false
}

func (s *ExpenseService) publishRetry(ctx context.Context, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCategorizeRetry(ctx, id); err != nil {
		// The periodic worker sweep will still pick the record up.
		slog.WarnContext(ctx, "Failed to publish categorize retry", "id", id, "error", err)
	}
}
