package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendtrack/internal/amqp"
	"spendtrack/internal/categorize"
	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

// CategorizeWorker retries automatic categorization for expenses whose
// first attempt failed. Those expenses are stored with the Other category
// and a pending flag; the worker asks the categorizer again and clears
// the flag once it gets an answer.
type CategorizeWorker struct {
	repo        storage.Repository
	categorizer categorize.Categorizer
	batchSize   int
}

func NewCategorizeWorker(repo storage.Repository, categorizer categorize.Categorizer, batchSize int) *CategorizeWorker {
	return &CategorizeWorker{
		repo:        repo,
		categorizer: categorizer,
		batchSize:   batchSize,
	}
}

// HandleCategorizeMessage processes a single categorize-retry message from AMQP
func (w *CategorizeWorker) HandleCategorizeMessage(ctx context.Context, msg *amqp.CategorizeMessage) error {
	slog.InfoContext(ctx, "Processing categorize retry message",
		"id", msg.ID,
		"queued_at", msg.Timestamp)

	expense, err := w.repo.GetExpense(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Expense was deleted after the retry was queued.
			slog.WarnContext(ctx, "Expense no longer exists, dropping retry", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get expense from storage: %w", err)
	}

	return w.categorizeExpense(ctx, expense)
}

// ProcessPending retries categorization for a batch of pending expenses.
// This is a backup mechanism in case AMQP messages are lost.
func (w *CategorizeWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.repo.ListPendingCategorization(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending expenses: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending categorizations", "count", len(pending))

	for _, expense := range pending {
		if err := w.categorizeExpense(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to categorize expense", "id", expense.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupCheck retries any pending categorizations at worker startup.
// It uses a larger batch to recover from missed messages or downtime.
func (w *CategorizeWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.repo.ListPendingCategorization(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending expenses for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending categorizations found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending categorizations on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, expense := range pending {
		if err := w.categorizeExpense(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to categorize expense during startup",
				"id", expense.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup categorization check completed",
		"total", len(pending),
		"categorized", successCount,
		"errors", errorCount)

	return nil
}

func (w *CategorizeWorker) categorizeExpense(ctx context.Context, expense core.Expense) error {
	category, err := w.categorizer.Categorize(ctx, expense.Description)
	if err != nil {
		// Leave the pending flag set so a later sweep picks it up again.
		return fmt.Errorf("categorize %q: %w", expense.Description, err)
	}

	if err := w.repo.SetCategory(ctx, expense.ID, category, false); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Expense deleted while categorizing", "id", expense.ID)
			return nil
		}
		return fmt.Errorf("store category: %w", err)
	}

	slog.InfoContext(ctx, "Successfully categorized expense",
		"id", expense.ID,
		"description", expense.Description,
		"category", category)

	return nil
}
