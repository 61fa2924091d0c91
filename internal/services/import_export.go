package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/csvio"
	"spendtrack/internal/storage"
)

// ImportResult summarizes a CSV import run. Per-row failures are reported
// here in batch, never as individual user-facing errors.
type ImportResult struct {
	Imported     int                `json:"imported"`
	SkippedRows  []csvio.SkippedRow `json:"skipped_rows,omitempty"`
	DuplicateIDs int                `json:"duplicate_ids"`
}

// ImportExportService round-trips the expense list through CSV.
type ImportExportService struct {
	repo storage.Repository
	now  func() time.Time
}

func NewImportExportService(repo storage.Repository) *ImportExportService {
	return &ImportExportService{repo: repo, now: time.Now}
}

// Export serializes every stored expense to CSV, returning the conventional
// dated filename alongside the document.
func (s *ImportExportService) Export(ctx context.Context) (filename, data string, err error) {
	expenses, err := s.repo.ListExpenses(ctx, core.Filter{})
	if err != nil {
		return "", "", fmt.Errorf("list expenses for export: %w", err)
	}
	return csvio.ExportFilename(s.now()), csvio.Encode(expenses), nil
}

// Import decodes CSV text and merges the resulting records into the store,
// skipping records whose ID already exists. Structural errors (empty file,
// bad headers) abort the whole import; malformed rows are skipped and
// counted.
func (s *ImportExportService) Import(ctx context.Context, text string) (ImportResult, error) {
	records, report, err := csvio.Decode(text)
	if err != nil {
		return ImportResult{}, err
	}

	existing, err := s.repo.ExistingIDs(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read existing ids: %w", err)
	}

	result := ImportResult{SkippedRows: report.Skipped}
	for _, e := range records {
		if existing[e.ID] {
			result.DuplicateIDs++
			continue
		}
		if err := s.repo.CreateExpense(ctx, e, false); err != nil {
			return result, fmt.Errorf("import expense %s: %w", e.ID, err)
		}
		existing[e.ID] = true
		result.Imported++
	}

	slog.InfoContext(ctx, "CSV import finished",
		"imported", result.Imported,
		"skipped_rows", len(result.SkippedRows),
		"duplicate_ids", result.DuplicateIDs)

	return result, nil
}
