// Package csvio round-trips the expense list through a comma-delimited
// interchange format for backup and portability.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"spendtrack/internal/core"
)

// Headers is the fixed column sequence; the header row is exactly this list,
// comma-joined.
var Headers = []string{"id", "description", "amount", "category", "date", "currency"}

var (
	ErrEmptyFile      = errors.New("csv file is empty or contains only headers")
	ErrInvalidHeaders = errors.New("invalid csv headers, expected: " + strings.Join(Headers, ","))
)

// SkippedRow records a data row that failed validation during decoding.
type SkippedRow struct {
	Line   int // 1-based line number within the non-empty input lines
	Reason string
}

// Report summarizes a decode run: how many rows parsed and which were skipped.
type Report struct {
	Parsed  int
	Skipped []SkippedRow
}

// Encode serializes expenses in the fixed column order. Fields containing
// commas or quotes are wrapped in double quotes with inner quotes doubled;
// everything else is emitted unquoted.
func Encode(expenses []core.Expense) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write(Headers)
	for _, e := range expenses {
		_ = w.Write([]string{
			e.ID,
			e.Description,
			e.Amount.DecimalString(),
			string(e.Category),
			e.Date,
			e.Currency,
		})
	}
	w.Flush()

	return strings.TrimRight(sb.String(), "\n")
}

// ExportFilename returns the conventional export filename for the given date,
// e.g. "expenses-export-2024-01-15.csv".
func ExportFilename(at time.Time) string {
	return fmt.Sprintf("expenses-export-%s.csv", at.Format(core.DateLayout))
}

// Decode parses CSV text back into expense records.
//
// Structural problems (empty input, header mismatch) abort the whole import
// with an error. Malformed data rows (wrong column count, unparseable amount,
// unknown category) are skipped individually and reported; the import
// continues. Decoded records are returned verbatim with no deduplication
// against any existing store; merging by id is the caller's responsibility.
func Decode(text string) ([]core.Expense, *Report, error) {
	lines := nonEmptyLines(text)
	if len(lines) < 2 {
		return nil, nil, ErrEmptyFile
	}

	header, err := parseRow(lines[0])
	if err != nil || !equalFields(header, Headers) {
		return nil, nil, ErrInvalidHeaders
	}

	report := &Report{}
	var expenses []core.Expense
	for i, line := range lines[1:] {
		lineNo := i + 2 // header is line 1

		fields, err := parseRow(line)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Line: lineNo, Reason: "malformed row"})
			continue
		}
		if len(fields) != len(Headers) {
			report.Skipped = append(report.Skipped, SkippedRow{Line: lineNo, Reason: "incorrect number of columns"})
			continue
		}

		cents, err := core.ParseDecimalToCents(fields[2])
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Line: lineNo, Reason: "invalid amount"})
			continue
		}

		category, ok := core.ParseCategory(fields[3])
		if !ok {
			report.Skipped = append(report.Skipped, SkippedRow{
				Line:   lineNo,
				Reason: fmt.Sprintf("invalid category %q", fields[3]),
			})
			continue
		}

		expenses = append(expenses, core.Expense{
			ID:          fields[0],
			Description: fields[1],
			Amount:      core.Money{Cents: cents},
			Category:    category,
			Date:        fields[4],
			Currency:    fields[5],
		})
		report.Parsed++
	}

	return expenses, report, nil
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseRow parses a single line respecting CSV quoting: quoted fields may
// contain embedded commas, and doubled quotes resolve to one literal quote.
func parseRow(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil && err != io.EOF {
		return nil, err
	}
	return fields, nil
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimSpace(a[i]) != b[i] {
			return false
		}
	}
	return true
}
