package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/rates"
	"spendtrack/internal/storage"
)

// RateSource serves rate snapshots per base currency. Satisfied by
// *rates.Cache; a nil snapshot means conversion is unavailable.
type RateSource interface {
	GetRates(ctx context.Context, baseCurrency string) *rates.Snapshot
}

type (
	// CategoryTotal aggregates spending for one category, expressed in the
	// base currency.
	CategoryTotal struct {
		Category core.Category `json:"category"`
		Total    float64       `json:"total"`
		Count    int           `json:"count"`
		Average  float64       `json:"average"`
	}

	// Summary is the overall picture for the current filter-free store.
	Summary struct {
		BaseCurrency   string          `json:"base_currency"`
		Total          float64         `json:"total"`
		ByCategory     []CategoryTotal `json:"by_category"`
		Excluded       int             `json:"excluded"`
		RatesAvailable bool            `json:"rates_available"`
	}

	// MonthlyBreakdown holds one converted total per calendar month of a
	// year, January first.
	MonthlyBreakdown struct {
		BaseCurrency string      `json:"base_currency"`
		Year         int         `json:"year"`
		Totals       [12]float64 `json:"totals"`
		Excluded     int         `json:"excluded"`
	}

	// YearComparison pairs the monthly totals of a year with the previous
	// year's.
	YearComparison struct {
		BaseCurrency string      `json:"base_currency"`
		Year         int         `json:"year"`
		Current      [12]float64 `json:"current"`
		Previous     [12]float64 `json:"previous"`
		Excluded     int         `json:"excluded"`
	}

	// CategoryReport is the per-category deep dive for one month.
	CategoryReport struct {
		BaseCurrency string          `json:"base_currency"`
		Year         int             `json:"year"`
		Month        int             `json:"month"`
		Categories   []CategoryTotal `json:"categories"`
		Excluded     int             `json:"excluded"`
	}
)

// ReportService aggregates stored expenses into base-currency reports.
// Expenses whose currency cannot be converted with the available snapshot
// are excluded from totals and counted, never silently zeroed.
type ReportService struct {
	repo  storage.Repository
	rates RateSource
}

func NewReportService(repo storage.Repository, rateSource RateSource) *ReportService {
	return &ReportService{repo: repo, rates: rateSource}
}

// converted is an expense whose amount has been expressed in the base
// currency.
type converted struct {
	expense core.Expense
	amount  float64
	year    int
	month   int // 1-12
}

// convertAll lists every expense and converts each into the base currency.
// It returns the convertible records, the count of excluded ones, and
// whether a snapshot was available at all.
func (s *ReportService) convertAll(ctx context.Context, base string) ([]converted, int, bool, error) {
	expenses, err := s.repo.ListExpenses(ctx, core.Filter{})
	if err != nil {
		return nil, 0, false, fmt.Errorf("list expenses: %w", err)
	}

	snapshot := s.rates.GetRates(ctx, base)

	var out []converted
	excluded := 0
	for _, e := range expenses {
		amount, ok := rates.Convert(e.Amount.Float64(), e.Currency, snapshot, base)
		if !ok {
			excluded++
			continue
		}
		date, err := time.Parse(core.DateLayout, e.Date)
		if err != nil {
			// Dates are validated on entry; an unparseable one is
			// legacy data we leave out of time-based reports.
			excluded++
			continue
		}
		out = append(out, converted{
			expense: e,
			amount:  amount,
			year:    date.Year(),
			month:   int(date.Month()),
		})
	}

	return out, excluded, snapshot != nil, nil
}

// Summary totals all convertible expenses and breaks them down by category.
func (s *ReportService) Summary(ctx context.Context, base string) (Summary, error) {
	items, excluded, ratesAvailable, err := s.convertAll(ctx, base)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		BaseCurrency:   base,
		Excluded:       excluded,
		RatesAvailable: ratesAvailable,
	}

	byCategory := make(map[core.Category]*CategoryTotal)
	for _, item := range items {
		summary.Total += item.amount
		ct := byCategory[item.expense.Category]
		if ct == nil {
			ct = &CategoryTotal{Category: item.expense.Category}
			byCategory[item.expense.Category] = ct
		}
		ct.Total += item.amount
		ct.Count++
	}

	summary.ByCategory = finishCategoryTotals(byCategory)
	return summary, nil
}

// Monthly returns the converted total per month of the given year.
func (s *ReportService) Monthly(ctx context.Context, base string, year int) (MonthlyBreakdown, error) {
	items, excluded, _, err := s.convertAll(ctx, base)
	if err != nil {
		return MonthlyBreakdown{}, err
	}

	report := MonthlyBreakdown{BaseCurrency: base, Year: year, Excluded: excluded}
	for _, item := range items {
		if item.year == year {
			report.Totals[item.month-1] += item.amount
		}
	}
	return report, nil
}

// Categories returns the per-category totals, counts and averages for one
// month, sorted by total descending.
func (s *ReportService) Categories(ctx context.Context, base string, year, month int) (CategoryReport, error) {
	items, excluded, _, err := s.convertAll(ctx, base)
	if err != nil {
		return CategoryReport{}, err
	}

	report := CategoryReport{BaseCurrency: base, Year: year, Month: month, Excluded: excluded}

	byCategory := make(map[core.Category]*CategoryTotal)
	for _, item := range items {
		if item.year != year || item.month != month {
			continue
		}
		ct := byCategory[item.expense.Category]
		if ct == nil {
			ct = &CategoryTotal{Category: item.expense.Category}
			byCategory[item.expense.Category] = ct
		}
		ct.Total += item.amount
		ct.Count++
	}

	report.Categories = finishCategoryTotals(byCategory)
	return report, nil
}

// Comparison returns monthly totals for a year next to the previous year's.
func (s *ReportService) Comparison(ctx context.Context, base string, year int) (YearComparison, error) {
	items, excluded, _, err := s.convertAll(ctx, base)
	if err != nil {
		return YearComparison{}, err
	}

	report := YearComparison{BaseCurrency: base, Year: year, Excluded: excluded}
	for _, item := range items {
		switch item.year {
		case year:
			report.Current[item.month-1] += item.amount
		case year - 1:
			report.Previous[item.month-1] += item.amount
		}
	}
	return report, nil
}

func finishCategoryTotals(byCategory map[core.Category]*CategoryTotal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		if ct.Count > 0 {
			ct.Average = ct.Total / float64(ct.Count)
		}
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
