package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryGroceries     Category = "Groceries"
	CategoryDiningOut     Category = "Dining Out"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryUtilities     Category = "Utilities"
	CategoryHealth        Category = "Health"
	CategoryTravel        Category = "Travel"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// DateLayout is the wire and storage format for expense dates.
const DateLayout = "2006-01-02"

type (
	Category string

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          string
		Description string
		Amount      Money
		Category    Category
		Date        string // ISO-8601 date, YYYY-MM-DD
		Currency    string // ISO 4217 code, not validated against a fixed list
	}

	// Filter selects a subset of expenses for display. It never mutates
	// stored data.
	Filter struct {
		Search    string
		Category  Category
		StartDate string
		EndDate   string
	}
)

var (
	ErrEmptyID          = errors.New("empty expense id")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCurrency    = errors.New("empty currency")
)

// Categories returns the closed set of expense categories.
func Categories() []Category {
	return []Category{
		CategoryGroceries,
		CategoryDiningOut,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryUtilities,
		CategoryHealth,
		CategoryTravel,
		CategoryEducation,
		CategoryOther,
	}
}

// ParseCategory matches s against the closed category set.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateDate checks that s is a well-formed ISO-8601 calendar date.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Validate enforces invariants at record construction points (form
// submission, edit save). The storage layer does not re-validate.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	if strings.TrimSpace(e.Currency) == "" {
		return ErrEmptyCurrency
	}
	return nil
}

// Matches reports whether e passes the filter. Date bounds are inclusive;
// ISO dates compare correctly as strings.
func (f Filter) Matches(e Expense) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.StartDate != "" && e.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && e.Date > f.EndDate {
		return false
	}
	return true
}
