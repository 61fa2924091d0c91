package core

import "testing"

func validExpense() Expense {
	return Expense{
		ID:          "a2e1f8f0-1111-4222-8333-444455556666",
		Description: "Weekly shop",
		Amount:      Money{Cents: 4250},
		Category:    CategoryGroceries,
		Date:        "2024-01-15",
		Currency:    "USD",
	}
}

func TestExpenseValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{
			name:   "valid expense",
			mutate: func(e *Expense) {},
		},
		{
			name:    "empty id",
			mutate:  func(e *Expense) { e.ID = "  " },
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty description",
			mutate:  func(e *Expense) { e.Description = "" },
			wantErr: ErrEmptyDescription,
		},
		{
			name:    "zero amount",
			mutate:  func(e *Expense) { e.Amount = Money{} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unknown category",
			mutate:  func(e *Expense) { e.Category = "Gadgets" },
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "malformed date",
			mutate:  func(e *Expense) { e.Date = "15/01/2024" },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "empty currency",
			mutate:  func(e *Expense) { e.Currency = "" },
			wantErr: ErrEmptyCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err != tt.wantErr {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory("Dining Out"); !ok || c != CategoryDiningOut {
		t.Fatalf("ParseCategory(Dining Out) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("dining out"); ok {
		t.Fatal("category matching must be exact")
	}
	if _, ok := ParseCategory("Gadgets"); ok {
		t.Fatal("unknown category accepted")
	}
}

func TestFilterMatches(t *testing.T) {
	e := validExpense()

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "empty filter matches", filter: Filter{}, want: true},
		{name: "search case-insensitive", filter: Filter{Search: "weekly"}, want: true},
		{name: "search no match", filter: Filter{Search: "taxi"}, want: false},
		{name: "category match", filter: Filter{Category: CategoryGroceries}, want: true},
		{name: "category mismatch", filter: Filter{Category: CategoryTravel}, want: false},
		{name: "inside date range", filter: Filter{StartDate: "2024-01-01", EndDate: "2024-01-31"}, want: true},
		{name: "start bound inclusive", filter: Filter{StartDate: "2024-01-15"}, want: true},
		{name: "end bound inclusive", filter: Filter{EndDate: "2024-01-15"}, want: true},
		{name: "before range", filter: Filter{StartDate: "2024-02-01"}, want: false},
		{name: "after range", filter: Filter{EndDate: "2024-01-14"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(e); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
