package storage

import (
	"context"
	"testing"

	"spendtrack/internal/core"
)

func expense(id, date string, category core.Category) core.Expense {
	return core.Expense{
		ID:          id,
		Description: "expense " + id,
		Amount:      core.Money{Cents: 1000},
		Category:    category,
		Date:        date,
		Currency:    "USD",
	}
}

func TestMemoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	e := expense("1", "2024-01-15", core.CategoryGroceries)
	if err := repo.CreateExpense(ctx, e, false); err != nil {
		t.Fatalf("CreateExpense() error: %v", err)
	}
	if err := repo.CreateExpense(ctx, e, false); err != ErrDuplicateID {
		t.Fatalf("duplicate CreateExpense() error = %v, want ErrDuplicateID", err)
	}

	got, err := repo.GetExpense(ctx, "1")
	if err != nil || got != e {
		t.Fatalf("GetExpense() = %+v, %v", got, err)
	}

	e.Description = "edited"
	e.Category = core.CategoryShopping
	if err := repo.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("UpdateExpense() error: %v", err)
	}
	got, _ = repo.GetExpense(ctx, "1")
	if got.Description != "edited" || got.Category != core.CategoryShopping {
		t.Errorf("update not applied: %+v", got)
	}

	if err := repo.UpdateExpense(ctx, expense("missing", "2024-01-01", core.CategoryOther)); err != ErrNotFound {
		t.Errorf("UpdateExpense(missing) error = %v, want ErrNotFound", err)
	}

	if err := repo.DeleteExpense(ctx, "1"); err != nil {
		t.Fatalf("DeleteExpense() error: %v", err)
	}
	if _, err := repo.GetExpense(ctx, "1"); err != ErrNotFound {
		t.Errorf("GetExpense(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepositoryListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, e := range []core.Expense{
		expense("a", "2024-01-10", core.CategoryGroceries),
		expense("b", "2024-02-20", core.CategoryTravel),
		expense("c", "2024-02-20", core.CategoryGroceries),
	} {
		if err := repo.CreateExpense(ctx, e, false); err != nil {
			t.Fatalf("CreateExpense(%s) error: %v", e.ID, err)
		}
	}

	all, err := repo.ListExpenses(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("ListExpenses() error: %v", err)
	}
	if len(all) != 3 || all[0].ID != "b" || all[1].ID != "c" || all[2].ID != "a" {
		t.Errorf("unexpected order: %+v", all)
	}

	groceries, _ := repo.ListExpenses(ctx, core.Filter{Category: core.CategoryGroceries})
	if len(groceries) != 2 {
		t.Errorf("category filter returned %d records", len(groceries))
	}

	feb, _ := repo.ListExpenses(ctx, core.Filter{StartDate: "2024-02-01", EndDate: "2024-02-28"})
	if len(feb) != 2 {
		t.Errorf("date filter returned %d records", len(feb))
	}
}

func TestMemoryRepositoryPendingCategorization(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.CreateExpense(ctx, expense("p1", "2024-01-01", core.CategoryOther), true); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateExpense(ctx, expense("ok", "2024-01-02", core.CategoryTravel), false); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateExpense(ctx, expense("p2", "2024-01-03", core.CategoryOther), true); err != nil {
		t.Fatal(err)
	}

	pending, err := repo.ListPendingCategorization(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingCategorization() error: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "p1" || pending[1].ID != "p2" {
		t.Fatalf("pending = %+v", pending)
	}

	if err := repo.SetCategory(ctx, "p1", core.CategoryDiningOut, false); err != nil {
		t.Fatalf("SetCategory() error: %v", err)
	}
	pending, _ = repo.ListPendingCategorization(ctx, 10)
	if len(pending) != 1 || pending[0].ID != "p2" {
		t.Errorf("pending after settle = %+v", pending)
	}

	got, _ := repo.GetExpense(ctx, "p1")
	if got.Category != core.CategoryDiningOut {
		t.Errorf("category not updated: %+v", got)
	}
}
