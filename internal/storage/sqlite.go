package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"spendtrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense, categorizationPending bool) error {
	pending := 0
	if categorizationPending {
		pending = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, description, amount_cents, category, date, currency, categorization_pending)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount.Cents, string(e.Category), e.Date, e.Currency, pending)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrDuplicateID
		}
		return fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"currency", e.Currency)

	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, description, amount_cents, category, date, currency
		FROM expenses
		WHERE id = ?`, id)

	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET description = ?, amount_cents = ?, category = ?, date = ?, currency = ?, categorization_pending = 0
		WHERE id = ?`,
		e.Description, e.Amount.Cents, string(e.Category), e.Date, e.Currency, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	query := `
		SELECT id, description, amount_cents, category, date, currency
		FROM expenses`
	var conditions []string
	var args []any

	if f.Search != "" {
		conditions = append(conditions, "LOWER(description) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, string(f.Category))
	}
	if f.StartDate != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, f.EndDate)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

func (r *SQLiteRepository) ExistingIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM expenses`)
	if err != nil {
		return nil, fmt.Errorf("list expense ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expense id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) ListPendingCategorization(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, category, date, currency
		FROM expenses
		WHERE categorization_pending = 1
		ORDER BY created_at
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending categorization: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

func (r *SQLiteRepository) SetCategory(ctx context.Context, id string, category core.Category, pending bool) error {
	p := 0
	if pending {
		p = 1
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET category = ?, categorization_pending = ? WHERE id = ?`,
		string(category), p, id)
	if err != nil {
		return fmt.Errorf("set category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set category rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	var category string
	err := row.Scan(&e.ID, &e.Description, &e.Amount.Cents, &category, &e.Date, &e.Currency)
	if err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(category)
	return e, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
