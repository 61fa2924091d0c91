package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"spendtrack/internal/core"
	applog "spendtrack/internal/log"
	"spendtrack/internal/rates"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
)

// expenseJSON is the wire representation of an expense. Amounts travel as
// decimal strings ("12.50") so clients never see float rounding; the
// formatted variant carries the locale-aware display string.
type expenseJSON struct {
	ID              string `json:"id"`
	Description     string `json:"description"`
	Amount          string `json:"amount"`
	FormattedAmount string `json:"formatted_amount"`
	Category        string `json:"category"`
	Date            string `json:"date"`
	Currency        string `json:"currency"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:              e.ID,
		Description:     e.Description,
		Amount:          e.Amount.DecimalString(),
		FormattedAmount: rates.FormatAmount(e.Amount.Float64(), e.Currency),
		Category:        string(e.Category),
		Date:            e.Date,
		Currency:        e.Currency,
	}
}

type createExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Date        string `json:"date"`
}

type updateExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Currency    string `json:"currency"`
}

type expenseListResponse struct {
	Expenses []expenseJSON `json:"expenses"`
	Count    int           `json:"count"`
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyID,
		core.ErrInvalidAmount,
		core.ErrEmptyDescription,
		core.ErrInvalidCategory,
		core.ErrInvalidDate,
		core.ErrEmptyCurrency,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	expense, err := s.expenses.Create(r.Context(), services.CreateInput{
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Currency:    sanitizeInput(req.Currency),
		Date:        sanitizeInput(req.Date),
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.accessLog.LogError(r.Context(), "Failed to save expense", err, applog.ComponentExpense, applog.OpCreate, applog.NewFields())
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	s.accessLog.LogExpenseCreated(r.Context(), expense.ID, expense.Description, expense.Amount.Cents, string(expense.Category), expense.Currency)
	s.invalidateReports()
	writeJSON(w, http.StatusCreated, toExpenseJSON(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := core.Filter{
		Search:    sanitizeInput(q.Get("search")),
		StartDate: sanitizeInput(q.Get("start_date")),
		EndDate:   sanitizeInput(q.Get("end_date")),
	}
	if v := sanitizeInput(q.Get("category")); v != "" {
		category, ok := core.ParseCategory(v)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "unknown category")
			return
		}
		filter.Category = category
	}

	expenses, err := s.expenses.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	resp := expenseListResponse{Expenses: make([]expenseJSON, 0, len(expenses)), Count: len(expenses)}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, toExpenseJSON(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load expense")
		return
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	category, ok := core.ParseCategory(sanitizeInput(req.Category))
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown category")
		return
	}

	expense := core.Expense{
		ID:          r.PathValue("id"),
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        sanitizeInput(req.Date),
		Currency:    sanitizeInput(req.Currency),
	}

	if err := s.expenses.Update(r.Context(), expense); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "expense not found")
		case isValidationError(err):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update expense")
		}
		return
	}

	s.invalidateReports()
	writeJSON(w, http.StatusOK, toExpenseJSON(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}
