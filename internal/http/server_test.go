package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spendtrack/internal/categorize"
	"spendtrack/internal/core"
	"spendtrack/internal/rates"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
)

type fakeRateSource struct{ snapshot *rates.Snapshot }

func (f fakeRateSource) GetRates(ctx context.Context, base string) *rates.Snapshot {
	return f.snapshot
}

func newTestServer(t *testing.T, source services.RateSource) *Server {
	t.Helper()
	repo := storage.NewMemoryRepository()
	expenses := services.NewExpenseService(repo, categorize.Static{Category: core.CategoryGroceries}, nil)
	importExport := services.NewImportExportService(repo)
	reports := services.NewReportService(repo, source)
	return NewServer(":0", expenses, importExport, reports, source, "USD")
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeExpense(t *testing.T, rec *httptest.ResponseRecorder) expenseJSON {
	t.Helper()
	var e expenseJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode expense response: %v (body %q)", err, rec.Body.String())
	}
	return e
}

func TestExpenseCRUD(t *testing.T) {
	s := newTestServer(t, fakeRateSource{})
	h := s.Server.Handler

	rec := doJSON(t, h, http.MethodPost, "/api/expenses",
		`{"description":"Weekly shop","amount":"45.20","currency":"USD","date":"2024-04-06"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %q", rec.Code, rec.Body.String())
	}
	created := decodeExpense(t, rec)
	if created.ID == "" {
		t.Fatal("created expense has empty ID")
	}
	if created.Category != string(core.CategoryGroceries) {
		t.Errorf("Category = %q, want Groceries", created.Category)
	}
	if created.Amount != "45.20" {
		t.Errorf("Amount = %q, want 45.20", created.Amount)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/expenses/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got := decodeExpense(t, rec); got != created {
		t.Errorf("get returned %+v, want %+v", got, created)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/expenses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list expenseListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || len(list.Expenses) != 1 {
		t.Fatalf("list = %+v, want one expense", list)
	}

	rec = doJSON(t, h, http.MethodPut, "/api/expenses/"+created.ID,
		`{"description":"Weekly shop","amount":"50.00","category":"Dining Out","date":"2024-04-06","currency":"USD"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %q", rec.Code, rec.Body.String())
	}
	updated := decodeExpense(t, rec)
	if updated.Amount != "50.00" || updated.Category != string(core.CategoryDiningOut) {
		t.Errorf("update returned %+v", updated)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/expenses/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/expenses/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t, fakeRateSource{})
	h := s.Server.Handler

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed JSON", `{not json`, http.StatusBadRequest},
		{"invalid amount", `{"description":"x","amount":"abc","currency":"USD"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"description":"x","amount":"0","currency":"USD"}`, http.StatusUnprocessableEntity},
		{"empty description", `{"description":"","amount":"10.00","currency":"USD"}`, http.StatusUnprocessableEntity},
		{"missing currency", `{"description":"x","amount":"10.00"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"description":"x","amount":"10.00","currency":"USD","date":"06/04/2024"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/expenses", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestListExpensesFilters(t *testing.T) {
	s := newTestServer(t, fakeRateSource{})
	h := s.Server.Handler

	for _, body := range []string{
		`{"description":"Coffee beans","amount":"8.00","currency":"USD","date":"2024-03-01"}`,
		`{"description":"Train ticket","amount":"22.00","currency":"USD","date":"2024-03-15"}`,
	} {
		if rec := doJSON(t, h, http.MethodPost, "/api/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed expense failed: %d", rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/expenses?search=coffee", "")
	var list expenseListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || list.Expenses[0].Description != "Coffee beans" {
		t.Errorf("search filter returned %+v", list)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/expenses?category=NotACategory", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown category filter status = %d, want 422", rec.Code)
	}
}

func TestUpdateMissingExpense(t *testing.T) {
	s := newTestServer(t, fakeRateSource{})
	h := s.Server.Handler

	rec := doJSON(t, h, http.MethodPut, "/api/expenses/nope",
		`{"description":"x","amount":"10.00","category":"Other","date":"2024-01-01","currency":"USD"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/expenses/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete status = %d, want 404", rec.Code)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source := fakeRateSource{}
	exporter := newTestServer(t, source)
	eh := exporter.Server.Handler

	bodies := []string{
		`{"description":"Lunch, \"quick\" bite","amount":"12.50","currency":"EUR","date":"2024-02-03"}`,
		`{"description":"Bus pass","amount":"30.00","currency":"USD","date":"2024-02-10"}`,
	}
	for _, body := range bodies {
		if rec := doJSON(t, eh, http.MethodPost, "/api/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed expense failed: %d (%s)", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, eh, http.MethodGet, "/api/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("export Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "expenses-export-") {
		t.Errorf("export Content-Disposition = %q", cd)
	}
	exported := rec.Body.String()

	importer := newTestServer(t, source)
	ih := importer.Server.Handler

	rec = doJSON(t, ih, http.MethodPost, "/api/import", exported)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %q", rec.Code, rec.Body.String())
	}
	var result services.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode import result: %v", err)
	}
	if result.Imported != 2 || len(result.SkippedRows) != 0 || result.DuplicateIDs != 0 {
		t.Errorf("import result = %+v, want 2 imported with no skips", result)
	}

	// Re-exporting from the second server must produce the same document.
	rec = doJSON(t, ih, http.MethodGet, "/api/export", "")
	if rec.Body.String() != exported {
		t.Errorf("re-export differs:\n%s\nwant:\n%s", rec.Body.String(), exported)
	}
}

func TestImportStructuralErrors(t *testing.T) {
	s := newTestServer(t, fakeRateSource{})
	h := s.Server.Handler

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"header only", "id,description,amount,category,date,currency"},
		{"wrong headers", "uuid,text,value\n1,x,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/import", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %q)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRatesEndpoint(t *testing.T) {
	snapshot := &rates.Snapshot{
		BaseCode:           "USD",
		Rates:              map[string]float64{"EUR": 0.92},
		TimeLastUpdateUnix: 1717200000,
	}

	s := newTestServer(t, fakeRateSource{snapshot: snapshot})
	rec := doJSON(t, s.Server.Handler, http.MethodGet, "/api/rates?base=USD", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("rates status = %d", rec.Code)
	}
	var got rates.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if got.BaseCode != "USD" || got.Rates["EUR"] != 0.92 {
		t.Errorf("snapshot = %+v", got)
	}

	unavailable := newTestServer(t, fakeRateSource{})
	rec = doJSON(t, unavailable.Server.Handler, http.MethodGet, "/api/rates", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("rates status without snapshot = %d, want 503", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	snapshot := &rates.Snapshot{BaseCode: "USD", Rates: map[string]float64{"EUR": 0.92}}
	s := newTestServer(t, fakeRateSource{snapshot: snapshot})
	h := s.Server.Handler

	for _, body := range []string{
		`{"description":"a","amount":"100.00","currency":"USD","date":"2024-01-01"}`,
		`{"description":"b","amount":"46.00","currency":"EUR","date":"2024-01-02"}`,
	} {
		if rec := doJSON(t, h, http.MethodPost, "/api/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed expense failed: %d", rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	var summary services.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Total < 149.99 || summary.Total > 150.01 {
		t.Errorf("Total = %v, want 150", summary.Total)
	}
	if !summary.RatesAvailable {
		t.Error("RatesAvailable = false")
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, fakeRateSource{})
	h := s.Server.Handler

	for _, target := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, h, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", target, rec.Code)
		}
	}
}
