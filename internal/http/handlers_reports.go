package http

import (
	"net/http"
	"strconv"
)

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	base := s.baseCurrencyParam(r)
	snapshot := s.rates.GetRates(r.Context(), base)
	if snapshot == nil {
		writeError(w, http.StatusServiceUnavailable, "exchange rates unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	base := s.baseCurrencyParam(r)
	if cached, found := s.summaryCache.Get(base); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.reports.Summary(r.Context(), base)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	s.summaryCache.Set(base, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, _ := parseYearMonth(r)
	base := s.baseCurrencyParam(r)

	key := base + "-" + strconv.Itoa(year)
	if cached, found := s.monthlyCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	report, err := s.reports.Monthly(r.Context(), base, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build monthly report")
		return
	}
	s.monthlyCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	report, err := s.reports.Categories(r.Context(), s.baseCurrencyParam(r), year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build category report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleComparisonReport(w http.ResponseWriter, r *http.Request) {
	year, _ := parseYearMonth(r)
	report, err := s.reports.Comparison(r.Context(), s.baseCurrencyParam(r), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build comparison report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
