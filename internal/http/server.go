package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendtrack/internal/cache"
	applog "spendtrack/internal/log"
	"spendtrack/internal/services"
)

// Server wires the expense API handlers onto an http.Server with
// security middleware, per-IP rate limiting and request logging.
type Server struct {
	http.Server
	expenses     *services.ExpenseService
	importExport *services.ImportExportService
	reports      *services.ReportService
	rates        services.RateSource
	baseCurrency string

	rateLimiter *rateLimiter
	metrics     *securityMetrics
	accessLog   *applog.StructuredLogger

	// Report responses are cached until the next mutation.
	summaryCache *cache.LRUCache[services.Summary]
	monthlyCache *cache.LRUCache[services.MonthlyBreakdown]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, expenses *services.ExpenseService, importExport *services.ImportExportService, reports *services.ReportService, rates services.RateSource, baseCurrency string) *Server {
	mux := http.NewServeMux()
	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           applog.Middleware(logger)(mux),
			ReadHeaderTimeout: 10 * time.Second,
		},
		expenses:     expenses,
		importExport: importExport,
		reports:      reports,
		rates:        rates,
		baseCurrency: baseCurrency,
		rateLimiter:  newRateLimiter(60),
		metrics:      &securityMetrics{},
		accessLog:    applog.NewStructuredLogger(logger),
		summaryCache: cache.NewLRUCache[services.Summary](50, 5*time.Minute),
		monthlyCache: cache.NewLRUCache[services.MonthlyBreakdown](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.monthlyCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/expenses", s.withSecurityHeaders(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses", s.withSecurityHeaders(s.handleListExpenses))
	mux.HandleFunc("GET /api/expenses/{id}", s.withSecurityHeaders(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withSecurityHeaders(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withSecurityHeaders(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/export", s.withSecurityHeaders(s.handleExport))
	mux.HandleFunc("POST /api/import", s.withSecurityHeaders(s.handleImport))

	mux.HandleFunc("GET /api/rates", s.withSecurityHeaders(s.handleRates))
	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /api/reports/monthly", s.withSecurityHeaders(s.handleMonthlyReport))
	mux.HandleFunc("GET /api/reports/categories", s.withSecurityHeaders(s.handleCategoryReport))
	mux.HandleFunc("GET /api/reports/comparison", s.withSecurityHeaders(s.handleComparisonReport))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.accessLog.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request detected",
				"request_id", requestID,
				"client_ip", clientIP,
				"url", r.URL.String())
		}

		// Apply rate limiting to mutating requests
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Capture status code for the completion log
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.accessLog.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP)
	}
}

// invalidateReports drops cached report responses after any write.
func (s *Server) invalidateReports() {
	s.summaryCache.Flush()
	s.monthlyCache.Flush()
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
