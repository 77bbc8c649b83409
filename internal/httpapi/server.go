// Package httpapi is the JSON API surface of the dashboard. Routes are
// registered with method-qualified patterns on the standard mux; every
// /api route except login sits behind the admin session check.
package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"acadesk/internal/auth"
	"acadesk/internal/cache"
	"acadesk/internal/log"
	"acadesk/internal/services"
	"acadesk/internal/storage"
)

const sessionCookie = "acadesk_session"

// Options are the handler knobs that come from configuration.
type Options struct {
	DefaulterLimit          int
	DefaulterContactVisible bool
}

type Server struct {
	http.Server

	store       storage.Store
	fees        *services.FeeService
	authn       *auth.Authenticator
	opts        Options
	rateLimiter *rateLimiter
	now         func() time.Time

	// Dashboard and report payloads are aggregations over the whole fee
	// table; they are cached briefly and purged on every write.
	dashboardCache *cache.LRUCache[DashboardData]

	cacheManager *cache.Manager
	metrics      *appMetrics
	shutdownOnce sync.Once
}

func NewServer(addr string, store storage.Store, fees *services.FeeService, authn *auth.Authenticator, opts Options) *Server {
	mux := http.NewServeMux()

	if opts.DefaulterLimit <= 0 {
		opts.DefaulterLimit = 10
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:          store,
		fees:           fees,
		authn:          authn,
		opts:           opts,
		rateLimiter:    newRateLimiter(),
		now:            time.Now,
		dashboardCache: cache.NewLRUCache[DashboardData](10, time.Minute),
		cacheManager:   cache.NewManager(),
		metrics:        &appMetrics{startTime: time.Now()},
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /api/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("POST /api/logout", s.withSecurityHeaders(s.handleLogout))

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withSecurityHeaders(s.requireSession(h))
	}

	mux.HandleFunc("GET /api/students", protected(s.handleListStudents))
	mux.HandleFunc("POST /api/students", protected(s.handleCreateStudent))
	mux.HandleFunc("GET /api/students/{id}", protected(s.handleGetStudent))
	mux.HandleFunc("PUT /api/students/{id}", protected(s.handleUpdateStudent))
	mux.HandleFunc("DELETE /api/students/{id}", protected(s.handleDeleteStudent))

	mux.HandleFunc("GET /api/batches", protected(s.handleListBatches))
	mux.HandleFunc("POST /api/batches", protected(s.handleCreateBatch))
	mux.HandleFunc("GET /api/batches/{id}", protected(s.handleGetBatch))
	mux.HandleFunc("PUT /api/batches/{id}", protected(s.handleUpdateBatch))
	mux.HandleFunc("DELETE /api/batches/{id}", protected(s.handleDeleteBatch))

	mux.HandleFunc("GET /api/teachers", protected(s.handleListTeachers))
	mux.HandleFunc("POST /api/teachers", protected(s.handleCreateTeacher))
	mux.HandleFunc("GET /api/teachers/{id}", protected(s.handleGetTeacher))
	mux.HandleFunc("PUT /api/teachers/{id}", protected(s.handleUpdateTeacher))
	mux.HandleFunc("DELETE /api/teachers/{id}", protected(s.handleDeleteTeacher))

	mux.HandleFunc("GET /api/fees", protected(s.handleListFees))
	mux.HandleFunc("POST /api/fees", protected(s.handleCreateFee))
	mux.HandleFunc("GET /api/fees/{id}", protected(s.handleGetFee))
	mux.HandleFunc("PUT /api/fees/{id}", protected(s.handleUpdateFee))
	mux.HandleFunc("DELETE /api/fees/{id}", protected(s.handleDeleteFee))
	mux.HandleFunc("POST /api/fees/{id}/pay", protected(s.handlePayFee))
	mux.HandleFunc("POST /api/fees/{id}/unpay", protected(s.handleUnpayFee))
	mux.HandleFunc("POST /api/fees/generate", protected(s.handleGenerateFees))
	mux.HandleFunc("POST /api/maintenance/prune", protected(s.handlePruneFees))

	mux.HandleFunc("GET /api/salaries", protected(s.handleListSalaries))
	mux.HandleFunc("POST /api/salaries", protected(s.handleCreateSalary))
	mux.HandleFunc("GET /api/salaries/{id}", protected(s.handleGetSalary))
	mux.HandleFunc("PUT /api/salaries/{id}", protected(s.handleUpdateSalary))
	mux.HandleFunc("DELETE /api/salaries/{id}", protected(s.handleDeleteSalary))

	mux.HandleFunc("GET /api/expenses", protected(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", protected(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", protected(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", protected(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", protected(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/personal-expenses", protected(s.handleListPersonalExpenses))
	mux.HandleFunc("POST /api/personal-expenses", protected(s.handleCreatePersonalExpense))
	mux.HandleFunc("GET /api/personal-expenses/{id}", protected(s.handleGetPersonalExpense))
	mux.HandleFunc("PUT /api/personal-expenses/{id}", protected(s.handleUpdatePersonalExpense))
	mux.HandleFunc("DELETE /api/personal-expenses/{id}", protected(s.handleDeletePersonalExpense))

	mux.HandleFunc("GET /api/dashboard", protected(s.handleDashboard))
	mux.HandleFunc("GET /api/reports/fees.csv", protected(s.handleFeesReport))
	mux.HandleFunc("GET /api/reports/monthly.csv", protected(s.handleMonthlyReport))
	mux.HandleFunc("GET /api/reports/batches.csv", protected(s.handleBatchesReport))
	mux.HandleFunc("GET /api/reports/defaulters.csv", protected(s.handleDefaultersReport))
	mux.HandleFunc("GET /api/reports/salaries.csv", protected(s.handleSalariesReport))

	return s
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateAggregates drops cached dashboard payloads. Called after
// every write that touches fee records or the roster.
func (s *Server) invalidateAggregates() {
	s.dashboardCache.Purge()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		atomic.AddInt64(&s.metrics.totalRequests, 1)

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = log.WithRequestID(ctx, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			atomic.AddInt64(&s.metrics.rateLimitHits, 1)
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
