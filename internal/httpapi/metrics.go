package httpapi

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// appMetrics holds the counters behind GET /metrics. All fields are
// updated with atomics, never under a lock.
type appMetrics struct {
	startTime        time.Time
	totalRequests    int64
	rateLimitHits    int64
	paymentsRecorded int64
	cacheHits        int64
	cacheMisses      int64
}

// handleMetrics exposes application counters in plain text.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", atomic.LoadInt64(&s.metrics.totalRequests))

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limited requests\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", atomic.LoadInt64(&s.metrics.rateLimitHits))

	fmt.Fprintf(w, "# HELP payments_recorded_total Fee records marked paid\n")
	fmt.Fprintf(w, "# TYPE payments_recorded_total counter\n")
	fmt.Fprintf(w, "payments_recorded_total %d\n\n", atomic.LoadInt64(&s.metrics.paymentsRecorded))

	fmt.Fprintf(w, "# HELP cache_hits_total Dashboard cache hits\n")
	fmt.Fprintf(w, "# TYPE cache_hits_total counter\n")
	fmt.Fprintf(w, "cache_hits_total %d\n\n", atomic.LoadInt64(&s.metrics.cacheHits))

	fmt.Fprintf(w, "# HELP cache_misses_total Dashboard cache misses\n")
	fmt.Fprintf(w, "# TYPE cache_misses_total counter\n")
	fmt.Fprintf(w, "cache_misses_total %d\n\n", atomic.LoadInt64(&s.metrics.cacheMisses))

	fmt.Fprintf(w, "# HELP cache_entries Current dashboard cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries %d\n\n", s.dashboardCache.Size())

	fmt.Fprintf(w, "# HELP uptime_seconds Seconds since the server started\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.metrics.startTime).Seconds())
}
