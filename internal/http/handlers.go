package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartbudget/internal/cache"
	"smartbudget/internal/chart"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			checks["storage"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	} else {
		checks["storage"] = "in_memory"
	}

	if s.chartCache != nil {
		checks["chart_cache"] = map[string]any{
			"entries": s.chartCache.Size(),
			"status":  "ok",
		}
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.GetMetrics().ClientCount,
		"status":         "ok",
	}

	NewResponse().
		Status(httpStatus).
		JSON(map[string]any{
			"status":    status,
			"timestamp": s.now().Format(time.RFC3339),
			"checks":    checks,
		}).
		Write(w)
}

// handleMetrics provides request, rate limit and cache metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()

	var b strings.Builder
	fmt.Fprintf(&b, "# HELP smartbudget_requests_total Total HTTP requests\n")
	fmt.Fprintf(&b, "# TYPE smartbudget_requests_total counter\n")
	fmt.Fprintf(&b, "smartbudget_requests_total %d\n", traceMetrics.TotalRequests)
	fmt.Fprintf(&b, "# HELP smartbudget_server_errors_total Responses with a 5xx status\n")
	fmt.Fprintf(&b, "# TYPE smartbudget_server_errors_total counter\n")
	fmt.Fprintf(&b, "smartbudget_server_errors_total %d\n", traceMetrics.ServerErrors)
	fmt.Fprintf(&b, "# HELP smartbudget_rate_limit_rejected_total Requests rejected by the rate limiter\n")
	fmt.Fprintf(&b, "# TYPE smartbudget_rate_limit_rejected_total counter\n")
	fmt.Fprintf(&b, "smartbudget_rate_limit_rejected_total %d\n", rateLimitMetrics.Rejected)
	fmt.Fprintf(&b, "# HELP smartbudget_rate_limit_clients Clients tracked by the rate limiter\n")
	fmt.Fprintf(&b, "# TYPE smartbudget_rate_limit_clients gauge\n")
	fmt.Fprintf(&b, "smartbudget_rate_limit_clients %d\n", rateLimitMetrics.ClientCount)
	fmt.Fprintf(&b, "# HELP smartbudget_admin_rejected_total Admin requests without a valid credential\n")
	fmt.Fprintf(&b, "# TYPE smartbudget_admin_rejected_total counter\n")
	fmt.Fprintf(&b, "smartbudget_admin_rejected_total %d\n", s.adminGuard.GetMetrics().Rejected)

	if lru, ok := s.chartCache.(*cache.LRUCache[chart.Breakdown]); ok {
		stats := lru.Stats()
		fmt.Fprintf(&b, "# HELP smartbudget_chart_cache_hits_total Chart cache hits\n")
		fmt.Fprintf(&b, "# TYPE smartbudget_chart_cache_hits_total counter\n")
		fmt.Fprintf(&b, "smartbudget_chart_cache_hits_total %d\n", stats.Hits)
		fmt.Fprintf(&b, "# HELP smartbudget_chart_cache_misses_total Chart cache misses\n")
		fmt.Fprintf(&b, "# TYPE smartbudget_chart_cache_misses_total counter\n")
		fmt.Fprintf(&b, "smartbudget_chart_cache_misses_total %d\n", stats.Misses)
		fmt.Fprintf(&b, "# HELP smartbudget_chart_cache_entries Chart cache entries\n")
		fmt.Fprintf(&b, "# TYPE smartbudget_chart_cache_entries gauge\n")
		fmt.Fprintf(&b, "smartbudget_chart_cache_entries %d\n", stats.Size)
	}

	NewResponse().
		Header("Content-Type", "text/plain; charset=utf-8").
		BodyString(b.String()).
		Write(w)
}
