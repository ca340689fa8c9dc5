package http

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"smartbudget/internal/chart"
	"smartbudget/internal/core"
	applog "smartbudget/internal/log"
	"smartbudget/internal/middleware/security"
)

// breakdown returns the chart data for f, served from the chart cache when
// possible. Writes purge the cache, and a load that overlaps a purge is not
// stored, so a hit is never stale.
func (s *Server) breakdown(ctx context.Context, f core.Filter) (chart.Breakdown, error) {
	if s.chartCache == nil {
		return s.budget.Breakdown(ctx, f)
	}

	key := FilterValues(f).Encode()
	if b, ok := s.chartCache.Get(key); ok {
		applog.FromContext(ctx).DebugContext(ctx, "Chart cache hit", "key", key)
		return b, nil
	}

	gen := s.chartCache.Generation()
	b, err := s.budget.Breakdown(ctx, f)
	if err != nil {
		return chart.Breakdown{}, err
	}
	if !s.chartCache.SetIfGeneration(key, b, gen) {
		applog.FromContext(ctx).DebugContext(ctx, "Chart cache purged during load", "key", key)
	}
	return b, nil
}

// chartRequest parses the filter and loads the breakdown, writing the error
// response itself when either step fails.
func (s *Server) chartRequest(w http.ResponseWriter, r *http.Request) (chart.Breakdown, bool) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		BadRequestError("Invalid filter: " + err.Error()).Write(w)
		return chart.Breakdown{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := s.breakdown(ctx, f)
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return chart.Breakdown{}, false
	}
	return b, true
}

// handleChartFragment returns the canvas, library script and initializer
// for embedding into a page. The nonce matches this response's CSP.
func (s *Server) handleChartFragment(w http.ResponseWriter, r *http.Request) {
	b, ok := s.chartRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := chart.WriteFragment(&buf, b, security.NonceFromContext(r.Context())); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Chart fragment render failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldError, err)
		InternalServerError("Failed to render chart").Write(w)
		return
	}
	NewResponse().BodyHTML(buf.String()).Write(w)
}

// handleChartConfig returns the Chart.js configuration object as JSON.
func (s *Server) handleChartConfig(w http.ResponseWriter, r *http.Request) {
	b, ok := s.chartRequest(w, r)
	if !ok {
		return
	}
	NewResponse().JSON(b.Config()).Write(w)
}

// handleChartECharts renders the breakdown as a standalone go-echarts page.
func (s *Server) handleChartECharts(w http.ResponseWriter, r *http.Request) {
	b, ok := s.chartRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := chart.WriteECharts(&buf, b); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "ECharts render failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldBars, b.Len(),
			applog.FieldError, err)
		InternalServerError("Failed to render chart").Write(w)
		return
	}
	NewResponse().
		Header("Content-Security-Policy", echartsCSP).
		BodyHTML(buf.String()).
		Write(w)
}

// echartsCSP replaces the nonce policy on the go-echarts page, whose
// generated initializer is inline and unsigned.
const echartsCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' " + chart.EChartsAssetsOrigin +
	"; style-src 'self' 'unsafe-inline'; img-src 'self' data:; object-src 'none'; frame-ancestors 'none'"
