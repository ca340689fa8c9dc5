package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"smartbudget/internal/cache"
	"smartbudget/internal/chart"
	applog "smartbudget/internal/log"
	"smartbudget/internal/middleware/adminauth"
	"smartbudget/internal/middleware/ratelimit"
	"smartbudget/internal/middleware/security"
	"smartbudget/internal/middleware/trace"
	"smartbudget/internal/services"
	appweb "smartbudget/web"
)

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures NewServer. Zero values pick sensible defaults.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	// ChartCache holds breakdowns keyed by filter. Nil disables caching.
	ChartCache   cache.Cache[chart.Breakdown]
	Pinger       Pinger
	AuditLogPath string
	// Admin guards /admin/*. Without a password hash those pages answer 403.
	Admin  adminauth.Config
	Logger *applog.Logger
}

type Server struct {
	http.Server
	templates    *template.Template
	budget       *services.BudgetService
	logger       *applog.Logger
	chartCache   cache.Cache[chart.Breakdown]
	rateLimiter  *ratelimit.Limiter
	adminGuard   *adminauth.Guard
	tracer       *trace.Middleware
	pinger       Pinger
	auditLogPath string
	now          func() time.Time
	started      time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(opts Options, budget *services.BudgetService) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	rlConfig := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		rlConfig.RequestsPerMinute = opts.RateLimitPerMinute
	}

	mux := http.NewServeMux()
	s := &Server{
		budget:       budget,
		logger:       logger,
		chartCache:   opts.ChartCache,
		rateLimiter:  ratelimit.NewLimiter(rlConfig),
		adminGuard:   adminauth.NewGuard(opts.Admin),
		tracer:       trace.NewMiddleware(logger, security.ClientIP),
		pinger:       opts.Pinger,
		auditLogPath: opts.AuditLogPath,
		now:          time.Now,
		started:      time.Now(),
	}

	// Parse embedded templates at startup.
	t, err := template.New("pages").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// Entries and categories (form posts, redirect back to the dashboard)
	mux.HandleFunc("POST /entries", s.handleCreateEntry)
	mux.HandleFunc("GET /entries/{id}/edit", s.handleEditEntry)
	mux.HandleFunc("POST /entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("POST /entries/{id}/delete", s.handleDeleteEntry)
	mux.HandleFunc("POST /categories", s.handleAddCategory)

	// Charts
	mux.HandleFunc("GET /ui/breakdown-chart", s.handleChartFragment)
	mux.HandleFunc("GET /charts/breakdown", s.handleChartConfig)
	mux.HandleFunc("GET /charts/breakdown/echarts", s.handleChartECharts)

	// Exports and admin
	mux.HandleFunc("GET /export/csv", s.handleExportCSV)
	mux.HandleFunc("GET /export/json", s.handleExportJSON)
	mux.Handle("GET /admin/stats", s.adminGuard.Middleware(http.HandlerFunc(s.handleAdminStats)))
	mux.Handle("GET /admin/logs", s.adminGuard.Middleware(http.HandlerFunc(s.handleAdminLogs)))

	headers := security.NewHeadersMiddleware(securityHeaders())
	limit := s.rateLimiter.Middleware(security.ClientIP, s.onRateLimited)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = applog.Middleware(logger)(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// securityHeaders allows the chart library origin next to the per-request
// nonce used by the inline chart initializer.
func securityHeaders() security.HeadersConfig {
	cfg := security.DefaultHeadersConfig()
	cfg.ScriptSources = []string{chart.LibraryOrigin}
	return cfg
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, security.ClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// render executes a page template into a buffer so a failure can still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			"template", name,
			applog.FieldError, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	NewResponse().BodyHTML(buf.String()).Write(w)
}
