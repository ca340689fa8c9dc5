package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"smartbudget/internal/chart"
	"smartbudget/internal/core"
	applog "smartbudget/internal/log"
	"smartbudget/internal/middleware/security"
	"smartbudget/internal/services"
)

// auditLogTail is how many trailing audit lines the admin page shows.
const auditLogTail = 200

type dashboardPage struct {
	services.Dashboard
	Notice     *Notice
	Today      string
	StartDate  string
	EndDate    string
	EntryTypes []core.EntryType
	ChartHTML  template.HTML
}

type editEntryPage struct {
	Entry      core.Entry
	Categories []core.Category
	EntryTypes []core.EntryType
}

type adminStatsPage struct {
	services.AdminStats
}

type adminLogsPage struct {
	Path  string
	Lines []string
	Found bool
}

var entryTypes = []core.EntryType{core.Expense, core.Income}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// handleDashboard renders the main page for the filter in the query string
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		BadRequestError("Invalid filter: " + err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	now := s.now()
	dash, err := s.budget.Dashboard(ctx, f, now)
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return
	}

	fragment, err := chart.Fragment(dash.Chart, security.NonceFromContext(r.Context()))
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Chart fragment render failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldError, err)
		InternalServerError("Failed to render chart").Write(w)
		return
	}

	page := dashboardPage{
		Dashboard:  dash,
		Today:      core.DateOf(now).String(),
		EntryTypes: entryTypes,
		ChartHTML:  fragment,
	}
	if !f.From.IsZero() {
		page.StartDate = f.From.String()
	}
	if !f.To.IsZero() {
		page.EndDate = f.To.String()
	}
	if n, ok := LookupNotice(r.URL.Query().Get("notice")); ok {
		page.Notice = &n
	}

	s.render(w, r, "dashboard.html", page)
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	id, err := ParseEntryID(r)
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return
	}

	entry, err := s.budget.Entry(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return
	}
	cats, err := s.budget.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpList, err)
		return
	}

	s.render(w, r, "edit_entry.html", editEntryPage{
		Entry:      entry,
		Categories: cats,
		EntryTypes: entryTypes,
	})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.budget.AdminStats(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return
	}
	s.render(w, r, "admin.html", adminStatsPage{AdminStats: stats})
}

// handleAdminLogs shows the tail of the audit log written by the worker
func (s *Server) handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	page := adminLogsPage{Path: s.auditLogPath}
	if s.auditLogPath != "" {
		data, err := os.ReadFile(s.auditLogPath)
		switch {
		case err == nil:
			page.Found = true
			page.Lines = tailLines(string(data), auditLogTail)
		case errors.Is(err, fs.ErrNotExist):
		default:
			writeServiceError(w, r, applog.OpRead, err)
			return
		}
	}
	s.render(w, r, "admin_logs.html", page)
}

func tailLines(s string, n int) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
