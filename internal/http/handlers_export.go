package http

import (
	"bytes"
	"encoding/csv"
	"net/http"

	"smartbudget/internal/core"
	applog "smartbudget/internal/log"
)

const (
	csvFilename  = "budget_entries.csv"
	jsonFilename = "budget_entries.json"
)

var csvHeader = []string{"Date", "Category", "Amount", "Type"}

// exportEntry is the JSON download shape of an entry.
type exportEntry struct {
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
}

// handleExportCSV downloads every entry, newest first.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	entries, err := s.budget.Entries(r.Context(), core.Filter{})
	if err != nil {
		writeServiceError(w, r, applog.OpExport, err)
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write(csvHeader)
	for _, e := range entries {
		_ = cw.Write([]string{e.Date.String(), e.Category, e.Amount.Decimal(), string(e.Type)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		writeServiceError(w, r, applog.OpExport, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Entries exported",
		applog.FieldOperation, applog.OpExport,
		"format", "csv",
		"count", len(entries))
	NewResponse().
		Attachment(csvFilename, "text/csv").
		Body(buf.Bytes()).
		Write(w)
}

// handleExportJSON downloads every entry as a JSON array.
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	entries, err := s.budget.Entries(r.Context(), core.Filter{})
	if err != nil {
		writeServiceError(w, r, applog.OpExport, err)
		return
	}

	out := make([]exportEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, exportEntry{
			Date:     e.Date.String(),
			Category: e.Category,
			Amount:   e.Amount.Euros(),
			Type:     string(e.Type),
		})
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Entries exported",
		applog.FieldOperation, applog.OpExport,
		"format", "json",
		"count", len(entries))
	NewResponse().
		JSON(out).
		Header("Content-Disposition", "attachment; filename="+jsonFilename).
		Write(w)
}
