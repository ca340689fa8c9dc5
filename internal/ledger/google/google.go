// Package google exports budget entries to a Google Sheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"smartbudget/internal/core"
	applog "smartbudget/internal/log"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// HeaderRow is the column layout written to the sheet.
var HeaderRow = []any{"Date", "Category", "Amount", "Type"}

// Config selects the spreadsheet and the service account used to reach it.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type valuesAppender interface {
	Append(ctx context.Context, spreadsheetID, rng string, vr *gsheet.ValueRange) (string, error)
}

type sheetsAppender struct {
	svc *gsheet.Service
}

func (a sheetsAppender) Append(ctx context.Context, spreadsheetID, rng string, vr *gsheet.ValueRange) (string, error) {
	resp, err := a.svc.Spreadsheets.Values.Append(spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if resp.Updates != nil {
		return resp.Updates.UpdatedRange, nil
	}
	return "", nil
}

// Exporter appends one row per entry to the configured sheet.
type Exporter struct {
	values        valuesAppender
	spreadsheetID string
	sheetName     string
	logger        *applog.Logger
}

// New builds an Exporter authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *applog.Logger) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return nil, errors.New("missing GOOGLE_SHEET_NAME")
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return newExporter(sheetsAppender{svc: svc}, cfg, logger), nil
}

func newExporter(values valuesAppender, cfg Config, logger *applog.Logger) *Exporter {
	return &Exporter{
		values:        values,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger.WithComponent(applog.ComponentSheets),
	}
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// AppendEntry writes e as a row and returns the updated range reported by
// the API.
func (x *Exporter) AppendEntry(ctx context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	vr := &gsheet.ValueRange{Values: [][]any{Row(e)}}
	ref, err := x.values.Append(ctx, x.spreadsheetID, x.appendRange(), vr)
	if err != nil {
		return "", fmt.Errorf("append to sheet %q: %w", x.sheetName, err)
	}

	x.logger.InfoContext(ctx, "Entry exported to Google Sheets",
		applog.FieldOperation, applog.OpAppend,
		applog.FieldEntryID, e.ID,
		"range", ref)
	return ref, nil
}

func (x *Exporter) appendRange() string {
	return "'" + strings.ReplaceAll(x.sheetName, "'", "''") + "'!A:D"
}

// Row converts e into the sheet's column layout.
func Row(e core.Entry) []any {
	return []any{e.Date.String(), e.Category, e.Amount.Decimal(), string(e.Type)}
}
