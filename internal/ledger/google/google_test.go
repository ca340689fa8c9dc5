package google

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"smartbudget/internal/core"
	applog "smartbudget/internal/log"

	gsheet "google.golang.org/api/sheets/v4"
)

type fakeValues struct {
	spreadsheetID string
	rng           string
	rows          [][]any
	err           error
}

func (f *fakeValues) Append(_ context.Context, id, rng string, vr *gsheet.ValueRange) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.spreadsheetID, f.rng = id, rng
	f.rows = append(f.rows, vr.Values...)
	return rng + "5", nil
}

func testExporter(values valuesAppender, sheet string) *Exporter {
	return newExporter(values, Config{SpreadsheetID: "sheet-id", SheetName: sheet}, applog.New(applog.DefaultConfig()))
}

func TestAppendEntryWritesRow(t *testing.T) {
	fake := &fakeValues{}
	x := testExporter(fake, "Entries")

	e := core.Entry{ID: 3, Date: core.NewDate(2025, 7, 14), Category: "Food", Amount: core.Money{Cents: 4250}, Type: core.Expense}
	ref, err := x.AppendEntry(context.Background(), e)
	if err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	if ref == "" {
		t.Error("expected a range reference")
	}
	if fake.spreadsheetID != "sheet-id" || fake.rng != "'Entries'!A:D" {
		t.Fatalf("unexpected target %q %q", fake.spreadsheetID, fake.rng)
	}
	want := [][]any{{"2025-07-14", "Food", "42.50", "expense"}}
	if !reflect.DeepEqual(fake.rows, want) {
		t.Fatalf("rows = %v, want %v", fake.rows, want)
	}
}

func TestAppendRangeQuotesSheetName(t *testing.T) {
	x := testExporter(&fakeValues{}, "Bob's budget")
	if got := x.appendRange(); got != "'Bob''s budget'!A:D" {
		t.Fatalf("appendRange() = %q", got)
	}
}

func TestAppendEntryValidates(t *testing.T) {
	fake := &fakeValues{}
	x := testExporter(fake, "Entries")

	_, err := x.AppendEntry(context.Background(), core.Entry{Category: "Food", Amount: core.Money{Cents: 1}, Type: core.Expense})
	if !errors.Is(err, core.ErrZeroDate) {
		t.Fatalf("expected ErrZeroDate, got %v", err)
	}
	if len(fake.rows) != 0 {
		t.Error("invalid entries must not reach the API")
	}
}

func TestAppendEntryWrapsAPIError(t *testing.T) {
	x := testExporter(&fakeValues{err: errors.New("quota exceeded")}, "Entries")
	e := core.Entry{Date: core.NewDate(2025, 7, 1), Category: "Rent", Amount: core.Money{Cents: 1}, Type: core.Expense}

	_, err := x.AppendEntry(context.Background(), e)
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected wrapped API error, got %v", err)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing spreadsheet", Config{SheetName: "Entries"}, "missing GOOGLE_SPREADSHEET_ID"},
		{"missing sheet", Config{SpreadsheetID: "id"}, "missing GOOGLE_SHEET_NAME"},
		{"missing credentials", Config{SpreadsheetID: "id", SheetName: "Entries"}, "missing service account credentials"},
		{"unreadable file", Config{SpreadsheetID: "id", SheetName: "Entries", CredentialsFile: "/nonexistent/sa.json"}, "read service account file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.cfg, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("New() error = %v, want %q", err, tt.want)
			}
		})
	}
}
