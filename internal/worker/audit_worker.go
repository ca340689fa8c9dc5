package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"smartbudget/internal/amqp"
	"smartbudget/internal/core"
	applog "smartbudget/internal/log"
)

// EntryAppender exports created entries. *google.Exporter satisfies it.
type EntryAppender interface {
	AppendEntry(ctx context.Context, e core.Entry) (string, error)
}

// Stats counts what the worker has processed.
type Stats struct {
	Recorded int64
	Exported int64
	Failed   int64
}

// AuditWorker writes one audit line per event and optionally exports
// created entries.
type AuditWorker struct {
	audit    *applog.Logger
	appender EntryAppender
	logger   *applog.Logger

	recorded atomic.Int64
	exported atomic.Int64
	failed   atomic.Int64
}

// NewAuditWorker creates a worker writing to audit. appender may be nil.
func NewAuditWorker(audit *applog.Logger, appender EntryAppender, logger *applog.Logger) *AuditWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &AuditWorker{
		audit:    audit,
		appender: appender,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// OpenAuditLog opens path for appending, creating its directory.
func OpenAuditLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return f, nil
}

// HandleEvent processes one event. Export happens before the audit line so
// a failed export, which requeues the message, is not recorded twice.
func (w *AuditWorker) HandleEvent(ctx context.Context, ev *amqp.Event) error {
	if ev.Type == amqp.EventEntryCreated && w.appender != nil {
		if err := w.export(ctx, ev); err != nil {
			w.failed.Add(1)
			return err
		}
	}

	w.audit.InfoContext(ctx, string(ev.Type),
		applog.FieldEventType, ev.Type,
		applog.FieldEntryID, ev.EntryID,
		applog.FieldEntryDate, ev.Date,
		applog.FieldCategory, ev.Category,
		applog.FieldAmountCents, ev.AmountCents,
		applog.FieldEntryType, ev.EntryType,
		applog.FieldRequestID, ev.RequestID,
		"event_time", ev.Timestamp)
	w.recorded.Add(1)
	return nil
}

func (w *AuditWorker) export(ctx context.Context, ev *amqp.Event) error {
	e, err := ev.Entry()
	if err != nil {
		return fmt.Errorf("decode entry %d: %w: %w", ev.EntryID, amqp.ErrPermanent, err)
	}
	ref, err := w.appender.AppendEntry(ctx, e)
	if err != nil {
		return fmt.Errorf("export entry %d: %w", e.ID, err)
	}
	w.exported.Add(1)
	w.logger.DebugContext(ctx, "Entry exported", applog.FieldEntryID, e.ID, "ref", ref)
	return nil
}

// Stats returns the worker counters.
func (w *AuditWorker) Stats() Stats {
	return Stats{
		Recorded: w.recorded.Load(),
		Exported: w.exported.Load(),
		Failed:   w.failed.Load(),
	}
}
