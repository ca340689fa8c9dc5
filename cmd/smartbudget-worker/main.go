package main

import (
	"context"
	"errors"
	"time"

	"smartbudget/internal/amqp"
	"smartbudget/internal/cli"
	"smartbudget/internal/ledger/google"
	applog "smartbudget/internal/log"
	"smartbudget/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentWorker)
	logger.Info("Starting smartbudget-worker")

	if !cfg.AuditEnabled() {
		cli.Fatal(logger, "Audit worker cannot start", errors.New("AMQP_URL is required"))
	}

	auditFile, err := worker.OpenAuditLog(cfg.AuditLogPath)
	if err != nil {
		cli.Fatal(logger, "Failed to open audit log", err, "path", cfg.AuditLogPath)
	}
	defer auditFile.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	// Google Sheets export of created entries (optional)
	var appender worker.EntryAppender
	if cfg.SheetsEnabled() {
		exporter, err := google.New(ctx, google.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleServiceAccountFile,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
		}, logger)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize Google Sheets exporter", err)
		}
		appender = exporter
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	auditWorker := worker.NewAuditWorker(applog.NewAudit(auditFile), appender, logger)

	done := make(chan error, 1)
	go func() {
		done <- amqpClient.ConsumeEvents(ctx, auditWorker.HandleEvent)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Event consumption failed", applog.FieldError, err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			logger.Warn("Shutdown timeout reached")
		}
	}

	stats := auditWorker.Stats()
	logger.Info("Worker shutdown complete",
		"recorded", stats.Recorded,
		"exported", stats.Exported,
		"failed", stats.Failed)
}
