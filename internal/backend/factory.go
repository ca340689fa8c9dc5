package backend

import (
	"context"
	"fmt"

	"smartbudget/internal/amqp"
	"smartbudget/internal/ledger/memory"
	applog "smartbudget/internal/log"
	"smartbudget/internal/storage"
)

// Factory opens the ledger store and the optional audit publisher
type Factory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Factory{logger: logger}
}

// Create opens the backend described by config. An unreachable broker only
// disables audit events; the store still opens.
func (f *Factory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Type: config.Type}
	switch config.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		res.Store, res.Pinger = repo, repo
		res.onClose(repo.Close)
		f.logger.Info("Initialized SQLite backend",
			applog.FieldBackend, config.Type,
			"db_path", config.SQLiteDBPath)
	case Memory:
		res.Store = memory.NewDefault()
		f.logger.Info("Initialized memory backend", applog.FieldBackend, config.Type)
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without audit events",
				applog.FieldError, err)
		} else {
			res.Publisher = client
			res.onClose(client.Close)
			f.logger.Info("Initialized AMQP publisher",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	} else {
		f.logger.Info("Audit events disabled - no AMQP_URL provided")
	}

	return res, nil
}
