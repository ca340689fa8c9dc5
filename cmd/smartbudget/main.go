package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"smartbudget/internal/backend"
	"smartbudget/internal/cache"
	"smartbudget/internal/chart"
	"smartbudget/internal/cli"
	apphttp "smartbudget/internal/http"
	applog "smartbudget/internal/log"
	"smartbudget/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentApp)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	res, err := backend.NewFactory(logger).Create(context.Background(), backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, applog.FieldBackend, cfg.DataBackend)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	charts := cache.NewLRUCache[chart.Breakdown](cfg.CacheEntries, cfg.CacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(charts)
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	budget := services.NewBudgetService(res.Store, res.Publisher, logger,
		services.WithChartMonths(cfg.ChartMonths),
		services.OnChange(charts.Purge),
	)

	opts := apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		ChartCache:         charts,
		AuditLogPath:       cfg.AuditLogPath,
		Admin:              cfg.Admin(),
		Logger:             logger,
	}
	if res.Pinger != nil {
		opts.Pinger = res.Pinger
	}
	srv := apphttp.NewServer(opts, budget)
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, stop := cli.SignalContext()
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting smartbudget server",
			"port", cfg.Port,
			applog.FieldBackend, cfg.DataBackend,
			"audit_enabled", res.Publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			res.Close()
			cli.Fatal(logger, "Server error", err, "port", cfg.Port)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", applog.FieldError, err)
	}
	logger.Info("Server stopped gracefully")
}
