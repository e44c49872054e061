package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"financas/internal/amqp"
	"financas/internal/backend"
	"financas/internal/cli"
	"financas/internal/core"
	"financas/internal/report"
	"financas/internal/worker"
)

func main() {
	logger, cfg := cli.Bootstrap("financas-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The worker keeps its own report service: messages carry only the
	// (year, month) coordinates and the report is recomputed from SQLite.
	reports := report.NewService(repo, core.DefaultCatalog(), nil)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid export backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewWriter(context.Background(), logger.Logger, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize export backend", "error", err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(reports, result.Writer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Export every month of the current year once on startup so the sheet
	// catches up on anything missed while the worker was down.
	now := time.Now()
	logger.Info("Performing startup export", "year", now.Year(), "up_to", int(now.Month()))
	if err := syncWorker.StartupExport(ctx, now.Year(), now.Month()); err != nil {
		logger.Error("Startup export failed", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		handler := func(msg *amqp.ReportSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		}
		if err := amqpClient.ConsumeReportSync(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give in-flight exports a moment to finish.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
