package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"financas/internal/amqp"
	"financas/internal/cache"
	"financas/internal/cli"
	"financas/internal/core"
	apphttp "financas/internal/http"
	"financas/internal/report"
	"financas/internal/services"
)

func main() {
	logger, cfg := cli.Bootstrap("financas")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	reports := report.NewService(repo, core.DefaultCatalog(), nil)

	cacheManager := cache.NewManager()
	cacheManager.Register(reports)
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	// AMQP is optional. Without a broker the app still serves reports from
	// SQLite, the sheet export just will not refresh.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without report sync", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - report exports will not sync")
	}

	svc := services.NewTransactionService(repo, publisher, reports)
	srv := apphttp.NewServer(cfg.Port, reports, svc, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Server listening", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.Start(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
