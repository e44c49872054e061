// Package cli consolidates the initialization steps shared by cmd/financas,
// cmd/financas-worker and cmd/recurring-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"financas/internal/config"
	applog "financas/internal/log"
	"financas/internal/storage"
)

// Bootstrap loads the optional .env file, sets up the default structured
// logger and returns the validated configuration. Exits the process on
// configuration errors since none of the binaries can run without one.
func Bootstrap(binary string) (*applog.Logger, *config.Config) {
	// .env is for local development; absence is not an error.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	logger.Info("Starting " + binary)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return logger, cfg
}

// InitSQLite opens the repository (running migrations) or exits the process.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}
