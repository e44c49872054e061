package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "financas/internal/sheets/google"
	"financas/internal/sheets/memory"
)

// NewWriter builds the report writer for the configured backend.
func NewWriter(ctx context.Context, logger *slog.Logger, cfg Config) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case GoogleBackend:
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		logger.Info("Initialized Google Sheets export backend",
			"spreadsheet_id", cfg.SpreadsheetID,
			"sheet_name", cfg.SheetName)
		return &Result{Writer: cli}, nil

	case MemoryBackend:
		store := memory.New()
		logger.Info("Initialized memory export backend")
		return &Result{Writer: store}, nil

	default:
		return nil, fmt.Errorf("unsupported export backend: %s", cfg.Type)
	}
}
