// Package backend selects where monthly reports get exported to.
package backend

import (
	"fmt"

	"financas/internal/config"
	"financas/internal/sheets"
)

// Type identifies an export backend.
type Type string

const (
	MemoryBackend Type = "memory"
	GoogleBackend Type = "google"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, GoogleBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a report writer.
type Config struct {
	Type Type

	// Google Sheets specific
	SpreadsheetID          string
	SheetName              string
	ServiceAccountJSON     string
	ServiceAccountJSONFile string
}

// Result carries the writer plus an optional cleanup hook.
type Result struct {
	Writer  sheets.ReportWriter
	Cleanup func() error
}

// FromAppConfig maps the application configuration onto a backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.ExportBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid export backend in config: %s", appConfig.ExportBackend)
	}

	return Config{
		Type:                   backendType,
		SpreadsheetID:          appConfig.GoogleSpreadsheetID,
		SheetName:              appConfig.ReportSheetName,
		ServiceAccountJSON:     appConfig.GoogleServiceAccountJSON,
		ServiceAccountJSONFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Validate checks the backend configuration.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid export backend: %s", c.Type)
	}
	if c.Type == GoogleBackend && c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID is required for the google backend")
	}
	return nil
}
