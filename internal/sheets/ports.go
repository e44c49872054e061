package sheets

import (
	"context"

	"financas/internal/report"
)

// Ports for outbound adapters.
type (
	// ReportWriter exports one month's report to an external sheet. The
	// worker calls it after recomputing the month, so a repeated message
	// just overwrites the same rows.
	ReportWriter interface {
		WriteMonthReport(ctx context.Context, rep *report.MonthReport) error
	}
)
