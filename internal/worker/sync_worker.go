package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/amqp"
	"financas/internal/report"
	"financas/internal/sheets"
)

// ReportSource recomputes month reports on demand. The report.Service
// satisfies it.
type ReportSource interface {
	MonthReport(ctx context.Context, year int, month time.Month) (*report.MonthReport, error)
	Invalidate()
}

// SyncWorker consumes report sync messages and exports the recomputed
// month to the configured sheet. The message carries only coordinates; the
// worker always reads fresh data.
type SyncWorker struct {
	reports ReportSource
	writer  sheets.ReportWriter
}

func NewSyncWorker(reports ReportSource, writer sheets.ReportWriter) *SyncWorker {
	return &SyncWorker{
		reports: reports,
		writer:  writer,
	}
}

// HandleSyncMessage recomputes and exports one month. Errors bubble up so
// the AMQP consumer can requeue the delivery.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ReportSyncMessage) error {
	month := time.Month(msg.Month)

	slog.InfoContext(ctx, "Processing report sync message",
		"year", msg.Year,
		"month", msg.Month)

	// The worker's cache may predate the mutation that triggered this
	// message.
	w.reports.Invalidate()

	rep, err := w.reports.MonthReport(ctx, msg.Year, month)
	if err != nil {
		return fmt.Errorf("compute month report: %w", err)
	}

	if err := w.writer.WriteMonthReport(ctx, rep); err != nil {
		return fmt.Errorf("export month report: %w", err)
	}

	slog.InfoContext(ctx, "Report sync complete",
		"year", msg.Year,
		"month", msg.Month,
		"total_expenses_cents", rep.Summary.TotalExpenses.Cents,
		"score", rep.Score.Score)

	return nil
}

// StartupExport re-exports every month of the year up to the given month.
// Run once on worker start, it papers over messages lost while the worker
// was down.
func (w *SyncWorker) StartupExport(ctx context.Context, year int, upTo time.Month) error {
	w.reports.Invalidate()

	exported := 0
	for m := time.January; m <= upTo; m++ {
		rep, err := w.reports.MonthReport(ctx, year, m)
		if err != nil {
			return fmt.Errorf("compute %d-%02d: %w", year, int(m), err)
		}
		if rep.Summary.TransactionCount == 0 {
			continue
		}
		if err := w.writer.WriteMonthReport(ctx, rep); err != nil {
			return fmt.Errorf("export %d-%02d: %w", year, int(m), err)
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"year", year,
		"months_exported", exported)

	return nil
}
