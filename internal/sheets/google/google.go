package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financas/internal/report"
	ports "financas/internal/sheets"
)

// reportColumns is the fixed width of one month's row: eight overview cells
// plus five (category, amount) pairs.
const reportColumns = 18

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base name without year (e.g. "Relatório"); the year is prefixed per
	// sheet, so each January starts a fresh tab.
	reportBase string
}

var _ ports.ReportWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: REPORT_SHEET_NAME (default "Relatório").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	reportBase := strings.TrimSpace(os.Getenv("REPORT_SHEET_NAME"))
	if reportBase == "" {
		reportBase = "Relatório"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		reportBase:    reportBase,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteMonthReport upserts one month's row in the year tab. The row index
// is derived from the month, so re-exporting a month overwrites in place.
func (c *Client) WriteMonthReport(ctx context.Context, rep *report.MonthReport) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if rep == nil {
		return errors.New("nil report")
	}

	sheet := fmt.Sprintf("%d %s", rep.Summary.Year, c.reportBase)

	headerRange := fmt.Sprintf("%s!A1:%s1", sheet, columnLetter(reportColumns))
	header := &gsheet.ValueRange{Values: [][]any{headerRow()}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, headerRange, header).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header to %s: %w", sheet, err)
	}

	// Row 1 is the header; January lands on row 2.
	rowIdx := int(rep.Summary.Month) + 1
	rowRange := fmt.Sprintf("%s!A%d:%s%d", sheet, rowIdx, columnLetter(reportColumns), rowIdx)
	row := &gsheet.ValueRange{Values: [][]any{buildReportRow(rep)}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rowRange, row).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write report row to %s: %w", sheet, err)
	}

	slog.InfoContext(ctx, "Month report exported to Google Sheets",
		"sheet", sheet,
		"year", rep.Summary.Year,
		"month", int(rep.Summary.Month),
		"range", rowRange)

	return nil
}

func headerRow() []any {
	row := []any{
		"Mês", "Despesas", "Receitas", "Saldo", "Poupança %",
		"Score", "Pago", "Pendente",
	}
	for i := 1; i <= 5; i++ {
		row = append(row, fmt.Sprintf("Categoria %d", i), fmt.Sprintf("Valor %d", i))
	}
	return row
}

// buildReportRow flattens a report into one fixed-width sheet row. Amounts
// are written as decimal reais so the sheet can sum them.
func buildReportRow(rep *report.MonthReport) []any {
	s := rep.Summary
	row := []any{
		report.MonthLabel(s.Month),
		s.TotalExpenses.Reais(),
		s.TotalIncome.Reais(),
		s.Balance.Reais(),
		s.SavingsRate,
		rep.Score.Score,
		s.PaidExpenses.Reais(),
		s.PendingExpenses.Reais(),
	}
	for i := 0; i < 5; i++ {
		if i < len(s.Categories) {
			row = append(row, s.Categories[i].Category, s.Categories[i].Amount.Reais())
		} else {
			row = append(row, "", "")
		}
	}
	return row
}

// columnLetter converts a 1-based column number to its A1 letter form.
func columnLetter(n int) string {
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{byte('A' + n%26)}, out...)
		n /= 26
	}
	return string(out)
}
