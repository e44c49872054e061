package google

import (
	"testing"
	"time"

	"financas/internal/core"
	"financas/internal/report"
)

func TestColumnLetter(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{18, "R"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
	}
	for _, tc := range cases {
		if got := columnLetter(tc.n); got != tc.want {
			t.Errorf("columnLetter(%d) = %s, want %s", tc.n, got, tc.want)
		}
	}
}

func TestBuildReportRow(t *testing.T) {
	rep := &report.MonthReport{
		Summary: report.MonthSummary{
			Year:            2024,
			Month:           time.March,
			TotalExpenses:   core.Money{Cents: 1234_56},
			TotalIncome:     core.Money{Cents: 5000_00},
			Balance:         core.Money{Cents: 3765_44},
			SavingsRate:     75.3,
			PaidExpenses:    core.Money{Cents: 1000_00},
			PendingExpenses: core.Money{Cents: 234_56},
			Categories: []report.CategoryBreakdown{
				{Category: "mercado", Amount: core.Money{Cents: 800_00}},
				{Category: "lazer", Amount: core.Money{Cents: 434_56}},
			},
		},
		Score: report.FinancialScore{Score: 85},
	}

	row := buildReportRow(rep)
	if len(row) != reportColumns {
		t.Fatalf("row width = %d, want %d", len(row), reportColumns)
	}
	if row[0] != "Mar" {
		t.Errorf("month label = %v", row[0])
	}
	if row[1] != 1234.56 {
		t.Errorf("expenses = %v", row[1])
	}
	if row[5] != 85 {
		t.Errorf("score = %v", row[5])
	}
	if row[8] != "mercado" || row[9] != 800.0 {
		t.Errorf("first category pair = %v / %v", row[8], row[9])
	}
	// Unused category slots stay blank so stale values never linger.
	if row[12] != "" || row[13] != "" {
		t.Errorf("empty category slot = %v / %v", row[12], row[13])
	}

	if len(headerRow()) != reportColumns {
		t.Errorf("header width = %d", len(headerRow()))
	}
}
