package report

import (
	"testing"

	"financas/internal/core"
)

func summaryWith(expenses, incomeCents int64) MonthSummary {
	s := MonthSummary{
		TotalExpenses: core.Money{Cents: expenses},
		TotalIncome:   core.Money{Cents: incomeCents},
	}
	s.Balance = core.Money{Cents: incomeCents - expenses}
	return s
}

func TestCompareDeltas(t *testing.T) {
	current := summaryWith(1200_00, 3000_00)  // balance 1800
	previous := summaryWith(1000_00, 2500_00) // balance 1500

	cmp := Compare(current, previous)

	if cmp.ExpenseChange.Cents != 200_00 {
		t.Errorf("ExpenseChange = %d, want 20000", cmp.ExpenseChange.Cents)
	}
	if cmp.ExpenseChangePercent != 20 {
		t.Errorf("ExpenseChangePercent = %v, want 20", cmp.ExpenseChangePercent)
	}
	if cmp.IncomeChange.Cents != 500_00 {
		t.Errorf("IncomeChange = %d, want 50000", cmp.IncomeChange.Cents)
	}
	if cmp.BalanceChange.Cents != 300_00 {
		t.Errorf("BalanceChange = %d, want 30000", cmp.BalanceChange.Cents)
	}
	// 300 > 1500*0.1
	if cmp.Trend != TrendImproving {
		t.Errorf("Trend = %v, want improving", cmp.Trend)
	}
}

func TestCompareZeroPrevious(t *testing.T) {
	cmp := Compare(summaryWith(500_00, 0), summaryWith(0, 0))
	if cmp.ExpenseChangePercent != 0 {
		t.Errorf("ExpenseChangePercent = %v, want 0 when previous is 0", cmp.ExpenseChangePercent)
	}
	if cmp.IncomeChangePercent != 0 {
		t.Errorf("IncomeChangePercent = %v, want 0 when previous is 0", cmp.IncomeChangePercent)
	}
}

func TestCompareTrend(t *testing.T) {
	tests := []struct {
		name     string
		current  MonthSummary
		previous MonthSummary
		want     Trend
	}{
		{
			name:     "small change is stable",
			current:  summaryWith(1000_00, 2050_00), // balance 1050
			previous: summaryWith(1000_00, 2000_00), // balance 1000, threshold 100
			want:     TrendStable,
		},
		{
			name:     "drop beyond threshold is worsening",
			current:  summaryWith(1500_00, 2000_00), // balance 500
			previous: summaryWith(1000_00, 2000_00), // balance 1000
			want:     TrendWorsening,
		},
		{
			// Known inconsistency kept from the recorded behavior: with a
			// negative previous balance the threshold is negative too, so a
			// merely stable balance classifies as improving.
			name:     "negative previous balance degenerates",
			current:  summaryWith(1000_00, 0), // balance -1000
			previous: summaryWith(1000_00, 0), // balance -1000, threshold -100
			want:     TrendImproving,
		},
		{
			name:     "zero previous balance improves on any gain",
			current:  summaryWith(0, 1_00),
			previous: summaryWith(0, 0),
			want:     TrendImproving,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.current, tt.previous).Trend; got != tt.want {
				t.Errorf("Trend = %v, want %v", got, tt.want)
			}
		})
	}
}
