package report

import "financas/internal/core"

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// MonthComparison is the delta between two month summaries. Percent changes
// are relative to the previous month and default to 0 when the previous
// total is zero.
type MonthComparison struct {
	ExpenseChange        core.Money
	ExpenseChangePercent float64
	IncomeChange         core.Money
	IncomeChangePercent  float64
	BalanceChange        core.Money
	Trend                Trend
}

// Compare diffs the current month against the previous one.
//
// The trend thresholds are proportional to the previous balance: a balance
// improvement only counts as "improving" when it exceeds 10% of the previous
// balance. When the previous balance is negative or zero the classification
// degenerates (an "improvement" would need a more negative change). The
// recorded behavior is kept as is; see DESIGN.md.
func Compare(current, previous MonthSummary) MonthComparison {
	cmp := MonthComparison{
		ExpenseChange: core.Money{Cents: current.TotalExpenses.Cents - previous.TotalExpenses.Cents},
		IncomeChange:  core.Money{Cents: current.TotalIncome.Cents - previous.TotalIncome.Cents},
		BalanceChange: core.Money{Cents: current.Balance.Cents - previous.Balance.Cents},
	}
	if previous.TotalExpenses.Cents != 0 {
		cmp.ExpenseChangePercent = float64(cmp.ExpenseChange.Cents) / float64(previous.TotalExpenses.Cents) * 100
	}
	if previous.TotalIncome.Cents != 0 {
		cmp.IncomeChangePercent = float64(cmp.IncomeChange.Cents) / float64(previous.TotalIncome.Cents) * 100
	}

	threshold := float64(previous.Balance.Cents) * 0.1
	change := float64(cmp.BalanceChange.Cents)
	switch {
	case change > threshold:
		cmp.Trend = TrendImproving
	case change < -threshold:
		cmp.Trend = TrendWorsening
	default:
		cmp.Trend = TrendStable
	}
	return cmp
}
