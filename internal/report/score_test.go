package report

import (
	"strings"
	"testing"
	"time"

	"financas/internal/core"
)

func TestComputeScoreSavingsBoundaries(t *testing.T) {
	tests := []struct {
		rate float64
		want int
	}{
		{35, 30}, {30, 30}, {29.9, 25}, {20, 25}, {19.9, 15}, {10, 15},
		{9.9, 10}, {5, 10}, {4.9, 5}, {0.1, 5}, {0, 0}, {-10, 0},
	}
	for _, tt := range tests {
		s := MonthSummary{SavingsRate: tt.rate}
		if got := ComputeScore(s, nil).SavingsScore; got != tt.want {
			t.Errorf("SavingsScore(rate=%v) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestComputeScorePayment(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		paid    int64
		overdue int
		want    int
	}{
		{"no expenses counts as fully paid", 0, 0, 0, 30},
		{"95 percent paid", 1000_00, 950_00, 0, 30},
		{"80 percent paid", 1000_00, 800_00, 0, 20},
		{"60 percent paid", 1000_00, 600_00, 0, 10},
		{"below 60", 1000_00, 100_00, 0, 5},
		{"overdue penalty", 1000_00, 950_00, 2, 20},
		{"penalty floors at zero", 1000_00, 100_00, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MonthSummary{
				TotalExpenses: core.Money{Cents: tt.total},
				PaidExpenses:  core.Money{Cents: tt.paid},
			}
			for i := 0; i < tt.overdue; i++ {
				s.OverdueDues = append(s.OverdueDues, DueItem{IsOverdue: true})
			}
			score := ComputeScore(s, nil)
			if score.PaymentScore != tt.want {
				t.Errorf("PaymentScore = %d, want %d", score.PaymentScore, tt.want)
			}
			if tt.overdue > 0 && !hasRecommendation(score, "em atraso") {
				t.Error("missing overdue recommendation")
			}
		})
	}
}

func TestComputeScoreDiversification(t *testing.T) {
	cats := func(pcts ...float64) []CategoryBreakdown {
		out := make([]CategoryBreakdown, len(pcts))
		for i, p := range pcts {
			out[i] = CategoryBreakdown{Category: string(rune('a' + i)), Percentage: p}
		}
		return out
	}

	tests := []struct {
		name string
		cats []CategoryBreakdown
		want int
	}{
		{"well spread", cats(25, 20, 20, 20, 15), 20},
		{"four categories under 40", cats(35, 30, 20, 15), 15},
		{"top under 50", cats(45, 40, 15), 10},
		{"concentrated", cats(80, 20), 5},
		{"no expenses at all", nil, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ComputeScore(MonthSummary{Categories: tt.cats}, nil)
			if score.DiversificationScore != tt.want {
				t.Errorf("DiversificationScore = %d, want %d", score.DiversificationScore, tt.want)
			}
		})
	}

	score := ComputeScore(MonthSummary{Categories: cats(80, 20)}, nil)
	if !hasRecommendation(score, "concentrados") {
		t.Error("missing concentration recommendation")
	}
}

func TestComputeScoreCreditUsage(t *testing.T) {
	mkSummary := func(creditCents, totalCents int64) MonthSummary {
		rows := []Row{{Transaction: core.Transaction{
			Type: core.Expense, Amount: core.Money{Cents: creditCents}, CardType: core.CardCredit,
		}}}
		if rest := totalCents - creditCents; rest > 0 {
			rows = append(rows, Row{Transaction: core.Transaction{
				Type: core.Expense, Amount: core.Money{Cents: rest},
			}})
		}
		return MonthSummary{TotalExpenses: core.Money{Cents: totalCents}, Rows: rows}
	}

	tests := []struct {
		name   string
		credit int64
		total  int64
		want   int
	}{
		{"no expenses", 0, 0, 20},
		{"under 30", 29_00, 100_00, 20},
		{"under 50", 49_00, 100_00, 15},
		{"under 70", 69_00, 100_00, 10},
		{"heavy credit", 90_00, 100_00, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ComputeScore(mkSummary(tt.credit, tt.total), nil)
			if score.CreditUsageScore != tt.want {
				t.Errorf("CreditUsageScore = %d, want %d", score.CreditUsageScore, tt.want)
			}
		})
	}

	if score := ComputeScore(mkSummary(61_00, 100_00), nil); !hasRecommendation(score, "débito") {
		t.Error("missing prefer-debit recommendation above 60% credit usage")
	}
}

func TestComputeScoreTotalBounds(t *testing.T) {
	// A spread of realistic summaries; every sub-score must stay within its
	// documented maximum and the total within [0, 100].
	summaries := []MonthSummary{
		{},
		{SavingsRate: 50, TotalExpenses: core.Money{Cents: 100_00}, PaidExpenses: core.Money{Cents: 100_00}},
		{SavingsRate: -20, TotalExpenses: core.Money{Cents: 500_00}},
		NewAggregator(nil).Aggregate(Input{
			Transactions: []core.Transaction{
				expense("e1", "mercado", 300_00, 2, true),
				expense("e2", "lazer", 100_00, 3, false),
				income("i1", "salario", 1000_00, 1),
			},
		}, 2024, time.March, testNow),
	}

	for i, s := range summaries {
		score := ComputeScore(s, nil)
		if score.SavingsScore < 0 || score.SavingsScore > 30 ||
			score.PaymentScore < 0 || score.PaymentScore > 30 ||
			score.DiversificationScore < 0 || score.DiversificationScore > 20 ||
			score.CreditUsageScore < 0 || score.CreditUsageScore > 20 {
			t.Errorf("summary %d: sub-score out of range: %+v", i, score)
		}
		if score.Score < 0 || score.Score > 100 {
			t.Errorf("summary %d: total %d out of [0,100]", i, score.Score)
		}
		if score.Score != score.SavingsScore+score.PaymentScore+score.DiversificationScore+score.CreditUsageScore {
			t.Errorf("summary %d: total is not the sum of sub-scores", i)
		}
	}
}

func TestComputeScoreComparisonRecommendations(t *testing.T) {
	s := MonthSummary{SavingsRate: 26}

	score := ComputeScore(s, &MonthComparison{ExpenseChangePercent: 16})
	if !hasRecommendation(score, "cresceram mais de 15%") {
		t.Error("missing rising-expenses recommendation")
	}
	if !hasRecommendation(score, "investir") {
		t.Error("missing invest recommendation above 25% savings rate")
	}

	score = ComputeScore(s, &MonthComparison{ExpenseChangePercent: 15})
	if hasRecommendation(score, "cresceram mais de 15%") {
		t.Error("rising-expenses recommendation requires strictly more than 15%")
	}
}

func hasRecommendation(score FinancialScore, substr string) bool {
	for _, rec := range score.Recommendations {
		if strings.Contains(rec, substr) {
			return true
		}
	}
	return false
}
