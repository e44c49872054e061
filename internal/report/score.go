package report

import (
	"fmt"

	"financas/internal/core"
)

// FinancialScore grades a month across four weighted dimensions. Sub-score
// maxima are 30/30/20/20, so the total is always within [0, 100].
type FinancialScore struct {
	Score                int
	SavingsScore         int
	PaymentScore         int
	DiversificationScore int
	CreditUsageScore     int
	Recommendations      []string
}

// ComputeScore scores a month summary. The comparison is optional; when
// present it only feeds the rising-expenses recommendation.
//
// Every threshold below is a business rule and doubles as the test oracle:
// the >= vs > boundaries are deliberate.
func ComputeScore(s MonthSummary, cmp *MonthComparison) FinancialScore {
	var score FinancialScore

	// Savings: step function of the savings rate.
	switch {
	case s.SavingsRate >= 30:
		score.SavingsScore = 30
	case s.SavingsRate >= 20:
		score.SavingsScore = 25
	case s.SavingsRate >= 10:
		score.SavingsScore = 15
	case s.SavingsRate >= 5:
		score.SavingsScore = 10
	case s.SavingsRate > 0:
		score.SavingsScore = 5
	}
	if s.SavingsRate < 20 {
		score.Recommendations = append(score.Recommendations,
			"Tente economizar pelo menos 20% da sua renda mensal")
	}

	// Payment discipline: share of expenses already settled.
	paymentRate := 100.0
	if s.TotalExpenses.Cents > 0 {
		paymentRate = float64(s.PaidExpenses.Cents) / float64(s.TotalExpenses.Cents) * 100
	}
	switch {
	case paymentRate >= 95:
		score.PaymentScore = 30
	case paymentRate >= 80:
		score.PaymentScore = 20
	case paymentRate >= 60:
		score.PaymentScore = 10
	default:
		score.PaymentScore = 5
	}
	if n := len(s.OverdueDues); n > 0 {
		score.PaymentScore -= 10
		if score.PaymentScore < 0 {
			score.PaymentScore = 0
		}
		score.Recommendations = append(score.Recommendations,
			fmt.Sprintf("Você tem %d conta(s) em atraso. Priorize o pagamento para evitar juros", n))
	}

	// Diversification: concentration of the largest category.
	topCategoryPct := 0.0
	if len(s.Categories) > 0 {
		topCategoryPct = s.Categories[0].Percentage
	}
	categoryCount := len(s.Categories)
	switch {
	case topCategoryPct < 30 && categoryCount >= 5:
		score.DiversificationScore = 20
	case topCategoryPct < 40 && categoryCount >= 4:
		score.DiversificationScore = 15
	case topCategoryPct < 50:
		score.DiversificationScore = 10
	default:
		score.DiversificationScore = 5
	}
	if topCategoryPct > 50 {
		score.Recommendations = append(score.Recommendations,
			"Seus gastos estão concentrados em uma única categoria. Diversifique seu orçamento")
	}

	// Credit usage: share of expenses on credit cards.
	creditUsageRate := 0.0
	if s.TotalExpenses.Cents > 0 {
		creditUsageRate = float64(creditTotal(s).Cents) / float64(s.TotalExpenses.Cents) * 100
	}
	switch {
	case creditUsageRate < 30:
		score.CreditUsageScore = 20
	case creditUsageRate < 50:
		score.CreditUsageScore = 15
	case creditUsageRate < 70:
		score.CreditUsageScore = 10
	default:
		score.CreditUsageScore = 5
	}
	if creditUsageRate > 60 {
		score.Recommendations = append(score.Recommendations,
			"Mais de 60% dos seus gastos estão no cartão de crédito. Prefira o débito para manter o controle")
	}

	score.Score = score.SavingsScore + score.PaymentScore + score.DiversificationScore + score.CreditUsageScore

	if cmp != nil && cmp.ExpenseChangePercent > 15 {
		score.Recommendations = append(score.Recommendations,
			"Suas despesas cresceram mais de 15% em relação ao mês anterior. Revise seus gastos")
	}
	if s.SavingsRate > 25 {
		score.Recommendations = append(score.Recommendations,
			"Ótima taxa de poupança! Considere investir o excedente")
	}

	return score
}

// creditTotal sums the month's expenses attributed to credit cards.
func creditTotal(s MonthSummary) core.Money {
	var total core.Money
	for _, row := range s.Rows {
		if row.Type == core.Expense && row.CardType == core.CardCredit {
			total.Cents += row.Amount.Cents
		}
	}
	return total
}

// debitTotal sums the month's expenses attributed to debit cards.
func debitTotal(s MonthSummary) core.Money {
	var total core.Money
	for _, row := range s.Rows {
		if row.Type == core.Expense && row.CardType == core.CardDebit {
			total.Cents += row.Amount.Cents
		}
	}
	return total
}
