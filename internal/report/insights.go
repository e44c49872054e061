package report

import (
	"fmt"
	"strings"

	"financas/internal/core"
)

type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightDanger  InsightType = "danger"
	InsightInfo    InsightType = "info"
)

// Insight is a human-readable observation about a month. The slice returned
// by GenerateInsights is ordered by display priority.
type Insight struct {
	Type    InsightType
	Title   string
	Message string
	Icon    string
}

// Keyword lists for the category heuristics. Matching is case-insensitive
// substring containment, on purpose: a category named "Cinema do shopping"
// counts as leisure without being in any taxonomy.
var (
	foodOutsideKeywords  = []string{"lanche", "restaurante", "delivery", "ifood", "pizza", "hamburguer", "lanchonete", "fast food"}
	subscriptionKeywords = []string{"assinatura", "streaming", "netflix", "spotify", "prime", "disney", "hbo", "youtube"}
	leisureKeywords      = []string{"lazer", "cinema", "entretenimento", "jogo", "show", "festa", "bar"}
	transportKeywords    = []string{"transporte", "uber", "taxi", "gasolina", "combustivel", "estacionamento", "onibus", "metro"}
)

// GenerateInsights produces the prioritized insight list for a month. The
// rule order below is the display order and must not be shuffled.
func GenerateInsights(s MonthSummary, cmp *MonthComparison) []Insight {
	var insights []Insight

	// 1. Month-over-month trend.
	if cmp != nil {
		switch cmp.Trend {
		case TrendImproving:
			insights = append(insights, Insight{
				Type:    InsightSuccess,
				Title:   "Situação melhorando",
				Message: fmt.Sprintf("Seu saldo melhorou %s em relação ao mês anterior", cmp.BalanceChange.FormatBRL()),
				Icon:    "trending-up",
			})
		case TrendWorsening:
			insights = append(insights, Insight{
				Type:    InsightWarning,
				Title:   "Situação piorando",
				Message: fmt.Sprintf("Seu saldo caiu %s em relação ao mês anterior", core.Money{Cents: -cmp.BalanceChange.Cents}.FormatBRL()),
				Icon:    "trending-down",
			})
		}
		if cmp.ExpenseChangePercent > 10 {
			insights = append(insights, Insight{
				Type:    InsightWarning,
				Title:   "Despesas em alta",
				Message: fmt.Sprintf("Suas despesas aumentaram %.1f%% em relação ao mês anterior", cmp.ExpenseChangePercent),
				Icon:    "arrow-up-circle",
			})
		} else if cmp.ExpenseChangePercent < -10 {
			insights = append(insights, Insight{
				Type:    InsightSuccess,
				Title:   "Despesas em queda",
				Message: fmt.Sprintf("Suas despesas diminuíram %.1f%% em relação ao mês anterior", -cmp.ExpenseChangePercent),
				Icon:    "arrow-down-circle",
			})
		}
	}

	// 2. Balance sign.
	if s.Balance.Cents < 0 {
		insights = append(insights, Insight{
			Type:    InsightDanger,
			Title:   "Saldo negativo",
			Message: fmt.Sprintf("Você gastou %s a mais do que ganhou este mês", core.Money{Cents: -s.Balance.Cents}.FormatBRL()),
			Icon:    "alert-circle",
		})
	} else if s.Balance.Cents > 0 {
		insights = append(insights, Insight{
			Type:    InsightSuccess,
			Title:   "Saldo positivo",
			Message: fmt.Sprintf("Você fechou o mês com %s de sobra", s.Balance.FormatBRL()),
			Icon:    "checkmark-circle",
		})
	}

	// 3. Savings tips, each evaluated independently.
	insights = append(insights, savingsTips(s)...)

	// 4. Due bills.
	if n := len(s.OverdueDues); n > 0 {
		var total core.Money
		for _, item := range s.OverdueDues {
			total.Cents += item.Amount.Cents
		}
		insights = append(insights, Insight{
			Type:    InsightDanger,
			Title:   "Contas em atraso",
			Message: fmt.Sprintf("Você tem %d conta(s) em atraso, totalizando %s", n, total.FormatBRL()),
			Icon:    "alert-circle",
		})
	}
	if soon := duesWithinDays(s.UpcomingDues, 7); len(soon) > 0 {
		var total core.Money
		for _, item := range soon {
			total.Cents += item.Amount.Cents
		}
		insights = append(insights, Insight{
			Type:    InsightWarning,
			Title:   "Vencimentos próximos",
			Message: fmt.Sprintf("%d conta(s) vencem nos próximos 7 dias, totalizando %s", len(soon), total.FormatBRL()),
			Icon:    "calendar",
		})
	}

	// 5. Credit card aggregate.
	if credit := creditTotal(s); credit.Cents > 0 {
		insights = append(insights, Insight{
			Type:    InsightInfo,
			Title:   "Gastos no crédito",
			Message: fmt.Sprintf("Você gastou %s no cartão de crédito este mês", credit.FormatBRL()),
			Icon:    "card",
		})
	}

	// 6. Top category, only when it dominates.
	if len(s.Categories) > 0 && s.Categories[0].Percentage > 25 {
		top := s.Categories[0]
		insights = append(insights, Insight{
			Type:    InsightInfo,
			Title:   "Maior categoria",
			Message: fmt.Sprintf("%s concentra %.1f%% das suas despesas (%s)", top.Category, top.Percentage, top.Amount.FormatBRL()),
			Icon:    "pie-chart",
		})
	}

	return insights
}

// savingsTips runs the independent heuristic rules in their fixed order.
func savingsTips(s MonthSummary) []Insight {
	var tips []Insight
	income := s.TotalIncome.Cents

	if income > 0 {
		if food := categoryMatchTotal(s, foodOutsideKeywords); float64(food.Cents) > float64(income)*0.15 {
			tips = append(tips, Insight{
				Type:    InsightWarning,
				Title:   "Comida fora de casa",
				Message: fmt.Sprintf("Você gastou %s comendo fora, mais de 15%% da sua renda. Cozinhar em casa pode render uma boa economia", food.FormatBRL()),
				Icon:    "fast-food",
			})
		}
	}

	if s.SavingsRate < 20 {
		tips = append(tips, Insight{
			Type:    InsightInfo,
			Title:   "Regra 50/30/20",
			Message: "Tente destinar 50% da renda para necessidades, 30% para desejos e 20% para poupança",
			Icon:    "bulb",
		})
	}

	if subs := categoryMatchTotal(s, subscriptionKeywords); subs.Cents > 0 {
		tips = append(tips, Insight{
			Type:    InsightInfo,
			Title:   "Assinaturas",
			Message: fmt.Sprintf("Suas assinaturas somam %s por mês. Revise quais você realmente usa", subs.FormatBRL()),
			Icon:    "tv",
		})
	}

	if income > 0 {
		if leisure := categoryMatchTotal(s, leisureKeywords); float64(leisure.Cents) > float64(income)*0.10 {
			tips = append(tips, Insight{
				Type:    InsightWarning,
				Title:   "Gastos com lazer",
				Message: fmt.Sprintf("Lazer consumiu %s, mais de 10%% da sua renda este mês", leisure.FormatBRL()),
				Icon:    "film",
			})
		}
	}

	if count, total := smallExpenses(s, 50_00); count > 15 {
		tips = append(tips, Insight{
			Type:    InsightWarning,
			Title:   "Compras por impulso",
			Message: fmt.Sprintf("Foram %d compras abaixo de R$ 50, somando %s. Pequenos gastos se acumulam", count, total.FormatBRL()),
			Icon:    "basket",
		})
	}

	if credit, debit := creditTotal(s), debitTotal(s); credit.Cents > 2*debit.Cents && credit.Cents > 500_00 {
		tips = append(tips, Insight{
			Type:    InsightWarning,
			Title:   "Crédito dominante",
			Message: fmt.Sprintf("Seus gastos no crédito (%s) passam do dobro dos no débito. Prefira o débito para sentir o gasto na hora", credit.FormatBRL()),
			Icon:    "card",
		})
	}

	if income > 0 {
		if transport := categoryMatchTotal(s, transportKeywords); float64(transport.Cents) > float64(income)*0.15 {
			tips = append(tips, Insight{
				Type:    InsightWarning,
				Title:   "Gastos com transporte",
				Message: fmt.Sprintf("Transporte custou %s, mais de 15%% da sua renda. Avalie alternativas", transport.FormatBRL()),
				Icon:    "car",
			})
		}
	}

	if income == 0 && s.TotalExpenses.Cents > 0 {
		tips = append(tips, Insight{
			Type:    InsightInfo,
			Title:   "Renda não registrada",
			Message: "Você registrou despesas mas nenhuma renda este mês. Cadastre sua renda para acompanhar o saldo",
			Icon:    "cash",
		})
	}

	if s.SavingsRate >= 30 {
		tips = append(tips, Insight{
			Type:    InsightSuccess,
			Title:   "Poupador exemplar",
			Message: fmt.Sprintf("Você poupou %.1f%% da sua renda este mês. Excelente!", s.SavingsRate),
			Icon:    "trophy",
		})
	}

	return tips
}

// categoryMatchTotal sums expense categories whose name contains any of the
// keywords, ignoring case.
func categoryMatchTotal(s MonthSummary, keywords []string) core.Money {
	var total core.Money
	for _, cat := range s.Categories {
		name := strings.ToLower(cat.Category)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				total.Cents += cat.Amount.Cents
				break
			}
		}
	}
	return total
}

// smallExpenses counts expenses strictly below the given cent threshold.
func smallExpenses(s MonthSummary, thresholdCents int64) (int, core.Money) {
	var count int
	var total core.Money
	for _, row := range s.Rows {
		if row.Type != core.Expense {
			continue
		}
		if row.Amount.Cents < thresholdCents {
			count++
			total.Cents += row.Amount.Cents
		}
	}
	return count, total
}

func duesWithinDays(items []DueItem, days int) []DueItem {
	var out []DueItem
	for _, item := range items {
		if item.DaysUntilDue >= 0 && item.DaysUntilDue <= days {
			out = append(out, item)
		}
	}
	return out
}
