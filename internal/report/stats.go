package report

import (
	"math"
	"sort"
	"time"

	"financas/internal/core"
)

// Sunday-first, matching time.Weekday indexing.
var weekdayNames = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

var monthLabels = [13]string{"", "Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// MonthLabel returns the 3-letter PT-BR label for a month (Jan..Dez).
func MonthLabel(m time.Month) string {
	return monthLabels[m]
}

type (
	DayOfWeekStat struct {
		Weekday time.Weekday
		Day     string // 3-letter label, Dom..Sáb
		Total   core.Money
		Count   int
	}

	CategoryGrowth struct {
		Category      string
		Current       core.Money
		Previous      core.Money
		Growth        core.Money
		GrowthPercent float64
	}

	TopExpense struct {
		Ref         core.Ref
		Description string
		Category    string
		Amount      core.Money
		Date        time.Time
		DateLabel   string
	}

	PeriodStats struct {
		DayOfWeek      []DayOfWeekStat
		CategoryGrowth []CategoryGrowth
		TopExpenses    []TopExpense
	}
)

// ComputeStats derives day-of-week spending, category growth against the
// previous month, and the largest expenses from a month summary. Growth is
// skipped entirely when there is no previous summary.
func ComputeStats(current MonthSummary, previous *MonthSummary) PeriodStats {
	stats := PeriodStats{
		DayOfWeek:   dayOfWeekStats(current),
		TopExpenses: topExpenses(current, 5),
	}
	if previous != nil {
		stats.CategoryGrowth = categoryGrowth(current, *previous)
	}
	return stats
}

func dayOfWeekStats(s MonthSummary) []DayOfWeekStat {
	var buckets [7]DayOfWeekStat
	for _, row := range s.Rows {
		if row.Type != core.Expense {
			continue
		}
		wd := row.Date.UTC().Weekday()
		buckets[wd].Total.Cents += row.Amount.Cents
		buckets[wd].Count++
	}

	var out []DayOfWeekStat
	for wd, bucket := range buckets {
		if bucket.Count == 0 {
			continue
		}
		bucket.Weekday = time.Weekday(wd)
		bucket.Day = weekdayNames[wd]
		out = append(out, bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Weekday < out[j].Weekday
	})
	return out
}

// categoryGrowth compares each current category against the same category in
// the previous month. Only movements above 10% either way are kept; a
// category absent last month counts as +100% when it gained spending.
func categoryGrowth(current, previous MonthSummary) []CategoryGrowth {
	prevAmounts := make(map[string]int64, len(previous.Categories))
	for _, cat := range previous.Categories {
		prevAmounts[cat.Category] = cat.Amount.Cents
	}

	var out []CategoryGrowth
	for _, cat := range current.Categories {
		prev := prevAmounts[cat.Category]
		growth := cat.Amount.Cents - prev
		var pct float64
		if prev != 0 {
			pct = float64(growth) / float64(prev) * 100
		} else if growth > 0 {
			pct = 100
		}
		if math.Abs(pct) <= 10 {
			continue
		}
		out = append(out, CategoryGrowth{
			Category:      cat.Category,
			Current:       cat.Amount,
			Previous:      core.Money{Cents: prev},
			Growth:        core.Money{Cents: growth},
			GrowthPercent: pct,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].GrowthPercent), math.Abs(out[j].GrowthPercent)
		if ai != aj {
			return ai > aj
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// topExpenses returns the n largest expenses of the month, skipping card
// invoice payments so they do not shadow the purchases behind them.
func topExpenses(s MonthSummary, n int) []TopExpense {
	var expenses []Row
	for _, row := range s.Rows {
		if row.Type == core.Expense && row.Category != core.CategoryCardPayment {
			expenses = append(expenses, row)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].Amount.Cents != expenses[j].Amount.Cents {
			return expenses[i].Amount.Cents > expenses[j].Amount.Cents
		}
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.Before(expenses[j].Date)
		}
		return expenses[i].Description < expenses[j].Description
	})
	if len(expenses) > n {
		expenses = expenses[:n]
	}

	out := make([]TopExpense, len(expenses))
	for i, row := range expenses {
		out[i] = TopExpense{
			Ref:         row.Ref,
			Description: row.Description,
			Category:    row.Category,
			Amount:      row.Amount,
			Date:        row.Date,
			DateLabel:   row.Date.UTC().Format("02/01/2006"),
		}
	}
	return out
}
