package report

import (
	"math"
	"sort"
	"time"

	"financas/internal/core"
)

type (
	// Row is a transaction in a month's scope: either a stored transaction
	// or an income synthesized from a salary definition.
	Row struct {
		core.Transaction
		Ref core.Ref
	}

	CategoryBreakdown struct {
		Category   string
		Amount     core.Money
		Percentage float64
		Color      string
	}

	CardBreakdown struct {
		CardID   string
		CardName string
		CardType core.CardType
		Total    core.Money
		Count    int
	}

	DueItem struct {
		Ref          core.Ref
		Description  string
		Amount       core.Money
		DueDate      time.Time
		IsPaid       bool
		IsOverdue    bool
		DaysUntilDue int
	}

	// MonthSummary is the aggregation output for one (year, month). It is
	// derived data, fully recomputed on each call and never persisted.
	MonthSummary struct {
		Year  int
		Month time.Month

		TotalExpenses   core.Money
		TotalIncome     core.Money
		Balance         core.Money
		PaidExpenses    core.Money
		PendingExpenses core.Money

		// SavingsRate is balance/income as a percentage, 0 when there is
		// no income.
		SavingsRate          float64
		AverageExpensePerDay core.Money

		Categories   []CategoryBreakdown
		Cards        []CardBreakdown
		UpcomingDues []DueItem
		OverdueDues  []DueItem

		Rows             []Row
		TransactionCount int
	}

	// Input carries the four record collections the aggregator consumes.
	// Adjustments are expected to be the ones for the target month.
	Input struct {
		Transactions []core.Transaction
		Salaries     []core.Salary
		Adjustments  []core.SalaryAdjustment
		Cards        []core.CreditCard
	}
)

// Aggregator builds MonthSummary values. The category catalog is injected so
// tests can substitute fixture category sets.
type Aggregator struct {
	catalog core.Catalog
}

func NewAggregator(catalog core.Catalog) *Aggregator {
	if catalog == nil {
		catalog = core.DefaultCatalog()
	}
	return &Aggregator{catalog: catalog}
}

// Aggregate computes the full summary for the target month. The current time
// is an explicit parameter: it only feeds the due-date arithmetic, and
// injecting it keeps the function deterministic.
func (a *Aggregator) Aggregate(in Input, year int, month time.Month, now time.Time) MonthSummary {
	summary := MonthSummary{Year: year, Month: month}

	dueDays := make(map[string]int, len(in.Cards))
	for _, card := range in.Cards {
		if card.CardType == core.CardCredit && card.DueDay >= 1 && card.DueDay <= 31 {
			dueDays[card.ID] = card.DueDay
		}
	}

	adjustments := make(map[core.AdjustmentKey]core.SalaryAdjustment, len(in.Adjustments))
	for _, adj := range in.Adjustments {
		// Last write wins per (salaryID, year, month).
		adjustments[adj.Key()] = adj
	}

	var rows []Row
	for _, tx := range in.Transactions {
		if a.inScope(tx, dueDays, year, month) {
			rows = append(rows, Row{Transaction: tx, Ref: core.TransactionRef(tx.ID)})
		}
	}
	for _, salary := range in.Salaries {
		if row, ok := synthesizeSalary(salary, adjustments, year, month); ok {
			rows = append(rows, row)
		}
	}

	for _, row := range rows {
		switch row.Type {
		case core.Income:
			summary.TotalIncome.Cents += row.Amount.Cents
		case core.Expense:
			summary.TotalExpenses.Cents += row.Amount.Cents
			if row.IsPaid {
				summary.PaidExpenses.Cents += row.Amount.Cents
			} else {
				summary.PendingExpenses.Cents += row.Amount.Cents
			}
		}
	}

	summary.Balance = core.Money{Cents: summary.TotalIncome.Cents - summary.TotalExpenses.Cents}
	if summary.TotalIncome.Cents > 0 {
		summary.SavingsRate = float64(summary.Balance.Cents) / float64(summary.TotalIncome.Cents) * 100
	}
	summary.AverageExpensePerDay = core.Money{
		Cents: summary.TotalExpenses.Cents / int64(core.DaysInMonth(year, month)),
	}

	summary.Categories = a.categoryBreakdown(rows, summary.TotalExpenses)
	summary.Cards = cardBreakdown(rows)
	summary.UpcomingDues, summary.OverdueDues = dueItems(rows, now)
	summary.Rows = rows
	summary.TransactionCount = len(rows)

	return summary
}

// inScope decides whether a transaction counts in the target month. Credit
// card rows follow the card's billing cycle; a credit row whose card is
// unknown, or carries an unusable due day, degrades to its own calendar
// month. Incomes with a distinct receipt date count where the money landed.
func (a *Aggregator) inScope(tx core.Transaction, dueDays map[string]int, year int, month time.Month) bool {
	if tx.CardType == core.CardCredit && tx.CardID != "" {
		if dueDay, ok := dueDays[tx.CardID]; ok {
			y, m := ResolveInvoicePeriod(tx.Date, dueDay)
			return y == year && m == month
		}
	}
	date := tx.Date
	if tx.Type == core.Income && tx.ReceivedDate != nil {
		date = *tx.ReceivedDate
	}
	d := date.UTC()
	return d.Year() == year && d.Month() == month
}

// synthesizeSalary turns a salary definition into the month's pseudo income
// row, applying the matching adjustment if one exists. Inactive salaries
// contribute nothing; a salary pinned to a payment date only contributes to
// that date's month.
func synthesizeSalary(salary core.Salary, adjustments map[core.AdjustmentKey]core.SalaryAdjustment, year int, month time.Month) (Row, bool) {
	if !salary.IsActive {
		return Row{}, false
	}

	var date time.Time
	switch {
	case salary.PaymentDate != nil:
		d := salary.PaymentDate.UTC()
		if d.Year() != year || d.Month() != month {
			return Row{}, false
		}
		date = d
	case salary.PaymentDay > 0:
		day := core.ClampDay(salary.PaymentDay, year, month)
		date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	default:
		date = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	}

	amount := salary.Amount
	description := salary.Description
	original := salary.OriginalAmount
	if adj, ok := adjustments[core.AdjustmentKey{SalaryID: salary.ID, Year: year, Month: month}]; ok {
		amount = adj.Amount
		if adj.Description != "" {
			description = adj.Description
		}
		base := salary.Amount
		original = &base
	}

	return Row{
		Transaction: core.Transaction{
			Description:    description,
			Amount:         amount,
			Type:           core.Income,
			Category:       "salario",
			Date:           date,
			IsRecurring:    salary.PaymentDate == nil,
			IsPaid:         true,
			OriginalAmount: original,
		},
		Ref: core.SalaryRef(salary.ID, year, month),
	}, true
}

// categoryBreakdown groups expenses by category, skipping the card-payment
// bucket: invoice payments are a bookkeeping artifact, spending stays
// attributed to the underlying purchase categories. The percentage
// denominator is the full expense total, card payments included, so the
// shares may not sum to exactly 100 when card payments exist. That mirrors
// the recorded behavior and is deliberate.
func (a *Aggregator) categoryBreakdown(rows []Row, totalExpenses core.Money) []CategoryBreakdown {
	totals := make(map[string]int64)
	for _, row := range rows {
		if row.Type != core.Expense || row.Category == core.CategoryCardPayment {
			continue
		}
		totals[row.Category] += row.Amount.Cents
	}

	breakdown := make([]CategoryBreakdown, 0, len(totals))
	for category, cents := range totals {
		pct := 0.0
		if totalExpenses.Cents > 0 {
			pct = float64(cents) / float64(totalExpenses.Cents) * 100
		}
		breakdown = append(breakdown, CategoryBreakdown{
			Category:   category,
			Amount:     core.Money{Cents: cents},
			Percentage: pct,
			Color:      a.catalog.Color(category),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount.Cents != breakdown[j].Amount.Cents {
			return breakdown[i].Amount.Cents > breakdown[j].Amount.Cents
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

func cardBreakdown(rows []Row) []CardBreakdown {
	byCard := make(map[string]*CardBreakdown)
	for _, row := range rows {
		if row.Type != core.Expense || row.CardID == "" || row.CardName == "" {
			continue
		}
		entry, ok := byCard[row.CardID]
		if !ok {
			entry = &CardBreakdown{CardID: row.CardID, CardName: row.CardName, CardType: row.CardType}
			byCard[row.CardID] = entry
		}
		entry.Total.Cents += row.Amount.Cents
		entry.Count++
	}

	breakdown := make([]CardBreakdown, 0, len(byCard))
	for _, entry := range byCard {
		breakdown = append(breakdown, *entry)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Total.Cents != breakdown[j].Total.Cents {
			return breakdown[i].Total.Cents > breakdown[j].Total.Cents
		}
		return breakdown[i].CardID < breakdown[j].CardID
	})
	return breakdown
}

// dueItems partitions expenses that carry a due date into upcoming and
// overdue lists. Paid expenses appear in neither.
func dueItems(rows []Row, now time.Time) (upcoming, overdue []DueItem) {
	for _, row := range rows {
		if row.Type != core.Expense || row.DueDate == nil {
			continue
		}
		days := daysUntil(*row.DueDate, now)
		item := DueItem{
			Ref:          row.Ref,
			Description:  row.Description,
			Amount:       row.Amount,
			DueDate:      *row.DueDate,
			IsPaid:       row.IsPaid,
			DaysUntilDue: days,
			IsOverdue:    !row.IsPaid && days < 0,
		}
		switch {
		case item.IsPaid:
			// settled, nothing to chase
		case item.IsOverdue:
			overdue = append(overdue, item)
		default:
			upcoming = append(upcoming, item)
		}
	}
	sortDueItems(upcoming)
	sortDueItems(overdue)
	return upcoming, overdue
}

func sortDueItems(items []DueItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].DueDate.Equal(items[j].DueDate) {
			return items[i].DueDate.Before(items[j].DueDate)
		}
		return items[i].Description < items[j].Description
	})
}

// daysUntil is the number of days from now until the due date, rounded up.
// Negative when the due date has passed.
func daysUntil(dueDate, now time.Time) int {
	return int(math.Ceil(dueDate.Sub(now).Hours() / 24))
}
