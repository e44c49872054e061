package report

import (
	"math"
	"reflect"
	"testing"
	"time"

	"financas/internal/core"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func expense(id, category string, cents int64, day int, paid bool) core.Transaction {
	return core.Transaction{
		ID:          id,
		Description: "despesa " + id,
		Amount:      core.Money{Cents: cents},
		Type:        core.Expense,
		Category:    category,
		Date:        time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
		IsPaid:      paid,
	}
}

func income(id, category string, cents int64, day int) core.Transaction {
	return core.Transaction{
		ID:          id,
		Description: "renda " + id,
		Amount:      core.Money{Cents: cents},
		Type:        core.Income,
		Category:    category,
		Date:        time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestAggregateBasicTotals(t *testing.T) {
	// One paid expense of 100 and one income of 1000 in March 2024.
	in := Input{
		Transactions: []core.Transaction{
			expense("e1", "mercado", 100_00, 10, true),
			income("i1", "salario", 1000_00, 5),
		},
	}

	s := NewAggregator(nil).Aggregate(in, 2024, time.March, testNow)

	if s.TotalExpenses.Cents != 100_00 {
		t.Errorf("TotalExpenses = %d, want 10000", s.TotalExpenses.Cents)
	}
	if s.TotalIncome.Cents != 1000_00 {
		t.Errorf("TotalIncome = %d, want 100000", s.TotalIncome.Cents)
	}
	if s.Balance.Cents != 900_00 {
		t.Errorf("Balance = %d, want 90000", s.Balance.Cents)
	}
	if s.SavingsRate != 90 {
		t.Errorf("SavingsRate = %v, want 90", s.SavingsRate)
	}
	if s.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", s.TransactionCount)
	}
	if got := s.AverageExpensePerDay.Cents; got != 100_00/31 {
		t.Errorf("AverageExpensePerDay = %d, want %d", got, int64(100_00/31))
	}
}

func TestAggregateMembershipByCalendarMonth(t *testing.T) {
	in := Input{
		Transactions: []core.Transaction{
			expense("e1", "mercado", 50_00, 10, true),
			{
				ID: "e2", Description: "fora do mês", Amount: core.Money{Cents: 99_00},
				Type: core.Expense, Category: "mercado",
				Date: time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	s := NewAggregator(nil).Aggregate(in, 2024, time.March, testNow)
	if s.TransactionCount != 1 {
		t.Fatalf("TransactionCount = %d, want 1", s.TransactionCount)
	}
	if s.Rows[0].Ref != core.TransactionRef("e1") {
		t.Errorf("unexpected row ref %+v", s.Rows[0].Ref)
	}
}

func TestAggregateCreditCardBillingCycle(t *testing.T) {
	cards := []core.CreditCard{{ID: "c1", Name: "Nubank", CardType: core.CardCredit, DueDay: 20}}
	buy := func(id string, day int, month time.Month) core.Transaction {
		tx := expense(id, "mercado", 10_00, 1, true)
		tx.Date = time.Date(2024, month, day, 0, 0, 0, 0, time.UTC)
		tx.CardID, tx.CardName, tx.CardType = "c1", "Nubank", core.CardCredit
		return tx
	}

	in := Input{
		Transactions: []core.Transaction{
			buy("before-close", 19, time.March), // invoice of March
			buy("after-close", 20, time.February), // rolls into March
			buy("next-invoice", 20, time.March),   // rolls into April
		},
		Cards: cards,
	}

	s := NewAggregator(nil).Aggregate(in, 2024, time.March, testNow)
	if s.TransactionCount != 2 {
		t.Fatalf("TransactionCount = %d, want 2", s.TransactionCount)
	}
	ids := map[string]bool{}
	for _, row := range s.Rows {
		ids[row.ID] = true
	}
	if !ids["before-close"] || !ids["after-close"] || ids["next-invoice"] {
		t.Errorf("wrong invoice membership: %v", ids)
	}
}

// A credit transaction referencing an unknown card degrades to its own
// calendar month instead of being dropped.
func TestAggregateCreditCardUnknownCardFallback(t *testing.T) {
	tx := expense("e1", "mercado", 10_00, 25, true)
	tx.CardID, tx.CardName, tx.CardType = "ghost", "Cartão removido", core.CardCredit

	s := NewAggregator(nil).Aggregate(Input{Transactions: []core.Transaction{tx}}, 2024, time.March, testNow)
	if s.TransactionCount != 1 {
		t.Errorf("TransactionCount = %d, want 1 (calendar-month fallback)", s.TransactionCount)
	}
}

func TestAggregateSalarySynthesis(t *testing.T) {
	salary := core.Salary{
		ID: "s1", Description: "Salário ACME", Company: "ACME",
		Amount: core.Money{Cents: 5000_00}, SalaryType: core.SalaryRegular, IsActive: true,
	}

	t.Run("recurring salary counts every month", func(t *testing.T) {
		s := NewAggregator(nil).Aggregate(Input{Salaries: []core.Salary{salary}}, 2024, time.March, testNow)
		if s.TotalIncome.Cents != 5000_00 {
			t.Fatalf("TotalIncome = %d, want 500000", s.TotalIncome.Cents)
		}
		row := s.Rows[0]
		if row.Ref.Kind != core.RefSalary || row.Ref.SalaryID != "s1" {
			t.Errorf("unexpected ref %+v", row.Ref)
		}
		if row.Ref.Year != 2024 || row.Ref.Month != time.March {
			t.Errorf("ref period = %d/%v", row.Ref.Year, row.Ref.Month)
		}
	})

	t.Run("inactive salary contributes nothing", func(t *testing.T) {
		inactive := salary
		inactive.IsActive = false
		s := NewAggregator(nil).Aggregate(Input{Salaries: []core.Salary{inactive}}, 2024, time.March, testNow)
		if s.TotalIncome.Cents != 0 {
			t.Errorf("TotalIncome = %d, want 0", s.TotalIncome.Cents)
		}
	})

	t.Run("payment date pins the salary to one month", func(t *testing.T) {
		pinned := salary
		date := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)
		pinned.PaymentDate = &date

		s := NewAggregator(nil).Aggregate(Input{Salaries: []core.Salary{pinned}}, 2024, time.March, testNow)
		if s.TotalIncome.Cents != 0 {
			t.Errorf("march TotalIncome = %d, want 0", s.TotalIncome.Cents)
		}
		s = NewAggregator(nil).Aggregate(Input{Salaries: []core.Salary{pinned}}, 2024, time.April, testNow)
		if s.TotalIncome.Cents != 5000_00 {
			t.Errorf("april TotalIncome = %d, want 500000", s.TotalIncome.Cents)
		}
	})

	t.Run("payment day is clamped to short months", func(t *testing.T) {
		monthly := salary
		monthly.PaymentDay = 31
		s := NewAggregator(nil).Aggregate(Input{Salaries: []core.Salary{monthly}}, 2024, time.February, testNow)
		if s.TotalIncome.Cents != 5000_00 {
			t.Fatalf("TotalIncome = %d, want 500000", s.TotalIncome.Cents)
		}
		if got := s.Rows[0].Date.Day(); got != 29 {
			t.Errorf("payment day = %d, want 29", got)
		}
	})

	t.Run("adjustment overrides the amount and keeps the base", func(t *testing.T) {
		in := Input{
			Salaries: []core.Salary{salary},
			Adjustments: []core.SalaryAdjustment{{
				SalaryID: "s1", Year: 2024, Month: time.March, Amount: core.Money{Cents: 5500_00},
			}},
		}
		s := NewAggregator(nil).Aggregate(in, 2024, time.March, testNow)
		row := s.Rows[0]
		if row.Amount.Cents != 5500_00 {
			t.Errorf("adjusted amount = %d, want 550000", row.Amount.Cents)
		}
		if row.OriginalAmount == nil || row.OriginalAmount.Cents != 5000_00 {
			t.Errorf("OriginalAmount = %+v, want 500000", row.OriginalAmount)
		}
	})

	t.Run("last adjustment wins per key", func(t *testing.T) {
		in := Input{
			Salaries: []core.Salary{salary},
			Adjustments: []core.SalaryAdjustment{
				{SalaryID: "s1", Year: 2024, Month: time.March, Amount: core.Money{Cents: 5200_00}},
				{SalaryID: "s1", Year: 2024, Month: time.March, Amount: core.Money{Cents: 6000_00}},
			},
		}
		s := NewAggregator(nil).Aggregate(in, 2024, time.March, testNow)
		if s.Rows[0].Amount.Cents != 6000_00 {
			t.Errorf("amount = %d, want 600000", s.Rows[0].Amount.Cents)
		}
	})
}

func TestAggregateCategoryBreakdown(t *testing.T) {
	in := Input{
		Transactions: []core.Transaction{
			expense("e1", "mercado", 600_00, 2, true),
			expense("e2", "transporte", 300_00, 3, true),
			expense("e3", "lazer", 100_00, 4, false),
			expense("e4", "cartao", 500_00, 5, true), // invoice payment, excluded from grouping
		},
	}

	s := NewAggregator(nil).Aggregate(in, 2024, time.March, testNow)

	if len(s.Categories) != 3 {
		t.Fatalf("len(Categories) = %d, want 3 (cartao excluded)", len(s.Categories))
	}
	if s.Categories[0].Category != "mercado" {
		t.Errorf("top category = %s, want mercado", s.Categories[0].Category)
	}

	// Denominator stays the full expense total, card payments included, so
	// percentages intentionally do not reach 100 here.
	wantPct := float64(600_00) / float64(1500_00) * 100
	if math.Abs(s.Categories[0].Percentage-wantPct) > 1e-9 {
		t.Errorf("mercado pct = %v, want %v", s.Categories[0].Percentage, wantPct)
	}
	var sum float64
	for _, cat := range s.Categories {
		sum += cat.Percentage
	}
	if sum >= 100 {
		t.Errorf("percent sum = %v, expected < 100 with cartao expenses present", sum)
	}
	if s.Categories[0].Color == "" {
		t.Error("category color not filled from catalog")
	}
}

// Without card-payment expenses the category percentages sum to 100.
func TestAggregateCategoryPercentSum(t *testing.T) {
	in := Input{
		Transactions: []core.Transaction{
			expense("e1", "mercado", 123_45, 2, true),
			expense("e2", "transporte", 67_89, 3, true),
			expense("e3", "lazer", 10_11, 4, false),
		},
	}
	s := NewAggregator(nil).Aggregate(in, 2024, time.March, testNow)

	var sum float64
	for _, cat := range s.Categories {
		sum += cat.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percent sum = %v, want 100", sum)
	}
}

func TestAggregateCardBreakdown(t *testing.T) {
	withCard := func(tx core.Transaction, id, name string, kind core.CardType) core.Transaction {
		tx.CardID, tx.CardName, tx.CardType = id, name, kind
		return tx
	}
	in := Input{
		Transactions: []core.Transaction{
			withCard(expense("e1", "mercado", 100_00, 2, true), "c1", "Visa", core.CardDebit),
			withCard(expense("e2", "lazer", 250_00, 3, true), "c1", "Visa", core.CardDebit),
			withCard(expense("e3", "mercado", 80_00, 4, true), "c2", "Master", core.CardDebit),
			expense("e4", "mercado", 40_00, 5, true), // no card
		},
	}

	s := NewAggregator(nil).Aggregate(in, 2024, time.March, testNow)
	if len(s.Cards) != 2 {
		t.Fatalf("len(Cards) = %d, want 2", len(s.Cards))
	}
	if s.Cards[0].CardID != "c1" || s.Cards[0].Total.Cents != 350_00 || s.Cards[0].Count != 2 {
		t.Errorf("top card = %+v", s.Cards[0])
	}
}

func TestAggregateDueItems(t *testing.T) {
	overdueDate := testNow.AddDate(0, 0, -5)
	soonDate := testNow.AddDate(0, 0, 3)

	unpaid := expense("e1", "moradia", 900_00, 1, false)
	unpaid.DueDate = &overdueDate
	paid := expense("e2", "moradia", 900_00, 1, true)
	paid.DueDate = &overdueDate
	upcoming := expense("e3", "servicos", 120_00, 1, false)
	upcoming.DueDate = &soonDate

	s := NewAggregator(nil).Aggregate(Input{
		Transactions: []core.Transaction{unpaid, paid, upcoming},
	}, 2024, time.March, testNow)

	if len(s.OverdueDues) != 1 {
		t.Fatalf("len(OverdueDues) = %d, want 1", len(s.OverdueDues))
	}
	if item := s.OverdueDues[0]; item.DaysUntilDue >= 0 || !item.IsOverdue {
		t.Errorf("overdue item = %+v", item)
	}
	if len(s.UpcomingDues) != 1 || s.UpcomingDues[0].DaysUntilDue != 3 {
		t.Errorf("upcoming = %+v", s.UpcomingDues)
	}
	// The paid expense appears in neither list.
	for _, item := range append(s.UpcomingDues, s.OverdueDues...) {
		if item.Ref == core.TransactionRef("e2") {
			t.Error("paid expense leaked into due lists")
		}
	}
}

func TestAggregateZeroIncome(t *testing.T) {
	s := NewAggregator(nil).Aggregate(Input{
		Transactions: []core.Transaction{expense("e1", "mercado", 10_00, 1, true)},
	}, 2024, time.March, testNow)

	if s.SavingsRate != 0 {
		t.Errorf("SavingsRate = %v, want 0 when income is 0", s.SavingsRate)
	}
	if s.Balance.Cents != -10_00 {
		t.Errorf("Balance = %d, want -1000", s.Balance.Cents)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	due := testNow.AddDate(0, 0, 2)
	tx := expense("e1", "mercado", 55_00, 8, false)
	tx.DueDate = &due
	in := Input{
		Transactions: []core.Transaction{
			tx,
			expense("e2", "transporte", 20_00, 9, true),
			income("i1", "salario", 300_00, 1),
		},
		Salaries: []core.Salary{{
			ID: "s1", Description: "Salário", Amount: core.Money{Cents: 4000_00},
			SalaryType: core.SalaryRegular, IsActive: true,
		}},
	}

	agg := NewAggregator(nil)
	first := agg.Aggregate(in, 2024, time.March, testNow)
	second := agg.Aggregate(in, 2024, time.March, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical input produced different summaries")
	}
}
