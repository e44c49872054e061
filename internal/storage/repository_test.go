package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"financas/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "financas.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Description: "Mercado da semana",
		Amount:      core.Money{Cents: 235_50},
		Type:        core.Expense,
		Category:    "mercado",
		Date:        time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		IsPaid:      true,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount.Cents != 235_50 || got.Category != "mercado" {
		t.Errorf("got %+v", got)
	}

	got.Amount = core.Money{Cents: 300_00}
	if err := repo.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	got, _ = repo.GetTransaction(ctx, created.ID)
	if got.Amount.Cents != 300_00 {
		t.Errorf("Amount after update = %d", got.Amount.Cents)
	}

	if err := repo.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: %v", err)
	}
	list, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("soft-deleted row still listed: %d rows", len(list))
	}
}

func TestTransactionCardJoin(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	card, err := repo.CreateCreditCard(ctx, core.CreditCard{
		Name: "Nubank", CardType: core.CardCredit, DueDay: 20,
	})
	if err != nil {
		t.Fatalf("CreateCreditCard: %v", err)
	}

	_, err = repo.CreateTransaction(ctx, core.Transaction{
		Description: "Compra no cartão",
		Amount:      core.Money{Cents: 120_00},
		Type:        core.Expense,
		Category:    "lazer",
		Date:        time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		CardID:      card.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	list, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d transactions", len(list))
	}
	if list[0].CardName != "Nubank" || list[0].CardType != core.CardCredit {
		t.Errorf("card join: %+v", list[0])
	}
}

func TestDeleteRecurringChain(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	group := "grp-1"
	for m := time.January; m <= time.June; m++ {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			Description: "Academia",
			Amount:      core.Money{Cents: 99_90},
			Type:        core.Expense,
			Category:    "saude",
			Date:        time.Date(2024, m, 10, 0, 0, 0, 0, time.UTC),
			IsRecurring: true,
			GroupID:     group,
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	cutoff := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	n, err := repo.DeleteRecurringChain(ctx, group, cutoff)
	if err != nil {
		t.Fatalf("DeleteRecurringChain: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted %d rows, want 3 (Apr, May, Jun)", n)
	}

	list, _ := repo.ListTransactions(ctx)
	if len(list) != 3 {
		t.Errorf("remaining rows = %d, want 3 (Jan..Mar)", len(list))
	}
}

func TestSalaryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pinned := time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC)
	cases := []core.Salary{
		{Description: "Salário mensal", Company: "Acme", Amount: core.Money{Cents: 5000_00}, SalaryType: core.SalaryRegular, IsActive: true, PaymentDay: 5},
		{Description: "Décimo terceiro", Amount: core.Money{Cents: 5000_00}, SalaryType: core.SalaryThirteenth, IsActive: true, PaymentDate: &pinned},
		{Description: "Bônus", Amount: core.Money{Cents: 1000_00}, SalaryType: core.SalaryBonus, IsActive: false},
	}
	for _, s := range cases {
		if _, err := repo.CreateSalary(ctx, s); err != nil {
			t.Fatalf("CreateSalary(%s): %v", s.Description, err)
		}
	}

	list, err := repo.ListSalaries(ctx)
	if err != nil {
		t.Fatalf("ListSalaries: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d salaries", len(list))
	}
	byDesc := map[string]core.Salary{}
	for _, s := range list {
		byDesc[s.Description] = s
	}
	if s := byDesc["Salário mensal"]; s.PaymentDay != 5 || s.PaymentDate != nil {
		t.Errorf("day-of-month salary came back as %+v", s)
	}
	if s := byDesc["Décimo terceiro"]; s.PaymentDate == nil || !s.PaymentDate.Equal(pinned) || s.PaymentDay != 20 {
		t.Errorf("pinned salary came back as %+v", s)
	}
	if byDesc["Bônus"].IsActive {
		t.Error("inactive salary came back active")
	}
}

func TestParsePaymentDateLeniency(t *testing.T) {
	cases := []struct {
		in      string
		wantDay int
		pinned  bool
	}{
		{"", 0, false},
		{"15", 15, false},
		{"2024-06-10", 10, true},
		{"2024-06-10T00:00:00Z", 10, true},
		{"not a date", 0, false},
		{"99", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			date, day := parsePaymentDate(tc.in)
			if day != tc.wantDay {
				t.Errorf("day = %d, want %d", day, tc.wantDay)
			}
			if (date != nil) != tc.pinned {
				t.Errorf("pinned = %v, want %v", date != nil, tc.pinned)
			}
		})
	}
}

func TestSalaryAdjustmentUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	salary, err := repo.CreateSalary(ctx, core.Salary{
		Description: "Salário", Amount: core.Money{Cents: 5000_00},
		SalaryType: core.SalaryRegular, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateSalary: %v", err)
	}

	first := core.SalaryAdjustment{
		SalaryID: salary.ID, Year: 2024, Month: time.March,
		Amount: core.Money{Cents: 5500_00}, Description: "Hora extra",
	}
	if err := repo.UpsertSalaryAdjustment(ctx, first); err != nil {
		t.Fatalf("UpsertSalaryAdjustment: %v", err)
	}

	// Same key again: the later write wins.
	second := first
	second.Amount = core.Money{Cents: 6000_00}
	second.Description = "Hora extra corrigida"
	if err := repo.UpsertSalaryAdjustment(ctx, second); err != nil {
		t.Fatalf("upsert second: %v", err)
	}

	adjs, err := repo.ListSalaryAdjustments(ctx, 2024, time.March)
	if err != nil {
		t.Fatalf("ListSalaryAdjustments: %v", err)
	}
	if len(adjs) != 1 {
		t.Fatalf("got %d adjustments, want 1", len(adjs))
	}
	if adjs[0].Amount.Cents != 6000_00 || adjs[0].Description != "Hora extra corrigida" {
		t.Errorf("adjustment = %+v", adjs[0])
	}

	other, _ := repo.ListSalaryAdjustments(ctx, 2024, time.April)
	if len(other) != 0 {
		t.Errorf("adjustment leaked into another month: %+v", other)
	}
}

func TestCreditCardCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	card, err := repo.CreateCreditCard(ctx, core.CreditCard{
		Name: "Itaú", CardType: core.CardCredit, DueDay: 12,
	})
	if err != nil {
		t.Fatalf("CreateCreditCard: %v", err)
	}

	card.DueDay = 15
	if err := repo.UpdateCreditCard(ctx, card); err != nil {
		t.Fatalf("UpdateCreditCard: %v", err)
	}

	list, _ := repo.ListCreditCards(ctx)
	if len(list) != 1 || list[0].DueDay != 15 {
		t.Errorf("cards = %+v", list)
	}

	if err := repo.DeleteCreditCard(ctx, card.ID); err != nil {
		t.Fatalf("DeleteCreditCard: %v", err)
	}
	list, _ = repo.ListCreditCards(ctx)
	if len(list) != 0 {
		t.Errorf("deleted card still listed")
	}

	if _, err := repo.CreateCreditCard(ctx, core.CreditCard{Name: "x", CardType: core.CardCredit, DueDay: 40}); !errors.Is(err, core.ErrInvalidDueDay) {
		t.Errorf("invalid due day: %v", err)
	}
}
