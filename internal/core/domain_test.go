package core

import (
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		ID:          "t1",
		Description: "Compras do mês",
		Amount:      Money{Cents: 10000},
		Type:        Expense,
		Category:    "mercado",
		Date:        time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }, ErrEmptyDescription},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrZeroDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && err != tt.wantErr {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreditCardValidate(t *testing.T) {
	card := CreditCard{ID: "c1", Name: "Nubank", CardType: CardCredit, DueDay: 20}
	if err := card.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	card.DueDay = 0
	if err := card.Validate(); err != ErrInvalidDueDay {
		t.Fatalf("Validate() = %v, want %v", err, ErrInvalidDueDay)
	}
	card.DueDay = 32
	if err := card.Validate(); err != ErrInvalidDueDay {
		t.Fatalf("Validate() = %v, want %v", err, ErrInvalidDueDay)
	}
}

func TestClampDay(t *testing.T) {
	tests := []struct {
		day   int
		year  int
		month time.Month
		want  int
	}{
		{31, 2024, time.February, 29},
		{31, 2023, time.February, 28},
		{31, 2024, time.April, 30},
		{15, 2024, time.January, 15},
		{0, 2024, time.January, 1},
	}

	for _, tt := range tests {
		if got := ClampDay(tt.day, tt.year, tt.month); got != tt.want {
			t.Errorf("ClampDay(%d, %d, %v) = %d, want %d", tt.day, tt.year, tt.month, got, tt.want)
		}
	}
}

func TestCatalogFallback(t *testing.T) {
	catalog := DefaultCatalog()
	if catalog.Info("streaming-desconhecido") != catalog["outros"] {
		t.Error("unknown category should resolve to outros")
	}
	if catalog.Color("mercado") != "#4CAF50" {
		t.Errorf("unexpected color for mercado: %s", catalog.Color("mercado"))
	}
}
