package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

const (
	CardCredit CardType = "credit"
	CardDebit  CardType = "debit"
)

const (
	SalaryRegular    SalaryType = "salary"
	SalaryThirteenth SalaryType = "thirteenth"
	SalaryVacation   SalaryType = "vacation"
	SalaryBonus      SalaryType = "bonus"
)

type (
	TransactionType string
	CardType        string
	SalaryType      string

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded money movement. Expenses and incomes
	// share the shape; card attribution and due dates only apply to expenses,
	// ReceivedDate only to incomes.
	Transaction struct {
		ID             string
		Description    string
		Amount         Money
		Type           TransactionType
		Category       string
		Date           time.Time
		IsRecurring    bool
		IsPaid         bool
		DueDate        *time.Time
		ReceivedDate   *time.Time
		CardID         string
		CardName       string
		CardType       CardType
		OriginalAmount *Money
		GroupID        string
	}

	// Salary is a recurring income definition. It is never stored as a
	// Transaction; the aggregator synthesizes one pseudo-transaction per
	// month it applies to.
	Salary struct {
		ID             string
		Description    string
		Company        string
		Amount         Money
		OriginalAmount *Money
		SalaryType     SalaryType
		IsActive       bool
		// PaymentDate pins the salary to a single month. When nil the
		// salary recurs every month.
		PaymentDate *time.Time
		// PaymentDay is the day-of-month form of the payment date (1-31),
		// clamped to the last day of shorter months. Zero means unset; a
		// recurring salary without either field lands on day 1.
		PaymentDay int
		CreatedAt  time.Time
	}

	// SalaryAdjustment overrides a salary's amount/description for one
	// (salaryID, year, month). At most one adjustment per key.
	SalaryAdjustment struct {
		SalaryID    string
		Year        int
		Month       time.Month
		Amount      Money
		Description string
	}

	CreditCard struct {
		ID       string
		Name     string
		CardType CardType
		// DueDay is the calendar day (1-31) the invoice closes. Carried
		// for debit cards too, but only credit cards use it.
		DueDay int
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDueDay    = errors.New("invalid due day")
	ErrEmptyDescription = errors.New("empty description")
	ErrZeroDate         = errors.New("date cannot be zero")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Type != Expense && t.Type != Income {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (s Salary) Validate() error {
	if len(strings.TrimSpace(s.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	switch s.SalaryType {
	case SalaryRegular, SalaryThirteenth, SalaryVacation, SalaryBonus:
	default:
		return errors.New("invalid salary type")
	}
	return nil
}

func (c CreditCard) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return errors.New("empty card name")
	}
	if c.CardType != CardCredit && c.CardType != CardDebit {
		return errors.New("invalid card type")
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

// AdjustmentKey identifies a SalaryAdjustment. Last write wins per key.
type AdjustmentKey struct {
	SalaryID string
	Year     int
	Month    time.Month
}

func (a SalaryAdjustment) Key() AdjustmentKey {
	return AdjustmentKey{SalaryID: a.SalaryID, Year: a.Year, Month: a.Month}
}

type RefKind string

const (
	RefTransaction RefKind = "transaction"
	RefSalary      RefKind = "salary"
)

// Ref identifies where an aggregated row came from: a stored transaction or
// a salary synthesized for a given month. Callers branch on Kind instead of
// parsing composite string ids.
type Ref struct {
	Kind     RefKind
	ID       string // transaction id, when Kind == RefTransaction
	SalaryID string // when Kind == RefSalary
	Year     int
	Month    time.Month
}

func TransactionRef(id string) Ref {
	return Ref{Kind: RefTransaction, ID: id}
}

func SalaryRef(salaryID string, year int, month time.Month) Ref {
	return Ref{Kind: RefSalary, SalaryID: salaryID, Year: year, Month: month}
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay limits a day-of-month to the last valid day of the month, so a
// payment scheduled for the 31st still lands in February.
func ClampDay(day, year int, month time.Month) int {
	last := DaysInMonth(year, month)
	if day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}
