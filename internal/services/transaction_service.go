package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/report"
)

// Repository is the slice of the storage layer the services need. The
// SQLite repository satisfies it; tests plug in fakes.
type Repository interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	DeleteRecurringChain(ctx context.Context, groupID string, from time.Time) (int64, error)

	CreateSalary(ctx context.Context, s core.Salary) (core.Salary, error)
	UpdateSalary(ctx context.Context, s core.Salary) error
	DeleteSalary(ctx context.Context, id string) error
	UpsertSalaryAdjustment(ctx context.Context, a core.SalaryAdjustment) error
	DeleteSalaryAdjustment(ctx context.Context, key core.AdjustmentKey) error

	ListCreditCards(ctx context.Context) ([]core.CreditCard, error)
	CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error)
	UpdateCreditCard(ctx context.Context, c core.CreditCard) error
	DeleteCreditCard(ctx context.Context, id string) error
}

// SyncPublisher enqueues report re-export requests. Nil-able: without a
// broker the app still works, only the sheet export lags.
type SyncPublisher interface {
	PublishReportSync(ctx context.Context, year int, month time.Month) error
}

// ReportInvalidator drops cached summaries after a mutation.
type ReportInvalidator interface {
	Invalidate()
}

// TransactionService orchestrates every mutation: persist, drop the report
// cache, then publish a sync message per affected report month. Publishing
// is best effort; the write already succeeded locally.
type TransactionService struct {
	repo      Repository
	publisher SyncPublisher
	reports   ReportInvalidator
	now       func() time.Time
}

func NewTransactionService(repo Repository, publisher SyncPublisher, reports ReportInvalidator) *TransactionService {
	return &TransactionService{
		repo:      repo,
		publisher: publisher,
		reports:   reports,
		now:       time.Now,
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	applog.LogTransactionCreated(ctx, created.Description, created.Amount.Cents, created.Category)

	s.afterMutation(ctx, s.affectedPeriods(ctx, created))
	return created, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	// The edit can move the row to another month, so both the old and the
	// new position need a re-export.
	periods := s.affectedPeriods(ctx, t)
	if old, err := s.repo.GetTransaction(ctx, t.ID); err == nil {
		periods = append(periods, s.affectedPeriods(ctx, old)...)
	}

	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.afterMutation(ctx, periods)
	return nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	var periods []period
	if old, err := s.repo.GetTransaction(ctx, id); err == nil {
		periods = s.affectedPeriods(ctx, old)
	}

	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.afterMutation(ctx, periods)
	return nil
}

// DeleteRecurringChain removes a recurring transaction's occurrences from
// the cutoff date onward.
func (s *TransactionService) DeleteRecurringChain(ctx context.Context, groupID string, from time.Time) (int64, error) {
	n, err := s.repo.DeleteRecurringChain(ctx, groupID, from)
	if err != nil {
		return 0, err
	}

	s.afterMutation(ctx, []period{currentPeriod(from)})
	return n, nil
}

func (s *TransactionService) MarkTransactionPaid(ctx context.Context, id string, paid bool) error {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("mark transaction paid: %w", err)
	}
	t.IsPaid = paid
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("mark transaction paid: %w", err)
	}

	s.afterMutation(ctx, s.affectedPeriods(ctx, t))
	return nil
}

func (s *TransactionService) CreateSalary(ctx context.Context, sal core.Salary) (core.Salary, error) {
	created, err := s.repo.CreateSalary(ctx, sal)
	if err != nil {
		return core.Salary{}, fmt.Errorf("create salary: %w", err)
	}
	s.afterMutation(ctx, []period{currentPeriod(s.now())})
	return created, nil
}

func (s *TransactionService) UpdateSalary(ctx context.Context, sal core.Salary) error {
	if err := s.repo.UpdateSalary(ctx, sal); err != nil {
		return fmt.Errorf("update salary: %w", err)
	}
	s.afterMutation(ctx, []period{currentPeriod(s.now())})
	return nil
}

func (s *TransactionService) DeleteSalary(ctx context.Context, id string) error {
	if err := s.repo.DeleteSalary(ctx, id); err != nil {
		return fmt.Errorf("delete salary: %w", err)
	}
	s.afterMutation(ctx, []period{currentPeriod(s.now())})
	return nil
}

// SetSalaryAdjustment stores the one-off override for a single month.
// Writing the same (salary, year, month) again replaces the earlier value.
func (s *TransactionService) SetSalaryAdjustment(ctx context.Context, a core.SalaryAdjustment) error {
	if err := s.repo.UpsertSalaryAdjustment(ctx, a); err != nil {
		return fmt.Errorf("set salary adjustment: %w", err)
	}
	s.afterMutation(ctx, []period{{a.Year, a.Month}})
	return nil
}

func (s *TransactionService) RemoveSalaryAdjustment(ctx context.Context, key core.AdjustmentKey) error {
	if err := s.repo.DeleteSalaryAdjustment(ctx, key); err != nil {
		return fmt.Errorf("remove salary adjustment: %w", err)
	}
	s.afterMutation(ctx, []period{{key.Year, key.Month}})
	return nil
}

func (s *TransactionService) CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	created, err := s.repo.CreateCreditCard(ctx, c)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card: %w", err)
	}
	s.afterMutation(ctx, []period{currentPeriod(s.now())})
	return created, nil
}

// UpdateCreditCard persists card changes. A due-day edit can move every
// purchase on the card to another invoice month, hence the full cache drop
// in afterMutation.
func (s *TransactionService) UpdateCreditCard(ctx context.Context, c core.CreditCard) error {
	if err := s.repo.UpdateCreditCard(ctx, c); err != nil {
		return fmt.Errorf("update credit card: %w", err)
	}
	s.afterMutation(ctx, []period{currentPeriod(s.now())})
	return nil
}

func (s *TransactionService) DeleteCreditCard(ctx context.Context, id string) error {
	if err := s.repo.DeleteCreditCard(ctx, id); err != nil {
		return fmt.Errorf("delete credit card: %w", err)
	}
	s.afterMutation(ctx, []period{currentPeriod(s.now())})
	return nil
}

type period struct {
	Year  int
	Month time.Month
}

func currentPeriod(t time.Time) period {
	y, m, _ := t.UTC().Date()
	return period{y, m}
}

// affectedPeriods resolves which report month a transaction lands in. A
// credit card purchase belongs to its invoice month, everything else to the
// calendar month.
func (s *TransactionService) affectedPeriods(ctx context.Context, t core.Transaction) []period {
	if t.Type == core.Expense && t.CardID != "" {
		cards, err := s.repo.ListCreditCards(ctx)
		if err == nil {
			for _, c := range cards {
				if c.ID == t.CardID && c.CardType == core.CardCredit {
					y, m := report.ResolveInvoicePeriod(t.Date, c.DueDay)
					return []period{{y, m}}
				}
			}
		}
	}
	if t.Type == core.Income && t.ReceivedDate != nil {
		return []period{currentPeriod(*t.ReceivedDate)}
	}
	return []period{currentPeriod(t.Date)}
}

// afterMutation drops the whole report cache and enqueues a re-export for
// each distinct affected month.
func (s *TransactionService) afterMutation(ctx context.Context, periods []period) {
	if s.reports != nil {
		s.reports.Invalidate()
	}
	if s.publisher == nil {
		return
	}

	seen := make(map[period]bool, len(periods))
	for _, p := range periods {
		if seen[p] {
			continue
		}
		seen[p] = true
		if err := s.publisher.PublishReportSync(ctx, p.Year, p.Month); err != nil {
			slog.ErrorContext(ctx, "Failed to publish report sync message",
				"year", p.Year,
				"month", int(p.Month),
				"error", err)
		}
	}
}
