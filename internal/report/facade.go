package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"financas/internal/cache"
	"financas/internal/core"
)

// Store is the data-access collaborator the reporting engine reads from. It
// never writes; mutations go through the services layer.
type Store interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListSalaries(ctx context.Context) ([]core.Salary, error)
	ListSalaryAdjustments(ctx context.Context, year int, month time.Month) ([]core.SalaryAdjustment, error)
	ListCreditCards(ctx context.Context) ([]core.CreditCard, error)
}

// MonthReport bundles everything the presentation layer needs for one
// selected month. All pieces are recomputed together whenever the selected
// month changes or the underlying data is reloaded.
type MonthReport struct {
	Summary    MonthSummary
	Previous   MonthSummary
	Comparison MonthComparison
	Score      FinancialScore
	Stats      PeriodStats
	Insights   []Insight
}

// TrendSeries carries parallel arrays for charting, one entry per month from
// January through the selected month.
type TrendSeries struct {
	Labels   []string
	Expenses []int64 // cents
	Income   []int64 // cents
}

// Service orchestrates the aggregation pipeline over the Store. Summaries
// are cached per (year, month) and the cache is dropped whole on mutation,
// since a single edit can move rows across billing months.
type Service struct {
	store   Store
	agg     *Aggregator
	summary *cache.LRUCache[MonthSummary]
	now     func() time.Time
}

// NewService wires the facade. clock may be nil, in which case time.Now is
// used; tests pass a fixed clock for deterministic due-date arithmetic.
func NewService(store Store, catalog core.Catalog, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:   store,
		agg:     NewAggregator(catalog),
		summary: cache.NewLRUCache[MonthSummary](24, 5*time.Minute),
		now:     clock,
	}
}

// load fetches the four input collections concurrently. Either all four
// succeed or the whole refresh fails; the aggregator never runs on partial
// data.
func (s *Service) load(ctx context.Context, year int, month time.Month) (Input, error) {
	var in Input
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Transactions, err = s.store.ListTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Salaries, err = s.store.ListSalaries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Adjustments, err = s.store.ListSalaryAdjustments(gctx, year, month)
		return err
	})
	g.Go(func() error {
		var err error
		in.Cards, err = s.store.ListCreditCards(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Input{}, fmt.Errorf("load report data: %w", err)
	}
	return in, nil
}

// Summary computes (or returns the cached) MonthSummary for a month.
func (s *Service) Summary(ctx context.Context, year int, month time.Month) (MonthSummary, error) {
	key := fmt.Sprintf("%04d-%02d", year, int(month))
	if cached, ok := s.summary.Get(key); ok {
		return cached, nil
	}

	in, err := s.load(ctx, year, month)
	if err != nil {
		return MonthSummary{}, err
	}
	summary := s.agg.Aggregate(in, year, month, s.now())
	s.summary.Set(key, summary)

	slog.DebugContext(ctx, "Month summary computed",
		"year", year,
		"month", int(month),
		"transactions", summary.TransactionCount,
		"total_expenses_cents", summary.TotalExpenses.Cents)

	return summary, nil
}

// MonthReport recomputes the full report for the selected month: current and
// previous summaries, comparison, score, statistics and insights.
func (s *Service) MonthReport(ctx context.Context, year int, month time.Month) (*MonthReport, error) {
	current, err := s.Summary(ctx, year, month)
	if err != nil {
		return nil, err
	}

	prevYear, prevMonth := PreviousMonth(year, month)
	previous, err := s.Summary(ctx, prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	comparison := Compare(current, previous)
	return &MonthReport{
		Summary:    current,
		Previous:   previous,
		Comparison: comparison,
		Score:      ComputeScore(current, &comparison),
		Stats:      ComputeStats(current, &previous),
		Insights:   GenerateInsights(current, &comparison),
	}, nil
}

// TrendSeries builds the January-through-selected-month chart series.
func (s *Service) TrendSeries(ctx context.Context, year int, month time.Month) (TrendSeries, error) {
	series := TrendSeries{
		Labels:   make([]string, 0, int(month)),
		Expenses: make([]int64, 0, int(month)),
		Income:   make([]int64, 0, int(month)),
	}
	for m := time.January; m <= month; m++ {
		summary, err := s.Summary(ctx, year, m)
		if err != nil {
			return TrendSeries{}, fmt.Errorf("trend month %d: %w", int(m), err)
		}
		series.Labels = append(series.Labels, MonthLabel(m))
		series.Expenses = append(series.Expenses, summary.TotalExpenses.Cents)
		series.Income = append(series.Income, summary.TotalIncome.Cents)
	}
	return series, nil
}

// Invalidate drops all cached summaries. Called after any mutation: a credit
// card purchase edit can move the row to another invoice month, so per-month
// invalidation is not safe.
func (s *Service) Invalidate() {
	s.summary.Purge()
}

// CleanExpired sweeps expired summaries; it satisfies cache.Cleaner so the
// cache manager can register the service directly.
func (s *Service) CleanExpired() int {
	return s.summary.CleanExpired()
}

// PreviousMonth returns the month before (year, month), rolling the year
// back across January.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
