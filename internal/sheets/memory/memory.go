package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"financas/internal/report"
)

type key struct {
	Year  int
	Month time.Month
}

// Store is an in-memory ReportWriter for tests and deployments without
// Google credentials. A repeated write for the same month overwrites, same
// as the real sheet.
type Store struct {
	mu      sync.Mutex
	reports map[key]*report.MonthReport
}

func New() *Store {
	return &Store{reports: make(map[key]*report.MonthReport)}
}

func (s *Store) WriteMonthReport(_ context.Context, rep *report.MonthReport) error {
	if rep == nil {
		return errors.New("nil report")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[key{rep.Summary.Year, rep.Summary.Month}] = rep
	return nil
}

// Get returns the last report written for a month, or nil.
func (s *Store) Get(year int, month time.Month) *report.MonthReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[key{year, month}]
}

// Len reports how many distinct months have been exported.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}
