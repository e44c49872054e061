package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
)

// RecurringProcessor projects recurring transactions into the current
// month: each chain that has no occurrence yet gets a fresh unpaid copy of
// its latest occurrence, on the same day of the month.
type RecurringProcessor struct {
	repo    Repository
	service *TransactionService
}

func NewRecurringProcessor(repo Repository, service *TransactionService) *RecurringProcessor {
	return &RecurringProcessor{
		repo:    repo,
		service: service,
	}
}

// ProcessMonth materializes every due recurring transaction for the month
// containing now. Safe to run repeatedly; chains that already have an
// occurrence this month are skipped.
func (p *RecurringProcessor) ProcessMonth(ctx context.Context, now time.Time) (int, error) {
	if p.repo == nil || p.service == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	all, err := p.repo.ListTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}

	year, month, _ := now.UTC().Date()

	// Latest occurrence per chain, and whether the chain already reached
	// the target month.
	latest := make(map[string]core.Transaction)
	done := make(map[string]bool)
	for _, t := range all {
		if !t.IsRecurring {
			continue
		}
		key := chainKey(t)
		if prev, ok := latest[key]; !ok || t.Date.After(prev.Date) {
			latest[key] = t
		}
		ty, tm, _ := t.Date.UTC().Date()
		if ty == year && tm == month {
			done[key] = true
		}
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"chains", len(latest),
		"target_year", year,
		"target_month", int(month))

	created := 0
	for key, template := range latest {
		if done[key] {
			continue
		}
		// Never project backwards or sideways into the past.
		if !template.Date.Before(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)) {
			continue
		}

		day := core.ClampDay(template.Date.UTC().Day(), year, month)
		next := template
		next.ID = ""
		next.Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		next.IsPaid = false
		next.GroupID = key
		if next.DueDate != nil {
			dueDay := core.ClampDay(next.DueDate.UTC().Day(), year, month)
			due := time.Date(year, month, dueDay, 0, 0, 0, 0, time.UTC)
			next.DueDate = &due
		}
		next.ReceivedDate = nil

		saved, err := p.service.CreateTransaction(ctx, next)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to project recurring transaction",
				"group_id", key,
				"description", template.Description,
				"error", err)
			continue
		}

		created++
		slog.InfoContext(ctx, "Projected recurring transaction",
			"id", saved.ID,
			"group_id", key,
			"description", saved.Description,
			"amount_cents", saved.Amount.Cents)
	}

	slog.InfoContext(ctx, "Recurring transaction processing complete",
		"created", created,
		"chains", len(latest))

	return created, nil
}

// chainKey identifies a recurring chain. Rows created before grouping
// existed carry no group id; their own id seeds the chain.
func chainKey(t core.Transaction) string {
	if t.GroupID != "" {
		return t.GroupID
	}
	return t.ID
}
