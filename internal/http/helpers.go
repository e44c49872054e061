package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/storage"
)

const maxBodyBytes = 1 << 20

var errInvalidPeriod = errors.New("invalid period")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "encode response",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err.Error())
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	if err != nil && status >= 500 {
		slog.ErrorContext(ctx, msg,
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err.Error())
	}
	writeJSON(ctx, w, status, errorResponse{Error: msg})
}

// writeStorageError maps storage errors to HTTP statuses: unknown ids are
// 404, validation failures 400, the rest 500.
func writeStorageError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDueDay),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrZeroDate):
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(ctx, w, http.StatusInternalServerError, "internal error", err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	// Trailing garbage after the JSON value is a malformed request too.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// parsePeriod reads year and month query parameters, defaulting to the
// current month when both are absent.
func parsePeriod(r *http.Request, now time.Time) (int, time.Month, error) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" && monthStr == "" {
		return now.Year(), now.Month(), nil
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1970 || year > 9999 {
		return 0, 0, fmt.Errorf("%w: year %q", errInvalidPeriod, yearStr)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %q", errInvalidPeriod, monthStr)
	}
	return year, time.Month(month), nil
}

// sanitizeInput strips control characters that have no business in
// descriptions or names.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

const dateOnly = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateOnly)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

type transactionPayload struct {
	ID           string `json:"id,omitempty"`
	Description  string `json:"description"`
	AmountCents  int64  `json:"amount_cents"`
	Type         string `json:"type"`
	Category     string `json:"category"`
	Date         string `json:"date"`
	IsRecurring  bool   `json:"is_recurring"`
	IsPaid       bool   `json:"is_paid"`
	DueDate      string `json:"due_date,omitempty"`
	ReceivedDate string `json:"received_date,omitempty"`
	CardID       string `json:"card_id,omitempty"`
	CardName     string `json:"card_name,omitempty"`
	GroupID      string `json:"group_id,omitempty"`
}

func (p transactionPayload) toCore() (core.Transaction, error) {
	date, err := parseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	dueDate, err := parseOptionalDate(p.DueDate)
	if err != nil {
		return core.Transaction{}, err
	}
	receivedDate, err := parseOptionalDate(p.ReceivedDate)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:           p.ID,
		Description:  sanitizeInput(p.Description),
		Amount:       core.Money{Cents: p.AmountCents},
		Type:         core.TransactionType(p.Type),
		Category:     sanitizeInput(p.Category),
		Date:         date,
		IsRecurring:  p.IsRecurring,
		IsPaid:       p.IsPaid,
		DueDate:      dueDate,
		ReceivedDate: receivedDate,
		CardID:       p.CardID,
		GroupID:      p.GroupID,
	}, nil
}

func transactionToPayload(t core.Transaction) transactionPayload {
	return transactionPayload{
		ID:           t.ID,
		Description:  t.Description,
		AmountCents:  t.Amount.Cents,
		Type:         string(t.Type),
		Category:     t.Category,
		Date:         formatDate(t.Date),
		IsRecurring:  t.IsRecurring,
		IsPaid:       t.IsPaid,
		DueDate:      formatOptionalDate(t.DueDate),
		ReceivedDate: formatOptionalDate(t.ReceivedDate),
		CardID:       t.CardID,
		CardName:     t.CardName,
		GroupID:      t.GroupID,
	}
}

type salaryPayload struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Company     string `json:"company,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	SalaryType  string `json:"salary_type"`
	IsActive    bool   `json:"is_active"`
	PaymentDate string `json:"payment_date,omitempty"`
	PaymentDay  int    `json:"payment_day,omitempty"`
}

func (p salaryPayload) toCore() (core.Salary, error) {
	paymentDate, err := parseOptionalDate(p.PaymentDate)
	if err != nil {
		return core.Salary{}, err
	}
	if p.PaymentDay < 0 || p.PaymentDay > 31 {
		return core.Salary{}, fmt.Errorf("invalid payment day %d", p.PaymentDay)
	}
	return core.Salary{
		ID:          p.ID,
		Description: sanitizeInput(p.Description),
		Company:     sanitizeInput(p.Company),
		Amount:      core.Money{Cents: p.AmountCents},
		SalaryType:  core.SalaryType(p.SalaryType),
		IsActive:    p.IsActive,
		PaymentDate: paymentDate,
		PaymentDay:  p.PaymentDay,
	}, nil
}

func salaryToPayload(s core.Salary) salaryPayload {
	return salaryPayload{
		ID:          s.ID,
		Description: s.Description,
		Company:     s.Company,
		AmountCents: s.Amount.Cents,
		SalaryType:  string(s.SalaryType),
		IsActive:    s.IsActive,
		PaymentDate: formatOptionalDate(s.PaymentDate),
		PaymentDay:  s.PaymentDay,
	}
}

type adjustmentPayload struct {
	SalaryID    string `json:"salary_id,omitempty"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description,omitempty"`
}

func adjustmentToPayload(a core.SalaryAdjustment) adjustmentPayload {
	return adjustmentPayload{
		SalaryID:    a.SalaryID,
		Year:        a.Year,
		Month:       int(a.Month),
		AmountCents: a.Amount.Cents,
		Description: a.Description,
	}
}

type cardPayload struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	CardType string `json:"card_type"`
	DueDay   int    `json:"due_day"`
}

func (p cardPayload) toCore() core.CreditCard {
	return core.CreditCard{
		ID:       p.ID,
		Name:     sanitizeInput(p.Name),
		CardType: core.CardType(p.CardType),
		DueDay:   p.DueDay,
	}
}

func cardToPayload(c core.CreditCard) cardPayload {
	return cardPayload{ID: c.ID, Name: c.Name, CardType: string(c.CardType), DueDay: c.DueDay}
}
