package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

const dateLayout = time.RFC3339

// SQLiteRepository is the single persistence adapter. It implements
// report.Store for the read side and the mutation methods the services
// layer needs.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `
	t.id, t.description, t.amount_cents, t.type, t.category, t.date,
	t.is_recurring, t.is_paid, t.due_date, t.received_date,
	t.original_amount_cents, t.group_id,
	COALESCE(t.card_id, ''), COALESCE(c.name, ''), COALESCE(c.card_type, '')`

// ListTransactions returns every live transaction joined with its card, so
// the aggregator can resolve billing cycles without a second lookup.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN credit_cards c ON c.id = t.card_id AND c.deleted_at IS NULL
		WHERE t.deleted_at IS NULL
		ORDER BY t.date, t.id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN credit_cards c ON c.id = t.card_id AND c.deleted_at IS NULL
		WHERE t.id = ? AND t.deleted_at IS NULL`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, description, amount_cents, type, category, date,
			 is_recurring, is_paid, due_date, received_date,
			 card_id, original_amount_cents, group_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount.Cents, string(t.Type), t.Category,
		t.Date.UTC().Format(dateLayout),
		t.IsRecurring, t.IsPaid,
		nullTime(t.DueDate), nullTime(t.ReceivedDate),
		nullString(t.CardID), nullMoney(t.OriginalAmount), nullString(t.GroupID))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"type", string(t.Type),
		"amount_cents", t.Amount.Cents,
		"category", t.Category)

	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET
			description = ?, amount_cents = ?, type = ?, category = ?, date = ?,
			is_recurring = ?, is_paid = ?, due_date = ?, received_date = ?,
			card_id = ?, original_amount_cents = ?, group_id = ?,
			updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`,
		t.Description, t.Amount.Cents, string(t.Type), t.Category,
		t.Date.UTC().Format(dateLayout),
		t.IsRecurring, t.IsPaid,
		nullTime(t.DueDate), nullTime(t.ReceivedDate),
		nullString(t.CardID), nullMoney(t.OriginalAmount), nullString(t.GroupID),
		t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRows(res, t.ID)
}

// DeleteTransaction soft-deletes; the row stays for audit but disappears
// from every listing.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRows(res, id)
}

// DeleteRecurringChain removes a recurring transaction's future occurrences:
// every live row sharing the group whose date is on or after the cutoff.
func (r *SQLiteRepository) DeleteRecurringChain(ctx context.Context, groupID string, from time.Time) (int64, error) {
	if groupID == "" {
		return 0, fmt.Errorf("delete recurring chain: empty group id")
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = datetime('now')
		WHERE group_id = ? AND deleted_at IS NULL AND date >= ?`,
		groupID, from.UTC().Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("delete recurring chain: %w", err)
	}
	n, _ := res.RowsAffected()
	slog.InfoContext(ctx, "Recurring chain deleted", "group_id", groupID, "rows", n)
	return n, nil
}

func (r *SQLiteRepository) ListSalaries(ctx context.Context) ([]core.Salary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, company, amount_cents, original_amount_cents,
		       salary_type, is_active, payment_date, created_at
		FROM salaries
		WHERE deleted_at IS NULL
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	defer rows.Close()

	var out []core.Salary
	for rows.Next() {
		var (
			s           core.Salary
			original    sql.NullInt64
			paymentDate string
			createdAt   string
		)
		if err := rows.Scan(&s.ID, &s.Description, &s.Company, &s.Amount.Cents,
			&original, &s.SalaryType, &s.IsActive, &paymentDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scan salary: %w", err)
		}
		if original.Valid {
			s.OriginalAmount = &core.Money{Cents: original.Int64}
		}
		s.PaymentDate, s.PaymentDay = parsePaymentDate(paymentDate)
		s.CreatedAt = parseStoredTime(createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateSalary(ctx context.Context, s core.Salary) (core.Salary, error) {
	if err := s.Validate(); err != nil {
		return core.Salary{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO salaries
			(id, description, company, amount_cents, original_amount_cents,
			 salary_type, is_active, payment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Description, s.Company, s.Amount.Cents, nullMoney(s.OriginalAmount),
		string(s.SalaryType), s.IsActive, formatPaymentDate(s))
	if err != nil {
		return core.Salary{}, fmt.Errorf("create salary: %w", err)
	}

	slog.InfoContext(ctx, "Salary saved", "id", s.ID, "amount_cents", s.Amount.Cents)
	return s, nil
}

func (r *SQLiteRepository) UpdateSalary(ctx context.Context, s core.Salary) error {
	if err := s.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE salaries SET
			description = ?, company = ?, amount_cents = ?,
			original_amount_cents = ?, salary_type = ?, is_active = ?,
			payment_date = ?
		WHERE id = ? AND deleted_at IS NULL`,
		s.Description, s.Company, s.Amount.Cents, nullMoney(s.OriginalAmount),
		string(s.SalaryType), s.IsActive, formatPaymentDate(s), s.ID)
	if err != nil {
		return fmt.Errorf("update salary: %w", err)
	}
	return requireRows(res, s.ID)
}

func (r *SQLiteRepository) DeleteSalary(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE salaries SET deleted_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete salary: %w", err)
	}
	return requireRows(res, id)
}

func (r *SQLiteRepository) ListSalaryAdjustments(ctx context.Context, year int, month time.Month) ([]core.SalaryAdjustment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT salary_id, year, month, amount_cents, description
		FROM salary_adjustments
		WHERE year = ? AND month = ?
		ORDER BY salary_id`, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("list salary adjustments: %w", err)
	}
	defer rows.Close()

	var out []core.SalaryAdjustment
	for rows.Next() {
		var (
			a core.SalaryAdjustment
			m int
		)
		if err := rows.Scan(&a.SalaryID, &a.Year, &m, &a.Amount.Cents, &a.Description); err != nil {
			return nil, fmt.Errorf("scan salary adjustment: %w", err)
		}
		a.Month = time.Month(m)
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertSalaryAdjustment stores the one-off override for (salary, year,
// month). A later write for the same key replaces the earlier one.
func (r *SQLiteRepository) UpsertSalaryAdjustment(ctx context.Context, a core.SalaryAdjustment) error {
	if a.SalaryID == "" {
		return fmt.Errorf("upsert salary adjustment: empty salary id")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO salary_adjustments (salary_id, year, month, amount_cents, description)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (salary_id, year, month) DO UPDATE SET
			amount_cents = excluded.amount_cents,
			description = excluded.description,
			updated_at = datetime('now')`,
		a.SalaryID, a.Year, int(a.Month), a.Amount.Cents, a.Description)
	if err != nil {
		return fmt.Errorf("upsert salary adjustment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSalaryAdjustment(ctx context.Context, key core.AdjustmentKey) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM salary_adjustments
		WHERE salary_id = ? AND year = ? AND month = ?`,
		key.SalaryID, key.Year, int(key.Month))
	if err != nil {
		return fmt.Errorf("delete salary adjustment: %w", err)
	}
	return requireRows(res, key.SalaryID)
}

func (r *SQLiteRepository) ListCreditCards(ctx context.Context) ([]core.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, card_type, due_day
		FROM credit_cards
		WHERE deleted_at IS NULL
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list credit cards: %w", err)
	}
	defer rows.Close()

	var out []core.CreditCard
	for rows.Next() {
		var c core.CreditCard
		if err := rows.Scan(&c.ID, &c.Name, &c.CardType, &c.DueDay); err != nil {
			return nil, fmt.Errorf("scan credit card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCreditCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credit_cards (id, name, card_type, due_day)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, string(c.CardType), c.DueDay)
	if err != nil {
		return core.CreditCard{}, fmt.Errorf("create credit card: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCreditCard(ctx context.Context, c core.CreditCard) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE credit_cards SET name = ?, card_type = ?, due_day = ?
		WHERE id = ? AND deleted_at IS NULL`,
		c.Name, string(c.CardType), c.DueDay, c.ID)
	if err != nil {
		return fmt.Errorf("update credit card: %w", err)
	}
	return requireRows(res, c.ID)
}

func (r *SQLiteRepository) DeleteCreditCard(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credit_cards SET deleted_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete credit card: %w", err)
	}
	return requireRows(res, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t             core.Transaction
		date          string
		dueDate       sql.NullString
		receivedDate  sql.NullString
		originalCents sql.NullInt64
		groupID       sql.NullString
		cardType      string
	)
	err := row.Scan(&t.ID, &t.Description, &t.Amount.Cents, &t.Type, &t.Category,
		&date, &t.IsRecurring, &t.IsPaid, &dueDate, &receivedDate,
		&originalCents, &groupID, &t.CardID, &t.CardName, &cardType)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Date = parseStoredTime(date)
	if dueDate.Valid {
		d := parseStoredTime(dueDate.String)
		t.DueDate = &d
	}
	if receivedDate.Valid {
		d := parseStoredTime(receivedDate.String)
		t.ReceivedDate = &d
	}
	if originalCents.Valid {
		t.OriginalAmount = &core.Money{Cents: originalCents.Int64}
	}
	if groupID.Valid {
		t.GroupID = groupID.String
	}
	t.CardType = core.CardType(cardType)
	return t, nil
}

// parsePaymentDate interprets the lenient payment_date column. A full date
// pins the salary to one month, a bare integer is a day-of-month, anything
// else leaves both forms unset.
func parsePaymentDate(s string) (*time.Time, int) {
	if s == "" {
		return nil, 0
	}
	if d, err := time.Parse(dateLayout, s); err == nil {
		return &d, d.Day()
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		d = d.UTC()
		return &d, d.Day()
	}
	if day, err := strconv.Atoi(s); err == nil && day >= 1 && day <= 31 {
		return nil, day
	}
	return nil, 0
}

func formatPaymentDate(s core.Salary) string {
	if s.PaymentDate != nil {
		return s.PaymentDate.UTC().Format(dateLayout)
	}
	if s.PaymentDay > 0 {
		return strconv.Itoa(s.PaymentDay)
	}
	return ""
}

func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(dateLayout)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullMoney(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents
}

func requireRows(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}
