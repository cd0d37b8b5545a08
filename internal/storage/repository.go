// Package storage is the SQLite record store behind the assistant:
// transactions, category configuration, and canned responses.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finchat/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
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

// Create inserts a transaction and returns its id.
func (r *SQLiteRepository) Create(ctx context.Context, txType core.TransactionType, amount core.Money, categoryID *int64, description string, date time.Time) (int64, error) {
	if !txType.Valid() {
		return 0, core.ErrInvalidType
	}
	if err := amount.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (transaction_type, amount_cents, category_id, description, date)
		VALUES (?, ?, ?, ?, ?)`,
		string(txType), amount.Cents, categoryID, description, date)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", txType,
		"amount", amount.String(),
		"description", description)

	return id, nil
}

const selectTransaction = `
	SELECT t.transaction_id, t.transaction_type, t.amount_cents, t.category_id,
	       COALESCE(c.category_name, ''), t.description, t.date
	FROM transactions t
	LEFT JOIN categories c ON t.category_id = c.category_id`

func (r *SQLiteRepository) scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t      core.Transaction
			txType string
		)
		if err := rows.Scan(&t.ID, &txType, &t.Amount.Cents, &t.CategoryID, &t.CategoryName, &t.Description, &t.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(txType)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// ListByDateRange returns transactions with start <= date <= end, most
// recent first. Ties on date fall back to insertion order, newest first.
func (r *SQLiteRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransaction+`
		WHERE t.date >= ? AND t.date <= ?
		ORDER BY t.date DESC, t.transaction_id DESC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("query transactions by date range: %w", err)
	}
	return r.scanTransactions(rows)
}

// ListMostRecent returns up to n transactions, most recent first.
func (r *SQLiteRepository) ListMostRecent(ctx context.Context, n int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransaction+`
		ORDER BY t.date DESC, t.transaction_id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent transactions: %w", err)
	}
	return r.scanTransactions(rows)
}

// GetTransaction returns a single transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransaction+`
		WHERE t.transaction_id = ?`, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("query transaction %d: %w", id, err)
	}

	out, err := r.scanTransactions(rows)
	if err != nil {
		return core.Transaction{}, err
	}
	if len(out) == 0 {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return out[0], nil
}

// UpdateAmount overwrites only the amount of a transaction.
func (r *SQLiteRepository) UpdateAmount(ctx context.Context, id int64, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount_cents = ? WHERE transaction_id = ?`,
		amount.Cents, id)
	if err != nil {
		return fmt.Errorf("update transaction amount: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}

	slog.InfoContext(ctx, "Transaction amount updated", "id", id, "amount", amount.String())
	return nil
}

// Delete removes a transaction.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE transaction_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// ListCategories returns the category configuration in id order. The
// comma-separated keyword column is split here; the lexicon normalizes
// each keyword on load.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category_id, category_name, category_type, keywords
		FROM categories
		ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			cat      core.Category
			catType  string
			keywords string
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &catType, &keywords); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cat.Type = core.TransactionType(catType)
		if keywords != "" {
			cat.Keywords = strings.Split(keywords, ",")
		}
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// ResponseByType returns the first canned response of the given type.
func (r *SQLiteRepository) ResponseByType(ctx context.Context, responseType string) (string, error) {
	var text string
	err := r.db.QueryRowContext(ctx, `
		SELECT response_text FROM chatbot_responses
		WHERE response_type = ?
		ORDER BY response_id
		LIMIT 1`, responseType).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("response type %q: %w", responseType, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("query canned response: %w", err)
	}
	return text, nil
}
