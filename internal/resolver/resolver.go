// Package resolver locates the transaction targeted by an update or delete
// request from partial natural-language criteria.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finchat/internal/core"
)

// Store is the slice of the record store the resolver needs.
type Store interface {
	// ListByDateRange returns records with start <= date <= end,
	// most recent first.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
	// ListMostRecent returns up to n records, most recent first.
	ListMostRecent(ctx context.Context, n int) ([]core.Transaction, error)
	// UpdateAmount overwrites only the amount of the record.
	UpdateAmount(ctx context.Context, id int64, amount core.Money) error
}

// Each precondition failure gets its own error so the caller can prompt
// the user precisely instead of rendering a generic "invalid input".
var (
	ErrMissingAmount        = errors.New("no new amount found in update request")
	ErrMissingCategory      = errors.New("no category found in update request")
	ErrMissingDate          = errors.New("no date found in update request")
	ErrInvalidDate          = errors.New("update request date is not a valid calendar day")
	ErrUpdateTargetNotFound = errors.New("no matching transaction for that category and date")
	ErrDeleteTargetNotFound = errors.New("no recent transaction to delete")
)

type Resolver struct {
	store Store
}

func New(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveUpdate finds the most recent transaction of the given category on
// the given calendar day and sets its amount. Only the amount is touched;
// category, date, and description stay as recorded. Preconditions are
// checked in order, each with its own sentinel error.
func (r *Resolver) ResolveUpdate(ctx context.Context, amount *core.Money, category *core.Category, day time.Time) (core.Transaction, error) {
	if amount == nil {
		return core.Transaction{}, ErrMissingAmount
	}
	if category == nil {
		return core.Transaction{}, ErrMissingCategory
	}
	if day.IsZero() {
		return core.Transaction{}, ErrMissingDate
	}
	if !core.ValidDay(day.Year(), day.Month(), day.Day()) {
		return core.Transaction{}, ErrInvalidDate
	}

	start, end := core.DayBounds(day)
	transactions, err := r.store.ListByDateRange(ctx, start, end)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("list transactions for %s: %w", start.Format("2006-01-02"), err)
	}

	// Most-recent-first ordering makes the first category hit the winner.
	// No fuzzy matching on amount or description.
	for _, t := range transactions {
		if t.CategoryID == nil || *t.CategoryID != category.ID {
			continue
		}

		if err := r.store.UpdateAmount(ctx, t.ID, *amount); err != nil {
			return core.Transaction{}, fmt.Errorf("update amount of transaction %d: %w", t.ID, err)
		}

		slog.InfoContext(ctx, "Resolved update target",
			"id", t.ID,
			"category", category.Name,
			"day", start.Format("2006-01-02"),
			"new_amount", amount.String())

		t.Amount = *amount
		return t, nil
	}

	return core.Transaction{}, ErrUpdateTargetNotFound
}

// ResolveDelete returns the single most recent transaction across all
// categories and dates. Ties on timestamp are broken by store order.
// Deleting the record is the caller's job.
func (r *Resolver) ResolveDelete(ctx context.Context) (core.Transaction, error) {
	transactions, err := r.store.ListMostRecent(ctx, 1)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("list most recent transaction: %w", err)
	}
	if len(transactions) == 0 {
		return core.Transaction{}, ErrDeleteTargetNotFound
	}
	return transactions[0], nil
}
