// Package report aggregates recorded transactions into period summaries
// and recent-activity listings.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"finchat/internal/core"
	"finchat/internal/parser"
)

// Store is the slice of the record store the generator reads from.
type Store interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
	ListMostRecent(ctx context.Context, n int) ([]core.Transaction, error)
}

// CategoryAmount is one slice of the category breakdown.
type CategoryAmount struct {
	Name   string
	Amount core.Money
}

// Summary holds aggregated totals for a period plus the raw transactions
// they were computed from.
type Summary struct {
	Period        parser.Period
	Start, End    time.Time
	TotalExpenses core.Money
	TotalSavings  core.Money
	ByCategory    []CategoryAmount // expenses only, largest first
	Transactions  []core.Transaction
}

// Net is savings minus expenses.
func (s Summary) Net() core.Money {
	return core.Money{Cents: s.TotalSavings.Cents - s.TotalExpenses.Cents}
}

type Generator struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Generator {
	return &Generator{store: store, now: time.Now}
}

// NewWithClock is New with an injected clock, for tests.
func NewWithClock(store Store, now func() time.Time) *Generator {
	return &Generator{store: store, now: now}
}

// DateRange returns the [start, end] span for a period. The week starts on
// Monday; an unrecognized period falls back to today.
func (g *Generator) DateRange(period parser.Period) (start, end time.Time) {
	now := g.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case parser.Yesterday:
		start, end = core.DayBounds(midnight.AddDate(0, 0, -1))
	case parser.Week:
		weekday := int(now.Weekday()+6) % 7 // Monday = 0
		start = midnight.AddDate(0, 0, -weekday)
		end = now
	case parser.Month:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case parser.Year:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end = now
	default: // Today and anything unknown
		start = midnight
		end = now
	}
	return start, end
}

// Summarize aggregates the period's transactions: expense and savings
// totals, plus a per-category expense breakdown sorted largest first.
func (g *Generator) Summarize(ctx context.Context, period parser.Period) (Summary, error) {
	start, end := g.DateRange(period)

	transactions, err := g.store.ListByDateRange(ctx, start, end)
	if err != nil {
		return Summary{}, fmt.Errorf("list transactions for %s: %w", period, err)
	}

	s := Summary{
		Period:       period,
		Start:        start,
		End:          end,
		Transactions: transactions,
	}

	byCategory := make(map[string]int64)
	for _, t := range transactions {
		if t.Type == core.Expense {
			s.TotalExpenses.Cents += t.Amount.Cents
			name := t.CategoryName
			if name == "" {
				name = "Uncategorized"
			}
			byCategory[name] += t.Amount.Cents
		} else {
			s.TotalSavings.Cents += t.Amount.Cents
		}
	}

	for name, cents := range byCategory {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Amount.Cents != s.ByCategory[j].Amount.Cents {
			return s.ByCategory[i].Amount.Cents > s.ByCategory[j].Amount.Cents
		}
		return s.ByCategory[i].Name < s.ByCategory[j].Name
	})

	return s, nil
}

var periodTitles = map[parser.Period]string{
	parser.Today:     "Today",
	parser.Yesterday: "Yesterday",
	parser.Week:      "This Week",
	parser.Month:     "This Month",
	parser.Year:      "This Year",
}

// Text renders the summary as the reply shown to the user.
func (s Summary) Text() string {
	title, ok := periodTitles[s.Period]
	if !ok {
		title = "Summary"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s - %s)\n\n", title, s.Start.Format("Jan 02"), s.End.Format("Jan 02"))
	fmt.Fprintf(&b, "Total Expenses: %s pesos\n", s.TotalExpenses)
	fmt.Fprintf(&b, "Total Savings: %s pesos\n", s.TotalSavings)
	fmt.Fprintf(&b, "Net: %s pesos\n", s.Net())

	if len(s.ByCategory) > 0 {
		b.WriteString("\nBy Category:\n")
		for _, ca := range s.ByCategory {
			pct := 0.0
			if s.TotalExpenses.Cents > 0 {
				pct = float64(ca.Amount.Cents) / float64(s.TotalExpenses.Cents) * 100
			}
			fmt.Fprintf(&b, "  - %s: %s pesos (%.1f%%)\n", ca.Name, ca.Amount, pct)
		}
	}

	return b.String()
}

// RecentTransactions returns the latest transactions unformatted.
func (g *Generator) RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	transactions, err := g.store.ListMostRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return transactions, nil
}

// Recent returns a formatted listing of the latest transactions.
func (g *Generator) Recent(ctx context.Context, limit int) (string, error) {
	transactions, err := g.RecentTransactions(ctx, limit)
	if err != nil {
		return "", err
	}

	if len(transactions) == 0 {
		return "No transactions recorded yet.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent Transactions (Last %d):\n\n", len(transactions))
	for _, t := range transactions {
		name := t.CategoryName
		if name == "" {
			name = "Uncategorized"
		}
		label := "spent"
		if t.Type == core.Savings {
			label = "saved"
		}
		fmt.Fprintf(&b, "%s %s - %s (%s)\n", label, t.Amount, name, t.Date.Format("Jan 02, 3:04 PM"))
	}
	return b.String(), nil
}
