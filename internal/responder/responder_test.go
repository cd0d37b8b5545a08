package responder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finchat/internal/core"
	"finchat/internal/resolver"
)

type fakeSource struct {
	responses map[string]string
}

func (f *fakeSource) ResponseByType(_ context.Context, responseType string) (string, error) {
	if text, ok := f.responses[responseType]; ok {
		return text, nil
	}
	return "", errors.New("not found")
}

func TestResponder_CannedWithFallback(t *testing.T) {
	r := New(&fakeSource{responses: map[string]string{"greeting": "Hi from the table"}})
	ctx := context.Background()

	if got := r.Greeting(ctx); got != "Hi from the table" {
		t.Errorf("Greeting = %q, want canned text", got)
	}
	if got := r.Help(ctx); got != fallbackHelp {
		t.Errorf("Help = %q, want fallback on source miss", got)
	}

	nilSource := New(nil)
	if got := nilSource.Advice(ctx); got != fallbackAdvice {
		t.Errorf("Advice with nil source = %q, want fallback", got)
	}
}

func TestResponder_Recorded(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name     string
		amount   core.Money
		category string
		action   core.TransactionType
		want     string
	}{
		{
			name:     "expense with category",
			amount:   core.Money{Cents: 4550},
			category: "Food",
			action:   core.Expense,
			want:     "Recorded: 45.50 pesos spent on Food",
		},
		{
			name:   "savings",
			amount: core.Money{Cents: 10000}, category: "Salary",
			action: core.Savings,
			want:   "Recorded: 100.00 pesos saved in Salary",
		},
		{
			name:   "no category defaults to Miscellaneous",
			amount: core.Money{Cents: 2000},
			action: core.Expense,
			want:   "Recorded: 20.00 pesos spent on Miscellaneous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Recorded(tt.amount, tt.category, tt.action); got != tt.want {
				t.Errorf("Recorded = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResponder_UpdateFailed_DistinctReasons(t *testing.T) {
	r := New(nil)

	errs := []error{
		resolver.ErrMissingAmount,
		resolver.ErrMissingCategory,
		resolver.ErrMissingDate,
		resolver.ErrInvalidDate,
		resolver.ErrUpdateTargetNotFound,
	}

	seen := make(map[string]error)
	for _, err := range errs {
		text := r.UpdateFailed(err)
		if prev, dup := seen[text]; dup {
			t.Errorf("errors %v and %v share reply %q, each reason needs its own", prev, err, text)
		}
		seen[text] = err
	}

	generic := r.UpdateFailed(errors.New("db exploded"))
	if _, clash := seen[generic]; clash {
		t.Errorf("unexpected reuse of a precondition reply for unknown errors: %q", generic)
	}
}

func TestResponder_UpdatedAndDeleted(t *testing.T) {
	r := New(nil)
	txn := core.Transaction{
		Amount:       core.Money{Cents: 25000},
		CategoryName: "Food",
		Date:         time.Date(2026, 12, 1, 18, 0, 0, 0, time.UTC),
	}

	if got := r.Updated(txn); got != "Updated: set Food on 2026-12-01 to 250.00 pesos" {
		t.Errorf("Updated = %q", got)
	}
	if got := r.Deleted(txn); got != "Deleted: 250.00 pesos on Food" {
		t.Errorf("Deleted = %q", got)
	}
}

func TestResponder_Prompts(t *testing.T) {
	r := New(nil)

	if got := r.MissingAmount(core.Expense); !strings.Contains(got, "spent") {
		t.Errorf("MissingAmount(expense) = %q, want a spend prompt", got)
	}
	if got := r.MissingAmount(core.Savings); !strings.Contains(got, "saved") {
		t.Errorf("MissingAmount(savings) = %q, want a save prompt", got)
	}
	if got := r.Ambiguous([]core.TransactionType{core.Expense, core.Savings}); !strings.Contains(got, "expense") || !strings.Contains(got, "savings") {
		t.Errorf("Ambiguous = %q, want both conflict classes named", got)
	}
	if got := r.Unknown(); !strings.Contains(got, "spent 50 on lunch") {
		t.Errorf("Unknown = %q", got)
	}
}
