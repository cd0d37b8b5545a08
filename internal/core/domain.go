package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Savings TransactionType = "savings"
)

type (
	// TransactionType tells whether money flowed out (expense) or in (savings).
	TransactionType string

	// Money is an amount with two implied fraction digits.
	Money struct {
		Cents int64
	}

	// Category is a named bucket of spending or income with the keywords
	// used to infer it from free text.
	Category struct {
		ID       int64
		Name     string
		Type     TransactionType
		Keywords []string
	}

	// Transaction is a single recorded flow. CategoryID is nil for
	// uncategorized records; CategoryName is denormalized for display.
	Transaction struct {
		ID           int64
		Type         TransactionType
		Amount       Money
		CategoryID   *int64
		CategoryName string
		Description  string
		Date         time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyMessage  = errors.New("empty message")
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Expense || t == Savings
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Float returns the amount in major units.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) String() string {
	return strconv.FormatFloat(m.Float(), 'f', 2, 64)
}

// ParseMoney parses a decimal string like "45.50" or "100". At most two
// fraction digits are accepted.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	cents := units * 100
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		if len(frac) == 1 {
			f *= 10
		}
		cents += f
	}

	return Money{Cents: cents}, nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	return nil
}

// DayBounds returns the inclusive [00:00:00, 23:59:59] range of the calendar
// day containing t, in t's location.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
	return start, end
}

// ValidDay reports whether year/month/day name a real calendar date
// (time.Date normalizes overflow, so Feb 30 rolls into March).
func ValidDay(year int, month time.Month, day int) bool {
	if day < 1 || day > 31 || month < time.January || month > time.December {
		return false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && d.Month() == month && d.Day() == day
}
