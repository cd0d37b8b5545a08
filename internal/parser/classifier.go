// Package parser turns a free-text message into one tagged intent with its
// extracted fields. Classification is a strict priority cascade: the first
// matching rule wins and extraction for later rules is skipped, so a query
// containing the word "save" is never misread as an advice request.
package parser

import (
	"time"

	"finchat/internal/core"
	"finchat/internal/lexicon"
)

// Kind tags the classified purpose of a message.
type Kind string

const (
	Ambiguous         Kind = "ambiguous"
	Greeting          Kind = "greeting"
	Help              Kind = "help"
	Delete            Kind = "delete"
	Query             Kind = "query"
	Update            Kind = "update"
	MissingAmount     Kind = "missing_amount"
	RecordTransaction Kind = "record_transaction"
	Advice            Kind = "advice"
	Unknown           Kind = "unknown"
)

// Intent is the structured result of parsing one message. It is created
// fresh per message and never persisted; optional fields are nil or zero
// when the corresponding extraction found nothing.
type Intent struct {
	Kind        Kind
	Amount      *core.Money
	Action      core.TransactionType // set only for RecordTransaction and MissingAmount
	Category    *core.Category
	Description string
	Period      Period
	Date        time.Time // message timestamp, or the extracted date for updates
	Conflicts   []core.TransactionType
}

// Classifier parses messages against a lexicon snapshot and keyword tables.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	lex *lexicon.Index
	kw  Keywords
	now func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithKeywords replaces the default keyword tables.
func WithKeywords(kw Keywords) Option {
	return func(c *Classifier) { c.kw = kw }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// New creates a Classifier over the given lexicon snapshot.
func New(lex *lexicon.Index, opts ...Option) *Classifier {
	c := &Classifier{
		lex: lex,
		kw:  DefaultKeywords(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse classifies a single message. It always returns an Intent with
// exactly one Kind; parsing the same message twice yields identical results.
func (c *Classifier) Parse(message string) Intent {
	result := Intent{
		Description: message,
		Date:        c.now(),
	}

	// Conflicting action verbs short-circuit everything else: the caller
	// must ask the user to clarify, not guess.
	if conflicts, ok := c.kw.ConflictingActions(message); ok {
		result.Kind = Ambiguous
		result.Conflicts = conflicts
		return result
	}

	if c.kw.IsGreeting(message) {
		result.Kind = Greeting
		return result
	}

	if c.kw.IsHelpRequest(message) {
		result.Kind = Help
		return result
	}

	if c.kw.IsDeleteRequest(message) {
		result.Kind = Delete
		return result
	}

	if c.kw.IsQuery(message) {
		result.Kind = Query
		if period, ok := c.kw.ExtractTimePeriod(message); ok {
			result.Period = period
		}
		return result
	}

	if c.kw.IsUpdateRequest(message) {
		result.Kind = Update
		if amount, ok := ExtractAmount(message); ok {
			result.Amount = &amount
		}
		if cat, ok := c.lex.Match(message); ok {
			result.Category = &cat
		}
		if date, ok := ExtractDate(message, result.Date); ok {
			result.Date = date
		}
		return result
	}

	amount, hasAmount := ExtractAmount(message)
	action, hasAction := c.kw.ExtractAction(message)

	if hasAction && !hasAmount {
		result.Kind = MissingAmount
		result.Action = action
		return result
	}

	if hasAmount && hasAction {
		result.Kind = RecordTransaction
		result.Amount = &amount
		result.Action = action
		if cat, ok := c.lex.Match(message); ok {
			result.Category = &cat
		}
		return result
	}

	if c.kw.IsAdviceRequest(message) {
		result.Kind = Advice
		return result
	}

	result.Kind = Unknown
	return result
}
