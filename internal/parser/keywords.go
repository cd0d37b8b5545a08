package parser

import (
	"strings"
	"unicode"

	"finchat/internal/core"
)

// Period is a coarse calendar bucket used by report queries.
type Period string

const (
	Today     Period = "today"
	Yesterday Period = "yesterday"
	Week      Period = "week"
	Month     Period = "month"
	Year      Period = "year"
)

// PeriodEntry binds a message phrase to its period. Entries are scanned in
// order, so more specific phrases must precede their suffixes
// ("this week" before "week").
type PeriodEntry struct {
	Phrase string
	Period Period
}

// Keywords holds every keyword table the extraction primitives consult.
// Tables are injected configuration: a Classifier built with one Keywords
// value never observes later changes.
type Keywords struct {
	ExpenseVerbs []string
	SavingsVerbs []string
	Query        []string
	Delete       []string
	Update       []string
	Greeting     []string
	Help         []string
	Advice       []string
	TimePeriods  []PeriodEntry
}

// DefaultKeywords returns the built-in tables.
func DefaultKeywords() Keywords {
	return Keywords{
		ExpenseVerbs: []string{
			"spent", "spend", "paid", "pay", "bought", "buy", "purchase",
			"cost", "expense", "used", "consumed",
		},
		SavingsVerbs: []string{
			"earned", "earn", "saved", "save", "received", "receive",
			"savings", "salary", "got", "deposited",
		},
		Query: []string{
			"how much", "total", "summary", "show", "display",
			"list", "report", "view",
		},
		Delete:   []string{"delete", "remove", "cancel"},
		Update:   []string{"update", "change", "edit", "modify"},
		Greeting: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"},
		Help:     []string{"help", "what can you do", "commands", "how to use"},
		Advice:   []string{"save", "advice", "tip"},
		TimePeriods: []PeriodEntry{
			{Phrase: "today", Period: Today},
			{Phrase: "yesterday", Period: Yesterday},
			{Phrase: "this week", Period: Week},
			{Phrase: "week", Period: Week},
			{Phrase: "this month", Period: Month},
			{Phrase: "month", Period: Month},
			{Phrase: "monthly", Period: Month},
			{Phrase: "this year", Period: Year},
			{Phrase: "year", Period: Year},
		},
	}
}

// containsKeyword reports whether the lowercased message contains any table
// keyword.
func containsKeyword(message string, table []string) bool {
	_, ok := firstKeyword(message, table)
	return ok
}

// Words shorter than this bind to whole tokens instead of substrings.
const minSubstringLen = 4

// firstKeyword returns the first table keyword the message contains.
// Multi-word phrases and words of at least minSubstringLen characters match
// as substrings, which keeps inflected and punctuated forms working
// ("spend" in "spending", "week" in "weekly", "help" in "help?"). Shorter
// words match only whole punctuation-trimmed tokens: substring checks on
// them misclassify ("hi" inside "this").
func firstKeyword(message string, table []string) (string, bool) {
	msg := strings.ToLower(message)
	var tokens []string
	for _, kw := range table {
		if strings.ContainsRune(kw, ' ') || len(kw) >= minSubstringLen {
			if strings.Contains(msg, kw) {
				return kw, true
			}
			continue
		}
		if tokens == nil {
			tokens = tokenize(msg)
		}
		for _, tok := range tokens {
			if tok == kw {
				return kw, true
			}
		}
	}
	return "", false
}

// tokenize splits a lowercased message into fields with surrounding
// punctuation removed.
func tokenize(msg string) []string {
	fields := strings.Fields(msg)
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ExtractAction classifies a message as an expense or savings event. The
// expense table is consulted first; a message matching neither returns
// ok=false.
func (k Keywords) ExtractAction(message string) (core.TransactionType, bool) {
	if containsKeyword(message, k.ExpenseVerbs) {
		return core.Expense, true
	}
	if containsKeyword(message, k.SavingsVerbs) {
		return core.Savings, true
	}
	return "", false
}

// ConflictingActions reports whether the message carries both expense and
// savings verbs. It must be evaluated before any other intent check.
func (k Keywords) ConflictingActions(message string) ([]core.TransactionType, bool) {
	if containsKeyword(message, k.ExpenseVerbs) && containsKeyword(message, k.SavingsVerbs) {
		return []core.TransactionType{core.Expense, core.Savings}, true
	}
	return nil, false
}

// ExtractTimePeriod maps the first matching table phrase to its period.
func (k Keywords) ExtractTimePeriod(message string) (Period, bool) {
	for _, e := range k.TimePeriods {
		if containsKeyword(message, []string{e.Phrase}) {
			return e.Period, true
		}
	}
	return "", false
}

// IsGreeting reports a social opener.
func (k Keywords) IsGreeting(message string) bool {
	return containsKeyword(message, k.Greeting)
}

// IsHelpRequest reports a request for usage instructions.
func (k Keywords) IsHelpRequest(message string) bool {
	return containsKeyword(message, k.Help)
}

// IsDeleteRequest reports a request to remove a record.
func (k Keywords) IsDeleteRequest(message string) bool {
	return containsKeyword(message, k.Delete)
}

// IsUpdateRequest reports a request to modify a record.
func (k Keywords) IsUpdateRequest(message string) bool {
	return containsKeyword(message, k.Update)
}

// IsQuery reports a request for totals or listings.
func (k Keywords) IsQuery(message string) bool {
	return containsKeyword(message, k.Query)
}

// IsAdviceRequest reports a request for saving tips.
func (k Keywords) IsAdviceRequest(message string) bool {
	return containsKeyword(message, k.Advice)
}
