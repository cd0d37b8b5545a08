// Package responder turns intents and resolution outcomes into the
// natural-language replies shown to the user. All text is templated;
// conversational responses (greeting, help, advice) come from the canned
// response table with hardcoded fallbacks.
package responder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finchat/internal/core"
	"finchat/internal/resolver"
)

// ResponseSource serves canned response texts by type.
type ResponseSource interface {
	ResponseByType(ctx context.Context, responseType string) (string, error)
}

const (
	fallbackGreeting = "Hello! How can I help you today?"
	fallbackHelp     = `I can help you record transactions ("I spent 50 on lunch"), show summaries ("show month summary"), and delete or update records.`
	fallbackAdvice   = "Track your expenses daily and set a monthly budget to see where your money goes."
)

type Responder struct {
	source ResponseSource
}

func New(source ResponseSource) *Responder {
	return &Responder{source: source}
}

func (r *Responder) canned(ctx context.Context, responseType, fallback string) string {
	if r.source == nil {
		return fallback
	}
	text, err := r.source.ResponseByType(ctx, responseType)
	if err != nil {
		slog.WarnContext(ctx, "Canned response unavailable, using fallback",
			"type", responseType, "error", err)
		return fallback
	}
	return text
}

func (r *Responder) Greeting(ctx context.Context) string {
	return r.canned(ctx, "greeting", fallbackGreeting)
}

func (r *Responder) Help(ctx context.Context) string {
	return r.canned(ctx, "help", fallbackHelp)
}

func (r *Responder) Advice(ctx context.Context) string {
	return r.canned(ctx, "advice", fallbackAdvice)
}

// Recorded confirms a stored transaction. An empty category name renders
// as Miscellaneous.
func (r *Responder) Recorded(amount core.Money, categoryName string, action core.TransactionType) string {
	actionText := "spent on"
	if action == core.Savings {
		actionText = "saved in"
	}
	if categoryName == "" {
		categoryName = "Miscellaneous"
	}
	return fmt.Sprintf("Recorded: %s pesos %s %s", amount, actionText, categoryName)
}

// Deleted confirms removal of a transaction.
func (r *Responder) Deleted(t core.Transaction) string {
	name := t.CategoryName
	if name == "" {
		name = "Uncategorized"
	}
	return fmt.Sprintf("Deleted: %s pesos on %s", t.Amount, name)
}

// Updated confirms an amount change on an existing transaction.
func (r *Responder) Updated(t core.Transaction) string {
	name := t.CategoryName
	if name == "" {
		name = "Miscellaneous"
	}
	return fmt.Sprintf("Updated: set %s on %s to %s pesos", name, t.Date.Format("2006-01-02"), t.Amount)
}

// UpdateFailed maps each resolver failure to its own prompt so the user
// knows exactly what was missing.
func (r *Responder) UpdateFailed(err error) string {
	switch {
	case errors.Is(err, resolver.ErrMissingAmount):
		return `I couldn't find the new amount to update. Please say something like "update 250 in food on december 1".`
	case errors.Is(err, resolver.ErrMissingCategory):
		return "I couldn't determine the category to update. Please include a category name."
	case errors.Is(err, resolver.ErrMissingDate):
		return `I couldn't find a date to match. Please include a date like "on December 1".`
	case errors.Is(err, resolver.ErrInvalidDate):
		return "The date you provided looks invalid. Please try a different date."
	case errors.Is(err, resolver.ErrUpdateTargetNotFound):
		return "No matching transaction found for that category and date."
	default:
		return "Sorry, I couldn't update that transaction right now."
	}
}

// NothingToDelete is the reply when the store has no records to remove.
func (r *Responder) NothingToDelete() string {
	return "No recent transaction to delete."
}

// MissingAmount prompts for the number when an action verb arrived alone.
func (r *Responder) MissingAmount(action core.TransactionType) string {
	verb := "spent"
	if action == core.Savings {
		verb = "saved"
	}
	return fmt.Sprintf(`How much did you %s? Please include an amount, like "%s 50 on lunch".`, verb, verb)
}

// Ambiguous asks the user to clarify conflicting action verbs.
func (r *Responder) Ambiguous(conflicts []core.TransactionType) string {
	if len(conflicts) == 2 {
		return fmt.Sprintf("I see both %s and %s words in your message. Did you spend or save this amount?",
			conflicts[0], conflicts[1])
	}
	return "Your message mixes spending and saving words. Could you rephrase it?"
}

// Unknown is the fallback for unclassifiable messages.
func (r *Responder) Unknown() string {
	return `I'm not sure what you mean. Try saying "spent 50 on lunch" or "show today summary".`
}
