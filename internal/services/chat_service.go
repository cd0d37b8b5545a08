// Package services orchestrates the chat flow: parse the message, act on
// the store, compose the reply.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finchat/internal/chart"
	"finchat/internal/core"
	"finchat/internal/parser"
	"finchat/internal/report"
	"finchat/internal/resolver"
	"finchat/internal/responder"
)

// Store is the mutation surface the chat service needs; reads go through
// the resolver and report collaborators.
type Store interface {
	Create(ctx context.Context, txType core.TransactionType, amount core.Money, categoryID *int64, description string, date time.Time) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// Publisher emits sync events after store mutations. A nil Publisher is
// tolerated: the assistant works without the export pipeline.
type Publisher interface {
	PublishTransactionSync(ctx context.Context, id, revision int64) error
	PublishTransactionDelete(ctx context.Context, id int64) error
}

// Revision markers on sync events; the worker re-reads the record either way.
const (
	revisionCreated = 1
	revisionAmended = 2
)

// Reply is what the chat surface renders.
type Reply struct {
	Text   string
	Intent parser.Kind
	Chart  *chart.Chart
}

type ChatService struct {
	classifier *parser.Classifier
	store      Store
	resolver   *resolver.Resolver
	reports    *report.Generator
	responder  *responder.Responder
	publisher  Publisher
}

func NewChatService(classifier *parser.Classifier, store Store, res *resolver.Resolver, reports *report.Generator, resp *responder.Responder, publisher Publisher) *ChatService {
	return &ChatService{
		classifier: classifier,
		store:      store,
		resolver:   res,
		reports:    reports,
		responder:  resp,
		publisher:  publisher,
	}
}

// Handle processes one user message end to end. Expected misses (no
// matching record, missing fields) become replies, not errors; only store
// and report failures propagate.
func (s *ChatService) Handle(ctx context.Context, message string) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, core.ErrEmptyMessage
	}

	intent := s.classifier.Parse(message)
	reply := Reply{Intent: intent.Kind}

	switch intent.Kind {
	case parser.RecordTransaction:
		text, err := s.record(ctx, intent)
		if err != nil {
			return Reply{}, err
		}
		reply.Text = text

	case parser.Query:
		period := intent.Period
		if period == "" {
			period = parser.Today
		}
		summary, err := s.reports.Summarize(ctx, period)
		if err != nil {
			return Reply{}, err
		}
		reply.Text = summary.Text()
		reply.Chart = chart.CategoryPie(summary.ByCategory)

	case parser.Delete:
		text, err := s.delete(ctx)
		if err != nil {
			return Reply{}, err
		}
		reply.Text = text

	case parser.Update:
		text, err := s.update(ctx, intent)
		if err != nil {
			return Reply{}, err
		}
		reply.Text = text

	case parser.Greeting:
		reply.Text = s.responder.Greeting(ctx)
	case parser.Help:
		reply.Text = s.responder.Help(ctx)
	case parser.Advice:
		reply.Text = s.responder.Advice(ctx)
	case parser.MissingAmount:
		reply.Text = s.responder.MissingAmount(intent.Action)
	case parser.Ambiguous:
		reply.Text = s.responder.Ambiguous(intent.Conflicts)
	default:
		reply.Text = s.responder.Unknown()
	}

	return reply, nil
}

func (s *ChatService) record(ctx context.Context, intent parser.Intent) (string, error) {
	var (
		categoryID   *int64
		categoryName string
	)
	if intent.Category != nil {
		id := intent.Category.ID
		categoryID = &id
		categoryName = intent.Category.Name
	}

	id, err := s.store.Create(ctx, intent.Action, *intent.Amount, categoryID, intent.Description, intent.Date)
	if err != nil {
		return "", fmt.Errorf("record transaction: %w", err)
	}

	s.publishSync(ctx, id, revisionCreated)
	return s.responder.Recorded(*intent.Amount, categoryName, intent.Action), nil
}

func (s *ChatService) delete(ctx context.Context) (string, error) {
	target, err := s.resolver.ResolveDelete(ctx)
	if errors.Is(err, resolver.ErrDeleteTargetNotFound) {
		return s.responder.NothingToDelete(), nil
	}
	if err != nil {
		return "", err
	}

	if err := s.store.Delete(ctx, target.ID); err != nil {
		return "", fmt.Errorf("delete transaction %d: %w", target.ID, err)
	}

	s.publishDelete(ctx, target.ID)
	return s.responder.Deleted(target), nil
}

var updateMisses = []error{
	resolver.ErrMissingAmount,
	resolver.ErrMissingCategory,
	resolver.ErrMissingDate,
	resolver.ErrInvalidDate,
	resolver.ErrUpdateTargetNotFound,
}

func (s *ChatService) update(ctx context.Context, intent parser.Intent) (string, error) {
	target, err := s.resolver.ResolveUpdate(ctx, intent.Amount, intent.Category, intent.Date)
	if err != nil {
		for _, miss := range updateMisses {
			if errors.Is(err, miss) {
				return s.responder.UpdateFailed(err), nil
			}
		}
		return "", err
	}

	s.publishSync(ctx, target.ID, revisionAmended)
	return s.responder.Updated(target), nil
}

// publishSync is best-effort: the record is already safe in the store, so a
// queue outage must not fail the request.
func (s *ChatService) publishSync(ctx context.Context, id, revision int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping sync message", "id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, revision); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}

func (s *ChatService) publishDelete(ctx context.Context, id int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping delete message", "id", id)
		return
	}
	if err := s.publisher.PublishTransactionDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
	}
}
