// Package worker mirrors stored transactions into the Google Sheets export
// by consuming sync and delete events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finchat/internal/amqp"
	"finchat/internal/core"
	"finchat/internal/sheets"
	"finchat/internal/storage"
)

// Store is the read surface the worker needs from the record store.
type Store interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListMostRecent(ctx context.Context, n int) ([]core.Transaction, error)
}

// SyncWorker applies sync and delete events to the export sheet.
type SyncWorker struct {
	store     Store
	writer    sheets.TransactionWriter
	remover   sheets.TransactionRemover
	batchSize int
}

func NewSyncWorker(store Store, writer sheets.TransactionWriter, remover sheets.TransactionRemover, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		writer:    writer,
		remover:   remover,
		batchSize: batchSize,
	}
}

// HandleSyncMessage exports one transaction. The record is re-read from the
// store so the sheet always reflects the latest revision; for amendments the
// stale row is removed before the new one is appended.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"revision", msg.Revision)

	t, err := w.store.GetTransaction(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between publish and consume; the delete event will follow.
		slog.WarnContext(ctx, "Transaction no longer exists, skipping sync", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.export(ctx, t, msg.Revision > 1)
}

// HandleDeleteMessage removes the exported row for a deleted transaction.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.TransactionDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if w.remover == nil {
		slog.WarnContext(ctx, "No row remover configured, skipping sheet deletion", "id", msg.ID)
		return nil
	}

	if err := w.remover.RemoveByID(ctx, msg.ID); err != nil {
		return fmt.Errorf("remove row from sheet: %w", err)
	}

	slog.InfoContext(ctx, "Removed exported row", "id", msg.ID)
	return nil
}

// StartupSyncCheck re-exports the most recent batch of transactions. Events
// published while the worker was down are recovered this way; re-exporting a
// row that is already current is harmless because the stale copy is removed
// first.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	recent, err := w.store.ListMostRecent(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list recent transactions for startup check: %w", err)
	}

	if len(recent) == 0 {
		slog.InfoContext(ctx, "No transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Re-exporting recent transactions", "count", len(recent))

	synced := 0
	failed := 0
	for _, t := range recent {
		if err := w.export(ctx, t, true); err != nil {
			slog.ErrorContext(ctx, "Failed to re-export transaction", "id", t.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(recent),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) export(ctx context.Context, t core.Transaction, replace bool) error {
	if replace && w.remover != nil {
		if err := w.remover.RemoveByID(ctx, t.ID); err != nil {
			return fmt.Errorf("remove stale row: %w", err)
		}
	}

	ref, err := w.writer.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", t.ID,
		"sheets_ref", ref,
		"amount_cents", t.Amount.Cents)

	return nil
}
