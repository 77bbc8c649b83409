// Package worker drains paid fee records into the payments ledger.
// Messages from the dashboard are the fast path; a periodic sweep over
// records still marked pending covers lost messages and downtime.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"acadesk/internal/amqp"
	"acadesk/internal/core"
	"acadesk/internal/ledger"
	"acadesk/internal/storage"
)

type ExportWorker struct {
	store     storage.Store
	ledger    ledger.PaymentWriter
	batchSize int
}

func NewExportWorker(store storage.Store, writer ledger.PaymentWriter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		store:     store,
		ledger:    writer,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes one fee export message. The record is
// re-read from the store so the ledger always gets the current row; a
// record that was reverted to pending before the message arrived is
// dropped without an error.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.FeeExportMessage) error {
	rec, err := w.store.GetFee(ctx, msg.FeeID)
	if err != nil {
		return fmt.Errorf("get fee record: %w", err)
	}

	if !rec.Paid() {
		slog.InfoContext(ctx, "Fee record no longer paid, skipping export", "fee_id", rec.ID)
		return nil
	}

	return w.exportRecord(ctx, rec)
}

// ProcessPending exports records still marked pending or errored. This
// is the backup mechanism for lost messages.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	records, err := w.store.ListFeesForExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list fee records for export: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending fee exports", "count", len(records))

	for _, rec := range records {
		if !rec.Paid() {
			// Stuck pending state on an unpaid record; clear it.
			if err := w.store.SetFeeExportState(ctx, rec.ID, storage.ExportNone); err != nil {
				slog.ErrorContext(ctx, "Failed to clear export state", "fee_id", rec.ID, "error", err)
			}
			continue
		}
		if err := w.exportRecord(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to export fee record", "fee_id", rec.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupCheck drains a larger backlog once, on worker start.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	records, err := w.store.ListFeesForExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list fee records for startup check: %w", err)
	}
	if len(records) == 0 {
		slog.InfoContext(ctx, "No pending fee exports on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending fee exports on startup", "count", len(records))

	exported := 0
	failed := 0
	for _, rec := range records {
		if !rec.Paid() {
			continue
		}
		if err := w.exportRecord(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to export fee record during startup",
				"fee_id", rec.ID, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(records), "exported", exported, "errors", failed)

	return nil
}

func (w *ExportWorker) exportRecord(ctx context.Context, rec core.FeeRecord) error {
	ref, err := w.ledger.Append(ctx, rec)
	if err != nil {
		if markErr := w.store.SetFeeExportState(ctx, rec.ID, storage.ExportError); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "fee_id", rec.ID, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.store.SetFeeExportState(ctx, rec.ID, storage.ExportDone); err != nil {
		// The ledger write succeeded; the sweep may re-export this row.
		slog.ErrorContext(ctx, "Failed to mark record exported", "fee_id", rec.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported fee record to ledger",
		"fee_id", rec.ID,
		"ledger_ref", ref,
		"student", rec.StudentName,
		"amount", rec.Amount)

	return nil
}
