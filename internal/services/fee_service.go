// Package services orchestrates store writes with the export pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"acadesk/internal/core"
	"acadesk/internal/feegen"
	"acadesk/internal/storage"
)

// ExportPublisher announces paid fee records to the export worker. The
// AMQP client implements it; tests substitute a recorder.
type ExportPublisher interface {
	PublishFeeExport(ctx context.Context, feeID string) error
}

// FeeService owns fee payment transitions, generation and pruning. The
// store write always comes first; a failed publish is logged, not
// surfaced, because the periodic export sweep picks the record up from
// its pending state anyway.
type FeeService struct {
	store     storage.Store
	engine    *feegen.Engine
	publisher ExportPublisher
	now       func() time.Time
}

func NewFeeService(store storage.Store, publisher ExportPublisher) *FeeService {
	return &FeeService{
		store:     store,
		engine:    feegen.NewEngine(store),
		publisher: publisher,
		now:       time.Now,
	}
}

// MarkPaid settles a fee record with the given payment method and queues
// it for ledger export.
func (s *FeeService) MarkPaid(ctx context.Context, id string, method core.PaymentMethod) (core.FeeRecord, error) {
	rec, err := s.store.GetFee(ctx, id)
	if err != nil {
		return core.FeeRecord{}, fmt.Errorf("load fee record: %w", err)
	}

	if err := rec.MarkPaid(method, s.now()); err != nil {
		return core.FeeRecord{}, err
	}

	rec, err = s.store.UpdateFee(ctx, rec)
	if err != nil {
		return core.FeeRecord{}, fmt.Errorf("update fee record: %w", err)
	}

	if err := s.store.SetFeeExportState(ctx, rec.ID, storage.ExportPending); err != nil {
		slog.ErrorContext(ctx, "Failed to queue fee record for export",
			"id", rec.ID, "error", err)
	}

	s.publishExport(ctx, rec.ID)
	return rec, nil
}

// MarkPending reverts a settled record to pending and withdraws it from
// the export queue. Anything already written to the ledger stays there.
func (s *FeeService) MarkPending(ctx context.Context, id string) (core.FeeRecord, error) {
	rec, err := s.store.GetFee(ctx, id)
	if err != nil {
		return core.FeeRecord{}, fmt.Errorf("load fee record: %w", err)
	}

	rec.MarkPending()

	rec, err = s.store.UpdateFee(ctx, rec)
	if err != nil {
		return core.FeeRecord{}, fmt.Errorf("update fee record: %w", err)
	}

	if err := s.store.SetFeeExportState(ctx, rec.ID, storage.ExportNone); err != nil {
		slog.ErrorContext(ctx, "Failed to reset fee export state",
			"id", rec.ID, "error", err)
	}

	return rec, nil
}

// Generate runs a fee generation pass for the given period.
func (s *FeeService) Generate(ctx context.Context, month core.Month, year core.Year) (feegen.Summary, error) {
	return s.engine.Generate(ctx, month, year)
}

// EnsureCurrentMonth generates for the wall-clock month if it has no
// records yet. Called on startup and by the generation worker.
func (s *FeeService) EnsureCurrentMonth(ctx context.Context) (feegen.Summary, bool, error) {
	return s.engine.EnsureCurrentMonth(ctx, s.now())
}

// MarkOverdue flips pending records from past months to overdue.
func (s *FeeService) MarkOverdue(ctx context.Context) (int, error) {
	return s.engine.MarkOverdue(ctx, s.now())
}

// Prune deletes every fee record outside the given operating month.
func (s *FeeService) Prune(ctx context.Context, month core.Month, year core.Year) (feegen.PruneResult, error) {
	return s.engine.Prune(ctx, month, year)
}

func (s *FeeService) publishExport(ctx context.Context, feeID string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Export publisher not available, relying on sweep", "fee_id", feeID)
		return
	}
	if err := s.publisher.PublishFeeExport(ctx, feeID); err != nil {
		// The record stays pending; the sweep retries it.
		slog.ErrorContext(ctx, "Failed to publish fee export message",
			"fee_id", feeID, "error", err)
	}
}
