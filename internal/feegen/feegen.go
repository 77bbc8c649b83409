// Package feegen implements fee-record generation and reconciliation.
//
// Generation guarantees that every active student has exactly one fee
// record for the operating month. The store's unique index on
// (student_id, month, year) is the authoritative guard; the planning
// pre-check here only avoids pointless writes and may race under
// concurrent writers, in which case the duplicate create is skipped.
package feegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"acadesk/internal/core"
)

// Store is the slice of the record store the engine needs.
type Store interface {
	ListStudents(ctx context.Context) ([]core.Student, error)
	ListFees(ctx context.Context) ([]core.FeeRecord, error)
	CreateFee(ctx context.Context, r core.FeeRecord) (core.FeeRecord, error)
	UpdateFee(ctx context.Context, r core.FeeRecord) (core.FeeRecord, error)
	DeleteFee(ctx context.Context, id string) error
}

// Engine runs generation, overdue transitions and pruning against a store.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Summary reports one generation pass.
type Summary struct {
	Month   core.Month `json:"month"`
	Year    core.Year  `json:"year"`
	Planned int        `json:"planned"`
	Created int        `json:"created"`
	Skipped int        `json:"skipped"`
}

// PruneResult reports one reconciliation pass.
type PruneResult struct {
	Month      core.Month `json:"month"`
	Year       core.Year  `json:"year"`
	Kept       int        `json:"kept"`
	RemovedIDs []string   `json:"removedIds"`
}

// Plan computes the fee records that must be created so every active
// student is covered for (month, year). Pure: inputs are not mutated.
// Inactive students never get a record; students already covered are
// skipped via the (studentID, month, year) key set.
func Plan(month core.Month, year core.Year, students []core.Student, existing []core.FeeRecord) []core.FeeRecord {
	type key struct {
		student string
		month   core.Month
		year    core.Year
	}

	covered := make(map[key]struct{}, len(existing))
	for _, r := range existing {
		covered[key{r.StudentID, r.Month, r.Year}] = struct{}{}
	}

	var planned []core.FeeRecord
	for _, s := range students {
		if s.Status != core.StatusActive {
			continue
		}
		if _, ok := covered[key{s.ID, month, year}]; ok {
			continue
		}
		planned = append(planned, core.FeeRecord{
			ID:          uuid.NewString(),
			StudentID:   s.ID,
			StudentName: s.Name,
			Batch:       s.Batch,
			Amount:      s.Fees,
			Month:       month,
			Year:        year,
			Status:      core.FeePending,
		})
	}
	return planned
}

// Generate ensures coverage for (month, year). Each create is
// independent: a duplicate is logged and skipped, the rest of the batch
// proceeds. A store outage aborts the pass immediately, since partial
// generation under an unreachable store cannot be reasoned about.
func (e *Engine) Generate(ctx context.Context, month core.Month, year core.Year) (Summary, error) {
	sum := Summary{Month: month, Year: year}

	if err := month.Validate(); err != nil {
		return sum, err
	}
	if err := year.Validate(); err != nil {
		return sum, err
	}

	students, err := e.store.ListStudents(ctx)
	if err != nil {
		return sum, fmt.Errorf("list students: %w", err)
	}
	existing, err := e.store.ListFees(ctx)
	if err != nil {
		return sum, fmt.Errorf("list fee records: %w", err)
	}

	planned := Plan(month, year, students, existing)
	sum.Planned = len(planned)

	for _, r := range planned {
		if _, err := e.store.CreateFee(ctx, r); err != nil {
			if errors.Is(err, core.ErrDuplicateRecord) {
				slog.InfoContext(ctx, "Skipping duplicate fee record",
					"student_id", r.StudentID, "month", r.Month, "year", r.Year)
				sum.Skipped++
				continue
			}
			if errors.Is(err, core.ErrStoreUnavailable) {
				return sum, fmt.Errorf("create fee record: %w", err)
			}
			slog.ErrorContext(ctx, "Fee record create failed",
				"student_id", r.StudentID, "month", r.Month, "year", r.Year, "error", err)
			sum.Skipped++
			continue
		}
		sum.Created++
	}

	slog.InfoContext(ctx, "Fee generation completed",
		"month", month, "year", year,
		"planned", sum.Planned, "created", sum.Created, "skipped", sum.Skipped)

	return sum, nil
}

// EnsureCurrentMonth generates for the wall-clock month only when no
// record for it exists yet. This is the automatic trigger; it never
// backfills past months.
func (e *Engine) EnsureCurrentMonth(ctx context.Context, now time.Time) (Summary, bool, error) {
	month, year := core.CurrentPeriod(now)

	existing, err := e.store.ListFees(ctx)
	if err != nil {
		return Summary{}, false, fmt.Errorf("list fee records: %w", err)
	}
	for _, r := range existing {
		if r.Month == month && r.Year == year {
			return Summary{Month: month, Year: year}, false, nil
		}
	}

	sum, err := e.Generate(ctx, month, year)
	return sum, err == nil, err
}

// MarkOverdue flips pending records from months strictly before now to
// overdue. Paid records are never touched.
func (e *Engine) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	month, year := core.CurrentPeriod(now)

	records, err := e.store.ListFees(ctx)
	if err != nil {
		return 0, fmt.Errorf("list fee records: %w", err)
	}

	flipped := 0
	for _, r := range records {
		if r.Status != core.FeePending {
			continue
		}
		if !core.PeriodBefore(r.Month, r.Year, month, year) {
			continue
		}
		r.Status = core.FeeOverdue
		if _, err := e.store.UpdateFee(ctx, r); err != nil {
			if errors.Is(err, core.ErrStoreUnavailable) {
				return flipped, fmt.Errorf("update fee record: %w", err)
			}
			slog.ErrorContext(ctx, "Overdue transition failed", "id", r.ID, "error", err)
			continue
		}
		flipped++
	}

	if flipped > 0 {
		slog.InfoContext(ctx, "Marked past-month records overdue", "count", flipped)
	}
	return flipped, nil
}

// Prune deletes every fee record outside the given operating month and
// reports what was removed. Destructive and irreversible; callers must
// treat it as an explicit, operator-acknowledged maintenance action.
func (e *Engine) Prune(ctx context.Context, month core.Month, year core.Year) (PruneResult, error) {
	res := PruneResult{Month: month, Year: year}

	if err := month.Validate(); err != nil {
		return res, err
	}
	if err := year.Validate(); err != nil {
		return res, err
	}

	records, err := e.store.ListFees(ctx)
	if err != nil {
		return res, fmt.Errorf("list fee records: %w", err)
	}

	for _, r := range records {
		if r.Month == month && r.Year == year {
			res.Kept++
			continue
		}
		if err := e.store.DeleteFee(ctx, r.ID); err != nil {
			if errors.Is(err, core.ErrStoreUnavailable) {
				return res, fmt.Errorf("delete fee record: %w", err)
			}
			// Already gone is fine for a destructive sweep.
			if !errors.Is(err, core.ErrNotFound) {
				slog.ErrorContext(ctx, "Fee record delete failed", "id", r.ID, "error", err)
				res.Kept++
				continue
			}
		}
		res.RemovedIDs = append(res.RemovedIDs, r.ID)
	}

	slog.WarnContext(ctx, "Fee reconciliation pruned records",
		"month", month, "year", year,
		"kept", res.Kept, "removed", len(res.RemovedIDs))

	return res, nil
}
