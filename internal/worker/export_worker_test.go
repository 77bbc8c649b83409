package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"acadesk/internal/amqp"
	"acadesk/internal/core"
	"acadesk/internal/ledger/memory"
	"acadesk/internal/storage"
	"acadesk/internal/storage/memstore"
)

func seedPaidFee(t *testing.T, store *memstore.Store, student string) core.FeeRecord {
	t.Helper()
	ctx := context.Background()
	rec, err := store.CreateFee(ctx, core.FeeRecord{
		StudentID: student, StudentName: "Aisha Khan", Batch: "Physics A",
		Amount: 800, Month: "July", Year: "2025", Status: core.FeePending,
	})
	if err != nil {
		t.Fatalf("seed fee: %v", err)
	}
	if err := rec.MarkPaid(core.PayCash, time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if _, err := store.UpdateFee(ctx, rec); err != nil {
		t.Fatalf("update fee: %v", err)
	}
	if err := store.SetFeeExportState(ctx, rec.ID, storage.ExportPending); err != nil {
		t.Fatalf("set export state: %v", err)
	}
	return rec
}

func TestHandleExportMessage(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	led := memory.New()
	rec := seedPaidFee(t, store, "s1")

	w := NewExportWorker(store, led, 0)
	if err := w.HandleExportMessage(ctx, amqp.NewFeeExportMessage(rec.ID)); err != nil {
		t.Fatalf("HandleExportMessage: %v", err)
	}

	rows := led.Rows()
	if len(rows) != 1 || rows[0].ID != rec.ID {
		t.Fatalf("ledger rows %+v, want the paid record", rows)
	}

	// Marked exported: no longer in the sweep set.
	eligible, _ := store.ListFeesForExport(ctx, 0)
	if len(eligible) != 0 {
		t.Errorf("record still eligible after export")
	}
}

func TestHandleExportMessageUnknownRecord(t *testing.T) {
	w := NewExportWorker(memstore.New(), memory.New(), 0)
	err := w.HandleExportMessage(context.Background(), amqp.NewFeeExportMessage("missing"))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestHandleExportMessageSkipsRevertedRecord(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	led := memory.New()
	rec := seedPaidFee(t, store, "s1")

	// Reverted between publish and delivery.
	got, _ := store.GetFee(ctx, rec.ID)
	got.MarkPending()
	if _, err := store.UpdateFee(ctx, got); err != nil {
		t.Fatalf("revert fee: %v", err)
	}

	w := NewExportWorker(store, led, 0)
	if err := w.HandleExportMessage(ctx, amqp.NewFeeExportMessage(rec.ID)); err != nil {
		t.Fatalf("HandleExportMessage on reverted record: %v", err)
	}
	if len(led.Rows()) != 0 {
		t.Error("reverted record was exported")
	}
}

type failingLedger struct{ err error }

func (f failingLedger) Append(ctx context.Context, r core.FeeRecord) (string, error) {
	return "", f.err
}

func TestExportFailureMarksError(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	rec := seedPaidFee(t, store, "s1")

	w := NewExportWorker(store, failingLedger{errors.New("quota exceeded")}, 0)
	if err := w.HandleExportMessage(ctx, amqp.NewFeeExportMessage(rec.ID)); err == nil {
		t.Fatal("expected error from failing ledger")
	}

	// Errored records stay in the sweep set for retry.
	eligible, err := store.ListFeesForExport(ctx, 0)
	if err != nil {
		t.Fatalf("ListFeesForExport: %v", err)
	}
	if len(eligible) != 1 {
		t.Fatalf("errored record not retryable, eligible=%d", len(eligible))
	}
}

func TestProcessPendingSweep(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	led := memory.New()

	first := seedPaidFee(t, store, "s1")
	second := seedPaidFee(t, store, "s2")

	// A pending-state record that is not actually paid: the sweep must
	// clear it rather than export it.
	odd, err := store.CreateFee(ctx, core.FeeRecord{
		StudentID: "s3", Amount: 500, Month: "July", Year: "2025", Status: core.FeePending,
	})
	if err != nil {
		t.Fatalf("seed fee: %v", err)
	}
	if err := store.SetFeeExportState(ctx, odd.ID, storage.ExportPending); err != nil {
		t.Fatalf("set export state: %v", err)
	}

	w := NewExportWorker(store, led, 10)
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	rows := led.Rows()
	if len(rows) != 2 {
		t.Fatalf("exported %d rows, want 2", len(rows))
	}
	got := map[string]bool{rows[0].ID: true, rows[1].ID: true}
	if !got[first.ID] || !got[second.ID] {
		t.Errorf("exported %v, want %s and %s", got, first.ID, second.ID)
	}

	eligible, _ := store.ListFeesForExport(ctx, 0)
	if len(eligible) != 0 {
		t.Errorf("%d records still eligible after sweep", len(eligible))
	}
}

func TestStartupCheckDrainsBacklog(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	led := memory.New()
	seedPaidFee(t, store, "s1")
	seedPaidFee(t, store, "s2")
	seedPaidFee(t, store, "s3")

	w := NewExportWorker(store, led, 1)
	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("StartupCheck: %v", err)
	}
	// Startup uses a widened batch (batchSize*5), so all three fit.
	if len(led.Rows()) != 3 {
		t.Fatalf("exported %d rows on startup, want 3", len(led.Rows()))
	}
}
