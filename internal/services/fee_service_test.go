package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"acadesk/internal/core"
	"acadesk/internal/storage/memstore"
)

type recordingPublisher struct {
	published []string
	err       error
}

func (p *recordingPublisher) PublishFeeExport(ctx context.Context, feeID string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, feeID)
	return nil
}

func newTestService(t *testing.T, pub *recordingPublisher) (*FeeService, *memstore.Store, core.FeeRecord) {
	t.Helper()
	store := memstore.New()
	rec, err := store.CreateFee(context.Background(), core.FeeRecord{
		StudentID: "s1", StudentName: "Aisha Khan", Batch: "Physics A",
		Amount: 800, Month: "July", Year: "2025", Status: core.FeePending,
	})
	if err != nil {
		t.Fatalf("seed fee: %v", err)
	}

	var p ExportPublisher
	if pub != nil {
		p = pub
	}
	svc := NewFeeService(store, p)
	svc.now = func() time.Time { return time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC) }
	return svc, store, rec
}

func TestMarkPaidSetsDetailsAndPublishes(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc, store, rec := newTestService(t, pub)

	got, err := svc.MarkPaid(ctx, rec.ID, core.PayUPI)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if got.Status != core.FeePaid {
		t.Errorf("status %q, want paid", got.Status)
	}
	if got.PaidDate == nil || !got.PaidDate.Equal(time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("paid date %v, want the service clock", got.PaidDate)
	}
	if got.PaymentMethod == nil || *got.PaymentMethod != core.PayUPI {
		t.Errorf("payment method %v, want upi", got.PaymentMethod)
	}
	if got.Amount != 800 {
		t.Errorf("amount changed to %d", got.Amount)
	}

	if len(pub.published) != 1 || pub.published[0] != rec.ID {
		t.Errorf("published %v, want [%s]", pub.published, rec.ID)
	}

	eligible, _ := store.ListFeesForExport(ctx, 0)
	if len(eligible) != 1 {
		t.Errorf("record not queued for export, eligible=%d", len(eligible))
	}
}

func TestMarkPaidRejectsUnknownMethod(t *testing.T) {
	svc, _, rec := newTestService(t, &recordingPublisher{})

	if _, err := svc.MarkPaid(context.Background(), rec.ID, core.PaymentMethod("crypto")); !errors.Is(err, core.ErrInvalidPaymentMethod) {
		t.Fatalf("got %v, want ErrInvalidPaymentMethod", err)
	}

	got, _ := svc.store.GetFee(context.Background(), rec.ID)
	if got.Status != core.FeePending {
		t.Errorf("record mutated by rejected payment: %q", got.Status)
	}
}

func TestMarkPaidUnknownRecord(t *testing.T) {
	svc, _, _ := newTestService(t, &recordingPublisher{})
	if _, err := svc.MarkPaid(context.Background(), "missing", core.PayCash); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMarkPaidSurvivesPublishFailure(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, store, rec := newTestService(t, pub)

	got, err := svc.MarkPaid(ctx, rec.ID, core.PayCash)
	if err != nil {
		t.Fatalf("MarkPaid with broken publisher: %v", err)
	}
	if got.Status != core.FeePaid {
		t.Errorf("status %q, want paid", got.Status)
	}

	// Still queued: the sweep will retry.
	eligible, _ := store.ListFeesForExport(ctx, 0)
	if len(eligible) != 1 {
		t.Errorf("record not left pending for sweep, eligible=%d", len(eligible))
	}
}

func TestMarkPaidWithoutPublisher(t *testing.T) {
	svc, _, rec := newTestService(t, nil)
	if _, err := svc.MarkPaid(context.Background(), rec.ID, core.PayBank); err != nil {
		t.Fatalf("MarkPaid without publisher: %v", err)
	}
}

func TestMarkPendingRevertsAndDequeues(t *testing.T) {
	ctx := context.Background()
	svc, store, rec := newTestService(t, &recordingPublisher{})

	if _, err := svc.MarkPaid(ctx, rec.ID, core.PayCash); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	got, err := svc.MarkPending(ctx, rec.ID)
	if err != nil {
		t.Fatalf("MarkPending: %v", err)
	}
	if got.Status != core.FeePending {
		t.Errorf("status %q, want pending", got.Status)
	}
	if got.PaidDate != nil || got.PaymentMethod != nil {
		t.Error("payment details not cleared")
	}

	eligible, _ := store.ListFeesForExport(ctx, 0)
	if len(eligible) != 0 {
		t.Errorf("reverted record still queued for export")
	}
}

func TestServiceGenerateAndPrune(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	if _, err := store.CreateStudent(ctx, core.Student{
		Name: "Aisha Khan", Fees: 800, Status: core.StatusActive,
	}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	svc := NewFeeService(store, &recordingPublisher{})
	svc.now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }

	sum, ran, err := svc.EnsureCurrentMonth(ctx)
	if err != nil {
		t.Fatalf("EnsureCurrentMonth: %v", err)
	}
	if !ran || sum.Created != 1 {
		t.Fatalf("summary %+v ran=%v, want one created record", sum, ran)
	}

	if _, err := svc.Generate(ctx, "June", "2025"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	res, err := svc.Prune(ctx, "July", "2025")
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if res.Kept != 1 || len(res.RemovedIDs) != 1 {
		t.Fatalf("prune result %+v, want kept=1 removed=1", res)
	}
}
