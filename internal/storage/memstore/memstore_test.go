package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"acadesk/internal/core"
	"acadesk/internal/storage"
)

func TestStudentCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateStudent(ctx, core.Student{
		Name: "Aisha Khan", Batch: "Physics A", Fees: 1200,
		Status: core.StatusActive, JoinDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateStudent did not assign an id")
	}

	got, err := s.GetStudent(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetStudent: %v", err)
	}
	if got.Name != "Aisha Khan" {
		t.Errorf("got name %q, want %q", got.Name, "Aisha Khan")
	}

	got.Status = core.StatusInactive
	if _, err := s.UpdateStudent(ctx, got); err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}
	got, _ = s.GetStudent(ctx, created.ID)
	if got.Status != core.StatusInactive {
		t.Errorf("status not updated, got %q", got.Status)
	}

	if err := s.DeleteStudent(ctx, created.ID); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if _, err := s.GetStudent(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.UpdateStudent(ctx, core.Student{ID: "missing"}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateStudent: got %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateFee(ctx, core.FeeRecord{ID: "missing"}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateFee: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteExpense(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("DeleteExpense: got %v, want ErrNotFound", err)
	}
}

func TestBatchNameUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.CreateBatch(ctx, core.Batch{Name: "Physics A", Status: core.StatusActive})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if _, err := s.CreateBatch(ctx, core.Batch{Name: "Physics A", Status: core.StatusActive}); !errors.Is(err, core.ErrDuplicateRecord) {
		t.Fatalf("duplicate name create: got %v, want ErrDuplicateRecord", err)
	}

	second, err := s.CreateBatch(ctx, core.Batch{Name: "Chemistry B", Status: core.StatusActive})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	second.Name = first.Name
	if _, err := s.UpdateBatch(ctx, second); !errors.Is(err, core.ErrDuplicateRecord) {
		t.Fatalf("rename onto taken name: got %v, want ErrDuplicateRecord", err)
	}
}

func TestFeeUniquenessPerStudentMonthYear(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := core.FeeRecord{
		StudentID: "s1", StudentName: "Aisha Khan", Batch: "Physics A",
		Amount: 800, Month: core.Month("July"), Year: core.Year("2025"),
		Status: core.FeePending,
	}
	created, err := s.CreateFee(ctx, rec)
	if err != nil {
		t.Fatalf("CreateFee: %v", err)
	}

	if _, err := s.CreateFee(ctx, rec); !errors.Is(err, core.ErrDuplicateRecord) {
		t.Fatalf("same period create: got %v, want ErrDuplicateRecord", err)
	}

	// A different month for the same student is fine.
	rec.Month = core.Month("August")
	other, err := s.CreateFee(ctx, rec)
	if err != nil {
		t.Fatalf("CreateFee (August): %v", err)
	}

	// Moving the August record onto July's key must be refused.
	other.Month = core.Month("July")
	if _, err := s.UpdateFee(ctx, other); !errors.Is(err, core.ErrDuplicateRecord) {
		t.Fatalf("update onto taken key: got %v, want ErrDuplicateRecord", err)
	}

	// Deleting the July record frees its key.
	if err := s.DeleteFee(ctx, created.ID); err != nil {
		t.Fatalf("DeleteFee: %v", err)
	}
	if _, err := s.UpdateFee(ctx, other); err != nil {
		t.Fatalf("update after key freed: %v", err)
	}
}

func TestExportStateLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	mk := func(student string, month core.Month) core.FeeRecord {
		r, err := s.CreateFee(ctx, core.FeeRecord{
			StudentID: student, Amount: 500,
			Month: month, Year: core.Year("2025"), Status: core.FeePending,
		})
		if err != nil {
			t.Fatalf("CreateFee: %v", err)
		}
		return r
	}

	a := mk("s1", core.Month("July"))
	b := mk("s2", core.Month("July"))
	c := mk("s3", core.Month("July"))

	// New records are not eligible for export.
	eligible, err := s.ListFeesForExport(ctx, 0)
	if err != nil {
		t.Fatalf("ListFeesForExport: %v", err)
	}
	if len(eligible) != 0 {
		t.Fatalf("expected no eligible records, got %d", len(eligible))
	}

	if err := s.SetFeeExportState(ctx, a.ID, storage.ExportPending); err != nil {
		t.Fatalf("SetFeeExportState: %v", err)
	}
	if err := s.SetFeeExportState(ctx, b.ID, storage.ExportError); err != nil {
		t.Fatalf("SetFeeExportState: %v", err)
	}
	if err := s.SetFeeExportState(ctx, c.ID, storage.ExportDone); err != nil {
		t.Fatalf("SetFeeExportState: %v", err)
	}

	// Pending and errored are retried; exported is finished.
	eligible, err = s.ListFeesForExport(ctx, 0)
	if err != nil {
		t.Fatalf("ListFeesForExport: %v", err)
	}
	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible records, got %d", len(eligible))
	}

	eligible, err = s.ListFeesForExport(ctx, 1)
	if err != nil {
		t.Fatalf("ListFeesForExport(limit): %v", err)
	}
	if len(eligible) != 1 {
		t.Fatalf("limit ignored, got %d records", len(eligible))
	}

	if err := s.SetFeeExportState(ctx, "missing", storage.ExportPending); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("SetFeeExportState on missing record: got %v, want ErrNotFound", err)
	}
}

func TestSalaryAllowsMultiplePerTeacherPerMonth(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := core.SalaryRecord{
		TeacherID: "t1", TeacherName: "Mr. Verma", Amount: 5000,
		Month: core.Month("July"), Year: core.Year("2025"),
		PaymentDate: time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		PaymentMethod: core.PayCash, Type: core.SalaryPartial,
	}
	if _, err := s.CreateSalary(ctx, rec); err != nil {
		t.Fatalf("CreateSalary: %v", err)
	}
	if _, err := s.CreateSalary(ctx, rec); err != nil {
		t.Fatalf("second partial payment refused: %v", err)
	}

	all, err := s.ListSalaries(ctx)
	if err != nil {
		t.Fatalf("ListSalaries: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 salary records, got %d", len(all))
	}
}
