package core

import (
	"testing"
	"time"
)

func TestStudentValidate(t *testing.T) {
	good := Student{Name: "Aisha Khan", Batch: "Physics A", Fees: 800, Status: StatusActive}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Student{
		{Name: "", Fees: 800, Status: StatusActive},
		{Name: "   ", Fees: 800, Status: StatusActive},
		{Name: "x", Fees: 0, Status: StatusActive},
		{Name: "x", Fees: -5, Status: StatusActive},
		{Name: "x", Fees: 800, Status: "enrolled"},
	}
	for i, s := range bads {
		if err := s.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestFeeRecordValidate(t *testing.T) {
	good := FeeRecord{
		StudentID: "s1", StudentName: "Aisha", Batch: "Physics A",
		Amount: 800, Month: "July", Year: "2025", Status: FeePending,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []FeeRecord{
		{StudentID: "", Amount: 800, Month: "July", Year: "2025", Status: FeePending},
		{StudentID: "s1", Amount: 0, Month: "July", Year: "2025", Status: FeePending},
		{StudentID: "s1", Amount: 800, Month: "Jul", Year: "2025", Status: FeePending},
		{StudentID: "s1", Amount: 800, Month: "July", Year: "25", Status: FeePending},
		{StudentID: "s1", Amount: 800, Month: "July", Year: "2025", Status: "due"},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestFeeRecordTransitions(t *testing.T) {
	r := FeeRecord{
		StudentID: "s1", Amount: 800, Month: "July", Year: "2025", Status: FeePending,
	}
	when := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)

	if err := r.MarkPaid(PayUPI, when); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if r.Status != FeePaid {
		t.Fatalf("status = %q, want paid", r.Status)
	}
	if r.PaidDate == nil || !r.PaidDate.Equal(when) {
		t.Fatalf("paid date not set")
	}
	if r.PaymentMethod == nil || *r.PaymentMethod != PayUPI {
		t.Fatalf("payment method not set")
	}
	if r.Amount != 800 {
		t.Fatalf("amount changed by transition")
	}

	r.MarkPending()
	if r.Status != FeePending {
		t.Fatalf("status = %q, want pending", r.Status)
	}
	if r.PaidDate != nil || r.PaymentMethod != nil {
		t.Fatalf("paid date and method should be cleared")
	}
	if r.Amount != 800 {
		t.Fatalf("amount changed by transition")
	}
}

func TestFeeRecordMarkPaidRejectsBadMethod(t *testing.T) {
	r := FeeRecord{StudentID: "s1", Amount: 800, Month: "July", Year: "2025", Status: FeePending}
	if err := r.MarkPaid("card", time.Now()); err == nil {
		t.Fatalf("expected error for unknown payment method")
	}
	if r.Status != FeePending {
		t.Fatalf("failed transition must not change status")
	}
}

func TestSalaryRecordValidate(t *testing.T) {
	good := SalaryRecord{
		TeacherID: "t1", TeacherName: "Mr. Rao", Amount: 15000,
		Month: "July", Year: "2025", PaymentDate: time.Now(),
		PaymentMethod: PayBank, Type: SalaryPartial,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.Type = "advance"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown salary type")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Name: "Chalk", Amount: 120, Date: time.Now()}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Expense{
		{Name: "", Amount: 120, Date: time.Now()},
		{Name: "Chalk", Amount: 0, Date: time.Now()},
		{Name: "Chalk", Amount: 120},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
