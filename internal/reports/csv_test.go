package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"acadesk/internal/core"
)

func TestWriteFeeRecords(t *testing.T) {
	when := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	method := core.PayUPI
	records := []core.FeeRecord{
		{ID: "f1", StudentName: "Aisha Khan", Batch: "Physics A", Month: "July", Year: "2025",
			Amount: 800, Status: core.FeePaid, PaidDate: &when, PaymentMethod: &method},
		{ID: "f2", StudentName: "Rohan Mehta", Batch: "Physics A", Month: "July", Year: "2025",
			Amount: 900, Status: core.FeePending},
	}

	var buf bytes.Buffer
	if err := WriteFeeRecords(&buf, records); err != nil {
		t.Fatalf("WriteFeeRecords: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("%d rows, want header + 2", len(rows))
	}
	if rows[1][7] != "2025-07-15" || rows[1][8] != "upi" {
		t.Errorf("paid row %v, want paid date and method", rows[1])
	}
	if rows[2][7] != "" || rows[2][8] != "" {
		t.Errorf("pending row %v, want empty payment columns", rows[2])
	}
}

func TestWriteMonthlySeriesHasTwelveRows(t *testing.T) {
	buckets := core.MonthlySeries(nil, "2025")

	var buf bytes.Buffer
	if err := WriteMonthlySeries(&buf, buckets, "2025"); err != nil {
		t.Fatalf("WriteMonthlySeries: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 13 {
		t.Fatalf("%d rows, want header + 12", len(rows))
	}
	if rows[1][0] != "January" || rows[12][0] != "December" {
		t.Errorf("months out of order: first %q last %q", rows[1][0], rows[12][0])
	}
}

func TestWriteDefaultersContactToggle(t *testing.T) {
	defaulters := []core.Defaulter{
		{StudentName: "Aisha Khan", Batch: "Physics A", Amount: 800, MonthsOverdue: 3, Contact: "98765"},
	}

	var with bytes.Buffer
	if err := WriteDefaulters(&with, defaulters, true); err != nil {
		t.Fatalf("WriteDefaulters: %v", err)
	}
	if !strings.Contains(with.String(), "98765") {
		t.Error("contact missing from contact-visible export")
	}

	var without bytes.Buffer
	if err := WriteDefaulters(&without, defaulters, false); err != nil {
		t.Fatalf("WriteDefaulters: %v", err)
	}
	if strings.Contains(without.String(), "98765") {
		t.Error("contact leaked into contact-hidden export")
	}
	if strings.Contains(without.String(), "contact") {
		t.Error("contact column present in contact-hidden export")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	if got := Filename("fees", now); got != "fees-2025-07.csv" {
		t.Errorf("Filename = %q", got)
	}
}
