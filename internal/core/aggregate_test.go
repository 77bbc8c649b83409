package core

import (
	"testing"
	"time"
)

func feeRec(student, batch string, amount int64, month Month, year Year, status FeeStatus) FeeRecord {
	return FeeRecord{
		ID: student + "-" + string(month) + "-" + string(year),
		StudentID: student, StudentName: student, Batch: batch,
		Amount: amount, Month: month, Year: year, Status: status,
	}
}

func TestSumTotals(t *testing.T) {
	records := []FeeRecord{
		feeRec("s1", "A", 600, "July", "2025", FeePaid),
		feeRec("s2", "A", 400, "July", "2025", FeePaid),
		feeRec("s3", "B", 300, "July", "2025", FeePending),
	}
	got := SumTotals(records)
	if got.Collected != 1000 || got.Pending != 300 {
		t.Fatalf("got %+v, want {1000 300}", got)
	}
}

func TestSumTotalsConsistency(t *testing.T) {
	records := []FeeRecord{
		feeRec("s1", "A", 600, "June", "2025", FeePaid),
		feeRec("s2", "A", 450, "June", "2025", FeeOverdue),
		feeRec("s3", "B", 300, "July", "2025", FeePending),
		feeRec("s4", "B", 750, "July", "2025", FeePaid),
	}
	var sum int64
	for _, r := range records {
		sum += r.Amount
	}
	got := SumTotals(records)
	if got.Collected+got.Pending != sum {
		t.Fatalf("collected+pending = %d, want %d", got.Collected+got.Pending, sum)
	}
}

func TestMonthlySeriesExactMatch(t *testing.T) {
	records := []FeeRecord{
		feeRec("s1", "A", 500, "June", "2025", FeePaid),
		feeRec("s2", "A", 200, "June", "2025", FeePending),
		feeRec("s3", "A", 900, "June", "2024", FeePaid), // wrong year
	}
	series := MonthlySeries(records, "2025")
	if len(series) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(series))
	}
	for _, b := range series {
		switch b.Month {
		case "June":
			if b.Collected != 500 || b.Pending != 200 {
				t.Fatalf("June bucket = %+v", b)
			}
		default:
			if b.Collected != 0 || b.Pending != 0 {
				t.Fatalf("bucket %q should be empty, got %+v", b.Month, b)
			}
		}
	}
}

func TestBatchBreakdown(t *testing.T) {
	students := []Student{
		{ID: "s1", Name: "A", Batch: "Physics", Fees: 800, Status: StatusActive},
		{ID: "s2", Name: "B", Batch: "Physics", Fees: 800, Status: StatusActive},
		{ID: "s3", Name: "C", Batch: "Physics", Fees: 800, Status: StatusInactive},
		{ID: "s4", Name: "D", Batch: "Maths", Fees: 600, Status: StatusActive},
	}
	batches := []Batch{
		{ID: "b1", Name: "Physics", Status: StatusActive},
		{ID: "b2", Name: "Maths", Status: StatusActive},
		{ID: "b3", Name: "Chemistry", Status: StatusActive}, // no students, no records
	}
	records := []FeeRecord{
		feeRec("s1", "Physics", 800, "July", "2025", FeePaid),
		feeRec("s2", "Physics", 800, "July", "2025", FeePending),
	}

	out := BatchBreakdown(records, students, batches)
	if len(out) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(out))
	}

	byName := make(map[string]BatchStats)
	for _, st := range out {
		byName[st.Batch] = st
	}

	phy := byName["Physics"]
	if phy.StudentCount != 2 {
		t.Fatalf("Physics active students = %d, want 2 (inactive excluded)", phy.StudentCount)
	}
	if phy.Collected != 800 || phy.Pending != 800 {
		t.Fatalf("Physics sums = %+v", phy)
	}
	if phy.CollectionRate != 50 {
		t.Fatalf("Physics rate = %v, want 50", phy.CollectionRate)
	}

	chem := byName["Chemistry"]
	if chem.CollectionRate != 0 {
		t.Fatalf("empty batch rate = %v, want 0", chem.CollectionRate)
	}

	// Rate bound holds for all batches.
	for _, st := range out {
		if st.CollectionRate < 0 || st.CollectionRate > 100 {
			t.Fatalf("rate out of bounds for %q: %v", st.Batch, st.CollectionRate)
		}
	}
}

func TestBatchBreakdownPurity(t *testing.T) {
	records := []FeeRecord{feeRec("s1", "A", 100, "July", "2025", FeePending)}
	students := []Student{{ID: "s1", Name: "A", Batch: "A", Fees: 100, Status: StatusActive}}
	before := records[0]
	_ = BatchBreakdown(records, students, nil)
	if records[0] != before {
		t.Fatalf("input records mutated")
	}
}

func TestDefaultersMonthsOverdue(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	records := []FeeRecord{feeRec("s1", "A", 500, "January", "2024", FeePending)}
	students := []Student{{ID: "s1", Name: "s1", Batch: "A", Contact: "990011", Status: StatusActive}}

	out := Defaulters(records, students, now, 10)
	if len(out) != 1 {
		t.Fatalf("expected 1 defaulter, got %d", len(out))
	}
	if out[0].MonthsOverdue != 3 {
		t.Fatalf("monthsOverdue = %d, want 3", out[0].MonthsOverdue)
	}
	if out[0].Contact != "990011" {
		t.Fatalf("contact = %q", out[0].Contact)
	}
}

func TestDefaultersSortAndLimit(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	records := []FeeRecord{
		feeRec("s1", "A", 500, "July", "2025", FeePending),  // 1 month
		feeRec("s2", "A", 900, "May", "2025", FeeOverdue),   // 3 months
		feeRec("s3", "A", 200, "April", "2025", FeeOverdue), // 4 months
		feeRec("s4", "A", 700, "May", "2025", FeePending),   // 3 months, smaller amount than s2
		feeRec("s5", "A", 100, "July", "2025", FeePaid),     // paid, excluded
	}

	out := Defaulters(records, nil, now, 3)
	if len(out) != 3 {
		t.Fatalf("expected limit 3, got %d", len(out))
	}
	if out[0].StudentName != "s3" {
		t.Fatalf("first = %q, want most overdue s3", out[0].StudentName)
	}
	if out[1].StudentName != "s2" || out[2].StudentName != "s4" {
		t.Fatalf("tie broken by amount desc: got %q, %q", out[1].StudentName, out[2].StudentName)
	}
	// No roster: contact degrades, never errors.
	if out[0].Contact != ContactUnknown {
		t.Fatalf("contact = %q, want %q", out[0].Contact, ContactUnknown)
	}
}

func TestDefaultersFutureRecordFloorsAtOne(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	records := []FeeRecord{feeRec("s1", "A", 500, "June", "2025", FeePending)}
	out := Defaulters(records, nil, now, 10)
	if len(out) != 1 || out[0].MonthsOverdue != 1 {
		t.Fatalf("future record should floor to 1 month, got %+v", out)
	}
}

func TestOverdueBreakdown(t *testing.T) {
	now := time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)
	records := []FeeRecord{
		feeRec("s1", "A", 500, "June", "2025", FeeOverdue),
		feeRec("s2", "B", 300, "May", "2025", FeePending),
		feeRec("s3", "A", 800, "July", "2025", FeePending),
		feeRec("s4", "A", 900, "July", "2025", FeePaid),     // paid, excluded
		feeRec("s5", "A", 400, "August", "2025", FeePending), // future, excluded
	}

	split := OverdueBreakdown(records, now)
	if split.PreviousAmount != 800 {
		t.Fatalf("previous = %d, want 800", split.PreviousAmount)
	}
	if split.CurrentMonthAmount != 800 {
		t.Fatalf("current = %d, want 800", split.CurrentMonthAmount)
	}
	if len(split.PreviousByBatch) != 2 || split.PreviousByBatch[0].Batch != "A" || split.PreviousByBatch[0].Amount != 500 {
		t.Fatalf("previousByBatch = %+v", split.PreviousByBatch)
	}
	if len(split.CurrentByBatch) != 1 || split.CurrentByBatch[0].Amount != 800 {
		t.Fatalf("currentByBatch = %+v", split.CurrentByBatch)
	}
}

func TestRecentPayments(t *testing.T) {
	day := func(d int) *time.Time {
		ts := time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}
	records := []FeeRecord{
		{ID: "r1", StudentID: "s1", Amount: 100, Month: "July", Year: "2025", Status: FeePaid, PaidDate: day(3)},
		{ID: "r2", StudentID: "s2", Amount: 100, Month: "July", Year: "2025", Status: FeePaid, PaidDate: day(9)},
		{ID: "r3", StudentID: "s3", Amount: 100, Month: "July", Year: "2025", Status: FeePending},
		{ID: "r4", StudentID: "s4", Amount: 100, Month: "July", Year: "2025", Status: FeePaid, PaidDate: day(5)},
	}
	out := RecentPayments(records, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2, got %d", len(out))
	}
	if out[0].ID != "r2" || out[1].ID != "r4" {
		t.Fatalf("order = %q, %q", out[0].ID, out[1].ID)
	}
}

func TestUpcomingDues(t *testing.T) {
	now := time.Date(2025, time.July, 20, 12, 30, 0, 0, time.UTC)
	records := []FeeRecord{
		feeRec("s1", "A", 500, "June", "2025", FeeOverdue),
		feeRec("s2", "A", 800, "July", "2025", FeePending),
		feeRec("s3", "B", 300, "July", "2025", FeePending),
		feeRec("s4", "B", 300, "July", "2025", FeePaid),
	}
	out := UpcomingDues(records, now)
	if len(out) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(out))
	}
	a := out[0]
	if a.Batch != "A" || a.StudentCount != 2 || a.Amount != 1300 {
		t.Fatalf("batch A = %+v", a)
	}
	wantDue := time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)
	if !a.DueDate.Equal(wantDue) {
		t.Fatalf("dueDate = %v, want %v", a.DueDate, wantDue)
	}
}

func TestSalaryTotalsSumsPartials(t *testing.T) {
	salaries := []SalaryRecord{
		{TeacherID: "t1", TeacherName: "Rao", Amount: 5000, Month: "July", Year: "2025", Type: SalaryPartial},
		{TeacherID: "t1", TeacherName: "Rao", Amount: 7000, Month: "July", Year: "2025", Type: SalaryPartial},
		{TeacherID: "t2", TeacherName: "Iyer", Amount: 20000, Month: "July", Year: "2025", Type: SalaryFull},
		{TeacherID: "t1", TeacherName: "Rao", Amount: 9000, Month: "June", Year: "2025", Type: SalaryFull},
	}
	out := SalaryTotals(salaries, "July", "2025")
	if len(out) != 2 {
		t.Fatalf("expected 2 teachers, got %d", len(out))
	}
	if out[0].TeacherID != "t1" || out[0].Amount != 12000 {
		t.Fatalf("t1 payout = %+v", out[0])
	}
}
