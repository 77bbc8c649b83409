package core

import (
	"sort"
	"time"
)

// The aggregation engine. Every function here is pure: inputs are never
// mutated and identical inputs produce identical outputs, so callers may
// cache results freely and tests can treat them as value functions.

// ContactUnknown is reported when a defaulter's student record cannot be
// resolved from the roster.
const ContactUnknown = "N/A"

type (
	Totals struct {
		Collected int64 `json:"collected"`
		Pending   int64 `json:"pending"`
	}

	MonthBucket struct {
		Month     Month `json:"month"`
		Collected int64 `json:"collected"`
		Pending   int64 `json:"pending"`
	}

	BatchStats struct {
		Batch          string  `json:"batch"`
		StudentCount   int     `json:"studentCount"`
		Collected      int64   `json:"collected"`
		Pending        int64   `json:"pending"`
		CollectionRate float64 `json:"collectionRate"` // percent, 0..100
	}

	Defaulter struct {
		StudentName   string `json:"studentName"`
		Batch         string `json:"batch"`
		Amount        int64  `json:"amount"`
		MonthsOverdue int    `json:"monthsOverdue"`
		Contact       string `json:"contact"`
	}

	BatchAmount struct {
		Batch  string `json:"batch"`
		Amount int64  `json:"amount"`
	}

	// OverdueSplit separates outstanding amounts into strictly-past
	// months and the current operating month.
	OverdueSplit struct {
		PreviousAmount     int64         `json:"previousAmount"`
		CurrentMonthAmount int64         `json:"currentMonthAmount"`
		PreviousByBatch    []BatchAmount `json:"previousByBatch"`
		CurrentByBatch     []BatchAmount `json:"currentByBatch"`
	}

	BatchDue struct {
		Batch        string    `json:"batch"`
		StudentCount int       `json:"studentCount"`
		Amount       int64     `json:"amount"`
		DueDate      time.Time `json:"dueDate"`
	}

	TeacherPayout struct {
		TeacherID   string `json:"teacherId"`
		TeacherName string `json:"teacherName"`
		Amount      int64  `json:"amount"`
	}
)

// SumTotals splits the full record set into collected (paid) and pending
// (everything else) amounts.
func SumTotals(records []FeeRecord) Totals {
	var t Totals
	for _, r := range records {
		if r.Paid() {
			t.Collected += r.Amount
		} else {
			t.Pending += r.Amount
		}
	}
	return t
}

// MonthlySeries buckets the year's records into the twelve calendar
// months. Month names are matched by exact equality.
func MonthlySeries(records []FeeRecord, year Year) []MonthBucket {
	buckets := make([]MonthBucket, 0, 12)
	for _, m := range Months() {
		b := MonthBucket{Month: m}
		for _, r := range records {
			if r.Month != m || r.Year != year {
				continue
			}
			if r.Paid() {
				b.Collected += r.Amount
			} else {
				b.Pending += r.Amount
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// BatchBreakdown groups fee records by batch name. Student counts come
// from the roster, not from the records, so a batch with no fee records
// yet still reports its active enrollment. The collection rate is
// collected/(collected+pending) as a percentage, 0 when there is nothing
// to collect.
func BatchBreakdown(records []FeeRecord, students []Student, batches []Batch) []BatchStats {
	byName := make(map[string]*BatchStats)
	order := make([]string, 0, len(batches))

	add := func(name string) *BatchStats {
		if st, ok := byName[name]; ok {
			return st
		}
		st := &BatchStats{Batch: name}
		byName[name] = st
		order = append(order, name)
		return st
	}

	for _, b := range batches {
		add(b.Name)
	}
	for _, s := range students {
		if s.Status != StatusActive {
			continue
		}
		add(s.Batch).StudentCount++
	}
	for _, r := range records {
		st := add(r.Batch)
		if r.Paid() {
			st.Collected += r.Amount
		} else {
			st.Pending += r.Amount
		}
	}

	out := make([]BatchStats, 0, len(order))
	for _, name := range order {
		st := byName[name]
		if total := st.Collected + st.Pending; total > 0 {
			st.CollectionRate = float64(st.Collected) / float64(total) * 100
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Batch < out[j].Batch })
	return out
}

// Defaulters lists one row per unpaid record, most overdue first.
// MonthsOverdue is the month distance to now floored at zero, plus one:
// an unpaid record for the current month counts as one month overdue.
func Defaulters(records []FeeRecord, students []Student, now time.Time, limit int) []Defaulter {
	if limit <= 0 {
		limit = 10
	}
	nowMonth, nowYear := CurrentPeriod(now)

	contacts := make(map[string]string, len(students))
	for _, s := range students {
		contacts[s.ID] = s.Contact
	}

	out := make([]Defaulter, 0)
	for _, r := range records {
		if r.Paid() {
			continue
		}
		behind := MonthsBetween(r.Month, r.Year, nowMonth, nowYear)
		if behind < 0 {
			behind = 0
		}
		contact, ok := contacts[r.StudentID]
		if !ok || contact == "" {
			contact = ContactUnknown
		}
		out = append(out, Defaulter{
			StudentName:   r.StudentName,
			Batch:         r.Batch,
			Amount:        r.Amount,
			MonthsOverdue: behind + 1,
			Contact:       contact,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MonthsOverdue != out[j].MonthsOverdue {
			return out[i].MonthsOverdue > out[j].MonthsOverdue
		}
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].StudentName < out[j].StudentName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// OverdueBreakdown splits unpaid records into strictly-past months and
// the exact current month, summed per batch. Future-dated records fall
// into neither bucket.
func OverdueBreakdown(records []FeeRecord, now time.Time) OverdueSplit {
	nowMonth, nowYear := CurrentPeriod(now)

	var split OverdueSplit
	prev := make(map[string]int64)
	cur := make(map[string]int64)

	for _, r := range records {
		if r.Paid() {
			continue
		}
		switch {
		case PeriodBefore(r.Month, r.Year, nowMonth, nowYear):
			split.PreviousAmount += r.Amount
			prev[r.Batch] += r.Amount
		case r.Month == nowMonth && r.Year == nowYear:
			split.CurrentMonthAmount += r.Amount
			cur[r.Batch] += r.Amount
		}
	}

	split.PreviousByBatch = sortedBatchAmounts(prev)
	split.CurrentByBatch = sortedBatchAmounts(cur)
	return split
}

// RecentPayments returns paid records ordered by paid date, newest
// first, truncated to limit. The input slice is left untouched.
func RecentPayments(records []FeeRecord, limit int) []FeeRecord {
	paid := make([]FeeRecord, 0)
	for _, r := range records {
		if r.Paid() && r.PaidDate != nil {
			paid = append(paid, r)
		}
	}
	sort.Slice(paid, func(i, j int) bool {
		if !paid[i].PaidDate.Equal(*paid[j].PaidDate) {
			return paid[i].PaidDate.After(*paid[j].PaidDate)
		}
		return paid[i].ID < paid[j].ID
	})
	if limit > 0 && len(paid) > limit {
		paid = paid[:limit]
	}
	return paid
}

// UpcomingDues groups unpaid records by batch across all months. The
// records carry no real due date, so today stands in for it.
func UpcomingDues(records []FeeRecord, now time.Time) []BatchDue {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	byBatch := make(map[string]*BatchDue)
	for _, r := range records {
		if r.Paid() {
			continue
		}
		due, ok := byBatch[r.Batch]
		if !ok {
			due = &BatchDue{Batch: r.Batch, DueDate: today}
			byBatch[r.Batch] = due
		}
		due.StudentCount++
		due.Amount += r.Amount
	}

	out := make([]BatchDue, 0, len(byBatch))
	for _, due := range byBatch {
		out = append(out, *due)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Batch < out[j].Batch })
	return out
}

// SalaryTotals sums full and partial payouts per teacher for one month.
func SalaryTotals(salaries []SalaryRecord, month Month, year Year) []TeacherPayout {
	byTeacher := make(map[string]*TeacherPayout)
	for _, s := range salaries {
		if s.Month != month || s.Year != year {
			continue
		}
		p, ok := byTeacher[s.TeacherID]
		if !ok {
			p = &TeacherPayout{TeacherID: s.TeacherID, TeacherName: s.TeacherName}
			byTeacher[s.TeacherID] = p
		}
		p.Amount += s.Amount
	}
	out := make([]TeacherPayout, 0, len(byTeacher))
	for _, p := range byTeacher {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeacherID < out[j].TeacherID })
	return out
}

// ExpenseTotal sums ledger rows dated inside the given month.
func ExpenseTotal(expenses []Expense, month Month, year Year) int64 {
	var total int64
	for _, e := range expenses {
		if MonthOf(e.Date) == month && YearOf(e.Date) == year {
			total += e.Amount
		}
	}
	return total
}

func sortedBatchAmounts(m map[string]int64) []BatchAmount {
	out := make([]BatchAmount, 0, len(m))
	for batch, amount := range m {
		out = append(out, BatchAmount{Batch: batch, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Batch < out[j].Batch })
	return out
}
