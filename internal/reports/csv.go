// Package reports renders CSV exports of the dashboard aggregations.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"acadesk/internal/core"
)

// WriteFeeRecords writes the full fee table, one row per record.
func WriteFeeRecords(w io.Writer, records []core.FeeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "student", "batch", "month", "year", "amount", "status", "paid_date", "payment_method"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		paidDate := ""
		if r.PaidDate != nil {
			paidDate = r.PaidDate.Format("2006-01-02")
		}
		method := ""
		if r.PaymentMethod != nil {
			method = string(*r.PaymentMethod)
		}
		row := []string{
			r.ID, r.StudentName, r.Batch, string(r.Month), string(r.Year),
			strconv.FormatInt(r.Amount, 10), string(r.Status), paidDate, method,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonthlySeries writes the twelve-month collected/pending series.
func WriteMonthlySeries(w io.Writer, buckets []core.MonthBucket, year core.Year) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "year", "collected", "pending"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range buckets {
		row := []string{
			string(b.Month), string(year),
			strconv.FormatInt(b.Collected, 10), strconv.FormatInt(b.Pending, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write month %s: %w", b.Month, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBatchBreakdown writes per-batch collection statistics.
func WriteBatchBreakdown(w io.Writer, stats []core.BatchStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"batch", "students", "collected", "pending", "collection_rate"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, st := range stats {
		row := []string{
			st.Batch, strconv.Itoa(st.StudentCount),
			strconv.FormatInt(st.Collected, 10), strconv.FormatInt(st.Pending, 10),
			strconv.FormatFloat(st.CollectionRate, 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write batch %s: %w", st.Batch, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDefaulters writes the defaulter list. When contacts are hidden the
// contact column is omitted entirely rather than blanked.
func WriteDefaulters(w io.Writer, defaulters []core.Defaulter, includeContact bool) error {
	cw := csv.NewWriter(w)

	header := []string{"student", "batch", "amount", "months_overdue"}
	if includeContact {
		header = append(header, "contact")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, d := range defaulters {
		row := []string{
			d.StudentName, d.Batch,
			strconv.FormatInt(d.Amount, 10), strconv.Itoa(d.MonthsOverdue),
		}
		if includeContact {
			row = append(row, d.Contact)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write defaulter %s: %w", d.StudentName, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSalaryTotals writes per-teacher payout sums for one month.
func WriteSalaryTotals(w io.Writer, payouts []core.TeacherPayout, month core.Month, year core.Year) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"teacher_id", "teacher", "month", "year", "amount"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range payouts {
		row := []string{
			p.TeacherID, p.TeacherName, string(month), string(year),
			strconv.FormatInt(p.Amount, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write payout %s: %w", p.TeacherID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds a timestamped attachment name like
// "fees-2025-07.csv".
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", prefix, now.Format("2006-01"))
}
