package httpapi

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"acadesk/internal/core"
)

// DashboardData is the single payload behind the admin landing page.
// Every field is derived from store reads, so the whole struct is
// cacheable until the next write.
type DashboardData struct {
	Month          core.Month           `json:"month"`
	Year           core.Year            `json:"year"`
	Totals         core.Totals          `json:"totals"`
	MonthlySeries  []core.MonthBucket   `json:"monthlySeries"`
	BatchBreakdown []core.BatchStats    `json:"batchBreakdown"`
	Defaulters     []core.Defaulter     `json:"defaulters"`
	Overdue        core.OverdueSplit    `json:"overdue"`
	RecentPayments []core.FeeRecord     `json:"recentPayments"`
	UpcomingDues   []core.BatchDue      `json:"upcomingDues"`
	SalaryTotals   []core.TeacherPayout `json:"salaryTotals"`
	ExpenseTotal   int64                `json:"expenseTotal"`
}

// handleDashboard serves the composed aggregates. The optional year
// query parameter picks the monthly series year; everything else
// follows the wall clock.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	seriesYear := core.Year(r.URL.Query().Get("year"))
	if seriesYear == "" {
		_, seriesYear = core.CurrentPeriod(s.now())
	}
	if err := seriesYear.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cacheKey := "dashboard:" + string(seriesYear)
	if data, ok := s.dashboardCache.Get(cacheKey); ok {
		atomic.AddInt64(&s.metrics.cacheHits, 1)
		writeJSON(w, http.StatusOK, data)
		return
	}
	atomic.AddInt64(&s.metrics.cacheMisses, 1)

	data, err := s.buildDashboard(r, seriesYear)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.dashboardCache.Set(cacheKey, data)
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) buildDashboard(r *http.Request, seriesYear core.Year) (DashboardData, error) {
	ctx := r.Context()

	fees, err := s.store.ListFees(ctx)
	if err != nil {
		return DashboardData{}, fmt.Errorf("list fees: %w", err)
	}
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return DashboardData{}, fmt.Errorf("list students: %w", err)
	}
	batches, err := s.store.ListBatches(ctx)
	if err != nil {
		return DashboardData{}, fmt.Errorf("list batches: %w", err)
	}
	salaries, err := s.store.ListSalaries(ctx)
	if err != nil {
		return DashboardData{}, fmt.Errorf("list salaries: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return DashboardData{}, fmt.Errorf("list expenses: %w", err)
	}

	now := s.now()
	month, year := core.CurrentPeriod(now)

	defaulters := core.Defaulters(fees, students, now, s.opts.DefaulterLimit)
	if !s.opts.DefaulterContactVisible {
		for i := range defaulters {
			defaulters[i].Contact = ""
		}
	}

	return DashboardData{
		Month:          month,
		Year:           year,
		Totals:         core.SumTotals(fees),
		MonthlySeries:  core.MonthlySeries(fees, seriesYear),
		BatchBreakdown: core.BatchBreakdown(fees, students, batches),
		Defaulters:     defaulters,
		Overdue:        core.OverdueBreakdown(fees, now),
		RecentPayments: core.RecentPayments(fees, 10),
		UpcomingDues:   core.UpcomingDues(fees, now),
		SalaryTotals:   core.SalaryTotals(salaries, month, year),
		ExpenseTotal:   core.ExpenseTotal(expenses, month, year),
	}, nil
}
