package httpapi

import (
	"fmt"
	"net/http"

	"acadesk/internal/core"
	"acadesk/internal/log"
	"acadesk/internal/reports"
)

func setCSVHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (s *Server) handleFeesReport(w http.ResponseWriter, r *http.Request) {
	fees, err := s.store.ListFees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	setCSVHeaders(w, reports.Filename("fees", s.now()))
	if err := reports.WriteFeeRecords(w, fees); err != nil {
		log.FromContext(r.Context()).Error("Failed to stream fee report", "error", err)
	}
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	fees, err := s.store.ListFees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	year := core.Year(r.URL.Query().Get("year"))
	if year == "" {
		_, year = core.CurrentPeriod(s.now())
	}
	if err := year.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	setCSVHeaders(w, reports.Filename("monthly", s.now()))
	if err := reports.WriteMonthlySeries(w, core.MonthlySeries(fees, year), year); err != nil {
		log.FromContext(r.Context()).Error("Failed to stream monthly report", "error", err)
	}
}

func (s *Server) handleBatchesReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fees, err := s.store.ListFees(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	batches, err := s.store.ListBatches(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setCSVHeaders(w, reports.Filename("batches", s.now()))
	if err := reports.WriteBatchBreakdown(w, core.BatchBreakdown(fees, students, batches)); err != nil {
		log.FromContext(ctx).Error("Failed to stream batch report", "error", err)
	}
}

func (s *Server) handleDefaultersReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fees, err := s.store.ListFees(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	defaulters := core.Defaulters(fees, students, s.now(), s.opts.DefaulterLimit)
	setCSVHeaders(w, reports.Filename("defaulters", s.now()))
	if err := reports.WriteDefaulters(w, defaulters, s.opts.DefaulterContactVisible); err != nil {
		log.FromContext(ctx).Error("Failed to stream defaulter report", "error", err)
	}
}

func (s *Server) handleSalariesReport(w http.ResponseWriter, r *http.Request) {
	salaries, err := s.store.ListSalaries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	month, year := core.CurrentPeriod(s.now())
	if m := r.URL.Query().Get("month"); m != "" {
		month = core.Month(m)
	}
	if y := r.URL.Query().Get("year"); y != "" {
		year = core.Year(y)
	}
	if err := month.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := year.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	setCSVHeaders(w, reports.Filename("salaries", s.now()))
	if err := reports.WriteSalaryTotals(w, core.SalaryTotals(salaries, month, year), month, year); err != nil {
		log.FromContext(r.Context()).Error("Failed to stream salary report", "error", err)
	}
}
