package httpapi

import (
	"net/http"
	"sync/atomic"

	"acadesk/internal/core"
)

type feeRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Month     string `json:"month" validate:"required"`
	Year      string `json:"year" validate:"required"`
	Amount    int64  `json:"amount" validate:"gte=0"`
}

func (s *Server) handleListFees(w http.ResponseWriter, r *http.Request) {
	fees, err := s.store.ListFees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fees)
}

func (s *Server) handleGetFee(w http.ResponseWriter, r *http.Request) {
	fee, err := s.store.GetFee(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fee)
}

// handleCreateFee inserts a single pending record by hand, outside the
// monthly generation run. Name, batch and the default amount come from
// the student so a typo in the form cannot desync the roster.
func (s *Server) handleCreateFee(w http.ResponseWriter, r *http.Request) {
	var req feeRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	student, err := s.store.GetStudent(r.Context(), req.StudentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	amount := req.Amount
	if amount == 0 {
		amount = student.Fees
	}
	rec := core.FeeRecord{
		StudentID:   student.ID,
		StudentName: student.Name,
		Batch:       student.Batch,
		Amount:      amount,
		Month:       core.Month(req.Month),
		Year:        core.Year(req.Year),
		Status:      core.FeePending,
	}
	if err := rec.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreateFee(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateFee(w http.ResponseWriter, r *http.Request) {
	var req feeRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rec, err := s.store.GetFee(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.StudentID != rec.StudentID {
		writeBadRequest(w, "student of a fee record cannot change")
		return
	}
	rec.Month = core.Month(req.Month)
	rec.Year = core.Year(req.Year)
	if req.Amount > 0 {
		rec.Amount = req.Amount
	}
	if err := rec.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateFee(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteFee(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteFee(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusNoContent, nil)
}

type payFeeRequest struct {
	Method string `json:"method" validate:"required"`
}

func (s *Server) handlePayFee(w http.ResponseWriter, r *http.Request) {
	var req payFeeRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	rec, err := s.fees.MarkPaid(r.Context(), r.PathValue("id"), core.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, r, err)
		return
	}
	atomic.AddInt64(&s.metrics.paymentsRecorded, 1)
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUnpayFee(w http.ResponseWriter, r *http.Request) {
	rec, err := s.fees.MarkPending(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, rec)
}

type generateFeesRequest struct {
	Month string `json:"month"`
	Year  string `json:"year"`
}

// handleGenerateFees runs a generation pass. Without an explicit
// period it covers the wall-clock month, matching the scheduled run.
func (s *Server) handleGenerateFees(w http.ResponseWriter, r *http.Request) {
	var req generateFeesRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	month, year := core.Month(req.Month), core.Year(req.Year)
	if req.Month == "" && req.Year == "" {
		month, year = core.CurrentPeriod(s.now())
	}

	summary, err := s.fees.Generate(r.Context(), month, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, summary)
}

type pruneRequest struct {
	Month   string `json:"month" validate:"required"`
	Year    string `json:"year" validate:"required"`
	Confirm bool   `json:"confirm"`
}

// handlePruneFees deletes every record outside the operating month.
// The destructive pass refuses to run unless the caller confirms.
func (s *Server) handlePruneFees(w http.ResponseWriter, r *http.Request) {
	var req pruneRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if !req.Confirm {
		writeBadRequest(w, "prune removes records permanently, set confirm to proceed")
		return
	}

	result, err := s.fees.Prune(r.Context(), core.Month(req.Month), core.Year(req.Year))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, result)
}
