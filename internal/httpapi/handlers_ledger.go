package httpapi

import (
	"net/http"
	"time"

	"acadesk/internal/core"
)

type salaryRequest struct {
	TeacherID     string    `json:"teacherId" validate:"required"`
	Amount        int64     `json:"amount" validate:"gt=0"`
	Month         string    `json:"month" validate:"required"`
	Year          string    `json:"year" validate:"required"`
	PaymentDate   time.Time `json:"paymentDate"`
	PaymentMethod string    `json:"paymentMethod" validate:"required"`
	Notes         string    `json:"notes"`
	Type          string    `json:"type" validate:"required,oneof=full partial"`
}

func (req salaryRequest) toRecord(id, teacherName string, now time.Time) core.SalaryRecord {
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = now
	}
	return core.SalaryRecord{
		ID:            id,
		TeacherID:     req.TeacherID,
		TeacherName:   teacherName,
		Amount:        req.Amount,
		Month:         core.Month(req.Month),
		Year:          core.Year(req.Year),
		PaymentDate:   paymentDate,
		PaymentMethod: core.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		Type:          core.SalaryType(req.Type),
	}
}

func (s *Server) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	salaries, err := s.store.ListSalaries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, salaries)
}

func (s *Server) handleGetSalary(w http.ResponseWriter, r *http.Request) {
	salary, err := s.store.GetSalary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, salary)
}

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	var req salaryRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	teacher, err := s.store.GetTeacher(r.Context(), req.TeacherID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec := req.toRecord("", teacher.Name, s.now())
	if err := rec.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreateSalary(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	var req salaryRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	teacher, err := s.store.GetTeacher(r.Context(), req.TeacherID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec := req.toRecord(r.PathValue("id"), teacher.Name, s.now())
	if err := rec.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateSalary(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSalary(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusNoContent, nil)
}

type expenseRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount" validate:"gt=0"`
	Date        time.Time `json:"date"`
	Place       string    `json:"place"`
}

func (req expenseRequest) date(now time.Time) time.Time {
	if req.Date.IsZero() {
		return now
	}
	return req.Date
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.store.GetExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	expense := core.Expense{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.date(s.now()),
	}
	if err := expense.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreateExpense(r.Context(), expense)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	expense := core.Expense{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.date(s.now()),
	}
	if err := expense.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateExpense(r.Context(), expense)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListPersonalExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListPersonalExpenses(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetPersonalExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.store.GetPersonalExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleCreatePersonalExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	expense := core.PersonalExpense{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.date(s.now()),
		Place:       req.Place,
	}
	if err := expense.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreatePersonalExpense(r.Context(), expense)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePersonalExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	expense := core.PersonalExpense{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.date(s.now()),
		Place:       req.Place,
	}
	if err := expense.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdatePersonalExpense(r.Context(), expense)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePersonalExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePersonalExpense(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
