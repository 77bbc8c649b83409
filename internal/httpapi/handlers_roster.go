package httpapi

import (
	"net/http"
	"time"

	"acadesk/internal/core"
)

type studentRequest struct {
	Name     string    `json:"name" validate:"required"`
	Batch    string    `json:"batch"`
	Fees     int64     `json:"fees" validate:"gt=0"`
	Contact  string    `json:"contact"`
	Status   string    `json:"status" validate:"required,oneof=active inactive"`
	JoinDate time.Time `json:"joinDate"`
}

func (req studentRequest) toStudent(id string) core.Student {
	joinDate := req.JoinDate
	if joinDate.IsZero() {
		joinDate = time.Now()
	}
	return core.Student{
		ID:       id,
		Name:     req.Name,
		Batch:    req.Batch,
		Fees:     req.Fees,
		Contact:  req.Contact,
		Status:   core.EnrollmentStatus(req.Status),
		JoinDate: joinDate,
	}
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := s.store.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	student := req.toStudent("")
	if err := student.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreateStudent(r.Context(), student)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	student := req.toStudent(r.PathValue("id"))
	if err := student.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateStudent(r.Context(), student)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteStudent(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusNoContent, nil)
}

type batchRequest struct {
	Name     string `json:"name" validate:"required"`
	Teacher  string `json:"teacher"`
	Fees     int64  `json:"fees" validate:"gte=0"`
	Schedule string `json:"schedule"`
	Status   string `json:"status" validate:"required,oneof=active inactive"`
}

func (req batchRequest) toBatch(id string) core.Batch {
	return core.Batch{
		ID:       id,
		Name:     req.Name,
		Teacher:  req.Teacher,
		Fees:     req.Fees,
		Schedule: req.Schedule,
		Status:   core.EnrollmentStatus(req.Status),
	}
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.store.ListBatches(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := s.store.GetBatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	batch := req.toBatch("")
	if err := batch.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreateBatch(r.Context(), batch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	batch := req.toBatch(r.PathValue("id"))
	if err := batch.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateBatch(r.Context(), batch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBatch(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAggregates()
	writeJSON(w, http.StatusNoContent, nil)
}

type teacherRequest struct {
	Name     string    `json:"name" validate:"required"`
	Subject  string    `json:"subject"`
	Batch    string    `json:"batch"`
	Salary   int64     `json:"salary" validate:"gte=0"`
	Status   string    `json:"status" validate:"required,oneof=active inactive"`
	JoinDate time.Time `json:"joinDate"`
}

func (req teacherRequest) toTeacher(id string) core.Teacher {
	joinDate := req.JoinDate
	if joinDate.IsZero() {
		joinDate = time.Now()
	}
	return core.Teacher{
		ID:       id,
		Name:     req.Name,
		Subject:  req.Subject,
		Batch:    req.Batch,
		Salary:   req.Salary,
		Status:   core.EnrollmentStatus(req.Status),
		JoinDate: joinDate,
	}
}

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.store.ListTeachers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teachers)
}

func (s *Server) handleGetTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, err := s.store.GetTeacher(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teacher)
}

func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	teacher := req.toTeacher("")
	if err := teacher.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreateTeacher(r.Context(), teacher)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	teacher := req.toTeacher(r.PathValue("id"))
	if err := teacher.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateTeacher(r.Context(), teacher)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTeacher(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
