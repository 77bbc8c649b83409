// Package memstore is an in-memory record store. It backs tests and
// deployments without a database, and applies the same constraints as
// the SQLite store: unique (student, month, year) fee records, unique
// batch names.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"acadesk/internal/core"
	"acadesk/internal/storage"
)

type feeKey struct {
	Student string
	Month   core.Month
	Year    core.Year
}

type Store struct {
	mu sync.RWMutex

	students  map[string]core.Student
	batches   map[string]core.Batch
	teachers  map[string]core.Teacher
	fees      map[string]core.FeeRecord
	salaries  map[string]core.SalaryRecord
	expenses  map[string]core.Expense
	personal  map[string]core.PersonalExpense
	feeKeys   map[feeKey]string // fee uniqueness index -> record id
	exports   map[string]storage.ExportState
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		students: make(map[string]core.Student),
		batches:  make(map[string]core.Batch),
		teachers: make(map[string]core.Teacher),
		fees:     make(map[string]core.FeeRecord),
		salaries: make(map[string]core.SalaryRecord),
		expenses: make(map[string]core.Expense),
		personal: make(map[string]core.PersonalExpense),
		feeKeys:  make(map[feeKey]string),
		exports:  make(map[string]storage.ExportState),
	}
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// Students

func (s *Store) ListStudents(ctx context.Context) ([]core.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Student, 0, len(s.students))
	for _, v := range s.students {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetStudent(ctx context.Context, id string) (core.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.students[id]
	if !ok {
		return core.Student{}, fmt.Errorf("student %s: %w", id, core.ErrNotFound)
	}
	return v, nil
}

func (s *Store) CreateStudent(ctx context.Context, v core.Student) (core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = ensureID(v.ID)
	s.students[v.ID] = v
	return v, nil
}

func (s *Store) UpdateStudent(ctx context.Context, v core.Student) (core.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[v.ID]; !ok {
		return core.Student{}, fmt.Errorf("student %s: %w", v.ID, core.ErrNotFound)
	}
	s.students[v.ID] = v
	return v, nil
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return fmt.Errorf("student %s: %w", id, core.ErrNotFound)
	}
	delete(s.students, id)
	return nil
}

// Batches

func (s *Store) ListBatches(ctx context.Context) ([]core.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Batch, 0, len(s.batches))
	for _, v := range s.batches {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetBatch(ctx context.Context, id string) (core.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.batches[id]
	if !ok {
		return core.Batch{}, fmt.Errorf("batch %s: %w", id, core.ErrNotFound)
	}
	return v, nil
}

func (s *Store) CreateBatch(ctx context.Context, v core.Batch) (core.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.batches {
		if b.Name == v.Name {
			return core.Batch{}, fmt.Errorf("batch name %q: %w", v.Name, core.ErrDuplicateRecord)
		}
	}
	v.ID = ensureID(v.ID)
	s.batches[v.ID] = v
	return v, nil
}

func (s *Store) UpdateBatch(ctx context.Context, v core.Batch) (core.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[v.ID]; !ok {
		return core.Batch{}, fmt.Errorf("batch %s: %w", v.ID, core.ErrNotFound)
	}
	for id, b := range s.batches {
		if id != v.ID && b.Name == v.Name {
			return core.Batch{}, fmt.Errorf("batch name %q: %w", v.Name, core.ErrDuplicateRecord)
		}
	}
	s.batches[v.ID] = v
	return v, nil
}

func (s *Store) DeleteBatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[id]; !ok {
		return fmt.Errorf("batch %s: %w", id, core.ErrNotFound)
	}
	delete(s.batches, id)
	return nil
}

// Teachers

func (s *Store) ListTeachers(ctx context.Context) ([]core.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Teacher, 0, len(s.teachers))
	for _, v := range s.teachers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetTeacher(ctx context.Context, id string) (core.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.teachers[id]
	if !ok {
		return core.Teacher{}, fmt.Errorf("teacher %s: %w", id, core.ErrNotFound)
	}
	return v, nil
}

func (s *Store) CreateTeacher(ctx context.Context, v core.Teacher) (core.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = ensureID(v.ID)
	s.teachers[v.ID] = v
	return v, nil
}

func (s *Store) UpdateTeacher(ctx context.Context, v core.Teacher) (core.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[v.ID]; !ok {
		return core.Teacher{}, fmt.Errorf("teacher %s: %w", v.ID, core.ErrNotFound)
	}
	s.teachers[v.ID] = v
	return v, nil
}

func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[id]; !ok {
		return fmt.Errorf("teacher %s: %w", id, core.ErrNotFound)
	}
	delete(s.teachers, id)
	return nil
}

// Fee records

func (s *Store) ListFees(ctx context.Context) ([]core.FeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.FeeRecord, 0, len(s.fees))
	for _, v := range s.fees {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetFee(ctx context.Context, id string) (core.FeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.fees[id]
	if !ok {
		return core.FeeRecord{}, fmt.Errorf("fee record %s: %w", id, core.ErrNotFound)
	}
	return v, nil
}

func (s *Store) CreateFee(ctx context.Context, v core.FeeRecord) (core.FeeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := feeKey{v.StudentID, v.Month, v.Year}
	if _, ok := s.feeKeys[k]; ok {
		return core.FeeRecord{}, fmt.Errorf("fee record for student %s %s %s: %w",
			v.StudentID, v.Month, v.Year, core.ErrDuplicateRecord)
	}
	v.ID = ensureID(v.ID)
	s.fees[v.ID] = v
	s.feeKeys[k] = v.ID
	s.exports[v.ID] = storage.ExportNone
	return v, nil
}

func (s *Store) UpdateFee(ctx context.Context, v core.FeeRecord) (core.FeeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.fees[v.ID]
	if !ok {
		return core.FeeRecord{}, fmt.Errorf("fee record %s: %w", v.ID, core.ErrNotFound)
	}
	newKey := feeKey{v.StudentID, v.Month, v.Year}
	oldKey := feeKey{old.StudentID, old.Month, old.Year}
	if newKey != oldKey {
		if _, taken := s.feeKeys[newKey]; taken {
			return core.FeeRecord{}, fmt.Errorf("fee record for student %s %s %s: %w",
				v.StudentID, v.Month, v.Year, core.ErrDuplicateRecord)
		}
		delete(s.feeKeys, oldKey)
		s.feeKeys[newKey] = v.ID
	}
	s.fees[v.ID] = v
	return v, nil
}

func (s *Store) DeleteFee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.fees[id]
	if !ok {
		return fmt.Errorf("fee record %s: %w", id, core.ErrNotFound)
	}
	delete(s.fees, id)
	delete(s.feeKeys, feeKey{v.StudentID, v.Month, v.Year})
	delete(s.exports, id)
	return nil
}

func (s *Store) SetFeeExportState(ctx context.Context, id string, state storage.ExportState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fees[id]; !ok {
		return fmt.Errorf("fee record %s: %w", id, core.ErrNotFound)
	}
	s.exports[id] = state
	return nil
}

func (s *Store) ListFeesForExport(ctx context.Context, limit int) ([]core.FeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.FeeRecord
	for id, state := range s.exports {
		if state != storage.ExportPending && state != storage.ExportError {
			continue
		}
		out = append(out, s.fees[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Salary records

func (s *Store) ListSalaries(ctx context.Context) ([]core.SalaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.SalaryRecord, 0, len(s.salaries))
	for _, v := range s.salaries {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetSalary(ctx context.Context, id string) (core.SalaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.salaries[id]
	if !ok {
		return core.SalaryRecord{}, fmt.Errorf("salary record %s: %w", id, core.ErrNotFound)
	}
	return v, nil
}

func (s *Store) CreateSalary(ctx context.Context, v core.SalaryRecord) (core.SalaryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = ensureID(v.ID)
	s.salaries[v.ID] = v
	return v, nil
}

func (s *Store) UpdateSalary(ctx context.Context, v core.SalaryRecord) (core.SalaryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.salaries[v.ID]; !ok {
		return core.SalaryRecord{}, fmt.Errorf("salary record %s: %w", v.ID, core.ErrNotFound)
	}
	s.salaries[v.ID] = v
	return v, nil
}

func (s *Store) DeleteSalary(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.salaries[id]; !ok {
		return fmt.Errorf("salary record %s: %w", id, core.ErrNotFound)
	}
	delete(s.salaries, id)
	return nil
}

// Expenses

func (s *Store) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, v := range s.expenses {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	return v, nil
}

func (s *Store) CreateExpense(ctx context.Context, v core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = ensureID(v.ID)
	s.expenses[v.ID] = v
	return v, nil
}

func (s *Store) UpdateExpense(ctx context.Context, v core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[v.ID]; !ok {
		return core.Expense{}, fmt.Errorf("expense %s: %w", v.ID, core.ErrNotFound)
	}
	s.expenses[v.ID] = v
	return v, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}
	delete(s.expenses, id)
	return nil
}

// Personal expenses

func (s *Store) ListPersonalExpenses(ctx context.Context) ([]core.PersonalExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.PersonalExpense, 0, len(s.personal))
	for _, v := range s.personal {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetPersonalExpense(ctx context.Context, id string) (core.PersonalExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.personal[id]
	if !ok {
		return core.PersonalExpense{}, fmt.Errorf("personal expense %s: %w", id, core.ErrNotFound)
	}
	return v, nil
}

func (s *Store) CreatePersonalExpense(ctx context.Context, v core.PersonalExpense) (core.PersonalExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = ensureID(v.ID)
	s.personal[v.ID] = v
	return v, nil
}

func (s *Store) UpdatePersonalExpense(ctx context.Context, v core.PersonalExpense) (core.PersonalExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.personal[v.ID]; !ok {
		return core.PersonalExpense{}, fmt.Errorf("personal expense %s: %w", v.ID, core.ErrNotFound)
	}
	s.personal[v.ID] = v
	return v, nil
}

func (s *Store) DeletePersonalExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.personal[id]; !ok {
		return fmt.Errorf("personal expense %s: %w", id, core.ErrNotFound)
	}
	delete(s.personal, id)
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }
