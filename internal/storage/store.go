// Package storage defines the record store contract and its SQLite
// implementation. Every entity gets plain CRUD; fee records additionally
// enforce one record per (student, month, year) and batches enforce
// unique names. Violations surface as core.ErrDuplicateRecord, unknown
// ids as core.ErrNotFound, engine failures as core.ErrStoreUnavailable.
package storage

import (
	"context"

	"acadesk/internal/core"
)

// ExportState tracks whether a paid fee record has been written to the
// external payments ledger.
type ExportState string

const (
	ExportNone    ExportState = "none"    // not eligible (unpaid)
	ExportPending ExportState = "pending" // paid, waiting for the worker
	ExportDone    ExportState = "exported"
	ExportError   ExportState = "error"
)

// Store is the full record store surface. Both the SQLite store and the
// in-memory store implement it.
type Store interface {
	ListStudents(ctx context.Context) ([]core.Student, error)
	GetStudent(ctx context.Context, id string) (core.Student, error)
	CreateStudent(ctx context.Context, s core.Student) (core.Student, error)
	UpdateStudent(ctx context.Context, s core.Student) (core.Student, error)
	DeleteStudent(ctx context.Context, id string) error

	ListBatches(ctx context.Context) ([]core.Batch, error)
	GetBatch(ctx context.Context, id string) (core.Batch, error)
	CreateBatch(ctx context.Context, b core.Batch) (core.Batch, error)
	UpdateBatch(ctx context.Context, b core.Batch) (core.Batch, error)
	DeleteBatch(ctx context.Context, id string) error

	ListTeachers(ctx context.Context) ([]core.Teacher, error)
	GetTeacher(ctx context.Context, id string) (core.Teacher, error)
	CreateTeacher(ctx context.Context, t core.Teacher) (core.Teacher, error)
	UpdateTeacher(ctx context.Context, t core.Teacher) (core.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error

	ListFees(ctx context.Context) ([]core.FeeRecord, error)
	GetFee(ctx context.Context, id string) (core.FeeRecord, error)
	CreateFee(ctx context.Context, r core.FeeRecord) (core.FeeRecord, error)
	UpdateFee(ctx context.Context, r core.FeeRecord) (core.FeeRecord, error)
	DeleteFee(ctx context.Context, id string) error

	SetFeeExportState(ctx context.Context, id string, state ExportState) error
	ListFeesForExport(ctx context.Context, limit int) ([]core.FeeRecord, error)

	ListSalaries(ctx context.Context) ([]core.SalaryRecord, error)
	GetSalary(ctx context.Context, id string) (core.SalaryRecord, error)
	CreateSalary(ctx context.Context, s core.SalaryRecord) (core.SalaryRecord, error)
	UpdateSalary(ctx context.Context, s core.SalaryRecord) (core.SalaryRecord, error)
	DeleteSalary(ctx context.Context, id string) error

	ListExpenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	ListPersonalExpenses(ctx context.Context) ([]core.PersonalExpense, error)
	GetPersonalExpense(ctx context.Context, id string) (core.PersonalExpense, error)
	CreatePersonalExpense(ctx context.Context, p core.PersonalExpense) (core.PersonalExpense, error)
	UpdatePersonalExpense(ctx context.Context, p core.PersonalExpense) (core.PersonalExpense, error)
	DeletePersonalExpense(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}
