package core

import "errors"

// Store-level error kinds. Concrete stores wrap these so callers can
// classify failures with errors.Is regardless of the backing engine.
var (
	ErrDuplicateRecord  = errors.New("duplicate record")
	ErrNotFound         = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Field-level validation errors.
var (
	ErrEmptyID              = errors.New("empty id")
	ErrEmptyName            = errors.New("empty name")
	ErrEmptyStudentRef      = errors.New("empty student reference")
	ErrEmptyTeacherRef      = errors.New("empty teacher reference")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidMonth         = errors.New("invalid month")
	ErrInvalidYear          = errors.New("invalid year")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidSalaryType    = errors.New("invalid salary type")
	ErrInvalidDate          = errors.New("invalid date")
)
