package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusActive   EnrollmentStatus = "active"
	StatusInactive EnrollmentStatus = "inactive"

	FeePaid    FeeStatus = "paid"
	FeePending FeeStatus = "pending"
	FeeOverdue FeeStatus = "overdue"

	PayCash   PaymentMethod = "cash"
	PayUPI    PaymentMethod = "upi"
	PayBank   PaymentMethod = "bank"
	PayCheque PaymentMethod = "cheque"

	SalaryFull    SalaryType = "full"
	SalaryPartial SalaryType = "partial"
)

type (
	EnrollmentStatus string
	FeeStatus        string
	PaymentMethod    string
	SalaryType       string

	// Student is one enrolled learner. Batch is a weak name reference;
	// renaming a batch does not cascade here.
	Student struct {
		ID       string           `json:"id"`
		Name     string           `json:"name"`
		Batch    string           `json:"batch"`
		Fees     int64            `json:"fees"` // monthly fee, whole Rupees
		Contact  string           `json:"contact"`
		Status   EnrollmentStatus `json:"status"`
		JoinDate time.Time        `json:"joinDate"`
	}

	// Batch is a named class taught by one teacher. Name is unique,
	// enforced by the store.
	Batch struct {
		ID       string           `json:"id"`
		Name     string           `json:"name"`
		Teacher  string           `json:"teacher"`
		Fees     int64            `json:"fees"`
		Schedule string           `json:"schedule"`
		Status   EnrollmentStatus `json:"status"`
	}

	Teacher struct {
		ID       string           `json:"id"`
		Name     string           `json:"name"`
		Subject  string           `json:"subject"`
		Batch    string           `json:"batch"`
		Salary   int64            `json:"salary"`
		Status   EnrollmentStatus `json:"status"`
		JoinDate time.Time        `json:"joinDate"`
	}

	// FeeRecord is one student's fee obligation for one calendar month.
	// At most one record may exist per (StudentID, Month, Year).
	FeeRecord struct {
		ID            string         `json:"id"`
		StudentID     string         `json:"studentId"`
		StudentName   string         `json:"studentName"`
		Batch         string         `json:"batch"`
		Amount        int64          `json:"amount"`
		Month         Month          `json:"month"`
		Year          Year           `json:"year"`
		Status        FeeStatus      `json:"status"`
		PaidDate      *time.Time     `json:"paidDate"`
		PaymentMethod *PaymentMethod `json:"paymentMethod"`
	}

	// SalaryRecord has no uniqueness constraint: several partial
	// payments per teacher per month are expected and summed.
	SalaryRecord struct {
		ID            string        `json:"id"`
		TeacherID     string        `json:"teacherId"`
		TeacherName   string        `json:"teacherName"`
		Amount        int64         `json:"amount"`
		Month         Month         `json:"month"`
		Year          Year          `json:"year"`
		PaymentDate   time.Time     `json:"paymentDate"`
		PaymentMethod PaymentMethod `json:"paymentMethod"`
		Notes         string        `json:"notes"`
		Type          SalaryType    `json:"type"`
	}

	Expense struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Amount      int64     `json:"amount"`
		Date        time.Time `json:"date"`
	}

	PersonalExpense struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Amount      int64     `json:"amount"`
		Date        time.Time `json:"date"`
		Place       string    `json:"place"`
	}
)

func (s EnrollmentStatus) Validate() error {
	switch s {
	case StatusActive, StatusInactive:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
}

func (s FeeStatus) Validate() error {
	switch s {
	case FeePaid, FeePending, FeeOverdue:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
}

func (p PaymentMethod) Validate() error {
	switch p {
	case PayCash, PayUPI, PayBank, PayCheque:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, string(p))
}

func (t SalaryType) Validate() error {
	switch t {
	case SalaryFull, SalaryPartial:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSalaryType, string(t))
}

func (s Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Fees <= 0 {
		return ErrInvalidAmount
	}
	return s.Status.Validate()
}

func (b Batch) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if b.Fees < 0 {
		return ErrInvalidAmount
	}
	return b.Status.Validate()
}

func (t Teacher) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.Salary < 0 {
		return ErrInvalidAmount
	}
	return t.Status.Validate()
}

func (r FeeRecord) Validate() error {
	if strings.TrimSpace(r.StudentID) == "" {
		return ErrEmptyStudentRef
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if err := r.Month.Validate(); err != nil {
		return err
	}
	if err := r.Year.Validate(); err != nil {
		return err
	}
	if err := r.Status.Validate(); err != nil {
		return err
	}
	if r.PaymentMethod != nil {
		return r.PaymentMethod.Validate()
	}
	return nil
}

// Paid reports whether the record has been settled. Everything else
// (pending or overdue) counts as outstanding in the aggregations.
func (r FeeRecord) Paid() bool {
	return r.Status == FeePaid
}

// MarkPaid transitions the record to paid, setting the paid date and
// payment method. The amount is never touched.
func (r *FeeRecord) MarkPaid(method PaymentMethod, when time.Time) error {
	if err := method.Validate(); err != nil {
		return err
	}
	r.Status = FeePaid
	r.PaidDate = &when
	r.PaymentMethod = &method
	return nil
}

// MarkPending reverts a paid record, clearing paid date and method.
func (r *FeeRecord) MarkPending() {
	r.Status = FeePending
	r.PaidDate = nil
	r.PaymentMethod = nil
}

func (s SalaryRecord) Validate() error {
	if strings.TrimSpace(s.TeacherID) == "" {
		return ErrEmptyTeacherRef
	}
	if s.Amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.Month.Validate(); err != nil {
		return err
	}
	if err := s.Year.Validate(); err != nil {
		return err
	}
	if err := s.PaymentMethod.Validate(); err != nil {
		return err
	}
	return s.Type.Validate()
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (p PersonalExpense) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if p.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
