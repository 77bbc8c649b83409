package storage

import (
	"context"

	"github.com/google/uuid"

	"acadesk/internal/core"
)

// Salary records

func (s *SQLiteStore) ListSalaries(ctx context.Context) ([]core.SalaryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, teacher_id, teacher_name, amount, month, year, payment_date, payment_method, notes, type
		 FROM salary_records ORDER BY year, month, teacher_name`)
	if err != nil {
		return nil, storeErr("list salary records", err)
	}
	defer rows.Close()

	var out []core.SalaryRecord
	for rows.Next() {
		var v core.SalaryRecord
		var paid string
		if err := rows.Scan(&v.ID, &v.TeacherID, &v.TeacherName, &v.Amount, &v.Month, &v.Year,
			&paid, &v.PaymentMethod, &v.Notes, &v.Type); err != nil {
			return nil, storeErr("scan salary record", err)
		}
		v.PaymentDate = decodeTime(paid)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list salary records", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetSalary(ctx context.Context, id string) (core.SalaryRecord, error) {
	var v core.SalaryRecord
	var paid string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, teacher_id, teacher_name, amount, month, year, payment_date, payment_method, notes, type
		 FROM salary_records WHERE id = ?`, id).
		Scan(&v.ID, &v.TeacherID, &v.TeacherName, &v.Amount, &v.Month, &v.Year,
			&paid, &v.PaymentMethod, &v.Notes, &v.Type)
	if err != nil {
		return core.SalaryRecord{}, storeErr("get salary record", err)
	}
	v.PaymentDate = decodeTime(paid)
	return v, nil
}

func (s *SQLiteStore) CreateSalary(ctx context.Context, v core.SalaryRecord) (core.SalaryRecord, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO salary_records (id, teacher_id, teacher_name, amount, month, year, payment_date, payment_method, notes, type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.TeacherID, v.TeacherName, v.Amount, v.Month, v.Year,
		encodeTime(v.PaymentDate), v.PaymentMethod, v.Notes, v.Type)
	if err != nil {
		return core.SalaryRecord{}, storeErr("create salary record", err)
	}
	return v, nil
}

func (s *SQLiteStore) UpdateSalary(ctx context.Context, v core.SalaryRecord) (core.SalaryRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE salary_records SET teacher_id = ?, teacher_name = ?, amount = ?, month = ?, year = ?, payment_date = ?, payment_method = ?, notes = ?, type = ?
		 WHERE id = ?`,
		v.TeacherID, v.TeacherName, v.Amount, v.Month, v.Year,
		encodeTime(v.PaymentDate), v.PaymentMethod, v.Notes, v.Type, v.ID)
	if err := affectedOrNotFound("update salary record", res, err); err != nil {
		return core.SalaryRecord{}, err
	}
	return v, nil
}

func (s *SQLiteStore) DeleteSalary(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM salary_records WHERE id = ?`, id)
	return affectedOrNotFound("delete salary record", res, err)
}

// Expenses

func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, amount, date FROM expenses ORDER BY date DESC`)
	if err != nil {
		return nil, storeErr("list expenses", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var v core.Expense
		var date string
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Amount, &date); err != nil {
			return nil, storeErr("scan expense", err)
		}
		v.Date = decodeTime(date)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list expenses", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	var v core.Expense
	var date string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, amount, date FROM expenses WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Description, &v.Amount, &date)
	if err != nil {
		return core.Expense{}, storeErr("get expense", err)
	}
	v.Date = decodeTime(date)
	return v, nil
}

func (s *SQLiteStore) CreateExpense(ctx context.Context, v core.Expense) (core.Expense, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, name, description, amount, date) VALUES (?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Description, v.Amount, encodeTime(v.Date))
	if err != nil {
		return core.Expense{}, storeErr("create expense", err)
	}
	return v, nil
}

func (s *SQLiteStore) UpdateExpense(ctx context.Context, v core.Expense) (core.Expense, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET name = ?, description = ?, amount = ?, date = ? WHERE id = ?`,
		v.Name, v.Description, v.Amount, encodeTime(v.Date), v.ID)
	if err := affectedOrNotFound("update expense", res, err); err != nil {
		return core.Expense{}, err
	}
	return v, nil
}

func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	return affectedOrNotFound("delete expense", res, err)
}

// Personal expenses

func (s *SQLiteStore) ListPersonalExpenses(ctx context.Context) ([]core.PersonalExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, amount, date, place FROM personal_expenses ORDER BY date DESC`)
	if err != nil {
		return nil, storeErr("list personal expenses", err)
	}
	defer rows.Close()

	var out []core.PersonalExpense
	for rows.Next() {
		var v core.PersonalExpense
		var date string
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Amount, &date, &v.Place); err != nil {
			return nil, storeErr("scan personal expense", err)
		}
		v.Date = decodeTime(date)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list personal expenses", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetPersonalExpense(ctx context.Context, id string) (core.PersonalExpense, error) {
	var v core.PersonalExpense
	var date string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, amount, date, place FROM personal_expenses WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Description, &v.Amount, &date, &v.Place)
	if err != nil {
		return core.PersonalExpense{}, storeErr("get personal expense", err)
	}
	v.Date = decodeTime(date)
	return v, nil
}

func (s *SQLiteStore) CreatePersonalExpense(ctx context.Context, v core.PersonalExpense) (core.PersonalExpense, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO personal_expenses (id, name, description, amount, date, place) VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Description, v.Amount, encodeTime(v.Date), v.Place)
	if err != nil {
		return core.PersonalExpense{}, storeErr("create personal expense", err)
	}
	return v, nil
}

func (s *SQLiteStore) UpdatePersonalExpense(ctx context.Context, v core.PersonalExpense) (core.PersonalExpense, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE personal_expenses SET name = ?, description = ?, amount = ?, date = ?, place = ? WHERE id = ?`,
		v.Name, v.Description, v.Amount, encodeTime(v.Date), v.Place, v.ID)
	if err := affectedOrNotFound("update personal expense", res, err); err != nil {
		return core.PersonalExpense{}, err
	}
	return v, nil
}

func (s *SQLiteStore) DeletePersonalExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM personal_expenses WHERE id = ?`, id)
	return affectedOrNotFound("delete personal expense", res, err)
}
