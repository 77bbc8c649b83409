package storage

import (
	"context"

	"github.com/google/uuid"

	"acadesk/internal/core"
)

// Students

func (s *SQLiteStore) ListStudents(ctx context.Context) ([]core.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, batch, fees, contact, status, join_date FROM students ORDER BY name`)
	if err != nil {
		return nil, storeErr("list students", err)
	}
	defer rows.Close()

	var out []core.Student
	for rows.Next() {
		var v core.Student
		var joined string
		if err := rows.Scan(&v.ID, &v.Name, &v.Batch, &v.Fees, &v.Contact, &v.Status, &joined); err != nil {
			return nil, storeErr("scan student", err)
		}
		v.JoinDate = decodeTime(joined)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list students", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetStudent(ctx context.Context, id string) (core.Student, error) {
	var v core.Student
	var joined string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, batch, fees, contact, status, join_date FROM students WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Batch, &v.Fees, &v.Contact, &v.Status, &joined)
	if err != nil {
		return core.Student{}, storeErr("get student", err)
	}
	v.JoinDate = decodeTime(joined)
	return v, nil
}

func (s *SQLiteStore) CreateStudent(ctx context.Context, v core.Student) (core.Student, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO students (id, name, batch, fees, contact, status, join_date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Batch, v.Fees, v.Contact, v.Status, encodeTime(v.JoinDate))
	if err != nil {
		return core.Student{}, storeErr("create student", err)
	}
	return v, nil
}

func (s *SQLiteStore) UpdateStudent(ctx context.Context, v core.Student) (core.Student, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE students SET name = ?, batch = ?, fees = ?, contact = ?, status = ?, join_date = ? WHERE id = ?`,
		v.Name, v.Batch, v.Fees, v.Contact, v.Status, encodeTime(v.JoinDate), v.ID)
	if err := affectedOrNotFound("update student", res, err); err != nil {
		return core.Student{}, err
	}
	return v, nil
}

func (s *SQLiteStore) DeleteStudent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	return affectedOrNotFound("delete student", res, err)
}

// Batches

func (s *SQLiteStore) ListBatches(ctx context.Context) ([]core.Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, teacher, fees, schedule, status FROM batches ORDER BY name`)
	if err != nil {
		return nil, storeErr("list batches", err)
	}
	defer rows.Close()

	var out []core.Batch
	for rows.Next() {
		var v core.Batch
		if err := rows.Scan(&v.ID, &v.Name, &v.Teacher, &v.Fees, &v.Schedule, &v.Status); err != nil {
			return nil, storeErr("scan batch", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list batches", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetBatch(ctx context.Context, id string) (core.Batch, error) {
	var v core.Batch
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, teacher, fees, schedule, status FROM batches WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Teacher, &v.Fees, &v.Schedule, &v.Status)
	if err != nil {
		return core.Batch{}, storeErr("get batch", err)
	}
	return v, nil
}

func (s *SQLiteStore) CreateBatch(ctx context.Context, v core.Batch) (core.Batch, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (id, name, teacher, fees, schedule, status) VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Teacher, v.Fees, v.Schedule, v.Status)
	if err != nil {
		return core.Batch{}, storeErr("create batch", err)
	}
	return v, nil
}

func (s *SQLiteStore) UpdateBatch(ctx context.Context, v core.Batch) (core.Batch, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE batches SET name = ?, teacher = ?, fees = ?, schedule = ?, status = ? WHERE id = ?`,
		v.Name, v.Teacher, v.Fees, v.Schedule, v.Status, v.ID)
	if err := affectedOrNotFound("update batch", res, err); err != nil {
		return core.Batch{}, err
	}
	return v, nil
}

func (s *SQLiteStore) DeleteBatch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id)
	return affectedOrNotFound("delete batch", res, err)
}

// Teachers

func (s *SQLiteStore) ListTeachers(ctx context.Context) ([]core.Teacher, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, subject, batch, salary, status, join_date FROM teachers ORDER BY name`)
	if err != nil {
		return nil, storeErr("list teachers", err)
	}
	defer rows.Close()

	var out []core.Teacher
	for rows.Next() {
		var v core.Teacher
		var joined string
		if err := rows.Scan(&v.ID, &v.Name, &v.Subject, &v.Batch, &v.Salary, &v.Status, &joined); err != nil {
			return nil, storeErr("scan teacher", err)
		}
		v.JoinDate = decodeTime(joined)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list teachers", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetTeacher(ctx context.Context, id string) (core.Teacher, error) {
	var v core.Teacher
	var joined string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, subject, batch, salary, status, join_date FROM teachers WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Subject, &v.Batch, &v.Salary, &v.Status, &joined)
	if err != nil {
		return core.Teacher{}, storeErr("get teacher", err)
	}
	v.JoinDate = decodeTime(joined)
	return v, nil
}

func (s *SQLiteStore) CreateTeacher(ctx context.Context, v core.Teacher) (core.Teacher, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teachers (id, name, subject, batch, salary, status, join_date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Subject, v.Batch, v.Salary, v.Status, encodeTime(v.JoinDate))
	if err != nil {
		return core.Teacher{}, storeErr("create teacher", err)
	}
	return v, nil
}

func (s *SQLiteStore) UpdateTeacher(ctx context.Context, v core.Teacher) (core.Teacher, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE teachers SET name = ?, subject = ?, batch = ?, salary = ?, status = ?, join_date = ? WHERE id = ?`,
		v.Name, v.Subject, v.Batch, v.Salary, v.Status, encodeTime(v.JoinDate), v.ID)
	if err := affectedOrNotFound("update teacher", res, err); err != nil {
		return core.Teacher{}, err
	}
	return v, nil
}

func (s *SQLiteStore) DeleteTeacher(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = ?`, id)
	return affectedOrNotFound("delete teacher", res, err)
}
