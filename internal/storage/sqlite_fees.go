package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"acadesk/internal/core"
)

const feeColumns = `id, student_id, student_name, batch, amount, month, year, status, paid_date, payment_method`

func scanFee(scan func(dest ...any) error) (core.FeeRecord, error) {
	var v core.FeeRecord
	var paidDate, method sql.NullString
	err := scan(&v.ID, &v.StudentID, &v.StudentName, &v.Batch, &v.Amount,
		&v.Month, &v.Year, &v.Status, &paidDate, &method)
	if err != nil {
		return core.FeeRecord{}, err
	}
	v.PaidDate = decodeNullTime(paidDate)
	if method.Valid {
		m := core.PaymentMethod(method.String)
		v.PaymentMethod = &m
	}
	return v, nil
}

func (s *SQLiteStore) ListFees(ctx context.Context) ([]core.FeeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+feeColumns+` FROM fee_records ORDER BY year, month, student_name`)
	if err != nil {
		return nil, storeErr("list fee records", err)
	}
	defer rows.Close()

	var out []core.FeeRecord
	for rows.Next() {
		v, err := scanFee(rows.Scan)
		if err != nil {
			return nil, storeErr("scan fee record", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list fee records", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetFee(ctx context.Context, id string) (core.FeeRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+feeColumns+` FROM fee_records WHERE id = ?`, id)
	v, err := scanFee(row.Scan)
	if err != nil {
		return core.FeeRecord{}, storeErr("get fee record", err)
	}
	return v, nil
}

// CreateFee inserts one fee record. The unique index on
// (student_id, month, year) is the authoritative uniqueness guard; a
// collision comes back as core.ErrDuplicateRecord.
func (s *SQLiteStore) CreateFee(ctx context.Context, v core.FeeRecord) (core.FeeRecord, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	var method sql.NullString
	if v.PaymentMethod != nil {
		method = sql.NullString{String: string(*v.PaymentMethod), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fee_records (id, student_id, student_name, batch, amount, month, year, status, paid_date, payment_method, export_state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.StudentID, v.StudentName, v.Batch, v.Amount, v.Month, v.Year, v.Status,
		encodeNullTime(v.PaidDate), method, ExportNone)
	if err != nil {
		return core.FeeRecord{}, storeErr("create fee record", err)
	}
	return v, nil
}

func (s *SQLiteStore) UpdateFee(ctx context.Context, v core.FeeRecord) (core.FeeRecord, error) {
	var method sql.NullString
	if v.PaymentMethod != nil {
		method = sql.NullString{String: string(*v.PaymentMethod), Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE fee_records SET student_id = ?, student_name = ?, batch = ?, amount = ?, month = ?, year = ?, status = ?, paid_date = ?, payment_method = ?
		 WHERE id = ?`,
		v.StudentID, v.StudentName, v.Batch, v.Amount, v.Month, v.Year, v.Status,
		encodeNullTime(v.PaidDate), method, v.ID)
	if err := affectedOrNotFound("update fee record", res, err); err != nil {
		return core.FeeRecord{}, err
	}
	return v, nil
}

func (s *SQLiteStore) DeleteFee(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fee_records WHERE id = ?`, id)
	return affectedOrNotFound("delete fee record", res, err)
}

func (s *SQLiteStore) SetFeeExportState(ctx context.Context, id string, state ExportState) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE fee_records SET export_state = ? WHERE id = ?`, state, id)
	return affectedOrNotFound("set fee export state", res, err)
}

// ListFeesForExport returns records waiting for the ledger worker,
// including earlier failures so the sweep retries them.
func (s *SQLiteStore) ListFeesForExport(ctx context.Context, limit int) ([]core.FeeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+feeColumns+` FROM fee_records WHERE export_state IN (?, ?) ORDER BY id LIMIT ?`,
		ExportPending, ExportError, limit)
	if err != nil {
		return nil, storeErr("list fee records for export", err)
	}
	defer rows.Close()

	var out []core.FeeRecord
	for rows.Next() {
		v, err := scanFee(rows.Scan)
		if err != nil {
			return nil, storeErr("scan fee record", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list fee records for export", err)
	}
	return out, nil
}
