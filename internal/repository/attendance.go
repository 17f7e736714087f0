package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

func (r *AttendanceRepository) Append(ctx context.Context, rec domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_logs (id, student_id, name, marked_date, marked_time, confidence, marked_by, status, created_at)
		VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, $8, NOW())
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.StudentID,
		rec.Name,
		rec.Date,
		rec.Time,
		rec.Confidence,
		rec.MarkedBy,
		rec.Status,
	)
	if err != nil {
		return fmt.Errorf("append attendance: %w", err)
	}

	return nil
}

func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT id, student_id, name, to_char(marked_date, 'YYYY-MM-DD'), to_char(marked_time, 'HH24:MI:SS'), confidence, marked_by, status
		FROM attendance_logs
		WHERE marked_date = $1::date
		ORDER BY marked_time, id
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var rec domain.AttendanceRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.StudentID,
			&rec.Name,
			&rec.Date,
			&rec.Time,
			&rec.Confidence,
			&rec.MarkedBy,
			&rec.Status,
		); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	return records, nil
}
