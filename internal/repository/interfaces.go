package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use. pgxmock
// implements it for tests.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// StudentRepositoryInterface defines operations for student data access
type StudentRepositoryInterface interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, studentID string) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	Delete(ctx context.Context, studentID string) error
}

// EmbeddingRepositoryInterface defines operations for face embedding data access
type EmbeddingRepositoryInterface interface {
	Upsert(ctx context.Context, studentID string, pose domain.Pose, embedding []float64, photoPath string) error
	ListAll(ctx context.Context) ([]domain.EnrolledStudent, error)
	DeleteByStudent(ctx context.Context, studentID string) error
}

// AttendanceRepositoryInterface defines operations for attendance log data access
type AttendanceRepositoryInterface interface {
	Append(ctx context.Context, rec domain.AttendanceRecord) error
	ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error)
}
