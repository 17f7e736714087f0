package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

type StudentRepository struct {
	pool PgxPool
}

func NewStudentRepository(pool PgxPool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (student_id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		student.StudentID,
		student.Name,
	).Scan(&student.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStudentExists
		}
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `
		SELECT student_id, name, created_at
		FROM students
		WHERE student_id = $1
	`

	var student domain.Student
	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&student.StudentID,
		&student.Name,
		&student.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return &student, nil
}

func (r *StudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	query := `
		SELECT student_id, name, created_at
		FROM students
		ORDER BY created_at, student_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var student domain.Student
		if err := rows.Scan(&student.StudentID, &student.Name, &student.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	return students, nil
}

func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	query := `
		DELETE FROM students
		WHERE student_id = $1
	`

	result, err := r.pool.Exec(ctx, query, studentID)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}

	return nil
}
