package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

type EmbeddingRepository struct {
	pool PgxPool
}

func NewEmbeddingRepository(pool PgxPool) *EmbeddingRepository {
	return &EmbeddingRepository{pool: pool}
}

// Upsert stores one reference embedding for a (student, pose) pair. Recapturing
// a pose replaces the previous vector and photo path.
func (r *EmbeddingRepository) Upsert(ctx context.Context, studentID string, pose domain.Pose, embedding []float64, photoPath string) error {
	query := `
		INSERT INTO face_embeddings (id, student_id, pose, embedding, photo_path, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (student_id, pose)
		DO UPDATE SET embedding = EXCLUDED.embedding, photo_path = EXCLUDED.photo_path, created_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		uuid.New(),
		studentID,
		string(pose),
		toVector(embedding),
		photoPath,
	)
	if err != nil {
		return fmt.Errorf("upsert embedding: %w", err)
	}

	return nil
}

// ListAll loads every enrolled student with their reference embeddings in
// enrollment order. Students without embeddings are omitted; they cannot be
// recognized yet.
func (r *EmbeddingRepository) ListAll(ctx context.Context) ([]domain.EnrolledStudent, error) {
	query := `
		SELECT s.student_id, s.name, e.embedding
		FROM students s
		INNER JOIN face_embeddings e ON e.student_id = s.student_id
		ORDER BY s.created_at, s.student_id, e.created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	var students []domain.EnrolledStudent
	index := map[string]int{}

	for rows.Next() {
		var (
			studentID string
			name      string
			embedding pgvector.Vector
		)
		if err := rows.Scan(&studentID, &name, &embedding); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}

		i, ok := index[studentID]
		if !ok {
			i = len(students)
			index[studentID] = i
			students = append(students, domain.EnrolledStudent{StudentID: studentID, Name: name})
		}
		students[i].Embeddings = append(students[i].Embeddings, fromVector(embedding))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}

	return students, nil
}

func (r *EmbeddingRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	query := `
		DELETE FROM face_embeddings
		WHERE student_id = $1
	`

	if _, err := r.pool.Exec(ctx, query, studentID); err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}

	return nil
}

func toVector(embedding []float64) pgvector.Vector {
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	return pgvector.NewVector(floats)
}

func fromVector(vec pgvector.Vector) []float64 {
	slice := vec.Slice()
	out := make([]float64, len(slice))
	for i, v := range slice {
		out[i] = float64(v)
	}
	return out
}
