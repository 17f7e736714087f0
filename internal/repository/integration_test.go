//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

func setupIntegrationTest(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "quickroll_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/quickroll_test?sslmode=disable", host, port.Port())

	db, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		CREATE EXTENSION IF NOT EXISTS "vector";

		CREATE TABLE IF NOT EXISTS students (
			student_id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS face_embeddings (
			id UUID PRIMARY KEY,
			student_id VARCHAR(64) NOT NULL REFERENCES students(student_id) ON DELETE CASCADE,
			pose VARCHAR(16) NOT NULL,
			embedding vector(128) NOT NULL,
			photo_path TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(student_id, pose)
		);

		CREATE TABLE IF NOT EXISTS attendance_logs (
			id UUID PRIMARY KEY,
			student_id VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			marked_date DATE NOT NULL,
			marked_time TIME NOT NULL,
			confidence FLOAT NOT NULL DEFAULT 0,
			marked_by VARCHAR(32) NOT NULL DEFAULT 'auto',
			status VARCHAR(32) NOT NULL DEFAULT 'present',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_attendance_logs_date ON attendance_logs(marked_date);
	`)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func TestEnrollmentRoundTrip_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	students := NewStudentRepository(db)
	embeddings := NewEmbeddingRepository(db)

	ana := &domain.Student{StudentID: "2024001", Name: "Ana Souza"}
	require.NoError(t, students.Create(ctx, ana))
	assert.False(t, ana.CreatedAt.IsZero())

	assert.ErrorIs(t, students.Create(ctx, &domain.Student{StudentID: "2024001", Name: "Dup"}), domain.ErrStudentExists)

	for i, pose := range domain.RequiredPoses() {
		emb := unitEmbedding(i)
		require.NoError(t, embeddings.Upsert(ctx, "2024001", pose, emb,
			fmt.Sprintf("/data/students/2024001/%s.jpg", pose)))
	}

	// Recapturing a pose replaces rather than duplicates.
	require.NoError(t, embeddings.Upsert(ctx, "2024001", domain.PoseFront, unitEmbedding(5), "/data/students/2024001/front.jpg"))

	enrolled, err := embeddings.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "2024001", enrolled[0].StudentID)
	assert.Equal(t, "Ana Souza", enrolled[0].Name)
	assert.Len(t, enrolled[0].Embeddings, 3)

	// Deleting the student cascades to embeddings.
	require.NoError(t, students.Delete(ctx, "2024001"))
	enrolled, err = embeddings.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, enrolled)
}

func TestAttendanceLog_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewAttendanceRepository(db)

	marks := []domain.AttendanceRecord{
		{StudentID: "2024001", Name: "Ana Souza", Date: "2026-03-10", Time: "08:15:00", Confidence: 0.82, MarkedBy: "auto", Status: "present"},
		{StudentID: "2024002", Name: "Bruno Lima", Date: "2026-03-10", Time: "08:02:30", Confidence: 0.91, MarkedBy: "auto", Status: "present"},
		{StudentID: "2024001", Name: "Ana Souza", Date: "2026-03-11", Time: "08:20:00", Confidence: 0.78, MarkedBy: "manual", Status: "present"},
	}
	for _, rec := range marks {
		require.NoError(t, repo.Append(ctx, rec))
	}

	got, err := repo.ListByDate(ctx, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024002", got[0].StudentID, "ordered by time of day")
	assert.Equal(t, "08:02:30", got[0].Time)
	assert.Equal(t, "2026-03-10", got[0].Date)
	assert.Equal(t, "2024001", got[1].StudentID)

	got, err = repo.ListByDate(ctx, "2026-03-12")
	require.NoError(t, err)
	assert.Empty(t, got)
}

// unitEmbedding builds a 128-dimensional unit vector along the given axis.
func unitEmbedding(axis int) []float64 {
	embedding := make([]float64, 128)
	embedding[axis%128] = 1.0
	return embedding
}
