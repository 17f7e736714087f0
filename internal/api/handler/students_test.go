package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/KP-101219/Quickroll-V2/internal/api/middleware"
	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/recognition"
	"github.com/KP-101219/Quickroll-V2/internal/storage"
)

// MockStudentRepo is a mock implementation of StudentRepositoryInterface
type MockStudentRepo struct {
	mock.Mock
}

func (m *MockStudentRepo) Create(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepo) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepo) List(ctx context.Context) ([]domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepo) Delete(ctx context.Context, studentID string) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

// MockEmbeddingRepo is a mock implementation of EmbeddingRepositoryInterface
type MockEmbeddingRepo struct {
	mock.Mock
}

func (m *MockEmbeddingRepo) Upsert(ctx context.Context, studentID string, pose domain.Pose, embedding []float64, photoPath string) error {
	args := m.Called(ctx, studentID, pose, embedding, photoPath)
	return args.Error(0)
}

func (m *MockEmbeddingRepo) ListAll(ctx context.Context) ([]domain.EnrolledStudent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EnrolledStudent), args.Error(1)
}

func (m *MockEmbeddingRepo) DeleteByStudent(ctx context.Context, studentID string) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStudentsTestApp(t *testing.T, students *MockStudentRepo, embeddings *MockEmbeddingRepo) *fiber.App {
	t.Helper()

	logger := discardLogger()
	classifier := recognition.NewClassifier(nil, logger)
	photos := storage.NewStore(t.TempDir())

	handler := NewStudentsHandler(students, embeddings, photos, classifier, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})
	app.Get("/v1/students", handler.List)
	app.Post("/v1/students", handler.Create)
	app.Get("/v1/students/:student_id", handler.Get)
	app.Delete("/v1/students/:student_id", handler.Delete)
	return app
}

func TestStudentsHandler_List(t *testing.T) {
	students := new(MockStudentRepo)
	embeddings := new(MockEmbeddingRepo)
	students.On("List", mock.Anything).Return([]domain.Student{
		{StudentID: "2024001", Name: "Ana", CreatedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)},
		{StudentID: "2024002", Name: "Bruno", CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
	}, nil)

	app := newStudentsTestApp(t, students, embeddings)

	req := httptest.NewRequest("GET", "/v1/students", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result []StudentResponse
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &result))
	assert.Len(t, result, 2)
	assert.Equal(t, "2024001", result[0].StudentID)
	assert.Equal(t, "Bruno", result[1].Name)

	students.AssertExpectations(t)
}

func TestStudentsHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *MockStudentRepo)
		wantStatus int
	}{
		{
			name: "valid student",
			body: `{"student_id":"2024001","name":"Ana"}`,
			setupMock: func(m *MockStudentRepo) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
					return s.StudentID == "2024001" && s.Name == "Ana"
				})).Return(nil)
			},
			wantStatus: 201,
		},
		{
			name:       "missing name",
			body:       `{"student_id":"2024001"}`,
			setupMock:  func(m *MockStudentRepo) {},
			wantStatus: 422,
		},
		{
			name:       "invalid student id",
			body:       `{"student_id":"bad id!","name":"Ana"}`,
			setupMock:  func(m *MockStudentRepo) {},
			wantStatus: 422,
		},
		{
			name: "duplicate student",
			body: `{"student_id":"2024001","name":"Ana"}`,
			setupMock: func(m *MockStudentRepo) {
				m.On("Create", mock.Anything, mock.Anything).Return(domain.ErrStudentExists)
			},
			wantStatus: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := new(MockStudentRepo)
			embeddings := new(MockEmbeddingRepo)
			tt.setupMock(students)

			app := newStudentsTestApp(t, students, embeddings)

			req := httptest.NewRequest("POST", "/v1/students", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			students.AssertExpectations(t)
		})
	}
}

func TestStudentsHandler_Get(t *testing.T) {
	students := new(MockStudentRepo)
	embeddings := new(MockEmbeddingRepo)
	students.On("GetByID", mock.Anything, "2024001").Return(&domain.Student{
		StudentID: "2024001",
		Name:      "Ana",
		CreatedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}, nil)
	students.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrStudentNotFound)

	app := newStudentsTestApp(t, students, embeddings)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/students/2024001", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/students/missing", nil))
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	students.AssertExpectations(t)
}

func TestStudentsHandler_Delete(t *testing.T) {
	students := new(MockStudentRepo)
	embeddings := new(MockEmbeddingRepo)
	students.On("Delete", mock.Anything, "2024001").Return(nil)
	embeddings.On("ListAll", mock.Anything).Return([]domain.EnrolledStudent{}, nil)

	app := newStudentsTestApp(t, students, embeddings)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/students/2024001", nil))
	assert.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	students.AssertExpectations(t)
	embeddings.AssertExpectations(t)
}

func TestStudentsHandler_DeleteNotFound(t *testing.T) {
	students := new(MockStudentRepo)
	embeddings := new(MockEmbeddingRepo)
	students.On("Delete", mock.Anything, "missing").Return(domain.ErrStudentNotFound)

	app := newStudentsTestApp(t, students, embeddings)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/v1/students/missing", nil))
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	students.AssertExpectations(t)
}
