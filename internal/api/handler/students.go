package handler

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/recognition"
	"github.com/KP-101219/Quickroll-V2/internal/repository"
	"github.com/KP-101219/Quickroll-V2/internal/storage"
)

var studentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// StudentsHandler manages the enrolled student roster.
type StudentsHandler struct {
	students   repository.StudentRepositoryInterface
	embeddings repository.EmbeddingRepositoryInterface
	photos     *storage.Store
	classifier *recognition.Classifier
	logger     *slog.Logger
}

func NewStudentsHandler(
	students repository.StudentRepositoryInterface,
	embeddings repository.EmbeddingRepositoryInterface,
	photos *storage.Store,
	classifier *recognition.Classifier,
	logger *slog.Logger,
) *StudentsHandler {
	return &StudentsHandler{
		students:   students,
		embeddings: embeddings,
		photos:     photos,
		classifier: classifier,
		logger:     logger,
	}
}

type CreateStudentRequest struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
}

type StudentResponse struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// List GET /v1/students
func (h *StudentsHandler) List(c *fiber.Ctx) error {
	students, err := h.students.List(c.Context())
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	resp := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		resp = append(resp, studentResponse(s))
	}
	return c.JSON(resp)
}

// Create POST /v1/students
func (h *StudentsHandler) Create(c *fiber.Ctx) error {
	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Name = strings.TrimSpace(req.Name)
	if !studentIDPattern.MatchString(req.StudentID) {
		return domain.ErrValidationFailed.WithError(errors.New("student_id must be 1-64 chars of letters, digits, - or _"))
	}
	if req.Name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	student := &domain.Student{StudentID: req.StudentID, Name: req.Name}
	if err := h.students.Create(c.Context(), student); err != nil {
		return err
	}

	h.logger.Info("student created", slog.String("student_id", student.StudentID))
	return c.Status(fiber.StatusCreated).JSON(studentResponse(*student))
}

// Get GET /v1/students/:student_id
func (h *StudentsHandler) Get(c *fiber.Ctx) error {
	student, err := h.students.GetByID(c.Context(), c.Params("student_id"))
	if err != nil {
		return err
	}
	return c.JSON(studentResponse(*student))
}

// Delete DELETE /v1/students/:student_id - removes the student, their
// reference embeddings, their photos, and reloads the classifier so the
// identity disappears from live recognition immediately.
func (h *StudentsHandler) Delete(c *fiber.Ctx) error {
	studentID := c.Params("student_id")

	if err := h.students.Delete(c.Context(), studentID); err != nil {
		return err
	}

	if err := h.photos.RemoveStudentDir(studentID); err != nil {
		h.logger.Warn("failed to remove student photos",
			slog.String("student_id", studentID),
			slog.String("error", err.Error()))
	}

	students, err := h.embeddings.ListAll(c.Context())
	if err != nil {
		h.logger.Error("classifier reload failed after delete",
			slog.String("error", err.Error()))
	} else {
		h.classifier.Reload(students)
	}

	h.logger.Info("student deleted", slog.String("student_id", studentID))
	return c.SendStatus(fiber.StatusNoContent)
}

func studentResponse(s domain.Student) StudentResponse {
	return StudentResponse{
		StudentID: s.StudentID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
