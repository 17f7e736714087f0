package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/KP-101219/Quickroll-V2/internal/capture"
	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/recognition"
	"github.com/KP-101219/Quickroll-V2/internal/repository"
	"github.com/KP-101219/Quickroll-V2/internal/ws"
)

// CaptureHandler drives guided enrollment. On completion the captured
// embeddings are persisted and the classifier reloaded, so the student is
// recognizable without a restart.
type CaptureHandler struct {
	session    *capture.Session
	students   repository.StudentRepositoryInterface
	embeddings repository.EmbeddingRepositoryInterface
	classifier *recognition.Classifier
	hub        *ws.Hub
	logger     *slog.Logger
}

func NewCaptureHandler(
	session *capture.Session,
	students repository.StudentRepositoryInterface,
	embeddings repository.EmbeddingRepositoryInterface,
	classifier *recognition.Classifier,
	hub *ws.Hub,
	logger *slog.Logger,
) *CaptureHandler {
	return &CaptureHandler{
		session:    session,
		students:   students,
		embeddings: embeddings,
		classifier: classifier,
		hub:        hub,
		logger:     logger,
	}
}

type StartCaptureRequest struct {
	StudentID string `json:"student_id"`
}

type CaptureStatusResponse struct {
	State     domain.CaptureState `json:"state"`
	StudentID string              `json:"student_id,omitempty"`
}

// Start POST /v1/capture/start
func (h *CaptureHandler) Start(c *fiber.Ctx) error {
	var req StartCaptureRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.StudentID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("student_id is required"))
	}

	// The student record must exist before photos are attached to it.
	if _, err := h.students.GetByID(c.Context(), req.StudentID); err != nil {
		return err
	}

	if err := h.session.Start(req.StudentID); err != nil {
		return err
	}

	return c.JSON(CaptureStatusResponse{
		State:     h.session.State(),
		StudentID: req.StudentID,
	})
}

// ProcessFrame POST /v1/capture/frames - feed one preview frame to the
// session and get pose guidance back.
func (h *CaptureHandler) ProcessFrame(c *fiber.Ctx) error {
	frame, err := frameFromRequest(c)
	if err != nil {
		return err
	}

	report, err := h.session.Process(c.Context(), frame)
	if err != nil {
		return err
	}

	if report.Captured {
		h.hub.Broadcast(ws.EventCaptureProgress, fiber.Map{
			"student_id": h.session.StudentID(),
			"progress":   report.Progress,
			"total":      report.Total,
		})
	}

	if report.State == domain.CaptureCompleted {
		if err := h.finishSession(c); err != nil {
			return err
		}
	}

	return c.JSON(report)
}

// Status GET /v1/capture/status
func (h *CaptureHandler) Status(c *fiber.Ctx) error {
	return c.JSON(CaptureStatusResponse{
		State:     h.session.State(),
		StudentID: h.session.StudentID(),
	})
}

// Reset POST /v1/capture/reset
func (h *CaptureHandler) Reset(c *fiber.Ctx) error {
	h.session.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

// finishSession persists the session's embeddings, reloads the classifier and
// returns the station to the waiting state.
func (h *CaptureHandler) finishSession(c *fiber.Ctx) error {
	studentID := h.session.StudentID()

	results, err := h.session.Results()
	if err != nil {
		return err
	}

	for _, result := range results {
		if err := h.embeddings.Upsert(c.Context(), studentID, result.Pose, result.Embedding, result.Path); err != nil {
			return domain.ErrInternal.WithError(err)
		}
	}

	students, err := h.embeddings.ListAll(c.Context())
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}
	h.classifier.Reload(students)

	h.session.Reset()

	h.logger.Info("enrollment completed",
		slog.String("student_id", studentID),
		slog.Int("poses", len(results)))
	h.hub.Broadcast(ws.EventCaptureCompleted, fiber.Map{
		"student_id": studentID,
		"poses":      len(results),
	})
	return nil
}
