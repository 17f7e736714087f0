package handler

import (
	"errors"
	"log/slog"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"github.com/KP-101219/Quickroll-V2/internal/attendance"
	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/repository"
	"github.com/KP-101219/Quickroll-V2/internal/ws"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// AttendanceHandler exposes today's marks, confidence stats and the manual
// marking flow used after MAYBE verifications.
type AttendanceHandler struct {
	engine   *attendance.Engine
	students repository.StudentRepositoryInterface
	logs     repository.AttendanceRepositoryInterface
	hub      *ws.Hub
	logger   *slog.Logger
}

func NewAttendanceHandler(
	engine *attendance.Engine,
	students repository.StudentRepositoryInterface,
	logs repository.AttendanceRepositoryInterface,
	hub *ws.Hub,
	logger *slog.Logger,
) *AttendanceHandler {
	return &AttendanceHandler{
		engine:   engine,
		students: students,
		logs:     logs,
		hub:      hub,
		logger:   logger,
	}
}

type MarkRequest struct {
	StudentID  string  `json:"student_id"`
	Confidence float64 `json:"confidence"`
}

type MarkResponse struct {
	Marked  bool   `json:"marked"`
	Message string `json:"message"`
}

// Today GET /v1/attendance/today
func (h *AttendanceHandler) Today(c *fiber.Ctx) error {
	records := h.engine.Today()
	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	return c.JSON(records)
}

// ByDate GET /v1/attendance?date=YYYY-MM-DD - historical log straight from
// storage; past days are not held in memory.
func (h *AttendanceHandler) ByDate(c *fiber.Ctx) error {
	date := c.Query("date")
	if !datePattern.MatchString(date) {
		return domain.ErrValidationFailed.WithError(errors.New("date must be YYYY-MM-DD"))
	}

	records, err := h.logs.ListByDate(c.Context(), date)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	return c.JSON(records)
}

// Stats GET /v1/attendance/stats
func (h *AttendanceHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.engine.ConfidenceStats())
}

// Mark POST /v1/attendance/mark - manual mark by an operator, typically after
// verifying a MAYBE match. Cooldown still applies.
func (h *AttendanceHandler) Mark(c *fiber.Ctx) error {
	var req MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.StudentID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("student_id is required"))
	}

	student, err := h.students.GetByID(c.Context(), req.StudentID)
	if err != nil {
		return err
	}

	marked, msg := h.engine.Mark(c.Context(), student.StudentID, student.Name, req.Confidence, "manual")
	if marked {
		h.hub.Broadcast(ws.EventAttendanceMarked, fiber.Map{
			"student_id": student.StudentID,
			"name":       student.Name,
			"confidence": req.Confidence,
			"marked_by":  "manual",
		})
	}

	status := fiber.StatusOK
	if !marked {
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(MarkResponse{Marked: marked, Message: msg})
}
