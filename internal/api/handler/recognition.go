package handler

import (
	"context"
	"image"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/KP-101219/Quickroll-V2/internal/attendance"
	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
	"github.com/KP-101219/Quickroll-V2/internal/recognition"
	"github.com/KP-101219/Quickroll-V2/internal/tracking"
	"github.com/KP-101219/Quickroll-V2/internal/ws"
)

const defaultCandidateLimit = 5

// RosterLoader loads the enrolled reference set for classifier reloads.
type RosterLoader interface {
	ListAll(ctx context.Context) ([]domain.EnrolledStudent, error)
}

// RecognitionHandler drives the live recognition pipeline over HTTP: clients
// post camera frames and get back the tracked faces with their attendance
// decisions.
type RecognitionHandler struct {
	tracker    *tracking.FrameTracker
	classifier *recognition.Classifier
	engine     *attendance.Engine
	provider   provider.FaceProvider
	roster     RosterLoader
	hub        *ws.Hub
	logger     *slog.Logger
}

func NewRecognitionHandler(
	tracker *tracking.FrameTracker,
	classifier *recognition.Classifier,
	engine *attendance.Engine,
	faceProvider provider.FaceProvider,
	roster RosterLoader,
	hub *ws.Hub,
	logger *slog.Logger,
) *RecognitionHandler {
	return &RecognitionHandler{
		tracker:    tracker,
		classifier: classifier,
		engine:     engine,
		provider:   faceProvider,
		roster:     roster,
		hub:        hub,
		logger:     logger,
	}
}

// FrameTrackResponse is one tracked face in a frame response.
type FrameTrackResponse struct {
	domain.TrackResult
	Decision domain.Decision `json:"decision"`
	Marked   bool            `json:"marked"`
	Message  string          `json:"message,omitempty"`
}

// FrameResponse is the full result of one processed frame.
type FrameResponse struct {
	Tracks []FrameTrackResponse `json:"tracks"`
}

// IdentifyResponse is the result of a single-shot identification.
type IdentifyResponse struct {
	Match    recognition.Match  `json:"match"`
	Box      domain.BoundingBox `json:"box"`
	Decision domain.Decision    `json:"decision"`
}

// CandidatesResponse lists ranked identity candidates for a face.
type CandidatesResponse struct {
	Candidates []recognition.Candidate `json:"candidates"`
}

// ReloadResponse reports the classifier state after a roster reload.
type ReloadResponse struct {
	Students int `json:"students"`
}

// ProcessFrame POST /v1/recognition/frames - run one camera frame through the
// pipeline. Tracks whose decision is AUTO_MARK are marked immediately.
func (h *RecognitionHandler) ProcessFrame(c *fiber.Ctx) error {
	frame, err := frameFromRequest(c)
	if err != nil {
		return err
	}

	tracks := h.tracker.Process(c.Context(), frame)

	resp := FrameResponse{Tracks: make([]FrameTrackResponse, 0, len(tracks))}
	for _, track := range tracks {
		entry := FrameTrackResponse{TrackResult: track}
		entry.Decision = h.engine.Decide(track.StudentID, track.Confidence)

		if entry.Decision.Action == domain.ActionAutoMark {
			marked, msg := h.engine.Mark(c.Context(), track.StudentID, track.Name, track.Confidence, "auto")
			entry.Marked = marked
			entry.Message = msg
			if marked {
				entry.Decision.Status = domain.StatusCooldown
				h.hub.Broadcast(ws.EventAttendanceMarked, fiber.Map{
					"student_id": track.StudentID,
					"name":       track.Name,
					"confidence": track.Confidence,
					"marked_by":  "auto",
				})
			}
		}

		resp.Tracks = append(resp.Tracks, entry)
	}

	return c.JSON(resp)
}

// Identify POST /v1/recognition/identify - one-shot identification of the
// largest face in a still image. Never marks attendance.
func (h *RecognitionHandler) Identify(c *fiber.Ctx) error {
	frame, err := frameFromRequest(c)
	if err != nil {
		return err
	}

	det, err := h.largestFace(c, frame)
	if err != nil {
		return err
	}

	lm := det.Landmarks
	match := h.classifier.Classify(c.Context(), frame, &lm)

	return c.JSON(IdentifyResponse{
		Match:    match,
		Box:      det.Box,
		Decision: h.engine.Decide(match.StudentID, match.Confidence),
	})
}

// Candidates POST /v1/recognition/candidates - ranked shortlist of plausible
// identities for the largest face, for manual verification flows.
func (h *RecognitionHandler) Candidates(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultCandidateLimit)
	if limit < 1 || limit > 20 {
		return domain.ErrValidationFailed.WithError(
			fiber.NewError(fiber.StatusUnprocessableEntity, "limit must be between 1 and 20"))
	}

	frame, err := frameFromRequest(c)
	if err != nil {
		return err
	}

	det, err := h.largestFace(c, frame)
	if err != nil {
		return err
	}

	lm := det.Landmarks
	candidates := h.classifier.TopMatches(c.Context(), frame, &lm, limit)
	if candidates == nil {
		candidates = []recognition.Candidate{}
	}

	return c.JSON(CandidatesResponse{Candidates: candidates})
}

// Reload POST /v1/recognition/reload - reload the classifier from storage.
func (h *RecognitionHandler) Reload(c *fiber.Ctx) error {
	students, err := h.roster.ListAll(c.Context())
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	h.classifier.Reload(students)
	h.hub.Broadcast(ws.EventRosterReloaded, fiber.Map{"students": len(students)})

	return c.JSON(ReloadResponse{Students: h.classifier.Enrolled()})
}

// Reset POST /v1/recognition/reset - drop all live tracks, e.g. when the
// camera stream restarts.
func (h *RecognitionHandler) Reset(c *fiber.Ctx) error {
	h.tracker.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecognitionHandler) largestFace(c *fiber.Ctx, frame image.Image) (domain.Detection, error) {
	detections, err := h.provider.DetectFaces(c.Context(), frame)
	if err != nil {
		return domain.Detection{}, domain.ErrProviderUnavailable.WithError(err)
	}
	if len(detections) == 0 {
		return domain.Detection{}, domain.ErrNoFaceDetected
	}

	best := detections[0]
	for _, det := range detections[1:] {
		if det.Box.Area() > best.Box.Area() {
			best = det
		}
	}
	return best, nil
}
