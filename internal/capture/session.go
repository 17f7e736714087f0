// Package capture runs guided enrollment: it walks a student through a fixed
// sequence of head poses, gates each frame on photo quality, and captures one
// photo plus one embedding per pose.
package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/imaging"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
	"github.com/KP-101219/Quickroll-V2/internal/storage"
)

// captureInterval is the minimum pause between two automatic captures, giving
// the subject time to settle into the next pose.
const captureInterval = time.Second

// cropPadFraction is the margin added around the face box before the saved
// photo crop.
const cropPadFraction = 0.2

// Report is the per-frame feedback of an active session.
type Report struct {
	State      domain.CaptureState `json:"state"`
	TargetPose domain.Pose         `json:"target_pose,omitempty"`
	Progress   int                 `json:"progress"`
	Total      int                 `json:"total"`
	Message    string              `json:"message"`
	// Captured is true on the single frame where a photo was taken; the UI
	// uses it for a shutter flash.
	Captured bool                 `json:"captured"`
	Box      *domain.BoundingBox  `json:"box,omitempty"`
	Issues   []string             `json:"issues,omitempty"`
}

// PoseCapture is one completed capture: the saved photo and the embedding
// computed from the full frame it came from.
type PoseCapture struct {
	Pose      domain.Pose
	Path      string
	Embedding []float64
}

// Session is the guided enrollment state machine for one station. A station
// enrolls one student at a time; Session methods are safe for concurrent use.
type Session struct {
	provider provider.FaceProvider
	store    *storage.Store
	mirrored bool
	logger   *slog.Logger

	mu          sync.Mutex
	state       domain.CaptureState
	studentID   string
	poseIdx     int
	captures    []PoseCapture
	lastCapture time.Time

	now func() time.Time
}

func NewSession(p provider.FaceProvider, store *storage.Store, mirrored bool, logger *slog.Logger) *Session {
	return &Session{
		provider: p,
		store:    store,
		mirrored: mirrored,
		logger:   logger,
		state:    domain.CaptureWaiting,
		now:      time.Now,
	}
}

// Start begins capturing for a student. A session already in progress must be
// reset or completed first.
func (s *Session) Start(studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.CaptureCapturing {
		return domain.ErrCaptureInProgress
	}
	if err := s.store.CreateStudentDir(studentID); err != nil {
		return err
	}

	s.state = domain.CaptureCapturing
	s.studentID = studentID
	s.poseIdx = 0
	s.captures = nil
	s.lastCapture = time.Time{}

	s.logger.Info("capture session started", slog.String("student_id", studentID))
	return nil
}

// Process evaluates one frame against the current pose target. When the frame
// passes every gate and the capture interval has elapsed, the photo and
// embedding are taken and the session advances to the next pose.
func (s *Session) Process(ctx context.Context, frame image.Image) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.CaptureCapturing {
		return Report{}, domain.ErrCaptureNotActive
	}

	poses := domain.RequiredPoses()
	target := poses[s.poseIdx]
	report := Report{
		State:      s.state,
		TargetPose: target,
		Progress:   len(s.captures),
		Total:      len(poses),
	}

	detections, err := s.provider.DetectFaces(ctx, frame)
	if err != nil {
		s.logger.Warn("capture detection failed", slog.String("error", err.Error()))
		report.Message = "Detection unavailable, hold on"
		return report, nil
	}
	if len(detections) == 0 {
		report.Message = "No face detected"
		return report, nil
	}

	det := largestFace(detections)
	report.Box = &det.Box

	if quality := CheckQuality(frame, det.Box); !quality.OK {
		report.Issues = quality.Issues
		report.Message = quality.Issues[0]
		return report, nil
	}

	yaw := EstimateYaw(det.Landmarks, s.mirrored)
	if !MatchesPose(yaw, target) {
		report.Message = PoseHint(target)
		return report, nil
	}

	if !s.lastCapture.IsZero() && s.now().Sub(s.lastCapture) < captureInterval {
		report.Message = "Hold still"
		return report, nil
	}

	if err := s.capture(ctx, frame, det, target); err != nil {
		s.logger.Error("capture failed",
			slog.String("student_id", s.studentID),
			slog.String("pose", string(target)),
			slog.String("error", err.Error()))
		report.Message = "Capture failed, try again"
		return report, nil
	}

	report.Captured = true
	report.Progress = len(s.captures)

	if s.poseIdx >= len(poses)-1 {
		s.state = domain.CaptureCompleted
		report.State = s.state
		report.Message = "All poses captured"
		s.logger.Info("capture session completed", slog.String("student_id", s.studentID))
		return report, nil
	}

	s.poseIdx++
	report.TargetPose = poses[s.poseIdx]
	report.Message = fmt.Sprintf("Captured %s, next: %s", target, poses[s.poseIdx])
	return report, nil
}

// Results returns the completed captures. Only valid once the session has
// reached the completed state.
func (s *Session) Results() ([]PoseCapture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.CaptureCompleted {
		return nil, domain.ErrCaptureNotActive
	}
	out := make([]PoseCapture, len(s.captures))
	copy(out, s.captures)
	return out, nil
}

// StudentID returns the student the session is capturing for.
func (s *Session) StudentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studentID
}

// State returns the current session state.
func (s *Session) State() domain.CaptureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset abandons the session and returns to the waiting state. Photos already
// written stay on disk; restarting the student overwrites them.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.CaptureWaiting
	s.studentID = ""
	s.poseIdx = 0
	s.captures = nil
	s.lastCapture = time.Time{}
}

// capture saves the padded face crop and embeds the full frame with its
// landmarks. Caller holds s.mu.
func (s *Session) capture(ctx context.Context, frame image.Image, det domain.Detection, pose domain.Pose) error {
	crop := imaging.Crop(frame, imaging.PadRect(det.Box.Rect(), cropPadFraction, frame.Bounds()))
	path, err := s.store.SaveImage(s.studentID, pose, crop)
	if err != nil {
		return err
	}

	lm := det.Landmarks
	embedding, err := s.provider.EmbedFace(ctx, frame, &lm)
	if err != nil {
		return err
	}

	s.captures = append(s.captures, PoseCapture{Pose: pose, Path: path, Embedding: embedding})
	s.lastCapture = s.now()
	return nil
}

// largestFace picks the detection with the biggest box area; the subject is
// assumed to be the closest face to the camera.
func largestFace(detections []domain.Detection) domain.Detection {
	best := detections[0]
	for _, det := range detections[1:] {
		if det.Box.Area() > best.Box.Area() {
			best = det
		}
	}
	return best
}
