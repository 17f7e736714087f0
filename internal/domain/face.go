package domain

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// BoundingBox is a face area in pixel coordinates (x, y, width, height).
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts the box to a stdlib image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Area returns the box area in pixels².
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Landmarks are the five facial keypoints reported by the detector, in the
// YuNet order: right eye, left eye, nose tip, right mouth corner, left mouth
// corner. Coordinates are relative to the full frame.
type Landmarks struct {
	RightEye   image.Point `json:"right_eye"`
	LeftEye    image.Point `json:"left_eye"`
	Nose       image.Point `json:"nose"`
	RightMouth image.Point `json:"right_mouth"`
	LeftMouth  image.Point `json:"left_mouth"`
}

// Detection is one face found by the external detector. Ephemeral: produced
// once per detection call, never persisted.
type Detection struct {
	Box        BoundingBox `json:"box"`
	Landmarks  Landmarks   `json:"landmarks"`
	Confidence float64     `json:"confidence"`
}

// EnrolledStudent is one identity loaded read-only into the classifier.
// Embeddings carries one reference vector per captured pose, in enrollment
// order.
type EnrolledStudent struct {
	StudentID  string      `json:"student_id"`
	Name       string      `json:"name"`
	Embeddings [][]float64 `json:"-"`
}

// Student is a registered student record.
type Student struct {
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AttendanceRecord is one accepted attendance mark.
type AttendanceRecord struct {
	ID         uuid.UUID `json:"id"`
	StudentID  string    `json:"student_id"`
	Name       string    `json:"name"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Time       string    `json:"time"` // HH:MM:SS
	Confidence float64   `json:"confidence"`
	MarkedBy   string    `json:"marked_by"`
	Status     string    `json:"status"`
}

// ConfidenceStats summarizes today's attendance confidence scores.
type ConfidenceStats struct {
	HighConfidenceCount int     `json:"high_confidence_count"`
	LowConfidenceCount  int     `json:"low_confidence_count"`
	AvgConfidence       float64 `json:"avg_confidence"`
}

// TrackResult is the per-track output of one FrameTracker pass.
type TrackResult struct {
	TrackID    int         `json:"track_id"`
	Box        BoundingBox `json:"box"`
	StudentID  string      `json:"student_id,omitempty"`
	Name       string      `json:"name"`
	Status     Status      `json:"status"`
	Confidence float64     `json:"confidence"`
	// Tracked is true when the box came from the lightweight tracker rather
	// than a fresh detection. Rendering emphasis only, never logic.
	Tracked bool `json:"tracked"`
	// Recognized is false until the first recognition pass has run for this
	// track; callers show a processing placeholder meanwhile.
	Recognized bool `json:"recognized"`
}

// Decision is the outcome of the attendance decision engine for one
// (identity, confidence) observation.
type Decision struct {
	Action               Action `json:"action"`
	Status               Status `json:"status"`
	RequiresVerification bool   `json:"requires_verification"`
	CanMark              bool   `json:"can_mark"`
	Message              string `json:"message"`
}
