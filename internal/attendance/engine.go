// Package attendance turns recognition results into attendance marks. The
// engine owns the day's in-memory mark log and the per-student cooldown that
// keeps one person from being marked over and over while they stay on camera.
package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/recognition"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// AttendanceStore persists accepted marks. The engine needs append and a
// same-day read for warm starts; reporting queries live elsewhere.
type AttendanceStore interface {
	Append(ctx context.Context, rec domain.AttendanceRecord) error
	ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error)
}

// Engine is the attendance decision engine. Safe for concurrent use.
type Engine struct {
	store    AttendanceStore
	cooldown time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	todayDate  string
	today      []domain.AttendanceRecord
	lastMarked map[string]time.Time

	now func() time.Time
}

// NewEngine builds an engine warmed from today's already-persisted marks, so
// a process restart does not reopen cooldown windows.
func NewEngine(ctx context.Context, store AttendanceStore, cooldown time.Duration, logger *slog.Logger) (*Engine, error) {
	e := &Engine{
		store:      store,
		cooldown:   cooldown,
		logger:     logger,
		lastMarked: map[string]time.Time{},
		now:        time.Now,
	}

	e.todayDate = e.now().Format(dateLayout)
	records, err := store.ListByDate(ctx, e.todayDate)
	if err != nil {
		return nil, fmt.Errorf("load today's attendance: %w", err)
	}
	e.today = records
	for _, rec := range records {
		at, err := time.ParseInLocation(dateLayout+" "+timeLayout, rec.Date+" "+rec.Time, time.Local)
		if err != nil {
			continue
		}
		if at.After(e.lastMarked[rec.StudentID]) {
			e.lastMarked[rec.StudentID] = at
		}
	}

	logger.Info("attendance engine ready",
		slog.String("date", e.todayDate),
		slog.Int("marks", len(records)))
	return e, nil
}

// Decide maps one (identity, confidence) observation to an action. It never
// mutates engine state: the same observation repeated yields the same answer
// until a Mark goes through.
func (e *Engine) Decide(studentID string, confidence float64) domain.Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	if studentID != "" {
		if remaining, active := e.cooldownRemaining(studentID); active {
			return domain.Decision{
				Action:  domain.ActionCooldown,
				Status:  domain.StatusCooldown,
				Message: fmt.Sprintf("Already marked (wait %ds)", int(remaining.Seconds())),
			}
		}
	}

	switch {
	case studentID != "" && confidence >= recognition.ThresholdHigh:
		return domain.Decision{
			Action:  domain.ActionAutoMark,
			Status:  domain.StatusRecognized,
			CanMark: true,
			Message: "High confidence match",
		}
	case studentID != "" && confidence >= recognition.ThresholdLow:
		return domain.Decision{
			Action:               domain.ActionMaybe,
			Status:               domain.StatusMaybe,
			RequiresVerification: true,
			CanMark:              true,
			Message:              "Possible match, verify before marking",
		}
	default:
		return domain.Decision{
			Action:  domain.ActionUnknown,
			Status:  domain.StatusUnknown,
			Message: "Face not recognized",
		}
	}
}

// Mark records attendance for a student. The mark is persisted before any
// in-memory state changes, so a storage failure leaves the cooldown untouched
// and the caller free to retry.
func (e *Engine) Mark(ctx context.Context, studentID, name string, confidence float64, source string) (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	if remaining, active := e.cooldownRemaining(studentID); active {
		return false, fmt.Sprintf("Already marked (wait %ds)", int(remaining.Seconds()))
	}

	now := e.now()
	rec := domain.AttendanceRecord{
		ID:         uuid.New(),
		StudentID:  studentID,
		Name:       name,
		Date:       now.Format(dateLayout),
		Time:       now.Format(timeLayout),
		Confidence: confidence,
		MarkedBy:   source,
		Status:     "present",
	}

	if err := e.store.Append(ctx, rec); err != nil {
		e.logger.Error("attendance append failed",
			slog.String("student_id", studentID),
			slog.String("error", err.Error()))
		return false, "Failed to record attendance"
	}

	e.lastMarked[studentID] = now
	e.today = append(e.today, rec)

	e.logger.Info("attendance marked",
		slog.String("student_id", studentID),
		slog.String("name", name),
		slog.Float64("confidence", confidence),
		slog.String("source", source))
	return true, fmt.Sprintf("Marked %s present", name)
}

// Today returns a copy of today's marks in arrival order.
func (e *Engine) Today() []domain.AttendanceRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()
	out := make([]domain.AttendanceRecord, len(e.today))
	copy(out, e.today)
	return out
}

// ConfidenceStats summarizes today's marks: how many cleared the high
// threshold, how many fell under the low one, and the mean score.
func (e *Engine) ConfidenceStats() domain.ConfidenceStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rollover()

	var stats domain.ConfidenceStats
	if len(e.today) == 0 {
		return stats
	}

	var sum float64
	for _, rec := range e.today {
		if rec.Confidence >= recognition.ThresholdHigh {
			stats.HighConfidenceCount++
		}
		if rec.Confidence < recognition.ThresholdLow {
			stats.LowConfidenceCount++
		}
		sum += rec.Confidence
	}
	stats.AvgConfidence = sum / float64(len(e.today))
	return stats
}

// cooldownRemaining reports whether studentID is inside its cooldown window.
// Caller holds e.mu.
func (e *Engine) cooldownRemaining(studentID string) (time.Duration, bool) {
	last, ok := e.lastMarked[studentID]
	if !ok {
		return 0, false
	}
	elapsed := e.now().Sub(last)
	if elapsed >= e.cooldown {
		return 0, false
	}
	return e.cooldown - elapsed, true
}

// rollover resets the day's state when the date changes. Caller holds e.mu.
func (e *Engine) rollover() {
	date := e.now().Format(dateLayout)
	if date == e.todayDate {
		return
	}
	e.todayDate = date
	e.today = nil
	e.lastMarked = map[string]time.Time{}
}
