package ws

import "time"

type EventType string

const (
	EventAttendanceMarked EventType = "attendance.marked"
	EventCaptureProgress  EventType = "capture.progress"
	EventCaptureCompleted EventType = "capture.completed"
	EventRosterReloaded   EventType = "roster.reloaded"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
