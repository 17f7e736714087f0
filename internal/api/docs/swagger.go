package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// StudentData represents a registered student
type StudentData struct {
	StudentID string `json:"student_id" example:"2024001"`
	Name      string `json:"name" example:"Ana Souza"`
	CreatedAt string `json:"created_at" example:"2026-03-10T08:00:00Z"`
}

// TrackData represents one tracked face in a frame
type TrackData struct {
	TrackID    int     `json:"track_id" example:"1"`
	StudentID  string  `json:"student_id" example:"2024001"`
	Name       string  `json:"name" example:"Ana Souza"`
	Status     string  `json:"status" example:"RECOGNIZED"`
	Confidence float64 `json:"confidence" example:"0.82"`
	Marked     bool    `json:"marked" example:"true"`
}

// FrameData is the response for a processed recognition frame
type FrameData struct {
	Tracks []TrackData `json:"tracks"`
}

// IdentifyData is the response for a one-shot identification
type IdentifyData struct {
	StudentID  string  `json:"student_id" example:"2024001"`
	Name       string  `json:"name" example:"Ana Souza"`
	Status     string  `json:"status" example:"RECOGNIZED"`
	Confidence float64 `json:"confidence" example:"0.82"`
	Action     string  `json:"action" example:"AUTO_MARK"`
}

// CandidateData is one ranked identity candidate
type CandidateData struct {
	StudentID  string  `json:"student_id" example:"2024001"`
	Name       string  `json:"name" example:"Ana Souza"`
	Confidence float64 `json:"confidence" example:"0.63"`
}

// CandidatesData lists ranked candidates
type CandidatesData struct {
	Candidates []CandidateData `json:"candidates"`
}

// ReloadData reports the classifier state after a reload
type ReloadData struct {
	Students int `json:"students" example:"42"`
}

// AttendanceRecordData is one attendance mark
type AttendanceRecordData struct {
	StudentID  string  `json:"student_id" example:"2024001"`
	Name       string  `json:"name" example:"Ana Souza"`
	Date       string  `json:"date" example:"2026-03-10"`
	Time       string  `json:"time" example:"08:15:00"`
	Confidence float64 `json:"confidence" example:"0.82"`
	MarkedBy   string  `json:"marked_by" example:"auto"`
	Status     string  `json:"status" example:"present"`
}

// StatsData summarizes today's confidence scores
type StatsData struct {
	HighConfidenceCount int     `json:"high_confidence_count" example:"18"`
	LowConfidenceCount  int     `json:"low_confidence_count" example:"2"`
	AvgConfidence       float64 `json:"avg_confidence" example:"0.81"`
}

// MarkData is the result of a mark attempt
type MarkData struct {
	Marked  bool   `json:"marked" example:"true"`
	Message string `json:"message" example:"Marked Ana Souza present"`
}

// CaptureReportData is per-frame enrollment feedback
type CaptureReportData struct {
	State      string   `json:"state" example:"CAPTURING"`
	TargetPose string   `json:"target_pose" example:"left"`
	Progress   int      `json:"progress" example:"1"`
	Total      int      `json:"total" example:"3"`
	Message    string   `json:"message" example:"Turn your head to the left"`
	Captured   bool     `json:"captured" example:"false"`
	Issues     []string `json:"issues,omitempty"`
}

// CaptureStatusData is the enrollment session state
type CaptureStatusData struct {
	State     string `json:"state" example:"WAITING"`
	StudentID string `json:"student_id,omitempty" example:"2024001"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Quickroll Attendance API",
		Version:     "v1.0.0",
		Description: "Real-time face recognition attendance engine: live frame pipeline, guided enrollment and attendance reporting",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// Recognition
		endpoint.New(
			endpoint.POST,
			"/recognition/frames",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Process one camera frame"),
			endpoint.WithDescription("Runs a frame through the tracking pipeline and returns the current faces with attendance decisions. High-confidence matches outside their cooldown are marked automatically."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FrameData{}, "200", "Frame processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image"}, "422", "Unprocessable Entity"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/recognition/identify",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Identify the largest face in a still image"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentifyData{}, "200", "Identification completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/recognition/candidates",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("List ranked identity candidates for a face"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum candidates to return (1-20, default 5)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CandidatesData{}, "200", "Candidates listed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/recognition/reload",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Reload the enrolled identity set from storage"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ReloadData{}, "200", "Classifier reloaded"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/recognition/reset",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Drop all live tracks"),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "204", "Tracks reset"),
			}),
		),

		// Students
		endpoint.New(
			endpoint.GET,
			"/students",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("List registered students"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]StudentData{}, "200", "Students listed"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/students",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Register a new student"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentData{}, "201", "Student created"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "STUDENT_ALREADY_EXISTS", Message: "Student already registered with this id"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/students/{student_id}",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Get a student"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("student_id", parameter.Path, parameter.WithDescription("Student identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StudentData{}, "200", "Student found"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
			}),
		),
		endpoint.New(
			endpoint.DELETE,
			"/students/{student_id}",
			endpoint.WithTags("Students"),
			endpoint.WithSummary("Delete a student and their enrollment data"),
			endpoint.WithParams(
				parameter.StrParam("student_id", parameter.Path, parameter.WithDescription("Student identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "204", "Student deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
			}),
		),

		// Attendance
		endpoint.New(
			endpoint.GET,
			"/attendance/today",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List today's attendance marks"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]AttendanceRecordData{}, "200", "Marks listed"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List attendance marks for a date"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Date in YYYY-MM-DD")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]AttendanceRecordData{}, "200", "Marks listed"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/attendance/stats",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Summarize today's confidence scores"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatsData{}, "200", "Stats computed"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/attendance/mark",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Mark attendance manually"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MarkData{}, "200", "Attendance marked"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
				response.New(MarkData{Marked: false, Message: "Already marked (wait 890s)"}, "409", "Conflict"),
			}),
		),

		// Capture
		endpoint.New(
			endpoint.POST,
			"/capture/start",
			endpoint.WithTags("Capture"),
			endpoint.WithSummary("Start a guided enrollment session"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CaptureStatusData{}, "200", "Session started"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "CAPTURE_IN_PROGRESS", Message: "A capture session is already in progress"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "STUDENT_NOT_FOUND", Message: "Student not found"}, "404", "Not Found"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/capture/frames",
			endpoint.WithTags("Capture"),
			endpoint.WithSummary("Process one enrollment preview frame"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CaptureReportData{}, "200", "Frame evaluated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "CAPTURE_NOT_ACTIVE", Message: "No capture session in progress"}, "409", "Conflict"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/capture/status",
			endpoint.WithTags("Capture"),
			endpoint.WithSummary("Get the current enrollment session state"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CaptureStatusData{}, "200", "Session state"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/capture/reset",
			endpoint.WithTags("Capture"),
			endpoint.WithSummary("Abandon the current enrollment session"),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct{}{}, "204", "Session reset"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)
	return sw
}
