package domain

// Status is the closed set of recognition outcomes. It replaces the loose
// status strings the processing loop used to pass around; consumers switch on
// it exhaustively.
type Status string

const (
	// StatusRecognized means the top score cleared the high-confidence
	// threshold; the identity can be trusted.
	StatusRecognized Status = "RECOGNIZED"
	// StatusMaybe means the top score landed between the low and high
	// thresholds; the identity is advisory only.
	StatusMaybe Status = "MAYBE"
	// StatusUnknown means no identity scored above the low threshold.
	StatusUnknown Status = "UNKNOWN"
	// StatusCooldown means the identity was recognized but is inside its
	// attendance cooldown window.
	StatusCooldown Status = "COOLDOWN"
	// StatusNoFace means no face was found in the frame.
	StatusNoFace Status = "NO_FACE"
)

// Action is the closed set of attendance decisions.
type Action string

const (
	ActionAutoMark Action = "AUTO_MARK"
	ActionMaybe    Action = "MAYBE"
	ActionUnknown  Action = "UNKNOWN"
	ActionCooldown Action = "COOLDOWN"
)

// Pose is a capture target orientation.
type Pose string

const (
	PoseFront Pose = "front"
	PoseLeft  Pose = "left"
	PoseRight Pose = "right"
)

// RequiredPoses returns the ordered capture targets for enrollment.
func RequiredPoses() []Pose {
	return []Pose{PoseFront, PoseLeft, PoseRight}
}

// CaptureState is the state of a guided enrollment session.
type CaptureState string

const (
	CaptureWaiting   CaptureState = "WAITING"
	CaptureCapturing CaptureState = "CAPTURING"
	CaptureCompleted CaptureState = "COMPLETED"
)
