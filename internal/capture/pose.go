package capture

import "github.com/KP-101219/Quickroll-V2/internal/domain"

// Yaw bands for pose classification. Yaw is a unitless asymmetry score in
// [-1, 1]: 0 means the nose sits midway between the eyes, positive means the
// nose has shifted toward the left eye in frame coordinates.
const (
	frontYawLimit = 0.2
	sideYawLimit  = 0.4
)

// EstimateYaw derives a head-turn score from the detector's eye and nose
// landmarks. mirrored flips the sign for mirrored previews, where the
// on-screen turn direction is the reverse of the physical one.
func EstimateYaw(lm domain.Landmarks, mirrored bool) float64 {
	rightDist := abs(lm.Nose.X - lm.RightEye.X)
	leftDist := abs(lm.LeftEye.X - lm.Nose.X)
	total := rightDist + leftDist
	if total == 0 {
		return 0
	}

	yaw := float64(rightDist-leftDist) / float64(total)
	if mirrored {
		yaw = -yaw
	}
	return yaw
}

// MatchesPose reports whether yaw satisfies the given capture target.
func MatchesPose(yaw float64, pose domain.Pose) bool {
	switch pose {
	case domain.PoseFront:
		return yaw > -frontYawLimit && yaw < frontYawLimit
	case domain.PoseLeft:
		return yaw > sideYawLimit
	case domain.PoseRight:
		return yaw < -sideYawLimit
	default:
		return false
	}
}

// PoseHint tells the subject how to move to reach the target pose.
func PoseHint(pose domain.Pose) string {
	switch pose {
	case domain.PoseFront:
		return "Look straight at the camera"
	case domain.PoseLeft:
		return "Turn your head to the left"
	case domain.PoseRight:
		return "Turn your head to the right"
	default:
		return ""
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
