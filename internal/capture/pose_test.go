package capture

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

func landmarksAt(rightEyeX, noseX, leftEyeX int) domain.Landmarks {
	return domain.Landmarks{
		RightEye: image.Point{X: rightEyeX, Y: 100},
		LeftEye:  image.Point{X: leftEyeX, Y: 100},
		Nose:     image.Point{X: noseX, Y: 120},
	}
}

func TestEstimateYaw(t *testing.T) {
	tests := []struct {
		name     string
		lm       domain.Landmarks
		mirrored bool
		want     float64
	}{
		{"centered nose", landmarksAt(80, 100, 120), false, 0.0},
		{"nose near right eye", landmarksAt(80, 85, 120), false, -0.75},
		{"nose near left eye", landmarksAt(80, 115, 120), false, 0.75},
		{"mirrored flips sign", landmarksAt(80, 85, 120), true, 0.75},
		{"coincident landmarks", landmarksAt(100, 100, 100), false, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateYaw(tt.lm, tt.mirrored), 1e-9)
		})
	}
}

func TestMatchesPose(t *testing.T) {
	tests := []struct {
		name string
		yaw  float64
		pose domain.Pose
		want bool
	}{
		{"straight on matches front", 0.0, domain.PoseFront, true},
		{"slight turn still front", 0.15, domain.PoseFront, true},
		{"front band is exclusive", 0.2, domain.PoseFront, false},
		{"strong positive matches left", 0.5, domain.PoseLeft, true},
		{"left band is exclusive", 0.4, domain.PoseLeft, false},
		{"front yaw does not match left", 0.1, domain.PoseLeft, false},
		{"strong negative matches right", -0.5, domain.PoseRight, true},
		{"right band is exclusive", -0.4, domain.PoseRight, false},
		{"left turn does not match right", 0.5, domain.PoseRight, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesPose(tt.yaw, tt.pose))
		})
	}
}
