package tracking

import "github.com/KP-101219/Quickroll-V2/internal/domain"

// iouMatchThreshold is the minimum overlap for a detection to be considered
// the same face as an existing track.
const iouMatchThreshold = 0.3

// IoU returns the intersection-over-union of two boxes in [0, 1]. Degenerate
// boxes score 0.
func IoU(a, b domain.BoundingBox) float64 {
	inter := a.Rect().Intersect(b.Rect())
	if inter.Empty() {
		return 0
	}

	interArea := inter.Dx() * inter.Dy()
	union := a.Area() + b.Area() - interArea
	if union <= 0 {
		return 0
	}
	return float64(interArea) / float64(union)
}
