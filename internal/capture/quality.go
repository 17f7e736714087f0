package capture

import (
	"fmt"
	"image"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/imaging"
)

// Quality gates for an enrollment photo. A frame failing any of them is
// rejected with an itemized reason list so the UI can coach the subject.
const (
	minFaceSize       = 60
	minSharpness      = 100.0
	minMeanBrightness = 40.0
	maxMeanBrightness = 220.0
)

// QualityReport lists everything wrong with a candidate capture. OK means the
// face region passed every gate.
type QualityReport struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"issues,omitempty"`
}

// CheckQuality gates the face region of frame for enrollment. All gates are
// evaluated so the report names every problem at once, not just the first.
func CheckQuality(frame image.Image, box domain.BoundingBox) QualityReport {
	var issues []string

	if box.Width < minFaceSize || box.Height < minFaceSize {
		issues = append(issues, fmt.Sprintf("face too small (%dx%d, need %dx%d)",
			box.Width, box.Height, minFaceSize, minFaceSize))
	}

	region := box.Rect().Intersect(frame.Bounds())
	if region.Empty() {
		issues = append(issues, "face outside frame")
		return QualityReport{Issues: issues}
	}

	gray := imaging.Grayscale(frame, region)

	if sharpness := imaging.LaplacianVariance(gray); sharpness < minSharpness {
		issues = append(issues, fmt.Sprintf("image too blurry (sharpness %.0f, need %.0f)",
			sharpness, minSharpness))
	}

	brightness := imaging.MeanBrightness(gray)
	if brightness < minMeanBrightness {
		issues = append(issues, fmt.Sprintf("too dark (brightness %.0f, need %.0f)",
			brightness, minMeanBrightness))
	}
	if brightness > maxMeanBrightness {
		issues = append(issues, fmt.Sprintf("too bright (brightness %.0f, max %.0f)",
			brightness, maxMeanBrightness))
	}

	return QualityReport{OK: len(issues) == 0, Issues: issues}
}
