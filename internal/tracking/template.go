package tracking

import (
	"image"
	"math"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/imaging"
)

// nccAcceptThreshold is the minimum correlation for a template match to count
// as a successful update.
const nccAcceptThreshold = 0.4

// PointTracker follows a single face box across consecutive frames between
// detector passes. Init captures appearance at the given box; Update locates
// it in the next frame, reporting failure when the face was lost.
type PointTracker interface {
	Init(frame image.Image, box domain.BoundingBox) bool
	Update(frame image.Image) (bool, domain.BoundingBox)
}

// trackerFactory builds the PointTracker used for new tracks. Replaced by
// RegisterNativeTracker when an OpenCV-backed build is available.
var trackerFactory = func() PointTracker { return &TemplateTracker{} }

// RegisterNativeTracker swaps in an alternative PointTracker implementation,
// such as a cgo binding to a native visual tracker. Call before the first
// frame is processed.
func RegisterNativeTracker(factory func() PointTracker) {
	trackerFactory = factory
}

func newPointTracker() PointTracker {
	return trackerFactory()
}

// TemplateTracker follows a face by normalized cross-correlation of a
// grayscale template over a search window around the last known position. The
// window extends half the face size on every side, bounding per-frame motion
// to roughly half a face width.
type TemplateTracker struct {
	template *image.Gray
	box      domain.BoundingBox
}

var _ PointTracker = (*TemplateTracker)(nil)

func (t *TemplateTracker) Init(frame image.Image, box domain.BoundingBox) bool {
	r := box.Rect().Intersect(frame.Bounds())
	if r.Dx() < 2 || r.Dy() < 2 {
		return false
	}
	t.template = imaging.Grayscale(frame, r)
	t.box = domain.BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
	return true
}

func (t *TemplateTracker) Update(frame image.Image) (bool, domain.BoundingBox) {
	if t.template == nil {
		return false, domain.BoundingBox{}
	}

	marginX := t.box.Width / 2
	marginY := t.box.Height / 2
	window := image.Rect(
		t.box.X-marginX,
		t.box.Y-marginY,
		t.box.X+t.box.Width+marginX,
		t.box.Y+t.box.Height+marginY,
	).Intersect(frame.Bounds())

	if window.Dx() < t.box.Width || window.Dy() < t.box.Height {
		return false, domain.BoundingBox{}
	}

	search := imaging.Grayscale(frame, window)

	bestScore := -1.0
	bestPos := image.Point{}
	for y := window.Min.Y; y+t.box.Height <= window.Max.Y; y++ {
		for x := window.Min.X; x+t.box.Width <= window.Max.X; x++ {
			score := t.correlate(search, x, y)
			if score > bestScore {
				bestScore = score
				bestPos = image.Point{X: x, Y: y}
			}
		}
	}

	if bestScore <= nccAcceptThreshold {
		return false, domain.BoundingBox{}
	}

	t.box.X = bestPos.X
	t.box.Y = bestPos.Y
	return true, t.box
}

// correlate computes the zero-mean normalized cross-correlation between the
// stored template and the same-sized patch of search at (px, py), both in the
// frame's coordinate space.
func (t *TemplateTracker) correlate(search *image.Gray, px, py int) float64 {
	w, h := t.box.Width, t.box.Height
	n := float64(w * h)

	sb := search.Bounds()

	var sumT, sumP float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sumT += float64(t.template.Pix[y*t.template.Stride+x])
			sumP += float64(search.Pix[(py+y-sb.Min.Y)*search.Stride+(px+x-sb.Min.X)])
		}
	}
	meanT := sumT / n
	meanP := sumP / n

	var num, varT, varP float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dt := float64(t.template.Pix[y*t.template.Stride+x]) - meanT
			dp := float64(search.Pix[(py+y-sb.Min.Y)*search.Stride+(px+x-sb.Min.X)]) - meanP
			num += dt * dp
			varT += dt * dt
			varP += dp * dp
		}
	}

	denom := math.Sqrt(varT * varP)
	if denom == 0 {
		return -1
	}
	return num / denom
}
