// Package tracking keeps per-face state alive across video frames so the
// expensive detector and embedder only run on a fraction of them. Between
// detector passes each face is followed by a lightweight point tracker and
// keeps the identity from its last recognition.
package tracking

import (
	"context"
	"image"
	"log/slog"
	"sort"
	"sync"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/imaging"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
	"github.com/KP-101219/Quickroll-V2/internal/recognition"
)

// cropPadding is the pixel margin added around a tracked box before the
// fallback (unaligned) recognition crop.
const cropPadding = 10

// Options tunes the frame pipeline cadence. Zero values take the defaults.
type Options struct {
	// DetectionInterval is how many frames apart full detector passes run.
	DetectionInterval int
	// RecognitionInterval is how many frames apart recognition runs for a
	// track between detector passes.
	RecognitionInterval int
	// MaxTrackingFailures is how many consecutive point-tracker misses a
	// track survives before eviction.
	MaxTrackingFailures int
}

func (o *Options) fillDefaults() {
	if o.DetectionInterval <= 0 {
		o.DetectionInterval = 5
	}
	if o.RecognitionInterval <= 0 {
		o.RecognitionInterval = 15
	}
	if o.MaxTrackingFailures <= 0 {
		o.MaxTrackingFailures = 3
	}
}

// track is the live state of one followed face.
type track struct {
	id       int
	box      domain.BoundingBox
	pt       PointTracker
	failures int

	studentID  string
	name       string
	status     domain.Status
	confidence float64
	recognized bool
	tracked    bool
}

// FrameTracker is the per-stream frame pipeline. Process is safe for
// concurrent use, though a stream normally feeds frames from one goroutine.
type FrameTracker struct {
	provider   provider.FaceProvider
	classifier *recognition.Classifier
	opts       Options
	logger     *slog.Logger

	mu         sync.Mutex
	tracks     map[int]*track
	nextID     int
	frameCount int
}

func NewFrameTracker(p provider.FaceProvider, c *recognition.Classifier, opts Options, logger *slog.Logger) *FrameTracker {
	opts.fillDefaults()
	return &FrameTracker{
		provider:   p,
		classifier: c,
		opts:       opts,
		logger:     logger,
		tracks:     map[int]*track{},
		nextID:     1,
	}
}

// Process runs one frame through the pipeline and returns the current track
// set, ordered by track id. The frame counter advances exactly once per call.
func (ft *FrameTracker) Process(ctx context.Context, frame image.Image) []domain.TrackResult {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	ft.frameCount++

	if ft.frameCount%ft.opts.DetectionInterval == 0 || len(ft.tracks) == 0 {
		ft.detectPass(ctx, frame)
	} else {
		ft.trackPass(ctx, frame)
	}

	return ft.results()
}

// Reset drops all tracks and restarts the frame counter. Track ids keep
// counting up so a viewer never sees an id reused.
func (ft *FrameTracker) Reset() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.tracks = map[int]*track{}
	ft.frameCount = 0
}

// detectPass reconciles the track set against a fresh detector pass.
// Detections and surviving tracks are paired one-to-one, consuming the
// globally highest-overlap pair first until none above the threshold remain;
// unmatched detections open new tracks and unmatched tracks are dropped. The
// detector is the authority on which faces exist.
func (ft *FrameTracker) detectPass(ctx context.Context, frame image.Image) {
	detections, err := ft.provider.DetectFaces(ctx, frame)
	if err != nil {
		ft.logger.Warn("detection failed, falling back to tracking",
			slog.String("error", err.Error()))
		ft.trackPass(ctx, frame)
		return
	}

	matched := ft.matchDetections(detections)

	next := make(map[int]*track, len(detections))
	for i, det := range detections {
		tr, ok := matched[i]
		if !ok {
			tr = &track{id: ft.nextID}
			ft.nextID++
		}

		tr.box = det.Box
		tr.failures = 0
		tr.tracked = false
		tr.pt = newPointTracker()
		if !tr.pt.Init(frame, det.Box) {
			tr.pt = nil
		}

		lm := det.Landmarks
		ft.recognize(ctx, tr, frame, &lm)

		next[tr.id] = tr
	}

	ft.tracks = next
}

// matchDetections assigns live tracks to detections one-to-one by descending
// IoU. Ties break on the lower track id, then the earlier detection, so
// reconciliation is deterministic.
func (ft *FrameTracker) matchDetections(detections []domain.Detection) map[int]*track {
	type pair struct {
		trackID int
		det     int
		iou     float64
	}

	var pairs []pair
	for id, tr := range ft.tracks {
		for i, det := range detections {
			if overlap := IoU(det.Box, tr.box); overlap > iouMatchThreshold {
				pairs = append(pairs, pair{trackID: id, det: i, iou: overlap})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].iou != pairs[j].iou {
			return pairs[i].iou > pairs[j].iou
		}
		if pairs[i].trackID != pairs[j].trackID {
			return pairs[i].trackID < pairs[j].trackID
		}
		return pairs[i].det < pairs[j].det
	})

	matched := make(map[int]*track, len(pairs))
	claimed := make(map[int]bool, len(pairs))
	for _, p := range pairs {
		if claimed[p.trackID] {
			continue
		}
		if _, taken := matched[p.det]; taken {
			continue
		}
		matched[p.det] = ft.tracks[p.trackID]
		claimed[p.trackID] = true
	}
	return matched
}

// trackPass advances every track with its point tracker. A miss counts as a
// failure; the box is kept so a brief occlusion does not jump the overlay.
func (ft *FrameTracker) trackPass(ctx context.Context, frame image.Image) {
	recognizeNow := ft.frameCount%ft.opts.RecognitionInterval == 0

	for id, tr := range ft.tracks {
		ok := false
		if tr.pt != nil {
			var box domain.BoundingBox
			if ok, box = tr.pt.Update(frame); ok {
				tr.box = box
			}
		}

		if ok {
			tr.failures = 0
			tr.tracked = true
		} else {
			tr.failures++
			if tr.failures >= ft.opts.MaxTrackingFailures {
				delete(ft.tracks, id)
				continue
			}
		}

		// A miss leaves the box stale; re-embedding that region would
		// classify whatever drifted into it.
		if recognizeNow && ok {
			region := tr.box.Rect().Inset(-cropPadding).Intersect(frame.Bounds())
			ft.recognize(ctx, tr, imaging.Crop(frame, region), nil)
		}
	}
}

// recognize classifies the face and folds the result into the track. With
// landmarks present the full frame is embedded on the aligned path; without
// them the image is assumed to be a pre-cropped face.
func (ft *FrameTracker) recognize(ctx context.Context, tr *track, img image.Image, lm *domain.Landmarks) {
	m := ft.classifier.Classify(ctx, img, lm)
	tr.studentID = m.StudentID
	tr.name = m.Name
	tr.status = m.Status
	tr.confidence = m.Confidence
	tr.recognized = true
}

func (ft *FrameTracker) results() []domain.TrackResult {
	out := make([]domain.TrackResult, 0, len(ft.tracks))
	for _, tr := range ft.tracks {
		out = append(out, domain.TrackResult{
			TrackID:    tr.id,
			Box:        tr.box,
			StudentID:  tr.studentID,
			Name:       tr.name,
			Status:     tr.status,
			Confidence: tr.confidence,
			Tracked:    tr.tracked,
			Recognized: tr.recognized,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrackID < out[j].TrackID })
	return out
}
