package recognition

import (
	"context"
	"image"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
)

// Confidence thresholds for classifying a similarity score.
const (
	// ThresholdHigh is the auto-accept score.
	ThresholdHigh = 0.75
	// ThresholdLow is the floor below which an identity is not suggested.
	ThresholdLow = 0.50
	// ThresholdCandidate is the floor for inclusion in candidate lists.
	ThresholdCandidate = 0.40
)

// Match is the outcome of classifying one face against the enrolled set.
type Match struct {
	StudentID  string        `json:"student_id,omitempty"`
	Name       string        `json:"name"`
	Status     domain.Status `json:"status"`
	Confidence float64       `json:"confidence"`
	// Aligned reports whether the embedding used landmark alignment.
	Aligned bool `json:"aligned"`
}

// Candidate is one entry in a ranked shortlist of plausible identities.
type Candidate struct {
	StudentID  string  `json:"student_id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// identitySet is an immutable snapshot of the enrolled reference vectors.
// Reload publishes a fresh snapshot; Classify reads whichever snapshot is
// current when it starts, so a reload mid-call is safe.
type identitySet struct {
	order []string
	refs  map[string][][]float64
	names map[string]string
}

// Classifier scores query faces against enrolled reference embeddings.
type Classifier struct {
	provider provider.FaceProvider
	set      atomic.Pointer[identitySet]
	logger   *slog.Logger
}

func NewClassifier(p provider.FaceProvider, logger *slog.Logger) *Classifier {
	c := &Classifier{provider: p, logger: logger}
	c.set.Store(&identitySet{
		refs:  map[string][][]float64{},
		names: map[string]string{},
	})
	return c
}

// Reload atomically replaces the enrolled identity set. In-flight Classify
// calls finish against the snapshot they started with.
func (c *Classifier) Reload(students []domain.EnrolledStudent) {
	set := &identitySet{
		order: make([]string, 0, len(students)),
		refs:  make(map[string][][]float64, len(students)),
		names: make(map[string]string, len(students)),
	}
	total := 0
	for _, s := range students {
		if len(s.Embeddings) == 0 {
			continue
		}
		set.order = append(set.order, s.StudentID)
		set.refs[s.StudentID] = s.Embeddings
		set.names[s.StudentID] = s.Name
		total += len(s.Embeddings)
	}
	c.set.Store(set)
	c.logger.Info("classifier reloaded",
		slog.Int("students", len(set.order)),
		slog.Int("embeddings", total))
}

// Enrolled returns the number of identities in the current snapshot.
func (c *Classifier) Enrolled() int {
	return len(c.set.Load().order)
}

// Classify embeds the face in frame and scores it against every enrolled
// identity. An identity's score is the maximum similarity over its reference
// vectors. Provider failures degrade to UNKNOWN rather than erroring; a live
// video loop must keep running through transient model hiccups.
func (c *Classifier) Classify(ctx context.Context, frame image.Image, landmarks *domain.Landmarks) Match {
	unknown := Match{Name: "Unknown", Status: domain.StatusUnknown, Aligned: landmarks != nil}

	set := c.set.Load()
	if len(set.order) == 0 {
		return unknown
	}

	emb, err := c.provider.EmbedFace(ctx, frame, landmarks)
	if err != nil {
		c.logger.Warn("embedding failed", slog.String("error", err.Error()))
		return unknown
	}

	bestID := ""
	bestScore := 0.0
	for _, id := range set.order {
		score := c.bestRefScore(ctx, emb, set.refs[id])
		if score > bestScore {
			bestID, bestScore = id, score
		}
	}

	switch {
	case bestScore >= ThresholdHigh:
		return Match{
			StudentID:  bestID,
			Name:       set.names[bestID],
			Status:     domain.StatusRecognized,
			Confidence: bestScore,
			Aligned:    landmarks != nil,
		}
	case bestScore >= ThresholdLow:
		return Match{
			StudentID:  bestID,
			Name:       set.names[bestID],
			Status:     domain.StatusMaybe,
			Confidence: bestScore,
			Aligned:    landmarks != nil,
		}
	default:
		unknown.Confidence = bestScore
		return unknown
	}
}

// TopMatches returns up to n candidates scoring at least ThresholdCandidate,
// best first. Ties keep enrollment order, so repeated calls on the same frame
// rank identically.
func (c *Classifier) TopMatches(ctx context.Context, frame image.Image, landmarks *domain.Landmarks, n int) []Candidate {
	set := c.set.Load()
	if len(set.order) == 0 || n <= 0 {
		return nil
	}

	emb, err := c.provider.EmbedFace(ctx, frame, landmarks)
	if err != nil {
		c.logger.Warn("embedding failed", slog.String("error", err.Error()))
		return nil
	}

	candidates := make([]Candidate, 0, len(set.order))
	for _, id := range set.order {
		score := c.bestRefScore(ctx, emb, set.refs[id])
		if score >= ThresholdCandidate {
			candidates = append(candidates, Candidate{
				StudentID:  id,
				Name:       set.names[id],
				Confidence: score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

func (c *Classifier) bestRefScore(ctx context.Context, query []float64, refs [][]float64) float64 {
	best := 0.0
	for _, ref := range refs {
		score, err := c.provider.CompareFaces(ctx, query, ref)
		if err != nil {
			continue
		}
		if score > best {
			best = score
		}
	}
	return best
}
