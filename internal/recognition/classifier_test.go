package recognition

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
)

// fakeProvider returns a canned embedding and scores comparisons by cosine
// similarity, so tests control scores through the vectors themselves.
type fakeProvider struct {
	embedding []float64
	embedErr  error
}

func (f *fakeProvider) DetectFaces(_ context.Context, _ image.Image) ([]domain.Detection, error) {
	return nil, nil
}

func (f *fakeProvider) EmbedFace(_ context.Context, _ image.Image, _ *domain.Landmarks) ([]float64, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedding, nil
}

func (f *fakeProvider) CompareFaces(_ context.Context, a, b []float64) (float64, error) {
	return provider.CosineSimilarity(a, b), nil
}

func testFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 64, 64))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// vec builds a sparse unit-ish vector with a single dominant axis plus a
// little mass on a shared axis so cross-identity scores are nonzero.
func vec(axis int, dominant, shared float64) []float64 {
	v := make([]float64, provider.EmbeddingDimension)
	v[axis] = dominant
	v[0] = shared
	return v
}

func TestClassifier_Classify(t *testing.T) {
	query := vec(1, 1.0, 0.0)

	tests := []struct {
		name       string
		students   []domain.EnrolledStudent
		wantStatus domain.Status
		wantID     string
	}{
		{
			name: "high score recognized",
			students: []domain.EnrolledStudent{
				{StudentID: "s1", Name: "Ana", Embeddings: [][]float64{vec(1, 1.0, 0.0)}},
			},
			wantStatus: domain.StatusRecognized,
			wantID:     "s1",
		},
		{
			name: "mid score maybe",
			students: []domain.EnrolledStudent{
				// cos(query, ref) = 0.6 for ref with 0.6 on axis 1 and the
				// rest of its mass orthogonal to the query.
				{StudentID: "s1", Name: "Ana", Embeddings: [][]float64{
					{0, 0.6, 0.8},
				}},
			},
			wantStatus: domain.StatusMaybe,
			wantID:     "s1",
		},
		{
			name: "low score unknown",
			students: []domain.EnrolledStudent{
				{StudentID: "s1", Name: "Ana", Embeddings: [][]float64{
					{0, 0.2, 0.9797958971},
				}},
			},
			wantStatus: domain.StatusUnknown,
			wantID:     "",
		},
		{
			name:       "empty gallery unknown",
			students:   nil,
			wantStatus: domain.StatusUnknown,
			wantID:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&fakeProvider{embedding: query}, testLogger())
			c.Reload(tt.students)

			m := c.Classify(context.Background(), testFrame(), nil)

			assert.Equal(t, tt.wantStatus, m.Status)
			assert.Equal(t, tt.wantID, m.StudentID)
		})
	}
}

func TestClassifier_Classify_BestOfReferences(t *testing.T) {
	query := vec(1, 1.0, 0.0)
	c := NewClassifier(&fakeProvider{embedding: query}, testLogger())
	c.Reload([]domain.EnrolledStudent{
		{StudentID: "s1", Name: "Ana", Embeddings: [][]float64{
			{0, 0.2, 0.9797958971}, // weak reference
			vec(1, 1.0, 0.0),       // strong reference
		}},
	})

	m := c.Classify(context.Background(), testFrame(), nil)

	require.Equal(t, domain.StatusRecognized, m.Status)
	assert.InDelta(t, 1.0, m.Confidence, 1e-9)
}

func TestClassifier_Classify_ProviderFailure(t *testing.T) {
	c := NewClassifier(&fakeProvider{embedErr: errors.New("sidecar down")}, testLogger())
	c.Reload([]domain.EnrolledStudent{
		{StudentID: "s1", Name: "Ana", Embeddings: [][]float64{vec(1, 1.0, 0.0)}},
	})

	m := c.Classify(context.Background(), testFrame(), nil)

	assert.Equal(t, domain.StatusUnknown, m.Status)
	assert.Empty(t, m.StudentID)
}

func TestClassifier_TopMatches(t *testing.T) {
	query := vec(1, 1.0, 0.3)
	c := NewClassifier(&fakeProvider{embedding: query}, testLogger())
	c.Reload([]domain.EnrolledStudent{
		{StudentID: "s1", Name: "Ana", Embeddings: [][]float64{vec(1, 1.0, 0.3)}},
		{StudentID: "s2", Name: "Bruno", Embeddings: [][]float64{vec(2, 1.0, 0.3)}},
		{StudentID: "s3", Name: "Carla", Embeddings: [][]float64{vec(1, 0.6, 0.0)}},
	})

	got := c.TopMatches(context.Background(), testFrame(), nil, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].StudentID)
	assert.Equal(t, "s3", got[1].StudentID)
	assert.Greater(t, got[0].Confidence, got[1].Confidence)
}

func TestClassifier_TopMatches_FloorsAndLimits(t *testing.T) {
	query := vec(1, 1.0, 0.0)
	c := NewClassifier(&fakeProvider{embedding: query}, testLogger())
	c.Reload([]domain.EnrolledStudent{
		{StudentID: "s1", Name: "Ana", Embeddings: [][]float64{vec(1, 1.0, 0.0)}},
		// Orthogonal to query, scores 0 and must be excluded.
		{StudentID: "s2", Name: "Bruno", Embeddings: [][]float64{vec(2, 1.0, 0.0)}},
	})

	got := c.TopMatches(context.Background(), testFrame(), nil, 10)

	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].StudentID)
}

func TestClassifier_Reload_SwapsGallery(t *testing.T) {
	query := vec(1, 1.0, 0.0)
	c := NewClassifier(&fakeProvider{embedding: query}, testLogger())

	c.Reload([]domain.EnrolledStudent{
		{StudentID: "s1", Name: "Ana", Embeddings: [][]float64{vec(1, 1.0, 0.0)}},
	})
	require.Equal(t, 1, c.Enrolled())
	require.Equal(t, "s1", c.Classify(context.Background(), testFrame(), nil).StudentID)

	c.Reload([]domain.EnrolledStudent{
		{StudentID: "s2", Name: "Bruno", Embeddings: [][]float64{vec(1, 1.0, 0.0)}},
		// Students without embeddings are skipped.
		{StudentID: "s3", Name: "Carla"},
	})
	assert.Equal(t, 1, c.Enrolled())
	assert.Equal(t, "s2", c.Classify(context.Background(), testFrame(), nil).StudentID)
}
