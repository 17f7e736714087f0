package provider

import (
	"context"
	"image"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

// EmbeddingDimension is the length of the face embedding vectors produced by
// the SFace model family.
const EmbeddingDimension = 128

// FaceProvider is the boundary to the external detection and embedding
// models. Implementations are synchronous and bounded-latency; the frame
// pipeline caps how often they are called, it never offloads them.
type FaceProvider interface {
	// DetectFaces returns every face found in the frame with its bounding
	// box, five landmarks and detector confidence.
	DetectFaces(ctx context.Context, frame image.Image) ([]domain.Detection, error)

	// EmbedFace produces a fixed-length embedding for the face in frame.
	// When landmarks are non-nil the face is aligned before embedding (the
	// accurate path); otherwise the frame is treated as a pre-cropped face
	// and naively resized (the fallback path).
	EmbedFace(ctx context.Context, frame image.Image, landmarks *domain.Landmarks) ([]float64, error)

	// CompareFaces returns the similarity of two embeddings in [0, 1].
	CompareFaces(ctx context.Context, a, b []float64) (float64, error)
}
