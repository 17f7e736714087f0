// Package mock provides a deterministic in-process FaceProvider used in
// tests and development setups without a model sidecar.
package mock

import (
	"context"
	"crypto/sha256"
	"image"
	"math"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/imaging"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
)

const minFrameSide = 32

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

// DetectFaces reports one synthetic face covering the central 60% of any
// frame at least minFrameSide pixels on a side.
func (p *Provider) DetectFaces(ctx context.Context, frame image.Image) ([]domain.Detection, error) {
	if frame == nil {
		return nil, domain.ErrInvalidImage
	}
	b := frame.Bounds()
	if b.Dx() < minFrameSide || b.Dy() < minFrameSide {
		return nil, domain.ErrInvalidImage
	}

	w, h := b.Dx(), b.Dy()
	box := domain.BoundingBox{
		X:      b.Min.X + w/5,
		Y:      b.Min.Y + h/5,
		Width:  w * 3 / 5,
		Height: h * 3 / 5,
	}

	cx := box.X + box.Width/2
	eyeY := box.Y + box.Height/3
	mouthY := box.Y + box.Height*3/4
	dx := box.Width / 5

	return []domain.Detection{
		{
			Box: box,
			Landmarks: domain.Landmarks{
				RightEye:   image.Pt(cx-dx, eyeY),
				LeftEye:    image.Pt(cx+dx, eyeY),
				Nose:       image.Pt(cx, box.Y+box.Height/2),
				RightMouth: image.Pt(cx-dx, mouthY),
				LeftMouth:  image.Pt(cx+dx, mouthY),
			},
			Confidence: 0.99,
		},
	}, nil
}

// modelInputSide matches the SFace input resolution.
const modelInputSide = 112

// EmbedFace derives a unit-length embedding from a hash of the frame's
// grayscale content normalized to the model input size, so identical faces
// embed identically regardless of crop scale.
func (p *Provider) EmbedFace(ctx context.Context, frame image.Image, landmarks *domain.Landmarks) ([]float64, error) {
	if frame == nil {
		return nil, domain.ErrInvalidImage
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, domain.ErrInvalidImage
	}

	scaled := imaging.Resize(frame, modelInputSide, modelInputSide)
	gray := imaging.Grayscale(scaled, scaled.Bounds())
	hash := sha256.Sum256(gray.Pix)

	embedding := make([]float64, provider.EmbeddingDimension)
	for i := range embedding {
		embedding[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	var norm float64
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding, nil
}

func (p *Provider) CompareFaces(ctx context.Context, a, b []float64) (float64, error) {
	if len(a) != provider.EmbeddingDimension || len(b) != provider.EmbeddingDimension {
		return 0, domain.ErrInvalidImage
	}
	return provider.CosineSimilarity(a, b), nil
}

var _ provider.FaceProvider = (*Provider)(nil)
