// Package sface implements provider.FaceProvider against a self-hosted
// YuNet + SFace model sidecar.
package sface

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
)

// Provider implements provider.FaceProvider using the SFace sidecar.
type Provider struct {
	client *Client
}

// NewProvider creates a new sidecar-backed provider.
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectFaces detects faces in the frame.
func (p *Provider) DetectFaces(ctx context.Context, frame image.Image) ([]domain.Detection, error) {
	encoded, err := encodeFrame(frame)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Detect(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	detections := make([]domain.Detection, 0, len(resp.Faces))
	for _, f := range resp.Faces {
		detections = append(detections, domain.Detection{
			Box: domain.BoundingBox{
				X:      f.Box[0],
				Y:      f.Box[1],
				Width:  f.Box[2],
				Height: f.Box[3],
			},
			Landmarks:  landmarksFromWire(f.Landmarks),
			Confidence: f.Confidence,
		})
	}
	return detections, nil
}

// EmbedFace produces an embedding for the face in frame. With landmarks the
// sidecar aligns the face first; without, it treats the frame as a
// pre-cropped face and resizes.
func (p *Provider) EmbedFace(ctx context.Context, frame image.Image, landmarks *domain.Landmarks) ([]float64, error) {
	encoded, err := encodeFrame(frame)
	if err != nil {
		return nil, err
	}

	var wireLandmarks *[5][2]int
	if landmarks != nil {
		w := landmarksToWire(*landmarks)
		wireLandmarks = &w
	}

	resp, err := p.client.Embed(ctx, encoded, wireLandmarks)
	if err != nil {
		return nil, fmt.Errorf("embed face: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, ErrNoFaceInResponse
	}

	return resp.Embedding, nil
}

// CompareFaces calculates similarity between two embeddings. The sidecar has
// no comparison endpoint; cosine similarity is computed locally.
func (p *Provider) CompareFaces(ctx context.Context, a, b []float64) (float64, error) {
	return provider.CosineSimilarity(a, b), nil
}

func encodeFrame(frame image.Image) (string, error) {
	if frame == nil || frame.Bounds().Empty() {
		return "", domain.ErrInvalidImage
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 90}); err != nil {
		return "", domain.ErrInvalidImage.WithError(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func landmarksFromWire(w [5][2]int) domain.Landmarks {
	return domain.Landmarks{
		RightEye:   image.Pt(w[0][0], w[0][1]),
		LeftEye:    image.Pt(w[1][0], w[1][1]),
		Nose:       image.Pt(w[2][0], w[2][1]),
		RightMouth: image.Pt(w[3][0], w[3][1]),
		LeftMouth:  image.Pt(w[4][0], w[4][1]),
	}
}

func landmarksToWire(lm domain.Landmarks) [5][2]int {
	return [5][2]int{
		{lm.RightEye.X, lm.RightEye.Y},
		{lm.LeftEye.X, lm.LeftEye.Y},
		{lm.Nose.X, lm.Nose.Y},
		{lm.RightMouth.X, lm.RightMouth.Y},
		{lm.LeftMouth.X, lm.LeftMouth.Y},
	}
}

// Ensure Provider implements provider.FaceProvider.
var _ provider.FaceProvider = (*Provider)(nil)
