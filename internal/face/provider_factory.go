// Package face selects the concrete model backend at startup.
package face

import (
	"fmt"
	"time"

	"github.com/KP-101219/Quickroll-V2/internal/config"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
	"github.com/KP-101219/Quickroll-V2/internal/provider/mock"
	"github.com/KP-101219/Quickroll-V2/internal/provider/sface"
)

// ProviderType defines supported face model backends.
type ProviderType string

const (
	// ProviderTypeSFace is the self-hosted YuNet + SFace sidecar.
	ProviderTypeSFace ProviderType = "sface"
	// ProviderTypeMock is the deterministic in-process backend for dev/test.
	ProviderTypeMock ProviderType = "mock"
)

// NewFaceProvider creates a FaceProvider instance based on configuration.
//
// Environment variables:
//   - PROVIDER_TYPE: "sface" or "mock" (default: "sface")
//   - SFACE_URL: sidecar base URL (default: "http://localhost:5005")
func NewFaceProvider(cfg *config.Config) (provider.FaceProvider, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeSFace, "":
		return createSFaceProvider(cfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.ProviderType, ProviderTypeSFace, ProviderTypeMock)
	}
}

func createSFaceProvider(cfg *config.Config) provider.FaceProvider {
	sfaceConfig := sface.DefaultConfig()
	if cfg.SFaceURL != "" {
		sfaceConfig.BaseURL = cfg.SFaceURL
	}
	if cfg.SFaceTimeoutSeconds > 0 {
		sfaceConfig.Timeout = time.Duration(cfg.SFaceTimeoutSeconds) * time.Second
	}
	return sface.NewProvider(sfaceConfig)
}
