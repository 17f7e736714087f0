package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Face model backend
	ProviderType        string `envconfig:"PROVIDER_TYPE" default:"sface"`
	SFaceURL            string `envconfig:"SFACE_URL" default:"http://localhost:5005"`
	SFaceTimeoutSeconds int    `envconfig:"SFACE_TIMEOUT_SECONDS" default:"10"`

	// Captured image storage
	DataDir string `envconfig:"DATA_DIR" default:"data/students"`

	// Frame pipeline cadence
	DetectionInterval   int `envconfig:"DETECTION_INTERVAL" default:"5"`
	RecognitionInterval int `envconfig:"RECOGNITION_INTERVAL" default:"15"`
	MaxTrackingFailures int `envconfig:"MAX_TRACKING_FAILURES" default:"3"`

	// Attendance policy
	CooldownSeconds int `envconfig:"COOLDOWN_SECONDS" default:"900"`

	// Capture preview orientation. A mirrored preview flips which head turn
	// satisfies each pose target, so the yaw sign must flip with it.
	MirrorPreview bool `envconfig:"MIRROR_PREVIEW" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
