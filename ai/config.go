package ai

import (
	"time"

	"github.com/pkg/errors"

	"github.com/podseek/podseek/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Embedding EmbeddingConfig
}

// EmbeddingConfig represents vector embedding configuration.
// Any OpenAI-compatible provider works; BaseURL selects the endpoint.
type EmbeddingConfig struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
	Timeout    time.Duration
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model:      p.EmbeddingModel,
			APIKey:     p.EmbeddingAPIKey,
			BaseURL:    p.EmbeddingBaseURL,
			Dimensions: p.EmbeddingDimensions,
			Timeout:    time.Duration(p.EmbeddingTimeout) * time.Second,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Embedding.APIKey == "" {
		return errors.New("embedding API key is required")
	}
	if c.Embedding.Model == "" {
		return errors.New("embedding model is required")
	}
	return nil
}
