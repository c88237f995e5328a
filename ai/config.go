// Copyright 2026 Groundline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://api.openai.com/v1" or a local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-large"
	EmbeddingModel string

	// EmbeddingAPIKey authenticates requests to the embedding service.
	EmbeddingAPIKey string

	// GenerationModel is the model identifier used for both metadata
	// extraction and grounded answer generation.
	// Example: "gemini-2.0-flash"
	GenerationModel string

	// GenerationAPIKey authenticates requests to the generation service.
	GenerationAPIKey string

	// ExtractionRetries is the number of attempts to obtain parseable
	// metadata from the model before degrading to empty metadata.
	// Default: 3
	ExtractionRetries int

	// ExtractionRetryDelay is the base backoff delay between extraction
	// attempts. It doubles on each retry.
	// Default: 500ms
	ExtractionRetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingAPIKey sets the embedding service API key.
func WithEmbeddingAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingAPIKey = key
	}
}

// WithGenerationModel sets the generation model identifier.
func WithGenerationModel(model string) ConfigOption {
	return func(c *Config) {
		c.GenerationModel = model
	}
}

// WithGenerationAPIKey sets the generation service API key.
func WithGenerationAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.GenerationAPIKey = key
	}
}

// WithExtractionRetries sets the number of metadata extraction attempts.
func WithExtractionRetries(n int) ConfigOption {
	return func(c *Config) {
		c.ExtractionRetries = n
	}
}

// WithExtractionRetryDelay sets the base backoff delay between extraction
// attempts.
func WithExtractionRetryDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.ExtractionRetryDelay = d
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:        "https://api.openai.com/v1",
		EmbeddingModel:       "text-embedding-3-large",
		GenerationModel:      "gemini-2.0-flash",
		ExtractionRetries:    3,
		ExtractionRetryDelay: 500 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithGenerationAPIKey(os.Getenv("GOOGLE_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the embedding host if missing,
// which is required by most OpenAI-compatible APIs.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GenerationModel == "" {
		return errors.New("ai config: GenerationModel is required")
	}
	if c.ExtractionRetries < 1 {
		return errors.New("ai config: ExtractionRetries must be at least 1")
	}
	if c.ExtractionRetryDelay < 0 {
		return errors.New("ai config: ExtractionRetryDelay must not be negative")
	}
	return nil
}
