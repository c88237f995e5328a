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


package googleai

import (
	"context"
	"log/slog"

	lcgoogleai "github.com/tmc/langchaingo/llms/googleai"

	"github.com/groundline/groundline/ai"
	"github.com/groundline/groundline/ai/openai"
)

// Provider implements ai.Provider with OpenAI-compatible embeddings and
// Gemini-backed extraction and generation.
type Provider struct {
	config    *ai.Config
	embedder  ai.Embedder
	extractor *Extractor
	generator *Generator
	logger    *slog.Logger
}

// NewProvider creates an AI provider combining an OpenAI-compatible embedding
// service with Gemini chat models. The config is validated and normalized
// before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		return nil, err
	}

	client, err := lcgoogleai.New(ctx,
		lcgoogleai.WithAPIKey(config.GenerationAPIKey),
		lcgoogleai.WithDefaultModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		extractor: newExtractor(client, config.ExtractionRetries, config.ExtractionRetryDelay),
		generator: newGenerator(client),
		logger:    slog.Default().With("component", "googleai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// MetadataExtractor returns the metadata extraction service.
func (p *Provider) MetadataExtractor() ai.MetadataExtractor {
	return p.extractor
}

// Generator returns the answer generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing Google AI provider")
	return nil
}
