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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/groundline/groundline/ai"
	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/retry"
)

// maxExtractionInput caps the chunk text sent to the model, in characters.
const maxExtractionInput = 50000

// Extractor implements ai.MetadataExtractor using Gemini chat models.
type Extractor struct {
	client     llms.Model
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger
}

// newExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExtractor(client llms.Model, retries int, retryDelay time.Duration) *Extractor {
	return &Extractor{
		client:     client,
		retries:    retries,
		retryDelay: retryDelay,
		logger:     slog.Default().With("component", "googleai-extractor"),
	}
}

// NewExtractor creates a metadata extractor on top of an existing chat model.
// Unparseable responses are retried retries times with exponential backoff
// starting at retryDelay.
//
// Returns ai.MetadataExtractor interface to enforce abstraction.
func NewExtractor(client llms.Model, retries int, retryDelay time.Duration) ai.MetadataExtractor {
	return newExtractor(client, retries, retryDelay)
}

// Extract derives structured metadata from a chunk of text.
//
// Transport and API errors are returned to the caller. Responses that remain
// unparseable after all attempts degrade to zero-value metadata without an
// error, so one stubborn chunk does not sink its whole document.
func (e *Extractor) Extract(ctx context.Context, text string) (core.ChunkMetadata, error) {
	if runes := []rune(text); len(runes) > maxExtractionInput {
		text = string(runes[:maxExtractionInput])
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildExtractionPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	var result core.ChunkMetadata
	err := retry.Do(ctx, func() error {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "err", err)
			return retry.Unrecoverable(fmt.Errorf("%w: %w", ai.ErrTransient, err))
		}

		if len(response.Choices) < 1 {
			e.logger.Warn("no choices returned from model")
			return fmt.Errorf("no choices returned from model")
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		var parsed core.ChunkMetadata
		if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
			e.logger.Warn("error parsing extraction response",
				"response", responseText,
				"err", err)
			return err
		}

		result = parsed
		return nil
	}, e.retries, e.retryDelay)

	if err != nil {
		if errors.Is(err, ai.ErrTransient) || ctx.Err() != nil {
			return core.ChunkMetadata{}, err
		}

		// Degrade rather than fail: the chunk is still indexed, just
		// without analytical metadata.
		e.logger.Error("failed to parse extraction response after retries, using empty metadata", "err", err)
		return core.ChunkMetadata{
			RecurringTopics:    []string{},
			PainPoints:         []string{},
			AnalyticalInsights: []string{},
			Keywords:           []string{},
		}, nil
	}

	result.CapKeywords()

	e.logger.Debug("extracted metadata",
		"topics", len(result.RecurringTopics),
		"keywords", len(result.Keywords))

	return result, nil
}
