package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/groundline/groundline/ai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.EmbeddingAPIKey
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	embeddings, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, classifyError(err)
	}

	if len(embeddings) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return embeddings[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	embeddings, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, classifyError(err)
	}

	return embeddings, nil
}

// classifyError marks an embedding failure as transient or permanent so
// callers can decide whether to retry. Rate limits, timeouts and server
// errors are transient; other client errors (bad auth, invalid input) are
// permanent. Context errors pass through unmarked.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if code, ok := statusCodeFromError(err); ok {
		switch {
		case code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500:
			return fmt.Errorf("%w: %w", ai.ErrTransient, err)
		case code >= 400:
			return fmt.Errorf("%w: %w", ai.ErrPermanent, err)
		}
	}

	// Network-level failures carry no status code; assume retriable.
	return fmt.Errorf("%w: %w", ai.ErrTransient, err)
}

// statusCodeFromError recovers the HTTP status code from the client's
// "status code: NNN" error text.
func statusCodeFromError(err error) (int, bool) {
	const marker = "status code: "
	s := err.Error()
	idx := strings.Index(s, marker)
	if idx < 0 {
		return 0, false
	}
	s = s[idx+len(marker):]
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	code, convErr := strconv.Atoi(s[:end])
	if convErr != nil {
		return 0, false
	}
	return code, true
}
