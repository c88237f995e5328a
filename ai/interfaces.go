package ai

import (
	"context"

	"github.com/groundline/groundline/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// MetadataExtractor derives structured analytical metadata from a chunk of
// document text. Implementations must be thread-safe for concurrent use.
type MetadataExtractor interface {
	// Extract analyzes a chunk of text and returns its metadata: the
	// overarching theme, recurring topics, pain points, analytical
	// insights, a conclusion, and up to core.MaxKeywords keywords.
	//
	// Malformed model output degrades to zero-value metadata rather than
	// an error; transport and API failures are returned as errors.
	Extract(ctx context.Context, text string) (core.ChunkMetadata, error)
}

// Generator produces conversational answers grounded in retrieved context.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Complete generates an answer to input using the supplied context
	// block of retrieved document excerpts and the prior conversation
	// history, oldest turn first.
	Complete(ctx context.Context, contextBlock string, history []core.Turn, input string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, MetadataExtractor and
// Generator instances, ensuring they share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// MetadataExtractor returns the chunk metadata extraction service.
	// The returned MetadataExtractor is safe for concurrent use.
	MetadataExtractor() MetadataExtractor

	// Generator returns the grounded answer generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
