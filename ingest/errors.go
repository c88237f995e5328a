package ingest

import "errors"

var (
	// ErrConnectorRequired is returned when NewPipeline is called without
	// a source connector.
	ErrConnectorRequired = errors.New("source connector is required")

	// ErrStoreRequired is returned when NewPipeline is called without a
	// vector store.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrEmbedderRequired is returned when NewPipeline is called without
	// an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrExtractorRequired is returned when NewPipeline is called without
	// a metadata extractor.
	ErrExtractorRequired = errors.New("metadata extractor is required")
)
