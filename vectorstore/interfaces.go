package vectorstore

import (
	"context"

	"github.com/groundline/groundline/core"
)

// Payload is the metadata stored alongside each vector. It carries enough
// provenance to trace any search hit back to its source document.
type Payload struct {
	SourceDocumentID string             `json:"source_document_id"`
	SourceName       string             `json:"source_name"`
	Revision         string             `json:"revision"`
	Seq              int                `json:"seq"`
	Text             string             `json:"text"`
	Metadata         core.ChunkMetadata `json:"metadata"`
}

// Record is a vector with its identity and payload.
type Record struct {
	ID      core.ID
	Vector  []float32
	Payload Payload
}

// Match is a search hit with its similarity score.
type Match struct {
	Record Record
	Score  float32
}

// Filter restricts a query to records from specific source documents.
// A nil filter matches everything.
type Filter struct {
	SourceDocumentIDs []string
}

// Store is a vector database holding embedded document chunks.
// Implementations must be safe for concurrent use.
type Store interface {
	// EnsureCollection creates the backing collection if it does not
	// exist. Calling it against an existing collection is a no-op.
	EnsureCollection(ctx context.Context) error

	// Upsert writes records, replacing any existing record with the
	// same ID.
	Upsert(ctx context.Context, records []Record) error

	// Query returns up to k records most similar to the given vector,
	// best match first. A non-nil filter restricts the candidate set.
	Query(ctx context.Context, vector []float32, k int, filter *Filter) ([]Match, error)

	// DeleteBySource removes every record whose payload references one
	// of the given source document IDs. Unknown IDs are ignored.
	DeleteBySource(ctx context.Context, sourceDocumentIDs []string) error

	// SourceRevision returns the stored revision for a source document,
	// or empty string if the document has no records.
	SourceRevision(ctx context.Context, sourceDocumentID string) (string, error)

	// Close releases resources held by the store.
	Close() error
}
