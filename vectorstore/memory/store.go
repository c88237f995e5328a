// Package memory provides an in-process vectorstore.Store for tests and
// small corpora. Similarity is cosine.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/vectorstore"
)

// Store is an in-memory vector store. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	dim     int
	records map[core.ID]vectorstore.Record
}

// NewStore creates an empty store expecting vectors of the given dimension.
func NewStore(dim int) *Store {
	return &Store{
		dim:     dim,
		records: make(map[core.ID]vectorstore.Record),
	}
}

// EnsureCollection is a no-op for the in-memory store.
func (s *Store) EnsureCollection(ctx context.Context) error {
	return nil
}

// Upsert writes records, replacing existing records with the same ID.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if len(r.Vector) != s.dim {
			return fmt.Errorf("%w: got %d, want %d", vectorstore.ErrDimensionMismatch, len(r.Vector), s.dim)
		}
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

// Query returns up to k records most similar to vector, best first.
func (s *Store) Query(ctx context.Context, vector []float32, k int, filter *vectorstore.Filter) ([]vectorstore.Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", vectorstore.ErrInvalidQuery)
	}
	if len(vector) != s.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", vectorstore.ErrDimensionMismatch, len(vector), s.dim)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]vectorstore.Match, 0, len(s.records))
	for _, r := range s.records {
		if filter != nil && !matchesFilter(r.Payload.SourceDocumentID, filter) {
			continue
		}
		matches = append(matches, vectorstore.Match{
			Record: r,
			Score:  cosine(vector, r.Vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// DeleteBySource removes all records from the given source documents.
func (s *Store) DeleteBySource(ctx context.Context, sourceDocumentIDs []string) error {
	wanted := make(map[string]struct{}, len(sourceDocumentIDs))
	for _, id := range sourceDocumentIDs {
		wanted[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.records {
		if _, ok := wanted[r.Payload.SourceDocumentID]; ok {
			delete(s.records, id)
		}
	}
	return nil
}

// SourceRevision returns the stored revision for a source document, or
// empty string if no records reference it.
func (s *Store) SourceRevision(ctx context.Context, sourceDocumentID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.Payload.SourceDocumentID == sourceDocumentID {
			return r.Payload.Revision, nil
		}
	}
	return "", nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func matchesFilter(sourceID string, filter *vectorstore.Filter) bool {
	for _, id := range filter.SourceDocumentIDs {
		if id == sourceID {
			return true
		}
	}
	return false
}

func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
