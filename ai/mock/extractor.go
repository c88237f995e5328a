package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/groundline/groundline/core"
)

// MockExtractor is a test double for ai.MetadataExtractor.
// It allows custom behavior injection via function fields.
// Safe for concurrent use.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, uses default deterministic behavior.
	ExtractFunc func(ctx context.Context, text string) (core.ChunkMetadata, error)

	mu        sync.Mutex
	callCount int
}

// NewMockExtractor creates a mock extractor with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns deterministic metadata derived from the text length.
func (m *MockExtractor) Extract(ctx context.Context, text string) (core.ChunkMetadata, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, text)
	}

	return core.ChunkMetadata{
		Theme:              fmt.Sprintf("theme for %d chars", len(text)),
		RecurringTopics:    []string{"topic"},
		PainPoints:         []string{},
		AnalyticalInsights: []string{},
		Conclusion:         "conclusion",
		Keywords:           []string{"keyword"},
	}, nil
}

// CallCount returns the number of times Extract was called.
func (m *MockExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ExtractFunc = nil
}
