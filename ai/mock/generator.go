package mock

import (
	"context"
	"sync"

	"github.com/groundline/groundline/core"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
// Safe for concurrent use.
type MockGenerator struct {
	// CompleteFunc is called by Complete if set.
	// If nil, echoes the input back.
	CompleteFunc func(ctx context.Context, contextBlock string, history []core.Turn, input string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockGenerator creates a mock generator that echoes the input by default.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Complete returns a canned answer unless a CompleteFunc is injected.
func (m *MockGenerator) Complete(ctx context.Context, contextBlock string, history []core.Turn, input string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, contextBlock, history, input)
	}

	return "answer: " + input, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.CompleteFunc = nil
}
