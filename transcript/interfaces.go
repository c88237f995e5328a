// Package transcript persists conversation history so chat sessions can be
// reviewed after the fact.
package transcript

import (
	"context"

	"github.com/groundline/groundline/core"
)

// Store is an append-only log of conversation turns.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append writes turns to the log in the order given.
	Append(ctx context.Context, turns ...core.Turn) error

	// Recent returns up to limit of the most recent turns in
	// chronological order, oldest first.
	Recent(ctx context.Context, limit int) ([]core.Turn, error)

	// Close releases resources held by the store.
	Close() error
}
