package deletion

import "errors"

var (
	// ErrStoreRequired is returned when NewPipeline is called without a
	// vector store.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrNotifierRequired is returned when NewPipeline is called without
	// a notifier.
	ErrNotifierRequired = errors.New("notifier is required")

	// ErrNoTargets is returned when a deletion request names no documents.
	ErrNoTargets = errors.New("deletion request has no targets")

	// ErrDeleteFailed indicates an approved deletion whose store delete
	// failed. The request stays approved and may be retried.
	ErrDeleteFailed = errors.New("store delete failed")

	// ErrStaleConfirmation indicates a retry against a request that is
	// not approved.
	ErrStaleConfirmation = errors.New("stale confirmation")
)
