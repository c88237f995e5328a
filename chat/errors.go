package chat

import "errors"

var (
	// ErrStoreRequired is returned when NewSession is called without a
	// vector store.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrEmbedderRequired is returned when NewSession is called without
	// an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrGeneratorRequired is returned when NewSession is called without
	// a generator.
	ErrGeneratorRequired = errors.New("generator is required")

	// ErrEmptyInput is returned for an empty question.
	ErrEmptyInput = errors.New("input cannot be empty")
)
