package splitter

import "errors"

var (
	// ErrInvalidChunking indicates a bad size/overlap combination.
	ErrInvalidChunking = errors.New("invalid chunking parameters")
)
