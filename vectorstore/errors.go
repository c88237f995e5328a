package vectorstore

import "errors"

var (
	// ErrDimensionMismatch indicates a vector whose length differs from
	// the collection's configured dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidQuery indicates bad query parameters, such as k <= 0.
	ErrInvalidQuery = errors.New("invalid query")
)
