package source

import "errors"

var (
	// ErrEmptyContainer indicates a missing container reference.
	ErrEmptyContainer = errors.New("container reference cannot be empty")

	// ErrDocumentNotFound indicates the referenced document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUnsupportedFormat indicates a document type that cannot be read
	// as text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
