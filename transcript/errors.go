package transcript

import "errors"

var (
	// ErrCorruptRecord indicates a stored turn that cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt transcript record")

	// ErrInvalidLimit indicates a non-positive limit passed to Recent.
	ErrInvalidLimit = errors.New("limit must be greater than 0")
)
