package ai

import "errors"

var (
	// ErrTransient marks a failure worth retrying, such as a timeout or
	// rate limit. Wrap with fmt.Errorf("%w: ...", ErrTransient).
	ErrTransient = errors.New("transient ai error")

	// ErrPermanent marks a failure that will not succeed on retry, such
	// as an invalid API key or a rejected request.
	ErrPermanent = errors.New("permanent ai error")
)
