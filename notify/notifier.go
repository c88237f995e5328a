// Package notify defines the human confirmation channel used by destructive
// operations.
package notify

import "context"

// Decision is a human response to a confirmation request.
type Decision int

const (
	// DecisionApproved means the operator approved the request.
	DecisionApproved Decision = iota + 1
	// DecisionRejected means the operator declined the request.
	DecisionRejected
)

// String returns the lowercase name of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionApproved:
		return "approved"
	case DecisionRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Notifier delivers messages to a human operator and collects explicit
// approve/reject decisions. Implementations must be safe for concurrent use.
type Notifier interface {
	// Send delivers a plain informational message.
	Send(ctx context.Context, text string) error

	// RequestConfirmation presents a prompt with approve/reject choices
	// and returns a channel that yields exactly one Decision when the
	// operator responds. The channel is closed after the decision is
	// delivered. Cancelling ctx abandons the request.
	RequestConfirmation(ctx context.Context, prompt string) (<-chan Decision, error)
}
