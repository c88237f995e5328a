// Copyright 2026 Groundline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package deletion removes ingested documents from the vector store, gated
// behind an explicit human confirmation.
package deletion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/notify"
	"github.com/groundline/groundline/vectorstore"
)

// DefaultTimeout is how long a confirmation request stays open.
const DefaultTimeout = 15 * time.Minute

// Request is one deletion request moving through the confirmation workflow.
// Its status is guarded for concurrent inspection.
type Request struct {
	mu         sync.Mutex
	targetIDs  []string
	status     core.DeletionStatus
	createdAt  time.Time
	resolvedAt time.Time
}

func newRequest(targetIDs []string) *Request {
	ids := make([]string, len(targetIDs))
	copy(ids, targetIDs)
	return &Request{
		targetIDs: ids,
		status:    core.DeletionPending,
		createdAt: time.Now().UTC(),
	}
}

// TargetIDs returns a copy of the source document IDs to delete.
func (r *Request) TargetIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.targetIDs))
	copy(ids, r.targetIDs)
	return ids
}

// Status returns the current workflow status.
func (r *Request) Status() core.DeletionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// CreatedAt returns when the request was opened.
func (r *Request) CreatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createdAt
}

// ResolvedAt returns when the request reached a terminal status, or the
// zero time if it has not.
func (r *Request) ResolvedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolvedAt
}

// transition moves the request to a new status. Terminal states are sticky
// except for approved, which may still advance to deleted. Returns false if
// the transition is not allowed.
func (r *Request) transition(to core.DeletionStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.status == core.DeletionApproved && to == core.DeletionDeleted:
	case r.status == core.DeletionPending && to != core.DeletionDeleted:
	default:
		return false
	}

	r.status = to
	if to.Terminal() {
		r.resolvedAt = time.Now().UTC()
	}
	return true
}

// Pipeline runs the confirm-then-delete workflow.
type Pipeline struct {
	store    vectorstore.Store
	notifier notify.Notifier
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithTimeout sets how long to wait for a human decision.
// Default is DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		p.timeout = d
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a deletion pipeline.
func NewPipeline(store vectorstore.Store, notifier notify.Notifier, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if notifier == nil {
		return nil, ErrNotifierRequired
	}

	p := &Pipeline{
		store:    store,
		notifier: notifier,
		timeout:  DefaultTimeout,
		logger:   slog.Default().With("component", "deletion-pipeline"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RequestDelete opens a deletion request for the given source documents and
// blocks until the operator decides, the confirmation times out, or ctx is
// canceled.
//
// Rejection and expiry are normal outcomes: the returned error is nil and
// the request status tells what happened. A non-nil error means either the
// request could not be delivered or the store delete failed after approval;
// in the latter case the request stays approved and can be retried.
func (p *Pipeline) RequestDelete(ctx context.Context, targetIDs []string) (*Request, error) {
	if len(targetIDs) == 0 {
		return nil, ErrNoTargets
	}

	req := newRequest(targetIDs)
	prompt := buildPrompt(targetIDs)

	// The confirmation listener exits when this context dies; cancel on
	// every return path so a timed-out request does not leak it.
	confCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	decisions, err := p.notifier.RequestConfirmation(confCtx, prompt)
	if err != nil {
		return req, fmt.Errorf("request confirmation: %w", err)
	}

	select {
	case decision, ok := <-decisions:
		if !ok {
			// Listener shut down without a decision.
			req.transition(core.DeletionExpired)
			return req, nil
		}
		if decision != notify.DecisionApproved {
			req.transition(core.DeletionRejected)
			p.logger.Info("deletion rejected", "targets", len(targetIDs))
			return req, nil
		}
		req.transition(core.DeletionApproved)

	case <-time.After(p.timeout):
		req.transition(core.DeletionExpired)
		p.logger.Warn("deletion confirmation timed out", "targets", len(targetIDs))
		if sendErr := p.notifier.Send(ctx, "⏱️ Confirmation timeout - operation cancelled"); sendErr != nil {
			p.logger.Warn("failed to send timeout notice", "err", sendErr)
		}
		return req, nil

	case <-ctx.Done():
		return req, ctx.Err()
	}

	return req, p.deleteApproved(ctx, req)
}

// Retry re-attempts the store delete for a previously approved request
// whose delete failed. Calling it on an already deleted request is a no-op.
func (p *Pipeline) Retry(ctx context.Context, req *Request) error {
	switch req.Status() {
	case core.DeletionDeleted:
		return nil
	case core.DeletionApproved:
		return p.deleteApproved(ctx, req)
	default:
		return fmt.Errorf("%w: status is %s", ErrStaleConfirmation, req.Status())
	}
}

func (p *Pipeline) deleteApproved(ctx context.Context, req *Request) error {
	ids := req.TargetIDs()
	if err := p.store.DeleteBySource(ctx, ids); err != nil {
		// Status stays approved so the caller can retry.
		p.logger.Error("store delete failed", "targets", len(ids), "err", err)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	req.transition(core.DeletionDeleted)
	p.logger.Info("documents deleted", "targets", len(ids))

	if err := p.notifier.Send(ctx, fmt.Sprintf("🗑️ Deleted %d document(s) from the index", len(ids))); err != nil {
		p.logger.Warn("failed to send deletion notice", "err", err)
	}
	return nil
}

func buildPrompt(targetIDs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Deletion request for %d document(s):\n", len(targetIDs))
	for _, id := range targetIDs {
		fmt.Fprintf(&b, "  - %s\n", id)
	}
	b.WriteString("\nThis permanently removes their records from the search index. Proceed?")
	return b.String()
}
