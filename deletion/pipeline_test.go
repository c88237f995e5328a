package deletion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/notify"
	"github.com/groundline/groundline/vectorstore"
	"github.com/groundline/groundline/vectorstore/memory"
)

// fakeNotifier answers confirmation requests with a scripted decision.
type fakeNotifier struct {
	mu           sync.Mutex
	decision     notify.Decision
	respond      bool
	sent         []string
	prompts      []string
	requestErr   error
	decisionOnce chan notify.Decision
	requestCtx   context.Context
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) RequestConfirmation(ctx context.Context, prompt string) (<-chan notify.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.requestCtx = ctx
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	ch := make(chan notify.Decision, 1)
	if f.respond {
		ch <- f.decision
		close(ch)
	}
	f.decisionOnce = ch
	return ch, nil
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(3)
	err := store.Upsert(context.Background(), []vectorstore.Record{
		{
			ID:     core.RecordID("doc-1", 0),
			Vector: []float32{1, 0, 0},
			Payload: vectorstore.Payload{
				SourceDocumentID: "doc-1",
				Seq:              0,
				Text:             "a",
			},
		},
		{
			ID:     core.RecordID("doc-2", 0),
			Vector: []float32{0, 1, 0},
			Payload: vectorstore.Payload{
				SourceDocumentID: "doc-2",
				Seq:              0,
				Text:             "b",
			},
		},
	})
	require.NoError(t, err)
	return store
}

func TestRequestDelete_Approved(t *testing.T) {
	store := seededStore(t)
	notifier := &fakeNotifier{decision: notify.DecisionApproved, respond: true}

	p, err := NewPipeline(store, notifier, WithTimeout(time.Second))
	require.NoError(t, err)

	req, err := p.RequestDelete(context.Background(), []string{"doc-1"})
	require.NoError(t, err)
	assert.Equal(t, core.DeletionDeleted, req.Status())
	assert.Equal(t, 1, store.Len(), "only doc-1 records removed")
	assert.False(t, req.ResolvedAt().IsZero())

	require.Len(t, notifier.prompts, 1)
	assert.Contains(t, notifier.prompts[0], "doc-1")
	assert.Contains(t, notifier.prompts[0], "permanently")
}

func TestRequestDelete_Rejected(t *testing.T) {
	store := seededStore(t)
	notifier := &fakeNotifier{decision: notify.DecisionRejected, respond: true}

	p, err := NewPipeline(store, notifier, WithTimeout(time.Second))
	require.NoError(t, err)

	req, err := p.RequestDelete(context.Background(), []string{"doc-1"})
	require.NoError(t, err, "rejection is a normal outcome, not an error")
	assert.Equal(t, core.DeletionRejected, req.Status())
	assert.Equal(t, 2, store.Len(), "nothing deleted")
}

func TestRequestDelete_Timeout(t *testing.T) {
	store := seededStore(t)
	notifier := &fakeNotifier{respond: false}

	p, err := NewPipeline(store, notifier, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	req, err := p.RequestDelete(context.Background(), []string{"doc-1"})
	require.NoError(t, err)
	assert.Equal(t, core.DeletionExpired, req.Status())
	assert.Equal(t, 2, store.Len())
	require.NotEmpty(t, notifier.sent)
	assert.Contains(t, notifier.sent[0], "timeout")
}

func TestRequestDelete_ConfirmationContextReleasedOnReturn(t *testing.T) {
	store := seededStore(t)
	notifier := &fakeNotifier{respond: false}

	p, err := NewPipeline(store, notifier, WithTimeout(10*time.Millisecond))
	require.NoError(t, err)

	_, err = p.RequestDelete(context.Background(), []string{"doc-1"})
	require.NoError(t, err)

	// The listener watching the confirmation channel keys its shutdown off
	// this context; after a timeout it must be canceled even though the
	// caller's context is still alive.
	require.NotNil(t, notifier.requestCtx)
	assert.Error(t, notifier.requestCtx.Err())
}

func TestRequestDelete_ContextCanceled(t *testing.T) {
	store := seededStore(t)
	notifier := &fakeNotifier{respond: false}

	p, err := NewPipeline(store, notifier, WithTimeout(time.Minute))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	req, err := p.RequestDelete(ctx, []string{"doc-1"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, core.DeletionPending, req.Status())
}

func TestRequestDelete_NoTargets(t *testing.T) {
	p, err := NewPipeline(seededStore(t), &fakeNotifier{})
	require.NoError(t, err)

	_, err = p.RequestDelete(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoTargets)
}

func TestRequestDelete_NotifierFailure(t *testing.T) {
	notifier := &fakeNotifier{requestErr: errors.New("telegram unreachable")}
	p, err := NewPipeline(seededStore(t), notifier, WithTimeout(time.Second))
	require.NoError(t, err)

	req, err := p.RequestDelete(context.Background(), []string{"doc-1"})
	require.Error(t, err)
	assert.Equal(t, core.DeletionPending, req.Status())
}

// failingStore wraps the in-memory store and fails deletes on demand.
type failingStore struct {
	*memory.Store
	failDeletes bool
}

func (s *failingStore) DeleteBySource(ctx context.Context, ids []string) error {
	if s.failDeletes {
		return errors.New("qdrant unavailable")
	}
	return s.Store.DeleteBySource(ctx, ids)
}

func TestRequestDelete_StoreFailureIsRetriable(t *testing.T) {
	store := &failingStore{Store: seededStore(t), failDeletes: true}
	notifier := &fakeNotifier{decision: notify.DecisionApproved, respond: true}

	p, err := NewPipeline(store, notifier, WithTimeout(time.Second))
	require.NoError(t, err)

	req, err := p.RequestDelete(context.Background(), []string{"doc-1"})
	require.ErrorIs(t, err, ErrDeleteFailed)
	assert.Equal(t, core.DeletionApproved, req.Status(), "approval survives a failed delete")

	// The store recovers; the approved request can be retried without a
	// second confirmation round.
	store.failDeletes = false
	require.NoError(t, p.Retry(context.Background(), req))
	assert.Equal(t, core.DeletionDeleted, req.Status())
	assert.Equal(t, 1, store.Len())

	// Retrying a finished request is a no-op.
	require.NoError(t, p.Retry(context.Background(), req))
}

func TestRetry_StaleConfirmation(t *testing.T) {
	store := seededStore(t)
	notifier := &fakeNotifier{decision: notify.DecisionRejected, respond: true}

	p, err := NewPipeline(store, notifier, WithTimeout(time.Second))
	require.NoError(t, err)

	req, err := p.RequestDelete(context.Background(), []string{"doc-1"})
	require.NoError(t, err)

	err = p.Retry(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaleConfirmation)
	assert.Equal(t, 2, store.Len())
}

func TestRequest_TerminalStatusIsSticky(t *testing.T) {
	req := newRequest([]string{"doc-1"})
	require.True(t, req.transition(core.DeletionRejected))
	assert.False(t, req.transition(core.DeletionApproved), "rejected is terminal")
	assert.Equal(t, core.DeletionRejected, req.Status())
}

func TestNewPipeline_RequiredDependencies(t *testing.T) {
	_, err := NewPipeline(nil, &fakeNotifier{})
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(memory.NewStore(3), nil)
	assert.ErrorIs(t, err, ErrNotifierRequired)
}
