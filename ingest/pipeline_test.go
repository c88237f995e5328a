package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundline/groundline/ai"
	"github.com/groundline/groundline/ai/mock"
	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/vectorstore"
	"github.com/groundline/groundline/vectorstore/memory"
)

// fakeConnector serves documents from a map.
type fakeConnector struct {
	refs     []core.DocumentRef
	content  map[string]string
	fetchErr map[string]error
}

func (f *fakeConnector) ListDocuments(ctx context.Context, containerRef string) ([]core.DocumentRef, error) {
	return f.refs, nil
}

func (f *fakeConnector) Fetch(ctx context.Context, ref core.DocumentRef) (*core.SourceDocument, error) {
	if err := f.fetchErr[ref.ID]; err != nil {
		return nil, err
	}
	return &core.SourceDocument{Ref: ref, Content: f.content[ref.ID]}, nil
}

func newFakeConnector(docs map[string]string) *fakeConnector {
	f := &fakeConnector{
		content:  docs,
		fetchErr: map[string]error{},
	}
	for id := range docs {
		f.refs = append(f.refs, core.DocumentRef{
			ID:       id,
			Name:     id + ".txt",
			MimeType: "text/plain",
			Revision: "rev-1",
		})
	}
	return f
}

func newTestPipeline(t *testing.T, connector *fakeConnector, store vectorstore.Store, opts ...Option) *Pipeline {
	t.Helper()

	base := []Option{
		WithChunking(100, 20),
		WithRetry(2, time.Millisecond),
	}
	p, err := NewPipeline(connector, store, mock.NewMockEmbedder(), mock.NewMockExtractor(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestProcess_IngestsDocuments(t *testing.T) {
	connector := newFakeConnector(map[string]string{
		"doc-1": strings.Repeat("a", 250),
		"doc-2": "short",
	})
	store := memory.NewStore(384)
	p := newTestPipeline(t, connector, store)

	report, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Empty(t, report.Failed)
	// doc-1: chunks at [0,100),[80,180),[160,250); doc-2: one chunk
	assert.Equal(t, 4, report.ChunksWritten)
	assert.Equal(t, 4, store.Len())
}

func TestProcess_RecordProvenance(t *testing.T) {
	connector := newFakeConnector(map[string]string{"doc-1": "hello world"})
	store := memory.NewStore(384)
	p := newTestPipeline(t, connector, store)

	_, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	vec, err := embedder.EmbedText(context.Background(), "hello world")
	require.NoError(t, err)

	matches, err := store.Query(context.Background(), vec, 1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	payload := matches[0].Record.Payload
	assert.Equal(t, "doc-1", payload.SourceDocumentID)
	assert.Equal(t, "doc-1.txt", payload.SourceName)
	assert.Equal(t, "rev-1", payload.Revision)
	assert.Equal(t, 0, payload.Seq)
	assert.Equal(t, "hello world", payload.Text)
	assert.NotEmpty(t, payload.Metadata.Theme)
	assert.Equal(t, core.RecordID("doc-1", 0), matches[0].Record.ID)
}

func TestProcess_FailureIsolation(t *testing.T) {
	connector := newFakeConnector(map[string]string{
		"doc-1": "fine",
		"doc-2": "also fine",
		"doc-3": "never fetched",
	})
	connector.fetchErr["doc-3"] = errors.New("storage backend offline")

	store := memory.NewStore(384)
	p := newTestPipeline(t, connector, store)

	report, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err, "one bad document must not abort the run")

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "doc-3", report.Failed[0].DocumentID)
	assert.Contains(t, report.Failed[0].Reason, "storage backend offline")
}

func TestProcess_RerunSkipsUnchangedRevision(t *testing.T) {
	connector := newFakeConnector(map[string]string{"doc-1": "stable content"})
	store := memory.NewStore(384)
	p := newTestPipeline(t, connector, store)

	report, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)

	report, err = p.Process(context.Background(), "folder-1")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, store.Len())
}

func TestProcess_ForceReingestsAndDeduplicates(t *testing.T) {
	connector := newFakeConnector(map[string]string{"doc-1": strings.Repeat("b", 250)})
	store := memory.NewStore(384)
	p := newTestPipeline(t, connector, store, WithForce(true))

	for i := 0; i < 2; i++ {
		report, err := p.Process(context.Background(), "folder-1")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Succeeded)
	}

	// Deterministic IDs: the second run replaces, never duplicates.
	assert.Equal(t, 3, store.Len())
}

func TestProcess_ChangedRevisionReingests(t *testing.T) {
	connector := newFakeConnector(map[string]string{"doc-1": "version one"})
	store := memory.NewStore(384)
	p := newTestPipeline(t, connector, store)

	_, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)

	connector.refs[0].Revision = "rev-2"
	connector.content["doc-1"] = "version two"

	report, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Skipped)

	rev, err := store.SourceRevision(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "rev-2", rev)
}

func TestProcess_EmptyDocument(t *testing.T) {
	connector := newFakeConnector(map[string]string{"doc-1": ""})
	store := memory.NewStore(384)
	p := newTestPipeline(t, connector, store)

	report, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped, "a document with no content is skipped, not ingested")
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 0, report.ChunksWritten)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, report.Failed)
}

func TestProcess_PermanentEmbeddingErrorFailsDocument(t *testing.T) {
	connector := newFakeConnector(map[string]string{"doc-1": "content"})
	store := memory.NewStore(384)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, ai.ErrPermanent
	}

	p, err := NewPipeline(connector, store, embedder, mock.NewMockExtractor(),
		WithRetry(5, time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	report, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 1, embedder.CallCount(), "permanent errors must not be retried")
}

func TestProcess_TransientEmbeddingErrorRetries(t *testing.T) {
	connector := newFakeConnector(map[string]string{"doc-1": "content"})
	store := memory.NewStore(384)

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls == 1 {
			return nil, ai.ErrTransient
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = make([]float32, 384)
		}
		return vectors, nil
	}

	p, err := NewPipeline(connector, store, embedder, mock.NewMockExtractor(),
		WithRetry(3, time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	report, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 2, calls)
}

func TestProcess_ExtractionErrorFailsDocument(t *testing.T) {
	connector := newFakeConnector(map[string]string{"doc-1": "content"})
	store := memory.NewStore(384)

	extractor := mock.NewMockExtractor()
	extractor.ExtractFunc = func(ctx context.Context, text string) (core.ChunkMetadata, error) {
		return core.ChunkMetadata{}, errors.New("api key rejected")
	}

	p, err := NewPipeline(connector, store, mock.NewMockEmbedder(), extractor,
		WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	report, err := p.Process(context.Background(), "folder-1")
	require.NoError(t, err)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Reason, "api key rejected")
	assert.Equal(t, 0, store.Len())
}

func TestNewPipeline_RequiredDependencies(t *testing.T) {
	connector := newFakeConnector(nil)
	store := memory.NewStore(384)
	embedder := mock.NewMockEmbedder()
	extractor := mock.NewMockExtractor()

	_, err := NewPipeline(nil, store, embedder, extractor)
	assert.ErrorIs(t, err, ErrConnectorRequired)

	_, err = NewPipeline(connector, nil, embedder, extractor)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(connector, store, nil, extractor)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(connector, store, embedder, nil)
	assert.ErrorIs(t, err, ErrExtractorRequired)
}

func TestNewPipeline_InvalidChunking(t *testing.T) {
	connector := newFakeConnector(nil)
	_, err := NewPipeline(connector, memory.NewStore(384), mock.NewMockEmbedder(), mock.NewMockExtractor(),
		WithChunking(100, 100))
	assert.Error(t, err)
}
