package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/vectorstore"
)

func record(docID string, seq int, vector []float32) vectorstore.Record {
	return vectorstore.Record{
		ID:     core.RecordID(docID, seq),
		Vector: vector,
		Payload: vectorstore.Payload{
			SourceDocumentID: docID,
			SourceName:       docID + ".txt",
			Revision:         "rev-1",
			Seq:              seq,
			Text:             "chunk text",
		},
	}
}

func TestStore_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	store := NewStore(3)

	err := store.Upsert(ctx, []vectorstore.Record{
		record("doc-1", 0, []float32{1, 0, 0}),
		record("doc-1", 1, []float32{0, 1, 0}),
		record("doc-2", 0, []float32{0, 0, 1}),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())

	matches, err := store.Query(ctx, []float32{1, 0.1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "doc-1", matches[0].Record.Payload.SourceDocumentID)
	assert.Equal(t, 0, matches[0].Record.Payload.Seq)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestStore_UpsertReplacesSameID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(3)

	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{record("doc-1", 0, []float32{1, 0, 0})}))

	updated := record("doc-1", 0, []float32{0, 1, 0})
	updated.Payload.Revision = "rev-2"
	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{updated}))

	assert.Equal(t, 1, store.Len(), "same ID should replace, not duplicate")

	rev, err := store.SourceRevision(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "rev-2", rev)
}

func TestStore_QueryFilter(t *testing.T) {
	ctx := context.Background()
	store := NewStore(3)

	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{
		record("doc-1", 0, []float32{1, 0, 0}),
		record("doc-2", 0, []float32{1, 0, 0}),
	}))

	matches, err := store.Query(ctx, []float32{1, 0, 0}, 10, &vectorstore.Filter{
		SourceDocumentIDs: []string{"doc-2"},
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-2", matches[0].Record.Payload.SourceDocumentID)
}

func TestStore_DeleteBySource(t *testing.T) {
	ctx := context.Background()
	store := NewStore(3)

	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{
		record("doc-1", 0, []float32{1, 0, 0}),
		record("doc-1", 1, []float32{0, 1, 0}),
		record("doc-2", 0, []float32{0, 0, 1}),
	}))

	require.NoError(t, store.DeleteBySource(ctx, []string{"doc-1"}))
	assert.Equal(t, 1, store.Len())

	rev, err := store.SourceRevision(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, rev)

	// Deleting unknown IDs is a no-op.
	require.NoError(t, store.DeleteBySource(ctx, []string{"doc-99"}))
	assert.Equal(t, 1, store.Len())
}

func TestStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewStore(3)

	err := store.Upsert(ctx, []vectorstore.Record{record("doc-1", 0, []float32{1, 0})})
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)

	_, err = store.Query(ctx, []float32{1, 0}, 5, nil)
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestStore_InvalidK(t *testing.T) {
	_, err := NewStore(3).Query(context.Background(), []float32{1, 0, 0}, 0, nil)
	assert.ErrorIs(t, err, vectorstore.ErrInvalidQuery)
}
