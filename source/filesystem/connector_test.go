package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/source"
)

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("bravo"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	connector := NewConnector()
	refs, err := connector.ListDocuments(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, refs, 2, "subdirectories are skipped")

	names := []string{refs[0].Name, refs[1].Name}
	assert.Contains(t, names, "a.txt")
	assert.Contains(t, names, "b.md")
	for _, ref := range refs {
		assert.NotEmpty(t, ref.Revision)
		assert.NotEmpty(t, ref.MimeType)
	}
}

func TestListDocuments_EmptyContainer(t *testing.T) {
	_, err := NewConnector().ListDocuments(context.Background(), "")
	assert.ErrorIs(t, err, source.ErrEmptyContainer)
}

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("document body"), 0o644))

	connector := NewConnector()
	refs, err := connector.ListDocuments(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, refs, 1)

	doc, err := connector.Fetch(context.Background(), refs[0])
	require.NoError(t, err)
	assert.Equal(t, "document body", doc.Content)
	assert.Equal(t, refs[0], doc.Ref)
}

func TestFetch_NotFound(t *testing.T) {
	connector := NewConnector()
	_, err := connector.Fetch(context.Background(), core.DocumentRef{ID: "/nonexistent/path.txt"})
	assert.ErrorIs(t, err, source.ErrDocumentNotFound)
}

func TestFetch_EmptyID(t *testing.T) {
	_, err := NewConnector().Fetch(context.Background(), core.DocumentRef{})
	assert.ErrorIs(t, err, core.ErrEmptyDocumentID)
}
