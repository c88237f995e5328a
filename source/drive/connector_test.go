package drive

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drv "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/source"
)

func newTestConnector(t *testing.T, handler http.Handler) source.Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := drv.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewConnectorWithService(svc)
}

func TestFetch_DocxExtraction(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Quarterly findings.</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	connector := newTestConnector(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "files/doc-docx") {
			rw.WriteHeader(http.StatusNotFound)
			return
		}
		rw.Write(buf.Bytes())
	}))

	doc, err := connector.Fetch(context.Background(), core.DocumentRef{
		ID:       "doc-docx",
		Name:     "report.docx",
		MimeType: MimeTypeDocx,
	})
	require.NoError(t, err)
	assert.Equal(t, "Quarterly findings.", doc.Content)
}

func TestFetch_PlainTextDownload(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte("hello from drive"))
	}))

	doc, err := connector.Fetch(context.Background(), core.DocumentRef{
		ID:       "doc-txt",
		Name:     "notes.txt",
		MimeType: "text/plain",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello from drive", doc.Content)
}

func TestFetch_UnsupportedFormat(t *testing.T) {
	connector := newTestConnector(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := connector.Fetch(context.Background(), core.DocumentRef{
		ID:       "doc-bin",
		Name:     "image.png",
		MimeType: "image/png",
	})
	assert.ErrorIs(t, err, source.ErrUnsupportedFormat)
}

func TestFetch_EmptyID(t *testing.T) {
	connector := newTestConnector(t, http.NotFoundHandler())

	_, err := connector.Fetch(context.Background(), core.DocumentRef{})
	assert.ErrorIs(t, err, core.ErrEmptyDocumentID)
}
