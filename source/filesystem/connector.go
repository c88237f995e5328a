// Package filesystem implements a source.Connector over a local directory.
// Each regular file in the directory is one document; its modification time
// serves as the revision.
package filesystem

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"strings"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/source"
	"github.com/groundline/groundline/source/extract"
)

// Connector reads documents from a local directory.
type Connector struct {
	logger *slog.Logger
}

// NewConnector creates a filesystem connector.
//
// Returns source.Connector interface to enforce abstraction.
func NewConnector() source.Connector {
	return &Connector{
		logger: slog.Default().With("component", "filesystem-connector"),
	}
}

// ListDocuments enumerates the regular files directly inside a directory.
// Subdirectories are not descended into.
func (c *Connector) ListDocuments(ctx context.Context, containerRef string) ([]core.DocumentRef, error) {
	if containerRef == "" {
		return nil, source.ErrEmptyContainer
	}

	entries, err := os.ReadDir(containerRef)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", containerRef, err)
	}

	refs := make([]core.DocumentRef, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}

		mimeType := mime.TypeByExtension(filepath.Ext(entry.Name()))
		if mimeType == "" {
			mimeType = "text/plain"
		}

		refs = append(refs, core.DocumentRef{
			ID:       filepath.Join(containerRef, entry.Name()),
			Name:     entry.Name(),
			MimeType: mimeType,
			Revision: info.ModTime().UTC().Format(time.RFC3339Nano),
		})
	}

	c.logger.Debug("listed directory", "dir", containerRef, "documents", len(refs))
	return refs, nil
}

// Fetch reads a document's content from disk. PDF and Word documents have
// their text extracted; everything else is returned as-is.
func (c *Connector) Fetch(ctx context.Context, ref core.DocumentRef) (*core.SourceDocument, error) {
	if ref.ID == "" {
		return nil, core.ErrEmptyDocumentID
	}

	data, err := os.ReadFile(ref.ID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", source.ErrDocumentNotFound, ref.ID)
		}
		return nil, fmt.Errorf("read %s: %w", ref.ID, err)
	}

	var content string
	switch {
	case ref.MimeType == "application/pdf" || strings.HasSuffix(ref.ID, ".pdf"):
		content, err = extract.PDF(data)
	case strings.HasSuffix(ref.ID, ".docx"):
		content, err = extract.DOCX(data)
	default:
		content = string(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", ref.ID, err)
	}

	return &core.SourceDocument{
		Ref:     ref,
		Content: content,
	}, nil
}
