// Package source defines connectors that enumerate and fetch documents from
// external storage such as Google Drive or a local directory.
package source

import (
	"context"

	"github.com/groundline/groundline/core"
)

// Connector lists and fetches documents from one storage backend.
// Implementations must be safe for concurrent use.
type Connector interface {
	// ListDocuments enumerates the documents inside a container, such as
	// a Drive folder ID or a directory path. Sub-containers are not
	// descended into.
	ListDocuments(ctx context.Context, containerRef string) ([]core.DocumentRef, error)

	// Fetch retrieves the full text content of a document.
	Fetch(ctx context.Context, ref core.DocumentRef) (*core.SourceDocument, error)
}
