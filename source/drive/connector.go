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


// Package drive implements a source.Connector over the Google Drive API.
package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/source"
	"github.com/groundline/groundline/source/extract"
)

// Google Workspace MIME types that need export instead of download.
const (
	MimeTypeGoogleDoc   = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet = "application/vnd.google-apps.spreadsheet"
	MimeTypeFolder      = "application/vnd.google-apps.folder"
)

// Binary formats with their own text extraction.
const (
	MimeTypePDF  = "application/pdf"
	MimeTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Export formats for Google Workspace files.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// MaxFetchSize is the maximum size for fetched content (5MB).
const MaxFetchSize = 5 * 1024 * 1024

const listPageSize = 100

// Connector reads documents from a Google Drive folder.
type Connector struct {
	svc    *drive.Service
	logger *slog.Logger
}

// NewConnector creates a Drive connector authenticated with the given token
// source.
//
// Returns source.Connector interface to enforce abstraction.
func NewConnector(ctx context.Context, ts oauth2.TokenSource) (source.Connector, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Connector{
		svc:    svc,
		logger: slog.Default().With("component", "drive-connector"),
	}, nil
}

// NewConnectorWithService wraps an existing Drive service. Useful for tests
// that point the service at a fake HTTP endpoint.
func NewConnectorWithService(svc *drive.Service) source.Connector {
	return &Connector{
		svc:    svc,
		logger: slog.Default().With("component", "drive-connector"),
	}
}

// ListDocuments enumerates the files directly inside a Drive folder.
// Sub-folders and trashed files are excluded.
func (c *Connector) ListDocuments(ctx context.Context, containerRef string) ([]core.DocumentRef, error) {
	if containerRef == "" {
		return nil, source.ErrEmptyContainer
	}

	query := fmt.Sprintf("'%s' in parents and trashed = false", containerRef)

	var refs []core.DocumentRef
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType, modifiedTime)").
			PageSize(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", containerRef, err)
		}

		for _, file := range page.Files {
			if file.MimeType == MimeTypeFolder {
				continue
			}
			refs = append(refs, core.DocumentRef{
				ID:       file.Id,
				Name:     file.Name,
				MimeType: file.MimeType,
				Revision: file.ModifiedTime,
			})
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.Debug("listed folder", "folder", containerRef, "documents", len(refs))
	return refs, nil
}

// Fetch retrieves the text content of a document. Google Workspace files are
// exported to a text format, PDF and Word documents have their text
// extracted, and regular text files are downloaded directly.
func (c *Connector) Fetch(ctx context.Context, ref core.DocumentRef) (*core.SourceDocument, error) {
	if ref.ID == "" {
		return nil, core.ErrEmptyDocumentID
	}

	var content string
	var err error
	switch ref.MimeType {
	case MimeTypeGoogleDoc:
		content, err = c.export(ctx, ref.ID, ExportMimeText)
	case MimeTypeGoogleSheet:
		content, err = c.export(ctx, ref.ID, ExportMimeCSV)
	case MimeTypePDF:
		var data []byte
		if data, err = c.downloadBytes(ctx, ref.ID); err == nil {
			content, err = extract.PDF(data)
		}
	case MimeTypeDocx:
		var data []byte
		if data, err = c.downloadBytes(ctx, ref.ID); err == nil {
			content, err = extract.DOCX(data)
		}
	default:
		if !isTextMime(ref.MimeType) {
			return nil, fmt.Errorf("%w: %s (%s)", source.ErrUnsupportedFormat, ref.Name, ref.MimeType)
		}
		content, err = c.download(ctx, ref.ID)
	}
	if err != nil {
		return nil, err
	}

	return &core.SourceDocument{
		Ref:     ref,
		Content: content,
	}, nil
}

func (c *Connector) export(ctx context.Context, fileID, exportMime string) (string, error) {
	resp, err := c.svc.Files.Export(fileID, exportMime).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("export file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize))
	if err != nil {
		return "", fmt.Errorf("read export: %w", err)
	}
	return string(data), nil
}

func (c *Connector) download(ctx context.Context, fileID string) (string, error) {
	data, err := c.downloadBytes(ctx, fileID)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Connector) downloadBytes(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("read file content: %w", err)
	}
	return data, nil
}

// isTextMime checks if a MIME type is likely text content.
func isTextMime(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/x-yaml":
		return true
	}
	return false
}
