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


// Package qdrant implements vectorstore.Store against Qdrant's REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/vectorstore"
)

// qdrantStatus supports both `status: "ok"` and `status: {"error":"..."}`.
type qdrantStatus struct {
	State string // "ok" or "error"
	Error string // non-empty if error
}

func (s *qdrantStatus) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		s.State = strings.ToLower(v)
		return nil
	}
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Error != "" {
		s.State = "error"
		s.Error = obj.Error
	}
	return nil
}

type qdrantEnvelope[T any] struct {
	Status qdrantStatus `json:"status"`
	Time   float64      `json:"time"`
	Result T            `json:"result"`
}

type qdrantPoint struct {
	ID      uint64              `json:"id"`
	Score   float32             `json:"score"`
	Payload vectorstore.Payload `json:"payload"`
	Vector  []float32           `json:"vector"`
}

type qdrantScrollResult struct {
	Points []qdrantPoint `json:"points"`
}

// Store is a Qdrant-backed vector store. Safe for concurrent use.
type Store struct {
	baseURL    string
	apiKey     string
	collection string
	dim        int
	client     *http.Client
	logger     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAPIKey sets the api-key header sent on every request.
func WithAPIKey(key string) Option {
	return func(s *Store) {
		s.apiKey = key
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		s.client = client
	}
}

// NewStore creates a Qdrant-backed vectorstore.Store. baseURL defaults to
// http://localhost:6333 when empty.
//
// Returns the interface type to enforce abstraction.
func NewStore(baseURL, collection string, dim int, opts ...Option) (vectorstore.Store, error) {
	if collection == "" {
		return nil, errors.New("qdrant: collection is required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("qdrant: invalid vector dimension %d", dim)
	}
	if baseURL == "" {
		baseURL = "http://localhost:6333"
	}

	s := &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		dim:        dim,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default().With("component", "qdrant-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureCollection creates the collection if missing. An "already exists"
// response from Qdrant is treated as success.
func (s *Store) EnsureCollection(ctx context.Context) error {
	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.dim,
			"distance": "Cosine",
		},
	}

	var env qdrantEnvelope[json.RawMessage]
	err := s.do(ctx, http.MethodPut, s.collectionPath(""), req, &env)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil
		}
		return err
	}
	if env.Status.State == "error" {
		if strings.Contains(strings.ToLower(env.Status.Error), "already exists") {
			return nil
		}
		return errors.New(env.Status.Error)
	}

	s.logger.Debug("collection ready", "collection", s.collection, "dim", s.dim)
	return nil
}

// Upsert writes records, replacing any with the same ID.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if len(r.Vector) != s.dim {
			return fmt.Errorf("%w: got %d, want %d", vectorstore.ErrDimensionMismatch, len(r.Vector), s.dim)
		}
	}

	points := make([]map[string]any, 0, len(records))
	for _, r := range records {
		points = append(points, map[string]any{
			"id":      uint64(r.ID),
			"vector":  r.Vector,
			"payload": r.Payload,
		})
	}

	var env qdrantEnvelope[json.RawMessage]
	if err := s.do(ctx, http.MethodPut, s.collectionPath("/points")+"?wait=true", map[string]any{"points": points}, &env); err != nil {
		return err
	}
	if env.Status.State == "error" {
		return errors.New(env.Status.Error)
	}

	s.logger.Debug("upserted points", "count", len(points))
	return nil
}

// Query returns the k nearest records, best match first.
func (s *Store) Query(ctx context.Context, vector []float32, k int, filter *vectorstore.Filter) ([]vectorstore.Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", vectorstore.ErrInvalidQuery)
	}
	if len(vector) != s.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", vectorstore.ErrDimensionMismatch, len(vector), s.dim)
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
		"with_vector":  false,
	}
	if f := sourceFilter(filter); f != nil {
		req["filter"] = f
	}

	var env qdrantEnvelope[[]qdrantPoint]
	if err := s.do(ctx, http.MethodPost, s.collectionPath("/points/search"), req, &env); err != nil {
		return nil, err
	}
	if env.Status.State == "error" {
		return nil, errors.New(env.Status.Error)
	}

	matches := make([]vectorstore.Match, 0, len(env.Result))
	for _, p := range env.Result {
		matches = append(matches, vectorstore.Match{
			Record: vectorstore.Record{
				ID:      core.ID(p.ID),
				Payload: p.Payload,
			},
			Score: p.Score,
		})
	}
	return matches, nil
}

// DeleteBySource removes every point belonging to the given source documents.
func (s *Store) DeleteBySource(ctx context.Context, sourceDocumentIDs []string) error {
	if len(sourceDocumentIDs) == 0 {
		return nil
	}

	req := map[string]any{
		"filter": sourceFilter(&vectorstore.Filter{SourceDocumentIDs: sourceDocumentIDs}),
	}

	var env qdrantEnvelope[json.RawMessage]
	if err := s.do(ctx, http.MethodPost, s.collectionPath("/points/delete")+"?wait=true", req, &env); err != nil {
		return err
	}
	if env.Status.State == "error" {
		return errors.New(env.Status.Error)
	}

	s.logger.Info("deleted points by source", "sources", len(sourceDocumentIDs))
	return nil
}

// SourceRevision scrolls for a single point of the source document and
// returns its stored revision, or empty string if none exist.
func (s *Store) SourceRevision(ctx context.Context, sourceDocumentID string) (string, error) {
	req := map[string]any{
		"filter":       sourceFilter(&vectorstore.Filter{SourceDocumentIDs: []string{sourceDocumentID}}),
		"limit":        1,
		"with_payload": true,
		"with_vector":  false,
	}

	var env qdrantEnvelope[qdrantScrollResult]
	if err := s.do(ctx, http.MethodPost, s.collectionPath("/points/scroll"), req, &env); err != nil {
		return "", err
	}
	if env.Status.State == "error" {
		return "", errors.New(env.Status.Error)
	}

	if len(env.Result.Points) == 0 {
		return "", nil
	}
	return env.Result.Points[0].Payload.Revision, nil
}

// Close is a no-op; the HTTP client holds no persistent connections worth
// tearing down explicitly.
func (s *Store) Close() error {
	return nil
}

func (s *Store) collectionPath(suffix string) string {
	return "/collections/" + url.PathEscape(s.collection) + suffix
}

func sourceFilter(filter *vectorstore.Filter) map[string]any {
	if filter == nil || len(filter.SourceDocumentIDs) == 0 {
		return nil
	}
	return map[string]any{
		"must": []map[string]any{
			{
				"key": "source_document_id",
				"match": map[string]any{
					"any": filter.SourceDocumentIDs,
				},
			},
		},
	}
}

func (s *Store) do(ctx context.Context, method, path string, body any, out any) error {
	u := s.baseURL + path

	var buf io.ReadWriter
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("qdrant %s %s -> http %d: %s",
			method, u, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return err
		}
	}
	return nil
}
