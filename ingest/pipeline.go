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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/groundline/groundline/ai"
	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/retry"
	"github.com/groundline/groundline/source"
	"github.com/groundline/groundline/splitter"
	"github.com/groundline/groundline/vectorstore"
)

// Pipeline orchestrates document ingestion: listing, chunking, metadata
// extraction, embedding and writing to the vector store. Documents inside a
// batch are processed concurrently; batches run sequentially.
type Pipeline struct {
	connector source.Connector
	store     vectorstore.Store
	embedder  ai.Embedder
	extractor ai.MetadataExtractor
	pool      *ants.Pool

	chunkSize      int
	chunkOverlap   int
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	force          bool
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking sets the chunk size and overlap in characters.
// Default is 3000 characters with an overlap of 200.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		if size <= 0 || overlap < 0 || overlap >= size {
			return fmt.Errorf("%w: size %d, overlap %d", splitter.ErrInvalidChunking, size, overlap)
		}
		p.chunkSize = size
		p.chunkOverlap = overlap
		return nil
	}
}

// WithBatchSize sets how many documents are processed concurrently before
// the pipeline moves on to the next group. Default is 5.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets the retry policy for embedding and store calls.
// Default is 3 attempts with a base delay of one second.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryBaseDelay = baseDelay
		return nil
	}
}

// WithForce disables the revision check, re-ingesting documents even when
// their stored revision is current.
func WithForce(force bool) Option {
	return func(p *Pipeline) error {
		p.force = force
		return nil
	}
}

// WithProgressWriter enables progress reporting to the given writer,
// typically os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progressWriter = w
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

// NewPipeline creates a document ingestion pipeline.
func NewPipeline(
	connector source.Connector,
	store vectorstore.Store,
	embedder ai.Embedder,
	extractor ai.MetadataExtractor,
	opts ...Option,
) (*Pipeline, error) {
	if connector == nil {
		return nil, ErrConnectorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		connector:      connector,
		store:          store,
		embedder:       embedder,
		extractor:      extractor,
		pool:           pool,
		chunkSize:      3000,
		chunkOverlap:   200,
		batchSize:      5,
		maxRetries:     3,
		retryBaseDelay: time.Second,
		logger:         slog.Default().With("component", "ingest-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Failure describes one document that could not be ingested.
type Failure struct {
	DocumentID string
	Name       string
	Reason     string
}

// Report tallies the outcome of a Process run. A failed document never
// aborts the run; it lands here instead.
type Report struct {
	Total         int
	Succeeded     int
	Skipped       int
	ChunksWritten int
	Failed        []Failure
}

// Process ingests every document in the given container. It returns an error
// only when the run as a whole cannot proceed (listing fails, collection
// cannot be created, context canceled); per-document failures are recorded
// in the report.
func (p *Pipeline) Process(ctx context.Context, containerRef string) (*Report, error) {
	refs, err := p.connector.ListDocuments(ctx, containerRef)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	if err := p.store.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	report := &Report{Total: len(refs)}
	if len(refs) == 0 {
		p.logger.Info("container is empty", "container", containerRef)
		return report, nil
	}

	var tracker *ProgressTracker
	if p.progressWriter != nil {
		tracker = NewProgressTracker(p.progressWriter, len(refs), 1)
		tracker.Start()
	}

	var mu sync.Mutex
	for start := 0; start < len(refs); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		end := start + p.batchSize
		if end > len(refs) {
			end = len(refs)
		}

		var wg sync.WaitGroup
		for _, ref := range refs[start:end] {
			ref := ref
			wg.Add(1)
			task := func() {
				defer wg.Done()

				written, skipped, procErr := p.processDocument(ctx, ref)

				mu.Lock()
				switch {
				case procErr != nil:
					report.Failed = append(report.Failed, Failure{
						DocumentID: ref.ID,
						Name:       ref.Name,
						Reason:     procErr.Error(),
					})
					p.logger.Error("document failed", "id", ref.ID, "name", ref.Name, "err", procErr)
				case skipped:
					report.Skipped++
					p.logger.Debug("document skipped", "id", ref.ID, "name", ref.Name)
				default:
					report.Succeeded++
					report.ChunksWritten += written
					p.logger.Info("document ingested", "id", ref.ID, "name", ref.Name, "chunks", written)
				}
				mu.Unlock()

				if tracker != nil {
					tracker.Increment(1)
				}
			}

			if submitErr := p.pool.Submit(task); submitErr != nil {
				wg.Done()
				mu.Lock()
				report.Failed = append(report.Failed, Failure{
					DocumentID: ref.ID,
					Name:       ref.Name,
					Reason:     submitErr.Error(),
				})
				mu.Unlock()
			}
		}
		wg.Wait()
	}

	if tracker != nil {
		tracker.Finish()
	}

	p.logger.Info("ingestion finished",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", len(report.Failed),
		"chunks", report.ChunksWritten)
	return report, nil
}

// processDocument runs the full chunk/extract/embed/upsert sequence for one
// document. Returns the number of chunks written, or skipped=true when the
// stored revision is already current.
func (p *Pipeline) processDocument(ctx context.Context, ref core.DocumentRef) (written int, skipped bool, err error) {
	if !p.force && ref.Revision != "" {
		stored, revErr := p.store.SourceRevision(ctx, ref.ID)
		if revErr != nil {
			return 0, false, fmt.Errorf("check revision: %w", revErr)
		}
		if stored == ref.Revision {
			return 0, true, nil
		}
	}

	doc, err := p.connector.Fetch(ctx, ref)
	if err != nil {
		return 0, false, fmt.Errorf("fetch: %w", err)
	}

	chunks, err := splitter.Split(ref.ID, doc.Content, p.chunkSize, p.chunkOverlap)
	if err != nil {
		return 0, false, fmt.Errorf("split: %w", err)
	}
	if len(chunks) == 0 {
		p.logger.Debug("document has no content, skipping", "id", ref.ID)
		return 0, true, nil
	}

	texts := make([]string, len(chunks))
	metadata := make([]core.ChunkMetadata, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text

		md, extractErr := p.extractor.Extract(ctx, chunk.Text)
		if extractErr != nil {
			return 0, false, fmt.Errorf("extract metadata for chunk %d: %w", chunk.Seq, extractErr)
		}
		metadata[i] = md
	}

	var embeddings [][]float32
	err = retry.Do(ctx, func() error {
		var embedErr error
		embeddings, embedErr = p.embedder.EmbedTexts(ctx, texts)
		if embedErr != nil && errors.Is(embedErr, ai.ErrPermanent) {
			return retry.Unrecoverable(embedErr)
		}
		return embedErr
	}, p.maxRetries, p.retryBaseDelay)
	if err != nil {
		return 0, false, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return 0, false, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = vectorstore.Record{
			ID:     core.RecordID(chunk.ParentDocumentID, chunk.Seq),
			Vector: embeddings[i],
			Payload: vectorstore.Payload{
				SourceDocumentID: ref.ID,
				SourceName:       ref.Name,
				Revision:         ref.Revision,
				Seq:              chunk.Seq,
				Text:             chunk.Text,
				Metadata:         metadata[i],
			},
		}
	}

	err = retry.Do(ctx, func() error {
		return p.store.Upsert(ctx, records)
	}, p.maxRetries, p.retryBaseDelay)
	if err != nil {
		return 0, false, fmt.Errorf("upsert %d records: %w", len(records), err)
	}

	return len(records), false, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
