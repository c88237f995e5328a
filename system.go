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


package groundline

import (
	"errors"
	"log/slog"

	"github.com/groundline/groundline/ai"
	"github.com/groundline/groundline/chat"
	"github.com/groundline/groundline/deletion"
	"github.com/groundline/groundline/ingest"
	"github.com/groundline/groundline/notify"
	"github.com/groundline/groundline/source"
	"github.com/groundline/groundline/transcript"
	"github.com/groundline/groundline/vectorstore"
)

var (
	// ErrStoreRequired is returned when a System is created without a vector store.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrProviderRequired is returned when a System is created without an AI provider.
	ErrProviderRequired = errors.New("AI provider is required")
)

// System wires a vector store and AI provider together and hands out
// the pipelines and sessions that operate on them. It owns the lifetime
// of the components it is given; Close releases all of them.
type System struct {
	store       vectorstore.Store
	provider    ai.Provider
	notifier    notify.Notifier
	transcripts transcript.Store
	logger      *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*System)

// WithNotifier attaches a notifier used for deletion confirmations.
func WithNotifier(n notify.Notifier) SystemOption {
	return func(s *System) {
		s.notifier = n
	}
}

// WithTranscripts attaches a transcript store that chat sessions persist to.
// The System closes it on Close.
func WithTranscripts(ts transcript.Store) SystemOption {
	return func(s *System) {
		s.transcripts = ts
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) SystemOption {
	return func(s *System) {
		s.logger = logger
	}
}

// NewSystem creates a System over the given store and provider.
func NewSystem(store vectorstore.Store, provider ai.Provider, opts ...SystemOption) (*System, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &System{
		store:    store,
		provider: provider,
		logger:   slog.Default().With("component", "system"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Store returns the underlying vector store.
func (s *System) Store() vectorstore.Store {
	return s.store
}

// Provider returns the underlying AI provider.
func (s *System) Provider() ai.Provider {
	return s.provider
}

// NewIngestPipeline creates an ingestion pipeline reading from connector.
func (s *System) NewIngestPipeline(connector source.Connector, opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(connector, s.store, s.provider.Embedder(), s.provider.MetadataExtractor(), opts...)
}

// NewDeletionPipeline creates a confirmation-gated deletion pipeline.
// A notifier must have been attached with WithNotifier.
func (s *System) NewDeletionPipeline(opts ...deletion.Option) (*deletion.Pipeline, error) {
	return deletion.NewPipeline(s.store, s.notifier, opts...)
}

// NewChatSession creates a chat session over the indexed documents.
// When a transcript store is attached, the session persists to it.
func (s *System) NewChatSession(opts ...chat.Option) (*chat.Session, error) {
	if s.transcripts != nil {
		opts = append([]chat.Option{chat.WithTranscript(s.transcripts)}, opts...)
	}
	return chat.NewSession(s.store, s.provider.Embedder(), s.provider.Generator(), opts...)
}

// Close releases the provider, transcript store and vector store.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if s.transcripts != nil {
		if err := s.transcripts.Close(); err != nil {
			s.logger.Error("error closing transcript store", "err", err)
			return err
		}
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}
