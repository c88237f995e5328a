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


// Package chat runs retrieval-grounded conversations over the ingested
// document corpus.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/groundline/groundline/ai"
	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/retry"
	"github.com/groundline/groundline/transcript"
	"github.com/groundline/groundline/vectorstore"
)

const (
	// DefaultWindow is how many turns the in-memory history keeps.
	DefaultWindow = 40
	// DefaultRetrievalK is how many chunks are retrieved per question.
	DefaultRetrievalK = 20
)

// Session is one conversation. Each question is answered from retrieved
// document chunks plus the session's rolling history. Not safe for
// concurrent Ask calls from multiple goroutines on the same session; the
// internal lock keeps Window and Clear safe alongside a single asker.
type Session struct {
	store      vectorstore.Store
	embedder   ai.Embedder
	generator  ai.Generator
	transcript transcript.Store

	window         int
	retrievalK     int
	maxRetries     int
	retryBaseDelay time.Duration

	mu     sync.Mutex
	turns  []core.Turn
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*Session) error

// WithWindow sets how many turns of history the session keeps in memory.
// Older turns are evicted first. Default is DefaultWindow.
func WithWindow(n int) Option {
	return func(s *Session) error {
		if n < 2 {
			return errors.New("window must hold at least one exchange")
		}
		s.window = n
		return nil
	}
}

// WithRetrievalK sets how many chunks each question retrieves.
// Default is DefaultRetrievalK.
func WithRetrievalK(k int) Option {
	return func(s *Session) error {
		if k < 1 {
			return errors.New("retrieval k must be at least 1")
		}
		s.retrievalK = k
		return nil
	}
}

// WithTranscript persists every turn to the given store. Transcript write
// failures are logged, never surfaced to the asker.
func WithTranscript(store transcript.Store) Option {
	return func(s *Session) error {
		s.transcript = store
		return nil
	}
}

// WithRetry sets the retry policy for embedding calls.
// Default is 3 attempts with a base delay of one second.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *Session) error {
		if maxAttempts < 1 {
			return retry.ErrInvalidMaxAttempts
		}
		s.maxRetries = maxAttempts
		s.retryBaseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSession creates a chat session over the given store and AI services.
func NewSession(store vectorstore.Store, embedder ai.Embedder, generator ai.Generator, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Session{
		store:          store,
		embedder:       embedder,
		generator:      generator,
		window:         DefaultWindow,
		retrievalK:     DefaultRetrievalK,
		maxRetries:     3,
		retryBaseDelay: time.Second,
		logger:         slog.Default().With("component", "chat-session"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Ask answers a question grounded in the document corpus.
//
// Retrieval failures are returned as errors. Generation failures are not:
// the session answers with an apology and stays usable, and the failed
// exchange still lands in the history.
func (s *Session) Ask(ctx context.Context, input string) (string, error) {
	if input == "" {
		return "", ErrEmptyInput
	}

	var vector []float32
	err := retry.Do(ctx, func() error {
		var embedErr error
		vector, embedErr = s.embedder.EmbedText(ctx, input)
		if embedErr != nil && errors.Is(embedErr, ai.ErrPermanent) {
			return retry.Unrecoverable(embedErr)
		}
		return embedErr
	}, s.maxRetries, s.retryBaseDelay)
	if err != nil {
		return "", err
	}

	matches, err := s.store.Query(ctx, vector, s.retrievalK, nil)
	if err != nil {
		return "", err
	}

	history := s.Window()

	answer, err := s.generator.Complete(ctx, formatContext(matches), history, input)
	if err != nil {
		s.logger.Error("answer generation failed", "err", err)
		answer = ApologyReply
	}

	// Both turns share one timestamp; the transcript store's sequence
	// numbers keep them ordered within it.
	now := time.Now().UTC()
	userTurn := core.Turn{Speaker: core.SpeakerHuman, Text: input, Timestamp: now}
	assistantTurn := core.Turn{Speaker: core.SpeakerAssistant, Text: answer, Timestamp: now}
	s.remember(userTurn, assistantTurn)

	if s.transcript != nil {
		if err := s.transcript.Append(ctx, userTurn, assistantTurn); err != nil {
			s.logger.Warn("failed to persist transcript", "err", err)
		}
	}

	return answer, nil
}

// remember appends turns to the rolling window, evicting the oldest.
func (s *Session) remember(turns ...core.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turns...)
	if excess := len(s.turns) - s.window; excess > 0 {
		s.turns = append([]core.Turn(nil), s.turns[excess:]...)
	}
}

// Window returns a copy of the in-memory history, oldest first.
func (s *Session) Window() []core.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Clear empties the in-memory history. The persisted transcript, if any,
// is untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
