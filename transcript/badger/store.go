package badger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/groundline/groundline/core"
	"github.com/groundline/groundline/transcript"
)

// Store persists conversation turns in BadgerDB, keyed by timestamp so
// iteration order is chronological.
type Store struct {
	backend *Backend
	seq     *badger.Sequence
	logger  *slog.Logger
}

// NewStore creates a transcript store on top of an open backend.
//
// Returns transcript.Store interface to enforce abstraction.
func NewStore(backend *Backend) (transcript.Store, error) {
	seq, err := backend.GetSequence(turnIDSeq)
	if err != nil {
		return nil, fmt.Errorf("create turn sequence: %w", err)
	}
	return &Store{
		backend: backend,
		seq:     seq,
		logger:  slog.Default().With("component", "transcript-store"),
	}, nil
}

// Open opens a transcript store at the given path, creating it if needed.
func Open(path string) (transcript.Store, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return store, nil
}

// Append writes turns to the log in the order given. Turns sharing a
// timestamp keep their relative order through the sequence suffix.
func (s *Store) Append(ctx context.Context, turns ...core.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, turn := range turns {
			data, err := transcript.MarshalTurn(turn)
			if err != nil {
				return err
			}

			seq, err := s.seq.Next()
			if err != nil {
				return fmt.Errorf("next turn sequence: %w", err)
			}

			if err := tx.Set(makeTurnKey(turn.Timestamp, seq), data); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Recent returns up to limit of the most recent turns, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]core.Turn, error) {
	if limit <= 0 {
		return nil, transcript.ErrInvalidLimit
	}

	var turns []core.Turn
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(turnPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible key for the prefix, then walk back.
		seek := append([]byte(turnPrefix+":"), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)

		for iter.Seek(seek); iter.Valid() && len(turns) < limit; iter.Next() {
			var turn core.Turn
			err := iter.Item().Value(func(val []byte) error {
				var err error
				turn, err = transcript.UnmarshalTurn(val)
				return err
			})
			if err != nil {
				return err
			}
			turns = append(turns, turn)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Close releases the sequence and closes the backing database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.logger.Warn("failed to release turn sequence", "err", err)
	}
	return s.backend.Close()
}
