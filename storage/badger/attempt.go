package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/storage"
)

// AttemptRepository implements storage.AttemptRepository for BadgerDB.
// The attempt log is append-only; records are never updated or deleted.
type AttemptRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.AttemptRepository = (*AttemptRepository)(nil)

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(backend *Backend) (*AttemptRepository, error) {
	idSeq, err := backend.GetSequence(attemptIDSeq)
	if err != nil {
		return nil, err
	}

	return &AttemptRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *AttemptRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *AttemptRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendAttempts records ingestion attempts.
func (r *AttemptRepository) AppendAttempts(ctx context.Context, attempts ...*core.IngestionAttempt) ([]*core.IngestionAttempt, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, attempt := range attempts {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			attempt.Id = core.ID(nextID)
			if attempt.At.IsZero() {
				attempt.At = time.Now().UTC()
			}

			if err := tx.Set(makeAttemptKey(attempt.Id), storage.MarshalAttempt(attempt)); err != nil {
				return err
			}

			// Per-source index
			indexKey := makeAttemptSourceKey(attempt.SourceId, attempt.Id)
			if err := tx.Set(indexKey, storage.MarshalID(attempt.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return attempts, err
}

// GetAttemptsBySource retrieves up to limit most recent attempts for a
// source, newest first.
func (r *AttemptRepository) GetAttemptsBySource(ctx context.Context, sourceId string, limit int) ([]*core.IngestionAttempt, error) {
	if limit <= 0 {
		return nil, nil
	}

	var results []*core.IngestionAttempt
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialAttemptSourceKey(sourceId)
		startKey := makeAttemptSourceKey(sourceId, core.ID(^uint64(0)))

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || string(key[:len(prefix)]) != string(prefix) {
				break
			}

			var attemptId core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				attemptId, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			item, err := tx.Get(makeAttemptKey(attemptId))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}

			var attempt *core.IngestionAttempt
			if err := item.Value(func(val []byte) error {
				var unmarshalErr error
				attempt, unmarshalErr = storage.UnmarshalAttempt(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			if attempt != nil {
				results = append(results, attempt)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}
