package badger

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/storage"
)

// MessageRepository implements storage.MessageRepository for BadgerDB.
type MessageRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(backend *Backend) (*MessageRepository, error) {
	idSeq, err := backend.GetSequence(messageIDSeq)
	if err != nil {
		return nil, err
	}

	return &MessageRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *MessageRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *MessageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendMessages appends messages to a session with strictly increasing
// ordinals. The ordinal counter is read and advanced inside the transaction;
// callers appending to the same session concurrently must serialize
// externally (the conversation pipeline holds a per-session lock).
func (r *MessageRepository) AppendMessages(ctx context.Context, sessionId core.ID, messages ...*core.Message) ([]*core.Message, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ordinal, err := r.readLastOrdinal(tx, sessionId)
		if err != nil {
			return err
		}

		for _, message := range messages {
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

			ordinal++
			message.Id = core.ID(nextID)
			message.SessionId = sessionId
			message.Ordinal = ordinal
			if message.Timestamp.IsZero() {
				message.Timestamp = time.Now().UTC()
			}

			key := makeMessageKey(sessionId, message.Ordinal)
			if err := tx.Set(key, storage.MarshalMessage(message)); err != nil {
				return err
			}
		}

		if err := r.writeLastOrdinal(tx, sessionId, ordinal); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return messages, err
}

// GetRecentMessages retrieves the last limit messages of a session, ordered
// by ordinal ascending.
func (r *MessageRepository) GetRecentMessages(ctx context.Context, sessionId core.ID, limit int) ([]*core.Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	var results []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to collect the most recent ordinals first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible ordinal for this session
		startKey := makeMessageKey(sessionId, ^uint64(0))
		prefix := makePartialMessageKey(sessionId)

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || string(key[:len(prefix)]) != string(prefix) {
				break
			}

			var message *core.Message
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				message, err = storage.UnmarshalMessage(val)
				return err
			}); err != nil {
				return err
			}
			if message != nil {
				results = append(results, message)
				count++
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Reverse-iterated: flip to ordinal ascending
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// Helper methods

// readLastOrdinal reads the session's last assigned ordinal, 0 when no
// message exists yet.
func (r *MessageRepository) readLastOrdinal(tx *badger.Txn, sessionId core.ID) (uint64, error) {
	item, err := tx.Get(makeMessageOrdinalKey(sessionId))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var ordinal uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return storage.ErrTruncatedData
		}
		ordinal = binary.BigEndian.Uint64(val)
		return nil
	})
	return ordinal, err
}

// writeLastOrdinal persists the session's last assigned ordinal.
func (r *MessageRepository) writeLastOrdinal(tx *badger.Txn, sessionId core.ID, ordinal uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, ordinal)
	return tx.Set(makeMessageOrdinalKey(sessionId), buf)
}
