package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/campusbuddy/core"
	"github.com/poiesic/campusbuddy/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
type SessionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) (*SessionRepository, error) {
	idSeq, err := backend.GetSequence(sessionIDSeq)
	if err != nil {
		return nil, err
	}

	return &SessionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *SessionRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *SessionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetOrCreateActiveSession returns the active session for an owner, creating
// one if none exists.
func (r *SessionRepository) GetOrCreateActiveSession(ctx context.Context, ownerId string) (*core.Session, error) {
	var result *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		session, err := r.readOwnerSession(tx, ownerId)
		if err != nil {
			return err
		}
		if session != nil && session.Status == core.SessionActive {
			result = session
			return nil
		}

		created, err := r.createSession(tx, ownerId)
		if err != nil {
			return err
		}
		result = created
		return tx.Commit()
	}, true)
	return result, err
}

// ResetSession marks the owner's active session as reset and creates a fresh
// active session.
func (r *SessionRepository) ResetSession(ctx context.Context, ownerId string) (*core.Session, error) {
	var result *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		session, err := r.readOwnerSession(tx, ownerId)
		if err != nil {
			return err
		}
		if session != nil && session.Status == core.SessionActive {
			session.Status = core.SessionReset
			session.LastActiveAt = time.Now().UTC()
			if err := tx.Set(makeSessionKey(session.Id), storage.MarshalSession(session)); err != nil {
				return err
			}
		}

		created, err := r.createSession(tx, ownerId)
		if err != nil {
			return err
		}
		result = created
		return tx.Commit()
	}, true)
	return result, err
}

// TouchSession updates the session's LastActiveAt timestamp.
func (r *SessionRepository) TouchSession(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		session, err := readSession(tx, makeSessionKey(id))
		if err != nil {
			return err
		}
		if session == nil {
			return storage.ErrNotFound
		}
		session.LastActiveAt = time.Now().UTC()
		if err := tx.Set(makeSessionKey(id), storage.MarshalSession(session)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetSession retrieves a single session by ID.
func (r *SessionRepository) GetSession(ctx context.Context, id core.ID) (*core.Session, error) {
	var result *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		session, err := readSession(tx, makeSessionKey(id))
		if err != nil {
			return err
		}
		if session == nil {
			return storage.ErrNotFound
		}
		result = session
		return nil
	}, false)
	return result, err
}

// Helper methods

// createSession writes a fresh active session and points the owner key at it.
// Does not commit; the caller owns the transaction.
func (r *SessionRepository) createSession(tx *badger.Txn, ownerId string) (*core.Session, error) {
	nextID, err := r.idSeq.Next()
	if err != nil {
		return nil, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if nextID == 0 {
		nextID, err = r.idSeq.Next()
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	session := &core.Session{
		Id:           core.ID(nextID),
		OwnerId:      ownerId,
		Status:       core.SessionActive,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	if err := tx.Set(makeSessionKey(session.Id), storage.MarshalSession(session)); err != nil {
		return nil, err
	}
	if err := tx.Set(makeSessionOwnerKey(ownerId), storage.MarshalID(session.Id)); err != nil {
		return nil, err
	}
	return session, nil
}

// readOwnerSession resolves the owner index to the owner's current session.
// Returns nil, nil when the owner has no session yet.
func (r *SessionRepository) readOwnerSession(tx *badger.Txn, ownerId string) (*core.Session, error) {
	item, err := tx.Get(makeSessionOwnerKey(ownerId))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var sessionId core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		sessionId, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}

	return readSession(tx, makeSessionKey(sessionId))
}

// readSession reads a session from the transaction.
func readSession(tx *badger.Txn, key []byte) (*core.Session, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var session *core.Session
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		session, unmarshalErr = storage.UnmarshalSession(val)
		return unmarshalErr
	})
	return session, err
}
