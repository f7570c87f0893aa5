package storage

import (
	"context"

	"github.com/poiesic/campusbuddy/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// SessionRepository provides operations for managing conversation sessions.
type SessionRepository interface {
	Repository

	// GetOrCreateActiveSession returns the active session for an owner,
	// creating one if none exists. The returned session always has
	// Status == core.SessionActive.
	GetOrCreateActiveSession(ctx context.Context, ownerId string) (*core.Session, error)

	// ResetSession marks the owner's current active session as reset and
	// creates a fresh active session. The old session is kept; it is never
	// physically deleted.
	ResetSession(ctx context.Context, ownerId string) (*core.Session, error)

	// TouchSession updates the session's LastActiveAt timestamp.
	// Returns ErrNotFound if the session doesn't exist.
	TouchSession(ctx context.Context, id core.ID) error

	// GetSession retrieves a single session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id core.ID) (*core.Session, error)
}

// MessageRepository provides operations for managing conversation messages.
type MessageRepository interface {
	Repository

	// AppendMessages appends messages to a session in the given order.
	// IDs are generated from a sequence; ordinals are assigned strictly
	// increasing per session. Returns the messages with IDs, ordinals and
	// timestamps populated.
	AppendMessages(ctx context.Context, sessionId core.ID, messages ...*core.Message) ([]*core.Message, error)

	// GetRecentMessages retrieves the last limit messages of a session,
	// ordered by ordinal ascending (oldest of the window first).
	GetRecentMessages(ctx context.Context, sessionId core.ID, limit int) ([]*core.Message, error)
}

// DedupRepository provides the atomic check-and-claim primitive for
// ingestion deduplication.
type DedupRepository interface {
	Repository

	// ClaimFingerprint attempts to claim a fingerprint. If the fingerprint is
	// unclaimed, the claim is recorded and claimed=true is returned. If a
	// confirmed claim already exists, claimed=false and the existing record
	// are returned. Exactly one of two concurrent claimants for the same
	// fingerprint observes claimed=true.
	//
	// An unconfirmed claim blocks later claimants while it is fresh; only a
	// claim left unconfirmed past a staleness window (e.g. after a crash
	// between claim and ingest) is taken over by the next claimant.
	ClaimFingerprint(ctx context.Context, fingerprint core.Fingerprint) (claimed bool, existing *core.DedupRecord, err error)

	// ConfirmFingerprint binds the knowledge document ID to a claimed
	// fingerprint, making the claim permanent.
	ConfirmFingerprint(ctx context.Context, fingerprint core.Fingerprint, documentId string) error

	// ReleaseFingerprint removes an unconfirmed claim so the item can be
	// retried on a later run. Releasing a confirmed claim is an error.
	ReleaseFingerprint(ctx context.Context, fingerprint core.Fingerprint) error

	// GetDedupRecord retrieves the record for a fingerprint.
	// Returns nil, nil if no record exists.
	GetDedupRecord(ctx context.Context, fingerprint core.Fingerprint) (*core.DedupRecord, error)
}

// CursorRepository provides operations for harvest progress markers.
type CursorRepository interface {
	Repository

	// LoadCursor retrieves the cursor for a source.
	// Returns nil, nil if no cursor exists yet.
	LoadCursor(ctx context.Context, sourceId string) (*core.SourceCursor, error)

	// SaveCursor persists a cursor. Positions are monotonically
	// non-decreasing; an attempt to move a cursor backwards returns
	// ErrCursorRegression.
	SaveCursor(ctx context.Context, cursor *core.SourceCursor) error
}

// AttemptRepository provides the append-only ingestion audit log.
type AttemptRepository interface {
	Repository

	// AppendAttempts records ingestion attempts. IDs are generated from a
	// sequence. Returns the attempts with IDs and timestamps populated.
	AppendAttempts(ctx context.Context, attempts ...*core.IngestionAttempt) ([]*core.IngestionAttempt, error)

	// GetAttemptsBySource retrieves up to limit most recent attempts for a
	// source, newest first.
	GetAttemptsBySource(ctx context.Context, sourceId string, limit int) ([]*core.IngestionAttempt, error)
}
