package ingestion

import "errors"

var (
	// ErrDedupRepositoryRequired indicates a nil dedup repository was passed.
	ErrDedupRepositoryRequired = errors.New("ingestion: dedup repository is required")

	// ErrCursorRepositoryRequired indicates a nil cursor repository was passed.
	ErrCursorRepositoryRequired = errors.New("ingestion: cursor repository is required")

	// ErrAttemptRepositoryRequired indicates a nil attempt repository was passed.
	ErrAttemptRepositoryRequired = errors.New("ingestion: attempt repository is required")

	// ErrRetrievalClientRequired indicates a nil retrieval client was passed.
	ErrRetrievalClientRequired = errors.New("ingestion: retrieval client is required")

	// ErrIngestFailed indicates the retrieval service did not accept an item.
	ErrIngestFailed = errors.New("ingestion: ingest failed")
)
