package rag

import "errors"

var (
	// ErrUnavailable indicates the retrieval service call failed or timed
	// out. Callers decide whether this is absorbable (conversation search)
	// or must stall progress (ingestion).
	ErrUnavailable = errors.New("retrieval service unavailable")

	// ErrRejected indicates the retrieval service answered but refused the
	// request (4xx class).
	ErrRejected = errors.New("retrieval service rejected request")

	// ErrNoDocumentId indicates an ingest response carried no document ID.
	ErrNoDocumentId = errors.New("ingest response missing document id")
)
