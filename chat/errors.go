package chat

import "errors"

var (
	// ErrEmptyQuery indicates Handle was called with blank user text.
	ErrEmptyQuery = errors.New("chat: empty query")

	// ErrInvalidSession indicates the session does not exist.
	ErrInvalidSession = errors.New("chat: invalid session")
)
