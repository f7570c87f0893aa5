package harvest

import (
	"context"
	"time"
)

// RawMessage is one message as delivered by a channel source, before
// cleaning and relevance filtering.
type RawMessage struct {
	// Id is the source-native message identifier, monotone within a channel.
	Id int64

	// Text is the raw message body.
	Text string

	// SentAt is when the message was posted.
	SentAt time.Time

	// IsReply marks replies to other messages; those are skipped.
	IsReply bool

	// Link is a permalink to the message, when the source provides one.
	Link string
}

// Fetcher retrieves messages from one external channel source.
// Implementations wrap the actual transport (a Telegram-style client);
// they are external collaborators and out of scope here.
type Fetcher interface {
	// FetchSince returns up to limit messages with Id > afterId, ordered by
	// Id ascending. An empty slice means the source is exhausted.
	FetchSince(ctx context.Context, sourceId string, afterId int64, limit int) ([]RawMessage, error)
}
