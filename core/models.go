package core

//go:generate go run ../cmd/musgen

import (
	"time"
)

// ID is a unique identifier for locally stored entities.
// It is generated from database sequences.
type ID uint64

// Fingerprint is a derived key used to detect duplicate ingestion of the
// same underlying content. See fingerprint.go for derivation modes.
type Fingerprint uint64

// Role identifies the author of a conversation message.
type Role int

const (
	// RoleUser represents the student asking questions.
	RoleUser Role = iota + 1
	// RoleAssistant represents the generated answers.
	RoleAssistant
)

// SessionStatus tracks the lifecycle state of a conversation session.
type SessionStatus int

const (
	// SessionActive is the normal state of an ongoing conversation.
	SessionActive SessionStatus = iota + 1
	// SessionReset marks a session that was explicitly reset by its owner.
	// Reset sessions are kept for history but no longer receive messages.
	SessionReset
)

// Session identifies one ongoing conversation for a user.
// Sessions are created on first interaction or explicit reset and are never
// physically deleted by this core; retention is an external concern.
type Session struct {
	Id           ID
	OwnerId      string // chat-native user identity
	Status       SessionStatus
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// Message is one immutable conversation turn.
// Ordinals are strictly increasing within a session.
type Message struct {
	Id        ID
	SessionId ID
	Role      Role
	Contents  string
	Ordinal   uint64
	Timestamp time.Time
}

// SourceCursor is the harvesting progress marker for one monitored source.
// Position is the native identifier of the last successfully processed item
// and is monotonically non-decreasing.
type SourceCursor struct {
	SourceId  string
	Position  int64
	LastRunAt time.Time
}

// DedupRecord maps a fingerprint to the knowledge document that first
// claimed it. DocumentId is empty while a claim is pending confirmation.
type DedupRecord struct {
	Fingerprint Fingerprint
	DocumentId  string
	ClaimedAt   time.Time
}

// AttemptOutcome classifies the result of one ingestion attempt.
type AttemptOutcome int

const (
	// OutcomeIngested means the item was sent to the knowledge store.
	OutcomeIngested AttemptOutcome = iota + 1
	// OutcomeSkippedDuplicate means the item's fingerprint was already claimed.
	OutcomeSkippedDuplicate
	// OutcomeFailed means the knowledge store rejected the item; the dedup
	// claim was released so a later run can retry.
	OutcomeFailed
)

// String returns the human-readable outcome name.
func (o AttemptOutcome) String() string {
	switch o {
	case OutcomeIngested:
		return "ingested"
	case OutcomeSkippedDuplicate:
		return "skipped-duplicate"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IngestionAttempt is an append-only audit record of one harvested item's
// ingestion outcome.
type IngestionAttempt struct {
	Id         ID
	SourceId   string
	NativeId   int64
	Outcome    AttemptOutcome
	DocumentId string
	Error      string
	At         time.Time
}

// HarvestedItem is one message fetched from a monitored source, in the
// source's native order.
type HarvestedItem struct {
	SourceId    string
	NativeId    int64 // source-native message identifier, monotone per source
	Title       string
	Contents    string
	SourceURL   string
	PublishedAt time.Time
}

// SourceKind identifies where a knowledge document came from.
type SourceKind int

const (
	// SourceManual is a document uploaded by an operator.
	SourceManual SourceKind = iota + 1
	// SourceURL is a document fetched from a link.
	SourceURL
	// SourceChannel is a message harvested from a monitored channel.
	SourceChannel
)

// SourceDescriptor describes the provenance of an ingested document.
type SourceDescriptor struct {
	Kind            SourceKind
	Channel         string
	NativeMessageId int64
	URL             string
	ExternalId      string
}

// AnswerResult is the outcome of one conversation turn.
type AnswerResult struct {
	Text     string
	Grounded bool // retrieved context contributed to the prompt
	Retried  bool // generation needed a second attempt
	Fallback bool // generation failed twice; Text is the fallback answer
}
