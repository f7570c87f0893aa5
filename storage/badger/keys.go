package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/campusbuddy/core"
)

// Key prefixes for different data types
const (
	sessionPrefix      = "sesrec"
	sessionOwnerPrefix = "sesown"
	sessionIDSeq       = "sesrecseq"
	messagePrefix      = "msgrec"
	messageIDSeq       = "msgrecseq"
	messageOrdPrefix   = "msgord"
	cursorPrefix       = "srccur"
	dedupPrefix        = "dedrec"
	attemptPrefix      = "attrec"
	attemptSrcPrefix   = "attsrc"
	attemptIDSeq       = "attrecseq"
)

// makeSessionKey generates a key for a session by ID.
func makeSessionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", sessionPrefix, id))
}

// makeSessionOwnerKey generates the key holding an owner's active session ID.
func makeSessionOwnerKey(ownerId string) []byte {
	return []byte(sessionOwnerPrefix + ":" + ownerId)
}

// makeMessageKey generates a composite key for a message within a session.
// Format: prefix:sessionID:ordinal
func makeMessageKey(sessionId core.ID, ordinal uint64) []byte {
	prefix := messagePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for sessionID + 8 bytes for ordinal
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(sessionId))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], ordinal)
	return buf
}

// makePartialMessageKey generates a partial key covering all messages of a
// session. Format: prefix:sessionID
func makePartialMessageKey(sessionId core.ID) []byte {
	prefix := messagePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for sessionID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(sessionId))
	return buf
}

// makeMessageOrdinalKey generates the key holding a session's last assigned
// message ordinal.
func makeMessageOrdinalKey(sessionId core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", messageOrdPrefix, sessionId))
}

// makeCursorKey generates a key for a source cursor.
func makeCursorKey(sourceId string) []byte {
	return []byte(cursorPrefix + ":" + sourceId)
}

// makeDedupKey generates a key for a dedup record by fingerprint.
func makeDedupKey(fingerprint core.Fingerprint) []byte {
	return []byte(fmt.Sprintf("%s:%d", dedupPrefix, fingerprint))
}

// makeAttemptKey generates a key for an ingestion attempt by ID.
func makeAttemptKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", attemptPrefix, id))
}

// makeAttemptSourceKey generates a composite key for the per-source attempt
// index. Format: prefix:sourceId:attemptID
func makeAttemptSourceKey(sourceId string, id core.ID) []byte {
	prefix := attemptSrcPrefix + ":" + sourceId + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for attemptID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialAttemptSourceKey generates a partial key for per-source attempt
// queries. Format: prefix:sourceId
func makePartialAttemptSourceKey(sourceId string) []byte {
	return []byte(attemptSrcPrefix + ":" + sourceId + ":")
}
