package core

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// FingerprintFromIdentity derives a fingerprint from a source and its native
// message identifier. This is the default deduplication mode: the same
// message re-harvested from the same channel maps to the same fingerprint.
func FingerprintFromIdentity(sourceId string, nativeId int64) Fingerprint {
	return hashFingerprint("id:" + sourceId + ":" + strconv.FormatInt(nativeId, 10))
}

// FingerprintFromContent derives a fingerprint from normalized text content.
// Used when content-based deduplication is enabled: the same text ingested
// through different routes (manual upload, harvested message) maps to the
// same fingerprint.
func FingerprintFromContent(text string) Fingerprint {
	return hashFingerprint("content:" + NormalizeText(text))
}

// NormalizeText collapses runs of whitespace to single spaces and trims the
// result. Case is kept as-is.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// hashFingerprint generates a deterministic 64-bit key using BLAKE2b hashing,
// so identical input always produces the identical fingerprint.
func hashFingerprint(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}
