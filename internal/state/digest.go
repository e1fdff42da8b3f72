package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// TranscriptDigest returns the hex-encoded SHA-256 of the canonical JSON
// encoding of entries. An empty transcript hashes to the digest of "[]".
func TranscriptDigest(entries []TranscriptEntry) (string, error) {
	if entries == nil {
		entries = []TranscriptEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
