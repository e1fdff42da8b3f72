package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKeys(t *testing.T) {
	assert.Equal(t, "interviewer:session:abc", sessionKey("abc"))
	assert.Equal(t, "interviewer:scorecard:abc", scorecardKey("abc"))
	assert.Equal(t, "interviewer:sessions", sessionIndexKey())
}

func TestSessionDocument(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := sampleSession("doc-1")
	data, err := encodeSession(s, now)
	require.NoError(t, err)

	doc := sessionDocument(s, data, now)
	assert.Equal(t, "doc-1", doc["_id"])
	assert.Equal(t, "Ada", doc["candidate"])
	assert.Equal(t, "intermediate", doc["phase"])
	assert.Equal(t, 2, doc["answered"])
	assert.Equal(t, now, doc["updated_at"])

	decoded, err := decodeSession([]byte(doc["data"].(string)))
	require.NoError(t, err)
	assert.Equal(t, s.Transcript, decoded.Transcript)
	assert.NotEmpty(t, decoded.TranscriptDigest)
}

func TestScorecardDocument(t *testing.T) {
	card := sampleScorecard("doc-2")
	data, err := encodeScorecard(card)
	require.NoError(t, err)

	doc := scorecardDocument(card, data)
	assert.Equal(t, "doc-2", doc["_id"])
	assert.Equal(t, 3.5, doc["overall_score"])
	assert.Equal(t, 2, doc["tab_violations"])
	assert.Equal(t, "doc-2", byID("doc-2")["_id"])
}
