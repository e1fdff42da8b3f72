package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// MemoryStore keeps sessions in process memory. Sessions are stored as
// sealed JSON so loads return independent copies.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string][]byte
	scorecards map[string][]byte
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string][]byte),
		scorecards: make(map[string][]byte),
		now:        time.Now,
	}
}

func (m *MemoryStore) SaveSession(_ context.Context, s state.SessionState) error {
	data, err := encodeSession(s, m.now())
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	return nil
}

func (m *MemoryStore) LoadSession(_ context.Context, id string) (state.SessionState, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return state.SessionState{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return decodeSession(data)
}

func (m *MemoryStore) SaveScorecard(_ context.Context, card scorecard.Scorecard) error {
	data, err := encodeScorecard(card)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scorecards[card.SessionID] = data
	return nil
}

func (m *MemoryStore) LoadScorecard(_ context.Context, id string) (scorecard.Scorecard, error) {
	m.mu.RLock()
	data, ok := m.scorecards[id]
	m.mu.RUnlock()
	if !ok {
		return scorecard.Scorecard{}, fmt.Errorf("scorecard %s: %w", id, ErrNotFound)
	}
	return decodeScorecard(data)
}

func (m *MemoryStore) ListSessions(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) Close() error { return nil }
