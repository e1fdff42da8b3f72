// Package store persists interview sessions and their scorecards.
//
// Every driver stores the sealed session JSON produced by state.Seal so a
// reloaded session can be checked with state.ResumeFromState regardless of
// where it was kept.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/mock-interviewer/internal/config"
	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// ErrNotFound is returned when no session or scorecard exists for an id.
var ErrNotFound = errors.New("not found")

// Store is a persistence sink for sessions and scorecards.
type Store interface {
	SaveSession(ctx context.Context, s state.SessionState) error
	LoadSession(ctx context.Context, id string) (state.SessionState, error)
	SaveScorecard(ctx context.Context, card scorecard.Scorecard) error
	LoadScorecard(ctx context.Context, id string) (scorecard.Scorecard, error)
	ListSessions(ctx context.Context) ([]string, error)
	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverFile, "":
		return NewFileStore(cfg.Dir), nil
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisTTL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// encodeSession seals a copy of s and returns its JSON.
func encodeSession(s state.SessionState, now time.Time) ([]byte, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("save session: session has no id")
	}
	if err := state.Seal(&s, now); err != nil {
		return nil, fmt.Errorf("seal session: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (state.SessionState, error) {
	var s state.SessionState
	if err := json.Unmarshal(data, &s); err != nil {
		return state.SessionState{}, fmt.Errorf("%w: unmarshal session: %v", state.ErrCorruptSession, err)
	}
	return s, nil
}

func encodeScorecard(card scorecard.Scorecard) ([]byte, error) {
	if card.SessionID == "" {
		return nil, fmt.Errorf("save scorecard: scorecard has no session id")
	}
	data, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("marshal scorecard: %w", err)
	}
	return data, nil
}

func decodeScorecard(data []byte) (scorecard.Scorecard, error) {
	var card scorecard.Scorecard
	if err := json.Unmarshal(data, &card); err != nil {
		return scorecard.Scorecard{}, fmt.Errorf("unmarshal scorecard: %w", err)
	}
	return card, nil
}
