package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

const scorecardDir = "scorecards"

// FileStore keeps one JSON file per session under Dir and scorecards under Dir/scorecards.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (f *FileStore) SaveSession(_ context.Context, s state.SessionState) error {
	return state.SaveState(&s, f.Dir)
}

func (f *FileStore) LoadSession(_ context.Context, id string) (state.SessionState, error) {
	s, err := state.LoadState(f.Dir, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state.SessionState{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return state.SessionState{}, err
	}
	return *s, nil
}

func (f *FileStore) scorecardPath(id string) string {
	return filepath.Join(f.Dir, scorecardDir, id+".json")
}

func (f *FileStore) SaveScorecard(_ context.Context, card scorecard.Scorecard) error {
	data, err := encodeScorecard(card)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(f.Dir, scorecardDir), 0755); err != nil {
		return fmt.Errorf("create scorecard dir: %w", err)
	}
	if err := os.WriteFile(f.scorecardPath(card.SessionID), data, 0644); err != nil {
		return fmt.Errorf("write scorecard: %w", err)
	}
	return nil
}

func (f *FileStore) LoadScorecard(_ context.Context, id string) (scorecard.Scorecard, error) {
	data, err := os.ReadFile(f.scorecardPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scorecard.Scorecard{}, fmt.Errorf("scorecard %s: %w", id, ErrNotFound)
		}
		return scorecard.Scorecard{}, fmt.Errorf("read scorecard: %w", err)
	}
	return decodeScorecard(data)
}

func (f *FileStore) ListSessions(_ context.Context) ([]string, error) {
	ids, err := state.ListStates(f.Dir)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *FileStore) Close() error { return nil }
