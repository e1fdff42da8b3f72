package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const stateFileSuffix = ".json"

// SessionPath returns the file holding the session with the given id.
func SessionPath(dir, id string) string {
	return filepath.Join(dir, id+stateFileSuffix)
}

// Seal stamps the schema version, transcript digest and update time.
// It is called before every write so resume can detect a lost or edited transcript.
func Seal(s *SessionState, now time.Time) error {
	digest, err := TranscriptDigest(s.Transcript)
	if err != nil {
		return err
	}
	s.SchemaVersion = SchemaVersion
	s.TranscriptDigest = digest
	s.LastUpdated = now.UTC()
	return nil
}

// SaveState persists the session state as indented JSON under dir.
func SaveState(s *SessionState, dir string) error {
	if s.ID == "" {
		return fmt.Errorf("save state: session has no id")
	}
	if err := Seal(s, time.Now()); err != nil {
		return fmt.Errorf("seal state: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// Write through a temp file so a crash never leaves half a transcript behind.
	path := SessionPath(dir, s.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// LoadState reads and parses the session state for id from dir.
func LoadState(dir, id string) (*SessionState, error) {
	data, err := os.ReadFile(SessionPath(dir, id))
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var s SessionState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: unmarshal state: %v", ErrCorruptSession, err)
	}

	return &s, nil
}

// ListStates returns the ids of every session persisted under dir.
func ListStates(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+stateFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("list state files: %w", err)
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		ids = append(ids, base[:len(base)-len(stateFileSuffix)])
	}
	return ids, nil
}
