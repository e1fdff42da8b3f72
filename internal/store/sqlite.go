package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// SQLiteStore keeps sessions and scorecards as JSON columns in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path. ":memory:" is accepted.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			candidate TEXT NOT NULL,
			phase TEXT NOT NULL,
			data TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scorecards (
			session_id TEXT PRIMARY KEY,
			overall_score REAL NOT NULL,
			data TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, sess state.SessionState) error {
	now := s.now()
	data, err := encodeSession(sess, now)
	if err != nil {
		return err
	}
	const query = `
	INSERT INTO sessions (id, candidate, phase, data, updated_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET candidate=excluded.candidate, phase=excluded.phase,
		data=excluded.data, updated_at=excluded.updated_at;`
	if _, err := s.db.ExecContext(ctx, query, sess.ID, sess.Candidate, string(sess.Phase), string(data), now.UTC()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadSession(ctx context.Context, id string) (state.SessionState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return state.SessionState{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return state.SessionState{}, fmt.Errorf("load session: %w", err)
	}
	return decodeSession([]byte(data))
}

func (s *SQLiteStore) SaveScorecard(ctx context.Context, card scorecard.Scorecard) error {
	data, err := encodeScorecard(card)
	if err != nil {
		return err
	}
	const query = `
	INSERT INTO scorecards (session_id, overall_score, data, created_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET overall_score=excluded.overall_score, data=excluded.data;`
	if _, err := s.db.ExecContext(ctx, query, card.SessionID, card.OverallScore, string(data), s.now().UTC()); err != nil {
		return fmt.Errorf("save scorecard: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadScorecard(ctx context.Context, id string) (scorecard.Scorecard, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM scorecards WHERE session_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return scorecard.Scorecard{}, fmt.Errorf("scorecard %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return scorecard.Scorecard{}, fmt.Errorf("load scorecard: %w", err)
	}
	return decodeScorecard([]byte(data))
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
