// Package session persists chat transcripts and form submissions so
// clients can resume conversations.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/govflowai/govchat/internal/composer"
	"github.com/govflowai/govchat/internal/db"
)

// ErrNotFound is returned when a session id does not exist.
var ErrNotFound = errors.New("session not found")

// Store reads and writes chat sessions.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create starts a new session and returns its id.
func (s *Store) Create(ctx context.Context, location string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, location) VALUES (?, ?)`, id, location)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// AppendTurn records one message in a session's transcript. intent may
// be empty for turns with no recognized intent.
func (s *Store) AppendTurn(ctx context.Context, sessionID, role, content, intent string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM chat_sessions WHERE id = ?`, sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}

	var intentVal any
	if intent != "" {
		intentVal = intent
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, intent) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), sessionID, role, content, intentVal)
	if err != nil {
		return fmt.Errorf("appending turn: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET updated_at = datetime('now') WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

// Turns returns the last limit turns of a session in chronological
// order. limit <= 0 returns the full transcript.
func (s *Store) Turns(ctx context.Context, sessionID string, limit int) ([]composer.Turn, error) {
	// rowid breaks ties between messages inserted within the same
	// second, preserving insertion order.
	query := `SELECT role, content FROM chat_messages WHERE session_id = ? ORDER BY rowid`
	args := []any{sessionID}
	if limit > 0 {
		query = `SELECT role, content FROM (
			SELECT role, content, rowid AS rid FROM chat_messages
			WHERE session_id = ? ORDER BY rowid DESC LIMIT ?
		) ORDER BY rid`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading turns: %w", err)
	}
	defer rows.Close()

	var turns []composer.Turn
	for rows.Next() {
		var t composer.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// RecordSubmission stores a form submission attempt and its outcome.
func (s *Store) RecordSubmission(ctx context.Context, formType string, payload []byte, accepted bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO form_submissions (id, form_type, payload, accepted) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), formType, string(payload), accepted)
	if err != nil {
		return fmt.Errorf("recording submission: %w", err)
	}
	return nil
}
