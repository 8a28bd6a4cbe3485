package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	Id         string
	Owner      string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *Session) error {
	query := `INSERT INTO sessions (id, owner) VALUES (?, ?)`

	_, err := r.db.Exec(query, session.Id, session.Owner)
	if err != nil {
		return fmt.Errorf("Error trying to create the session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(id string) (Session, error) {
	query := `SELECT id, owner, created_at, last_seen_at FROM sessions WHERE id = ?`

	var s Session
	err := r.db.QueryRow(query, id).Scan(&s.Id, &s.Owner, &s.CreatedAt, &s.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("Error trying to get session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Touch(id string) error {
	query := `UPDATE sessions SET last_seen_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.Exec(query, id)
	return err
}

// DeleteIdleSince removes sessions not seen since cutoff and returns how
// many were dropped. Their flashes go with them.
func (r *SessionRepository) DeleteIdleSince(cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE last_seen_at < ?`
	result, err := r.db.Exec(query, cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	return result.RowsAffected()
}
