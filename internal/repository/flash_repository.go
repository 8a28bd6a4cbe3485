package repository

import (
	"database/sql"
	"fmt"
)

type Flash struct {
	Id        int64
	SessionId string
	Kind      string
	Message   string
}

type FlashRepository struct {
	db *sql.DB
}

func NewFlashRepository(db *sql.DB) *FlashRepository {
	return &FlashRepository{db: db}
}

func (r *FlashRepository) Create(flash *Flash) error {
	query := `INSERT INTO flashes (session_id, kind, message) VALUES (?, ?, ?)`

	_, err := r.db.Exec(query, flash.SessionId, flash.Kind, flash.Message)
	if err != nil {
		return fmt.Errorf("Error trying to create the flash: %w", err)
	}
	return nil
}

// Pop returns the pending flashes for a session in insertion order and
// deletes them in the same transaction.
func (r *FlashRepository) Pop(sessionId string) ([]Flash, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin pop flashes: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT id, session_id, kind, message FROM flashes WHERE session_id = ? ORDER BY id`, sessionId)
	if err != nil {
		return nil, fmt.Errorf("get flashes: %w", err)
	}

	var flashes []Flash
	for rows.Next() {
		var f Flash
		if err := rows.Scan(&f.Id, &f.SessionId, &f.Kind, &f.Message); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan flash: %w", err)
		}
		flashes = append(flashes, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flashes: %w", err)
	}

	if len(flashes) == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(`DELETE FROM flashes WHERE session_id = ? AND id <= ?`, sessionId, flashes[len(flashes)-1].Id); err != nil {
		return nil, fmt.Errorf("delete flashes: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit pop flashes: %w", err)
	}
	return flashes, nil
}
