package repository

import (
	"database/sql"
	"fmt"
	"time"
)

type ToolRun struct {
	Id        int64
	Owner     string
	Tool      string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

type ToolRunRepository struct {
	db *sql.DB
}

func NewToolRunRepository(db *sql.DB) *ToolRunRepository {
	return &ToolRunRepository{db: db}
}

func (r *ToolRunRepository) Create(run *ToolRun) (int64, error) {
	query := `INSERT INTO tool_runs (owner, tool, outcome, detail) VALUES (?, ?, ?, ?)`

	result, err := r.db.Exec(query, run.Owner, run.Tool, run.Outcome, run.Detail)
	if err != nil {
		return 0, fmt.Errorf("Error trying to record the tool run: %w", err)
	}
	return result.LastInsertId()
}

func (r *ToolRunRepository) ListRecent(owner string, limit int) ([]ToolRun, error) {
	query := `SELECT id, owner, tool, outcome, COALESCE(detail, ''), created_at
		FROM tool_runs WHERE owner = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.Query(query, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("get tool runs: %w", err)
	}
	defer rows.Close()

	var runs []ToolRun
	for rows.Next() {
		var run ToolRun
		if err := rows.Scan(&run.Id, &run.Owner, &run.Tool, &run.Outcome, &run.Detail, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tool run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
