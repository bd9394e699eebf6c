package database

import (
	"database/sql"
	"fmt"
	"time"
)

// ActionRecord represents one attempted calendar mutation
type ActionRecord struct {
	ID            int64     `json:"id"`
	RequestID     string    `json:"request_id"`
	Action        string    `json:"action"`
	EventID       string    `json:"event_id,omitempty"`
	EventSummary  string    `json:"event_summary,omitempty"`
	Status        string    `json:"status"`
	ErrorCategory string    `json:"error_category,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// LogAction records a calendar mutation attempt, successful or not
func (d *DB) LogAction(record ActionRecord) (int64, error) {
	result, err := d.Exec(`
		INSERT INTO action_log (request_id, action, event_id, event_summary, status, error_category, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.RequestID, record.Action, record.EventID, record.EventSummary, record.Status, record.ErrorCategory, record.Detail)
	if err != nil {
		return 0, fmt.Errorf("failed to log action: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get action log ID: %w", err)
	}
	return id, nil
}

// GetActionsByRequest retrieves all logged actions for one request
func (d *DB) GetActionsByRequest(requestID string) ([]ActionRecord, error) {
	rows, err := d.Query(`
		SELECT id, request_id, action, COALESCE(event_id, ''), COALESCE(event_summary, ''),
			status, COALESCE(error_category, ''), COALESCE(detail, ''), created_at
		FROM action_log
		WHERE request_id = ?
		ORDER BY id
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

// GetRecentActions retrieves the last N logged actions, newest first
func (d *DB) GetRecentActions(limit int) ([]ActionRecord, error) {
	rows, err := d.Query(`
		SELECT id, request_id, action, COALESCE(event_id, ''), COALESCE(event_summary, ''),
			status, COALESCE(error_category, ''), COALESCE(detail, ''), created_at
		FROM action_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent actions: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

func scanActions(rows *sql.Rows) ([]ActionRecord, error) {
	var actions []ActionRecord
	for rows.Next() {
		var a ActionRecord
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Action, &a.EventID, &a.EventSummary,
			&a.Status, &a.ErrorCategory, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}
	return actions, nil
}
