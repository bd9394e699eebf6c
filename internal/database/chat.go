package database

import (
	"fmt"
	"time"
)

// ChatMessage represents one stored conversation turn
type ChatMessage struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveChatMessage stores one conversation turn
func (d *DB) SaveChatMessage(requestID, role, content string) (int64, error) {
	result, err := d.Exec(`
		INSERT INTO chat_messages (request_id, role, content)
		VALUES (?, ?, ?)
	`, requestID, role, content)
	if err != nil {
		return 0, fmt.Errorf("failed to save chat message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get chat message ID: %w", err)
	}
	return id, nil
}

// GetChatHistory retrieves the last N messages in chronological order
func (d *DB) GetChatHistory(limit int) ([]ChatMessage, error) {
	rows, err := d.Query(`
		SELECT id, request_id, role, content, created_at
		FROM chat_messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.RequestID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	// Reverse to get chronological order (oldest first)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// PruneChatHistory keeps only the last N messages, deleting older ones
func (d *DB) PruneChatHistory(keepCount int) error {
	_, err := d.Exec(`
		DELETE FROM chat_messages
		WHERE id NOT IN (
			SELECT id FROM chat_messages
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`, keepCount)
	if err != nil {
		return fmt.Errorf("failed to prune chat history: %w", err)
	}
	return nil
}

// CountChatMessages returns the number of stored messages
func (d *DB) CountChatMessages() (int, error) {
	var count int
	err := d.QueryRow("SELECT COUNT(*) FROM chat_messages").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chat messages: %w", err)
	}
	return count, nil
}
