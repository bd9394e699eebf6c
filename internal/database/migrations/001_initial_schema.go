package migrations

import (
	"database/sql"
)

func init() {
	Register(Migration{
		Version: 1,
		Name:    "initial_schema",
		Up:      initialSchema,
	})
}

func initialSchema(db *sql.DB) error {
	statements := []string{
		// Chat messages: the persisted conversation, oldest first
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_created ON chat_messages(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_request ON chat_messages(request_id)`,

		// Action log: one row per pipeline run. Runs that fail before
		// classification carry action 'none'.
		`CREATE TABLE IF NOT EXISTS action_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id TEXT NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('none', 'create', 'update', 'delete')),
			event_id TEXT,
			event_summary TEXT,
			status TEXT NOT NULL CHECK(status IN ('success', 'error')),
			error_category TEXT,
			detail TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_action_log_request ON action_log(request_id)`,
		`CREATE INDEX IF NOT EXISTS idx_action_log_created ON action_log(created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
