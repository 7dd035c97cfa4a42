package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// NewSQLiteHistory opens a SQLite history store, creating its table if needed
func NewSQLiteHistory(dbPath string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*SQLHistory, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scam_history (
			id TEXT PRIMARY KEY,
			risk_tier TEXT NOT NULL,
			category TEXT NOT NULL,
			explanation TEXT NOT NULL,
			detailed_explanation TEXT NOT NULL,
			message_excerpt TEXT NOT NULL,
			message_full TEXT NOT NULL,
			model_used TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_scam_history_created_at ON scam_history(created_at)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	upsert := `INSERT OR REPLACE INTO scam_history (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return newSQLHistory(db, "sqlite3", upsert, logger, retention, cleanupFreq), nil
}
