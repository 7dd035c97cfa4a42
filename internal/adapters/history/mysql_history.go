package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// NewMySQLHistory connects to MySQL and creates the history table if needed
func NewMySQLHistory(dsn string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*SQLHistory, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scam_history (
			id VARCHAR(64) PRIMARY KEY,
			risk_tier VARCHAR(16) NOT NULL,
			category VARCHAR(255) NOT NULL,
			explanation TEXT NOT NULL,
			detailed_explanation TEXT NOT NULL,
			message_excerpt TEXT NOT NULL,
			message_full MEDIUMTEXT NOT NULL,
			model_used VARCHAR(255) NOT NULL,
			created_at BIGINT NOT NULL,
			INDEX idx_scam_history_created_at (created_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	upsert := `REPLACE INTO scam_history (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return newSQLHistory(db, "mysql", upsert, logger, retention, cleanupFreq), nil
}
