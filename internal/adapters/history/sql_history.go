package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

const selectColumns = `id, risk_tier, category, explanation, detailed_explanation,
	message_excerpt, message_full, model_used, created_at`

// SQLHistory is a database/sql implementation of the HistoryRepository interface.
// It serves both SQLite and MySQL, which share placeholder syntax.
type SQLHistory struct {
	db         *sql.DB
	driver     string
	upsertStmt string
	logger     *zap.Logger
	retention  time.Duration
	cleanup    *cleanupTask
}

func newSQLHistory(db *sql.DB, driver, upsertStmt string, logger *zap.Logger, retention, cleanupFreq time.Duration) *SQLHistory {
	h := &SQLHistory{
		db:         db,
		driver:     driver,
		upsertStmt: upsertStmt,
		logger:     logger,
		retention:  retention,
		cleanup:    newCleanupTask(cleanupFreq, logger),
	}
	h.cleanup.start(h.Cleanup)
	return h
}

// Save stores result, replacing any result with the same ID
func (h *SQLHistory) Save(ctx context.Context, result *core.AnalysisResult) error {
	_, err := h.db.ExecContext(ctx, h.upsertStmt,
		result.ID,
		string(result.RiskTier),
		result.Category,
		result.Explanation,
		result.DetailedExplanation,
		result.MessageExcerpt,
		result.MessageFull,
		result.ModelUsed,
		result.Timestamp.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// Get retrieves a result by ID
func (h *SQLHistory) Get(ctx context.Context, id string) (*core.AnalysisResult, error) {
	row := h.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM scam_history WHERE id = ?`, id)

	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query analysis result: %w", err)
	}
	return result, nil
}

// List returns up to limit results, newest first; a non-positive limit returns all
func (h *SQLHistory) List(ctx context.Context, limit int) ([]*core.AnalysisResult, error) {
	query := `SELECT ` + selectColumns + ` FROM scam_history ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	defer rows.Close()

	results := []*core.AnalysisResult{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	return results, nil
}

// Delete removes a result
func (h *SQLHistory) Delete(ctx context.Context, id string) error {
	res, err := h.db.ExecContext(ctx, `DELETE FROM scam_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis result: %w", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Cleanup removes results older than the retention period
func (h *SQLHistory) Cleanup(ctx context.Context) error {
	oldest := cutoff(h.retention)
	if oldest.IsZero() {
		return nil
	}

	res, err := h.db.ExecContext(ctx, `DELETE FROM scam_history WHERE created_at < ?`, oldest.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		h.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		h.logger.Debug("Cleaned up expired history entries",
			zap.String("driver", h.driver),
			zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (h *SQLHistory) Stop() {
	h.cleanup.stop()
	if err := h.db.Close(); err != nil {
		h.logger.Error("Failed to close history database", zap.String("driver", h.driver), zap.Error(err))
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (*core.AnalysisResult, error) {
	var (
		result    core.AnalysisResult
		tier      string
		createdAt int64
	)
	err := row.Scan(
		&result.ID,
		&tier,
		&result.Category,
		&result.Explanation,
		&result.DetailedExplanation,
		&result.MessageExcerpt,
		&result.MessageFull,
		&result.ModelUsed,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	result.RiskTier = core.RiskTier(tier)
	result.Timestamp = time.Unix(0, createdAt).UTC()
	return &result, nil
}
