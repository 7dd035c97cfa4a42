package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

// PostgresHistory is a PostgreSQL implementation of the HistoryRepository interface
type PostgresHistory struct {
	pool      *pgxpool.Pool
	logger    *zap.Logger
	retention time.Duration
	cleanup   *cleanupTask
}

// NewPostgresHistory connects to PostgreSQL and creates the history table if needed
func NewPostgresHistory(ctx context.Context, dsn string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*PostgresHistory, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scam_history (
			id TEXT PRIMARY KEY,
			risk_tier TEXT NOT NULL,
			category TEXT NOT NULL,
			explanation TEXT NOT NULL,
			detailed_explanation TEXT NOT NULL,
			message_excerpt TEXT NOT NULL,
			message_full TEXT NOT NULL,
			model_used TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_scam_history_created_at ON scam_history (created_at)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	h := &PostgresHistory{
		pool:      pool,
		logger:    logger,
		retention: retention,
		cleanup:   newCleanupTask(cleanupFreq, logger),
	}
	h.cleanup.start(h.Cleanup)
	return h, nil
}

// Save stores result, replacing any result with the same ID
func (h *PostgresHistory) Save(ctx context.Context, result *core.AnalysisResult) error {
	_, err := h.pool.Exec(ctx, `
		INSERT INTO scam_history (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			risk_tier = EXCLUDED.risk_tier,
			category = EXCLUDED.category,
			explanation = EXCLUDED.explanation,
			detailed_explanation = EXCLUDED.detailed_explanation,
			message_excerpt = EXCLUDED.message_excerpt,
			message_full = EXCLUDED.message_full,
			model_used = EXCLUDED.model_used,
			created_at = EXCLUDED.created_at
	`,
		result.ID,
		string(result.RiskTier),
		result.Category,
		result.Explanation,
		result.DetailedExplanation,
		result.MessageExcerpt,
		result.MessageFull,
		result.ModelUsed,
		result.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// Get retrieves a result by ID
func (h *PostgresHistory) Get(ctx context.Context, id string) (*core.AnalysisResult, error) {
	row := h.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM scam_history WHERE id = $1`, id)

	result, err := scanPostgresResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query analysis result: %w", err)
	}
	return result, nil
}

// List returns up to limit results, newest first; a non-positive limit returns all
func (h *PostgresHistory) List(ctx context.Context, limit int) ([]*core.AnalysisResult, error) {
	query := `SELECT ` + selectColumns + ` FROM scam_history ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := h.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	defer rows.Close()

	results := []*core.AnalysisResult{}
	for rows.Next() {
		result, err := scanPostgresResult(rows)
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
func (h *PostgresHistory) Delete(ctx context.Context, id string) error {
	tag, err := h.pool.Exec(ctx, `DELETE FROM scam_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Cleanup removes results older than the retention period
func (h *PostgresHistory) Cleanup(ctx context.Context) error {
	oldest := cutoff(h.retention)
	if oldest.IsZero() {
		return nil
	}

	tag, err := h.pool.Exec(ctx, `DELETE FROM scam_history WHERE created_at < $1`, oldest)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	h.logger.Debug("Cleaned up expired history entries",
		zap.String("driver", "postgres"),
		zap.Int64("expired_count", tag.RowsAffected()))
	return nil
}

// Stop stops the background cleanup task and closes the connection pool
func (h *PostgresHistory) Stop() {
	h.cleanup.stop()
	h.pool.Close()
}

func scanPostgresResult(row pgx.Row) (*core.AnalysisResult, error) {
	var (
		result    core.AnalysisResult
		tier      string
		createdAt time.Time
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
	result.Timestamp = createdAt.UTC()
	return &result, nil
}
