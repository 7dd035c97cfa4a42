package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/llm-scam-shield/internal/adapters/history"
	"github.com/mikey/llm-scam-shield/internal/config"
	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HistoryStore is a history repository with background work that must be stopped
type HistoryStore interface {
	core.HistoryRepository
	Stop()
}

// HistoryFactory creates history stores based on configuration
type HistoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(cfg *config.Config, logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHistoryStore creates the configured history store, or returns nil when history is disabled
func (f *HistoryFactory) CreateHistoryStore(ctx context.Context) (HistoryStore, error) {
	historyCfg, err := f.cfg.GetHistory()
	if err != nil {
		return nil, err
	}
	if !historyCfg.Enabled {
		f.logger.Info("History disabled")
		return nil, nil
	}

	f.logger.Info("Creating history store", zap.String("type", historyCfg.Type))

	switch historyCfg.Type {
	case "memory":
		return history.NewMemoryHistory(f.logger, historyCfg.Retention, historyCfg.CleanupFrequency), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(historyCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return history.NewSQLiteHistory(historyCfg.SQLitePath, f.logger, historyCfg.Retention, historyCfg.CleanupFrequency)
	case "mysql":
		return history.NewMySQLHistory(historyCfg.MySQLDSN, f.logger, historyCfg.Retention, historyCfg.CleanupFrequency)
	case "postgres":
		return history.NewPostgresHistory(ctx, historyCfg.PostgresDSN, f.logger, historyCfg.Retention, historyCfg.CleanupFrequency)
	case "redis":
		opts := &redis.Options{
			Addr:     historyCfg.RedisAddr,
			Password: historyCfg.RedisPassword,
			DB:       historyCfg.RedisDB,
		}
		return history.NewRedisHistory(ctx, opts, historyCfg.RedisKey, f.logger, historyCfg.Retention, historyCfg.CleanupFrequency)
	default:
		return nil, fmt.Errorf("unsupported history type: %s", historyCfg.Type)
	}
}
