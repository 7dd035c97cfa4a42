package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no result exists for an ID
var ErrNotFound = errors.New("analysis result not found")

// cleanupTask runs a repository's Cleanup on a fixed interval until stopped
type cleanupTask struct {
	freq     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func newCleanupTask(freq time.Duration, logger *zap.Logger) *cleanupTask {
	return &cleanupTask{
		freq:   freq,
		stopCh: make(chan struct{}),
		logger: logger,
	}
}

// start launches the background loop; a non-positive frequency disables it
func (t *cleanupTask) start(cleanup func(context.Context) error) {
	if t.freq <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(t.freq)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := cleanup(context.Background()); err != nil {
					t.logger.Error("Failed to clean up history", zap.Error(err))
				}
			case <-t.stopCh:
				return
			}
		}
	}()
}

func (t *cleanupTask) stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

// cutoff returns the oldest timestamp kept under retention, or the zero time when retention is disabled
func cutoff(retention time.Duration) time.Time {
	if retention <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().Add(-retention)
}

func copyResult(result *core.AnalysisResult) *core.AnalysisResult {
	c := *result
	return &c
}
