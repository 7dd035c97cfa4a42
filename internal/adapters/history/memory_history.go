package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mikey/llm-scam-shield/internal/core"
	"go.uber.org/zap"
)

type memoryEntry struct {
	result *core.AnalysisResult
	seq    uint64
}

// MemoryHistory is an in-memory implementation of the HistoryRepository interface
type MemoryHistory struct {
	entries   map[string]memoryEntry
	seq       uint64
	mu        sync.RWMutex
	logger    *zap.Logger
	retention time.Duration
	cleanup   *cleanupTask
}

// NewMemoryHistory creates a new in-memory history store and starts its cleanup task
func NewMemoryHistory(logger *zap.Logger, retention, cleanupFreq time.Duration) *MemoryHistory {
	h := &MemoryHistory{
		entries:   make(map[string]memoryEntry),
		logger:    logger,
		retention: retention,
		cleanup:   newCleanupTask(cleanupFreq, logger),
	}
	h.cleanup.start(h.Cleanup)
	return h
}

// Save stores a copy of result, replacing any result with the same ID
func (h *MemoryHistory) Save(ctx context.Context, result *core.AnalysisResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	h.entries[result.ID] = memoryEntry{result: copyResult(result), seq: h.seq}
	return nil
}

// Get retrieves a result by ID
func (h *MemoryHistory) Get(ctx context.Context, id string) (*core.AnalysisResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entry, ok := h.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyResult(entry.result), nil
}

// List returns up to limit results, newest first; a non-positive limit returns all
func (h *MemoryHistory) List(ctx context.Context, limit int) ([]*core.AnalysisResult, error) {
	h.mu.RLock()
	entries := make([]memoryEntry, 0, len(h.entries))
	for _, entry := range h.entries {
		entries = append(entries, entry)
	}
	h.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].result.Timestamp, entries[j].result.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].seq > entries[j].seq
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	results := make([]*core.AnalysisResult, len(entries))
	for i, entry := range entries {
		results[i] = copyResult(entry.result)
	}
	return results, nil
}

// Delete removes a result
func (h *MemoryHistory) Delete(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.entries[id]; !ok {
		return ErrNotFound
	}
	delete(h.entries, id)
	return nil
}

// Cleanup removes results older than the retention period
func (h *MemoryHistory) Cleanup(ctx context.Context) error {
	oldest := cutoff(h.retention)
	if oldest.IsZero() {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	expiredCount := 0
	for id, entry := range h.entries {
		if entry.result.Timestamp.Before(oldest) {
			delete(h.entries, id)
			expiredCount++
		}
	}

	h.logger.Debug("Cleaned up expired history entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Stop stops the background cleanup task
func (h *MemoryHistory) Stop() {
	h.cleanup.stop()
}
