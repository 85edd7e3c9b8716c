package journal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"visionary/internal/core/model"
)

// MemoryStore keeps logs in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	logs map[string]model.DailyLog
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[string]model.DailyLog)}
}

func (store *MemoryStore) Upsert(_ context.Context, date string, mutate func(*model.DailyLog)) (model.DailyLog, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	log, ok := store.logs[date]
	if !ok {
		log = model.DailyLog{Date: date}
	}
	mutate(&log)
	log.Date = date
	store.logs[date] = log
	return log, nil
}

func (store *MemoryStore) Get(_ context.Context, date string) (model.DailyLog, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	log, ok := store.logs[date]
	if !ok {
		return model.DailyLog{}, fmt.Errorf("get %s: %w", date, ErrNotFound)
	}
	return log, nil
}

func (store *MemoryStore) List(context.Context) ([]model.DailyLog, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	logs := make([]model.DailyLog, 0, len(store.logs))
	for _, log := range store.logs {
		logs = append(logs, log)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
	return logs, nil
}

func (store *MemoryStore) Clear(context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.logs = make(map[string]model.DailyLog)
	return nil
}
