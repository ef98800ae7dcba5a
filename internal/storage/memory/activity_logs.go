package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
)

type activityLogsStorage struct {
	mu   sync.RWMutex
	logs map[uuid.UUID][]storage.ActivityLog
}

func newActivityLogsStorage() *activityLogsStorage {
	return &activityLogsStorage{logs: make(map[uuid.UUID][]storage.ActivityLog)}
}

func (s *activityLogsStorage) CreateLog(ctx context.Context, log *storage.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = now()

	stored := *log
	stored.Data = cloneBytes(log.Data)
	s.logs[log.UserID] = append(s.logs[log.UserID], stored)
	return nil
}

func (s *activityLogsStorage) ListLogs(ctx context.Context, userID uuid.UUID, filter storage.LogFilter) ([]storage.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.ActivityLog{}
	for _, l := range s.logs[userID] {
		if filter.Type != "" && l.Type != filter.Type {
			continue
		}
		if !filter.Period.Contains(l.Date) {
			continue
		}
		l.Data = cloneBytes(l.Data)
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return applyLimit(out, filter.Limit), nil
}

func (s *activityLogsStorage) CountLogs(ctx context.Context, userID uuid.UUID, period storage.Period) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, l := range s.logs[userID] {
		if period.Contains(l.Date) {
			count++
		}
	}
	return count, nil
}
