package memory

import (
	"strings"
	"time"

	"github.com/fitai/fitai/internal/storage"
)

// MemoryStorage keeps everything in process maps. It backs local runs without
// DATABASE_URL and handler tests.
type MemoryStorage struct {
	*usersStorage
	*activityLogsStorage
	*plansStorage
	*catalogStorage
	*ReportsMemoryStorage
}

var _ storage.Storage = (*MemoryStorage)(nil)

func New() *MemoryStorage {
	return &MemoryStorage{
		usersStorage:         newUsersStorage(),
		activityLogsStorage:  newActivityLogsStorage(),
		plansStorage:         newPlansStorage(),
		catalogStorage:       newCatalogStorage(),
		ReportsMemoryStorage: NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}

// applyLimit truncates items when limit is positive.
func applyLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func now() time.Time {
	return time.Now().UTC()
}
