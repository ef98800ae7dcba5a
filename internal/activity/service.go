package activity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/validation"
	"github.com/google/uuid"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

var ErrDataNotObject = errors.New("data must be an object")

// Service records and lists food, exercise, weight and measurement logs.
type Service struct {
	storage storage.ActivityLogsStorage
	now     func() time.Time
}

func NewService(st storage.ActivityLogsStorage) *Service {
	return &Service{
		storage: st,
		now:     time.Now,
	}
}

// Create stores a log. Without a date the log is recorded for today (UTC).
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateLogRequest) (*LogDTO, error) {
	data := bytes.TrimSpace(req.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrDataNotObject
	}

	day := s.now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		parsed, err := validation.ParseDate(req.Date)
		if err != nil {
			return nil, err
		}
		day = *parsed
	}

	log := &storage.ActivityLog{
		UserID:   userID,
		Type:     req.Type,
		Data:     data,
		Calories: req.Calories,
		Date:     day,
	}
	if err := s.storage.CreateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}

	dto := toDTO(*log)
	return &dto, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter storage.LogFilter) ([]LogDTO, error) {
	logs, err := s.storage.ListLogs(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	out := make([]LogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, toDTO(l))
	}
	return out, nil
}

func toDTO(l storage.ActivityLog) LogDTO {
	return LogDTO{
		ID:        l.ID,
		UserID:    l.UserID,
		Type:      l.Type,
		Data:      l.Data,
		Calories:  l.Calories,
		Date:      l.Date.Format(validation.DateLayout),
		CreatedAt: l.CreatedAt,
	}
}
