package progress

import (
	"context"
	"fmt"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Store is the slice of storage the progress views read from.
type Store interface {
	storage.ActivityLogsStorage
	storage.PlansStorage
}

type Statistics struct {
	TotalLogs         int `json:"totalLogs"`
	TotalMealPlans    int `json:"totalMealPlans"`
	TotalWorkoutPlans int `json:"totalWorkoutPlans"`
}

type Service struct {
	storage Store
}

func NewService(st Store) *Service {
	return &Service{storage: st}
}

// Analyze loads every log in the period and the plan counts, then summarizes
// them.
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID, period storage.Period) (*Analysis, error) {
	var (
		logs         []storage.ActivityLog
		mealPlans    int
		workoutPlans int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = s.storage.ListLogs(gctx, userID, storage.LogFilter{Period: period})
		if err != nil {
			return fmt.Errorf("failed to fetch logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		mealPlans, err = s.storage.CountMealPlans(gctx, userID, period)
		if err != nil {
			return fmt.Errorf("failed to count meal plans: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		workoutPlans, err = s.storage.CountWorkoutPlans(gctx, userID, period)
		if err != nil {
			return fmt.Errorf("failed to count workout plans: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := Analyze(logs, mealPlans, workoutPlans, period)
	return &analysis, nil
}

// Statistics counts logs and plans in the period.
func (s *Service) Statistics(ctx context.Context, userID uuid.UUID, period storage.Period) (*Statistics, error) {
	var stats Statistics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.storage.CountLogs(gctx, userID, period)
		if err != nil {
			return fmt.Errorf("failed to count logs: %w", err)
		}
		stats.TotalLogs = n
		return nil
	})
	g.Go(func() error {
		n, err := s.storage.CountMealPlans(gctx, userID, period)
		if err != nil {
			return fmt.Errorf("failed to count meal plans: %w", err)
		}
		stats.TotalMealPlans = n
		return nil
	})
	g.Go(func() error {
		n, err := s.storage.CountWorkoutPlans(gctx, userID, period)
		if err != nil {
			return fmt.Errorf("failed to count workout plans: %w", err)
		}
		stats.TotalWorkoutPlans = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
