package workouts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fitai/fitai/internal/fitness"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

type ProfileLoader interface {
	LoadFitnessProfile(ctx context.Context, userID uuid.UUID) (*storage.User, fitness.UserProfile, error)
}

// Service composes workout plans and persists them.
type Service struct {
	profiles ProfileLoader
	composer *fitness.Composer
	storage  storage.PlansStorage
	logger   *zap.Logger
}

func NewService(profiles ProfileLoader, composer *fitness.Composer, st storage.PlansStorage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles: profiles,
		composer: composer,
		storage:  st,
		logger:   logger,
	}
}

func (s *Service) Generate(ctx context.Context, userID uuid.UUID, req GenerateRequest) (*WorkoutPlanDTO, error) {
	_, profile, err := s.profiles.LoadFitnessProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	day, err := validation.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	focus := req.Focus
	if focus == "" {
		focus = DefaultFocus
	}
	duration := DefaultDuration
	if req.Duration != nil {
		duration = *req.Duration
	}
	equipment := req.Equipment
	if len(equipment) == 0 {
		equipment = DefaultEquipment
	}

	plan := s.composer.ComposeWorkoutPlan(ctx, fitness.WorkoutPlanRequest{
		Profile:         profile,
		Date:            *day,
		Focus:           focus,
		DurationMinutes: duration,
		Equipment:       equipment,
	})

	exercises, err := json.Marshal(plan.Exercises)
	if err != nil {
		return nil, fmt.Errorf("failed to encode exercises: %w", err)
	}

	record := &storage.WorkoutPlanRecord{
		UserID:          userID,
		Date:            *day,
		Exercises:       exercises,
		DurationMinutes: plan.DurationMinutes,
		Focus:           plan.Focus,
		Difficulty:      plan.Difficulty,
		Recommendations: plan.Recommendations,
		Source:          plan.Source,
	}
	if err := s.storage.CreateWorkoutPlan(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save workout plan: %w", err)
	}

	s.logger.Info("workout plan generated",
		zap.String("user_id", userID.String()),
		zap.String("source", plan.Source),
		zap.String("focus", plan.Focus),
	)

	dto := ToDTO(*record)
	return &dto, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter storage.PlanFilter) ([]WorkoutPlanDTO, error) {
	records, err := s.storage.ListWorkoutPlans(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout plans: %w", err)
	}

	out := make([]WorkoutPlanDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToDTO(r))
	}
	return out, nil
}

func ToDTO(r storage.WorkoutPlanRecord) WorkoutPlanDTO {
	recommendations := r.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	return WorkoutPlanDTO{
		ID:              r.ID,
		UserID:          r.UserID,
		Date:            r.Date.Format(validation.DateLayout),
		Exercises:       r.Exercises,
		Duration:        r.DurationMinutes,
		Focus:           r.Focus,
		Difficulty:      r.Difficulty,
		Recommendations: recommendations,
		Source:          r.Source,
		AIGenerated:     r.Source == fitness.SourceGenerated,
		CreatedAt:       r.CreatedAt,
	}
}
