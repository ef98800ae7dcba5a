package mealplans

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

// ProfileLoader resolves the generation profile of a user.
type ProfileLoader interface {
	LoadFitnessProfile(ctx context.Context, userID uuid.UUID) (*storage.User, fitness.UserProfile, error)
}

// Service composes meal plans for users and persists them.
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

// Generate composes a plan for req.Date and stores it. A missing target
// uses the calorie estimate, or 2000 when the profile is incomplete.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, req GenerateRequest) (*MealPlanDTO, error) {
	_, profile, err := s.profiles.LoadFitnessProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	day, err := validation.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	restrictions := req.Restrictions
	if restrictions == nil {
		restrictions = profile.DietaryRestrictions
	}
	target := fitness.EstimateOrDefault(profile)
	if req.TargetCalories != nil {
		target = *req.TargetCalories
	}

	plan := s.composer.ComposeMealPlan(ctx, fitness.MealPlanRequest{
		Profile:        profile,
		Date:           *day,
		Preferences:    stringifyPreferences(req.Preferences),
		Restrictions:   restrictions,
		TargetCalories: target,
	})

	meals, err := json.Marshal(plan.Meals)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meals: %w", err)
	}

	record := &storage.MealPlanRecord{
		UserID:          userID,
		Date:            *day,
		Meals:           meals,
		TotalCalories:   plan.TotalCalories,
		Recommendations: plan.Recommendations,
		Source:          plan.Source,
	}
	if err := s.storage.CreateMealPlan(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}

	s.logger.Info("meal plan generated",
		zap.String("user_id", userID.String()),
		zap.String("source", plan.Source),
		zap.Float64("total_calories", plan.TotalCalories),
	)

	dto := ToDTO(*record)
	return &dto, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter storage.PlanFilter) ([]MealPlanDTO, error) {
	records, err := s.storage.ListMealPlans(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}

	out := make([]MealPlanDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToDTO(r))
	}
	return out, nil
}

func ToDTO(r storage.MealPlanRecord) MealPlanDTO {
	recommendations := r.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	return MealPlanDTO{
		ID:              r.ID,
		UserID:          r.UserID,
		Date:            r.Date.Format(validation.DateLayout),
		Meals:           r.Meals,
		TotalCalories:   r.TotalCalories,
		Recommendations: recommendations,
		Source:          r.Source,
		AIGenerated:     r.Source == fitness.SourceGenerated,
		CreatedAt:       r.CreatedAt,
	}
}

func stringifyPreferences(prefs map[string]interface{}) map[string]string {
	if len(prefs) == 0 {
		return nil
	}
	out := make(map[string]string, len(prefs))
	for k, v := range prefs {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			continue
		default:
			raw, err := json.Marshal(val)
			if err != nil {
				continue
			}
			out[k] = string(raw)
		}
	}
	return out
}

