package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
)

type plansStorage struct {
	mu           sync.RWMutex
	mealPlans    map[uuid.UUID][]storage.MealPlanRecord
	workoutPlans map[uuid.UUID][]storage.WorkoutPlanRecord
}

func newPlansStorage() *plansStorage {
	return &plansStorage{
		mealPlans:    make(map[uuid.UUID][]storage.MealPlanRecord),
		workoutPlans: make(map[uuid.UUID][]storage.WorkoutPlanRecord),
	}
}

func (s *plansStorage) CreateMealPlan(ctx context.Context, plan *storage.MealPlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = now()

	stored := *plan
	stored.Meals = cloneBytes(plan.Meals)
	stored.Recommendations = cloneStrings(plan.Recommendations)
	s.mealPlans[plan.UserID] = append(s.mealPlans[plan.UserID], stored)
	return nil
}

func (s *plansStorage) ListMealPlans(ctx context.Context, userID uuid.UUID, filter storage.PlanFilter) ([]storage.MealPlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.MealPlanRecord{}
	for _, p := range s.mealPlans[userID] {
		if filter.Period.Contains(p.Date) {
			p.Meals = cloneBytes(p.Meals)
			p.Recommendations = cloneStrings(p.Recommendations)
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return applyLimit(out, filter.Limit), nil
}

func (s *plansStorage) CountMealPlans(ctx context.Context, userID uuid.UUID, period storage.Period) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.mealPlans[userID] {
		if period.Contains(p.Date) {
			count++
		}
	}
	return count, nil
}

func (s *plansStorage) CreateWorkoutPlan(ctx context.Context, plan *storage.WorkoutPlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = now()

	stored := *plan
	stored.Exercises = cloneBytes(plan.Exercises)
	stored.Recommendations = cloneStrings(plan.Recommendations)
	s.workoutPlans[plan.UserID] = append(s.workoutPlans[plan.UserID], stored)
	return nil
}

func (s *plansStorage) ListWorkoutPlans(ctx context.Context, userID uuid.UUID, filter storage.PlanFilter) ([]storage.WorkoutPlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.WorkoutPlanRecord{}
	for _, p := range s.workoutPlans[userID] {
		if filter.Period.Contains(p.Date) {
			p.Exercises = cloneBytes(p.Exercises)
			p.Recommendations = cloneStrings(p.Recommendations)
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return applyLimit(out, filter.Limit), nil
}

func (s *plansStorage) CountWorkoutPlans(ctx context.Context, userID uuid.UUID, period storage.Period) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.workoutPlans[userID] {
		if period.Contains(p.Date) {
			count++
		}
	}
	return count, nil
}
