package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
)

type catalogStorage struct {
	mu        sync.RWMutex
	exercises []storage.Exercise
	foods     []storage.Food
}

func newCatalogStorage() *catalogStorage {
	return &catalogStorage{}
}

func (s *catalogStorage) CreateExercise(ctx context.Context, exercise *storage.Exercise) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exercise.ID == uuid.Nil {
		exercise.ID = uuid.New()
	}
	exercise.CreatedAt = now()

	stored := *exercise
	stored.Instructions = cloneStrings(exercise.Instructions)
	s.exercises = append(s.exercises, stored)
	return nil
}

func (s *catalogStorage) ListExercises(ctx context.Context, filter storage.ExerciseFilter) ([]storage.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.Exercise{}
	for _, e := range s.exercises {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.MuscleGroup != "" && e.MuscleGroup != filter.MuscleGroup {
			continue
		}
		if filter.Equipment != "" && e.Equipment != filter.Equipment {
			continue
		}
		if filter.Difficulty != "" && e.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Search != "" && !containsFold(e.Name, filter.Search) && !containsFold(e.Description, filter.Search) {
			continue
		}
		e.Instructions = cloneStrings(e.Instructions)
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return applyLimit(out, filter.Limit), nil
}

func (s *catalogStorage) CountExercises(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exercises), nil
}

func (s *catalogStorage) CreateFood(ctx context.Context, food *storage.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if food.ID == uuid.Nil {
		food.ID = uuid.New()
	}
	food.CreatedAt = now()
	s.foods = append(s.foods, *food)
	return nil
}

func (s *catalogStorage) ListFoods(ctx context.Context, filter storage.FoodFilter) ([]storage.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.Food{}
	for _, f := range s.foods {
		if filter.Category != "" && f.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !containsFold(f.Name, filter.Search) && !containsFold(f.Description, filter.Search) {
			continue
		}
		if filter.MinCalories != nil && f.CaloriesPer100g < *filter.MinCalories {
			continue
		}
		if filter.MaxCalories != nil && f.CaloriesPer100g > *filter.MaxCalories {
			continue
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return applyLimit(out, filter.Limit), nil
}

func (s *catalogStorage) CountFoods(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.foods), nil
}
