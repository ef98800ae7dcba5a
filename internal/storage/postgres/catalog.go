package postgres

import (
	"context"
	"fmt"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogStorage struct {
	pool *pgxpool.Pool
}

func (s *catalogStorage) CreateExercise(ctx context.Context, e *storage.Exercise) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Instructions == nil {
		e.Instructions = []string{}
	}

	query := `
		INSERT INTO exercises (id, name, description, category, muscle_group, equipment, difficulty_level, instructions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		e.ID, e.Name, e.Description, e.Category, e.MuscleGroup, e.Equipment, e.Difficulty, e.Instructions,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

func (s *catalogStorage) ListExercises(ctx context.Context, filter storage.ExerciseFilter) ([]storage.Exercise, error) {
	w := &whereBuilder{}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.MuscleGroup != "" {
		w.add("muscle_group = ?", filter.MuscleGroup)
	}
	if filter.Equipment != "" {
		w.add("equipment = ?", filter.Equipment)
	}
	if filter.Difficulty != "" {
		w.add("difficulty_level = ?", filter.Difficulty)
	}
	w.search(filter.Search, "name", "description")

	query := `SELECT id, name, description, category, muscle_group, equipment, difficulty_level, instructions, created_at FROM exercises` +
		w.sql() + ` ORDER BY name ASC`
	query += w.limit(filter.Limit)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	exercises := []storage.Exercise{}
	for rows.Next() {
		var e storage.Exercise
		err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Category, &e.MuscleGroup, &e.Equipment, &e.Difficulty, &e.Instructions, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func (s *catalogStorage) CountExercises(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count exercises: %w", err)
	}
	return count, nil
}

func (s *catalogStorage) CreateFood(ctx context.Context, f *storage.Food) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}

	query := `
		INSERT INTO foods (id, name, description, category, calories_per_100g, protein_g, carbs_g, fat_g, fiber_g, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		f.ID, f.Name, f.Description, f.Category, f.CaloriesPer100g, f.ProteinG, f.CarbsG, f.FatG, f.FiberG,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create food: %w", err)
	}
	return nil
}

func (s *catalogStorage) ListFoods(ctx context.Context, filter storage.FoodFilter) ([]storage.Food, error) {
	w := &whereBuilder{}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	w.search(filter.Search, "name", "description")
	if filter.MinCalories != nil {
		w.add("calories_per_100g >= ?", *filter.MinCalories)
	}
	if filter.MaxCalories != nil {
		w.add("calories_per_100g <= ?", *filter.MaxCalories)
	}

	query := `SELECT id, name, description, category, calories_per_100g, protein_g, carbs_g, fat_g, fiber_g, created_at FROM foods` +
		w.sql() + ` ORDER BY name ASC`
	query += w.limit(filter.Limit)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	defer rows.Close()

	foods := []storage.Food{}
	for rows.Next() {
		var f storage.Food
		err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.Category, &f.CaloriesPer100g, &f.ProteinG, &f.CarbsG, &f.FatG, &f.FiberG, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func (s *catalogStorage) CountFoods(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM foods`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count foods: %w", err)
	}
	return count, nil
}
