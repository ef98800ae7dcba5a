package postgres

import (
	"context"
	"fmt"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type plansStorage struct {
	pool *pgxpool.Pool
}

func (s *plansStorage) CreateMealPlan(ctx context.Context, plan *storage.MealPlanRecord) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if plan.Recommendations == nil {
		plan.Recommendations = []string{}
	}

	query := `
		INSERT INTO meal_plans (id, user_id, date, meals, total_calories, recommendations, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		plan.ID,
		plan.UserID,
		plan.Date,
		plan.Meals,
		plan.TotalCalories,
		plan.Recommendations,
		plan.Source,
	).Scan(&plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meal plan: %w", err)
	}
	return nil
}

func (s *plansStorage) ListMealPlans(ctx context.Context, userID uuid.UUID, filter storage.PlanFilter) ([]storage.MealPlanRecord, error) {
	w := &whereBuilder{}
	w.add("user_id = ?", userID)
	w.period("date", filter.Period)

	query := `SELECT id, user_id, date, meals, total_calories, recommendations, source, created_at FROM meal_plans` +
		w.sql() + ` ORDER BY date DESC, created_at DESC`
	query += w.limit(filter.Limit)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	plans := []storage.MealPlanRecord{}
	for rows.Next() {
		var p storage.MealPlanRecord
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Date,
			&p.Meals,
			&p.TotalCalories,
			&p.Recommendations,
			&p.Source,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *plansStorage) CountMealPlans(ctx context.Context, userID uuid.UUID, period storage.Period) (int, error) {
	return s.count(ctx, "meal_plans", userID, period)
}

func (s *plansStorage) CreateWorkoutPlan(ctx context.Context, plan *storage.WorkoutPlanRecord) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if plan.Recommendations == nil {
		plan.Recommendations = []string{}
	}

	query := `
		INSERT INTO workout_plans (id, user_id, date, exercises, duration_minutes, focus, difficulty, recommendations, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		plan.ID,
		plan.UserID,
		plan.Date,
		plan.Exercises,
		plan.DurationMinutes,
		plan.Focus,
		plan.Difficulty,
		plan.Recommendations,
		plan.Source,
	).Scan(&plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create workout plan: %w", err)
	}
	return nil
}

func (s *plansStorage) ListWorkoutPlans(ctx context.Context, userID uuid.UUID, filter storage.PlanFilter) ([]storage.WorkoutPlanRecord, error) {
	w := &whereBuilder{}
	w.add("user_id = ?", userID)
	w.period("date", filter.Period)

	query := `SELECT id, user_id, date, exercises, duration_minutes, focus, difficulty, recommendations, source, created_at FROM workout_plans` +
		w.sql() + ` ORDER BY date DESC, created_at DESC`
	query += w.limit(filter.Limit)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout plans: %w", err)
	}
	defer rows.Close()

	plans := []storage.WorkoutPlanRecord{}
	for rows.Next() {
		var p storage.WorkoutPlanRecord
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Date,
			&p.Exercises,
			&p.DurationMinutes,
			&p.Focus,
			&p.Difficulty,
			&p.Recommendations,
			&p.Source,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *plansStorage) CountWorkoutPlans(ctx context.Context, userID uuid.UUID, period storage.Period) (int, error) {
	return s.count(ctx, "workout_plans", userID, period)
}

func (s *plansStorage) count(ctx context.Context, table string, userID uuid.UUID, period storage.Period) (int, error) {
	w := &whereBuilder{}
	w.add("user_id = ?", userID)
	w.period("date", period)

	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table+w.sql(), w.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
