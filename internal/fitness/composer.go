package fitness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitai/fitai/internal/ai"
	"go.uber.org/zap"
)

type MealPlanRequest struct {
	Profile        UserProfile
	Date           time.Time
	Preferences    map[string]string
	Restrictions   []string
	TargetCalories int
}

type WorkoutPlanRequest struct {
	Profile         UserProfile
	Date            time.Time
	Focus           string
	DurationMinutes int
	Equipment       []string
}

// Composer builds meal and workout plans. It asks the gateway first and falls
// back to the static catalog on any generation failure, so it never returns
// an error.
type Composer struct {
	gateway ai.Gateway
	logger  *zap.Logger
}

func NewComposer(gateway ai.Gateway, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{gateway: gateway, logger: logger}
}

func (c *Composer) ComposeMealPlan(ctx context.Context, req MealPlanRequest) MealPlan {
	plan, err := c.generateMealPlan(ctx, req)
	if err != nil {
		logGenerationFailure(c.logger, "meal_plan", err)
		return fallbackMealPlan()
	}
	return plan
}

func (c *Composer) ComposeWorkoutPlan(ctx context.Context, req WorkoutPlanRequest) WorkoutPlan {
	plan, err := c.generateWorkoutPlan(ctx, req)
	if err != nil {
		logGenerationFailure(c.logger, "workout_plan", err)
		return fallbackWorkoutPlan()
	}
	return plan
}

type generatedFood struct {
	Name     string   `json:"name" validate:"required"`
	Calories *float64 `json:"calories" validate:"required,gte=0"`
	Protein  *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs    *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat      *float64 `json:"fat" validate:"omitempty,gte=0"`
}

type generatedMeal struct {
	Name  string          `json:"name" validate:"required"`
	Foods []generatedFood `json:"foods" validate:"required,min=1,dive"`
}

type generatedMealPlan struct {
	Meals *struct {
		Breakfast *generatedMeal  `json:"breakfast" validate:"required"`
		Lunch     *generatedMeal  `json:"lunch" validate:"required"`
		Dinner    *generatedMeal  `json:"dinner" validate:"required"`
		Snacks    []generatedFood `json:"snacks" validate:"dive"`
	} `json:"meals" validate:"required"`
	Recommendations []string `json:"recommendations" validate:"dive,required"`
}

func (c *Composer) generateMealPlan(ctx context.Context, req MealPlanRequest) (MealPlan, error) {
	content, err := c.gateway.Complete(ctx, ai.Request{
		System: mealPlanSystemPrompt,
		User:   mealPlanUserPrompt(req),
	})
	if err != nil {
		return MealPlan{}, err
	}

	var out generatedMealPlan
	if err := ai.DecodeJSON(content, &out); err != nil {
		return MealPlan{}, err
	}

	// Totals supplied by the model are ignored and recomputed from items.
	meals := Meals{
		Breakfast: out.Meals.Breakfast.toMeal(),
		Lunch:     out.Meals.Lunch.toMeal(),
		Dinner:    out.Meals.Dinner.toMeal(),
		Snacks:    toNutrientItems(out.Meals.Snacks),
	}
	return MealPlan{
		Meals:           meals,
		TotalCalories:   meals.totalCalories(),
		Recommendations: nonNil(out.Recommendations),
		Source:          SourceGenerated,
	}, nil
}

func (m *generatedMeal) toMeal() Meal {
	return newMeal(m.Name, toNutrientItems(m.Foods))
}

func toNutrientItems(foods []generatedFood) []NutrientItem {
	items := make([]NutrientItem, len(foods))
	for i, f := range foods {
		items[i] = NutrientItem{
			Name:     f.Name,
			Calories: *f.Calories,
			ProteinG: deref(f.Protein),
			CarbsG:   deref(f.Carbs),
			FatG:     deref(f.Fat),
		}
	}
	return items
}

type generatedExercise struct {
	Name         string   `json:"name" validate:"required"`
	Sets         *int     `json:"sets" validate:"required,gte=1"`
	Reps         int      `json:"reps" validate:"gte=0,required_without=Duration"`
	Duration     int      `json:"duration" validate:"gte=0"`
	Rest         int      `json:"rest" validate:"gte=0"`
	Instructions []string `json:"instructions" validate:"dive,required"`
}

type generatedWorkoutPlan struct {
	Exercises       []generatedExercise `json:"exercises" validate:"required,min=1,dive"`
	Duration        *int                `json:"duration" validate:"required,gt=0"`
	Focus           string              `json:"focus" validate:"required"`
	Difficulty      string              `json:"difficulty" validate:"required"`
	Recommendations []string            `json:"recommendations" validate:"dive,required"`
}

func (c *Composer) generateWorkoutPlan(ctx context.Context, req WorkoutPlanRequest) (WorkoutPlan, error) {
	content, err := c.gateway.Complete(ctx, ai.Request{
		System: workoutPlanSystemPrompt,
		User:   workoutPlanUserPrompt(req),
	})
	if err != nil {
		return WorkoutPlan{}, err
	}

	var out generatedWorkoutPlan
	if err := ai.DecodeJSON(content, &out); err != nil {
		return WorkoutPlan{}, err
	}

	difficulty := strings.ToLower(strings.TrimSpace(out.Difficulty))
	if !difficulties[difficulty] {
		return WorkoutPlan{}, ai.ParseFailure(fmt.Errorf("unknown difficulty %q", out.Difficulty))
	}

	exercises := make([]WorkoutExercise, len(out.Exercises))
	for i, e := range out.Exercises {
		exercises[i] = WorkoutExercise{
			Name:            e.Name,
			Sets:            *e.Sets,
			Reps:            e.Reps,
			DurationSeconds: e.Duration,
			RestSeconds:     e.Rest,
			Instructions:    nonNil(e.Instructions),
		}
	}

	return WorkoutPlan{
		Exercises:       exercises,
		DurationMinutes: *out.Duration,
		Focus:           out.Focus,
		Difficulty:      difficulty,
		Recommendations: nonNil(out.Recommendations),
		Source:          SourceGenerated,
	}, nil
}

func logGenerationFailure(logger *zap.Logger, what string, err error) {
	kind := ai.KindOf(err)
	if kind == ai.KindUnconfigured {
		logger.Debug("generation unavailable, using fallback", zap.String("what", what))
		return
	}
	logger.Warn("generation failed, using fallback",
		zap.String("what", what),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
