// Package seeding grows the exercise and food catalog one generated entry at
// a time, on a schedule and on demand.
package seeding

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fitai/fitai/internal/ai"
	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	exerciseMaxTokens = 200
	foodMaxTokens     = 150
	exerciseCategory  = "strength"
)

var (
	MuscleGroups   = []string{"chest", "back", "shoulders", "arms", "legs", "core"}
	Equipment      = []string{"bodyweight", "dumbbells", "barbell", "resistance_bands", "kettlebell"}
	Difficulties   = []string{"beginner", "intermediate", "advanced"}
	FoodCategories = []string{"protein", "grains", "vegetables", "fruits", "dairy", "nuts_seeds"}
)

const exerciseSystemPrompt = `Generate exercise info in JSON. Only respond with valid JSON:
{
  "name": "Exercise Name",
  "description": "Brief description",
  "instructions": ["Step 1", "Step 2", "Step 3"]
}`

const foodSystemPrompt = `Generate food info in JSON. Only respond with valid JSON:
{
  "name": "Food Name",
  "description": "Brief description",
  "calories_per_100g": number,
  "protein_g": number,
  "carbs_g": number,
  "fat_g": number,
  "fiber_g": number
}`

// Result reports one generation attempt. Skipped is set when generation is
// not configured.
type Result struct {
	Kind    string     `json:"kind"`
	Success bool       `json:"success"`
	Skipped bool       `json:"skipped,omitempty"`
	ID      *uuid.UUID `json:"id,omitempty"`
	Name    string     `json:"name,omitempty"`
	Message string     `json:"message"`
}

type generatedExercise struct {
	Name         string   `json:"name" validate:"required,max=120"`
	Description  string   `json:"description" validate:"required,max=500"`
	Instructions []string `json:"instructions" validate:"required,min=1,max=12,dive,required"`
}

type generatedFood struct {
	Name            string   `json:"name" validate:"required,max=120"`
	Description     string   `json:"description" validate:"max=500"`
	CaloriesPer100g *float64 `json:"calories_per_100g" validate:"required,gte=0,lte=900"`
	ProteinG        *float64 `json:"protein_g" validate:"required,gte=0,lte=100"`
	CarbsG          *float64 `json:"carbs_g" validate:"required,gte=0,lte=100"`
	FatG            *float64 `json:"fat_g" validate:"required,gte=0,lte=100"`
	FiberG          *float64 `json:"fiber_g" validate:"omitempty,gte=0,lte=100"`
}

// Seeder asks the gateway for one catalog entry per call and stores it.
type Seeder struct {
	gateway ai.Gateway
	store   storage.CatalogStorage
	logger  *zap.Logger
	pick    func(n int) int
	timeout time.Duration
}

func NewSeeder(gateway ai.Gateway, store storage.CatalogStorage, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		gateway: gateway,
		store:   store,
		logger:  logger.Named("seeding"),
		pick:    rand.IntN,
		timeout: 2 * time.Minute,
	}
}

// GenerateExercise creates one exercise for a random muscle group, equipment
// and difficulty.
func (s *Seeder) GenerateExercise(ctx context.Context) Result {
	muscle := MuscleGroups[s.pick(len(MuscleGroups))]
	equipment := Equipment[s.pick(len(Equipment))]
	difficulty := Difficulties[s.pick(len(Difficulties))]

	var out generatedExercise
	err := s.generate(ctx, ai.Request{
		System:    exerciseSystemPrompt,
		User:      fmt.Sprintf("Create a %s %s exercise using %s. Make it practical and effective.", difficulty, muscle, equipment),
		MaxTokens: exerciseMaxTokens,
	}, &out)
	if err != nil {
		return s.failure("exercise", err)
	}

	exercise := &storage.Exercise{
		Name:         out.Name,
		Description:  out.Description,
		Category:     exerciseCategory,
		MuscleGroup:  muscle,
		Equipment:    equipment,
		Difficulty:   difficulty,
		Instructions: out.Instructions,
	}
	if err := s.store.CreateExercise(ctx, exercise); err != nil {
		return s.failure("exercise", fmt.Errorf("failed to insert exercise: %w", err))
	}

	s.logger.Info("exercise generated",
		zap.String("name", exercise.Name),
		zap.String("muscle_group", muscle),
		zap.String("equipment", equipment),
		zap.String("difficulty", difficulty),
	)
	return Result{Kind: "exercise", Success: true, ID: &exercise.ID, Name: exercise.Name, Message: "AI exercise generation completed"}
}

// GenerateFood creates one food for a random category with per-100g values.
func (s *Seeder) GenerateFood(ctx context.Context) Result {
	category := FoodCategories[s.pick(len(FoodCategories))]

	var out generatedFood
	err := s.generate(ctx, ai.Request{
		System:    foodSystemPrompt,
		User:      fmt.Sprintf("Create a %s food with realistic nutritional values per 100g.", category),
		MaxTokens: foodMaxTokens,
	}, &out)
	if err != nil {
		return s.failure("food", err)
	}

	food := &storage.Food{
		Name:            out.Name,
		Description:     out.Description,
		Category:        category,
		CaloriesPer100g: *out.CaloriesPer100g,
		ProteinG:        *out.ProteinG,
		CarbsG:          *out.CarbsG,
		FatG:            *out.FatG,
	}
	if out.FiberG != nil {
		food.FiberG = *out.FiberG
	}
	if err := s.store.CreateFood(ctx, food); err != nil {
		return s.failure("food", fmt.Errorf("failed to insert food: %w", err))
	}

	s.logger.Info("food generated", zap.String("name", food.Name), zap.String("category", category))
	return Result{Kind: "food", Success: true, ID: &food.ID, Name: food.Name, Message: "AI food generation completed"}
}

// PopulateIfEmpty generates one exercise and one food when the respective
// table has no rows.
func (s *Seeder) PopulateIfEmpty(ctx context.Context) []Result {
	var results []Result

	exercises, err := s.store.CountExercises(ctx)
	if err != nil {
		s.logger.Error("failed to count exercises", zap.Error(err))
	} else if exercises == 0 {
		s.logger.Info("no exercises found, generating initial entry")
		results = append(results, s.GenerateExercise(ctx))
	}

	foods, err := s.store.CountFoods(ctx)
	if err != nil {
		s.logger.Error("failed to count foods", zap.Error(err))
	} else if foods == 0 {
		s.logger.Info("no foods found, generating initial entry")
		results = append(results, s.GenerateFood(ctx))
	}

	return results
}

func (s *Seeder) generate(ctx context.Context, req ai.Request, dst interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.gateway.Complete(ctx, req)
	if err != nil {
		return err
	}
	if err := ai.DecodeJSON(content, dst); err != nil {
		return err
	}
	return nil
}

func (s *Seeder) failure(kind string, err error) Result {
	var genErr *ai.GenerationError
	if errors.As(err, &genErr) && genErr.Kind == ai.KindUnconfigured {
		s.logger.Info("generation not configured, skipping", zap.String("kind", kind))
		return Result{Kind: kind, Skipped: true, Message: "AI not configured"}
	}

	s.logger.Warn("catalog generation failed", zap.String("kind", kind), zap.Error(err))
	return Result{Kind: kind, Message: fmt.Sprintf("Error generating AI %s", kind)}
}
