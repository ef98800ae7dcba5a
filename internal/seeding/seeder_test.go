package seeding

import (
	"context"
	"errors"
	"testing"

	"github.com/fitai/fitai/internal/ai"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exerciseJSON = "```json\n" + `{"name": "Push-up", "description": "Bodyweight press", "instructions": ["Plank", "Lower", "Press"]}` + "\n```"

const foodJSON = `{"name": "Lentils", "description": "Cooked lentils", "calories_per_100g": 116, "protein_g": 9, "carbs_g": 20, "fat_g": 0.4, "fiber_g": 8}`

func newTestSeeder(gateway ai.Gateway) (*Seeder, *memory.MemoryStorage) {
	store := memory.New()
	s := NewSeeder(gateway, store, nil)
	s.pick = func(int) int { return 0 }
	return s, store
}

func TestGenerateExercise(t *testing.T) {
	gateway := ai.NewStubGateway(ai.StubResponse{Content: exerciseJSON})
	s, store := newTestSeeder(gateway)

	result := s.GenerateExercise(context.Background())

	require.True(t, result.Success, result.Message)
	require.NotNil(t, result.ID)
	assert.Equal(t, "Push-up", result.Name)

	calls := gateway.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, exerciseMaxTokens, calls[0].MaxTokens)
	assert.Contains(t, calls[0].User, "beginner chest exercise using bodyweight")

	stored, err := store.ListExercises(context.Background(), storage.ExerciseFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "strength", stored[0].Category)
	assert.Equal(t, "chest", stored[0].MuscleGroup)
	assert.Equal(t, "bodyweight", stored[0].Equipment)
	assert.Equal(t, "beginner", stored[0].Difficulty)
	assert.Equal(t, []string{"Plank", "Lower", "Press"}, stored[0].Instructions)
}

func TestGenerateFood(t *testing.T) {
	gateway := ai.NewStubGateway(ai.StubResponse{Content: foodJSON})
	s, store := newTestSeeder(gateway)

	result := s.GenerateFood(context.Background())

	require.True(t, result.Success, result.Message)
	assert.Equal(t, foodMaxTokens, gateway.Calls()[0].MaxTokens)

	stored, err := store.ListFoods(context.Background(), storage.FoodFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "protein", stored[0].Category)
	assert.Equal(t, 116.0, stored[0].CaloriesPer100g)
	assert.Equal(t, 8.0, stored[0].FiberG)
}

func TestGenerateSkipsWhenUnconfigured(t *testing.T) {
	s, store := newTestSeeder(ai.NewStubGateway())

	exercise := s.GenerateExercise(context.Background())
	food := s.GenerateFood(context.Background())

	for _, r := range []Result{exercise, food} {
		assert.False(t, r.Success)
		assert.True(t, r.Skipped)
		assert.Equal(t, "AI not configured", r.Message)
	}

	n, err := store.CountExercises(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name     string
		response ai.StubResponse
	}{
		{"invalid json", ai.StubResponse{Content: "not json at all"}},
		{"missing macros", ai.StubResponse{Content: `{"name": "Mystery"}`}},
		{"transport", ai.StubResponse{Err: ai.TransportFailure(errors.New("connection reset"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newTestSeeder(ai.NewStubGateway(tt.response))

			result := s.GenerateFood(context.Background())

			assert.False(t, result.Success)
			assert.False(t, result.Skipped)
			assert.Equal(t, "Error generating AI food", result.Message)

			n, err := store.CountFoods(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestPopulateIfEmpty(t *testing.T) {
	gateway := ai.NewStubGateway(
		ai.StubResponse{Content: exerciseJSON},
		ai.StubResponse{Content: foodJSON},
	)
	s, _ := newTestSeeder(gateway)

	results := s.PopulateIfEmpty(context.Background())
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Success)

	// Both tables now have rows, so nothing else is generated.
	assert.Empty(t, s.PopulateIfEmpty(context.Background()))
	assert.Len(t, gateway.Calls(), 2)
}

func TestNewSchedulerRejectsInvalidSpec(t *testing.T) {
	s, _ := newTestSeeder(ai.NewStubGateway())

	_, err := NewScheduler(s, Schedule{Exercise: "not a cron", Food: "0 3 * * *"}, nil)
	assert.Error(t, err)

	sched, err := NewScheduler(s, Schedule{Exercise: "0 2 * * *", Food: "0 3 * * *"}, nil)
	require.NoError(t, err)
	sched.Start()
	defer sched.Stop(context.Background())

	next := sched.NextRuns()
	require.Contains(t, next, "exercise")
	require.Contains(t, next, "food")
	assert.Equal(t, 2, next["exercise"].Hour())
	assert.Equal(t, 3, next["food"].Hour())
}
