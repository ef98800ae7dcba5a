package fitness

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fitai/fitai/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

var testProfile = UserProfile{
	Name:          "Ana",
	Age:           25,
	WeightKg:      70,
	HeightCm:      175,
	Goal:          GoalLoseWeight,
	ActivityLevel: ActivityModerate,
}

var testDate = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

const generatedMealPlanJSON = `{
  "meals": {
    "breakfast": {"name": "Eggs", "foods": [{"name": "Egg", "calories": 150, "protein": 12, "carbs": 1, "fat": 10}, {"name": "Toast", "calories": 80, "protein": 3, "carbs": 15, "fat": 1}], "totalCalories": 999},
    "lunch": {"name": "Bowl", "foods": [{"name": "Rice", "calories": 300, "protein": 6, "carbs": 60, "fat": 2}], "totalCalories": 300},
    "dinner": {"name": "Fish", "foods": [{"name": "Cod", "calories": 200, "protein": 40, "carbs": 0, "fat": 2}], "totalCalories": 200},
    "snacks": [{"name": "Nuts", "calories": 170, "protein": 6, "carbs": 6, "fat": 15}]
  },
  "totalCalories": 5000,
  "recommendations": ["Eat vegetables"]
}`

const generatedWorkoutJSON = "```json\n" + `{
  "exercises": [
    {"name": "Lunges", "sets": 3, "reps": 12, "duration": 0, "rest": 45, "instructions": ["Step forward"]},
    {"name": "Wall sit", "sets": 2, "reps": 0, "duration": 40, "rest": 30, "instructions": ["Hold"]}
  ],
  "duration": 30,
  "focus": "legs",
  "difficulty": "Beginner",
  "recommendations": ["Hydrate"]
}` + "\n```"

func mealRequest() MealPlanRequest {
	return MealPlanRequest{
		Profile:        testProfile,
		Date:           testDate,
		Preferences:    map[string]string{"cuisine": "mediterranean", "budget": "low"},
		Restrictions:   []string{"vegetarian", "nut-free"},
		TargetCalories: 2094,
	}
}

func workoutRequest() WorkoutPlanRequest {
	return WorkoutPlanRequest{
		Profile:         testProfile,
		Date:            testDate,
		Focus:           "legs",
		DurationMinutes: 30,
		Equipment:       []string{"bodyweight", "dumbbells"},
	}
}

func assertMealPlanTotals(t *testing.T, plan MealPlan) {
	t.Helper()
	var sum float64
	for _, meal := range []Meal{plan.Meals.Breakfast, plan.Meals.Lunch, plan.Meals.Dinner} {
		assert.InDelta(t, sumCalories(meal.Items), meal.TotalCalories, 1)
		sum += sumCalories(meal.Items)
	}
	sum += sumCalories(plan.Meals.Snacks)
	assert.InDelta(t, sum, plan.TotalCalories, 1)
}

func TestComposeMealPlanGeneratedRecomputesTotals(t *testing.T) {
	gw := ai.NewStubGateway(ai.StubResponse{Content: generatedMealPlanJSON})
	c := NewComposer(gw, zap.NewNop())

	plan := c.ComposeMealPlan(context.Background(), mealRequest())

	assert.Equal(t, SourceGenerated, plan.Source)
	assert.Equal(t, "Eggs", plan.Meals.Breakfast.Label)
	assert.Equal(t, 230.0, plan.Meals.Breakfast.TotalCalories)
	assert.Equal(t, 900.0, plan.TotalCalories)
	assert.Equal(t, []string{"Eat vegetables"}, plan.Recommendations)
	assertMealPlanTotals(t, plan)

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].System, "expert nutritionist")
	assert.Contains(t, calls[0].User, "Generate a meal plan for Mon Mar 04 2024")
	assert.Contains(t, calls[0].User, "- User: Ana, 25 years old, 70kg, 175cm")
	assert.Contains(t, calls[0].User, "- Target calories: 2094")
	assert.Contains(t, calls[0].User, "- Restrictions: vegetarian, nut-free")
	assert.Contains(t, calls[0].User, "- Preferences: budget: low, cuisine: mediterranean")
	assert.Contains(t, calls[0].User, "close to 2094")
}

func TestComposeMealPlanFallback(t *testing.T) {
	failures := map[string]ai.StubResponse{
		"transport":         {Err: ai.TransportFailure(errors.New("connection reset"))},
		"not json":          {Content: "Here is a lovely plan for you!"},
		"missing dinner":    {Content: `{"meals":{"breakfast":{"name":"a","foods":[{"name":"x","calories":1}]},"lunch":{"name":"b","foods":[{"name":"y","calories":1}]}}}`},
		"negative calories": {Content: strings.Replace(generatedMealPlanJSON, `"calories": 300`, `"calories": -300`, 1)},
		"empty foods":       {Content: strings.Replace(generatedMealPlanJSON, `"foods": [{"name": "Rice", "calories": 300, "protein": 6, "carbs": 60, "fat": 2}]`, `"foods": []`, 1)},
		"empty content":     {Content: ""},
	}

	for name, resp := range failures {
		t.Run(name, func(t *testing.T) {
			c := NewComposer(ai.NewStubGateway(resp), zap.NewNop())
			plan := c.ComposeMealPlan(context.Background(), mealRequest())

			assert.Equal(t, SourceFallback, plan.Source)
			assert.Equal(t, 1533.0, plan.TotalCalories)
			assertMealPlanTotals(t, plan)
		})
	}

	t.Run("unconfigured", func(t *testing.T) {
		c := NewComposer(ai.NewStubGateway(), zap.NewNop())
		plan := c.ComposeMealPlan(context.Background(), mealRequest())
		assert.Equal(t, SourceFallback, plan.Source)
	})
}

func TestFallbackMealPlanIsDeterministic(t *testing.T) {
	c := NewComposer(ai.NewStubGateway(), zap.NewNop())

	first := c.ComposeMealPlan(context.Background(), mealRequest())
	other := mealRequest()
	other.TargetCalories = 3500
	other.Restrictions = nil
	second := c.ComposeMealPlan(context.Background(), other)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	assert.Equal(t, 419.0, first.Meals.Breakfast.TotalCalories)
	assert.Equal(t, 436.0, first.Meals.Lunch.TotalCalories)
	assert.InDelta(t, 453.0, first.Meals.Dinner.TotalCalories, 1e-9)
	assert.Len(t, first.Meals.Snacks, 2)
	assert.Len(t, first.Recommendations, 4)

	// Mutating a returned plan must not leak into the next one.
	first.Meals.Snacks[0].Calories = 0
	third := c.ComposeMealPlan(context.Background(), mealRequest())
	assert.Equal(t, 130.0, third.Meals.Snacks[0].Calories)
}

func TestComposeWorkoutPlanGenerated(t *testing.T) {
	gw := ai.NewStubGateway(ai.StubResponse{Content: generatedWorkoutJSON})
	c := NewComposer(gw, zap.NewNop())

	plan := c.ComposeWorkoutPlan(context.Background(), workoutRequest())

	assert.Equal(t, SourceGenerated, plan.Source)
	require.Len(t, plan.Exercises, 2)
	assert.Equal(t, 40, plan.Exercises[1].DurationSeconds)
	assert.Equal(t, 30, plan.DurationMinutes)
	assert.Equal(t, "beginner", plan.Difficulty)

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].System, "expert personal trainer")
	assert.Contains(t, calls[0].User, "- Focus: legs")
	assert.Contains(t, calls[0].User, "- Duration: 30 minutes")
	assert.Contains(t, calls[0].User, "- Available equipment: bodyweight, dumbbells")
	assert.Contains(t, calls[0].User, "warm-up and cool-down")
}

func TestComposeWorkoutPlanFallback(t *testing.T) {
	failures := map[string]ai.StubResponse{
		"parse error":         {Err: ai.ParseFailure(errors.New("x"))},
		"no reps or duration": {Content: strings.Replace(generatedWorkoutJSON, `"duration": 40`, `"duration": 0`, 1)},
		"zero sets":           {Content: strings.Replace(generatedWorkoutJSON, `"sets": 2`, `"sets": 0`, 1)},
		"unknown difficulty":  {Content: strings.Replace(generatedWorkoutJSON, `"Beginner"`, `"legendary"`, 1)},
		"missing duration":    {Content: strings.Replace(generatedWorkoutJSON, `"duration": 30,`, ``, 1)},
		"no exercises":        {Content: `{"exercises":[],"duration":30,"focus":"legs","difficulty":"beginner"}`},
	}

	for name, resp := range failures {
		t.Run(name, func(t *testing.T) {
			c := NewComposer(ai.NewStubGateway(resp), zap.NewNop())
			plan := c.ComposeWorkoutPlan(context.Background(), workoutRequest())

			assert.Equal(t, SourceFallback, plan.Source)
			require.Len(t, plan.Exercises, 3)
			assert.Equal(t, "Squats", plan.Exercises[0].Name)
			assert.Equal(t, "Push-ups", plan.Exercises[1].Name)
			assert.Equal(t, "Plank", plan.Exercises[2].Name)
			assert.Equal(t, 45, plan.DurationMinutes)
			assert.Equal(t, "intermediate", plan.Difficulty)
			assert.Equal(t, "full_body", plan.Focus)
			for _, e := range plan.Exercises {
				assert.GreaterOrEqual(t, e.Sets, 1)
				assert.True(t, e.Reps > 0 || e.DurationSeconds > 0)
			}
		})
	}
}

func TestGenerationFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	NewComposer(ai.NewStubGateway(), logger).ComposeMealPlan(context.Background(), mealRequest())
	NewComposer(ai.NewStubGateway(ai.StubResponse{Content: "nope"}), logger).ComposeWorkoutPlan(context.Background(), workoutRequest())

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, string(ai.KindParse), entries[1].ContextMap()["kind"])
}
