// Package fitness holds the calorie estimator and the generate-or-fallback
// composition of meal plans, workout plans and recommendations.
package fitness

type Goal string

const (
	GoalLoseWeight     Goal = "lose_weight"
	GoalGainMuscle     Goal = "gain_muscle"
	GoalMaintain       Goal = "maintain"
	GoalImproveFitness Goal = "improve_fitness"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityVeryActive ActivityLevel = "very_active"
	ActivityExtreme    ActivityLevel = "extreme"

	// ActivityVery is the legacy spelling of very_active still present in
	// older user records.
	ActivityVery ActivityLevel = "very"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalGainMuscle, GoalMaintain, GoalImproveFitness:
		return true
	}
	return false
}

// Valid reports whether a is one of the canonical levels. The legacy
// ActivityVery spelling is not canonical.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityVeryActive, ActivityExtreme:
		return true
	}
	return false
}

// Source tells whether a composed value came from generation or from the
// static catalog.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// UserProfile is the read-only input to estimation and composition. Zero
// numeric fields mean "unknown".
type UserProfile struct {
	Name                string
	Age                 int
	WeightKg            float64
	HeightCm            float64
	Goal                Goal
	ActivityLevel       ActivityLevel
	DietaryRestrictions []string
}

type NutrientItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein"`
	CarbsG   float64 `json:"carbs"`
	FatG     float64 `json:"fat"`
}

// Meal.TotalCalories is always the sum of its item calories.
type Meal struct {
	Label         string         `json:"name"`
	Items         []NutrientItem `json:"foods"`
	TotalCalories float64        `json:"totalCalories"`
}

type Meals struct {
	Breakfast Meal           `json:"breakfast"`
	Lunch     Meal           `json:"lunch"`
	Dinner    Meal           `json:"dinner"`
	Snacks    []NutrientItem `json:"snacks"`
}

type MealPlan struct {
	Meals           Meals    `json:"meals"`
	TotalCalories   float64  `json:"totalCalories"`
	Recommendations []string `json:"recommendations"`
	Source          string   `json:"source"`
}

type WorkoutExercise struct {
	Name            string   `json:"name"`
	Sets            int      `json:"sets"`
	Reps            int      `json:"reps"`
	DurationSeconds int      `json:"duration"`
	RestSeconds     int      `json:"rest"`
	Instructions    []string `json:"instructions"`
}

type WorkoutPlan struct {
	Exercises       []WorkoutExercise `json:"exercises"`
	DurationMinutes int               `json:"duration"`
	Focus           string            `json:"focus"`
	Difficulty      string            `json:"difficulty"`
	Recommendations []string          `json:"recommendations"`
	Source          string            `json:"source"`
}

type RecommendationSet struct {
	Recommendations   []string `json:"recommendations"`
	Goal              string   `json:"goal"`
	ActivityLevel     string   `json:"activityLevel"`
	EstimatedCalories int      `json:"estimatedCalories"`
	Source            string   `json:"source"`
}

var difficulties = map[string]bool{"beginner": true, "intermediate": true, "advanced": true}

func newMeal(label string, items []NutrientItem) Meal {
	return Meal{Label: label, Items: items, TotalCalories: sumCalories(items)}
}

func sumCalories(items []NutrientItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Calories
	}
	return total
}

// totalCalories recomputes the plan total from its meals and snacks.
func (m Meals) totalCalories() float64 {
	return m.Breakfast.TotalCalories + m.Lunch.TotalCalories + m.Dinner.TotalCalories + sumCalories(m.Snacks)
}
