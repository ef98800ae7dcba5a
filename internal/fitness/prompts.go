package fitness

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// dateLayout matches the "Mon Jan 02 2006" style used in the prompts.
const dateLayout = "Mon Jan 02 2006"

const mealPlanSystemPrompt = `You are an expert nutritionist. Generate healthy and personalized meal plans.
Respond ONLY with a valid JSON that contains:
{
  "meals": {
    "breakfast": {"name": "Name", "foods": [{"name": "Food", "calories": X, "protein": X, "carbs": X, "fat": X}], "totalCalories": X},
    "lunch": {...},
    "dinner": {...},
    "snacks": [{"name": "Food", "calories": X, "protein": X, "carbs": X, "fat": X}]
  },
  "totalCalories": X,
  "recommendations": ["Recommendation 1", "Recommendation 2", "Recommendation 3"]
}`

const workoutPlanSystemPrompt = `You are an expert personal trainer. Generate personalized workout plans.
Respond ONLY with a valid JSON that contains:
{
  "exercises": [
    {
      "name": "Exercise name",
      "sets": X,
      "reps": X,
      "duration": X,
      "rest": X,
      "instructions": ["Instruction 1", "Instruction 2"]
    }
  ],
  "duration": X,
  "focus": "workout_type",
  "difficulty": "beginner/intermediate/advanced",
  "recommendations": ["Recommendation 1", "Recommendation 2", "Recommendation 3"]
}`

const recommendationsSystemPrompt = `You are an expert in fitness and nutrition. Generate personalized recommendations.
Respond ONLY with a valid JSON that contains:
{
  "recommendations": ["Recommendation 1", "Recommendation 2", "Recommendation 3", "Recommendation 4", "Recommendation 5"],
  "goal": "user_goal",
  "activityLevel": "activity_level",
  "estimatedCalories": X
}`

func mealPlanUserPrompt(req MealPlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a meal plan for %s with these characteristics:\n", req.Date.Format(dateLayout))
	writeUserLines(&b, req.Profile)
	fmt.Fprintf(&b, "- Target calories: %d\n", req.TargetCalories)
	fmt.Fprintf(&b, "- Restrictions: %s\n", joinOrNone(req.Restrictions))
	fmt.Fprintf(&b, "- Preferences: %s\n\n", preferencesText(req.Preferences))
	fmt.Fprintf(&b, "Make sure the total calories are close to %d and that it's healthy and varied.", req.TargetCalories)
	return b.String()
}

func workoutPlanUserPrompt(req WorkoutPlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a workout plan for %s with these characteristics:\n", req.Date.Format(dateLayout))
	writeUserLines(&b, req.Profile)
	fmt.Fprintf(&b, "- Focus: %s\n", req.Focus)
	fmt.Fprintf(&b, "- Duration: %d minutes\n", req.DurationMinutes)
	fmt.Fprintf(&b, "- Available equipment: %s\n\n", strings.Join(req.Equipment, ", "))
	b.WriteString("Make sure it's appropriate for the user's level and includes warm-up and cool-down.")
	return b.String()
}

func recommendationsUserPrompt(p UserProfile) string {
	var b strings.Builder
	b.WriteString("Generate fitness recommendations for a user with these characteristics:\n")
	fmt.Fprintf(&b, "- Age: %s\n", intOrUnknown(p.Age))
	fmt.Fprintf(&b, "- Weight: %s kg\n", floatOrUnknown(p.WeightKg))
	fmt.Fprintf(&b, "- Height: %s cm\n", floatOrUnknown(p.HeightCm))
	fmt.Fprintf(&b, "- Goal: %s\n", goalOrDefault(p.Goal))
	fmt.Fprintf(&b, "- Activity level: %s\n\n", activityOrDefault(p.ActivityLevel))
	b.WriteString("Generate 5 specific and practical recommendations that are relevant for this profile.")
	return b.String()
}

func writeUserLines(b *strings.Builder, p UserProfile) {
	fmt.Fprintf(b, "- User: %s, %d years old, %skg, %scm\n", p.Name, p.Age, formatFloat(p.WeightKg), formatFloat(p.HeightCm))
	fmt.Fprintf(b, "- Goal: %s\n", p.Goal)
	fmt.Fprintf(b, "- Activity level: %s\n", p.ActivityLevel)
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

// preferencesText renders preferences as sorted "k: v" pairs so prompts are
// stable across calls.
func preferencesText(prefs map[string]string) string {
	if len(prefs) == 0 {
		return "None"
	}
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + ": " + prefs[k]
	}
	return strings.Join(pairs, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intOrUnknown(v int) string {
	if v <= 0 {
		return "Not specified"
	}
	return strconv.Itoa(v)
}

func floatOrUnknown(v float64) string {
	if v <= 0 {
		return "Not specified"
	}
	return formatFloat(v)
}

func goalOrDefault(g Goal) string {
	if g == "" {
		return "fitness"
	}
	return string(g)
}

func activityOrDefault(a ActivityLevel) string {
	if a == "" {
		return string(ActivityModerate)
	}
	return string(a)
}
