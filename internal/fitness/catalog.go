package fitness

// Static content used when generation is unavailable. Every call builds fresh
// slices so callers may not alias the catalog.

func fallbackMealPlan() MealPlan {
	meals := Meals{
		Breakfast: newMeal("Balanced Breakfast", []NutrientItem{
			{Name: "Oatmeal", Calories: 150, ProteinG: 6, CarbsG: 27, FatG: 3},
			{Name: "Banana", Calories: 105, ProteinG: 1, CarbsG: 27, FatG: 0},
			{Name: "Almonds", Calories: 164, ProteinG: 6, CarbsG: 6, FatG: 14},
		}),
		Lunch: newMeal("Protein Lunch", []NutrientItem{
			{Name: "Chicken Breast", Calories: 165, ProteinG: 31, CarbsG: 0, FatG: 3.6},
			{Name: "Brown Rice", Calories: 216, ProteinG: 4.5, CarbsG: 45, FatG: 1.8},
			{Name: "Broccoli", Calories: 55, ProteinG: 3.7, CarbsG: 11, FatG: 0.6},
		}),
		Dinner: newMeal("Light Dinner", []NutrientItem{
			{Name: "Salmon", Calories: 208, ProteinG: 25, CarbsG: 0, FatG: 12},
			{Name: "Quinoa", Calories: 222, ProteinG: 8, CarbsG: 39, FatG: 3.6},
			{Name: "Spinach", Calories: 23, ProteinG: 2.9, CarbsG: 3.6, FatG: 0.4},
		}),
		Snacks: []NutrientItem{
			{Name: "Greek Yogurt", Calories: 130, ProteinG: 20, CarbsG: 9, FatG: 0.5},
			{Name: "Apple", Calories: 95, ProteinG: 0.5, CarbsG: 25, FatG: 0.3},
		},
	}

	return MealPlan{
		Meals:         meals,
		TotalCalories: meals.totalCalories(),
		Recommendations: []string{
			"Drink at least 8 glasses of water per day",
			"Eat slowly and chew well",
			"Include protein in every meal",
			"Prioritize whole foods over processed ones",
		},
		Source: SourceFallback,
	}
}

func fallbackWorkoutPlan() WorkoutPlan {
	return WorkoutPlan{
		Exercises: []WorkoutExercise{
			{
				Name: "Squats", Sets: 3, Reps: 12, RestSeconds: 60,
				Instructions: []string{
					"Stand with feet shoulder-width apart",
					"Lower down as if sitting back",
					"Keep chest up and knees aligned",
					"Return to starting position",
				},
			},
			{
				Name: "Push-ups", Sets: 3, Reps: 10, RestSeconds: 60,
				Instructions: []string{
					"Get into plank position",
					"Lower body until chest touches the ground",
					"Push up to starting position",
					"Keep body straight throughout the movement",
				},
			},
			{
				Name: "Plank", Sets: 3, Reps: 1, DurationSeconds: 30, RestSeconds: 45,
				Instructions: []string{
					"Get into plank position",
					"Keep body straight from head to toes",
					"Hold position for 30 seconds",
					"Breathe normally during the exercise",
				},
			},
		},
		DurationMinutes: 45,
		Focus:           "full_body",
		Difficulty:      "intermediate",
		Recommendations: []string{
			"Warm up for 5-10 minutes before workout",
			"Maintain proper form in all exercises",
			"Rest between sets as needed",
			"Stretch after the workout",
		},
		Source: SourceFallback,
	}
}

func fallbackRecommendations() []string {
	return []string{
		"Drink at least 8 glasses of water per day",
		"Eat 5-7 servings of fruits and vegetables daily",
		"Maintain a consistent sleep schedule",
		"Engage in regular physical activity",
		"Eat a balanced diet",
	}
}
