package fitness

import "math"

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityVeryActive: 1.725,
	ActivityVery:       1.725,
	ActivityExtreme:    1.9,
}

var goalAdjustments = map[Goal]float64{
	GoalLoseWeight: -500,
	GoalGainMuscle: 300,
}

// EstimateCalories returns the daily calorie target from the Mifflin-St Jeor
// BMR (male constant), an activity multiplier and a flat goal adjustment.
// ok is false when weight, height or age is not positive. The result has no
// lower bound.
func EstimateCalories(p UserProfile) (kcal int, ok bool) {
	if p.WeightKg <= 0 || p.HeightCm <= 0 || p.Age <= 0 {
		return 0, false
	}

	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age) + 5
	return int(math.Round(bmr*ActivityMultiplier(p.ActivityLevel) + goalAdjustments[p.Goal])), true
}

// ActivityMultiplier falls back to the sedentary factor for unknown levels.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[ActivitySedentary]
}
