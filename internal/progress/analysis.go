package progress

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/validation"
)

const (
	consistencyThreshold = 70
	lowCalorieThreshold  = 1200
	highCalorieThreshold = 3000
)

// Analysis summarizes a user's logs and plans over a period.
type Analysis struct {
	Period          PeriodLabel `json:"period"`
	Summary         Summary     `json:"summary"`
	Trends          Trends      `json:"trends"`
	Recommendations []string    `json:"recommendations"`
}

// PeriodLabel shows open bounds as "beginning" and "current".
type PeriodLabel struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Summary struct {
	TotalLogs             int `json:"totalLogs"`
	TotalMealPlans        int `json:"totalMealPlans"`
	TotalWorkoutPlans     int `json:"totalWorkoutPlans"`
	AverageCaloriesPerDay int `json:"averageCaloriesPerDay"`
	ConsistencyScore      int `json:"consistencyScore"`
}

type Trends struct {
	Weight   []WeightPoint  `json:"weight"`
	Calories []CaloriePoint `json:"calories"`
	Exercise []CaloriePoint `json:"exercise"`
}

type WeightPoint struct {
	Date   string   `json:"date"`
	Weight *float64 `json:"weight"`
}

type CaloriePoint struct {
	Date     string   `json:"date"`
	Calories *float64 `json:"calories"`
}

// Analyze computes the summary from logs in any order. Averages count only
// days with food logs; consistency is the share of logged days that had a
// food or exercise entry.
func Analyze(logs []storage.ActivityLog, mealPlans, workoutPlans int, period storage.Period) Analysis {
	sorted := make([]storage.ActivityLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	a := Analysis{
		Period: labelPeriod(period),
		Summary: Summary{
			TotalLogs:         len(sorted),
			TotalMealPlans:    mealPlans,
			TotalWorkoutPlans: workoutPlans,
		},
		Trends: Trends{
			Weight:   []WeightPoint{},
			Calories: []CaloriePoint{},
			Exercise: []CaloriePoint{},
		},
		Recommendations: []string{},
	}

	var totalFoodCalories float64
	allDays := map[string]bool{}
	foodDays := map[string]bool{}
	activeDays := map[string]bool{}

	for _, l := range sorted {
		day := l.Date.Format(validation.DateLayout)
		allDays[day] = true

		switch l.Type {
		case "food":
			foodDays[day] = true
			activeDays[day] = true
			if l.Calories != nil {
				totalFoodCalories += *l.Calories
			}
			a.Trends.Calories = append(a.Trends.Calories, CaloriePoint{Date: day, Calories: l.Calories})
		case "exercise":
			activeDays[day] = true
			a.Trends.Exercise = append(a.Trends.Exercise, CaloriePoint{Date: day, Calories: l.Calories})
		case "weight":
			a.Trends.Weight = append(a.Trends.Weight, WeightPoint{Date: day, Weight: weightOf(l.Data)})
		}
	}

	if len(foodDays) > 0 {
		a.Summary.AverageCaloriesPerDay = int(math.Round(totalFoodCalories / float64(len(foodDays))))
	}
	if len(allDays) > 0 {
		a.Summary.ConsistencyScore = int(math.Round(float64(len(activeDays)) / float64(len(allDays)) * 100))
	}

	if a.Summary.ConsistencyScore < consistencyThreshold {
		a.Recommendations = append(a.Recommendations, "Try to be more consistent with your daily logging")
	}
	if a.Summary.AverageCaloriesPerDay < lowCalorieThreshold {
		a.Recommendations = append(a.Recommendations, "Consider increasing your caloric intake")
	}
	if a.Summary.AverageCaloriesPerDay > highCalorieThreshold {
		a.Recommendations = append(a.Recommendations, "Consider reducing your caloric intake")
	}

	return a
}

// weightOf reads data.weight, falling back to data.value.
func weightOf(data []byte) *float64 {
	var body struct {
		Weight *float64 `json:"weight"`
		Value  *float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil
	}
	if body.Weight != nil {
		return body.Weight
	}
	return body.Value
}

func labelPeriod(p storage.Period) PeriodLabel {
	label := PeriodLabel{Start: "beginning", End: "current"}
	if p.From != nil {
		label.Start = p.From.Format(validation.DateLayout)
	}
	if p.To != nil {
		label.End = p.To.Format(validation.DateLayout)
	}
	return label
}

