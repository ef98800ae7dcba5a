package fitness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCalories(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		want    int
		wantOK  bool
	}{
		{
			name:    "moderate lose weight",
			profile: UserProfile{WeightKg: 70, HeightCm: 175, Age: 25, ActivityLevel: ActivityModerate, Goal: GoalLoseWeight},
			want:    2094,
			wantOK:  true,
		},
		{
			name:    "gain muscle very active",
			profile: UserProfile{WeightKg: 80, HeightCm: 180, Age: 30, ActivityLevel: ActivityVeryActive, Goal: GoalGainMuscle},
			// bmr = 800 + 1125 - 150 + 5 = 1780; 1780*1.725 = 3070.5; +300
			want:   3371,
			wantOK: true,
		},
		{
			name:    "legacy very spelling",
			profile: UserProfile{WeightKg: 80, HeightCm: 180, Age: 30, ActivityLevel: ActivityVery, Goal: GoalGainMuscle},
			want:    3371,
			wantOK:  true,
		},
		{
			name:    "maintain sedentary",
			profile: UserProfile{WeightKg: 60, HeightCm: 165, Age: 40, ActivityLevel: ActivitySedentary, Goal: GoalMaintain},
			// bmr = 600 + 1031.25 - 200 + 5 = 1436.25; *1.2 = 1723.5
			want:   1724,
			wantOK: true,
		},
		{
			name:    "unknown level uses sedentary",
			profile: UserProfile{WeightKg: 60, HeightCm: 165, Age: 40, ActivityLevel: "couch", Goal: GoalImproveFitness},
			want:    1724,
			wantOK:  true,
		},
		{
			name:    "extreme",
			profile: UserProfile{WeightKg: 70, HeightCm: 175, Age: 25, ActivityLevel: ActivityExtreme},
			// 1673.75 * 1.9 = 3180.125
			want:   3180,
			wantOK: true,
		},
		{name: "missing weight", profile: UserProfile{HeightCm: 175, Age: 25}},
		{name: "missing height", profile: UserProfile{WeightKg: 70, Age: 25}},
		{name: "missing age", profile: UserProfile{WeightKg: 70, HeightCm: 175}},
		{name: "negative weight", profile: UserProfile{WeightKg: -1, HeightCm: 175, Age: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EstimateCalories(tt.profile)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEstimateOrDefault(t *testing.T) {
	assert.Equal(t, 2000, EstimateOrDefault(UserProfile{}))
	assert.Equal(t, 2094, EstimateOrDefault(UserProfile{
		WeightKg: 70, HeightCm: 175, Age: 25, ActivityLevel: ActivityModerate, Goal: GoalLoseWeight,
	}))
}

func TestActivityMultiplier(t *testing.T) {
	assert.Equal(t, 1.2, ActivityMultiplier(""))
	assert.Equal(t, 1.375, ActivityMultiplier(ActivityLight))
	assert.Equal(t, 1.9, ActivityMultiplier(ActivityExtreme))
}
