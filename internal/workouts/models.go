package workouts

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultFocus    = "full_body"
	DefaultDuration = 45
)

var DefaultEquipment = []string{"bodyweight"}

// GenerateRequest is the body of POST /api/ai/generate-workout-plan.
type GenerateRequest struct {
	Date      string   `json:"date" validate:"required,date"`
	Focus     string   `json:"focus,omitempty" validate:"omitempty,oneof=full_body upper_body lower_body cardio strength flexibility"`
	Duration  *int     `json:"duration,omitempty" validate:"omitempty,min=15,max=180"`
	Equipment []string `json:"equipment,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
}

type WorkoutPlanDTO struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Date            string          `json:"date"`
	Exercises       json.RawMessage `json:"exercises"`
	Duration        int             `json:"duration"`
	Focus           string          `json:"focus"`
	Difficulty      string          `json:"difficulty"`
	Recommendations []string        `json:"recommendations"`
	Source          string          `json:"source"`
	AIGenerated     bool            `json:"aiGenerated"`
	CreatedAt       time.Time       `json:"created_at"`
}

type GenerateResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    WorkoutPlanDTO `json:"data"`
}

type ListResponse struct {
	WorkoutPlans []WorkoutPlanDTO `json:"workoutPlans"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
