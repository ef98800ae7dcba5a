package mealplans

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerateRequest is the body of POST /api/ai/generate-meal-plan.
// Restrictions default to the user's stored restrictions when absent.
type GenerateRequest struct {
	Date           string                 `json:"date" validate:"required,date"`
	Preferences    map[string]interface{} `json:"preferences,omitempty"`
	Restrictions   []string               `json:"restrictions,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
	TargetCalories *int                   `json:"targetCalories,omitempty" validate:"omitempty,min=1000,max=5000"`
}

// MealPlanDTO is a persisted plan. AIGenerated is false when the plan came
// from the static fallback.
type MealPlanDTO struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Date            string          `json:"date"`
	Meals           json.RawMessage `json:"meals"`
	TotalCalories   float64         `json:"total_calories"`
	Recommendations []string        `json:"recommendations"`
	Source          string          `json:"source"`
	AIGenerated     bool            `json:"aiGenerated"`
	CreatedAt       time.Time       `json:"created_at"`
}

type GenerateResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    MealPlanDTO `json:"data"`
}

type ListResponse struct {
	MealPlans []MealPlanDTO `json:"mealPlans"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
