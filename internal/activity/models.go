package activity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Log types accepted by POST /api/users/logs.
const (
	TypeFood        = "food"
	TypeExercise    = "exercise"
	TypeWeight      = "weight"
	TypeMeasurement = "measurement"
)

type CreateLogRequest struct {
	Type     string          `json:"type" validate:"required,oneof=food exercise weight measurement"`
	Data     json.RawMessage `json:"data" validate:"required"`
	Calories *float64        `json:"calories,omitempty" validate:"omitempty,gte=0,lte=5000"`
	Date     string          `json:"date,omitempty" validate:"omitempty,date"`
}

type LogDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Calories  *float64        `json:"calories"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateLogResponse struct {
	Message string `json:"message"`
	Log     LogDTO `json:"log"`
}

type LogsResponse struct {
	Logs []LogDTO `json:"logs"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
