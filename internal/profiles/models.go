package profiles

import (
	"time"

	"github.com/google/uuid"
)

// UserDTO is the public view of an account; the password hash never leaves
// the service.
type UserDTO struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	DateOfBirth   *string   `json:"date_of_birth"`
	Age           *int      `json:"age"`
	WeightKg      *float64  `json:"weight_kg"`
	HeightCm      *float64  `json:"height_cm"`
	Goal          *string   `json:"goal"`
	ActivityLevel *string   `json:"activityLevel"`
	Restrictions  []string  `json:"restrictions"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfileResponse is returned by GET /api/auth/profile
type ProfileResponse struct {
	User UserDTO `json:"user"`
}

// UpdateProfileResponse is returned by PUT /api/auth/profile
type UpdateProfileResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// UpdateProfileRequest is a partial update: absent fields are left as they
// are.
type UpdateProfileRequest struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Age           *int      `json:"age,omitempty" validate:"omitempty,min=13,max=120"`
	DateOfBirth   *string   `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	Weight        *float64  `json:"weight,omitempty" validate:"omitempty,min=30,max=300"`
	WeightKg      *float64  `json:"weight_kg,omitempty" validate:"omitempty,min=30,max=300"`
	Height        *float64  `json:"height,omitempty" validate:"omitempty,min=100,max=250"`
	HeightCm      *float64  `json:"height_cm,omitempty" validate:"omitempty,min=100,max=250"`
	Goal          *string   `json:"goal,omitempty" validate:"omitempty,goal"`
	ActivityLevel *string   `json:"activityLevel,omitempty" validate:"omitempty,activity_level"`
	Restrictions  *[]string `json:"restrictions,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
