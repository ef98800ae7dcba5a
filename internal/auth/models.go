package auth

import (
	"github.com/fitai/fitai/internal/profiles"
	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest is the body of POST /api/auth/register. weight/height are
// accepted under both their short and unit-suffixed names.
type RegisterRequest struct {
	Email         string   `json:"email" validate:"required,email,max=254"`
	Password      string   `json:"password" validate:"required,min=6,max=128,password"`
	Name          string   `json:"name" validate:"required,min=2,max=50"`
	Age           *int     `json:"age,omitempty" validate:"omitempty,min=13,max=120"`
	DateOfBirth   string   `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	Weight        *float64 `json:"weight,omitempty" validate:"omitempty,min=30,max=300"`
	WeightKg      *float64 `json:"weight_kg,omitempty" validate:"omitempty,min=30,max=300"`
	Height        *float64 `json:"height,omitempty" validate:"omitempty,min=100,max=250"`
	HeightCm      *float64 `json:"height_cm,omitempty" validate:"omitempty,min=100,max=250"`
	Goal          string   `json:"goal,omitempty" validate:"omitempty,goal"`
	ActivityLevel string   `json:"activityLevel,omitempty" validate:"omitempty,activity_level"`
	Restrictions  []string `json:"restrictions,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128,password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string           `json:"message"`
	User    profiles.UserDTO `json:"user"`
	Token   string           `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Claims are carried by access tokens. Subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
