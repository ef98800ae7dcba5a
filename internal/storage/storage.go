package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Storage is the single persistence path used by the API. Both the in-memory
// and the Postgres implementations satisfy it.
type Storage interface {
	UsersStorage
	ActivityLogsStorage
	PlansStorage
	CatalogStorage
	ReportsStorage

	// Close releases the connection pool (no-op in memory).
	Close() error
}

// User is an account together with its fitness profile. Optional profile
// attributes are nil until set.
type User struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  string
	Name          string
	DateOfBirth   *time.Time
	WeightKg      *float64
	HeightCm      *float64
	Goal          *string
	ActivityLevel *string
	Restrictions  []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UsersStorage interface {
	// CreateUser returns ErrConflict when the email is taken.
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// UpdateUser rewrites the profile attributes; email and password hash are
	// left untouched.
	UpdateUser(ctx context.Context, user *User) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// ActivityLog is one food, exercise, weight or measurement entry. Data holds
// the raw JSON object sent by the client.
type ActivityLog struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Data      []byte
	Calories  *float64
	Date      time.Time
	CreatedAt time.Time
}

// Period bounds a date range inclusively; nil means open.
type Period struct {
	From *time.Time
	To   *time.Time
}

func (p Period) Contains(day time.Time) bool {
	if p.From != nil && day.Before(*p.From) {
		return false
	}
	if p.To != nil && day.After(*p.To) {
		return false
	}
	return true
}

// LogFilter selects logs; a Limit of zero or less returns everything.
type LogFilter struct {
	Type   string
	Period Period
	Limit  int
}

type ActivityLogsStorage interface {
	CreateLog(ctx context.Context, log *ActivityLog) error
	// ListLogs returns logs newest first.
	ListLogs(ctx context.Context, userID uuid.UUID, filter LogFilter) ([]ActivityLog, error)
	CountLogs(ctx context.Context, userID uuid.UUID, period Period) (int, error)
}

// MealPlanRecord is a persisted meal plan. Meals is the JSON encoding of the
// composed meals.
type MealPlanRecord struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Date            time.Time
	Meals           []byte
	TotalCalories   float64
	Recommendations []string
	Source          string
	CreatedAt       time.Time
}

// WorkoutPlanRecord is a persisted workout plan. Exercises is JSON.
type WorkoutPlanRecord struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Date            time.Time
	Exercises       []byte
	DurationMinutes int
	Focus           string
	Difficulty      string
	Recommendations []string
	Source          string
	CreatedAt       time.Time
}

type PlanFilter struct {
	Period Period
	Limit  int
}

type PlansStorage interface {
	CreateMealPlan(ctx context.Context, plan *MealPlanRecord) error
	// ListMealPlans returns plans by date, newest first.
	ListMealPlans(ctx context.Context, userID uuid.UUID, filter PlanFilter) ([]MealPlanRecord, error)
	CountMealPlans(ctx context.Context, userID uuid.UUID, period Period) (int, error)

	CreateWorkoutPlan(ctx context.Context, plan *WorkoutPlanRecord) error
	ListWorkoutPlans(ctx context.Context, userID uuid.UUID, filter PlanFilter) ([]WorkoutPlanRecord, error)
	CountWorkoutPlans(ctx context.Context, userID uuid.UUID, period Period) (int, error)
}

type Exercise struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Category     string
	MuscleGroup  string
	Equipment    string
	Difficulty   string
	Instructions []string
	CreatedAt    time.Time
}

type Food struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Category        string
	CaloriesPer100g float64
	ProteinG        float64
	CarbsG          float64
	FatG            float64
	FiberG          float64
	CreatedAt       time.Time
}

// ExerciseFilter fields are exact matches except Search, which matches name
// or description case-insensitively.
type ExerciseFilter struct {
	Category    string
	MuscleGroup string
	Equipment   string
	Difficulty  string
	Search      string
	Limit       int
}

type FoodFilter struct {
	Category    string
	Search      string
	MinCalories *float64
	MaxCalories *float64
	Limit       int
}

type CatalogStorage interface {
	CreateExercise(ctx context.Context, exercise *Exercise) error
	// ListExercises orders by name.
	ListExercises(ctx context.Context, filter ExerciseFilter) ([]Exercise, error)
	CountExercises(ctx context.Context) (int, error)

	CreateFood(ctx context.Context, food *Food) error
	ListFoods(ctx context.Context, filter FoodFilter) ([]Food, error)
	CountFoods(ctx context.Context) (int, error)
}

// ReportMeta describes a rendered report whose bytes live in the blob store
// under ObjectKey.
type ReportMeta struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Format    string
	FromDate  string
	ToDate    string
	ObjectKey string
	SizeBytes int64
	CreatedAt time.Time
}

type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)
	// ListReports returns newest first.
	ListReports(ctx context.Context, userID uuid.UUID, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}
