// Package catalog serves searches over the exercise and food catalog that the
// seeding job populates.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fitai/fitai/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const searchLimit = 50

type ExerciseDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	MuscleGroup  string    `json:"muscle_group"`
	Equipment    string    `json:"equipment"`
	Difficulty   string    `json:"difficulty_level"`
	Instructions []string  `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}

type FoodDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	CaloriesPer100g float64   `json:"calories_per_100g"`
	ProteinPer100g  float64   `json:"protein_per_100g"`
	CarbsPer100g    float64   `json:"carbs_per_100g"`
	FatPer100g      float64   `json:"fat_per_100g"`
	FiberPer100g    float64   `json:"fiber_per_100g"`
	CreatedAt       time.Time `json:"created_at"`
}

type ExercisesResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Exercises []ExerciseDTO `json:"exercises"`
	} `json:"data"`
}

type FoodsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Foods []FoodDTO `json:"foods"`
	} `json:"data"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Service struct {
	storage storage.CatalogStorage
}

func NewService(st storage.CatalogStorage) *Service {
	return &Service{storage: st}
}

func (s *Service) SearchExercises(ctx context.Context, filter storage.ExerciseFilter) ([]ExerciseDTO, error) {
	filter.Limit = searchLimit
	exercises, err := s.storage.ListExercises(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search exercises: %w", err)
	}

	out := make([]ExerciseDTO, 0, len(exercises))
	for _, e := range exercises {
		instructions := e.Instructions
		if instructions == nil {
			instructions = []string{}
		}
		out = append(out, ExerciseDTO{
			ID:           e.ID,
			Name:         e.Name,
			Description:  e.Description,
			Category:     e.Category,
			MuscleGroup:  e.MuscleGroup,
			Equipment:    e.Equipment,
			Difficulty:   e.Difficulty,
			Instructions: instructions,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) SearchFoods(ctx context.Context, filter storage.FoodFilter) ([]FoodDTO, error) {
	filter.Limit = searchLimit
	foods, err := s.storage.ListFoods(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}

	out := make([]FoodDTO, 0, len(foods))
	for _, f := range foods {
		out = append(out, FoodDTO{
			ID:              f.ID,
			Name:            f.Name,
			Description:     f.Description,
			Category:        f.Category,
			CaloriesPer100g: f.CaloriesPer100g,
			ProteinPer100g:  f.ProteinG,
			CarbsPer100g:    f.CarbsG,
			FatPer100g:      f.FatG,
			FiberPer100g:    f.FiberG,
			CreatedAt:       f.CreatedAt,
		})
	}
	return out, nil
}

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// HandleExercises handles GET /api/ai/exercises?category=&muscleGroup=&equipment=&difficulty=&search=
func (h *Handler) HandleExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exercises, err := h.service.SearchExercises(r.Context(), storage.ExerciseFilter{
		Category:    strings.TrimSpace(q.Get("category")),
		MuscleGroup: strings.TrimSpace(q.Get("muscleGroup")),
		Equipment:   strings.TrimSpace(q.Get("equipment")),
		Difficulty:  strings.TrimSpace(q.Get("difficulty")),
		Search:      strings.TrimSpace(q.Get("search")),
	})
	if err != nil {
		h.logger.Error("exercise search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Error searching exercises")
		return
	}

	var resp ExercisesResponse
	resp.Success = true
	resp.Data.Exercises = exercises
	writeJSON(w, http.StatusOK, resp)
}

// HandleFoods handles GET /api/ai/foods?category=&search=&minCalories=&maxCalories=
func (h *Handler) HandleFoods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minCalories, err := optionalFloat(q.Get("minCalories"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "minCalories must be a number")
		return
	}
	maxCalories, err := optionalFloat(q.Get("maxCalories"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "maxCalories must be a number")
		return
	}

	foods, err := h.service.SearchFoods(r.Context(), storage.FoodFilter{
		Category:    strings.TrimSpace(q.Get("category")),
		Search:      strings.TrimSpace(q.Get("search")),
		MinCalories: minCalories,
		MaxCalories: maxCalories,
	})
	if err != nil {
		h.logger.Error("food search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Error searching foods")
		return
	}

	var resp FoodsResponse
	resp.Success = true
	resp.Data.Foods = foods
	writeJSON(w, http.StatusOK, resp)
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
