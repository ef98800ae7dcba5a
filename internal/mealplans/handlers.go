package mealplans

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitai/fitai/internal/profiles"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/userctx"
	"github.com/fitai/fitai/internal/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for meal plans.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates a new meal plans handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:  service,
		validate: validation.New(),
		logger:   logger,
	}
}

// HandleGenerate handles POST /api/ai/generate-meal-plan
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", validation.Message(err))
		return
	}

	plan, err := h.service.Generate(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, profiles.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		h.logger.Error("generate meal plan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Error generating meal plan")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Success: true,
		Message: "Meal plan generated successfully",
		Data:    *plan,
	})
}

// HandleList handles GET /api/users/meal-plans?startDate=&endDate=&limit=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	q := r.URL.Query()
	from, to, err := validation.ParseRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	limit, err := validation.ParseLimit(q.Get("limit"), DefaultListLimit, MaxListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	plans, err := h.service.List(r.Context(), userID, storage.PlanFilter{
		Period: storage.Period{From: from, To: to},
		Limit:  limit,
	})
	if err != nil {
		h.logger.Error("list meal plans failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Error getting meal plans")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{MealPlans: plans})
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
