package workouts

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

// Handler handles HTTP requests for workout plans.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates a new workout plans handler.
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

// HandleGenerate handles POST /api/ai/generate-workout-plan
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
		h.logger.Error("generate workout plan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Error generating workout plan")
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Success: true,
		Message: "Workout plan generated successfully",
		Data:    *plan,
	})
}

// HandleList handles GET /api/users/workout-plans?startDate=&endDate=&limit=
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
		h.logger.Error("list workout plans failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Error getting workout plans")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{WorkoutPlans: plans})
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
