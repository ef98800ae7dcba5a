package seeding

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const cronSecretHeader = "X-Cron-Secret"

// HandlerConfig describes the generation settings shown by the status route.
type HandlerConfig struct {
	Secret      string
	Model       string
	Temperature float64
	Schedule    Schedule
}

type PopulateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  Result `json:"result"`
}

type PopulateAllResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Exercise  Result    `json:"exercise"`
		Food      Result    `json:"food"`
		Timestamp time.Time `json:"timestamp"`
	} `json:"data"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler serves the /api/cron routes. scheduler may be nil when scheduled
// generation is disabled.
type Handler struct {
	seeder    *Seeder
	scheduler *Scheduler
	config    HandlerConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandler(seeder *Seeder, scheduler *Scheduler, cfg HandlerConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		seeder:    seeder,
		scheduler: scheduler,
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// RequireSecret rejects requests whose X-Cron-Secret does not match. With no
// secret configured every request passes.
func (h *Handler) RequireSecret(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.config.Secret != "" {
			got := r.Header.Get(cronSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(h.config.Secret)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid cron secret")
				return
			}
		}
		next(w, r)
	}
}

// HandlePopulateExercises handles POST /api/cron/populate-exercises
func (h *Handler) HandlePopulateExercises(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("manual exercise generation triggered")
	h.writeResult(w, h.seeder.GenerateExercise(r.Context()))
}

// HandlePopulateFoods handles POST /api/cron/populate-foods
func (h *Handler) HandlePopulateFoods(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("manual food generation triggered")
	h.writeResult(w, h.seeder.GenerateFood(r.Context()))
}

// HandlePopulateAll handles POST /api/cron/populate-all
func (h *Handler) HandlePopulateAll(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("manual full generation triggered")

	var resp PopulateAllResponse
	resp.Data.Exercise = h.seeder.GenerateExercise(r.Context())
	resp.Data.Food = h.seeder.GenerateFood(r.Context())
	resp.Data.Timestamp = h.now().UTC()
	resp.Success = resp.Data.Exercise.Success && resp.Data.Food.Success

	switch {
	case resp.Success:
		resp.Message = "Full AI generation completed"
	case resp.Data.Exercise.Skipped && resp.Data.Food.Skipped:
		resp.Message = "AI not configured"
	default:
		resp.Message = "AI generation partially failed"
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleStatus handles GET /api/cron/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := "disabled"
	var next map[string]time.Time
	if h.scheduler != nil {
		status = "active"
		next = h.scheduler.NextRuns()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"status": status,
			"schedule": map[string]string{
				"exercises": h.config.Schedule.Exercise,
				"foods":     h.config.Schedule.Food,
			},
			"next_runs": next,
			"limits": map[string]int{
				"exercises_per_day": 1,
				"foods_per_day":     1,
			},
			"ai_generation": map[string]interface{}{
				"model":               h.config.Model,
				"max_tokens_exercise": exerciseMaxTokens,
				"max_tokens_food":     foodMaxTokens,
				"temperature":         h.config.Temperature,
			},
			"endpoints": map[string]string{
				"populate_exercises": "POST /api/cron/populate-exercises",
				"populate_foods":     "POST /api/cron/populate-foods",
				"populate_all":       "POST /api/cron/populate-all",
			},
		},
	})
}

// writeResult maps a skipped run to 200 with success=false and a failed run
// to 500.
func (h *Handler) writeResult(w http.ResponseWriter, result Result) {
	status := http.StatusOK
	if !result.Success && !result.Skipped {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, PopulateResponse{
		Success: result.Success,
		Message: result.Message,
		Result:  result,
	})
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
