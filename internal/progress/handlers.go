package progress

import (
	"encoding/json"
	"net/http"

	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/userctx"
	"github.com/fitai/fitai/internal/validation"
	"go.uber.org/zap"
)

type AnalysisResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Analysis Analysis `json:"analysis"`
	} `json:"data"`
}

type StatisticsResponse struct {
	Statistics Statistics `json:"statistics"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// HandleAnalysis handles GET /api/ai/progress-analysis?startDate=&endDate=
func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	analysis, err := h.service.Analyze(r.Context(), userID, period)
	if err != nil {
		h.logger.Error("progress analysis failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Error analyzing progress")
		return
	}

	var resp AnalysisResponse
	resp.Success = true
	resp.Data.Analysis = *analysis
	writeJSON(w, http.StatusOK, resp)
}

// HandleStatistics handles GET /api/users/statistics?startDate=&endDate=
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Statistics(r.Context(), userID, period)
	if err != nil {
		h.logger.Error("statistics failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Error getting statistics")
		return
	}

	writeJSON(w, http.StatusOK, StatisticsResponse{Statistics: *stats})
}

func parsePeriod(w http.ResponseWriter, r *http.Request) (storage.Period, bool) {
	q := r.URL.Query()
	from, to, err := validation.ParseRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return storage.Period{}, false
	}
	return storage.Period{From: from, To: to}, true
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
