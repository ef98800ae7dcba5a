package activity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/userctx"
	"github.com/fitai/fitai/internal/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler serves /api/users/logs.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *zap.Logger
}

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

// HandleCreate handles POST /api/users/logs
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req CreateLogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", validation.Message(err))
		return
	}

	log, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrDataNotObject) {
			writeError(w, http.StatusBadRequest, "validation_error", "Data must be an object")
			return
		}
		h.logger.Error("create log failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create log")
		return
	}

	writeJSON(w, http.StatusCreated, CreateLogResponse{
		Message: "Log created successfully",
		Log:     *log,
	})
}

// HandleList handles GET /api/users/logs?type=&startDate=&endDate=&limit=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
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

	logType := q.Get("type")
	if logType != "" && h.validate.Var(logType, "oneof=food exercise weight measurement") != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "type must be one of [food exercise weight measurement]")
		return
	}

	logs, err := h.service.List(r.Context(), userID, storage.LogFilter{
		Type:   logType,
		Period: storage.Period{From: from, To: to},
		Limit:  limit,
	})
	if err != nil {
		h.logger.Error("list logs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch logs")
		return
	}

	writeJSON(w, http.StatusOK, LogsResponse{Logs: logs})
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
