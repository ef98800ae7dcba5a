package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitai/fitai/internal/userctx"
	"github.com/fitai/fitai/internal/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler serves the authenticated user's profile.
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

// HandleGet handles GET /api/auth/profile
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, ProfileResponse{User: *user})
}

// HandleUpdate handles PUT /api/auth/profile
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.sendError(w, http.StatusBadRequest, "validation_error", validation.Message(err))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, UpdateProfileResponse{
		Message: "Profile updated successfully",
		User:    *user,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUserNotFound) {
		h.sendError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}
	h.logger.Error("profile request failed", zap.Error(err))
	h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to process profile")
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
