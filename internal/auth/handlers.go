package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitai/fitai/internal/profiles"
	"github.com/fitai/fitai/internal/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	service  *Service
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandlers(service *Service, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		service:  service,
		validate: validation.New(),
		logger:   logger,
	}
}

// HandleRegister handles POST /api/auth/register
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, token, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeErrorResponse(w, http.StatusConflict, "email_taken", "User already exists with this email")
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		User:    profiles.ToDTO(user),
		Token:   token,
	})
}

// HandleLogin handles POST /api/auth/login
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    profiles.ToDTO(user),
		Token:   token,
	})
}

// HandleChangePassword handles PUT /api/auth/change-password
func (h *Handlers) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req ChangePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.ChangePassword(r.Context(), userID, &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully"})
	case errors.Is(err, ErrWrongPassword):
		writeErrorResponse(w, http.StatusBadRequest, "invalid_password", "Current password is incorrect")
	case errors.Is(err, ErrUserNotFound):
		writeErrorResponse(w, http.StatusNotFound, "not_found", "User not found")
	default:
		h.logger.Error("change password failed", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to change password")
	}
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "validation_error", validation.Message(err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
