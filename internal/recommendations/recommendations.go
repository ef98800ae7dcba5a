// Package recommendations serves general fitness advice for signed-in users
// (profile from the account) and anonymous callers (profile from the query).
package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitai/fitai/internal/fitness"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/userctx"
	"github.com/fitai/fitai/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileLoader interface {
	LoadFitnessProfile(ctx context.Context, userID uuid.UUID) (*storage.User, fitness.UserProfile, error)
}

// Query carries the anonymous profile parameters.
type Query struct {
	Goal          string   `json:"goal" validate:"omitempty,goal"`
	ActivityLevel string   `json:"activityLevel" validate:"omitempty,activity_level"`
	Age           *int     `json:"age" validate:"omitempty,min=13,max=120"`
	Weight        *float64 `json:"weight" validate:"omitempty,min=30,max=300"`
	Height        *float64 `json:"height" validate:"omitempty,min=100,max=250"`
}

// UserData echoes the profile the recommendations were built from.
type UserData struct {
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"`
	Height        *float64 `json:"height"`
	Goal          string   `json:"goal"`
	ActivityLevel string   `json:"activityLevel"`
}

type Response struct {
	Success bool `json:"success"`
	Data    struct {
		Recommendations fitness.RecommendationSet `json:"recommendations"`
		UserData        UserData                  `json:"userData"`
	} `json:"data"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Handler struct {
	profiles    ProfileLoader
	recommender *fitness.Recommender
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewHandler(profiles ProfileLoader, recommender *fitness.Recommender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		profiles:    profiles,
		recommender: recommender,
		validate:    validation.New(),
		logger:      logger,
	}
}

// HandleGet handles GET /api/ai/recommendations
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.accountProfile(r)
	if !ok {
		q, err := parseQuery(r)
		if err == nil {
			err = h.validate.Struct(q)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", validation.Message(err))
			return
		}
		profile = q.profile()
	}

	var resp Response
	resp.Success = true
	resp.Data.Recommendations = h.recommender.Recommend(r.Context(), profile)
	resp.Data.UserData = userDataOf(profile)

	writeJSON(w, http.StatusOK, resp)
}

// accountProfile loads the signed-in user's profile. A missing user is
// treated like an anonymous request.
func (h *Handler) accountProfile(r *http.Request) (fitness.UserProfile, bool) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		return fitness.UserProfile{}, false
	}
	_, profile, err := h.profiles.LoadFitnessProfile(r.Context(), userID)
	if err != nil {
		h.logger.Warn("recommendations profile lookup failed", zap.String("user_id", userID.String()), zap.Error(err))
		return fitness.UserProfile{}, false
	}
	return profile, true
}

func parseQuery(r *http.Request) (Query, error) {
	values := r.URL.Query()
	q := Query{
		Goal:          strings.TrimSpace(values.Get("goal")),
		ActivityLevel: strings.TrimSpace(values.Get("activityLevel")),
	}
	if raw := values.Get("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("age must be a number")
		}
		q.Age = &age
	}
	for name, dst := range map[string]**float64{"weight": &q.Weight, "height": &q.Height} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("%s must be a number", name)
		}
		*dst = &v
	}
	return q, nil
}

func (q Query) profile() fitness.UserProfile {
	p := fitness.UserProfile{
		Goal:          fitness.Goal(q.Goal),
		ActivityLevel: fitness.ActivityLevel(q.ActivityLevel),
	}
	if q.Age != nil {
		p.Age = *q.Age
	}
	if q.Weight != nil {
		p.WeightKg = *q.Weight
	}
	if q.Height != nil {
		p.HeightCm = *q.Height
	}
	return p
}

func userDataOf(p fitness.UserProfile) UserData {
	d := UserData{
		Goal:          string(p.Goal),
		ActivityLevel: string(p.ActivityLevel),
	}
	if d.Goal == "" {
		d.Goal = "fitness"
	}
	if d.ActivityLevel == "" {
		d.ActivityLevel = string(fitness.ActivityModerate)
	}
	if p.Age > 0 {
		age := p.Age
		d.Age = &age
	}
	if p.WeightKg > 0 {
		weight := p.WeightKg
		d.Weight = &weight
	}
	if p.HeightCm > 0 {
		height := p.HeightCm
		d.Height = &height
	}
	return d
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
