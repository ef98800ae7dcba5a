package seeding

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitai/fitai/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(gateway ai.Gateway, secret string) *Handler {
	s, _ := newTestSeeder(gateway)
	return NewHandler(s, nil, HandlerConfig{
		Secret:      secret,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		Schedule:    Schedule{Exercise: "0 2 * * *", Food: "0 3 * * *"},
	}, nil)
}

func TestRequireSecret(t *testing.T) {
	h := newTestHandler(ai.NewStubGateway(ai.StubResponse{Content: exerciseJSON}), "s3cret")
	route := h.RequireSecret(h.HandlePopulateExercises)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusUnauthorized},
		{"match", "s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/cron/populate-exercises", nil)
			if tt.header != "" {
				req.Header.Set(cronSecretHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			route(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireSecretDisabled(t *testing.T) {
	h := newTestHandler(ai.NewStubGateway(), "")
	rec := httptest.NewRecorder()

	h.RequireSecret(h.HandleStatus)(rec, httptest.NewRequest(http.MethodGet, "/api/cron/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePopulateExercises(t *testing.T) {
	h := newTestHandler(ai.NewStubGateway(ai.StubResponse{Content: exerciseJSON}), "")
	rec := httptest.NewRecorder()

	h.HandlePopulateExercises(rec, httptest.NewRequest(http.MethodPost, "/api/cron/populate-exercises", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PopulateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Push-up", resp.Result.Name)
}

func TestHandlePopulateFoodsFailure(t *testing.T) {
	h := newTestHandler(ai.NewStubGateway(ai.StubResponse{Content: "{}"}), "")
	rec := httptest.NewRecorder()

	h.HandlePopulateFoods(rec, httptest.NewRequest(http.MethodPost, "/api/cron/populate-foods", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlePopulateAllUnconfigured(t *testing.T) {
	h := newTestHandler(ai.NewStubGateway(), "")
	rec := httptest.NewRecorder()

	h.HandlePopulateAll(rec, httptest.NewRequest(http.MethodPost, "/api/cron/populate-all", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PopulateAllResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "AI not configured", resp.Message)
	assert.True(t, resp.Data.Exercise.Skipped)
	assert.True(t, resp.Data.Food.Skipped)
	assert.False(t, resp.Data.Timestamp.IsZero())
}

func TestHandleStatus(t *testing.T) {
	h := newTestHandler(ai.NewStubGateway(), "")
	rec := httptest.NewRecorder()

	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/cron/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Status       string            `json:"status"`
			Schedule     map[string]string `json:"schedule"`
			AIGeneration struct {
				Model             string `json:"model"`
				MaxTokensExercise int    `json:"max_tokens_exercise"`
				MaxTokensFood     int    `json:"max_tokens_food"`
			} `json:"ai_generation"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "disabled", resp.Data.Status)
	assert.Equal(t, "0 2 * * *", resp.Data.Schedule["exercises"])
	assert.Equal(t, "gpt-3.5-turbo", resp.Data.AIGeneration.Model)
	assert.Equal(t, 200, resp.Data.AIGeneration.MaxTokensExercise)
	assert.Equal(t, 150, resp.Data.AIGeneration.MaxTokensFood)
}
