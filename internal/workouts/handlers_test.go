package workouts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitai/fitai/internal/ai"
	"github.com/fitai/fitai/internal/fitness"
	"github.com/fitai/fitai/internal/profiles"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/storage/memory"
	"github.com/fitai/fitai/internal/userctx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedWorkout = `{
  "exercises": [
    {"name": "Rows", "sets": 4, "reps": 10, "rest": 60, "instructions": ["Pull"]}
  ],
  "duration": 30,
  "focus": "upper_body",
  "difficulty": "Advanced",
  "recommendations": ["Stretch"]
}`

func setup(t *testing.T, responses ...ai.StubResponse) (*Handler, *ai.StubGateway, *memory.MemoryStorage, uuid.UUID) {
	t.Helper()
	store := memory.New()
	user := &storage.User{Email: "lift@example.com", Name: "Lifter"}
	require.NoError(t, store.CreateUser(context.Background(), user))

	gateway := ai.NewStubGateway(responses...)
	service := NewService(profiles.NewService(store), fitness.NewComposer(gateway, nil), store, nil)
	return NewHandler(service, nil), gateway, store, user.ID
}

func generate(h *Handler, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-workout-plan", bytes.NewBufferString(body))
	req = req.WithContext(userctx.WithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	h.HandleGenerate(w, req)
	return w
}

func TestHandleGenerateDefaults(t *testing.T) {
	h, gateway, store, userID := setup(t)

	w := generate(h, userID, `{"date":"2025-04-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Data.AIGenerated)
	assert.Equal(t, 45, resp.Data.Duration)
	assert.Equal(t, "full_body", resp.Data.Focus)
	assert.Equal(t, "intermediate", resp.Data.Difficulty)

	var exercises []fitness.WorkoutExercise
	require.NoError(t, json.Unmarshal(resp.Data.Exercises, &exercises))
	assert.Len(t, exercises, 3)

	calls := gateway.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].User, "- Focus: full_body")
	assert.Contains(t, calls[0].User, "- Duration: 45 minutes")
	assert.Contains(t, calls[0].User, "- Available equipment: bodyweight")

	count, err := store.CountWorkoutPlans(context.Background(), userID, storage.Period{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandleGenerateGenerated(t *testing.T) {
	h, gateway, _, userID := setup(t, ai.StubResponse{Content: generatedWorkout})

	w := generate(h, userID, `{"date":"2025-04-01","focus":"upper_body","duration":30,"equipment":["dumbbells","bench"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Data.AIGenerated)
	assert.Equal(t, "advanced", resp.Data.Difficulty)
	assert.Equal(t, 30, resp.Data.Duration)
	assert.Equal(t, []string{"Stretch"}, resp.Data.Recommendations)
	assert.Contains(t, gateway.Calls()[0].User, "- Available equipment: dumbbells, bench")
}

func TestHandleGenerateRejects(t *testing.T) {
	h, _, _, userID := setup(t)

	for _, body := range []string{
		`{}`,
		`{"date":"2025-04-01","focus":"legs"}`,
		`{"date":"2025-04-01","duration":10}`,
		`{"date":"2025-04-01","duration":200}`,
	} {
		w := generate(h, userID, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-workout-plan", bytes.NewBufferString(`{"date":"2025-04-01"}`))
	w := httptest.NewRecorder()
	h.HandleGenerate(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleList(t *testing.T) {
	h, _, _, userID := setup(t)
	for _, day := range []string{"2025-04-01", "2025-04-03"} {
		require.Equal(t, http.StatusOK, generate(h, userID, `{"date":"`+day+`"}`).Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/workout-plans?endDate=2025-04-02", nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	h.HandleList(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.WorkoutPlans, 1)
	assert.Equal(t, "2025-04-01", resp.WorkoutPlans[0].Date)
}
