package mealplans

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

const generatedPlan = `{
  "meals": {
    "breakfast": {"name": "Oats", "foods": [{"name": "Oatmeal", "calories": 300, "protein": 10, "carbs": 50, "fat": 6}]},
    "lunch": {"name": "Salad", "foods": [{"name": "Chickpeas", "calories": 400}]},
    "dinner": {"name": "Tofu", "foods": [{"name": "Tofu stir fry", "calories": 500}]},
    "snacks": []
  },
  "recommendations": ["Drink water"]
}`

type fixture struct {
	store   *memory.MemoryStorage
	gateway *ai.StubGateway
	handler *Handler
	userID  uuid.UUID
}

func newFixture(t *testing.T, responses ...ai.StubResponse) *fixture {
	t.Helper()
	store := memory.New()

	weight, height := 70.0, 175.0
	goal, level := "lose_weight", "moderate"
	dob := time.Date(time.Now().Year()-25, time.January, 1, 0, 0, 0, 0, time.UTC)
	user := &storage.User{
		Email:         "meals@example.com",
		Name:          "Ana",
		DateOfBirth:   &dob,
		WeightKg:      &weight,
		HeightCm:      &height,
		Goal:          &goal,
		ActivityLevel: &level,
		Restrictions:  []string{"vegan"},
	}
	require.NoError(t, store.CreateUser(context.Background(), user))

	gateway := ai.NewStubGateway(responses...)
	service := NewService(profiles.NewService(store), fitness.NewComposer(gateway, nil), store, nil)
	return &fixture{
		store:   store,
		gateway: gateway,
		handler: NewHandler(service, nil),
		userID:  user.ID,
	}
}

func (f *fixture) generate(t *testing.T, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-meal-plan", bytes.NewBufferString(body))
	req = req.WithContext(userctx.WithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	f.handler.HandleGenerate(w, req)
	return w
}

func TestHandleGenerateUsesGeneratedPlan(t *testing.T) {
	f := newFixture(t, ai.StubResponse{Content: generatedPlan})

	w := f.generate(t, f.userID, `{"date":"2025-03-04","preferences":{"cuisine":"thai","spicy":true}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.AIGenerated)
	assert.Equal(t, fitness.SourceGenerated, resp.Data.Source)
	assert.Equal(t, "2025-03-04", resp.Data.Date)
	assert.Equal(t, 1200.0, resp.Data.TotalCalories)
	assert.Equal(t, []string{"Drink water"}, resp.Data.Recommendations)

	calls := f.gateway.Calls()
	require.Len(t, calls, 1)
	prompt := calls[0].User
	assert.Contains(t, prompt, "- Restrictions: vegan")
	assert.Contains(t, prompt, "- Target calories: 2094")
	assert.Contains(t, prompt, "cuisine: thai")
	assert.Contains(t, prompt, "spicy: true")

	stored, err := f.store.ListMealPlans(context.Background(), f.userID, storage.PlanFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, resp.Data.ID, stored[0].ID)
}

func TestHandleGenerateFallsBack(t *testing.T) {
	f := newFixture(t)

	w := f.generate(t, f.userID, `{"date":"2025-03-04","restrictions":["gluten-free"],"targetCalories":1800}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Data.AIGenerated)
	assert.Equal(t, fitness.SourceFallback, resp.Data.Source)
	assert.Equal(t, 1533.0, resp.Data.TotalCalories)
	assert.NotEmpty(t, resp.Data.Recommendations)

	calls := f.gateway.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].User, "- Restrictions: gluten-free")
	assert.Contains(t, calls[0].User, "- Target calories: 1800")
}

func TestHandleGenerateRejects(t *testing.T) {
	f := newFixture(t)

	cases := map[string]string{
		"missing date":   `{}`,
		"bad date":       `{"date":"tomorrow"}`,
		"target too low": `{"date":"2025-03-04","targetCalories":500}`,
		"target high":    `{"date":"2025-03-04","targetCalories":6000}`,
		"malformed":      `{"date":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := f.generate(t, f.userID, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := f.generate(t, uuid.New(), `{"date":"2025-03-04"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleList(t *testing.T) {
	f := newFixture(t)

	for _, day := range []string{"2025-01-01", "2025-01-05", "2025-01-03"} {
		require.Equal(t, http.StatusOK, f.generate(t, f.userID, `{"date":"`+day+`"}`).Code)
	}

	list := func(query string) (*httptest.ResponseRecorder, ListResponse) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/meal-plans"+query, nil)
		req = req.WithContext(userctx.WithUserID(req.Context(), f.userID))
		w := httptest.NewRecorder()
		f.handler.HandleList(w, req)
		var resp ListResponse
		if w.Code == http.StatusOK {
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		}
		return w, resp
	}

	_, all := list("")
	require.Len(t, all.MealPlans, 3)
	dates := make([]string, 0, 3)
	for _, p := range all.MealPlans {
		dates = append(dates, p.Date)
	}
	assert.Equal(t, "2025-01-05,2025-01-03,2025-01-01", strings.Join(dates, ","))

	_, ranged := list("?startDate=2025-01-02&limit=1")
	require.Len(t, ranged.MealPlans, 1)
	assert.Equal(t, "2025-01-05", ranged.MealPlans[0].Date)

	w, _ := list("?limit=500")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
