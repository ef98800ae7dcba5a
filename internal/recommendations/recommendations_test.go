package recommendations

import (
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

func newHandler(gateway ai.Gateway) (*Handler, *memory.MemoryStorage) {
	store := memory.New()
	return NewHandler(profiles.NewService(store), fitness.NewRecommender(gateway, nil), nil), store
}

func get(h *Handler, req *http.Request) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	h.HandleGet(w, req)
	var resp Response
	if w.Code == http.StatusOK {
		json.NewDecoder(w.Body).Decode(&resp)
	}
	return w, resp
}

func TestAnonymousUsesQuery(t *testing.T) {
	h, _ := newHandler(ai.NewStubGateway())

	req := httptest.NewRequest(http.MethodGet, "/api/ai/recommendations?goal=gain_muscle&activityLevel=light&age=30&weight=80&height=180", nil)
	w, resp := get(h, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.True(t, resp.Success)
	assert.Equal(t, fitness.SourceFallback, resp.Data.Recommendations.Source)
	assert.Len(t, resp.Data.Recommendations.Recommendations, 5)
	// 10*80 + 6.25*180 - 5*30 + 5 = 1780; *1.375 = 2447.5; +300
	assert.Equal(t, 2748, resp.Data.Recommendations.EstimatedCalories)
	assert.Equal(t, "gain_muscle", resp.Data.UserData.Goal)
	require.NotNil(t, resp.Data.UserData.Age)
	assert.Equal(t, 30, *resp.Data.UserData.Age)
}

func TestAnonymousDefaults(t *testing.T) {
	h, _ := newHandler(ai.NewStubGateway())

	w, resp := get(h, httptest.NewRequest(http.MethodGet, "/api/ai/recommendations", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fitness", resp.Data.UserData.Goal)
	assert.Equal(t, "moderate", resp.Data.UserData.ActivityLevel)
	assert.Nil(t, resp.Data.UserData.Weight)
	assert.Equal(t, 2000, resp.Data.Recommendations.EstimatedCalories)
}

func TestAnonymousRejectsBadQuery(t *testing.T) {
	h, _ := newHandler(ai.NewStubGateway())

	for _, q := range []string{"?age=abc", "?weight=heavy", "?goal=bulk", "?activityLevel=couch", "?age=5", "?height=20"} {
		w, _ := get(h, httptest.NewRequest(http.MethodGet, "/api/ai/recommendations"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestAuthenticatedUsesAccount(t *testing.T) {
	gateway := ai.NewStubGateway(ai.StubResponse{Content: `{"recommendations":["Sleep 8 hours"],"estimatedCalories":2222.4}`})
	h, store := newHandler(gateway)

	weight := 60.0
	goal := "lose_weight"
	user := &storage.User{Email: "rec@example.com", Name: "Rec", WeightKg: &weight, Goal: &goal}
	require.NoError(t, store.CreateUser(context.Background(), user))

	req := httptest.NewRequest(http.MethodGet, "/api/ai/recommendations?goal=gain_muscle", nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), user.ID))
	w, resp := get(h, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, fitness.SourceGenerated, resp.Data.Recommendations.Source)
	assert.Equal(t, []string{"Sleep 8 hours"}, resp.Data.Recommendations.Recommendations)
	assert.Equal(t, 2222, resp.Data.Recommendations.EstimatedCalories)
	assert.Equal(t, "lose_weight", resp.Data.UserData.Goal)
	require.NotNil(t, resp.Data.UserData.Age)
	assert.Equal(t, 25, *resp.Data.UserData.Age)

	calls := gateway.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].User, "lose_weight")
}

func TestUnknownAccountFallsBackToQuery(t *testing.T) {
	h, _ := newHandler(ai.NewStubGateway())

	req := httptest.NewRequest(http.MethodGet, "/api/ai/recommendations?goal=maintain", nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), uuid.New()))
	w, resp := get(h, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "maintain", resp.Data.UserData.Goal)
}
