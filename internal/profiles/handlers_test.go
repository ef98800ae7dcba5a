package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitai/fitai/internal/fitness"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/storage/memory"
	"github.com/fitai/fitai/internal/userctx"
	"github.com/google/uuid"
)

func seedUser(t *testing.T, store *memory.MemoryStorage) *storage.User {
	t.Helper()
	weight := 80.0
	goal := "lose_weight"
	dob := time.Date(1990, time.March, 10, 0, 0, 0, 0, time.UTC)
	user := &storage.User{
		Email:        "profile@example.com",
		PasswordHash: "hash",
		Name:         "Profile User",
		DateOfBirth:  &dob,
		WeightKg:     &weight,
		Goal:         &goal,
		Restrictions: []string{"vegan"},
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	return user
}

func withUser(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(userctx.WithUserID(req.Context(), id))
}

func TestHandleGet(t *testing.T) {
	store := memory.New()
	user := seedUser(t, store)
	handler := NewHandler(NewService(store), nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), user.ID)
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp ProfileResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.Email != "profile@example.com" {
		t.Errorf("unexpected email %q", resp.User.Email)
	}
	if resp.User.DateOfBirth == nil || *resp.User.DateOfBirth != "1990-03-10" {
		t.Errorf("unexpected date_of_birth %v", resp.User.DateOfBirth)
	}
	if resp.User.Age == nil {
		t.Error("expected age derived from date_of_birth")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("hash")) {
		t.Error("password hash must not be serialized")
	}
}

func TestHandleGetUnauthorized(t *testing.T) {
	handler := NewHandler(NewService(memory.New()), nil)

	w := httptest.NewRecorder()
	handler.HandleGet(w, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.HandleGet(w, withUser(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), uuid.New()))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown user, got %d", w.Code)
	}
}

func TestHandleUpdate(t *testing.T) {
	store := memory.New()
	user := seedUser(t, store)
	handler := NewHandler(NewService(store), nil)

	body := []byte(`{"name":"Renamed","height":180,"activityLevel":"light","restrictions":[]}`)
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader(body)), user.ID)
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	stored, err := store.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Name != "Renamed" {
		t.Errorf("expected name updated, got %q", stored.Name)
	}
	if stored.HeightCm == nil || *stored.HeightCm != 180 {
		t.Errorf("expected height 180, got %v", stored.HeightCm)
	}
	if stored.WeightKg == nil || *stored.WeightKg != 80 {
		t.Errorf("expected weight untouched, got %v", stored.WeightKg)
	}
	if stored.Goal == nil || *stored.Goal != "lose_weight" {
		t.Errorf("expected goal untouched, got %v", stored.Goal)
	}
	if len(stored.Restrictions) != 0 {
		t.Errorf("expected restrictions cleared, got %v", stored.Restrictions)
	}
}

func TestHandleUpdateValidation(t *testing.T) {
	store := memory.New()
	user := seedUser(t, store)
	handler := NewHandler(NewService(store), nil)

	for _, body := range []string{`{"age":5}`, `{"goal":"bulk"}`, `{"weight":1000}`, `{"name":"x"}`, `not json`} {
		req := withUser(httptest.NewRequest(http.MethodPut, "/api/auth/profile", bytes.NewBufferString(body)), user.ID)
		w := httptest.NewRecorder()
		handler.HandleUpdate(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected status 400, got %d", body, w.Code)
		}
	}
}

func TestFitnessProfile(t *testing.T) {
	now := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)

	bare := FitnessProfile(&storage.User{Name: "Bare"}, now)
	if bare.Age != 25 || bare.Goal != fitness.GoalMaintain {
		t.Errorf("expected defaults age=25 goal=maintain, got %d %s", bare.Age, bare.Goal)
	}
	if bare.WeightKg != 0 || bare.HeightCm != 0 {
		t.Error("expected unknown weight and height to stay zero")
	}

	dob := time.Date(1990, time.March, 10, 0, 0, 0, 0, time.UTC)
	level := "very_active"
	p := FitnessProfile(&storage.User{DateOfBirth: &dob, ActivityLevel: &level}, now)
	if p.Age != 34 {
		t.Errorf("expected age 34 the day before the birthday, got %d", p.Age)
	}
	if p.ActivityLevel != fitness.ActivityVeryActive {
		t.Errorf("unexpected activity level %s", p.ActivityLevel)
	}
}
