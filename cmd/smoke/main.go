package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
)

const defaultAPIBase = "http://localhost:3001"

var (
	apiBase    string
	cronSecret string
	token      string
	email      string
	password   = "Smoke123pass"
	client     = &http.Client{Timeout: 60 * time.Second}
	testDate   string
	createdIDs = make(map[string]string)
)

func main() {
	fmt.Println("=== FitAI E2E Smoke Test ===")
	fmt.Println()

	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	cronSecret = getEnv("CRON_SECRET", "")
	email = getEnv("SMOKE_EMAIL", fmt.Sprintf("smoke-%s@example.com", uuid.NewString()[:8]))
	testDate = time.Now().Format("2006-01-02")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Email: %s\n", email)
	fmt.Printf("Cron secret: %s\n", maskString(cronSecret))
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Register", testRegister},
		{"Login", testLogin},
		{"Get Profile", testGetProfile},
		{"Update Profile", testUpdateProfile},
		{"Create Activity Log", testCreateLog},
		{"List Activity Logs", testListLogs},
		{"Generate Meal Plan", testGenerateMealPlan},
		{"Generate Workout Plan", testGenerateWorkoutPlan},
		{"List Plans", testListPlans},
		{"Recommendations", testRecommendations},
		{"Progress Analysis", testProgressAnalysis},
		{"Statistics", testStatistics},
		{"Catalog Search", testCatalog},
		{"Cron Status", testCronStatus},
		{"Create Progress Report", testCreateReport},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}
	fmt.Println("ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := do(http.MethodGet, "/healthz", nil, http.StatusOK, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("status=%q", resp.Status)
	}
	return nil
}

func testRegister() error {
	var resp struct {
		Token string `json:"token"`
	}
	err := do(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":         email,
		"password":      password,
		"name":          "Smoke Test",
		"age":           30,
		"weight":        75,
		"height":        178,
		"goal":          "improve_fitness",
		"activityLevel": "moderate",
	}, http.StatusCreated, &resp)
	if err != nil {
		return err
	}
	token = resp.Token
	return nil
}

func testLogin() error {
	var resp struct {
		Token string `json:"token"`
	}
	err := do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, http.StatusOK, &resp)
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("empty token")
	}
	token = resp.Token
	return nil
}

func testGetProfile() error {
	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := do(http.MethodGet, "/api/auth/profile", nil, http.StatusOK, &resp); err != nil {
		return err
	}
	if !strings.EqualFold(resp.User.Email, email) {
		return fmt.Errorf("email=%q", resp.User.Email)
	}
	return nil
}

func testUpdateProfile() error {
	return do(http.MethodPut, "/api/auth/profile", map[string]interface{}{
		"restrictions": []string{"vegetarian"},
	}, http.StatusOK, nil)
}

func testCreateLog() error {
	var resp struct {
		Log struct {
			ID string `json:"id"`
		} `json:"log"`
	}
	err := do(http.MethodPost, "/api/users/logs", map[string]interface{}{
		"type":     "food",
		"data":     map[string]string{"meal": "breakfast", "description": "oatmeal"},
		"calories": 420,
		"date":     testDate,
	}, http.StatusCreated, &resp)
	if err != nil {
		return err
	}
	createdIDs["log"] = resp.Log.ID
	return nil
}

func testListLogs() error {
	var resp struct {
		Logs []json.RawMessage `json:"logs"`
	}
	if err := do(http.MethodGet, "/api/users/logs?type=food&limit=10", nil, http.StatusOK, &resp); err != nil {
		return err
	}
	if len(resp.Logs) == 0 {
		return fmt.Errorf("expected at least one log")
	}
	return nil
}

func testGenerateMealPlan() error {
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID          string `json:"id"`
			AIGenerated bool   `json:"aiGenerated"`
		} `json:"data"`
	}
	err := do(http.MethodPost, "/api/ai/generate-meal-plan", map[string]interface{}{
		"date":        testDate,
		"preferences": map[string]string{"cuisine": "mediterranean"},
	}, http.StatusOK, &resp)
	if err != nil {
		return err
	}
	if !resp.Success || resp.Data.ID == "" {
		return fmt.Errorf("unexpected response success=%t id=%q", resp.Success, resp.Data.ID)
	}
	fmt.Printf("(generated=%t) ", resp.Data.AIGenerated)
	return nil
}

func testGenerateWorkoutPlan() error {
	return do(http.MethodPost, "/api/ai/generate-workout-plan", map[string]interface{}{
		"date":      testDate,
		"focus":     "cardio",
		"duration":  30,
		"equipment": []string{"bodyweight"},
	}, http.StatusOK, nil)
}

func testListPlans() error {
	if err := do(http.MethodGet, "/api/users/meal-plans?limit=5", nil, http.StatusOK, nil); err != nil {
		return err
	}
	return do(http.MethodGet, "/api/users/workout-plans?limit=5", nil, http.StatusOK, nil)
}

func testRecommendations() error {
	var resp struct {
		Data struct {
			Recommendations struct {
				Recommendations []string `json:"recommendations"`
			} `json:"recommendations"`
		} `json:"data"`
	}
	if err := do(http.MethodGet, "/api/ai/recommendations", nil, http.StatusOK, &resp); err != nil {
		return err
	}
	if len(resp.Data.Recommendations.Recommendations) == 0 {
		return fmt.Errorf("no recommendations")
	}
	return nil
}

func testProgressAnalysis() error {
	return do(http.MethodGet, "/api/ai/progress-analysis?startDate="+testDate, nil, http.StatusOK, nil)
}

func testStatistics() error {
	var resp struct {
		Statistics struct {
			TotalLogs int `json:"totalLogs"`
		} `json:"statistics"`
	}
	if err := do(http.MethodGet, "/api/users/statistics", nil, http.StatusOK, &resp); err != nil {
		return err
	}
	if resp.Statistics.TotalLogs < 1 {
		return fmt.Errorf("totalLogs=%d", resp.Statistics.TotalLogs)
	}
	return nil
}

func testCatalog() error {
	if err := do(http.MethodGet, "/api/ai/exercises?difficulty=beginner", nil, http.StatusOK, nil); err != nil {
		return err
	}
	return do(http.MethodGet, "/api/ai/foods?maxCalories=400", nil, http.StatusOK, nil)
}

func testCronStatus() error {
	return do(http.MethodGet, "/api/cron/status", nil, http.StatusOK, nil)
}

func testCreateReport() error {
	var resp struct {
		ID        string `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	from := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	err := do(http.MethodPost, "/api/reports/progress", map[string]string{
		"startDate": from,
		"endDate":   testDate,
	}, http.StatusCreated, &resp)
	if err != nil {
		return err
	}
	if resp.SizeBytes <= 0 {
		return fmt.Errorf("size_bytes=%d", resp.SizeBytes)
	}
	createdIDs["report"] = resp.ID
	return nil
}

func testDownloadReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to download")
	}

	resp, err := send(http.MethodGet, "/api/reports/"+reportID+"/download", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
	head := make([]byte, 5)
	if _, err := io.ReadFull(resp.Body, head); err != nil || string(head) != "%PDF-" {
		return fmt.Errorf("body is not a PDF")
	}
	return nil
}

func testDeleteReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to delete")
	}
	return do(http.MethodDelete, "/api/reports/"+reportID, nil, http.StatusNoContent, nil)
}

// Helper functions

// do sends a JSON request, checks the status and decodes into out when set.
func do(method, path string, body interface{}, wantStatus int, out interface{}) error {
	resp, err := send(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func send(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cronSecret != "" && strings.HasPrefix(path, "/api/cron/") {
		req.Header.Set("X-Cron-Secret", cronSecret)
	}
	return client.Do(req)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
