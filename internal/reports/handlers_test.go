package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitai/fitai/internal/blob"
	"github.com/fitai/fitai/internal/progress"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/storage/memory"
	"github.com/fitai/fitai/internal/userctx"
	"github.com/google/uuid"
)

func setupTestHandlers(t *testing.T) (*Handlers, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	user := &storage.User{Email: "report@example.com", Name: "Report User"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	calories := 1850.0
	for _, d := range []int{2, 3} {
		err := store.CreateLog(ctx, &storage.ActivityLog{
			UserID:   user.ID,
			Type:     "food",
			Data:     []byte(`{"meal":"lunch"}`),
			Calories: &calories,
			Date:     time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("create log: %v", err)
		}
	}
	err := store.CreateLog(ctx, &storage.ActivityLog{
		UserID: user.ID,
		Type:   "weight",
		Data:   []byte(`{"weight":71.5}`),
		Date:   time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create log: %v", err)
	}

	service := NewService(store, store, progress.NewService(store), blob.NewMemoryStore(), 90, 900, nil)
	return NewHandlers(service, nil), user.ID
}

func do(h http.HandlerFunc, method, target string, userID uuid.UUID, body interface{}, pathID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	if userID != uuid.Nil {
		req = req.WithContext(userctx.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandleCreateProgress_Success(t *testing.T) {
	h, userID := setupTestHandlers(t)

	w := do(h.HandleCreateProgress, http.MethodPost, "/api/reports/progress", userID,
		CreateProgressReportRequest{StartDate: "2026-02-01", EndDate: "2026-02-15"}, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp ReportDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Format != FormatPDF {
		t.Errorf("expected format pdf, got %s", resp.Format)
	}
	if resp.SizeBytes <= 0 {
		t.Errorf("expected positive size, got %d", resp.SizeBytes)
	}
	if resp.DownloadURL != "" {
		t.Errorf("memory store should not presign, got %q", resp.DownloadURL)
	}
	if resp.From != "2026-02-01" || resp.To != "2026-02-15" {
		t.Errorf("unexpected range %s..%s", resp.From, resp.To)
	}
}

func TestHandleCreateProgress_Validation(t *testing.T) {
	h, userID := setupTestHandlers(t)

	tests := []struct {
		name string
		req  CreateProgressReportRequest
		code string
	}{
		{"missing end", CreateProgressReportRequest{StartDate: "2026-02-01"}, "validation_error"},
		{"bad format", CreateProgressReportRequest{StartDate: "02/01/2026", EndDate: "2026-02-15"}, "validation_error"},
		{"reversed", CreateProgressReportRequest{StartDate: "2026-02-15", EndDate: "2026-02-01"}, "invalid_range"},
		{"too large", CreateProgressReportRequest{StartDate: "2026-01-01", EndDate: "2026-06-01"}, "range_too_large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h.HandleCreateProgress, http.MethodPost, "/api/reports/progress", userID, tt.req, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}
			var resp ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error.Code != tt.code {
				t.Errorf("expected error code %s, got %s", tt.code, resp.Error.Code)
			}
		})
	}
}

func TestHandleCreateProgress_Unauthorized(t *testing.T) {
	h, _ := setupTestHandlers(t)

	w := do(h.HandleCreateProgress, http.MethodPost, "/api/reports/progress", uuid.Nil,
		CreateProgressReportRequest{StartDate: "2026-02-01", EndDate: "2026-02-15"}, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestHandleDownload(t *testing.T) {
	h, userID := setupTestHandlers(t)

	created := do(h.HandleCreateProgress, http.MethodPost, "/api/reports/progress", userID,
		CreateProgressReportRequest{StartDate: "2026-02-01", EndDate: "2026-02-15"}, "")
	var report ReportDTO
	if err := json.NewDecoder(created.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	w := do(h.HandleDownload, http.MethodGet, "/api/reports/x/download", userID, nil, report.ID.String())
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Error("expected PDF body")
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "progress_2026-02-01_2026-02-15.pdf") {
		t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}

	// Another user sees the report as missing.
	other := do(h.HandleDownload, http.MethodGet, "/api/reports/x/download", uuid.New(), nil, report.ID.String())
	if other.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for foreign report, got %d", other.Code)
	}

	bad := do(h.HandleDownload, http.MethodGet, "/api/reports/x/download", userID, nil, "not-a-uuid")
	if bad.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for invalid id, got %d", bad.Code)
	}
}

func TestHandleListAndDelete(t *testing.T) {
	h, userID := setupTestHandlers(t)

	created := do(h.HandleCreateProgress, http.MethodPost, "/api/reports/progress", userID,
		CreateProgressReportRequest{StartDate: "2026-02-01", EndDate: "2026-02-10"}, "")
	var report ReportDTO
	json.NewDecoder(created.Body).Decode(&report)

	list := do(h.HandleList, http.MethodGet, "/api/reports", userID, nil, "")
	var resp ReportsResponse
	if err := json.NewDecoder(list.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Reports) != 1 || resp.Reports[0].ID != report.ID {
		t.Fatalf("expected the created report, got %+v", resp.Reports)
	}

	if w := do(h.HandleDelete, http.MethodDelete, "/api/reports/x", uuid.New(), nil, report.ID.String()); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 deleting foreign report, got %d", w.Code)
	}
	if w := do(h.HandleDelete, http.MethodDelete, "/api/reports/x", userID, nil, report.ID.String()); w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if w := do(h.HandleDownload, http.MethodGet, "/api/reports/x/download", userID, nil, report.ID.String()); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after delete, got %d", w.Code)
	}
}

func TestRenderProgressPDF(t *testing.T) {
	weight := 70.0
	later := 68.5
	analysis := progress.Analysis{
		Period: progress.PeriodLabel{Start: "beginning", End: "current"},
		Trends: progress.Trends{
			Weight: []progress.WeightPoint{{Date: "2026-02-01", Weight: &weight}, {Date: "2026-02-08", Weight: &later}},
		},
		Recommendations: []string{"Consider increasing your caloric intake"},
	}

	data, err := RenderProgressPDF("José", &analysis, time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("expected PDF header")
	}
	if got := weightDelta(analysis.Trends.Weight); got != "-1.5 kg" {
		t.Errorf("weightDelta = %q, want -1.5 kg", got)
	}
}
