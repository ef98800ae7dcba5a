package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/userctx"
	"github.com/fitai/fitai/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handlers serves /api/reports.
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

// HandleCreateProgress handles POST /api/reports/progress
func (h *Handlers) HandleCreateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req CreateProgressReportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", validation.Message(err))
		return
	}

	// Both dates passed the date tag, so parsing cannot fail here.
	from, _ := time.Parse(validation.DateLayout, req.StartDate)
	to, _ := time.Parse(validation.DateLayout, req.EndDate)

	report, err := h.service.CreateProgressReport(r.Context(), userID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDateRange):
			writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
		case errors.Is(err, ErrRangeTooLarge):
			writeError(w, http.StatusBadRequest, "range_too_large",
				fmt.Sprintf("Date range exceeds maximum of %d days", h.service.MaxRangeDays()))
		default:
			h.logger.Error("create progress report failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create report")
		}
		return
	}

	writeJSON(w, http.StatusCreated, h.toDTO(r, report))
}

// HandleList handles GET /api/reports?limit=&offset=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	limit, err := validation.ParseLimit(r.URL.Query().Get("limit"), defaultListLimit, maxListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "validation_error", "offset must be a non-negative integer")
			return
		}
	}

	reports, err := h.service.ListReports(r.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("list reports failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		return
	}

	dtos := make([]ReportDTO, len(reports))
	for i := range reports {
		dtos[i] = h.toDTO(r, &reports[i])
	}
	writeJSON(w, http.StatusOK, ReportsResponse{Reports: dtos})
}

// HandleDownload handles GET /api/reports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	meta, data, err := h.service.ReportData(r.Context(), userID, reportID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
			return
		}
		h.logger.Error("download report failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to download report")
		return
	}

	filename := fmt.Sprintf("progress_%s_%s.pdf", meta.FromDate, meta.ToDate)
	w.Header().Set("Content-Type", contentTypePDF)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleDelete handles DELETE /api/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	if err := h.service.DeleteReport(r.Context(), userID, reportID); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
			return
		}
		h.logger.Error("delete report failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toDTO(r *http.Request, meta *storage.ReportMeta) ReportDTO {
	url, err := h.service.DownloadURL(r.Context(), meta)
	if err != nil {
		h.logger.Warn("presign failed", zap.String("report_id", meta.ID.String()), zap.Error(err))
	}
	return ReportDTO{
		ID:          meta.ID,
		Format:      meta.Format,
		From:        meta.FromDate,
		To:          meta.ToDate,
		SizeBytes:   meta.SizeBytes,
		DownloadURL: url,
		CreatedAt:   meta.CreatedAt,
	}
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
