package reports

import (
	"time"

	"github.com/google/uuid"
)

const FormatPDF = "pdf"

// CreateProgressReportRequest is the body of POST /api/reports/progress.
type CreateProgressReportRequest struct {
	StartDate string `json:"startDate" validate:"required,date"`
	EndDate   string `json:"endDate" validate:"required,date"`
}

// ReportDTO is the response representation of a report. DownloadURL is
// omitted when the blob store cannot presign.
type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	Format      string    `json:"format"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	SizeBytes   int64     `json:"size_bytes"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
