package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitai/fitai/internal/blob"
	"github.com/fitai/fitai/internal/progress"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidDateRange = errors.New("endDate must not be before startDate")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrReportNotFound   = errors.New("report not found")
)

const contentTypePDF = "application/pdf"

// Analyzer produces the progress analysis a report renders.
type Analyzer interface {
	Analyze(ctx context.Context, userID uuid.UUID, period storage.Period) (*progress.Analysis, error)
}

// UserLookup resolves the display name printed on the report.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error)
}

type Service struct {
	reports      storage.ReportsStorage
	users        UserLookup
	analyzer     Analyzer
	blobStore    blob.Store
	maxRangeDays int
	presignTTL   int
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	reports storage.ReportsStorage,
	users UserLookup,
	analyzer Analyzer,
	blobStore blob.Store,
	maxRangeDays int,
	presignTTL int,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reports:      reports,
		users:        users,
		analyzer:     analyzer,
		blobStore:    blobStore,
		maxRangeDays: maxRangeDays,
		presignTTL:   presignTTL,
		logger:       logger.Named("reports"),
		now:          time.Now,
	}
}

func (s *Service) MaxRangeDays() int {
	return s.maxRangeDays
}

// CreateProgressReport renders the progress analysis for [from, to] to PDF,
// uploads it and records its metadata.
func (s *Service) CreateProgressReport(ctx context.Context, userID uuid.UUID, from, to time.Time) (*storage.ReportMeta, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	if int(to.Sub(from).Hours()/24) > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	analysis, err := s.analyzer.Analyze(ctx, userID, storage.Period{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze progress: %w", err)
	}

	var name string
	if user, err := s.users.GetUser(ctx, userID); err == nil {
		name = user.Name
	}

	data, err := RenderProgressPDF(name, analysis, s.now())
	if err != nil {
		return nil, err
	}

	report := &storage.ReportMeta{
		ID:       uuid.New(),
		UserID:   userID,
		Format:   FormatPDF,
		FromDate: from.Format(validation.DateLayout),
		ToDate:   to.Format(validation.DateLayout),
	}
	report.ObjectKey = fmt.Sprintf("reports/%s/%s_%s_%s.pdf", userID, report.FromDate, report.ToDate, report.ID)

	size, err := s.blobStore.PutObject(ctx, report.ObjectKey, data, contentTypePDF)
	if err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}
	report.SizeBytes = size

	if err := s.reports.CreateReport(ctx, report); err != nil {
		if delErr := s.blobStore.DeleteObject(ctx, report.ObjectKey); delErr != nil {
			s.logger.Warn("failed to remove orphaned report object", zap.String("key", report.ObjectKey), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	s.logger.Info("progress report created",
		zap.String("report_id", report.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("size_bytes", size),
	)
	return report, nil
}

// GetReport returns the report when it belongs to userID. Reports owned by
// someone else are reported as not found.
func (s *Service) GetReport(ctx context.Context, userID, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reports.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if meta.UserID != userID {
		return nil, ErrReportNotFound
	}
	return meta, nil
}

func (s *Service) ListReports(ctx context.Context, userID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	reports, err := s.reports.ListReports(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ReportData returns the PDF bytes of an owned report.
func (s *Service) ReportData(ctx context.Context, userID, id uuid.UUID) (*storage.ReportMeta, []byte, error) {
	meta, err := s.GetReport(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobStore.GetObject(ctx, meta.ObjectKey)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			return nil, nil, ErrReportNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	return meta, data, nil
}

// DownloadURL presigns the object; stores without presigning yield "".
func (s *Service) DownloadURL(ctx context.Context, meta *storage.ReportMeta) (string, error) {
	url, err := s.blobStore.PresignGet(ctx, meta.ObjectKey, s.presignTTL)
	if errors.Is(err, blob.ErrPresignUnsupported) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to presign report: %w", err)
	}
	return url, nil
}

func (s *Service) DeleteReport(ctx context.Context, userID, id uuid.UUID) error {
	meta, err := s.GetReport(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.blobStore.DeleteObject(ctx, meta.ObjectKey); err != nil {
		s.logger.Warn("failed to delete report object", zap.String("key", meta.ObjectKey), zap.Error(err))
	}

	if err := s.reports.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}
	return nil
}
