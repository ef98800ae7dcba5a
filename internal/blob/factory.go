package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fitai/fitai/internal/config"
	"go.uber.org/zap"
)

// NewBlobStore builds a blob store using mode local|s3|auto. Local mode and
// the auto fallback return a MemoryStore.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger *zap.Logger) (Store, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("blob")

	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		logger.Info("blob store selected", zap.String("mode", "local"), zap.String("reason", "forced"))
		return NewMemoryStore(), appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			logDiagnostics(logger, level, code, msg)
			logger.Info("blob store selected",
				zap.String("mode", "local"),
				zap.String("reason", "auto, S3 not configured"),
				zap.String("s3", cfg.S3.DiagnosticsSummary()),
			)
			return NewMemoryStore(), appcfg.BlobModeLocal, nil
		}

		store, err := newS3(ctx, cfg.S3)
		if err != nil {
			logger.Warn("s3 init failed, falling back to local", zap.Error(err))
			return NewMemoryStore(), appcfg.BlobModeLocal, nil
		}

		logger.Info("blob store selected", zap.String("mode", "s3"), zap.String("reason", "auto, configured"))
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			logger.Error("s3 config incomplete",
				zap.Strings("missing", missing),
				zap.String("s3", cfg.S3.DiagnosticsSummary()),
			)
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		store, err := newS3(ctx, cfg.S3)
		if err != nil {
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		logger.Info("blob store selected", zap.String("mode", "s3"), zap.String("reason", "forced"))
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func newS3(ctx context.Context, cfg appcfg.S3Config) (*S3Store, error) {
	store, err := NewS3Store(ctx, cfg.Endpoint, cfg.Region, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey)
	if err != nil {
		return nil, err
	}
	if cfg.PreferPublicURL && cfg.PublicBaseURL != "" {
		store.WithPublicBaseURL(cfg.PublicBaseURL)
	}
	return store, nil
}

func logDiagnostics(logger *zap.Logger, level, code, msg string) {
	fields := []zap.Field{zap.String("code", code), zap.String("detail", msg)}
	if level == "WARN" {
		logger.Warn("s3 diagnostics", fields...)
		return
	}
	logger.Info("s3 diagnostics", fields...)
}
