package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/dbmigrate"
	"github.com/fitai/fitai/internal/httpserver"
	"github.com/fitai/fitai/internal/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("FATAL logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logStartup(cfg, logger)

	if err := validateProductionConfig(cfg); err != nil {
		return err
	}

	if cfg.RunMigrationsOnStartup {
		sel, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			return fmt.Errorf("startup migrations: %w", err)
		}
		logger.Info("running startup migrations", zap.String("using", sel.Source))
		if err := dbmigrate.Run(ctx, "up", sel.URL, dbmigrate.DefaultMigrationsDir, logger); err != nil {
			return fmt.Errorf("startup migrations: %w", err)
		}
	}

	server, err := httpserver.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// logStartup prints the resolved configuration. Secrets are reported as
// set or not set only.
func logStartup(cfg *config.Config, logger *zap.Logger) {
	level, code, msg := cfg.Blob.S3.Diagnostics()
	logger.Info("configuration",
		zap.Int("port", cfg.Port),
		zap.String("database", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)),
		zap.Bool("migrations_on_startup", cfg.RunMigrationsOnStartup),
		zap.String("jwt_secret", secretStatus(cfg.JWTSecret, config.DefaultJWTSecret)),
		zap.Int("jwt_ttl_minutes", cfg.JWTTTLMinutes),
		zap.String("openai_api_key", setOrNot(cfg.OpenAIAPIKey)),
		zap.String("openai_model", cfg.OpenAIModel),
		zap.Bool("cron_enabled", cfg.CronEnabled),
		zap.String("cron_secret", setOrNot(cfg.CronSecret)),
		zap.String("blob_mode", cfg.Blob.Mode),
		zap.String("s3_status", fmt.Sprintf("%s %s: %s", level, code, msg)),
		zap.Strings("cors_origins", cfg.CORSAllowedOrigins),
		zap.Int("rate_limit_rps", cfg.RateLimitRPS),
	)
}

// validateProductionConfig performs checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) error {
	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			return fmt.Errorf("BLOB_MODE=s3 but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if !cfg.IsProduction() {
		return nil
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in " + cfg.Env)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("no DATABASE_URL configured in " + cfg.Env)
	}
	return nil
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return "default (insecure)"
	}
	return "set"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (pooled)"
	}
	return "set"
}
