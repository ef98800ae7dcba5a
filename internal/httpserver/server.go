// Package httpserver assembles storage, generation and the feature handlers
// behind one http.Server.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fitai/fitai/internal/activity"
	"github.com/fitai/fitai/internal/ai"
	"github.com/fitai/fitai/internal/auth"
	"github.com/fitai/fitai/internal/blob"
	"github.com/fitai/fitai/internal/catalog"
	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/fitness"
	"github.com/fitai/fitai/internal/logging"
	"github.com/fitai/fitai/internal/mealplans"
	"github.com/fitai/fitai/internal/profiles"
	"github.com/fitai/fitai/internal/progress"
	"github.com/fitai/fitai/internal/recommendations"
	"github.com/fitai/fitai/internal/reports"
	"github.com/fitai/fitai/internal/seeding"
	"github.com/fitai/fitai/internal/storage"
	"github.com/fitai/fitai/internal/storage/memory"
	"github.com/fitai/fitai/internal/storage/postgres"
	"github.com/fitai/fitai/internal/workouts"
	"go.uber.org/zap"
)

// Server owns the router and the long lived dependencies behind it.
type Server struct {
	config         *config.Config
	logger         *zap.Logger
	mux            *http.ServeMux
	storage        storage.Storage
	storageMode    string
	gateway        ai.Gateway
	blobStore      blob.Store
	blobMode       string
	seeder         *seeding.Seeder
	scheduler      *seeding.Scheduler
	authMiddleware *auth.Middleware
	httpServer     *http.Server
}

type Option func(*Server)

// WithStorage skips DATABASE_URL resolution.
func WithStorage(st storage.Storage) Option {
	return func(s *Server) {
		s.storage = st
		s.storageMode = "injected"
	}
}

// WithGateway replaces the OpenAI gateway.
func WithGateway(g ai.Gateway) Option {
	return func(s *Server) { s.gateway = g }
}

func WithBlobStore(b blob.Store) Option {
	return func(s *Server) {
		s.blobStore = b
		s.blobMode = "injected"
	}
}

// New builds the server. Storage, gateway and blob store come from cfg
// unless supplied through options.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		config: cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initStorage(ctx); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		gateway := ai.NewOpenAIGateway(cfg)
		if !gateway.Configured() {
			logger.Warn("OPENAI_API_KEY not set, generation falls back to defaults")
		}
		s.gateway = gateway
	}
	if s.blobStore == nil {
		store, mode, err := blob.NewBlobStore(ctx, cfg.Blob, logger)
		if err != nil {
			return nil, err
		}
		s.blobStore, s.blobMode = store, mode
	}

	s.seeder = seeding.NewSeeder(s.gateway, s.storage, logger)
	if cfg.CronEnabled {
		scheduler, err := seeding.NewScheduler(s.seeder, s.schedule(), logger)
		if err != nil {
			return nil, err
		}
		s.scheduler = scheduler
	}

	s.routes()
	return s, nil
}

// initStorage connects to Postgres when DATABASE_URL is set. Outside
// production a failed connection falls back to memory.
func (s *Server) initStorage(ctx context.Context) error {
	if s.storage != nil {
		return nil
	}
	if s.config.DatabaseURL == "" {
		s.logger.Info("using in-memory storage")
		s.storage, s.storageMode = memory.New(), "memory"
		return nil
	}

	s.logger.Info("connecting to PostgreSQL")
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		if s.config.IsProduction() {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		s.logger.Warn("PostgreSQL unavailable, falling back to in-memory storage", zap.Error(err))
		s.storage, s.storageMode = memory.New(), "memory"
		return nil
	}

	s.logger.Info("PostgreSQL connected")
	s.storage, s.storageMode = pgStorage, "postgres"
	return nil
}

func (s *Server) schedule() seeding.Schedule {
	return seeding.Schedule{
		Exercise: s.config.CronExerciseSchedule,
		Food:     s.config.CronFoodSchedule,
	}
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth API
	authService := auth.NewService(s.config, s.storage, s.logger)
	authHandlers := auth.NewHandlers(authService, s.logger)
	s.authMiddleware = auth.NewMiddleware(authService, s.logger)

	s.mux.HandleFunc("POST /api/auth/register", authHandlers.HandleRegister)
	s.mux.HandleFunc("POST /api/auth/login", authHandlers.HandleLogin)
	s.mux.HandleFunc("PUT /api/auth/change-password", authHandlers.HandleChangePassword)

	profileService := profiles.NewService(s.storage)
	profileHandler := profiles.NewHandler(profileService, s.logger)
	s.mux.HandleFunc("GET /api/auth/profile", profileHandler.HandleGet)
	s.mux.HandleFunc("PUT /api/auth/profile", profileHandler.HandleUpdate)

	// Activity logs and statistics
	activityHandler := activity.NewHandler(activity.NewService(s.storage), s.logger)
	s.mux.HandleFunc("POST /api/users/logs", activityHandler.HandleCreate)
	s.mux.HandleFunc("GET /api/users/logs", activityHandler.HandleList)

	progressService := progress.NewService(s.storage)
	progressHandler := progress.NewHandler(progressService, s.logger)
	s.mux.HandleFunc("GET /api/users/statistics", progressHandler.HandleStatistics)
	s.mux.HandleFunc("GET /api/ai/progress-analysis", progressHandler.HandleAnalysis)

	// Plan generation
	composer := fitness.NewComposer(s.gateway, s.logger)

	mealPlansHandler := mealplans.NewHandler(mealplans.NewService(profileService, composer, s.storage, s.logger), s.logger)
	s.mux.HandleFunc("POST /api/ai/generate-meal-plan", mealPlansHandler.HandleGenerate)
	s.mux.HandleFunc("GET /api/users/meal-plans", mealPlansHandler.HandleList)

	workoutsHandler := workouts.NewHandler(workouts.NewService(profileService, composer, s.storage, s.logger), s.logger)
	s.mux.HandleFunc("POST /api/ai/generate-workout-plan", workoutsHandler.HandleGenerate)
	s.mux.HandleFunc("GET /api/users/workout-plans", workoutsHandler.HandleList)

	recommender := fitness.NewRecommender(s.gateway, s.logger)
	recommendationsHandler := recommendations.NewHandler(profileService, recommender, s.logger)
	s.mux.HandleFunc("GET /api/ai/recommendations", recommendationsHandler.HandleGet)

	// Catalog
	catalogHandler := catalog.NewHandler(catalog.NewService(s.storage), s.logger)
	s.mux.HandleFunc("GET /api/ai/exercises", catalogHandler.HandleExercises)
	s.mux.HandleFunc("GET /api/ai/foods", catalogHandler.HandleFoods)

	// Reports
	reportsService := reports.NewService(
		s.storage,
		s.storage,
		progressService,
		s.blobStore,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
		s.logger,
	)
	reportsHandlers := reports.NewHandlers(reportsService, s.logger)
	s.mux.HandleFunc("POST /api/reports/progress", reportsHandlers.HandleCreateProgress)
	s.mux.HandleFunc("GET /api/reports", reportsHandlers.HandleList)
	s.mux.HandleFunc("GET /api/reports/{id}/download", reportsHandlers.HandleDownload)
	s.mux.HandleFunc("DELETE /api/reports/{id}", reportsHandlers.HandleDelete)

	// Catalog seeding
	var model string
	if g, ok := s.gateway.(*ai.OpenAIGateway); ok {
		model = g.Model()
	}
	cronHandler := seeding.NewHandler(s.seeder, s.scheduler, seeding.HandlerConfig{
		Secret:      s.config.CronSecret,
		Model:       model,
		Temperature: s.config.AITemperature,
		Schedule:    s.schedule(),
	}, s.logger)
	s.mux.HandleFunc("POST /api/cron/populate-exercises", cronHandler.RequireSecret(cronHandler.HandlePopulateExercises))
	s.mux.HandleFunc("POST /api/cron/populate-foods", cronHandler.RequireSecret(cronHandler.HandlePopulateFoods))
	s.mux.HandleFunc("POST /api/cron/populate-all", cronHandler.RequireSecret(cronHandler.HandlePopulateAll))
	s.mux.HandleFunc("GET /api/cron/status", cronHandler.RequireSecret(cronHandler.HandleStatus))
}

// Handler returns the router wrapped in the middleware chain, outermost
// first: CORS, access log, rate limit, auth.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.authMiddleware.RequireAuth(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = logging.Middleware(s.logger, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"storage":   s.storageMode,
		"blob":      s.blobMode,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Start runs the scheduler and the optional startup seeding, then serves
// until Shutdown. It returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.scheduler != nil {
		s.scheduler.Start()
	}
	if s.config.CronSeedOnStartup {
		go func() {
			for _, result := range s.seeder.PopulateIfEmpty(context.WithoutCancel(ctx)) {
				s.logger.Info("startup seeding",
					zap.String("kind", result.Kind),
					zap.Bool("success", result.Success),
					zap.String("message", result.Message),
				)
			}
		}()
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	s.logger.Info("server listening",
		zap.String("addr", s.httpServer.Addr),
		zap.String("storage", s.storageMode),
		zap.String("blob", s.blobMode),
		zap.Bool("ai_configured", s.config.AIConfigured()),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP connections, stops the scheduler and closes storage.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if s.scheduler != nil {
		s.scheduler.Stop(ctx)
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	return errors.Join(errs...)
}
