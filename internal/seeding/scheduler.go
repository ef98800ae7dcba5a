package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedule holds standard five-field cron expressions.
type Schedule struct {
	Exercise string
	Food     string
}

// Scheduler runs the seeder on its cron schedule. Overlapping runs of the
// same job are skipped.
type Scheduler struct {
	cron     *cron.Cron
	seeder   *Seeder
	schedule Schedule
	logger   *zap.Logger
	timeout  time.Duration
	entries  map[string]cron.EntryID
}

func NewScheduler(seeder *Seeder, schedule Schedule, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLog := zapCronLogger{logger: logger.Named("cron").Sugar()}

	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		), cron.WithLogger(cronLog)),
		seeder:   seeder,
		schedule: schedule,
		logger:   logger,
		timeout:  5 * time.Minute,
		entries:  make(map[string]cron.EntryID, 2),
	}

	exerciseID, err := s.cron.AddFunc(schedule.Exercise, s.job("exercise", seeder.GenerateExercise))
	if err != nil {
		return nil, fmt.Errorf("invalid exercise schedule %q: %w", schedule.Exercise, err)
	}
	foodID, err := s.cron.AddFunc(schedule.Food, s.job("food", seeder.GenerateFood))
	if err != nil {
		return nil, fmt.Errorf("invalid food schedule %q: %w", schedule.Food, err)
	}
	s.entries["exercise"] = exerciseID
	s.entries["food"] = foodID
	return s, nil
}

func (s *Scheduler) job(kind string, run func(context.Context) Result) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.logger.Info("scheduled generation started", zap.String("kind", kind))
		result := run(ctx)
		s.logger.Info("scheduled generation finished",
			zap.String("kind", kind),
			zap.Bool("success", result.Success),
			zap.Bool("skipped", result.Skipped),
		)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("catalog scheduler started",
		zap.String("exercise_schedule", s.schedule.Exercise),
		zap.String("food_schedule", s.schedule.Food),
	)
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("catalog scheduler stop timed out")
	}
}

// NextRuns returns the next activation per job; zero before Start.
func (s *Scheduler) NextRuns() map[string]time.Time {
	out := make(map[string]time.Time, len(s.entries))
	for kind, id := range s.entries {
		out[kind] = s.cron.Entry(id).Next
	}
	return out
}

func (s *Scheduler) Schedule() Schedule {
	return s.schedule
}

// zapCronLogger adapts zap to cron.Logger.
type zapCronLogger struct {
	logger *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
