package staging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"intellicoach/internal/logging"
)

// Janitor periodically removes stale workspaces on a cron schedule.
type Janitor struct {
	dir      string
	maxAge   time.Duration
	schedule string
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewJanitor validates schedule and prepares a Janitor for dir. Overlapping
// sweeps are skipped.
func NewJanitor(dir string, maxAge time.Duration, schedule string, logger *slog.Logger) (*Janitor, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "staging-janitor")
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return nil, fmt.Errorf("staging cleanup schedule is empty")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse staging cleanup schedule %q: %w", schedule, err)
	}
	cl := cronLogger{logger: logger}
	return &Janitor{
		dir:      dir,
		maxAge:   maxAge,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
	}, nil
}

// Start sweeps once, then schedules further sweeps until Stop is called.
func (j *Janitor) Start(ctx context.Context) error {
	j.Sweep(ctx)
	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.Sweep(ctx)
	}); err != nil {
		return fmt.Errorf("schedule staging cleanup: %w", err)
	}
	j.cron.Start()
	j.logger.Info("staging janitor started",
		logging.String("schedule", j.schedule),
		logging.Duration("max_age", j.maxAge),
	)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep runs a single cleanup pass.
func (j *Janitor) Sweep(ctx context.Context) CleanStaleResult {
	result := CleanStale(ctx, j.dir, j.maxAge, j.logger)
	if len(result.Removed) > 0 || len(result.Errors) > 0 {
		j.logger.Info("staging sweep complete",
			logging.String(logging.FieldEventType, "staging_sweep"),
			logging.Int("removed", len(result.Removed)),
			logging.Int("skipped", len(result.Skipped)),
			logging.Int("errors", len(result.Errors)),
		)
	}
	return result
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, logging.Error(err))...)
}
