package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"intellicoach/internal/analysis"
	"intellicoach/internal/api"
	"intellicoach/internal/config"
	"intellicoach/internal/deps"
	"intellicoach/internal/logging"
	"intellicoach/internal/preflight"
	"intellicoach/internal/staging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if b := strings.TrimSpace(bind); b != "" {
				copied := *cfg
				copied.Server.Bind = b
				cfg = &copied
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Override server.bind (host:port)")
	return cmd
}

func runServer(parent context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire server lock: %w", err)
	}
	if !locked {
		_ = lock.Close()
		return fmt.Errorf("another intellicoach server already owns %s", cfg.LockPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if missing := deps.MissingRequired(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, fmt.Sprintf("%s (%s)", m.Name, m.Detail))
		}
		return fmt.Errorf("missing required dependencies: %s", strings.Join(names, ", "))
	}
	for _, check := range preflight.RunAll(ctx, cfg) {
		if !check.Passed {
			logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
				logging.String("check", check.Name),
				logging.String("detail", check.Detail),
				logging.String(logging.FieldImpact, "analyses depending on this check will fail"),
			)
		}
	}

	janitor, err := staging.NewJanitor(
		cfg.Paths.StagingDir,
		time.Duration(cfg.Paths.StagingMaxAgeMinutes)*time.Minute,
		cfg.Paths.StagingCleanupSchedule,
		logger,
	)
	if err != nil {
		return err
	}
	if err := janitor.Start(ctx); err != nil {
		return err
	}
	defer janitor.Stop()

	pipeline, handles := analysis.NewFromConfig(cfg, logger)
	opts := api.OptionsFromConfig(cfg)
	opts.Status = func(ctx context.Context) api.StatusResponse {
		return api.StatusResponse{
			Dependencies: preflight.CheckSystemDeps(cfg),
			Checks:       preflight.RunAll(ctx, cfg),
			Providers:    api.ProviderStates(providerHandles(handles)),
		}
	}

	server := api.NewServer(opts, pipeline, logger)
	if err := server.Start(ctx); err != nil {
		return err
	}
	logger.Info("intellicoach serving",
		logging.String("address", server.Addr()),
		logging.String("strategy", string(pipeline.Strategy())),
		logging.String("transcription_provider", cfg.Transcription.Provider),
		logging.String("llm_provider", cfg.LLM.Provider),
	)

	<-ctx.Done()
	logger.Info("intellicoach shutting down")
	<-server.Done()
	return nil
}

func providerHandles(h analysis.Handles) map[string]api.StateReporter {
	out := map[string]api.StateReporter{}
	if h.Transcriber != nil {
		out["transcription"] = h.Transcriber
	}
	if h.Completer != nil {
		out["llm"] = h.Completer
	}
	return out
}
