package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"intellicoach/internal/config"
	"intellicoach/internal/deps"
	"intellicoach/internal/preflight"
	"intellicoach/internal/staging"
)

type statusReport struct {
	ConfigPath            string             `json:"config_path" yaml:"config_path"`
	Strategy              string             `json:"strategy" yaml:"strategy"`
	TranscriptionProvider string             `json:"transcription_provider" yaml:"transcription_provider"`
	LLMProvider           string             `json:"llm_provider" yaml:"llm_provider"`
	LLMModel              string             `json:"llm_model,omitempty" yaml:"llm_model,omitempty"`
	Dependencies          []deps.Status      `json:"dependencies" yaml:"dependencies"`
	Checks                []preflight.Result `json:"checks" yaml:"checks"`
	StagingWorkspaces     int                `json:"staging_workspaces" yaml:"staging_workspaces"`
	StagingBytes          int64              `json:"staging_bytes" yaml:"staging_bytes"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report dependency, credential and staging health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := buildStatusReport(cmd.Context(), cfg, ctx.configPath, !offline)

			if format, ok := ctx.structuredOutput(); ok {
				return writeStructured(cmd, format, report)
			}
			printStatusReport(cmd, report)
			if len(deps.MissingRequired(report.Dependencies)) > 0 {
				return fmt.Errorf("required dependencies are missing")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the network health check against the LLM provider")
	return cmd
}

func buildStatusReport(ctx context.Context, cfg *config.Config, configPath string, probeLLM bool) statusReport {
	report := statusReport{
		ConfigPath:            configPath,
		Strategy:              strategyLabel(cfg),
		TranscriptionProvider: cfg.Transcription.Provider,
		LLMProvider:           cfg.LLM.Provider,
		Dependencies:          preflight.CheckSystemDeps(cfg),
		Checks:                preflight.RunAll(ctx, cfg),
	}
	if !cfg.SignalOnly() {
		report.LLMModel = cfg.LLM.Model
	}
	if probeLLM && !cfg.SignalOnly() {
		probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		report.Checks = append(report.Checks, preflight.CheckLLM(probeCtx, cfg.LLM))
		cancel()
	}
	if dirs, err := staging.ListDirectories(cfg.Paths.StagingDir); err == nil {
		report.StagingWorkspaces = len(dirs)
		for _, d := range dirs {
			report.StagingBytes += d.Size
		}
	}
	return report
}

func printStatusReport(cmd *cobra.Command, report statusReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Configuration", colorize) {
		fmt.Fprintln(out, line)
	}
	path := report.ConfigPath
	if path == "" {
		path = "(defaults)"
	}
	fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, path, colorize))
	fmt.Fprintln(out, renderStatusLine("Scoring strategy", statusInfo, report.Strategy, colorize))
	fmt.Fprintln(out, renderStatusLine("Transcription", statusInfo, report.TranscriptionProvider, colorize))
	llm := report.LLMProvider
	if report.LLMModel != "" {
		llm = fmt.Sprintf("%s (%s)", llm, report.LLMModel)
	}
	fmt.Fprintln(out, renderStatusLine("LLM", statusInfo, llm, colorize))
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Dependencies", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, line := range dependencyLines(report.Dependencies, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Checks", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, line := range checkLines(report.Checks, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Staging", colorize) {
		fmt.Fprintln(out, line)
	}
	kind := statusOK
	if report.StagingWorkspaces > 0 {
		kind = statusInfo
	}
	fmt.Fprintln(out, renderStatusLine("Workspaces", kind,
		fmt.Sprintf("%d (%s)", report.StagingWorkspaces, formatBytes(report.StagingBytes)), colorize))
}

func strategyLabel(cfg *config.Config) string {
	if cfg.SignalOnly() {
		return "signal"
	}
	return "llm"
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
