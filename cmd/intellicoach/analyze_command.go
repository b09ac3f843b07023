package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"intellicoach/internal/analysis"
	"intellicoach/internal/config"
	"intellicoach/internal/logging"
	"intellicoach/internal/textutil"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var copyResult bool
	var signalOnly bool

	cmd := &cobra.Command{
		Use:   "analyze <video>",
		Short: "Score a local teaching video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if signalOnly {
				copied := *cfg
				copied.LLM.Provider = config.ProviderNone
				cfg = &copied
			}

			path, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve video path: %w", err)
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open video: %w", err)
			}
			defer file.Close()
			info, err := file.Stat()
			if err != nil {
				return fmt.Errorf("inspect video: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", path)
			}

			pipeline, _ := analysis.NewFromConfig(cfg, logger)
			result, err := pipeline.Analyze(cmd.Context(), analysis.Request{
				Body:     file,
				Size:     info.Size(),
				Filename: info.Name(),
			})
			if err != nil {
				return fmt.Errorf("analyze %s: %s", info.Name(), analysis.UserMessage(err))
			}

			if format, ok := ctx.structuredOutput(); ok {
				if err := writeStructured(cmd, format, result); err != nil {
					return err
				}
			} else {
				printAnalysis(cmd.OutOrStdout(), info.Name(), result, shouldColorize(cmd.OutOrStdout()))
			}

			if copyResult && result.OK() {
				if err := clipboardWrite(clipboardSummary(info.Name(), result)); err != nil {
					logger.Warn("copy to clipboard failed",
						logging.Error(err),
						logging.String(logging.FieldEventType, "clipboard_failed"),
						logging.String(logging.FieldErrorHint, "install xclip, xsel or wl-clipboard"),
					)
				} else if _, structured := ctx.structuredOutput(); !structured {
					fmt.Fprintln(cmd.OutOrStdout(), "\nSummary copied to clipboard")
				}
			}

			if result.Status == analysis.StatusError {
				return fmt.Errorf("analysis failed: %s", result.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyResult, "copy", false, "Copy a plain-text summary to the clipboard")
	cmd.Flags().BoolVar(&signalOnly, "signal-only", false, "Score from measured signals without calling the LLM")
	return cmd
}

func printAnalysis(out io.Writer, name string, result analysis.Result, colorize bool) {
	for _, line := range renderSectionHeader("Analysis: "+name, colorize) {
		fmt.Fprintln(out, line)
	}

	switch result.Status {
	case analysis.StatusInvalid:
		fmt.Fprintln(out, renderStatusLine("Status", statusWarn, "not an instructional video", colorize))
		fmt.Fprintln(out, renderStatusLine("Reason", statusInfo, result.Reason, colorize))
		return
	case analysis.StatusError:
		fmt.Fprintln(out, renderStatusLine("Status", statusError, result.Message, colorize))
		return
	}

	scores := result.Scores
	fmt.Fprintln(out, renderStatusLine("Rating", scoreKind(scores.Overall), result.Rating, colorize))
	fmt.Fprintln(out, renderStatusLine("Recommendation", statusInfo, result.Recommendation, colorize))
	fmt.Fprintln(out, renderStatusLine("Strategy", statusInfo, string(result.Strategy), colorize))
	if result.TranscriptStatus != "" {
		label := textutil.Title(strings.ReplaceAll(string(result.TranscriptStatus), "_", " "))
		fmt.Fprintln(out, renderStatusLine("Transcript", statusInfo, label, colorize))
	}
	fmt.Fprintln(out)

	rows := [][]string{
		{"Clarity", strconv.Itoa(scores.Clarity)},
		{"Engagement", strconv.Itoa(scores.Engagement)},
		{"Confidence", strconv.Itoa(scores.Confidence)},
		{"Technical", strconv.Itoa(scores.Technical)},
		{"Interaction", strconv.Itoa(scores.Interaction)},
		{"Overall", strconv.FormatFloat(scores.Overall, 'f', 1, 64)},
	}
	fmt.Fprint(out, renderTable("Scores", []string{"Dimension", "Score"}, rows, []columnAlignment{alignLeft, alignRight}))

	if s := result.Signals; s != nil {
		signalRows := [][]string{
			{"Words per minute", strconv.FormatFloat(s.WordsPerMinute, 'f', 1, 64)},
			{"Words / fillers", fmt.Sprintf("%d / %d", s.Words, s.Fillers)},
			{"Frame pairs", fmt.Sprintf("%d (neutral: %s)", s.FramePairs, yesNo(s.MotionNeutral))},
			{"Voiced pitch points", strconv.Itoa(s.VoicedPoints)},
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, renderTable("Signals", []string{"Measure", "Value"}, signalRows, []columnAlignment{alignLeft, alignRight}))
	}

	if len(scores.Suggestions) > 0 {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Suggestions", colorize) {
			fmt.Fprintln(out, line)
		}
		for i, s := range scores.Suggestions {
			fmt.Fprintf(out, "%s%d. %s\n", statusIndent, i+1, s)
		}
	}

	if result.TranscriptPreview != "" {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Transcript preview", colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintf(out, "%s%s\n", statusIndent, result.TranscriptPreview)
	}
}

func clipboardSummary(name string, result analysis.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (%.1f/100)\n", name, result.Rating, result.Scores.Overall)
	fmt.Fprintf(&b, "%s\n", result.Recommendation)
	for _, s := range result.Scores.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return strings.TrimRight(b.String(), "\n")
}
