package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"intellicoach/internal/config"
	"intellicoach/internal/media/video"
	"intellicoach/internal/metrics"
	"intellicoach/internal/scoring"
	"intellicoach/internal/services"
	"intellicoach/internal/services/assemblyai"
	"intellicoach/internal/services/gemini"
	"intellicoach/internal/services/llm"
	"intellicoach/internal/services/openaistt"
	"intellicoach/internal/services/whisperx"
	"intellicoach/internal/transcription"
)

// Handles exposes the lazily initialized providers so callers can report
// their state.
type Handles struct {
	Transcriber *services.Lazy[transcription.Provider]
	Completer   *services.Lazy[scoring.Completer]
}

// NewFromConfig builds a Pipeline backed by ffmpeg and the configured
// providers. Providers are constructed on first use.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Pipeline, Handles) {
	handles := Handles{
		Transcriber: NewTranscriptionProvider(cfg),
		Completer:   NewCompleter(cfg),
	}
	media := NewFFmpegMedia(cfg.Media.FFmpegBinary, cfg.Media.FFprobeBinary, video.Options{
		Width:  cfg.Engagement.FrameWidth,
		Height: cfg.Engagement.FrameHeight,
		FPS:    cfg.Engagement.SampleFPS,
	})
	transcriber := transcription.NewService(handles.Transcriber, cfg.Transcription.MinTranscriptChars, logger)

	opts := Options{
		StagingDir:            cfg.Paths.StagingDir,
		FillerWords:           cfg.Content.FillerWords,
		NonInstructionalWords: cfg.Content.NonInstructionalWords,
		MotionNormalization:   cfg.Engagement.MotionNormalization,
		Pitch:                 pitchOptions(cfg),
		Strategy:              scoring.StrategyLLM,
	}
	var scorer SemanticScorer
	if handles.Completer != nil {
		scorer = scoring.NewScorer(handles.Completer, logger)
	} else {
		opts.Strategy = scoring.StrategySignal
	}
	return NewPipeline(opts, media, transcriber, scorer, logger), handles
}

func pitchOptions(cfg *config.Config) metrics.PitchOptions {
	return metrics.PitchOptions{
		WindowSize:   cfg.Confidence.WindowSize,
		HopSize:      cfg.Confidence.HopSize,
		MinFrequency: cfg.Confidence.MinFrequency,
		MaxFrequency: cfg.Confidence.MaxFrequency,
		Threshold:    cfg.Confidence.Threshold,
	}
}

// NewTranscriptionProvider returns a lazy handle for the configured
// speech-to-text provider.
func NewTranscriptionProvider(cfg *config.Config) *services.Lazy[transcription.Provider] {
	t := cfg.Transcription
	return services.NewLazy(func(context.Context) (transcription.Provider, error) {
		switch t.Provider {
		case config.ProviderWhisperX:
			return whisperx.NewService(whisperx.Config{
				Model:       t.WhisperXModel,
				CUDAEnabled: t.WhisperXCUDAEnabled,
				VADMethod:   t.WhisperXVADMethod,
				HFToken:     t.WhisperXHuggingFace,
				Language:    t.Language,
			}), nil
		case config.ProviderAssemblyAI:
			return assemblyai.NewClient(assemblyai.Config{
				APIKey:         t.AssemblyAIAPIKey,
				BaseURL:        t.AssemblyAIBaseURL,
				Language:       t.Language,
				TimeoutSeconds: t.TimeoutSeconds,
			})
		case config.ProviderOpenAI:
			return openaistt.NewClient(openaistt.Config{
				APIKey:         t.OpenAIAPIKey,
				BaseURL:        t.OpenAIBaseURL,
				Model:          t.OpenAIModel,
				Language:       t.Language,
				TimeoutSeconds: t.TimeoutSeconds,
			})
		default:
			return nil, services.Wrap(services.ErrConfiguration, "transcription", "select provider",
				fmt.Sprintf("unsupported provider %q", t.Provider), nil)
		}
	})
}

// NewCompleter returns a lazy handle for the configured language model, or
// nil when semantic scoring is disabled.
func NewCompleter(cfg *config.Config) *services.Lazy[scoring.Completer] {
	if cfg.SignalOnly() {
		return nil
	}
	l := cfg.LLM
	return services.NewLazy(func(ctx context.Context) (scoring.Completer, error) {
		switch l.Provider {
		case config.ProviderGemini:
			return gemini.NewClient(ctx, gemini.Config{
				APIKey:         l.APIKey,
				Model:          l.Model,
				BaseURL:        l.BaseURL,
				TimeoutSeconds: l.TimeoutSeconds,
			})
		case config.ProviderGroq, config.ProviderOpenRouter, config.ProviderOpenAI:
			return llm.NewClient(llm.Config{
				APIKey:         l.APIKey,
				BaseURL:        l.BaseURL,
				Model:          l.Model,
				Referer:        l.Referer,
				Title:          l.Title,
				TimeoutSeconds: l.TimeoutSeconds,
				RetryAttempts:  l.RetryAttempts,
			})
		default:
			return nil, services.Wrap(services.ErrConfiguration, "llm", "select provider",
				fmt.Sprintf("unsupported provider %q", l.Provider), nil)
		}
	})
}
