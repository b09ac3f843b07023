package analysis

import (
	"context"
	"errors"
	"testing"

	"intellicoach/internal/config"
	"intellicoach/internal/scoring"
	"intellicoach/internal/services"
)

func TestNewFromConfigSignalOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.LLM.Provider = config.ProviderNone

	p, handles := NewFromConfig(&cfg, nil)
	if p.Strategy() != scoring.StrategySignal {
		t.Fatalf("expected signal strategy, got %s", p.Strategy())
	}
	if handles.Completer != nil {
		t.Fatal("expected no completer handle")
	}
	if state, _ := handles.Transcriber.State(); state != services.LazyUninitialized {
		t.Fatalf("provider should initialize lazily, state=%s", state)
	}
}

func TestProviderHandlesReportConfigurationErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Provider = config.ProviderAssemblyAI
	cfg.Transcription.AssemblyAIAPIKey = ""
	cfg.LLM.Provider = config.ProviderGroq
	cfg.LLM.APIKey = ""

	if _, err := NewTranscriptionProvider(&cfg).Get(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	lazy := NewCompleter(&cfg)
	if _, err := lazy.Get(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if state, _ := lazy.State(); state != services.LazyFailed {
		t.Fatalf("expected failed state, got %s", state)
	}
}

func TestProviderHandlesBuildClients(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Provider = config.ProviderWhisperX
	cfg.LLM.Provider = config.ProviderOpenRouter
	cfg.LLM.APIKey = "key"
	cfg.LLM.BaseURL = "http://127.0.0.1:1/chat"
	cfg.LLM.Model = "m"

	provider, err := NewTranscriptionProvider(&cfg).Get(context.Background())
	if err != nil || provider.Name() != "whisperx" {
		t.Fatalf("expected whisperx provider, got %v %v", provider, err)
	}
	if _, err := NewCompleter(&cfg).Get(context.Background()); err != nil {
		t.Fatalf("expected completer, got %v", err)
	}
}
