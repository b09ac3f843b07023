package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"intellicoach/internal/config"
)

func TestLoadDefaultConfigUsesEnvLLMKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "groq-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "intellicoach", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if cfg.LLM.Provider != config.ProviderGroq {
		t.Fatalf("expected groq provider by default, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "groq-key" {
		t.Fatalf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if !strings.Contains(cfg.LLM.BaseURL, "api.groq.com") {
		t.Fatalf("unexpected groq base url: %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model == "" {
		t.Fatal("expected default model for groq")
	}
	if cfg.Engagement.MotionNormalization != 5000 {
		t.Fatalf("unexpected motion normalization: %v", cfg.Engagement.MotionNormalization)
	}
	if cfg.Transcription.MinTranscriptChars != 30 {
		t.Fatalf("unexpected min transcript chars: %d", cfg.Transcription.MinTranscriptChars)
	}
	if len(cfg.Content.FillerWords) != len(config.DefaultFillerWords) {
		t.Fatalf("expected default filler vocabulary, got %v", cfg.Content.FillerWords)
	}
	if cfg.SignalOnly() {
		t.Fatal("expected semantic scoring enabled by default")
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	payload := struct {
		Paths struct {
			StagingDir string `toml:"staging_dir"`
		} `toml:"paths"`
		LLM struct {
			Provider string `toml:"provider"`
		} `toml:"llm"`
		Engagement struct {
			MotionNormalization float64 `toml:"motion_normalization"`
		} `toml:"engagement"`
		Content struct {
			FillerWords []string `toml:"filler_words"`
		} `toml:"content"`
	}{}
	payload.Paths.StagingDir = filepath.Join(tempDir, "staging")
	payload.LLM.Provider = "none"
	payload.Engagement.MotionNormalization = 2500
	payload.Content.FillerWords = []string{" UM ", "um", "er"}

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if !cfg.SignalOnly() {
		t.Fatal("expected provider none to select signal-only scoring")
	}
	if cfg.Engagement.MotionNormalization != 2500 {
		t.Fatalf("unexpected motion normalization: %v", cfg.Engagement.MotionNormalization)
	}
	if got := strings.Join(cfg.Content.FillerWords, ","); got != "um,er" {
		t.Fatalf("unexpected filler words: %q", got)
	}
	if got := strings.Join(cfg.Content.NonInstructionalWords, ","); !strings.Contains(got, "lyrics") {
		t.Fatalf("expected default non-instructional words, got %q", got)
	}
}

func TestEnvVarOverridesConfigFileForAPIKeys(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-openrouter")
	t.Setenv("ASSEMBLYAI_API_KEY", "env-assembly")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	content := `
[paths]
staging_dir = "` + filepath.ToSlash(filepath.Join(tempDir, "staging")) + `"

[transcription]
provider = "AssemblyAI"
assemblyai_api_key = "file-assembly"

[llm]
provider = "openrouter"
api_key = "file-openrouter"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-openrouter" {
		t.Fatalf("expected env LLM key to win, got %q", cfg.LLM.APIKey)
	}
	if cfg.Transcription.Provider != config.ProviderAssemblyAI {
		t.Fatalf("expected provider normalized to lowercase, got %q", cfg.Transcription.Provider)
	}
	if cfg.Transcription.AssemblyAIAPIKey != "env-assembly" {
		t.Fatalf("expected env AssemblyAI key to win, got %q", cfg.Transcription.AssemblyAIAPIKey)
	}
	if !strings.Contains(cfg.LLM.BaseURL, "openrouter.ai") {
		t.Fatalf("unexpected base url: %q", cfg.LLM.BaseURL)
	}
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name: "llm key",
			mutate: func(c *config.Config) {
				c.LLM.Provider = config.ProviderGroq
				c.LLM.APIKey = ""
			},
			wantErr: "llm.api_key",
		},
		{
			name: "assemblyai key",
			mutate: func(c *config.Config) {
				c.Transcription.Provider = config.ProviderAssemblyAI
				c.Transcription.AssemblyAIAPIKey = ""
			},
			wantErr: "assemblyai_api_key",
		},
		{
			name: "unknown llm provider",
			mutate: func(c *config.Config) {
				c.LLM.Provider = "bard"
			},
			wantErr: "llm.provider",
		},
		{
			name: "window size",
			mutate: func(c *config.Config) {
				c.Confidence.WindowSize = 1000
			},
			wantErr: "power of two",
		},
		{
			name: "pyannote token",
			mutate: func(c *config.Config) {
				c.Transcription.WhisperXVADMethod = "pyannote"
				c.Transcription.WhisperXHuggingFace = ""
			},
			wantErr: "whisperx_hf_token",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.StagingDir = t.TempDir()
			cfg.LLM.Provider = config.ProviderNone
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateAcceptsSignalOnlyDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.LLM.Provider = config.ProviderNone
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults with provider none to validate, got %v", err)
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "sample-key")
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Server.Bind != "127.0.0.1:5000" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Confidence.WindowSize != 2048 || cfg.Confidence.HopSize != 512 {
		t.Fatalf("unexpected pitch window: %+v", cfg.Confidence)
	}
}

func TestEnsureDirectoriesCreatesStagingAndLogs(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestRedactedMasksCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "sk-live"
	cfg.Server.APIToken = "token"
	cfg.Transcription.AssemblyAIAPIKey = ""

	red := cfg.Redacted()
	if red.LLM.APIKey != "********" || red.Server.APIToken != "********" {
		t.Fatalf("expected masked secrets, got %q / %q", red.LLM.APIKey, red.Server.APIToken)
	}
	if red.Transcription.AssemblyAIAPIKey != "" {
		t.Fatal("empty secrets should stay empty")
	}
	if cfg.LLM.APIKey != "sk-live" {
		t.Fatal("Redacted must not modify the receiver")
	}
	red.Content.FillerWords[0] = "changed"
	if cfg.Content.FillerWords[0] == "changed" {
		t.Fatal("Redacted must not share word lists")
	}
}
