package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and staging configuration.
type Paths struct {
	StagingDir             string `toml:"staging_dir"`
	LogDir                 string `toml:"log_dir"`
	StagingMaxAgeMinutes   int    `toml:"staging_max_age_minutes"`
	StagingCleanupSchedule string `toml:"staging_cleanup_schedule"`
}

// Server contains configuration for the HTTP boundary.
type Server struct {
	Bind                  string `toml:"bind"`
	MaxConcurrent         int    `toml:"max_concurrent"`
	MaxUploadMB           int    `toml:"max_upload_mb"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	// APIToken, when set, is required as a bearer token on /api/analyze.
	APIToken string `toml:"api_token"`
}

// Media contains decoder settings shared by audio and video analysis.
type Media struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Transcription contains speech-to-text provider settings.
type Transcription struct {
	// Provider selects the backend: "whisperx", "assemblyai", or "openai".
	Provider string `toml:"provider"`
	// MinTranscriptChars is the length below which the transcript is replaced
	// by the limited-speech placeholder.
	MinTranscriptChars int    `toml:"min_transcript_chars"`
	Language           string `toml:"language"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`

	WhisperXModel       string `toml:"whisperx_model"`
	WhisperXCUDAEnabled bool   `toml:"whisperx_cuda_enabled"`
	WhisperXVADMethod   string `toml:"whisperx_vad_method"`
	WhisperXHuggingFace string `toml:"whisperx_hf_token"`

	AssemblyAIAPIKey  string `toml:"assemblyai_api_key"`
	AssemblyAIBaseURL string `toml:"assemblyai_base_url"`

	OpenAIAPIKey  string `toml:"openai_api_key"`
	OpenAIBaseURL string `toml:"openai_base_url"`
	OpenAIModel   string `toml:"openai_model"`
}

// LLM contains language-model connection settings for semantic scoring.
type LLM struct {
	// Provider selects the backend: "groq", "openrouter", "openai", "gemini",
	// or "none" for the provider-free signal aggregation path.
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// Engagement tunes the visual motion metric.
type Engagement struct {
	// MotionNormalization maps the mean frame difference (16-bit intensity)
	// onto the 0-100 scale. Default: 5000.
	MotionNormalization float64 `toml:"motion_normalization"`
	SampleFPS           float64 `toml:"sample_fps"`
	FrameWidth          int     `toml:"frame_width"`
	FrameHeight         int     `toml:"frame_height"`
}

// Confidence tunes the pitch tracker behind the voice stability metric.
type Confidence struct {
	WindowSize   int     `toml:"window_size"`
	HopSize      int     `toml:"hop_size"`
	MinFrequency float64 `toml:"min_frequency"`
	MaxFrequency float64 `toml:"max_frequency"`
	Threshold    float64 `toml:"threshold"`
}

// Content holds the keyword tables used by the clarity metric and the content gate.
type Content struct {
	FillerWords           []string `toml:"filler_words"`
	NonInstructionalWords []string `toml:"non_instructional_words"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for intellicoach.
//
// Configuration sections by subsystem:
//   - Paths: staging workspace root, logs, and stale workspace cleanup
//   - Server: HTTP bind address, concurrency, and upload limits
//   - Media: ffmpeg/ffprobe executables
//   - Transcription: speech-to-text provider selection and credentials
//   - LLM: language-model provider used for rubric scoring
//   - Engagement, Confidence: signal metric tuning
//   - Content: filler and non-instructional vocabularies
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Server        Server        `toml:"server"`
	Media         Media         `toml:"media"`
	Transcription Transcription `toml:"transcription"`
	LLM           LLM           `toml:"llm"`
	Engagement    Engagement    `toml:"engagement"`
	Confidence    Confidence    `toml:"confidence"`
	Content       Content       `toml:"content"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("intellicoach.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the staging and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the file used to keep a single server instance per staging root.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StagingDir, "intellicoach-serve.lock")
}

// SignalOnly reports whether semantic scoring is disabled.
func (c *Config) SignalOnly() bool {
	return c.LLM.Provider == ProviderNone
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Redacted returns a copy of c with credentials masked, for display.
func (c Config) Redacted() Config {
	mask := func(v string) string {
		if v == "" {
			return ""
		}
		return "********"
	}
	c.Server.APIToken = mask(c.Server.APIToken)
	c.Transcription.WhisperXHuggingFace = mask(c.Transcription.WhisperXHuggingFace)
	c.Transcription.AssemblyAIAPIKey = mask(c.Transcription.AssemblyAIAPIKey)
	c.Transcription.OpenAIAPIKey = mask(c.Transcription.OpenAIAPIKey)
	c.LLM.APIKey = mask(c.LLM.APIKey)
	c.Content.FillerWords = slices.Clone(c.Content.FillerWords)
	c.Content.NonInstructionalWords = slices.Clone(c.Content.NonInstructionalWords)
	return c
}
