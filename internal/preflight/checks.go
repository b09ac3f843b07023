package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"intellicoach/internal/config"
	"intellicoach/internal/deps"
	"intellicoach/internal/services/llm"
)

// CheckLLM verifies that an OpenAI-compatible endpoint is reachable and the
// key is valid. It uses a 30-second timeout and a single attempt.
func CheckLLM(ctx context.Context, cfg config.LLM) Result {
	const name = "Language model"

	switch cfg.Provider {
	case config.ProviderNone:
		return Result{Name: name, Passed: true, Detail: "Disabled (signal strategy)"}
	case config.ProviderGemini:
		return Result{Name: name, Passed: strings.TrimSpace(cfg.APIKey) != "", Detail: "Gemini (not probed)"}
	}
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := llm.NewClient(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Referer: cfg.Referer,
		Title:   cfg.Title,
	}, llm.WithRetryMaxAttempts(1))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (%s)", cfg.Provider, client.Model())}
}

// CheckLLMCredentials reports whether the configured model has a key,
// without making a request.
func CheckLLMCredentials(cfg *config.Config) Result {
	const name = "LLM credentials"
	l := cfg.LLM
	if l.Provider == config.ProviderNone {
		return Result{Name: name, Passed: true, Detail: "Disabled (signal strategy)"}
	}
	if strings.TrimSpace(l.APIKey) == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s api key missing", l.Provider)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", l.Provider, l.Model)}
}

// CheckTranscriptionCredentials reports whether the configured speech-to-text
// provider has what it needs to start.
func CheckTranscriptionCredentials(cfg *config.Config) Result {
	const name = "Transcription"
	t := cfg.Transcription
	switch t.Provider {
	case config.ProviderWhisperX:
		if t.WhisperXVADMethod == "pyannote" && t.WhisperXHuggingFace == "" {
			return Result{Name: name, Detail: "whisperx pyannote VAD requires a Hugging Face token"}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("whisperx (%s, local)", t.WhisperXModel)}
	case config.ProviderAssemblyAI:
		if t.AssemblyAIAPIKey == "" {
			return Result{Name: name, Detail: "assemblyai api key missing"}
		}
		return Result{Name: name, Passed: true, Detail: "assemblyai"}
	case config.ProviderOpenAI:
		if t.OpenAIAPIKey == "" {
			return Result{Name: name, Detail: "openai api key missing"}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("openai (%s)", t.OpenAIModel)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unsupported provider %q", t.Provider)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the executables required by cfg. The CLI status
// command, the serve startup gate and /api/status all use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Media.FFmpegBinary,
			Description: "Required for audio extraction and frame sampling",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Media.FFprobeBinary,
			Description: "Required for media inspection",
		},
	}
	requirements = append(requirements, deps.Requirement{
		Name:        "uvx",
		Command:     "uvx",
		Description: "Required for WhisperX-driven transcription",
		Optional:    cfg.Transcription.Provider != config.ProviderWhisperX,
	})
	return deps.CheckBinaries(requirements)
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
