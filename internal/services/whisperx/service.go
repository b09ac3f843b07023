package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"intellicoach/internal/services"
	"intellicoach/internal/transcription"
)

// Service provides WhisperX transcription.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Name identifies the provider in logs.
func (s *Service) Name() string {
	return "whisperx"
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs WhisperX on mediaPath (a WAV file) and returns the joined
// segment text. Output files are written next to the source in a whisperx
// subdirectory, which the caller's workspace cleanup removes.
func (s *Service) Transcribe(ctx context.Context, mediaPath string) (transcription.Response, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return transcription.Response{}, services.Wrap(services.ErrValidation, "transcription", "whisperx", "source path required", nil)
	}
	outputDir := filepath.Join(filepath.Dir(mediaPath), "whisperx")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return transcription.Response{}, services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "create output dir", err)
	}

	if err := s.run(ctx, UVXCommand, s.buildArgs(mediaPath, outputDir)...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transcription.Response{}, ctxErr
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return transcription.Response{}, services.Wrap(services.ErrConfiguration, "transcription", "whisperx", "uvx not found on PATH", err)
		}
		return transcription.Response{}, services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "run whisperx", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	segments, err := LoadSegments(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return transcription.Response{}, services.Wrap(services.ErrExternalTool, "transcription", "whisperx", "whisperx produced no output", err)
		}
		return transcription.Response{}, services.Wrap(services.ErrDecode, "transcription", "whisperx", "read whisperx output", err)
	}
	return transcription.Response{Text: JoinSegments(segments), Status: transcription.ResponseOK}, nil
}

func (s *Service) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 32)
	if s.cfg.CUDAEnabled {
		args = append(args, "--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := isoLanguage(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

func isoLanguage(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if len(value) < 2 {
		return ""
	}
	// "en-US" and "eng" both map to "en".
	return value[:2]
}

// Segment is one transcribed span from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload.Segments, nil
}

// JoinSegments concatenates non-empty segment text with single spaces.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
