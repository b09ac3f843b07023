package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateSignals(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	switch t.Provider {
	case ProviderWhisperX:
		switch t.WhisperXVADMethod {
		case "silero", "pyannote":
		default:
			return fmt.Errorf("transcription.whisperx_vad_method: unsupported value %q (must be silero or pyannote)", t.WhisperXVADMethod)
		}
		if t.WhisperXVADMethod == "pyannote" && t.WhisperXHuggingFace == "" {
			return errors.New("transcription.whisperx_hf_token is required when whisperx_vad_method is pyannote")
		}
	case ProviderAssemblyAI:
		if t.AssemblyAIAPIKey == "" {
			return errors.New("transcription.assemblyai_api_key is required when provider is assemblyai (or set ASSEMBLYAI_API_KEY)")
		}
	case ProviderOpenAI:
		if t.OpenAIAPIKey == "" {
			return errors.New("transcription.openai_api_key is required when provider is openai (or set OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("transcription.provider: unsupported value %q (must be whisperx, assemblyai, or openai)", t.Provider)
	}
	return nil
}

func (c *Config) validateLLM() error {
	l := c.LLM
	switch l.Provider {
	case ProviderNone:
		return nil
	case ProviderGroq, ProviderOpenRouter, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider: unsupported value %q (must be groq, openrouter, openai, gemini, or none)", l.Provider)
	}
	if l.APIKey == "" {
		return fmt.Errorf("llm.api_key is required when provider is %s (or set %s)", l.Provider, llmKeyEnv[l.Provider])
	}
	if l.Provider != ProviderGemini && l.BaseURL == "" {
		return errors.New("llm.base_url must be set")
	}
	if l.Model == "" {
		return errors.New("llm.model must be set")
	}
	return nil
}

func (c *Config) validateSignals() error {
	if c.Engagement.MotionNormalization <= 0 {
		return errors.New("engagement.motion_normalization must be positive")
	}
	if c.Engagement.SampleFPS <= 0 {
		return errors.New("engagement.sample_fps must be positive")
	}
	if c.Engagement.FrameWidth <= 0 || c.Engagement.FrameHeight <= 0 {
		return errors.New("engagement.frame_width and frame_height must be positive")
	}
	conf := c.Confidence
	if conf.WindowSize <= 0 || conf.WindowSize&(conf.WindowSize-1) != 0 {
		return fmt.Errorf("confidence.window_size must be a power of two, got %d", conf.WindowSize)
	}
	if conf.HopSize <= 0 {
		return errors.New("confidence.hop_size must be positive")
	}
	if conf.MinFrequency <= 0 || conf.MaxFrequency <= conf.MinFrequency {
		return fmt.Errorf("confidence frequency range invalid: min=%g max=%g", conf.MinFrequency, conf.MaxFrequency)
	}
	if conf.Threshold < 0 || conf.Threshold >= 1 {
		return errors.New("confidence.threshold must be in [0, 1)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (must be console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
