package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeMedia()
	c.normalizeTranscription()
	c.normalizeLLM()
	c.normalizeContent()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.StagingMaxAgeMinutes <= 0 {
		c.Paths.StagingMaxAgeMinutes = defaultStagingMaxAgeMinutes
	}
	c.Paths.StagingCleanupSchedule = strings.TrimSpace(c.Paths.StagingCleanupSchedule)
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.MaxConcurrent <= 0 {
		c.Server.MaxConcurrent = defaultServerMaxConcurrent
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = defaultServerMaxUploadMB
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		c.Server.RequestTimeoutSeconds = defaultServerRequestTimeout
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	if value, ok := os.LookupEnv("INTELLICOACH_API_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.Server.APIToken = strings.TrimSpace(value)
	}
}

func (c *Config) normalizeMedia() {
	if strings.TrimSpace(c.Media.FFmpegBinary) == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Media.FFprobeBinary) == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.Provider = strings.ToLower(strings.TrimSpace(t.Provider))
	if t.Provider == "" {
		t.Provider = defaultTranscriptionProvider
	}
	if t.MinTranscriptChars < 0 {
		t.MinTranscriptChars = defaultMinTranscriptChars
	}
	if t.TimeoutSeconds <= 0 {
		t.TimeoutSeconds = defaultTranscriptionTimeout
	}
	t.Language = strings.TrimSpace(t.Language)
	t.WhisperXModel = strings.TrimSpace(t.WhisperXModel)
	if t.WhisperXModel == "" {
		t.WhisperXModel = defaultWhisperXModel
	}
	t.WhisperXVADMethod = strings.ToLower(strings.TrimSpace(t.WhisperXVADMethod))
	if t.WhisperXVADMethod == "" {
		t.WhisperXVADMethod = defaultWhisperXVADMethod
	}
	t.WhisperXHuggingFace = strings.TrimSpace(t.WhisperXHuggingFace)
	if t.WhisperXHuggingFace == "" {
		t.WhisperXHuggingFace = strings.TrimSpace(os.Getenv("HF_TOKEN"))
	}

	t.AssemblyAIAPIKey = strings.TrimSpace(t.AssemblyAIAPIKey)
	if value, ok := os.LookupEnv("ASSEMBLYAI_API_KEY"); ok && strings.TrimSpace(value) != "" {
		t.AssemblyAIAPIKey = strings.TrimSpace(value)
	}
	t.AssemblyAIBaseURL = strings.TrimRight(strings.TrimSpace(t.AssemblyAIBaseURL), "/")
	if t.AssemblyAIBaseURL == "" {
		t.AssemblyAIBaseURL = defaultAssemblyAIBaseURL
	}

	t.OpenAIAPIKey = strings.TrimSpace(t.OpenAIAPIKey)
	if t.OpenAIAPIKey == "" {
		t.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	t.OpenAIBaseURL = strings.TrimRight(strings.TrimSpace(t.OpenAIBaseURL), "/")
	if t.OpenAIBaseURL == "" {
		t.OpenAIBaseURL = defaultOpenAIBaseURL
	}
	t.OpenAIModel = strings.TrimSpace(t.OpenAIModel)
	if t.OpenAIModel == "" {
		t.OpenAIModel = defaultOpenAITranscribeModel
	}
}

// llmKeyEnv maps each hosted provider to the environment variable that
// overrides [llm] api_key.
var llmKeyEnv = map[string]string{
	ProviderGroq:       "GROQ_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderGemini:     "GEMINI_API_KEY",
}

func (c *Config) normalizeLLM() {
	l := &c.LLM
	l.Provider = strings.ToLower(strings.TrimSpace(l.Provider))
	if l.Provider == "" {
		l.Provider = defaultLLMProvider
	}
	l.APIKey = strings.TrimSpace(l.APIKey)
	if envName, ok := llmKeyEnv[l.Provider]; ok {
		if value, ok := os.LookupEnv(envName); ok && strings.TrimSpace(value) != "" {
			l.APIKey = strings.TrimSpace(value)
		}
	}
	endpoint, known := llmEndpoints[l.Provider]
	l.BaseURL = strings.TrimSpace(l.BaseURL)
	if l.BaseURL == "" && known {
		l.BaseURL = endpoint.baseURL
	}
	l.Model = strings.TrimSpace(l.Model)
	if l.Model == "" && known {
		l.Model = endpoint.model
	}
	l.Referer = strings.TrimSpace(l.Referer)
	if l.Referer == "" {
		l.Referer = defaultLLMReferer
	}
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		l.Title = defaultLLMTitle
	}
	if l.TimeoutSeconds <= 0 {
		l.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if l.RetryAttempts <= 0 {
		l.RetryAttempts = defaultLLMRetryAttempts
	}
}

func (c *Config) normalizeContent() {
	c.Content.FillerWords = normalizeWordList(c.Content.FillerWords, DefaultFillerWords)
	c.Content.NonInstructionalWords = normalizeWordList(c.Content.NonInstructionalWords, DefaultNonInstructionalWords)
}

func normalizeWordList(words, fallback []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
