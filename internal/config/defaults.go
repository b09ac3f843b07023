package config

const (
	defaultConfigPath             = "~/.config/intellicoach/config.toml"
	defaultStagingDir             = "~/.local/share/intellicoach/staging"
	defaultLogDir                 = "~/.local/share/intellicoach/logs"
	defaultStagingMaxAgeMinutes   = 60
	defaultStagingCleanupSchedule = "@every 15m"
	defaultServerBind             = "127.0.0.1:5000"
	defaultServerMaxConcurrent    = 2
	defaultServerMaxUploadMB      = 500
	defaultServerRequestTimeout   = 600
	defaultFFmpegBinary           = "ffmpeg"
	defaultFFprobeBinary          = "ffprobe"
	defaultTranscriptionProvider  = ProviderWhisperX
	defaultMinTranscriptChars     = 30
	defaultTranscriptionLanguage  = "en"
	defaultTranscriptionTimeout   = 600
	defaultWhisperXModel          = "large-v3"
	defaultWhisperXVADMethod      = "silero"
	defaultAssemblyAIBaseURL      = "https://api.assemblyai.com"
	defaultOpenAIBaseURL          = "https://api.openai.com/v1"
	defaultOpenAITranscribeModel  = "whisper-1"
	defaultLLMProvider            = ProviderGroq
	defaultLLMReferer             = "https://github.com/intellicoach/intellicoach"
	defaultLLMTitle               = "IntelliCoach"
	defaultLLMTimeoutSeconds      = 60
	defaultLLMRetryAttempts       = 5
	defaultMotionNormalization    = 5000
	defaultSampleFPS              = 5
	defaultFrameWidth             = 160
	defaultFrameHeight            = 90
	defaultPitchWindowSize        = 2048
	defaultPitchHopSize           = 512
	defaultPitchMinFrequency      = 150
	defaultPitchMaxFrequency      = 4000
	defaultPitchThreshold         = 0.1
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Provider names accepted in [transcription] and [llm].
const (
	ProviderWhisperX   = "whisperx"
	ProviderAssemblyAI = "assemblyai"
	ProviderOpenAI     = "openai"
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderNone       = "none"
)

// llmEndpoints holds the chat completions URL and default model per
// OpenAI-compatible provider.
var llmEndpoints = map[string]struct{ baseURL, model string }{
	ProviderGroq:       {"https://api.groq.com/openai/v1/chat/completions", "llama-3.1-8b-instant"},
	ProviderOpenRouter: {"https://openrouter.ai/api/v1/chat/completions", "google/gemini-2.0-flash-001"},
	ProviderOpenAI:     {"https://api.openai.com/v1/chat/completions", "gpt-4o-mini"},
	ProviderGemini:     {"", "gemini-2.0-flash"},
}

// DefaultFillerWords is the filler vocabulary counted by the clarity metric.
var DefaultFillerWords = []string{"um", "uh", "like", "basically", "you know", "actually", "so"}

// DefaultNonInstructionalWords is the vocabulary that marks a transcript as
// music or other non-instructional content.
var DefaultNonInstructionalWords = []string{"chorus", "verse", "lyrics", "music", "song", "instrumental", "beats", "singer"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:             defaultStagingDir,
			LogDir:                 defaultLogDir,
			StagingMaxAgeMinutes:   defaultStagingMaxAgeMinutes,
			StagingCleanupSchedule: defaultStagingCleanupSchedule,
		},
		Server: Server{
			Bind:                  defaultServerBind,
			MaxConcurrent:         defaultServerMaxConcurrent,
			MaxUploadMB:           defaultServerMaxUploadMB,
			RequestTimeoutSeconds: defaultServerRequestTimeout,
		},
		Media: Media{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Transcription: Transcription{
			Provider:           defaultTranscriptionProvider,
			MinTranscriptChars: defaultMinTranscriptChars,
			Language:           defaultTranscriptionLanguage,
			TimeoutSeconds:     defaultTranscriptionTimeout,
			WhisperXModel:      defaultWhisperXModel,
			WhisperXVADMethod:  defaultWhisperXVADMethod,
			AssemblyAIBaseURL:  defaultAssemblyAIBaseURL,
			OpenAIBaseURL:      defaultOpenAIBaseURL,
			OpenAIModel:        defaultOpenAITranscribeModel,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Engagement: Engagement{
			MotionNormalization: defaultMotionNormalization,
			SampleFPS:           defaultSampleFPS,
			FrameWidth:          defaultFrameWidth,
			FrameHeight:         defaultFrameHeight,
		},
		Confidence: Confidence{
			WindowSize:   defaultPitchWindowSize,
			HopSize:      defaultPitchHopSize,
			MinFrequency: defaultPitchMinFrequency,
			MaxFrequency: defaultPitchMaxFrequency,
			Threshold:    defaultPitchThreshold,
		},
		Content: Content{
			FillerWords:           append([]string(nil), DefaultFillerWords...),
			NonInstructionalWords: append([]string(nil), DefaultNonInstructionalWords...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
