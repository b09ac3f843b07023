package transcription

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"intellicoach/internal/logging"
	"intellicoach/internal/services"
)

// ErrNoAudio is returned by providers when the media carries no audio.
var ErrNoAudio = errors.New("media has no audio")

// ResponseStatus is the provider-reported outcome.
type ResponseStatus string

const (
	ResponseOK    ResponseStatus = "ok"
	ResponseError ResponseStatus = "error"
)

// Response is the raw provider result.
type Response struct {
	Text        string
	Status      ResponseStatus
	ErrorDetail string
}

// Provider converts speech in a media file to text.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, mediaPath string) (Response, error)
}

// Status classifies a Transcript.
type Status string

const (
	StatusOK      Status = "ok"
	StatusNoAudio Status = "no_audio"
	StatusLimited Status = "limited"
)

// LimitedSpeechPlaceholder stands in for transcripts too short to score.
const LimitedSpeechPlaceholder = "The video contains limited spoken content. The instructor speaks very little, so evaluate the lesson as a primarily visual or demonstration-based presentation with minimal verbal explanation."

// DefaultMinChars is the shortest transcript accepted verbatim.
const DefaultMinChars = 30

// Transcript is the normalized transcription of one video.
type Transcript struct {
	// Text is what downstream scoring sees; it may be the placeholder.
	Text string
	// Spoken is the text actually recognized, used for pace metrics.
	Spoken   string
	Status   Status
	Duration float64
}

// ScoringText is the text handed to semantic scoring. Silent videos are
// described by the limited speech placeholder.
func (t Transcript) ScoringText() string {
	if strings.TrimSpace(t.Text) == "" {
		return LimitedSpeechPlaceholder
	}
	return t.Text
}

// NoAudio returns the transcript for media without an audio track.
func NoAudio() Transcript {
	return Transcript{Status: StatusNoAudio}
}

// Service applies the transcript policy on top of a provider.
type Service struct {
	provider *services.Lazy[Provider]
	minChars int
	logger   *slog.Logger
}

// NewService builds a Service. minChars <= 0 uses DefaultMinChars.
func NewService(provider *services.Lazy[Provider], minChars int, logger *slog.Logger) *Service {
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		provider: provider,
		minChars: minChars,
		logger:   logging.NewComponentLogger(logger, "transcription"),
	}
}

// Transcribe runs the provider on mediaPath and normalizes the result.
func (s *Service) Transcribe(ctx context.Context, mediaPath string) (Transcript, error) {
	provider, err := s.provider.Get(ctx)
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrConfiguration, "transcription", "init provider", "speech-to-text provider unavailable", err)
	}
	logger := logging.WithContext(ctx, s.logger).With(logging.String("provider", provider.Name()))

	resp, err := provider.Transcribe(ctx, mediaPath)
	if err != nil {
		if errors.Is(err, ErrNoAudio) {
			logger.Info("provider reported no audio", logging.String(logging.FieldEventType, "transcript_no_audio"))
			return NoAudio(), nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || services.Marker(err) != nil {
			return Transcript{}, err
		}
		return Transcript{}, services.Wrap(services.ErrTransient, "transcription", provider.Name(), "transcription failed", err)
	}
	if resp.Status == ResponseError {
		if mentionsNoAudio(resp.ErrorDetail) {
			logger.Info("provider reported no spoken audio", logging.String(logging.FieldEventType, "transcript_no_audio"))
			return NoAudio(), nil
		}
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcription", provider.Name(), resp.ErrorDetail, nil)
	}
	return s.normalize(resp.Text, logger), nil
}

func (s *Service) normalize(text string, logger *slog.Logger) Transcript {
	spoken := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(spoken) < s.minChars {
		logging.WarnWithContext(logger, "transcript too short; using limited speech placeholder", "transcript_limited",
			logging.Int("chars", utf8.RuneCountInString(spoken)),
			logging.Int("min_chars", s.minChars),
			logging.String(logging.FieldImpact, "semantic scoring evaluates a placeholder description"),
		)
		return Transcript{Text: LimitedSpeechPlaceholder, Spoken: spoken, Status: StatusLimited}
	}
	return Transcript{Text: spoken, Spoken: spoken, Status: StatusOK}
}

func mentionsNoAudio(detail string) bool {
	detail = strings.ToLower(detail)
	return strings.Contains(detail, "no audio") || strings.Contains(detail, "no spoken audio") ||
		strings.Contains(detail, "does not appear to contain audio")
}
