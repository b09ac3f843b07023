package scoring

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"intellicoach/internal/logging"
	"intellicoach/internal/services"
)

// Completer is a chat-style language model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Scorer runs semantic scoring against a lazily initialized Completer.
type Scorer struct {
	completer *services.Lazy[Completer]
	logger    *slog.Logger
}

// NewScorer constructs a Scorer. A nil logger discards output.
func NewScorer(completer *services.Lazy[Completer], logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scorer{completer: completer, logger: logging.NewComponentLogger(logger, "scoring")}
}

// Score asks the model to grade transcript. Transport failures are returned;
// unparsable replies are not.
func (s *Scorer) Score(ctx context.Context, transcript string) (ParseResult, error) {
	if s == nil || s.completer == nil {
		return ParseResult{}, services.Wrap(services.ErrConfiguration, "scoring", "score", "no language model configured", nil)
	}
	if strings.TrimSpace(transcript) == "" {
		return ParseResult{}, services.Wrap(services.ErrValidation, "scoring", "score", "empty transcript", nil)
	}
	completer, err := s.completer.Get(ctx)
	if err != nil {
		return ParseResult{}, services.Wrap(services.ErrConfiguration, "scoring", "init model", "language model unavailable", err)
	}
	logger := logging.WithContext(ctx, s.logger)

	reply, err := completer.Complete(ctx, SystemPrompt, BuildPrompt(transcript))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ParseResult{}, err
		}
		if services.Marker(err) != nil {
			return ParseResult{}, err
		}
		return ParseResult{}, services.Wrap(services.ErrTransient, "scoring", "complete", "language model request failed", err)
	}

	result := Parse(reply)
	switch result.Outcome {
	case OutcomeFallback:
		logging.WarnWithContext(logger, "model reply could not be parsed; using fallback scores", "llm_parse_fallback",
			logging.Error(result.Err),
			logging.Int("reply_bytes", len(reply)),
			logging.String(logging.FieldErrorHint, "check the model supports JSON output"),
			logging.String(logging.FieldImpact, "semantic scores are zero for this analysis"),
		)
	case OutcomeExtracted:
		logger.Info("model reply wrapped in prose; extracted json object",
			logging.String(logging.FieldEventType, "llm_json_extracted"),
		)
	default:
		logger.Debug("model reply parsed", logging.Float64("overall", result.Scores.Overall))
	}
	return result, nil
}
