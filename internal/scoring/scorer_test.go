package scoring

import (
	"context"
	"errors"
	"testing"

	"intellicoach/internal/services"
)

type completerFunc func(ctx context.Context, system, user string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func lazyCompleter(fn completerFunc) *services.Lazy[Completer] {
	return services.Ready[Completer](fn)
}

func TestScorerParsesReply(t *testing.T) {
	var gotSystem, gotUser string
	scorer := NewScorer(lazyCompleter(func(_ context.Context, system, user string) (string, error) {
		gotSystem, gotUser = system, user
		return `{"clarity": 90, "engagement": 80, "confidence": 70, "technical": 60, "interaction": 50, "overall": 70, "suggestions": ["More examples"]}`, nil
	}), nil)
	result, err := scorer.Score(context.Background(), "vectors have magnitude and direction")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if result.Outcome != OutcomeParsed || result.Scores.Clarity != 90 {
		t.Fatalf("unexpected result %+v", result)
	}
	if gotSystem != SystemPrompt || gotUser == "" {
		t.Fatal("expected rubric prompts to be sent")
	}
}

func TestScorerMalformedReplyIsNotAnError(t *testing.T) {
	scorer := NewScorer(lazyCompleter(func(context.Context, string, string) (string, error) {
		return "As an AI I prefer prose.", nil
	}), nil)
	result, err := scorer.Score(context.Background(), "lesson text")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Outcome != OutcomeFallback || len(result.Scores.Suggestions) == 0 {
		t.Fatalf("expected fallback with suggestions, got %+v", result)
	}
}

func TestScorerTransportErrorIsTransient(t *testing.T) {
	scorer := NewScorer(lazyCompleter(func(context.Context, string, string) (string, error) {
		return "", errors.New("connection reset")
	}), nil)
	_, err := scorer.Score(context.Background(), "lesson text")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestScorerInitFailureIsConfiguration(t *testing.T) {
	lazy := services.NewLazy(func(context.Context) (Completer, error) {
		return nil, errors.New("missing key")
	})
	_, err := NewScorer(lazy, nil).Score(context.Background(), "lesson text")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestScorerRejectsEmptyTranscript(t *testing.T) {
	calls := 0
	scorer := NewScorer(lazyCompleter(func(context.Context, string, string) (string, error) {
		calls++
		return "", nil
	}), nil)
	if _, err := scorer.Score(context.Background(), "   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no model calls, got %d", calls)
	}
}
