package transcription

import (
	"context"
	"errors"
	"testing"

	"intellicoach/internal/services"
)

type fakeProvider struct {
	resp  Response
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Transcribe(context.Context, string) (Response, error) {
	f.calls++
	return f.resp, f.err
}

func newService(p Provider) *Service {
	return NewService(services.Ready(p), 30, nil)
}

func TestTranscribeOK(t *testing.T) {
	text := "  Today we are going to learn\nhow photosynthesis works in plants.  "
	got, err := newService(&fakeProvider{resp: Response{Text: text, Status: ResponseOK}}).Transcribe(context.Background(), "a.wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	want := "Today we are going to learn how photosynthesis works in plants."
	if got.Status != StatusOK || got.Text != want || got.Spoken != want {
		t.Fatalf("unexpected transcript %+v", got)
	}
}

func TestTranscribeShortTextUsesPlaceholder(t *testing.T) {
	got, err := newService(&fakeProvider{resp: Response{Text: "um okay so", Status: ResponseOK}}).Transcribe(context.Background(), "a.wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got.Status != StatusLimited || got.Text != LimitedSpeechPlaceholder {
		t.Fatalf("expected limited placeholder, got %+v", got)
	}
	if got.Spoken != "um okay so" {
		t.Fatalf("expected spoken text preserved, got %q", got.Spoken)
	}
}

func TestTranscribeNoAudio(t *testing.T) {
	for name, p := range map[string]*fakeProvider{
		"sentinel": {err: ErrNoAudio},
		"detail":   {resp: Response{Status: ResponseError, ErrorDetail: "File does not appear to contain audio."}},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := newService(p).Transcribe(context.Background(), "a.wav")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Status != StatusNoAudio || got.Text != "" {
				t.Fatalf("expected no-audio transcript, got %+v", got)
			}
		})
	}
}

func TestTranscribeProviderFailures(t *testing.T) {
	_, err := newService(&fakeProvider{err: errors.New("socket closed")}).Transcribe(context.Background(), "a.wav")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
	_, err = newService(&fakeProvider{resp: Response{Status: ResponseError, ErrorDetail: "quota exceeded"}}).Transcribe(context.Background(), "a.wav")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	tagged := services.Wrap(services.ErrConfiguration, "x", "y", "bad key", nil)
	_, err = newService(&fakeProvider{err: tagged}).Transcribe(context.Background(), "a.wav")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected marker preserved, got %v", err)
	}
}

func TestTranscribeProviderInitRetried(t *testing.T) {
	attempts := 0
	lazy := services.NewLazy(func(context.Context) (Provider, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("model download failed")
		}
		return &fakeProvider{resp: Response{Text: "a sufficiently long transcript for the test", Status: ResponseOK}}, nil
	})
	svc := NewService(lazy, 0, nil)
	if _, err := svc.Transcribe(context.Background(), "a.wav"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error on first init, got %v", err)
	}
	got, err := svc.Transcribe(context.Background(), "a.wav")
	if err != nil || got.Status != StatusOK {
		t.Fatalf("expected retry to succeed, got %+v %v", got, err)
	}
}

func TestScoringTextFallsBackToPlaceholder(t *testing.T) {
	if got := NoAudio().ScoringText(); got != LimitedSpeechPlaceholder {
		t.Fatalf("expected placeholder for silent video, got %q", got)
	}
	tr := Transcript{Text: "hello class", Status: StatusOK}
	if got := tr.ScoringText(); got != "hello class" {
		t.Fatalf("unexpected scoring text %q", got)
	}
}
