package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"intellicoach/internal/config"
	"intellicoach/internal/media/audio"
	"intellicoach/internal/media/ffprobe"
	"intellicoach/internal/media/video"
	"intellicoach/internal/metrics"
	"intellicoach/internal/scoring"
	"intellicoach/internal/services"
	"intellicoach/internal/transcription"
)

type fakeMedia struct {
	noAudio    bool
	extractErr error
	frames     []video.Frame
	wave       audio.Waveform
	panicScan  bool
	scans      int
	sourceFPS  float64
	// videoStreams replaces the default 25 fps video stream when set.
	videoStreams []ffprobe.Stream
}

func (m *fakeMedia) ExtractAudio(_ context.Context, _ string, wavPath string) (ffprobe.Result, error) {
	probe := ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "video", Width: 640, Height: 360, AvgFrameRate: "25/1"}},
		Format:  ffprobe.Format{Duration: "60"},
	}
	if m.videoStreams != nil {
		probe.Streams = m.videoStreams
	}
	if m.extractErr != nil {
		return ffprobe.Result{}, m.extractErr
	}
	if m.noAudio {
		return probe, audio.ErrNoAudioStream
	}
	probe.Streams = append(probe.Streams, ffprobe.Stream{CodecType: "audio"})
	return probe, os.WriteFile(wavPath, []byte("RIFF"), 0o600)
}

func (m *fakeMedia) LoadWaveform(context.Context, string) (audio.Waveform, error) {
	return m.wave, nil
}

func (m *fakeMedia) ScanFrames(_ context.Context, _ string, sourceFPS float64, visit video.FrameVisitor) (int, error) {
	m.scans++
	m.sourceFPS = sourceFPS
	if m.panicScan {
		panic("decoder exploded")
	}
	for _, f := range m.frames {
		if err := visit(f); err != nil {
			return 0, err
		}
	}
	return len(m.frames), nil
}

type fakeTranscriber struct {
	transcript transcription.Transcript
	err        error
	calls      int
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (transcription.Transcript, error) {
	f.calls++
	return f.transcript, f.err
}

type fakeScorer struct {
	result scoring.ParseResult
	err    error
	calls  int
	seen   string
}

func (f *fakeScorer) Score(_ context.Context, text string) (scoring.ParseResult, error) {
	f.calls++
	f.seen = text
	return f.result, f.err
}

func spoken(text string) transcription.Transcript {
	return transcription.Transcript{Text: text, Spoken: text, Status: transcription.StatusOK}
}

func tone(seconds float64) audio.Waveform {
	rate := 16000
	samples := make([]float64, int(seconds*float64(rate)))
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
	}
	return audio.Waveform{Samples: samples, SampleRate: rate}
}

func movingFrames() []video.Frame {
	a := make(video.Frame, 16)
	b := make(video.Frame, 16)
	for i := range b {
		b[i] = 2500
	}
	return []video.Frame{a, b, a}
}

func newTestPipeline(t *testing.T, media Media, tr Transcriber, sc SemanticScorer) (*Pipeline, string) {
	t.Helper()
	root := t.TempDir()
	opts := Options{
		StagingDir:            root,
		FillerWords:           config.DefaultFillerWords,
		NonInstructionalWords: config.DefaultNonInstructionalWords,
		MotionNormalization:   metrics.DefaultMotionNormalization,
		Pitch:                 metrics.DefaultPitchOptions(),
	}
	return NewPipeline(opts, media, tr, sc, nil), root
}

func upload(body string) Request {
	return Request{Body: strings.NewReader(body), Size: int64(len(body)), Filename: "lesson.mp4"}
}

func assertNoWorkspace(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read staging root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no workspace left behind, found %d entries", len(entries))
	}
}

func TestAnalyzeSuccessWithModelScores(t *testing.T) {
	scorer := &fakeScorer{result: scoring.ParseResult{
		Scores:  scoring.Scores{Clarity: 80, Engagement: 70, Confidence: 75, Technical: 90, Interaction: 60, Overall: 78, Suggestions: []string{"Ask more questions."}},
		Outcome: scoring.OutcomeParsed,
	}}
	text := "Today we will learn how fractions can be added by finding a common denominator."
	media := &fakeMedia{frames: movingFrames(), wave: tone(2)}
	p, root := newTestPipeline(t, media, &fakeTranscriber{transcript: spoken(text)}, scorer)

	res, err := p.Analyze(context.Background(), upload("video-bytes"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.OK() || res.Scores == nil || res.Signals == nil {
		t.Fatalf("expected success with scores, got %+v", res)
	}
	if res.Strategy != scoring.StrategyLLM || res.ParseOutcome != scoring.OutcomeParsed {
		t.Fatalf("unexpected strategy/outcome %s/%s", res.Strategy, res.ParseOutcome)
	}
	if res.Rating != "Good" {
		t.Fatalf("expected Good rating for 78, got %s", res.Rating)
	}
	if res.Transcript != text || res.TranscriptPreview != text {
		t.Fatalf("unexpected transcript fields %q / %q", res.Transcript, res.TranscriptPreview)
	}
	if scorer.seen != text {
		t.Fatalf("scorer saw %q", scorer.seen)
	}
	if res.RequestID == "" {
		t.Fatal("expected request id")
	}
	s := res.Signals
	for name, v := range map[string]float64{"clarity": s.Clarity, "engagement": s.Engagement, "confidence": s.Confidence} {
		if v < 0 || v > 100 {
			t.Fatalf("%s out of range: %v", name, v)
		}
	}
	if s.Engagement != 50 {
		t.Fatalf("expected engagement 50 for mean diff 2500, got %v", s.Engagement)
	}
	if media.sourceFPS != 25 {
		t.Fatalf("expected frame sampling to see the 25 fps source rate, got %v", media.sourceFPS)
	}
	if s.WordsPerMinute <= 0 {
		t.Fatalf("expected positive wpm, got %v", s.WordsPerMinute)
	}
	assertNoWorkspace(t, root)
}

func TestAnalyzeRejectsMusicWithoutScoring(t *testing.T) {
	scorer := &fakeScorer{}
	tr := &fakeTranscriber{transcript: spoken("sing the chorus again and then the lyrics of the last verse")}
	p, root := newTestPipeline(t, &fakeMedia{wave: tone(1)}, tr, scorer)

	res, err := p.Analyze(context.Background(), upload("video"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Status != StatusInvalid || res.Reason == "" {
		t.Fatalf("expected invalid result, got %+v", res)
	}
	if res.Scores != nil || res.Signals != nil {
		t.Fatal("invalid result must not carry scores")
	}
	if scorer.calls != 0 {
		t.Fatalf("scorer called %d times for rejected content", scorer.calls)
	}
	assertNoWorkspace(t, root)
}

func TestAnalyzeNoAudioSkipsTranscription(t *testing.T) {
	tr := &fakeTranscriber{}
	scorer := &fakeScorer{result: scoring.ParseResult{Scores: scoring.Scores{Overall: 40}, Outcome: scoring.OutcomeParsed}}
	p, root := newTestPipeline(t, &fakeMedia{noAudio: true}, tr, scorer)

	res, err := p.Analyze(context.Background(), upload("video"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	if tr.calls != 0 {
		t.Fatal("transcriber should not run without audio")
	}
	if scorer.seen != transcription.LimitedSpeechPlaceholder {
		t.Fatalf("expected placeholder to be scored, got %q", scorer.seen)
	}
	if res.TranscriptStatus != transcription.StatusNoAudio {
		t.Fatalf("unexpected transcript status %s", res.TranscriptStatus)
	}
	if res.Signals.Confidence != 0 || res.Signals.Engagement != metrics.NeutralEngagement {
		t.Fatalf("expected confidence 0 and neutral engagement, got %+v", res.Signals)
	}
	assertNoWorkspace(t, root)
}

func TestAnalyzeSkipsFrameScanForCoverArt(t *testing.T) {
	media := &fakeMedia{
		frames:       movingFrames(),
		wave:         tone(2),
		videoStreams: []ffprobe.Stream{{CodecType: "video", AvgFrameRate: "0/0"}},
	}
	p, root := newTestPipeline(t, media, &fakeTranscriber{transcript: spoken("a podcast episode about the history of algebra")}, nil)

	res, err := p.Analyze(context.Background(), upload("audio-with-art"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	if media.scans != 0 {
		t.Fatalf("expected no frame scan for cover art, got %d", media.scans)
	}
	if want := metrics.Engagement(nil, metrics.DefaultMotionNormalization).Score; res.Signals.Engagement != want {
		t.Fatalf("expected engagement %v without real video, got %v", want, res.Signals.Engagement)
	}
	assertNoWorkspace(t, root)
}

func TestAnalyzeSignalStrategy(t *testing.T) {
	p, root := newTestPipeline(t, &fakeMedia{frames: movingFrames(), wave: tone(2)},
		&fakeTranscriber{transcript: spoken("we measure the angle with a protractor and write it down")}, nil)
	if p.Strategy() != scoring.StrategySignal {
		t.Fatalf("expected signal strategy without a scorer, got %s", p.Strategy())
	}

	res, err := p.Analyze(context.Background(), upload("video"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.OK() || res.Strategy != scoring.StrategySignal {
		t.Fatalf("expected signal success, got %+v", res)
	}
	if res.Scores.Technical != 0 || res.Scores.Interaction != 0 {
		t.Fatalf("signal strategy must leave technical/interaction at 0: %+v", res.Scores)
	}
	if want := scoring.SignalOverall(*res.Signals); res.Scores.Overall != want {
		t.Fatalf("overall %v, want %v", res.Scores.Overall, want)
	}
	assertNoWorkspace(t, root)
}

func TestAnalyzeEmptyPayload(t *testing.T) {
	p, root := newTestPipeline(t, &fakeMedia{}, &fakeTranscriber{}, &fakeScorer{})

	if _, err := p.Analyze(context.Background(), Request{}); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload for nil body, got %v", err)
	}
	unknown := Request{Body: bytes.NewReader(nil), Size: -1}
	if _, err := p.Analyze(context.Background(), unknown); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload for empty stream, got %v", err)
	}
	assertNoWorkspace(t, root)
}

func TestAnalyzeFailuresBecomeErrorResults(t *testing.T) {
	decodeErr := services.Wrap(services.ErrDecode, "audio", "extract", "moov atom not found", nil)
	tests := []struct {
		name  string
		media *fakeMedia
		tr    *fakeTranscriber
		sc    *fakeScorer
		want  string
	}{
		{"decode", &fakeMedia{extractErr: decodeErr}, &fakeTranscriber{}, &fakeScorer{}, UserMessage(decodeErr)},
		{"transcription", &fakeMedia{wave: tone(1)}, &fakeTranscriber{err: services.Wrap(services.ErrTransient, "transcription", "x", "down", nil)}, &fakeScorer{}, UserMessage(services.ErrTransient)},
		{"scoring", &fakeMedia{wave: tone(1)}, &fakeTranscriber{transcript: spoken("a perfectly ordinary lesson about cells and tissues")}, &fakeScorer{err: services.Wrap(services.ErrConfiguration, "llm", "x", "bad key", nil)}, UserMessage(services.ErrConfiguration)},
		{"panic", &fakeMedia{wave: tone(1), panicScan: true}, &fakeTranscriber{transcript: spoken("a perfectly ordinary lesson about cells and tissues")}, &fakeScorer{}, UserMessage(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, root := newTestPipeline(t, tt.media, tt.tr, tt.sc)
			res, err := p.Analyze(context.Background(), upload("video"))
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if res.Status != StatusError || res.Message != tt.want {
				t.Fatalf("expected error result %q, got %+v", tt.want, res)
			}
			if res.Scores != nil {
				t.Fatal("error result must not carry scores")
			}
			assertNoWorkspace(t, root)
		})
	}
}

func TestAnalyzeStagingFailure(t *testing.T) {
	file := t.TempDir() + "/not-a-dir"
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := NewPipeline(Options{StagingDir: file}, &fakeMedia{}, &fakeTranscriber{}, nil, nil)
	res, err := p.Analyze(context.Background(), upload("video"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Status != StatusError {
		t.Fatalf("expected error result, got %+v", res)
	}
}

func TestAnalyzeKeepsCallerRequestID(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeMedia{noAudio: true}, &fakeTranscriber{}, nil)
	ctx := services.WithRequestID(context.Background(), "req-42")
	res, err := p.Analyze(ctx, upload("video"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.RequestID != "req-42" {
		t.Fatalf("expected caller request id, got %q", res.RequestID)
	}
}

func TestSuccessResultJSONRoundTrip(t *testing.T) {
	scores := scoring.Scores{Clarity: 81, Engagement: 64, Confidence: 70, Technical: 88, Interaction: 55, Overall: 74.3, Suggestions: []string{"Pause after key points."}}
	long := strings.Repeat("word ", 1000)
	res := Succeeded(Success{
		Scores:     scores,
		Signals:    metrics.Signals{Clarity: 90, Engagement: 40, Confidence: 65, WordsPerMinute: 130},
		Transcript: spoken(long),
		Strategy:   scoring.StrategyLLM,
	})
	if n := len([]rune(res.Transcript)); n != MaxTranscriptRunes {
		t.Fatalf("transcript not truncated: %d runes", n)
	}
	if !strings.HasSuffix(res.TranscriptPreview, "...") || len([]rune(res.TranscriptPreview)) != PreviewRunes+3 {
		t.Fatalf("unexpected preview %q", res.TranscriptPreview)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Scores == nil || decoded.Scores.Overall != scores.Overall || decoded.Scores.Technical != scores.Technical {
		t.Fatalf("scores not reproduced: %+v", decoded.Scores)
	}
	if decoded.Status != StatusSuccess || decoded.Rating != "Good" {
		t.Fatalf("unexpected decoded result %+v", decoded)
	}
}

func TestInvalidAndErrorVariantsOmitScores(t *testing.T) {
	for _, res := range []Result{Rejected("music"), Failed("boom")} {
		data, err := json.Marshal(res)
		if err != nil {
			t.Fatal(err)
		}
		if bytes.Contains(data, []byte(`"scores"`)) {
			t.Fatalf("unexpected scores in %s", data)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if UserMessage(ErrEmptyPayload) == UserMessage(nil) {
		t.Fatal("empty payload should have its own message")
	}
	if UserMessage(context.DeadlineExceeded) == UserMessage(services.ErrDecode) {
		t.Fatal("timeout and decode messages must differ")
	}
	wrapped := services.Wrap(services.ErrDecode, "probe", "inspect", "bad", errors.New("exit 1"))
	if got := UserMessage(wrapped); !strings.Contains(got, "decoded") {
		t.Fatalf("unexpected decode message %q", got)
	}
}
