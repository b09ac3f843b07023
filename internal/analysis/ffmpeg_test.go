package analysis

import (
	"context"
	"os"
	"testing"

	"intellicoach/internal/media/video"
	"intellicoach/internal/scoring"
	"intellicoach/internal/testsupport"
)

func TestAnalyzeRealClipWithSignals(t *testing.T) {
	testsupport.RequireFFmpeg(t)
	cfg := testsupport.NewConfig(t)
	clip := testsupport.SynthesizeClip(t, testsupport.BaseDir(cfg), 3, true)

	media := NewFFmpegMedia("", "", video.Options{Width: 32, Height: 18, FPS: 4})
	tr := &fakeTranscriber{transcript: spoken("today we explain how the lesson works and practice an example together")}
	pipeline := NewPipeline(Options{
		StagingDir:            cfg.Paths.StagingDir,
		FillerWords:           cfg.Content.FillerWords,
		NonInstructionalWords: cfg.Content.NonInstructionalWords,
		MotionNormalization:   cfg.Engagement.MotionNormalization,
		Pitch:                 pitchOptions(cfg),
	}, media, tr, nil, nil)

	f, err := os.Open(clip)
	if err != nil {
		t.Fatalf("open clip: %v", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		t.Fatalf("stat clip: %v", err)
	}

	res, err := pipeline.Analyze(context.Background(), Request{Body: f, Size: info.Size(), Filename: "clip.mp4"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Strategy != scoring.StrategySignal {
		t.Fatalf("expected signal strategy, got %q", res.Strategy)
	}
	if res.Signals == nil || res.Signals.FramePairs == 0 {
		t.Fatalf("expected motion to be measured, got %+v", res.Signals)
	}
	if res.Signals.Engagement <= 0 {
		t.Fatalf("expected moving test pattern to register engagement, got %v", res.Signals.Engagement)
	}
	if tr.calls != 1 {
		t.Fatalf("expected one transcription, got %d", tr.calls)
	}
	assertNoWorkspace(t, cfg.Paths.StagingDir)
}
