package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"intellicoach/internal/gate"
	"intellicoach/internal/logging"
	"intellicoach/internal/media/audio"
	"intellicoach/internal/media/ffprobe"
	"intellicoach/internal/media/video"
	"intellicoach/internal/metrics"
	"intellicoach/internal/scoring"
	"intellicoach/internal/services"
	"intellicoach/internal/staging"
	"intellicoach/internal/transcription"
)

// Request is one video to analyze. Size may be negative when unknown.
type Request struct {
	Body     io.Reader
	Size     int64
	Filename string
}

// Transcriber produces a normalized transcript for a WAV file.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (transcription.Transcript, error)
}

// SemanticScorer grades a transcript against the rubric.
type SemanticScorer interface {
	Score(ctx context.Context, transcript string) (scoring.ParseResult, error)
}

// Options tunes the pipeline.
type Options struct {
	StagingDir            string
	FillerWords           []string
	NonInstructionalWords []string
	MotionNormalization   float64
	Pitch                 metrics.PitchOptions
	// Strategy selects the overall formula. StrategySignal skips the model.
	Strategy scoring.Strategy
}

// Pipeline analyzes videos. It is safe for concurrent use.
type Pipeline struct {
	opts        Options
	media       Media
	transcriber Transcriber
	scorer      SemanticScorer
	logger      *slog.Logger
}

// NewPipeline assembles a Pipeline. scorer may be nil when opts.Strategy is
// StrategySignal.
func NewPipeline(opts Options, media Media, transcriber Transcriber, scorer SemanticScorer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Strategy == "" {
		opts.Strategy = scoring.StrategyLLM
	}
	if scorer == nil {
		opts.Strategy = scoring.StrategySignal
	}
	return &Pipeline{
		opts:        opts,
		media:       media,
		transcriber: transcriber,
		scorer:      scorer,
		logger:      logging.NewComponentLogger(logger, "analysis"),
	}
}

// Strategy reports the aggregation strategy in effect.
func (p *Pipeline) Strategy() scoring.Strategy {
	return p.opts.Strategy
}

// Analyze runs the pipeline on req. The only error it returns is
// ErrEmptyPayload; every other failure is reported as an error Result.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (result Result, err error) {
	if req.Body == nil || req.Size == 0 {
		return Result{}, ErrEmptyPayload
	}
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()

	ws, err := staging.New(p.opts.StagingDir)
	if err != nil {
		failure := services.Wrap(services.ErrConfiguration, "staging", "create workspace", "staging directory unavailable", err)
		p.logFailure(logger, failure)
		return Failed(UserMessage(failure)).withRequestID(requestID), nil
	}
	defer func() {
		if releaseErr := ws.Release(); releaseErr != nil {
			logging.WarnWithContext(logger, "failed to release workspace", "workspace_release_failed",
				logging.String("path", ws.Root),
				logging.Error(releaseErr),
				logging.String(logging.FieldErrorHint, "the staging janitor will retry"),
			)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("analysis stage panicked",
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldEventType, "analysis_panic"),
			)
			result = Failed(UserMessage(nil)).withRequestID(requestID)
			err = nil
		}
	}()

	inputPath := ws.InputPath(req.Filename)
	written, stageErr := stageInput(inputPath, req.Body)
	if stageErr != nil {
		failure := services.Wrap(services.ErrValidation, "staging", "write upload", "could not read upload", stageErr)
		p.logFailure(logger, failure)
		return Failed(UserMessage(failure)).withRequestID(requestID), nil
	}
	if written == 0 {
		return Result{}, ErrEmptyPayload
	}
	logger.Info("analysis started",
		logging.String("workspace", ws.ID),
		logging.Int64("bytes", written),
		logging.String("strategy", string(p.opts.Strategy)),
		logging.String(logging.FieldEventType, "analysis_started"),
	)

	result, runErr := p.run(ctx, ws, inputPath, logger)
	if runErr != nil {
		p.logFailure(logger, runErr)
		return Failed(UserMessage(runErr)).withRequestID(requestID), nil
	}
	logger.Info("analysis finished",
		logging.String("status", string(result.Status)),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldEventType, "analysis_finished"),
	)
	return result.withRequestID(requestID), nil
}

func (p *Pipeline) run(ctx context.Context, ws *staging.Workspace, inputPath string, logger *slog.Logger) (Result, error) {
	wavPath := ws.AudioPath()

	probe, err := p.media.ExtractAudio(services.WithStage(ctx, "audio"), inputPath, wavPath)
	hasAudio := true
	switch {
	case errors.Is(err, audio.ErrNoAudioStream):
		hasAudio = false
		logger.Info("video has no audio track; continuing without speech",
			logging.String(logging.FieldEventType, "audio_missing"),
		)
	case err != nil:
		return Result{}, err
	}

	transcript := transcription.NoAudio()
	if hasAudio {
		transcript, err = p.transcriber.Transcribe(services.WithStage(ctx, "transcription"), wavPath)
		if err != nil {
			return Result{}, err
		}
	}

	if verdict := gate.Check(transcript.Spoken, p.opts.NonInstructionalWords); !verdict.Instructional {
		logger.Info("content rejected as non-instructional",
			logging.Any("matched", verdict.Matched),
			logging.String(logging.FieldEventType, "content_rejected"),
		)
		return Rejected(gate.RejectionMessage), nil
	}

	signals, err := p.measure(services.WithStage(ctx, "signals"), inputPath, wavPath, probe, hasAudio, transcript, logger)
	if err != nil {
		return Result{}, err
	}

	if p.opts.Strategy == scoring.StrategySignal {
		return Succeeded(Success{
			Scores:     scoring.FromSignals(signals),
			Signals:    signals,
			Transcript: transcript,
			Strategy:   scoring.StrategySignal,
		}), nil
	}
	parsed, err := p.scorer.Score(services.WithStage(ctx, "scoring"), transcript.ScoringText())
	if err != nil {
		return Result{}, err
	}
	return Succeeded(Success{
		Scores:       parsed.Scores,
		Signals:      signals,
		Transcript:   transcript,
		Strategy:     scoring.StrategyLLM,
		ParseOutcome: parsed.Outcome,
	}), nil
}

// measure computes the signal metrics. The motion scan and the pitch
// analysis read different files and run in parallel.
func (p *Pipeline) measure(ctx context.Context, videoPath, wavPath string, probe ffprobe.Result, hasAudio bool, transcript transcription.Transcript, logger *slog.Logger) (metrics.Signals, error) {
	var (
		wg         sync.WaitGroup
		engagement metrics.EngagementResult
		confidence metrics.ConfidenceResult
		duration   = probe.DurationSeconds()
		motionErr  error
		pitchErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer recoverInto(&motionErr, "motion")
		engagement, motionErr = p.motion(ctx, videoPath, probe)
	}()
	go func() {
		defer wg.Done()
		defer recoverInto(&pitchErr, "pitch")
		if !hasAudio {
			confidence = metrics.Confidence(metrics.Track{})
			return
		}
		var seconds float64
		confidence, seconds, pitchErr = p.pitch(ctx, wavPath)
		if seconds > 0 {
			duration = seconds
		}
	}()
	wg.Wait()

	if err := errors.Join(motionErr, pitchErr); err != nil {
		return metrics.Signals{}, err
	}
	if engagement.Neutral {
		logger.Info("no measurable motion; using neutral engagement",
			logging.Int("frame_pairs", engagement.Pairs),
			logging.String(logging.FieldEventType, "engagement_neutral"),
		)
	}
	if confidence.Voiced == 0 {
		logger.Info("no voiced pitch found; confidence is zero",
			logging.String(logging.FieldEventType, "confidence_floor"),
		)
	}

	pace := metrics.Pace(transcript.Spoken, duration, p.opts.FillerWords)
	return metrics.Combine(pace, engagement, confidence), nil
}

func (p *Pipeline) motion(ctx context.Context, videoPath string, probe ffprobe.Result) (metrics.EngagementResult, error) {
	stream, ok := probe.PrimaryVideo()
	if !ok && len(probe.Streams) > 0 {
		// Audio-only uploads and cover art carry no motion.
		return metrics.Engagement(nil, p.opts.MotionNormalization), nil
	}
	var motion metrics.Motion
	if _, err := p.media.ScanFrames(ctx, videoPath, stream.FrameRate(), func(frame video.Frame) error {
		motion.Observe(frame)
		return nil
	}); err != nil {
		return metrics.EngagementResult{}, err
	}
	return metrics.Engagement(motion.Series(), p.opts.MotionNormalization), nil
}

func (p *Pipeline) pitch(ctx context.Context, wavPath string) (metrics.ConfidenceResult, float64, error) {
	wave, err := p.media.LoadWaveform(ctx, wavPath)
	if err != nil {
		return metrics.ConfidenceResult{}, 0, err
	}
	track := metrics.PitchTrack(wave.Samples, wave.SampleRate, p.opts.Pitch)
	return metrics.Confidence(track), wave.Duration(), nil
}

func (p *Pipeline) logFailure(logger *slog.Logger, err error) {
	logger.Error("analysis failed",
		logging.Error(err),
		logging.String(logging.FieldEventType, "analysis_failed"),
		logging.String(logging.FieldImpact, "an error result was returned"),
	)
}

func stageInput(path string, body io.Reader) (int64, error) {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return written, err
}

func recoverInto(dst *error, stage string) {
	if r := recover(); r != nil {
		*dst = fmt.Errorf("%s stage panicked: %v", stage, r)
	}
}
