package analysis

import (
	"context"

	"intellicoach/internal/media/audio"
	"intellicoach/internal/media/ffprobe"
	"intellicoach/internal/media/video"
)

// Media decodes a staged upload.
type Media interface {
	// ExtractAudio writes the mono 16 kHz WAV and returns the probe report.
	// It returns audio.ErrNoAudioStream for containers without audio.
	ExtractAudio(ctx context.Context, videoPath, wavPath string) (ffprobe.Result, error)
	LoadWaveform(ctx context.Context, wavPath string) (audio.Waveform, error)
	// ScanFrames samples the primary video stream. sourceFPS is the stream's
	// native rate, or 0 when unknown.
	ScanFrames(ctx context.Context, videoPath string, sourceFPS float64, visit video.FrameVisitor) (int, error)
}

// FFmpegMedia implements Media with the ffmpeg and ffprobe executables.
type FFmpegMedia struct {
	extractor *audio.Extractor
	frames    video.Options
}

// NewFFmpegMedia builds the executable-backed Media.
func NewFFmpegMedia(ffmpegBinary, ffprobeBinary string, frames video.Options) *FFmpegMedia {
	frames.FFmpegBinary = ffmpegBinary
	return &FFmpegMedia{
		extractor: audio.NewExtractor(ffmpegBinary, ffprobeBinary),
		frames:    frames,
	}
}

func (m *FFmpegMedia) ExtractAudio(ctx context.Context, videoPath, wavPath string) (ffprobe.Result, error) {
	return m.extractor.Extract(ctx, videoPath, wavPath)
}

func (m *FFmpegMedia) LoadWaveform(ctx context.Context, wavPath string) (audio.Waveform, error) {
	return audio.LoadPCM(ctx, m.extractor.FFmpegBinary, wavPath)
}

func (m *FFmpegMedia) ScanFrames(ctx context.Context, videoPath string, sourceFPS float64, visit video.FrameVisitor) (int, error) {
	return video.Scan(ctx, videoPath, m.frames.CappedTo(sourceFPS), visit)
}
