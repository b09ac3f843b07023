package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"intellicoach/internal/media/ffprobe"
	"intellicoach/internal/services"
)

// SampleRate is the rate used for the extracted speech track.
const SampleRate = 16000

// ErrNoAudioStream reports a container without any audio track.
var ErrNoAudioStream = errors.New("no audio stream")

// Extractor demuxes audio tracks with ffmpeg.
type Extractor struct {
	FFmpegBinary  string
	FFprobeBinary string
}

// NewExtractor builds an Extractor, defaulting empty binaries to PATH lookups.
func NewExtractor(ffmpegBinary, ffprobeBinary string) *Extractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	return &Extractor{FFmpegBinary: ffmpegBinary, FFprobeBinary: ffprobeBinary}
}

// Probe inspects the container.
func (e *Extractor) Probe(ctx context.Context, videoPath string) (ffprobe.Result, error) {
	return ffprobe.Inspect(ctx, e.FFprobeBinary, videoPath)
}

// Extract writes a 16 kHz mono pcm_s16le WAV of the first audio track to
// destPath. It returns ErrNoAudioStream without creating destPath when the
// container carries no audio. On ffmpeg failure any partial output is removed.
func (e *Extractor) Extract(ctx context.Context, videoPath, destPath string) (ffprobe.Result, error) {
	probe, err := e.Probe(ctx, videoPath)
	if err != nil {
		return ffprobe.Result{}, err
	}
	if !probe.HasAudio() {
		return probe, ErrNoAudioStream
	}

	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", videoPath,
		"-map", "0:a:0",
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-c:a", "pcm_s16le",
		destPath,
	}
	cmd := exec.CommandContext(ctx, e.FFmpegBinary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(destPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return probe, ctxErr
		}
		return probe, services.Wrap(
			services.ErrDecode,
			"audio",
			"extract",
			fmt.Sprintf("ffmpeg audio extract: %s", strings.TrimSpace(stderr.String())),
			err,
		)
	}
	return probe, nil
}
