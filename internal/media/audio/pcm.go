package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"intellicoach/internal/services"
)

// Waveform holds mono samples normalized to [-1, 1].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// LoadPCM decodes path into a mono waveform at SampleRate.
func LoadPCM(ctx context.Context, ffmpegBinary, path string) (Waveform, error) {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-f", "s16le",
		"-",
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Waveform{}, ctxErr
		}
		return Waveform{}, services.Wrap(
			services.ErrDecode,
			"audio",
			"load pcm",
			fmt.Sprintf("ffmpeg pcm decode: %s", strings.TrimSpace(stderr.String())),
			err,
		)
	}
	return Waveform{Samples: DecodeS16LE(stdout.Bytes()), SampleRate: SampleRate}, nil
}

// DecodeS16LE converts little-endian signed 16-bit PCM to floats in [-1, 1].
// A trailing odd byte is ignored.
func DecodeS16LE(data []byte) []float64 {
	samples := make([]float64, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(v) / 32768.0
	}
	return samples
}
