package video

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"intellicoach/internal/services"
)

// Options controls frame sampling.
type Options struct {
	FFmpegBinary string
	Width        int
	Height       int
	FPS          float64
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.FFmpegBinary) == "" {
		o.FFmpegBinary = "ffmpeg"
	}
	if o.Width <= 0 {
		o.Width = 160
	}
	if o.Height <= 0 {
		o.Height = 90
	}
	if o.FPS <= 0 {
		o.FPS = 5
	}
	return o
}

// CappedTo lowers the sampling rate to sourceFPS so slow sources are not
// padded with duplicated frames, which would read as stillness. A
// non-positive sourceFPS leaves o unchanged.
func (o Options) CappedTo(sourceFPS float64) Options {
	o = o.withDefaults()
	if sourceFPS > 0 && sourceFPS < o.FPS {
		o.FPS = sourceFPS
	}
	return o
}

// Frame is one sampled intensity image in row-major order, values 0-65535.
type Frame []uint16

// FrameVisitor receives each frame. The slice is reused between calls.
type FrameVisitor func(Frame) error

// Scan decodes path and calls visit for each sampled frame. It returns the
// number of frames delivered. An error from visit stops decoding and is
// returned unchanged.
func Scan(ctx context.Context, path string, opts Options, visit FrameVisitor) (int, error) {
	opts = opts.withDefaults()
	filter := fmt.Sprintf("fps=%s,scale=%d:%d:flags=area,format=gray16le",
		strconv.FormatFloat(opts.FPS, 'f', -1, 64), opts.Width, opts.Height)
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-map", "0:v:0",
		"-an",
		"-vf", filter,
		"-f", "rawvideo",
		"-pix_fmt", "gray16le",
		"-",
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cmd := exec.CommandContext(ctx, opts.FFmpegBinary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "video", "scan", "open ffmpeg stdout", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "video", "scan", "start ffmpeg", err)
	}

	frameBytes := opts.Width * opts.Height * 2
	buf := make([]byte, frameBytes)
	frame := make(Frame, opts.Width*opts.Height)
	reader := bufio.NewReaderSize(stdout, frameBytes)
	count := 0
	var visitErr error
	for {
		if _, err := io.ReadFull(reader, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			visitErr = fmt.Errorf("read frame: %w", err)
			break
		}
		for i := range frame {
			frame[i] = binary.LittleEndian.Uint16(buf[i*2:])
		}
		if err := visit(frame); err != nil {
			visitErr = err
			break
		}
		count++
	}

	if visitErr != nil {
		cancel()
		_ = cmd.Wait()
		return count, visitErr
	}
	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return count, ctxErr
		}
		return count, services.Wrap(
			services.ErrDecode,
			"video",
			"scan",
			fmt.Sprintf("ffmpeg frame decode: %s", strings.TrimSpace(stderr.String())),
			err,
		)
	}
	return count, nil
}
