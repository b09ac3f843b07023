package testsupport

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// RequireFFmpeg skips the test unless ffmpeg and ffprobe are on PATH.
func RequireFFmpeg(t testing.TB) {
	t.Helper()
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

// SynthesizeClip renders a short test clip with ffmpeg's lavfi sources: a
// moving test pattern and, when withAudio is set, a sine tone. The caller must
// have called RequireFFmpeg.
func SynthesizeClip(t testing.TB, dir string, seconds int, withAudio bool) string {
	t.Helper()
	if seconds <= 0 {
		seconds = 2
	}
	out := filepath.Join(dir, "clip.mp4")
	dur := strconv.Itoa(seconds)
	args := []string{"-hide_banner", "-loglevel", "error", "-y",
		"-f", "lavfi", "-i", "testsrc=size=160x120:rate=10:duration=" + dur,
	}
	if withAudio {
		args = append(args, "-f", "lavfi", "-i", "sine=frequency=220:sample_rate=16000:duration="+dur,
			"-c:a", "aac", "-shortest")
	}
	args = append(args, "-c:v", "mpeg4", "-pix_fmt", "yuv420p", out)
	cmd := exec.CommandContext(context.Background(), "ffmpeg", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("synthesize clip: %v: %s", err, output)
	}
	return out
}
