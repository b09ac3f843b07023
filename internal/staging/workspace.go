package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"intellicoach/internal/textutil"
)

const (
	lockFileName = ".lock"
	inputBase    = "input"
	audioName    = "audio.wav"
	// DefaultInputExtension is used when an upload carries no usable extension.
	DefaultInputExtension = ".mp4"
)

// Workspace is a locked staging directory owned by one analysis.
type Workspace struct {
	ID   string
	Root string

	lock    *flock.Flock
	once    sync.Once
	release error
}

// New creates root/<uuid> and locks it.
func New(root string) (*Workspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("staging root not configured")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	id := uuid.NewString()
	dir := filepath.Join(root, id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil || !ok {
		_ = os.RemoveAll(dir)
		if err == nil {
			err = errors.New("workspace already locked")
		}
		return nil, fmt.Errorf("lock workspace: %w", err)
	}
	return &Workspace{ID: id, Root: dir, lock: lock}, nil
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Root, name)
}

// InputPath returns the location for the staged upload, keeping a sanitized
// extension from the declared filename so ffmpeg can sniff the container.
func (w *Workspace) InputPath(filename string) string {
	return w.Path(inputBase + textutil.SanitizeExtension(filename, DefaultInputExtension))
}

// AudioPath returns the location for the extracted WAV.
func (w *Workspace) AudioPath() string {
	return w.Path(audioName)
}

// Release unlocks and removes the workspace. It is safe to call more than once.
func (w *Workspace) Release() error {
	if w == nil {
		return nil
	}
	w.once.Do(func() {
		var errs []error
		if err := w.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("unlock workspace: %w", err))
		}
		if err := os.RemoveAll(w.Root); err != nil {
			errs = append(errs, fmt.Errorf("remove workspace: %w", err))
		}
		w.release = errors.Join(errs...)
	})
	return w.release
}
