// Package pipeline orchestrates a personalization run end to end: synthesize
// the name, clone the reference voice onto it, and splice the result into the
// template video's silent gap.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"namecast/internal/config"
)

// RunContext isolates one run's intermediate files. Concurrent runs get
// disjoint directories, so nothing in the pipeline needs cross-process
// coordination beyond the stale sweep.
type RunContext struct {
	RunID   string
	Dir     string
	workDir string
}

// NewRunID builds an identifier unique across concurrent processes: the pid
// catches parallel invocations, the uuid fragment catches pid reuse.
func NewRunID() string {
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d_%s", os.Getpid(), fragment)
}

// NewRunContext creates the per-run working directory.
func NewRunContext(cfg *config.Config) (*RunContext, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	runID := NewRunID()
	dir := filepath.Join(cfg.Paths.WorkDir, "run-"+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	return &RunContext{RunID: runID, Dir: dir, workDir: cfg.Paths.WorkDir}, nil
}

// Path returns a file location inside the run directory.
func (rc *RunContext) Path(name string) string {
	return filepath.Join(rc.Dir, name)
}

// Cleanup removes the run directory. Only this run's files are touched.
func (rc *RunContext) Cleanup() error {
	return os.RemoveAll(rc.Dir)
}

// staleAge after which an abandoned run directory is fair game.
const staleAge = 24 * time.Hour

// SweepStaleRuns removes leftover run directories from crashed or killed
// processes. A file lock serializes sweepers so two finishing runs do not
// race over the same directories; failing to get the lock just skips the
// sweep.
func (rc *RunContext) SweepStaleRuns() error {
	lock := flock.New(filepath.Join(rc.workDir, ".sweep.lock"))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	entries, err := os.ReadDir(rc.workDir)
	if err != nil {
		return fmt.Errorf("read work directory: %w", err)
	}
	cutoff := time.Now().Add(-staleAge)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "run-") {
			continue
		}
		full := filepath.Join(rc.workDir, entry.Name())
		if full == rc.Dir {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		_ = os.RemoveAll(full)
	}
	return nil
}
