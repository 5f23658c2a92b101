package pipeline

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"namecast/internal/testsupport"
)

func TestNewRunIDFormat(t *testing.T) {
	id := NewRunID()
	matched, err := regexp.MatchString(`^\d+_[0-9a-f]{8}$`, id)
	if err != nil || !matched {
		t.Fatalf("unexpected run id %q", id)
	}
	pid, _, _ := strings.Cut(id, "_")
	if pid != strconv.Itoa(os.Getpid()) {
		t.Fatalf("run id should embed the pid, got %q", id)
	}
	if NewRunID() == id {
		t.Fatal("run ids should be unique")
	}
}

func TestRunContextIsolation(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := NewRunContext(cfg)
	if err != nil {
		t.Fatalf("new run context: %v", err)
	}
	second, err := NewRunContext(cfg)
	if err != nil {
		t.Fatalf("new run context: %v", err)
	}
	if first.Dir == second.Dir {
		t.Fatal("concurrent runs must get disjoint directories")
	}

	marker := first.Path("cloned.wav")
	if err := os.WriteFile(marker, []byte("wav"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	if err := second.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("cleanup of one run removed another's files: %v", err)
	}
	if err := first.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(first.Dir); !os.IsNotExist(err) {
		t.Fatal("cleanup should remove the run directory")
	}
}

func TestSweepStaleRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	rc, err := NewRunContext(cfg)
	if err != nil {
		t.Fatalf("new run context: %v", err)
	}

	stale := filepath.Join(cfg.Paths.WorkDir, "run-999_deadbeef")
	if err := os.MkdirAll(stale, 0o755); err != nil {
		t.Fatalf("mkdir stale: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("age stale dir: %v", err)
	}

	fresh := filepath.Join(cfg.Paths.WorkDir, "run-888_cafebabe")
	if err := os.MkdirAll(fresh, 0o755); err != nil {
		t.Fatalf("mkdir fresh: %v", err)
	}

	if err := rc.SweepStaleRuns(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale run directory should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh run directory should survive: %v", err)
	}
	if _, err := os.Stat(rc.Dir); err != nil {
		t.Fatalf("own run directory should survive: %v", err)
	}
}
