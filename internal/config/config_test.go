package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"namecast/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	// Defaults carry unexpanded ~ paths; Load performs expansion, so do the
	// equivalent here before validating.
	loaded, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if loaded.Tools.FFmpeg != cfg.Tools.FFmpeg {
		t.Fatalf("unexpected ffmpeg binary: %s", loaded.Tools.FFmpeg)
	}
	if loaded.Clone.OnlineTimeoutSeconds != 120 {
		t.Fatalf("unexpected online timeout: %d", loaded.Clone.OnlineTimeoutSeconds)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
work_dir = "` + filepath.Join(dir, "work") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[clone]
online_timeout_seconds = 90
offline_timeout_seconds = 45

[align]
language = " hi "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config to resolve, got exists=%v path=%q", exists, resolved)
	}
	if cfg.Clone.OnlineTimeoutSeconds != 90 {
		t.Fatalf("unexpected online timeout: %d", cfg.Clone.OnlineTimeoutSeconds)
	}
	if cfg.Align.Language != "hi" {
		t.Fatalf("language not trimmed: %q", cfg.Align.Language)
	}
	// Unset sections fall back to defaults.
	if cfg.Splice.CrossfadeMs != 200 {
		t.Fatalf("unexpected crossfade default: %d", cfg.Splice.CrossfadeMs)
	}
	if cfg.Tools.FFprobe != "ffprobe" {
		t.Fatalf("unexpected ffprobe default: %q", cfg.Tools.FFprobe)
	}
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[align]
repeat_threshold = 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error for repeat_threshold > 1")
	}
	if !strings.Contains(err.Error(), "repeat_threshold") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsInvertedCloneMinimums(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[clone]
tts_min_seconds = 6.0
reference_min_seconds = 5.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for tts_min >= reference_min")
	}
}

func TestAttemptsDBPath(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = "/var/log/namecast"
	if got := cfg.AttemptsDBPath(); got != filepath.Join("/var/log/namecast", "attempts.db") {
		t.Fatalf("unexpected attempts db path: %s", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly: exists=%v err=%v", exists, err)
	}
}
