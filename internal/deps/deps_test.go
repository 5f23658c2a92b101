package deps

import (
	"os"
	"path/filepath"
	"testing"

	"namecast/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckBinariesUnconfigured(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Blank", Command: "   "}})
	if results[0].Available {
		t.Fatal("blank command should be unavailable")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[0].Detail)
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "FFmpeg"}, Available: false},
		{Requirement: Requirement{Name: "Whisper", Optional: true}, Available: false},
		{Requirement: Requirement{Name: "FFprobe"}, Available: true},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0] != "FFmpeg" {
		t.Fatalf("unexpected missing list: %v", missing)
	}
}

func TestRequiredMarksBackendsOptional(t *testing.T) {
	cfg := config.Default()
	reqs := Required(&cfg)
	optional := map[string]bool{}
	for _, req := range reqs {
		optional[req.Name] = req.Optional
	}
	if optional["FFmpeg"] || optional["FFprobe"] {
		t.Fatal("ffmpeg and ffprobe must be mandatory")
	}
	if !optional["OpenVoice"] || !optional["Whisper"] || !optional["Edge TTS"] {
		t.Fatal("backends should be optional")
	}
}
