package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("output should mention the target path: %s", output)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[paths]", "[tools]", "[clone]", "[splice]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("sample missing %s section", section)
		}
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite should succeed: %v", err)
	}
}

func TestConfigValidateRejectsBadThresholds(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	bad := "[align]\nrepeat_threshold = 0.4\nname_threshold = 0.9\n"
	if err := os.WriteFile(target, []byte(bad), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := executeCommand(t, "config", "validate", "--path", target); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestConfigValidateAcceptsDefaults(t *testing.T) {
	// Point at a nonexistent path so defaults are used.
	target := filepath.Join(t.TempDir(), "absent.toml")
	output, err := executeCommand(t, "config", "validate", "--path", target)
	if err != nil {
		t.Fatalf("validate defaults: %v", err)
	}
	if !strings.Contains(output, "defaults are valid") {
		t.Fatalf("unexpected output: %s", output)
	}
}
