package align

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Trimmer cuts an audio file down to a window with ffmpeg.
type Trimmer struct {
	binary        string
	timeout       time.Duration
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewTrimmer constructs a Trimmer. An empty binary defaults to "ffmpeg".
func NewTrimmer(binary string) *Trimmer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Trimmer{binary: binary, timeout: time.Minute}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Trimmer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	t.commandRunner = runner
}

// Trim writes the window of source into a sibling file and returns its path.
// The audio is re-encoded: stream copy cannot cut at sub-frame offsets and
// the window boundaries are rarely frame-aligned.
func (t *Trimmer) Trim(ctx context.Context, source string, window Window) (string, error) {
	if window.End <= window.Start {
		return "", fmt.Errorf("empty trim window [%v, %v]", window.Start, window.End)
	}
	ext := filepath.Ext(source)
	output := strings.TrimSuffix(source, ext) + "_trimmed" + ext

	args := []string{
		"-y", "-v", "error",
		"-i", source,
		"-ss", fmt.Sprintf("%.3f", window.Start),
		"-to", fmt.Sprintf("%.3f", window.End),
		output,
	}
	if err := t.run(ctx, args...); err != nil {
		return "", fmt.Errorf("trim %s: %w", source, err)
	}
	return output, nil
}

func (t *Trimmer) run(ctx context.Context, args ...string) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	if t.commandRunner != nil {
		_, err := t.commandRunner(ctx, t.binary, args...)
		return err
	}
	cmd := exec.CommandContext(ctx, t.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, detail)
	}
	return nil
}
