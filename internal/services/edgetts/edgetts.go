// Package edgetts synthesizes speech through the edge-tts CLI.
package edgetts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"namecast/internal/services"
)

// Config selects the synthesis binary and voice.
type Config struct {
	Binary         string
	Voice          string
	TimeoutSeconds int
	MaxRetries     int
}

// Client synthesizes text to audio files.
type Client struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient constructs a Client with defaults filled in.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "edge-tts"
	}
	if strings.TrimSpace(cfg.Voice) == "" {
		cfg.Voice = "hi-IN-MadhurNeural"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 60
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.commandRunner = runner
}

// Synthesize speaks text into outputPath. The service is remote so transient
// failures retry with backoff; an empty output file counts as a failure even
// on a zero exit.
func (c *Client) Synthesize(ctx context.Context, text, outputPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty synthesis text")
	}

	operation := func() error {
		err := c.synthesizeOnce(ctx, text, outputPath)
		if errors.Is(err, services.ErrBackendUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)),
		ctx)
	return backoff.Retry(operation, policy)
}

func (c *Client) synthesizeOnce(ctx context.Context, text, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	args := []string{
		"--voice", c.cfg.Voice,
		"--text", text,
		"--write-media", outputPath,
	}
	if err := c.run(ctx, args...); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return services.Wrap(services.ErrBackendUnavailable, "tts", "synthesize", c.cfg.Binary, err)
		}
		return fmt.Errorf("tts synthesis: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("tts produced no output: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("tts produced empty output %s", outputPath)
	}
	return nil
}

func (c *Client) run(ctx context.Context, args ...string) error {
	if c.commandRunner != nil {
		_, err := c.commandRunner(ctx, c.cfg.Binary, args...)
		return err
	}
	cmd := exec.CommandContext(ctx, c.cfg.Binary, args...) //nolint:gosec
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
