// Package whisper shells out to a Whisper-compatible CLI for word-level
// transcription timestamps.
package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"namecast/internal/align"
	"namecast/internal/services"
)

// Config selects the transcriber binary and model.
type Config struct {
	Binary         string
	Model          string
	Language       string
	TimeoutSeconds int
	MaxRetries     int
}

// Client runs transcriptions.
type Client struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient constructs a Client with defaults filled in.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "whisper"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "base"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 300
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

// transcription mirrors the CLI's JSON output. Only word timing survives
// parsing.
type transcription struct {
	Segments []struct {
		Words []struct {
			Word  string  `json:"word"`
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"words"`
	} `json:"segments"`
}

// Transcribe runs the CLI against audioPath and returns word-level timings.
// Transient process failures are retried with exponential backoff; a missing
// binary fails immediately as ErrBackendUnavailable.
func (c *Client) Transcribe(ctx context.Context, audioPath string) ([]align.Word, error) {
	outDir, err := os.MkdirTemp(filepath.Dir(audioPath), "whisper-")
	if err != nil {
		return nil, services.Wrap(services.ErrProbeFailure, "whisper", "transcribe", "temp dir", err)
	}
	defer os.RemoveAll(outDir)

	operation := func() ([]align.Word, error) {
		words, err := c.transcribeOnce(ctx, audioPath, outDir)
		if err != nil {
			if errors.Is(err, services.ErrBackendUnavailable) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return words, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)),
		ctx)
	return backoff.RetryWithData(operation, policy)
}

func (c *Client) transcribeOnce(ctx context.Context, audioPath, outDir string) ([]align.Word, error) {
	args := []string{
		audioPath,
		"--model", c.cfg.Model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--word_timestamps", "True",
	}
	if lang := strings.TrimSpace(c.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}

	if _, err := c.run(ctx, args...); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, services.Wrap(services.ErrBackendUnavailable, "whisper", "transcribe", c.cfg.Binary, err)
		}
		return nil, fmt.Errorf("whisper run: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	payload, err := os.ReadFile(filepath.Join(outDir, base+".json")) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("read transcription: %w", err)
	}
	return ParseWords(payload)
}

// ParseWords extracts word timings from the CLI's JSON output. Tokens with
// inverted or missing spans are dropped rather than propagated.
func ParseWords(payload []byte) ([]align.Word, error) {
	var parsed transcription
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("parse transcription: %w", err)
	}
	var words []align.Word
	for _, segment := range parsed.Segments {
		for _, w := range segment.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" || w.End < w.Start {
				continue
			}
			words = append(words, align.Word{Text: text, Start: w.Start, End: w.End})
		}
	}
	return words, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.cfg.Binary, args...)
	}
	cmd := exec.CommandContext(ctx, c.cfg.Binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", err, detail)
	}
	return output, nil
}
