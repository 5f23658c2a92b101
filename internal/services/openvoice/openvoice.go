// Package openvoice shells out to the OpenVoice tone-color converter. The
// binary is python-based and fails in ways the clone chain classifies by
// message text, so stderr is preserved verbatim in returned errors.
package openvoice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"namecast/internal/services"
)

// Mode selects how the converter reaches its models.
type Mode int

const (
	// ModeOnline lets the converter download checkpoints as needed.
	ModeOnline Mode = iota
	// ModeOffline forces cached checkpoints only.
	ModeOffline
)

func (m Mode) String() string {
	if m == ModeOffline {
		return "offline"
	}
	return "online"
}

// Config selects the converter binary and timeouts.
type Config struct {
	Binary                string
	OnlineTimeoutSeconds  int
	OfflineTimeoutSeconds int
}

// Client runs tone-color conversions.
type Client struct {
	cfg      Config
	executor Executor
}

// Executor runs the converter process. Tests substitute their own.
type Executor interface {
	Run(ctx context.Context, name string, env []string, args ...string) ([]byte, error)
}

type execExecutor struct{}

func (execExecutor) Run(ctx context.Context, name string, env []string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = append(os.Environ(), env...)
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

// NewClient constructs a Client with defaults filled in.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "openvoice-convert"
	}
	if cfg.OnlineTimeoutSeconds <= 0 {
		cfg.OnlineTimeoutSeconds = 120
	}
	if cfg.OfflineTimeoutSeconds <= 0 {
		cfg.OfflineTimeoutSeconds = 60
	}
	return &Client{cfg: cfg, executor: execExecutor{}}
}

// WithExecutor sets a custom process executor (for testing).
func (c *Client) WithExecutor(executor Executor) {
	c.executor = executor
}

// environment returns the env overrides for a mode. TLS verification is
// disabled in both because the converter's embedded HTTP stack rejects the
// corporate proxy chain; offline mode additionally pins the model caches.
func environment(mode Mode) []string {
	env := []string{
		"CURL_CA_BUNDLE=",
		"REQUESTS_CA_BUNDLE=",
		"SSL_VERIFY=0",
		"PYTHONHTTPSVERIFY=0",
	}
	if mode == ModeOffline {
		env = append(env,
			"HF_HUB_OFFLINE=1",
			"TRANSFORMERS_OFFLINE=1")
	}
	return env
}

// Convert clones the tone color of referencePath onto sourcePath, writing the
// result to outputPath. Success requires both a zero exit status and a
// non-empty output file; the converter sometimes exits cleanly after writing
// nothing.
func (c *Client) Convert(ctx context.Context, mode Mode, sourcePath, referencePath, outputPath string) error {
	timeout := time.Duration(c.cfg.OnlineTimeoutSeconds) * time.Second
	if mode == ModeOffline {
		timeout = time.Duration(c.cfg.OfflineTimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"--source", sourcePath,
		"--reference", referencePath,
		"--output", outputPath,
	}
	if _, err := c.executor.Run(ctx, c.cfg.Binary, environment(mode), args...); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return services.Wrap(services.ErrBackendUnavailable, "openvoice", mode.String(), c.cfg.Binary, err)
		}
		return fmt.Errorf("openvoice %s conversion: %w", mode, err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("openvoice %s produced no output: %w", mode, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("openvoice %s produced empty output %s", mode, outputPath)
	}
	return nil
}
