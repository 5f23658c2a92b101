package ffprobe

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"namecast/internal/services"
)

// Asset is an immutable snapshot of a probed media file. Any transform that
// replaces the file produces a new Asset; none mutate in place.
type Asset struct {
	Path            string
	SampleRate      int
	Channels        int
	DurationSeconds float64
}

// Prober inspects media files with ffprobe.
type Prober struct {
	binary        string
	timeout       time.Duration
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// New constructs a Prober. An empty binary defaults to "ffprobe".
func New(binary string, timeoutSeconds int) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	timeout := time.Duration(timeoutSeconds) * time.Second
	return &Prober{binary: binary, timeout: timeout}
}

// WithCommandRunner sets a custom command runner (for testing).
func (p *Prober) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	p.commandRunner = runner
}

// Probe inspects path and returns its duration, sample rate, and channel
// count. Failure kinds are distinguished: a missing file is ErrAssetNotFound,
// a missing ffprobe binary is ErrBackendUnavailable, and empty or non-numeric
// duration output is ErrProbeFailure. MP3 files whose container duration is
// unparsable fall back to walking the frames directly.
func (p *Prober) Probe(ctx context.Context, path string) (Asset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Asset{}, services.Wrap(services.ErrAssetNotFound, "probe", "inspect", "empty path", nil)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Asset{}, services.Wrap(services.ErrAssetNotFound, "probe", "inspect", path, err)
		}
		return Asset{}, services.Wrap(services.ErrProbeFailure, "probe", "stat", path, err)
	}

	output, err := p.run(ctx,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		"--", path)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Asset{}, services.Wrap(services.ErrBackendUnavailable, "probe", "inspect", p.binary, err)
		}
		return Asset{}, services.Wrap(services.ErrProbeFailure, "probe", "inspect", path, err)
	}

	duration, parseErr := ParseDuration(string(output))
	if parseErr != nil && strings.EqualFold(filepath.Ext(path), ".mp3") {
		if frames, frameErr := mp3DurationByFrames(path); frameErr == nil {
			duration, parseErr = frames, nil
		}
	}
	if parseErr != nil {
		return Asset{}, services.Wrap(services.ErrProbeFailure, "probe", "parse duration", path, parseErr)
	}
	if duration <= 0 {
		return Asset{}, services.Wrap(services.ErrProbeFailure, "probe", "parse duration",
			"non-positive duration "+strconv.FormatFloat(duration, 'f', -1, 64), nil)
	}

	asset := Asset{Path: path, DurationSeconds: duration}

	// Stream details are best-effort; an audio-less container still probes.
	if streamOut, streamErr := p.run(ctx,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels",
		"-of", "csv=p=0",
		"--", path); streamErr == nil {
		asset.SampleRate, asset.Channels = parseStreamInfo(string(streamOut))
	}

	return asset, nil
}

func (p *Prober) run(ctx context.Context, args ...string) ([]byte, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if p.commandRunner != nil {
		return p.commandRunner(ctx, p.binary, args...)
	}
	cmd := exec.CommandContext(ctx, p.binary, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return nil, errors.Join(err, errors.New(detail))
		}
		return nil, err
	}
	return output, nil
}

// ParseDuration parses ffprobe's bare-float duration output. Empty or
// non-numeric output is an error, never zero.
func ParseDuration(output string) (float64, error) {
	cleaned := strings.TrimSpace(output)
	if cleaned == "" {
		return 0, errors.New("empty duration output")
	}
	// Only the first line carries the format duration.
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		cleaned = strings.TrimSpace(cleaned[:idx])
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errors.New("non-numeric duration output " + strconv.Quote(cleaned))
	}
	return parsed, nil
}

func parseStreamInfo(output string) (sampleRate, channels int) {
	line := strings.TrimSpace(output)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	parts := strings.Split(line, ",")
	if len(parts) > 0 {
		sampleRate, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	}
	if len(parts) > 1 {
		channels, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return sampleRate, channels
}
