// Package audio holds the duration normalizer. Voice-clone backends reject
// inputs below their minimum lengths, so short synthesis or reference clips
// are looped up to the floor before cloning.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"namecast/internal/media/ffprobe"
)

const (
	// MethodConcat repeats the clip with the concat demuxer.
	MethodConcat = "concat"
	// MethodLoop repeats the clip with the aloop filter when concat fails.
	MethodLoop = "loop"
	// MethodNone means the clip already met the floor or extension failed.
	MethodNone = "none"
)

// Extension reports what EnsureMinDuration did. Err is advisory: extension
// never fails outward, the pipeline proceeds with whatever asset came back.
type Extension struct {
	Extended bool
	Method   string
	Err      error
}

// Extender lengthens audio files to a minimum duration.
type Extender struct {
	binary        string
	prober        *ffprobe.Prober
	logger        *slog.Logger
	timeout       time.Duration
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewExtender constructs an Extender. An empty binary defaults to "ffmpeg".
func NewExtender(binary string, prober *ffprobe.Prober, logger *slog.Logger) *Extender {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extender{
		binary:  binary,
		prober:  prober,
		logger:  logger.With("component", "extend"),
		timeout: 2 * time.Minute,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extender) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	e.commandRunner = runner
}

// EnsureMinDuration returns an asset at least minSeconds long. Clips already
// at or above the floor pass through untouched. A clip that cannot be probed
// or extended also passes through untouched, with the failure noted in the
// returned Extension; refusing to block the pipeline here is deliberate
// because the clone chain has its own short-audio fallbacks.
func (e *Extender) EnsureMinDuration(ctx context.Context, asset ffprobe.Asset, minSeconds float64) (ffprobe.Asset, Extension) {
	if minSeconds <= 0 || asset.DurationSeconds >= minSeconds {
		return asset, Extension{Method: MethodNone}
	}
	if asset.DurationSeconds <= 0 {
		return asset, Extension{Method: MethodNone, Err: fmt.Errorf("unknown duration for %s", asset.Path)}
	}

	repeats := RepeatCount(asset.DurationSeconds, minSeconds)
	output := ExtendedPath(asset.Path)

	e.logger.Debug("extending audio",
		"path", asset.Path,
		"duration", asset.DurationSeconds,
		"minimum", minSeconds,
		"repeats", repeats)

	method := MethodConcat
	err := e.concatRepeat(ctx, asset.Path, output, repeats, minSeconds)
	if err != nil {
		e.logger.Warn("concat extension failed, trying loop filter", "path", asset.Path, "error", err)
		method = MethodLoop
		err = e.loopRepeat(ctx, asset.Path, output, repeats, minSeconds)
	}
	if err != nil {
		e.logger.Warn("audio extension failed, continuing with original", "path", asset.Path, "error", err)
		return asset, Extension{Method: MethodNone, Err: err}
	}

	extended, probeErr := e.prober.Probe(ctx, output)
	if probeErr != nil {
		e.logger.Warn("extended audio failed probe, continuing with original", "path", output, "error", probeErr)
		return asset, Extension{Method: MethodNone, Err: probeErr}
	}
	return extended, Extension{Extended: true, Method: method}
}

// RepeatCount is how many copies of a clip of length duration are needed to
// cover minSeconds, always at least one more than the exact quotient so the
// trim has material to cut from.
func RepeatCount(duration, minSeconds float64) int {
	if duration <= 0 {
		return 1
	}
	return int(math.Floor(minSeconds/duration)) + 1
}

// ExtendedPath derives the output path for an extended clip, keeping it next
// to the source: name.wav becomes name_extended.wav.
func ExtendedPath(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + "_extended" + ext
}

func (e *Extender) concatRepeat(ctx context.Context, source, output string, repeats int, minSeconds float64) error {
	listFile, err := os.CreateTemp(filepath.Dir(output), "concat-*.txt")
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(listFile.Name())

	var list strings.Builder
	escaped := strings.ReplaceAll(source, "'", `'\''`)
	for i := 0; i < repeats; i++ {
		fmt.Fprintf(&list, "file '%s'\n", escaped)
	}
	if _, err := listFile.WriteString(list.String()); err != nil {
		listFile.Close()
		return fmt.Errorf("write concat list: %w", err)
	}
	if err := listFile.Close(); err != nil {
		return fmt.Errorf("close concat list: %w", err)
	}

	return e.run(ctx,
		"-y", "-v", "error",
		"-f", "concat", "-safe", "0",
		"-i", listFile.Name(),
		"-t", formatSeconds(minSeconds),
		"-c:a", "copy",
		output)
}

func (e *Extender) loopRepeat(ctx context.Context, source, output string, repeats int, minSeconds float64) error {
	return e.run(ctx,
		"-y", "-v", "error",
		"-i", source,
		"-filter_complex", fmt.Sprintf("aloop=loop=%d:size=2147483647", repeats-1),
		"-t", formatSeconds(minSeconds),
		output)
}

func (e *Extender) run(ctx context.Context, args ...string) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	if e.commandRunner != nil {
		_, err := e.commandRunner(ctx, e.binary, args...)
		return err
	}
	cmd := exec.CommandContext(ctx, e.binary, args...) //nolint:gosec
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

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}
