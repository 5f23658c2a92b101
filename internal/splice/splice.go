package splice

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"namecast/internal/media/pcm"
)

// Splicer inserts a clip into a track at a detected silence.
type Splicer struct {
	binary        string
	params        Params
	logger        *slog.Logger
	timeout       time.Duration
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewSplicer constructs a Splicer. An empty binary defaults to "ffmpeg".
func NewSplicer(binary string, params Params, logger *slog.Logger) *Splicer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Splicer{
		binary:  binary,
		params:  params.WithDefaults(),
		logger:  logger.With("component", "splice"),
		timeout: 2 * time.Minute,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Splicer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

// Plan holds the decisions made before cutting.
type Plan struct {
	Point     float64
	GainDB    float64
	Threshold float64
	TrackRate int
	Runs      []Run
}

// Analyze decodes both tracks and decides where and how loud to splice.
func (s *Splicer) Analyze(trackPath, insertPath string) (Plan, error) {
	track, err := pcm.Decode(trackPath)
	if err != nil {
		return Plan{}, fmt.Errorf("analyze track: %w", err)
	}
	insert, err := pcm.Decode(insertPath)
	if err != nil {
		return Plan{}, fmt.Errorf("analyze insert: %w", err)
	}

	threshold := Threshold(track.DBFS(), s.params.ThresholdOffsetDB)
	runs := DetectSilence(track.WindowDBFS(s.params.Window), s.params.Window, threshold, s.params)
	point, err := SplicePoint(runs, s.params)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Point:     point,
		GainDB:    MatchGain(track.DBFS(), insert.DBFS(), s.params.HeadroomDB),
		Threshold: threshold,
		TrackRate: track.SampleRate,
		Runs:      runs,
	}
	s.logger.Debug("splice planned",
		"point", plan.Point,
		"gain_db", plan.GainDB,
		"threshold_dbfs", plan.Threshold,
		"runs", len(runs))
	return plan, nil
}

// Splice analyzes the tracks and writes the combined audio to outputPath.
// The track is cut at the plan point and the gain-matched insert is
// crossfaded in on both edges.
func (s *Splicer) Splice(ctx context.Context, trackPath, insertPath, outputPath string) (Plan, error) {
	plan, err := s.Analyze(trackPath, insertPath)
	if err != nil {
		return Plan{}, err
	}

	graph := spliceGraph(plan.Point, plan.GainDB, plan.TrackRate, s.params.Crossfade)
	err = s.run(ctx,
		"-y", "-v", "error",
		"-i", trackPath,
		"-i", insertPath,
		"-filter_complex", graph,
		"-map", "[out]",
		outputPath)
	if err != nil {
		return Plan{}, fmt.Errorf("splice: %w", err)
	}
	return plan, nil
}

// spliceGraph splits the track at the splice point, applies the matching
// gain to the insert, and joins the three pieces with crossfades. The insert
// is resampled to the track rate; acrossfade refuses mismatched inputs.
func spliceGraph(point, gainDB float64, trackRate int, crossfade time.Duration) string {
	if trackRate <= 0 {
		trackRate = 44100
	}
	fade := crossfade.Seconds()
	return fmt.Sprintf(
		"[0:a]atrim=end=%.3f,asetpts=PTS-STARTPTS[pre];"+
			"[0:a]atrim=start=%.3f,asetpts=PTS-STARTPTS[post];"+
			"[1:a]volume=%.2fdB,aresample=%d,aformat=channel_layouts=mono[name];"+
			"[pre][name]acrossfade=d=%.3f[lead];"+
			"[lead][post]acrossfade=d=%.3f[out]",
		point, point, gainDB, trackRate, fade, fade)
}

func (s *Splicer) run(ctx context.Context, args ...string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if s.commandRunner != nil {
		_, err := s.commandRunner(ctx, s.binary, args...)
		return err
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
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
