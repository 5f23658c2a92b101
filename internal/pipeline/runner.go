package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"namecast/internal/align"
	"namecast/internal/attempts"
	"namecast/internal/clone"
	"namecast/internal/config"
	"namecast/internal/media/ffprobe"
	"namecast/internal/services"
	"namecast/internal/splice"
	"namecast/internal/textutil"
)

// Synthesizer produces name audio. Satisfied by *edgetts.Client.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// Transcriber produces word timings. Satisfied by *whisper.Client.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]align.Word, error)
}

// Cloner runs the voice-clone fallback chain. Satisfied by *clone.Selector.
type Cloner interface {
	Clone(ctx context.Context, synthesis, reference ffprobe.Asset, outputPath string) (clone.Result, error)
}

// AudioSplicer inserts the name into the template track. Satisfied by
// *splice.Splicer.
type AudioSplicer interface {
	Splice(ctx context.Context, trackPath, insertPath, outputPath string) (splice.Plan, error)
}

// Request names one personalization job.
type Request struct {
	VideoPath     string
	Name          string
	ReferencePath string
}

// Runner wires the stages together.
type Runner struct {
	cfg           *config.Config
	logger        *slog.Logger
	prober        *ffprobe.Prober
	synthesizer   Synthesizer
	transcriber   Transcriber
	cloner        Cloner
	splicer       AudioSplicer
	trimmer       *align.Trimmer
	store         *attempts.Store
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewRunner constructs a Runner. The store may be nil; attempt history is
// then not persisted.
func NewRunner(
	cfg *config.Config,
	logger *slog.Logger,
	prober *ffprobe.Prober,
	synthesizer Synthesizer,
	transcriber Transcriber,
	cloner Cloner,
	splicer AudioSplicer,
	trimmer *align.Trimmer,
	store *attempts.Store,
) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:         cfg,
		logger:      logger.With("component", "pipeline"),
		prober:      prober,
		synthesizer: synthesizer,
		transcriber: transcriber,
		cloner:      cloner,
		splicer:     splicer,
		trimmer:     trimmer,
		store:       store,
	}
}

// WithCommandRunner sets a custom ffmpeg runner (for testing).
func (r *Runner) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	r.commandRunner = runner
}

// Run executes one personalization end to end and returns the produced video
// path. Intermediate files live in a per-run directory that is removed on
// the way out, success or failure.
func (r *Runner) Run(ctx context.Context, req Request) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", fmt.Errorf("empty name")
	}

	rc, err := NewRunContext(r.cfg)
	if err != nil {
		return "", err
	}
	defer func() {
		if cleanupErr := rc.Cleanup(); cleanupErr != nil {
			r.logger.Warn("run cleanup failed", "error", cleanupErr)
		}
		if sweepErr := rc.SweepStaleRuns(); sweepErr != nil {
			r.logger.Debug("stale sweep skipped", "error", sweepErr)
		}
	}()

	ctx = services.WithRunID(ctx, rc.RunID)
	logger := r.logger.With("run_id", rc.RunID, "name", name)
	started := time.Now()
	logger.Info("run started", "video", req.VideoPath, "reference", req.ReferencePath)

	// Validate inputs before any work.
	if _, err := r.prober.Probe(services.WithStage(ctx, "validate"), req.VideoPath); err != nil {
		return "", err
	}
	if _, err := os.Stat(req.ReferencePath); err != nil {
		return "", services.Wrap(services.ErrAssetNotFound, "validate", "reference", req.ReferencePath, err)
	}

	trackPath, err := r.extractTemplateAudio(services.WithStage(ctx, "extract"), req.VideoPath, rc)
	if err != nil {
		return "", err
	}

	nameAsset, err := r.synthesizeName(services.WithStage(ctx, "synthesize"), name, req.ReferencePath, rc)
	if err != nil {
		return "", err
	}

	refAsset, err := r.prepareReference(services.WithStage(ctx, "reference"), req.ReferencePath, rc)
	if err != nil {
		return "", err
	}

	clonedPath := rc.Path("cloned.wav")
	result, err := r.cloner.Clone(services.WithStage(ctx, "clone"), nameAsset, refAsset, clonedPath)
	r.recordAttempts(ctx, rc.RunID, name, result)
	if err != nil {
		return "", err
	}
	logger.Info("clone finished", "method", result.Method, "degraded", result.Degraded)

	insertPath := clonedPath
	if r.cfg.Align.TrimEnabled {
		insertPath = r.trimToName(services.WithStage(ctx, "align"), clonedPath, name, logger)
	}

	splicedPath := rc.Path("spliced.wav")
	plan, err := r.splicer.Splice(services.WithStage(ctx, "splice"), trackPath, insertPath, splicedPath)
	if err != nil {
		return "", err
	}
	logger.Info("audio spliced", "point", plan.Point, "gain_db", plan.GainDB)

	outputPath, err := r.remux(services.WithStage(ctx, "remux"), req.VideoPath, splicedPath, name, rc)
	if err != nil {
		return "", err
	}

	logger.Info("run finished", "output", outputPath, "elapsed", time.Since(started).Round(time.Millisecond))
	return outputPath, nil
}

// extractTemplateAudio pulls the template soundtrack out as mono WAV. Two
// passes: full-rate first so resampling happens from the cleanest source,
// then down to the pipeline's processing rate.
func (r *Runner) extractTemplateAudio(ctx context.Context, videoPath string, rc *RunContext) (string, error) {
	fullRate := rc.Path("track_full.wav")
	if err := r.ffmpeg(ctx,
		"-y", "-v", "error",
		"-i", videoPath,
		"-vn", "-ar", "44100", "-ac", "1",
		fullRate); err != nil {
		return "", fmt.Errorf("extract template audio: %w", err)
	}
	track := rc.Path("track.wav")
	if err := r.ffmpeg(ctx,
		"-y", "-v", "error",
		"-i", fullRate,
		"-ar", "24000", "-ac", "1",
		track); err != nil {
		return "", fmt.Errorf("downsample template audio: %w", err)
	}
	return track, nil
}

// synthesizeName speaks the name and normalizes it to the processing format.
// When synthesis fails, fallbacks keep the run alive: a pre-recorded sample
// named after the person, then the opening of the reference voice, then
// generated silence as the last resort.
func (r *Runner) synthesizeName(ctx context.Context, name, referencePath string, rc *RunContext) (ffprobe.Asset, error) {
	raw := rc.Path("name_raw.mp3")
	synthErr := r.synthesizer.Synthesize(ctx, name, raw)
	if synthErr == nil {
		return r.normalizeNameAudio(ctx, raw, rc)
	}
	r.logger.Warn("name synthesis failed, using fallback audio", "error", synthErr)

	sample := filepath.Join(r.cfg.Paths.ReferenceDir, textutil.SafeName(name)+".wav")
	if _, err := os.Stat(sample); err == nil {
		if asset, err := r.normalizeNameAudio(ctx, sample, rc); err == nil {
			return asset, nil
		}
	}

	seconds := strconv.FormatFloat(r.cfg.Clone.TTSMinSeconds, 'f', 3, 64)
	segment := rc.Path("name_segment.wav")
	if err := r.ffmpeg(ctx,
		"-y", "-v", "error",
		"-i", referencePath,
		"-t", seconds,
		"-ar", "24000", "-ac", "1",
		segment); err == nil {
		if asset, err := r.prober.Probe(ctx, segment); err == nil {
			return asset, nil
		}
	}

	silence := rc.Path("name.wav")
	if err := r.ffmpeg(ctx,
		"-y", "-v", "error",
		"-f", "lavfi", "-i", "anullsrc=r=24000:cl=mono",
		"-t", seconds,
		silence); err != nil {
		return ffprobe.Asset{}, fmt.Errorf("synthesize name audio: %w", synthErr)
	}
	return r.prober.Probe(ctx, silence)
}

func (r *Runner) normalizeNameAudio(ctx context.Context, sourcePath string, rc *RunContext) (ffprobe.Asset, error) {
	normalized := rc.Path("name.wav")
	if err := r.ffmpeg(ctx,
		"-y", "-v", "error",
		"-i", sourcePath,
		"-ar", "24000", "-ac", "1",
		normalized); err != nil {
		return ffprobe.Asset{}, fmt.Errorf("normalize name audio: %w", err)
	}
	return r.prober.Probe(ctx, normalized)
}

// prepareReference normalizes the reference sample to the processing format.
func (r *Runner) prepareReference(ctx context.Context, referencePath string, rc *RunContext) (ffprobe.Asset, error) {
	normalized := rc.Path("reference.wav")
	if err := r.ffmpeg(ctx,
		"-y", "-v", "error",
		"-i", referencePath,
		"-ar", "24000", "-ac", "1",
		normalized); err != nil {
		return ffprobe.Asset{}, fmt.Errorf("normalize reference audio: %w", err)
	}
	return r.prober.Probe(ctx, normalized)
}

// trimToName cuts the cloned clip down to the window that carries the name.
// Trimming is advisory: any failure along the way keeps the untrimmed clip.
func (r *Runner) trimToName(ctx context.Context, clonedPath, name string, logger *slog.Logger) string {
	asset, err := r.prober.Probe(ctx, clonedPath)
	if err != nil {
		logger.Warn("trim skipped, probe failed", "error", err)
		return clonedPath
	}
	words, err := r.transcriber.Transcribe(ctx, clonedPath)
	if err != nil {
		logger.Warn("trim skipped, transcription failed", "error", err)
		return clonedPath
	}
	window := align.FindWindow(words, name, asset.DurationSeconds, align.Options{
		RepeatThreshold: r.cfg.Align.RepeatThreshold,
		NameThreshold:   r.cfg.Align.NameThreshold,
		BufferSeconds:   r.cfg.Align.NameBufferSeconds,
		Logger:          logger,
	})
	trimmed, err := r.trimmer.Trim(ctx, clonedPath, window)
	if err != nil {
		logger.Warn("trim skipped, cut failed", "error", err)
		return clonedPath
	}
	logger.Info("clip trimmed", "strategy", window.Strategy, "start", window.Start, "end", window.End)
	return trimmed
}

// remux swaps the template's audio for the spliced track, copying the video
// stream untouched.
func (r *Runner) remux(ctx context.Context, videoPath, audioPath, name string, rc *RunContext) (string, error) {
	outputName := fmt.Sprintf("%s_%s.mp4", textutil.SafeName(name), rc.RunID)
	outputPath := filepath.Join(r.cfg.Paths.OutputDir, outputName)
	if err := r.ffmpeg(ctx,
		"-y", "-v", "error",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "copy", "-c:a", "aac",
		"-shortest",
		outputPath); err != nil {
		return "", fmt.Errorf("remux video: %w", err)
	}
	return outputPath, nil
}

func (r *Runner) recordAttempts(ctx context.Context, runID, name string, result clone.Result) {
	if r.store == nil {
		return
	}
	for _, attempt := range result.Attempts {
		record := attempts.Record{
			RunID:   runID,
			Name:    name,
			Method:  attempt.Method,
			Outcome: attempts.OutcomeFailed,
		}
		if attempt.Err == nil {
			record.Outcome = attempts.OutcomeSucceeded
			record.OutputPath = result.OutputPath
		} else {
			record.Reason = attempt.Err.Error()
		}
		if _, err := r.store.Append(ctx, record); err != nil {
			r.logger.Warn("attempt record not persisted", "error", err)
		}
	}
}

func (r *Runner) ffmpeg(ctx context.Context, args ...string) error {
	timeout := time.Duration(r.cfg.Tools.FFmpegTimeoutSeconds) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if r.commandRunner != nil {
		_, err := r.commandRunner(ctx, r.cfg.Tools.FFmpeg, args...)
		return err
	}
	cmd := exec.CommandContext(ctx, r.cfg.Tools.FFmpeg, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return services.Wrap(services.ErrBackendUnavailable, "ffmpeg", "run", r.cfg.Tools.FFmpeg, err)
		}
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, detail)
	}
	return nil
}
