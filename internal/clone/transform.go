package clone

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"namecast/internal/media/pcm"
)

// Clamp ranges keeping the filter fallbacks from producing chipmunk or
// rumble artifacts when pitch or level estimation goes wrong.
const (
	pitchRatioMin = 0.6
	pitchRatioMax = 1.8
	volumeGainMin = 0.3
	volumeGainMax = 3.0

	mixSampleRate = 24000
	ttsMixWeight  = 0.7
	refMixWeight  = 0.3
)

// PitchRatio is the reference-to-synthesis pitch ratio, clamped to a range
// that still sounds like speech.
func PitchRatio(referenceHz, synthesisHz float64) float64 {
	if referenceHz <= 0 || synthesisHz <= 0 {
		return 1.0
	}
	ratio := referenceHz / synthesisHz
	if ratio < pitchRatioMin {
		return pitchRatioMin
	}
	if ratio > pitchRatioMax {
		return pitchRatioMax
	}
	return ratio
}

// VolumeGain is the reference-to-synthesis RMS ratio, clamped so level
// matching never blows out or buries the name.
func VolumeGain(referenceRMS, synthesisRMS float64) float64 {
	if referenceRMS <= 0 || synthesisRMS <= 0 {
		return 1.0
	}
	gain := referenceRMS / synthesisRMS
	if gain < volumeGainMin {
		return volumeGainMin
	}
	if gain > volumeGainMax {
		return volumeGainMax
	}
	return gain
}

// SpectralFilterGraph shapes the synthesized name toward the reference
// speaker: pitch shift via resample-and-restretch, then staged EQ, dynamics
// compression, a noise gate, and a touch of room echo.
func SpectralFilterGraph(pitchRatio, volumeGain float64, sampleRate int) string {
	if sampleRate <= 0 {
		sampleRate = mixSampleRate
	}
	stages := []string{
		fmt.Sprintf("asetrate=%d*%.4f", sampleRate, pitchRatio),
		fmt.Sprintf("aresample=%d", sampleRate),
		fmt.Sprintf("atempo=%.4f", clampTempo(1.0/pitchRatio)),
		"equalizer=f=300:t=h:width=200:g=2",
		"equalizer=f=3000:t=h:width=1000:g=-1",
		"compand=attacks=0.05:decays=0.25:points=-80/-80|-30/-15|-10/-8|0/-6",
		"agate=threshold=0.02:ratio=2:attack=5:release=50",
		"aecho=0.8:0.6:8:0.2",
		fmt.Sprintf("volume=%.4f", volumeGain),
	}
	return strings.Join(stages, ",")
}

// BasicFilterGraph is the last-resort cleanup: band-limit to the voice range
// and normalize loudness.
func BasicFilterGraph() string {
	return "highpass=f=80,lowpass=f=8000,loudnorm=I=-20:TP=-2:LRA=7"
}

// MinimalMixGraph nudges the synthesized name toward the reference pitch and
// blends a little of the reference timbre underneath it.
func MinimalMixGraph(pitchRatio float64, sampleRate int) string {
	if sampleRate <= 0 {
		sampleRate = mixSampleRate
	}
	return fmt.Sprintf(
		"[0:a]asetrate=%d*%.4f,aresample=%d,atempo=%.4f,compand=attacks=0.05:decays=0.2:points=-70/-70|-20/-12|0/-6[synth];"+
			"[1:a]aresample=%d,volume=0.5[ref];"+
			"[synth][ref]amix=inputs=2:duration=first:weights=%.1f %.1f[out]",
		sampleRate, pitchRatio, sampleRate, clampTempo(1.0/pitchRatio),
		sampleRate,
		ttsMixWeight, refMixWeight)
}

// clampTempo keeps atempo inside its supported 0.5..2.0 range.
func clampTempo(tempo float64) float64 {
	if tempo < 0.5 {
		return 0.5
	}
	if tempo > 2.0 {
		return 2.0
	}
	return tempo
}

// Transformer runs the ffmpeg-based fallback methods.
type Transformer struct {
	binary        string
	timeout       time.Duration
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewTransformer constructs a Transformer. An empty binary defaults to
// "ffmpeg".
func NewTransformer(binary string) *Transformer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Transformer{binary: binary, timeout: 2 * time.Minute}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transformer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	t.commandRunner = runner
}

// SpectralFilter estimates the reference speaker's pitch and level and warps
// the synthesized clip toward them.
func (t *Transformer) SpectralFilter(ctx context.Context, synthesisPath, referencePath, outputPath string) error {
	synth, err := pcm.Decode(synthesisPath)
	if err != nil {
		return fmt.Errorf("spectral filter: %w", err)
	}
	ref, err := pcm.Decode(referencePath)
	if err != nil {
		return fmt.Errorf("spectral filter: %w", err)
	}

	ratio := PitchRatio(
		EstimatePitch(ref.Samples, ref.SampleRate),
		EstimatePitch(synth.Samples, synth.SampleRate))
	gain := VolumeGain(ref.RMS(), synth.RMS())

	graph := SpectralFilterGraph(ratio, gain, synth.SampleRate)
	return t.run(ctx,
		"-y", "-v", "error",
		"-i", synthesisPath,
		"-af", graph,
		"-ar", fmt.Sprintf("%d", mixSampleRate),
		"-ac", "1",
		outputPath)
}

// MinimalMix blends the synthesized clip with a quiet layer of the reference
// speaker.
func (t *Transformer) MinimalMix(ctx context.Context, synthesisPath, referencePath, outputPath string) error {
	synth, err := pcm.Decode(synthesisPath)
	if err != nil {
		return fmt.Errorf("minimal mix: %w", err)
	}
	ref, err := pcm.Decode(referencePath)
	if err != nil {
		return fmt.Errorf("minimal mix: %w", err)
	}

	ratio := PitchRatio(
		EstimatePitch(ref.Samples, ref.SampleRate),
		EstimatePitch(synth.Samples, synth.SampleRate))

	graph := MinimalMixGraph(ratio, synth.SampleRate)
	return t.run(ctx,
		"-y", "-v", "error",
		"-i", synthesisPath,
		"-i", referencePath,
		"-filter_complex", graph,
		"-map", "[out]",
		"-ar", fmt.Sprintf("%d", mixSampleRate),
		"-ac", "1",
		outputPath)
}

// BasicFilter runs the last-resort cleanup pass.
func (t *Transformer) BasicFilter(ctx context.Context, synthesisPath, outputPath string) error {
	return t.run(ctx,
		"-y", "-v", "error",
		"-i", synthesisPath,
		"-af", BasicFilterGraph(),
		"-ar", fmt.Sprintf("%d", mixSampleRate),
		"-ac", "1",
		outputPath)
}

func (t *Transformer) run(ctx context.Context, args ...string) error {
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
