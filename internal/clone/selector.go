// Package clone turns a synthesized name clip into one that sounds like the
// reference speaker. A fixed fallback chain degrades gracefully from real
// voice conversion down to a plain copy, so a run always produces audio.
package clone

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"namecast/internal/fileutil"
	"namecast/internal/media/audio"
	"namecast/internal/media/ffprobe"
	"namecast/internal/services/openvoice"
)

// Method identifiers, in fallback order.
const (
	MethodOpenVoiceOnline  = "openvoice_online"
	MethodOpenVoiceOffline = "openvoice_offline"
	MethodMinimalMix       = "minimal_mix"
	MethodSpectralFilter   = "spectral_filter"
	MethodBasicFilter      = "basic_filter"
	MethodCopyTTS          = "copy_tts"
)

// Attempt records one method tried during a clone.
type Attempt struct {
	Method  string
	Failure FailureKind
	Err     error
}

// Result is the outcome of a clone chain run. Degraded is true when anything
// other than real voice conversion produced the output.
type Result struct {
	Method     string
	OutputPath string
	Degraded   bool
	Attempts   []Attempt
}

// Converter is the voice-conversion backend. Satisfied by *openvoice.Client.
type Converter interface {
	Convert(ctx context.Context, mode openvoice.Mode, sourcePath, referencePath, outputPath string) error
}

// Config sets the duration floors enforced before conversion.
type Config struct {
	SynthesisMinSeconds float64
	ReferenceMinSeconds float64
}

// Selector runs the clone chain.
type Selector struct {
	cfg         Config
	converter   Converter
	transformer *Transformer
	extender    *audio.Extender
	logger      *slog.Logger
}

// NewSelector constructs a Selector. Nil logger falls back to the default.
func NewSelector(cfg Config, converter Converter, transformer *Transformer, extender *audio.Extender, logger *slog.Logger) *Selector {
	if cfg.SynthesisMinSeconds <= 0 {
		cfg.SynthesisMinSeconds = 3.0
	}
	if cfg.ReferenceMinSeconds <= 0 {
		cfg.ReferenceMinSeconds = 5.0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		cfg:         cfg,
		converter:   converter,
		transformer: transformer,
		extender:    extender,
		logger:      logger.With("component", "clone"),
	}
}

// Clone produces a voice-matched name clip at outputPath. The chain walks
// openvoice online, then offline when the failure looks network-shaped, then
// the local filter fallbacks. Only when every method including the plain copy
// fails does Clone return an error.
func (s *Selector) Clone(ctx context.Context, synthesis, reference ffprobe.Asset, outputPath string) (Result, error) {
	synthesis, synthExt := s.extender.EnsureMinDuration(ctx, synthesis, s.cfg.SynthesisMinSeconds)
	if synthExt.Err != nil {
		s.logger.Warn("synthesis extension skipped", "error", synthExt.Err)
	}
	reference, refExt := s.extender.EnsureMinDuration(ctx, reference, s.cfg.ReferenceMinSeconds)
	if refExt.Err != nil {
		s.logger.Warn("reference extension skipped", "error", refExt.Err)
	}
	defer func() {
		// Extended inputs are scratch files owned by this stage.
		if synthExt.Extended {
			s.removeExtended(synthesis.Path)
		}
		if refExt.Extended {
			s.removeExtended(reference.Path)
		}
	}()

	result := Result{OutputPath: outputPath}

	record := func(method string, err error) FailureKind {
		kind := Classify(err)
		result.Attempts = append(result.Attempts, Attempt{Method: method, Failure: kind, Err: err})
		if err != nil {
			s.logger.Warn("clone method failed",
				"method", method,
				"failure", kind.String(),
				"error", err)
		}
		return kind
	}

	onlineErr := s.converter.Convert(ctx, openvoice.ModeOnline, synthesis.Path, reference.Path, outputPath)
	if onlineErr == nil {
		record(MethodOpenVoiceOnline, nil)
		result.Method = MethodOpenVoiceOnline
		s.logger.Info("voice cloned", "method", result.Method)
		return result, nil
	}
	kind := record(MethodOpenVoiceOnline, onlineErr)

	if kind == FailureNetwork {
		offlineErr := s.converter.Convert(ctx, openvoice.ModeOffline, synthesis.Path, reference.Path, outputPath)
		if offlineErr == nil {
			record(MethodOpenVoiceOffline, nil)
			result.Method = MethodOpenVoiceOffline
			s.logger.Info("voice cloned", "method", result.Method)
			return result, nil
		}
		kind = record(MethodOpenVoiceOffline, offlineErr)
	}

	// From here on the output is a local approximation, not a real clone.
	result.Degraded = true

	fallbacks := fallbackOrder(kind)
	for _, method := range fallbacks {
		var err error
		switch method {
		case MethodMinimalMix:
			err = s.transformer.MinimalMix(ctx, synthesis.Path, reference.Path, outputPath)
		case MethodSpectralFilter:
			err = s.transformer.SpectralFilter(ctx, synthesis.Path, reference.Path, outputPath)
		case MethodBasicFilter:
			err = s.transformer.BasicFilter(ctx, synthesis.Path, outputPath)
		case MethodCopyTTS:
			err = copySynthesis(synthesis.Path, outputPath)
		}
		record(method, err)
		if err == nil {
			result.Method = method
			s.logger.Info("voice clone degraded", "method", method)
			return result, nil
		}
	}

	return result, fmt.Errorf("all clone methods failed for %s", filepath.Base(synthesis.Path))
}

// fallbackOrder returns the local methods to try after conversion fails.
// Short-audio failures go straight to the mix, whose compand stage tolerates
// clipped input better than the spectral estimators do.
func fallbackOrder(kind FailureKind) []string {
	if kind == FailureShortAudio {
		return []string{MethodMinimalMix, MethodSpectralFilter, MethodBasicFilter, MethodCopyTTS}
	}
	return []string{MethodSpectralFilter, MethodMinimalMix, MethodBasicFilter, MethodCopyTTS}
}

func (s *Selector) removeExtended(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Debug("extended input not removed", "path", path, "error", err)
	}
}

func copySynthesis(sourcePath, outputPath string) error {
	if strings.TrimSpace(sourcePath) == "" {
		return fmt.Errorf("no synthesis audio to copy")
	}
	return fileutil.CopyFileVerified(sourcePath, outputPath)
}
