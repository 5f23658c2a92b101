package pipeline

import (
	"log/slog"
	"time"

	"namecast/internal/align"
	"namecast/internal/attempts"
	"namecast/internal/clone"
	"namecast/internal/config"
	"namecast/internal/media/audio"
	"namecast/internal/media/ffprobe"
	"namecast/internal/services/edgetts"
	"namecast/internal/services/openvoice"
	"namecast/internal/services/whisper"
	"namecast/internal/splice"
)

// New assembles a fully wired Runner from configuration.
func New(cfg *config.Config, logger *slog.Logger, store *attempts.Store) *Runner {
	prober := ffprobe.New(cfg.Tools.FFprobe, cfg.Tools.FFprobeTimeoutSeconds)
	extender := audio.NewExtender(cfg.Tools.FFmpeg, prober, logger)

	converter := openvoice.NewClient(openvoice.Config{
		Binary:                cfg.Tools.OpenVoice,
		OnlineTimeoutSeconds:  cfg.Clone.OnlineTimeoutSeconds,
		OfflineTimeoutSeconds: cfg.Clone.OfflineTimeoutSeconds,
	})
	selector := clone.NewSelector(clone.Config{
		SynthesisMinSeconds: cfg.Clone.TTSMinSeconds,
		ReferenceMinSeconds: cfg.Clone.ReferenceMinSeconds,
	}, converter, clone.NewTransformer(cfg.Tools.FFmpeg), extender, logger)

	synthesizer := edgetts.NewClient(edgetts.Config{
		Binary:         cfg.Tools.EdgeTTS,
		Voice:          cfg.TTS.Voice,
		TimeoutSeconds: cfg.TTS.TimeoutSeconds,
	})
	transcriber := whisper.NewClient(whisper.Config{
		Binary:         cfg.Tools.Whisper,
		Model:          cfg.Align.WhisperModel,
		Language:       cfg.Align.Language,
		TimeoutSeconds: cfg.Align.TimeoutSeconds,
		MaxRetries:     cfg.Align.MaxRetries,
	})

	splicer := splice.NewSplicer(cfg.Tools.FFmpeg, splice.Params{
		ThresholdOffsetDB: cfg.Splice.SilenceOffsetDB,
		MinRun:            time.Duration(cfg.Splice.MinSilenceMs) * time.Millisecond,
		MinLead:           time.Duration(cfg.Splice.LeadInMs) * time.Millisecond,
		Advance:           time.Duration(cfg.Splice.AdvanceMs) * time.Millisecond,
		HeadroomDB:        cfg.Splice.HeadroomDB,
		Crossfade:         time.Duration(cfg.Splice.CrossfadeMs) * time.Millisecond,
	}, logger)

	return NewRunner(cfg, logger, prober, synthesizer, transcriber, selector, splicer,
		align.NewTrimmer(cfg.Tools.FFmpeg), store)
}
