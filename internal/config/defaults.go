package config

const (
	defaultWorkDir      = "~/.local/share/namecast/work"
	defaultOutputDir    = "~/.local/share/namecast/videos"
	defaultLogDir       = "~/.local/share/namecast/logs"
	defaultReferenceDir = "~/.local/share/namecast/references"
	defaultTemplateDir  = "~/.local/share/namecast/templates"

	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultOpenVoiceBinary = "openvoice-cli"
	defaultWhisperBinary   = "whisper"
	defaultEdgeTTSBinary   = "edge-tts"

	defaultFFmpegTimeoutSeconds  = 300
	defaultFFprobeTimeoutSeconds = 30

	defaultOnlineTimeoutSeconds  = 120
	defaultOfflineTimeoutSeconds = 60
	defaultTTSMinSeconds         = 3.0
	defaultReferenceMinSeconds   = 5.0

	defaultLanguage          = "mr"
	defaultWhisperModel      = "base"
	defaultRepeatThreshold   = 0.8
	defaultNameThreshold     = 0.6
	defaultNameBufferSeconds = 0.5
	defaultAlignMaxRetries   = 2
	defaultAlignTimeout      = 300

	defaultSilenceOffsetDB = 16.0
	defaultMinSilenceMs    = 500
	defaultLeadInMs        = 500
	defaultAdvanceMs       = 500
	defaultCrossfadeMs     = 200
	defaultHeadroomDB      = 3.0

	defaultTTSVoice          = "hi-IN-MadhurNeural"
	defaultTTSTimeoutSeconds = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:      defaultWorkDir,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
			ReferenceDir: defaultReferenceDir,
			TemplateDir:  defaultTemplateDir,
		},
		Tools: Tools{
			FFmpeg:                defaultFFmpegBinary,
			FFprobe:               defaultFFprobeBinary,
			OpenVoice:             defaultOpenVoiceBinary,
			Whisper:               defaultWhisperBinary,
			EdgeTTS:               defaultEdgeTTSBinary,
			FFmpegTimeoutSeconds:  defaultFFmpegTimeoutSeconds,
			FFprobeTimeoutSeconds: defaultFFprobeTimeoutSeconds,
		},
		Clone: Clone{
			OnlineTimeoutSeconds:  defaultOnlineTimeoutSeconds,
			OfflineTimeoutSeconds: defaultOfflineTimeoutSeconds,
			TTSMinSeconds:         defaultTTSMinSeconds,
			ReferenceMinSeconds:   defaultReferenceMinSeconds,
		},
		Align: Align{
			Language:          defaultLanguage,
			WhisperModel:      defaultWhisperModel,
			RepeatThreshold:   defaultRepeatThreshold,
			NameThreshold:     defaultNameThreshold,
			NameBufferSeconds: defaultNameBufferSeconds,
			MaxRetries:        defaultAlignMaxRetries,
			TimeoutSeconds:    defaultAlignTimeout,
		},
		Splice: Splice{
			SilenceOffsetDB: defaultSilenceOffsetDB,
			MinSilenceMs:    defaultMinSilenceMs,
			LeadInMs:        defaultLeadInMs,
			AdvanceMs:       defaultAdvanceMs,
			CrossfadeMs:     defaultCrossfadeMs,
			HeadroomDB:      defaultHeadroomDB,
		},
		TTS: TTS{
			Voice:          defaultTTSVoice,
			TimeoutSeconds: defaultTTSTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
