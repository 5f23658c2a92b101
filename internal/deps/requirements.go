package deps

import "namecast/internal/config"

// Required builds the dependency list for a configuration. ffmpeg and
// ffprobe are mandatory; the synthesis and clone backends are optional since
// the fallback chain still produces output without them.
func Required(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Audio extraction, filtering, and splicing",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Media inspection",
		},
		{
			Name:        "OpenVoice",
			Command:     cfg.Tools.OpenVoice,
			Description: "Voice-clone conversion backend",
			Optional:    true,
		},
		{
			Name:        "Whisper",
			Command:     cfg.Tools.Whisper,
			Description: "Word-level transcription for alignment",
			Optional:    true,
		},
		{
			Name:        "Edge TTS",
			Command:     cfg.Tools.EdgeTTS,
			Description: "Name synthesis",
			Optional:    true,
		},
	}
}
