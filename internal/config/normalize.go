package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeClone()
	c.normalizeAlign()
	c.normalizeSplice()
	c.normalizeTTS()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReferenceDir) == "" {
		c.Paths.ReferenceDir = defaultReferenceDir
	}
	if c.Paths.ReferenceDir, err = expandPath(c.Paths.ReferenceDir); err != nil {
		return fmt.Errorf("paths.reference_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TemplateDir) == "" {
		c.Paths.TemplateDir = defaultTemplateDir
	}
	if c.Paths.TemplateDir, err = expandPath(c.Paths.TemplateDir); err != nil {
		return fmt.Errorf("paths.template_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Tools.OpenVoice) == "" {
		c.Tools.OpenVoice = defaultOpenVoiceBinary
	}
	if strings.TrimSpace(c.Tools.Whisper) == "" {
		c.Tools.Whisper = defaultWhisperBinary
	}
	if strings.TrimSpace(c.Tools.EdgeTTS) == "" {
		c.Tools.EdgeTTS = defaultEdgeTTSBinary
	}
	if c.Tools.FFmpegTimeoutSeconds <= 0 {
		c.Tools.FFmpegTimeoutSeconds = defaultFFmpegTimeoutSeconds
	}
	if c.Tools.FFprobeTimeoutSeconds <= 0 {
		c.Tools.FFprobeTimeoutSeconds = defaultFFprobeTimeoutSeconds
	}
}

func (c *Config) normalizeClone() {
	if c.Clone.OnlineTimeoutSeconds <= 0 {
		c.Clone.OnlineTimeoutSeconds = defaultOnlineTimeoutSeconds
	}
	if c.Clone.OfflineTimeoutSeconds <= 0 {
		c.Clone.OfflineTimeoutSeconds = defaultOfflineTimeoutSeconds
	}
	if c.Clone.TTSMinSeconds <= 0 {
		c.Clone.TTSMinSeconds = defaultTTSMinSeconds
	}
	if c.Clone.ReferenceMinSeconds <= 0 {
		c.Clone.ReferenceMinSeconds = defaultReferenceMinSeconds
	}
}

func (c *Config) normalizeAlign() {
	c.Align.Language = strings.TrimSpace(c.Align.Language)
	if c.Align.Language == "" {
		c.Align.Language = defaultLanguage
	}
	c.Align.WhisperModel = strings.TrimSpace(c.Align.WhisperModel)
	if c.Align.WhisperModel == "" {
		c.Align.WhisperModel = defaultWhisperModel
	}
	if c.Align.RepeatThreshold <= 0 {
		c.Align.RepeatThreshold = defaultRepeatThreshold
	}
	if c.Align.NameThreshold <= 0 {
		c.Align.NameThreshold = defaultNameThreshold
	}
	if c.Align.NameBufferSeconds <= 0 {
		c.Align.NameBufferSeconds = defaultNameBufferSeconds
	}
	if c.Align.MaxRetries < 0 {
		c.Align.MaxRetries = defaultAlignMaxRetries
	}
	if c.Align.TimeoutSeconds <= 0 {
		c.Align.TimeoutSeconds = defaultAlignTimeout
	}
}

func (c *Config) normalizeSplice() {
	if c.Splice.SilenceOffsetDB <= 0 {
		c.Splice.SilenceOffsetDB = defaultSilenceOffsetDB
	}
	if c.Splice.MinSilenceMs <= 0 {
		c.Splice.MinSilenceMs = defaultMinSilenceMs
	}
	if c.Splice.LeadInMs <= 0 {
		c.Splice.LeadInMs = defaultLeadInMs
	}
	if c.Splice.AdvanceMs <= 0 {
		c.Splice.AdvanceMs = defaultAdvanceMs
	}
	if c.Splice.CrossfadeMs <= 0 {
		c.Splice.CrossfadeMs = defaultCrossfadeMs
	}
	if c.Splice.HeadroomDB == 0 {
		c.Splice.HeadroomDB = defaultHeadroomDB
	}
}

func (c *Config) normalizeTTS() {
	c.TTS.Voice = strings.TrimSpace(c.TTS.Voice)
	if c.TTS.Voice == "" {
		c.TTS.Voice = defaultTTSVoice
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
