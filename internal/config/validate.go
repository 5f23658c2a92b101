package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateClone(); err != nil {
		return err
	}
	if err := c.validateAlign(); err != nil {
		return err
	}
	if err := c.validateSplice(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateClone() error {
	if c.Clone.TTSMinSeconds >= c.Clone.ReferenceMinSeconds {
		// The reference gets the longer floor; the backend asserts harder on it.
		return errors.New("clone.reference_min_seconds must exceed clone.tts_min_seconds")
	}
	if c.Clone.OnlineTimeoutSeconds < c.Clone.OfflineTimeoutSeconds {
		return errors.New("clone.online_timeout_seconds must be at least clone.offline_timeout_seconds")
	}
	return nil
}

func (c *Config) validateAlign() error {
	if c.Align.RepeatThreshold <= 0 || c.Align.RepeatThreshold > 1 {
		return errors.New("align.repeat_threshold must be in (0, 1]")
	}
	if c.Align.NameThreshold <= 0 || c.Align.NameThreshold > 1 {
		return errors.New("align.name_threshold must be in (0, 1]")
	}
	if c.Align.NameThreshold > c.Align.RepeatThreshold {
		return errors.New("align.name_threshold must not exceed align.repeat_threshold")
	}
	return nil
}

func (c *Config) validateSplice() error {
	if c.Splice.SilenceOffsetDB <= 0 {
		return errors.New("splice.silence_offset_db must be positive")
	}
	if c.Splice.CrossfadeMs >= c.Splice.MinSilenceMs {
		return fmt.Errorf("splice.crossfade_ms (%d) must be shorter than splice.min_silence_ms (%d)",
			c.Splice.CrossfadeMs, c.Splice.MinSilenceMs)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
