package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir      string `toml:"work_dir"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
	ReferenceDir string `toml:"reference_dir"`
	TemplateDir  string `toml:"template_dir"`
}

// Tools contains external binary names and their invocation timeouts.
type Tools struct {
	FFmpeg                string `toml:"ffmpeg"`
	FFprobe               string `toml:"ffprobe"`
	OpenVoice             string `toml:"openvoice"`
	Whisper               string `toml:"whisper"`
	EdgeTTS               string `toml:"edge_tts"`
	FFmpegTimeoutSeconds  int    `toml:"ffmpeg_timeout_seconds"`
	FFprobeTimeoutSeconds int    `toml:"ffprobe_timeout_seconds"`
}

// Clone contains configuration for the voice-clone fallback chain.
type Clone struct {
	OnlineTimeoutSeconds  int     `toml:"online_timeout_seconds"`
	OfflineTimeoutSeconds int     `toml:"offline_timeout_seconds"`
	TTSMinSeconds         float64 `toml:"tts_min_seconds"`
	ReferenceMinSeconds   float64 `toml:"reference_min_seconds"`
}

// Align contains configuration for transcription and window selection.
type Align struct {
	Language          string  `toml:"language"`
	WhisperModel      string  `toml:"whisper_model"`
	TrimEnabled       bool    `toml:"trim_enabled"`
	RepeatThreshold   float64 `toml:"repeat_threshold"`
	NameThreshold     float64 `toml:"name_threshold"`
	NameBufferSeconds float64 `toml:"name_buffer_seconds"`
	MaxRetries        int     `toml:"max_retries"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// Splice contains configuration for silence detection and insertion.
type Splice struct {
	SilenceOffsetDB float64 `toml:"silence_offset_db"`
	MinSilenceMs    int     `toml:"min_silence_ms"`
	LeadInMs        int     `toml:"lead_in_ms"`
	AdvanceMs       int     `toml:"advance_ms"`
	CrossfadeMs     int     `toml:"crossfade_ms"`
	HeadroomDB      float64 `toml:"headroom_db"`
}

// TTS contains configuration for name audio synthesis.
type TTS struct {
	Voice          string `toml:"voice"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for namecast.
//
// Configuration sections by subsystem:
//   - Paths: working, output, log, and voice-reference directories
//   - Tools: external binary names and timeouts (ffmpeg, ffprobe, backends)
//   - Clone: fallback-chain timeouts and minimum durations
//   - Align: transcription language/model and window-selection thresholds
//   - Splice: silence detection and crossfade parameters
//   - TTS: name synthesis voice
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tools   Tools   `toml:"tools"`
	Clone   Clone   `toml:"clone"`
	Align   Align   `toml:"align"`
	Splice  Splice  `toml:"splice"`
	TTS     TTS     `toml:"tts"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/namecast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("namecast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.ReferenceDir) != "" {
		// Best-effort: the reference samples may live on read-only storage.
		_ = os.MkdirAll(c.Paths.ReferenceDir, 0o755)
	}
	return nil
}

// AttemptsDBPath returns the location of the clone-attempt log database.
func (c *Config) AttemptsDBPath() string {
	return filepath.Join(c.Paths.LogDir, "attempts.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
