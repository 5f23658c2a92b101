package testsupport

import (
	"path/filepath"
	"testing"

	"namecast/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.OutputDir = filepath.Join(base, "videos")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ReferenceDir = filepath.Join(base, "references")
	cfg.Paths.TemplateDir = filepath.Join(base, "templates")
	return &cfg
}
