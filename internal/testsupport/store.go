package testsupport

import (
	"testing"

	"namecast/internal/attempts"
	"namecast/internal/config"
)

// MustOpenStore opens an attempts.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *attempts.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := attempts.Open(cfg.AttemptsDBPath())
	if err != nil {
		t.Fatalf("attempts.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
