package services_test

import (
	"errors"
	"strings"
	"testing"

	"namecast/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrProbeFailure, "probe", "read duration", "empty output", nil)
	if !errors.Is(err, services.ErrProbeFailure) {
		t.Fatalf("expected ErrProbeFailure marker, got %v", err)
	}
	for _, part := range []string{"probe", "read duration", "empty output"} {
		if !strings.Contains(err.Error(), part) {
			t.Fatalf("error message missing %q: %v", part, err)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrNetwork, "clone", "openvoice online", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected ErrNetwork marker, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToUnknown(t *testing.T) {
	err := services.Wrap(nil, "clone", "spectral", "", nil)
	if !errors.Is(err, services.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend default, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err   error
		fatal bool
	}{
		{services.Wrap(services.ErrAssetNotFound, "probe", "", "", nil), true},
		{services.Wrap(services.ErrNoSilence, "splice", "", "", nil), true},
		{services.Wrap(services.ErrProbeFailure, "probe", "", "", nil), false},
		{services.Wrap(services.ErrNetwork, "clone", "", "", nil), false},
		{services.Wrap(services.ErrShortAudio, "clone", "", "", nil), false},
	}
	for _, tt := range tests {
		if got := services.IsFatal(tt.err); got != tt.fatal {
			t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.fatal)
		}
	}
}
