package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors forming the pipeline's failure taxonomy. Stages tag their
// failures with one of these markers via Wrap so callers can branch on
// errors.Is without parsing messages.
var (
	// ErrAssetNotFound indicates a referenced media file does not exist.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrProbeFailure indicates the duration query returned empty or
	// non-numeric output. Distinct from ErrAssetNotFound so callers can
	// pick the right fallback.
	ErrProbeFailure = errors.New("probe failure")
	// ErrShortAudio indicates audio below a backend's minimum duration.
	ErrShortAudio = errors.New("short audio")
	// ErrBackendUnavailable indicates an external binary or module is missing.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrNetwork indicates a network, SSL, or offline-cache failure.
	ErrNetwork = errors.New("network failure")
	// ErrModelLoad indicates a model or checkpoint failed to load.
	ErrModelLoad = errors.New("model load failure")
	// ErrNoSilence indicates no qualifying silent region exists in a base
	// track. This is a hard failure, never degraded around.
	ErrNoSilence = errors.New("no silence found")
	// ErrUnknownBackend covers backend failures with no recognised vocabulary.
	ErrUnknownBackend = errors.New("unknown backend failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUnknownBackend
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should abort the pipeline rather than
// degrade: missing inputs and silence-detection failures represent genuine
// precondition violations the pipeline cannot paper over.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAssetNotFound) || errors.Is(err, ErrNoSilence)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
