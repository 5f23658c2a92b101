package clone

import "strings"

// FailureKind buckets a backend failure by what the chain should try next.
type FailureKind int

const (
	// FailureUnknown is anything the vocabularies below do not cover.
	FailureUnknown FailureKind = iota
	// FailureNetwork means the backend could not reach its model host.
	FailureNetwork
	// FailureShortAudio means the input was too short for the backend.
	FailureShortAudio
	// FailureModelLoad means checkpoints were missing or corrupt.
	FailureModelLoad
)

func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureShortAudio:
		return "short_audio"
	case FailureModelLoad:
		return "model_load"
	default:
		return "unknown"
	}
}

// Keyword vocabularies matched against lowercased failure text. These mirror
// the messages the python-based backends actually emit; ordering below gives
// network precedence since its messages often also mention models.
var (
	networkKeywords = []string{
		"localentrynotfound",
		"offlinemode",
		"cannot reach",
		"connection",
		"ssl",
		"certificate",
		"network",
	}
	shortAudioKeywords = []string{
		"too short",
		"assertionerror",
		"num_splits > 0",
	}
	modelLoadKeywords = []string{
		"model",
		"checkpoint",
		"load",
		"download",
	}
)

// Classify buckets a failure by its message text. Precedence is
// network, then short audio, then model load.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}
	text := strings.ToLower(err.Error())
	for _, kw := range networkKeywords {
		if strings.Contains(text, kw) {
			return FailureNetwork
		}
	}
	for _, kw := range shortAudioKeywords {
		if strings.Contains(text, kw) {
			return FailureShortAudio
		}
	}
	for _, kw := range modelLoadKeywords {
		if strings.Contains(text, kw) {
			return FailureModelLoad
		}
	}
	return FailureUnknown
}
