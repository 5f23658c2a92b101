// Package align locates the region of a cloned clip that actually carries
// the spoken name, so looped filler from duration extension can be cut away
// before splicing.
package align

import (
	"log/slog"
	"strings"

	"namecast/internal/textutil"
)

// Strategy identifiers reported in logs and attempt records.
const (
	StrategyRepeatedWord = "repeated_word"
	StrategyNameMatch    = "name_match"
	StrategyMiddle       = "middle"
)

const (
	// middleMaxSeconds caps the fallback window width.
	middleMaxSeconds = 3.0
	// middleFraction of the total duration used when shorter than the cap.
	middleFraction = 0.4
)

// Word is a transcribed token with its time span in seconds.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Window is a time span to keep, with the strategy that chose it.
type Window struct {
	Start    float64
	End      float64
	Strategy string
}

// Options tune the window search. Zero values fall back to the thresholds
// the transcription models were calibrated against.
type Options struct {
	RepeatThreshold float64
	NameThreshold   float64
	BufferSeconds   float64
	Logger          *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.RepeatThreshold <= 0 {
		o.RepeatThreshold = 0.8
	}
	if o.NameThreshold <= 0 {
		o.NameThreshold = 0.6
	}
	if o.BufferSeconds <= 0 {
		o.BufferSeconds = 0.5
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// FindWindow picks the span of the clip worth keeping. Strategies run in a
// fixed order and the first hit wins: a repeated-word boundary is the
// strongest signal that looping duplicated the name, a fuzzy match against
// the expected name is next, and the centered fallback always succeeds so
// alignment never aborts the run.
func FindWindow(words []Word, name string, totalSeconds float64, opts Options) Window {
	opts = opts.withDefaults()

	if w, ok := repeatedWordWindow(words, opts.RepeatThreshold); ok {
		opts.Logger.Debug("alignment window from repeated word", "start", w.Start, "end", w.End)
		return clamp(w, totalSeconds)
	}
	if w, ok := nameMatchWindow(words, name, opts.NameThreshold, opts.BufferSeconds); ok {
		opts.Logger.Debug("alignment window from name match", "start", w.Start, "end", w.End)
		return clamp(w, totalSeconds)
	}

	w := middleWindow(totalSeconds)
	opts.Logger.Debug("alignment window from middle fallback", "start", w.Start, "end", w.End)
	return clamp(w, totalSeconds)
}

// repeatedWordWindow looks for two tokens anywhere in the transcript that
// are near-identical after normalization, earliest pair first. When looping
// repeated the name, the gap between the first occurrence's end and the
// second's start brackets a clean take, even with filler words in between.
func repeatedWordWindow(words []Word, threshold float64) (Window, bool) {
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = NormalizeWord(w.Text)
	}
	for i := range words {
		if normalized[i] == "" {
			continue
		}
		for j := i + 1; j < len(words); j++ {
			if normalized[j] == "" {
				continue
			}
			if textutil.Ratio(normalized[i], normalized[j]) > threshold {
				return Window{
					Start:    words[i].End,
					End:      words[j].Start,
					Strategy: StrategyRepeatedWord,
				}, true
			}
		}
	}
	return Window{}, false
}

// nameMatchWindow finds the first token resembling any part of the expected
// name and pads it with a small buffer on each side. The name is matched
// token by token so "jay kumar" still finds a lone "jay" in the transcript.
func nameMatchWindow(words []Word, name string, threshold, buffer float64) (Window, bool) {
	var targets []string
	for _, field := range strings.Fields(name) {
		if target := NormalizeWord(field); target != "" {
			targets = append(targets, target)
		}
	}
	if len(targets) == 0 {
		return Window{}, false
	}
	for _, target := range targets {
		for _, w := range words {
			token := NormalizeWord(w.Text)
			if token == "" {
				continue
			}
			if textutil.Ratio(token, target) >= threshold {
				return Window{
					Start:    w.Start - buffer,
					End:      w.End + buffer,
					Strategy: StrategyNameMatch,
				}, true
			}
		}
	}
	return Window{}, false
}

// middleWindow centers a window on the clip, no wider than three seconds or
// forty percent of the clip, whichever is smaller.
func middleWindow(totalSeconds float64) Window {
	width := middleMaxSeconds
	if frac := totalSeconds * middleFraction; frac < width {
		width = frac
	}
	center := totalSeconds / 2
	return Window{
		Start:    center - width/2,
		End:      center + width/2,
		Strategy: StrategyMiddle,
	}
}

func clamp(w Window, totalSeconds float64) Window {
	if w.Start < 0 {
		w.Start = 0
	}
	if totalSeconds > 0 && w.End > totalSeconds {
		w.End = totalSeconds
	}
	if w.End < w.Start {
		w.End = w.Start
	}
	return w
}
