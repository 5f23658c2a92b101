package align

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeWord lowercases, NFC-normalizes, and strips a transcript token
// down to letters from the scripts the pipeline handles. Timestamps from the
// transcriber often arrive with punctuation glued on; comparisons work on the
// bare word.
func NormalizeWord(word string) string {
	composed := norm.NFC.String(strings.ToLower(strings.TrimSpace(word)))
	var b strings.Builder
	b.Grow(len(composed))
	for _, r := range composed {
		if isKeptRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isKeptRune admits basic Latin letters plus the Devanagari and Arabic letter
// blocks used by the supported synthesis voices.
func isKeptRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'अ' && r <= 'ह':
		return true
	// Dependent vowel signs, but not the virama so conjuncts compare by
	// their consonants alone.
	case r >= 'ा' && r <= 'ौ':
		return true
	case r >= 'क़' && r <= 'य़':
		return true
	case r >= 'ء' && r <= 'ي':
		return true
	}
	return false
}
