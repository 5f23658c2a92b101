package textutil

import (
	"math"
	"testing"
)

func TestRatioEmpty(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"both empty", "", "", 1},
		{"a empty", "", "namaskar", 0},
		{"b empty", "namaskar", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioIdentical(t *testing.T) {
	if got := Ratio("namaskar", "namaskar"); got != 1.0 {
		t.Fatalf("Ratio(identical) = %v, want 1.0", got)
	}
}

func TestRatioNearDuplicate(t *testing.T) {
	// The canonical greeting-template pair: one vowel differs out of eight
	// runes, so 7 matched runes across 16 total = 0.875.
	got := Ratio("namaskar", "nameskar")
	if math.Abs(got-0.875) > 1e-9 {
		t.Fatalf("Ratio(namaskar, nameskar) = %v, want 0.875", got)
	}
	if got <= 0.8 {
		t.Fatalf("near-duplicate pair must clear the repeated-word threshold, got %v", got)
	}
}

func TestRatioDevanagari(t *testing.T) {
	got := Ratio("नमस्कार", "नमस्कार")
	if got != 1.0 {
		t.Fatalf("Ratio(identical devanagari) = %v, want 1.0", got)
	}
	variant := Ratio("नमस्कार", "नमसकार")
	if variant <= 0.8 {
		t.Fatalf("devanagari near-variant should exceed 0.8, got %v", variant)
	}
	if variant >= 1.0 {
		t.Fatalf("devanagari near-variant should not be identical, got %v", variant)
	}
}

func TestRatioDisjoint(t *testing.T) {
	if got := Ratio("abc", "xyz"); got != 0 {
		t.Fatalf("Ratio(disjoint) = %v, want 0", got)
	}
}

func TestRatioMatchesDifflibExamples(t *testing.T) {
	// Values computed with Python difflib.SequenceMatcher.
	tests := []struct {
		a, b string
		want float64
	}{
		{"abcd", "bcde", 0.75},
		{"jay", "jaya", 2 * 3.0 / 7.0},
		{"swagat", "swaagat", 2 * 6.0 / 13.0},
	}
	for _, tt := range tests {
		got := Ratio(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
