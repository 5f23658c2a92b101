package align

import (
	"context"
	"math"
	"strings"
	"testing"
)

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Namaskar,", want: "namaskar"},
		{in: "  HELLO!  ", want: "hello"},
		{in: "नमस्कार।", want: "नमसकार"},
		{in: "مرحبا!", want: "مرحبا"},
		{in: "123...", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := NormalizeWord(tt.in); got != tt.want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRepeatedWordWindowWins(t *testing.T) {
	words := []Word{
		{Text: "namaskar", Start: 0.2, End: 0.9},
		{Text: "nameskar", Start: 1.4, End: 2.1},
		{Text: "priya", Start: 2.3, End: 2.8},
	}
	w := FindWindow(words, "priya", 5.0, Options{})
	if w.Strategy != StrategyRepeatedWord {
		t.Fatalf("expected repeated-word strategy, got %s", w.Strategy)
	}
	if !almostEqual(w.Start, 0.9) || !almostEqual(w.End, 1.4) {
		t.Fatalf("expected window [0.9, 1.4], got [%v, %v]", w.Start, w.End)
	}
}

func TestRepeatedWordSkipsInterveningTokens(t *testing.T) {
	words := []Word{
		{Text: "namaskar", Start: 0.0, End: 0.5},
		{Text: "jay", Start: 0.5, End: 0.8},
		{Text: "nameskar", Start: 2.0, End: 2.5},
	}
	w := FindWindow(words, "priya", 3.0, Options{})
	if w.Strategy != StrategyRepeatedWord {
		t.Fatalf("expected repeated-word strategy, got %s", w.Strategy)
	}
	if !almostEqual(w.Start, 0.5) || !almostEqual(w.End, 2.0) {
		t.Fatalf("expected window [0.5, 2.0], got [%v, %v]", w.Start, w.End)
	}
}

func TestRepeatedWordDevanagariOrdering(t *testing.T) {
	// The greeting and its phonetic variant repeat around a filler word;
	// the repeat must win over a name match on the middle token.
	words := []Word{
		{Text: "नमस्कार", Start: 0.2, End: 0.9},
		{Text: "जय", Start: 1.0, End: 1.2},
		{Text: "नमसकार", Start: 1.4, End: 2.1},
	}
	w := FindWindow(words, "जय", 3.0, Options{})
	if w.Strategy != StrategyRepeatedWord {
		t.Fatalf("expected repeated-word strategy, got %s", w.Strategy)
	}
	if !almostEqual(w.Start, 0.9) || !almostEqual(w.End, 1.4) {
		t.Fatalf("expected window [0.9, 1.4], got [%v, %v]", w.Start, w.End)
	}
}

func TestNameMatchWindow(t *testing.T) {
	words := []Word{
		{Text: "hello", Start: 0.0, End: 0.5},
		{Text: "Priyaa", Start: 1.0, End: 1.6},
		{Text: "welcome", Start: 2.0, End: 2.7},
	}
	w := FindWindow(words, "priya", 5.0, Options{})
	if w.Strategy != StrategyNameMatch {
		t.Fatalf("expected name-match strategy, got %s", w.Strategy)
	}
	if !almostEqual(w.Start, 0.5) || !almostEqual(w.End, 2.1) {
		t.Fatalf("expected buffered window [0.5, 2.1], got [%v, %v]", w.Start, w.End)
	}
}

func TestNameMatchPerToken(t *testing.T) {
	// Only the first name survives synthesis here; matching must work
	// against each name token, not the concatenated full name.
	words := []Word{
		{Text: "welcome", Start: 0.0, End: 0.5},
		{Text: "jay", Start: 1.0, End: 1.3},
	}
	w := FindWindow(words, "Jay Kumar", 5.0, Options{})
	if w.Strategy != StrategyNameMatch {
		t.Fatalf("expected name-match strategy, got %s", w.Strategy)
	}
	if !almostEqual(w.Start, 0.5) || !almostEqual(w.End, 1.8) {
		t.Fatalf("expected buffered window [0.5, 1.8], got [%v, %v]", w.Start, w.End)
	}
}

func TestMiddleFallback(t *testing.T) {
	w := FindWindow(nil, "priya", 10.0, Options{})
	if w.Strategy != StrategyMiddle {
		t.Fatalf("expected middle strategy, got %s", w.Strategy)
	}
	// Capped at 3 seconds, centered on 5.
	if !almostEqual(w.Start, 3.5) || !almostEqual(w.End, 6.5) {
		t.Fatalf("expected window [3.5, 6.5], got [%v, %v]", w.Start, w.End)
	}
}

func TestMiddleFallbackShortClip(t *testing.T) {
	w := FindWindow(nil, "priya", 4.0, Options{})
	// 40 percent of 4 seconds beats the 3-second cap.
	if !almostEqual(w.End-w.Start, 1.6) {
		t.Fatalf("expected 1.6-second window, got [%v, %v]", w.Start, w.End)
	}
}

func TestWindowClampedToClip(t *testing.T) {
	words := []Word{{Text: "priya", Start: 0.1, End: 0.4}}
	w := FindWindow(words, "priya", 0.6, Options{})
	if w.Start < 0 {
		t.Fatalf("window start below zero: %v", w.Start)
	}
	if w.End > 0.6 {
		t.Fatalf("window end beyond clip: %v", w.End)
	}
}

func TestDissimilarNeighborsDoNotTrigger(t *testing.T) {
	words := []Word{
		{Text: "hello", Start: 0.0, End: 0.5},
		{Text: "world", Start: 0.6, End: 1.1},
	}
	w := FindWindow(words, "zzz", 5.0, Options{})
	if w.Strategy == StrategyRepeatedWord {
		t.Fatal("dissimilar neighbors should not look repeated")
	}
}

func TestTrimBuildsSiblingPath(t *testing.T) {
	trimmer := NewTrimmer("ffmpeg")
	var gotArgs []string
	trimmer.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, nil
	})

	out, err := trimmer.Trim(context.Background(), "/work/cloned.wav", Window{Start: 1.0, End: 2.5})
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if out != "/work/cloned_trimmed.wav" {
		t.Fatalf("unexpected output path %s", out)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "-ss 1.000") || !strings.Contains(joined, "-to 2.500") {
		t.Fatalf("window not passed to ffmpeg: %s", joined)
	}
}

func TestTrimRejectsEmptyWindow(t *testing.T) {
	trimmer := NewTrimmer("ffmpeg")
	trimmer.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("ffmpeg should not run for an empty window")
		return nil, nil
	})
	if _, err := trimmer.Trim(context.Background(), "/work/cloned.wav", Window{Start: 2.0, End: 2.0}); err == nil {
		t.Fatal("expected error for empty window")
	}
}
