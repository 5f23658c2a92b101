package splice

import (
	"errors"
	"math"
	"testing"
	"time"

	"namecast/internal/services"
)

// levels builds a window-level slice: loud is -10 dBFS, quiet is -40 dBFS.
func levels(pattern string) []float64 {
	out := make([]float64, len(pattern))
	for i, c := range pattern {
		if c == 's' {
			out[i] = -40
		} else {
			out[i] = -10
		}
	}
	return out
}

func TestDetectSilenceFindsRun(t *testing.T) {
	// 100ms windows: loud for 1s, silent for 800ms, loud again.
	lv := levels("llllllllllssssssssll")
	runs := DetectSilence(lv, 100*time.Millisecond, -26, Params{})
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d: %+v", len(runs), runs)
	}
	if math.Abs(runs[0].Start-1.0) > 1e-9 || math.Abs(runs[0].End-1.8) > 1e-9 {
		t.Fatalf("expected run [1.0, 1.8], got %+v", runs[0])
	}
}

func TestDetectSilenceDropsShortRuns(t *testing.T) {
	// 300ms of silence is under the 500ms minimum.
	lv := levels("llllllllllsssll")
	runs := DetectSilence(lv, 100*time.Millisecond, -26, Params{})
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %+v", runs)
	}
}

func TestDetectSilenceDropsEarlyRuns(t *testing.T) {
	// A run starting at 200ms is inside the 500ms lead guard.
	lv := levels("llssssssssllllllllll")
	runs := DetectSilence(lv, 100*time.Millisecond, -26, Params{})
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %+v", runs)
	}
}

func TestDetectSilenceTrailingRun(t *testing.T) {
	lv := levels("llllllllllssssssssss")
	runs := DetectSilence(lv, 100*time.Millisecond, -26, Params{})
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %+v", runs)
	}
	if math.Abs(runs[0].End-2.0) > 1e-9 {
		t.Fatalf("trailing run should end at track end, got %+v", runs[0])
	}
}

func TestSplicePointAdvancesIntoRun(t *testing.T) {
	runs := []Run{{Start: 1.0, End: 2.2}, {Start: 4.0, End: 5.0}}
	point, err := SplicePoint(runs, Params{})
	if err != nil {
		t.Fatalf("splice point: %v", err)
	}
	if math.Abs(point-1.5) > 1e-9 {
		t.Fatalf("expected 1.5, got %v", point)
	}
}

func TestSplicePointNoSilenceIsHardFailure(t *testing.T) {
	_, err := SplicePoint(nil, Params{})
	if !errors.Is(err, services.ErrNoSilence) {
		t.Fatalf("expected ErrNoSilence, got %v", err)
	}
}

func TestThreshold(t *testing.T) {
	if got := Threshold(-12, 16); got != -28 {
		t.Fatalf("expected -28, got %v", got)
	}
}

func TestMatchGain(t *testing.T) {
	// Track at -12, insert at -20: raise by 8 plus 3 headroom.
	if got := MatchGain(-12, -20, 3); got != 11 {
		t.Fatalf("expected 11 dB, got %v", got)
	}
	// A hot insert gets pulled down even with headroom.
	if got := MatchGain(-20, -6, 3); got != -11 {
		t.Fatalf("expected -11 dB, got %v", got)
	}
}
