package clone

import (
	"math"
	"testing"
)

func tone(sampleRate int, freq float64, seconds float64) []float64 {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return samples
}

func TestEstimatePitchPureTone(t *testing.T) {
	for _, freq := range []float64{100, 150, 220, 330} {
		got := EstimatePitch(tone(8000, freq, 0.5), 8000)
		if math.Abs(got-freq)/freq > 0.05 {
			t.Errorf("estimated %v Hz for a %v Hz tone", got, freq)
		}
	}
}

func TestEstimatePitchSilenceDefaults(t *testing.T) {
	if got := EstimatePitch(make([]float64, 4000), 8000); got != pitchDefaultHz {
		t.Fatalf("expected default pitch for silence, got %v", got)
	}
}

func TestEstimatePitchEmptyInput(t *testing.T) {
	if got := EstimatePitch(nil, 8000); got != pitchDefaultHz {
		t.Fatalf("expected default pitch for empty input, got %v", got)
	}
	if got := EstimatePitch(tone(8000, 150, 0.5), 0); got != pitchDefaultHz {
		t.Fatalf("expected default pitch for zero rate, got %v", got)
	}
}

func TestPitchRatioClamps(t *testing.T) {
	tests := []struct {
		ref, synth, want float64
	}{
		{ref: 150, synth: 150, want: 1.0},
		{ref: 300, synth: 150, want: 1.8},
		{ref: 60, synth: 300, want: 0.6},
		{ref: 180, synth: 150, want: 1.2},
		{ref: 0, synth: 150, want: 1.0},
	}
	for _, tt := range tests {
		if got := PitchRatio(tt.ref, tt.synth); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PitchRatio(%v, %v) = %v, want %v", tt.ref, tt.synth, got, tt.want)
		}
	}
}

func TestVolumeGainClamps(t *testing.T) {
	tests := []struct {
		ref, synth, want float64
	}{
		{ref: 0.2, synth: 0.2, want: 1.0},
		{ref: 0.9, synth: 0.1, want: 3.0},
		{ref: 0.01, synth: 0.5, want: 0.3},
		{ref: 0.3, synth: 0.2, want: 1.5},
		{ref: 0.2, synth: 0, want: 1.0},
	}
	for _, tt := range tests {
		if got := VolumeGain(tt.ref, tt.synth); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("VolumeGain(%v, %v) = %v, want %v", tt.ref, tt.synth, got, tt.want)
		}
	}
}
