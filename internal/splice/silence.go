// Package splice finds the silent gap in the template soundtrack and inserts
// the cloned name clip there. Detection is done on decoded samples so the
// decision logic stays testable; the actual cut runs through ffmpeg.
package splice

import (
	"time"

	"namecast/internal/services"
)

// Run is a contiguous span of silence, in seconds from track start.
type Run struct {
	Start float64
	End   float64
}

// Duration of the run in seconds.
func (r Run) Duration() float64 {
	return r.End - r.Start
}

// Params tune detection and gain matching. Zero values fall back to the
// tuning the template videos were produced against.
type Params struct {
	// ThresholdOffsetDB below the track's overall level counts as silence.
	ThresholdOffsetDB float64
	// MinRun is the shortest silence worth splicing into.
	MinRun time.Duration
	// MinLead drops runs that start this close to track start, where the
	// template still carries its intro breath.
	MinLead time.Duration
	// Advance past the run start where the insert begins.
	Advance time.Duration
	// HeadroomDB added on top of level matching so the name reads clearly.
	HeadroomDB float64
	// Crossfade applied on both edges of the insert.
	Crossfade time.Duration
	// Window used when measuring levels.
	Window time.Duration
}

// WithDefaults fills zero fields.
func (p Params) WithDefaults() Params {
	if p.ThresholdOffsetDB <= 0 {
		p.ThresholdOffsetDB = 16
	}
	if p.MinRun <= 0 {
		p.MinRun = 500 * time.Millisecond
	}
	if p.MinLead <= 0 {
		p.MinLead = 500 * time.Millisecond
	}
	if p.Advance <= 0 {
		p.Advance = 500 * time.Millisecond
	}
	if p.HeadroomDB == 0 {
		p.HeadroomDB = 3
	}
	if p.Crossfade <= 0 {
		p.Crossfade = 200 * time.Millisecond
	}
	if p.Window <= 0 {
		p.Window = 100 * time.Millisecond
	}
	return p
}

// Threshold is the silence cutoff for a track at the given overall level.
func Threshold(trackDBFS, offsetDB float64) float64 {
	return trackDBFS - offsetDB
}

// DetectSilence turns windowed level measurements into silence runs. Levels
// are consecutive window dBFS values; a run is a maximal stretch of windows
// below threshold that lasts at least minRun and does not start before
// minLead.
func DetectSilence(levels []float64, window time.Duration, threshold float64, p Params) []Run {
	p = p.WithDefaults()
	step := window.Seconds()

	var runs []Run
	runStart := -1
	flush := func(endIdx int) {
		if runStart < 0 {
			return
		}
		run := Run{Start: float64(runStart) * step, End: float64(endIdx) * step}
		if run.Duration() >= p.MinRun.Seconds() && run.Start >= p.MinLead.Seconds() {
			runs = append(runs, run)
		}
		runStart = -1
	}

	for i, level := range levels {
		if level < threshold {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(levels))
	return runs
}

// SplicePoint picks where the insert starts: a little way into the first
// acceptable run, so the fade-in lands on settled silence. No run is a hard
// failure, splicing into speech would destroy the template.
func SplicePoint(runs []Run, p Params) (float64, error) {
	p = p.WithDefaults()
	if len(runs) == 0 {
		return 0, services.Wrap(services.ErrNoSilence, "splice", "locate", "no silent gap in template audio", nil)
	}
	return runs[0].Start + p.Advance.Seconds(), nil
}

// MatchGain is the dB adjustment bringing the insert up to the track's level
// plus headroom.
func MatchGain(trackDBFS, insertDBFS, headroomDB float64) float64 {
	return (trackDBFS - insertDBFS) + headroomDB
}
