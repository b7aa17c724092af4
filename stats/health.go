package stats

import (
	"fmt"
	"time"
)

// HealthLevel is the overall playback health assessment.
type HealthLevel int

const (
	// HealthExcellent means no stalls and almost no dropped frames
	HealthExcellent HealthLevel = iota
	// HealthGood means occasional short stalls or a few dropped frames
	HealthGood
	// HealthFair means noticeable stalls or frame drops
	HealthFair
	// HealthPoor means playback is mostly stalled, dropping frames or failed
	HealthPoor
)

// String returns the string representation of HealthLevel.
func (h HealthLevel) String() string {
	switch h {
	case HealthExcellent:
		return "Excellent"
	case HealthGood:
		return "Good"
	case HealthFair:
		return "Fair"
	case HealthPoor:
		return "Poor"
	default:
		return fmt.Sprintf("Unknown(%d)", int(h))
	}
}

// Thresholds categorize playback health. Stall ratios are the fraction of
// watch time spent stalled; dropped frame rates are per minute of playback.
type Thresholds struct {
	ExcellentStallRatio float64
	GoodStallRatio      float64
	FairStallRatio      float64

	ExcellentDroppedPerMinute float64
	GoodDroppedPerMinute      float64
	FairDroppedPerMinute      float64

	// A single stall longer than this is Poor regardless of the ratio.
	MaxStall time.Duration
}

// DefaultThresholds returns thresholds suited to streamed 360 video.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		ExcellentStallRatio:       0.005,
		GoodStallRatio:            0.02,
		FairStallRatio:            0.05,
		ExcellentDroppedPerMinute: 1,
		GoodDroppedPerMinute:      10,
		FairDroppedPerMinute:      30,
		MaxStall:                  10 * time.Second,
	}
}

// assess returns the worse of the stall and dropped frame assessments.
func (t *Thresholds) assess(r *Report) HealthLevel {
	if r.Errors > 0 || r.LongestStall > t.MaxStall {
		return HealthPoor
	}
	return max(t.assessStalls(r.StallRatio()), t.assessDropped(r.DroppedPerMinute()))
}

func (t *Thresholds) assessStalls(ratio float64) HealthLevel {
	switch {
	case ratio >= t.FairStallRatio:
		return HealthPoor
	case ratio >= t.GoodStallRatio:
		return HealthFair
	case ratio >= t.ExcellentStallRatio:
		return HealthGood
	default:
		return HealthExcellent
	}
}

func (t *Thresholds) assessDropped(perMinute float64) HealthLevel {
	switch {
	case perMinute >= t.FairDroppedPerMinute:
		return HealthPoor
	case perMinute >= t.GoodDroppedPerMinute:
		return HealthFair
	case perMinute >= t.ExcellentDroppedPerMinute:
		return HealthGood
	default:
		return HealthExcellent
	}
}
