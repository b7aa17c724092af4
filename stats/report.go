package stats

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Report is a snapshot of playback statistics.
type Report struct {
	// IO
	Bytes  int64
	IOTime time.Duration

	// Watch time excludes stalls; StalledTime includes the open stall.
	WatchTime    time.Duration
	StalledTime  time.Duration
	LongestStall time.Duration
	Stalls       int

	DroppedFrames   int
	QualitySwitches int
	TileSwitches    int
	Seeks           int
	Loops           int
	Errors          int

	QualityGroup string
	TileID       string

	Health    HealthLevel
	Timestamp time.Time
}

// BandwidthBps estimates throughput from completed transfers, or 0 before
// the first one.
func (r *Report) BandwidthBps() int64 {
	if r.IOTime <= 0 {
		return 0
	}
	return int64(float64(r.Bytes*8) / r.IOTime.Seconds())
}

// StallRatio is the fraction of watch time spent stalled.
func (r *Report) StallRatio() float64 {
	total := r.WatchTime + r.StalledTime
	if total <= 0 {
		return 0
	}
	return float64(r.StalledTime) / float64(total)
}

// DroppedPerMinute is the dropped frame rate over watch time.
func (r *Report) DroppedPerMinute() float64 {
	if r.WatchTime < time.Second {
		return 0
	}
	return float64(r.DroppedFrames) / r.WatchTime.Minutes()
}

// String renders the report on one line with grouped digits.
func (r *Report) String() string {
	return printer.Sprintf("health=%s bandwidth=%d bps watched=%s stalls=%d stalled=%s dropped=%d quality=%q switches=%d tile=%q tile_switches=%d seeks=%d",
		r.Health, r.BandwidthBps(), r.WatchTime.Round(time.Millisecond), r.Stalls,
		r.StalledTime.Round(time.Millisecond), r.DroppedFrames, r.QualityGroup,
		r.QualitySwitches, r.TileID, r.TileSwitches, r.Seeks)
}
