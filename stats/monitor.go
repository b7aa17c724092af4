package stats

import (
	"context"
	"sync"
	"time"

	"github.com/opd-ai/spinplay/player"
	"github.com/sirupsen/logrus"
)

// DefaultMaxHistory bounds the rolling report history.
const DefaultMaxHistory = 60

// Monitor accumulates playback statistics from player events and reports
// them periodically.
//
//	m := stats.NewMonitor(nil)
//	m.Attach(p)
//	m.OnReport(func(r stats.Report) { log.Println(r.String()) })
//	m.Start(5 * time.Second)
//	defer m.Stop()
type Monitor struct {
	mu         sync.RWMutex
	thresholds *Thresholds
	clock      player.TimeProvider

	p            *player.Player
	subscription int

	totals       Report
	playing      bool
	playingSince time.Time
	stalled      bool
	stalledSince time.Time

	history    []Report
	maxHistory int

	reportCallback func(Report)
	running        bool
	cancel         context.CancelFunc
	done           chan struct{}
}

// NewMonitor creates a detached monitor. A nil thresholds uses
// DefaultThresholds.
func NewMonitor(thresholds *Thresholds) *Monitor {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	logrus.WithFields(logrus.Fields{
		"function": "NewMonitor",
	}).Info("Creating playback monitor")

	return &Monitor{
		thresholds: thresholds,
		clock:      player.DefaultTimeProvider{},
		maxHistory: DefaultMaxHistory,
	}
}

// SetTimeProvider replaces the clock used to measure watch and stall time.
func (m *Monitor) SetTimeProvider(tp player.TimeProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tp == nil {
		tp = player.DefaultTimeProvider{}
	}
	m.clock = tp
}

// Attach subscribes to p. It must run on p's tick thread.
func (m *Monitor) Attach(p *player.Player) error {
	if p == nil {
		return ErrNilPlayer
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.p != nil {
		return ErrAlreadyAttached
	}
	m.p = p
	m.subscription = p.Subscribe(m.Record)
	m.playing = p.IsPlaying()
	m.playingSince = m.clock.Now()
	return nil
}

// Detach stops observing the player. Accumulated statistics are kept.
func (m *Monitor) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.p == nil {
		return
	}
	m.closeIntervals(m.clock.Now())
	m.p.Unsubscribe(m.subscription)
	m.p = nil
}

// Record folds one player event into the statistics.
func (m *Monitor) Record(ev player.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	t := &m.totals
	switch ev.Kind {
	case player.EventPlay:
		if !m.playing {
			m.playing, m.playingSince = true, now
		}
	case player.EventPause:
		m.closeWatch(now)
	case player.EventStall:
		m.closeWatch(now)
		m.playing = true
		if !m.stalled {
			m.stalled, m.stalledSince = true, now
			t.Stalls++
		}
	case player.EventStallRecover:
		m.closeStall(now)
	case player.EventIOCompleted:
		t.Bytes += ev.Bytes
		t.IOTime += ev.Elapsed
	case player.EventDroppedFrames:
		t.DroppedFrames += ev.Frames
	case player.EventQualityGroupChanged:
		if ev.QualityGroup != nil {
			if t.QualityGroup != "" {
				t.QualitySwitches++
			}
			t.QualityGroup = ev.QualityGroup.Name
		}
	case player.EventTileChanged:
		t.TileSwitches++
		t.TileID = ev.TileID
	case player.EventSeeked:
		t.Seeks++
	case player.EventLoop:
		t.Loops++
	case player.EventError:
		t.Errors++
		m.closeIntervals(now)
	case player.EventReset:
		m.closeIntervals(now)
	case player.EventReadyStateChanged:
		if ev.ReadyState == player.Ended {
			m.closeIntervals(now)
		}
	}
}

func (m *Monitor) closeWatch(now time.Time) {
	if m.playing && !m.stalled {
		m.totals.WatchTime += now.Sub(m.playingSince)
	}
	m.playing = false
}

func (m *Monitor) closeStall(now time.Time) {
	if !m.stalled {
		return
	}
	d := now.Sub(m.stalledSince)
	m.totals.StalledTime += d
	m.totals.LongestStall = max(m.totals.LongestStall, d)
	m.stalled = false
	m.playingSince = now
}

func (m *Monitor) closeIntervals(now time.Time) {
	m.closeStall(now)
	m.closeWatch(now)
}

// Snapshot returns the statistics so far, including open watch and stall
// intervals, with the health assessed.
func (m *Monitor) Snapshot() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot()
}

func (m *Monitor) snapshot() Report {
	now := m.clock.Now()
	r := m.totals
	if m.stalled {
		d := now.Sub(m.stalledSince)
		r.StalledTime += d
		r.LongestStall = max(r.LongestStall, d)
	} else if m.playing {
		r.WatchTime += now.Sub(m.playingSince)
	}
	r.Health = m.thresholds.assess(&r)
	r.Timestamp = now
	return r
}

// History returns a copy of the periodic reports, oldest first.
func (m *Monitor) History() []Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Report, len(m.history))
	copy(out, m.history)
	return out
}

// OnReport registers the periodic report callback. It runs on the report
// goroutine.
func (m *Monitor) OnReport(callback func(Report)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportCallback = callback

	logrus.WithFields(logrus.Fields{
		"function":     "Monitor.OnReport",
		"has_callback": callback != nil,
	}).Debug("Report callback registered")
}

// Start begins periodic reporting.
func (m *Monitor) Start(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.reportLoop(ctx, interval, m.done)

	logrus.WithFields(logrus.Fields{
		"function": "Monitor.Start",
		"interval": interval,
	}).Info("Playback monitor started")
	return nil
}

// Stop halts periodic reporting and waits for the report goroutine.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	done := m.done
	m.mu.Unlock()

	<-done
	logrus.WithFields(logrus.Fields{
		"function": "Monitor.Stop",
	}).Info("Playback monitor stopped")
}

// IsRunning reports whether periodic reporting is active.
func (m *Monitor) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Monitor) reportLoop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Emit()
		}
	}
}

// Emit appends a snapshot to the history and hands it to the report
// callback.
func (m *Monitor) Emit() Report {
	m.mu.Lock()
	r := m.snapshot()
	m.history = append(m.history, r)
	if len(m.history) > m.maxHistory {
		m.history = m.history[1:]
	}
	callback := m.reportCallback
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":  "Monitor.Emit",
		"health":    r.Health.String(),
		"stalls":    r.Stalls,
		"dropped":   r.DroppedFrames,
		"bandwidth": r.BandwidthBps(),
	}).Debug("Playback report")

	if callback != nil {
		callback(r)
	}
	return r
}
