package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/simulate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

func (m *mockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *mockTimeProvider) Since(t time.Time) time.Duration { return m.Now().Sub(t) }

func (m *mockTimeProvider) advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func newClock() *mockTimeProvider {
	return &mockTimeProvider{now: time.Unix(1_700_000_000, 0)}
}

func readyPlayer(t *testing.T) (*player.Player, *simulate.Decoder) {
	t.Helper()
	var dec *simulate.Decoder
	p := player.New(player.DecoderFactoryFunc(func(sink interfaces.EventSink) (interfaces.Decoder, error) {
		dec = simulate.NewDecoder(sink, simulate.DefaultOptions())
		return dec, nil
	}), nil)
	require.NoError(t, p.SetSourceURL("https://cdn.example.com/v.mpd"))
	require.NoError(t, p.SetTileID(""))
	require.NoError(t, p.Prepare(nil))
	dec.Emit(simulate.ReadySequence(simulate.DefaultQualityGroups, simulate.DefaultAudioFormats)...)
	p.Tick()
	require.True(t, p.IsPlaying())
	return p, dec
}

func TestHealthLevelString(t *testing.T) {
	assert.Equal(t, "Excellent", HealthExcellent.String())
	assert.Equal(t, "Poor", HealthPoor.String())
	assert.Equal(t, "Unknown(9)", HealthLevel(9).String())
}

func TestThresholdsAssess(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name   string
		report Report
		want   HealthLevel
	}{
		{"clean", Report{WatchTime: time.Minute}, HealthExcellent},
		{"short stall", Report{WatchTime: time.Minute, StalledTime: 500 * time.Millisecond}, HealthGood},
		{"fair stall ratio", Report{WatchTime: time.Minute, StalledTime: 2 * time.Second}, HealthFair},
		{"mostly stalled", Report{WatchTime: time.Minute, StalledTime: 20 * time.Second, LongestStall: 5 * time.Second}, HealthPoor},
		{"long single stall", Report{WatchTime: time.Hour, StalledTime: 11 * time.Second, LongestStall: 11 * time.Second}, HealthPoor},
		{"some drops", Report{WatchTime: time.Minute, DroppedFrames: 5}, HealthGood},
		{"many drops", Report{WatchTime: time.Minute, DroppedFrames: 15}, HealthFair},
		{"error", Report{WatchTime: time.Minute, Errors: 1}, HealthPoor},
		{"drops before a second of watch time", Report{DroppedFrames: 100}, HealthExcellent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.assess(&tt.report))
		})
	}
}

func TestReportDerivedValues(t *testing.T) {
	r := Report{Bytes: 1_000_000, IOTime: 2 * time.Second, WatchTime: 3 * time.Second, StalledTime: time.Second}
	assert.Equal(t, int64(4_000_000), r.BandwidthBps())
	assert.InDelta(t, 0.25, r.StallRatio(), 1e-12)

	var empty Report
	assert.Zero(t, empty.BandwidthBps())
	assert.Zero(t, empty.StallRatio())

	r.QualityGroup = "4k"
	assert.Contains(t, r.String(), "bandwidth=4,000,000 bps")
	assert.Contains(t, r.String(), `quality="4k"`)
}

func TestMonitorAccumulatesPlayerEvents(t *testing.T) {
	p, dec := readyPlayer(t)
	clock := newClock()
	m := NewMonitor(nil)
	m.SetTimeProvider(clock)
	require.NoError(t, m.Attach(p))
	assert.ErrorIs(t, m.Attach(p), ErrAlreadyAttached)

	clock.advance(10 * time.Second)
	dec.Emit(interfaces.PlaybackStateEvent(true, interfaces.StateBuffering))
	p.Tick()
	clock.advance(2 * time.Second)
	dec.Emit(
		interfaces.PlaybackStateEvent(true, interfaces.StateReady),
		interfaces.BandwidthSampleEvent(500, 250_000, 0),
		interfaces.DroppedFramesEvent(3),
		interfaces.DownstreamFormatChangedEvent("", "hd"),
		interfaces.DownstreamFormatChangedEvent("", "4k"),
	)
	p.Tick()
	clock.advance(8 * time.Second)

	r := m.Snapshot()
	assert.Equal(t, 18*time.Second, r.WatchTime)
	assert.Equal(t, 2*time.Second, r.StalledTime)
	assert.Equal(t, 2*time.Second, r.LongestStall)
	assert.Equal(t, 1, r.Stalls)
	assert.Equal(t, 3, r.DroppedFrames)
	assert.Equal(t, int64(4_000_000), r.BandwidthBps())
	assert.Equal(t, "4k", r.QualityGroup)
	assert.Equal(t, 1, r.QualitySwitches)
	assert.Equal(t, HealthPoor, r.Health, "10% stalled")

	require.NoError(t, p.Pause())
	clock.advance(time.Minute)
	assert.Equal(t, 18*time.Second, m.Snapshot().WatchTime, "paused time is not watch time")

	m.Detach()
	m.Detach()
	dec.Emit(interfaces.DroppedFramesEvent(10))
	p.Tick()
	assert.Equal(t, 3, m.Snapshot().DroppedFrames)
}

func TestMonitorOpenStallCountsInSnapshot(t *testing.T) {
	clock := newClock()
	m := NewMonitor(nil)
	m.SetTimeProvider(clock)

	m.Record(player.Event{Kind: player.EventPlay})
	clock.advance(time.Second)
	m.Record(player.Event{Kind: player.EventStall})
	clock.advance(3 * time.Second)

	r := m.Snapshot()
	assert.Equal(t, time.Second, r.WatchTime)
	assert.Equal(t, 3*time.Second, r.StalledTime)

	m.Record(player.Event{Kind: player.EventReset})
	clock.advance(time.Hour)
	r = m.Snapshot()
	assert.Equal(t, time.Second, r.WatchTime)
	assert.Equal(t, 3*time.Second, r.StalledTime)
}

func TestMonitorCountsNavigation(t *testing.T) {
	m := NewMonitor(nil)
	m.Record(player.Event{Kind: player.EventTileChanged, TileID: "back"})
	m.Record(player.Event{Kind: player.EventSeeked})
	m.Record(player.Event{Kind: player.EventLoop})
	m.Record(player.Event{Kind: player.EventError, Message: "x"})

	r := m.Snapshot()
	assert.Equal(t, 1, r.TileSwitches)
	assert.Equal(t, "back", r.TileID)
	assert.Equal(t, 1, r.Seeks)
	assert.Equal(t, 1, r.Loops)
	assert.Equal(t, HealthPoor, r.Health)
}

func TestMonitorAttachNil(t *testing.T) {
	assert.ErrorIs(t, NewMonitor(nil).Attach(nil), ErrNilPlayer)
}

func TestMonitorEmitHistory(t *testing.T) {
	m := NewMonitor(nil)
	m.maxHistory = 3
	var got []Report
	m.OnReport(func(r Report) { got = append(got, r) })

	for i := 0; i < 5; i++ {
		m.Record(player.Event{Kind: player.EventDroppedFrames, Frames: 1})
		m.Emit()
	}
	require.Len(t, got, 5)
	history := m.History()
	require.Len(t, history, 3)
	assert.Equal(t, 3, history[0].DroppedFrames)
	assert.Equal(t, 5, history[2].DroppedFrames)
}

func TestMonitorStartStop(t *testing.T) {
	m := NewMonitor(nil)
	assert.ErrorIs(t, m.Start(0), ErrInvalidInterval)

	reports := make(chan Report, 16)
	m.OnReport(func(r Report) {
		select {
		case reports <- r:
		default:
		}
	})
	require.NoError(t, m.Start(5*time.Millisecond))
	assert.True(t, m.IsRunning())
	assert.ErrorIs(t, m.Start(time.Second), ErrAlreadyRunning)

	select {
	case <-reports:
	case <-time.After(2 * time.Second):
		t.Fatal("no periodic report")
	}

	m.Stop()
	m.Stop()
	assert.False(t, m.IsRunning())
	require.NoError(t, m.Start(time.Hour), "restartable after Stop")
	m.Stop()
}
