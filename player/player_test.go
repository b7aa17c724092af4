package player

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/simulate"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTimeProvider struct {
	now time.Time
}

func (m *mockTimeProvider) Now() time.Time                  { return m.now }
func (m *mockTimeProvider) Since(t time.Time) time.Duration { return m.now.Sub(t) }
func (m *mockTimeProvider) advance(d time.Duration)         { m.now = m.now.Add(d) }

type fakeTarget struct {
	model    shader.ColorModel
	textures []shader.Texture
	calls    int
}

func (f *fakeTarget) SetVideoTextures(model shader.ColorModel, textures []shader.Texture) {
	f.model, f.textures = model, textures
	f.calls++
}

type harness struct {
	p        *Player
	dec      *simulate.Decoder
	decoders []*simulate.Decoder
	clock    *mockTimeProvider
	events   []Event
}

func newHarness(t *testing.T, cfg *Config) *harness {
	t.Helper()
	h := &harness{clock: &mockTimeProvider{now: time.Unix(1_700_000_000, 0)}}
	h.p = New(DecoderFactoryFunc(func(sink interfaces.EventSink) (interfaces.Decoder, error) {
		h.dec = simulate.NewDecoder(sink, simulate.DefaultOptions())
		h.decoders = append(h.decoders, h.dec)
		return h.dec, nil
	}), cfg)
	h.p.SetTimeProvider(h.clock)
	h.p.Subscribe(func(ev Event) { h.events = append(h.events, ev) })
	return h
}

func (h *harness) prepare(t *testing.T, config interfaces.DecoderConfig) {
	t.Helper()
	require.NoError(t, h.p.SetSourceURL("https://cdn.example.com/video.mpd"))
	require.NoError(t, h.p.SetTileID("front"))
	require.NoError(t, h.p.Prepare(config))
}

func (h *harness) ready(t *testing.T) {
	t.Helper()
	h.prepare(t, nil)
	h.dec.Emit(simulate.ReadySequence(simulate.DefaultQualityGroups, simulate.DefaultAudioFormats)...)
	h.p.Tick()
	require.Equal(t, Ready, h.p.ReadyState())
}

func (h *harness) kinds() []EventKind {
	out := make([]EventKind, len(h.events))
	for i, ev := range h.events {
		out[i] = ev.Kind
	}
	return out
}

func (h *harness) count(kind EventKind) int {
	n := 0
	for _, ev := range h.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (h *harness) reset() { h.events = nil }

func pausedConfig() *Config {
	cfg := DefaultConfig()
	cfg.AutoPlay = false
	return cfg
}

func TestNewPlayerIsIdle(t *testing.T) {
	h := newHarness(t, nil)
	p := h.p

	assert.Equal(t, Idle, p.ReadyState())
	assert.True(t, p.AutoPlay())
	assert.True(t, p.AutoQuality())
	assert.False(t, p.Loop())
	assert.False(t, p.IsPlaying())
	assert.Nil(t, p.QualityGroups())
	assert.Nil(t, p.AudioTracks())
	assert.Nil(t, p.Textures())
	assert.Equal(t, UnknownTime, p.Duration())
	assert.Equal(t, UnknownTime, p.CurrentTime())
	w, hgt := p.VideoSize()
	assert.Equal(t, UnknownSize, w)
	assert.Equal(t, UnknownSize, hgt)
	_, ok := p.CurrentTileID()
	assert.False(t, ok)
	assert.Equal(t, DefaultPollInterval, p.Config().PollInterval)
}

func TestPreparePreconditions(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.p.SetTileID(""))
		assert.ErrorIs(t, h.p.Prepare(nil), ErrContractViolation)
		assert.Equal(t, Idle, h.p.ReadyState())
	})
	t.Run("missing tile", func(t *testing.T) {
		h := newHarness(t, nil)
		require.NoError(t, h.p.SetSourceURL("u"))
		assert.ErrorIs(t, h.p.Prepare(nil), ErrContractViolation)
	})
	t.Run("not idle", func(t *testing.T) {
		h := newHarness(t, nil)
		h.prepare(t, nil)
		err := h.p.Prepare(nil)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.True(t, IsContractViolation(err))
	})
	t.Run("no factory", func(t *testing.T) {
		p := New(nil, nil)
		require.NoError(t, p.SetSourceURL("u"))
		require.NoError(t, p.SetTileID(""))
		assert.ErrorIs(t, p.Prepare(nil), ErrNoDecoderFactory)
	})
	t.Run("source only settable while idle", func(t *testing.T) {
		h := newHarness(t, nil)
		h.prepare(t, nil)
		assert.ErrorIs(t, h.p.SetSourceURL("other"), ErrInvalidState)
	})
}

func TestPrepareDecoderFailure(t *testing.T) {
	boom := errors.New("no native surface")
	p := New(DecoderFactoryFunc(func(interfaces.EventSink) (interfaces.Decoder, error) {
		return nil, boom
	}), nil)
	var got []Event
	p.Subscribe(func(ev Event) { got = append(got, ev) })
	require.NoError(t, p.SetSourceURL("u"))
	require.NoError(t, p.SetTileID("a"))

	err := p.Prepare(nil)
	assert.ErrorIs(t, err, ErrDecoder)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Error, p.ReadyState())
	require.NotEmpty(t, got)
	assert.Equal(t, EventError, got[len(got)-1].Kind)
}

func TestFullPrepareCycleWithAutoPlay(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	p := h.p

	assert.Equal(t, []EventKind{EventReadyStateChanged, EventReadyStateChanged, EventPlay}, h.kinds())
	assert.Equal(t, Preparing, h.events[0].ReadyState)
	assert.Equal(t, Ready, h.events[1].ReadyState)

	assert.Equal(t, []string{"SetTileID", "Prepare", "Play"}, h.dec.CommandNames())
	assert.True(t, p.IsPlaying())
	assert.Equal(t, time.Minute, p.Duration())
	assert.Equal(t, time.Duration(0), p.CurrentTime())
	w, hgt := p.VideoSize()
	assert.Equal(t, 3840, w)
	assert.Equal(t, 2160, hgt)
	mw, mh := p.MediaSize()
	assert.Equal(t, 3840, mw)
	assert.Equal(t, 2160, mh)
	assert.Len(t, p.QualityGroups(), 2)
	assert.Len(t, p.AudioTracks(), 2)
	assert.Equal(t, shader.RGB, p.ColorModel())
	require.Len(t, p.Textures(), 1)
	tw, th := p.Textures()[0].Size()
	assert.Equal(t, 3840, tw)
	assert.Equal(t, 2160, th)
	id, ok := p.CurrentTileID()
	assert.True(t, ok)
	assert.Equal(t, "front", id)
}

func TestReadyRequiresEverything(t *testing.T) {
	h := newHarness(t, nil)
	h.prepare(t, nil)
	h.dec.Emit(interfaces.PlaybackStateEvent(false, interfaces.StateReady))
	h.p.Tick()

	assert.Equal(t, Error, h.p.ReadyState())
	last := h.events[len(h.events)-1]
	assert.Equal(t, EventError, last.Kind)
	assert.ErrorIs(t, last.Err, ErrContractViolation)
	assert.Contains(t, last.Message, "quality group")
}

func TestReadyRequiresDuration(t *testing.T) {
	opts := simulate.DefaultOptions()
	opts.DurationMs = -1
	var dec *simulate.Decoder
	p := New(DecoderFactoryFunc(func(sink interfaces.EventSink) (interfaces.Decoder, error) {
		dec = simulate.NewDecoder(sink, opts)
		return dec, nil
	}), nil)
	require.NoError(t, p.SetSourceURL("u"))
	require.NoError(t, p.SetTileID(""))
	require.NoError(t, p.Prepare(nil))

	dec.Emit(simulate.ReadySequence(simulate.DefaultQualityGroups, simulate.DefaultAudioFormats)...)
	p.Tick()
	assert.Equal(t, Error, p.ReadyState())
}

func TestMalformedQualityGroupsIsFatal(t *testing.T) {
	h := newHarness(t, nil)
	h.prepare(t, nil)
	h.dec.Emit(interfaces.QualityGroupsEvent([]byte(`{"name":"not an array"}`)))
	h.p.Tick()
	assert.Equal(t, Error, h.p.ReadyState())
}

func TestReadyProcessedOncePerCycle(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	h.dec.Emit(simulate.StallSequence()...)
	h.dec.Emit(simulate.StallSequence()...)
	h.p.Tick()

	assert.Zero(t, h.count(EventReadyStateChanged))
	assert.Equal(t, 2, h.count(EventStall))
	assert.Equal(t, 2, h.count(EventStallRecover))
	assert.Equal(t, []string{"SetTileID", "Prepare", "Play"}, h.dec.CommandNames())
}

func TestDuplicateStatesAreIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	for i := 0; i < 3; i++ {
		h.dec.Emit(interfaces.PlaybackStateEvent(true, interfaces.StateBuffering))
	}
	h.p.Tick()
	assert.Equal(t, []EventKind{EventStall}, h.kinds())
}

func TestPlayPause(t *testing.T) {
	h := newHarness(t, pausedConfig())
	h.ready(t)
	p := h.p
	assert.False(t, p.IsPlaying())
	assert.Zero(t, h.count(EventPlay))

	require.NoError(t, p.Play())
	assert.True(t, p.IsPlaying())
	assert.ErrorIs(t, p.Play(), ErrInvalidState)

	require.NoError(t, p.Pause())
	assert.False(t, p.IsPlaying())
	assert.ErrorIs(t, p.Pause(), ErrInvalidState)

	assert.Equal(t, 1, h.count(EventPlay))
	assert.Equal(t, 1, h.count(EventPause))

	// The decoder confirming our own commands raises nothing.
	h.reset()
	h.dec.Emit(interfaces.PlaybackStateEvent(false, interfaces.StateReady))
	h.p.Tick()
	assert.Empty(t, h.events)
}

func TestDecoderInitiatedPause(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	h.dec.Emit(interfaces.PlaybackStateEvent(false, interfaces.StateReady))
	h.p.Tick()
	assert.Equal(t, []EventKind{EventPause}, h.kinds())
	assert.False(t, h.p.IsPlaying())
}

func TestPlayOutsideReady(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.p.Play(), ErrInvalidState)
	h.prepare(t, nil)
	assert.ErrorIs(t, h.p.Play(), ErrInvalidState)
	assert.ErrorIs(t, h.p.Seek(time.Second, false), ErrInvalidState)
}

func TestPlayDecoderError(t *testing.T) {
	h := newHarness(t, pausedConfig())
	h.ready(t)
	boom := errors.New("boom")
	h.dec.FailNext("Play", boom)

	err := h.p.Play()
	assert.ErrorIs(t, err, boom)
	assert.False(t, h.p.IsPlaying())
}

func TestSeekSuppressesStall(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	require.NoError(t, h.p.Seek(10*time.Second, false))
	h.dec.Emit(
		interfaces.PlaybackStateEvent(true, interfaces.StateBuffering),
		interfaces.PlaybackStateEvent(true, interfaces.StateReady),
	)
	h.p.Tick()

	assert.Zero(t, h.count(EventStall))
	assert.Zero(t, h.count(EventStallRecover))
	require.Equal(t, 1, h.count(EventSeeked))
	for _, ev := range h.events {
		if ev.Kind == EventSeeked {
			assert.Equal(t, 10*time.Second, ev.Time)
		}
	}
}

func TestSeekClamps(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)

	require.NoError(t, h.p.Seek(-5*time.Second, true))
	require.NoError(t, h.p.Seek(2*time.Minute, false))

	cmds := h.dec.Commands()
	require.GreaterOrEqual(t, len(cmds), 2)
	assert.Equal(t, []any{int64(0)}, cmds[len(cmds)-2].Args)
	assert.Equal(t, []any{int64(60000)}, cmds[len(cmds)-1].Args)
}

func TestPausedSeekWithoutBuffering(t *testing.T) {
	h := newHarness(t, pausedConfig())
	h.ready(t)
	h.reset()

	require.NoError(t, h.p.Seek(5*time.Second, false))
	h.dec.Emit(interfaces.PlaybackStateEvent(false, interfaces.StateReady))
	h.p.Tick()
	assert.Equal(t, []EventKind{EventSeeked}, h.kinds())
	assert.Equal(t, 5*time.Second, h.events[0].Time)
}

func TestStallWhilePausedIsNotReported(t *testing.T) {
	h := newHarness(t, pausedConfig())
	h.ready(t)
	h.reset()

	h.dec.Emit(
		interfaces.PlaybackStateEvent(false, interfaces.StateBuffering),
		interfaces.PlaybackStateEvent(false, interfaces.StateReady),
	)
	h.p.Tick()
	assert.Empty(t, h.events)
}

func TestPendingFormatChangesReplayInOrderBeforeAutoPlay(t *testing.T) {
	h := newHarness(t, nil)
	h.prepare(t, nil)
	h.reset()

	h.dec.Emit(
		interfaces.QualityGroupsEvent(simulate.DefaultQualityGroups),
		interfaces.AudioFormatsEvent(simulate.DefaultAudioFormats),
		interfaces.DownstreamFormatChangedEvent("front", "hd"),
		interfaces.AudioFormatChangedEvent("fr"),
		interfaces.DownstreamFormatChangedEvent("front", "4k"),
		interfaces.PlaybackStateEvent(false, interfaces.StateBuffering),
	)
	h.p.Tick()
	assert.Empty(t, h.events, "format changes wait for Ready")
	assert.Nil(t, h.p.CurrentQualityGroup())

	h.dec.Emit(interfaces.PlaybackStateEvent(false, interfaces.StateReady))
	h.p.Tick()

	assert.Equal(t, []EventKind{
		EventReadyStateChanged,
		EventQualityGroupChanged,
		EventAudioTrackChanged,
		EventQualityGroupChanged,
		EventPlay,
	}, h.kinds())
	assert.Equal(t, "hd", h.events[1].QualityGroup.Name)
	assert.Equal(t, "fr", h.events[2].AudioTrack.ID)
	assert.Equal(t, "4k", h.events[3].QualityGroup.Name)
	assert.Equal(t, "4k", h.p.CurrentQualityGroup().Name)
	assert.Equal(t, "fr", h.p.CurrentAudioTrack().ID)
}

func TestFormatChangesAfterReady(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	h.dec.Emit(
		interfaces.DownstreamFormatChangedEvent("front", "hd"),
		interfaces.DownstreamFormatChangedEvent("front", "hd"),
		interfaces.DownstreamFormatChangedEvent("front", "8k"),
		interfaces.AudioFormatChangedEvent("en"),
		interfaces.AudioFormatChangedEvent("xx"),
	)
	h.p.Tick()
	assert.Equal(t, []EventKind{EventQualityGroupChanged, EventAudioTrackChanged}, h.kinds())
}

func TestEndedWithoutLoop(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)

	h.dec.Emit(simulate.EndedSequence(true)...)
	h.p.Tick()
	assert.Equal(t, Ended, h.p.ReadyState())
	assert.False(t, h.p.IsPlaying())
	assert.ErrorIs(t, h.p.Play(), ErrInvalidState)
	assert.Equal(t, time.Minute, h.p.Duration(), "properties stay readable when ended")
}

func TestEndedWithLoop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loop = true
	h := newHarness(t, cfg)
	h.ready(t)
	h.reset()
	h.dec.SetPosition(60000)

	h.dec.Emit(simulate.EndedSequence(true)...)
	h.p.Tick()
	assert.Equal(t, Ready, h.p.ReadyState())
	assert.Equal(t, []EventKind{EventLoop}, h.kinds())
	assert.Equal(t, "SeekTo", h.dec.CommandNames()[len(h.dec.CommandNames())-1])

	h.dec.Emit(
		interfaces.PlaybackStateEvent(true, interfaces.StateBuffering),
		interfaces.PlaybackStateEvent(true, interfaces.StateReady),
	)
	h.p.Tick()
	assert.Equal(t, []EventKind{EventLoop, EventSeeked}, h.kinds())
	assert.Equal(t, time.Duration(0), h.events[1].Time)
}

func TestDecoderErrorMovesToError(t *testing.T) {
	for _, ev := range []interfaces.DecoderEvent{
		interfaces.PlayerErrorEvent("codec failure"),
		interfaces.LoadErrorEvent("404"),
	} {
		t.Run(ev.Kind.String(), func(t *testing.T) {
			h := newHarness(t, nil)
			h.ready(t)
			h.reset()

			h.dec.Emit(ev, interfaces.DroppedFramesEvent(3))
			h.p.Tick()

			assert.Equal(t, Error, h.p.ReadyState())
			assert.Equal(t, []EventKind{EventReadyStateChanged, EventError}, h.kinds(),
				"events after the error are ignored")
			assert.Equal(t, ev.Message, h.events[1].Message)
			assert.ErrorIs(t, h.events[1].Err, ErrDecoder)
			assert.False(t, h.p.IsPlaying())
		})
	}
}

func TestErrorDuringPreparing(t *testing.T) {
	h := newHarness(t, nil)
	h.prepare(t, nil)
	h.dec.Emit(interfaces.LoadErrorEvent("manifest unreachable"))
	h.p.Tick()
	assert.Equal(t, Error, h.p.ReadyState())
}

func TestResetFromAnyState(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	first := h.dec
	gen := h.p.Generation()
	h.reset()

	h.p.Reset()
	assert.Equal(t, Idle, h.p.ReadyState())
	assert.Equal(t, []EventKind{EventReadyStateChanged, EventReset}, h.kinds())
	assert.True(t, first.IsDisposed())
	assert.NotEqual(t, gen, h.p.Generation())
	assert.Empty(t, h.p.SourceURL())
	_, ok := h.p.RequestedTileID()
	assert.False(t, ok)
	assert.True(t, h.p.AutoPlay())

	h.p.Reset()
	assert.Equal(t, 2, h.count(EventReset), "reset while idle still raises Reset")
}

func TestLateCallbacksAfterResetAreIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.prepare(t, nil)
	stale := h.dec

	// Queued before the reset.
	stale.Emit(interfaces.QualityGroupsEvent(simulate.DefaultQualityGroups))
	h.p.Reset()
	assert.Zero(t, h.p.Pending())

	h.prepare(t, nil)
	require.Len(t, h.decoders, 2)

	// Delivered after the reset by the disposed decoder's native thread.
	stale.EmitForced(simulate.ReadySequence(simulate.DefaultQualityGroups, simulate.DefaultAudioFormats)...)
	assert.Zero(t, h.p.Pending())
	h.p.Tick()
	assert.Equal(t, Preparing, h.p.ReadyState())

	h.dec.Emit(simulate.ReadySequence(simulate.DefaultQualityGroups, simulate.DefaultAudioFormats)...)
	h.p.Tick()
	assert.Equal(t, Ready, h.p.ReadyState())
}

func TestResetByObserverDropsRestOfBatch(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.p.Subscribe(func(ev Event) {
		if ev.Kind == EventDroppedFrames {
			h.p.Reset()
		}
	})
	h.reset()

	h.dec.Emit(interfaces.DroppedFramesEvent(1), interfaces.DroppedFramesEvent(2))
	h.p.Tick()
	assert.Equal(t, 1, h.count(EventDroppedFrames))
	assert.Equal(t, Idle, h.p.ReadyState())
}

func TestScheduledTileSwitch(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	require.NoError(t, h.p.SetTileID("back"))
	id, _ := h.p.RequestedTileID()
	assert.Equal(t, "back", id)
	assert.Equal(t, "SetTileID", h.dec.CommandNames()[len(h.dec.CommandNames())-1])

	h.dec.Emit(interfaces.ScheduledTileEvent("back", 500000))
	h.p.Tick()
	current, _ := h.p.CurrentTileID()
	assert.Equal(t, "front", current, "switch waits for the scheduled frame")
	assert.Empty(t, h.events)

	h.dec.SetLastFrameTimestamp(500000)
	h.p.Tick()
	current, _ = h.p.CurrentTileID()
	assert.Equal(t, "back", current)
	assert.Equal(t, []EventKind{EventTileChanged}, h.kinds())
	assert.Equal(t, "back", h.events[0].TileID)

	h.p.Tick()
	assert.Len(t, h.events, 1)
}

func TestNoTileSwitchBeforeFirstFrame(t *testing.T) {
	h := newHarness(t, nil)
	h.prepare(t, nil)
	h.dec.Emit(
		interfaces.QualityGroupsEvent(simulate.DefaultQualityGroups),
		interfaces.PlaybackStateEvent(false, interfaces.StateReady),
		interfaces.ScheduledTileEvent("back", 0),
	)
	h.p.Tick()
	current, _ := h.p.CurrentTileID()
	assert.Equal(t, "front", current)

	h.dec.Emit(interfaces.FirstFrameRenderedEvent())
	h.p.Tick()
	current, _ = h.p.CurrentTileID()
	assert.Equal(t, "back", current)
}

func TestCurrentTimePollIsThrottled(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	h.dec.SetPosition(1000)
	h.p.Tick()
	assert.Empty(t, h.events)

	h.clock.advance(DefaultPollInterval)
	h.p.Tick()
	assert.Equal(t, []EventKind{EventCurrentTimeChanged}, h.kinds())
	assert.Equal(t, time.Second, h.events[0].Time)

	h.dec.SetPosition(1100)
	h.clock.advance(100 * time.Millisecond)
	h.p.Tick()
	assert.Len(t, h.events, 1)

	require.NoError(t, h.p.Pause())
	h.clock.advance(time.Second)
	h.p.Tick()
	assert.Equal(t, time.Second, h.p.CurrentTime(), "no polling while paused")
}

func TestIOAndDroppedFrames(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	h.dec.Emit(
		interfaces.BandwidthSampleEvent(250, 65536, 2000000),
		interfaces.DroppedFramesEvent(4),
	)
	h.p.Tick()
	require.Equal(t, []EventKind{EventIOCompleted, EventDroppedFrames}, h.kinds())
	assert.Equal(t, int64(65536), h.events[0].Bytes)
	assert.Equal(t, 250*time.Millisecond, h.events[0].Elapsed)
	assert.Equal(t, 4, h.events[1].Frames)
}

func TestYUVTexturesAndTargets(t *testing.T) {
	h := newHarness(t, pausedConfig())
	target := &fakeTarget{}
	require.NoError(t, h.p.SetTargets(target))
	h.prepare(t, interfaces.DecoderConfig{interfaces.PreferYUVBuffersKey: true})
	h.dec.Emit(simulate.ReadySequence(simulate.DefaultQualityGroups, simulate.DefaultAudioFormats)...)
	h.p.Tick()

	assert.Equal(t, shader.YUV, h.p.ColorModel())
	require.Len(t, h.p.Textures(), 2)
	yw, yh := h.p.Textures()[0].Size()
	uw, uh := h.p.Textures()[1].Size()
	assert.Equal(t, [4]int{3840, 2160, 1920, 1080}, [4]int{yw, yh, uw, uh})

	assert.Equal(t, 1, target.calls)
	assert.Equal(t, shader.YUV, target.model)
	assert.Len(t, target.textures, 2)

	late := &fakeTarget{}
	require.NoError(t, h.p.SetTargets(late))
	assert.Equal(t, 1, late.calls, "new targets receive the current textures")

	sel := shader.NewSelector()
	h.p.UpdateShader(sel)
	assert.Equal(t, shader.YUV, sel.ColorModel)
	assert.NoError(t, sel.Validate())
}

func TestQualityGroupSelection(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.p.SetQualityGroup(nil), ErrContractViolation)
	assert.ErrorIs(t, h.p.SetQualityGroup(&QualityGroup{Name: "hd"}), ErrInvalidState)
	h.ready(t)
	p := h.p

	require.NoError(t, p.NextQualityGroup(1))
	assert.NotContains(t, h.dec.CommandNames(), "SetQualityGroupName", "no current group yet")

	h.dec.Emit(interfaces.DownstreamFormatChangedEvent("front", "4k"))
	p.Tick()

	require.NoError(t, p.NextQualityGroup(1))
	last := h.dec.Commands()[len(h.dec.Commands())-1]
	assert.Equal(t, "SetQualityGroupName", last.Method)
	assert.Equal(t, []any{"hd"}, last.Args)
	assert.False(t, p.AutoQuality())

	require.NoError(t, p.NextQualityGroup(-1))
	last = h.dec.Commands()[len(h.dec.Commands())-1]
	assert.Equal(t, []any{"hd"}, last.Args, "wraps backwards")
	assert.Equal(t, "4k", p.CurrentQualityGroup().Name, "requests do not switch")

	require.NoError(t, p.SetAutoQuality(true))
	assert.True(t, p.AutoQuality())
	assert.Equal(t, "EnableAutoQuality", h.dec.CommandNames()[len(h.dec.CommandNames())-1])

	require.NoError(t, p.SetAutoQuality(false))
	assert.False(t, p.AutoQuality())
	last = h.dec.Commands()[len(h.dec.Commands())-1]
	assert.Equal(t, []any{"4k"}, last.Args, "disabling auto quality pins the current group")
}

func TestAudioTrackSelection(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.p.SetAudioTrack(nil), ErrContractViolation)
	h.ready(t)

	fr := h.p.AudioTrackWithID("fr")
	require.NotNil(t, fr)
	require.NoError(t, h.p.SetAudioTrack(fr))
	last := h.dec.Commands()[len(h.dec.Commands())-1]
	assert.Equal(t, "SetAudioTrackID", last.Method)
	assert.Equal(t, []any{"fr"}, last.Args)
	assert.Nil(t, h.p.AudioTrackWithID("de"))
	assert.Nil(t, h.p.QualityGroupWithName("8k"))
}

func TestSettersByState(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.p.SetAutoPlay(false))
	require.NoError(t, h.p.SetLoop(true))
	assert.ErrorIs(t, h.p.SetAutoQuality(false), ErrInvalidState)
	h.ready(t)

	require.NoError(t, h.p.SetLoop(false))
	require.NoError(t, h.p.SetAutoPlay(true))

	h.dec.Emit(interfaces.PlayerErrorEvent("x"))
	h.p.Tick()
	assert.ErrorIs(t, h.p.SetLoop(true), ErrInvalidState)
	assert.ErrorIs(t, h.p.SetTargets(), ErrInvalidState)
}

func TestAudioOrientation(t *testing.T) {
	q := AudioOrientation(mgl64.Vec3{10, 90, 5}, mgl64.QuatIdent())
	want := spatial.Euler(10, 270, 5)
	assert.True(t, q.ApproxEqualThreshold(want, 1e-9) || q.ApproxEqualThreshold(want.Scale(-1), 1e-9))

	h := newHarness(t, nil)
	assert.NoError(t, h.p.SetAudioOrientation(mgl64.Vec3{}, mgl64.QuatIdent()), "no decoder is a no-op")

	h.ready(t)
	require.NoError(t, h.p.SetAudioOrientation(mgl64.Vec3{0, 90, 0}, mgl64.QuatIdent()))
	got := h.dec.Orientation().Rotate(spatial.Forward)
	assert.InDelta(t, -1, got.X(), 1e-9)
	assert.InDelta(t, 0, got.Z(), 1e-9)
}

func TestUnsubscribe(t *testing.T) {
	h := newHarness(t, nil)
	calls := 0
	id := h.p.Subscribe(func(Event) { calls++ })
	h.p.Reset()
	h.p.Unsubscribe(id)
	h.p.Unsubscribe(999)
	h.p.Reset()
	assert.Equal(t, 1, calls)
}

func TestDeliverIsConcurrencySafe(t *testing.T) {
	h := newHarness(t, nil)
	h.ready(t)
	h.reset()

	const workers, perWorker = 8, 100
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				h.p.Deliver(interfaces.DroppedFramesEvent(1))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, workers*perWorker, h.p.Pending())

	h.p.Tick()
	assert.Equal(t, workers*perWorker, h.count(EventDroppedFrames))
	assert.Zero(t, h.p.Pending())
}
