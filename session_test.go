package spinplay

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/projector"
	"github.com/opd-ai/spinplay/simulate"
	"github.com/opd-ai/spinplay/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionDoc = `{
	"version": 1,
	"url": "http://cdn.example.com/title/stream.mpd",
	"backgroundColor": "#000000",
	"format": "equirectangular"
}`

func scriptedFactory() player.DecoderFactory {
	opts := simulate.DefaultOptions()
	opts.AutoRespond = true
	return player.DecoderFactoryFunc(func(sink interfaces.EventSink) (interfaces.Decoder, error) {
		return simulate.NewDecoder(sink, opts), nil
	})
}

func newTestSession(t *testing.T) (*Session, *[]projector.Event) {
	t.Helper()
	s, err := NewSession(context.Background(), &Options{Factory: scriptedFactory()})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	var events []projector.Event
	s.Projector().Subscribe(func(ev projector.Event) { events = append(events, ev) })
	return s, &events
}

type mockTimeProvider struct {
	now time.Time
}

func (m *mockTimeProvider) Now() time.Time                  { return m.now }
func (m *mockTimeProvider) Since(t time.Time) time.Duration { return m.now.Sub(t) }
func (m *mockTimeProvider) advance(d time.Duration)         { m.now = m.now.Add(d) }

func TestSessionPlaysDocument(t *testing.T) {
	s, events := newTestSession(t)
	clock := &mockTimeProvider{now: time.Unix(1700000000, 0)}
	s.Player().SetTimeProvider(clock)

	require.NoError(t, s.OpenText(context.Background(), sessionDoc))
	s.Tick(0)

	require.Len(t, *events, 1)
	assert.Equal(t, projector.EventPrepared, (*events)[0].Kind)
	assert.Equal(t, player.Ready, s.Player().ReadyState())
	assert.True(t, s.Player().IsPlaying())
	assert.Len(t, s.Projector().Eyes(), 2)

	hc := s.camera.(*HeadlessCamera)
	assert.True(t, hc.Cleared)
	assert.Equal(t, color.NRGBA{A: 255}, hc.ClearColor)

	clock.advance(time.Second)
	s.Tick(time.Second)
	assert.Equal(t, time.Second, s.Player().CurrentTime())
}

func TestSessionStopAndReopen(t *testing.T) {
	s, events := newTestSession(t)
	require.NoError(t, s.OpenText(context.Background(), sessionDoc))
	s.Tick(0)

	s.Stop()
	assert.Equal(t, player.Idle, s.Player().ReadyState())
	assert.Nil(t, s.Projector().Eyes())

	require.NoError(t, s.OpenText(context.Background(), sessionDoc))
	s.Tick(0)
	assert.Len(t, *events, 2)
	assert.Len(t, s.Projector().Eyes(), 2)
}

func TestSessionOpenWhilePlaying(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.OpenText(context.Background(), sessionDoc))
	s.Tick(0)

	err := s.OpenText(context.Background(), sessionDoc)
	assert.ErrorIs(t, err, projector.ErrPlayerNotIdle)
}

func TestSessionClose(t *testing.T) {
	s, err := NewSession(context.Background(), &Options{Factory: scriptedFactory()})
	require.NoError(t, err)

	s.Close()
	s.Close()
	s.Tick(time.Second)
	s.Stop()
	assert.ErrorIs(t, s.Open(context.Background(), "http://h/index.opf"), ErrClosed)
	assert.ErrorIs(t, s.OpenText(context.Background(), sessionDoc), ErrClosed)
}

func TestSessionPeriodicReports(t *testing.T) {
	reports := make(chan struct{}, 1)
	s, err := NewSession(context.Background(), &Options{
		Factory:        scriptedFactory(),
		ReportInterval: 5 * time.Millisecond,
		OnReport: func(r stats.Report) {
			select {
			case reports <- struct{}{}:
			default:
			}
		},
	})
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.Monitor().IsRunning())
	select {
	case <-reports:
	case <-time.After(2 * time.Second):
		t.Fatal("no report")
	}
}

func TestHeadlessCamera(t *testing.T) {
	c := &HeadlessCamera{LeftLayer: 3, RightLayer: 4}
	l, r := c.EyeLayers()
	assert.Equal(t, 3, l)
	assert.Equal(t, 4, r)
	assert.False(t, c.Cleared)
	c.SetClearColor(color.NRGBA{R: 1, A: 255})
	assert.True(t, c.Cleared)
}
