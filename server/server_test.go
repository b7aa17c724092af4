package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/opd-ai/spinplay/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexDoc = `{
	"version": 1,
	"url": "stream.mpd",
	"stereoMode": "stereoTopBottom",
	"format": "equirectangular",
	"tiles": [{"id": "a"}, {"id": "b", "yawDegrees": 180}]
}`

const listDoc = `{"wrapAround": false, "items": [{"title": "One", "url": "title/index.opf"}]}`

func testRoot(t *testing.T) fstest.MapFS {
	t.Helper()
	var buf bytes.Buffer
	img := texture.EncodeUVMap(4, 2, func(x, y int) (uint16, uint16) {
		return uint16(x * 1000), uint16(y * 1000)
	})
	require.NoError(t, png.Encode(&buf, img))

	return fstest.MapFS{
		"title/index.opf": {Data: []byte(indexDoc)},
		"title/bad.opf":   {Data: []byte(`{"version": 1}`)},
		"list.json":       {Data: []byte(listDoc)},
		"maps/to.png":     {Data: buf.Bytes()},
		"empty.opf":       {Data: []byte{}},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(testRoot(t), nil)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresRoot(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestDocument(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"found", "/opf/title/index.opf", http.StatusOK},
		{"missing", "/opf/title/none.opf", http.StatusNotFound},
		{"empty", "/opf/empty.opf", http.StatusUnprocessableEntity},
		{"no path", "/opf/", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
	assert.Equal(t, indexDoc, get(t, s, "/opf/title/index.opf").Body.String())
}

func TestInspect(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/inspect/title/index.opf")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		URL        string            `json:"url"`
		StereoMode string            `json:"stereoMode"`
		Format     string            `json:"format"`
		Tiles      []json.RawMessage `json:"tiles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "http://example.com/files/title/stream.mpd", summary.URL)
	assert.Equal(t, "stereoTopBottom", summary.StereoMode)
	assert.Len(t, summary.Tiles, 2)

	rec = get(t, s, "/inspect/title/bad.opf")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "url")
}

func TestPlaylist(t *testing.T) {
	rec := get(t, newTestServer(t), "/playlist/list.json")
	require.Equal(t, http.StatusOK, rec.Code)

	var out playlistJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.WrapAround)
	require.Len(t, out.Items, 1)
	assert.Equal(t, playlistItemJSON{Title: "One", URL: "http://example.com/files/title/index.opf", AutoPlay: true}, out.Items[0])
}

func TestFiles(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/files/maps/to.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, get(t, s, "/files/maps/none.png").Code)
}

func TestUVMapAndStats(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/uvmap/maps/to.png")
	require.Equal(t, http.StatusOK, rec.Code)
	var info uvMapJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, 4, info.Width)
	assert.Equal(t, 2, info.Height)
	assert.Len(t, info.Digest, 64)

	require.Equal(t, http.StatusOK, get(t, s, "/uvmap/maps/to.png").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/uvmap/maps/none.png").Code)

	rec = get(t, s, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats texture.LoaderStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Entries)
}

func TestListenAndServeStopsWithContext(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
