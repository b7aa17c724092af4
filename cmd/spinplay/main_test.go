package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/texture"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

const sphereDoc = `{
	"version": 1,
	"url": "stream.mpd",
	"format": "equirectangular"
}`

const vsDoc = `{
	"version": 2,
	"url": "stream.mpd",
	"format": "equirectangular",
	"transform": "vstransform",
	"transformInfo": {
		"equirectWidth": 64, "equirectHeight": 32,
		"squeezedWidth": 32, "squeezedHeight": 16,
		"identityWidth": 16, "identityHeight": 8,
		"smoothnessHorizontal": 0.8, "smoothnessVertical": 0.8
	}
}`

const uvMapDoc = `{
	"version": 2,
	"url": "stream.mpd",
	"format": "equirectangular",
	"transform": "uvMap",
	"transformInfo": {"uvMaps": [{"id": "m", "toFormatUrl": "to.png", "fromFormatUrl": "from.png"}]}
}`

const playlistDoc = `{
	"items": [
		{"title": "Intro", "url": "intro.opf"},
		{"title": "Canyon", "url": "canyon.opf"},
		{"title": "Outro", "url": "outro.opf"}
	]
}`

type result struct {
	code           int
	stdout, stderr string
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	all := append([]string{"-config", t.TempDir()}, args...)
	code := run(context.Background(), all, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeUVMap(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := texture.EncodeUVMap(w, h, func(x, y int) (uint16, uint16) {
		return uint16(x * 1000), uint16(y * 1000)
	})
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func webpSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := webp.Decode(f)
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestUsage(t *testing.T) {
	t.Run("no command", func(t *testing.T) {
		r := runCLI(t)
		assert.Equal(t, 2, r.code)
		assert.Contains(t, r.stderr, "Usage: spinplay")
		assert.Contains(t, r.stderr, "simulate")
	})

	t.Run("unknown command", func(t *testing.T) {
		r := runCLI(t, "bogus")
		assert.Equal(t, 2, r.code)
		assert.Contains(t, r.stderr, `unknown command "bogus"`)
	})

	t.Run("bad global flag", func(t *testing.T) {
		r := runCLI(t, "-nope")
		assert.Equal(t, 2, r.code)
	})

	t.Run("command help", func(t *testing.T) {
		r := runCLI(t, "inspect", "-h")
		assert.Equal(t, 0, r.code)
	})
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "index.opf", sphereDoc)

	r := runCLI(t, "inspect", path)
	require.Equal(t, 0, r.code, r.stderr)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &summary))
	assert.EqualValues(t, 1, summary["version"])
	assert.Equal(t, filepath.Join(dir, "stream.mpd"), summary["url"])
}

func TestInspectErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"missing argument", []string{"inspect"}},
		{"too many arguments", []string{"inspect", "a", "b"}},
		{"missing file", []string{"inspect", filepath.Join(dir, "nope.opf")}},
		{"malformed", []string{"inspect", writeFile(t, dir, "bad.opf", `{"version": 1}`)}},
		{"unsupported scheme", []string{"inspect", "ftp://example.com/index.opf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runCLI(t, tt.args...)
			assert.Equal(t, 1, r.code)
			assert.Contains(t, r.stderr, "Error: inspect:")
		})
	}
}

func TestExportVariSqueeze(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "index.opf", vsDoc)
	out := filepath.Join(dir, "out")

	r := runCLI(t, "export", "-out", out, "-scale", "2", src)
	require.Equal(t, 0, r.code, r.stderr)

	for _, name := range []string{"vs_x.webp", "vs_y.webp"} {
		_, h := webpSize(t, filepath.Join(out, name))
		assert.Equal(t, 2*rampHeight, h, name)
		assert.Contains(t, r.stdout, name)
	}
}

func TestExportUvMap(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "index.opf", uvMapDoc)
	writeUVMap(t, dir, "to.png", 4, 2)
	writeUVMap(t, dir, "from.png", 6, 3)
	out := filepath.Join(dir, "out")

	r := runCLI(t, "export", "-out", out, src)
	require.Equal(t, 0, r.code, r.stderr)

	w, h := webpSize(t, filepath.Join(out, "uv_m_to.webp"))
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	w, h = webpSize(t, filepath.Join(out, "uv_m_from.webp"))
	assert.Equal(t, 6, w)
	assert.Equal(t, 3, h)
}

func TestExportNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "index.opf", sphereDoc)
	out := filepath.Join(dir, "out")

	r := runCLI(t, "export", "-out", out, src)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "has no textures to export")
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "index.opf", uvMapDoc)

	t.Run("bad scale", func(t *testing.T) {
		r := runCLI(t, "export", "-scale", "0", src)
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "invalid scale")
	})

	t.Run("missing uv map", func(t *testing.T) {
		r := runCLI(t, "export", "-out", filepath.Join(dir, "out"), src)
		assert.Equal(t, 1, r.code)
	})
}

func TestScaleImage(t *testing.T) {
	img := rampImage(&shader.Ramp{Values: []float32{0, 0.5, 1}})
	assert.Same(t, img, scaleImage(img, 1))
	assert.Equal(t, 3, img.Bounds().Dx())

	wide := uvImage(&texture.UVMap{Width: 10, Height: 4, Data: make([]float32, 80)})
	assert.Equal(t, 5, scaleImage(wide, 0.5).Bounds().Dx())
	assert.Equal(t, 1, scaleImage(wide, 0.01).Bounds().Dy())
	assert.Equal(t, 30, scaleImage(wide, 3).Bounds().Dx())
}

func TestSimulate(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "index.opf", sphereDoc)

	r := runCLI(t, "simulate", "-ticks", "30", src)
	require.Equal(t, 0, r.code, r.stderr)

	assert.Contains(t, r.stdout, "projector  Prepared")
	assert.Contains(t, r.stdout, "eye")
	assert.Contains(t, r.stdout, "report")
	assert.NotContains(t, r.stdout, "CurrentTimeChanged")
}

func TestSimulateErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("parse error", func(t *testing.T) {
		src := writeFile(t, dir, "bad.opf", `{"version": 1}`)
		r := runCLI(t, "simulate", src)
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stdout, "projector  Error")
	})

	t.Run("wrong decoder", func(t *testing.T) {
		src := writeFile(t, dir, "index.opf", sphereDoc)
		t.Setenv("SPINPLAY_DECODER", "bridge")
		r := runCLI(t, "simulate", src)
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "needs the simulation decoder")
	})
}

func TestPlaylist(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "tour.json", playlistDoc)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"start", nil, []string{"selected   0: Intro"}},
		{"forward", []string{"-steps", "2"}, []string{"selected   1: Canyon", "selected   2: Outro"}},
		{"wrap back", []string{"-steps", "-1"}, []string{"selected   2: Outro"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append([]string{"playlist"}, tt.args...), src)
			r := runCLI(t, args...)
			require.Equal(t, 0, r.code, r.stderr)
			assert.Contains(t, r.stdout, "wrapAround: true")
			for _, w := range tt.want {
				assert.Contains(t, r.stdout, w)
			}
		})
	}

	t.Run("ended without playNext", func(t *testing.T) {
		r := runCLI(t, "playlist", "-steps", "1", "-ended", src)
		require.Equal(t, 0, r.code, r.stderr)
		assert.NotContains(t, r.stdout, "selected   1:")
	})
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "index.opf", sphereDoc)
	writeFile(t, dir, "spinplay.cfg.json", `{"source": "`+filepath.ToSlash(src)+`", "logFormat": "json"}`)
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", dir, "inspect"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `"version": 1`)
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spinplay.cfg.json", `{"logLevel": "loud"}`)
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", dir, "inspect"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error configuring logging")
}
