package transform

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/opd-ai/spinplay/bezier"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vsInfo = `{
	"equirectWidth": 7680, "equirectHeight": 3840,
	"squeezedWidth": 3840, "squeezedHeight": 2160,
	"identityWidth": 1500, "identityHeight": 1500,
	"smoothnessHorizontal": 0.8, "smoothnessVertical": 0.8
}`

func TestIdentity(t *testing.T) {
	sel := shader.NewSelector()
	called := 0
	Identity{}.UpdateShader(context.Background(), sel, func(err error) {
		assert.NoError(t, err)
		called++
	})
	assert.Equal(t, 1, called)
	assert.False(t, sel.HasUVMaps())
	assert.False(t, sel.HasVSMaps())
	assert.Equal(t, KindIdentity, Identity{}.Kind())
}

func TestParseDispatch(t *testing.T) {
	tr, err := Parse(NameVariSqueeze, json.RawMessage(vsInfo), "")
	require.NoError(t, err)
	assert.Equal(t, KindVariSqueeze, tr.Kind())

	_, err = Parse("fisheye", nil, "")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestVariSqueezeUpdateShader(t *testing.T) {
	vs, err := ParseVariSqueeze(json.RawMessage(vsInfo))
	require.NoError(t, err)

	sel := shader.NewSelector()
	done := false
	vs.UpdateShader(context.Background(), sel, func(err error) {
		require.NoError(t, err)
		done = true
	})
	require.True(t, done, "VariSqueeze completes synchronously")
	require.Len(t, sel.VSMaps, 2)

	w, h := sel.VSMaps[0].Size()
	assert.Equal(t, 7680, w)
	assert.Equal(t, 1, h)
	w, _ = sel.VSMaps[1].Size()
	assert.Equal(t, 3840, w)

	assert.InDelta(t, (3840.0-750)/7680, sel.Left, 1e-12)
	assert.InDelta(t, (3840.0+750)/7680, sel.Right, 1e-12)
	assert.InDelta(t, (1920.0-750)/3840, sel.Top, 1e-12)
	assert.InDelta(t, (1920.0+750)/3840, sel.Bottom, 1e-12)
	assert.Equal(t, shader.MaterialVariSqueeze, shader.Select(sel))
}

func TestVariSqueezeIdentityRamp(t *testing.T) {
	vs, err := NewVariSqueeze(VariSqueezeParams{
		EquirectWidth: 64, EquirectHeight: 32,
		SqueezedWidth: 64, SqueezedHeight: 32,
		IdentityWidth: 64, IdentityHeight: 32,
		SmoothnessHorizontal: 0.3, SmoothnessVertical: 0.9,
	})
	require.NoError(t, err)
	assert.InDeltaSlice(t, bezier.LinearRamp(64, 64), vs.XRamp.Values, 1e-7)
	assert.InDeltaSlice(t, bezier.LinearRamp(32, 32), vs.YRamp.Values, 1e-7)
}

func TestParseVariSqueezeValidation(t *testing.T) {
	base := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(vsInfo), &base))

	tests := []struct {
		name   string
		mutate func(m map[string]any)
		want   error
	}{
		{"missing equirectWidth", func(m map[string]any) { delete(m, "equirectWidth") }, ErrMissingField},
		{"missing smoothness", func(m map[string]any) { delete(m, "smoothnessVertical") }, ErrMissingField},
		{"zero squeezed", func(m map[string]any) { m["squeezedHeight"] = 0 }, ErrOutOfRange},
		{"negative identity", func(m map[string]any) { m["identityWidth"] = -1 }, ErrOutOfRange},
		{"smoothness above one", func(m map[string]any) { m["smoothnessHorizontal"] = 1.5 }, ErrOutOfRange},
		{"smoothness below zero", func(m map[string]any) { m["smoothnessVertical"] = -0.1 }, ErrOutOfRange},
		{"identity wider than squeezed", func(m map[string]any) { m["identityWidth"] = 4000 }, ErrOutOfRange},
		{"squeezed taller than equirect", func(m map[string]any) { m["squeezedHeight"] = 4000 }, ErrOutOfRange},
		{"identity equal to squeezed allowed", func(m map[string]any) { m["identityHeight"] = 2160 }, nil},
		{"zero identity allowed", func(m map[string]any) { m["identityWidth"] = 0 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := map[string]any{}
			for k, v := range base {
				m[k] = v
			}
			tt.mutate(m)
			data, _ := json.Marshal(m)
			_, err := ParseVariSqueeze(data)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseVariSqueeze(json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = ParseVariSqueeze(nil)
	assert.ErrorIs(t, err, ErrMissingField)
}

const uvInfo = `{"uvMaps": [
	{"id": "a", "toFormatUrl": "maps/a_to.png", "fromFormatUrl": "maps/a_from.png", "discontinuityArea": [0,1,2,3,4,5]},
	{"id": "b", "toFormatUrl": "http://cdn/b_to.png", "fromFormatUrl": "http://cdn/b_from.png"}
]}`

func TestParseUvMap(t *testing.T) {
	u, err := ParseUvMap(json.RawMessage(uvInfo), "http://host/media/index.opf")
	require.NoError(t, err)
	require.Len(t, u.Maps, 2)
	assert.Equal(t, "http://host/media/maps/a_to.png", u.Maps[0].ToFormatURL)
	assert.Equal(t, "http://cdn/b_from.png", u.Maps[1].FromFormatURL)
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5}, u.Maps[0].DiscontinuityArea)

	assert.Equal(t, "b", u.NamedEntry("b").ID)
	assert.Equal(t, "a", u.NamedEntry("zzz").ID, "falls back to first entry")
}

func TestParseUvMapValidation(t *testing.T) {
	tests := []struct {
		name string
		info string
		want error
	}{
		{"empty list", `{"uvMaps": []}`, ErrMissingField},
		{"no to url", `{"uvMaps": [{"id":"a","fromFormatUrl":"f"}]}`, ErrMissingField},
		{"bad discontinuity length", `{"uvMaps": [{"id":"a","toFormatUrl":"t","fromFormatUrl":"f","discontinuityArea":[1,2,3,4]}]}`, ErrOutOfRange},
		{"not json", `nope`, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUvMap(json.RawMessage(tt.info), "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

type fakeSource struct {
	maps  map[string]*texture.UVMap
	order []string
}

func (f *fakeSource) Load(_ context.Context, url string, done func(*texture.UVMap, error)) {
	f.order = append(f.order, url)
	m, ok := f.maps[url]
	if !ok {
		done(nil, errors.New("404"))
		return
	}
	done(m, nil)
}

func TestUvMapUpdateShader(t *testing.T) {
	u, err := ParseUvMap(json.RawMessage(uvInfo), "")
	require.NoError(t, err)

	to := &texture.UVMap{Width: 2, Height: 2}
	from := &texture.UVMap{Width: 4, Height: 4}
	src := &fakeSource{maps: map[string]*texture.UVMap{
		"http://cdn/b_to.png":   to,
		"http://cdn/b_from.png": from,
	}}
	u.Source = src
	u.Active = "b"

	sel := shader.NewSelector()
	var got error = errors.New("not called")
	u.UpdateShader(context.Background(), sel, func(err error) { got = err })
	require.NoError(t, got)

	assert.Equal(t, []string{"http://cdn/b_to.png", "http://cdn/b_from.png"}, src.order)
	require.Len(t, sel.UVMaps, 2)
	assert.Same(t, to, sel.UVMaps[0])
	assert.Same(t, from, sel.UVMaps[1])
	assert.Equal(t, Discontinuities(), sel.Discontinuities)
	assert.Equal(t, shader.MaterialUvMapRGBDiscont, shader.Select(sel))
}

func TestUvMapUpdateShaderErrors(t *testing.T) {
	u, err := ParseUvMap(json.RawMessage(uvInfo), "")
	require.NoError(t, err)

	var got error
	u.UpdateShader(context.Background(), shader.NewSelector(), func(err error) { got = err })
	assert.ErrorIs(t, got, ErrNoLoader)

	u.Source = &fakeSource{}
	sel := shader.NewSelector()
	u.UpdateShader(context.Background(), sel, func(err error) { got = err })
	assert.Error(t, got)
	assert.False(t, sel.HasUVMaps())
}
