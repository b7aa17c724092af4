package playlist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
	"playNext": true,
	"items": [
		{"title": "Intro", "url": "intro/index.opf"},
		{"title": "Canyon", "url": "https://cdn.example.com/canyon/index.opf", "autoPlay": false, "loop": true},
		{"url": "outro.opf"}
	]
}`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sample), "https://media.example.com/lists/tour.json")
	require.NoError(t, err)

	assert.True(t, p.WrapAround)
	assert.True(t, p.PlayNext)
	require.Len(t, p.Items, 3)
	assert.Equal(t, &Item{Title: "Intro", URL: "https://media.example.com/lists/intro/index.opf", AutoPlay: true}, p.Items[0])
	assert.Equal(t, &Item{Title: "Canyon", URL: "https://cdn.example.com/canyon/index.opf", Loop: true}, p.Items[1])
	assert.Equal(t, "", p.Items[2].Title)
	assert.Nil(t, p.Selected())
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse([]byte(`{"wrapAround": false}`), "")
	require.NoError(t, err)
	assert.False(t, p.WrapAround)
	assert.False(t, p.PlayNext)
	assert.Empty(t, p.Items)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty", ``, ErrMalformed},
		{"not json", `{`, ErrMalformed},
		{"wrong shape", `{"items": {}}`, ErrMalformed},
		{"missing url", `{"items": [{"title": "x"}]}`, ErrMissingURL},
		{"blank url", `{"items": [{"url": "  "}]}`, ErrMissingURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNavigation(t *testing.T) {
	a, b, c := NewItem("a", "a.opf"), NewItem("b", "b.opf"), NewItem("c", "c.opf")

	tests := []struct {
		name   string
		wrap   bool
		steps  func(p *Playlist)
		expect *Item
	}{
		{"next", true, func(p *Playlist) { p.Next() }, b},
		{"next wraps", true, func(p *Playlist) { p.Next(); p.Next(); p.Next() }, a},
		{"next clamps", false, func(p *Playlist) { p.Next(); p.Next(); p.Next() }, c},
		{"previous wraps", true, func(p *Playlist) { p.Previous() }, c},
		{"previous clamps", false, func(p *Playlist) { p.Previous() }, a},
		{"select", true, func(p *Playlist) { p.SelectItem(c); p.Previous() }, b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(a, b, c)
			p.WrapAround = tt.wrap
			p.Start()
			require.Same(t, a, p.Selected())
			tt.steps(p)
			assert.Same(t, tt.expect, p.Selected())
		})
	}
}

func TestNavigationBeforeStart(t *testing.T) {
	p := New(NewItem("a", "a.opf"))
	p.Next()
	p.Previous()
	assert.Nil(t, p.Selected())

	New().Start()
}

func TestSelectUnknownItem(t *testing.T) {
	p := New(NewItem("a", "a.opf"))
	assert.False(t, p.SelectItem(NewItem("a", "a.opf")))
	assert.Nil(t, p.Selected())
}

func TestItemEnded(t *testing.T) {
	a, b := NewItem("a", "a.opf"), NewItem("b", "b.opf")
	p := New(a, b)
	p.Start()

	p.ItemEnded()
	assert.Same(t, a, p.Selected())

	p.PlayNext = true
	p.ItemEnded()
	assert.Same(t, b, p.Selected())
}

func TestObservers(t *testing.T) {
	a, b := NewItem("a", "a.opf"), NewItem("b", "b.opf")
	p := New(a, b)
	var seen []*Item
	id := p.Subscribe(func(it *Item) { seen = append(seen, it) })

	p.Start()
	p.SelectItem(a)
	p.Next()
	assert.Equal(t, []*Item{a, b}, seen, "reselecting the same item is silent")

	p.Unsubscribe(id)
	p.Unsubscribe(id + 1)
	p.Next()
	assert.Len(t, seen, 2)
}

type staticFetcher map[string]string

func (f staticFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s, ok := f[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(s), nil
}

func TestFetch(t *testing.T) {
	f := staticFetcher{"http://h/list.json": sample}
	p, err := Fetch(context.Background(), f, "http://h/list.json")
	require.NoError(t, err)
	assert.Equal(t, "http://h/intro/index.opf", p.Items[0].URL)

	_, err = Fetch(context.Background(), f, "http://h/missing.json")
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	p := New(NewItem("a", "a.opf"))
	s := p.String()
	assert.True(t, strings.HasPrefix(s, "playlist\n  wrapAround: true, playNext: false"))
	assert.Contains(t, s, "title: a, url: a.opf, autoPlay: true, loop: false")
}
