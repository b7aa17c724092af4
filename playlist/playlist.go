package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opd-ai/spinplay/limits"
	"github.com/opd-ai/spinplay/texture"
	"github.com/sirupsen/logrus"
)

// Playlist is an ordered list of items with a selection cursor. It is not
// safe for concurrent use.
type Playlist struct {
	Items      []*Item
	WrapAround bool
	PlayNext   bool

	selected  *Item
	observers []subscription
	nextSubID int
}

// Observer is told about the newly selected item.
type Observer func(*Item)

type subscription struct {
	id int
	fn Observer
}

type itemJSON struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	AutoPlay *bool  `json:"autoPlay"`
	Loop     *bool  `json:"loop"`
}

type playlistJSON struct {
	WrapAround *bool      `json:"wrapAround"`
	PlayNext   *bool      `json:"playNext"`
	Items      []itemJSON `json:"items"`
}

// New returns an empty playlist that wraps around.
func New(items ...*Item) *Playlist {
	return &Playlist{Items: items, WrapAround: true}
}

// Parse builds a playlist from data. Relative item URLs are resolved
// against baseURL when it is set.
func Parse(data []byte, baseURL string) (*Playlist, error) {
	if err := limits.ValidatePlaylistDocument(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	var doc playlistJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	p := New()
	if doc.WrapAround != nil {
		p.WrapAround = *doc.WrapAround
	}
	if doc.PlayNext != nil {
		p.PlayNext = *doc.PlayNext
	}
	for i, raw := range doc.Items {
		if strings.TrimSpace(raw.URL) == "" {
			return nil, fmt.Errorf("%w: item %d", ErrMissingURL, i)
		}
		item := NewItem(raw.Title, texture.ResolveURL(baseURL, raw.URL))
		if raw.AutoPlay != nil {
			item.AutoPlay = *raw.AutoPlay
		}
		if raw.Loop != nil {
			item.Loop = *raw.Loop
		}
		p.Items = append(p.Items, item)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "playlist.Parse",
		"base_url":    baseURL,
		"items":       len(p.Items),
		"wrap_around": p.WrapAround,
		"play_next":   p.PlayNext,
	}).Debug("Parsed playlist")
	return p, nil
}

// Fetch retrieves and parses the playlist at url.
func Fetch(ctx context.Context, fetcher texture.Fetcher, url string) (*Playlist, error) {
	data, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(data, url)
}

// Selected returns the selected item, or nil before Start.
func (p *Playlist) Selected() *Item { return p.selected }

// Index returns the position of item, or -1.
func (p *Playlist) Index(item *Item) int {
	for i, it := range p.Items {
		if it == item {
			return i
		}
	}
	return -1
}

// Start selects the first item.
func (p *Playlist) Start() {
	if len(p.Items) > 0 {
		p.SelectItem(p.Items[0])
	}
}

// SelectItem selects item and reports whether it belongs to the playlist.
func (p *Playlist) SelectItem(item *Item) bool {
	if p.Index(item) < 0 {
		return false
	}
	p.setSelected(item)
	return true
}

// Previous selects the item before the current one.
func (p *Playlist) Previous() { p.move(-1) }

// Next selects the item after the current one.
func (p *Playlist) Next() { p.move(1) }

// ItemEnded advances to the next item when PlayNext is set.
func (p *Playlist) ItemEnded() {
	if p.PlayNext {
		p.Next()
	}
}

func (p *Playlist) move(direction int) {
	index := p.Index(p.selected)
	if index < 0 {
		return
	}
	index += direction
	switch {
	case index < 0:
		index = 0
		if p.WrapAround {
			index = len(p.Items) - 1
		}
	case index >= len(p.Items):
		index = len(p.Items) - 1
		if p.WrapAround {
			index = 0
		}
	}
	p.setSelected(p.Items[index])
}

func (p *Playlist) setSelected(item *Item) {
	if item == p.selected {
		return
	}
	p.selected = item

	logrus.WithFields(logrus.Fields{
		"function": "Playlist.setSelected",
		"item":     item.String(),
	}).Info("Selected playlist item")

	for _, s := range append([]subscription(nil), p.observers...) {
		s.fn(item)
	}
}

// Subscribe registers fn and returns an id for Unsubscribe.
func (p *Playlist) Subscribe(fn Observer) int {
	p.nextSubID++
	p.observers = append(p.observers, subscription{id: p.nextSubID, fn: fn})
	return p.nextSubID
}

// Unsubscribe removes an observer. Unknown ids are ignored.
func (p *Playlist) Unsubscribe(id int) {
	for i, s := range p.observers {
		if s.id == id {
			p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
			return
		}
	}
}

// String renders the playlist for logs.
func (p *Playlist) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "playlist\n  wrapAround: %t, playNext: %t", p.WrapAround, p.PlayNext)
	for _, it := range p.Items {
		fmt.Fprintf(&b, "\n    %s", it)
	}
	b.WriteString("\n")
	return b.String()
}
