package playlist

import "fmt"

// Item is one entry of a playlist.
type Item struct {
	Title    string
	URL      string
	AutoPlay bool
	Loop     bool
}

// NewItem returns an item with the default AutoPlay and Loop settings.
func NewItem(title, url string) *Item {
	return &Item{Title: title, URL: url, AutoPlay: true}
}

// String renders the item for logs.
func (i *Item) String() string {
	return fmt.Sprintf("title: %s, url: %s, autoPlay: %t, loop: %t", i.Title, i.URL, i.AutoPlay, i.Loop)
}
