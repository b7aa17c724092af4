// Package playlist parses playlist documents and tracks which item is
// selected.
//
// A playlist is a JSON object:
//
//	{
//	    "wrapAround": true,
//	    "playNext": false,
//	    "items": [
//	        {"title": "Intro", "url": "intro/index.opf", "autoPlay": true, "loop": false}
//	    ]
//	}
//
// Relative item URLs resolve against the directory of the playlist's own
// URL. wrapAround defaults to true, playNext to false, and each item's
// autoPlay to true and loop to false.
//
// # Navigation
//
// [Playlist.Start] selects the first item. Next and Previous step through
// the items, wrapping at either end when WrapAround is set and clamping
// otherwise. [Playlist.ItemEnded] advances only when PlayNext is set.
// Observers are told whenever the selection changes.
package playlist
