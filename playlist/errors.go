package playlist

import "errors"

// Parse errors.
var (
	// ErrMalformed indicates the payload is not a JSON playlist.
	ErrMalformed = errors.New("malformed playlist")

	// ErrMissingURL indicates an item without a url.
	ErrMissingURL = errors.New("playlist item url is required")
)
