package texture

import "errors"

// Fetch errors.
var (
	// ErrUnsupportedScheme indicates a URL scheme with no registered fetcher.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")

	// ErrHTTPStatus indicates a non-2xx HTTP response.
	ErrHTTPStatus = errors.New("unexpected http status")
)

// Decode errors.
var (
	// ErrDecode indicates the bytes are not a supported image.
	ErrDecode = errors.New("cannot decode image")

	// ErrEmptyImage indicates an image with no texels.
	ErrEmptyImage = errors.New("image has no texels")
)
