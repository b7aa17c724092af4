package server

import "errors"

var (
	// ErrNoRoot indicates a server built without a content file system.
	ErrNoRoot = errors.New("server requires a root file system")

	// ErrBadPath indicates a request path that escapes the root or is empty.
	ErrBadPath = errors.New("invalid asset path")
)
