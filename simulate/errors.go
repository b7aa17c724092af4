package simulate

import "errors"

// ErrDisposed is returned by commands issued after Dispose.
var ErrDisposed = errors.New("scripted decoder disposed")
