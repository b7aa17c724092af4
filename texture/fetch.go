package texture

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/opd-ai/spinplay/limits"
	"github.com/sirupsen/logrus"
)

// DefaultFetchTimeout bounds one HTTP fetch.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves the raw bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher fetches http and https URLs.
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int
}

// NewHTTPFetcher creates an HTTP fetcher with the given timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: limits.MaxTextureBytes,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s for %s", ErrHTTPStatus, resp.Status, rawURL)
	}

	data, err := limits.ReadAll(resp.Body, maxBytes(f.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "HTTPFetcher.Fetch",
		"url":      rawURL,
		"bytes":    len(data),
		"elapsed":  time.Since(start),
	}).Debug("Fetched")

	return data, nil
}

// FileFetcher reads file:// URLs and plain paths. When FS is set, paths are
// resolved inside it.
type FileFetcher struct {
	FS       fs.FS
	MaxBytes int
}

// Fetch implements Fetcher.
func (f *FileFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(rawURL, "file://")

	var (
		file fs.File
		err  error
	)
	if f.FS != nil {
		file, err = f.FS.Open(strings.TrimPrefix(path, "/"))
	} else {
		file, err = os.Open(path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return limits.ReadAll(file, maxBytes(f.MaxBytes))
}

// MultiFetcher dispatches by URL scheme. An empty scheme is looked up as
// "file".
type MultiFetcher struct {
	Schemes map[string]Fetcher
}

// DefaultFetcher handles http, https and file URLs.
func DefaultFetcher() *MultiFetcher {
	h := NewHTTPFetcher(DefaultFetchTimeout)
	return &MultiFetcher{Schemes: map[string]Fetcher{
		"http":  h,
		"https": h,
		"file":  &FileFetcher{},
	}}
}

// Fetch implements Fetcher.
func (m *MultiFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	scheme := "file"
	if u, err := url.Parse(rawURL); err == nil && len(u.Scheme) > 1 {
		scheme = strings.ToLower(u.Scheme)
	}
	f, ok := m.Schemes[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return f.Fetch(ctx, rawURL)
}

func maxBytes(n int) int {
	if n <= 0 {
		return limits.MaxTextureBytes
	}
	return n
}

// ResolveURL resolves ref against the directory of base by plain string
// concatenation. Absolute refs and refs without a base pass through. This is
// not RFC 3986 resolution: dot segments and queries in base are not handled.
func ResolveURL(base, ref string) string {
	if ref == "" || base == "" {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	slash := strings.LastIndex(base, "/")
	if slash < 0 {
		return ref
	}
	return base[:slash] + "/" + ref
}
