package texture

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/opd-ai/spinplay/dispatch"
	"github.com/opd-ai/spinplay/limits"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// LoaderConfig tunes a Loader.
type LoaderConfig struct {
	// MaxEntries bounds the URL cache. Zero means unbounded.
	MaxEntries int
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{MaxEntries: 64}
}

// LoaderStats counts loader activity.
type LoaderStats struct {
	Hits       int64
	Fetches    int64
	Decodes    int64
	Coalesced  int64
	DigestHits int64
	Entries    int
}

// Loader fetches, decodes and caches UV maps.
type Loader struct {
	fetcher Fetcher
	queue   *dispatch.Queue
	config  *LoaderConfig
	group   singleflight.Group

	mu       sync.Mutex
	byURL    map[string]*UVMap
	byDigest map[[32]byte]*UVMap
	order    []string

	hits, fetches, decodes, coalesced, digestHits atomic.Int64
}

// NewLoader creates a loader. Load posts its completions to queue. A loader
// without a queue still serves Get, and Bind gives it one per caller.
func NewLoader(fetcher Fetcher, queue *dispatch.Queue, config *LoaderConfig) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{
		fetcher:  fetcher,
		queue:    queue,
		config:   config,
		byURL:    make(map[string]*UVMap),
		byDigest: make(map[[32]byte]*UVMap),
	}
}

// Get returns the decoded map for url, fetching it at most once no matter
// how many callers ask concurrently.
func (l *Loader) Get(ctx context.Context, url string) (*UVMap, error) {
	if m := l.cached(url); m != nil {
		l.hits.Add(1)
		return m, nil
	}

	v, err, shared := l.group.Do(url, func() (interface{}, error) {
		if m := l.cached(url); m != nil {
			return m, nil
		}
		return l.fetchAndDecode(ctx, url)
	})
	if shared {
		l.coalesced.Add(1)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Loader.Get",
			"url":      url,
			"error":    err.Error(),
		}).Error("Failed to load uv map")
		return nil, err
	}
	return v.(*UVMap), nil
}

// Load fetches url in the background and posts done to the loader's queue.
func (l *Loader) Load(ctx context.Context, url string, done func(*UVMap, error)) {
	l.LoadOn(ctx, l.queue, url, done)
}

// LoadOn fetches url in the background and posts done to queue. done never
// runs on the loading goroutine: without a queue, or once it is closed, the
// result is dropped.
func (l *Loader) LoadOn(ctx context.Context, queue *dispatch.Queue, url string, done func(*UVMap, error)) {
	go func() {
		m, err := l.Get(ctx, url)
		if queue != nil && queue.Post(func() { done(m, err) }) {
			return
		}
		logrus.WithFields(logrus.Fields{
			"function":  "Loader.LoadOn",
			"url":       url,
			"has_queue": queue != nil,
		}).Warn("Dropping uv map completion")
	}()
}

// Bind returns a view of the loader that shares its cache but delivers Load
// completions to queue.
func (l *Loader) Bind(queue *dispatch.Queue) *BoundLoader {
	return &BoundLoader{loader: l, queue: queue}
}

// BoundLoader is a Loader delivering to a fixed queue.
type BoundLoader struct {
	loader *Loader
	queue  *dispatch.Queue
}

// Load fetches url in the background and posts done to the bound queue.
func (b *BoundLoader) Load(ctx context.Context, url string, done func(*UVMap, error)) {
	b.loader.LoadOn(ctx, b.queue, url, done)
}

// Stats returns a snapshot of the loader counters.
func (l *Loader) Stats() LoaderStats {
	l.mu.Lock()
	entries := len(l.byURL)
	l.mu.Unlock()
	return LoaderStats{
		Hits:       l.hits.Load(),
		Fetches:    l.fetches.Load(),
		Decodes:    l.decodes.Load(),
		Coalesced:  l.coalesced.Load(),
		DigestHits: l.digestHits.Load(),
		Entries:    entries,
	}
}

// Purge empties the cache.
func (l *Loader) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byURL = make(map[string]*UVMap)
	l.byDigest = make(map[[32]byte]*UVMap)
	l.order = nil
}

func (l *Loader) cached(url string) *UVMap {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byURL[url]
}

func (l *Loader) fetchAndDecode(ctx context.Context, url string) (*UVMap, error) {
	l.fetches.Add(1)
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := limits.ValidateTexture(data); err != nil {
		return nil, err
	}

	digest := blake2b.Sum256(data)
	l.mu.Lock()
	m, ok := l.byDigest[digest]
	l.mu.Unlock()

	if ok {
		l.digestHits.Add(1)
	} else {
		img, err := DecodeImage(data, url)
		if err != nil {
			return nil, err
		}
		m, err = DecodeUVMap(img)
		if err != nil {
			return nil, err
		}
		m.Digest = digest
		l.decodes.Add(1)
	}

	l.store(url, m)

	logrus.WithFields(logrus.Fields{
		"function":  "Loader.fetchAndDecode",
		"url":       url,
		"width":     m.Width,
		"height":    m.Height,
		"deduped":   ok,
		"cacheSize": l.Stats().Entries,
	}).Info("Loaded uv map")

	return m, nil
}

func (l *Loader) store(url string, m *UVMap) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.byURL[url] = m
	l.byDigest[m.Digest] = m
	l.order = append(l.order, url)

	for l.config.MaxEntries > 0 && len(l.order) > l.config.MaxEntries {
		evict := l.order[0]
		l.order = l.order[1:]
		if old, ok := l.byURL[evict]; ok {
			delete(l.byURL, evict)
			if !l.digestInUse(old.Digest) {
				delete(l.byDigest, old.Digest)
			}
		}
	}
}

func (l *Loader) digestInUse(d [32]byte) bool {
	for _, m := range l.byURL {
		if m.Digest == d {
			return true
		}
	}
	return false
}
