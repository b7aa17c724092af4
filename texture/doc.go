// Package texture fetches and decodes the remap textures used by UV-map
// video transforms.
//
// # UV Map Encoding
//
// A UV map is an ordinary 8-bit RGBA image carrying two 16-bit channels per
// texel. Within each row the values are delta coded left to right: the
// running u starts at zero, and each texel adds G*256+B to it modulo 65536.
// v does the same with A*256+R. The decoded value divided by 65535 is the
// normalized texture coordinate. Rows are independent.
//
// PNG, BMP, TIFF, WebP and TGA sources are accepted.
//
// # Loading
//
// Loader caches decoded maps by URL. Concurrent requests for a URL share one
// in-flight fetch, and identical bytes served under different URLs are
// decoded once. Load delivers its result through a dispatch.Queue so the
// completion runs on the tick thread, never on the loading goroutine:
//
//	loader := texture.NewLoader(texture.DefaultFetcher(), queue, nil)
//	loader.Load(ctx, url, func(m *texture.UVMap, err error) {
//	    ...
//	})
//
// Bind shares one cache between owners of different queues.
package texture
