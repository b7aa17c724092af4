// Package opf parses OPF projection descriptors.
//
// An OPF document is a small JSON file that tells the player where the media
// lives, how its frames are packed (stereo layout), what solid they are
// projected onto (format), how the stream is tiled and which UV transform
// corrects it:
//
//	{
//	  "version": 2,
//	  "url": "video/stream.mpd",
//	  "stereoMode": "stereoTopBottom",
//	  "format": "frustum",
//	  "formatInfo": {"radiusFront": 0.5, "radiusBack": 1, "zFront": 1, "zBack": -1},
//	  "tiles": [{"id": "front", "yawDegrees": 0}, {"id": "back", "yawDegrees": 180}]
//	}
//
// Parse validates everything up front and never returns a partially filled
// Projection. Failures are *FormatError values that wrap one of the sentinel
// errors in this package, so both errors.As and errors.Is work:
//
//	p, err := opf.Parse(data, "https://cdn.example.com/media/index.opf")
//	var fe *opf.FormatError
//	if errors.As(err, &fe) {
//	    log.Printf("bad %s: %s", fe.Field, fe.Reason)
//	}
//
// # URL Resolution
//
// Relative media URLs are joined to the directory of the base URL by plain
// string concatenation. Dot segments are not collapsed.
//
// # Defaults
//
// stereoMode defaults to mono, backgroundColor to fully transparent (leave
// the camera clear color alone), clip fields of view to their source values,
// and a document without tiles gets one untitled tile facing forward.
// Transforms are only read from version 2 documents onward.
package opf
