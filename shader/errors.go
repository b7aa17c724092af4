package shader

import "errors"

// Material errors.
var (
	// ErrUnknownMaterial indicates a material kind with no template.
	ErrUnknownMaterial = errors.New("no template for material kind")

	// ErrMissingSource indicates a selector without the source textures its
	// color model needs.
	ErrMissingSource = errors.New("selector is missing source textures")
)
