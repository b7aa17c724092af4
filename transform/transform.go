package transform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opd-ai/spinplay/shader"
)

// Kind identifies a transform variant.
type Kind int

const (
	// KindIdentity leaves texture coordinates untouched.
	KindIdentity Kind = iota
	// KindUvMap remaps through downloaded UV textures.
	KindUvMap
	// KindVariSqueeze undoes a non-uniform squeeze with computed ramps.
	KindVariSqueeze
)

// Document names of the transforms.
const (
	NameUvMap       = "uvMap"
	NameVariSqueeze = "vstransform"
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindUvMap:
		return NameUvMap
	case KindVariSqueeze:
		return NameVariSqueeze
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// VideoTransform fills shader parameters for one projection.
type VideoTransform interface {
	Kind() Kind
	// UpdateShader fills sel and calls done exactly once. A non-nil error
	// means sel is unusable.
	UpdateShader(ctx context.Context, sel *shader.Selector, done func(error))
}

// Identity is the transform of documents that declare none.
type Identity struct{}

// Kind implements VideoTransform.
func (Identity) Kind() Kind { return KindIdentity }

// UpdateShader implements VideoTransform.
func (Identity) UpdateShader(_ context.Context, _ *shader.Selector, done func(error)) {
	done(nil)
}

// Parse builds a transform from its document name and transformInfo.
// URLs inside info are resolved against base.
func Parse(name string, info json.RawMessage, base string) (VideoTransform, error) {
	switch name {
	case NameUvMap:
		return ParseUvMap(info, base)
	case NameVariSqueeze:
		return ParseVariSqueeze(info)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}
