package player

import (
	"fmt"

	"github.com/opd-ai/spinplay/shader"
)

// VideoTexture is a decoder output surface.
type VideoTexture struct {
	Name          string
	Width, Height int
}

// Size implements shader.Texture.
func (t *VideoTexture) Size() (int, int) { return t.Width, t.Height }

// String returns "name (WxH)".
func (t *VideoTexture) String() string {
	return fmt.Sprintf("%s (%dx%d)", t.Name, t.Width, t.Height)
}

// Target receives the decoder output textures, typically a material on the
// projection geometry.
type Target interface {
	SetVideoTextures(model shader.ColorModel, textures []shader.Texture)
}

// newVideoTextures allocates the output surfaces for a frame of w by h. YUV
// output uses a full size luma plane and a half size chroma plane.
func newVideoTextures(w, h int, yuv bool) (shader.ColorModel, []shader.Texture) {
	if yuv {
		return shader.YUV, []shader.Texture{
			&VideoTexture{Name: "Y", Width: w, Height: h},
			&VideoTexture{Name: "UV", Width: (w + 1) / 2, Height: (h + 1) / 2},
		}
	}
	return shader.RGB, []shader.Texture{
		&VideoTexture{Name: "RGB", Width: w, Height: h},
	}
}
