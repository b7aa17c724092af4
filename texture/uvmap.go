package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/opd-ai/spinplay/limits"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// UVMap is a decoded two-channel float texture. Data holds u,v pairs in
// row-major order.
type UVMap struct {
	Width  int
	Height int
	Data   []float32
	// Digest is the BLAKE2b-256 of the encoded source bytes.
	Digest [32]byte
}

// Size implements shader.Texture.
func (m *UVMap) Size() (int, int) { return m.Width, m.Height }

// At returns the normalized coordinate stored at (x, y).
func (m *UVMap) At(x, y int) (u, v float32) {
	i := (y*m.Width + x) * 2
	return m.Data[i], m.Data[i+1]
}

// DecodeImage decodes PNG, BMP, TIFF, WebP or TGA bytes. Formats are
// recognized by their magic numbers. TGA has none, so it is chosen by the
// ".tga" extension of name or as the last resort.
func DecodeImage(data []byte, name string) (image.Image, error) {
	format, decode := sniff(data)
	if strings.EqualFold(path.Ext(name), ".tga") {
		format, decode = "tga", tga.Decode
	}
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, format, err)
	}
	return img, nil
}

func sniff(data []byte) (string, func(io.Reader) (image.Image, error)) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png", png.Decode
	case bytes.HasPrefix(data, []byte("BM")):
		return "bmp", bmp.Decode
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return "tiff", tiff.Decode
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "webp", webp.Decode
	default:
		return "tga", tga.Decode
	}
}

// DecodeUVMap converts a delta-coded RGBA image into normalized u,v pairs.
func DecodeUVMap(img image.Image) (*UVMap, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, ErrEmptyImage
	}
	if err := limits.ValidateDimensions(w, h); err != nil {
		return nil, err
	}

	m := &UVMap{Width: w, Height: h, Data: make([]float32, w*h*2)}
	nrgba, direct := img.(*image.NRGBA)

	for y := 0; y < h; y++ {
		lastU, lastV := 0, 0
		for x := 0; x < w; x++ {
			var c color.NRGBA
			if direct {
				i := nrgba.PixOffset(b.Min.X+x, b.Min.Y+y)
				s := nrgba.Pix[i : i+4 : i+4]
				c = color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
			} else {
				c = color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			}

			u := (lastU + int(c.G)*256 + int(c.B)) & 0xffff
			v := (lastV + int(c.A)*256 + int(c.R)) & 0xffff

			i := (y*w + x) * 2
			m.Data[i] = float32(u) / 65535
			m.Data[i+1] = float32(v) / 65535
			lastU, lastV = u, v
		}
	}
	return m, nil
}

// EncodeUVMap is the inverse of DecodeUVMap for 16-bit coordinates. It is
// used to author test assets and previews.
func EncodeUVMap(w, h int, coord func(x, y int) (u, v uint16)) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		var lastU, lastV uint16
		for x := 0; x < w; x++ {
			u, v := coord(x, y)
			du, dv := u-lastU, v-lastV
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(dv)
			img.Pix[i+1] = uint8(du >> 8)
			img.Pix[i+2] = uint8(du)
			img.Pix[i+3] = uint8(dv >> 8)
			lastU, lastV = u, v
		}
	}
	return img
}
