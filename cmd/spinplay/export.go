package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/opd-ai/spinplay/config"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/texture"
	"github.com/opd-ai/spinplay/transform"
	"golang.org/x/image/draw"
)

// rampHeight is the number of rows a one-row ramp is stretched to.
const rampHeight = 32

func runExport(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	out := fs.String("out", config.GetString(config.KeyExportDir), "Output directory")
	scale := fs.Float64("scale", config.GetFloat64(config.KeyExportScale), "Scale factor applied to every image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	src, err := sourceArg(fs, config.KeySource)
	if err != nil {
		return err
	}
	if *scale <= 0 || math.IsInf(*scale, 0) || math.IsNaN(*scale) {
		return fmt.Errorf("invalid scale %v", *scale)
	}

	proj, err := loadProjection(ctx, e, src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	images := map[string]image.Image{}
	switch t := proj.Transform.(type) {
	case *transform.VariSqueeze:
		images["vs_x.webp"] = rampImage(t.XRamp)
		images["vs_y.webp"] = rampImage(t.YRamp)
	case *transform.UvMap:
		loader := texture.NewLoader(e.fetcher, nil, nil)
		for _, m := range t.Maps {
			for suffix, url := range map[string]string{"to": m.ToFormatURL, "from": m.FromFormatURL} {
				uv, err := loader.Get(ctx, url)
				if err != nil {
					return err
				}
				images[fmt.Sprintf("uv_%s_%s.webp", m.ID, suffix)] = uvImage(uv)
			}
		}
	default:
		fmt.Fprintf(e.stdout, "%s transform has no textures to export\n", proj.Transform.Kind())
		return nil
	}

	for name, img := range images {
		path := filepath.Join(*out, name)
		if err := writeWebP(path, scaleImage(img, *scale)); err != nil {
			return err
		}
		b := img.Bounds()
		fmt.Fprintf(e.stdout, "OK  %s (%dx%d)\n", path, b.Dx(), b.Dy())
	}
	return nil
}

// rampImage draws a ramp as a grayscale strip.
func rampImage(r *shader.Ramp) image.Image {
	img := image.NewGray(image.Rect(0, 0, len(r.Values), rampHeight))
	for x, v := range r.Values {
		g := uint8(math.Round(math.Max(0, math.Min(1, float64(v))) * 255))
		for y := 0; y < rampHeight; y++ {
			img.SetGray(x, y, color.Gray{Y: g})
		}
	}
	return img
}

// uvImage draws u in red and v in green.
func uvImage(m *texture.UVMap) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			u, v := m.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(math.Round(float64(u) * 255)),
				G: uint8(math.Round(float64(v) * 255)),
				A: 255,
			})
		}
	}
	return img
}

// scaleImage resizes img by factor. Ramps and maps hold data, not pictures,
// so upscaling repeats samples instead of blending them.
func scaleImage(img image.Image, factor float64) image.Image {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := int(math.Max(1, math.Round(float64(b.Dx())*factor)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*factor)))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	var scaler draw.Scaler = draw.ApproxBiLinear
	if factor > 1 {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
