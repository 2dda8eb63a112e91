// Package imgoutput tonemaps a rendered Framebuffer and writes it out as an
// 8-bit sRGB PNG. No third-party encoder appears anywhere in the example
// corpus (only decoders, for loading textures); image/png is the standard
// library's own encoder and the obvious choice for a one-shot write with
// no further manipulation needed.
package imgoutput

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/chewxy/math32"

	"github.com/hatoo/rene-sub000/integrate"
)

const gamma = 1.0 / 2.2

// WritePNG tonemaps fb (gamma 2.2, clamped to [0, 0.999] before the 8-bit
// quantization) and writes the result to path.
func WritePNG(path string, fb *integrate.Framebuffer) error {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.Pixels[y*fb.Width+x]
			img.Set(x, y, color.RGBA{
				R: toneMap(c.X),
				G: toneMap(c.Y),
				B: toneMap(c.Z),
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func toneMap(linear float32) uint8 {
	if linear < 0 {
		linear = 0
	}
	clamped := math32.Min(linear, 0.999)
	srgb := math32.Pow(clamped, gamma)
	return uint8(srgb*255 + 0.5)
}
