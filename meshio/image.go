package meshio

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru"

	"github.com/hatoo/rene-sub000/gpu"
)

// decodedImage is an RGBA8 image flattened for nearest-neighbor sampling by
// (u,v) in [0,1); it never escapes this package.
type decodedImage struct {
	width, height int
	pix           []byte // RGBA, width*height*4
}

// ImageTable decodes and caches image files referenced by "image" textures
// and installs itself as gpu's sampler so gpu.Evaluate can resolve them.
type ImageTable struct {
	cache  *lru.Cache
	paths  []string
}

// NewImageTable builds an empty table and wires it into package gpu.
func NewImageTable(capacity int) (*ImageTable, error) {
	c, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("meshio: new image cache: %w", err)
	}
	t := &ImageTable{cache: c}
	gpu.SetImageSampler(t.sample)
	return t, nil
}

// Intern registers path and returns its stable image index, decoding lazily
// on first sample so a scene that never renders a pixel touching the
// texture never pays the IO cost.
func (t *ImageTable) Intern(path string) int32 {
	for i, p := range t.paths {
		if p == path {
			return int32(i)
		}
	}
	t.paths = append(t.paths, path)
	return int32(len(t.paths) - 1)
}

func (t *ImageTable) sample(imageIndex int32, u, v float32) [3]float32 {
	if int(imageIndex) < 0 || int(imageIndex) >= len(t.paths) {
		return [3]float32{1, 0, 1}
	}
	path := t.paths[imageIndex]
	img, err := t.decode(path)
	if err != nil || img.width == 0 || img.height == 0 {
		return [3]float32{1, 0, 1}
	}
	x := int(u*float32(img.width)) % img.width
	y := int((1 - v) * float32(img.height)) % img.height
	if x < 0 {
		x += img.width
	}
	if y < 0 {
		y += img.height
	}
	off := (y*img.width + x) * 4
	return [3]float32{
		float32(img.pix[off]) / 255,
		float32(img.pix[off+1]) / 255,
		float32(img.pix[off+2]) / 255,
	}
}

func (t *ImageTable) decode(path string) (*decodedImage, error) {
	if v, ok := t.cache.Get(path); ok {
		return v.(*decodedImage), nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	b := src.Bounds()
	rgba := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba.Set(x, y, src.At(x, y))
		}
	}
	out := &decodedImage{width: b.Dx(), height: b.Dy(), pix: rgba.Pix}
	t.cache.Add(path, out)
	return out, nil
}
