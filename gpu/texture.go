// Package gpu holds the tagged-union scene types that would, on an actual
// device backend, be marshaled into fixed-stride device buffers and
// dispatched by an integer discriminant inside shader code. The CPU
// reference backend in package accel stores these Go values directly — no
// byte-blob packing is performed — but each type's surface (Kind + fixed
// per-variant fields, constructors, a dispatch method per operation) keeps
// the shape a real packed layout would have, so a future device backend
// can flatten them without changing any caller.
package gpu

// TextureKind discriminates a Texture union.
type TextureKind int32

const (
	TextureSolid TextureKind = iota
	TextureChecker
	TextureImage
)

// Texture is solid color, checker (references two child textures by
// index), or image (indexes into a side table of decoded images). Child
// indices are required to be strictly less than the texture's own index
// in the owning scene's Textures slice, enforced at lowering time so the
// reference graph is acyclic by construction.
type Texture struct {
	Kind TextureKind

	// TextureSolid
	Color [3]float32

	// TextureChecker
	Tex1, Tex2 int32
	UScale     float32
	VScale     float32

	// TextureImage
	ImageIndex int32
}

func NewSolidTexture(r, g, b float32) Texture {
	return Texture{Kind: TextureSolid, Color: [3]float32{r, g, b}}
}

func NewCheckerTexture(tex1, tex2 int32, uScale, vScale float32) Texture {
	return Texture{Kind: TextureChecker, Tex1: tex1, Tex2: tex2, UScale: uScale, VScale: vScale}
}

func NewImageTexture(imageIndex int32) Texture {
	return Texture{Kind: TextureImage, ImageIndex: imageIndex}
}

// maxTextureChaseDepth bounds the checker-chain walk below so a
// pathological scene cannot hang the evaluator.
const maxTextureChaseDepth = 16

// Evaluate resolves the texture's color at (u,v), iteratively following a
// checker's selected child rather than recursing — the original renderer's
// texture-chain evaluator loops for exactly this reason, since there is no
// call stack inside shader code.
func Evaluate(textures []Texture, index int32, u, v float32) [3]float32 {
	for depth := 0; depth < maxTextureChaseDepth; depth++ {
		t := textures[index]
		switch t.Kind {
		case TextureSolid:
			return t.Color
		case TextureImage:
			return sampleImagePlaceholder(t.ImageIndex, u, v)
		case TextureChecker:
			su := u * t.UScale
			sv := v * t.VScale
			if (int(floor32(su))+int(floor32(sv)))%2 == 0 {
				index = t.Tex1
			} else {
				index = t.Tex2
			}
		}
	}
	return [3]float32{1, 0, 1} // degenerate chain: flag it loudly
}

func floor32(x float32) float32 {
	i := int32(x)
	if x < 0 && float32(i) != x {
		i--
	}
	return float32(i)
}

// sampleImagePlaceholder is overridden at scene-build time by installing a
// real image sampler via SetImageSampler; kept as a free function (not a
// struct method) so Evaluate stays a pure function of (textures, index).
var sampleImagePlaceholder = func(imageIndex int32, u, v float32) [3]float32 {
	return [3]float32{1, 1, 1}
}

// SetImageSampler installs the function used to sample decoded image
// textures, bridging the gpu package's pure evaluation functions to
// meshio's decoded-texture cache without an import cycle.
func SetImageSampler(f func(imageIndex int32, u, v float32) [3]float32) {
	sampleImagePlaceholder = f
}
