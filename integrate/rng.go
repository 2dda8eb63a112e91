package integrate

import "math/rand"

// newPixelRNG and newFrameRNG follow the teacher's own rand.New(rand.
// NewSource(seed)) pattern (scene/particles.go): a per-pixel stream seeded
// by the pixel's flat index XORed with the frame seed gives every pixel an
// independent, reproducible sequence across frames, while a single
// frame-wide stream (seeded by the frame seed alone) drives decisions that
// must stay correlated across the whole image within one frame (e.g. the
// NEE-vs-BSDF continuation coin flip, the emissive-instance pick, and
// Russian roulette).
func newPixelRNG(pixelIndex, frameSeed uint64) *rand.Rand {
	return rand.New(rand.NewSource(int64(pixelIndex ^ frameSeed)))
}

func newFrameRNG(frameSeed uint64) *rand.Rand {
	return rand.New(rand.NewSource(int64(frameSeed)))
}
