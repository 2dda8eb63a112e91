package reflection

import (
	"testing"

	"github.com/hatoo/rene-sub000/vmath"
)

func TestLambertianSymmetry(t *testing.T) {
	b := NewLambertian(vmath.Vec3{X: 0.8, Y: 0.4, Z: 0.2})
	wo := vmath.Vec3{X: 0.3, Y: 0.1, Z: 0.9}.Normalize()
	wi := vmath.Vec3{X: -0.2, Y: 0.5, Z: 0.8}.Normalize()
	f1 := b.F(wo, wi)
	f2 := b.F(wi, wo)
	if diff3(f1, f2) > 1e-5 {
		t.Errorf("f(wo,wi)=%v != f(wi,wo)=%v", f1, f2)
	}
}

func TestLambertianSampleFPdfMatchesPdf(t *testing.T) {
	b := NewLambertian(vmath.Vec3{X: 1, Y: 1, Z: 1})
	wo := vmath.Vec3{Z: 1}
	const n = 20000
	var idx uint32
	for i := 0; i < n; i++ {
		idx = idx*1664525 + 1013904223
		u1 := float32(idx%1000) / 1000
		idx = idx*1664525 + 1013904223
		u2 := float32(idx%1000) / 1000
		wi, pdf, _, _, ok := b.SampleF(wo, u1, u2, 0)
		if !ok || pdf <= 0 {
			continue
		}
		// Monte Carlo estimate of integral of pdf over the sphere via
		// importance sampling from the same pdf equals 1 by construction;
		// instead check pdf matches the analytic formula at the sample.
		want := b.Pdf(wo, wi)
		if abs32(want-pdf) > 1e-4 {
			t.Fatalf("pdf mismatch: got %v want %v", pdf, want)
		}
	}
}

func TestTrowbridgeReitzG1Bounds(t *testing.T) {
	d := NewTrowbridgeReitz(0.3, 0.3)
	w := vmath.Vec3{X: 0.1, Y: 0.2, Z: 0.9}.Normalize()
	g := d.G1(w)
	if g < 0 || g > 1 {
		t.Errorf("G1 out of [0,1]: %v", g)
	}
}

func diff3(a, b vmath.Vec3) float32 {
	return abs32(a.X-b.X) + abs32(a.Y-b.Y) + abs32(a.Z-b.Z)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
