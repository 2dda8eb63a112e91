package integrate

import (
	"math/rand"
	"testing"

	"github.com/hatoo/rene-sub000/vmath"
)

func TestRussianRouletteNoOpBeforeDepthThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	beta := vmath.Vec3{X: 0.01, Y: 0.01, Z: 0.01}
	if !russianRoulette(&beta, russianRouletteFrom-1, rng) {
		t.Fatal("expected survival before the Russian roulette depth threshold")
	}
	if beta.X != 0.01 {
		t.Errorf("beta modified before threshold: %v", beta)
	}
}

func TestRussianRouletteSurvivesUnchangedWhenMaxBetaIsOne(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	beta := vmath.Vec3{X: 1, Y: 1, Z: 1} // max(beta) = 1, so p = 1: always survives, unchanged
	if !russianRoulette(&beta, russianRouletteFrom, rng) {
		t.Fatal("expected survival when max(beta) = 1")
	}
	if diff32(beta.X, 1) > 1e-6 {
		t.Errorf("beta renormalized when p = 1: %v", beta)
	}
}

func TestUniformSampleSphereIsUnitLength(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		v := uniformSampleSphere(rng.Float32(), rng.Float32())
		if l := v.Length(); diff32(l, 1) > 1e-4 {
			t.Fatalf("sample %d has length %v, want 1", i, l)
		}
	}
}

func diff32(a, b float32) float32 {
	if a < b {
		return b - a
	}
	return a - b
}
