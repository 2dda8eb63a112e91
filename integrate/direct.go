package integrate

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/hatoo/rene-sub000/gpu"
	"github.com/hatoo/rene-sub000/reflection"
	"github.com/hatoo/rene-sub000/vmath"
)

// directLightLoop is the surface next-event-estimation term: spec.md's
// step 6 visits every analytic light in the scene exactly once per bounce,
// unweighted by any discrete choice probability, summing each light's
// shadow-tested contribution directly into the returned radiance.
func directLightLoop(bs *builtScene, bsdf *reflection.BSDF, p, wo, shadingNormal vmath.Vec3, rng *rand.Rand) vmath.Vec3 {
	sum := vmath.Vec3{}
	for _, light := range bs.scene.Lights {
		ls, ok := sampleAnalyticLight(bs.scene.Textures, light, rng)
		if !ok || ls.Pdf <= 0 {
			continue
		}
		f := bsdf.F(wo, ls.Wi).Mul(math32.Abs(ls.Wi.Dot(shadingNormal)))
		if f.LengthSqr() == 0 {
			continue
		}
		if occluded(bs, p, ls.Wi, ls.Distance) {
			continue
		}
		sum = sum.Add(f.MulVec(ls.Radiance).Div(ls.Pdf))
	}
	return sum
}

// mediumDirectLightLoop is directLightLoop's volumetric analogue: the
// phase function replaces the BSDF, and the deterministic per-light loop
// over the scene's analytic lights is unchanged.
func mediumDirectLightLoop(bs *builtScene, medium gpu.Medium, p, wo vmath.Vec3, rng *rand.Rand) vmath.Vec3 {
	sum := vmath.Vec3{}
	for _, light := range bs.scene.Lights {
		ls, ok := sampleAnalyticLight(bs.scene.Textures, light, rng)
		if !ok || ls.Pdf <= 0 {
			continue
		}
		if occluded(bs, p, ls.Wi, ls.Distance) {
			continue
		}
		phase := medium.PhaseHG(wo.Dot(ls.Wi))
		sum = sum.Add(ls.Radiance.Mul(phase / ls.Pdf))
	}
	return sum
}

func occluded(bs *builtScene, p, wi vmath.Vec3, distance float32) bool {
	origin := p.Add(wi.Mul(shadowEpsilon))
	tMax := distance - 2*shadowEpsilon
	if tMax <= 0 {
		return false
	}
	return bs.device.TraceShadowRay(bs.mainTLAS, vmath.Ray{Origin: origin, Direction: wi}, 0, tMax)
}

func sampleHenyeyGreenstein(g float32, wo vmath.Vec3, u1, u2 float32) vmath.Vec3 {
	var cosTheta float32
	if math32.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u1
	} else {
		sqr := (1 - g*g) / (1 + g - 2*g*u1)
		cosTheta = -(1 + g*g - sqr*sqr) / (2 * g)
	}
	sinTheta := math32.Sqrt(math32.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math32.Pi * u2
	frame := vmath.NewONB(wo.Negate())
	local := vmath.Vec3{X: sinTheta * math32.Cos(phi), Y: sinTheta * math32.Sin(phi), Z: cosTheta}
	return frame.ToWorld(local)
}
