package integrate

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/hatoo/rene-sub000/accel"
	"github.com/hatoo/rene-sub000/gpu"
	"github.com/hatoo/rene-sub000/reflection"
	"github.com/hatoo/rene-sub000/scenelower"
	"github.com/hatoo/rene-sub000/vmath"
)

const (
	maxDepth            = 50
	russianRouletteFrom = 12
	shadowEpsilon       = 1e-4
)

// Li traces one camera ray through the scene and returns its estimated
// radiance. Every bounce first walks the deterministic, unweighted loop
// over the scene's analytic lights (directLightLoop), then, only on a
// diffuse hit with at least one emissive instance in the scene, spends a
// single frame-RNG coin flip choosing between sampling a point on a
// uniformly-picked emissive instance and sampling the BSDF for the path's
// continuation direction, combining the two with the literal balance
// heuristic 0.5*pdfBsdf + 0.5*pdfLight baked directly into beta. A later
// bounce landing on an emissive surface (or escaping to an infinite light)
// therefore adds its emission unconditionally, with no further MIS
// reweighting: that weighting already happened at the bounce the direction
// was chosen. Single-scattering through homogeneous participating media is
// layered in along each segment when volumetric is set. volumetric comes
// from the render options; when it is unset every medium is treated as
// vacuum, and the scene's Integrator directive does not affect this.
func Li(bs *builtScene, ray vmath.Ray, rng, frameRNG *rand.Rand, volumetric bool) vmath.Vec3 {
	scene := bs.scene
	beta := vmath.Vec3{X: 1, Y: 1, Z: 1}
	L := vmath.Vec3{}
	currentMedium := 0 // vacuum sentinel

	for depth := 0; depth < maxDepth; depth++ {
		hit := bs.device.TraceRay(bs.mainTLAS, ray, 1e-3, math32.Inf(1))

		segmentLen := hit.T
		if !hit.Hit {
			segmentLen = math32.Inf(1)
		}
		if volumetric && scene.Media[currentMedium].Kind != gpu.MediumVacuum && hit.Hit {
			medium := scene.Media[currentMedium]
			chIdx := rng.Intn(3)
			dist, scattered, weight := medium.SampleDistance(rng.Float32(), chIdx, segmentLen)
			beta = beta.MulVec(vmath.Vec3{X: weight[0], Y: weight[1], Z: weight[2]})
			if scattered {
				p := ray.At(dist)
				L = L.Add(beta.MulVec(mediumDirectLightLoop(bs, medium, p, ray.Direction.Negate(), rng)))
				wi := sampleHenyeyGreenstein(medium.G, ray.Direction, rng.Float32(), rng.Float32())
				ray = vmath.Ray{Origin: p, Direction: wi}
				if !russianRoulette(&beta, depth, frameRNG) {
					break
				}
				continue
			}
		}

		if !hit.Hit {
			L = L.Add(beta.MulVec(infiniteLightContribution(scene, ray.Direction)))
			break
		}

		inst := scene.Instances[hit.InstanceIndex]
		if inst.AreaLightIndex != 0 {
			areaLight := scene.AreaLights[inst.AreaLightIndex]
			le := areaLight.Le(
				[3]float32{hit.GeometricNormal.X, hit.GeometricNormal.Y, hit.GeometricNormal.Z},
				[3]float32{-ray.Direction.X, -ray.Direction.Y, -ray.Direction.Z},
			)
			L = L.Add(beta.MulVec(vmath.Vec3{X: le[0], Y: le[1], Z: le[2]}))
		}

		u, v, shadingNormal := shadingParameters(scene, inst, hit)
		material := scene.Materials[inst.MaterialIndex]
		bsdf := buildBSDF(scene.Textures, material, hit.GeometricNormal, shadingNormal, u, v)
		wo := ray.Direction.Negate()

		L = L.Add(beta.MulVec(directLightLoop(bs, &bsdf, hit.Point, wo, shadingNormal, rng)))

		var wi vmath.Vec3
		var ok bool
		if bs.lightCount > 0 && bsdf.Contains(reflection.Diffuse) {
			wi, ok = sampleContinuationMIS(bs, &bsdf, hit.Point, wo, shadingNormal, &beta, frameRNG, rng)
		} else {
			wi, ok = sampleContinuationBSDF(&bsdf, wo, shadingNormal, &beta, rng)
		}
		if !ok {
			break
		}
		if beta.LengthSqr() == 0 {
			break
		}

		if wi.Dot(hit.GeometricNormal) > 0 {
			currentMedium = inst.MediumOutsideIndex
		} else {
			currentMedium = inst.MediumInsideIndex
		}

		ray = vmath.Ray{Origin: offsetRayOrigin(hit.Point, hit.GeometricNormal, wi), Direction: wi}

		if !russianRoulette(&beta, depth, frameRNG) {
			break
		}
	}
	return L
}

// sampleContinuationBSDF is the plain (non-MIS) continuation: spec step 8,
// taken whenever the hit lobe isn't diffuse or the scene has no emissive
// instances to pair it against.
func sampleContinuationBSDF(bsdf *reflection.BSDF, wo, shadingNormal vmath.Vec3, beta *vmath.Vec3, rng *rand.Rand) (vmath.Vec3, bool) {
	sample := bsdf.SampleF(wo, rng.Float32(), rng.Float32(), rng.Float32(), rng.Float32())
	if !sample.Valid || sample.Pdf < 1e-5 {
		return vmath.Vec3{}, false
	}
	cosWeight := math32.Abs(sample.Wi.Dot(shadingNormal))
	*beta = beta.MulVec(sample.F).Mul(cosWeight / sample.Pdf)
	return sample.Wi, true
}

// sampleContinuationMIS is spec step 7's one-sample-MIS coin flip: the
// frame-wide RNG (shared across every pixel at this bounce, matching the
// GPU port's same-seed-per-dispatch construction) picks, with probability
// 0.5 each, between sampling a point on a uniformly-chosen emissive
// instance and sampling the BSDF directly, then combines the two
// strategies' pdfs with the literal balance heuristic.
func sampleContinuationMIS(bs *builtScene, bsdf *reflection.BSDF, p, wo, shadingNormal vmath.Vec3, beta *vmath.Vec3, frameRNG, rng *rand.Rand) (vmath.Vec3, bool) {
	var wi vmath.Vec3
	var bsdfPdf float32
	var f vmath.Vec3

	if frameRNG.Float32() < 0.5 {
		n := frameRNG.Intn(bs.lightCount)
		instIdx := areaLightInstanceAt(bs, n)
		point, ok := sampleEmissiveInstancePoint(bs.scene, instIdx, frameRNG)
		if !ok {
			return vmath.Vec3{}, false
		}
		toPoint := point.Sub(p)
		if toPoint.LengthSqr() == 0 {
			return vmath.Vec3{}, false
		}
		wi = toPoint.Normalize()
		bsdfPdf = bsdf.Pdf(wo, wi)
		f = bsdf.F(wo, wi)
	} else {
		sample := bsdf.SampleF(wo, rng.Float32(), rng.Float32(), rng.Float32(), rng.Float32())
		if !sample.Valid {
			return vmath.Vec3{}, false
		}
		wi = sample.Wi
		bsdfPdf = sample.Pdf
		f = sample.F
	}

	lightPdf := emissivePdf(bs, p, wi) / float32(bs.lightCount)
	pdf := 0.5*bsdfPdf + 0.5*lightPdf
	if pdf < 1e-5 {
		return vmath.Vec3{}, false
	}
	cosWeight := math32.Abs(wi.Dot(shadingNormal))
	*beta = beta.MulVec(f).Mul(cosWeight / pdf)
	return wi, true
}

// russianRoulette applies the depth-12-and-beyond termination rule using
// the literal spec formula p = min(1, max(beta)), renormalizing beta (in
// place) when the path survives. Called with the frame-wide RNG, matching
// the original shader's use of frame_wide_rng for this decision.
func russianRoulette(beta *vmath.Vec3, depth int, frameRNG *rand.Rand) bool {
	if depth < russianRouletteFrom {
		return true
	}
	p := math32.Min(1, beta.MaxComponent())
	if frameRNG.Float32() > p {
		return false
	}
	*beta = beta.Div(p)
	return true
}

func shadingParameters(scene *scenelower.LoweredScene, inst scenelower.Instance, hit accel.HitRecord) (u, v float32, shadingNormal vmath.Vec3) {
	if inst.Kind == scenelower.InstanceSphere {
		return hit.U, hit.V, hit.GeometricNormal
	}
	mesh := scene.Meshes[inst.MeshIndex]
	uv := vertexUV(scene, mesh, hit.PrimitiveIndex, hit.U, hit.V)
	n := vertexNormal(scene, mesh, hit.PrimitiveIndex, hit.U, hit.V, hit.GeometricNormal)
	return uv.X, uv.Y, n
}

// offsetRayOrigin nudges a new ray's origin off the surface along the
// geometric normal, on whichever side the new direction continues into,
// avoiding immediate self-intersection from floating point error.
func offsetRayOrigin(p, ng, dir vmath.Vec3) vmath.Vec3 {
	const eps = 1e-4
	if dir.Dot(ng) > 0 {
		return p.Add(ng.Mul(eps))
	}
	return p.Add(ng.Mul(-eps))
}

// infiniteLightContribution is added unconditionally whenever a ray
// escapes the scene: any MIS weighting against this background's analytic
// counterpart in sampleAnalyticLight's LightInfinite case already happened
// at whichever bounce chose this direction (step 4/7's mixture pdf is
// baked into beta), so there is no reweighting left to do here.
func infiniteLightContribution(scene *scenelower.LoweredScene, dir vmath.Vec3) vmath.Vec3 {
	sum := vmath.Vec3{}
	for _, light := range scene.Lights {
		if light.Kind != gpu.LightInfinite {
			continue
		}
		lightDir := transformDirection(light.WorldToLight, dir)
		u, v := directionToEquirect(lightDir)
		c := gpu.Evaluate(scene.Textures, light.EnvironmentTex, u, v)
		sum = sum.Add(vmath.Vec3{X: c[0], Y: c[1], Z: c[2]})
	}
	return sum
}
