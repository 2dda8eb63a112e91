package integrate

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/hatoo/rene-sub000/accel"
	"github.com/hatoo/rene-sub000/gpu"
	"github.com/hatoo/rene-sub000/scenelower"
	"github.com/hatoo/rene-sub000/vmath"
)

// lightSample is one next-event-estimation candidate: a direction and
// distance to test for occlusion, the radiance arriving along it before
// occlusion/BSDF weighting, and the solid-angle pdf of having picked this
// direction (1 for a delta light, whose Radiance needs no further
// normalization).
type lightSample struct {
	Wi       vmath.Vec3
	Distance float32 // +Inf for analytic (infinite/distant) lights
	Radiance vmath.Vec3
	Pdf      float32
	Delta    bool
}

// areaLightInstanceAt returns the global instance index of the n-th
// emissive instance in iteration order, matching the order the emissive
// TLAS was built in (see build.go).
func areaLightInstanceAt(bs *builtScene, n int) int {
	count := 0
	for i, inst := range bs.scene.Instances {
		if inst.AreaLightIndex == 0 {
			continue
		}
		if count == n {
			return i
		}
		count++
	}
	return -1
}

// sampleAnalyticLight samples a direction/radiance pair from a single
// analytic (distant or infinite) light; used by directLightLoop's
// deterministic, unweighted pass over every such light.
func sampleAnalyticLight(textures []gpu.Texture, light gpu.Light, rng *rand.Rand) (lightSample, bool) {
	switch light.Kind {
	case gpu.LightDistant:
		dir := vmath.Vec3{X: light.Direction[0], Y: light.Direction[1], Z: light.Direction[2]}.Normalize()
		radiance := vmath.Vec3{X: light.Radiance[0], Y: light.Radiance[1], Z: light.Radiance[2]}
		return lightSample{Wi: dir, Distance: math32.Inf(1), Radiance: radiance, Pdf: 1, Delta: true}, true
	case gpu.LightInfinite:
		// Environment importance sampling would need a 2D distribution
		// over the map; a uniform-sphere fallback keeps NEE correct (if
		// higher variance) without one.
		dir := uniformSampleSphere(rng.Float32(), rng.Float32())
		lightDir := transformDirection(light.WorldToLight, dir)
		u, v := directionToEquirect(lightDir)
		c := gpu.Evaluate(textures, light.EnvironmentTex, u, v)
		return lightSample{
			Wi: dir, Distance: math32.Inf(1),
			Radiance: vmath.Vec3{X: c[0], Y: c[1], Z: c[2]},
			Pdf:      1 / (4 * math32.Pi),
		}, true
	}
	return lightSample{}, false
}

// sampleEmissiveInstancePoint draws a point (and its geometric normal) on
// the surface of emissive instance inst, used for the path-continuation
// coin-flip's light-sampling branch. Sphere instances are sampled uniformly
// over the full sphere surface, not restricted to the cone visible from the
// shading point. emissiveInstancePdf's sphere branch uses the cone-sampling
// pdf, which does not match this full-sphere draw.
func sampleEmissiveInstancePoint(scene *scenelower.LoweredScene, inst int, rng *rand.Rand) (vmath.Vec3, bool) {
	if inst < 0 {
		return vmath.Vec3{}, false
	}
	instance := scene.Instances[inst]
	if instance.Kind == scenelower.InstanceSphere {
		local := uniformSampleSphere(rng.Float32(), rng.Float32())
		return instance.Transform.TransformPoint(local), true
	}
	mesh := scene.Meshes[instance.MeshIndex]
	triCount := (mesh.IndexEnd - mesh.IndexStart) / 3
	if triCount == 0 {
		return vmath.Vec3{}, false
	}
	tri := rng.Intn(triCount)
	i0 := scene.Indices[mesh.IndexStart+3*tri]
	i1 := scene.Indices[mesh.IndexStart+3*tri+1]
	i2 := scene.Indices[mesh.IndexStart+3*tri+2]
	v0 := instance.Transform.TransformPoint(scene.Vertices[i0].Position)
	v1 := instance.Transform.TransformPoint(scene.Vertices[i1].Position)
	v2 := instance.Transform.TransformPoint(scene.Vertices[i2].Position)
	su := math32.Sqrt(rng.Float32())
	b0 := 1 - su
	b1 := rng.Float32() * su
	b2 := 1 - b0 - b1
	return v0.Mul(b0).Add(v1.Mul(b1)).Add(v2.Mul(b2)), true
}

// emissivePdf traces a dummy ray from origin along wi against the emissive
// TLAS and returns the solid-angle pdf of having sampled the point it
// lands on, the Go equivalent of the original shader's
// sphere_closest_hit_pdf/triangle_closest_hit_pdf. Returns 0 if wi misses
// every emissive instance.
func emissivePdf(bs *builtScene, origin, wi vmath.Vec3) float32 {
	hit := bs.device.TraceRay(bs.lightTLAS, vmath.Ray{Origin: origin, Direction: wi}, 1e-3, math32.Inf(1))
	if !hit.Hit {
		return 0
	}
	return emissiveInstancePdf(bs.scene, hit, origin)
}

// emissiveInstancePdf is the pdf evaluator half of the light-sampling
// strategy: given a hit already found on the emissive TLAS, it returns the
// solid-angle pdf of having picked that exact point. The sphere case uses
// the cone-sampling formula 1/(2*pi*(1-cosThetaMax)) (spec's light table),
// deliberately NOT the area-to-solid-angle conversion that would match how
// sampleEmissiveInstancePoint actually draws the point; the triangle case
// is the ordinary area-to-solid-angle conversion divided by the mesh's
// triangle count (a uniform triangle pick's own 1/triCount factor).
func emissiveInstancePdf(scene *scenelower.LoweredScene, hit accel.HitRecord, origin vmath.Vec3) float32 {
	inst := scene.Instances[hit.InstanceIndex]
	if inst.Kind == scenelower.InstanceSphere {
		radius := inst.Transform.TransformVector(vmath.Vec3{X: 1}).Length()
		center := inst.Transform.TransformPoint(vmath.Vec3{})
		distSq := center.Sub(origin).LengthSqr()
		if distSq <= radius*radius {
			return 0
		}
		cosThetaMax := math32.Sqrt(max32(0, 1-(radius*radius)/distSq))
		return 1 / (2 * math32.Pi * (1 - cosThetaMax))
	}
	mesh := scene.Meshes[inst.MeshIndex]
	triCount := (mesh.IndexEnd - mesh.IndexStart) / 3
	if triCount == 0 {
		return 0
	}
	i0 := scene.Indices[mesh.IndexStart+3*hit.PrimitiveIndex]
	i1 := scene.Indices[mesh.IndexStart+3*hit.PrimitiveIndex+1]
	i2 := scene.Indices[mesh.IndexStart+3*hit.PrimitiveIndex+2]
	v0 := inst.Transform.TransformPoint(scene.Vertices[i0].Position)
	v1 := inst.Transform.TransformPoint(scene.Vertices[i1].Position)
	v2 := inst.Transform.TransformPoint(scene.Vertices[i2].Position)
	cross := v1.Sub(v0).Cross(v2.Sub(v0))
	triArea := cross.Length() / 2
	if triArea == 0 {
		return 0
	}
	toHit := hit.Point.Sub(origin)
	dist := toHit.Length()
	if dist == 0 {
		return 0
	}
	normal := cross.Normalize()
	cosAtLight := math32.Abs(normal.Dot(toHit.Div(dist).Negate()))
	if cosAtLight <= 0 {
		return 0
	}
	return (dist * dist) / (cosAtLight * triArea * float32(triCount))
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func uniformSampleSphere(u1, u2 float32) vmath.Vec3 {
	z := 1 - 2*u1
	r := math32.Sqrt(math32.Max(0, 1-z*z))
	phi := 2 * math32.Pi * u2
	return vmath.Vec3{X: r * math32.Cos(phi), Y: r * math32.Sin(phi), Z: z}
}

func directionToEquirect(d vmath.Vec3) (u, v float32) {
	phi := math32.Atan2(d.Z, d.X)
	if phi < 0 {
		phi += 2 * math32.Pi
	}
	theta := math32.Acos(vmath.Clamp(d.Y, -1, 1))
	return phi / (2 * math32.Pi), theta / math32.Pi
}

// transformDirection applies a row-major 4x4 matrix to a direction (w=0)
// treated as a row vector (d*M), the vmath.Mat4 convention that
// mat4ToArray flattens, dropping the translation row.
func transformDirection(m [16]float32, d vmath.Vec3) vmath.Vec3 {
	return vmath.Vec3{
		X: m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		Y: m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		Z: m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}.Normalize()
}

func transformNormalAffine(transform vmath.Affine3, n vmath.Vec3) vmath.Vec3 {
	normalMat := transform.ToMat4().NormalMatrix()
	return normalMat.MulDirection(n).Normalize()
}
