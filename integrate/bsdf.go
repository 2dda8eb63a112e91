package integrate

import (
	"github.com/hatoo/rene-sub000/gpu"
	"github.com/hatoo/rene-sub000/reflection"
	"github.com/hatoo/rene-sub000/scenelower"
	"github.com/hatoo/rene-sub000/vmath"
)

// buildBSDF resolves one material's lobes into a populated BSDF for the
// shading point's local frame. Matte/Plastic/Substrate/Uber first
// evaluate their texture references through gpu.Evaluate; the BSDF itself
// only ever sees resolved RGB triples.
func buildBSDF(textures []gpu.Texture, mat gpu.Material, geometricNormal, shadingNormal vmath.Vec3, u, v float32) reflection.BSDF {
	var bsdf reflection.BSDF
	bsdf.Clear(geometricNormal, shadingNormal)

	switch mat.Kind {
	case gpu.MaterialMatte:
		albedo := evalVec3(textures, mat.AlbedoTex, u, v)
		bsdf.Add(reflection.NewLambertian(albedo))
	case gpu.MaterialGlass:
		white := vmath.Vec3{X: 1, Y: 1, Z: 1}
		bsdf.Add(reflection.NewFresnelSpecular(white, white, 1, mat.IOR))
	case gpu.MaterialMirror:
		// Approximated as a very low roughness microfacet lobe: the BxDF
		// set here has no delta-specular-reflection variant of its own
		// (only FresnelSpecular, which also models refraction), so a
		// near-zero alpha Trowbridge-Reitz lobe stands in for a perfect
		// mirror, converging to one in the roughness-to-zero limit.
		dist := reflection.NewTrowbridgeReitz(0.001, 0.001)
		bsdf.Add(reflection.NewMicrofacetReflection(vmath.Vec3{X: 1, Y: 1, Z: 1}, reflection.NewNoOpFresnel(), dist))
	case gpu.MaterialMetal:
		dist := reflection.NewTrowbridgeReitz(reflection.RoughnessToAlpha(mat.Roughness), reflection.RoughnessToAlpha(mat.Roughness))
		fr := reflection.NewConductorFresnel(mat.Eta, mat.K)
		bsdf.Add(reflection.NewMicrofacetReflection(vmath.Vec3{X: 1, Y: 1, Z: 1}, fr, dist))
	case gpu.MaterialPlastic, gpu.MaterialSubstrate:
		diffuse := evalVec3(textures, mat.DiffuseTex, u, v)
		specular := evalVec3(textures, mat.SpecularTex, u, v)
		dist := reflection.NewTrowbridgeReitz(reflection.RoughnessToAlpha(mat.Roughness), reflection.RoughnessToAlpha(mat.Roughness))
		bsdf.Add(reflection.NewFresnelBlend(diffuse, specular, dist))
	case gpu.MaterialUber:
		diffuse := evalVec3(textures, mat.DiffuseTex, u, v)
		bsdf.Add(reflection.NewLambertian(diffuse))
		dist := reflection.NewTrowbridgeReitz(reflection.RoughnessToAlpha(mat.Roughness), reflection.RoughnessToAlpha(mat.Roughness))
		fr := reflection.NewDielectricFresnel(1, mat.IOR)
		bsdf.Add(reflection.NewMicrofacetReflection(vmath.Vec3{X: 1, Y: 1, Z: 1}, fr, dist))
	}
	return bsdf
}

func evalVec3(textures []gpu.Texture, index int32, u, v float32) vmath.Vec3 {
	c := gpu.Evaluate(textures, index, u, v)
	return vmath.Vec3{X: c[0], Y: c[1], Z: c[2]}
}

// vertexUV interpolates a hit's barycentric (U,V) against the mesh's three
// vertex UVs; callers for sphere hits use the accel hit record's U,V
// directly since that is already the sphere's own parameterization.
func vertexUV(scene *scenelower.LoweredScene, mesh scenelower.Mesh, primIndex int, baryU, baryV float32) vmath.Vec2 {
	i0 := scene.Indices[mesh.IndexStart+3*primIndex]
	i1 := scene.Indices[mesh.IndexStart+3*primIndex+1]
	i2 := scene.Indices[mesh.IndexStart+3*primIndex+2]
	uv0 := scene.Vertices[i0].UV
	uv1 := scene.Vertices[i1].UV
	uv2 := scene.Vertices[i2].UV
	return vmath.Vec2Barycentric(uv0, uv1, uv2, baryU, baryV)
}

// vertexNormal interpolates shading normals the same way, falling back to
// the geometric normal (zero Normal fields mean "use face normal").
func vertexNormal(scene *scenelower.LoweredScene, mesh scenelower.Mesh, primIndex int, baryU, baryV float32, geometric vmath.Vec3) vmath.Vec3 {
	i0 := scene.Indices[mesh.IndexStart+3*primIndex]
	i1 := scene.Indices[mesh.IndexStart+3*primIndex+1]
	i2 := scene.Indices[mesh.IndexStart+3*primIndex+2]
	n0 := scene.Vertices[i0].Normal
	n1 := scene.Vertices[i1].Normal
	n2 := scene.Vertices[i2].Normal
	if n0 == (vmath.Vec3{}) && n1 == (vmath.Vec3{}) && n2 == (vmath.Vec3{}) {
		return geometric
	}
	w := 1 - baryU - baryV
	n := n0.Mul(w).Add(n1.Mul(baryU)).Add(n2.Mul(baryV))
	if n.LengthSqr() == 0 {
		return geometric
	}
	return n.Normalize()
}
