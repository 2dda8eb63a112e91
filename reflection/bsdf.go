package reflection

import "github.com/hatoo/rene-sub000/vmath"

// MaxBxDFs bounds how many lobes a single BSDF can hold, matching the
// material model's richest variant (Fresnel blend over microfacet plus a
// diffuse base, or similar small combinations) with headroom.
const MaxBxDFs = 8

// BSDF groups up to MaxBxDFs BxDFs sharing one geometric normal and
// orthonormal shading frame. All its methods take and return world-space
// directions; the local-frame transform happens internally.
type BSDF struct {
	basis  vmath.ONB
	ng     vmath.Vec3
	bxdfs  [MaxBxDFs]BxDF
	length int
}

// Clear resets the container to empty and installs a new shading frame.
func (b *BSDF) Clear(geometricNormal, shadingNormal vmath.Vec3) {
	b.ng = geometricNormal
	b.basis = vmath.NewONB(shadingNormal)
	b.length = 0
}

// Add appends bxdf to the container. Past MaxBxDFs it is silently dropped,
// matching a fixed-capacity device buffer's behavior.
func (b *BSDF) Add(bxdf BxDF) {
	if b.length >= MaxBxDFs {
		return
	}
	b.bxdfs[b.length] = bxdf
	b.length++
}

// Len reports how many lobes are currently installed.
func (b *BSDF) Len() int {
	return b.length
}

// Contains reports whether any installed lobe's kind mask has every bit of
// want set.
func (b *BSDF) Contains(want Kind) bool {
	for i := 0; i < b.length; i++ {
		if b.bxdfs[i].MatchKind().Has(want) {
			return true
		}
	}
	return false
}

func (b *BSDF) toLocal(v vmath.Vec3) vmath.Vec3 { return b.basis.ToLocal(v) }
func (b *BSDF) toWorld(v vmath.Vec3) vmath.Vec3 { return b.basis.ToWorld(v) }

// F evaluates the sum of every lobe whose reflect/transmit classification
// (by sign agreement of wi/wo against the geometric normal) matches the
// direction pair, both given in world space.
func (b *BSDF) F(woWorld, wiWorld vmath.Vec3) vmath.Vec3 {
	wo := b.toLocal(woWorld)
	wi := b.toLocal(wiWorld)
	if wo.Z == 0 {
		return vmath.Vec3{}
	}
	reflect := wiWorld.Dot(b.ng)*woWorld.Dot(b.ng) > 0
	sum := vmath.Vec3{}
	for i := 0; i < b.length; i++ {
		k := b.bxdfs[i].MatchKind()
		isReflect := k.Has(Reflection)
		isTransmit := k.Has(Transmission)
		if (reflect && isReflect) || (!reflect && isTransmit) {
			sum = sum.Add(b.bxdfs[i].F(wo, wi))
		}
	}
	return sum
}

// Pdf averages the continuous pdf of every installed lobe.
func (b *BSDF) Pdf(woWorld, wiWorld vmath.Vec3) float32 {
	if b.length == 0 {
		return 0
	}
	wo := b.toLocal(woWorld)
	wi := b.toLocal(wiWorld)
	var sum float32
	for i := 0; i < b.length; i++ {
		sum += b.bxdfs[i].Pdf(wo, wi)
	}
	return sum / float32(b.length)
}

// SampleResult is the outcome of BSDF.SampleF.
type SampleResult struct {
	Wi    vmath.Vec3
	Pdf   float32
	F     vmath.Vec3
	Kind  Kind
	Valid bool
}

// SampleF picks one installed lobe uniformly (one-sample MIS, u1 decides
// which), delegates sampling to it in local space, and divides the
// returned pdf by the lobe count. u2,u3,u4 are passed through to the
// chosen lobe's own SampleF.
func (b *BSDF) SampleF(woWorld vmath.Vec3, u1, u2, u3, u4 float32) SampleResult {
	if b.length == 0 {
		return SampleResult{}
	}
	idx := int(u1 * float32(b.length))
	if idx >= b.length {
		idx = b.length - 1
	}
	wo := b.toLocal(woWorld)
	wiLocal, pdf, f, kind, ok := b.bxdfs[idx].SampleF(wo, u2, u3, u4)
	if !ok || pdf == 0 {
		return SampleResult{}
	}
	if !kind.Has(Specular) {
		for i := 0; i < b.length; i++ {
			if i == idx {
				continue
			}
			k := b.bxdfs[i].MatchKind()
			if k.Has(Specular) {
				continue
			}
			pdf += b.bxdfs[i].Pdf(wo, wiLocal)
			if sameHemiReflectTransmit(kind, wo, wiLocal) {
				f = f.Add(b.bxdfs[i].F(wo, wiLocal))
			}
		}
	}
	return SampleResult{
		Wi:    b.toWorld(wiLocal),
		Pdf:   pdf / float32(b.length),
		F:     f,
		Kind:  kind,
		Valid: true,
	}
}

func sameHemiReflectTransmit(kind Kind, wo, wi vmath.Vec3) bool {
	if kind.Has(Reflection) {
		return vmath.SameHemisphere(wo, wi)
	}
	return !vmath.SameHemisphere(wo, wi)
}
