package reflection

import (
	"github.com/chewxy/math32"
	"github.com/hatoo/rene-sub000/vmath"
)

// BxDFKind discriminates the BxDF union. All vectors passed to and from a
// BxDF's methods are in local shading space (z = shading normal).
type BxDFKind int32

const (
	BxDFLambertian BxDFKind = iota
	BxDFFresnelSpecular
	BxDFFresnelBlend
	BxDFMicrofacetReflection
)

// BxDF is one reflectance/transmittance lobe. Lambertian and
// microfacet-reflection are diffuse/glossy; Fresnel-specular is a delta
// distribution (f and the continuous pdf are both zero; all its energy is
// returned only through SampleF).
type BxDF struct {
	Kind BxDFKind

	// BxDFLambertian
	Albedo vmath.Vec3

	// BxDFFresnelSpecular
	ReflectColor   vmath.Vec3
	TransmitColor  vmath.Vec3
	EtaA, EtaB     float32

	// BxDFFresnelBlend
	DiffuseColor  vmath.Vec3
	SpecularColor vmath.Vec3
	Distribution  TrowbridgeReitz

	// BxDFMicrofacetReflection
	ReflectColorMF vmath.Vec3
	Fr             Fresnel
	DistributionMF TrowbridgeReitz
}

func NewLambertian(albedo vmath.Vec3) BxDF {
	return BxDF{Kind: BxDFLambertian, Albedo: albedo}
}

func NewFresnelSpecular(reflectColor, transmitColor vmath.Vec3, etaA, etaB float32) BxDF {
	return BxDF{Kind: BxDFFresnelSpecular, ReflectColor: reflectColor, TransmitColor: transmitColor, EtaA: etaA, EtaB: etaB}
}

func NewFresnelBlend(diffuse, specular vmath.Vec3, dist TrowbridgeReitz) BxDF {
	return BxDF{Kind: BxDFFresnelBlend, DiffuseColor: diffuse, SpecularColor: specular, Distribution: dist}
}

func NewMicrofacetReflection(reflectColor vmath.Vec3, fr Fresnel, dist TrowbridgeReitz) BxDF {
	return BxDF{Kind: BxDFMicrofacetReflection, ReflectColorMF: reflectColor, Fr: fr, DistributionMF: dist}
}

// MatchKind returns the behavior bitset of a variant, independent of any
// particular instance's parameters.
func (b BxDF) MatchKind() Kind {
	switch b.Kind {
	case BxDFLambertian:
		return Reflection | Diffuse
	case BxDFFresnelSpecular:
		return Reflection | Transmission | Specular
	case BxDFFresnelBlend:
		return Reflection | Diffuse | Glossy
	case BxDFMicrofacetReflection:
		return Reflection | Diffuse | Glossy
	default:
		return 0
	}
}

// F evaluates the lobe for a (wo, wi) pair in local space. Specular lobes
// always return zero here: their contribution only ever reaches a path
// through SampleF.
func (b BxDF) F(wo, wi vmath.Vec3) vmath.Vec3 {
	switch b.Kind {
	case BxDFLambertian:
		return b.Albedo.Mul(1 / math32.Pi)
	case BxDFFresnelSpecular:
		return vmath.Vec3{}
	case BxDFFresnelBlend:
		return b.fresnelBlendF(wo, wi)
	case BxDFMicrofacetReflection:
		return b.microfacetF(wo, wi)
	default:
		return vmath.Vec3{}
	}
}

func (b BxDF) fresnelBlendF(wo, wi vmath.Vec3) vmath.Vec3 {
	diffuse := b.DiffuseColor.Mul(28.0 / (23.0 * math32.Pi)).
		MulVec(vmath.Vec3{X: 1, Y: 1, Z: 1}.Sub(b.SpecularColor)).
		Mul((1 - schlickWeight(vmath.AbsCosTheta(wi)/2)) * (1 - schlickWeight(vmath.AbsCosTheta(wo)/2)))
	wh := wi.Add(wo)
	if wh.LengthSqr() == 0 {
		return vmath.Vec3{}
	}
	wh = wh.Normalize()
	d := b.Distribution.D(wh)
	cosine := max32(vmath.AbsCosTheta(wi), vmath.AbsCosTheta(wo))
	if cosine == 0 {
		return diffuse
	}
	specular := schlickFresnel(b.SpecularColor, wi.Dot(wh)).Mul(d / (4 * wi.Dot(wh) * cosine * 2))
	return diffuse.Add(specular)
}

func (b BxDF) microfacetF(wo, wi vmath.Vec3) vmath.Vec3 {
	cosThetaO := vmath.AbsCosTheta(wo)
	cosThetaI := vmath.AbsCosTheta(wi)
	wh := wi.Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wh.LengthSqr() == 0 {
		return vmath.Vec3{}
	}
	wh = wh.Normalize()
	fr := b.Fr.Evaluate(wi.Dot(wh.FaceForward(vmath.Vec3{Z: 1})))
	d := b.DistributionMF.D(wh)
	g := b.DistributionMF.G(wo, wi)
	scale := d * g / (4 * cosThetaI * cosThetaO)
	return vmath.Vec3{X: fr[0], Y: fr[1], Z: fr[2]}.MulVec(b.ReflectColorMF).Mul(scale)
}

// SampleF draws a direction wi given outgoing direction wo and up to three
// uniform random numbers in [0,1). It returns the sampled direction, the
// pdf of having sampled it, the lobe value at (wo, wi), the specific kind
// bits of the sample actually taken, and false when the lobe produced no
// usable direction (total internal reflection, a microfacet reflection that
// lands on the wrong side, or wo in the surface plane for microfacet
// reflection).
func (b BxDF) SampleF(wo vmath.Vec3, u1, u2, u3 float32) (wi vmath.Vec3, pdf float32, f vmath.Vec3, kind Kind, ok bool) {
	switch b.Kind {
	case BxDFLambertian:
		wi = cosineSampleHemisphere(u1, u2)
		if wo.Z < 0 {
			wi.Z = -wi.Z
		}
		return wi, b.Pdf(wo, wi), b.F(wo, wi), b.MatchKind(), true
	case BxDFFresnelSpecular:
		return b.sampleFresnelSpecular(wo, u1, u2)
	case BxDFFresnelBlend:
		return b.sampleFresnelBlend(wo, u1, u2, u3)
	case BxDFMicrofacetReflection:
		return b.sampleMicrofacetReflection(wo, u1, u2)
	default:
		return vmath.Vec3{}, 0, vmath.Vec3{}, 0, false
	}
}

func (b BxDF) sampleFresnelSpecular(wo vmath.Vec3, u1, u2 float32) (vmath.Vec3, float32, vmath.Vec3, Kind, bool) {
	fr := frDielectric(vmath.CosTheta(wo), b.EtaA, b.EtaB)
	if u1 < fr {
		wi := vmath.Vec3{X: -wo.X, Y: -wo.Y, Z: wo.Z}
		p := fr
		f := b.ReflectColor.Mul(fr / vmath.AbsCosTheta(wi))
		return wi, p, f, Reflection | Specular, true
	}
	// Transmission: figure out which side wo is on so eta is entering vs
	// leaving, matching the convention used throughout this renderer
	// (normal assumed (0,0,1) in local space).
	entering := vmath.CosTheta(wo) > 0
	etaI, etaT := b.EtaA, b.EtaB
	n := vmath.Vec3{Z: 1}
	if !entering {
		etaI, etaT = etaT, etaI
		n = vmath.Vec3{Z: -1}
	}
	wi, refracted := wo.Refract(n, etaI/etaT)
	if !refracted {
		return vmath.Vec3{}, 0, vmath.Vec3{}, 0, false
	}
	p := 1 - fr
	ft := b.TransmitColor.Mul((1 - fr) / vmath.AbsCosTheta(wi))
	ft = ft.Mul((etaI * etaI) / (etaT * etaT))
	return wi, p, ft, Transmission | Specular, true
}

func (b BxDF) sampleFresnelBlend(wo vmath.Vec3, u1, u2, u3 float32) (vmath.Vec3, float32, vmath.Vec3, Kind, bool) {
	var wi vmath.Vec3
	if u1 < 0.5 {
		wi = cosineSampleHemisphere(u2, u3)
		if wo.Z < 0 {
			wi.Z = -wi.Z
		}
	} else {
		wh := b.Distribution.SampleWh(wo, u2, u3)
		wi = wo.Negate().Reflect(wh)
		if !vmath.SameHemisphere(wo, wi) {
			return vmath.Vec3{}, 0, vmath.Vec3{}, 0, false
		}
	}
	return wi, b.Pdf(wo, wi), b.F(wo, wi), b.MatchKind(), true
}

func (b BxDF) sampleMicrofacetReflection(wo vmath.Vec3, u1, u2 float32) (vmath.Vec3, float32, vmath.Vec3, Kind, bool) {
	if wo.Z == 0 {
		return vmath.Vec3{}, 0, vmath.Vec3{}, 0, false
	}
	wh := b.DistributionMF.SampleWh(wo, u1, u2)
	wi := wo.Negate().Reflect(wh)
	if !vmath.SameHemisphere(wo, wi) {
		return vmath.Vec3{}, 0, vmath.Vec3{}, 0, false
	}
	return wi, b.Pdf(wo, wi), b.F(wo, wi), b.MatchKind(), true
}

// Pdf returns the continuous-sampling pdf of wi given wo; zero for
// specular lobes, consistent with their delta-distribution f().
func (b BxDF) Pdf(wo, wi vmath.Vec3) float32 {
	switch b.Kind {
	case BxDFLambertian:
		if !vmath.SameHemisphere(wo, wi) {
			return 0
		}
		return vmath.AbsCosTheta(wi) / math32.Pi
	case BxDFFresnelSpecular:
		return 0
	case BxDFFresnelBlend:
		if !vmath.SameHemisphere(wo, wi) {
			return 0
		}
		wh := wo.Add(wi).Normalize()
		pdfWh := b.Distribution.Pdf(wo, wh)
		return 0.5*(vmath.AbsCosTheta(wi)/math32.Pi) + 0.5*pdfWh/(4*wo.Dot(wh))
	case BxDFMicrofacetReflection:
		if !vmath.SameHemisphere(wo, wi) {
			return 0
		}
		wh := wo.Add(wi).Normalize()
		return b.DistributionMF.Pdf(wo, wh) / (4 * wo.Dot(wh))
	default:
		return 0
	}
}

func cosineSampleHemisphere(u1, u2 float32) vmath.Vec3 {
	d := concentricSampleDisk(u1, u2)
	z := math32.Sqrt(max32(0, 1-d.X*d.X-d.Y*d.Y))
	return vmath.Vec3{X: d.X, Y: d.Y, Z: z}
}

func concentricSampleDisk(u1, u2 float32) vmath.Vec2 {
	ox := 2*u1 - 1
	oy := 2*u2 - 1
	if ox == 0 && oy == 0 {
		return vmath.Vec2{}
	}
	var r, theta float32
	if math32.Abs(ox) > math32.Abs(oy) {
		r = ox
		theta = (math32.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (math32.Pi / 2) - (math32.Pi/4)*(ox/oy)
	}
	return vmath.Vec2{X: r * math32.Cos(theta), Y: r * math32.Sin(theta)}
}

func schlickWeight(cosTheta float32) float32 {
	m := clamp(1-cosTheta, 0, 1)
	return m * m * m * m * m
}

func schlickFresnel(r0 vmath.Vec3, cosTheta float32) vmath.Vec3 {
	w := schlickWeight(cosTheta)
	return r0.Add(vmath.Vec3{X: 1, Y: 1, Z: 1}.Sub(r0).Mul(w))
}
