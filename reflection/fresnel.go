package reflection

import "github.com/chewxy/math32"

// FresnelKind discriminates a Fresnel union.
type FresnelKind int32

const (
	FresnelNoOp FresnelKind = iota
	FresnelDielectricKind
	FresnelConductorKind
)

// Fresnel is a no-op (always reflects with factor 1, used by uncoated
// mirrors), a dielectric interface (etaI/etaT real indices of refraction),
// or a conductor interface (complex index of refraction per channel).
type Fresnel struct {
	Kind FresnelKind

	// FresnelDielectricKind
	EtaI, EtaT float32

	// FresnelConductorKind
	Eta, K [3]float32
}

func NewNoOpFresnel() Fresnel {
	return Fresnel{Kind: FresnelNoOp}
}

func NewDielectricFresnel(etaI, etaT float32) Fresnel {
	return Fresnel{Kind: FresnelDielectricKind, EtaI: etaI, EtaT: etaT}
}

func NewConductorFresnel(eta, k [3]float32) Fresnel {
	return Fresnel{Kind: FresnelConductorKind, Eta: eta, K: k}
}

// Evaluate returns the per-channel reflectance for the given cosine of the
// incident angle (measured from the surface normal, on the incoming side).
func (f Fresnel) Evaluate(cosThetaI float32) [3]float32 {
	switch f.Kind {
	case FresnelNoOp:
		return [3]float32{1, 1, 1}
	case FresnelDielectricKind:
		r := frDielectric(cosThetaI, f.EtaI, f.EtaT)
		return [3]float32{r, r, r}
	case FresnelConductorKind:
		return [3]float32{
			frConductor(cosThetaI, 1, f.Eta[0], f.K[0]),
			frConductor(cosThetaI, 1, f.Eta[1], f.K[1]),
			frConductor(cosThetaI, 1, f.Eta[2], f.K[2]),
		}
	default:
		return [3]float32{}
	}
}

// frDielectric computes unpolarized Fresnel reflectance for a dielectric
// interface, handling the incident ray being on either side.
func frDielectric(cosThetaI, etaI, etaT float32) float32 {
	cosThetaI = clamp(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}
	sin2ThetaI := max32(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := (etaI / etaT) * (etaI / etaT) * sin2ThetaI
	if sin2ThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math32.Sqrt(max32(0, 1-sin2ThetaT))

	rParl := ((etaT * cosThetaI) - (etaI * cosThetaT)) / ((etaT * cosThetaI) + (etaI * cosThetaT))
	rPerp := ((etaI * cosThetaI) - (etaT * cosThetaT)) / ((etaI * cosThetaI) + (etaT * cosThetaT))
	return (rParl*rParl + rPerp*rPerp) / 2
}

// frConductor computes unpolarized Fresnel reflectance at a conductor
// interface with complex relative index of refraction eta - i*k.
func frConductor(cosThetaI, etaI, eta, k float32) float32 {
	cosThetaI = clamp(cosThetaI, -1, 1)
	cos2ThetaI := cosThetaI * cosThetaI
	sin2ThetaI := 1 - cos2ThetaI

	eta2 := (eta / etaI) * (eta / etaI)
	k2 := (k / etaI) * (k / etaI)

	t0 := eta2 - k2 - sin2ThetaI
	a2PlusB2 := math32.Sqrt(max32(0, t0*t0+4*eta2*k2))
	t1 := a2PlusB2 + cos2ThetaI
	a := math32.Sqrt(max32(0, (a2PlusB2+t0)*0.5))
	t2 := 2 * a * cosThetaI
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2ThetaI*a2PlusB2 + sin2ThetaI*sin2ThetaI
	t4 := t2 * sin2ThetaI
	rp := rs * (t3 - t4) / (t3 + t4)

	return (rs + rp) / 2
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
