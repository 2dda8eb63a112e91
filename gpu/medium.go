package gpu

import "github.com/chewxy/math32"

// MediumKind discriminates a Medium union.
type MediumKind int32

const (
	MediumVacuum MediumKind = iota
	MediumHomogeneous
)

// Medium is vacuum (no participating media interaction) or a homogeneous
// medium with constant absorption/scattering coefficients and a
// Henyey-Greenstein asymmetry parameter.
type Medium struct {
	Kind MediumKind

	// MediumHomogeneous
	SigmaA [3]float32
	SigmaS [3]float32
	G      float32
}

func NewVacuumMedium() Medium {
	return Medium{Kind: MediumVacuum}
}

func NewHomogeneousMedium(sigmaA, sigmaS [3]float32, g float32) Medium {
	return Medium{Kind: MediumHomogeneous, SigmaA: sigmaA, SigmaS: sigmaS, G: g}
}

func (m Medium) sigmaT() [3]float32 {
	return [3]float32{
		m.SigmaA[0] + m.SigmaS[0],
		m.SigmaA[1] + m.SigmaS[1],
		m.SigmaA[2] + m.SigmaS[2],
	}
}

// Tr returns the Beer-Lambert transmittance over a segment of the given
// distance, per RGB channel.
func (m Medium) Tr(distance float32) [3]float32 {
	if m.Kind == MediumVacuum {
		return [3]float32{1, 1, 1}
	}
	st := m.sigmaT()
	return [3]float32{
		math32.Exp(-st[0] * distance),
		math32.Exp(-st[1] * distance),
		math32.Exp(-st[2] * distance),
	}
}

// SampleDistance draws a free-flight distance along a ray bounded by
// rayLength using spectral multiple importance sampling: a channel is
// picked uniformly among the three RGB channels (via chIdx, drawn by the
// caller), then the distance is drawn from that channel's
// exponential distribution. Returns the sampled distance, whether it lies
// strictly before rayLength (a real medium-interaction vertex as opposed to
// reaching the surface first), and the throughput weight to apply.
func (m Medium) SampleDistance(u float32, chIdx int, rayLength float32) (dist float32, hitMedium bool, weight [3]float32) {
	st := m.sigmaT()
	sigma := st[chIdx]
	if sigma <= 0 {
		return rayLength, false, m.Tr(rayLength)
	}
	dist = -math32.Log(1-u) / sigma
	if dist >= rayLength {
		tr := m.Tr(rayLength)
		pdf := (tr[0] + tr[1] + tr[2]) / 3
		if pdf <= 0 {
			return rayLength, false, [3]float32{1, 1, 1}
		}
		return rayLength, false, [3]float32{tr[0] / pdf, tr[1] / pdf, tr[2] / pdf}
	}
	tr := m.Tr(dist)
	density := [3]float32{st[0] * tr[0], st[1] * tr[1], st[2] * tr[2]}
	pdf := (density[0] + density[1] + density[2]) / 3
	if pdf <= 0 {
		return dist, true, [3]float32{1, 1, 1}
	}
	scatter := m.SigmaS
	return dist, true, [3]float32{
		tr[0] * scatter[0] / pdf,
		tr[1] * scatter[1] / pdf,
		tr[2] * scatter[2] / pdf,
	}
}

// PhaseHG evaluates the Henyey-Greenstein phase function for the given
// cosine of the scattering angle and returns its density per steradian.
func (m Medium) PhaseHG(cosTheta float32) float32 {
	g := m.G
	denom := 1 + g*g + 2*g*cosTheta
	if denom <= 0 {
		return 0
	}
	return (1 - g*g) / (4 * math32.Pi * denom * math32.Sqrt(denom))
}
