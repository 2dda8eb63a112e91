// Package reflection implements the BSDF container and its BxDFs, Fresnel
// terms and microfacet distribution described by the scene's material
// model: Lambertian reflection, Fresnel-specular transmission, Fresnel
// blend, and Trowbridge-Reitz microfacet reflection.
package reflection

// Kind is a bitset classifying a BxDF's behavior, used both to select which
// lobes participate in a given f() evaluation and to decide whether a
// hit point has any non-specular ("diffuse") component worth sampling a
// light for.
type Kind uint8

const (
	Reflection Kind = 1 << iota
	Transmission
	Diffuse
	Glossy
	Specular
)

// Has reports whether all bits of want are set in k.
func (k Kind) Has(want Kind) bool {
	return k&want == want
}

// MatchesAny reports whether k shares any bit with mask.
func (k Kind) MatchesAny(mask Kind) bool {
	return k&mask != 0
}

// AllKinds is the union of every Kind bit. BSDF.F and BSDF.SampleF take no
// kind mask; they always consider every installed lobe.
const AllKinds = Reflection | Transmission | Diffuse | Glossy | Specular
