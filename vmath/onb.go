package vmath

import "github.com/chewxy/math32"

// ONB is an orthonormal basis built around a single reference vector,
// used to transform BSDF-local directions (z-up) into world space and back.
type ONB struct {
	U, V, W Vec3
}

// NewONB builds an orthonormal basis whose W axis equals n (normalized).
func NewONB(n Vec3) ONB {
	w := n.Normalize()
	var a Vec3
	if math32.Abs(w.X) > 0.9 {
		a = Vec3{0, 1, 0}
	} else {
		a = Vec3{1, 0, 0}
	}
	v := w.Cross(a).Normalize()
	u := w.Cross(v)
	return ONB{U: u, V: v, W: w}
}

// ToWorld transforms a vector from local (ONB) space to world space.
func (b ONB) ToWorld(v Vec3) Vec3 {
	return b.U.Mul(v.X).Add(b.V.Mul(v.Y)).Add(b.W.Mul(v.Z))
}

// ToLocal transforms a vector from world space to local (ONB) space.
func (b ONB) ToLocal(v Vec3) Vec3 {
	return Vec3{X: v.Dot(b.U), Y: v.Dot(b.V), Z: v.Dot(b.W)}
}

// CosTheta returns the cosine of the angle between v and the basis normal,
// for a vector already expressed in local (ONB) space.
func CosTheta(v Vec3) float32  { return v.Z }
func Cos2Theta(v Vec3) float32 { return v.Z * v.Z }
func AbsCosTheta(v Vec3) float32 {
	return math32.Abs(v.Z)
}

func Sin2Theta(v Vec3) float32 {
	return max32(0, 1-Cos2Theta(v))
}

func SinTheta(v Vec3) float32 {
	return math32.Sqrt(Sin2Theta(v))
}

func TanTheta(v Vec3) float32 {
	return SinTheta(v) / CosTheta(v)
}

func Tan2Theta(v Vec3) float32 {
	return Sin2Theta(v) / Cos2Theta(v)
}

func CosPhi(v Vec3) float32 {
	sinTheta := SinTheta(v)
	if sinTheta == 0 {
		return 1
	}
	return Clamp(v.X/sinTheta, -1, 1)
}

func SinPhi(v Vec3) float32 {
	sinTheta := SinTheta(v)
	if sinTheta == 0 {
		return 0
	}
	return Clamp(v.Y/sinTheta, -1, 1)
}

// SameHemisphere reports whether two local-space vectors lie on the same
// side of the z=0 plane.
func SameHemisphere(a, b Vec3) bool {
	return a.Z*b.Z > 0
}
