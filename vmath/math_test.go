package vmath

import (
	"math"
	"testing"
)

func approxVec3(a, b Vec3, tolerance float32) bool {
	return math32Abs(a.X-b.X) <= tolerance && math32Abs(a.Y-b.Y) <= tolerance && math32Abs(a.Z-b.Z) <= tolerance
}

func math32Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestVec3ReflectAboutSurfaceNormal(t *testing.T) {
	// A ray coming straight down onto a flat surface reflects straight back up.
	v := Vec3{X: 0, Y: -1, Z: 0}
	n := Vec3{X: 0, Y: 1, Z: 0}
	got := v.Reflect(n)
	want := Vec3{X: 0, Y: 1, Z: 0}
	if !approxVec3(got, want, 1e-5) {
		t.Errorf("Reflect(%v, %v) = %v, want %v", v, n, got, want)
	}
}

func TestVec3RefractTotalInternalReflection(t *testing.T) {
	// A ray grazing a surface at a shallow angle going from a dense to a
	// sparse medium (eta > 1) exceeds the critical angle and refracts to
	// nothing.
	v := Vec3{X: 0.99, Y: 0.14, Z: 0}.Normalize()
	n := Vec3{X: 0, Y: 1, Z: 0}
	_, ok := v.Refract(n, 1.5)
	if ok {
		t.Error("Refract: expected total internal reflection at a glancing angle with eta=1.5, got a valid refraction")
	}
}

func TestVec3RefractStraightThroughIsUnbent(t *testing.T) {
	// v points away from the surface, straight along the normal; at eta=1
	// (matched indices) the transmitted direction just continues the
	// original propagation, i.e. -v, with no bending.
	n := Vec3{X: 0, Y: 1, Z: 0}
	v := n
	wt, ok := v.Refract(n, 1)
	if !ok {
		t.Fatal("Refract: expected a valid refraction at normal incidence")
	}
	want := v.Negate()
	if !approxVec3(wt, want, 1e-5) {
		t.Errorf("Refract at eta=1, normal incidence: got %v, want unbent %v", wt, want)
	}
}

func TestMat4InverseRoundTripsAnInstanceTransform(t *testing.T) {
	// Mirrors how scenelower composes an instance transform: translate,
	// rotate, then non-uniformly scale.
	m := Mat4Translation(Vec3{X: 2, Y: -1, Z: 5}).
		Mul(Mat4RotationAxis(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi)/3)).
		Mul(Mat4Scale(Vec3{X: 1, Y: 2, Z: 0.5}))

	p := Vec3{X: 1, Y: 1, Z: 1}
	roundTripped := m.Inverse().MulVec3(m.MulVec3(p))
	if !approxVec3(roundTripped, p, 1e-3) {
		t.Errorf("Inverse round trip: got %v, want %v", roundTripped, p)
	}
}

func TestMat4NormalMatrixStaysPerpendicularUnderNonUniformScale(t *testing.T) {
	// A sphere instance scaled only along X: a normal on the equator, at
	// direction (0,1,0), must stay (0,1,0) under the X-only scale, not get
	// dragged by it the way MulDirection would drag a tangent vector.
	m := Mat4Scale(Vec3{X: 3, Y: 1, Z: 1})
	n := Vec3{X: 0, Y: 1, Z: 0}

	transformed := m.NormalMatrix().MulDirection(n).Normalize()
	if !approxVec3(transformed, n, 1e-5) {
		t.Errorf("NormalMatrix: got %v, want unchanged %v", transformed, n)
	}
}

func TestMat4MulDirectionIgnoresTranslation(t *testing.T) {
	m := Mat4Translation(Vec3{X: 10, Y: 10, Z: 10})
	dir := Vec3{X: 1, Y: 0, Z: 0}
	got := m.MulDirection(dir)
	if !approxVec3(got, dir, 1e-5) {
		t.Errorf("MulDirection under pure translation: got %v, want unchanged %v", got, dir)
	}
}

func TestMat4LookAtPlacesEyeAtOrigin(t *testing.T) {
	eye := Vec3{X: 0, Y: 0, Z: 5}
	target := Vec3{X: 0, Y: 0, Z: 0}
	m := Mat4LookAt(eye, target, Vec3Up)

	got := m.MulVec3(eye)
	if !approxVec3(got, Vec3{}, 1e-3) {
		t.Errorf("LookAt: expected eye to map to the view-space origin, got %v", got)
	}
}

func TestONBRoundTripsWorldToLocal(t *testing.T) {
	basis := NewONB(Vec3{X: 0, Y: 0, Z: 1})
	v := Vec3{X: 0.3, Y: -0.6, Z: 0.74}.Normalize()

	roundTripped := basis.ToWorld(basis.ToLocal(v))
	if !approxVec3(roundTripped, v, 1e-5) {
		t.Errorf("ONB round trip: got %v, want %v", roundTripped, v)
	}
}

func TestAffine3TransformPointMatchesMat4(t *testing.T) {
	m := Mat4Translation(Vec3{X: 1, Y: 2, Z: 3}).Mul(Mat4Scale(Vec3{X: 2, Y: 2, Z: 2}))
	a := Affine3FromMat4(m)

	p := Vec3{X: 1, Y: 1, Z: 1}
	if got, want := a.TransformPoint(p), m.MulVec3(p); !approxVec3(got, want, 1e-5) {
		t.Errorf("Affine3.TransformPoint = %v, want %v (matching Mat4.MulVec3)", got, want)
	}
}

func TestAffine3InverseRoundTrips(t *testing.T) {
	m := Mat4Translation(Vec3{X: -4, Y: 2, Z: 1}).Mul(Mat4RotationAxis(Vec3Up, 1.1))
	a := Affine3FromMat4(m)

	p := Vec3{X: 2, Y: -3, Z: 0.5}
	roundTripped := a.Inverse().TransformPoint(a.TransformPoint(p))
	if !approxVec3(roundTripped, p, 1e-3) {
		t.Errorf("Affine3.Inverse round trip: got %v, want %v", roundTripped, p)
	}
}
