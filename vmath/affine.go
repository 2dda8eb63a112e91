package vmath

// Affine3 is a row-major 3x4 affine transform (3 rows, 4 columns: rotation,
// scale and shear in the 3x3 block, translation in the last column), the
// layout an instance descriptor's transform occupies in a TLAS build.
type Affine3 [3][4]float32

// Affine3FromMat4 extracts the affine part of a Mat4 built by the DSL's
// transform composition (Mat4Translation/Mat4Scale/Mat4RotationAxis,
// composed with Mul). Those store a row vector's translation in row 3 and
// apply as v*M, the opposite convention from Affine3's TransformPoint,
// which dots a row of the matrix against a column vector plus a translation
// in the last column. Transposing reconciles the two: M's row 3
// (translation) becomes a column, and M's linear 3x3 block — orthogonal for
// every rotation Mat4RotationAxis builds, so transposing it is exactly
// inverting it for the rotation part, a no-op for the symmetric scale
// part — lands where TransformPoint expects it.
func Affine3FromMat4(m Mat4) Affine3 {
	t := m.Transpose()
	return Affine3{t[0], t[1], t[2]}
}

// ToMat4 is Affine3FromMat4's inverse: it rebuilds a row-vector-convention
// Mat4 that composes correctly with the rest of the package (Mul, Inverse)
// and round-trips through Affine3FromMat4 back to a.
func (a Affine3) ToMat4() Mat4 {
	return Mat4{
		{a[0][0], a[1][0], a[2][0], 0},
		{a[0][1], a[1][1], a[2][1], 0},
		{a[0][2], a[1][2], a[2][2], 0},
		{a[0][3], a[1][3], a[2][3], 1},
	}
}

// TransformPoint applies the affine transform to a point (implicit w=1).
func (a Affine3) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: a[0][0]*p.X + a[0][1]*p.Y + a[0][2]*p.Z + a[0][3],
		Y: a[1][0]*p.X + a[1][1]*p.Y + a[1][2]*p.Z + a[1][3],
		Z: a[2][0]*p.X + a[2][1]*p.Y + a[2][2]*p.Z + a[2][3],
	}
}

// TransformVector applies only the linear (rotation/scale/shear) part.
func (a Affine3) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z,
		Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z,
		Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z,
	}
}

// Inverse returns the affine transform that undoes a, routing through the
// general 4x4 inverse since Affine3 carries no guarantee of orthogonality
// (non-uniform scale and shear are both legal, e.g. a sphere's per-axis
// radius scale).
func (a Affine3) Inverse() Affine3 {
	return Affine3FromMat4(a.ToMat4().Inverse())
}
