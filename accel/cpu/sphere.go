package cpu

import (
	"github.com/chewxy/math32"

	"github.com/hatoo/rene-sub000/vmath"
)

// unitSphereHit intersects a ray (already in the sphere's own object
// space, where the sphere is the unit sphere centered at the origin)
// analytically. u,v are the standard spherical (φ/2π, θ/π) parameterization
// used to sample a texture over the sphere's surface.
func unitSphereHit(origin, dir vmath.Vec3, tMin, tMax float32) (t, u, v float32, ok bool) {
	a := dir.Dot(dir)
	oc := origin
	b := oc.Dot(dir)
	c := oc.Dot(oc) - 1
	disc := b*b - a*c
	if disc < 0 {
		return 0, 0, 0, false
	}
	sqrtDisc := math32.Sqrt(disc)

	root := (-b - sqrtDisc) / a
	if root < tMin || root > tMax {
		root = (-b + sqrtDisc) / a
		if root < tMin || root > tMax {
			return 0, 0, 0, false
		}
	}
	p := origin.Add(dir.Mul(root))
	phi := math32.Atan2(p.Z, p.X)
	if phi < 0 {
		phi += 2 * math32.Pi
	}
	theta := math32.Acos(vmath.Clamp(p.Y, -1, 1))
	return root, phi / (2 * math32.Pi), theta / math32.Pi, true
}
