package cpu

import "github.com/hatoo/rene-sub000/vmath"

type aabb struct {
	min, max vmath.Vec3
}

func emptyAABB() aabb {
	const inf = 3.0e38
	return aabb{min: vmath.Vec3{X: inf, Y: inf, Z: inf}, max: vmath.Vec3{X: -inf, Y: -inf, Z: -inf}}
}

func (b aabb) extend(p vmath.Vec3) aabb {
	return aabb{min: minVec(b.min, p), max: maxVec(b.max, p)}
}

func (b aabb) union(o aabb) aabb {
	return aabb{min: minVec(b.min, o.min), max: maxVec(b.max, o.max)}
}

func (b aabb) centroid() vmath.Vec3 {
	return b.min.Add(b.max).Mul(0.5)
}

func (b aabb) largestAxis() int {
	d := b.max.Sub(b.min)
	if d.X > d.Y && d.X > d.Z {
		return 0
	}
	if d.Y > d.Z {
		return 1
	}
	return 2
}

func axisOf(v vmath.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// intersect follows the same slab method as the teacher's rayAABBIntersect,
// generalized to a caller-supplied [tMin,tMax] range.
func (b aabb) intersect(origin, invDir vmath.Vec3, tMin, tMax float32) bool {
	t1 := (b.min.X - origin.X) * invDir.X
	t2 := (b.max.X - origin.X) * invDir.X
	t3 := (b.min.Y - origin.Y) * invDir.Y
	t4 := (b.max.Y - origin.Y) * invDir.Y
	t5 := (b.min.Z - origin.Z) * invDir.Z
	t6 := (b.max.Z - origin.Z) * invDir.Z

	tmin := max32(max32(min32(t1, t2), min32(t3, t4)), min32(t5, t6))
	tmax := min32(min32(max32(t1, t2), max32(t3, t4)), max32(t5, t6))

	tmin = max32(tmin, tMin)
	tmax = min32(tmax, tMax)
	return tmax >= tmin && tmax >= 0
}

func minVec(a, b vmath.Vec3) vmath.Vec3 {
	return vmath.Vec3{X: min32(a.X, b.X), Y: min32(a.Y, b.Y), Z: min32(a.Z, b.Z)}
}

func maxVec(a, b vmath.Vec3) vmath.Vec3 {
	return vmath.Vec3{X: max32(a.X, b.X), Y: max32(a.Y, b.Y), Z: max32(a.Z, b.Z)}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
