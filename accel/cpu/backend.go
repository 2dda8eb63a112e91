// Package cpu is the reference accel.Device backend: a pure-Go BVH over
// triangle meshes and an analytic unit-sphere intersector, with no actual
// GPU buffers anywhere. It exists so the renderer runs without a real
// ray-tracing device driver; a hardware-accelerated backend would
// implement the same accel.Device interface.
package cpu

import (
	"fmt"

	"github.com/hatoo/rene-sub000/accel"
	"github.com/hatoo/rene-sub000/vmath"
)

const sphereBLASHandle accel.BLASHandle = -1

// Backend implements accel.Device.
type Backend struct {
	blases []*triangleBVH
	tlases [][]accel.InstanceDesc
	sphere bool // whether BuildBLASProceduralSphere has ever been called
}

func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) BuildBLASTriangles(mesh accel.TriangleMeshDesc) (accel.BLASHandle, error) {
	if len(mesh.Indices)%3 != 0 {
		return 0, fmt.Errorf("cpu: triangle mesh index count %d not a multiple of 3", len(mesh.Indices))
	}
	bvh := buildTriangleBVH(mesh.Vertices, mesh.Indices)
	b.blases = append(b.blases, bvh)
	return accel.BLASHandle(len(b.blases) - 1), nil
}

func (b *Backend) BuildBLASProceduralSphere() accel.BLASHandle {
	b.sphere = true
	return sphereBLASHandle
}

func (b *Backend) BuildTLAS(instances []accel.InstanceDesc) (accel.TLASHandle, error) {
	cp := make([]accel.InstanceDesc, len(instances))
	copy(cp, instances)
	b.tlases = append(b.tlases, cp)
	return accel.TLASHandle(len(b.tlases) - 1), nil
}

func (b *Backend) TraceRay(tlas accel.TLASHandle, ray vmath.Ray, tMin, tMax float32) accel.HitRecord {
	instances := b.tlases[tlas]
	best := accel.HitRecord{T: tMax}
	found := false

	for _, inst := range instances {
		inv := inst.Transform.Inverse()
		origin := inv.TransformPoint(ray.Origin)
		dir := inv.TransformVector(ray.Direction)

		if inst.BLAS == sphereBLASHandle {
			t, u, v, ok := unitSphereHit(origin, dir, tMin, best.T)
			if !ok {
				continue
			}
			objP := origin.Add(dir.Mul(t))
			worldP := inst.Transform.TransformPoint(objP)
			worldN := transformNormal(inst.Transform, objP)
			best = accel.HitRecord{
				Hit: true, T: t, InstanceIndex: inst.InstanceIndex,
				U: u, V: v, Point: worldP, GeometricNormal: worldN,
			}
			found = true
			continue
		}

		bvh := b.blases[inst.BLAS]
		t, u, v, prim, ok := bvh.intersect(origin, dir, tMin, best.T)
		if !ok {
			continue
		}
		i0 := bvh.indices[3*prim]
		i1 := bvh.indices[3*prim+1]
		i2 := bvh.indices[3*prim+2]
		v0, v1, v2 := bvh.vertices[i0], bvh.vertices[i1], bvh.vertices[i2]
		objN := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		objP := origin.Add(dir.Mul(t))
		worldP := inst.Transform.TransformPoint(objP)
		worldN := transformNormal(inst.Transform, objN)
		best = accel.HitRecord{
			Hit: true, T: t, InstanceIndex: inst.InstanceIndex, PrimitiveIndex: prim,
			U: u, V: v, Point: worldP, GeometricNormal: worldN,
		}
		found = true
	}
	if !found {
		return accel.HitRecord{}
	}
	return best
}

func (b *Backend) TraceShadowRay(tlas accel.TLASHandle, ray vmath.Ray, tMin, tMax float32) bool {
	instances := b.tlases[tlas]
	for _, inst := range instances {
		inv := inst.Transform.Inverse()
		origin := inv.TransformPoint(ray.Origin)
		dir := inv.TransformVector(ray.Direction)

		if inst.BLAS == sphereBLASHandle {
			if _, _, _, ok := unitSphereHit(origin, dir, tMin, tMax); ok {
				return true
			}
			continue
		}
		if b.blases[inst.BLAS].anyHit(origin, dir, tMin, tMax) {
			return true
		}
	}
	return false
}

// transformNormal maps an object-space normal to world space via the
// inverse-transpose of transform's linear block, the standard correction
// needed so normals stay perpendicular to their surface under non-uniform
// scale (e.g. a sphere instance scaled by a non-1 radius).
func transformNormal(transform vmath.Affine3, n vmath.Vec3) vmath.Vec3 {
	inv := transform.Inverse()
	return vmath.Vec3{
		X: inv[0][0]*n.X + inv[1][0]*n.Y + inv[2][0]*n.Z,
		Y: inv[0][1]*n.X + inv[1][1]*n.Y + inv[2][1]*n.Z,
		Z: inv[0][2]*n.X + inv[1][2]*n.Y + inv[2][2]*n.Z,
	}.Normalize()
}
