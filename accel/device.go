// Package accel defines the host ray-tracing API the integrator traces
// rays through: a Device builds bottom-level acceleration structures
// (triangle meshes, and one shared procedural handle for unit spheres)
// and top-level structures over instances of them, then answers closest-
// hit queries. The integrator builds two TLASes over the same BLAS set: a
// main one (every instance) and an emissive-only one (instances whose
// area-light index is non-null), the second used to evaluate light-
// sampling PDFs without walking non-emitting geometry.
package accel

import "github.com/hatoo/rene-sub000/vmath"

// BLASHandle identifies one bottom-level acceleration structure.
type BLASHandle int

// TLASHandle identifies one top-level acceleration structure.
type TLASHandle int

// TriangleMeshDesc describes one triangle mesh's geometry, in the mesh's
// own object space.
type TriangleMeshDesc struct {
	Vertices []vmath.Vec3
	Indices  []uint32
}

// InstanceDesc places one BLAS into a TLAS with an object-to-world
// transform. InstanceIndex is the caller's own payload (an index into its
// own flat instance array), carried through unchanged into HitRecord so
// the integrator can look up material/area-light/medium bindings.
type InstanceDesc struct {
	BLAS          BLASHandle
	Transform     vmath.Affine3
	InstanceIndex int
}

// HitRecord is the result of a closest-hit query. For a triangle hit, U/V
// are barycentric coordinates of the second and third vertex; for a
// sphere hit, U/V are the (φ/2π, θ/π) parameterization used to look up a
// texture's (u,v). PrimitiveIndex is the triangle index (Indices[3*i..])
// for a mesh hit and unused (0) for a sphere hit.
type HitRecord struct {
	Hit             bool
	T               float32
	InstanceIndex   int
	PrimitiveIndex  int
	U, V            float32
	Point           vmath.Vec3
	GeometricNormal vmath.Vec3
}

// Device is the host ray-tracing API contract: build acceleration
// structures once per scene, then trace many rays against them.
type Device interface {
	BuildBLASTriangles(mesh TriangleMeshDesc) (BLASHandle, error)
	// BuildBLASProceduralSphere returns the single shared BLAS handle
	// every unit-sphere instance (object-space AABB [-1,+1]^3) references;
	// a Device is expected to memoize this so it is only actually built
	// once regardless of how many times it's requested.
	BuildBLASProceduralSphere() BLASHandle
	BuildTLAS(instances []InstanceDesc) (TLASHandle, error)
	TraceRay(tlas TLASHandle, ray vmath.Ray, tMin, tMax float32) HitRecord
	// TraceShadowRay is an any-hit query: it reports only whether
	// something blocks the segment, not what or where, so a backend can
	// skip closest-hit bookkeeping on the common path (opaque shadow
	// testing for next-event estimation).
	TraceShadowRay(tlas TLASHandle, ray vmath.Ray, tMin, tMax float32) bool
}
