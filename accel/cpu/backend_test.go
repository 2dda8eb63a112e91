package cpu

import (
	"testing"

	"github.com/hatoo/rene-sub000/accel"
	"github.com/hatoo/rene-sub000/vmath"
)

func TestBackendTraceRayHitsSphere(t *testing.T) {
	b := NewBackend()
	sphere := b.BuildBLASProceduralSphere()
	tlas, err := b.BuildTLAS([]accel.InstanceDesc{
		{BLAS: sphere, Transform: vmath.Affine3FromMat4(vmath.Mat4Identity()), InstanceIndex: 7},
	})
	if err != nil {
		t.Fatalf("BuildTLAS: %v", err)
	}

	ray := vmath.Ray{Origin: vmath.Vec3{X: 0, Y: 0, Z: -5}, Direction: vmath.Vec3{Z: 1}}
	hit := b.TraceRay(tlas, ray, 1e-3, 1000)
	if !hit.Hit {
		t.Fatal("expected a hit")
	}
	if hit.InstanceIndex != 7 {
		t.Errorf("InstanceIndex = %d, want 7", hit.InstanceIndex)
	}
	if diff32(hit.T, 4) > 1e-3 {
		t.Errorf("T = %v, want ~4", hit.T)
	}
	if diff32(hit.GeometricNormal.Z, -1) > 1e-3 {
		t.Errorf("GeometricNormal = %v, want facing -Z", hit.GeometricNormal)
	}
}

func TestBackendTraceRayMissesSphere(t *testing.T) {
	b := NewBackend()
	sphere := b.BuildBLASProceduralSphere()
	tlas, _ := b.BuildTLAS([]accel.InstanceDesc{
		{BLAS: sphere, Transform: vmath.Affine3FromMat4(vmath.Mat4Identity())},
	})
	ray := vmath.Ray{Origin: vmath.Vec3{X: 5, Y: 0, Z: -5}, Direction: vmath.Vec3{Z: 1}}
	if hit := b.TraceRay(tlas, ray, 1e-3, 1000); hit.Hit {
		t.Errorf("expected a miss, got hit at t=%v", hit.T)
	}
}

func TestBackendTraceRayHitsTranslatedTriangle(t *testing.T) {
	b := NewBackend()
	mesh, err := b.BuildBLASTriangles(accel.TriangleMeshDesc{
		Vertices: []vmath.Vec3{
			{X: -1, Y: -1, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: 0, Y: 1, Z: 0},
		},
		Indices: []uint32{0, 1, 2},
	})
	if err != nil {
		t.Fatalf("BuildBLASTriangles: %v", err)
	}
	transform := vmath.Affine3FromMat4(vmath.Mat4Translation(vmath.Vec3{Z: 3}))
	tlas, _ := b.BuildTLAS([]accel.InstanceDesc{{BLAS: mesh, Transform: transform}})

	ray := vmath.Ray{Origin: vmath.Vec3{}, Direction: vmath.Vec3{Z: 1}}
	hit := b.TraceRay(tlas, ray, 1e-3, 1000)
	if !hit.Hit {
		t.Fatal("expected a hit")
	}
	if diff32(hit.T, 3) > 1e-3 {
		t.Errorf("T = %v, want ~3", hit.T)
	}
}

func TestBackendTraceShadowRayBlocks(t *testing.T) {
	b := NewBackend()
	sphere := b.BuildBLASProceduralSphere()
	tlas, _ := b.BuildTLAS([]accel.InstanceDesc{
		{BLAS: sphere, Transform: vmath.Affine3FromMat4(vmath.Mat4Identity())},
	})
	ray := vmath.Ray{Origin: vmath.Vec3{X: 0, Y: 0, Z: -5}, Direction: vmath.Vec3{Z: 1}}
	if !b.TraceShadowRay(tlas, ray, 1e-3, 1000) {
		t.Error("expected shadow ray to be blocked")
	}
	if b.TraceShadowRay(tlas, ray, 1e-3, 3) {
		t.Error("expected shadow ray bounded short of the sphere to be unblocked")
	}
}

func diff32(a, b float32) float32 {
	if a < b {
		return b - a
	}
	return a - b
}
