package integrate

import (
	"fmt"

	"github.com/hatoo/rene-sub000/accel"
	"github.com/hatoo/rene-sub000/scenelower"
	"github.com/hatoo/rene-sub000/vmath"
)

// builtScene bundles a LoweredScene with the acceleration structures built
// over it: one TLAS over every instance, one restricted to emissive
// instances for light-sampling PDF evaluation.
type builtScene struct {
	scene      *scenelower.LoweredScene
	device     accel.Device
	mainTLAS   accel.TLASHandle
	lightTLAS  accel.TLASHandle
	lightCount int // number of instances in lightTLAS, for uniform light-picking pdf
}

// buildScene constructs one BLAS per mesh (plus the single shared sphere
// BLAS, built lazily on first use), then the two TLASes described in the
// accel package doc comment.
func buildScene(device accel.Device, scene *scenelower.LoweredScene) (*builtScene, error) {
	meshBLAS := make([]accel.BLASHandle, len(scene.Meshes))
	for i, mesh := range scene.Meshes {
		vertices := make([]vmath.Vec3, mesh.VertexEnd-mesh.VertexStart)
		for j := mesh.VertexStart; j < mesh.VertexEnd; j++ {
			vertices[j-mesh.VertexStart] = scene.Vertices[j].Position
		}
		indices := scene.Indices[mesh.IndexStart:mesh.IndexEnd]
		rel := make([]uint32, len(indices))
		for k, idx := range indices {
			rel[k] = idx - uint32(mesh.VertexStart)
		}
		handle, err := device.BuildBLASTriangles(accel.TriangleMeshDesc{Vertices: vertices, Indices: rel})
		if err != nil {
			return nil, fmt.Errorf("building BLAS for mesh %d: %w", i, err)
		}
		meshBLAS[i] = handle
	}

	var sphereBLAS accel.BLASHandle
	haveSphere := false
	for _, inst := range scene.Instances {
		if inst.Kind == scenelower.InstanceSphere {
			if !haveSphere {
				sphereBLAS = device.BuildBLASProceduralSphere()
				haveSphere = true
			}
			break
		}
	}

	all := make([]accel.InstanceDesc, len(scene.Instances))
	var emissive []accel.InstanceDesc
	for i, inst := range scene.Instances {
		var blas accel.BLASHandle
		if inst.Kind == scenelower.InstanceSphere {
			blas = sphereBLAS
		} else {
			blas = meshBLAS[inst.MeshIndex]
		}
		desc := accel.InstanceDesc{BLAS: blas, Transform: inst.Transform, InstanceIndex: i}
		all[i] = desc
		if inst.AreaLightIndex != 0 {
			emissive = append(emissive, desc)
		}
	}

	mainTLAS, err := device.BuildTLAS(all)
	if err != nil {
		return nil, fmt.Errorf("building main TLAS: %w", err)
	}
	lightTLAS, err := device.BuildTLAS(emissive)
	if err != nil {
		return nil, fmt.Errorf("building emissive TLAS: %w", err)
	}

	return &builtScene{
		scene:      scene,
		device:     device,
		mainTLAS:   mainTLAS,
		lightTLAS:  lightTLAS,
		lightCount: len(emissive),
	}, nil
}
