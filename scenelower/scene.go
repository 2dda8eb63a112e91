// Package scenelower implements the lowering pass: a single left-to-right
// fold over the parsed AST that resolves graphics state (current transform,
// current material, attribute-scoped nesting, named textures/materials)
// into the flat, GPU-ready LoweredScene.
package scenelower

import (
	"github.com/hatoo/rene-sub000/gpu"
	"github.com/hatoo/rene-sub000/vmath"
)

// Film is the output image descriptor from the Film directive.
type Film struct {
	Filename    string
	XResolution int
	YResolution int
}

// Camera is the lowered perspective camera.
type Camera struct {
	CameraToWorld vmath.Mat4
	Projection    vmath.Mat4 // inverse of the perspective projection
	FOV           float32
}

// Vertex is one lowered mesh vertex.
type Vertex struct {
	Position vmath.Vec3
	Normal   vmath.Vec3 // zero vector means "compute from face"
	UV       vmath.Vec2
}

// Mesh is a triangle mesh's slice of the global vertex/index arrays.
type Mesh struct {
	VertexStart, VertexEnd int
	IndexStart, IndexEnd   int
}

// InstanceKind distinguishes which bottom-level geometry an instance
// references, selecting which BLAS (the shared sphere or the instance's
// mesh) the acceleration builder attaches to it.
type InstanceKind int

const (
	InstanceSphere InstanceKind = iota
	InstanceTriangleMesh
)

// Instance is one shape occurrence in the lowered scene.
type Instance struct {
	Kind                 InstanceKind
	Transform            vmath.Affine3
	MeshIndex            int // valid when Kind == InstanceTriangleMesh
	MaterialIndex        int
	AreaLightIndex       int // 0 == null sentinel
	MediumInsideIndex    int
	MediumOutsideIndex   int
}

// LoweredScene is everything the acceleration-structure builder and
// integrator need; it carries no names, only integer indices.
type LoweredScene struct {
	Film   Film
	Camera Camera

	Textures   []gpu.Texture
	Materials  []gpu.Material
	Lights     []gpu.Light
	AreaLights []gpu.AreaLight
	Media      []gpu.Medium

	Vertices []Vertex
	Indices  []uint32
	Meshes   []Mesh

	Instances []Instance

	SamplesPerPixel int
}

// EmissiveInstances returns the subset of Instances whose area-light index
// is non-null, the contents of the emissive-only TLAS.
func (s *LoweredScene) EmissiveInstances() []int {
	var out []int
	for i, inst := range s.Instances {
		if inst.AreaLightIndex != 0 {
			out = append(out, i)
		}
	}
	return out
}
