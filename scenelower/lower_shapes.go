package scenelower

import (
	"fmt"

	"github.com/hatoo/rene-sub000/dsl"
	"github.com/hatoo/rene-sub000/meshio"
	"github.com/hatoo/rene-sub000/vmath"
)

// buildShape handles a Shape directive, appending one or more Instances
// (and, for mesh shapes, a new Mesh slice into the shared vertex/index
// arrays) using the current graphics state's transform/material/area-light
// bindings.
func (l *Lowerer) buildShape(state graphicsState, d dsl.Directive) error {
	if state.materialIndex < 0 {
		return fmt.Errorf("shape %q: no material bound", d.Name)
	}
	switch d.Name {
	case "sphere":
		return l.buildSphere(state, d)
	case "trianglemesh":
		return l.buildTriangleMesh(state, d.Args)
	case "plymesh":
		return l.buildExternalMesh(state, "ply", d.Args)
	case "gltfmesh":
		return l.buildExternalMesh(state, "gltf", d.Args)
	default:
		return fmt.Errorf("unknown shape type %q", d.Name)
	}
}

func (l *Lowerer) buildSphere(state graphicsState, d dsl.Directive) error {
	radius := getFloat(d.Args, "radius", 1)
	transform := state.transform.Mul(vmath.Mat4Scale(vmath.Vec3{X: radius, Y: radius, Z: radius}))
	l.scene.Instances = append(l.scene.Instances, Instance{
		Kind:               InstanceSphere,
		Transform:          vmath.Affine3FromMat4(transform),
		MaterialIndex:      state.materialIndex,
		AreaLightIndex:     state.areaLightIndex,
		MediumInsideIndex:  state.insideMedium,
		MediumOutsideIndex: state.outsideMedium,
	})
	return nil
}

func (l *Lowerer) buildTriangleMesh(state graphicsState, args dsl.ArgList) error {
	points, err := getPointList(args, "P")
	if err != nil {
		return fmt.Errorf("trianglemesh: P %w", err)
	}
	if len(points) == 0 {
		return fmt.Errorf("trianglemesh: missing point P")
	}
	indices := getIntList(args, "indices")
	if len(indices)%3 != 0 {
		return fmt.Errorf("trianglemesh: indices length mismatch, %d is not a multiple of 3", len(indices))
	}
	normals, err := getPointList(args, "N")
	if err != nil {
		return fmt.Errorf("trianglemesh: N %w", err)
	}
	if len(normals) > 0 && len(normals) != len(points) {
		return fmt.Errorf("trianglemesh: N length %d does not match P length %d", len(normals), len(points))
	}
	uvs := getFloatList(args, "uv")
	if len(uvs) > 0 && len(uvs) != 2*len(points) {
		return fmt.Errorf("trianglemesh: uv length %d does not match 2*len(P)=%d", len(uvs), 2*len(points))
	}

	vertexStart := len(l.scene.Vertices)
	for i, p := range points {
		v := Vertex{Position: p}
		if len(normals) > 0 {
			v.Normal = normals[i]
		}
		if len(uvs) > 0 {
			v.UV = vmath.Vec2{X: uvs[2*i], Y: uvs[2*i+1]}
		}
		l.scene.Vertices = append(l.scene.Vertices, v)
	}

	indexStart := len(l.scene.Indices)
	for _, idx := range indices {
		l.scene.Indices = append(l.scene.Indices, uint32(idx)+uint32(vertexStart))
	}

	meshIndex := len(l.scene.Meshes)
	l.scene.Meshes = append(l.scene.Meshes, Mesh{
		VertexStart: vertexStart, VertexEnd: len(l.scene.Vertices),
		IndexStart: indexStart, IndexEnd: len(l.scene.Indices),
	})
	l.scene.Instances = append(l.scene.Instances, Instance{
		Kind:               InstanceTriangleMesh,
		Transform:          vmath.Affine3FromMat4(state.transform),
		MeshIndex:          meshIndex,
		MaterialIndex:      state.materialIndex,
		AreaLightIndex:     state.areaLightIndex,
		MediumInsideIndex:  state.insideMedium,
		MediumOutsideIndex: state.outsideMedium,
	})
	return nil
}

func (l *Lowerer) buildExternalMesh(state graphicsState, format string, args dsl.ArgList) error {
	if l.meshLoader == nil {
		return fmt.Errorf("%smesh: no mesh loader configured", format)
	}
	filename := getString(args, "filename", "")
	if filename == "" {
		return fmt.Errorf("%smesh: missing filename", format)
	}
	meshes, err := l.meshLoader.LoadMesh(format, filename)
	if err != nil {
		return fmt.Errorf("%smesh %q: %w", format, filename, err)
	}
	for _, md := range meshes {
		if err := l.appendLoadedMesh(state, md); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) appendLoadedMesh(state graphicsState, md *meshio.MeshData) error {
	if len(md.Indices)%3 != 0 {
		return fmt.Errorf("loaded mesh: index count length mismatch, %d is not a multiple of 3", len(md.Indices))
	}
	vertexStart := len(l.scene.Vertices)
	for i, p := range md.Positions {
		v := Vertex{Position: p}
		if i < len(md.Normals) {
			v.Normal = md.Normals[i]
		}
		if i < len(md.UVs) {
			v.UV = md.UVs[i]
		}
		l.scene.Vertices = append(l.scene.Vertices, v)
	}
	indexStart := len(l.scene.Indices)
	for _, idx := range md.Indices {
		l.scene.Indices = append(l.scene.Indices, idx+uint32(vertexStart))
	}
	meshIndex := len(l.scene.Meshes)
	l.scene.Meshes = append(l.scene.Meshes, Mesh{
		VertexStart: vertexStart, VertexEnd: len(l.scene.Vertices),
		IndexStart: indexStart, IndexEnd: len(l.scene.Indices),
	})
	l.scene.Instances = append(l.scene.Instances, Instance{
		Kind:               InstanceTriangleMesh,
		Transform:          vmath.Affine3FromMat4(state.transform),
		MeshIndex:          meshIndex,
		MaterialIndex:      state.materialIndex,
		AreaLightIndex:     state.areaLightIndex,
		MediumInsideIndex:  state.insideMedium,
		MediumOutsideIndex: state.outsideMedium,
	})
	return nil
}
